package models

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cast"
)

// Payload is a loosely typed JSON request body
type Payload map[string]interface{}

// DecodePayload parses body as a JSON object. Empty, malformed or non-object
// bodies decode to an empty payload so that field validation reports them.
func DecodePayload(body []byte) Payload {
	var p Payload
	if err := json.Unmarshal(body, &p); err != nil || p == nil {
		return Payload{}
	}
	return p
}

// Raw returns the undecoded value stored under key
func (p Payload) Raw(key string) interface{} {
	return p[key]
}

// String returns the value under key coerced to a string; absent, null and
// non-scalar values yield ""
func (p Payload) String(key string) string {
	v, ok := p[key]
	if !ok || v == nil {
		return ""
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return s
}

// Text returns the trimmed string value under key
func (p Payload) Text(key string) string {
	return strings.TrimSpace(p.String(key))
}

// Strings returns the trimmed, non-blank entries of a JSON array under key.
// A missing or non-array value yields nil.
func (p Payload) Strings(key string) []string {
	items, ok := p[key].([]interface{})
	if !ok {
		return nil
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		s := strings.TrimSpace(cast.ToString(item))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
