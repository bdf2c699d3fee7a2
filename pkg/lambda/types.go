package lambda

import (
	"context"
	"encoding/json"
	"strings"
)

// Request represents a generic HTTP request for serverless functions
type Request struct {
	Method      string            `json:"method"`
	Path        string            `json:"path"`
	Headers     map[string]string `json:"headers"`
	QueryParams map[string]string `json:"query_params"`
	Body        []byte            `json:"body"`
	PathParams  map[string]string `json:"path_params"`
}

// Header returns the value of the named header, matching names case-insensitively
func (r *Request) Header(name string) string {
	if r == nil {
		return ""
	}
	if v, ok := r.Headers[name]; ok {
		return v
	}
	for k, v := range r.Headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// Query returns the named query string parameter
func (r *Request) Query(name string) string {
	if r == nil {
		return ""
	}
	return r.QueryParams[name]
}

// Response represents a generic HTTP response for serverless functions
type Response struct {
	StatusCode int               `json:"status_code"`
	Headers    map[string]string `json:"headers"`
	Body       []byte            `json:"body"`
}

// NewResponse creates a response with an empty header set
func NewResponse(status int) *Response {
	return &Response{
		StatusCode: status,
		Headers:    make(map[string]string),
	}
}

// JSONResponse creates a response carrying v encoded as JSON
func JSONResponse(status int, v interface{}) (*Response, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	resp := NewResponse(status)
	resp.Headers["Content-Type"] = "application/json"
	resp.Body = body
	return resp, nil
}

// SetHeaders copies headers onto the response
func (r *Response) SetHeaders(headers map[string]string) *Response {
	if r.Headers == nil {
		r.Headers = make(map[string]string, len(headers))
	}
	for k, v := range headers {
		r.Headers[k] = v
	}
	return r
}

// HandlerFunc is a framework-agnostic handler interface
type HandlerFunc func(ctx context.Context, req *Request) (*Response, error)
