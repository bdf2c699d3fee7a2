package middleware

import (
	"strings"
)

// CORSAllowedHeaders lists the request headers browsers may send
const CORSAllowedHeaders = "Content-Type, Authorization, x-admin-token"

// CORSHeaders returns the cross-origin headers for an endpoint serving method.
// The request origin is echoed back when present.
func CORSHeaders(origin, method string) map[string]string {
	origin = strings.TrimSpace(origin)
	if origin == "" {
		origin = "*"
	}
	return map[string]string{
		"Access-Control-Allow-Origin":  origin,
		"Access-Control-Allow-Headers": CORSAllowedHeaders,
		"Access-Control-Allow-Methods": strings.ToUpper(method) + ", OPTIONS",
		"Vary":                         "Origin",
	}
}
