package supabase

import (
	"errors"
	"fmt"
)

// Common client error types
var (
	ErrInvalidPath   = errors.New("invalid object path")
	ErrMissingUserID = errors.New("auth response has no user id")
	ErrNotConfigured = errors.New("supabase client is not configured")
)

// StorageError represents a storage operation rejected before it reached the backend
type StorageError struct {
	Op  string // Operation that failed (e.g., "Store")
	Key string // Object key involved in the operation
	Err error  // Underlying error
}

func (e *StorageError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("storage %s operation failed for key '%s': %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("storage %s operation failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError creates a new StorageError
func NewStorageError(op, key string, err error) *StorageError {
	return &StorageError{
		Op:  op,
		Key: key,
		Err: err,
	}
}

// UpstreamError is a non-2xx reply from the backend. The status and body are
// kept intact so handlers can relay them to the caller.
type UpstreamError struct {
	Op          string // Operation that failed (e.g., "Insert", "GetUser")
	Status      int    // HTTP status returned by the backend
	ContentType string // Content type of the backend reply
	Body        []byte // Raw backend reply
}

func (e *UpstreamError) Error() string {
	body := string(e.Body)
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("supabase %s failed with status %d: %s", e.Op, e.Status, body)
}

// NewUpstreamError creates a new UpstreamError
func NewUpstreamError(op string, status int, contentType string, body []byte) *UpstreamError {
	return &UpstreamError{
		Op:          op,
		Status:      status,
		ContentType: contentType,
		Body:        body,
	}
}

// AsUpstream unwraps err into an UpstreamError if it carries one
func AsUpstream(err error) (*UpstreamError, bool) {
	var upstreamErr *UpstreamError
	if errors.As(err, &upstreamErr) {
		return upstreamErr, true
	}
	return nil, false
}

// IsUnauthorized returns true if the backend rejected the credential
func IsUnauthorized(err error) bool {
	if upstreamErr, ok := AsUpstream(err); ok {
		return upstreamErr.Status == 401 || upstreamErr.Status == 403
	}
	return false
}
