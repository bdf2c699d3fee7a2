package models

import (
	"time"
)

// Field limits applied while normalizing request bodies
const (
	MaxTitleLength      = 120
	MaxReviewBodyLength = 1000
	MaxAdminNotesLength = 1000
	MinPasswordLength   = 8
)

// Identity is an auth account resolved from a bearer session token
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// ValidationError represents a validation error with field-specific details
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Error implements the error interface
func (ve *ValidationError) Error() string {
	return ve.Message
}

// HealthCheck represents system health status
type HealthCheck struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Mode      string    `json:"mode"`
	Timestamp time.Time `json:"timestamp"`
	Functions []string  `json:"functions"`
}
