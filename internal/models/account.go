package models

import (
	"strings"
)

// Credentials is a trader email/password login request
type Credentials struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// NewCredentials normalizes and validates a login payload
func NewCredentials(p Payload) (*Credentials, error) {
	creds := &Credentials{
		Email:    NormalizeEmail(p.String("email")),
		Password: p.String("password"),
	}
	if err := ValidateStruct(creds); err != nil {
		return nil, &ValidationError{Field: "email,password", Message: "Email and password are required."}
	}
	return creds, nil
}

// MagicLinkRequest asks the auth service to email a passwordless login link
type MagicLinkRequest struct {
	Email      string `json:"email" validate:"required"`
	RedirectTo string `json:"redirectTo"`
}

// NewMagicLinkRequest normalizes and validates a magic link payload. The
// redirect target is kept raw; callers must sanitize it before use.
func NewMagicLinkRequest(p Payload) (*MagicLinkRequest, error) {
	req := &MagicLinkRequest{
		Email:      p.Text("email"),
		RedirectTo: p.Text("redirectTo"),
	}
	if err := ValidateStruct(req); err != nil {
		return nil, err
	}
	return req, nil
}

// InvalidImageMessage is reported for any unusable upload payload
const InvalidImageMessage = "Missing or invalid image (mime/base64)"

// PhotoUpload is a base64-encoded profile image
type PhotoUpload struct {
	MIME   string `json:"mime" validate:"required,startswith=image/"`
	Base64 string `json:"base64" validate:"required"`
}

// NewPhotoUpload normalizes and validates an upload payload
func NewPhotoUpload(p Payload) (*PhotoUpload, error) {
	upload := &PhotoUpload{
		MIME:   strings.ToLower(p.Text("mime")),
		Base64: p.Text("base64"),
	}
	if err := ValidateStruct(upload); err != nil {
		return nil, &ValidationError{Field: "mime,base64", Message: InvalidImageMessage}
	}
	return upload, nil
}

// Extension returns the object file extension for the declared MIME type
func (u *PhotoUpload) Extension() string {
	switch u.MIME {
	case "image/png":
		return "png"
	case "image/webp":
		return "webp"
	default:
		return "jpg"
	}
}
