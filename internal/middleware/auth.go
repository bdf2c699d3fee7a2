package middleware

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

// Access is the trust level an endpoint requires from its caller
type Access int

const (
	// AccessPublic endpoints accept anonymous callers
	AccessPublic Access = iota
	// AccessAdmin endpoints require the shared admin token
	AccessAdmin
	// AccessSession endpoints require a signed-in user's bearer token
	AccessSession
)

func (a Access) String() string {
	switch a {
	case AccessAdmin:
		return "admin"
	case AccessSession:
		return "session"
	default:
		return "public"
	}
}

// Credential is the caller identity resolved for one request. It is exactly
// one of AdminCredential, SessionCredential or AnonymousCredential.
type Credential interface {
	Access() Access
}

// AdminCredential is a caller that presented the admin token
type AdminCredential struct {
	Token string
}

// Access implements Credential
func (AdminCredential) Access() Access { return AccessAdmin }

// SessionCredential is a caller that presented a session bearer token. The
// token has JWT shape but has not been checked by the auth service yet.
type SessionCredential struct {
	Token   string
	Subject string
}

// Access implements Credential
func (SessionCredential) Access() Access { return AccessSession }

// AnonymousCredential is a caller that presented nothing
type AnonymousCredential struct{}

// Access implements Credential
func (AnonymousCredential) Access() Access { return AccessPublic }

// HeaderSource looks up request headers case-insensitively
type HeaderSource interface {
	Header(name string) string
}

// Gatekeeper resolves caller credentials for endpoints
type Gatekeeper struct {
	adminToken string
	parser     *jwt.Parser
}

// NewGatekeeper creates a gatekeeper that accepts adminToken for admin endpoints
func NewGatekeeper(adminToken string) *Gatekeeper {
	return &Gatekeeper{
		adminToken: adminToken,
		parser:     jwt.NewParser(),
	}
}

// CheckMethod rejects any verb other than allowed
func CheckMethod(method, allowed string) error {
	if !strings.EqualFold(method, allowed) {
		return ErrMethodNotAllowed
	}
	return nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header
func BearerToken(h HeaderSource) (string, bool) {
	token, ok := strings.CutPrefix(h.Header("Authorization"), "Bearer ")
	token = strings.TrimSpace(token)
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// AdminToken returns the admin token from x-admin-token, falling back to the bearer token
func AdminToken(h HeaderSource) string {
	if token := strings.TrimSpace(h.Header("x-admin-token")); token != "" {
		return token
	}
	token, _ := BearerToken(h)
	return token
}

// Authorize resolves the credential required by access. No outbound call is
// made; session tokens are only checked for JWT shape here.
func (g *Gatekeeper) Authorize(access Access, h HeaderSource) (Credential, error) {
	switch access {
	case AccessAdmin:
		token := AdminToken(h)
		if token == "" || g.adminToken == "" ||
			subtle.ConstantTimeCompare([]byte(token), []byte(g.adminToken)) != 1 {
			logrus.WithField("access", access.String()).Warn("Admin token rejected")
			return nil, ErrUnauthorized
		}
		return AdminCredential{Token: token}, nil

	case AccessSession:
		token, ok := BearerToken(h)
		if !ok {
			return nil, ErrMissingBearer
		}
		subject, err := g.sessionSubject(token)
		if err != nil {
			logrus.WithError(err).Warn("Session token is malformed")
			return nil, ErrInvalidSession
		}
		return SessionCredential{Token: token, Subject: subject}, nil

	default:
		return AnonymousCredential{}, nil
	}
}

// sessionSubject parses token without verifying its signature; the auth
// service remains the authority on validity.
func (g *Gatekeeper) sessionSubject(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := g.parser.ParseUnverified(token, claims); err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}
	return claims.Subject, nil
}

// Gatekeeper failures
var (
	ErrMethodNotAllowed = NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed")
	ErrUnauthorized     = NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	ErrMissingBearer    = NewHTTPError(http.StatusUnauthorized, "Missing Authorization Bearer token")
	ErrInvalidSession   = NewHTTPError(http.StatusUnauthorized, "Invalid or expired login")
)

// HTTPError is a failure reported to the caller with a fixed status
type HTTPError struct {
	Status  int
	Message string
}

// NewHTTPError creates a new HTTPError
func NewHTTPError(status int, message string) *HTTPError {
	return &HTTPError{Status: status, Message: message}
}

func (e *HTTPError) Error() string {
	return e.Message
}
