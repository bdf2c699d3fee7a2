package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"localtradefinder-api/internal/adapters/supabase"
	"localtradefinder-api/internal/middleware"
	"localtradefinder-api/internal/models"
)

// accountService implements the AccountService interface
type accountService struct {
	backend  Backend
	redirect middleware.RedirectPolicy
	logger   *logrus.Logger
}

// NewAccountService creates a new account service instance
func NewAccountService(backend Backend, redirect middleware.RedirectPolicy, logger *logrus.Logger) AccountService {
	return &accountService{
		backend:  backend,
		redirect: redirect,
		logger:   logger,
	}
}

// ResolveSession maps any rejection by the auth service to ErrInvalidSession.
// Transport failures are returned as-is.
func (s *accountService) ResolveSession(ctx context.Context, accessToken string) (*models.Identity, error) {
	identity, err := s.backend.GetUser(ctx, accessToken)
	if err != nil {
		if _, ok := supabase.AsUpstream(err); ok || errors.Is(err, supabase.ErrMissingUserID) {
			s.logger.WithError(err).Warn("Session rejected by auth service")
			return nil, middleware.ErrInvalidSession
		}
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}
	return identity, nil
}

// Login exchanges credentials for a session
func (s *accountService) Login(ctx context.Context, creds *models.Credentials) (*supabase.Response, error) {
	if creds == nil {
		return nil, fmt.Errorf("credentials cannot be nil")
	}
	return s.backend.PasswordGrant(ctx, creds.Email, creds.Password)
}

// SendMagicLink emails a login link whose redirect target has been sanitized
func (s *accountService) SendMagicLink(ctx context.Context, req *models.MagicLinkRequest) error {
	if req == nil {
		return fmt.Errorf("magic link request cannot be nil")
	}

	redirectTo := s.redirect.Sanitize(req.RedirectTo)
	if redirectTo != req.RedirectTo && req.RedirectTo != "" {
		s.logger.WithField("redirect_to", redirectTo).Warn("Disallowed redirect replaced with fallback")
	}

	return s.backend.SendMagicLink(ctx, req.Email, redirectTo)
}
