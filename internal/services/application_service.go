package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"localtradefinder-api/internal/adapters/supabase"
	"localtradefinder-api/internal/models"
)

// Search result limits
const (
	MaxTraderSearchResults   = 30
	MaxApprovedSearchResults = 50
)

// Columns returned by the public directory search
var traderSearchColumns = []string{
	"id", "name", "email", "phone", "trade", "offering", "about",
	"photo_url", "base_town", "base_postcode", "areas_covered",
}

// applicationService implements the ApplicationService interface
type applicationService struct {
	backend Backend
	logger  *logrus.Logger
}

// NewApplicationService creates a new application service instance
func NewApplicationService(backend Backend, logger *logrus.Logger) ApplicationService {
	return &applicationService{
		backend: backend,
		logger:  logger,
	}
}

// Submit creates the auth account first; no application is stored if that fails
func (s *applicationService) Submit(ctx context.Context, sub *models.ApplicationSubmission) (json.RawMessage, error) {
	if sub == nil {
		return nil, fmt.Errorf("application submission cannot be nil")
	}

	user, err := s.backend.CreateUser(ctx, sub.Email, sub.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to create trader account: %w", err)
	}

	resp, err := s.backend.Insert(ctx, models.ApplicationsTable, sub.Application(user.ID))
	if err != nil {
		return nil, fmt.Errorf("failed to store application: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"auth_user_id": user.ID,
		"trade":        sub.Trade,
	}).Info("Trader application submitted")

	rows := resp.Rows()
	if len(rows) == 0 {
		return json.RawMessage("null"), nil
	}
	return rows[0], nil
}

// ListPending returns pending applications, newest first
func (s *applicationService) ListPending(ctx context.Context) (*supabase.Response, error) {
	q := supabase.NewQuery().
		Eq("status", string(models.ApplicationStatusPending)).
		Order("created_at", true)
	return s.backend.Select(ctx, models.ApplicationsTable, q)
}

// Approve marks an application approved
func (s *applicationService) Approve(ctx context.Context, change *models.StatusChange) (*supabase.Response, error) {
	return s.setStatus(ctx, change, models.ApplicationStatusApproved, "")
}

// Ban marks an application banned, recording default notes when none are given
func (s *applicationService) Ban(ctx context.Context, change *models.StatusChange) (*supabase.Response, error) {
	return s.setStatus(ctx, change, models.ApplicationStatusBanned, models.DefaultBanNotes)
}

func (s *applicationService) setStatus(ctx context.Context, change *models.StatusChange, status models.ApplicationStatus, defaultNotes string) (*supabase.Response, error) {
	if change == nil {
		return nil, fmt.Errorf("status change cannot be nil")
	}

	q := supabase.NewQuery().Eq("id", change.ID)
	resp, err := s.backend.Update(ctx, models.ApplicationsTable, q, change.Patch(status, defaultNotes))
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"application_id": change.ID,
		"status":         status,
	}).Info("Application status changed")
	return resp, nil
}

// SearchApproved lists approved traders, optionally matching name, email or trade
func (s *applicationService) SearchApproved(ctx context.Context, query string) (*supabase.Response, error) {
	query = strings.ToLower(strings.TrimSpace(query))

	q := supabase.NewQuery().
		Eq("status", string(models.ApplicationStatusApproved)).
		Order("created_at", true).
		Limit(MaxApprovedSearchResults)

	if query != "" {
		pattern := "*" + query + "*"
		q.Or(
			supabase.IlikeCondition("name", pattern),
			supabase.IlikeCondition("email", pattern),
			supabase.IlikeCondition("trade", pattern),
		)
	}

	return s.backend.Select(ctx, models.ApplicationsTable, q)
}

// SearchTraders finds approved traders of a trade covering a region whose
// offering matches the requested work type or both types
func (s *applicationService) SearchTraders(ctx context.Context, search *models.TraderSearch) ([]json.RawMessage, error) {
	if search == nil {
		return nil, fmt.Errorf("trader search cannot be nil")
	}

	q := supabase.NewQuery().
		Select(traderSearchColumns...).
		Eq("status", string(models.ApplicationStatusApproved)).
		Eq("trade", search.Trade).
		Contains("areas_covered", search.Region).
		Or(
			supabase.IlikeCondition("offering", "*"+search.Offering()+"*"),
			supabase.IlikeCondition("offering", "*Both*"),
		).
		Order("created_at", true).
		Limit(MaxTraderSearchResults)

	resp, err := s.backend.Select(ctx, models.ApplicationsTable, q)
	if err != nil {
		return nil, err
	}
	return resp.Rows(), nil
}

// GetForUser returns the newest application linked to authUserID
func (s *applicationService) GetForUser(ctx context.Context, authUserID string) (*supabase.Response, error) {
	if authUserID == "" {
		return nil, fmt.Errorf("auth user ID cannot be empty")
	}

	q := supabase.NewQuery().
		Eq("auth_user_id", authUserID).
		Order("created_at", true).
		Limit(1)
	return s.backend.Select(ctx, models.ApplicationsTable, q)
}
