package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"localtradefinder-api/internal/adapters/supabase"
	"localtradefinder-api/internal/models"
)

// reviewService implements the ReviewService interface
type reviewService struct {
	backend Backend
	logger  *logrus.Logger
}

// NewReviewService creates a new review service instance
func NewReviewService(backend Backend, logger *logrus.Logger) ReviewService {
	return &reviewService{
		backend: backend,
		logger:  logger,
	}
}

// Submit publishes a review written by customerID
func (s *reviewService) Submit(ctx context.Context, customerID string, sub *models.ReviewSubmission) (*supabase.Response, error) {
	if sub == nil {
		return nil, fmt.Errorf("review submission cannot be nil")
	}
	if customerID == "" {
		return nil, fmt.Errorf("customer ID cannot be empty")
	}

	resp, err := s.backend.Insert(ctx, models.ReviewsTable, sub.Review(customerID))
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"trader_id":   sub.TraderID,
		"customer_id": customerID,
		"rating":      sub.Rating,
	}).Info("Review published")
	return resp, nil
}

// ListPublished returns a trader's published reviews, newest first
func (s *reviewService) ListPublished(ctx context.Context, rq *models.ReviewQuery) ([]json.RawMessage, error) {
	if rq == nil {
		return nil, fmt.Errorf("review query cannot be nil")
	}

	q := supabase.NewQuery().
		Select("rating", "title", "body", "created_at").
		Eq("trader_id", rq.TraderID).
		Eq("status", string(models.ReviewStatusPublished)).
		Order("created_at", true).
		Limit(models.MaxReviewsPerTrader)

	resp, err := s.backend.Select(ctx, models.ReviewsTable, q)
	if err != nil {
		return nil, err
	}
	return resp.Rows(), nil
}
