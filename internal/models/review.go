package models

import (
	"time"
)

// ReviewStatus represents the moderation state of a review
type ReviewStatus string

const (
	ReviewStatusPublished ReviewStatus = "published"
)

// ReviewsTable is the REST resource holding customer reviews
const ReviewsTable = "reviews"

// MaxReviewsPerTrader caps how many reviews are returned for a trader
const MaxReviewsPerTrader = 50

// Review is a customer's rating of an approved trader
type Review struct {
	ID             string       `json:"id,omitempty"`
	TraderID       string       `json:"trader_id"`
	CustomerID     string       `json:"customer_id"`
	ReviewerUserID string       `json:"reviewer_user_id"`
	Rating         int          `json:"rating"`
	Title          *string      `json:"title"`
	Body           string       `json:"body"`
	Status         ReviewStatus `json:"status"`
	CreatedAt      *time.Time   `json:"created_at,omitempty"`
}

// ReviewSubmission is a normalized review from an authenticated customer
type ReviewSubmission struct {
	TraderID string  `json:"trader_id" validate:"required,canonical_uuid"`
	Rating   int     `json:"rating" validate:"gte=1,lte=5"`
	Title    *string `json:"title"`
	Body     string  `json:"body" validate:"required"`
}

// NewReviewSubmission normalizes and validates a review payload
func NewReviewSubmission(p Payload) (*ReviewSubmission, error) {
	sub := &ReviewSubmission{
		TraderID: p.Text("trader_id"),
		Rating:   ParseRating(p.Raw("rating")),
		Title:    OptionalText(p.String("title"), MaxTitleLength),
		Body:     TruncateRunes(p.Text("body"), MaxReviewBodyLength),
	}

	if err := ValidateStruct(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Review builds the published row for the given customer
func (s *ReviewSubmission) Review(customerID string) *Review {
	return &Review{
		TraderID:       s.TraderID,
		CustomerID:     customerID,
		ReviewerUserID: customerID,
		Rating:         s.Rating,
		Title:          s.Title,
		Body:           s.Body,
		Status:         ReviewStatusPublished,
	}
}

// ReviewQuery selects the published reviews of one trader
type ReviewQuery struct {
	TraderID string `json:"trader_id" validate:"required,canonical_uuid"`
}

// NewReviewQuery normalizes and validates a review listing payload
func NewReviewQuery(p Payload) (*ReviewQuery, error) {
	q := &ReviewQuery{TraderID: p.Text("trader_id")}
	if err := ValidateStruct(q); err != nil {
		return nil, err
	}
	return q, nil
}
