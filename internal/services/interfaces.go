package services

import (
	"context"
	"encoding/json"

	"localtradefinder-api/internal/adapters/supabase"
	"localtradefinder-api/internal/models"
)

// Backend is the subset of the backend client the services depend on
type Backend interface {
	// REST operations
	Select(ctx context.Context, table string, q *supabase.Query) (*supabase.Response, error)
	Insert(ctx context.Context, table string, row interface{}) (*supabase.Response, error)
	Update(ctx context.Context, table string, q *supabase.Query, patch interface{}) (*supabase.Response, error)

	// Auth operations
	GetUser(ctx context.Context, accessToken string) (*models.Identity, error)
	CreateUser(ctx context.Context, email, password string) (*models.Identity, error)
	PasswordGrant(ctx context.Context, email, password string) (*supabase.Response, error)
	SendMagicLink(ctx context.Context, email, redirectTo string) error
}

// ApplicationService defines trader application operations
type ApplicationService interface {
	// Submit creates the trader's auth account then stores the pending
	// application. It returns the stored row, or JSON null if none came back.
	Submit(ctx context.Context, sub *models.ApplicationSubmission) (json.RawMessage, error)

	// Admin operations; replies are relayed untouched
	ListPending(ctx context.Context) (*supabase.Response, error)
	Approve(ctx context.Context, change *models.StatusChange) (*supabase.Response, error)
	Ban(ctx context.Context, change *models.StatusChange) (*supabase.Response, error)
	SearchApproved(ctx context.Context, query string) (*supabase.Response, error)

	// Public directory search
	SearchTraders(ctx context.Context, search *models.TraderSearch) ([]json.RawMessage, error)

	// GetForUser returns the latest application linked to an auth account
	GetForUser(ctx context.Context, authUserID string) (*supabase.Response, error)
}

// ReviewService defines customer review operations
type ReviewService interface {
	Submit(ctx context.Context, customerID string, sub *models.ReviewSubmission) (*supabase.Response, error)
	ListPublished(ctx context.Context, q *models.ReviewQuery) ([]json.RawMessage, error)
}

// AccountService defines session and login operations
type AccountService interface {
	// ResolveSession asks the auth service who owns accessToken
	ResolveSession(ctx context.Context, accessToken string) (*models.Identity, error)
	Login(ctx context.Context, creds *models.Credentials) (*supabase.Response, error)
	SendMagicLink(ctx context.Context, req *models.MagicLinkRequest) error
}

// PhotoService defines profile photo operations
type PhotoService interface {
	// Upload stores the photo and returns its public URL
	Upload(ctx context.Context, upload *models.PhotoUpload) (string, error)
}
