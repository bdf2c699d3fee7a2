package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/url"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"

	"localtradefinder-api/internal/adapters/supabase"
	"localtradefinder-api/internal/middleware"
	"localtradefinder-api/internal/models"
)

type backendCall struct {
	Op    string
	Table string
	Query url.Values
	Body  interface{}
}

// fakeBackend records calls and answers from preset replies
type fakeBackend struct {
	mu    sync.Mutex
	calls []backendCall

	user      *models.Identity
	userErr   error
	createErr error
	reply     *supabase.Response
	replyErr  error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		user:  &models.Identity{ID: "user-1", Email: "u@example.com"},
		reply: &supabase.Response{Status: 200, ContentType: "application/json", Body: []byte(`[{"id":"row-1"}]`)},
	}
}

func (f *fakeBackend) record(call backendCall) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeBackend) Calls() []backendCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]backendCall(nil), f.calls...)
}

func (f *fakeBackend) Select(ctx context.Context, table string, q *supabase.Query) (*supabase.Response, error) {
	f.record(backendCall{Op: "Select", Table: table, Query: q.Values()})
	return f.reply, f.replyErr
}

func (f *fakeBackend) Insert(ctx context.Context, table string, row interface{}) (*supabase.Response, error) {
	f.record(backendCall{Op: "Insert", Table: table, Body: row})
	return f.reply, f.replyErr
}

func (f *fakeBackend) Update(ctx context.Context, table string, q *supabase.Query, patch interface{}) (*supabase.Response, error) {
	f.record(backendCall{Op: "Update", Table: table, Query: q.Values(), Body: patch})
	return f.reply, f.replyErr
}

func (f *fakeBackend) GetUser(ctx context.Context, accessToken string) (*models.Identity, error) {
	f.record(backendCall{Op: "GetUser", Body: accessToken})
	return f.user, f.userErr
}

func (f *fakeBackend) CreateUser(ctx context.Context, email, password string) (*models.Identity, error) {
	f.record(backendCall{Op: "CreateUser", Body: email})
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.user, nil
}

func (f *fakeBackend) PasswordGrant(ctx context.Context, email, password string) (*supabase.Response, error) {
	f.record(backendCall{Op: "PasswordGrant", Body: email})
	return f.reply, f.replyErr
}

func (f *fakeBackend) SendMagicLink(ctx context.Context, email, redirectTo string) error {
	f.record(backendCall{Op: "SendMagicLink", Body: redirectTo})
	return f.replyErr
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestNewServiceContainer(t *testing.T) {
	if _, err := NewServiceContainer(nil, supabase.NewMockObjectStorage(), nil); err == nil {
		t.Error("Expected error for nil backend")
	}
	if _, err := NewServiceContainer(newFakeBackend(), nil, nil); err == nil {
		t.Error("Expected error for nil storage")
	}

	container, err := NewServiceContainer(newFakeBackend(), supabase.NewMockObjectStorage(), nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if container.Applications == nil || container.Reviews == nil || container.Accounts == nil || container.Photos == nil {
		t.Error("Expected every service to be created")
	}
}

func TestAccountService_ResolveSession(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		backend := newFakeBackend()
		svc := NewAccountService(backend, middleware.DefaultRedirectPolicy, quietLogger())

		identity, err := svc.ResolveSession(context.Background(), "token")
		if err != nil || identity.ID != "user-1" {
			t.Errorf("Unexpected result %v, %v", identity, err)
		}
	})

	t.Run("rejected", func(t *testing.T) {
		backend := newFakeBackend()
		backend.userErr = supabase.NewUpstreamError("GetUser", 401, "application/json", []byte(`{}`))
		svc := NewAccountService(backend, middleware.DefaultRedirectPolicy, quietLogger())

		if _, err := svc.ResolveSession(context.Background(), "token"); !errors.Is(err, middleware.ErrInvalidSession) {
			t.Errorf("Expected ErrInvalidSession, got %v", err)
		}
	})

	t.Run("transport failure", func(t *testing.T) {
		backend := newFakeBackend()
		backend.userErr = errors.New("connection refused")
		svc := NewAccountService(backend, middleware.DefaultRedirectPolicy, quietLogger())

		_, err := svc.ResolveSession(context.Background(), "token")
		if err == nil || errors.Is(err, middleware.ErrInvalidSession) {
			t.Errorf("Expected transport error to pass through, got %v", err)
		}
	})
}

func TestAccountService_SendMagicLink(t *testing.T) {
	tests := []struct {
		name     string
		redirect string
		want     string
	}{
		{"allowed", "https://www.localtradefinder-uk.com/review", "https://www.localtradefinder-uk.com/review"},
		{"disallowed", "https://evil.com", middleware.DefaultRedirectPolicy.Fallback},
		{"missing", "", middleware.DefaultRedirectPolicy.Fallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := newFakeBackend()
			svc := NewAccountService(backend, middleware.DefaultRedirectPolicy, quietLogger())

			err := svc.SendMagicLink(context.Background(), &models.MagicLinkRequest{Email: "c@example.com", RedirectTo: tt.redirect})
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}

			calls := backend.Calls()
			if len(calls) != 1 || calls[0].Body != tt.want {
				t.Errorf("Expected redirect %q, got %+v", tt.want, calls)
			}
		})
	}
}

func TestAccountService_Login(t *testing.T) {
	backend := newFakeBackend()
	backend.reply = &supabase.Response{Status: 200, Body: []byte(`{"access_token":"a"}`)}
	svc := NewAccountService(backend, middleware.DefaultRedirectPolicy, quietLogger())

	resp, err := svc.Login(context.Background(), &models.Credentials{Email: "t@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if string(resp.Body) != `{"access_token":"a"}` {
		t.Errorf("Expected session relayed, got %s", resp.Body)
	}
}

func decodeRow(t *testing.T, raw json.RawMessage) map[string]interface{} {
	t.Helper()
	var row map[string]interface{}
	if err := json.Unmarshal(raw, &row); err != nil {
		t.Fatalf("Invalid row %s: %v", raw, err)
	}
	return row
}
