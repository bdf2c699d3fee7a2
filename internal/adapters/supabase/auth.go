package supabase

import (
	"context"
	"net/http"

	"localtradefinder-api/internal/models"
)

// GetUser resolves the account behind a session access token. The request
// carries the public key as apikey and the caller's token as bearer.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*models.Identity, error) {
	req := c.http.R().
		SetContext(ctx).
		SetHeader("apikey", c.anonKey).
		SetAuthToken(accessToken)

	resp, err := c.execute("GetUser", req, http.MethodGet, "/auth/v1/user")
	if err != nil {
		return nil, err
	}
	return decodeIdentity(resp)
}

// CreateUser registers a confirmed email/password account with the service key
func (c *Client) CreateUser(ctx context.Context, email, password string) (*models.Identity, error) {
	req := c.request(ctx, ServiceKey).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"email":         email,
			"password":      password,
			"email_confirm": true,
		})

	resp, err := c.execute("CreateUser", req, http.MethodPost, "/auth/v1/admin/users")
	if err != nil {
		return nil, err
	}
	return decodeIdentity(resp)
}

// PasswordGrant exchanges email and password for a session. The reply is
// returned untouched.
func (c *Client) PasswordGrant(ctx context.Context, email, password string) (*Response, error) {
	req := c.request(ctx, PublicKey).
		SetHeader("Content-Type", "application/json").
		SetQueryParam("grant_type", "password").
		SetBody(map[string]string{
			"email":    email,
			"password": password,
		})
	return c.execute("PasswordGrant", req, http.MethodPost, "/auth/v1/token")
}

// SendMagicLink emails a one-time login link, creating the account if needed
func (c *Client) SendMagicLink(ctx context.Context, email, redirectTo string) error {
	req := c.request(ctx, PublicKey).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"email":       email,
			"create_user": true,
			"options": map[string]string{
				"emailRedirectTo": redirectTo,
			},
		})

	_, err := c.execute("SendMagicLink", req, http.MethodPost, "/auth/v1/otp")
	return err
}

func decodeIdentity(resp *Response) (*models.Identity, error) {
	var identity models.Identity
	if err := resp.Decode(&identity); err != nil {
		return nil, err
	}
	if identity.ID == "" {
		return nil, ErrMissingUserID
	}
	return &identity, nil
}
