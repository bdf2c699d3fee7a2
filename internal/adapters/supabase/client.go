// Package supabase is a thin client for the hosted backend's REST, auth and
// storage surfaces. Each call issues exactly one request and never retries.
package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// Key selects which backend credential a request is signed with
type Key int

const (
	// PublicKey is the low-privilege anon key
	PublicKey Key = iota
	// ServiceKey is the high-privilege service role key
	ServiceKey
)

func (k Key) String() string {
	if k == ServiceKey {
		return "service"
	}
	return "public"
}

// Options configures a Client
type Options struct {
	URL            string
	AnonKey        string
	ServiceRoleKey string
	HTTPClient     *http.Client
	Logger         *logrus.Logger
}

// Client talks to one backend project
type Client struct {
	baseURL    string
	anonKey    string
	serviceKey string
	http       *resty.Client
	logger     *logrus.Logger
}

// Response is a successful backend reply kept in its raw form
type Response struct {
	Status      int
	ContentType string
	Body        []byte
}

// Decode unmarshals the reply body into v
func (r *Response) Decode(v interface{}) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode backend reply: %w", err)
	}
	return nil
}

// Rows decodes a JSON array reply. A non-array reply yields an empty list.
func (r *Response) Rows() []json.RawMessage {
	var rows []json.RawMessage
	if err := json.Unmarshal(r.Body, &rows); err != nil || rows == nil {
		return []json.RawMessage{}
	}
	return rows
}

// New creates a client for the project at opts.URL
func New(opts Options) *Client {
	var rc *resty.Client
	if opts.HTTPClient != nil {
		rc = resty.NewWithClient(opts.HTTPClient)
	} else {
		rc = resty.New()
	}
	rc.SetRetryCount(0)

	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Client{
		baseURL:    strings.TrimRight(opts.URL, "/"),
		anonKey:    opts.AnonKey,
		serviceKey: opts.ServiceRoleKey,
		http:       rc,
		logger:     logger,
	}
}

// BaseURL returns the project URL without a trailing slash
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Close releases idle keep-alive connections
func (c *Client) Close() error {
	c.http.GetClient().CloseIdleConnections()
	return nil
}

func (c *Client) key(k Key) string {
	if k == ServiceKey {
		return c.serviceKey
	}
	return c.anonKey
}

// request starts a request signed with the given key as both apikey and bearer
func (c *Client) request(ctx context.Context, k Key) *resty.Request {
	key := c.key(k)
	return c.http.R().
		SetContext(ctx).
		SetHeader("apikey", key).
		SetAuthToken(key)
}

// execute sends req and converts non-2xx replies into an UpstreamError
func (c *Client) execute(op string, req *resty.Request, method, path string) (*Response, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("supabase %s: %w", op, ErrNotConfigured)
	}

	start := time.Now()
	resp, err := req.Execute(method, c.baseURL+path)
	if err != nil {
		c.logger.WithError(err).WithFields(logrus.Fields{
			"op":     op,
			"method": method,
		}).Error("Backend request failed")
		return nil, fmt.Errorf("supabase %s: %w", op, err)
	}

	out := &Response{
		Status:      resp.StatusCode(),
		ContentType: resp.Header().Get("Content-Type"),
		Body:        resp.Body(),
	}

	fields := logrus.Fields{
		"op":         op,
		"method":     method,
		"status":     out.Status,
		"latency_ms": time.Since(start).Milliseconds(),
	}

	if !resp.IsSuccess() {
		c.logger.WithFields(fields).Warn("Backend returned an error status")
		return nil, NewUpstreamError(op, out.Status, out.ContentType, out.Body)
	}

	c.logger.WithFields(fields).Debug("Backend request completed")
	return out, nil
}
