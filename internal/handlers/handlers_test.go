package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"localtradefinder-api/internal/adapters/supabase"
	"localtradefinder-api/internal/config"
	"localtradefinder-api/internal/middleware"
	"localtradefinder-api/internal/services"
	"localtradefinder-api/pkg/lambda"
)

const (
	testAdminToken = "admin-secret"
	testTraderID   = "123e4567-e89b-12d3-a456-426614174000"
)

type backendCall struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

type cannedReply struct {
	status      int
	contentType string
	body        string
}

// fakeSupabase answers by request path and records every call
type fakeSupabase struct {
	mu      sync.Mutex
	calls   []backendCall
	replies map[string]cannedReply
	server  *httptest.Server
}

func newFakeSupabase(t *testing.T) *fakeSupabase {
	t.Helper()
	fs := &fakeSupabase{replies: map[string]cannedReply{
		"/auth/v1/admin/users":         {status: 200, body: `{"id":"user-1","email":"jane@example.com"}`},
		"/auth/v1/user":                {status: 200, body: `{"id":"customer-1","email":"c@example.com"}`},
		"/rest/v1/trader_applications": {status: 200, body: `[{"id":"row-1","status":"pending"}]`},
		"/rest/v1/reviews":             {status: 201, body: `[{"id":"review-1"}]`},
		"/auth/v1/token":               {status: 200, body: `{"access_token":"at","refresh_token":"rt"}`},
		"/auth/v1/otp":                 {status: 200, body: `{}`},
		"/storage/v1/object/":          {status: 200, body: `{"Key":"ok"}`},
	}}
	fs.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		fs.mu.Lock()
		fs.calls = append(fs.calls, backendCall{Method: r.Method, Path: r.URL.Path, Header: r.Header.Clone(), Body: data})
		reply, ok := fs.replies[r.URL.Path]
		if !ok && strings.HasPrefix(r.URL.Path, "/storage/v1/object/") {
			reply, ok = fs.replies["/storage/v1/object/"]
		}
		fs.mu.Unlock()

		if !ok {
			reply = cannedReply{status: 404, body: `{"message":"not found"}`}
		}
		contentType := reply.contentType
		if contentType == "" {
			contentType = "application/json"
		}
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(reply.status)
		_, _ = w.Write([]byte(reply.body))
	}))
	t.Cleanup(fs.server.Close)
	return fs
}

func (fs *fakeSupabase) reply(path string, status int, contentType, body string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.replies[path] = cannedReply{status: status, contentType: contentType, body: body}
}

func (fs *fakeSupabase) Calls() []backendCall {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return append([]backendCall(nil), fs.calls...)
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testConfig(url string) *config.Config {
	return &config.Config{
		Supabase: config.SupabaseConfig{URL: url, AnonKey: "anon-key", ServiceRoleKey: "service-key"},
		Admin:    config.AdminConfig{Token: testAdminToken},
	}
}

func newTestRegistry(t *testing.T, fs *fakeSupabase, cfg *config.Config) *Registry {
	t.Helper()
	logger := quietLogger()
	client := supabase.New(supabase.Options{
		URL:            fs.server.URL,
		AnonKey:        "anon-key",
		ServiceRoleKey: "service-key",
		Logger:         logger,
	})
	svc, err := services.NewServiceContainer(client, client, &services.ServiceConfig{Logger: logger})
	if err != nil {
		t.Fatalf("NewServiceContainer() error = %v", err)
	}
	registry, err := NewRegistry(&RegistryConfig{Config: cfg, Services: svc, Logger: logger})
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	return registry
}

func invoke(t *testing.T, registry *Registry, name string, req *lambda.Request) *lambda.Response {
	t.Helper()
	endpoint, ok := registry.Endpoint(name)
	if !ok {
		t.Fatalf("Unknown function %q", name)
	}
	if req.Headers == nil {
		req.Headers = map[string]string{}
	}
	resp, err := endpoint.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *lambda.Response) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		t.Fatalf("Failed to decode body %q: %v", resp.Body, err)
	}
	return body
}

func expectError(t *testing.T, resp *lambda.Response, status int, message string) {
	t.Helper()
	if resp.StatusCode != status {
		t.Fatalf("Expected status %d, got %d (%s)", status, resp.StatusCode, resp.Body)
	}
	body := decodeBody(t, resp)
	if body["ok"] != false || body["error"] != message {
		t.Errorf("Expected error %q, got %v", message, body)
	}
}

func sessionToken(t *testing.T) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "customer-1"}).SignedString([]byte("test"))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return token
}

func TestEndpoint_WrongMethod(t *testing.T) {
	fs := newFakeSupabase(t)
	registry := newTestRegistry(t, fs, testConfig(fs.server.URL))

	for _, name := range registry.Names() {
		t.Run(name, func(t *testing.T) {
			endpoint, _ := registry.Endpoint(name)
			wrong := http.MethodPut
			if endpoint.Method == http.MethodPut {
				wrong = http.MethodDelete
			}

			resp := invoke(t, registry, name, &lambda.Request{
				Method:  wrong,
				Headers: map[string]string{"x-admin-token": testAdminToken, "Authorization": "Bearer " + sessionToken(t)},
			})
			expectError(t, resp, http.StatusMethodNotAllowed, "Method Not Allowed")
			if resp.Headers["Access-Control-Allow-Origin"] != "*" {
				t.Errorf("Expected CORS headers on rejection, got %v", resp.Headers)
			}
		})
	}

	if calls := fs.Calls(); len(calls) != 0 {
		t.Errorf("Expected no backend calls, got %d", len(calls))
	}
}

func TestEndpoint_Preflight(t *testing.T) {
	fs := newFakeSupabase(t)
	registry := newTestRegistry(t, fs, &config.Config{})

	resp := invoke(t, registry, FunctionSubmitReview, &lambda.Request{
		Method:  http.MethodOptions,
		Headers: map[string]string{"Origin": "https://localtradefinder-uk.com"},
	})
	if resp.StatusCode != http.StatusNoContent || len(resp.Body) != 0 {
		t.Fatalf("Expected empty 204, got %d %s", resp.StatusCode, resp.Body)
	}
	if resp.Headers["Access-Control-Allow-Origin"] != "https://localtradefinder-uk.com" {
		t.Errorf("Expected origin echoed, got %q", resp.Headers["Access-Control-Allow-Origin"])
	}
	if resp.Headers["Access-Control-Allow-Methods"] != "POST, OPTIONS" {
		t.Errorf("Unexpected allowed methods %q", resp.Headers["Access-Control-Allow-Methods"])
	}
	if resp.Headers[middleware.RequestIDHeader] == "" {
		t.Error("Expected request ID header")
	}
}

func TestEndpoint_AdminGate(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		status  int
	}{
		{"no token", map[string]string{}, http.StatusUnauthorized},
		{"wrong token", map[string]string{"x-admin-token": "nope"}, http.StatusUnauthorized},
		{"wrong bearer", map[string]string{"Authorization": "Bearer nope"}, http.StatusUnauthorized},
		{"header token", map[string]string{"X-Admin-Token": testAdminToken}, http.StatusOK},
		{"bearer token", map[string]string{"Authorization": "Bearer " + testAdminToken}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := newFakeSupabase(t)
			registry := newTestRegistry(t, fs, testConfig(fs.server.URL))

			resp := invoke(t, registry, FunctionBanTrader, &lambda.Request{
				Method:  http.MethodPost,
				Headers: tt.headers,
				Body:    []byte(`{"id":"` + testTraderID + `"}`),
			})
			if resp.StatusCode != tt.status {
				t.Fatalf("Expected %d, got %d (%s)", tt.status, resp.StatusCode, resp.Body)
			}

			calls := fs.Calls()
			if tt.status == http.StatusUnauthorized {
				expectError(t, resp, http.StatusUnauthorized, "Unauthorized")
				if len(calls) != 0 {
					t.Errorf("Expected no backend calls, got %d", len(calls))
				}
				return
			}
			if len(calls) != 1 || calls[0].Method != http.MethodPatch {
				t.Fatalf("Expected one PATCH, got %+v", calls)
			}
			if !strings.Contains(string(calls[0].Body), `"admin_notes":"Banned by admin"`) {
				t.Errorf("Expected default ban notes, got %s", calls[0].Body)
			}
			if calls[0].Header.Get("apikey") != "service-key" {
				t.Errorf("Expected service key, got %q", calls[0].Header.Get("apikey"))
			}
		})
	}
}

func TestEndpoint_MissingConfiguration(t *testing.T) {
	fs := newFakeSupabase(t)
	cfg := testConfig(fs.server.URL)
	cfg.Admin.Token = ""
	cfg.Supabase.AnonKey = ""
	registry := newTestRegistry(t, fs, cfg)

	resp := invoke(t, registry, FunctionGetPendingApplications, &lambda.Request{Method: http.MethodGet})
	expectError(t, resp, http.StatusInternalServerError, "Server misconfigured: missing ADMIN_TOKEN")

	resp = invoke(t, registry, FunctionTraderLogin, &lambda.Request{Method: http.MethodPost})
	expectError(t, resp, http.StatusInternalServerError, "Server misconfigured: missing SUPABASE_ANON_KEY")

	resp = invoke(t, registry, FunctionTraderLogin, &lambda.Request{Method: http.MethodGet})
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("Expected method check before configuration check, got %d", resp.StatusCode)
	}

	if calls := fs.Calls(); len(calls) != 0 {
		t.Errorf("Expected no backend calls, got %d", len(calls))
	}
}

func TestSubmitApplication(t *testing.T) {
	valid := map[string]interface{}{
		"name":          "Jane Smith",
		"email":         " Jane@Example.com ",
		"trade":         "Plumber",
		"offering":      "Both",
		"base_town":     "Leeds",
		"base_postcode": "ls1   4ap",
		"areas_covered": []string{" Leeds ", "Bradford"},
		"password":      "password1",
	}

	t.Run("empty areas rejected", func(t *testing.T) {
		fs := newFakeSupabase(t)
		registry := newTestRegistry(t, fs, testConfig(fs.server.URL))

		body := map[string]interface{}{}
		for k, v := range valid {
			body[k] = v
		}
		body["areas_covered"] = []string{}
		data, _ := json.Marshal(body)

		resp := invoke(t, registry, FunctionSubmitApplication, &lambda.Request{Method: http.MethodPost, Body: data})
		expectError(t, resp, http.StatusBadRequest, "Missing: areas_covered")
		if calls := fs.Calls(); len(calls) != 0 {
			t.Errorf("Expected no backend calls, got %d", len(calls))
		}
	})

	t.Run("valid body creates account then application", func(t *testing.T) {
		fs := newFakeSupabase(t)
		registry := newTestRegistry(t, fs, testConfig(fs.server.URL))

		data, _ := json.Marshal(valid)
		resp := invoke(t, registry, FunctionSubmitApplication, &lambda.Request{Method: http.MethodPost, Body: data})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected 200, got %d (%s)", resp.StatusCode, resp.Body)
		}
		body := decodeBody(t, resp)
		application, _ := body["application"].(map[string]interface{})
		if body["ok"] != true || application["id"] != "row-1" {
			t.Errorf("Unexpected body %v", body)
		}

		calls := fs.Calls()
		if len(calls) != 2 || calls[0].Path != "/auth/v1/admin/users" || calls[1].Path != "/rest/v1/trader_applications" {
			t.Fatalf("Unexpected backend calls %+v", calls)
		}

		var row map[string]interface{}
		if err := json.Unmarshal(calls[1].Body, &row); err != nil {
			t.Fatalf("Failed to decode stored row: %v", err)
		}
		if row["email"] != "jane@example.com" || row["base_postcode"] != "LS1 4AP" || row["auth_user_id"] != "user-1" {
			t.Errorf("Unexpected stored row %v", row)
		}
		if _, ok := row["password"]; ok {
			t.Error("Password must not be stored with the application")
		}
	})

	t.Run("account rejection relayed", func(t *testing.T) {
		fs := newFakeSupabase(t)
		fs.reply("/auth/v1/admin/users", 422, "application/json", `{"msg":"User already registered"}`)
		registry := newTestRegistry(t, fs, testConfig(fs.server.URL))

		data, _ := json.Marshal(valid)
		resp := invoke(t, registry, FunctionSubmitApplication, &lambda.Request{Method: http.MethodPost, Body: data})
		if resp.StatusCode != 422 || string(resp.Body) != `{"msg":"User already registered"}` {
			t.Errorf("Expected upstream reply relayed, got %d %s", resp.StatusCode, resp.Body)
		}
		if calls := fs.Calls(); len(calls) != 1 {
			t.Errorf("Expected the insert to be skipped, got %d calls", len(calls))
		}
	})
}

func TestSubmitReview(t *testing.T) {
	review := `{"trader_id":"` + testTraderID + `","rating":"5","body":"` + strings.Repeat("x", 2000) + `"}`

	t.Run("missing bearer", func(t *testing.T) {
		fs := newFakeSupabase(t)
		registry := newTestRegistry(t, fs, testConfig(fs.server.URL))

		resp := invoke(t, registry, FunctionSubmitReview, &lambda.Request{Method: http.MethodPost, Body: []byte(review)})
		expectError(t, resp, http.StatusUnauthorized, "Missing Authorization Bearer token")
		if len(fs.Calls()) != 0 {
			t.Error("Expected no backend calls")
		}
	})

	t.Run("malformed token", func(t *testing.T) {
		fs := newFakeSupabase(t)
		registry := newTestRegistry(t, fs, testConfig(fs.server.URL))

		resp := invoke(t, registry, FunctionSubmitReview, &lambda.Request{
			Method:  http.MethodPost,
			Headers: map[string]string{"Authorization": "Bearer not-a-jwt"},
			Body:    []byte(review),
		})
		expectError(t, resp, http.StatusUnauthorized, "Invalid or expired login")
		if len(fs.Calls()) != 0 {
			t.Error("Expected no backend calls")
		}
	})

	t.Run("expired session", func(t *testing.T) {
		fs := newFakeSupabase(t)
		fs.reply("/auth/v1/user", 401, "application/json", `{"msg":"invalid JWT"}`)
		registry := newTestRegistry(t, fs, testConfig(fs.server.URL))

		resp := invoke(t, registry, FunctionSubmitReview, &lambda.Request{
			Method:  http.MethodPost,
			Headers: map[string]string{"Authorization": "Bearer " + sessionToken(t)},
			Body:    []byte(review),
		})
		expectError(t, resp, http.StatusUnauthorized, "Invalid or expired login")
		if calls := fs.Calls(); len(calls) != 1 {
			t.Errorf("Expected only the session lookup, got %d calls", len(calls))
		}
	})

	t.Run("stores truncated review", func(t *testing.T) {
		fs := newFakeSupabase(t)
		registry := newTestRegistry(t, fs, testConfig(fs.server.URL))
		token := sessionToken(t)

		resp := invoke(t, registry, FunctionSubmitReview, &lambda.Request{
			Method:  http.MethodPost,
			Headers: map[string]string{"Authorization": "Bearer " + token},
			Body:    []byte(review),
		})
		if resp.StatusCode != 201 {
			t.Fatalf("Expected relayed 201, got %d (%s)", resp.StatusCode, resp.Body)
		}

		calls := fs.Calls()
		if len(calls) != 2 || calls[0].Path != "/auth/v1/user" || calls[1].Path != "/rest/v1/reviews" {
			t.Fatalf("Unexpected backend calls %+v", calls)
		}
		if calls[0].Header.Get("apikey") != "anon-key" || calls[0].Header.Get("Authorization") != "Bearer "+token {
			t.Errorf("Session lookup must use the public key and the caller token")
		}

		var row map[string]interface{}
		if err := json.Unmarshal(calls[1].Body, &row); err != nil {
			t.Fatalf("Failed to decode stored review: %v", err)
		}
		if body, _ := row["body"].(string); len(body) != 1000 {
			t.Errorf("Expected body capped at 1000 chars, got %d", len(body))
		}
		if row["customer_id"] != "customer-1" || row["rating"] != float64(5) || row["status"] != "published" {
			t.Errorf("Unexpected stored review %v", row)
		}
	})

	t.Run("invalid rating", func(t *testing.T) {
		fs := newFakeSupabase(t)
		registry := newTestRegistry(t, fs, testConfig(fs.server.URL))

		resp := invoke(t, registry, FunctionSubmitReview, &lambda.Request{
			Method:  http.MethodPost,
			Headers: map[string]string{"Authorization": "Bearer " + sessionToken(t)},
			Body:    []byte(`{"trader_id":"` + testTraderID + `","rating":6,"body":"ok"}`),
		})
		expectError(t, resp, http.StatusBadRequest, "Rating must be 1–5")
	})
}

func TestGetMyApplication(t *testing.T) {
	fs := newFakeSupabase(t)
	registry := newTestRegistry(t, fs, testConfig(fs.server.URL))

	resp := invoke(t, registry, FunctionGetMyApplication, &lambda.Request{
		Method:  http.MethodGet,
		Headers: map[string]string{"authorization": "Bearer " + sessionToken(t)},
	})
	if resp.StatusCode != http.StatusOK || string(resp.Body) != `[{"id":"row-1","status":"pending"}]` {
		t.Errorf("Expected relayed rows, got %d %s", resp.StatusCode, resp.Body)
	}

	calls := fs.Calls()
	if len(calls) != 2 || calls[1].Method != http.MethodGet || calls[1].Path != "/rest/v1/trader_applications" {
		t.Fatalf("Unexpected backend calls %+v", calls)
	}
}

func TestSearchTraders(t *testing.T) {
	fs := newFakeSupabase(t)
	registry := newTestRegistry(t, fs, testConfig(fs.server.URL))

	resp := invoke(t, registry, FunctionSearchTraders, &lambda.Request{Method: http.MethodPost, Body: []byte(`{"trade":"Plumber"}`)})
	expectError(t, resp, http.StatusBadRequest, "Missing: type, region")

	resp = invoke(t, registry, FunctionSearchTraders, &lambda.Request{
		Method: http.MethodPost,
		Body:   []byte(`{"type":"Domestic","trade":"Plumber","region":"Leeds","postcode":"LS1"}`),
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d (%s)", resp.StatusCode, resp.Body)
	}
	body := decodeBody(t, resp)
	query, _ := body["query"].(map[string]interface{})
	results, _ := body["results"].([]interface{})
	if body["ok"] != true || query["region"] != "Leeds" || query["postcode"] != "LS1" || len(results) != 1 {
		t.Errorf("Unexpected body %v", body)
	}
}

func TestGetReviews(t *testing.T) {
	fs := newFakeSupabase(t)
	fs.reply("/rest/v1/reviews", 200, "", `[]`)
	registry := newTestRegistry(t, fs, testConfig(fs.server.URL))

	resp := invoke(t, registry, FunctionGetReviews, &lambda.Request{Method: http.MethodPost, Body: []byte(`{"trader_id":"not-a-uuid"}`)})
	expectError(t, resp, http.StatusBadRequest, "Invalid trader_id (not a UUID)")

	resp = invoke(t, registry, FunctionGetReviews, &lambda.Request{Method: http.MethodPost, Body: []byte(`{"trader_id":"` + testTraderID + `"}`)})
	if resp.StatusCode != http.StatusOK || string(resp.Body) != `{"ok":true,"reviews":[]}` {
		t.Errorf("Unexpected response %d %s", resp.StatusCode, resp.Body)
	}
}

func TestTraderLogin_UpstreamPassthrough(t *testing.T) {
	fs := newFakeSupabase(t)
	fs.reply("/auth/v1/token", 400, "application/json; charset=utf-8", `{"error":"invalid_grant","error_description":"Invalid login credentials"}`)
	registry := newTestRegistry(t, fs, testConfig(fs.server.URL))

	resp := invoke(t, registry, FunctionTraderLogin, &lambda.Request{Method: http.MethodPost, Body: []byte(`{}`)})
	expectError(t, resp, http.StatusBadRequest, "Email and password are required.")

	resp = invoke(t, registry, FunctionTraderLogin, &lambda.Request{
		Method: http.MethodPost,
		Body:   []byte(`{"email":"jane@example.com","password":"wrong"}`),
	})
	if resp.StatusCode != 400 || string(resp.Body) != `{"error":"invalid_grant","error_description":"Invalid login credentials"}` {
		t.Errorf("Expected upstream reply relayed, got %d %s", resp.StatusCode, resp.Body)
	}
	if resp.Headers["Content-Type"] != "application/json; charset=utf-8" {
		t.Errorf("Expected upstream content type, got %q", resp.Headers["Content-Type"])
	}

	calls := fs.Calls()
	if len(calls) != 1 || calls[0].Header.Get("apikey") != "anon-key" {
		t.Errorf("Expected one login call with the public key, got %+v", calls)
	}
}

func TestCustomerMagicLink(t *testing.T) {
	for _, name := range []string{FunctionCustomerMagicLink, FunctionCustomerMagicLinkAlias} {
		t.Run(name, func(t *testing.T) {
			fs := newFakeSupabase(t)
			registry := newTestRegistry(t, fs, testConfig(fs.server.URL))

			resp := invoke(t, registry, name, &lambda.Request{
				Method: http.MethodPost,
				Body:   []byte(`{"email":"c@example.com","redirectTo":"https://evil.com/steal"}`),
			})
			if resp.StatusCode != http.StatusOK || string(resp.Body) != `{"ok":true}` {
				t.Fatalf("Unexpected response %d %s", resp.StatusCode, resp.Body)
			}

			calls := fs.Calls()
			if len(calls) != 1 || calls[0].Path != "/auth/v1/otp" {
				t.Fatalf("Unexpected backend calls %+v", calls)
			}
			var otp struct {
				Email   string `json:"email"`
				Options struct {
					EmailRedirectTo string `json:"emailRedirectTo"`
				} `json:"options"`
			}
			if err := json.Unmarshal(calls[0].Body, &otp); err != nil {
				t.Fatalf("Failed to decode OTP body: %v", err)
			}
			if otp.Email != "c@example.com" || otp.Options.EmailRedirectTo != middleware.DefaultRedirectPolicy.Fallback {
				t.Errorf("Unexpected OTP body %s", calls[0].Body)
			}
		})
	}
}

func TestUploadPhoto(t *testing.T) {
	fs := newFakeSupabase(t)
	registry := newTestRegistry(t, fs, testConfig(fs.server.URL))

	png := append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)
	body, _ := json.Marshal(map[string]string{"mime": "image/png", "base64": base64.StdEncoding.EncodeToString(png)})

	resp := invoke(t, registry, FunctionUploadPhoto, &lambda.Request{Method: http.MethodPost, Body: body})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d (%s)", resp.StatusCode, resp.Body)
	}
	photoURL, _ := decodeBody(t, resp)["photo_url"].(string)
	prefix := fs.server.URL + "/storage/v1/object/public/profile-photos/profiles/"
	if !strings.HasPrefix(photoURL, prefix) || !strings.HasSuffix(photoURL, ".png") {
		t.Errorf("Unexpected photo URL %q", photoURL)
	}

	calls := fs.Calls()
	if len(calls) != 1 || calls[0].Header.Get("x-upsert") != "true" || calls[0].Header.Get("Content-Type") != "image/png" {
		t.Fatalf("Unexpected upload call %+v", calls)
	}

	resp = invoke(t, registry, FunctionUploadPhoto, &lambda.Request{Method: http.MethodPost, Body: []byte(`{"mime":"text/plain","base64":"aGk="}`)})
	expectError(t, resp, http.StatusBadRequest, "Missing or invalid image (mime/base64)")
}

func TestEndpoint_RecoversPanic(t *testing.T) {
	endpoint := &Endpoint{
		Name:   "panics",
		Method: http.MethodGet,
		Access: middleware.AccessPublic,
		Serve: func(ctx context.Context, call *Call) (*lambda.Response, error) {
			panic("something broke")
		},
		config:     &config.Config{},
		gatekeeper: middleware.NewGatekeeper(""),
		logger:     quietLogger(),
	}

	resp, err := endpoint.Handle(context.Background(), &lambda.Request{Method: http.MethodGet})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	expectError(t, resp, http.StatusInternalServerError, "something broke")
	if resp.Headers["Access-Control-Allow-Methods"] != "GET, OPTIONS" {
		t.Errorf("Expected CORS headers after panic, got %v", resp.Headers)
	}
}

func TestNewRegistry(t *testing.T) {
	if _, err := NewRegistry(nil); err == nil {
		t.Error("Expected error without services")
	}

	fs := newFakeSupabase(t)
	registry := newTestRegistry(t, fs, testConfig(fs.server.URL))
	if got := len(registry.Names()); got != 13 {
		t.Errorf("Expected 13 functions, got %d", got)
	}
	if _, ok := registry.Endpoint("nope"); ok {
		t.Error("Expected unknown function lookup to fail")
	}
}
