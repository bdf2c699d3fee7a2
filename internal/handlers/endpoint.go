package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"localtradefinder-api/internal/config"
	"localtradefinder-api/internal/middleware"
	"localtradefinder-api/internal/models"
	"localtradefinder-api/pkg/lambda"
)

// SessionResolver resolves a session bearer token into the account that owns it
type SessionResolver interface {
	ResolveSession(ctx context.Context, accessToken string) (*models.Identity, error)
}

// Call is one request that has passed the gatekeeper
type Call struct {
	Request    *lambda.Request
	Credential middleware.Credential
	// Identity is set for session endpoints only
	Identity  *models.Identity
	Payload   models.Payload
	RequestID string
}

// ServeFunc runs an endpoint's domain logic
type ServeFunc func(ctx context.Context, call *Call) (*lambda.Response, error)

// Endpoint is one serverless function. Every request runs the same pipeline:
// pre-flight, method, configuration, credential, body, then Serve.
type Endpoint struct {
	Name     string
	Method   string
	Access   middleware.Access
	Requires []config.Key
	Serve    ServeFunc

	config     *config.Config
	gatekeeper *middleware.Gatekeeper
	sessions   SessionResolver
	logger     *logrus.Logger
}

// Handle runs the request through the endpoint pipeline. It never returns an
// error; failures are reported in the response.
func (e *Endpoint) Handle(ctx context.Context, req *lambda.Request) (resp *lambda.Response, err error) {
	start := time.Now()
	if req == nil {
		req = &lambda.Request{}
	}
	requestID := middleware.NewRequestID(req.Header(middleware.RequestIDHeader))

	defer func() {
		if r := recover(); r != nil {
			e.logger.WithFields(logrus.Fields{
				"function":   e.Name,
				"request_id": requestID,
				"panic":      r,
			}).Error("Recovered from panic")
			resp = errorResponse(http.StatusInternalServerError, fmt.Sprint(r))
		}

		resp.SetHeaders(middleware.CORSHeaders(req.Header("Origin"), e.Method))
		resp.Headers[middleware.RequestIDHeader] = requestID
		err = nil

		e.logOutcome(req, resp.StatusCode, requestID, start)
	}()

	return e.handle(ctx, req, requestID), nil
}

func (e *Endpoint) handle(ctx context.Context, req *lambda.Request, requestID string) *lambda.Response {
	if req.Method == http.MethodOptions {
		return lambda.NewResponse(http.StatusNoContent)
	}

	if err := middleware.CheckMethod(req.Method, e.Method); err != nil {
		return responseForError(err)
	}

	if err := e.config.Require(e.Requires...); err != nil {
		e.logger.WithFields(logrus.Fields{
			"function": e.Name,
			"error":    err.Error(),
		}).Error("Function is not configured")
		return responseForError(err)
	}

	credential, err := e.gatekeeper.Authorize(e.Access, req)
	if err != nil {
		return responseForError(err)
	}

	call := &Call{
		Request:    req,
		Credential: credential,
		Payload:    models.DecodePayload(req.Body),
		RequestID:  requestID,
	}

	if session, ok := credential.(middleware.SessionCredential); ok {
		identity, err := e.sessions.ResolveSession(ctx, session.Token)
		if err != nil {
			return responseForError(err)
		}
		call.Identity = identity
	}

	resp, err := e.Serve(ctx, call)
	if err != nil {
		return responseForError(err)
	}
	if resp == nil {
		return lambda.NewResponse(http.StatusNoContent)
	}
	return resp
}

func (e *Endpoint) logOutcome(req *lambda.Request, status int, requestID string, start time.Time) {
	entry := e.logger.WithFields(logrus.Fields{
		"function":   e.Name,
		"method":     req.Method,
		"status":     status,
		"latency_ms": float64(time.Since(start).Nanoseconds()) / 1000000,
		"request_id": requestID,
	})

	switch {
	case status >= 500:
		entry.Error("Function failed")
	case status >= 400:
		entry.Warn("Function rejected request")
	default:
		entry.Info("Function completed")
	}
}
