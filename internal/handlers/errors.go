package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"localtradefinder-api/internal/adapters/supabase"
	"localtradefinder-api/internal/config"
	"localtradefinder-api/internal/middleware"
	"localtradefinder-api/internal/models"
	"localtradefinder-api/pkg/lambda"
)

// ErrorResponse represents a standard error response
type ErrorResponse = middleware.ErrorResponse

// responseForError maps err onto the failure taxonomy. Backend rejections
// keep their own status and body.
func responseForError(err error) *lambda.Response {
	var (
		httpErr       *middleware.HTTPError
		validationErr *models.ValidationError
		missingErr    *config.MissingConfigError
	)

	if upstreamErr, ok := supabase.AsUpstream(err); ok {
		return relayUpstream(upstreamErr.Status, upstreamErr.ContentType, upstreamErr.Body)
	}

	switch {
	case errors.As(err, &httpErr):
		return errorResponse(httpErr.Status, httpErr.Message)
	case errors.As(err, &validationErr):
		return errorResponse(http.StatusBadRequest, validationErr.Message)
	case errors.As(err, &missingErr):
		return errorResponse(http.StatusInternalServerError, "Server misconfigured: "+missingErr.Error())
	default:
		return errorResponse(http.StatusInternalServerError, err.Error())
	}
}

// errorResponse builds a local failure body
func errorResponse(status int, message string) *lambda.Response {
	body, _ := json.Marshal(middleware.NewErrorResponse(message))
	resp := lambda.NewResponse(status)
	resp.Headers["Content-Type"] = "application/json"
	resp.Body = body
	return resp
}

// relay passes a backend reply through untouched
func relay(reply *supabase.Response) *lambda.Response {
	if reply == nil {
		return lambda.NewResponse(http.StatusNoContent)
	}
	return relayUpstream(reply.Status, reply.ContentType, reply.Body)
}

func relayUpstream(status int, contentType string, body []byte) *lambda.Response {
	if contentType == "" {
		contentType = "application/json"
	}
	resp := lambda.NewResponse(status)
	resp.Headers["Content-Type"] = contentType
	resp.Body = body
	return resp
}
