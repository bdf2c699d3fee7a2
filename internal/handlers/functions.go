package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"localtradefinder-api/internal/config"
	"localtradefinder-api/internal/middleware"
	"localtradefinder-api/internal/models"
	"localtradefinder-api/internal/services"
	"localtradefinder-api/pkg/lambda"
)

// Function names as deployed
const (
	FunctionSubmitApplication      = "submit-application"
	FunctionGetPendingApplications = "get-pending-applications"
	FunctionApproveApplication     = "approve-application"
	FunctionBanTrader              = "ban-trader"
	FunctionSearchApprovedTraders  = "search-approved-traders"
	FunctionSearchTraders          = "search-traders"
	FunctionGetMyApplication       = "get-my-application"
	FunctionSubmitReview           = "submit-review"
	FunctionGetReviews             = "get-reviews"
	FunctionTraderLogin            = "trader-login"
	FunctionCustomerMagicLink      = "customer-magic-link"
	FunctionCustomerMagicLinkAlias = "customer-magiclink"
	FunctionUploadPhoto            = "upload-photo"
)

var (
	serviceKeys = []config.Key{config.KeySupabaseURL, config.KeySupabaseServiceKey}
	adminKeys   = []config.Key{config.KeySupabaseURL, config.KeySupabaseServiceKey, config.KeyAdminToken}
	sessionKeys = []config.Key{config.KeySupabaseURL, config.KeySupabaseAnonKey, config.KeySupabaseServiceKey}
	publicKeys  = []config.Key{config.KeySupabaseURL, config.KeySupabaseAnonKey}
)

// ApplicationResponse is returned after a trader application is stored
type ApplicationResponse struct {
	OK          bool            `json:"ok"`
	Application json.RawMessage `json:"application" swaggertype:"object"`
}

// TraderSearchResponse echoes the normalized query with its matches
type TraderSearchResponse struct {
	OK      bool                 `json:"ok"`
	Query   *models.TraderSearch `json:"query"`
	Results []json.RawMessage    `json:"results" swaggertype:"array,object"`
}

// ReviewsResponse lists a trader's published reviews
type ReviewsResponse struct {
	OK      bool              `json:"ok"`
	Reviews []json.RawMessage `json:"reviews" swaggertype:"array,object"`
}

// PhotoResponse carries the public URL of an uploaded photo
type PhotoResponse struct {
	OK       bool   `json:"ok"`
	PhotoURL string `json:"photo_url"`
}

// StatusResponse is a bare acknowledgement
type StatusResponse struct {
	OK bool `json:"ok"`
}

// functions binds endpoint logic to the services
type functions struct {
	services *services.ServiceContainer
}

func (f *functions) endpoints() []*Endpoint {
	return []*Endpoint{
		{Name: FunctionSubmitApplication, Method: http.MethodPost, Access: middleware.AccessPublic, Requires: serviceKeys, Serve: f.submitApplication},
		{Name: FunctionGetPendingApplications, Method: http.MethodGet, Access: middleware.AccessAdmin, Requires: adminKeys, Serve: f.getPendingApplications},
		{Name: FunctionApproveApplication, Method: http.MethodPost, Access: middleware.AccessAdmin, Requires: adminKeys, Serve: f.approveApplication},
		{Name: FunctionBanTrader, Method: http.MethodPost, Access: middleware.AccessAdmin, Requires: adminKeys, Serve: f.banTrader},
		{Name: FunctionSearchApprovedTraders, Method: http.MethodGet, Access: middleware.AccessAdmin, Requires: adminKeys, Serve: f.searchApprovedTraders},
		{Name: FunctionSearchTraders, Method: http.MethodPost, Access: middleware.AccessPublic, Requires: serviceKeys, Serve: f.searchTraders},
		{Name: FunctionGetMyApplication, Method: http.MethodGet, Access: middleware.AccessSession, Requires: sessionKeys, Serve: f.getMyApplication},
		{Name: FunctionSubmitReview, Method: http.MethodPost, Access: middleware.AccessSession, Requires: sessionKeys, Serve: f.submitReview},
		{Name: FunctionGetReviews, Method: http.MethodPost, Access: middleware.AccessPublic, Requires: serviceKeys, Serve: f.getReviews},
		{Name: FunctionTraderLogin, Method: http.MethodPost, Access: middleware.AccessPublic, Requires: publicKeys, Serve: f.traderLogin},
		{Name: FunctionCustomerMagicLink, Method: http.MethodPost, Access: middleware.AccessPublic, Requires: publicKeys, Serve: f.customerMagicLink},
		{Name: FunctionCustomerMagicLinkAlias, Method: http.MethodPost, Access: middleware.AccessPublic, Requires: publicKeys, Serve: f.customerMagicLink},
		{Name: FunctionUploadPhoto, Method: http.MethodPost, Access: middleware.AccessPublic, Requires: serviceKeys, Serve: f.uploadPhoto},
	}
}

// @Summary Submit a trader application
// @Description Creates the trader's login then stores a pending application
// @Tags applications
// @Accept json
// @Produce json
// @Param application body models.ApplicationSubmission true "Application"
// @Success 200 {object} ApplicationResponse
// @Failure 400 {object} ErrorResponse
// @Router /submit-application [post]
func (f *functions) submitApplication(ctx context.Context, call *Call) (*lambda.Response, error) {
	sub, err := models.NewApplicationSubmission(call.Payload)
	if err != nil {
		return nil, err
	}

	row, err := f.services.Applications.Submit(ctx, sub)
	if err != nil {
		return nil, err
	}
	return lambda.JSONResponse(http.StatusOK, ApplicationResponse{OK: true, Application: row})
}

// @Summary List pending applications
// @Tags admin
// @Produce json
// @Security AdminToken
// @Success 200 {array} models.Application
// @Failure 401 {object} ErrorResponse
// @Router /get-pending-applications [get]
func (f *functions) getPendingApplications(ctx context.Context, call *Call) (*lambda.Response, error) {
	reply, err := f.services.Applications.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	return relay(reply), nil
}

// @Summary Approve an application
// @Tags admin
// @Accept json
// @Produce json
// @Security AdminToken
// @Param change body models.StatusChange true "Application id and optional notes"
// @Success 200 {array} models.Application
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /approve-application [post]
func (f *functions) approveApplication(ctx context.Context, call *Call) (*lambda.Response, error) {
	change, err := models.NewStatusChange(call.Payload)
	if err != nil {
		return nil, err
	}

	reply, err := f.services.Applications.Approve(ctx, change)
	if err != nil {
		return nil, err
	}
	return relay(reply), nil
}

// @Summary Ban a trader
// @Tags admin
// @Accept json
// @Produce json
// @Security AdminToken
// @Param change body models.StatusChange true "Application id and optional notes"
// @Success 200 {array} models.Application
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /ban-trader [post]
func (f *functions) banTrader(ctx context.Context, call *Call) (*lambda.Response, error) {
	change, err := models.NewStatusChange(call.Payload)
	if err != nil {
		return nil, err
	}

	reply, err := f.services.Applications.Ban(ctx, change)
	if err != nil {
		return nil, err
	}
	return relay(reply), nil
}

// @Summary Search approved traders
// @Tags admin
// @Produce json
// @Security AdminToken
// @Param q query string false "Matches name, email or trade"
// @Success 200 {array} models.Application
// @Failure 401 {object} ErrorResponse
// @Router /search-approved-traders [get]
func (f *functions) searchApprovedTraders(ctx context.Context, call *Call) (*lambda.Response, error) {
	reply, err := f.services.Applications.SearchApproved(ctx, call.Request.Query("q"))
	if err != nil {
		return nil, err
	}
	return relay(reply), nil
}

// @Summary Search the trader directory
// @Tags directory
// @Accept json
// @Produce json
// @Param search body models.TraderSearch true "Search"
// @Success 200 {object} TraderSearchResponse
// @Failure 400 {object} ErrorResponse
// @Router /search-traders [post]
func (f *functions) searchTraders(ctx context.Context, call *Call) (*lambda.Response, error) {
	search, err := models.NewTraderSearch(call.Payload)
	if err != nil {
		return nil, err
	}

	results, err := f.services.Applications.SearchTraders(ctx, search)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []json.RawMessage{}
	}
	return lambda.JSONResponse(http.StatusOK, TraderSearchResponse{OK: true, Query: search, Results: results})
}

// @Summary Get the signed-in trader's application
// @Tags traders
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Application
// @Failure 401 {object} ErrorResponse
// @Router /get-my-application [get]
func (f *functions) getMyApplication(ctx context.Context, call *Call) (*lambda.Response, error) {
	reply, err := f.services.Applications.GetForUser(ctx, call.Identity.ID)
	if err != nil {
		return nil, err
	}
	return relay(reply), nil
}

// @Summary Submit a review
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param review body models.ReviewSubmission true "Review"
// @Success 201 {array} models.Review
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /submit-review [post]
func (f *functions) submitReview(ctx context.Context, call *Call) (*lambda.Response, error) {
	sub, err := models.NewReviewSubmission(call.Payload)
	if err != nil {
		return nil, err
	}

	reply, err := f.services.Reviews.Submit(ctx, call.Identity.ID, sub)
	if err != nil {
		return nil, err
	}
	return relay(reply), nil
}

// @Summary List a trader's published reviews
// @Tags reviews
// @Accept json
// @Produce json
// @Param query body models.ReviewQuery true "Trader"
// @Success 200 {object} ReviewsResponse
// @Failure 400 {object} ErrorResponse
// @Router /get-reviews [post]
func (f *functions) getReviews(ctx context.Context, call *Call) (*lambda.Response, error) {
	q, err := models.NewReviewQuery(call.Payload)
	if err != nil {
		return nil, err
	}

	reviews, err := f.services.Reviews.ListPublished(ctx, q)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []json.RawMessage{}
	}
	return lambda.JSONResponse(http.StatusOK, ReviewsResponse{OK: true, Reviews: reviews})
}

// @Summary Trader password login
// @Tags traders
// @Accept json
// @Produce json
// @Param credentials body models.Credentials true "Credentials"
// @Success 200 {object} object "Session"
// @Failure 400 {object} ErrorResponse
// @Router /trader-login [post]
func (f *functions) traderLogin(ctx context.Context, call *Call) (*lambda.Response, error) {
	creds, err := models.NewCredentials(call.Payload)
	if err != nil {
		return nil, err
	}

	reply, err := f.services.Accounts.Login(ctx, creds)
	if err != nil {
		return nil, err
	}
	return relay(reply), nil
}

// @Summary Email a customer login link
// @Tags customers
// @Accept json
// @Produce json
// @Param request body models.MagicLinkRequest true "Email and return page"
// @Success 200 {object} StatusResponse
// @Failure 400 {object} ErrorResponse
// @Router /customer-magic-link [post]
func (f *functions) customerMagicLink(ctx context.Context, call *Call) (*lambda.Response, error) {
	req, err := models.NewMagicLinkRequest(call.Payload)
	if err != nil {
		return nil, err
	}

	if err := f.services.Accounts.SendMagicLink(ctx, req); err != nil {
		return nil, err
	}
	return lambda.JSONResponse(http.StatusOK, StatusResponse{OK: true})
}

// @Summary Upload a profile photo
// @Tags traders
// @Accept json
// @Produce json
// @Param upload body models.PhotoUpload true "Base64 image"
// @Success 200 {object} PhotoResponse
// @Failure 400 {object} ErrorResponse
// @Router /upload-photo [post]
func (f *functions) uploadPhoto(ctx context.Context, call *Call) (*lambda.Response, error) {
	upload, err := models.NewPhotoUpload(call.Payload)
	if err != nil {
		return nil, err
	}

	url, err := f.services.Photos.Upload(ctx, upload)
	if err != nil {
		return nil, err
	}
	return lambda.JSONResponse(http.StatusOK, PhotoResponse{OK: true, PhotoURL: url})
}
