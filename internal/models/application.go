package models

import (
	"time"
)

// ApplicationStatus represents where a trader application is in the review flow
type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusApproved ApplicationStatus = "approved"
	ApplicationStatusBanned   ApplicationStatus = "banned"
)

// DefaultBanNotes is recorded when an admin bans a trader without notes
const DefaultBanNotes = "Banned by admin"

// ApplicationsTable is the REST resource holding trader applications
const ApplicationsTable = "trader_applications"

// Application is a trader's intake record as stored by the backend
type Application struct {
	ID           string            `json:"id,omitempty"`
	Name         string            `json:"name"`
	Email        string            `json:"email"`
	Phone        *string           `json:"phone"`
	Trade        string            `json:"trade"`
	Offering     string            `json:"offering"`
	About        *string           `json:"about"`
	PhotoURL     *string           `json:"photo_url"`
	BaseTown     string            `json:"base_town"`
	BasePostcode string            `json:"base_postcode"`
	AreasCovered []string          `json:"areas_covered"`
	Status       ApplicationStatus `json:"status"`
	AdminNotes   *string           `json:"admin_notes,omitempty"`
	AuthUserID   string            `json:"auth_user_id,omitempty"`
	CreatedAt    *time.Time        `json:"created_at,omitempty"`
}

// ApplicationSubmission is a normalized trader sign-up request
type ApplicationSubmission struct {
	Name         string   `json:"name" validate:"required"`
	Email        string   `json:"email" validate:"required"`
	Trade        string   `json:"trade" validate:"required"`
	Offering     string   `json:"offering" validate:"required"`
	BaseTown     string   `json:"base_town" validate:"required"`
	BasePostcode string   `json:"base_postcode" validate:"required"`
	AreasCovered []string `json:"areas_covered" validate:"required,min=1"`
	Password     string   `json:"password" validate:"min=8"`
	Phone        *string  `json:"phone"`
	About        *string  `json:"about"`
	PhotoURL     *string  `json:"photo_url"`
}

// NewApplicationSubmission normalizes and validates a sign-up payload
func NewApplicationSubmission(p Payload) (*ApplicationSubmission, error) {
	sub := &ApplicationSubmission{
		Name:         p.Text("name"),
		Email:        NormalizeEmail(p.String("email")),
		Trade:        p.Text("trade"),
		Offering:     p.Text("offering"),
		BaseTown:     p.Text("base_town"),
		BasePostcode: NormalizePostcode(p.String("base_postcode")),
		AreasCovered: p.Strings("areas_covered"),
		Password:     p.String("password"),
		Phone:        OptionalText(p.String("phone"), 0),
		About:        OptionalText(p.String("about"), 0),
		PhotoURL:     OptionalText(p.String("photo_url"), 0),
	}

	if err := ValidateStruct(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Application builds the pending row to insert for the given auth account
func (s *ApplicationSubmission) Application(authUserID string) *Application {
	return &Application{
		Name:         s.Name,
		Email:        s.Email,
		Phone:        s.Phone,
		Trade:        s.Trade,
		Offering:     s.Offering,
		About:        s.About,
		PhotoURL:     s.PhotoURL,
		BaseTown:     s.BaseTown,
		BasePostcode: s.BasePostcode,
		AreasCovered: s.AreasCovered,
		Status:       ApplicationStatusPending,
		AuthUserID:   authUserID,
	}
}

// StatusChange is an admin request to move an application to a new status
type StatusChange struct {
	ID         string  `json:"id" validate:"required,canonical_uuid"`
	AdminNotes *string `json:"admin_notes"`
}

// NewStatusChange normalizes and validates an approve/ban payload
func NewStatusChange(p Payload) (*StatusChange, error) {
	change := &StatusChange{
		ID:         p.Text("id"),
		AdminNotes: OptionalText(p.String("admin_notes"), MaxAdminNotesLength),
	}

	if err := ValidateStruct(change); err != nil {
		return nil, err
	}
	return change, nil
}

// ApplicationPatch is the partial update sent for a status change
type ApplicationPatch struct {
	Status     ApplicationStatus `json:"status"`
	AdminNotes *string           `json:"admin_notes,omitempty"`
}

// Patch builds the update for status; notes fall back to defaultNotes when given
func (c *StatusChange) Patch(status ApplicationStatus, defaultNotes string) *ApplicationPatch {
	patch := &ApplicationPatch{Status: status, AdminNotes: c.AdminNotes}
	if patch.AdminNotes == nil && defaultNotes != "" {
		notes := defaultNotes
		patch.AdminNotes = &notes
	}
	return patch
}

// TraderSearch is a public directory query for approved traders
type TraderSearch struct {
	Type     string `json:"type" validate:"required"`
	Trade    string `json:"trade" validate:"required"`
	Region   string `json:"region" validate:"required"`
	Postcode string `json:"postcode"`
}

// NewTraderSearch normalizes and validates a directory search payload
func NewTraderSearch(p Payload) (*TraderSearch, error) {
	search := &TraderSearch{
		Type:     p.Text("type"),
		Trade:    p.Text("trade"),
		Region:   p.Text("region"),
		Postcode: p.Text("postcode"),
	}

	if err := ValidateStruct(search); err != nil {
		return nil, err
	}
	return search, nil
}

// Offering returns the plan name matched for the requested work type.
// Anything other than Domestic is treated as Commercial.
func (s *TraderSearch) Offering() string {
	if s.Type == "Domestic" {
		return "Domestic"
	}
	return "Commercial"
}
