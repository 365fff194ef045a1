package types

import (
	"errors"
	"fmt"
	"time"
)

// Application categories. Closed set: the eligibility engine maps every
// category to its document-requirement groups, and an unknown category
// is a defined-behavior error, never a silent no-op.
const (
	CategoryNew         = "new"
	CategoryRenewal     = "renewal"
	CategoryReplacement = "replacement"
	CategoryRental      = "rental"
	CategoryBusiness    = "business"
	CategoryLeasedCorp  = "leased_corporate"
	CategoryTaxi        = "taxi"
	CategoryMilitary    = "military"
)

// validCategories is the set of recognized application categories.
var validCategories = map[string]bool{
	CategoryNew:         true,
	CategoryRenewal:     true,
	CategoryReplacement: true,
	CategoryRental:      true,
	CategoryBusiness:    true,
	CategoryLeasedCorp:  true,
	CategoryTaxi:        true,
	CategoryMilitary:    true,
}

// ValidCategory reports whether c is a recognized application category.
func ValidCategory(c string) bool {
	return validCategories[c]
}

// Application statuses.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusDenied   = "denied"
)

var validStatuses = map[string]bool{
	StatusPending:  true,
	StatusApproved: true,
	StatusDenied:   true,
}

// ErrUnknownCategory is returned when an application carries a category
// outside the closed set.
var ErrUnknownCategory = errors.New("unknown application category")

// Application is one user's session against a process. It is evaluated
// any number of times (idempotently) and never mutates the graph.
//
// The registration and permit-history fields are caller-supplied inputs:
// registration data comes from the applicant, HasActivePermit from the
// external application-history query.
type Application struct {
	// AppID is a UUID v7, generated on creation.
	AppID string `json:"app_id"`

	// ProcessID references the process being applied for.
	ProcessID string `json:"process_id"`

	// Category is one of the Category constants.
	Category string `json:"category"`

	// ApplicantName and ApplicantAddress are matched against uploaded
	// documents by the validator.
	ApplicantName    string `json:"applicant_name"`
	ApplicantAddress string `json:"applicant_address"`

	// VehicleClass is the registered vehicle class, e.g. "passenger".
	VehicleClass string `json:"vehicle_class"`

	// RegistrationState is the two-letter state on the registration.
	RegistrationState string `json:"registration_state"`

	// RegistrationAddress is the address on the registration; the
	// registration gate matches it against ApplicantAddress.
	RegistrationAddress string `json:"registration_address"`

	// UnpaidTickets reports outstanding tickets on the registration.
	UnpaidTickets bool `json:"unpaid_tickets"`

	// HasActivePermit reports a currently active permit on record,
	// read from application history by the caller.
	HasActivePermit bool `json:"has_active_permit"`

	// Documents are the uploads provided with this application.
	Documents []Document `json:"documents,omitempty"`

	// Status is one of the Status constants.
	Status string `json:"status"`

	// ReasonIfDenied explains a denied status.
	ReasonIfDenied string `json:"reason_if_denied,omitempty"`

	SubmittedOn time.Time `json:"submitted_on,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewApplication creates an application in the pending status with a
// generated ID.
func NewApplication(processID, category string) (*Application, error) {
	if !validCategories[category] {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	now := time.Now().UTC()
	return &Application{
		AppID:     NewID(),
		ProcessID: processID,
		Category:  category,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Validate checks the category, status, and process reference.
func (a *Application) Validate() error {
	if a.ProcessID == "" {
		return fmt.Errorf("%w: application has no process id", ErrInvalidData)
	}
	if !validCategories[a.Category] {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, a.Category)
	}
	if a.Status != "" && !validStatuses[a.Status] {
		return fmt.Errorf("%w: application status %q", ErrInvalidData, a.Status)
	}
	return nil
}

// Approve marks the application approved.
func (a *Application) Approve() {
	a.Status = StatusApproved
	a.ReasonIfDenied = ""
	a.UpdatedAt = time.Now().UTC()
}

// Deny marks the application denied with the given reason.
func (a *Application) Deny(reason string) {
	a.Status = StatusDenied
	a.ReasonIfDenied = reason
	a.UpdatedAt = time.Now().UTC()
}
