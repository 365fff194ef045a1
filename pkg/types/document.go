package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DocumentRetention is the hard upper bound on how long an uploaded
// document instance is kept, regardless of verification outcome.
const DocumentRetention = 24 * time.Hour

// Document validation error codes. Recoverable: returned to the caller
// for correction, never fatal.
const (
	ValidationStale           = "stale"
	ValidationNameMismatch    = "name_mismatch"
	ValidationAddressMismatch = "address_mismatch"
)

// Document is a user-provided document instance, typically produced by
// an OCR collaborator from an upload. It carries no citation fields:
// it is user data, not regulatory data.
type Document struct {
	// DocID is a UUID v7, generated on upload.
	DocID string `json:"doc_id"`

	// DocTypeID references the DocumentType this upload claims to be.
	DocTypeID string `json:"doc_type_id"`

	// Issuer is the issuing organization, e.g. "National Grid".
	Issuer string `json:"issuer"`

	// IssueDate is the document date extracted by OCR.
	IssueDate time.Time `json:"issue_date"`

	// NameOnDoc and AddressOnDoc are the extracted holder fields.
	NameOnDoc    string `json:"name_on_doc"`
	AddressOnDoc string `json:"address_on_doc"`

	// Verified is derived by the validator, never caller-supplied.
	Verified bool `json:"verified"`

	// ValidationErrors holds the accumulated validation error codes.
	ValidationErrors []string `json:"validation_errors,omitempty"`

	CreatedAt time.Time `json:"created_at"`

	// PurgeAfter is CreatedAt plus DocumentRetention. The store destroys
	// the document once this passes; retention is an upper bound, not a
	// cache policy.
	PurgeAfter time.Time `json:"purge_after"`
}

// NewDocument creates a document instance with a generated ID and the
// retention deadline stamped from now.
func NewDocument(docTypeID, issuer string, issueDate time.Time, nameOnDoc, addressOnDoc string, now time.Time) Document {
	return Document{
		DocID:        NewID(),
		DocTypeID:    docTypeID,
		Issuer:       issuer,
		IssueDate:    issueDate,
		NameOnDoc:    nameOnDoc,
		AddressOnDoc: addressOnDoc,
		CreatedAt:    now,
		PurgeAfter:   now.Add(DocumentRetention),
	}
}

// Validate checks the reference and extracted fields are present.
// Resolution of DocTypeID happens against the graph snapshot.
func (d Document) Validate() error {
	if d.DocTypeID == "" {
		return fmt.Errorf("%w: document has no doc_type_id", ErrInvalidData)
	}
	if d.IssueDate.IsZero() {
		return fmt.Errorf("%w: document %s has no issue date", ErrInvalidData, d.DocID)
	}
	return nil
}

// Expired reports whether the retention deadline has passed.
func (d Document) Expired(now time.Time) bool {
	return !d.PurgeAfter.IsZero() && now.After(d.PurgeAfter)
}

// NewID generates a UUID v7 string, falling back to v4 if the clock
// source fails.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
