package types

import (
	"errors"
	"fmt"
	"time"
)

// Confidence levels for regulatory claims.
const (
	ConfidenceHigh   = "high"   // direct quote from an official source
	ConfidenceMedium = "medium" // inferred from an official source
	ConfidenceLow    = "low"    // ambiguous or uncertain
)

// validConfidences is the set of recognized confidence values.
var validConfidences = map[string]bool{
	ConfidenceHigh:   true,
	ConfidenceMedium: true,
	ConfidenceLow:    true,
}

// ValidConfidence reports whether c is a recognized confidence level.
func ValidConfidence(c string) bool {
	return validConfidences[c]
}

// Citation errors. A regulatory record missing any part of its citation
// triple is rejected at write time, never partially stored.
var (
	ErrCitationMissing = errors.New("citation field missing")
	ErrNotFound        = errors.New("entity not found")
	ErrDuplicateID     = errors.New("duplicate entity ID")
	ErrInvalidID       = errors.New("invalid entity ID")
	ErrInvalidData     = errors.New("invalid entity data")
)

// Citation is the mandatory provenance triple carried by every regulatory
// record: where the claim comes from, when it was last checked against the
// source, and how confident the editor is in it.
type Citation struct {
	// SourceURL points at the official source (regulation, webpage, PDF).
	SourceURL string `json:"source_url" yaml:"source_url"`

	// SourceSection is a page or section reference within the source.
	SourceSection string `json:"source_section,omitempty" yaml:"source_section,omitempty"`

	// LastVerified is the date the claim was last verified against the source.
	LastVerified time.Time `json:"last_verified" yaml:"last_verified"`

	// Confidence is one of the Confidence constants.
	Confidence string `json:"confidence" yaml:"confidence"`
}

// Validate checks that the citation triple is complete. Each failure wraps
// ErrCitationMissing so callers can classify with errors.Is.
func (c Citation) Validate() error {
	if c.SourceURL == "" {
		return fmt.Errorf("%w: source_url", ErrCitationMissing)
	}
	if c.LastVerified.IsZero() {
		return fmt.Errorf("%w: last_verified", ErrCitationMissing)
	}
	if c.Confidence == "" {
		return fmt.Errorf("%w: confidence", ErrCitationMissing)
	}
	if !validConfidences[c.Confidence] {
		return fmt.Errorf("%w: confidence %q not in {high, medium, low}", ErrCitationMissing, c.Confidence)
	}
	return nil
}

// OlderThan reports whether the citation's LastVerified date precedes
// now minus the given number of days.
func (c Citation) OlderThan(now time.Time, days int) bool {
	return c.LastVerified.Before(now.AddDate(0, 0, -days))
}
