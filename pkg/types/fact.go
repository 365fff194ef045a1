package types

import (
	"fmt"
	"strings"
	"time"
)

// Fact is an atomic regulatory statement, the unit of provenance. Every
// Requirement and Rule in the process graph resolves its fact_id against
// the registry, so no regulatory claim exists without a citation.
type Fact struct {
	// ID is a hierarchical identifier, e.g. "rpp.eligibility.vehicle_class".
	ID string `json:"id" yaml:"id"`

	// Text is the human-readable regulatory claim.
	Text string `json:"text" yaml:"text"`

	Citation `yaml:",inline"`

	// Note holds additional context or caveats.
	Note string `json:"note,omitempty" yaml:"note,omitempty"`

	// Version starts at 1 and increments on each revision. Old versions
	// are retained for audit; a fact is never silently overwritten.
	Version int `json:"version" yaml:"version,omitempty"`

	// CreatedAt is the timestamp this version was stored.
	CreatedAt time.Time `json:"created_at" yaml:"created_at,omitempty"`
}

// Validate checks that the fact has an ID, text, and a complete citation
// triple. Returns ErrInvalidData or ErrCitationMissing on failure.
func (f Fact) Validate() error {
	if strings.TrimSpace(f.ID) == "" {
		return fmt.Errorf("%w: fact id is empty", ErrInvalidID)
	}
	if strings.TrimSpace(f.Text) == "" {
		return fmt.Errorf("%w: fact %s has empty text", ErrInvalidData, f.ID)
	}
	if err := f.Citation.Validate(); err != nil {
		return fmt.Errorf("fact %s: %w", f.ID, err)
	}
	return nil
}

// HasPrefix reports whether the fact's hierarchical ID starts with prefix.
// Useful for selecting a category, e.g. prefix "rpp.eligibility".
func (f Fact) HasPrefix(prefix string) bool {
	return strings.HasPrefix(f.ID, prefix)
}
