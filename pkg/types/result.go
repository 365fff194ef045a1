package types

import "time"

// Eligibility block codes. Every block carries the citations of the
// rules governing the requirement it realizes.
const (
	BlockVehicleClassIneligible = "vehicle_class_ineligible"
	BlockUnpaidTickets          = "unpaid_tickets"
	BlockRegistrationMismatch   = "registration_mismatch"
	BlockStaleCitation          = "stale_citation" // strict mode only
)

// CitationRef ties a citation to the rule it came from, for user-facing
// output. FactID points back into the fact registry.
type CitationRef struct {
	RuleID string `json:"rule_id"`
	FactID string `json:"fact_id"`
	Text   string `json:"text"`

	Citation
}

// Block is one failed hard gate.
type Block struct {
	// Code is one of the Block constants.
	Code string `json:"code"`

	// RequirementID is the graph requirement this gate realizes.
	RequirementID string `json:"requirement_id"`

	// Citations are the governing rules, resolved via RULE_GOVERNS.
	Citations []CitationRef `json:"citations"`
}

// MissingGroup is one unsatisfied document-requirement group: an OR-set
// of acceptable document types with a minimum satisfying count.
type MissingGroup struct {
	RequirementID string `json:"requirement_id"`

	// AcceptableDocTypeIDs is the typed OR-list of document types that
	// can satisfy the group. Never a free-text pattern.
	AcceptableDocTypeIDs []string `json:"acceptable_doc_type_ids"`

	// MinCount is the number of passing documents needed.
	MinCount int `json:"min_count"`

	// Provided is how many passing documents were counted.
	Provided int `json:"provided"`

	Citations []CitationRef `json:"citations"`
}

// ValidationResult is the outcome of validating one document instance
// against its document type.
type ValidationResult struct {
	Passed bool `json:"passed"`

	// Errors holds the accumulated Validation codes; all checks run, so
	// the caller sees every defect at once.
	Errors []string `json:"errors,omitempty"`
}

// EligibilityResult is the outcome of evaluating an application against
// a graph and registry snapshot. It records the snapshot versions so a
// later audit can reproduce the exact decision after rule revisions.
type EligibilityResult struct {
	Eligible bool `json:"eligible"`

	Blocks        []Block        `json:"blocks"`
	MissingGroups []MissingGroup `json:"missing_groups"`

	// GraphVersion and RegistryVersion identify the snapshots consulted.
	GraphVersion    string `json:"graph_version"`
	RegistryVersion uint64 `json:"registry_version"`
}

// StaleRecord is one citation exceeding the verification-age threshold,
// emitted by the staleness monitor for external handling.
type StaleRecord struct {
	EntityKind   string    `json:"entity_kind"`
	ID           string    `json:"id"`
	LastVerified time.Time `json:"last_verified"`
	SourceURL    string    `json:"source_url"`
}
