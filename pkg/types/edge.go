package types

import (
	"fmt"
	"time"
)

// Edge types in the process graph.
const (
	EdgeHasStep       = "HAS_STEP"       // process → step, carries Order
	EdgeDependsOn     = "DEPENDS_ON"     // step → step, must stay acyclic per process
	EdgeRequires      = "REQUIRES"       // process → requirement
	EdgeRuleGoverns   = "RULE_GOVERNS"   // rule → requirement
	EdgeNeedsDocument = "NEEDS_DOCUMENT" // step → document type, carries Count
	EdgeSatisfies     = "SATISFIES"      // document type → requirement
	EdgeHandledAt     = "HANDLED_AT"     // step → office
	EdgeUsesResource  = "USES_RESOURCE"  // process/step → web resource
)

// validEdgeTypes is the set of recognized edge types.
var validEdgeTypes = map[string]bool{
	EdgeHasStep:       true,
	EdgeDependsOn:     true,
	EdgeRequires:      true,
	EdgeRuleGoverns:   true,
	EdgeNeedsDocument: true,
	EdgeSatisfies:     true,
	EdgeHandledAt:     true,
	EdgeUsesResource:  true,
}

// ValidEdgeType reports whether t is a recognized edge type.
func ValidEdgeType(t string) bool {
	return validEdgeTypes[t]
}

// EdgeProps carries the typed properties an edge may have. Only the
// fields meaningful for the edge type are set.
type EdgeProps struct {
	// Order mirrors the step order on HAS_STEP edges.
	Order int `json:"order,omitempty" yaml:"order,omitempty"`

	// Condition describes when a DEPENDS_ON dependency applies.
	Condition string `json:"condition,omitempty" yaml:"condition,omitempty"`

	// Count is the number of documents a NEEDS_DOCUMENT edge asks for.
	Count int `json:"count,omitempty" yaml:"count,omitempty"`
}

// Edge is a directed typed edge between two graph nodes.
type Edge struct {
	// EdgeID is a UUID v7, generated on insertion.
	EdgeID string `json:"edge_id" yaml:"edge_id,omitempty"`

	// Type is one of the Edge constants.
	Type string `json:"type" yaml:"type"`

	// FromID and ToID are the endpoint node IDs. Both must exist in the
	// graph before the edge is admitted.
	FromID string `json:"from_id" yaml:"from_id"`
	ToID   string `json:"to_id" yaml:"to_id"`

	Props EdgeProps `json:"props,omitempty" yaml:"props,omitempty"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at,omitempty"`
}

// Validate checks the edge type, endpoints, and property ranges.
// Endpoint existence is checked by the graph at insertion.
func (e Edge) Validate() error {
	if !validEdgeTypes[e.Type] {
		return fmt.Errorf("%w: edge type %q", ErrInvalidData, e.Type)
	}
	if e.FromID == "" || e.ToID == "" {
		return fmt.Errorf("%w: edge %s has an empty endpoint", ErrInvalidData, e.Type)
	}
	if e.Props.Order < 0 || e.Props.Count < 0 {
		return fmt.Errorf("%w: edge %s has negative props", ErrInvalidData, e.Type)
	}
	return nil
}
