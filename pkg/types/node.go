package types

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Node kinds in the process graph.
const (
	KindProcess      = "process"
	KindStep         = "step"
	KindRequirement  = "requirement"
	KindRule         = "rule"
	KindDocumentType = "document_type"
	KindOffice       = "office"
	KindWebResource  = "web_resource"
)

// validNodeKinds is the set of recognized node kinds.
var validNodeKinds = map[string]bool{
	KindProcess:      true,
	KindStep:         true,
	KindRequirement:  true,
	KindRule:         true,
	KindDocumentType: true,
	KindOffice:       true,
	KindWebResource:  true,
}

// ValidNodeKind reports whether kind is a recognized node kind.
func ValidNodeKind(kind string) bool {
	return validNodeKinds[kind]
}

// Graph write errors.
var (
	ErrGraphIntegrity = errors.New("graph integrity violation")
	ErrUnknownKind    = errors.New("unknown node kind")
)

// Node is a typed vertex in the process graph. Every node carries the
// mandatory citation triple; Validate enforces it together with the
// kind-specific required fields.
type Node interface {
	NodeID() string
	Kind() string
	Cite() Citation
	Validate() error
}

// Process categories.
const (
	ProcessCategoryPermits  = "permits"
	ProcessCategoryLicenses = "licenses"
	ProcessCategoryBenefits = "benefits"
)

var validProcessCategories = map[string]bool{
	ProcessCategoryPermits:  true,
	ProcessCategoryLicenses: true,
	ProcessCategoryBenefits: true,
}

// Process is a high-level government service, e.g. "Boston Resident
// Parking Permit".
type Process struct {
	ProcessID   string `json:"process_id" yaml:"process_id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`

	// Category is one of the ProcessCategory constants.
	Category string `json:"category" yaml:"category"`

	// Jurisdiction is the governing authority, e.g. "City of Boston".
	Jurisdiction string `json:"jurisdiction" yaml:"jurisdiction"`

	// JurisdictionState is the two-letter state code the registration
	// gate checks against, e.g. "MA".
	JurisdictionState string `json:"jurisdiction_state" yaml:"jurisdiction_state"`

	Citation `yaml:",inline"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at,omitempty"`
}

func (p *Process) NodeID() string { return p.ProcessID }
func (p *Process) Kind() string   { return KindProcess }
func (p *Process) Cite() Citation { return p.Citation }

// Validate checks required fields and the citation triple.
func (p *Process) Validate() error {
	if strings.TrimSpace(p.ProcessID) == "" {
		return fmt.Errorf("%w: process id is empty", ErrInvalidID)
	}
	if p.Name == "" {
		return fmt.Errorf("%w: process %s has no name", ErrInvalidData, p.ProcessID)
	}
	if !validProcessCategories[p.Category] {
		return fmt.Errorf("%w: process %s category %q", ErrInvalidData, p.ProcessID, p.Category)
	}
	if p.Jurisdiction == "" {
		return fmt.Errorf("%w: process %s has no jurisdiction", ErrInvalidData, p.ProcessID)
	}
	if err := p.Citation.Validate(); err != nil {
		return fmt.Errorf("process %s: %w", p.ProcessID, err)
	}
	return nil
}

// Step is an actionable task within a process, e.g. "Gather proof of
// residency".
type Step struct {
	StepID      string `json:"step_id" yaml:"step_id"`
	ProcessID   string `json:"process_id" yaml:"process_id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`

	// Order is the 1-indexed display sequence, unique within a process.
	Order int `json:"order" yaml:"order"`

	// EstimatedTimeMinutes is the official time estimate, zero if unknown.
	EstimatedTimeMinutes int `json:"estimated_time_minutes,omitempty" yaml:"estimated_time_minutes,omitempty"`

	// CostUSD is the fee for this step, zero if free.
	CostUSD float64 `json:"cost_usd,omitempty" yaml:"cost_usd,omitempty"`

	// Optional steps can be skipped without blocking the process.
	Optional bool `json:"optional,omitempty" yaml:"optional,omitempty"`

	Citation `yaml:",inline"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at,omitempty"`
}

func (s *Step) NodeID() string { return s.StepID }
func (s *Step) Kind() string   { return KindStep }
func (s *Step) Cite() Citation { return s.Citation }

// Validate checks required fields, a positive order, and the citation triple.
func (s *Step) Validate() error {
	if strings.TrimSpace(s.StepID) == "" {
		return fmt.Errorf("%w: step id is empty", ErrInvalidID)
	}
	if s.ProcessID == "" {
		return fmt.Errorf("%w: step %s has no process id", ErrInvalidData, s.StepID)
	}
	if s.Name == "" {
		return fmt.Errorf("%w: step %s has no name", ErrInvalidData, s.StepID)
	}
	if s.Order < 1 {
		return fmt.Errorf("%w: step %s order %d must be >= 1", ErrInvalidData, s.StepID, s.Order)
	}
	if s.EstimatedTimeMinutes < 0 || s.CostUSD < 0 {
		return fmt.Errorf("%w: step %s has negative estimate", ErrInvalidData, s.StepID)
	}
	if err := s.Citation.Validate(); err != nil {
		return fmt.Errorf("step %s: %w", s.StepID, err)
	}
	return nil
}

// Requirement is an eligibility condition, e.g. "MA registration at a
// Boston address". FactID must resolve against the fact registry before
// the node is admitted to the graph.
type Requirement struct {
	RequirementID string `json:"requirement_id" yaml:"requirement_id"`
	Text          string `json:"text" yaml:"text"`
	FactID        string `json:"fact_id" yaml:"fact_id"`

	// AppliesToProcess is the owning process ID.
	AppliesToProcess string `json:"applies_to_process" yaml:"applies_to_process"`

	// HardGate requirements block progress entirely when unmet.
	HardGate bool `json:"hard_gate" yaml:"hard_gate"`

	// MinCount is the minimum number of satisfying documents for
	// document-backed requirements. Zero means one.
	MinCount int `json:"min_count,omitempty" yaml:"min_count,omitempty"`

	Citation `yaml:",inline"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at,omitempty"`
}

func (r *Requirement) NodeID() string { return r.RequirementID }
func (r *Requirement) Kind() string   { return KindRequirement }
func (r *Requirement) Cite() Citation { return r.Citation }

// Validate checks required fields including fact_id presence and the
// citation triple. Resolution of fact_id happens at graph insertion.
func (r *Requirement) Validate() error {
	if strings.TrimSpace(r.RequirementID) == "" {
		return fmt.Errorf("%w: requirement id is empty", ErrInvalidID)
	}
	if r.Text == "" {
		return fmt.Errorf("%w: requirement %s has no text", ErrInvalidData, r.RequirementID)
	}
	if r.FactID == "" {
		return fmt.Errorf("%w: requirement %s has no fact_id", ErrInvalidData, r.RequirementID)
	}
	if r.AppliesToProcess == "" {
		return fmt.Errorf("%w: requirement %s has no process", ErrInvalidData, r.RequirementID)
	}
	if r.MinCount < 0 {
		return fmt.Errorf("%w: requirement %s min_count %d", ErrInvalidData, r.RequirementID, r.MinCount)
	}
	if err := r.Citation.Validate(); err != nil {
		return fmt.Errorf("requirement %s: %w", r.RequirementID, err)
	}
	return nil
}

// EffectiveMinCount returns MinCount, defaulting zero to one.
func (r *Requirement) EffectiveMinCount() int {
	if r.MinCount < 1 {
		return 1
	}
	return r.MinCount
}

// Rule is an atomic regulatory provision, e.g. "Proof of residency must
// be dated within 30 days". Like Requirement, its FactID must resolve.
type Rule struct {
	RuleID string `json:"rule_id" yaml:"rule_id"`
	Text   string `json:"text" yaml:"text"`
	FactID string `json:"fact_id" yaml:"fact_id"`

	// Scope narrows applicability: general, rental, military, taxi...
	Scope string `json:"scope" yaml:"scope"`

	// EffectiveDate is when the rule took effect, zero if unknown.
	EffectiveDate time.Time `json:"effective_date,omitempty" yaml:"effective_date,omitempty"`

	Citation `yaml:",inline"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at,omitempty"`
}

func (r *Rule) NodeID() string { return r.RuleID }
func (r *Rule) Kind() string   { return KindRule }
func (r *Rule) Cite() Citation { return r.Citation }

// Validate checks required fields and the citation triple.
func (r *Rule) Validate() error {
	if strings.TrimSpace(r.RuleID) == "" {
		return fmt.Errorf("%w: rule id is empty", ErrInvalidID)
	}
	if r.Text == "" {
		return fmt.Errorf("%w: rule %s has no text", ErrInvalidData, r.RuleID)
	}
	if r.FactID == "" {
		return fmt.Errorf("%w: rule %s has no fact_id", ErrInvalidData, r.RuleID)
	}
	if err := r.Citation.Validate(); err != nil {
		return fmt.Errorf("rule %s: %w", r.RuleID, err)
	}
	return nil
}

// DocumentType is a template for accepted documents, e.g. "Utility bill
// dated within 30 days".
type DocumentType struct {
	DocTypeID   string `json:"doc_type_id" yaml:"doc_type_id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// FreshnessDays is the maximum document age in days. Zero means no
	// freshness requirement.
	FreshnessDays int `json:"freshness_days" yaml:"freshness_days"`

	// NameMatchRequired requires the document name to match the applicant.
	NameMatchRequired bool `json:"name_match_required" yaml:"name_match_required"`

	// AddressMatchRequired requires the document address to match the
	// applicant's address.
	AddressMatchRequired bool `json:"address_match_required" yaml:"address_match_required"`

	// Examples lists typical issuers, e.g. ["National Grid", "Eversource"].
	Examples []string `json:"examples,omitempty" yaml:"examples,omitempty"`

	Citation `yaml:",inline"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at,omitempty"`
}

func (d *DocumentType) NodeID() string { return d.DocTypeID }
func (d *DocumentType) Kind() string   { return KindDocumentType }
func (d *DocumentType) Cite() Citation { return d.Citation }

// Validate checks required fields, non-negative freshness, and the
// citation triple.
func (d *DocumentType) Validate() error {
	if strings.TrimSpace(d.DocTypeID) == "" {
		return fmt.Errorf("%w: document type id is empty", ErrInvalidID)
	}
	if d.Name == "" {
		return fmt.Errorf("%w: document type %s has no name", ErrInvalidData, d.DocTypeID)
	}
	if d.FreshnessDays < 0 {
		return fmt.Errorf("%w: document type %s freshness_days %d", ErrInvalidData, d.DocTypeID, d.FreshnessDays)
	}
	if err := d.Citation.Validate(); err != nil {
		return fmt.Errorf("document type %s: %w", d.DocTypeID, err)
	}
	return nil
}

// Office is a physical location handling in-person steps.
type Office struct {
	OfficeID string `json:"office_id" yaml:"office_id"`
	Name     string `json:"name" yaml:"name"`
	Address  string `json:"address" yaml:"address"`
	Room     string `json:"room,omitempty" yaml:"room,omitempty"`
	Hours    string `json:"hours" yaml:"hours"`
	Phone    string `json:"phone,omitempty" yaml:"phone,omitempty"`
	Email    string `json:"email,omitempty" yaml:"email,omitempty"`

	Citation `yaml:",inline"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at,omitempty"`
}

func (o *Office) NodeID() string { return o.OfficeID }
func (o *Office) Kind() string   { return KindOffice }
func (o *Office) Cite() Citation { return o.Citation }

// Validate checks required fields and the citation triple.
func (o *Office) Validate() error {
	if strings.TrimSpace(o.OfficeID) == "" {
		return fmt.Errorf("%w: office id is empty", ErrInvalidID)
	}
	if o.Name == "" || o.Address == "" {
		return fmt.Errorf("%w: office %s missing name or address", ErrInvalidData, o.OfficeID)
	}
	if err := o.Citation.Validate(); err != nil {
		return fmt.Errorf("office %s: %w", o.OfficeID, err)
	}
	return nil
}

// Web resource types.
const (
	ResourceHowTo   = "how_to"
	ResourceProgram = "program"
	ResourcePortal  = "portal"
	ResourcePDFForm = "pdf_form"
)

var validResourceTypes = map[string]bool{
	ResourceHowTo:   true,
	ResourceProgram: true,
	ResourcePortal:  true,
	ResourcePDFForm: true,
}

// WebResource is an official page, portal, or PDF the process references.
// Hash is the SHA-256 of the last fetched content; the external change
// monitor compares it against live pages.
type WebResource struct {
	ResID string `json:"res_id" yaml:"res_id"`
	Title string `json:"title" yaml:"title"`
	URL   string `json:"url" yaml:"url"`

	// Type is one of the Resource constants.
	Type string `json:"type" yaml:"type"`

	// Owner is the responsible office or department.
	Owner string `json:"owner" yaml:"owner"`

	// LastSeen is the last successful fetch date.
	LastSeen time.Time `json:"last_seen" yaml:"last_seen"`

	// Hash is the lowercase hex SHA-256 of the fetched content.
	Hash string `json:"hash" yaml:"hash"`

	Citation `yaml:",inline"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at,omitempty"`
}

func (w *WebResource) NodeID() string { return w.ResID }
func (w *WebResource) Kind() string   { return KindWebResource }
func (w *WebResource) Cite() Citation { return w.Citation }

// Validate checks required fields, the resource type, the content hash
// shape, and the citation triple.
func (w *WebResource) Validate() error {
	if strings.TrimSpace(w.ResID) == "" {
		return fmt.Errorf("%w: web resource id is empty", ErrInvalidID)
	}
	if w.URL == "" {
		return fmt.Errorf("%w: web resource %s has no url", ErrInvalidData, w.ResID)
	}
	if !validResourceTypes[w.Type] {
		return fmt.Errorf("%w: web resource %s type %q", ErrInvalidData, w.ResID, w.Type)
	}
	if w.Hash != "" && !validSHA256Hex(w.Hash) {
		return fmt.Errorf("%w: web resource %s hash is not sha256 hex", ErrInvalidData, w.ResID)
	}
	if err := w.Citation.Validate(); err != nil {
		return fmt.Errorf("web resource %s: %w", w.ResID, err)
	}
	return nil
}

// validSHA256Hex reports whether s is a 64-character lowercase hex string.
func validSHA256Hex(s string) bool {
	if len(s) != 64 {
		return false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
