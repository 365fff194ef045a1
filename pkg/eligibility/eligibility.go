// Package eligibility evaluates applications against a process graph
// snapshot and a fact registry snapshot. Evaluation is state-free and
// deterministic: the same application against the same snapshots yields
// a deep-equal result, and every block and missing group carries the
// citations of the rules governing the requirement it realizes.
package eligibility

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/civickit/permitgraph/pkg/docval"
	"github.com/civickit/permitgraph/pkg/graph"
	"github.com/civickit/permitgraph/pkg/registry"
	"github.com/civickit/permitgraph/pkg/types"
)

// Well-known requirement ids the engine's gates and category groups
// bind to. The seed graph provides each of them with RULE_GOVERNS and
// SATISFIES edges; evaluation fails loudly if one is missing rather
// than emitting an uncited block.
const (
	ReqVehicleClass      = "req.rpp.vehicle_class"
	ReqNoUnpaidTickets   = "req.rpp.no_unpaid_tickets"
	ReqRegistrationMatch = "req.rpp.registration_match"
	ReqProofOfResidency  = "req.rpp.proof_of_residency"
	ReqRentalContract    = "req.rpp.rental_contract"
	ReqCompanyLetter     = "req.rpp.company_letter"
	ReqBusinessFormation = "req.rpp.business_formation"
	ReqHackneyCard       = "req.rpp.hackney_card"
	ReqHackneyShiftLease = "req.rpp.hackney_shift_lease"
	ReqMilitaryOrders    = "req.rpp.military_orders"
)

// allowedVehicleClasses is the closed set accepted by the vehicle
// class gate.
var allowedVehicleClasses = map[string]bool{
	"passenger": true,
	"sedan":     true,
	"suv":       true,
	"van":       true,
	"pickup":    true,
}

// DefaultStaleThresholdDays is the verification-age threshold strict
// mode folds into blocks.
const DefaultStaleThresholdDays = 90

// Options configure an Engine.
type Options struct {
	// Strict folds stale citations on consulted requirements into
	// blocks. Off by default: staleness is advisory.
	Strict bool

	// StaleThresholdDays overrides DefaultStaleThresholdDays when > 0.
	StaleThresholdDays int

	// Now fixes the evaluation clock for document freshness, retention,
	// and staleness. Zero means time.Now().UTC().
	Now time.Time
}

// Engine evaluates applications. It holds no mutable state; one engine
// may serve any number of concurrent evaluations.
type Engine struct {
	opts Options
}

// New creates an engine with the given options.
func New(opts Options) *Engine {
	return &Engine{opts: opts}
}

// Evaluate runs every hard gate and every category document group and
// returns the accumulated result. Gates never short-circuit: the caller
// sees all blocking conditions in one pass. The result records the
// snapshot versions so the decision can be replayed after revisions.
func (e *Engine) Evaluate(app *types.Application, gs *graph.Snapshot, rs *registry.Snapshot) (types.EligibilityResult, error) {
	if err := app.Validate(); err != nil {
		return types.EligibilityResult{}, err
	}
	proc, err := gs.Process(app.ProcessID)
	if err != nil {
		return types.EligibilityResult{}, err
	}

	now := e.opts.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	res := types.EligibilityResult{
		GraphVersion:    gs.Version(),
		RegistryVersion: rs.Version(),
	}

	blocks, consulted, err := e.evaluateGates(app, proc, gs)
	if err != nil {
		return types.EligibilityResult{}, err
	}
	res.Blocks = blocks

	groupReqs, err := groupsForCategory(app.Category, app.HasActivePermit)
	if err != nil {
		return types.EligibilityResult{}, err
	}
	for _, reqID := range groupReqs {
		consulted = append(consulted, reqID)
		missing, err := e.evaluateGroup(app, gs, reqID, now)
		if err != nil {
			return types.EligibilityResult{}, err
		}
		if missing != nil {
			res.MissingGroups = append(res.MissingGroups, *missing)
		}
	}

	if e.opts.Strict {
		stale, err := e.staleBlocks(gs, rs, consulted, now)
		if err != nil {
			return types.EligibilityResult{}, err
		}
		res.Blocks = append(res.Blocks, stale...)
	}

	res.Eligible = len(res.Blocks) == 0 && len(res.MissingGroups) == 0
	return res, nil
}

// evaluateGates runs the hard gates in a fixed order and returns the
// blocks plus the requirement ids consulted.
func (e *Engine) evaluateGates(app *types.Application, proc *types.Process, gs *graph.Snapshot) ([]types.Block, []string, error) {
	var blocks []types.Block
	consulted := []string{ReqVehicleClass, ReqNoUnpaidTickets}

	if !allowedVehicleClasses[strings.ToLower(app.VehicleClass)] {
		b, err := e.block(gs, types.BlockVehicleClassIneligible, ReqVehicleClass)
		if err != nil {
			return nil, nil, err
		}
		blocks = append(blocks, b)
	}

	if app.UnpaidTickets {
		b, err := e.block(gs, types.BlockUnpaidTickets, ReqNoUnpaidTickets)
		if err != nil {
			return nil, nil, err
		}
		blocks = append(blocks, b)
	}

	// The registration gate is replaced, not silently skipped, for
	// military applicants: groupsForCategory demands military orders
	// evidence instead.
	if app.Category != types.CategoryMilitary {
		consulted = append(consulted, ReqRegistrationMatch)
		if !registrationMatches(app, proc) {
			b, err := e.block(gs, types.BlockRegistrationMismatch, ReqRegistrationMatch)
			if err != nil {
				return nil, nil, err
			}
			blocks = append(blocks, b)
		}
	}

	return blocks, consulted, nil
}

// registrationMatches checks the registration state against the
// process jurisdiction and the registration address against the
// applicant's address.
func registrationMatches(app *types.Application, proc *types.Process) bool {
	if !strings.EqualFold(app.RegistrationState, proc.JurisdictionState) {
		return false
	}
	return docval.AddressesMatch(app.RegistrationAddress, app.ApplicantAddress)
}

// groupsForCategory maps a category to its document-requirement group
// ids. Total over the closed category enum; anything else is
// ErrUnknownCategory.
func groupsForCategory(category string, hasActivePermit bool) ([]string, error) {
	switch category {
	case types.CategoryNew, types.CategoryRenewal, types.CategoryReplacement:
		return []string{ReqProofOfResidency}, nil
	case types.CategoryRental:
		groups := []string{ReqRentalContract}
		if !hasActivePermit {
			groups = append(groups, ReqProofOfResidency)
		}
		return groups, nil
	case types.CategoryLeasedCorp:
		return []string{ReqCompanyLetter, ReqProofOfResidency}, nil
	case types.CategoryBusiness:
		return []string{ReqBusinessFormation}, nil
	case types.CategoryTaxi:
		return []string{ReqHackneyCard, ReqHackneyShiftLease, ReqProofOfResidency}, nil
	case types.CategoryMilitary:
		return []string{ReqMilitaryOrders, ReqProofOfResidency}, nil
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownCategory, category)
	}
}

// evaluateGroup tests one document-requirement group. It counts the
// provided documents whose type is in the group's acceptable set and
// that pass validation, and returns a MissingGroup when the count falls
// short of the requirement's minimum.
func (e *Engine) evaluateGroup(app *types.Application, gs *graph.Snapshot, reqID string, now time.Time) (*types.MissingGroup, error) {
	reqNode, err := gs.Node(reqID)
	if err != nil {
		return nil, fmt.Errorf("document group: %w", err)
	}
	req, ok := reqNode.(*types.Requirement)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a requirement", types.ErrGraphIntegrity, reqID)
	}

	docTypes, err := gs.SatisfyingDocumentTypes(reqID)
	if err != nil {
		return nil, err
	}
	acceptable := make([]string, 0, len(docTypes))
	byID := make(map[string]*types.DocumentType, len(docTypes))
	for _, dt := range docTypes {
		acceptable = append(acceptable, dt.DocTypeID)
		byID[dt.DocTypeID] = dt
	}

	provided := 0
	for _, doc := range app.Documents {
		dt, ok := byID[doc.DocTypeID]
		if !ok || doc.Expired(now) {
			continue
		}
		if docval.Validate(doc, *dt, app.ApplicantName, app.ApplicantAddress, now).Passed {
			provided++
		}
	}

	minCount := req.EffectiveMinCount()
	if provided >= minCount {
		return nil, nil
	}

	cites, err := e.citations(gs, reqID)
	if err != nil {
		return nil, err
	}
	return &types.MissingGroup{
		RequirementID:        reqID,
		AcceptableDocTypeIDs: acceptable,
		MinCount:             minCount,
		Provided:             provided,
		Citations:            cites,
	}, nil
}

// staleBlocks folds stale citations on the consulted requirements into
// blocks, one per requirement, in sorted order.
func (e *Engine) staleBlocks(gs *graph.Snapshot, rs *registry.Snapshot, consulted []string, now time.Time) ([]types.Block, error) {
	threshold := e.opts.StaleThresholdDays
	if threshold <= 0 {
		threshold = DefaultStaleThresholdDays
	}

	seen := make(map[string]bool, len(consulted))
	ids := make([]string, 0, len(consulted))
	for _, id := range consulted {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	var blocks []types.Block
	for _, reqID := range ids {
		rules, err := gs.TraceToRule(reqID)
		if err != nil {
			return nil, err
		}

		var stale []types.CitationRef
		for _, rule := range rules {
			fact, err := rs.Get(rule.FactID)
			if err != nil {
				return nil, fmt.Errorf("rule %s: %w", rule.RuleID, err)
			}
			if fact.OlderThan(now, threshold) {
				stale = append(stale, citationRef(rule))
			}
		}
		if len(stale) > 0 {
			blocks = append(blocks, types.Block{
				Code:          types.BlockStaleCitation,
				RequirementID: reqID,
				Citations:     stale,
			})
		}
	}
	return blocks, nil
}

// block builds one hard-gate block with the citations of the rules
// governing its requirement.
func (e *Engine) block(gs *graph.Snapshot, code, reqID string) (types.Block, error) {
	cites, err := e.citations(gs, reqID)
	if err != nil {
		return types.Block{}, err
	}
	return types.Block{
		Code:          code,
		RequirementID: reqID,
		Citations:     cites,
	}, nil
}

// citations resolves the governing rules of a requirement into
// citation refs. At least one rule must govern each requirement the
// engine consults; zero is a seed defect surfaced as an error.
func (e *Engine) citations(gs *graph.Snapshot, reqID string) ([]types.CitationRef, error) {
	rules, err := gs.TraceToRule(reqID)
	if err != nil {
		return nil, err
	}
	if len(rules) == 0 {
		return nil, fmt.Errorf("%w: requirement %s has no governing rule", types.ErrGraphIntegrity, reqID)
	}

	refs := make([]types.CitationRef, 0, len(rules))
	for _, rule := range rules {
		refs = append(refs, citationRef(rule))
	}
	return refs, nil
}

func citationRef(rule *types.Rule) types.CitationRef {
	return types.CitationRef{
		RuleID:   rule.RuleID,
		FactID:   rule.FactID,
		Text:     rule.Text,
		Citation: rule.Citation,
	}
}
