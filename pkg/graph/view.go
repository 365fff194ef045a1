package graph

import (
	"fmt"
	"sort"

	"github.com/civickit/permitgraph/pkg/types"
)

// view holds the indexed node store and adjacency-listed edges shared
// by Graph and Snapshot. It carries no lock; Graph guards it, Snapshot
// freezes it.
type view struct {
	nodes map[string]types.Node
	edges []types.Edge
	out   map[string][]int // node id -> indexes into edges
	in    map[string][]int
}

func newView() view {
	return view{
		nodes: make(map[string]types.Node),
		out:   make(map[string][]int),
		in:    make(map[string][]int),
	}
}

func (v *view) addEdge(e types.Edge) {
	i := len(v.edges)
	v.edges = append(v.edges, e)
	v.out[e.FromID] = append(v.out[e.FromID], i)
	v.in[e.ToID] = append(v.in[e.ToID], i)
}

// merge folds a staged view into this one.
func (v *view) merge(staged *view) {
	for id, n := range staged.nodes {
		v.nodes[id] = n
	}
	for _, e := range staged.edges {
		v.addEdge(e)
	}
}

// clone returns a structural copy. Node values are shared; they are
// never mutated after insertion.
func (v *view) clone() view {
	c := newView()
	for id, n := range v.nodes {
		c.nodes[id] = n
	}
	for _, e := range v.edges {
		c.addEdge(e)
	}
	return c
}

// node returns the node with the given id or ErrNotFound.
func (v *view) node(id string) (types.Node, error) {
	n, ok := v.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: node %s", types.ErrNotFound, id)
	}
	return n, nil
}

// stepsInOrder returns the steps of a process sorted by order, following
// HAS_STEP edges. Order ties cannot exist; uniqueness is enforced at
// node insertion.
func (v *view) stepsInOrder(processID string) ([]*types.Step, error) {
	if _, err := v.processNode(processID); err != nil {
		return nil, err
	}

	var steps []*types.Step
	for _, i := range v.out[processID] {
		if v.edges[i].Type != types.EdgeHasStep {
			continue
		}
		if s, ok := v.nodes[v.edges[i].ToID].(*types.Step); ok {
			steps = append(steps, s)
		}
	}
	sort.Slice(steps, func(i, j int) bool { return steps[i].Order < steps[j].Order })
	return steps, nil
}

// requirementsForProcess returns the requirements reachable over
// REQUIRES edges, sorted by id.
func (v *view) requirementsForProcess(processID string) ([]*types.Requirement, error) {
	if _, err := v.processNode(processID); err != nil {
		return nil, err
	}

	var reqs []*types.Requirement
	for _, i := range v.out[processID] {
		if v.edges[i].Type != types.EdgeRequires {
			continue
		}
		if r, ok := v.nodes[v.edges[i].ToID].(*types.Requirement); ok {
			reqs = append(reqs, r)
		}
	}
	sort.Slice(reqs, func(i, j int) bool { return reqs[i].RequirementID < reqs[j].RequirementID })
	return reqs, nil
}

// hardGateRequirements returns the process requirements flagged as hard
// gates, sorted by id.
func (v *view) hardGateRequirements(processID string) ([]*types.Requirement, error) {
	reqs, err := v.requirementsForProcess(processID)
	if err != nil {
		return nil, err
	}
	var gates []*types.Requirement
	for _, r := range reqs {
		if r.HardGate {
			gates = append(gates, r)
		}
	}
	return gates, nil
}

// traceToRule returns every rule with a RULE_GOVERNS edge into the
// requirement, sorted by rule id. Each rule carries its own citation.
func (v *view) traceToRule(requirementID string) ([]*types.Rule, error) {
	if _, ok := v.nodes[requirementID].(*types.Requirement); !ok {
		return nil, fmt.Errorf("%w: requirement %s", types.ErrNotFound, requirementID)
	}

	var rules []*types.Rule
	for _, i := range v.in[requirementID] {
		if v.edges[i].Type != types.EdgeRuleGoverns {
			continue
		}
		if r, ok := v.nodes[v.edges[i].FromID].(*types.Rule); ok {
			rules = append(rules, r)
		}
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].RuleID < rules[j].RuleID })
	return rules, nil
}

// satisfyingDocumentTypes returns the document types with a SATISFIES
// edge into the requirement, sorted by id.
func (v *view) satisfyingDocumentTypes(requirementID string) ([]*types.DocumentType, error) {
	if _, ok := v.nodes[requirementID].(*types.Requirement); !ok {
		return nil, fmt.Errorf("%w: requirement %s", types.ErrNotFound, requirementID)
	}

	var docTypes []*types.DocumentType
	for _, i := range v.in[requirementID] {
		if v.edges[i].Type != types.EdgeSatisfies {
			continue
		}
		if dt, ok := v.nodes[v.edges[i].FromID].(*types.DocumentType); ok {
			docTypes = append(docTypes, dt)
		}
	}
	sort.Slice(docTypes, func(i, j int) bool { return docTypes[i].DocTypeID < docTypes[j].DocTypeID })
	return docTypes, nil
}

// stepDependencies returns the steps the given step DEPENDS_ON, sorted
// by order.
func (v *view) stepDependencies(stepID string) ([]*types.Step, error) {
	if _, ok := v.nodes[stepID].(*types.Step); !ok {
		return nil, fmt.Errorf("%w: step %s", types.ErrNotFound, stepID)
	}

	var deps []*types.Step
	for _, i := range v.out[stepID] {
		if v.edges[i].Type != types.EdgeDependsOn {
			continue
		}
		if s, ok := v.nodes[v.edges[i].ToID].(*types.Step); ok {
			deps = append(deps, s)
		}
	}
	sort.Slice(deps, func(i, j int) bool { return deps[i].Order < deps[j].Order })
	return deps, nil
}

// officeForStep returns the office handling a step, or ErrNotFound when
// the step has no HANDLED_AT edge.
func (v *view) officeForStep(stepID string) (*types.Office, error) {
	if _, ok := v.nodes[stepID].(*types.Step); !ok {
		return nil, fmt.Errorf("%w: step %s", types.ErrNotFound, stepID)
	}

	for _, i := range v.out[stepID] {
		if v.edges[i].Type != types.EdgeHandledAt {
			continue
		}
		if o, ok := v.nodes[v.edges[i].ToID].(*types.Office); ok {
			return o, nil
		}
	}
	return nil, fmt.Errorf("%w: no office for step %s", types.ErrNotFound, stepID)
}

// documentType returns the document type with the given id.
func (v *view) documentType(id string) (*types.DocumentType, error) {
	dt, ok := v.nodes[id].(*types.DocumentType)
	if !ok {
		return nil, fmt.Errorf("%w: document type %s", types.ErrNotFound, id)
	}
	return dt, nil
}

// nodesByKind returns every node of the given kind, sorted by id.
func (v *view) nodesByKind(kind string) []types.Node {
	var out []types.Node
	for _, n := range v.nodes {
		if n.Kind() == kind {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NodeID() < out[j].NodeID() })
	return out
}

// allNodes returns every node sorted by kind then id, for scans that
// must visit each citation-bearing record deterministically.
func (v *view) allNodes() []types.Node {
	out := make([]types.Node, 0, len(v.nodes))
	for _, n := range v.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind() != out[j].Kind() {
			return out[i].Kind() < out[j].Kind()
		}
		return out[i].NodeID() < out[j].NodeID()
	})
	return out
}

// allEdges returns a copy of every edge.
func (v *view) allEdges() []types.Edge {
	out := make([]types.Edge, len(v.edges))
	copy(out, v.edges)
	return out
}

func (v *view) processNode(processID string) (*types.Process, error) {
	p, ok := v.nodes[processID].(*types.Process)
	if !ok {
		return nil, fmt.Errorf("%w: process %s", types.ErrNotFound, processID)
	}
	return p, nil
}
