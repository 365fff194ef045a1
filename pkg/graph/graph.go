// Package graph implements the process graph model: typed nodes
// (Process, Step, Requirement, Rule, DocumentType, Office, WebResource)
// connected by typed edges, held in an indexed store with adjacency
// lists. Integrity is enforced at write time: every node validates its
// fields and citation, Requirement and Rule fact_ids must resolve
// against the fact registry, edge endpoints must exist, Step orders are
// unique per process, and DEPENDS_ON chains stay acyclic. Multi-node
// mutations commit atomically through Apply, so readers never observe a
// requirement without its governing edge.
package graph

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/civickit/permitgraph/pkg/types"
)

// FactResolver answers whether a fact id exists. The fact registry and
// its snapshots both satisfy it.
type FactResolver interface {
	Resolve(id string) bool
}

// Graph is the mutable process graph. Writes are serialized behind a
// single writer lock; readers either hold the read lock through a query
// or take an immutable Snapshot.
type Graph struct {
	mu      sync.RWMutex
	facts   FactResolver
	view    view
	version uint64
}

// New creates an empty graph whose Requirement and Rule nodes resolve
// fact ids through facts.
func New(facts FactResolver) *Graph {
	return &Graph{
		facts: facts,
		view:  newView(),
	}
}

// AddNode validates and inserts a single node. Returns ErrGraphIntegrity
// (wrapped with detail) when validation, fact resolution, referential
// checks, or per-process step order uniqueness fail. The graph is
// unchanged on failure.
func (g *Graph) AddNode(n types.Node) error {
	return g.Apply(func(tx *Tx) error {
		return tx.AddNode(n)
	})
}

// AddEdge validates and inserts a single edge. Both endpoints must
// already exist; DEPENDS_ON edges are rejected if they would create a
// cycle among the owning process's steps. The graph is unchanged on
// failure.
func (g *Graph) AddEdge(e types.Edge) error {
	return g.Apply(func(tx *Tx) error {
		return tx.AddEdge(e)
	})
}

// Apply runs fn against a staging transaction and commits all staged
// nodes and edges atomically, or none of them if fn returns an error.
func (g *Graph) Apply(fn func(tx *Tx) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	tx := &Tx{
		base:   &g.view,
		facts:  g.facts,
		staged: newView(),
	}
	if err := fn(tx); err != nil {
		return err
	}

	g.view.merge(&tx.staged)
	g.version++
	return nil
}

// Version returns the monotonic graph version, bumped on every
// successful mutation.
func (g *Graph) Version() uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.version
}

// Snapshot captures an immutable view of the graph. Nodes are shared
// structurally; the graph never mutates a node after insertion.
func (g *Graph) Snapshot() *Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return &Snapshot{
		view:    g.view.clone(),
		version: "g" + strconv.FormatUint(g.version, 10),
	}
}

// Tx stages nodes and edges for an atomic commit. Validation sees the
// committed graph plus everything staged so far, so a requirement and
// its REQUIRES edge can be added in one transaction.
type Tx struct {
	base   *view
	facts  FactResolver
	staged view
}

// AddNode validates and stages a node.
func (tx *Tx) AddNode(n types.Node) error {
	if n == nil {
		return fmt.Errorf("%w: nil node", types.ErrGraphIntegrity)
	}
	if err := n.Validate(); err != nil {
		return fmt.Errorf("%w: %v", types.ErrGraphIntegrity, err)
	}

	id := n.NodeID()
	if tx.lookup(id) != nil {
		return fmt.Errorf("%w: node %s already exists", types.ErrDuplicateID, id)
	}

	switch v := n.(type) {
	case *types.Step:
		if err := tx.checkStep(v); err != nil {
			return err
		}
	case *types.Requirement:
		if !tx.facts.Resolve(v.FactID) {
			return fmt.Errorf("%w: requirement %s references unknown fact %s",
				types.ErrGraphIntegrity, v.RequirementID, v.FactID)
		}
	case *types.Rule:
		if !tx.facts.Resolve(v.FactID) {
			return fmt.Errorf("%w: rule %s references unknown fact %s",
				types.ErrGraphIntegrity, v.RuleID, v.FactID)
		}
	}

	tx.staged.nodes[id] = n
	return nil
}

// AddEdge validates and stages an edge. An edge id is generated when
// absent.
func (tx *Tx) AddEdge(e types.Edge) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("%w: %v", types.ErrGraphIntegrity, err)
	}

	from := tx.lookup(e.FromID)
	if from == nil {
		return fmt.Errorf("%w: edge %s from unknown node %s", types.ErrGraphIntegrity, e.Type, e.FromID)
	}
	to := tx.lookup(e.ToID)
	if to == nil {
		return fmt.Errorf("%w: edge %s to unknown node %s", types.ErrGraphIntegrity, e.Type, e.ToID)
	}

	if err := checkEndpointKinds(e.Type, from.Kind(), to.Kind()); err != nil {
		return err
	}

	if e.Type == types.EdgeDependsOn {
		fromStep := from.(*types.Step)
		toStep := to.(*types.Step)
		if fromStep.ProcessID != toStep.ProcessID {
			return fmt.Errorf("%w: DEPENDS_ON crosses processes (%s, %s)",
				types.ErrGraphIntegrity, fromStep.ProcessID, toStep.ProcessID)
		}
		if tx.wouldCycle(e.FromID, e.ToID) {
			return fmt.Errorf("%w: DEPENDS_ON %s -> %s would create a cycle in process %s",
				types.ErrGraphIntegrity, e.FromID, e.ToID, fromStep.ProcessID)
		}
	}

	if e.EdgeID == "" {
		e.EdgeID = types.NewID()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	tx.staged.addEdge(e)
	return nil
}

// lookup finds a node in the committed view or the staged set.
func (tx *Tx) lookup(id string) types.Node {
	if n, ok := tx.staged.nodes[id]; ok {
		return n
	}
	if n, ok := tx.base.nodes[id]; ok {
		return n
	}
	return nil
}

// checkStep enforces that the step's process exists and its order is
// unique within that process, across committed and staged steps.
func (tx *Tx) checkStep(s *types.Step) error {
	proc := tx.lookup(s.ProcessID)
	if proc == nil || proc.Kind() != types.KindProcess {
		return fmt.Errorf("%w: step %s references unknown process %s",
			types.ErrGraphIntegrity, s.StepID, s.ProcessID)
	}

	check := func(v *view) error {
		for _, n := range v.nodes {
			other, ok := n.(*types.Step)
			if !ok || other.ProcessID != s.ProcessID {
				continue
			}
			if other.Order == s.Order {
				return fmt.Errorf("%w: step order %d already used by %s in process %s",
					types.ErrGraphIntegrity, s.Order, other.StepID, s.ProcessID)
			}
		}
		return nil
	}
	if err := check(tx.base); err != nil {
		return err
	}
	return check(&tx.staged)
}

// wouldCycle reports whether adding a DEPENDS_ON edge from -> to closes
// a cycle: true when `from` is already reachable from `to` along
// DEPENDS_ON edges (committed or staged).
func (tx *Tx) wouldCycle(from, to string) bool {
	if from == to {
		return true
	}

	seen := map[string]bool{}
	stack := []string{to}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == from {
			return true
		}
		if seen[cur] {
			continue
		}
		seen[cur] = true

		for _, v := range []*view{tx.base, &tx.staged} {
			for _, i := range v.out[cur] {
				if v.edges[i].Type == types.EdgeDependsOn {
					stack = append(stack, v.edges[i].ToID)
				}
			}
		}
	}
	return false
}

// edgeEndpointKinds maps each edge type to its permitted (from, to)
// node kinds.
var edgeEndpointKinds = map[string]struct{ from, to map[string]bool }{
	types.EdgeHasStep:       {from: kinds(types.KindProcess), to: kinds(types.KindStep)},
	types.EdgeDependsOn:     {from: kinds(types.KindStep), to: kinds(types.KindStep)},
	types.EdgeRequires:      {from: kinds(types.KindProcess), to: kinds(types.KindRequirement)},
	types.EdgeRuleGoverns:   {from: kinds(types.KindRule), to: kinds(types.KindRequirement)},
	types.EdgeNeedsDocument: {from: kinds(types.KindStep), to: kinds(types.KindDocumentType)},
	types.EdgeSatisfies:     {from: kinds(types.KindDocumentType), to: kinds(types.KindRequirement)},
	types.EdgeHandledAt:     {from: kinds(types.KindStep), to: kinds(types.KindOffice)},
	types.EdgeUsesResource:  {from: kinds(types.KindProcess, types.KindStep), to: kinds(types.KindWebResource)},
}

func kinds(ks ...string) map[string]bool {
	m := make(map[string]bool, len(ks))
	for _, k := range ks {
		m[k] = true
	}
	return m
}

func checkEndpointKinds(edgeType, fromKind, toKind string) error {
	allowed := edgeEndpointKinds[edgeType]
	if !allowed.from[fromKind] || !allowed.to[toKind] {
		return fmt.Errorf("%w: edge %s cannot connect %s to %s",
			types.ErrGraphIntegrity, edgeType, fromKind, toKind)
	}
	return nil
}
