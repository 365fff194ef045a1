package graph

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civickit/permitgraph/pkg/types"
)

// factSet is a FactResolver over a fixed id set.
type factSet map[string]bool

func (f factSet) Resolve(id string) bool { return f[id] }

func testCitation() types.Citation {
	return types.Citation{
		SourceURL:    "https://www.boston.gov/departments/parking-clerk/how-get-resident-parking-permit",
		LastVerified: time.Date(2025, 11, 9, 0, 0, 0, 0, time.UTC),
		Confidence:   types.ConfidenceHigh,
	}
}

func testProcess() *types.Process {
	return &types.Process{
		ProcessID:         "proc.rpp",
		Name:              "Boston Resident Parking Permit",
		Category:          types.ProcessCategoryPermits,
		Jurisdiction:      "City of Boston",
		JurisdictionState: "MA",
		Citation:          testCitation(),
	}
}

func testStep(id string, order int) *types.Step {
	return &types.Step{
		StepID:    id,
		ProcessID: "proc.rpp",
		Name:      "Step " + id,
		Order:     order,
		Citation:  testCitation(),
	}
}

func testRequirement(id, factID string, hardGate bool) *types.Requirement {
	return &types.Requirement{
		RequirementID:    id,
		Text:             "Requirement " + id,
		FactID:           factID,
		AppliesToProcess: "proc.rpp",
		HardGate:         hardGate,
		Citation:         testCitation(),
	}
}

func newTestGraph(t *testing.T, facts factSet) *Graph {
	t.Helper()
	g := New(facts)
	require.NoError(t, g.AddNode(testProcess()))
	return g
}

func TestAddNodeAndQuery(t *testing.T) {
	g := newTestGraph(t, factSet{})

	require.NoError(t, g.AddNode(testStep("step.gather", 1)))
	require.NoError(t, g.AddNode(testStep("step.apply", 2)))
	require.NoError(t, g.AddEdge(types.Edge{Type: types.EdgeHasStep, FromID: "proc.rpp", ToID: "step.gather"}))
	require.NoError(t, g.AddEdge(types.Edge{Type: types.EdgeHasStep, FromID: "proc.rpp", ToID: "step.apply"}))

	snap := g.Snapshot()
	steps, err := snap.StepsInOrder("proc.rpp")
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, "step.gather", steps[0].StepID)
	assert.Equal(t, "step.apply", steps[1].StepID)
}

func TestAddNodeRejectsInvalid(t *testing.T) {
	g := New(factSet{})

	p := testProcess()
	p.Confidence = ""
	err := g.AddNode(p)
	assert.ErrorIs(t, err, types.ErrGraphIntegrity)
	assert.Equal(t, uint64(0), g.Version())
}

func TestAddNodeDuplicateID(t *testing.T) {
	g := newTestGraph(t, factSet{})
	err := g.AddNode(testProcess())
	assert.ErrorIs(t, err, types.ErrDuplicateID)
}

func TestStepRequiresExistingProcess(t *testing.T) {
	g := New(factSet{})
	err := g.AddNode(testStep("step.orphan", 1))
	assert.ErrorIs(t, err, types.ErrGraphIntegrity)
	assert.Contains(t, err.Error(), "unknown process")
}

func TestStepOrderUniquePerProcess(t *testing.T) {
	g := newTestGraph(t, factSet{})
	require.NoError(t, g.AddNode(testStep("step.a", 1)))

	err := g.AddNode(testStep("step.b", 1))
	assert.ErrorIs(t, err, types.ErrGraphIntegrity)
	assert.Contains(t, err.Error(), "order 1 already used")

	// A different order is fine.
	require.NoError(t, g.AddNode(testStep("step.b", 2)))
}

func TestRequirementFactMustResolve(t *testing.T) {
	g := newTestGraph(t, factSet{"rpp.known": true})

	err := g.AddNode(testRequirement("req.bad", "rpp.unknown", true))
	assert.ErrorIs(t, err, types.ErrGraphIntegrity)
	assert.Contains(t, err.Error(), "unknown fact")

	require.NoError(t, g.AddNode(testRequirement("req.good", "rpp.known", true)))
}

func TestRuleFactMustResolve(t *testing.T) {
	g := newTestGraph(t, factSet{})
	err := g.AddNode(&types.Rule{
		RuleID:   "rule.recency",
		Text:     "Proof of residency must be dated within 30 days",
		FactID:   "rpp.unknown",
		Scope:    "general",
		Citation: testCitation(),
	})
	assert.ErrorIs(t, err, types.ErrGraphIntegrity)
}

func TestAddEdgeUnknownEndpoint(t *testing.T) {
	g := newTestGraph(t, factSet{})
	err := g.AddEdge(types.Edge{Type: types.EdgeHasStep, FromID: "proc.rpp", ToID: "step.missing"})
	assert.ErrorIs(t, err, types.ErrGraphIntegrity)
	assert.Equal(t, uint64(1), g.Version(), "failed edge must not bump the version")
}

func TestAddEdgeEndpointKinds(t *testing.T) {
	g := newTestGraph(t, factSet{"rpp.known": true})
	require.NoError(t, g.AddNode(testStep("step.a", 1)))
	require.NoError(t, g.AddNode(testRequirement("req.residency", "rpp.known", false)))

	// A step cannot REQUIRE anything; only a process can.
	err := g.AddEdge(types.Edge{Type: types.EdgeRequires, FromID: "step.a", ToID: "req.residency"})
	assert.ErrorIs(t, err, types.ErrGraphIntegrity)
	assert.Contains(t, err.Error(), "cannot connect")
}

func TestDependsOnCycleRejected(t *testing.T) {
	g := newTestGraph(t, factSet{})
	require.NoError(t, g.AddNode(testStep("step.a", 1)))
	require.NoError(t, g.AddNode(testStep("step.b", 2)))
	require.NoError(t, g.AddNode(testStep("step.c", 3)))
	require.NoError(t, g.AddEdge(types.Edge{Type: types.EdgeDependsOn, FromID: "step.b", ToID: "step.a"}))
	require.NoError(t, g.AddEdge(types.Edge{Type: types.EdgeDependsOn, FromID: "step.c", ToID: "step.b"}))

	before := g.Version()
	err := g.AddEdge(types.Edge{Type: types.EdgeDependsOn, FromID: "step.a", ToID: "step.c"})
	assert.ErrorIs(t, err, types.ErrGraphIntegrity)
	assert.Contains(t, err.Error(), "cycle")
	assert.Equal(t, before, g.Version(), "graph must be unchanged after a rejected edge")

	// Self-dependency is the degenerate cycle.
	err = g.AddEdge(types.Edge{Type: types.EdgeDependsOn, FromID: "step.a", ToID: "step.a"})
	assert.ErrorIs(t, err, types.ErrGraphIntegrity)
}

func TestDependsOnStaysWithinProcess(t *testing.T) {
	g := newTestGraph(t, factSet{})
	other := testProcess()
	other.ProcessID = "proc.other"
	require.NoError(t, g.AddNode(other))
	require.NoError(t, g.AddNode(testStep("step.a", 1)))

	foreign := testStep("step.x", 1)
	foreign.ProcessID = "proc.other"
	require.NoError(t, g.AddNode(foreign))

	err := g.AddEdge(types.Edge{Type: types.EdgeDependsOn, FromID: "step.a", ToID: "step.x"})
	assert.ErrorIs(t, err, types.ErrGraphIntegrity)
	assert.Contains(t, err.Error(), "crosses processes")
}

func TestApplyIsAtomic(t *testing.T) {
	g := newTestGraph(t, factSet{"rpp.known": true})
	before := g.Version()

	err := g.Apply(func(tx *Tx) error {
		if err := tx.AddNode(testRequirement("req.residency", "rpp.known", true)); err != nil {
			return err
		}
		// Second node fails: the whole transaction must roll back.
		return tx.AddNode(testRequirement("req.broken", "rpp.unknown", true))
	})
	assert.ErrorIs(t, err, types.ErrGraphIntegrity)
	assert.Equal(t, before, g.Version())

	_, nodeErr := g.Snapshot().Node("req.residency")
	assert.ErrorIs(t, nodeErr, types.ErrNotFound)
}

func TestApplyCommitsNodeAndEdgeTogether(t *testing.T) {
	g := newTestGraph(t, factSet{"rpp.known": true})

	err := g.Apply(func(tx *Tx) error {
		if err := tx.AddNode(testRequirement("req.residency", "rpp.known", true)); err != nil {
			return err
		}
		return tx.AddEdge(types.Edge{Type: types.EdgeRequires, FromID: "proc.rpp", ToID: "req.residency"})
	})
	require.NoError(t, err)

	reqs, err := g.Snapshot().RequirementsForProcess("proc.rpp")
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, "req.residency", reqs[0].RequirementID)
}

func TestTraceToRule(t *testing.T) {
	g := newTestGraph(t, factSet{"rpp.recency": true})
	require.NoError(t, g.Apply(func(tx *Tx) error {
		if err := tx.AddNode(testRequirement("req.residency", "rpp.recency", true)); err != nil {
			return err
		}
		if err := tx.AddNode(&types.Rule{
			RuleID:   "rule.recency",
			Text:     "Proof of residency must be dated within 30 days",
			FactID:   "rpp.recency",
			Scope:    "general",
			Citation: testCitation(),
		}); err != nil {
			return err
		}
		return tx.AddEdge(types.Edge{Type: types.EdgeRuleGoverns, FromID: "rule.recency", ToID: "req.residency"})
	}))

	rules, err := g.Snapshot().TraceToRule("req.residency")
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "rule.recency", rules[0].RuleID)
	assert.Equal(t, "rpp.recency", rules[0].FactID)
	assert.NotEmpty(t, rules[0].Cite().SourceURL)
}

func TestSatisfyingDocumentTypes(t *testing.T) {
	g := newTestGraph(t, factSet{"rpp.residency": true})
	require.NoError(t, g.Apply(func(tx *Tx) error {
		if err := tx.AddNode(testRequirement("req.residency", "rpp.residency", false)); err != nil {
			return err
		}
		for _, id := range []string{"doc.utility_bill", "doc.lease"} {
			if err := tx.AddNode(&types.DocumentType{
				DocTypeID:         id,
				Name:              id,
				FreshnessDays:     30,
				NameMatchRequired: true,
				Citation:          testCitation(),
			}); err != nil {
				return err
			}
			if err := tx.AddEdge(types.Edge{Type: types.EdgeSatisfies, FromID: id, ToID: "req.residency"}); err != nil {
				return err
			}
		}
		return nil
	}))

	docTypes, err := g.Snapshot().SatisfyingDocumentTypes("req.residency")
	require.NoError(t, err)
	require.Len(t, docTypes, 2)
	assert.Equal(t, "doc.lease", docTypes[0].DocTypeID)
	assert.Equal(t, "doc.utility_bill", docTypes[1].DocTypeID)
}

func TestHardGateRequirements(t *testing.T) {
	g := newTestGraph(t, factSet{"rpp.a": true, "rpp.b": true})
	require.NoError(t, g.Apply(func(tx *Tx) error {
		if err := tx.AddNode(testRequirement("req.gate", "rpp.a", true)); err != nil {
			return err
		}
		if err := tx.AddNode(testRequirement("req.soft", "rpp.b", false)); err != nil {
			return err
		}
		for _, id := range []string{"req.gate", "req.soft"} {
			if err := tx.AddEdge(types.Edge{Type: types.EdgeRequires, FromID: "proc.rpp", ToID: id}); err != nil {
				return err
			}
		}
		return nil
	}))

	gates, err := g.Snapshot().HardGateRequirements("proc.rpp")
	require.NoError(t, err)
	require.Len(t, gates, 1)
	assert.Equal(t, "req.gate", gates[0].RequirementID)
}

func TestOfficeForStep(t *testing.T) {
	g := newTestGraph(t, factSet{})
	require.NoError(t, g.AddNode(testStep("step.visit", 1)))
	require.NoError(t, g.AddNode(&types.Office{
		OfficeID: "office.parking_clerk",
		Name:     "Office of the Parking Clerk",
		Address:  "1 City Hall Square",
		Room:     "224",
		Hours:    "Mon-Fri 9-4:30",
		Citation: testCitation(),
	}))
	require.NoError(t, g.AddEdge(types.Edge{Type: types.EdgeHandledAt, FromID: "step.visit", ToID: "office.parking_clerk"}))

	snap := g.Snapshot()
	office, err := snap.OfficeForStep("step.visit")
	require.NoError(t, err)
	assert.Equal(t, "office.parking_clerk", office.OfficeID)

	require.NoError(t, g.AddNode(testStep("step.mail", 2)))
	_, err = g.Snapshot().OfficeForStep("step.mail")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestStepDependencies(t *testing.T) {
	g := newTestGraph(t, factSet{})
	require.NoError(t, g.AddNode(testStep("step.a", 1)))
	require.NoError(t, g.AddNode(testStep("step.b", 2)))
	require.NoError(t, g.AddNode(testStep("step.c", 3)))
	require.NoError(t, g.AddEdge(types.Edge{Type: types.EdgeDependsOn, FromID: "step.c", ToID: "step.b"}))
	require.NoError(t, g.AddEdge(types.Edge{Type: types.EdgeDependsOn, FromID: "step.c", ToID: "step.a"}))

	deps, err := g.Snapshot().StepDependencies("step.c")
	require.NoError(t, err)
	require.Len(t, deps, 2)
	assert.Equal(t, "step.a", deps[0].StepID)
	assert.Equal(t, "step.b", deps[1].StepID)
}

func TestSnapshotIsolation(t *testing.T) {
	g := newTestGraph(t, factSet{})
	snap := g.Snapshot()
	assert.Equal(t, "g1", snap.Version())

	require.NoError(t, g.AddNode(testStep("step.later", 1)))
	assert.Equal(t, "g2", g.Snapshot().Version())

	// The earlier snapshot does not see the new step.
	_, err := snap.Node("step.later")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestNodesByKind(t *testing.T) {
	g := newTestGraph(t, factSet{})
	require.NoError(t, g.AddNode(testStep("step.b", 2)))
	require.NoError(t, g.AddNode(testStep("step.a", 1)))

	snap := g.Snapshot()
	steps := snap.NodesByKind(types.KindStep)
	require.Len(t, steps, 2)
	assert.Equal(t, "step.a", steps[0].NodeID())

	all := snap.AllNodes()
	require.Len(t, all, 3)
	assert.Equal(t, types.KindProcess, all[0].Kind())
}
