package graph

import "github.com/civickit/permitgraph/pkg/types"

// Snapshot is an immutable view of the graph at a point in time. All
// evaluation (eligibility, staleness) runs against snapshots so that a
// decision can be replayed exactly even after later mutations.
type Snapshot struct {
	view    view
	version string
}

// Version identifies the graph state this snapshot was taken from.
func (s *Snapshot) Version() string {
	return s.version
}

// Node returns the node with the given id.
func (s *Snapshot) Node(id string) (types.Node, error) {
	return s.view.node(id)
}

// Process returns the process node with the given id.
func (s *Snapshot) Process(id string) (*types.Process, error) {
	return s.view.processNode(id)
}

// StepsInOrder returns the steps of a process sorted by their unique
// per-process order.
func (s *Snapshot) StepsInOrder(processID string) ([]*types.Step, error) {
	return s.view.stepsInOrder(processID)
}

// RequirementsForProcess returns the requirements attached to a process
// over REQUIRES edges.
func (s *Snapshot) RequirementsForProcess(processID string) ([]*types.Requirement, error) {
	return s.view.requirementsForProcess(processID)
}

// HardGateRequirements returns the process requirements with hard_gate
// set.
func (s *Snapshot) HardGateRequirements(processID string) ([]*types.Requirement, error) {
	return s.view.hardGateRequirements(processID)
}

// TraceToRule returns the rules governing a requirement, each carrying
// its own citation.
func (s *Snapshot) TraceToRule(requirementID string) ([]*types.Rule, error) {
	return s.view.traceToRule(requirementID)
}

// SatisfyingDocumentTypes returns the document types that can satisfy a
// requirement over SATISFIES edges.
func (s *Snapshot) SatisfyingDocumentTypes(requirementID string) ([]*types.DocumentType, error) {
	return s.view.satisfyingDocumentTypes(requirementID)
}

// StepDependencies returns the steps a step DEPENDS_ON.
func (s *Snapshot) StepDependencies(stepID string) ([]*types.Step, error) {
	return s.view.stepDependencies(stepID)
}

// OfficeForStep returns the office a step is handled at.
func (s *Snapshot) OfficeForStep(stepID string) (*types.Office, error) {
	return s.view.officeForStep(stepID)
}

// DocumentType returns the document type with the given id.
func (s *Snapshot) DocumentType(id string) (*types.DocumentType, error) {
	return s.view.documentType(id)
}

// NodesByKind returns every node of the given kind, sorted by id.
func (s *Snapshot) NodesByKind(kind string) []types.Node {
	return s.view.nodesByKind(kind)
}

// AllNodes returns every node sorted by kind then id.
func (s *Snapshot) AllNodes() []types.Node {
	return s.view.allNodes()
}

// AllEdges returns every edge.
func (s *Snapshot) AllEdges() []types.Edge {
	return s.view.allEdges()
}
