package sqlite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civickit/permitgraph/pkg/types"
)

func testConfig(t *testing.T) types.Config {
	t.Helper()
	return types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}
}

func attachedStore(t *testing.T, config types.Config) *Store {
	t.Helper()
	s := NewStore(nil)
	require.NoError(t, s.Attach(config))
	t.Cleanup(func() { _ = s.Detach() })
	return s
}

func storeCitation() types.Citation {
	return types.Citation{
		SourceURL:    "https://www.boston.gov/departments/parking-clerk",
		LastVerified: time.Date(2025, 11, 9, 0, 0, 0, 0, time.UTC),
		Confidence:   types.ConfidenceHigh,
	}
}

func storeFact(id string, version int) types.Fact {
	return types.Fact{
		ID:       id,
		Text:     "Permits are free of charge",
		Version:  version,
		Citation: storeCitation(),
	}
}

func TestAttachLifecycle(t *testing.T) {
	config := testConfig(t)
	s := NewStore(nil)

	require.NoError(t, s.Attach(config))
	assert.ErrorIs(t, s.Attach(config), types.ErrAlreadyAttached)

	require.NoError(t, s.Detach())
	require.NoError(t, s.Detach(), "detach is idempotent")

	_, err := s.Facts()
	assert.ErrorIs(t, err, types.ErrStoreDetached)
	assert.ErrorIs(t, s.PutFact(storeFact("rpp.fees", 1)), types.ErrStoreDetached)
}

func TestAttachRejectsBadConfig(t *testing.T) {
	s := NewStore(nil)
	assert.ErrorIs(t, s.Attach(types.Config{}), types.ErrBackendEmpty)
	assert.ErrorIs(t, s.Attach(types.Config{Backend: "neo4j"}), types.ErrBackendUnknown)
}

func TestFactRoundTrip(t *testing.T) {
	config := testConfig(t)
	s := attachedStore(t, config)

	require.NoError(t, s.PutFact(storeFact("rpp.fees", 1)))
	require.NoError(t, s.PutFact(storeFact("rpp.fees", 2)))
	require.NoError(t, s.PutFact(storeFact("rpp.eligibility", 1)))

	facts, err := s.Facts()
	require.NoError(t, err)
	require.Len(t, facts, 3)
	assert.Equal(t, "rpp.eligibility", facts[0].ID)
	assert.Equal(t, "rpp.fees", facts[1].ID)
	assert.Equal(t, 1, facts[1].Version)
	assert.Equal(t, 2, facts[2].Version)

	// Citation fields round-trip exactly.
	assert.Equal(t, storeCitation(), facts[0].Citation)
}

func TestFactVersionsAppendOnly(t *testing.T) {
	s := attachedStore(t, testConfig(t))
	require.NoError(t, s.PutFact(storeFact("rpp.fees", 1)))
	assert.Error(t, s.PutFact(storeFact("rpp.fees", 1)), "duplicate (id, version) must be rejected")
}

func TestNodeRoundTrip(t *testing.T) {
	s := attachedStore(t, testConfig(t))

	require.NoError(t, s.PutNode(&types.Process{
		ProcessID:         "proc.rpp",
		Name:              "Boston Resident Parking Permit",
		Category:          types.ProcessCategoryPermits,
		Jurisdiction:      "City of Boston",
		JurisdictionState: "MA",
		Citation:          storeCitation(),
	}))
	require.NoError(t, s.PutNode(&types.DocumentType{
		DocTypeID:            "doc.utility_bill",
		Name:                 "Utility bill",
		FreshnessDays:        30,
		NameMatchRequired:    true,
		AddressMatchRequired: true,
		Citation:             storeCitation(),
	}))

	nodes, err := s.Nodes()
	require.NoError(t, err)
	require.Len(t, nodes, 2)

	dt, ok := nodes[0].(*types.DocumentType)
	require.True(t, ok)
	assert.Equal(t, 30, dt.FreshnessDays)
	assert.True(t, dt.NameMatchRequired)

	proc, ok := nodes[1].(*types.Process)
	require.True(t, ok)
	assert.Equal(t, "MA", proc.JurisdictionState)
	assert.Equal(t, storeCitation(), proc.Citation)
}

func TestPutNodeReplaces(t *testing.T) {
	s := attachedStore(t, testConfig(t))

	office := &types.Office{
		OfficeID: "office.parking_clerk",
		Name:     "Office of the Parking Clerk",
		Address:  "1 City Hall Square",
		Hours:    "Mon-Fri 9-4:30",
		Citation: storeCitation(),
	}
	require.NoError(t, s.PutNode(office))

	office.Room = "224"
	require.NoError(t, s.PutNode(office))

	nodes, err := s.Nodes()
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "224", nodes[0].(*types.Office).Room)
}

func TestEdgeRoundTrip(t *testing.T) {
	s := attachedStore(t, testConfig(t))

	require.NoError(t, s.PutEdge(types.Edge{
		EdgeID: "e1",
		Type:   types.EdgeHasStep,
		FromID: "proc.rpp",
		ToID:   "step.apply",
		Props:  types.EdgeProps{Order: 1},
	}))

	edges, err := s.Edges()
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, types.EdgeHasStep, edges[0].Type)
	assert.Equal(t, 1, edges[0].Props.Order)
}

func TestDataSurvivesReattach(t *testing.T) {
	config := testConfig(t)

	s := attachedStore(t, config)
	require.NoError(t, s.PutFact(storeFact("rpp.fees", 1)))
	require.NoError(t, s.PutEdge(types.Edge{EdgeID: "e1", Type: types.EdgeRequires, FromID: "proc.rpp", ToID: "req.residency"}))
	require.NoError(t, s.Detach())

	// A fresh store over the same data dir sees the same records: the
	// JSONL files, not the database, are the source of truth.
	s2 := attachedStore(t, config)
	facts, err := s2.Facts()
	require.NoError(t, err)
	require.Len(t, facts, 1)
	assert.Equal(t, "rpp.fees", facts[0].ID)

	edges, err := s2.Edges()
	require.NoError(t, err)
	require.Len(t, edges, 1)
}

func TestPurgeExpiredDocuments(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := attachedStore(t, testConfig(t))

	fresh := types.NewDocument("doc.utility_bill", "National Grid",
		now.AddDate(0, 0, -5), "Jordan Rivera", "12 Beacon St", now.Add(-time.Hour))
	expired := types.NewDocument("doc.lease", "Acme Realty",
		now.AddDate(0, 0, -5), "Jordan Rivera", "12 Beacon St", now.Add(-48*time.Hour))

	require.NoError(t, s.PutDocument(fresh))
	require.NoError(t, s.PutDocument(expired))

	purged, err := s.PurgeExpiredDocuments(now)
	require.NoError(t, err)
	assert.Equal(t, 1, purged)

	docs, err := s.Documents()
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, fresh.DocID, docs[0].DocID)

	// Idempotent once expired documents are gone.
	purged, err = s.PurgeExpiredDocuments(now)
	require.NoError(t, err)
	assert.Equal(t, 0, purged)
}
