package sqlite

import (
	"fmt"
	"log/slog"

	"github.com/civickit/permitgraph/pkg/graph"
	"github.com/civickit/permitgraph/pkg/registry"
	"github.com/civickit/permitgraph/pkg/types"
)

// LoadRegistry rebuilds a fact registry from the stored fact versions.
// Versions replay through Register and Revise, so citation enforcement
// and history hold by construction.
func LoadRegistry(s types.Store, log *slog.Logger) (*registry.Registry, error) {
	if log == nil {
		log = slog.Default()
	}

	facts, err := s.Facts()
	if err != nil {
		return nil, err
	}

	reg := registry.New()
	for _, f := range facts {
		if f.Version <= 1 {
			if err := reg.Register(f); err != nil {
				return nil, fmt.Errorf("replay fact %s: %w", f.ID, err)
			}
			continue
		}
		if _, err := reg.Revise(f.ID, f.Text, f.LastVerified, f.Confidence); err != nil {
			return nil, fmt.Errorf("replay fact %s v%d: %w", f.ID, f.Version, err)
		}
	}

	log.Debug("registry loaded", "facts", reg.Len(), "version", reg.Version())
	return reg, nil
}

// LoadGraph rebuilds a process graph from the stored nodes and edges,
// resolving fact references through facts. Everything replays through
// one transaction: a store with an integrity defect fails to load
// rather than producing a partial graph.
func LoadGraph(s types.Store, facts graph.FactResolver, log *slog.Logger) (*graph.Graph, error) {
	if log == nil {
		log = slog.Default()
	}

	nodes, err := s.Nodes()
	if err != nil {
		return nil, err
	}
	edges, err := s.Edges()
	if err != nil {
		return nil, err
	}

	g := graph.New(facts)
	err = g.Apply(func(tx *graph.Tx) error {
		for _, n := range nodes {
			if err := tx.AddNode(n); err != nil {
				return fmt.Errorf("replay node %s: %w", n.NodeID(), err)
			}
		}
		for _, e := range edges {
			if err := tx.AddEdge(e); err != nil {
				return fmt.Errorf("replay edge %s: %w", e.EdgeID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Debug("graph loaded", "nodes", len(nodes), "edges", len(edges))
	return g, nil
}

// SaveRegistry persists every version of every fact in the registry.
func SaveRegistry(s types.Store, reg *registry.Registry) error {
	for _, f := range reg.All() {
		versions, err := reg.History(f.ID)
		if err != nil {
			return err
		}
		for _, v := range versions {
			if err := s.PutFact(v); err != nil {
				return err
			}
		}
	}
	return nil
}

// SaveGraph persists every node and edge of a graph snapshot.
func SaveGraph(s types.Store, snap *graph.Snapshot) error {
	for _, n := range snap.AllNodes() {
		if err := s.PutNode(n); err != nil {
			return err
		}
	}
	for _, e := range snap.AllEdges() {
		if err := s.PutEdge(e); err != nil {
			return err
		}
	}
	return nil
}
