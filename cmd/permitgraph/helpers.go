// Shared helpers for permitgraph CLI commands.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/civickit/permitgraph/internal/sqlite"
	"github.com/civickit/permitgraph/pkg/graph"
	"github.com/civickit/permitgraph/pkg/registry"
	"github.com/civickit/permitgraph/pkg/types"
)

// attachStore resolves the data directory and attaches the SQLite
// store. The caller must defer store.Detach().
func attachStore() (*sqlite.Store, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	store := sqlite.NewStore(slog.Default())
	if err := store.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dataDir}); err != nil {
		return nil, fmt.Errorf("attach store: %w", err)
	}
	return store, nil
}

// loadStores attaches the store and rebuilds the in-memory registry
// and graph from it. The caller must defer store.Detach().
func loadStores() (*sqlite.Store, *registry.Registry, *graph.Graph, error) {
	store, err := attachStore()
	if err != nil {
		return nil, nil, nil, err
	}

	reg, err := sqlite.LoadRegistry(store, slog.Default())
	if err != nil {
		store.Detach()
		return nil, nil, nil, fmt.Errorf("load registry: %w", err)
	}
	g, err := sqlite.LoadGraph(store, reg, slog.Default())
	if err != nil {
		store.Detach()
		return nil, nil, nil, fmt.Errorf("load graph: %w", err)
	}
	return store, reg, g, nil
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
