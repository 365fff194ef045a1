package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/civickit/permitgraph/internal/seed"
	"github.com/civickit/permitgraph/internal/sqlite"
	"github.com/civickit/permitgraph/pkg/registry"
)

var flagFactsFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the store with the Boston RPP facts and process graph",
	Long: `Seed loads the facts registry (embedded data or --facts file),
builds the Boston Resident Parking Permit process graph against it, and
persists both to the data directory. Seeding an already-seeded store
fails on the first duplicate record rather than overwriting.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := slog.Default()

		var (
			err  error
			data []byte
		)
		if flagFactsFile != "" {
			if data, err = os.ReadFile(flagFactsFile); err != nil {
				return fmt.Errorf("read facts file: %w", err)
			}
		}

		reg, err := loadSeedRegistry(data, log)
		if err != nil {
			return err
		}
		g, err := seed.BuildGraph(reg, log)
		if err != nil {
			return fmt.Errorf("build graph: %w", err)
		}

		store, err := attachStore()
		if err != nil {
			return err
		}
		defer store.Detach()

		if err := sqlite.SaveRegistry(store, reg); err != nil {
			return fmt.Errorf("persist registry: %w", err)
		}
		snap := g.Snapshot()
		if err := sqlite.SaveGraph(store, snap); err != nil {
			return fmt.Errorf("persist graph: %w", err)
		}

		fmt.Printf("Seeded %d facts, %d nodes, %d edges\n",
			reg.Len(), len(snap.AllNodes()), len(snap.AllEdges()))
		return nil
	},
}

func loadSeedRegistry(data []byte, log *slog.Logger) (*registry.Registry, error) {
	if data != nil {
		return seed.LoadRegistry(data, log)
	}
	return seed.DefaultRegistry(log)
}

func init() {
	seedCmd.Flags().StringVar(&flagFactsFile, "facts", "", "facts registry YAML file (default: embedded seed data)")
}
