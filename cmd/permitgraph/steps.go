package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/civickit/permitgraph/internal/seed"
	"github.com/civickit/permitgraph/pkg/types"
)

var flagProcessID string

var stepsCmd = &cobra.Command{
	Use:   "steps",
	Short: "List the steps of a process in order, with dependencies",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, g, err := loadStores()
		if err != nil {
			return err
		}
		defer store.Detach()

		snap := g.Snapshot()
		steps, err := snap.StepsInOrder(flagProcessID)
		if err != nil {
			return err
		}

		if flagJSON {
			return printJSON(steps)
		}
		for _, s := range steps {
			fmt.Printf("%d. %s — %s\n", s.Order, s.Name, s.Description)
			deps, err := snap.StepDependencies(s.StepID)
			if err != nil {
				return err
			}
			for _, d := range deps {
				fmt.Printf("   after: %s\n", d.Name)
			}
			office, err := snap.OfficeForStep(s.StepID)
			switch {
			case err == nil:
				fmt.Printf("   where: %s, %s\n", office.Name, office.Address)
			case !errors.Is(err, types.ErrNotFound):
				return err
			}
		}
		return nil
	},
}

func init() {
	stepsCmd.Flags().StringVar(&flagProcessID, "process", seed.ProcessID, "process node id")
}
