package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the data directory and storage files",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := attachStore()
		if err != nil {
			return err
		}
		defer store.Detach()

		dataDir, err := resolveDataDir()
		if err != nil {
			return err
		}
		fmt.Println("Initialized permitgraph data directory:", dataDir)
		return nil
	},
}
