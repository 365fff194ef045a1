package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var purgeDocsCmd = &cobra.Command{
	Use:   "purge-docs",
	Short: "Delete stored documents past their retention window",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := attachStore()
		if err != nil {
			return err
		}
		defer store.Detach()

		n, err := store.PurgeExpiredDocuments(time.Now().UTC())
		if err != nil {
			return err
		}
		fmt.Printf("Purged %d expired documents\n", n)
		return nil
	},
}
