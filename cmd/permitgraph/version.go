package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/civickit/permitgraph/pkg/permitgraph"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("permitgraph v" + permitgraph.Version)
	},
}
