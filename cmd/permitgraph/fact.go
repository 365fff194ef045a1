package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/civickit/permitgraph/pkg/types"
)

var (
	flagFactPrefix     string
	flagFactHistory    bool
	flagReviseText     string
	flagReviseVerified string
	flagReviseConf     string
)

var factCmd = &cobra.Command{
	Use:   "fact",
	Short: "Inspect and revise registry facts",
}

var factGetCmd = &cobra.Command{
	Use:   "get <fact-id>",
	Short: "Print the current version of a fact",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, reg, _, err := loadStores()
		if err != nil {
			return err
		}
		defer store.Detach()

		if flagFactHistory {
			history, err := reg.History(args[0])
			if err != nil {
				return err
			}
			return printFacts(history)
		}

		f, err := reg.Get(args[0])
		if err != nil {
			return err
		}
		return printFacts([]types.Fact{f})
	},
}

var factListCmd = &cobra.Command{
	Use:   "list",
	Short: "List current facts, optionally filtered by id prefix",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, reg, _, err := loadStores()
		if err != nil {
			return err
		}
		defer store.Detach()

		facts := reg.All()
		if flagFactPrefix != "" {
			facts = reg.ListByPrefix(flagFactPrefix)
		}
		return printFacts(facts)
	},
}

var factReviseCmd = &cobra.Command{
	Use:   "revise <fact-id>",
	Short: "Store a new version of a fact, preserving history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		verified, err := time.Parse("2006-01-02", flagReviseVerified)
		if err != nil {
			return fmt.Errorf("--last-verified: %w", err)
		}

		store, reg, _, err := loadStores()
		if err != nil {
			return err
		}
		defer store.Detach()

		revised, err := reg.Revise(args[0], flagReviseText, verified, flagReviseConf)
		if err != nil {
			return err
		}
		if err := store.PutFact(revised); err != nil {
			return fmt.Errorf("persist revision: %w", err)
		}

		return printFacts([]types.Fact{revised})
	},
}

func printFacts(facts []types.Fact) error {
	if flagJSON {
		return printJSON(facts)
	}
	for _, f := range facts {
		fmt.Printf("%s (v%d, %s, verified %s)\n  %s\n  %s\n",
			f.ID, f.Version, f.Confidence,
			f.LastVerified.Format("2006-01-02"), f.Text, f.SourceURL)
	}
	return nil
}

func init() {
	factGetCmd.Flags().BoolVar(&flagFactHistory, "history", false, "print every stored version, oldest first")
	factListCmd.Flags().StringVar(&flagFactPrefix, "prefix", "", "filter by hierarchical id prefix, e.g. rpp.eligibility")
	factReviseCmd.Flags().StringVar(&flagReviseText, "text", "", "replacement text (empty keeps the current text)")
	factReviseCmd.Flags().StringVar(&flagReviseVerified, "last-verified", "", "verification date, YYYY-MM-DD (required)")
	factReviseCmd.Flags().StringVar(&flagReviseConf, "confidence", "", "confidence: high, medium, or low (required)")
	_ = factReviseCmd.MarkFlagRequired("last-verified")
	_ = factReviseCmd.MarkFlagRequired("confidence")

	factCmd.AddCommand(factGetCmd)
	factCmd.AddCommand(factListCmd)
	factCmd.AddCommand(factReviseCmd)
}
