package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/civickit/permitgraph/internal/seed"
	"github.com/civickit/permitgraph/pkg/types"
)

var (
	flagReqProcessID string
	flagReqHardOnly  bool
)

var requirementsCmd = &cobra.Command{
	Use:   "requirements",
	Short: "List the requirements of a process with their governing rules",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, g, err := loadStores()
		if err != nil {
			return err
		}
		defer store.Detach()

		snap := g.Snapshot()
		var reqs []*types.Requirement
		if flagReqHardOnly {
			reqs, err = snap.HardGateRequirements(flagReqProcessID)
		} else {
			reqs, err = snap.RequirementsForProcess(flagReqProcessID)
		}
		if err != nil {
			return err
		}

		if flagJSON {
			type reqWithRules struct {
				*types.Requirement
				Rules []*types.Rule `json:"rules"`
			}
			out := make([]reqWithRules, 0, len(reqs))
			for _, r := range reqs {
				rules, err := snap.TraceToRule(r.RequirementID)
				if err != nil {
					return err
				}
				out = append(out, reqWithRules{Requirement: r, Rules: rules})
			}
			return printJSON(out)
		}

		for _, r := range reqs {
			gate := ""
			if r.HardGate {
				gate = " [hard gate]"
			}
			fmt.Printf("%s%s\n  %s\n", r.RequirementID, gate, r.Text)
			rules, err := snap.TraceToRule(r.RequirementID)
			if err != nil {
				return err
			}
			for _, rule := range rules {
				fmt.Printf("  rule %s: %s\n    source: %s (verified %s)\n",
					rule.RuleID, rule.Text, rule.SourceURL,
					rule.LastVerified.Format("2006-01-02"))
			}
		}
		return nil
	},
}

func init() {
	requirementsCmd.Flags().StringVar(&flagReqProcessID, "process", seed.ProcessID, "process node id")
	requirementsCmd.Flags().BoolVar(&flagReqHardOnly, "hard-gates", false, "only requirements that block entirely when unmet")
}
