// Package main provides the permitgraph CLI: seed and inspect the
// citizen-guidance core (fact registry, process graph, eligibility
// evaluation) over a local data directory.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/civickit/permitgraph/pkg/types"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if isUserError(err) {
			os.Exit(exitUserError)
		}
		os.Exit(exitSysError)
	}
}

// isUserError classifies errors caused by caller input rather than the
// system.
func isUserError(err error) bool {
	return errors.Is(err, types.ErrNotFound) ||
		errors.Is(err, types.ErrDuplicateID) ||
		errors.Is(err, types.ErrCitationMissing) ||
		errors.Is(err, types.ErrInvalidData) ||
		errors.Is(err, types.ErrInvalidID) ||
		errors.Is(err, types.ErrUnknownCategory)
}
