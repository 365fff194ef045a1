// Package staleness scans citation-bearing records for verification
// dates exceeding an age threshold. The scan is read-only and advisory:
// it emits records for external handling (opening a review item) and
// never blocks evaluation.
package staleness

import (
	"log/slog"
	"time"

	"github.com/civickit/permitgraph/pkg/graph"
	"github.com/civickit/permitgraph/pkg/registry"
	"github.com/civickit/permitgraph/pkg/types"
)

// DefaultThresholdDays is the verification-age threshold used when the
// caller passes zero.
const DefaultThresholdDays = 90

// Monitor scans registry and graph snapshots. A nil logger disables
// logging.
type Monitor struct {
	log *slog.Logger
}

// New creates a monitor logging through log. Pass nil to scan silently.
func New(log *slog.Logger) *Monitor {
	return &Monitor{log: log}
}

// Scan returns every fact and every citation-bearing graph node whose
// last_verified date precedes now minus thresholdDays. Facts come
// first, sorted by id; nodes follow, sorted by kind then id. A zero or
// negative threshold means DefaultThresholdDays.
func (m *Monitor) Scan(now time.Time, thresholdDays int, rs *registry.Snapshot, gs *graph.Snapshot) []types.StaleRecord {
	if thresholdDays <= 0 {
		thresholdDays = DefaultThresholdDays
	}

	var out []types.StaleRecord
	for _, f := range rs.ListOlderThan(now, thresholdDays) {
		out = append(out, types.StaleRecord{
			EntityKind:   "fact",
			ID:           f.ID,
			LastVerified: f.LastVerified,
			SourceURL:    f.SourceURL,
		})
	}

	cutoff := now.AddDate(0, 0, -thresholdDays)
	for _, n := range gs.AllNodes() {
		c := n.Cite()
		if c.LastVerified.IsZero() || !c.LastVerified.Before(cutoff) {
			continue
		}
		out = append(out, types.StaleRecord{
			EntityKind:   n.Kind(),
			ID:           n.NodeID(),
			LastVerified: c.LastVerified,
			SourceURL:    c.SourceURL,
		})
	}

	if m.log != nil && len(out) > 0 {
		m.log.Warn("stale citations found",
			"count", len(out),
			"threshold_days", thresholdDays,
			"registry_version", rs.Version(),
			"graph_version", gs.Version())
	}
	return out
}
