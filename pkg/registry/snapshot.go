package registry

import (
	"fmt"
	"time"

	"github.com/civickit/permitgraph/pkg/types"
)

// Snapshot is an immutable view of the registry at a point in time.
type Snapshot struct {
	version uint64
	facts   map[string]types.Fact
}

// Version identifies the registry state this snapshot was taken from.
func (s *Snapshot) Version() uint64 {
	return s.version
}

// Get returns the fact with the given id as of the snapshot.
func (s *Snapshot) Get(id string) (types.Fact, error) {
	f, ok := s.facts[id]
	if !ok {
		return types.Fact{}, fmt.Errorf("%w: fact %s", types.ErrNotFound, id)
	}
	return f, nil
}

// Resolve reports whether the fact id exists in the snapshot.
func (s *Snapshot) Resolve(id string) bool {
	_, ok := s.facts[id]
	return ok
}

// All returns every fact in the snapshot, sorted by id.
func (s *Snapshot) All() []types.Fact {
	out := make([]types.Fact, 0, len(s.facts))
	for _, f := range s.facts {
		out = append(out, f)
	}
	sortFacts(out)
	return out
}

// ListOlderThan returns the snapshot facts whose last_verified date
// precedes now minus days, sorted by id.
func (s *Snapshot) ListOlderThan(now time.Time, days int) []types.Fact {
	var out []types.Fact
	for _, f := range s.facts {
		if f.OlderThan(now, days) {
			out = append(out, f)
		}
	}
	sortFacts(out)
	return out
}

// Len returns the number of facts in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.facts)
}
