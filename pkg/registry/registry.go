// Package registry implements the fact registry: an immutable-by-version
// store of atomic regulatory facts and the provenance gate for every
// claim in the system. A fact missing any part of its citation triple is
// rejected at registration, never partially stored; revisions append new
// versions and keep the old ones for audit.
package registry

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/civickit/permitgraph/pkg/types"
)

// Registry is the in-memory fact store. Writes are serialized behind a
// single writer lock; readers take immutable snapshots.
type Registry struct {
	mu      sync.RWMutex
	current map[string]types.Fact
	history map[string][]types.Fact
	version uint64
	info    Info
}

// Info is registry-level metadata carried over from the seed file.
type Info struct {
	Version     string    `json:"version" yaml:"version"`
	LastUpdated time.Time `json:"last_updated" yaml:"last_updated"`
	Scope       string    `json:"scope" yaml:"scope"`
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		current: make(map[string]types.Fact),
		history: make(map[string][]types.Fact),
	}
}

// SetInfo records registry-level metadata.
func (r *Registry) SetInfo(info Info) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.info = info
}

// Info returns the registry-level metadata and current fact count.
func (r *Registry) Info() (Info, int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.info, len(r.current)
}

// Register stores a new fact at version 1. Returns ErrCitationMissing if
// any of source_url, last_verified, or confidence is absent or outside
// the closed set, and ErrDuplicateID if the id already exists. The
// registry is unchanged on failure.
func (r *Registry) Register(f types.Fact) error {
	if err := f.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.current[f.ID]; exists {
		return fmt.Errorf("%w: fact %s", types.ErrDuplicateID, f.ID)
	}

	f.Version = 1
	f.CreatedAt = time.Now().UTC()
	r.current[f.ID] = f
	r.history[f.ID] = []types.Fact{f}
	r.version++
	return nil
}

// Get returns the current version of the fact with the given id.
func (r *Registry) Get(id string) (types.Fact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.current[id]
	if !ok {
		return types.Fact{}, fmt.Errorf("%w: fact %s", types.ErrNotFound, id)
	}
	return f, nil
}

// Resolve reports whether a current-version fact exists with the id.
// The live registry and its snapshots both back graph fact resolution.
func (r *Registry) Resolve(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.current[id]
	return ok
}

// History returns every stored version of the fact, oldest first.
func (r *Registry) History(id string) ([]types.Fact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	versions, ok := r.history[id]
	if !ok {
		return nil, fmt.Errorf("%w: fact %s", types.ErrNotFound, id)
	}
	out := make([]types.Fact, len(versions))
	copy(out, versions)
	return out, nil
}

// Revise stores a new version of an existing fact, preserving the old
// version. An empty text keeps the current text. Returns the new version
// or ErrNotFound if the id does not exist.
func (r *Registry) Revise(id, text string, lastVerified time.Time, confidence string) (types.Fact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.current[id]
	if !ok {
		return types.Fact{}, fmt.Errorf("%w: fact %s", types.ErrNotFound, id)
	}

	next := cur
	if text != "" {
		next.Text = text
	}
	next.LastVerified = lastVerified
	next.Confidence = confidence
	next.Version = cur.Version + 1
	next.CreatedAt = time.Now().UTC()

	if err := next.Validate(); err != nil {
		return types.Fact{}, err
	}

	r.current[id] = next
	r.history[id] = append(r.history[id], next)
	r.version++
	return next, nil
}

// ListOlderThan returns the current-version facts whose last_verified
// date precedes now minus days, sorted by id. Read-only.
func (r *Registry) ListOlderThan(now time.Time, days int) []types.Fact {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []types.Fact
	for _, f := range r.current {
		if f.OlderThan(now, days) {
			out = append(out, f)
		}
	}
	sortFacts(out)
	return out
}

// ListByPrefix returns the current-version facts whose hierarchical id
// starts with prefix, sorted by id.
func (r *Registry) ListByPrefix(prefix string) []types.Fact {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []types.Fact
	for _, f := range r.current {
		if f.HasPrefix(prefix) {
			out = append(out, f)
		}
	}
	sortFacts(out)
	return out
}

// All returns every current-version fact, sorted by id.
func (r *Registry) All() []types.Fact {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]types.Fact, 0, len(r.current))
	for _, f := range r.current {
		out = append(out, f)
	}
	sortFacts(out)
	return out
}

// Len returns the number of distinct fact ids.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.current)
}

// Version returns the monotonic store version, bumped on every
// successful mutation.
func (r *Registry) Version() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}

// Snapshot captures an immutable view of the current-version facts.
// Evaluations run against snapshots so decisions stay reproducible
// after later revisions.
func (r *Registry) Snapshot() *Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	facts := make(map[string]types.Fact, len(r.current))
	for id, f := range r.current {
		facts[id] = f
	}
	return &Snapshot{version: r.version, facts: facts}
}

func sortFacts(facts []types.Fact) {
	sort.Slice(facts, func(i, j int) bool { return facts[i].ID < facts[j].ID })
}
