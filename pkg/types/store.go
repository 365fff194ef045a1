package types

import (
	"errors"
	"time"
)

// Store defines backend-agnostic persistence for the permit graph.
// Callers attach to a backend, read or write records, and detach when
// done. The in-memory registry and graph are the model; the store is
// the durable record behind them.
type Store interface {
	// Attach connects the store to the backend described by config.
	// Creates the DataDir if it does not exist. Returns
	// ErrAlreadyAttached if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls
	// succeed. After Detach, operations return ErrStoreDetached.
	Detach() error

	// PutFact persists one fact version. Versions are append-only; an
	// existing (id, version) pair is an error.
	PutFact(f Fact) error

	// PutNode persists a graph node, replacing any previous record with
	// the same ID.
	PutNode(n Node) error

	// PutEdge persists a graph edge.
	PutEdge(e Edge) error

	// PutDocument persists a document instance until its retention
	// deadline.
	PutDocument(d Document) error

	// Facts returns every stored fact version, ordered by id then version.
	Facts() ([]Fact, error)

	// Nodes returns every stored graph node.
	Nodes() ([]Node, error)

	// Edges returns every stored graph edge.
	Edges() ([]Edge, error)

	// Documents returns every stored document instance.
	Documents() ([]Document, error)

	// PurgeExpiredDocuments destroys documents whose retention deadline
	// precedes now and reports how many were removed.
	PurgeExpiredDocuments(now time.Time) (int, error)
}

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)
