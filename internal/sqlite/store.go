// Package sqlite implements the durable store behind the permit graph:
// JSONL files as the source of truth, SQLite as a disposable query
// engine rebuilt from them on every Attach.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/civickit/permitgraph/pkg/types"
)

const dbFileName = "permitgraph.db"

// Store implements types.Store. Writes are serialized behind a single
// writer lock and persisted to the JSONL files immediately, through the
// atomic temp-file/rename path.
type Store struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	log      *slog.Logger
}

// NewStore creates a detached store. A nil logger means slog.Default.
func NewStore(log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{log: log}
}

// Attach opens the backend described by config: creates DataDir if
// needed, rebuilds the SQLite database from the JSONL files, and
// leaves the store ready for reads and writes.
func (s *Store) Attach(config types.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	// The database is disposable; start from a fresh schema.
	dbPath := filepath.Join(dataDir, dbFileName)
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}
	for _, ddl := range append(append([]string{}, schemaDDL...), indexDDL...) {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return fmt.Errorf("schema: %w", err)
		}
	}

	if err := initJSONLFiles(dataDir); err != nil {
		db.Close()
		return err
	}

	s.db = db
	s.config = config
	s.config.DataDir = dataDir

	if err := s.loadAllJSONL(); err != nil {
		db.Close()
		s.db = nil
		return fmt.Errorf("load JSONL: %w", err)
	}

	s.attached = true
	s.log.Debug("store attached", "data_dir", dataDir)
	return nil
}

// Detach closes the database. Idempotent; after Detach every operation
// returns ErrStoreDetached.
func (s *Store) Detach() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return nil
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return err
		}
		s.db = nil
	}
	s.attached = false
	return nil
}

// loadAllJSONL hydrates the SQLite tables from the JSONL files.
// Records that fail to decode are skipped with a warning; the next
// full persist drops them.
func (s *Store) loadAllJSONL() error {
	dataDir := s.config.DataDir

	factRecords, err := readJSONL(filepath.Join(dataDir, factsFile))
	if err != nil {
		return err
	}
	for _, rec := range factRecords {
		var f types.Fact
		if err := json.Unmarshal(rec, &f); err != nil || f.ID == "" {
			s.log.Warn("skipping malformed fact record", "file", factsFile)
			continue
		}
		if err := s.insertFact(f, rec); err != nil {
			return err
		}
	}

	nodeRecords, err := readJSONL(filepath.Join(dataDir, nodesFile))
	if err != nil {
		return err
	}
	for _, rec := range nodeRecords {
		var env nodeEnvelope
		if err := json.Unmarshal(rec, &env); err != nil {
			s.log.Warn("skipping malformed node record", "file", nodesFile)
			continue
		}
		n, err := decodeNode(env.Kind, env.Data)
		if err != nil {
			s.log.Warn("skipping node record", "kind", env.Kind, "err", err)
			continue
		}
		if err := s.insertNode(n, rec); err != nil {
			return err
		}
	}

	edgeRecords, err := readJSONL(filepath.Join(dataDir, edgesFile))
	if err != nil {
		return err
	}
	for _, rec := range edgeRecords {
		var e types.Edge
		if err := json.Unmarshal(rec, &e); err != nil || e.EdgeID == "" {
			s.log.Warn("skipping malformed edge record", "file", edgesFile)
			continue
		}
		if err := s.insertEdge(e, rec); err != nil {
			return err
		}
	}

	docRecords, err := readJSONL(filepath.Join(dataDir, documentsFile))
	if err != nil {
		return err
	}
	for _, rec := range docRecords {
		var d types.Document
		if err := json.Unmarshal(rec, &d); err != nil || d.DocID == "" {
			s.log.Warn("skipping malformed document record", "file", documentsFile)
			continue
		}
		if err := s.insertDocument(d, rec); err != nil {
			return err
		}
	}

	return nil
}

// PutFact persists one fact version. Versions are append-only.
func (s *Store) PutFact(f types.Fact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.attached {
		return types.ErrStoreDetached
	}

	rec, err := json.Marshal(f)
	if err != nil {
		return err
	}
	if err := s.insertFact(f, rec); err != nil {
		return err
	}
	return s.persistFacts()
}

// PutNode persists a graph node, replacing any previous record with
// the same id.
func (s *Store) PutNode(n types.Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.attached {
		return types.ErrStoreDetached
	}

	rec, err := encodeNode(n)
	if err != nil {
		return err
	}
	if _, err := s.db.Exec(`DELETE FROM nodes WHERE node_id = ?`, n.NodeID()); err != nil {
		return err
	}
	if err := s.insertNode(n, rec); err != nil {
		return err
	}
	return s.persistNodes()
}

// PutEdge persists a graph edge.
func (s *Store) PutEdge(e types.Edge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.attached {
		return types.ErrStoreDetached
	}

	rec, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if err := s.insertEdge(e, rec); err != nil {
		return err
	}
	return s.persistEdges()
}

// PutDocument persists a document instance until its retention
// deadline.
func (s *Store) PutDocument(d types.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.attached {
		return types.ErrStoreDetached
	}

	rec, err := json.Marshal(d)
	if err != nil {
		return err
	}
	if err := s.insertDocument(d, rec); err != nil {
		return err
	}
	return s.persistDocuments()
}

// Facts returns every stored fact version, ordered by id then version.
func (s *Store) Facts() ([]types.Fact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.attached {
		return nil, types.ErrStoreDetached
	}

	rows, err := s.db.Query(`SELECT data FROM facts ORDER BY id, version`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []types.Fact
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var f types.Fact
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// Nodes returns every stored graph node, ordered by kind then id.
func (s *Store) Nodes() ([]types.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.attached {
		return nil, types.ErrStoreDetached
	}

	rows, err := s.db.Query(`SELECT kind, data FROM nodes ORDER BY kind, node_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []types.Node
	for rows.Next() {
		var kind string
		var data []byte
		if err := rows.Scan(&kind, &data); err != nil {
			return nil, err
		}
		var env nodeEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, err
		}
		n, err := decodeNode(kind, env.Data)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// Edges returns every stored graph edge, ordered by type then
// endpoints.
func (s *Store) Edges() ([]types.Edge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.attached {
		return nil, types.ErrStoreDetached
	}

	rows, err := s.db.Query(`SELECT data FROM edges ORDER BY edge_type, from_id, to_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []types.Edge
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var e types.Edge
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Documents returns every stored document instance, ordered by id.
func (s *Store) Documents() ([]types.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.attached {
		return nil, types.ErrStoreDetached
	}

	rows, err := s.db.Query(`SELECT data FROM documents ORDER BY doc_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []types.Document
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var d types.Document
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// PurgeExpiredDocuments destroys documents whose retention deadline
// precedes now. Retention is a hard upper bound, not a cache policy.
func (s *Store) PurgeExpiredDocuments(now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.attached {
		return 0, types.ErrStoreDetached
	}

	res, err := s.db.Exec(`DELETE FROM documents WHERE purge_after < ?`,
		now.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		if err := s.persistDocuments(); err != nil {
			return 0, err
		}
		s.log.Info("purged expired documents", "count", n)
	}
	return int(n), nil
}

// insert helpers. Callers hold the write lock.

func (s *Store) insertFact(f types.Fact, rec []byte) error {
	_, err := s.db.Exec(`INSERT INTO facts (id, version, data) VALUES (?, ?, ?)`,
		f.ID, f.Version, string(rec))
	if err != nil {
		return fmt.Errorf("fact %s v%d: %w", f.ID, f.Version, err)
	}
	return nil
}

func (s *Store) insertNode(n types.Node, rec []byte) error {
	_, err := s.db.Exec(`INSERT INTO nodes (node_id, kind, data) VALUES (?, ?, ?)`,
		n.NodeID(), n.Kind(), string(rec))
	if err != nil {
		return fmt.Errorf("node %s: %w", n.NodeID(), err)
	}
	return nil
}

func (s *Store) insertEdge(e types.Edge, rec []byte) error {
	_, err := s.db.Exec(`INSERT INTO edges (edge_id, edge_type, from_id, to_id, data) VALUES (?, ?, ?, ?, ?)`,
		e.EdgeID, e.Type, e.FromID, e.ToID, string(rec))
	if err != nil {
		return fmt.Errorf("edge %s: %w", e.EdgeID, err)
	}
	return nil
}

func (s *Store) insertDocument(d types.Document, rec []byte) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO documents (doc_id, doc_type_id, purge_after, data) VALUES (?, ?, ?, ?)`,
		d.DocID, d.DocTypeID, d.PurgeAfter.UTC().Format(time.RFC3339), string(rec))
	if err != nil {
		return fmt.Errorf("document %s: %w", d.DocID, err)
	}
	return nil
}

// persist helpers rewrite one JSONL file from the corresponding table.
// Callers hold the write lock.

func (s *Store) persistFacts() error {
	return s.persistTable(factsFile, `SELECT data FROM facts ORDER BY id, version`)
}

func (s *Store) persistNodes() error {
	return s.persistTable(nodesFile, `SELECT data FROM nodes ORDER BY kind, node_id`)
}

func (s *Store) persistEdges() error {
	return s.persistTable(edgesFile, `SELECT data FROM edges ORDER BY edge_type, from_id, to_id`)
}

func (s *Store) persistDocuments() error {
	return s.persistTable(documentsFile, `SELECT data FROM documents ORDER BY doc_id`)
}

func (s *Store) persistTable(file, query string) error {
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return err
		}
		records = append(records, json.RawMessage(data))
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return writeJSONL(filepath.Join(s.config.DataDir, file), records)
}
