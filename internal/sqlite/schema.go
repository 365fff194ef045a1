package sqlite

// Schema DDL. The SQLite database is a disposable query engine rebuilt
// from the JSONL files on every Attach; the JSONL files are the source
// of truth.
const (
	createFacts = `CREATE TABLE facts (
    id TEXT NOT NULL,
    version INTEGER NOT NULL,
    data TEXT NOT NULL,
    PRIMARY KEY (id, version)
);`

	createNodes = `CREATE TABLE nodes (
    node_id TEXT PRIMARY KEY,
    kind TEXT NOT NULL,
    data TEXT NOT NULL
);`

	createEdges = `CREATE TABLE edges (
    edge_id TEXT PRIMARY KEY,
    edge_type TEXT NOT NULL,
    from_id TEXT NOT NULL,
    to_id TEXT NOT NULL,
    data TEXT NOT NULL
);`

	createDocuments = `CREATE TABLE documents (
    doc_id TEXT PRIMARY KEY,
    doc_type_id TEXT NOT NULL,
    purge_after TEXT NOT NULL,
    data TEXT NOT NULL
);`
)

const (
	idxNodesKind      = `CREATE INDEX idx_nodes_kind ON nodes(kind);`
	idxEdgesType      = `CREATE INDEX idx_edges_type ON edges(edge_type);`
	idxEdgesFrom      = `CREATE INDEX idx_edges_from ON edges(edge_type, from_id);`
	idxEdgesTo        = `CREATE INDEX idx_edges_to ON edges(edge_type, to_id);`
	idxDocumentsType  = `CREATE INDEX idx_documents_type ON documents(doc_type_id);`
	idxDocumentsPurge = `CREATE INDEX idx_documents_purge ON documents(purge_after);`
	idxFactsID        = `CREATE INDEX idx_facts_id ON facts(id);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createFacts,
	createNodes,
	createEdges,
	createDocuments,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxNodesKind,
	idxEdgesType,
	idxEdgesFrom,
	idxEdgesTo,
	idxDocumentsType,
	idxDocumentsPurge,
	idxFactsID,
}
