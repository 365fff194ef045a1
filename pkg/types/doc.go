// Package types defines the entity types, closed enums, Store interface,
// and standard error types shared by the permitgraph core: citation-bearing
// regulatory entities (Fact, Process, Step, Requirement, Rule, DocumentType,
// Office, WebResource), user-supplied instances (Document, Application),
// and the evaluation result types.
package types
