// Package permitgraph carries module-level metadata.
package permitgraph

// Version is the semantic version of the permitgraph module.
const Version = "0.3.0"
