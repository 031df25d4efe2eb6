// Package schema holds the in-memory description of an introspected
// database: tables, columns, keys, and the canonical column kinds the
// generator maps to Go types and form fields.
//
// Inspectors (compiler/inspect) populate the model from a live connection;
// the generator (compiler/gen) consumes it and never touches the database.
package schema
