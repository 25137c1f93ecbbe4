// Package sqlite persists the ingestion history in a SQLite database.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. Only ingestion outcomes are stored; chunks and vectors
// stay in memory and are rebuilt by re-ingesting the document.
//
// # Schema
//
// The schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql
// files. Applied versions are recorded in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.pdfrag/data/history.db
package sqlite
