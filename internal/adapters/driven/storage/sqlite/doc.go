// Package sqlite provides the durable translation-memory store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. One database file holds
// every named TM store; stores partition the unit namespace through the
// store_id column and are exposed as scoped driven.UnitStore handles via
// Store.Units.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Opening a file written by a newer build fails with
// domain.ErrSchemaVersion rather than guessing at an unknown layout.
//
// Units live in the units table; their source and target text are mirrored
// into the units_fts FTS5 table by triggers, so a unit row and its index
// entry always change in the same transaction.
//
// # Data Location
//
// By default, the database is stored at ~/.memoria/data/memoria.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode; writers to the same file serialise behind
// SQLite's write lock, reads proceed concurrently.
package sqlite
