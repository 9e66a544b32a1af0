// Package repository defines the data access interfaces for Vantage.
//
// The catalog and the dedicated views are loaded from YAML (compiled in by
// default); the only state the server keeps is what must survive a restart:
//
// - memoized fallback seeds, so a session sees the same placeholder numbers
// for a view every time it returns to it
// - the log of header actions (primary action, export) taken on views
//
// # SQLite Implementation
//
// The sqlite subpackage implements Repository on modernc.org/sqlite with WAL
// mode. The schema is created on startup. Tests run against in-memory
// databases.
package repository
