// Package repository defines the data access interfaces for canvasd.
//
// Canvas state itself lives in memory and is never reloaded. The only
// persisted data is the move journal: an append-only record of every
// committed relative move, kept for inspection through the API.
//
// # SQLite Implementation
//
// The sqlite subpackage implements MoveJournal on modernc.org/sqlite.
// The default DSN ":memory:" keeps the journal for the life of the process.
// A file DSN keeps it across restarts, but canvases are not rebuilt from it.
package repository
