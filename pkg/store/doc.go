/*
Package store persists trained markov models to SQLite.

Models are stored under a caller-chosen name: one row of metadata, a
per-model vocabulary table mapping element IDs to the element's JSON
encoding, and one row per (context, element) weight. Save replaces a
model's stored state wholesale and Load rebuilds an equivalent
in-memory model, so decode(encode(model)) is content-equal to the
original.

The package is driver-agnostic; anything that speaks database/sql and
SQLite syntax works (modernc.org/sqlite or mattn/go-sqlite3).
*/
package store
