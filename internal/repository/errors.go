// Package repository is the record store: whole-table load and save of the
// ideas, users and comments tables.  Every save replaces the table inside a
// single transaction and bumps the table's version stamp, so readers never
// observe a half-written table and stale writers are refused.
package repository

import "errors"

// ErrConflict is returned when a save carries a version stamp that is no
// longer current, i.e. another writer replaced the table since it was
// loaded.  Callers must reload and retry; the write is never merged.
var ErrConflict = errors.New("conflict")

// ErrDuplicateKey is returned when a table being saved contains two rows
// with the same primary key.
var ErrDuplicateKey = errors.New("duplicate primary key")

// ErrNoChange may be returned from an Update callback to signal that the
// table is already in the desired state.  The save is skipped and Update
// reports success.
var ErrNoChange = errors.New("no change")
