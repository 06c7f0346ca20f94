package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// insertChunk bounds the rows per INSERT statement so that wide tables stay
// below the placeholder limits of both drivers.
const insertChunk = 200

// Snapshot is the full content of a table together with the version stamp
// it was read at.  Pass Version back to the matching Save call.
type Snapshot[T any] struct {
	Rows    []T
	Version int64
}

type scanner interface {
	Scan(dest ...any) error
}

// tableDef describes how one entity maps onto its fixed column schema.
type tableDef[T any] struct {
	name     string
	columns  []string
	orderBy  string
	key      func(T) string
	values   func(T) []any
	scan     func(scanner) (T, error)
	validate func(T) error
}

// loadTable reads the version stamp and every row in one transaction so the
// pair is consistent.
func loadTable[T any](ctx context.Context, db *sql.DB, def tableDef[T]) (Snapshot[T], error) {
	var snap Snapshot[T]
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return snap, err
	}
	defer func() { _ = tx.Rollback() }()

	err = tx.QueryRowContext(ctx, "SELECT version FROM table_versions WHERE name = ?", def.name).Scan(&snap.Version)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return snap, fmt.Errorf("read %s version: %w", def.name, err)
	}

	q := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s", strings.Join(def.columns, ", "), def.name, def.orderBy)
	rows, err := tx.QueryContext(ctx, q)
	if err != nil {
		return snap, fmt.Errorf("read %s: %w", def.name, err)
	}
	defer rows.Close()
	snap.Rows = []T{}
	for rows.Next() {
		v, err := def.scan(rows)
		if err != nil {
			return snap, fmt.Errorf("scan %s: %w", def.name, err)
		}
		snap.Rows = append(snap.Rows, v)
	}
	if err := rows.Err(); err != nil {
		return snap, err
	}
	return snap, tx.Commit()
}

// saveTable validates rows and replaces the table's content.  The version
// stamp is advanced with a compare-and-set; if expected is stale nothing is
// written and ErrConflict is returned.
func saveTable[T any](ctx context.Context, db *sql.DB, def tableDef[T], rows []T, expected int64) (int64, error) {
	seen := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		if err := def.validate(r); err != nil {
			return 0, err
		}
		k := def.key(r)
		if _, dup := seen[k]; dup {
			return 0, fmt.Errorf("%w: %s %s", ErrDuplicateKey, def.name, k)
		}
		seen[k] = struct{}{}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		"UPDATE table_versions SET version = version + 1 WHERE name = ? AND version = ?",
		def.name, expected)
	if err != nil {
		return 0, fmt.Errorf("bump %s version: %w", def.name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n != 1 {
		return 0, fmt.Errorf("%w: %s changed since version %d", ErrConflict, def.name, expected)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+def.name); err != nil {
		return 0, fmt.Errorf("clear %s: %w", def.name, err)
	}
	for start := 0; start < len(rows); start += insertChunk {
		end := min(start+insertChunk, len(rows))
		if err := insertRows(ctx, tx, def, rows[start:end]); err != nil {
			return 0, fmt.Errorf("write %s: %w", def.name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return expected + 1, nil
}

func insertRows[T any](ctx context.Context, tx *sql.Tx, def tableDef[T], rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	placeholder := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(def.columns)), ", ") + ")"
	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES ", def.name, strings.Join(def.columns, ", "))
	args := make([]any, 0, len(rows)*len(def.columns))
	for i, r := range rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(placeholder)
		args = append(args, def.values(r)...)
	}
	_, err := tx.ExecContext(ctx, b.String(), args...)
	return err
}

// Timestamps are stored as RFC3339 strings in UTC so ordering survives a
// round trip through either driver.
func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func parseTime(s string) (time.Time, error) { return time.Parse(time.RFC3339Nano, s) }
