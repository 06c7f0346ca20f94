package database

import (
	"context"
	"path/filepath"
	"testing"
)

func TestOpenSQLiteMigratesIdempotently(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "hub.db")
	db, err := Open(Options{Driver: DriverSQLite, Path: path})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	if err := Migrate(context.Background(), db, DriverSQLite); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM table_versions").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 3 {
		t.Fatalf("version rows = %d, want 3", n)
	}
	for _, table := range []string{TableIdeas, TableUsers, TableComments} {
		if _, err := db.Exec("SELECT COUNT(*) FROM " + table); err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open(Options{Driver: "postgres"}); err == nil {
		t.Fatal("unknown driver accepted")
	}
}
