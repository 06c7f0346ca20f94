package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// Supported driver names.  The value is passed straight to sql.Open.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Options selects and addresses the backing database.
type Options struct {
	Driver string
	Path   string // sqlite file path
	User   string
	Pass   string
	Host   string
	Port   string
	Name   string
}

// Open connects to the configured database, verifies the connection and
// applies the schema migrations.
func Open(opts Options) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)
	switch opts.Driver {
	case DriverMySQL:
		db, err = openMySQL(opts)
	case DriverSQLite, "":
		db, err = OpenSQLite(opts.Path)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", opts.Driver)
	}
	if err != nil {
		return nil, err
	}

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if err := Migrate(ctx, db, opts.Driver); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func openMySQL(opts Options) (*sql.DB, error) {
	auth := opts.User
	if opts.Pass != "" {
		auth = fmt.Sprintf("%s:%s", opts.User, opts.Pass)
	}
	// parseTime is left off: timestamps are stored as RFC3339 strings
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&loc=UTC",
		auth, opts.Host, opts.Port, opts.Name)

	db, err := sql.Open(DriverMySQL, dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

// OpenSQLite opens (creating if needed) a sqlite database file.  A single
// connection is used so that writers never see SQLITE_BUSY from each other.
func OpenSQLite(path string) (*sql.DB, error) {
	if path == "" {
		path = filepath.Join("data", "innovation.db")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	db, err := sql.Open(DriverSQLite, path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
