package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Table names.  table_versions holds one optimistic version stamp per table.
const (
	TableIdeas    = "ideas"
	TableUsers    = "users"
	TableComments = "comments"
	TableVersions = "table_versions"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS ideas (
		id BIGINT NOT NULL PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		description TEXT NOT NULL,
		category VARCHAR(64) NOT NULL,
		problem TEXT NOT NULL,
		solution TEXT NOT NULL,
		benefits TEXT NOT NULL,
		resources TEXT NOT NULL,
		submitter VARCHAR(64) NOT NULL,
		submit_date VARCHAR(40) NOT NULL,
		status VARCHAR(32) NOT NULL,
		upvotes INT NOT NULL DEFAULT 0,
		comments_count INT NOT NULL DEFAULT 0,
		impact INT NOT NULL DEFAULT 0,
		feasibility INT NOT NULL DEFAULT 0,
		innovation INT NOT NULL DEFAULT 0,
		strategic INT NOT NULL DEFAULT 0,
		total_score INT NOT NULL DEFAULT 0,
		tags TEXT NOT NULL,
		cost_savings_cents BIGINT NOT NULL DEFAULT 0,
		revenue_impact_cents BIGINT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		username VARCHAR(64) NOT NULL PRIMARY KEY,
		password_hash VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL,
		department VARCHAR(128) NOT NULL,
		role VARCHAR(16) NOT NULL,
		join_date VARCHAR(40) NOT NULL,
		points INT NOT NULL DEFAULT 0,
		level INT NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS comments (
		id BIGINT NOT NULL PRIMARY KEY,
		idea_id BIGINT NOT NULL,
		username VARCHAR(64) NOT NULL,
		text TEXT NOT NULL,
		date VARCHAR(40) NOT NULL,
		likes INT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS table_versions (
		name VARCHAR(32) NOT NULL PRIMARY KEY,
		version BIGINT NOT NULL DEFAULT 0
	)`,
}

// Migrate creates the tables if they are absent and seeds a zero version
// stamp for each entity table.  It is safe to run on every start.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	insert := "INSERT OR IGNORE INTO table_versions (name, version) VALUES (?, 0)"
	if driver == DriverMySQL {
		insert = "INSERT IGNORE INTO table_versions (name, version) VALUES (?, 0)"
	}
	for _, name := range []string{TableIdeas, TableUsers, TableComments} {
		if _, err := db.ExecContext(ctx, insert, name); err != nil {
			return fmt.Errorf("seed version for %s: %w", name, err)
		}
	}
	return nil
}

