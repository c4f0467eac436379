// Package migrate applies the numbered schema migrations of the SQL stores.
//
// Migrations are pairs of files named NNN_description.up.sql and
// NNN_description.down.sql. Only the up scripts are applied; the down
// scripts are kept for manual rollbacks. Applied versions are recorded in
// a schema_migrations table.
package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

// Migration is one up script.
type Migration struct {
	Version int
	Name    string
	Script  string
}

// Pending returns the up migrations in fsys newer than applied, oldest
// first. Files without a numeric prefix are ignored.
func Pending(fsys fs.FS, applied int) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("reading migrations directory: %w", err)
	}

	var pending []Migration
	seen := make(map[int]string)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".up.sql") {
			continue
		}
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if prev, ok := seen[version]; ok {
			return nil, fmt.Errorf("migrations %s and %s share version %d", prev, name, version)
		}
		seen[version] = name
		if version <= applied {
			continue
		}
		script, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("reading migration %s: %w", name, err)
		}
		pending = append(pending, Migration{Version: version, Name: name, Script: string(script)})
	}

	sort.Slice(pending, func(i, j int) bool { return pending[i].Version < pending[j].Version })
	return pending, nil
}

// Dialect holds the bookkeeping statements that differ between drivers.
type Dialect struct {
	// CreateTable creates schema_migrations if it does not exist.
	CreateTable string
	// Record inserts one applied version; its single placeholder is the version.
	Record string
}

var (
	SQLite = Dialect{
		CreateTable: `CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		Record: "INSERT INTO schema_migrations (version) VALUES (?)",
	}
	Postgres = Dialect{
		CreateTable: `CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		Record: "INSERT INTO schema_migrations (version) VALUES ($1)",
	}
)

// Up applies the pending migrations in fsys, each in its own transaction
// together with its version record, and returns the ones it applied.
func Up(ctx context.Context, db *sql.DB, fsys fs.FS, d Dialect) ([]Migration, error) {
	if _, err := db.ExecContext(ctx, d.CreateTable); err != nil {
		return nil, fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var current int
	if err := db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&current); err != nil {
		return nil, fmt.Errorf("reading schema version: %w", err)
	}

	pending, err := Pending(fsys, current)
	if err != nil {
		return nil, err
	}
	for i, m := range pending {
		if err := apply(ctx, db, d, m); err != nil {
			return pending[:i], fmt.Errorf("executing migration %s: %w", m.Name, err)
		}
	}
	return pending, nil
}

func apply(ctx context.Context, db *sql.DB, d Dialect, m Migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, m.Script); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.ExecContext(ctx, d.Record, m.Version); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
