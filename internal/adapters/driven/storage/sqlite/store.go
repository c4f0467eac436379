package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/sercha-federated/internal/adapters/driven/storage/migrate"
	"github.com/custodia-labs/sercha-federated/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-federated/internal/logger"
)

const (
	dbFile  = "metadata.db"
	pragmas = "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
)

// Store owns the database file behind the credential and history stores.
type Store struct {
	db   *sql.DB
	path string
}

// DefaultDataDir is ~/.sercha/data.
func DefaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".sercha", "data"), nil
}

// NewStore opens or creates metadata.db in dataDir, or in DefaultDataDir
// when dataDir is empty, and brings its schema up to date.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		dir, err := DefaultDataDir()
		if err != nil {
			return nil, err
		}
		dataDir = dir
	}
	// The database holds credential secrets.
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	path := filepath.Join(dataDir, dbFile)
	db, err := sql.Open("sqlite", path+pragmas)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	applied, err := migrate.Up(context.Background(), db, migrations.FS, migrate.SQLite)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	for _, m := range applied {
		logger.Debug("sqlite: applied migration %s", m.Name)
	}
	return &Store{db: db, path: path}, nil
}

func (s *Store) Close() error { return s.db.Close() }
func (s *Store) Path() string { return s.path }

// CredentialStore returns the credential store view of s.
func (s *Store) CredentialStore() driven.CredentialStore {
	return &credentialStore{store: s}
}

// SearchHistoryStore returns the search history view of s.
func (s *Store) SearchHistoryStore() driven.SearchHistoryStore {
	return &historyStore{store: s}
}

// Timestamps are stored as UTC Unix milliseconds.
func toMillis(t time.Time) int64 { return t.UTC().UnixMilli() }

func fromMillis(ms int64) time.Time { return time.UnixMilli(ms).UTC() }
