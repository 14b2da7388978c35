// Package sqlite provides a Storage backend on a single SQLite file.
// Entries live in a kv table managed by embedded goose migrations.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/agentstation/utc"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/agentstation/wishlist/pkg/constants"
	"github.com/agentstation/wishlist/pkg/errors"
	_ "github.com/agentstation/wishlist/pkg/storage/sqlite/migrations"
)

//go:embed migrations/*.sql migrations/*.go
var embedMigrations embed.FS

// goose keeps its base FS and dialect in package state.
var migrateMu sync.Mutex

// Store is a Storage backed by SQLite.
type Store struct {
	dbConn *sqlx.DB
	path   string
}

// Entry is a stored row.
type Entry struct {
	Key       string `db:"key"`
	Value     string `db:"value"`
	UpdatedAt int64  `db:"updated_at"`
}

// Open connects to the database at path, creating the file and its parent
// directory if needed, and applies pending migrations.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return nil, errors.WrapIO("create", dir, err)
		}
	}

	db, err := sqlx.Connect("sqlite", fmt.Sprintf("%s?_journal=WAL&_timeout=5000", path))
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}

	// one writer keeps SQLite from returning SQLITE_BUSY under WAL
	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		db.Close()
		return nil, errors.WrapIO("migrate", path, err)
	}

	return &Store{dbConn: db, path: path}, nil
}

func migrate(db *sqlx.DB) error {
	migrateMu.Lock()
	defer migrateMu.Unlock()

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(string(goose.DialectSQLite3)); err != nil {
		return fmt.Errorf("setting dialect for migrations: %w", err)
	}
	if err := goose.Up(db.DB, "migrations"); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Get implements storage.Storage
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.dbConn.GetContext(ctx, &value, `SELECT value FROM kv WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.WrapIO("get", key, err)
	}
	return value, true, nil
}

// Set implements storage.Storage
func (s *Store) Set(ctx context.Context, key, value string) error {
	query := `INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	if _, err := s.dbConn.ExecContext(ctx, query, key, value, utc.Now().Unix()); err != nil {
		return errors.WrapIO("set", key, err)
	}
	return nil
}

// Delete implements storage.Storage
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.dbConn.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return errors.WrapIO("delete", key, err)
	}
	return nil
}

// Entries returns every stored row ordered by key.
func (s *Store) Entries(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	if err := s.dbConn.SelectContext(ctx, &entries, `SELECT key, value, updated_at FROM kv ORDER BY key`); err != nil {
		return nil, errors.WrapIO("list", s.path, err)
	}
	return entries, nil
}

// Close terminates the database connection.
func (s *Store) Close() error {
	if err := s.dbConn.Close(); err != nil {
		return errors.WrapIO("close", s.path, err)
	}
	return nil
}
