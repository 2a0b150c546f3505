// Package storage persists users, theme preferences, categories and tasks in
// a single SQLite file.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

type Store struct {
	db *sqlx.DB
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
	username TEXT PRIMARY KEY,
	password_hash TEXT NOT NULL
);`,
	`CREATE TABLE IF NOT EXISTS theme (
	username TEXT PRIMARY KEY,
	dark INTEGER NOT NULL DEFAULT 0,
	FOREIGN KEY(username) REFERENCES users(username) ON DELETE CASCADE
);`,
	`CREATE TABLE IF NOT EXISTS categories (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT NOT NULL,
	category_name TEXT NOT NULL,
	FOREIGN KEY(username) REFERENCES users(username) ON DELETE CASCADE
);`,
	`CREATE TABLE IF NOT EXISTS tasks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT NOT NULL,
	date TEXT NOT NULL,
	text TEXT NOT NULL,
	done INTEGER NOT NULL DEFAULT 0,
	category TEXT NOT NULL,
	priority TEXT NOT NULL,
	FOREIGN KEY(username) REFERENCES users(username) ON DELETE CASCADE
);`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_user_date ON tasks(username, date);`,
	`CREATE INDEX IF NOT EXISTS idx_categories_user ON categories(username, category_name);`,
}

// Open opens (creating if needed) the database file at dbPath and applies the schema.
func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, err
	}
	db, err := sql.Open("sqlite", sqliteDSN(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection: every statement and transaction is serialized.
	db.SetMaxOpenConns(1)

	s := New(db)
	if err := s.ensureSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an already opened database without touching the schema.
func New(db *sql.DB) *Store {
	return &Store{db: sqlx.NewDb(db, "sqlite3")}
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureSchema(ctx context.Context) error {
	for _, ddl := range schema {
		if _, err := s.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return s.ensureForeignKeys(ctx)
}

// ensureForeignKeys fails when the connection ignores foreign keys, since
// user and category deletes depend on the cascade.
func (s *Store) ensureForeignKeys(ctx context.Context) error {
	var enabled int
	if err := s.db.GetContext(ctx, &enabled, `PRAGMA foreign_keys;`); err != nil {
		return fmt.Errorf("read foreign_keys pragma: %w", err)
	}
	if enabled != 1 {
		return errors.New("sqlite foreign keys are disabled")
	}
	return nil
}

// withTx runs fn in a transaction, rolling back when fn fails.
func (s *Store) withTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "foreign_keys(1)")
	u.RawQuery = q.Encode()
	return u.String()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
