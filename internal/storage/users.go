package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"diary/internal/errs"
	"diary/internal/models"
)

type userRow struct {
	Username     string `db:"username"`
	PasswordHash string `db:"password_hash"`
}

// CreateUser registers username with an already hashed password.
func (s *Store) CreateUser(ctx context.Context, username, passwordHash string) error {
	const op = "CreateUser"
	if strings.TrimSpace(username) == "" || passwordHash == "" {
		return errs.E(op, errs.ErrValidation, "username and password hash are required")
	}
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		exists, err := userExists(ctx, tx, username)
		if err != nil {
			return err
		}
		if exists {
			return errs.E(op, errs.ErrAlreadyExists, "user "+username)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO users (username, password_hash) VALUES (?, ?)`,
			username, passwordHash,
		); err != nil {
			return fmt.Errorf("insert user: %w", err)
		}
		return nil
	})
}

func (s *Store) GetUser(ctx context.Context, username string) (models.User, error) {
	var row userRow
	err := s.db.GetContext(ctx, &row,
		`SELECT username, password_hash FROM users WHERE username = ?`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, errs.E("GetUser", errs.ErrNotFound, "user "+username)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("GetUser: %w", err)
	}
	return models.User{Username: row.Username, PasswordHash: row.PasswordHash}, nil
}

func (s *Store) UpdatePassword(ctx context.Context, username, passwordHash string) error {
	const op = "UpdatePassword"
	if passwordHash == "" {
		return errs.E(op, errs.ErrValidation, "password hash is required")
	}
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE users SET password_hash = ? WHERE username = ?`, passwordHash, username)
		if err != nil {
			return fmt.Errorf("update password: %w", err)
		}
		return requireAffected(op, res, "user "+username)
	})
}

// DeleteUser removes the user; theme, categories and tasks follow through
// the foreign key cascade inside the same transaction. Unknown users are a no-op.
func (s *Store) DeleteUser(ctx context.Context, username string) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM users WHERE username = ?`, username); err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
}

// GetTheme reports the dark theme flag, false when never set.
func (s *Store) GetTheme(ctx context.Context, username string) (bool, error) {
	var dark int
	err := s.db.GetContext(ctx, &dark, `SELECT dark FROM theme WHERE username = ?`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("GetTheme: %w", err)
	}
	return dark == 1, nil
}

func (s *Store) SetTheme(ctx context.Context, username string, dark bool) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := requireUser(ctx, tx, "SetTheme", username); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO theme (username, dark) VALUES (?, ?)
			ON CONFLICT(username) DO UPDATE SET dark = excluded.dark`,
			username, boolToInt(dark),
		); err != nil {
			return fmt.Errorf("upsert theme: %w", err)
		}
		return nil
	})
}

func userExists(ctx context.Context, tx *sqlx.Tx, username string) (bool, error) {
	var exists bool
	if err := tx.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = ?)`, username); err != nil {
		return false, fmt.Errorf("check user: %w", err)
	}
	return exists, nil
}

func requireUser(ctx context.Context, tx *sqlx.Tx, op, username string) error {
	exists, err := userExists(ctx, tx, username)
	if err != nil {
		return err
	}
	if !exists {
		return errs.E(op, errs.ErrNotFound, "user "+username)
	}
	return nil
}

func requireAffected(op string, res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return errs.E(op, errs.ErrNotFound, what)
	}
	return nil
}
