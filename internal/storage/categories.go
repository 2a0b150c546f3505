package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"diary/internal/errs"
	"diary/internal/label"
	"diary/internal/models"
)

// ListCategories returns the user's category names in lexicographic order,
// headed by models.AllCategories.
func (s *Store) ListCategories(ctx context.Context, username string) ([]string, error) {
	var names []string
	if err := s.db.SelectContext(ctx, &names,
		`SELECT category_name FROM categories WHERE username = ? ORDER BY category_name`,
		username,
	); err != nil {
		return nil, fmt.Errorf("ListCategories: %w", err)
	}
	for _, n := range names {
		if n == models.AllCategories {
			return names, nil
		}
	}
	return append([]string{models.AllCategories}, names...), nil
}

// AddCategory is idempotent and ignores the sentinel.
func (s *Store) AddCategory(ctx context.Context, username, name string) error {
	const op = "AddCategory"
	if name == models.AllCategories {
		return nil
	}
	if err := validateCategory(op, name); err != nil {
		return err
	}
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := requireUser(ctx, tx, op, username); err != nil {
			return err
		}
		return ensureCategory(ctx, tx, username, name)
	})
}

// DeleteCategory removes the category and every task the user filed under it.
// The sentinel is never deleted.
func (s *Store) DeleteCategory(ctx context.Context, username, name string) error {
	if name == models.AllCategories {
		return nil
	}
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM tasks WHERE username = ? AND category = ?`, username, name); err != nil {
			return fmt.Errorf("delete category tasks: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM categories WHERE username = ? AND category_name = ?`, username, name); err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		return nil
	})
}

func ensureCategory(ctx context.Context, tx *sqlx.Tx, username, name string) error {
	if name == models.AllCategories {
		return nil
	}
	var exists bool
	if err := tx.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM categories WHERE username = ? AND category_name = ?)`,
		username, name,
	); err != nil {
		return fmt.Errorf("check category: %w", err)
	}
	if exists {
		return nil
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO categories (username, category_name) VALUES (?, ?)`, username, name); err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// validateCategory keeps stored names inside the character set the label
// format can carry.
func validateCategory(op, name string) error {
	if strings.TrimSpace(name) == "" {
		return errs.E(op, errs.ErrValidation, "category name is empty")
	}
	if label.HasReserved(name) {
		return errs.E(op, errs.ErrValidation, "category name contains ( ) [ or ]")
	}
	return nil
}
