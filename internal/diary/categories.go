package diary

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"diary/internal/errs"
	"diary/internal/models"
)

// Categories lists the user's categories, sentinel first.
func (s *Service) Categories(ctx context.Context, username string) ([]string, error) {
	names, err := s.repo.ListCategories(ctx, username)
	if err != nil {
		return nil, s.fail("Categories", username, err)
	}
	return names, nil
}

// AddCategory trims name and stores it. Empty names and the sentinel are ignored.
func (s *Service) AddCategory(ctx context.Context, username, name string) error {
	name = strings.TrimSpace(name)
	if name == "" || name == models.AllCategories {
		return nil
	}
	if err := s.repo.AddCategory(ctx, username, name); err != nil {
		return s.fail("AddCategory", username, err)
	}
	s.log.Info("category added", zap.String("user", username), zap.String("category", name))
	return nil
}

// DeleteCategory removes a category and every task filed under it. The
// sentinel cannot be deleted.
func (s *Service) DeleteCategory(ctx context.Context, username, name string) error {
	const op = "DeleteCategory"
	if name == models.AllCategories {
		return s.fail(op, username, errs.E(op, errs.ErrValidation, "cannot delete "+models.AllCategories))
	}
	if err := s.repo.DeleteCategory(ctx, username, name); err != nil {
		return s.fail(op, username, err)
	}
	s.log.Info("category deleted", zap.String("user", username), zap.String("category", name))
	return nil
}

// Theme reports whether the user prefers the dark theme.
func (s *Service) Theme(ctx context.Context, username string) (bool, error) {
	dark, err := s.repo.GetTheme(ctx, username)
	if err != nil {
		return false, s.fail("Theme", username, err)
	}
	return dark, nil
}

func (s *Service) SetTheme(ctx context.Context, username string, dark bool) error {
	if err := s.repo.SetTheme(ctx, username, dark); err != nil {
		return s.fail("SetTheme", username, err)
	}
	s.log.Info("theme set", zap.String("user", username), zap.Bool("dark", dark))
	return nil
}

// ToggleTheme flips the stored flag and returns the new value.
func (s *Service) ToggleTheme(ctx context.Context, username string) (bool, error) {
	dark, err := s.Theme(ctx, username)
	if err != nil {
		return false, err
	}
	if err := s.SetTheme(ctx, username, !dark); err != nil {
		return dark, err
	}
	return !dark, nil
}
