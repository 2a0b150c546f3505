package diary

import (
	"context"
	"io"

	"go.uber.org/zap"

	"diary/internal/label"
	"diary/internal/models"
	"diary/internal/transfer"
)

// ExportCategories writes the user's categories to path, one per line.
func (s *Service) ExportCategories(ctx context.Context, username, path string) (int, error) {
	const op = "ExportCategories"
	names, err := s.Categories(ctx, username)
	if err != nil {
		return 0, err
	}
	if err := transfer.ToFile(path, func(w io.Writer) error { return transfer.WriteCategories(w, names) }); err != nil {
		return 0, s.fail(op, username, err)
	}
	n := len(names) - 1
	s.log.Info("categories exported", zap.String("user", username), zap.String("path", path), zap.Int("count", n))
	return n, nil
}

// ImportCategories adds every category listed in path. Names the label
// format cannot carry are skipped and counted.
func (s *Service) ImportCategories(ctx context.Context, username, path string) (imported, skipped int, err error) {
	const op = "ImportCategories"
	var names []string
	err = transfer.FromFile(path, func(r io.Reader) error {
		var err error
		names, err = transfer.ReadCategories(r)
		return err
	})
	if err != nil {
		return 0, 0, s.fail(op, username, err)
	}
	for _, n := range names {
		if label.HasReserved(n) {
			s.log.Warn("category skipped", zap.String("user", username), zap.String("category", n))
			skipped++
			continue
		}
		if err := s.AddCategory(ctx, username, n); err != nil {
			return imported, skipped, err
		}
		imported++
	}
	s.log.Info("categories imported", zap.String("user", username), zap.String("path", path),
		zap.Int("imported", imported), zap.Int("skipped", skipped))
	return imported, skipped, nil
}

// ExportWorkbook writes all of the user's tasks to an xlsx file.
func (s *Service) ExportWorkbook(ctx context.Context, username, path string) (int, error) {
	const op = "ExportWorkbook"
	tasks, err := s.repo.ListAllTasks(ctx, username)
	if err != nil {
		return 0, s.fail(op, username, err)
	}
	if err := transfer.ToFile(path, func(w io.Writer) error { return transfer.WriteWorkbook(w, tasks) }); err != nil {
		return 0, s.fail(op, username, err)
	}
	s.log.Info("workbook exported", zap.String("user", username), zap.String("path", path), zap.Int("count", len(tasks)))
	return len(tasks), nil
}

// ImportWorkbook reads the whole workbook at path and stores its valid rows
// in a single transaction. It returns the imported and skipped row counts.
func (s *Service) ImportWorkbook(ctx context.Context, username, path string) (imported, skipped int, err error) {
	const op = "ImportWorkbook"
	var res transfer.ImportResult
	err = transfer.FromFile(path, func(r io.Reader) error {
		var err error
		res, err = transfer.ReadWorkbook(r)
		return err
	})
	if err != nil {
		return 0, 0, s.fail(op, username, err)
	}
	imported, err = s.repo.ImportTasks(ctx, username, res.Tasks)
	if err != nil {
		return 0, 0, s.fail(op, username, err)
	}
	s.log.Info("workbook imported", zap.String("user", username), zap.String("path", path),
		zap.Int("imported", imported), zap.Int("skipped", res.Skipped))
	return imported, res.Skipped, nil
}

// ExportText writes all tasks as text lines ordered by date.
func (s *Service) ExportText(ctx context.Context, username, path string) (int, error) {
	const op = "ExportText"
	tasks, err := s.repo.ListAllTasks(ctx, username)
	if err != nil {
		return 0, s.fail(op, username, err)
	}
	if err := transfer.ToFile(path, func(w io.Writer) error { return transfer.WriteText(w, tasks) }); err != nil {
		return 0, s.fail(op, username, err)
	}
	s.log.Info("text exported", zap.String("user", username), zap.String("path", path), zap.Int("count", len(tasks)))
	return len(tasks), nil
}

// ExportStats writes the completion summary to an xlsx file.
func (s *Service) ExportStats(ctx context.Context, username, path string) (models.Stats, error) {
	const op = "ExportStats"
	st, err := s.Stats(ctx, username)
	if err != nil {
		return st, err
	}
	if err := transfer.ToFile(path, func(w io.Writer) error { return transfer.WriteStatsWorkbook(w, st) }); err != nil {
		return st, s.fail(op, username, err)
	}
	s.log.Info("stats exported", zap.String("user", username), zap.String("path", path))
	return st, nil
}
