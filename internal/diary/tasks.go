package diary

import (
	"context"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"diary/internal/filter"
	"diary/internal/label"
	"diary/internal/models"
	"diary/internal/storage"
)

// AddTask stores a pending task for date and returns its id.
func (s *Service) AddTask(ctx context.Context, username string, date time.Time, text, category string, priority models.Priority) (int64, error) {
	id, err := s.repo.AddTask(ctx, username, date, text, strings.TrimSpace(category), priority)
	if err != nil {
		return 0, s.fail("AddTask", username, err)
	}
	s.log.Info("task added", zap.String("user", username), zap.Int64("id", id), zap.String("date", models.FormatDate(date)))
	return id, nil
}

func (s *Service) Task(ctx context.Context, username string, id int64) (models.Task, error) {
	t, err := s.repo.GetTask(ctx, username, id)
	if err != nil {
		return models.Task{}, s.fail("Task", username, err)
	}
	return t, nil
}

func (s *Service) SetDone(ctx context.Context, username string, id int64, done bool) error {
	if err := s.repo.SetTaskDone(ctx, username, id, done); err != nil {
		return s.fail("SetDone", username, err)
	}
	s.log.Info("task status set", zap.String("user", username), zap.Int64("id", id), zap.Bool("done", done))
	return nil
}

// Toggle flips the done flag of a task and returns the new value.
func (s *Service) Toggle(ctx context.Context, username string, id int64) (bool, error) {
	t, err := s.Task(ctx, username, id)
	if err != nil {
		return false, err
	}
	if err := s.SetDone(ctx, username, id, !t.Done); err != nil {
		return t.Done, err
	}
	return !t.Done, nil
}

func (s *Service) Delete(ctx context.Context, username string, id int64) error {
	if err := s.repo.DeleteTask(ctx, username, id); err != nil {
		return s.fail("Delete", username, err)
	}
	s.log.Info("task deleted", zap.String("user", username), zap.Int64("id", id))
	return nil
}

// ChangeCategory moves a task to category, creating the category if needed.
func (s *Service) ChangeCategory(ctx context.Context, username string, id int64, category string) error {
	category = strings.TrimSpace(category)
	if err := s.repo.UpdateTaskField(ctx, username, id, storage.TaskUpdate{Category: &category}); err != nil {
		return s.fail("ChangeCategory", username, err)
	}
	s.log.Info("task category changed", zap.String("user", username), zap.Int64("id", id), zap.String("category", category))
	return nil
}

func (s *Service) ChangePriority(ctx context.Context, username string, id int64, priority models.Priority) error {
	if err := s.repo.UpdateTaskField(ctx, username, id, storage.TaskUpdate{Priority: &priority}); err != nil {
		return s.fail("ChangePriority", username, err)
	}
	s.log.Info("task priority changed", zap.String("user", username), zap.Int64("id", id), zap.String("priority", string(priority)))
	return nil
}

// UpdateTask applies the category and priority of upd to a task in one
// transaction. Nil fields are left alone.
func (s *Service) UpdateTask(ctx context.Context, username string, id int64, upd storage.TaskUpdate) error {
	if upd.Category != nil {
		category := strings.TrimSpace(*upd.Category)
		upd.Category = &category
	}
	if err := s.repo.UpdateTaskField(ctx, username, id, upd); err != nil {
		return s.fail("UpdateTask", username, err)
	}
	s.log.Info("task updated", zap.String("user", username), zap.Int64("id", id))
	return nil
}

// ClearDone deletes the finished tasks of date and returns how many went.
func (s *Service) ClearDone(ctx context.Context, username string, date time.Time) (int64, error) {
	n, err := s.repo.DeleteAllDone(ctx, username, date)
	if err != nil {
		return 0, s.fail("ClearDone", username, err)
	}
	s.log.Info("done tasks cleared", zap.String("user", username), zap.String("date", models.FormatDate(date)), zap.Int64("count", n))
	return n, nil
}

// CompleteAll marks every task of date done.
func (s *Service) CompleteAll(ctx context.Context, username string, date time.Time) (int64, error) {
	n, err := s.repo.MarkAllDone(ctx, username, date)
	if err != nil {
		return 0, s.fail("CompleteAll", username, err)
	}
	s.log.Info("tasks completed", zap.String("user", username), zap.String("date", models.FormatDate(date)), zap.Int64("count", n))
	return n, nil
}

// DeleteByLabel deletes every task of date whose visible label is lbl.
func (s *Service) DeleteByLabel(ctx context.Context, username string, date time.Time, lbl string) (int64, error) {
	const op = "DeleteByLabel"
	m, err := matchLabel(date, lbl)
	if err != nil {
		return 0, s.fail(op, username, err)
	}
	n, err := s.repo.DeleteTaskMatching(ctx, username, m)
	if err != nil {
		return 0, s.fail(op, username, err)
	}
	s.log.Info("tasks deleted by label", zap.String("user", username), zap.Int64("count", n))
	return n, nil
}

// SetDoneByLabel sets the done flag of every task of date labelled lbl.
func (s *Service) SetDoneByLabel(ctx context.Context, username string, date time.Time, lbl string, done bool) (int64, error) {
	const op = "SetDoneByLabel"
	m, err := matchLabel(date, lbl)
	if err != nil {
		return 0, s.fail(op, username, err)
	}
	n, err := s.repo.SetTaskDoneMatching(ctx, username, m, done)
	if err != nil {
		return 0, s.fail(op, username, err)
	}
	s.log.Info("task status set by label", zap.String("user", username), zap.Int64("count", n), zap.Bool("done", done))
	return n, nil
}

// UpdateByLabel changes category or priority of every task of date labelled lbl.
func (s *Service) UpdateByLabel(ctx context.Context, username string, date time.Time, lbl string, upd storage.TaskUpdate) (int64, error) {
	const op = "UpdateByLabel"
	m, err := matchLabel(date, lbl)
	if err != nil {
		return 0, s.fail(op, username, err)
	}
	n, err := s.repo.UpdateTaskFieldMatching(ctx, username, m, upd)
	if err != nil {
		return 0, s.fail(op, username, err)
	}
	s.log.Info("tasks updated by label", zap.String("user", username), zap.Int64("count", n))
	return n, nil
}

func matchLabel(date time.Time, lbl string) (storage.Match, error) {
	p, err := label.Decode(lbl)
	if err != nil {
		return storage.Match{}, err
	}
	return storage.Match{
		Date:     date,
		Text:     p.Text,
		Category: p.Category,
		Priority: p.Priority,
		Done:     &p.Done,
	}, nil
}

// Day returns the tasks of date that pass c, in insertion order.
func (s *Service) Day(ctx context.Context, username string, date time.Time, c filter.Criteria) ([]models.Task, error) {
	tasks, err := s.repo.ListTasksForDate(ctx, username, date)
	if err != nil {
		return nil, s.fail("Day", username, err)
	}
	tasks = filter.Apply(tasks, c)
	slices.SortStableFunc(tasks, func(a, b models.Task) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return tasks, nil
}

// Month returns the tasks dated in month of any year, ordered by date.
func (s *Service) Month(ctx context.Context, username string, month int) ([]models.Task, error) {
	tasks, err := s.repo.MonthlyTasks(ctx, username, month)
	if err != nil {
		return nil, s.fail("Month", username, err)
	}
	filter.SortByDate(tasks)
	return tasks, nil
}

func (s *Service) Stats(ctx context.Context, username string) (models.Stats, error) {
	st, err := s.repo.Stats(ctx, username)
	if err != nil {
		return models.Stats{}, s.fail("Stats", username, err)
	}
	return st, nil
}
