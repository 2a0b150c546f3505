package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"diary/internal/errs"
	"diary/internal/label"
	"diary/internal/models"
)

const taskColumns = `id, username, date, text, done, category, priority`

type taskRow struct {
	ID       int64  `db:"id"`
	Username string `db:"username"`
	Date     string `db:"date"`
	Text     string `db:"text"`
	Done     int    `db:"done"`
	Category string `db:"category"`
	Priority string `db:"priority"`
}

func (r taskRow) task() models.Task {
	t := models.Task{
		ID:       r.ID,
		Username: r.Username,
		Text:     r.Text,
		Done:     r.Done == 1,
		Category: r.Category,
		Priority: models.Priority(r.Priority),
	}
	if d, err := models.ParseDate(r.Date); err == nil {
		t.Date = d
	}
	return t
}

func toTasks(rows []taskRow) []models.Task {
	tasks := make([]models.Task, 0, len(rows))
	for _, r := range rows {
		tasks = append(tasks, r.task())
	}
	return tasks
}

// Match addresses tasks by their visible tuple instead of the id. A nil Done
// leaves the done column unconstrained.
type Match struct {
	Date     time.Time
	Text     string
	Category string
	Priority models.Priority
	Done     *bool
}

func (m Match) where(username string) sq.Eq {
	eq := sq.Eq{
		"username": username,
		"date":     models.FormatDate(m.Date),
		"text":     m.Text,
		"category": m.Category,
		"priority": string(m.Priority),
	}
	if m.Done != nil {
		eq["done"] = boolToInt(*m.Done)
	}
	return eq
}

// TaskUpdate carries the optional new values of a field change.
type TaskUpdate struct {
	Category *string
	Priority *models.Priority
}

func (u TaskUpdate) empty() bool {
	return u.Category == nil && u.Priority == nil
}

// AddTask stores a new pending task and returns its id. An empty category
// files the task under models.AllCategories; any other category is created
// on first use.
func (s *Store) AddTask(ctx context.Context, username string, date time.Time, text, category string, priority models.Priority) (int64, error) {
	const op = "AddTask"
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, errs.E(op, errs.ErrValidation, "task text is empty")
	}
	if category == "" {
		category = models.AllCategories
	}
	if err := validateTaskFields(op, text, category, priority); err != nil {
		return 0, err
	}

	var id int64
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := requireUser(ctx, tx, op, username); err != nil {
			return err
		}
		var err error
		id, err = insertTask(ctx, tx, username, models.Task{
			Date: date, Text: text, Category: category, Priority: priority,
		})
		return err
	})
	return id, err
}

// ImportTasks inserts a batch in one transaction; either every task is
// stored or none is.
func (s *Store) ImportTasks(ctx context.Context, username string, tasks []models.Task) (int, error) {
	const op = "ImportTasks"
	tasks = append([]models.Task(nil), tasks...)
	for i := range tasks {
		tasks[i].Text = strings.TrimSpace(tasks[i].Text)
		if tasks[i].Text == "" {
			return 0, errs.E(op, errs.ErrValidation, fmt.Sprintf("task %d has empty text", i))
		}
		if tasks[i].Category == "" {
			tasks[i].Category = models.AllCategories
		}
		if err := validateTaskFields(op, tasks[i].Text, tasks[i].Category, tasks[i].Priority); err != nil {
			return 0, fmt.Errorf("task %d: %w", i, err)
		}
	}
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := requireUser(ctx, tx, op, username); err != nil {
			return err
		}
		for _, t := range tasks {
			if _, err := insertTask(ctx, tx, username, t); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(tasks), nil
}

func insertTask(ctx context.Context, tx *sqlx.Tx, username string, t models.Task) (int64, error) {
	if err := ensureCategory(ctx, tx, username, t.Category); err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO tasks (username, date, text, done, category, priority) VALUES (?, ?, ?, ?, ?, ?)`,
		username, models.FormatDate(t.Date), strings.TrimSpace(t.Text), boolToInt(t.Done), t.Category, string(t.Priority),
	)
	if err != nil {
		return 0, fmt.Errorf("insert task: %w", err)
	}
	return res.LastInsertId()
}

func (s *Store) GetTask(ctx context.Context, username string, id int64) (models.Task, error) {
	var row taskRow
	err := s.db.GetContext(ctx, &row,
		`SELECT `+taskColumns+` FROM tasks WHERE username = ? AND id = ?`, username, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, errs.E("GetTask", errs.ErrNotFound, fmt.Sprintf("task %d", id))
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("GetTask: %w", err)
	}
	return row.task(), nil
}

// ListTasksForDate returns the user's tasks for one day in no particular order.
func (s *Store) ListTasksForDate(ctx context.Context, username string, date time.Time) ([]models.Task, error) {
	var rows []taskRow
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT `+taskColumns+` FROM tasks WHERE username = ? AND date = ?`,
		username, models.FormatDate(date),
	); err != nil {
		return nil, fmt.Errorf("ListTasksForDate: %w", err)
	}
	return toTasks(rows), nil
}

// ListAllTasks returns every task of the user ordered by date.
func (s *Store) ListAllTasks(ctx context.Context, username string) ([]models.Task, error) {
	var rows []taskRow
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT `+taskColumns+` FROM tasks WHERE username = ? ORDER BY date, id`, username,
	); err != nil {
		return nil, fmt.Errorf("ListAllTasks: %w", err)
	}
	return toTasks(rows), nil
}

// MonthlyTasks returns the tasks of calendar month 1..12 across all years.
func (s *Store) MonthlyTasks(ctx context.Context, username string, month int) ([]models.Task, error) {
	if month < 1 || month > 12 {
		return nil, errs.E("MonthlyTasks", errs.ErrValidation, fmt.Sprintf("month %d out of range", month))
	}
	var rows []taskRow
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT `+taskColumns+` FROM tasks WHERE username = ? AND strftime('%m', date) = ?`,
		username, fmt.Sprintf("%02d", month),
	); err != nil {
		return nil, fmt.Errorf("MonthlyTasks: %w", err)
	}
	return toTasks(rows), nil
}

func (s *Store) Stats(ctx context.Context, username string) (models.Stats, error) {
	var row struct {
		Total int `db:"total"`
		Done  int `db:"done"`
	}
	if err := s.db.GetContext(ctx, &row,
		`SELECT COUNT(*) AS total, COALESCE(SUM(done), 0) AS done FROM tasks WHERE username = ?`,
		username,
	); err != nil {
		return models.Stats{}, fmt.Errorf("Stats: %w", err)
	}
	return models.Stats{Total: row.Total, Done: row.Done}, nil
}

func (s *Store) DeleteTask(ctx context.Context, username string, id int64) error {
	_, err := s.deleteTasks(ctx, "DeleteTask", username, sq.Eq{"username": username, "id": id})
	return err
}

// DeleteTaskMatching deletes every task matching m and returns how many went.
func (s *Store) DeleteTaskMatching(ctx context.Context, username string, m Match) (int64, error) {
	return s.deleteTasks(ctx, "DeleteTaskMatching", username, m.where(username))
}

func (s *Store) SetTaskDone(ctx context.Context, username string, id int64, done bool) error {
	_, err := s.updateTasks(ctx, "SetTaskDone", username,
		sq.Eq{"username": username, "id": id}, map[string]any{"done": boolToInt(done)}, "")
	return err
}

// SetTaskDoneMatching sets the done flag on every task matching m.
func (s *Store) SetTaskDoneMatching(ctx context.Context, username string, m Match, done bool) (int64, error) {
	return s.updateTasks(ctx, "SetTaskDoneMatching", username,
		m.where(username), map[string]any{"done": boolToInt(done)}, "")
}

// UpdateTaskField changes the category and/or priority of one task. An empty
// update is a no-op.
func (s *Store) UpdateTaskField(ctx context.Context, username string, id int64, upd TaskUpdate) error {
	const op = "UpdateTaskField"
	set, category, err := upd.columns(op)
	if err != nil || set == nil {
		return err
	}
	_, err = s.updateTasks(ctx, op, username, sq.Eq{"username": username, "id": id}, set, category)
	return err
}

// UpdateTaskFieldMatching applies upd to every task matching m.
func (s *Store) UpdateTaskFieldMatching(ctx context.Context, username string, m Match, upd TaskUpdate) (int64, error) {
	const op = "UpdateTaskFieldMatching"
	set, category, err := upd.columns(op)
	if err != nil || set == nil {
		return 0, err
	}
	return s.updateTasks(ctx, op, username, m.where(username), set, category)
}

// DeleteAllDone removes the finished tasks of one day.
func (s *Store) DeleteAllDone(ctx context.Context, username string, date time.Time) (int64, error) {
	var n int64
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM tasks WHERE username = ? AND date = ? AND done = 1`,
			username, models.FormatDate(date))
		if err != nil {
			return fmt.Errorf("delete done tasks: %w", err)
		}
		n, err = res.RowsAffected()
		return err
	})
	return n, err
}

// MarkAllDone finishes every task of one day.
func (s *Store) MarkAllDone(ctx context.Context, username string, date time.Time) (int64, error) {
	var n int64
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE tasks SET done = 1 WHERE username = ? AND date = ?`,
			username, models.FormatDate(date))
		if err != nil {
			return fmt.Errorf("mark tasks done: %w", err)
		}
		n, err = res.RowsAffected()
		return err
	})
	return n, err
}

func (u TaskUpdate) columns(op string) (map[string]any, string, error) {
	if u.empty() {
		return nil, "", nil
	}
	set := map[string]any{}
	var category string
	if u.Category != nil {
		category = *u.Category
		if category == "" {
			category = models.AllCategories
		}
		if err := validateCategory(op, category); err != nil {
			return nil, "", err
		}
		set["category"] = category
	}
	if u.Priority != nil {
		if !u.Priority.Valid() {
			return nil, "", errs.E(op, errs.ErrValidation, fmt.Sprintf("unknown priority %q", *u.Priority))
		}
		set["priority"] = string(*u.Priority)
	}
	return set, category, nil
}

// validateTaskFields rejects tasks whose label would not decode back to
// the same text, category and priority.
func validateTaskFields(op, text, category string, priority models.Priority) error {
	if err := validateCategory(op, category); err != nil {
		return err
	}
	if !priority.Valid() {
		return errs.E(op, errs.ErrValidation, fmt.Sprintf("unknown priority %q", priority))
	}
	if err := label.Check(text, category, priority); err != nil {
		return errs.Wrap(op, errs.ErrValidation, err)
	}
	return nil
}

func (s *Store) deleteTasks(ctx context.Context, op, username string, where sq.Sqlizer) (int64, error) {
	query, args, err := sq.Delete("tasks").Where(where).ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: build query: %w", op, err)
	}
	return s.execAffecting(ctx, op, username, "", query, args)
}

func (s *Store) updateTasks(ctx context.Context, op, username string, where sq.Sqlizer, set map[string]any, category string) (int64, error) {
	query, args, err := sq.Update("tasks").SetMap(set).Where(where).ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: build query: %w", op, err)
	}
	return s.execAffecting(ctx, op, username, category, query, args)
}

// execAffecting runs a task mutation and reports errs.ErrNotFound when it
// touched no row. A non-empty category is created for the user on first use.
func (s *Store) execAffecting(ctx context.Context, op, username, category, query string, args []any) (int64, error) {
	var n int64
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		n, err = res.RowsAffected()
		if err != nil {
			return fmt.Errorf("%s: rows affected: %w", op, err)
		}
		if n == 0 {
			return errs.E(op, errs.ErrNotFound, "no matching task")
		}
		if category == "" {
			return nil
		}
		return ensureCategory(ctx, tx, username, category)
	})
	return n, err
}
