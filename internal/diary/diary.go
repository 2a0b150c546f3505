// Package diary holds the application logic shared by the command line and
// the terminal UI: accounts, categories, the theme flag, task mutations,
// day and month queries, and import/export.
package diary

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"diary/internal/errs"
	"diary/internal/models"
	"diary/internal/storage"
)

// Repository is the persistence the service depends on. *storage.Store
// implements it.
type Repository interface {
	CreateUser(ctx context.Context, username, passwordHash string) error
	GetUser(ctx context.Context, username string) (models.User, error)
	UpdatePassword(ctx context.Context, username, passwordHash string) error
	DeleteUser(ctx context.Context, username string) error

	GetTheme(ctx context.Context, username string) (bool, error)
	SetTheme(ctx context.Context, username string, dark bool) error

	ListCategories(ctx context.Context, username string) ([]string, error)
	AddCategory(ctx context.Context, username, name string) error
	DeleteCategory(ctx context.Context, username, name string) error

	AddTask(ctx context.Context, username string, date time.Time, text, category string, priority models.Priority) (int64, error)
	ImportTasks(ctx context.Context, username string, tasks []models.Task) (int, error)
	GetTask(ctx context.Context, username string, id int64) (models.Task, error)
	ListTasksForDate(ctx context.Context, username string, date time.Time) ([]models.Task, error)
	ListAllTasks(ctx context.Context, username string) ([]models.Task, error)
	MonthlyTasks(ctx context.Context, username string, month int) ([]models.Task, error)
	Stats(ctx context.Context, username string) (models.Stats, error)

	DeleteTask(ctx context.Context, username string, id int64) error
	DeleteTaskMatching(ctx context.Context, username string, m storage.Match) (int64, error)
	SetTaskDone(ctx context.Context, username string, id int64, done bool) error
	SetTaskDoneMatching(ctx context.Context, username string, m storage.Match, done bool) (int64, error)
	UpdateTaskField(ctx context.Context, username string, id int64, upd storage.TaskUpdate) error
	UpdateTaskFieldMatching(ctx context.Context, username string, m storage.Match, upd storage.TaskUpdate) (int64, error)
	DeleteAllDone(ctx context.Context, username string, date time.Time) (int64, error)
	MarkAllDone(ctx context.Context, username string, date time.Time) (int64, error)
}

var _ Repository = (*storage.Store)(nil)

type Service struct {
	repo     Repository
	log      *zap.Logger
	hashCost int
}

type Option func(*Service)

// WithHashCost sets the bcrypt cost used for new password hashes.
func WithHashCost(cost int) Option {
	return func(s *Service) { s.hashCost = cost }
}

// New returns a Service over repo. A nil logger is replaced by a no-op one.
func New(repo Repository, log *zap.Logger, opts ...Option) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{repo: repo, log: log, hashCost: bcrypt.DefaultCost}
	for _, o := range opts {
		o(s)
	}
	return s
}

// fail logs err against op and returns it unchanged. Caller mistakes are
// logged at warn level, everything else at error level.
func (s *Service) fail(op, username string, err error) error {
	fields := []zap.Field{zap.String("op", op), zap.String("user", username), zap.Error(err)}
	switch {
	case errors.Is(err, errs.ErrValidation),
		errors.Is(err, errs.ErrNotFound),
		errors.Is(err, errs.ErrAlreadyExists),
		errors.Is(err, errs.ErrIntegrity),
		errors.Is(err, errs.ErrDecode):
		s.log.Warn("request rejected", fields...)
	default:
		s.log.Error("request failed", fields...)
	}
	return err
}
