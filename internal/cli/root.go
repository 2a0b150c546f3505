// Package cli wires the diary service into a cobra command tree.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"diary/internal/config"
	"diary/internal/diary"
	"diary/internal/errs"
	"diary/internal/logger"
	"diary/internal/models"
	"diary/internal/storage"
)

const (
	EnvUser     = "DIARY_USER"
	EnvPassword = "DIARY_PASSWORD"
)

type app struct {
	configPath string
	user       string
	password   string
}

// session is an opened configuration, log and store for one command.
type session struct {
	cfg   config.Config
	log   *logger.Logger
	store *storage.Store
	svc   *diary.Service
	user  string
}

func (s *session) close() {
	s.store.Close()
	_ = s.log.Log.Sync()
}

func NewRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "diary",
		Short: "Personal multi-user task diary",
		Long: `A task diary backed by a local SQLite file.

Tasks belong to a calendar day and carry a category and a priority.
Each user has their own categories, theme preference and tasks.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default $"+config.EnvConfigPath+" or the user config dir)")
	root.PersistentFlags().StringVarP(&a.user, "user", "u", "", "username (default $"+EnvUser+")")
	root.PersistentFlags().StringVarP(&a.password, "password", "p", "", "password (default $"+EnvPassword+")")

	root.AddCommand(
		a.registerCmd(),
		a.passwdCmd(),
		a.unregisterCmd(),
		a.tuiCmd(),
		a.taskCmd(),
		a.categoryCmd(),
		a.themeCmd(),
		a.statsCmd(),
		a.monthCmd(),
		a.exportCmd(),
		a.importCmd(),
	)
	return root
}

// Execute runs the command tree and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (a *app) open() (*session, error) {
	path := a.configPath
	if path == "" {
		path = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log := logger.New()
	if err := log.Init(cfg.LogLevel, cfg.LogFile); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		log.Log.Error("open database failed", zap.String("path", cfg.DBPath), zap.Error(err))
		return nil, fmt.Errorf("open database: %w", err)
	}
	return &session{
		cfg:   cfg,
		log:   log,
		store: store,
		svc:   diary.New(store, log.Log),
		user:  a.username(),
	}, nil
}

// run opens a session for fn. With auth set, the user's password is
// verified first.
func (a *app) run(auth bool, fn func(cmd *cobra.Command, args []string, s *session) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := a.open()
		if err != nil {
			return err
		}
		defer s.close()
		if auth {
			if s.user == "" {
				return errs.E("login", errs.ErrValidation, "a username is required (--user or $"+EnvUser+")")
			}
			if err := s.svc.Authenticate(cmd.Context(), s.user, a.secret()); err != nil {
				return err
			}
		}
		return fn(cmd, args, s)
	}
}

func (a *app) username() string {
	if a.user != "" {
		return strings.TrimSpace(a.user)
	}
	return strings.TrimSpace(os.Getenv(EnvUser))
}

func (a *app) secret() string {
	if a.password != "" {
		return a.password
	}
	return os.Getenv(EnvPassword)
}

// parseDay reads a --date value; empty means today.
func parseDay(v string) (time.Time, error) {
	if strings.TrimSpace(v) == "" {
		return models.DateOf(time.Now()), nil
	}
	d, err := models.ParseDate(v)
	if err != nil {
		return time.Time{}, errs.Wrap("date", errs.ErrValidation, err)
	}
	return d, nil
}
