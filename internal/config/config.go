package config

import (
	"errors"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"diary/internal/models"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "diary.db"
	DefaultLogName        = "diary.log"

	// EnvConfigPath overrides the config file location.
	EnvConfigPath = "DIARY_CONFIG"
)

type Keymap struct {
	Quit           string `toml:"quit"`
	Add            string `toml:"add"`
	Up             string `toml:"up"`
	Down           string `toml:"down"`
	Toggle         string `toml:"toggle"`
	Delete         string `toml:"delete"`
	Confirm        string `toml:"confirm"`
	Cancel         string `toml:"cancel"`
	PrevDay        string `toml:"prev_day"`
	NextDay        string `toml:"next_day"`
	Today          string `toml:"today"`
	PriorityUp     string `toml:"priority_up"`
	PriorityDown   string `toml:"priority_down"`
	Category       string `toml:"category"`
	Search         string `toml:"search"`
	FilterCategory string `toml:"filter_category"`
	FilterPriority string `toml:"filter_priority"`
	ClearDone      string `toml:"clear_done"`
	AllDone        string `toml:"all_done"`
	Theme          string `toml:"theme"`
	Stats          string `toml:"stats"`
}

type Config struct {
	DBPath          string `toml:"db_path"`
	LogLevel        string `toml:"log_level"`
	LogFile         string `toml:"log_file"`
	DefaultPriority string `toml:"default_priority"`
	Keys            Keymap `toml:"keys"`
}

// ResolveConfigPath returns $DIARY_CONFIG, or config.toml under the user
// config directory, or config.toml in the working directory as a last resort.
func ResolveConfigPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, "diary", DefaultConfigFileName)
}

// LoadOrCreate reads the config at path, writing the defaults there first
// when the file does not exist. Relative db and log paths resolve against
// the config file's directory.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg.resolve(path), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBName
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if _, err := models.ParsePriority(cfg.DefaultPriority); err != nil {
		cfg.DefaultPriority = string(models.Low)
	}
	return cfg.resolve(path), nil
}

// Priority returns the configured default priority for new tasks.
func (c Config) Priority() models.Priority {
	p, err := models.ParsePriority(c.DefaultPriority)
	if err != nil {
		return models.Low
	}
	return p
}

func (c Config) resolve(path string) Config {
	base := filepath.Dir(path)
	if c.DBPath != "" && !filepath.IsAbs(c.DBPath) {
		c.DBPath = filepath.Join(base, c.DBPath)
	}
	if c.LogFile != "" && !filepath.IsAbs(c.LogFile) {
		c.LogFile = filepath.Join(base, c.LogFile)
	}
	return c
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig() Config {
	return Config{
		DBPath:          DefaultDBName,
		LogLevel:        "info",
		LogFile:         DefaultLogName,
		DefaultPriority: string(models.Low),
		Keys: Keymap{
			Quit:           "q",
			Add:            "a",
			Up:             "k",
			Down:           "j",
			Toggle:         " ",
			Delete:         "d",
			Confirm:        "enter",
			Cancel:         "esc",
			PrevDay:        "[",
			NextDay:        "]",
			Today:          "t",
			PriorityUp:     "+",
			PriorityDown:   "-",
			Category:       "c",
			Search:         "/",
			FilterCategory: "f",
			FilterPriority: "p",
			ClearDone:      "D",
			AllDone:        "M",
			Theme:          "T",
			Stats:          "s",
		},
	}
}
