package config

import (
	"errors"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDataDir        = "data"

	tasksDBName     = "tasks.db"
	completedDBName = "completed_tasks.db"
)

type Keymap struct {
	Quit       string `toml:"quit"`
	Add        string `toml:"add"`
	AddRepeat  string `toml:"add_repeat"`
	Up         string `toml:"up"`
	Down       string `toml:"down"`
	Left       string `toml:"left"`
	Right      string `toml:"right"`
	PrevMonth  string `toml:"prev_month"`
	NextMonth  string `toml:"next_month"`
	Today      string `toml:"today"`
	Toggle     string `toml:"toggle"`
	Delete     string `toml:"delete"`
	SwitchPane string `toml:"switch_pane"`
	Confirm    string `toml:"confirm"`
	Cancel     string `toml:"cancel"`
	Autostart  string `toml:"autostart"`
}

type Config struct {
	DataDir string `toml:"data_dir"`
	LogFile string `toml:"log_file"`
	Keys    Keymap `toml:"keys"`
}

// TasksPath is the active-store database file.
func (c Config) TasksPath() string {
	return filepath.Join(c.DataDir, tasksDBName)
}

// CompletedPath is the completed-store database file.
func (c Config) CompletedPath() string {
	return filepath.Join(c.DataDir, completedDBName)
}

// ResolveConfigPath prefers the per-user config directory and falls back
// to the working directory when it cannot be determined.
func ResolveConfigPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(base, "calendo", DefaultConfigFileName)
}

func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig(filepath.Dir(path))
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.DataDir == "" {
		cfg.DataDir = filepath.Join(filepath.Dir(path), DefaultDataDir)
	}
	return cfg, nil
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig(baseDir string) Config {
	return Config{
		DataDir: filepath.Join(baseDir, DefaultDataDir),
		Keys: Keymap{
			Quit:       "q",
			Add:        "a",
			AddRepeat:  "r",
			Up:         "k",
			Down:       "j",
			Left:       "h",
			Right:      "l",
			PrevMonth:  "[",
			NextMonth:  "]",
			Today:      "t",
			Toggle:     " ",
			Delete:     "d",
			SwitchPane: "tab",
			Confirm:    "enter",
			Cancel:     "esc",
			Autostart:  "s",
		},
	}
}
