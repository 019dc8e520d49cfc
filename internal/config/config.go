package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	toml "github.com/pelletier/go-toml/v2"

	"quest/internal/todo"
)

const (
	DefaultConfigFileName = "config.toml"
	appDirName            = "quest"
)

// ErrMissingStorePath is returned by Validate when no task store path was
// given by TODO_DB, --db or db_path.
var ErrMissingStorePath = errors.New("task store path is required: set TODO_DB or pass --db")

type Keymap struct {
	Quit   string `toml:"quit"`
	Add    string `toml:"add"`
	Search string `toml:"search"`
	Up     string `toml:"up"`
	Down   string `toml:"down"`
	Toggle string `toml:"toggle"`
	Delete string `toml:"delete"`
	Clear  string `toml:"clear"`
}

type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type Config struct {
	DBPath string    `toml:"db_path"`
	Keys   Keymap    `toml:"keys"`
	Log    LogConfig `toml:"log"`
}

// DefaultConfigPath is <user config dir>/quest/config.toml, or empty when
// the platform reports no config dir.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return ""
	}
	return filepath.Join(dir, appDirName, DefaultConfigFileName)
}

// LoadOrCreate reads the TOML config at path, writing the defaults there
// first when the file does not exist. An empty path yields the defaults.
func LoadOrCreate(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, fmt.Errorf("write default config: %w", err)
		}
		return cfg, nil
	}
	return decodeFile(path, cfg)
}

// Load reads the TOML config at path without creating anything. A path that
// cannot be opened (missing file, missing or non-directory parent, no
// permission) yields the defaults; a file that exists but does not decode is
// an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		return cfg, nil
	}
	return decodeFile(path, cfg)
}

// CreateIfMissing writes the default config to path when nothing is there.
func CreateIfMissing(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return write(path, Default())
}

func decodeFile(path string, cfg Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode toml: %w", err)
	}
	return cfg, nil
}

func write(path string, cfg Config) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func Default() Config {
	return Config{
		Keys: keymapFrom(todo.DefaultKeymap()),
		Log: LogConfig{
			Level: "info",
		},
	}
}

func keymapFrom(k todo.Keymap) Keymap {
	return Keymap{
		Quit:   k.Quit,
		Add:    k.Add,
		Search: k.Search,
		Up:     k.Up,
		Down:   k.Down,
		Toggle: k.Toggle,
		Delete: k.Delete,
		Clear:  k.Clear,
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return ErrMissingStorePath
	}

	seen := map[string]string{}
	for _, b := range c.Keys.bindings() {
		if !validKeyName(b.key) {
			return fmt.Errorf("invalid keys.%s: %q", b.action, b.key)
		}
		if other, ok := seen[b.key]; ok {
			return fmt.Errorf("keys.%s and keys.%s both use %q", other, b.action, b.key)
		}
		seen[b.key] = b.action
	}

	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "", "debug", "info", "warn", "error", "fatal":
	default:
		return fmt.Errorf("invalid log.level: %q", c.Log.Level)
	}
	return nil
}

// Bindings converts the keymap for the state machine.
func (k Keymap) Bindings() todo.Keymap {
	return todo.Keymap{
		Quit:   k.Quit,
		Add:    k.Add,
		Search: k.Search,
		Up:     k.Up,
		Down:   k.Down,
		Toggle: k.Toggle,
		Delete: k.Delete,
		Clear:  k.Clear,
	}
}

type binding struct {
	action string
	key    string
}

func (k Keymap) bindings() []binding {
	return []binding{
		{"quit", k.Quit},
		{"add", k.Add},
		{"search", k.Search},
		{"up", k.Up},
		{"down", k.Down},
		{"toggle", k.Toggle},
		{"delete", k.Delete},
		{"clear", k.Clear},
	}
}

func validKeyName(name string) bool {
	switch name {
	case "space", "up", "down", "enter", "esc", "backspace", "delete":
		return true
	}
	if utf8.RuneCountInString(name) != 1 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsPrint(r) && !unicode.IsSpace(r)
}
