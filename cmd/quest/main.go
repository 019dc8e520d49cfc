package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"quest/internal/config"
	"quest/internal/logging"
	"quest/internal/storage"
	"quest/internal/todo"
	"quest/internal/ui"
)

var version = "dev"

type flags struct {
	DBPath     string
	ConfigPath string
	// ConfigSet is true when --config or QUEST_CONFIG named the file.
	ConfigSet bool
	LogFile    string
	LogLevel   string
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCommand() *cli.Command {
	f := &flags{}
	return &cli.Command{
		Name:    "quest",
		Usage:   "Keep a list of tasks in the terminal",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "db",
				Usage:       "path to the task file (.json, or .db/.sqlite for SQLite)",
				Sources:     cli.EnvVars("TODO_DB"),
				Destination: &f.DBPath,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("QUEST_CONFIG"),
				Value:       config.DefaultConfigPath(),
				Destination: &f.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "write logs to this file (logs are discarded otherwise)",
				Sources:     cli.EnvVars("QUEST_LOG_FILE"),
				Destination: &f.LogFile,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal)",
				Sources:     cli.EnvVars("QUEST_LOG_LEVEL"),
				Destination: &f.LogLevel,
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			f.ConfigSet = cmd.IsSet("config")
			return run(*f)
		},
	}
}

// run validates configuration and loads the task store before the terminal
// is touched; ui.Run owns the terminal from then on.
func run(f flags) error {
	cfg, err := resolveConfig(f)
	if err != nil {
		return err
	}

	logger, closeLog, err := logging.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer closeLog()

	if !f.ConfigSet {
		if err := config.CreateIfMissing(f.ConfigPath); err != nil {
			logger.Warn("could not write default config", "path", f.ConfigPath, "err", err)
		}
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Error("open store failed", "path", cfg.DBPath, "err", err)
		return fmt.Errorf("failed to open task store: %w", err)
	}
	defer store.Close()

	tasks, err := store.Load()
	if err != nil {
		logger.Error("load failed", "path", cfg.DBPath, "err", err)
		return fmt.Errorf("failed to load tasks: %w", err)
	}
	logger.Info("loaded tasks", "path", cfg.DBPath, "count", len(tasks))

	state := todo.NewState(tasks, cfg.Keys.Bindings())
	if err := ui.Run(state, store, logger); err != nil {
		var saveErr *ui.SaveError
		if errors.As(err, &saveErr) {
			return fmt.Errorf("failed to save tasks: %w", saveErr.Err)
		}
		logger.Error("program failed", "err", err)
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}

// resolveConfig never writes to disk for the default config path; an
// unusable default location falls back to the built-in defaults.
func resolveConfig(f flags) (config.Config, error) {
	load := config.Load
	if f.ConfigSet {
		load = config.LoadOrCreate
	}
	cfg, err := load(f.ConfigPath)
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}
	if f.DBPath != "" {
		cfg.DBPath = f.DBPath
	}
	if f.LogFile != "" {
		cfg.Log.File = f.LogFile
	}
	if f.LogLevel != "" {
		cfg.Log.Level = f.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
