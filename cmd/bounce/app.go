package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-bounce/internal/config"
	"github.com/vovakirdan/tui-bounce/internal/level"
	"github.com/vovakirdan/tui-bounce/internal/storage"
)

// loadSettings reads the settings file and applies the command line flags
// that were set explicitly.
func loadSettings() (config.Settings, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}

	flags := rootCmd.PersistentFlags()
	if flags.Changed("fps") {
		if flagFPS <= 0 {
			return cfg, fmt.Errorf("--fps must be positive, got %d", flagFPS)
		}
		cfg.Display.FPS = flagFPS
	}
	if flags.Changed("db") {
		cfg.Storage.Path = flagDBPath
	}
	if flags.Changed("levels") {
		cfg.Levels.Dir = flagLevelsDir
	}
	if flags.Changed("difficulty") {
		preset, err := config.ParseDifficulty(flagDifficulty)
		if err != nil {
			return cfg, err
		}
		cfg.Difficulty = preset
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = flagLogLevel
	}
	return cfg, nil
}

// newLogger builds a logger writing to w at the configured level.
func newLogger(w io.Writer, cfg config.Settings, prefix string) (*log.Logger, error) {
	logLevel := log.InfoLevel
	if cfg.Log.Level != "" {
		parsed, err := log.ParseLevel(cfg.Log.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Log.Level, err)
		}
		logLevel = parsed
	}
	return log.NewWithOptions(w, log.Options{
		Level:           logLevel,
		ReportTimestamp: true,
		Prefix:          prefix,
	}), nil
}

// openLogFile opens the configured log file for appending. The TUI owns the
// terminal, so the play command logs there instead of to stderr.
func openLogFile(cfg config.Settings) (io.WriteCloser, error) {
	if cfg.Log.File == "" {
		return nopWriteCloser{io.Discard}, nil
	}
	path, err := config.ExpandHome(cfg.Log.File)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("cannot create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("cannot open log file: %w", err)
	}
	return f, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// loadCatalog returns the configured level set.
func loadCatalog(cfg config.Settings) (*level.Catalog, error) {
	if cfg.Levels.Dir == "" {
		return level.Builtin()
	}
	dir, err := config.ExpandHome(cfg.Levels.Dir)
	if err != nil {
		return nil, err
	}
	return level.Load(dir)
}

// openStore opens the progress database.
func openStore(cfg config.Settings) (*storage.Store, error) {
	return storage.Open(cfg.Storage.Path)
}

// fatal prints an error and exits, the way every command reports failure.
func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
