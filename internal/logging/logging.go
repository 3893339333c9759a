// Package logging builds the zap loggers the commands run with.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Mode selects where log output goes.
type Mode int

const (
	// ModeConsole writes human-readable lines to stderr. Used by
	// foreground commands.
	ModeConsole Mode = iota
	// ModeFile writes JSON to a log file. The dashboard uses it
	// because stderr writes would corrupt the alternate screen.
	ModeFile
)

// Setup builds a logger for mode at the given level. path overrides
// the file sink location and is ignored for ModeConsole; empty means
// the user config dir. The returned close func flushes buffered
// entries.
func Setup(mode Mode, level, path string) (*zap.Logger, func(), error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, nil, err
	}

	var cfg zap.Config
	switch mode {
	case ModeConsole:
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(lvl)
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.OutputPaths = []string{"stderr"}
		cfg.ErrorOutputPaths = []string{"stderr"}
		cfg.DisableStacktrace = true
	case ModeFile:
		if path == "" {
			path, err = defaultLogPath()
			if err != nil {
				return nil, nil, err
			}
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(lvl)
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.OutputPaths = []string{path}
		cfg.ErrorOutputPaths = []string{path}
	default:
		return nil, nil, fmt.Errorf("unknown logging mode %d", mode)
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}

	return logger, func() { _ = logger.Sync() }, nil
}

func parseLevel(level string) (zapcore.Level, error) {
	switch level {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	}
	return 0, fmt.Errorf("unknown log level %q", level)
}

func defaultLogPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config directory: %w", err)
	}
	return filepath.Join(dir, "nestegg", "nestegg.log"), nil
}
