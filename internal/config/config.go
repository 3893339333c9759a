// Package config loads application settings from NESTEGG_* environment
// variables with documented defaults.
package config

import (
	"fmt"
	"net"
	"regexp"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/lkettell/nestegg/internal/chart"
)

const (
	defaultLogLevel    = "info"
	defaultExportDir   = "nestegg-report"
	defaultExportWidth = 960

	minChartHeight = 160
	maxChartHeight = 2048
	minXTicks      = 2
	maxXTicks      = 24
	maxExportWidth = 4096
)

// Config holds the application configuration loaded from environment
// variables.
type Config struct {
	// DBPath overrides where the encrypted ledger database lives.
	// Defaults to the user config dir when empty.
	// Environment variable: NESTEGG_DB_PATH
	DBPath string `koanf:"NESTEGG_DB_PATH"`

	// LogLevel is one of debug, info, warn, error.
	// Environment variable: NESTEGG_LOG_LEVEL
	LogLevel string `koanf:"NESTEGG_LOG_LEVEL"`

	// LogPath overrides where the dashboard's JSON log file is written.
	// Environment variable: NESTEGG_LOG_PATH
	LogPath string `koanf:"NESTEGG_LOG_PATH"`

	// Addr is the serve command's listen address. Empty binds the
	// server's loopback default.
	// Environment variable: NESTEGG_ADDR
	Addr string `koanf:"NESTEGG_ADDR"`

	// ChartColor is a #rrggbb line color. Empty keeps the engine
	// default.
	// Environment variable: NESTEGG_CHART_COLOR
	ChartColor string `koanf:"NESTEGG_CHART_COLOR"`

	// ChartHeight is the rendered chart height in pixels.
	// Environment variable: NESTEGG_CHART_HEIGHT
	ChartHeight int `koanf:"NESTEGG_CHART_HEIGHT"`

	// MaxXTicks bounds how many X-axis labels a chart renders.
	// Environment variable: NESTEGG_MAX_X_TICKS
	MaxXTicks int `koanf:"NESTEGG_MAX_X_TICKS"`

	// ExportDir is where report bundles land.
	// Environment variable: NESTEGG_EXPORT_DIR
	ExportDir string `koanf:"NESTEGG_EXPORT_DIR"`

	// ExportWidth is the bundle chart width in pixels.
	// Environment variable: NESTEGG_EXPORT_WIDTH
	ExportWidth int `koanf:"NESTEGG_EXPORT_WIDTH"`
}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Load reads NESTEGG_* variables over the defaults and validates the
// result.
func Load() (Config, error) {
	k := koanf.New(".")
	if err := k.Load(env.Provider("NESTEGG_", ".", nil), nil); err != nil {
		return Config{}, fmt.Errorf("load environment config: %w", err)
	}

	cfg := defaults()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf", FlatPaths: true}); err != nil {
		return Config{}, fmt.Errorf("unmarshal environment config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func defaults() Config {
	return Config{
		LogLevel:    defaultLogLevel,
		ChartHeight: chart.DefaultHeight,
		MaxXTicks:   chart.DefaultMaxXTicks,
		ExportDir:   defaultExportDir,
		ExportWidth: defaultExportWidth,
	}
}

func (c Config) validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("NESTEGG_LOG_LEVEL %q is not one of debug, info, warn, error", c.LogLevel)
	}

	if c.Addr != "" {
		if _, _, err := net.SplitHostPort(c.Addr); err != nil {
			return fmt.Errorf("NESTEGG_ADDR %q is not host:port: %w", c.Addr, err)
		}
	}

	if c.ChartColor != "" && !hexColor.MatchString(c.ChartColor) {
		return fmt.Errorf("NESTEGG_CHART_COLOR %q is not #rrggbb", c.ChartColor)
	}

	if c.ChartHeight < minChartHeight || c.ChartHeight > maxChartHeight {
		return fmt.Errorf("NESTEGG_CHART_HEIGHT %d out of range [%d, %d]", c.ChartHeight, minChartHeight, maxChartHeight)
	}
	if c.MaxXTicks < minXTicks || c.MaxXTicks > maxXTicks {
		return fmt.Errorf("NESTEGG_MAX_X_TICKS %d out of range [%d, %d]", c.MaxXTicks, minXTicks, maxXTicks)
	}
	if c.ExportWidth < chart.MinContainerWidth || c.ExportWidth > maxExportWidth {
		return fmt.Errorf("NESTEGG_EXPORT_WIDTH %d out of range [%d, %d]", c.ExportWidth, chart.MinContainerWidth, maxExportWidth)
	}

	return nil
}

// ChartOptions maps the configured styling onto engine options.
// Formatters stay with the caller.
func (c Config) ChartOptions() chart.Options {
	return chart.Options{
		Color:     c.ChartColor,
		Height:    c.ChartHeight,
		MaxXTicks: c.MaxXTicks,
	}
}
