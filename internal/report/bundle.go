// Package report renders chart bundles to disk: every preset for the
// line and composition charts, the current flow breakdown, and a
// manifest describing the run.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/lkettell/nestegg/internal/chart"
	"github.com/lkettell/nestegg/internal/svg"
	"github.com/lkettell/nestegg/internal/wealth"
)

const (
	DefaultWidth   = 960
	DefaultWorkers = 4

	manifestName = "manifest.json"
)

var now = time.Now

// Analytics is the slice of the wealth service the bundle consumes.
type Analytics interface {
	Curve(ctx context.Context, preset wealth.Preset, from, to string, filters wealth.Filters) (wealth.Curve, error)
	Overview(ctx context.Context, asOf string, filters wealth.Filters) (wealth.Overview, error)
}

// Deps carries what a bundle run needs. Options styles the renders;
// the zero value keeps engine defaults with money axis labels.
type Deps struct {
	Analytics Analytics
	Log       *zap.Logger
	Options   chart.Options
}

// Bundle describes one completed run.
type Bundle struct {
	Dir   string
	Files []string
}

type manifest struct {
	GeneratedAt string   `json:"generated_at"`
	Files       []string `json:"files"`
}

// WriteBundle renders every chart into dir and finishes with a
// manifest. Charts render through a bounded worker pool; the first
// failure cancels the rest and no manifest is written.
func WriteBundle(ctx context.Context, deps Deps, dir string, width int) (Bundle, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Bundle{}, fmt.Errorf("create bundle directory: %w", err)
	}

	artifacts := bundleArtifacts(deps, width)
	if err := writeArtifacts(ctx, dir, artifacts, DefaultWorkers, deps.Log); err != nil {
		return Bundle{}, err
	}

	files := make([]string, len(artifacts))
	for i, art := range artifacts {
		files[i] = art.name
	}
	sort.Strings(files)

	if err := writeManifest(dir, files); err != nil {
		return Bundle{}, err
	}

	deps.Log.Info("report bundle complete",
		zap.String("dir", dir),
		zap.Int("charts", len(files)),
	)
	return Bundle{Dir: dir, Files: files}, nil
}

func bundleArtifacts(deps Deps, width int) []artifact {
	var artifacts []artifact
	for _, preset := range wealth.Presets() {
		artifacts = append(artifacts,
			lineArtifact(deps, preset, width),
			stackArtifact(deps, preset, width),
		)
	}
	return append(artifacts, flowArtifact(deps, width))
}

func lineArtifact(deps Deps, preset wealth.Preset, width int) artifact {
	return artifact{
		name: fmt.Sprintf("wealth_%s.svg", preset),
		render: func(ctx context.Context) (string, error) {
			curve, err := deps.Analytics.Curve(ctx, preset, "", "", wealth.DefaultFilters())
			if err != nil {
				return "", err
			}
			geom := chart.Line(wealth.CurveSeries(curve, wealth.MetricNet), width, deps.chartOptions())
			return svg.RenderLine(geom), nil
		},
	}
}

func stackArtifact(deps Deps, preset wealth.Preset, width int) artifact {
	return artifact{
		name: fmt.Sprintf("composition_%s.svg", preset),
		render: func(ctx context.Context) (string, error) {
			curve, err := deps.Analytics.Curve(ctx, preset, "", "", wealth.DefaultFilters())
			if err != nil {
				return "", err
			}
			geom, err := chart.StackBands(wealth.CurveStack(curve), chart.AllVisible(), width, deps.chartOptions())
			if err != nil {
				return "", err
			}
			return svg.RenderStack(geom), nil
		},
	}
}

func flowArtifact(deps Deps, width int) artifact {
	return artifact{
		name: "flow.svg",
		render: func(ctx context.Context) (string, error) {
			overview, err := deps.Analytics.Overview(ctx, "", wealth.DefaultFilters())
			if err != nil {
				return "", err
			}
			categories, debt := wealth.FlowBreakdown(overview)
			geom := chart.Flow(categories, debt, width, deps.chartOptions())
			return svg.RenderFlow(geom), nil
		},
	}
}

func writeManifest(dir string, files []string) error {
	m := manifest{
		GeneratedAt: now().UTC().Format(time.RFC3339),
		Files:       files,
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	path := filepath.Join(dir, manifestName)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

func (d Deps) chartOptions() chart.Options {
	opts := d.Options
	if opts.ValueFormatter == nil {
		opts.ValueFormatter = moneyLabel
	}
	return opts
}

func moneyLabel(v float64) string {
	if v < 0 {
		return "-$" + humanize.CommafWithDigits(-v, 0)
	}
	return "$" + humanize.CommafWithDigits(v, 0)
}
