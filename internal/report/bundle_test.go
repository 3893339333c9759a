package report

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/lkettell/nestegg/internal/wealth"
)

type stubAnalytics struct {
	mu          sync.Mutex
	curve       wealth.Curve
	overview    wealth.Overview
	curveErr    error
	curveCalls  map[wealth.Preset]int
	overviewHit int
}

func (s *stubAnalytics) Curve(ctx context.Context, preset wealth.Preset, from, to string, filters wealth.Filters) (wealth.Curve, error) {
	s.mu.Lock()
	if s.curveCalls == nil {
		s.curveCalls = make(map[wealth.Preset]int)
	}
	s.curveCalls[preset]++
	s.mu.Unlock()

	if s.curveErr != nil {
		return wealth.Curve{}, s.curveErr
	}
	return s.curve, nil
}

func (s *stubAnalytics) Overview(ctx context.Context, asOf string, filters wealth.Filters) (wealth.Overview, error) {
	s.mu.Lock()
	s.overviewHit++
	s.mu.Unlock()
	return s.overview, nil
}

func seededStub() *stubAnalytics {
	return &stubAnalytics{
		curve: wealth.Curve{
			Range:   wealth.Range{Preset: wealth.Preset1Y, EffectiveFrom: "2024-01-10", EffectiveTo: "2024-03-10", Points: 2},
			Filters: wealth.DefaultFilters(),
			Points: []wealth.CurvePoint{
				{Date: "2024-01-10", CashCents: 10_000, GrossCents: 10_000, NetCents: 10_000},
				{Date: "2024-03-10", CashCents: 12_000, GrossCents: 12_000, NetCents: 12_000},
			},
		},
		overview: wealth.Overview{
			AsOf:    "2024-03-10",
			Filters: wealth.DefaultFilters(),
			Summary: wealth.OverviewSummary{CashCents: 12_000, GrossCents: 12_000, NetCents: 12_000},
		},
	}
}

func TestWriteBundleWritesEveryChart(t *testing.T) {
	stub := seededStub()
	dir := t.TempDir()

	bundle, err := WriteBundle(context.Background(), Deps{Analytics: stub, Log: zap.NewNop()}, dir, 0)
	if err != nil {
		t.Fatalf("WriteBundle returned error: %v", err)
	}

	wantFiles := []string{
		"composition_1y.svg",
		"composition_3y.svg",
		"composition_since_inception.svg",
		"composition_ytd.svg",
		"flow.svg",
		"wealth_1y.svg",
		"wealth_3y.svg",
		"wealth_since_inception.svg",
		"wealth_ytd.svg",
	}
	if !reflect.DeepEqual(bundle.Files, wantFiles) {
		t.Fatalf("bundle files = %v, want %v", bundle.Files, wantFiles)
	}

	for _, name := range bundle.Files {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if !strings.HasPrefix(string(data), "<svg") {
			t.Fatalf("%s does not start with an svg element: %.60q", name, string(data))
		}
	}

	for _, preset := range wealth.Presets() {
		if got := stub.curveCalls[preset]; got != 2 {
			t.Fatalf("curve calls for %s = %d, want 2 (line + composition)", preset, got)
		}
	}
	if stub.overviewHit != 1 {
		t.Fatalf("overview calls = %d, want 1", stub.overviewHit)
	}
}

func TestWriteBundleManifest(t *testing.T) {
	restore := now
	now = func() time.Time {
		return time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
	}
	t.Cleanup(func() { now = restore })

	dir := t.TempDir()
	bundle, err := WriteBundle(context.Background(), Deps{Analytics: seededStub(), Log: zap.NewNop()}, dir, DefaultWidth)
	if err != nil {
		t.Fatalf("WriteBundle returned error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, manifestName))
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}

	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("decode manifest: %v", err)
	}
	if m.GeneratedAt != "2024-03-10T12:00:00Z" {
		t.Fatalf("generated_at = %q, want %q", m.GeneratedAt, "2024-03-10T12:00:00Z")
	}
	if !reflect.DeepEqual(m.Files, bundle.Files) {
		t.Fatalf("manifest files = %v, want %v", m.Files, bundle.Files)
	}
}

func TestWriteBundleStopsOnFailure(t *testing.T) {
	stub := seededStub()
	stub.curveErr = errors.New("store unavailable")
	dir := t.TempDir()

	_, err := WriteBundle(context.Background(), Deps{Analytics: stub, Log: zap.NewNop()}, dir, DefaultWidth)
	if err == nil {
		t.Fatal("WriteBundle succeeded despite failing renders")
	}
	if !strings.Contains(err.Error(), "store unavailable") {
		t.Fatalf("error %q does not carry the render failure", err)
	}

	if _, statErr := os.Stat(filepath.Join(dir, manifestName)); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("manifest written despite failure, stat err = %v", statErr)
	}
}

func TestWriteArtifactsClampsWorkerCount(t *testing.T) {
	dir := t.TempDir()
	artifacts := []artifact{
		{name: "a.svg", render: func(context.Context) (string, error) { return "<svg a", nil }},
		{name: "b.svg", render: func(context.Context) (string, error) { return "<svg b", nil }},
	}

	if err := writeArtifacts(context.Background(), dir, artifacts, 16, zap.NewNop()); err != nil {
		t.Fatalf("writeArtifacts returned error: %v", err)
	}
	for _, name := range []string{"a.svg", "b.svg"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("artifact %s missing: %v", name, err)
		}
	}
}
