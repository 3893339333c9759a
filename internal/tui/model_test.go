package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/lkettell/nestegg/internal/wealth"
)

type fakeAnalytics struct {
	curve       wealth.Curve
	overview    wealth.Overview
	curveErr    error
	overviewErr error
	lastFilters wealth.Filters
	lastPreset  wealth.Preset
}

func (f *fakeAnalytics) Curve(_ context.Context, preset wealth.Preset, _, _ string, filters wealth.Filters) (wealth.Curve, error) {
	f.lastPreset = preset
	f.lastFilters = filters
	if f.curveErr != nil {
		return wealth.Curve{}, f.curveErr
	}
	c := f.curve
	c.Range.Preset = preset
	c.Filters = filters
	return c, nil
}

func (f *fakeAnalytics) Overview(_ context.Context, _ string, filters wealth.Filters) (wealth.Overview, error) {
	f.lastFilters = filters
	if f.overviewErr != nil {
		return wealth.Overview{}, f.overviewErr
	}
	o := f.overview
	o.Filters = filters
	return o, nil
}

func fixtureCurve() wealth.Curve {
	return wealth.Curve{
		Range: wealth.Range{
			Preset:        wealth.Preset1Y,
			EffectiveFrom: "2024-01-31",
			EffectiveTo:   "2024-06-30",
			Points:        6,
		},
		Filters: wealth.DefaultFilters(),
		Points: []wealth.CurvePoint{
			{Date: "2024-01-31", CashCents: 1000000, RealEstateCents: 5000000, InvestmentCents: 2000000, LiabilityCents: 3000000, GrossCents: 8000000, NetCents: 5000000},
			{Date: "2024-02-29", CashCents: 1100000, RealEstateCents: 5000000, InvestmentCents: 2100000, LiabilityCents: 2950000, GrossCents: 8200000, NetCents: 5250000},
			{Date: "2024-03-31", CashCents: 1200000, RealEstateCents: 5100000, InvestmentCents: 2200000, LiabilityCents: 2900000, GrossCents: 8500000, NetCents: 5600000},
			{Date: "2024-04-30", CashCents: 900000, RealEstateCents: 5100000, InvestmentCents: 2350000, LiabilityCents: 2850000, GrossCents: 8350000, NetCents: 5500000},
			{Date: "2024-05-31", CashCents: 1300000, RealEstateCents: 5200000, InvestmentCents: 2400000, LiabilityCents: 2800000, GrossCents: 8900000, NetCents: 6100000},
			{Date: "2024-06-30", CashCents: 1400000, RealEstateCents: 5200000, InvestmentCents: 2500000, LiabilityCents: 2750000, GrossCents: 9100000, NetCents: 6350000},
		},
	}
}

func fixtureOverview() wealth.Overview {
	return wealth.Overview{
		AsOf:    "2024-06-30",
		Filters: wealth.DefaultFilters(),
		Summary: wealth.OverviewSummary{
			CashCents:       1400000,
			RealEstateCents: 5200000,
			InvestmentCents: 2500000,
			LiabilityCents:  2750000,
			GrossCents:      9100000,
			NetCents:        6350000,
		},
	}
}

func newTestModel(t *testing.T) (model, *fakeAnalytics) {
	t.Helper()
	fake := &fakeAnalytics{curve: fixtureCurve(), overview: fixtureOverview()}
	m := New(Deps{
		Analytics:   fake,
		Log:         zap.NewNop(),
		ExportDir:   t.TempDir(),
		ExportWidth: 760,
	}).(model)
	t.Cleanup(func() { m.viewport.Close() })
	return m, fake
}

func apply(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(model), cmd
}

// loadedModel drives the model through resize, pref load and both data
// loads the way the runtime would.
func loadedModel(t *testing.T) (model, *fakeAnalytics) {
	t.Helper()
	m, fake := newTestModel(t)
	m, _ = apply(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m, _ = apply(t, m, prefsLoadedMsg{prefs: defaultPrefs()})
	m, _ = apply(t, m, m.loadCurveCmd()().(curveLoadedMsg))
	m, _ = apply(t, m, m.loadOverviewCmd()().(overviewLoadedMsg))
	return m, fake
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestLoadCommandsCarryGeneration(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t)
	m.generation = 7
	msg, ok := m.loadCurveCmd()().(curveLoadedMsg)
	if !ok || msg.generation != 7 {
		t.Fatalf("loadCurveCmd message = %+v, want generation 7", msg)
	}
	if msg.err != nil || len(msg.curve.Points) != 6 {
		t.Fatalf("curve = %d points err %v, want 6 points", len(msg.curve.Points), msg.err)
	}
}

func TestStaleGenerationIsDropped(t *testing.T) {
	t.Parallel()

	m, _ := loadedModel(t)
	stale := curveLoadedMsg{generation: m.generation - 1, curve: wealth.Curve{}, err: errors.New("boom")}
	m, _ = apply(t, m, stale)
	if m.curveErr != "" {
		t.Fatalf("stale error applied: %q", m.curveErr)
	}
	if len(m.curve.Points) != 6 {
		t.Fatalf("stale message replaced live curve")
	}
}

func TestCurveErrorSurfacesAndClears(t *testing.T) {
	t.Parallel()

	m, _ := loadedModel(t)
	m, _ = apply(t, m, curveLoadedMsg{generation: m.generation, err: errors.New("query failed")})
	if m.curveErr != "query failed" {
		t.Fatalf("curveErr = %q", m.curveErr)
	}
	m, _ = apply(t, m, curveLoadedMsg{generation: m.generation, curve: fixtureCurve()})
	if m.curveErr != "" {
		t.Fatalf("successful reload should clear the error")
	}
}

func TestTabCyclesScreensAndNumberKeysJump(t *testing.T) {
	t.Parallel()

	m, _ := loadedModel(t)
	m, _ = apply(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.screen != screenComposition {
		t.Fatalf("tab once = %v, want composition", m.screen)
	}
	m, _ = apply(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.screen != screenFlow {
		t.Fatalf("tab twice = %v, want flow", m.screen)
	}
	m, _ = apply(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.screen != screenCurve {
		t.Fatalf("tab wraps back to curve, got %v", m.screen)
	}

	m, _ = apply(t, m, keyRunes("3"))
	if m.screen != screenFlow {
		t.Fatalf("key 3 = %v, want flow", m.screen)
	}
	m, _ = apply(t, m, keyRunes("1"))
	if m.screen != screenCurve {
		t.Fatalf("key 1 = %v, want curve", m.screen)
	}
}

func TestPresetCycleReloadsUnderNewGeneration(t *testing.T) {
	t.Parallel()

	m, _ := loadedModel(t)
	before := m.generation
	m, cmd := apply(t, m, keyRunes("p"))
	if m.preset != wealth.Preset3Y {
		t.Fatalf("preset after p = %v, want 3y after 1y", m.preset)
	}
	if m.generation != before+1 || !m.loading {
		t.Fatalf("preset change must start a fresh load")
	}
	if cmd == nil {
		t.Fatalf("preset change returned no command")
	}
}

func TestMetricToggleOnlyOnCurveScreen(t *testing.T) {
	t.Parallel()

	m, _ := loadedModel(t)
	m, _ = apply(t, m, keyRunes("m"))
	if m.metric != wealth.MetricGross {
		t.Fatalf("metric = %v, want gross", m.metric)
	}
	m, _ = apply(t, m, keyRunes("m"))
	if m.metric != wealth.MetricNet {
		t.Fatalf("metric = %v, want net again", m.metric)
	}

	m.screen = screenFlow
	m, _ = apply(t, m, keyRunes("m"))
	if m.metric != wealth.MetricNet {
		t.Fatalf("metric toggled on the flow screen")
	}
}

func TestClassToggleReloadsAndPersistsSelection(t *testing.T) {
	t.Parallel()

	m, fake := loadedModel(t)
	m, cmd := apply(t, m, keyRunes("r"))
	if m.filters.RealEstate {
		t.Fatalf("r should disable the real estate class")
	}
	if cmd == nil {
		t.Fatalf("class toggle returned no command")
	}
	msg := m.loadCurveCmd()().(curveLoadedMsg)
	if msg.err != nil {
		t.Fatalf("reload err = %v", msg.err)
	}
	if fake.lastFilters.RealEstate {
		t.Fatalf("service queried with stale filters %+v", fake.lastFilters)
	}
}

func TestLastEnabledClassCannotBeToggledOff(t *testing.T) {
	t.Parallel()

	m, _ := loadedModel(t)
	m.filters = wealth.Filters{Cash: true}
	m, _ = apply(t, m, keyRunes("c"))
	if !m.filters.Cash {
		t.Fatalf("last enabled class was toggled off")
	}
	if m.commandText == "" {
		t.Fatalf("blocked toggle should explain itself in the status line")
	}
}

func TestHoverArrowsClampToSamples(t *testing.T) {
	t.Parallel()

	m, _ := loadedModel(t)
	if m.hover != -1 {
		t.Fatalf("initial hover = %d, want -1", m.hover)
	}
	m, _ = apply(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if m.hover != 0 {
		t.Fatalf("first right = %d, want 0", m.hover)
	}
	for i := 0; i < 10; i++ {
		m, _ = apply(t, m, tea.KeyMsg{Type: tea.KeyRight})
	}
	if m.hover != 5 {
		t.Fatalf("right clamps to last sample, got %d", m.hover)
	}
	m, _ = apply(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if m.hover != 4 {
		t.Fatalf("left = %d, want 4", m.hover)
	}
	m, _ = apply(t, m, tea.KeyMsg{Type: tea.KeyEscape})
	if m.hover != -1 {
		t.Fatalf("esc should clear hover, got %d", m.hover)
	}
}

func TestHoverResetsOnReloadAndScreenSwitch(t *testing.T) {
	t.Parallel()

	m, _ := loadedModel(t)
	m.hover = 3
	m, _ = apply(t, m, keyRunes("p"))
	if m.hover != -1 {
		t.Fatalf("reload kept hover %d", m.hover)
	}

	m, _ = apply(t, m, m.loadCurveCmd()().(curveLoadedMsg))
	m.hover = 2
	m, _ = apply(t, m, keyRunes("2"))
	if m.hover != -1 {
		t.Fatalf("screen switch kept hover %d", m.hover)
	}
}

func TestMouseMotionResolvesHoverThroughGeometry(t *testing.T) {
	t.Parallel()

	m, _ := loadedModel(t)
	g := m.lineGeometry()
	rect := m.plotHitRect(gutterWidth(g.YTicks))

	m, _ = apply(t, m, tea.MouseMsg{X: rect.x, Y: rect.y + rect.h/2, Action: tea.MouseActionMotion})
	if m.hover != 0 {
		t.Fatalf("left edge hover = %d, want sample 0", m.hover)
	}
	m, _ = apply(t, m, tea.MouseMsg{X: rect.x + rect.w - 1, Y: rect.y, Action: tea.MouseActionMotion})
	if m.hover != 5 {
		t.Fatalf("right edge hover = %d, want last sample", m.hover)
	}
	m, _ = apply(t, m, tea.MouseMsg{X: rect.x - 2, Y: rect.y, Action: tea.MouseActionMotion})
	if m.hover != -1 {
		t.Fatalf("outside the plot hover = %d, want cleared", m.hover)
	}
}

func TestTooltipContentStableAcrossResize(t *testing.T) {
	t.Parallel()

	m, _ := loadedModel(t)
	m.plotPx = 320
	narrow := m.lineGeometry()
	m.plotPx = 960
	wide := m.lineGeometry()

	np, ok1 := narrow.PointAt(3)
	wp, ok2 := wide.PointAt(3)
	if !ok1 || !ok2 {
		t.Fatalf("PointAt(3) not ok at both widths")
	}
	if np.Label != wp.Label || np.Value != wp.Value {
		t.Fatalf("resize changed tooltip content: %+v vs %+v", np, wp)
	}
	if narrow.Domain != wide.Domain {
		t.Fatalf("resize changed the domain")
	}
}

func TestExportRunsOnceAndReportsBundle(t *testing.T) {
	t.Parallel()

	m, _ := loadedModel(t)
	m, cmd := apply(t, m, keyRunes("e"))
	if !m.exporting || cmd == nil {
		t.Fatalf("e should start an export")
	}
	if _, again := apply(t, m, keyRunes("e")); again != nil {
		t.Fatalf("second e while exporting should be a no-op")
	}

	msg, ok := m.exportBundleCmd()().(exportDoneMsg)
	if !ok {
		t.Fatalf("export command returned no exportDoneMsg")
	}
	if msg.err != nil {
		t.Fatalf("export err = %v", msg.err)
	}
	if msg.files == 0 {
		t.Fatalf("export wrote no files")
	}
	m, _ = apply(t, m, msg)
	if m.exporting {
		t.Fatalf("export done should clear the exporting flag")
	}
	if !strings.Contains(m.commandText, "report bundle") {
		t.Fatalf("status = %q, want bundle confirmation", m.commandText)
	}
}

func TestSlashActivatesCommandBarAndSuggests(t *testing.T) {
	t.Parallel()

	m, _ := loadedModel(t)
	m, _ = apply(t, m, keyRunes("/"))
	if !m.commandActive {
		t.Fatalf("slash should focus the command bar")
	}
	if len(m.commandSuggestions) != len(commandCatalog()) {
		t.Fatalf("bare slash should suggest every command, got %d", len(m.commandSuggestions))
	}

	m.cmd.SetValue("/ex")
	m.refreshCommandSuggestions()
	if len(m.commandSuggestions) != 1 || m.commandSuggestions[0].name != "/export" {
		t.Fatalf("suggestions for /ex = %+v", m.commandSuggestions)
	}

	m, _ = apply(t, m, tea.KeyMsg{Type: tea.KeyEscape})
	if m.commandActive || m.cmd.Value() != "" {
		t.Fatalf("esc should deactivate and clear the command bar")
	}
}

func TestSingleKeyShortcutsIgnoredWhileTyping(t *testing.T) {
	t.Parallel()

	m, _ := loadedModel(t)
	m, _ = apply(t, m, keyRunes("/"))
	before := m.preset
	m, _ = apply(t, m, keyRunes("p"))
	if m.preset != before {
		t.Fatalf("p while typing cycled the preset")
	}
	if got := m.cmd.Value(); got != "/p" {
		t.Fatalf("command input = %q, want /p", got)
	}
}

func TestRunSlashCommandSwitchesScreens(t *testing.T) {
	t.Parallel()

	m, _ := loadedModel(t)
	next, _ := m.runSlashCommand("/flow")
	if got := next.(model).screen; got != screenFlow {
		t.Fatalf("/flow switched to %v", got)
	}
	next, _ = m.runSlashCommand("/bogus")
	if got := next.(model).commandText; !strings.Contains(got, "Unknown command") {
		t.Fatalf("status = %q, want unknown command notice", got)
	}
}

func TestQuitClosesProgram(t *testing.T) {
	t.Parallel()

	m, _ := loadedModel(t)
	next, cmd := apply(t, m, keyRunes("q"))
	if !next.quitting || cmd == nil {
		t.Fatalf("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("quit command did not produce tea.QuitMsg")
	}
}

func TestViewRendersEachScreen(t *testing.T) {
	t.Parallel()

	m, _ := loadedModel(t)
	for _, screen := range []screenMode{screenCurve, screenComposition, screenFlow} {
		m.screen = screen
		out := m.View()
		if out == "" {
			t.Fatalf("empty view for %v", screen)
		}
		if !strings.Contains(out, "▀") {
			t.Fatalf("view for %v lost the title banner", screen)
		}
	}
}

func TestViewShowsPlaceholderBeforeData(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t)
	m, _ = apply(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	out := m.View()
	if !strings.Contains(out, "loading snapshots") {
		t.Fatalf("pre-data view should show the loading placeholder")
	}
}

func TestHelpOverlayOpensAndCloses(t *testing.T) {
	t.Parallel()

	m, _ := loadedModel(t)
	m, _ = apply(t, m, keyRunes("?"))
	if !m.showHelpOverlay {
		t.Fatalf("? should open the help overlay")
	}
	if !strings.Contains(m.View(), "Esc to close") {
		t.Fatalf("overlay view missing the close hint")
	}
	m, _ = apply(t, m, tea.KeyMsg{Type: tea.KeyEscape})
	if m.showHelpOverlay {
		t.Fatalf("esc should close the overlay")
	}
}

func TestWindowResizeFeedsViewport(t *testing.T) {
	t.Parallel()

	m, _ := loadedModel(t)
	m, _ = apply(t, m, tea.WindowSizeMsg{Width: 200, Height: 50})
	want := m.contentCols() * pxPerCell
	m.viewport.SetWidth(want)

	m, _ = apply(t, m, viewportWidthMsg{width: want})
	if m.plotPx != want {
		t.Fatalf("plotPx = %d, want %d", m.plotPx, want)
	}
}
