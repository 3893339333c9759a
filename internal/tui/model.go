package tui

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/lkettell/nestegg/internal/chart"
	"github.com/lkettell/nestegg/internal/report"
	"github.com/lkettell/nestegg/internal/wealth"
)

type screenMode int

const (
	screenCurve screenMode = iota
	screenComposition
	screenFlow
)

const screenCount = 3

func (s screenMode) name() string {
	switch s {
	case screenComposition:
		return "composition"
	case screenFlow:
		return "flow"
	default:
		return "curve"
	}
}

func screenFromName(raw string) (screenMode, bool) {
	switch strings.TrimSpace(raw) {
	case "curve":
		return screenCurve, true
	case "composition":
		return screenComposition, true
	case "flow":
		return screenFlow, true
	}
	return screenCurve, false
}

type prefsLoadedMsg struct {
	prefs prefs
	err   error
}

type savePrefsMsg struct {
	err error
}

type curveLoadedMsg struct {
	generation int
	curve      wealth.Curve
	err        error
}

type overviewLoadedMsg struct {
	generation int
	overview   wealth.Overview
	err        error
}

type exportDoneMsg struct {
	dir   string
	files int
	err   error
}

type viewportWidthMsg struct {
	width int
}

type clearCommandTextMsg struct {
	id int
}

type commandSpec struct {
	name        string
	description string
}

// Analytics is the slice of the wealth service the dashboard reads.
type Analytics interface {
	Curve(ctx context.Context, preset wealth.Preset, from, to string, filters wealth.Filters) (wealth.Curve, error)
	Overview(ctx context.Context, asOf string, filters wealth.Filters) (wealth.Overview, error)
}

// Deps wires the dashboard to the rest of the app. DB carries the
// preference store; Log must be a file-sink logger because stderr
// writes would corrupt the alternate screen.
type Deps struct {
	DB          *sql.DB
	Analytics   Analytics
	Log         *zap.Logger
	Options     chart.Options
	ExportDir   string
	ExportWidth int
}

type model struct {
	db          *sql.DB
	analytics   Analytics
	log         *zap.Logger
	opts        chart.Options
	exportDir   string
	exportWidth int

	width  int
	height int

	viewport *chart.Viewport
	widthCh  chan int
	plotPx   int

	screen  screenMode
	preset  wealth.Preset
	metric  wealth.Metric
	filters wealth.Filters

	generation  int
	loading     bool
	curve       wealth.Curve
	hasCurve    bool
	curveErr    string
	overview    wealth.Overview
	hasOverview bool
	overviewErr string

	// hover is the active sample index, -1 when no sample is hovered.
	// It survives resizes and resets on data reloads.
	hover int

	exporting bool

	cmd                     textinput.Model
	commandActive           bool
	commandText             string
	commandTextID           int
	commandSuggestions      []commandSpec
	commandSuggestionIndex  int
	commandSuggestionOffset int

	showHelpOverlay bool
	quitting        bool
}

func New(deps Deps) tea.Model {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}

	cmd := textinput.New()
	cmd.Prompt = "> "
	cmd.Placeholder = "/help"
	cmd.Width = 48

	vp := chart.NewViewport(0)
	widthCh := make(chan int, 1)
	vp.Subscribe(func(w int) {
		// Keep only the latest settled width; never block the
		// viewport callback.
		for {
			select {
			case widthCh <- w:
				return
			default:
				select {
				case <-widthCh:
				default:
				}
			}
		}
	})

	return model{
		db:          deps.DB,
		analytics:   deps.Analytics,
		log:         deps.Log,
		opts:        deps.Options,
		exportDir:   deps.ExportDir,
		exportWidth: deps.ExportWidth,
		viewport:    vp,
		widthCh:     widthCh,
		plotPx:      vp.Width(),
		screen:      screenCurve,
		preset:      wealth.DefaultPreset,
		metric:      wealth.MetricNet,
		filters:     wealth.DefaultFilters(),
		hover:       -1,
		loading:     true,
		cmd:         cmd,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		m.loadPrefsCmd(),
		m.waitForViewportWidth(),
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.cmd.Width = max(24, msg.Width-16)
		m.viewport.SetWidth(m.contentCols() * pxPerCell)
		return m, nil

	case viewportWidthMsg:
		m.plotPx = msg.width
		return m, m.waitForViewportWidth()

	case prefsLoadedMsg:
		if msg.err != nil {
			m.log.Warn("load ui prefs failed", zap.Error(msg.err))
		}
		m.screen = msg.prefs.screen
		m.preset = msg.prefs.preset
		m.metric = msg.prefs.metric
		m.filters = msg.prefs.filters
		return m.startReload()

	case savePrefsMsg:
		if msg.err != nil {
			m.log.Warn("save ui prefs failed", zap.Error(msg.err))
			return m.withCommandFeedback("saving preferences failed: " + msg.err.Error())
		}
		return m, nil

	case curveLoadedMsg:
		if msg.generation != m.generation {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.log.Error("load curve failed", zap.Error(msg.err))
			m.curveErr = msg.err.Error()
			return m, nil
		}
		m.curveErr = ""
		m.curve = msg.curve
		m.hasCurve = true
		m.hover = -1
		return m, nil

	case overviewLoadedMsg:
		if msg.generation != m.generation {
			return m, nil
		}
		if msg.err != nil {
			m.log.Error("load overview failed", zap.Error(msg.err))
			m.overviewErr = msg.err.Error()
			return m, nil
		}
		m.overviewErr = ""
		m.overview = msg.overview
		m.hasOverview = true
		return m, nil

	case exportDoneMsg:
		m.exporting = false
		if msg.err != nil {
			m.log.Error("export bundle failed", zap.Error(msg.err))
			return m.withCommandFeedback("export failed: " + msg.err.Error())
		}
		return m.withCommandFeedback(fmt.Sprintf("report bundle written to %s (%d files)", msg.dir, msg.files))

	case clearCommandTextMsg:
		if msg.id == m.commandTextID {
			m.commandText = ""
		}
		return m, nil

	case tea.MouseMsg:
		if m.showHelpOverlay || m.commandActive {
			return m, nil
		}
		if msg.Action != tea.MouseActionMotion && msg.Action != tea.MouseActionPress {
			return m, nil
		}
		if idx, ok := m.hoverIndexAt(msg.X, msg.Y); ok {
			m.hover = idx
		} else {
			m.hover = -1
		}
		return m, nil

	case tea.KeyMsg:
		if m.showHelpOverlay {
			switch msg.String() {
			case "esc", "?":
				m.showHelpOverlay = false
				return m, nil
			case "ctrl+c", "q":
				return m.quit()
			}
			return m, nil
		}

		if m.commandActive {
			switch msg.String() {
			case "ctrl+c":
				return m.quit()
			case "esc":
				m.commandActive = false
				m.cmd.Blur()
				m.cmd.SetValue("")
				m.clearCommandSuggestions()
				return m, nil
			case "up":
				if m.shouldShowCommandSuggestions() && m.commandSuggestionIndex > 0 {
					m.commandSuggestionIndex--
				}
				m.adjustSuggestionWindow(suggestionRows)
				return m, nil
			case "down":
				if m.shouldShowCommandSuggestions() && m.commandSuggestionIndex < len(m.commandSuggestions)-1 {
					m.commandSuggestionIndex++
				}
				m.adjustSuggestionWindow(suggestionRows)
				return m, nil
			case "enter":
				input := strings.TrimSpace(m.cmd.Value())
				if m.shouldShowCommandSuggestions() {
					input = m.commandSuggestions[m.commandSuggestionIndex].name
				}
				m.commandActive = false
				m.cmd.Blur()
				m.cmd.SetValue("")
				m.clearCommandSuggestions()
				return m.runSlashCommand(input)
			}
			var cmd tea.Cmd
			m.cmd, cmd = m.cmd.Update(msg)
			m.refreshCommandSuggestions()
			return m, cmd
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m.quit()
		case "/":
			m.commandActive = true
			m.cmd.SetValue("/")
			m.cmd.Focus()
			m.cmd.CursorEnd()
			m.refreshCommandSuggestions()
			return m, nil
		case "?":
			m.showHelpOverlay = true
			return m, nil
		case "tab":
			return m.setScreen((m.screen + 1) % screenCount)
		case "shift+tab":
			return m.setScreen((m.screen + screenCount - 1) % screenCount)
		case "1":
			return m.setScreen(screenCurve)
		case "2":
			return m.setScreen(screenComposition)
		case "3":
			return m.setScreen(screenFlow)
		case "p":
			m.preset = nextPreset(m.preset)
			next, reload := m.startReload()
			return next, tea.Batch(reload, next.savePrefsCmd())
		case "m":
			if m.screen != screenCurve {
				return m, nil
			}
			if m.metric == wealth.MetricNet {
				m.metric = wealth.MetricGross
			} else {
				m.metric = wealth.MetricNet
			}
			return m, m.savePrefsCmd()
		case "c":
			return m.toggleClass(func(f *wealth.Filters) { f.Cash = !f.Cash })
		case "r":
			return m.toggleClass(func(f *wealth.Filters) { f.RealEstate = !f.RealEstate })
		case "i":
			return m.toggleClass(func(f *wealth.Filters) { f.Investment = !f.Investment })
		case "l":
			return m.toggleClass(func(f *wealth.Filters) { f.Liability = !f.Liability })
		case "e":
			return m.startExport()
		case "left":
			if n := m.sampleCount(); n > 0 {
				if m.hover < 0 {
					m.hover = n - 1
				} else if m.hover > 0 {
					m.hover--
				}
			}
			return m, nil
		case "right":
			if n := m.sampleCount(); n > 0 {
				if m.hover < 0 {
					m.hover = 0
				} else if m.hover < n-1 {
					m.hover++
				}
			}
			return m, nil
		case "esc":
			m.hover = -1
			return m, nil
		}
		return m, nil
	}

	return m, nil
}

func (m model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.viewport.Close()
	return m, tea.Quit
}

func (m model) setScreen(s screenMode) (tea.Model, tea.Cmd) {
	if s == m.screen {
		return m, nil
	}
	m.screen = s
	m.hover = -1
	return m, m.savePrefsCmd()
}

func (m model) toggleClass(flip func(*wealth.Filters)) (tea.Model, tea.Cmd) {
	next := m.filters
	flip(&next)
	if err := next.Validate(); err != nil {
		return m.withCommandFeedback("at least one asset class stays selected")
	}
	m.filters = next
	updated, reload := m.startReload()
	return updated, tea.Batch(reload, updated.savePrefsCmd())
}

// startReload invalidates in-flight loads and fetches both the curve
// and the overview under a fresh generation.
func (m model) startReload() (model, tea.Cmd) {
	m.generation++
	m.loading = true
	m.curveErr = ""
	m.overviewErr = ""
	m.hover = -1
	return m, tea.Batch(m.loadCurveCmd(), m.loadOverviewCmd())
}

func (m model) startExport() (tea.Model, tea.Cmd) {
	if m.exporting {
		return m, nil
	}
	m.exporting = true
	next, feedback := m.withCommandFeedback("writing report bundle to " + m.exportDir + " ...")
	return next, tea.Batch(feedback, m.exportBundleCmd())
}

func (m model) loadCurveCmd() tea.Cmd {
	generation := m.generation
	return func() tea.Msg {
		curve, err := m.analytics.Curve(context.Background(), m.preset, "", "", m.filters)
		return curveLoadedMsg{generation: generation, curve: curve, err: err}
	}
}

func (m model) loadOverviewCmd() tea.Cmd {
	generation := m.generation
	return func() tea.Msg {
		overview, err := m.analytics.Overview(context.Background(), "", m.filters)
		return overviewLoadedMsg{generation: generation, overview: overview, err: err}
	}
}

func (m model) exportBundleCmd() tea.Cmd {
	deps := report.Deps{Analytics: m.analytics, Log: m.log, Options: m.opts}
	dir := m.exportDir
	width := m.exportWidth
	return func() tea.Msg {
		bundle, err := report.WriteBundle(context.Background(), deps, dir, width)
		if err != nil {
			return exportDoneMsg{err: err}
		}
		return exportDoneMsg{dir: bundle.Dir, files: len(bundle.Files)}
	}
}

func (m model) waitForViewportWidth() tea.Cmd {
	return func() tea.Msg {
		return viewportWidthMsg{width: <-m.widthCh}
	}
}

func nextPreset(p wealth.Preset) wealth.Preset {
	presets := wealth.Presets()
	for i, candidate := range presets {
		if candidate == p {
			return presets[(i+1)%len(presets)]
		}
	}
	return presets[0]
}

func (m model) sampleCount() int {
	switch m.screen {
	case screenCurve, screenComposition:
		if m.hasCurve {
			return len(m.curve.Points)
		}
	}
	return 0
}

// chartOptions fills the formatters the terminal renders with; the
// styling fields come from configuration untouched.
func (m model) chartOptions() chart.Options {
	opts := m.opts
	if opts.ValueFormatter == nil {
		opts.ValueFormatter = moneyLabel
	}
	if opts.XLabelFormatter == nil {
		opts.XLabelFormatter = shortDateLabel
	}
	return opts
}

func (m model) lineGeometry() chart.LineGeometry {
	return chart.Line(wealth.CurveSeries(m.curve, m.metric), m.plotPx, m.chartOptions())
}

func (m model) stackGeometry() (chart.StackGeometry, error) {
	return chart.StackBands(wealth.CurveStack(m.curve), m.filters.Visibility(), m.plotPx, m.chartOptions())
}

func (m model) flowGeometry() chart.FlowGeometry {
	categories, debt := wealth.FlowBreakdown(m.overview)
	return chart.Flow(categories, debt, m.plotPx, m.chartOptions())
}

// hoverIndexAt resolves a terminal cell position to a sample index
// through the active geometry's nearest-index rule.
func (m model) hoverIndexAt(x, y int) (int, bool) {
	if !m.hasCurve {
		return 0, false
	}
	switch m.screen {
	case screenCurve:
		g := m.lineGeometry()
		if g.Empty {
			return 0, false
		}
		return m.resolvePlotHover(x, y, gutterWidth(g.YTicks), g.MarginLeft, g.InnerWidth, g.HoverIndex)
	case screenComposition:
		g, err := m.stackGeometry()
		if err != nil || g.Empty {
			return 0, false
		}
		return m.resolvePlotHover(x, y, gutterWidth(g.YTicks), g.MarginLeft, g.InnerWidth, g.HoverIndex)
	}
	return 0, false
}

func (m model) resolvePlotHover(
	x, y, gutter int,
	marginLeft, innerWidth float64,
	resolve func(float64) (int, bool),
) (int, bool) {
	rect := m.plotHitRect(gutter)
	if !rect.contains(x, y) {
		return 0, false
	}
	px := plotPx(x-rect.x, marginLeft, innerWidth, rect.w)
	return resolve(px)
}

func (m model) runSlashCommand(input string) (tea.Model, tea.Cmd) {
	switch input {
	case "":
		return m, nil
	case "/help":
		m.showHelpOverlay = true
		m.commandText = ""
		return m, nil
	case "/curve":
		return m.setScreen(screenCurve)
	case "/composition":
		return m.setScreen(screenComposition)
	case "/flow":
		return m.setScreen(screenFlow)
	case "/export":
		return m.startExport()
	case "/quit":
		return m.quit()
	default:
		return m.withCommandFeedback(fmt.Sprintf("Unknown command: %s", input))
	}
}

func (m model) withCommandFeedback(text string) (model, tea.Cmd) {
	m.commandText = text
	m.commandTextID++
	id := m.commandTextID
	return m, tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return clearCommandTextMsg{id: id}
	})
}

func commandCatalog() []commandSpec {
	return []commandSpec{
		{name: "/help", description: "show key and command help"},
		{name: "/curve", description: "net worth curve"},
		{name: "/composition", description: "stacked composition bands"},
		{name: "/flow", description: "asset flow breakdown"},
		{name: "/export", description: "write the SVG report bundle"},
		{name: "/quit", description: "leave the dashboard"},
	}
}

const suggestionRows = 2

func (m *model) refreshCommandSuggestions() {
	input := strings.TrimSpace(m.cmd.Value())
	if !strings.HasPrefix(input, "/") {
		m.clearCommandSuggestions()
		return
	}

	prefix := strings.ToLower(input)
	all := commandCatalog()
	matches := make([]commandSpec, 0, len(all))
	for _, cmd := range all {
		if strings.HasPrefix(cmd.name, prefix) {
			matches = append(matches, cmd)
		}
	}
	if len(matches) == 0 {
		m.clearCommandSuggestions()
		return
	}

	m.commandSuggestions = matches
	if m.commandSuggestionIndex >= len(m.commandSuggestions) {
		m.commandSuggestionIndex = len(m.commandSuggestions) - 1
	}
	if m.commandSuggestionIndex < 0 {
		m.commandSuggestionIndex = 0
	}
	m.adjustSuggestionWindow(suggestionRows)
}

func (m *model) clearCommandSuggestions() {
	m.commandSuggestions = nil
	m.commandSuggestionIndex = 0
	m.commandSuggestionOffset = 0
}

func (m model) shouldShowCommandSuggestions() bool {
	return m.commandActive && len(m.commandSuggestions) > 0
}

func (m *model) adjustSuggestionWindow(visibleRows int) {
	if visibleRows < 1 {
		visibleRows = 1
	}
	if m.commandSuggestionIndex < m.commandSuggestionOffset {
		m.commandSuggestionOffset = m.commandSuggestionIndex
	}
	if m.commandSuggestionIndex >= m.commandSuggestionOffset+visibleRows {
		m.commandSuggestionOffset = m.commandSuggestionIndex - visibleRows + 1
	}
	maxOffset := max(0, len(m.commandSuggestions)-visibleRows)
	if m.commandSuggestionOffset > maxOffset {
		m.commandSuggestionOffset = maxOffset
	}
}

func moneyLabel(v float64) string {
	if v < 0 {
		return "-$" + humanize.CommafWithDigits(-v, 0)
	}
	return "$" + humanize.CommafWithDigits(v, 0)
}

func shortDateLabel(raw string) string {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(raw))
	if err != nil {
		return raw
	}
	return t.Format("02 Jan")
}

func presetLabel(p wealth.Preset) string {
	return strings.ReplaceAll(string(p), "_", " ")
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

type hitRect struct {
	x int
	y int
	w int
	h int
}

func (r hitRect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// Terminal cells are taller than wide; 8 horizontal px per cell keeps
// the engine's tick density sensible for the rendered width.
const (
	pxPerCell   = 8
	frameInsetX = 3
	frameInsetY = 2
	minPlotRows = 6
	maxPlotRows = 24
)

func (m model) layoutWidth() int {
	return max(40, m.width-2*frameInsetX)
}

func (m model) contentCols() int {
	return max(24, m.layoutWidth()-4)
}

func (m model) plotRows() int {
	rows := m.height - 18
	if rows < minPlotRows {
		return minPlotRows
	}
	if rows > maxPlotRows {
		return maxPlotRows
	}
	return rows
}

func plotColsFor(contentCols, gutter int) int {
	return max(16, contentCols-gutter)
}

// plotHitRect mirrors the View layout so mouse positions can be mapped
// back onto plot cells. Any change to the chrome above or left of the
// canvas has to be reflected here.
func (m model) plotHitRect(gutter int) hitRect {
	cardOuter := m.contentCols() + 4
	cardX := frameInsetX + max(0, (m.layoutWidth()-cardOuter)/2)
	return hitRect{
		x: cardX + 2 + gutter,
		y: frameInsetY + 6,
		w: plotColsFor(m.contentCols(), gutter),
		h: m.plotRows(),
	}
}

func (m model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "starting dashboard..."
	}

	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#F47A60")).
		Padding(1, 2).
		Width(max(1, m.width-2)).
		Height(max(1, m.height-2))

	if m.showHelpOverlay {
		return frame.Render(lipgloss.Place(
			m.layoutWidth(),
			max(1, m.height-2*frameInsetY),
			lipgloss.Center,
			lipgloss.Center,
			m.renderHelpOverlay(),
		))
	}
	return frame.Render(m.renderBody())
}

func (m model) renderBody() string {
	width := m.layoutWidth()

	var screenLines []string
	switch m.screen {
	case screenComposition:
		screenLines = m.renderCompositionScreen(m.contentCols(), m.plotRows())
	case screenFlow:
		screenLines = m.renderFlowScreen(m.contentCols(), m.plotRows())
	default:
		screenLines = m.renderCurveScreen(m.contentCols(), m.plotRows())
	}
	card := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#6CBFE6")).
		Padding(0, 1).
		Width(m.contentCols() + 2).
		Render(strings.Join(screenLines, "\n"))

	sections := []string{
		lipgloss.PlaceHorizontal(width, lipgloss.Center, renderAppTitle()),
		lipgloss.PlaceHorizontal(width, lipgloss.Center, m.renderMetaLine()),
		"",
		lipgloss.PlaceHorizontal(width, lipgloss.Center, card),
		"",
		lipgloss.PlaceHorizontal(width, lipgloss.Center, m.renderStatusLine()),
		lipgloss.PlaceHorizontal(width, lipgloss.Center, m.renderCommandBox()),
	}
	return strings.Join(sections, "\n")
}

func renderAppTitle() string {
	glyphs := map[rune][3]string{
		'N': {"█▄ █", "█ ▀█", "▀  ▀"},
		'E': {"█▀▀", "█▀▀", "▀▀▀"},
		'S': {"█▀", "▄█", "▀▀"},
		'T': {"▀█▀", " █ ", " ▀ "},
		'G': {"█▀▀", "█▄█", "▀▀▀"},
	}
	var rows [3]string
	for i, r := range "NESTEGG" {
		glyph, ok := glyphs[r]
		if !ok {
			continue
		}
		for row := 0; row < 3; row++ {
			if i > 0 {
				rows[row] += " "
			}
			rows[row] += glyph[row]
		}
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#87CEEB")).
		Bold(true).
		Render(strings.Join(rows[:], "\n"))
}

func (m model) screenTitle() string {
	switch m.screen {
	case screenComposition:
		return "composition"
	case screenFlow:
		return "flow breakdown"
	default:
		if m.metric == wealth.MetricGross {
			return "gross assets"
		}
		return "net worth"
	}
}

func (m model) renderMetaLine() string {
	label := lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	value := lipgloss.NewStyle().Foreground(lipgloss.Color("#D1D5DB")).Bold(true)
	title := lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")).Bold(true)

	parts := []string{title.Render(m.screenTitle())}
	switch m.screen {
	case screenFlow:
		if m.hasOverview {
			parts = append(parts, label.Render("as of ")+value.Render(m.overview.AsOf))
		}
	default:
		parts = append(parts, value.Render(presetLabel(m.preset)))
		if m.hasCurve && len(m.curve.Points) > 0 {
			parts = append(parts, value.Render(m.curve.Range.EffectiveFrom+" → "+m.curve.Range.EffectiveTo))
			parts = append(parts, label.Render(fmt.Sprintf("%d snapshots", m.curve.Range.Points)))
		}
	}
	parts = append(parts, m.classLegend())
	if m.loading {
		parts = append(parts, label.Render("loading..."))
	}
	if m.exporting {
		parts = append(parts, label.Render("exporting..."))
	}
	return strings.Join(parts, label.Render(" · "))
}

func (m model) classLegend() string {
	entries := []struct {
		key   string
		color string
		on    bool
	}{
		{"c", chart.ColorCash, m.filters.Cash},
		{"r", chart.ColorRealEstate, m.filters.RealEstate},
		{"i", chart.ColorInvestment, m.filters.Investment},
		{"l", chart.ColorLiability, m.filters.Liability},
	}
	rendered := make([]string, 0, len(entries))
	for _, e := range entries {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color("#4B5563"))
		if e.on {
			style = lipgloss.NewStyle().Foreground(lipgloss.Color(e.color)).Bold(true)
		}
		rendered = append(rendered, style.Render(e.key))
	}
	return strings.Join(rendered, " ")
}

func (m model) footerHints() string {
	hints := "tab screen  p preset  c/r/i/l classes  e export  / command  ? help  q quit"
	switch m.screen {
	case screenCurve:
		hints = "tab screen  p preset  m metric  ←/→ hover  c/r/i/l classes  e export  ? help"
	case screenComposition:
		hints = "tab screen  p preset  ←/→ hover  c/r/i/l classes  e export  ? help"
	}
	return hints
}

func (m model) renderStatusLine() string {
	if m.commandText != "" {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD54A")).Render(m.commandText)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).Render(m.footerHints())
}

func (m model) renderCommandBox() string {
	inner := max(24, min(64, m.contentCols()))

	var rows []string
	if m.shouldShowCommandSuggestions() {
		rows = append(rows, m.renderCommandSuggestionRows()...)
	}
	rows = append(rows, m.cmd.View())

	borderColor := lipgloss.Color("#4B5563")
	if m.commandActive {
		borderColor = lipgloss.Color("#FFD54A")
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(inner + 2).
		Render(strings.Join(rows, "\n"))
}

func (m model) renderCommandSuggestionRows() []string {
	start := m.commandSuggestionOffset
	end := min(start+suggestionRows, len(m.commandSuggestions))
	rows := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		s := m.commandSuggestions[i]
		line := fmt.Sprintf("%-14s %s", s.name, s.description)
		if i == m.commandSuggestionIndex {
			rows = append(rows, lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFD54A")).
				Bold(true).
				Render("▸ "+line))
			continue
		}
		rows = append(rows, lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9CA3AF")).
			Render("  "+line))
	}
	return rows
}

func (m model) renderHelpOverlay() string {
	heading := lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")).Bold(true)
	key := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD54A"))
	desc := lipgloss.NewStyle().Foreground(lipgloss.Color("#D1D5DB"))
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	keyRow := func(k, d string) string {
		return key.Render(fmt.Sprintf("%-10s", k)) + desc.Render(d)
	}

	lines := []string{
		heading.Render("nestegg dashboard"),
		"",
		keyRow("tab / 1-3", "switch between curve, composition and flow"),
		keyRow("p", "cycle the date range preset"),
		keyRow("m", "net or gross line on the curve screen"),
		keyRow("c r i l", "toggle asset classes"),
		keyRow("←/→", "step the hovered snapshot"),
		keyRow("mouse", "hover a snapshot for details"),
		keyRow("e", "write the SVG report bundle"),
		keyRow("/", "open the command bar"),
		keyRow("q", "quit"),
		"",
	}
	for _, cmd := range commandCatalog() {
		lines = append(lines, keyRow(cmd.name, cmd.description))
	}
	lines = append(lines, "", dim.Render("Esc to close"))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#6CBFE6")).
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))
}
