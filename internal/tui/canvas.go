package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/lkettell/nestegg/internal/chart"
)

// Paint codes in ascending precedence. A cell keeps the highest code
// painted into it, so grid lines stay under band fills, strokes win
// over fills, and the tooltip box wins over everything.
const (
	cellEmpty = iota
	cellGrid
	cellAxis
	cellBandFill
	cellLink
	cellBandEdge
	cellBaseline
	cellNode
	cellSeries
	cellText
	cellCrosshair
	cellMarker
	cellTooltip
)

const canvasBackground = "#10141c"

type styleKey struct {
	color string
	bold  bool
}

// cellCanvas is a rune grid with a paint code and foreground color per
// cell. Precedence is the only ordering rule; callers sequence their
// own draw passes on top of it.
type cellCanvas struct {
	cols   int
	rows   int
	runes  [][]rune
	codes  [][]int
	colors [][]string
	styles map[styleKey]lipgloss.Style
}

func newCellCanvas(cols, rows int) *cellCanvas {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	c := &cellCanvas{
		cols:   cols,
		rows:   rows,
		runes:  make([][]rune, rows),
		codes:  make([][]int, rows),
		colors: make([][]string, rows),
		styles: make(map[styleKey]lipgloss.Style),
	}
	for y := 0; y < rows; y++ {
		c.runes[y] = make([]rune, cols)
		c.codes[y] = make([]int, cols)
		c.colors[y] = make([]string, cols)
		for x := 0; x < cols; x++ {
			c.runes[y][x] = ' '
		}
	}
	return c
}

func (c *cellCanvas) set(x, y int, ch rune, code int, color string) {
	if y < 0 || y >= c.rows || x < 0 || x >= c.cols {
		return
	}
	if code < c.codes[y][x] {
		return
	}
	c.runes[y][x] = ch
	c.codes[y][x] = code
	c.colors[y][x] = color
}

func (c *cellCanvas) hline(y int, ch rune, code int, color string) {
	for x := 0; x < c.cols; x++ {
		c.set(x, y, ch, code, color)
	}
}

func (c *cellCanvas) vline(x int, ch rune, code int, color string) {
	for y := 0; y < c.rows; y++ {
		c.set(x, y, ch, code, color)
	}
}

// drawSegment rasterizes a straight run between two cells, stepping
// whichever axis moves further and rounding the other.
func (c *cellCanvas) drawSegment(x0, y0, x1, y1 int, ch rune, code int, color string) {
	dx := x1 - x0
	dy := y1 - y0
	steps := max(absInt(dx), absInt(dy))
	if steps <= 0 {
		c.set(x0, y0, ch, code, color)
		return
	}
	for step := 0; step <= steps; step++ {
		x := x0 + int(math.Round(float64(step*dx)/float64(steps)))
		y := y0 + int(math.Round(float64(step*dy)/float64(steps)))
		c.set(x, y, ch, code, color)
	}
}

func (c *cellCanvas) fillColumn(x, y0, y1 int, ch rune, code int, color string) {
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		c.set(x, y, ch, code, color)
	}
}

func (c *cellCanvas) drawText(x, y int, text string, code int, color string) {
	for i, r := range []rune(text) {
		c.set(x+i, y, r, code, color)
	}
}

func (c *cellCanvas) styleFor(code int, color string) lipgloss.Style {
	key := styleKey{color: color, bold: code == cellMarker || code == cellNode}
	if st, ok := c.styles[key]; ok {
		return st
	}
	st := lipgloss.NewStyle().Foreground(lipgloss.Color(key.color)).Bold(key.bold)
	c.styles[key] = st
	return st
}

func (c *cellCanvas) renderRow(y int) string {
	var b strings.Builder
	for x := 0; x < c.cols; x++ {
		if c.codes[y][x] == cellEmpty {
			b.WriteRune(c.runes[y][x])
			continue
		}
		b.WriteString(c.styleFor(c.codes[y][x], c.colors[y][x]).Render(string(c.runes[y][x])))
	}
	return b.String()
}

type tooltipLine struct {
	text  string
	color string
}

// drawTooltip paints an opaque bordered box near the anchor column,
// flipped to the left when the right side would clip and clamped to
// the canvas. Content cells beneath the box are blanked out.
func (c *cellCanvas) drawTooltip(anchor int, lines []tooltipLine) {
	if len(lines) == 0 {
		return
	}
	textW := 0
	for _, l := range lines {
		if n := len([]rune(l.text)); n > textW {
			textW = n
		}
	}
	boxW := textW + 4
	boxH := len(lines) + 2
	if boxW > c.cols || boxH > c.rows {
		return
	}
	x := anchor + 2
	if x+boxW > c.cols {
		x = anchor - 1 - boxW
	}
	if x < 0 {
		x = 0
	}
	if x+boxW > c.cols {
		x = c.cols - boxW
	}
	y := 1
	if y+boxH > c.rows {
		y = c.rows - boxH
	}

	frame := "#D1D5DB"
	c.set(x, y, '┌', cellTooltip, frame)
	c.set(x+boxW-1, y, '┐', cellTooltip, frame)
	c.set(x, y+boxH-1, '└', cellTooltip, frame)
	c.set(x+boxW-1, y+boxH-1, '┘', cellTooltip, frame)
	for i := 1; i < boxW-1; i++ {
		c.set(x+i, y, '─', cellTooltip, frame)
		c.set(x+i, y+boxH-1, '─', cellTooltip, frame)
	}
	for li, l := range lines {
		rowY := y + 1 + li
		c.set(x, rowY, '│', cellTooltip, frame)
		c.set(x+boxW-1, rowY, '│', cellTooltip, frame)
		for i := 1; i < boxW-1; i++ {
			c.set(x+i, rowY, ' ', cellTooltip, frame)
		}
		color := l.color
		if color == "" {
			color = frame
		}
		c.drawText(x+2, rowY, l.text, cellTooltip, color)
	}
}

// dimToward blends a hex color toward the canvas background so filled
// areas sit visually behind full-strength strokes. Unparseable input
// passes through untouched.
func dimToward(hex string, amount float64) string {
	fg, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	bg, err := colorful.Hex(canvasBackground)
	if err != nil {
		return hex
	}
	if amount < 0 {
		amount = 0
	}
	if amount > 1 {
		amount = 1
	}
	return fg.BlendLab(bg, amount).Clamped().Hex()
}

// plotCol maps an engine x coordinate into plot columns; the engine's
// inner plot frame stretches across the whole cell grid.
func plotCol(x, marginLeft, innerWidth float64, cols int) int {
	if cols <= 1 || innerWidth <= 0 {
		return 0
	}
	frac := (x - marginLeft) / innerWidth
	return clampCell(int(math.Round(frac*float64(cols-1))), cols)
}

func plotRow(y, marginTop, innerHeight float64, rows int) int {
	if rows <= 1 || innerHeight <= 0 {
		return 0
	}
	frac := (y - marginTop) / innerHeight
	return clampCell(int(math.Round(frac*float64(rows-1))), rows)
}

// plotPx is the reverse mapping used for hover resolution.
func plotPx(col int, marginLeft, innerWidth float64, cols int) float64 {
	if cols <= 1 {
		return marginLeft
	}
	return marginLeft + float64(col)/float64(cols-1)*innerWidth
}

func tickRow(ratio float64, rows int) int {
	if rows <= 1 {
		return 0
	}
	return clampCell(int(math.Round(ratio*float64(rows-1))), rows)
}

func clampCell(v, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}

func gutterWidth(ticks []chart.AxisTick) int {
	w := 0
	for _, t := range ticks {
		if n := lipgloss.Width(t.Label); n > w {
			w = n
		}
	}
	return w + 1
}

type cellTick struct {
	col   int
	label string
}

// tickMarkRow renders the x-axis line with a mark under each tick
// column.
func tickMarkRow(cols int, ticks []cellTick) string {
	row := make([]rune, cols)
	for i := range row {
		row[i] = '─'
	}
	for _, t := range ticks {
		if t.col >= 0 && t.col < cols {
			row[t.col] = '┴'
		}
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#4B5563")).Render(string(row))
}

// tickLabelRow centers each label under its column and drops labels
// that would collide with one already placed.
func tickLabelRow(cols int, ticks []cellTick) string {
	row := make([]rune, cols)
	for i := range row {
		row[i] = ' '
	}
	lastEnd := -2
	for _, t := range ticks {
		label := []rune(t.label)
		if len(label) == 0 || len(label) > cols {
			continue
		}
		start := t.col - len(label)/2
		if start < 0 {
			start = 0
		}
		if start+len(label) > cols {
			start = cols - len(label)
		}
		if start <= lastEnd+1 {
			continue
		}
		copy(row[start:], label)
		lastEnd = start + len(label) - 1
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")).Render(string(row))
}

// axisPrefix right-aligns a y tick label into the gutter.
func axisPrefix(gutter int, label string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#9CA3AF")).
		Render(fmt.Sprintf("%*s", gutter-1, label) + " ")
}

// placeholderScreen keeps the card dimensions stable while showing a
// centered message instead of a chart.
func placeholderScreen(cols, rows int, msg, color string) []string {
	lines := make([]string, rows+2)
	for i := range lines {
		lines[i] = strings.Repeat(" ", cols)
	}
	styled := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(msg)
	lines[rows/2] = lipgloss.PlaceHorizontal(cols, lipgloss.Center, styled)
	return lines
}

func (m model) screenPlaceholder(cols, rows int, errText string, hasData bool) ([]string, bool) {
	switch {
	case errText != "":
		return placeholderScreen(cols, rows, errText, "#F15B5B"), true
	case !hasData:
		if m.loading {
			return placeholderScreen(cols, rows, "loading snapshots...", "#6B7280"), true
		}
		return placeholderScreen(cols, rows, "no data yet", "#6B7280"), true
	}
	return nil, false
}
