package tui

import (
	"strings"
	"testing"

	"github.com/lkettell/nestegg/internal/chart"
)

func TestCanvasPaintPrecedence(t *testing.T) {
	t.Parallel()

	c := newCellCanvas(4, 4)
	c.set(1, 1, '░', cellBandFill, "#111111")
	c.set(1, 1, '.', cellSeries, "#222222")
	if c.runes[1][1] != '.' || c.codes[1][1] != cellSeries {
		t.Fatalf("cell = %q code %d, want series stroke over fill", c.runes[1][1], c.codes[1][1])
	}

	c.set(1, 1, '·', cellGrid, "#333333")
	if c.runes[1][1] != '.' {
		t.Fatalf("grid repaint overwrote a higher-precedence stroke")
	}

	c.set(1, 1, '•', cellSeries, "#444444")
	if c.runes[1][1] != '•' {
		t.Fatalf("equal-precedence repaint should win, got %q", c.runes[1][1])
	}
}

func TestCanvasSetIgnoresOutOfBounds(t *testing.T) {
	t.Parallel()

	c := newCellCanvas(3, 3)
	c.set(-1, 0, 'x', cellMarker, "#fff")
	c.set(0, -1, 'x', cellMarker, "#fff")
	c.set(3, 0, 'x', cellMarker, "#fff")
	c.set(0, 3, 'x', cellMarker, "#fff")
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if c.codes[y][x] != cellEmpty {
				t.Fatalf("out-of-bounds write landed at (%d,%d)", x, y)
			}
		}
	}
}

func TestDrawSegmentCoversEveryColumn(t *testing.T) {
	t.Parallel()

	c := newCellCanvas(12, 6)
	c.drawSegment(0, 5, 11, 0, '.', cellSeries, "#7cc3ff")

	if c.codes[5][0] != cellSeries || c.codes[0][11] != cellSeries {
		t.Fatalf("segment endpoints not painted")
	}
	for x := 0; x < 12; x++ {
		painted := false
		for y := 0; y < 6; y++ {
			if c.codes[y][x] == cellSeries {
				painted = true
				break
			}
		}
		if !painted {
			t.Fatalf("column %d has no stroke cell", x)
		}
	}
}

func TestDrawSegmentDegeneratePoint(t *testing.T) {
	t.Parallel()

	c := newCellCanvas(4, 4)
	c.drawSegment(2, 2, 2, 2, '.', cellSeries, "#7cc3ff")
	if c.codes[2][2] != cellSeries {
		t.Fatalf("zero-length segment should paint its single cell")
	}
}

func TestDrawTooltipFlipsNearRightEdge(t *testing.T) {
	t.Parallel()

	c := newCellCanvas(30, 10)
	c.drawTooltip(27, []tooltipLine{{text: "2024-06-30"}, {text: "$1,234"}})

	// The box must be fully inside the grid and left of the anchor.
	minX, maxX := c.cols, -1
	for y := 0; y < c.rows; y++ {
		for x := 0; x < c.cols; x++ {
			if c.codes[y][x] == cellTooltip {
				if x < minX {
					minX = x
				}
				if x > maxX {
					maxX = x
				}
			}
		}
	}
	if maxX < 0 {
		t.Fatalf("tooltip not drawn")
	}
	if maxX >= 27 {
		t.Fatalf("tooltip extends to column %d, want flipped left of anchor 27", maxX)
	}
	if minX < 0 || maxX >= c.cols {
		t.Fatalf("tooltip out of bounds: cols [%d,%d]", minX, maxX)
	}
}

func TestDrawTooltipBlanksContentBeneath(t *testing.T) {
	t.Parallel()

	c := newCellCanvas(30, 10)
	for y := 0; y < c.rows; y++ {
		c.hline(y, '░', cellBandFill, "#333333")
	}
	c.drawTooltip(0, []tooltipLine{{text: "ab"}})

	// Interior pad cell inside the box: border at x=2 (anchor+2), pad at x+1.
	found := false
	for y := 0; y < c.rows && !found; y++ {
		for x := 0; x < c.cols; x++ {
			if c.codes[y][x] == cellTooltip && c.runes[y][x] == ' ' {
				found = true
				break
			}
		}
	}
	if !found {
		t.Fatalf("tooltip interior did not blank out underlying fill")
	}
}

func TestDrawTooltipSkipsWhenTooLarge(t *testing.T) {
	t.Parallel()

	c := newCellCanvas(6, 3)
	c.drawTooltip(0, []tooltipLine{{text: "far too wide to fit"}, {text: "x"}})
	for y := 0; y < c.rows; y++ {
		for x := 0; x < c.cols; x++ {
			if c.codes[y][x] == cellTooltip {
				t.Fatalf("oversized tooltip should not be drawn")
			}
		}
	}
}

func TestDimTowardDarkens(t *testing.T) {
	t.Parallel()

	dimmed := dimToward("#7cc3ff", 0.5)
	if dimmed == "#7cc3ff" {
		t.Fatalf("dimToward returned the input unchanged")
	}
	if !strings.HasPrefix(dimmed, "#") || len(dimmed) != 7 {
		t.Fatalf("dimToward = %q, want a hex color", dimmed)
	}

	if got := dimToward("not-a-color", 0.5); got != "not-a-color" {
		t.Fatalf("unparseable input should pass through, got %q", got)
	}
	if got := dimToward("#7cc3ff", 0); got == "" {
		t.Fatalf("zero blend should still produce a color")
	}
}

func TestPlotColRoundTrip(t *testing.T) {
	t.Parallel()

	const cols = 48
	marginLeft, innerWidth := 90.0, 610.0
	for _, col := range []int{0, 1, 17, 46, 47} {
		px := plotPx(col, marginLeft, innerWidth, cols)
		if got := plotCol(px, marginLeft, innerWidth, cols); got != col {
			t.Fatalf("plotCol(plotPx(%d)) = %d", col, got)
		}
	}
}

func TestTickLabelRowDropsColliding(t *testing.T) {
	t.Parallel()

	row := tickLabelRow(20, []cellTick{
		{col: 2, label: "Jan 24"},
		{col: 4, label: "Feb 24"},
		{col: 15, label: "Mar 24"},
	})
	if !strings.Contains(row, "Jan 24") {
		t.Fatalf("first label missing: %q", row)
	}
	if strings.Contains(row, "Feb 24") {
		t.Fatalf("colliding label should be dropped: %q", row)
	}
	if !strings.Contains(row, "Mar 24") {
		t.Fatalf("distant label missing: %q", row)
	}
}

func TestGutterWidthTracksWidestLabel(t *testing.T) {
	t.Parallel()

	ticks := []chart.AxisTick{
		{Ratio: 0, Value: 120000, Label: "$120,000"},
		{Ratio: 0.5, Value: 60000, Label: "$60,000"},
		{Ratio: 1, Value: 0, Label: "$0"},
	}
	if got := gutterWidth(ticks); got != len("$120,000")+1 {
		t.Fatalf("gutterWidth = %d, want widest label plus one", got)
	}
}
