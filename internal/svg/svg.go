// Package svg renders chart geometry into standalone SVG documents.
// Layout lives in the chart package; this one only wraps the geometry
// it is handed in markup. Output is deterministic (fixed element
// order, two-decimal coordinates) so documents can be asserted on
// directly in tests.
package svg

import (
	"fmt"
	"strings"

	"github.com/lkettell/nestegg/internal/chart"
)

// Document chrome around the chart palette.
const (
	backgroundColor = "#0f1726"
	gridColor       = "#243349"
	baselineColor   = "#33476b"
	axisTextColor   = "#8fa3c4"
	fontFamily      = "ui-sans-serif, system-ui, sans-serif"
)

const emptyMessage = "No data for this range"

type doc struct {
	b strings.Builder
}

func newDoc(width, height int) *doc {
	d := &doc{}
	d.writef(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		width, height, width, height)
	d.writef(`<rect width="%d" height="%d" fill="%s"/>`, width, height, backgroundColor)
	return d
}

func (d *doc) writef(format string, args ...any) {
	fmt.Fprintf(&d.b, format+"\n", args...)
}

func (d *doc) close() string {
	d.b.WriteString("</svg>\n")
	return d.b.String()
}

func (d *doc) centeredText(width, height int, msg string) {
	d.writef(`<text x="%.2f" y="%.2f" text-anchor="middle" fill="%s" font-family="%s" font-size="14">%s</text>`,
		float64(width)/2, float64(height)/2, axisTextColor, fontFamily, escapeText(msg))
}

// grid draws one horizontal rule plus its value label per Y tick.
func (d *doc) grid(marginLeft, marginTop, innerW, innerH float64, ticks []chart.AxisTick) {
	for _, t := range ticks {
		y := marginTop + t.Ratio*innerH
		d.writef(`<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="1"/>`,
			marginLeft, y, marginLeft+innerW, y, gridColor)
		d.writef(`<text x="%.2f" y="%.2f" text-anchor="end" fill="%s" font-family="%s" font-size="11">%s</text>`,
			marginLeft-8, y+4, axisTextColor, fontFamily, escapeText(t.Label))
	}
}

func (d *doc) xLabels(ticks []chart.LabelTick, y float64) {
	for _, t := range ticks {
		d.writef(`<text x="%.2f" y="%.2f" text-anchor="middle" fill="%s" font-family="%s" font-size="11">%s</text>`,
			t.X, y, axisTextColor, fontFamily, escapeText(t.Label))
	}
}

// escapeText keeps injected labels from breaking the markup.
var escapeText = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
).Replace
