package svg

import "github.com/lkettell/nestegg/internal/chart"

// RenderLine wraps line/area geometry in a standalone document: a
// gradient fill under the curve derived from the series color, grid
// rules from the tick ratios, and an endpoint marker.
func RenderLine(g chart.LineGeometry) string {
	d := newDoc(g.Width, g.Height)
	if g.Empty {
		d.centeredText(g.Width, g.Height, emptyMessage)
		return d.close()
	}

	d.writef(`<defs><linearGradient id="areaFill" x1="0" y1="0" x2="0" y2="1">`+
		`<stop offset="0%%" stop-color="%s" stop-opacity="0.35"/>`+
		`<stop offset="100%%" stop-color="%s" stop-opacity="0"/>`+
		`</linearGradient></defs>`, g.Color, g.Color)

	d.grid(g.MarginLeft, g.MarginTop, g.InnerWidth, g.InnerHeight, g.YTicks)

	if g.AreaPath != "" {
		d.writef(`<path d="%s" fill="url(#areaFill)"/>`, g.AreaPath)
	}
	if g.LinePath != "" {
		d.writef(`<path d="%s" fill="none" stroke="%s" stroke-width="2" stroke-linejoin="round" stroke-linecap="round"/>`,
			g.LinePath, g.Color)
	}

	// A single sample draws no paths; the endpoint dot still marks it.
	last := g.Points[len(g.Points)-1]
	d.writef(`<circle cx="%.2f" cy="%.2f" r="3" fill="%s"/>`, last.X, last.Y, g.Color)

	d.xLabels(g.XTicks, float64(g.Height)-10)
	return d.close()
}
