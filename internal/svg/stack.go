package svg

import "github.com/lkettell/nestegg/internal/chart"

// RenderStack wraps stacked band geometry in a standalone document.
// Bands paint in their given order; the dashed zero baseline goes on
// top so the asset/liability split stays readable.
func RenderStack(g chart.StackGeometry) string {
	d := newDoc(g.Width, g.Height)
	if g.Empty {
		d.centeredText(g.Width, g.Height, emptyMessage)
		return d.close()
	}

	d.grid(g.MarginLeft, g.MarginTop, g.InnerWidth, g.InnerHeight, g.YTicks)

	for _, band := range g.Bands {
		d.writef(`<path d="%s" fill="%s" fill-opacity="0.78" stroke="%s" stroke-width="1"/>`,
			band.Path, band.Color, band.Color)
	}

	d.writef(`<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="1" stroke-dasharray="4 3"/>`,
		g.MarginLeft, g.BaselineY, g.MarginLeft+g.InnerWidth, g.BaselineY, baselineColor)

	d.xLabels(g.XTicks, float64(g.Height)-10)
	return d.close()
}
