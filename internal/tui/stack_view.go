package tui

import "fmt"

// renderCompositionScreen paints the stacked bands above and below the
// shared zero baseline.
func (m model) renderCompositionScreen(cols, rows int) []string {
	if lines, done := m.screenPlaceholder(cols, rows, m.curveErr, m.hasCurve); done {
		return lines
	}

	g, err := m.stackGeometry()
	if err != nil {
		return placeholderScreen(cols, rows, err.Error(), "#F15B5B")
	}
	if g.Empty {
		return placeholderScreen(cols, rows, "no snapshots in this window", "#6B7280")
	}

	gutter := gutterWidth(g.YTicks)
	plotCols := plotColsFor(cols, gutter)
	canvas := newCellCanvas(plotCols, rows)

	rowLabels := map[int]string{}
	for _, t := range g.YTicks {
		row := tickRow(t.Ratio, rows)
		rowLabels[row] = t.Label
		canvas.hline(row, '·', cellGrid, "#374151")
	}

	for _, band := range g.Bands {
		if len(band.Upper) == 0 || len(band.Upper) != len(band.Lower) {
			continue
		}
		// Hidden and all-zero layers never open up; skip them so
		// their edge color does not drape over the stack.
		thickness := 0.0
		for i := range band.Upper {
			if d := band.Lower[i].Y - band.Upper[i].Y; d > thickness {
				thickness = d
			}
		}
		if thickness < 0.5 {
			continue
		}

		fill := dimToward(band.Color, 0.55)
		edgeOnLower := band.Key == "liability"
		drawSpan := func(col int, upperY, lowerY float64) {
			r0 := plotRow(upperY, g.MarginTop, g.InnerHeight, rows)
			r1 := plotRow(lowerY, g.MarginTop, g.InnerHeight, rows)
			canvas.fillColumn(col, r0, r1, '█', cellBandFill, fill)
			if edgeOnLower {
				canvas.set(col, r1, '█', cellBandEdge, band.Color)
			} else {
				canvas.set(col, r0, '█', cellBandEdge, band.Color)
			}
		}

		if len(band.Upper) == 1 {
			col := plotCol(band.Upper[0].X, g.MarginLeft, g.InnerWidth, plotCols)
			drawSpan(col, band.Upper[0].Y, band.Lower[0].Y)
			continue
		}
		for i := 1; i < len(band.Upper); i++ {
			c0 := plotCol(band.Upper[i-1].X, g.MarginLeft, g.InnerWidth, plotCols)
			c1 := plotCol(band.Upper[i].X, g.MarginLeft, g.InnerWidth, plotCols)
			if c1 < c0 {
				c1 = c0
			}
			span := c1 - c0
			for col := c0; col <= c1; col++ {
				t := 0.0
				if span > 0 {
					t = float64(col-c0) / float64(span)
				}
				upperY := band.Upper[i-1].Y + t*(band.Upper[i].Y-band.Upper[i-1].Y)
				lowerY := band.Lower[i-1].Y + t*(band.Lower[i].Y-band.Lower[i-1].Y)
				drawSpan(col, upperY, lowerY)
			}
		}
	}

	baselineRow := plotRow(g.BaselineY, g.MarginTop, g.InnerHeight, rows)
	canvas.hline(baselineRow, '─', cellBaseline, "#9CA3AF")

	if i := m.hover; i >= 0 && len(g.Bands) > 0 && i < len(g.Bands[0].Upper) {
		hx := plotCol(g.Bands[0].Upper[i].X, g.MarginLeft, g.InnerWidth, plotCols)
		canvas.vline(hx, '·', cellCrosshair, "#E5E7EB")
		if tip, ok := g.TooltipAt(i); ok {
			lines := []tooltipLine{{text: tip.Label}}
			for _, r := range tip.Rows {
				lines = append(lines, tooltipLine{
					text:  fmt.Sprintf("%-12s %s", r.Label, moneyLabel(r.Value)),
					color: r.Color,
				})
			}
			lines = append(lines,
				tooltipLine{text: fmt.Sprintf("%-12s %s", "total assets", moneyLabel(tip.TotalAssets))},
				tooltipLine{text: fmt.Sprintf("%-12s %s", "net", moneyLabel(tip.Net)), color: "#57c785"},
			)
			canvas.drawTooltip(hx, lines)
		}
	}

	ticks := make([]cellTick, 0, len(g.XTicks))
	for _, t := range g.XTicks {
		ticks = append(ticks, cellTick{
			col:   plotCol(t.X, g.MarginLeft, g.InnerWidth, plotCols),
			label: t.Label,
		})
	}

	return assemblePlotLines(canvas, gutter, rowLabels, ticks)
}
