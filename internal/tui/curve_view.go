package tui

// renderCurveScreen paints the line geometry onto a cell canvas. cols
// and rows describe the card interior; the plot spans cols minus the
// y label gutter, with the tick and label rows appended below.
func (m model) renderCurveScreen(cols, rows int) []string {
	if lines, done := m.screenPlaceholder(cols, rows, m.curveErr, m.hasCurve); done {
		return lines
	}

	g := m.lineGeometry()
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

	pts := make([][2]int, len(g.Points))
	for i, p := range g.Points {
		pts[i] = [2]int{
			plotCol(p.X, g.MarginLeft, g.InnerWidth, plotCols),
			plotRow(p.Y, g.MarginTop, g.InnerHeight, rows),
		}
	}

	for i := 1; i < len(pts); i++ {
		canvas.drawSegment(pts[i-1][0], pts[i-1][1], pts[i][0], pts[i][1], '.', cellSeries, g.Color)
	}
	if len(pts) == 1 {
		canvas.set(pts[0][0], pts[0][1], '●', cellMarker, g.Color)
	}
	if len(pts) > 1 && plotCols/len(pts) >= 4 {
		for _, p := range pts {
			canvas.set(p[0], p[1], '•', cellSeries, g.Color)
		}
	}

	// Shade under the stroke, mirroring the SVG's area gradient.
	fill := dimToward(g.Color, 0.82)
	for x := 0; x < plotCols; x++ {
		for y := 0; y < rows; y++ {
			if canvas.codes[y][x] == cellSeries || canvas.codes[y][x] == cellMarker {
				canvas.fillColumn(x, y+1, rows-1, '░', cellBandFill, fill)
				break
			}
		}
	}

	if i := m.hover; i >= 0 && i < len(pts) {
		hx := pts[i][0]
		canvas.vline(hx, '·', cellCrosshair, "#E5E7EB")
		canvas.set(hx, pts[i][1], '●', cellMarker, g.Color)
		if p, ok := g.PointAt(i); ok {
			canvas.drawTooltip(hx, []tooltipLine{
				{text: p.Label},
				{text: moneyLabel(p.Value), color: g.Color},
			})
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

// assemblePlotLines joins the gutter, canvas rows and the two x-axis
// rows into card lines.
func assemblePlotLines(canvas *cellCanvas, gutter int, rowLabels map[int]string, ticks []cellTick) []string {
	lines := make([]string, 0, canvas.rows+2)
	for row := 0; row < canvas.rows; row++ {
		lines = append(lines, axisPrefix(gutter, rowLabels[row])+canvas.renderRow(row))
	}
	pad := axisPrefix(gutter, "")
	lines = append(lines, pad+tickMarkRow(canvas.cols, ticks))
	lines = append(lines, pad+tickLabelRow(canvas.cols, ticks))
	return lines
}
