package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lkettell/nestegg/internal/chart"
)

// renderFlowScreen paints the flow diagram: ribbons first so node
// rectangles cover their ends, then nodes, then labels.
func (m model) renderFlowScreen(cols, rows int) []string {
	if lines, done := m.screenPlaceholder(cols, rows, m.overviewErr, m.hasOverview); done {
		return lines
	}

	g := m.flowGeometry()
	if g.Empty || g.Placeholder != "" {
		msg := g.Placeholder
		if msg == "" {
			msg = "nothing to draw"
		}
		return placeholderScreen(cols, rows, msg, "#6B7280")
	}

	canvas := newCellCanvas(cols, rows)
	toCol := func(x float64) int {
		if g.Width <= 1 {
			return 0
		}
		return clampCell(int(math.Round(x/float64(g.Width)*float64(cols-1))), cols)
	}
	toRow := func(y float64) int {
		if g.Height <= 1 {
			return 0
		}
		return clampCell(int(math.Round(y/float64(g.Height)*float64(rows-1))), rows)
	}
	pxPerRow := float64(g.Height) / float64(max(1, rows-1))

	nodeByID := make(map[string]chart.FlowNode, len(g.Nodes))
	for _, n := range g.Nodes {
		nodeByID[n.ID] = n
	}

	for _, l := range g.Links {
		src, ok := nodeByID[l.Source]
		if !ok {
			continue
		}
		dst, ok := nodeByID[l.Target]
		if !ok {
			continue
		}
		sx := src.X + src.W
		tx := dst.X
		midX := (sx + tx) / 2
		color := dimToward(src.Color, 0.45)
		if l.Dashed {
			color = dimToward(src.Color, 0.6)
		}

		// One strand per crossed row keeps ribbon weight proportional
		// to link width.
		strands := int(math.Round(l.Width / pxPerRow))
		if strands < 1 {
			strands = 1
		}
		if strands > 24 {
			strands = 24
		}
		steps := max(8, 2*(toCol(tx)-toCol(sx)))
		for s := 0; s < strands; s++ {
			offset := (float64(s) - float64(strands-1)/2) * pxPerRow
			sy := l.SourceY + offset
			ty := l.TargetY + offset
			for step := 0; step <= steps; step++ {
				if l.Dashed && step%2 == 1 {
					continue
				}
				t := float64(step) / float64(steps)
				x := cubicAt(sx, midX, midX, tx, t)
				y := cubicAt(sy, sy, ty, ty, t)
				canvas.set(toCol(x), toRow(y), '·', cellLink, color)
			}
		}
	}

	for _, n := range g.Nodes {
		x0, x1 := toCol(n.X), toCol(n.X+n.W)
		y0, y1 := toRow(n.Y), toRow(n.Y+n.H)
		if y1 < y0 {
			y1 = y0
		}
		fill := dimToward(n.Color, 0.25)
		for x := x0; x <= x1; x++ {
			canvas.fillColumn(x, y0, y1, '█', cellNode, fill)
		}

		label := n.Label + " " + moneyLabel(n.Value)
		width := len([]rune(label))
		midY := (y0 + y1) / 2
		switch n.Rank {
		case 0:
			canvas.drawText(max(0, x0-width-1), midY, label, cellText, "#D1D5DB")
		case 2:
			canvas.drawText(x1+2, midY, label, cellText, "#D1D5DB")
		default:
			canvas.drawText((x0+x1)/2-width/2, min(rows-1, y1+1), label, cellText, "#D1D5DB")
		}
	}

	lines := make([]string, 0, rows+2)
	for row := 0; row < rows; row++ {
		lines = append(lines, canvas.renderRow(row))
	}
	legend := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280")).
		Render("assets → total → net worth / debt")
	lines = append(lines,
		strings.Repeat(" ", cols),
		lipgloss.PlaceHorizontal(cols, lipgloss.Center, legend),
	)
	return lines
}

func cubicAt(p0, p1, p2, p3, t float64) float64 {
	u := 1 - t
	return u*u*u*p0 + 3*u*u*t*p1 + 3*u*t*t*p2 + t*t*t*p3
}
