package svg

import "github.com/lkettell/nestegg/internal/chart"

// RenderFlow wraps flow geometry in a standalone document. Ribbons
// take their source node's color and the debt ribbon is dashed; node
// labels sit beside their boxes, flipped to the inside for the last
// rank so they stay within the canvas.
func RenderFlow(g chart.FlowGeometry) string {
	d := newDoc(g.Width, g.Height)
	if g.Empty {
		msg := g.Placeholder
		if msg == "" {
			msg = emptyMessage
		}
		d.centeredText(g.Width, g.Height, msg)
		return d.close()
	}

	colors := make(map[string]string, len(g.Nodes))
	maxRank := 0
	for _, n := range g.Nodes {
		colors[n.ID] = n.Color
		if n.Rank > maxRank {
			maxRank = n.Rank
		}
	}

	for _, link := range g.Links {
		dash := ""
		if link.Dashed {
			dash = ` stroke-dasharray="7 5"`
		}
		d.writef(`<path d="%s" fill="none" stroke="%s" stroke-width="%.2f" stroke-opacity="0.45"%s/>`,
			link.Path, colors[link.Source], link.Width, dash)
	}

	for _, n := range g.Nodes {
		d.writef(`<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="3" fill="%s"><title>%s: %.2f</title></rect>`,
			n.X, n.Y, n.W, n.H, n.Color, escapeText(n.Label), n.Value)

		labelX := n.X + n.W + 6
		anchor := "start"
		if n.Rank == maxRank {
			labelX = n.X - 6
			anchor = "end"
		}
		d.writef(`<text x="%.2f" y="%.2f" text-anchor="%s" fill="%s" font-family="%s" font-size="11">%s</text>`,
			labelX, n.Y+n.H/2+4, anchor, axisTextColor, fontFamily, escapeText(n.Label))
	}

	return d.close()
}
