package chart

// LabelTick is a labeled X-axis position.
type LabelTick struct {
	Index int     `json:"index"`
	X     float64 `json:"x"`
	Label string  `json:"label"`
}

// LineGeometry is a fully positioned line/area render. Everything is
// recomputed wholesale from the inputs on each call; a resize changes
// geometry only, never the domain or tooltip content for a fixed
// hover index.
type LineGeometry struct {
	plotArea

	Color  string `json:"color"`
	Domain Domain `json:"domain"`

	// Points carries one marker per clean sample, in sample order.
	Points []PathPoint `json:"pointMarkers"`
	Labels []string    `json:"labels"`

	LinePath string `json:"linePath"`
	AreaPath string `json:"areaPath"`

	YTicks []AxisTick  `json:"yTicks"`
	XTicks []LabelTick `json:"xTicks"`

	// Empty marks a render with zero clean samples; hosts show their
	// placeholder instead of drawing.
	Empty bool `json:"empty"`

	clean         Series
	tooltipFormat func(Point) string
}

// Line renders one series as a line with a gradient area beneath it.
// The render is pure: callers own hover state and resolve pointer
// positions through HoverIndex on the returned geometry.
func Line(series Series, width int, opts Options) LineGeometry {
	opts = opts.normalized()
	clean := series.Clean()

	if len(clean) == 0 {
		return LineGeometry{
			plotArea:      newPlotArea(width, opts.Height, nil, 0),
			Color:         opts.Color,
			Empty:         true,
			tooltipFormat: opts.TooltipFormatter,
		}
	}

	dom := ComputeDomain(clean.values(), opts.PreferZeroBaseline)
	yTicks := ComputeTicks(dom, defaultYTickCount, opts.ValueFormatter)
	pa := newPlotArea(width, opts.Height, yTicks, len(clean))

	points := make([]PathPoint, len(clean))
	labels := make([]string, len(clean))
	for i, p := range clean {
		points[i] = PathPoint{X: pa.xAt(i), Y: pa.yAt(dom, p.Value)}
		labels[i] = p.Label
	}

	var linePath, areaPath string
	if len(points) >= 2 {
		var lb pathBuilder
		lb.moveTo(points[0].X, points[0].Y)
		for _, pt := range points[1:] {
			lb.lineTo(pt.X, pt.Y)
		}
		linePath = lb.String()

		bottom := pa.innerBottom()
		var ab pathBuilder
		ab.moveTo(points[0].X, points[0].Y)
		for _, pt := range points[1:] {
			ab.lineTo(pt.X, pt.Y)
		}
		ab.lineTo(points[len(points)-1].X, bottom)
		ab.lineTo(points[0].X, bottom)
		ab.closePath()
		areaPath = ab.String()
	}

	xTicks := make([]LabelTick, 0, opts.MaxXTicks+1)
	for _, i := range XTickIndices(len(clean), pa.Width, opts.MaxXTicks) {
		xTicks = append(xTicks, LabelTick{
			Index: i,
			X:     points[i].X,
			Label: opts.XLabelFormatter(labels[i]),
		})
	}

	return LineGeometry{
		plotArea:      pa,
		Color:         opts.Color,
		Domain:        dom,
		Points:        points,
		Labels:        labels,
		LinePath:      linePath,
		AreaPath:      areaPath,
		YTicks:        yTicks,
		XTicks:        xTicks,
		clean:         clean,
		tooltipFormat: opts.TooltipFormatter,
	}
}

// PointAt returns the clean sample at index i.
func (g *LineGeometry) PointAt(i int) (Point, bool) {
	if i < 0 || i >= len(g.clean) {
		return Point{}, false
	}
	return g.clean[i], true
}

// TooltipAt formats the tooltip content for sample i using the
// injected tooltip formatter.
func (g *LineGeometry) TooltipAt(i int) (string, bool) {
	p, ok := g.PointAt(i)
	if !ok {
		return "", false
	}
	return g.tooltipFormat(p), true
}
