package chart

import "fmt"

// StackSeries carries the four layer sequences sampled at common time
// points. All slices must share the length of Labels; a mismatch is a
// programming error, not a data condition, and fails the render.
type StackSeries struct {
	Labels     []string  `json:"labels"`
	Cash       []float64 `json:"cash"`
	RealEstate []float64 `json:"realEstate"`
	Investment []float64 `json:"investment"`
	// Liability holds magnitudes; the band renders below zero.
	Liability []float64 `json:"liability"`
}

// Visibility toggles layers in and out of the stack. A hidden layer is
// zeroed before stacking so the cumulative math never branches
// per layer.
type Visibility struct {
	Cash       bool `json:"cash"`
	RealEstate bool `json:"realEstate"`
	Investment bool `json:"investment"`
	Liability  bool `json:"liability"`
}

// AllVisible is the default toggle state.
func AllVisible() Visibility {
	return Visibility{Cash: true, RealEstate: true, Investment: true, Liability: true}
}

// Band is one layer's closed polygon between two boundaries. Path
// walks the upper boundary left to right, then the lower boundary
// right to left, then closes; that traversal order is what makes the
// polygon enclose the layer and is relied on downstream.
type Band struct {
	Key   string      `json:"key"`
	Label string      `json:"label"`
	Color string      `json:"color"`
	Path  string      `json:"path"`
	Upper []PathPoint `json:"upper"`
	Lower []PathPoint `json:"lower"`
}

// StackGeometry is a positioned stacked-band render sharing one zero
// baseline between the asset stack and the liability band.
type StackGeometry struct {
	plotArea

	Domain    Domain  `json:"domain"`
	BaselineY float64 `json:"baselineY"`

	Labels []string `json:"labels"`
	// Bands are emitted in paint order: cash, realEstate, investment,
	// liability. Hidden layers still produce (zero-height) bands so
	// the axis and remaining bands stay anchored.
	Bands []Band `json:"bands"`

	YTicks []AxisTick  `json:"yTicks"`
	XTicks []LabelTick `json:"xTicks"`

	Empty bool `json:"empty"`

	vis     Visibility
	samples []stackSample
}

type stackSample struct {
	label string

	cash       float64
	realEstate float64
	investment float64
	liability  float64

	cashTop         float64
	realEstateTop   float64
	investmentTop   float64
	liabilityBottom float64
}

// StackBands renders the asset layers as a cumulative stack above zero
// and the liability magnitude as a band below it. Layers hidden by vis
// are zeroed before stacking; samples with any non-finite layer value
// are dropped wholesale. The only error condition is mismatched input
// lengths.
func StackBands(s StackSeries, vis Visibility, width int, opts Options) (StackGeometry, error) {
	opts = opts.normalized()

	n := len(s.Labels)
	if len(s.Cash) != n || len(s.RealEstate) != n || len(s.Investment) != n || len(s.Liability) != n {
		return StackGeometry{}, fmt.Errorf(
			"stacked layers must share one length: labels=%d cash=%d realEstate=%d investment=%d liability=%d",
			n, len(s.Cash), len(s.RealEstate), len(s.Investment), len(s.Liability),
		)
	}

	samples := make([]stackSample, 0, n)
	for i := 0; i < n; i++ {
		c, r, inv, l := s.Cash[i], s.RealEstate[i], s.Investment[i], s.Liability[i]
		if !isFinite(c) || !isFinite(r) || !isFinite(inv) || !isFinite(l) {
			continue
		}
		if !vis.Cash {
			c = 0
		}
		if !vis.RealEstate {
			r = 0
		}
		if !vis.Investment {
			inv = 0
		}
		if !vis.Liability {
			l = 0
		}
		sm := stackSample{label: s.Labels[i], cash: c, realEstate: r, investment: inv, liability: l}
		sm.cashTop = sm.cash
		sm.realEstateTop = sm.cashTop + sm.realEstate
		sm.investmentTop = sm.realEstateTop + sm.investment
		sm.liabilityBottom = -sm.liability
		samples = append(samples, sm)
	}

	if len(samples) == 0 {
		return StackGeometry{
			plotArea: newPlotArea(width, opts.Height, nil, 0),
			Empty:    true,
			vis:      vis,
		}, nil
	}

	// The domain covers every boundary the bands can touch, anchored
	// so zero always maps to a fixed baseline row.
	bounds := make([]float64, 0, len(samples)*4)
	for _, sm := range samples {
		bounds = append(bounds, sm.cashTop, sm.realEstateTop, sm.investmentTop, sm.liabilityBottom)
	}
	dom := ComputeDomain(bounds, true)

	yTicks := ComputeTicks(dom, defaultYTickCount, opts.ValueFormatter)
	pa := newPlotArea(width, opts.Height, yTicks, len(samples))
	baselineY := pa.yAt(dom, 0)

	labels := make([]string, len(samples))
	for i, sm := range samples {
		labels[i] = sm.label
	}

	bands := []Band{
		buildBand("cash", "Cash", ColorCash, pa, dom, samples,
			func(sm stackSample) float64 { return sm.cashTop },
			func(stackSample) float64 { return 0 }),
		buildBand("realEstate", "Real estate", ColorRealEstate, pa, dom, samples,
			func(sm stackSample) float64 { return sm.realEstateTop },
			func(sm stackSample) float64 { return sm.cashTop }),
		buildBand("investment", "Investment", ColorInvestment, pa, dom, samples,
			func(sm stackSample) float64 { return sm.investmentTop },
			func(sm stackSample) float64 { return sm.realEstateTop }),
		buildBand("liability", "Liability", ColorLiability, pa, dom, samples,
			func(stackSample) float64 { return 0 },
			func(sm stackSample) float64 { return sm.liabilityBottom }),
	}

	xTicks := make([]LabelTick, 0, opts.MaxXTicks+1)
	for _, i := range XTickIndices(len(samples), pa.Width, opts.MaxXTicks) {
		xTicks = append(xTicks, LabelTick{
			Index: i,
			X:     pa.xAt(i),
			Label: opts.XLabelFormatter(labels[i]),
		})
	}

	return StackGeometry{
		plotArea:  pa,
		Domain:    dom,
		BaselineY: baselineY,
		Labels:    labels,
		Bands:     bands,
		YTicks:    yTicks,
		XTicks:    xTicks,
		vis:       vis,
		samples:   samples,
	}, nil
}

func buildBand(
	key, label, color string,
	pa plotArea,
	dom Domain,
	samples []stackSample,
	upperOf func(stackSample) float64,
	lowerOf func(stackSample) float64,
) Band {
	upper := make([]PathPoint, len(samples))
	lower := make([]PathPoint, len(samples))
	for i, sm := range samples {
		x := pa.xAt(i)
		upper[i] = PathPoint{X: x, Y: pa.yAt(dom, upperOf(sm))}
		lower[i] = PathPoint{X: x, Y: pa.yAt(dom, lowerOf(sm))}
	}

	var b pathBuilder
	b.moveTo(upper[0].X, upper[0].Y)
	for _, pt := range upper[1:] {
		b.lineTo(pt.X, pt.Y)
	}
	for i := len(lower) - 1; i >= 0; i-- {
		b.lineTo(lower[i].X, lower[i].Y)
	}
	b.closePath()

	return Band{Key: key, Label: label, Color: color, Path: b.String(), Upper: upper, Lower: lower}
}

// TooltipRow is one visible layer's value at the hovered sample.
type TooltipRow struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// StackTooltip enumerates the visible layers at one sample plus the
// derived totals.
type StackTooltip struct {
	Label       string       `json:"label"`
	Rows        []TooltipRow `json:"rows"`
	TotalAssets float64      `json:"totalAssets"`
	Net         float64      `json:"net"`
}

// TooltipAt builds tooltip content for sample i: one row per currently
// visible layer, total assets (the stack top), and net (total assets
// minus liability).
func (g *StackGeometry) TooltipAt(i int) (StackTooltip, bool) {
	if i < 0 || i >= len(g.samples) {
		return StackTooltip{}, false
	}
	sm := g.samples[i]

	rows := make([]TooltipRow, 0, 4)
	if g.vis.Cash {
		rows = append(rows, TooltipRow{Key: "cash", Label: "Cash", Value: sm.cash, Color: ColorCash})
	}
	if g.vis.RealEstate {
		rows = append(rows, TooltipRow{Key: "realEstate", Label: "Real estate", Value: sm.realEstate, Color: ColorRealEstate})
	}
	if g.vis.Investment {
		rows = append(rows, TooltipRow{Key: "investment", Label: "Investment", Value: sm.investment, Color: ColorInvestment})
	}
	if g.vis.Liability {
		rows = append(rows, TooltipRow{Key: "liability", Label: "Liability", Value: sm.liability, Color: ColorLiability})
	}

	return StackTooltip{
		Label:       sm.label,
		Rows:        rows,
		TotalAssets: sm.investmentTop,
		Net:         sm.investmentTop - sm.liability,
	}, true
}
