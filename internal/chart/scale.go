package chart

import "math"

// Domain is the numeric range the vertical axis represents. After
// ComputeDomain, Max is always strictly greater than Min.
type Domain struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Span is the domain width.
func (d Domain) Span() float64 { return d.Max - d.Min }

// ratioOf maps a value to its vertical position: 0 at Max (top), 1 at
// Min (bottom).
func (d Domain) ratioOf(v float64) float64 {
	span := d.Span()
	if span == 0 {
		return 0.5
	}
	return (d.Max - v) / span
}

// ComputeDomain derives the axis range for a set of sample values,
// ignoring non-finite entries. With preferZeroBaseline the range always
// reaches zero, and single-signed data keeps its near side pinned there
// so no false gap opens between the baseline and the nearest sample.
// An equal-value series is expanded symmetrically by max(|v|*0.1, 1).
func ComputeDomain(values []float64, preferZeroBaseline bool) Domain {
	var (
		rawMin, rawMax float64
		seen           bool
	)
	for _, v := range values {
		if !isFinite(v) {
			continue
		}
		if !seen {
			rawMin, rawMax = v, v
			seen = true
			continue
		}
		rawMin = math.Min(rawMin, v)
		rawMax = math.Max(rawMax, v)
	}
	if !seen {
		// Renderers short-circuit empty series before scaling; still
		// return a usable range rather than a degenerate one.
		return Domain{Min: 0, Max: 1}
	}

	lo, hi := rawMin, rawMax
	if preferZeroBaseline {
		lo = math.Min(0, lo)
		hi = math.Max(0, hi)
	}

	if lo == hi {
		bump := math.Max(math.Abs(lo)*0.1, 1)
		return Domain{Min: lo - bump, Max: hi + bump}
	}

	pad := (hi - lo) * 0.08
	if preferZeroBaseline && rawMin >= 0 {
		return Domain{Min: lo, Max: hi + pad}
	}
	if preferZeroBaseline && rawMax <= 0 {
		return Domain{Min: lo - pad, Max: hi}
	}
	return Domain{Min: lo - pad, Max: hi + pad}
}

// AxisTick is one horizontal guide level: Ratio positions it inside the
// plot (0 at the top), Value is the numeric level, Label the
// caller-formatted text.
type AxisTick struct {
	Ratio float64 `json:"ratio"`
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

// ComputeTicks produces tickCount+1 evenly spaced ticks running from
// Max down to Min.
func ComputeTicks(d Domain, tickCount int, format func(float64) string) []AxisTick {
	if tickCount < 1 {
		tickCount = defaultYTickCount
	}
	if format == nil {
		format = formatValue
	}
	span := d.Span()
	ticks := make([]AxisTick, 0, tickCount+1)
	for i := 0; i <= tickCount; i++ {
		ratio := float64(i) / float64(tickCount)
		value := d.Max - span*ratio
		ticks = append(ticks, AxisTick{Ratio: ratio, Value: value, Label: format(value)})
	}
	return ticks
}

// xTickCount is how many X labels fit the given container width
// without colliding: floor(width/72), at least 3, at most maxXTicks.
func xTickCount(width, maxXTicks int) int {
	if maxXTicks < 1 {
		maxXTicks = DefaultMaxXTicks
	}
	n := width / 72
	if n > maxXTicks {
		n = maxXTicks
	}
	if n < 3 {
		n = 3
	}
	return n
}

// XTickIndices subsamples [0,n) by an even integer stride so at most
// xTickCount(width, maxXTicks) labels render. The first and last index
// are always included.
func XTickIndices(n, width, maxXTicks int) []int {
	if n <= 0 {
		return nil
	}
	count := xTickCount(width, maxXTicks)
	if n <= count {
		idxs := make([]int, n)
		for i := range idxs {
			idxs[i] = i
		}
		return idxs
	}
	stride := int(math.Ceil(float64(n-1) / float64(count-1)))
	idxs := make([]int, 0, count)
	for i := 0; i < n-1; i += stride {
		idxs = append(idxs, i)
	}
	return append(idxs, n-1)
}

// NearestIndex resolves a horizontal fraction of the plot area to the
// nearest sample index. The fraction is clamped to [0,1] before
// rounding, so results are always in range.
func NearestIndex(fraction float64, n int) int {
	if n <= 1 {
		return 0
	}
	f := clampF(fraction, 0, 1)
	idx := int(math.Round(f * float64(n-1)))
	return clampInt(idx, 0, n-1)
}
