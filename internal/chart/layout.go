package chart

import "unicode/utf8"

// plotArea is the pixel frame shared by the cartesian renders. It is
// embedded in geometry results so hosts can map pointer coordinates
// back to samples without re-deriving margins.
type plotArea struct {
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	MarginLeft  float64 `json:"marginLeft"`
	MarginTop   float64 `json:"marginTop"`
	InnerWidth  float64 `json:"innerWidth"`
	InnerHeight float64 `json:"innerHeight"`
	Samples     int     `json:"samples"`
}

// newPlotArea sizes the inner plot. The left margin grows with the
// widest formatted Y label (7px per character plus fixed padding,
// clamped to [76, 152]) so labels never overlap the plot.
func newPlotArea(width, height int, yTicks []AxisTick, samples int) plotArea {
	if width < MinContainerWidth {
		width = MinContainerWidth
	}
	maxLabel := 0
	for _, t := range yTicks {
		if n := utf8.RuneCountInString(t.Label); n > maxLabel {
			maxLabel = n
		}
	}
	left := clampF(20+float64(maxLabel)*7, 76, 152)

	inner := float64(width) - left - marginRight
	if inner < minInnerWidth {
		inner = minInnerWidth
	}
	innerH := float64(height) - marginTop - marginBottom
	if innerH < minInnerHeight {
		innerH = minInnerHeight
	}

	return plotArea{
		Width:       width,
		Height:      height,
		MarginLeft:  left,
		MarginTop:   marginTop,
		InnerWidth:  inner,
		InnerHeight: innerH,
		Samples:     samples,
	}
}

// xAt is the horizontal position of sample i: evenly spread across the
// inner width, or centered when there is a single sample.
func (p plotArea) xAt(i int) float64 {
	if p.Samples <= 1 {
		return p.MarginLeft + p.InnerWidth/2
	}
	return p.MarginLeft + float64(i)*(p.InnerWidth/float64(p.Samples-1))
}

// yAt maps a value into the inner plot through the domain.
func (p plotArea) yAt(d Domain, v float64) float64 {
	return p.MarginTop + d.ratioOf(v)*p.InnerHeight
}

// innerBottom is the Y of the plot floor.
func (p plotArea) innerBottom() float64 {
	return p.MarginTop + p.InnerHeight
}

// HoverIndex maps a pointer X in container pixels to the nearest
// sample index. Resolution is O(1): fraction of the inner width,
// clamped to [0,1], rounded to the nearest index. ok is false when the
// render had no samples.
func (p plotArea) HoverIndex(pointerX float64) (int, bool) {
	if p.Samples == 0 {
		return 0, false
	}
	if p.Samples == 1 {
		return 0, true
	}
	frac := (pointerX - p.MarginLeft) / p.InnerWidth
	return NearestIndex(frac, p.Samples), true
}

// TooltipAnchorPct clamps an anchor X to [7%, 93%] of the container
// width so tooltips never clip at the chart edges.
func (p plotArea) TooltipAnchorPct(x float64) float64 {
	if p.Width <= 0 {
		return 50
	}
	return clampF(x/float64(p.Width)*100, 7, 93)
}
