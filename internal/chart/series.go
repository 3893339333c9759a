// Package chart lays out the wealth charts drawn by the app: a
// line/area time-series render, stacked asset/liability bands around a
// zero baseline, and a proportional flow breakdown. Renders are pure
// functions of (data, options, pixel extent); they perform no I/O and
// keep no state between calls. Hover state belongs to the host, which
// resolves pointer positions through the geometry it got back.
package chart

import "math"

// Point is one sample in a series: an ordinal label (typically a date
// string) and a numeric value. Values may be non-finite and are
// filtered before any computation.
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Series is an ordered sample sequence. Order is chronological and is
// never re-sorted here; renders derive a filtered copy and leave the
// caller's slice untouched.
type Series []Point

// Clean returns the finite-valued points in their original order.
func (s Series) Clean() Series {
	out := make(Series, 0, len(s))
	for _, p := range s {
		if isFinite(p.Value) {
			out = append(out, p)
		}
	}
	return out
}

func (s Series) values() []float64 {
	vals := make([]float64, len(s))
	for i, p := range s {
		vals[i] = p.Value
	}
	return vals
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
