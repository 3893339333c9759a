package chart

import (
	"strconv"
	"strings"
)

// Documented defaults for unset Options fields.
const (
	DefaultColor     = "#7cc3ff"
	DefaultHeight    = 240
	DefaultMaxXTicks = 8
)

// Layer palette shared by the stacked and flow renders. Hosts that
// restyle output can match on band keys instead.
const (
	ColorCash       = DefaultColor
	ColorRealEstate = "#63d0b2"
	ColorInvestment = "#8a7cff"
	ColorLiability  = "#ff8a8a"
)

const (
	// MinContainerWidth is the narrowest container a render accepts;
	// smaller hosts are treated as this wide so geometry stays valid.
	MinContainerWidth = 320

	minInnerWidth  = 120
	minInnerHeight = 80

	marginTop    = 16.0
	marginRight  = 16.0
	marginBottom = 32.0

	defaultYTickCount = 4
)

// Options configure one render. The zero value is usable: unset fields
// fall back to the documented defaults and nil formatters become plain
// pass-throughs. Currency, locale, and masking decisions stay with the
// caller via the injected formatters.
type Options struct {
	// Color is passed through to line/area geometry unvalidated.
	Color string
	// Height is the full chart height in pixels.
	Height int
	// PreferZeroBaseline forces the domain to include zero.
	PreferZeroBaseline bool
	// MaxXTicks bounds how many X labels render regardless of width.
	MaxXTicks int

	XLabelFormatter  func(label string) string
	ValueFormatter   func(value float64) string
	TooltipFormatter func(p Point) string
}

func (o Options) normalized() Options {
	if strings.TrimSpace(o.Color) == "" {
		o.Color = DefaultColor
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.MaxXTicks <= 0 {
		o.MaxXTicks = DefaultMaxXTicks
	}
	if o.XLabelFormatter == nil {
		o.XLabelFormatter = func(label string) string { return label }
	}
	if o.ValueFormatter == nil {
		o.ValueFormatter = formatValue
	}
	if o.TooltipFormatter == nil {
		o.TooltipFormatter = func(p Point) string {
			return p.Label + ": " + formatValue(p.Value)
		}
	}
	return o
}

// formatValue is the plain default. Hosts inject currency-aware
// formatters rather than extending it.
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
