package wealth

import (
	"fmt"
	"strings"

	"github.com/lkettell/nestegg/internal/chart"
	"github.com/lkettell/nestegg/internal/ledger"
)

// Metric selects which curve total a line chart plots.
type Metric string

const (
	MetricNet   Metric = "net"
	MetricGross Metric = "gross"
)

// ParseMetric validates raw, defaulting empty input to net worth.
func ParseMetric(raw string) (Metric, error) {
	m := Metric(strings.ToLower(strings.TrimSpace(raw)))
	if m == "" {
		return MetricNet, nil
	}
	switch m {
	case MetricNet, MetricGross:
		return m, nil
	}
	return "", fmt.Errorf("%w: unsupported metric %q", ErrInvalidQuery, raw)
}

// ClassColor is the chart palette entry for an asset class.
func ClassColor(class ledger.AssetClass) string {
	switch class {
	case ledger.ClassCash:
		return chart.ColorCash
	case ledger.ClassRealEstate:
		return chart.ColorRealEstate
	case ledger.ClassInvestment:
		return chart.ColorInvestment
	case ledger.ClassLiability:
		return chart.ColorLiability
	}
	return chart.DefaultColor
}

// Visibility maps the filters onto stacked-band layers.
func (f Filters) Visibility() chart.Visibility {
	return chart.Visibility{
		Cash:       f.Cash,
		RealEstate: f.RealEstate,
		Investment: f.Investment,
		Liability:  f.Liability,
	}
}

// CurveSeries adapts curve rows for the line render, in whole
// currency units.
func CurveSeries(c Curve, metric Metric) chart.Series {
	series := make(chart.Series, 0, len(c.Points))
	for _, p := range c.Points {
		cents := p.NetCents
		if metric == MetricGross {
			cents = p.GrossCents
		}
		series = append(series, chart.Point{Label: p.Date, Value: ledger.CentsToUnits(cents)})
	}
	return series
}

// CurveStack adapts curve rows for the stacked band render.
func CurveStack(c Curve) chart.StackSeries {
	s := chart.StackSeries{
		Labels:     make([]string, 0, len(c.Points)),
		Cash:       make([]float64, 0, len(c.Points)),
		RealEstate: make([]float64, 0, len(c.Points)),
		Investment: make([]float64, 0, len(c.Points)),
		Liability:  make([]float64, 0, len(c.Points)),
	}
	for _, p := range c.Points {
		s.Labels = append(s.Labels, p.Date)
		s.Cash = append(s.Cash, ledger.CentsToUnits(p.CashCents))
		s.RealEstate = append(s.RealEstate, ledger.CentsToUnits(p.RealEstateCents))
		s.Investment = append(s.Investment, ledger.CentsToUnits(p.InvestmentCents))
		s.Liability = append(s.Liability, ledger.CentsToUnits(p.LiabilityCents))
	}
	return s
}

// FlowBreakdown adapts an overview into flow-chart categories plus
// the debt total, in whole currency units. Disabled classes stay in
// the category list so toggles keep their slots.
func FlowBreakdown(o Overview) ([]chart.FlowCategory, float64) {
	cats := make([]chart.FlowCategory, 0, 3)
	for _, class := range ledger.Classes() {
		if class == ledger.ClassLiability {
			continue
		}
		var cents int64
		switch class {
		case ledger.ClassCash:
			cents = o.Summary.CashCents
		case ledger.ClassRealEstate:
			cents = o.Summary.RealEstateCents
		case ledger.ClassInvestment:
			cents = o.Summary.InvestmentCents
		}
		cats = append(cats, chart.FlowCategory{
			ID:      class.String(),
			Label:   class.Label(),
			Color:   ClassColor(class),
			Value:   ledger.CentsToUnits(cents),
			Enabled: o.Filters.Enabled(class),
		})
	}

	debt := 0.0
	if o.Filters.Liability {
		debt = ledger.CentsToUnits(o.Summary.LiabilityCents)
	}
	return cats, debt
}
