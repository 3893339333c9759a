package wealth

import (
	"errors"
	"testing"

	"github.com/lkettell/nestegg/internal/chart"
	"github.com/lkettell/nestegg/internal/ledger"
)

func chartCurve() Curve {
	return Curve{
		Filters: DefaultFilters(),
		Points: []CurvePoint{
			{Date: "2024-01-31", CashCents: 10000, RealEstateCents: 50000, InvestmentCents: 20000, LiabilityCents: 30000, GrossCents: 80000, NetCents: 50000},
			{Date: "2024-02-29", CashCents: 12000, RealEstateCents: 50000, InvestmentCents: 22000, LiabilityCents: 29000, GrossCents: 84000, NetCents: 55000},
		},
	}
}

func TestParseMetric(t *testing.T) {
	t.Parallel()

	got, err := ParseMetric("")
	if err != nil || got != MetricNet {
		t.Fatalf("ParseMetric(\"\") = (%q, %v), want (net, nil)", got, err)
	}
	got, err = ParseMetric(" GROSS ")
	if err != nil || got != MetricGross {
		t.Fatalf("ParseMetric(\" GROSS \") = (%q, %v), want (gross, nil)", got, err)
	}
	if _, err := ParseMetric("median"); !errors.Is(err, ErrInvalidQuery) {
		t.Fatalf("ParseMetric(\"median\") error = %v, want ErrInvalidQuery", err)
	}
}

func TestCurveSeriesPlotsSelectedMetric(t *testing.T) {
	t.Parallel()

	c := chartCurve()

	net := CurveSeries(c, MetricNet)
	if len(net) != 2 {
		t.Fatalf("len(series) = %d, want 2", len(net))
	}
	if net[0].Label != "2024-01-31" || net[0].Value != 500 {
		t.Fatalf("net[0] = %+v, want 2024-01-31 at 500 units", net[0])
	}

	gross := CurveSeries(c, MetricGross)
	if gross[1].Value != 840 {
		t.Fatalf("gross[1].Value = %v, want 840", gross[1].Value)
	}
}

func TestCurveStackConvertsCentsToUnits(t *testing.T) {
	t.Parallel()

	s := CurveStack(chartCurve())
	if len(s.Labels) != 2 || len(s.Cash) != 2 || len(s.Liability) != 2 {
		t.Fatalf("stack lengths = %d/%d/%d, want 2 each", len(s.Labels), len(s.Cash), len(s.Liability))
	}
	if s.Cash[0] != 100 || s.RealEstate[0] != 500 || s.Investment[0] != 200 || s.Liability[0] != 300 {
		t.Fatalf("first stack sample = (%v, %v, %v, %v), want cents/100", s.Cash[0], s.RealEstate[0], s.Investment[0], s.Liability[0])
	}
}

func TestFiltersVisibility(t *testing.T) {
	t.Parallel()

	f := Filters{Cash: true, Investment: true}
	vis := f.Visibility()
	want := chart.Visibility{Cash: true, Investment: true}
	if vis != want {
		t.Fatalf("Visibility() = %+v, want %+v", vis, want)
	}
}

func TestFlowBreakdown(t *testing.T) {
	t.Parallel()

	o := Overview{
		Filters: DefaultFilters(),
		Summary: OverviewSummary{
			CashCents:       10000,
			RealEstateCents: 50000,
			InvestmentCents: 20000,
			LiabilityCents:  30000,
		},
	}

	cats, debt := FlowBreakdown(o)
	if len(cats) != 3 {
		t.Fatalf("len(cats) = %d, want 3", len(cats))
	}
	wantIDs := []string{"cash", "real_estate", "investment"}
	for i, cat := range cats {
		if cat.ID != wantIDs[i] {
			t.Fatalf("cats[%d].ID = %q, want %q", i, cat.ID, wantIDs[i])
		}
		if !cat.Enabled {
			t.Fatalf("cats[%d].Enabled = false, want true with default filters", i)
		}
	}
	if cats[0].Value != 100 || cats[1].Value != 500 || cats[2].Value != 200 {
		t.Fatalf("cat values = (%v, %v, %v), want cents/100", cats[0].Value, cats[1].Value, cats[2].Value)
	}
	if debt != 300 {
		t.Fatalf("debt = %v, want 300", debt)
	}
}

func TestFlowBreakdownRespectsFilters(t *testing.T) {
	t.Parallel()

	filters := DefaultFilters()
	filters.RealEstate = false
	filters.Liability = false

	o := Overview{
		Filters: filters,
		Summary: OverviewSummary{CashCents: 10000, RealEstateCents: 50000, LiabilityCents: 30000},
	}

	cats, debt := FlowBreakdown(o)
	if len(cats) != 3 {
		t.Fatalf("len(cats) = %d, want disabled classes kept in the list", len(cats))
	}
	for _, cat := range cats {
		if cat.ID == "real_estate" && cat.Enabled {
			t.Fatal("real_estate category enabled despite the filter")
		}
	}
	if debt != 0 {
		t.Fatalf("debt = %v, want 0 when liability is filtered out", debt)
	}
}

func TestClassColorMatchesPalette(t *testing.T) {
	t.Parallel()

	tests := []struct {
		class ledger.AssetClass
		want  string
	}{
		{ledger.ClassCash, chart.ColorCash},
		{ledger.ClassRealEstate, chart.ColorRealEstate},
		{ledger.ClassInvestment, chart.ColorInvestment},
		{ledger.ClassLiability, chart.ColorLiability},
	}
	for _, tc := range tests {
		if got := ClassColor(tc.class); got != tc.want {
			t.Fatalf("ClassColor(%s) = %q, want %q", tc.class, got, tc.want)
		}
	}
}
