package wealth

import (
	"context"
	"database/sql"
	"math"
	"sort"

	"github.com/lkettell/nestegg/internal/ledger"
	"github.com/lkettell/nestegg/internal/storage"
)

// ValuationSource is the slice of storage.ValuationsRepo the
// analytics consume.
type ValuationSource interface {
	HistoryByClass(ctx context.Context, classes []string) ([]storage.Valuation, error)
	LatestByClass(ctx context.Context, classes []string, asOf string) ([]storage.Valuation, error)
	Bounds(ctx context.Context, classes []string) (earliest, latest string, ok bool, err error)
}

// InvestmentSource is the slice of storage.InvestmentsRepo the
// analytics consume.
type InvestmentSource interface {
	History(ctx context.Context) ([]storage.InvestmentRecord, error)
	Latest(ctx context.Context, asOf string) ([]storage.InvestmentRecord, error)
	Bounds(ctx context.Context) (earliest, latest string, ok bool, err error)
}

// Service answers analytics queries from the snapshot store.
type Service struct {
	valuations  ValuationSource
	investments InvestmentSource
}

func NewService(db *sql.DB) *Service {
	return &Service{
		valuations:  storage.NewValuationsRepo(db),
		investments: storage.NewInvestmentsRepo(db),
	}
}

// Range reports the window a curve actually covered.
type Range struct {
	Preset        Preset `json:"preset"`
	RequestedFrom string `json:"requested_from"`
	RequestedTo   string `json:"requested_to"`
	EffectiveFrom string `json:"effective_from"`
	EffectiveTo   string `json:"effective_to"`
	Points        int    `json:"points"`
}

// CurvePoint is one snapshot date's totals. Class totals are always
// populated; Gross and Net respect the query's filters.
type CurvePoint struct {
	Date            string `json:"snapshot_date"`
	CashCents       int64  `json:"cash_total_cents"`
	RealEstateCents int64  `json:"real_estate_total_cents"`
	InvestmentCents int64  `json:"investment_total_cents"`
	LiabilityCents  int64  `json:"liability_total_cents"`
	GrossCents      int64  `json:"gross_assets_cents"`
	NetCents        int64  `json:"net_assets_cents"`
}

// ClassChange is one total's movement across a window. ChangePct is
// nil when the total did not start positive.
type ClassChange struct {
	StartCents  int64    `json:"start_cents"`
	EndCents    int64    `json:"end_cents"`
	ChangeCents int64    `json:"change_cents"`
	ChangePct   *float64 `json:"change_pct"`
}

// Summary reports start-to-end movement for every tracked total.
type Summary struct {
	Gross      ClassChange `json:"gross_assets"`
	Net        ClassChange `json:"net_assets"`
	Cash       ClassChange `json:"cash"`
	RealEstate ClassChange `json:"real_estate"`
	Investment ClassChange `json:"investment"`
	Liability  ClassChange `json:"liability"`
}

// Curve is a resolved window, its filters, and the carry-forward
// totals per snapshot date.
type Curve struct {
	Range   Range        `json:"range"`
	Filters Filters      `json:"filters"`
	Summary Summary      `json:"summary"`
	Points  []CurvePoint `json:"rows"`
}

// Curve computes per-date wealth totals over a resolved window. Every
// snapshot date inside the window becomes a point; accounts carry
// their last seen value forward between their own snapshots.
func (s *Service) Curve(ctx context.Context, preset Preset, from, to string, filters Filters) (Curve, error) {
	if err := filters.Validate(); err != nil {
		return Curve{}, err
	}

	earliest, latest, err := s.unionBounds(ctx)
	if err != nil {
		return Curve{}, err
	}
	window, err := resolveWindow(preset, from, to, earliest, latest)
	if err != nil {
		return Curve{}, err
	}

	valuations, err := s.valuations.HistoryByClass(ctx, classStrings())
	if err != nil {
		return Curve{}, err
	}
	investments, err := s.investments.History(ctx)
	if err != nil {
		return Curve{}, err
	}

	dates := curveDates(window, valuations, investments)

	classTotals := make(map[ledger.AssetClass]map[string]int64)
	for class, series := range bucketValuations(valuations) {
		classTotals[class] = carryForward(dates, series)
	}
	investmentTotals := carryForward(dates, bucketInvestments(investments))

	points := make([]CurvePoint, 0, len(dates))
	for _, d := range dates {
		p := CurvePoint{
			Date:            d,
			CashCents:       classTotals[ledger.ClassCash][d],
			RealEstateCents: classTotals[ledger.ClassRealEstate][d],
			LiabilityCents:  classTotals[ledger.ClassLiability][d],
			// Investment-class valuations and investment snapshots are
			// distinct account series; both feed the investment total.
			InvestmentCents: classTotals[ledger.ClassInvestment][d] + investmentTotals[d],
		}
		if filters.Cash {
			p.GrossCents += p.CashCents
		}
		if filters.RealEstate {
			p.GrossCents += p.RealEstateCents
		}
		if filters.Investment {
			p.GrossCents += p.InvestmentCents
		}
		p.NetCents = p.GrossCents
		if filters.Liability {
			p.NetCents -= p.LiabilityCents
		}
		points = append(points, p)
	}

	return Curve{
		Range: Range{
			Preset:        window.Preset,
			RequestedFrom: window.RequestedFrom,
			RequestedTo:   window.RequestedTo,
			EffectiveFrom: window.EffectiveFrom,
			EffectiveTo:   window.EffectiveTo,
			Points:        len(points),
		},
		Filters: filters,
		Summary: summarize(points),
		Points:  points,
	}, nil
}

// unionBounds spans both snapshot tables.
func (s *Service) unionBounds(ctx context.Context) (earliest, latest string, err error) {
	vMin, vMax, vOK, err := s.valuations.Bounds(ctx, classStrings())
	if err != nil {
		return "", "", err
	}
	iMin, iMax, iOK, err := s.investments.Bounds(ctx)
	if err != nil {
		return "", "", err
	}

	switch {
	case vOK && iOK:
		earliest, latest = vMin, vMax
		if iMin < earliest {
			earliest = iMin
		}
		if iMax > latest {
			latest = iMax
		}
	case vOK:
		earliest, latest = vMin, vMax
	case iOK:
		earliest, latest = iMin, iMax
	default:
		return "", "", ErrNoData
	}
	return earliest, latest, nil
}

// curveDates is the sorted union of snapshot dates inside the window,
// always including the window bounds themselves.
func curveDates(w Window, valuations []storage.Valuation, investments []storage.InvestmentRecord) []string {
	seen := map[string]bool{
		w.EffectiveFrom: true,
		w.EffectiveTo:   true,
	}
	for _, v := range valuations {
		if v.SnapshotDate >= w.EffectiveFrom && v.SnapshotDate <= w.EffectiveTo {
			seen[v.SnapshotDate] = true
		}
	}
	for _, rec := range investments {
		if rec.SnapshotDate >= w.EffectiveFrom && rec.SnapshotDate <= w.EffectiveTo {
			seen[rec.SnapshotDate] = true
		}
	}

	dates := make([]string, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

type historyPoint struct {
	date  string
	value int64
	flow  int64
}

// carryForward walks each account's date-ordered history across the
// curve dates, holding the last seen value between snapshots, and
// sums accounts into per-date totals. A zero-value row with a
// non-zero flow is a flow-only import placeholder, not a balance, so
// a carried positive balance survives it.
func carryForward(dates []string, byAccount map[string][]historyPoint) map[string]int64 {
	totals := make(map[string]int64, len(dates))
	for _, d := range dates {
		totals[d] = 0
	}

	for _, series := range byAccount {
		idx := 0
		var current int64
		for _, d := range dates {
			for idx < len(series) && series[idx].date <= d {
				raw := series[idx].value
				if raw != 0 || series[idx].flow == 0 || current <= 0 {
					current = raw
				}
				idx++
			}
			totals[d] += current
		}
	}
	return totals
}

func bucketValuations(rows []storage.Valuation) map[ledger.AssetClass]map[string][]historyPoint {
	out := make(map[ledger.AssetClass]map[string][]historyPoint)
	for _, v := range rows {
		class, err := ledger.ParseAssetClass(v.AssetClass)
		if err != nil {
			continue
		}
		series := out[class]
		if series == nil {
			series = make(map[string][]historyPoint)
			out[class] = series
		}
		series[v.AccountID] = append(series[v.AccountID], historyPoint{
			date:  v.SnapshotDate,
			value: v.ValueCents,
		})
	}
	return out
}

func bucketInvestments(rows []storage.InvestmentRecord) map[string][]historyPoint {
	out := make(map[string][]historyPoint)
	for _, rec := range rows {
		out[rec.AccountID] = append(out[rec.AccountID], historyPoint{
			date:  rec.SnapshotDate,
			value: rec.TotalAssetsCents,
			flow:  rec.NetFlowCents,
		})
	}
	return out
}

func summarize(points []CurvePoint) Summary {
	if len(points) == 0 {
		return Summary{}
	}
	first, last := points[0], points[len(points)-1]
	return Summary{
		Gross:      changeBetween(first.GrossCents, last.GrossCents),
		Net:        changeBetween(first.NetCents, last.NetCents),
		Cash:       changeBetween(first.CashCents, last.CashCents),
		RealEstate: changeBetween(first.RealEstateCents, last.RealEstateCents),
		Investment: changeBetween(first.InvestmentCents, last.InvestmentCents),
		Liability:  changeBetween(first.LiabilityCents, last.LiabilityCents),
	}
}

func changeBetween(start, end int64) ClassChange {
	c := ClassChange{StartCents: start, EndCents: end, ChangeCents: end - start}
	if start > 0 {
		pct := roundTo(float64(c.ChangeCents)/float64(start), 8)
		c.ChangePct = &pct
	}
	return c
}

func roundTo(v float64, digits int) float64 {
	factor := math.Pow(10, float64(digits))
	return math.Round(v*factor) / factor
}

func classStrings() []string {
	classes := ledger.Classes()
	out := make([]string, len(classes))
	for i, c := range classes {
		out[i] = c.String()
	}
	return out
}
