package wealth

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/lkettell/nestegg/internal/ledger"
)

// OverviewRow is one account's newest mark at the overview date.
// StaleDays counts how far that mark lags the overview date.
type OverviewRow struct {
	AssetClass   string `json:"asset_class"`
	AccountID    string `json:"account_id"`
	AccountName  string `json:"account_name"`
	SnapshotDate string `json:"snapshot_date"`
	ValueCents   int64  `json:"value_cents"`
	StaleDays    int    `json:"stale_days"`
}

// OverviewSummary totals the latest marks. Class totals ignore the
// filters; Gross, Net, and StaleAccounts respect them.
type OverviewSummary struct {
	CashCents       int64 `json:"cash_total_cents"`
	RealEstateCents int64 `json:"real_estate_total_cents"`
	InvestmentCents int64 `json:"investment_total_cents"`
	LiabilityCents  int64 `json:"liability_total_cents"`
	GrossCents      int64 `json:"gross_assets_cents"`
	NetCents        int64 `json:"net_assets_cents"`
	StaleAccounts   int   `json:"stale_accounts"`
}

// Overview is the standing of every account at one date. Rows hold
// only the selected classes, grouped in presentation order and sorted
// largest first within each class.
type Overview struct {
	AsOf          string          `json:"as_of"`
	RequestedAsOf string          `json:"requested_as_of"`
	Filters       Filters         `json:"filters"`
	Summary       OverviewSummary `json:"summary"`
	Rows          []OverviewRow   `json:"rows"`
}

// Overview reports each account's latest value on or before asOf. An
// empty asOf means the newest snapshot anywhere; a future asOf is
// clamped back to it.
func (s *Service) Overview(ctx context.Context, asOf string, filters Filters) (Overview, error) {
	if err := filters.Validate(); err != nil {
		return Overview{}, err
	}

	_, latest, err := s.unionBounds(ctx)
	if err != nil {
		return Overview{}, err
	}

	requested := latest
	if strings.TrimSpace(asOf) != "" {
		requestedD, err := parseISO(asOf, "as_of")
		if err != nil {
			return Overview{}, err
		}
		requested = fmtISO(requestedD)
	}
	effective := requested
	if latest < effective {
		effective = latest
	}
	effectiveD, err := parseISO(effective, "as_of")
	if err != nil {
		return Overview{}, err
	}

	valuations, err := s.valuations.LatestByClass(ctx, classStrings(), effective)
	if err != nil {
		return Overview{}, err
	}
	investments, err := s.investments.Latest(ctx, effective)
	if err != nil {
		return Overview{}, err
	}

	byClass := make(map[ledger.AssetClass][]OverviewRow)
	for _, v := range valuations {
		class, err := ledger.ParseAssetClass(v.AssetClass)
		if err != nil {
			continue
		}
		byClass[class] = append(byClass[class], OverviewRow{
			AssetClass:   class.String(),
			AccountID:    v.AccountID,
			AccountName:  v.AccountName,
			SnapshotDate: v.SnapshotDate,
			ValueCents:   v.ValueCents,
			StaleDays:    staleDays(effectiveD, v.SnapshotDate),
		})
	}
	for _, rec := range investments {
		byClass[ledger.ClassInvestment] = append(byClass[ledger.ClassInvestment], OverviewRow{
			AssetClass:   ledger.ClassInvestment.String(),
			AccountID:    rec.AccountID,
			AccountName:  rec.AccountName,
			SnapshotDate: rec.SnapshotDate,
			ValueCents:   rec.TotalAssetsCents,
			StaleDays:    staleDays(effectiveD, rec.SnapshotDate),
		})
	}

	var summary OverviewSummary
	var rows []OverviewRow
	for _, class := range ledger.Classes() {
		classRows := byClass[class]
		sort.SliceStable(classRows, func(i, j int) bool {
			if classRows[i].ValueCents != classRows[j].ValueCents {
				return classRows[i].ValueCents > classRows[j].ValueCents
			}
			return classRows[i].AccountName < classRows[j].AccountName
		})

		var total int64
		for _, row := range classRows {
			total += row.ValueCents
		}
		switch class {
		case ledger.ClassCash:
			summary.CashCents = total
		case ledger.ClassRealEstate:
			summary.RealEstateCents = total
		case ledger.ClassInvestment:
			summary.InvestmentCents = total
		case ledger.ClassLiability:
			summary.LiabilityCents = total
		}

		if filters.Enabled(class) {
			rows = append(rows, classRows...)
		}
	}

	if filters.Cash {
		summary.GrossCents += summary.CashCents
	}
	if filters.RealEstate {
		summary.GrossCents += summary.RealEstateCents
	}
	if filters.Investment {
		summary.GrossCents += summary.InvestmentCents
	}
	summary.NetCents = summary.GrossCents
	if filters.Liability {
		summary.NetCents -= summary.LiabilityCents
	}
	for _, row := range rows {
		if row.StaleDays > 0 {
			summary.StaleAccounts++
		}
	}

	return Overview{
		AsOf:          effective,
		RequestedAsOf: requested,
		Filters:       filters,
		Summary:       summary,
		Rows:          rows,
	}, nil
}

func staleDays(asOf time.Time, snapshot string) int {
	t, err := time.Parse(isoDate, snapshot)
	if err != nil {
		return 0
	}
	return int(asOf.Sub(t).Hours() / 24)
}
