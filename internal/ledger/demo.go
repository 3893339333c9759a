package ledger

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lkettell/nestegg/internal/storage"
)

// DemoData is a generated ledger history across all four asset
// classes plus two investment accounts.
type DemoData struct {
	Valuations  []ValuationRow
	Investments []InvestmentRow
}

type demoAccount struct {
	name  string
	class AssetClass
	start int64
	drift float64
	vol   float64
}

var demoValuationAccounts = []demoAccount{
	{name: "Everyday Offset", class: ClassCash, start: 1_800_000, drift: 0.004, vol: 0.05},
	{name: "Term Deposit", class: ClassCash, start: 3_500_000, drift: 0.003, vol: 0.001},
	{name: "Primary Residence", class: ClassRealEstate, start: 82_000_000, drift: 0.004, vol: 0.006},
	{name: "Home Loan", class: ClassLiability, start: 61_200_000, drift: -0.004, vol: 0.001},
}

var demoInvestmentAccounts = []demoAccount{
	{name: "Index Portfolio", class: ClassInvestment, start: 9_500_000, drift: 0.006, vol: 0.03},
	{name: "Super Fund", class: ClassInvestment, start: 21_000_000, drift: 0.005, vol: 0.02},
}

// DemoDataset builds a deterministic random-walk history: monthly
// snapshots ending in end's month, oldest first. The same seed always
// produces the same rows.
func DemoDataset(seed int64, months int, end time.Time) DemoData {
	if months < 1 {
		months = 1
	}
	rng := rand.New(rand.NewSource(seed))
	dates := monthlyDates(end, months)

	var data DemoData
	for _, acct := range demoValuationAccounts {
		value := acct.start
		for _, date := range dates {
			value = walkCents(rng, value, acct.drift, acct.vol)
			data.Valuations = append(data.Valuations, ValuationRow{
				Date:        date,
				AccountName: acct.name,
				Class:       acct.class,
				ValueCents:  value,
			})
		}
	}

	for _, acct := range demoInvestmentAccounts {
		total := acct.start
		for i, date := range dates {
			total = walkCents(rng, total, acct.drift, acct.vol)
			var flow int64
			// A contribution lands every third month.
			if i%3 == 2 {
				flow = 500_000
				total += flow
			}
			data.Investments = append(data.Investments, InvestmentRow{
				Date:             date,
				AccountName:      acct.name,
				TotalAssetsCents: total,
				NetFlowCents:     flow,
			})
		}
	}

	return data
}

// DemoSummary reports what SeedDemo wrote.
type DemoSummary struct {
	BatchID     string
	Months      int
	Valuations  int
	Investments int
}

// SeedDemo generates and stores a demo dataset, recorded as one
// import batch.
func (imp *Importer) SeedDemo(ctx context.Context, seed int64, months int, end time.Time) (DemoSummary, error) {
	data := DemoDataset(seed, months, end)

	valuations := make([]storage.Valuation, 0, len(data.Valuations))
	for _, row := range data.Valuations {
		acct, err := imp.accounts.EnsureByName(ctx, row.AccountName)
		if err != nil {
			return DemoSummary{}, err
		}
		valuations = append(valuations, storage.Valuation{
			AccountID:    acct.ID,
			AccountName:  acct.Name,
			AssetClass:   row.Class.String(),
			SnapshotDate: row.Date,
			ValueCents:   row.ValueCents,
		})
	}
	if err := imp.valuations.UpsertBatch(ctx, valuations); err != nil {
		return DemoSummary{}, err
	}

	investments := make([]storage.InvestmentRecord, 0, len(data.Investments))
	for _, row := range data.Investments {
		acct, err := imp.accounts.EnsureByName(ctx, row.AccountName)
		if err != nil {
			return DemoSummary{}, err
		}
		investments = append(investments, storage.InvestmentRecord{
			AccountID:        acct.ID,
			SnapshotDate:     row.Date,
			TotalAssetsCents: row.TotalAssetsCents,
			NetFlowCents:     row.NetFlowCents,
		})
	}
	if err := imp.investments.UpsertBatch(ctx, investments); err != nil {
		return DemoSummary{}, err
	}

	summary := DemoSummary{
		BatchID:     uuid.NewString(),
		Months:      months,
		Valuations:  len(valuations),
		Investments: len(investments),
	}
	if _, err := imp.importLog.Insert(ctx, storage.ImportLogEntry{
		BatchID:      summary.BatchID,
		SourceFile:   "demo-dataset",
		RowsImported: summary.Valuations + summary.Investments,
	}); err != nil {
		return DemoSummary{}, err
	}

	imp.log.Info("seeded demo dataset",
		zap.String("batch_id", summary.BatchID),
		zap.Int("months", summary.Months),
		zap.Int("valuations", summary.Valuations),
		zap.Int("investments", summary.Investments),
	)

	return summary, nil
}

func monthlyDates(end time.Time, months int) []string {
	dates := make([]string, 0, months)
	anchor := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
	for i := months - 1; i >= 0; i-- {
		dates = append(dates, anchor.AddDate(0, -i, 0).Format(isoDate))
	}
	return dates
}

func walkCents(rng *rand.Rand, value int64, drift, vol float64) int64 {
	growth := 1 + drift + vol*(rng.Float64()*2-1)
	next := int64(float64(value) * growth)
	if next < 0 {
		next = 0
	}
	return next
}
