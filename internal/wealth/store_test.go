package wealth

import (
	"context"
	"sort"

	"github.com/lkettell/nestegg/internal/storage"
)

// fakeValuations mirrors ValuationsRepo query semantics over an
// in-memory slice.
type fakeValuations struct {
	rows []storage.Valuation
	err  error
}

func (f *fakeValuations) HistoryByClass(_ context.Context, classes []string) ([]storage.Valuation, error) {
	if f.err != nil {
		return nil, f.err
	}
	allowed := classSet(classes)
	var out []storage.Valuation
	for _, v := range f.rows {
		if allowed[v.AssetClass] {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AccountID != out[j].AccountID {
			return out[i].AccountID < out[j].AccountID
		}
		return out[i].SnapshotDate < out[j].SnapshotDate
	})
	return out, nil
}

func (f *fakeValuations) LatestByClass(_ context.Context, classes []string, asOf string) ([]storage.Valuation, error) {
	if f.err != nil {
		return nil, f.err
	}
	allowed := classSet(classes)
	latest := make(map[string]storage.Valuation)
	for _, v := range f.rows {
		if !allowed[v.AssetClass] || v.SnapshotDate > asOf {
			continue
		}
		key := v.AccountID + "|" + v.AssetClass
		if cur, ok := latest[key]; !ok || v.SnapshotDate > cur.SnapshotDate {
			latest[key] = v
		}
	}
	out := make([]storage.Valuation, 0, len(latest))
	for _, v := range latest {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountName < out[j].AccountName })
	return out, nil
}

func (f *fakeValuations) Bounds(_ context.Context, classes []string) (string, string, bool, error) {
	if f.err != nil {
		return "", "", false, f.err
	}
	allowed := classSet(classes)
	var earliest, latest string
	for _, v := range f.rows {
		if !allowed[v.AssetClass] {
			continue
		}
		if earliest == "" || v.SnapshotDate < earliest {
			earliest = v.SnapshotDate
		}
		if latest == "" || v.SnapshotDate > latest {
			latest = v.SnapshotDate
		}
	}
	if earliest == "" {
		return "", "", false, nil
	}
	return earliest, latest, true, nil
}

// fakeInvestments mirrors InvestmentsRepo query semantics over an
// in-memory slice, including the zero-total skip in Latest.
type fakeInvestments struct {
	rows []storage.InvestmentRecord
	err  error
}

func (f *fakeInvestments) History(_ context.Context) ([]storage.InvestmentRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := append([]storage.InvestmentRecord(nil), f.rows...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].AccountID != out[j].AccountID {
			return out[i].AccountID < out[j].AccountID
		}
		return out[i].SnapshotDate < out[j].SnapshotDate
	})
	return out, nil
}

func (f *fakeInvestments) Latest(_ context.Context, asOf string) ([]storage.InvestmentRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	latest := make(map[string]storage.InvestmentRecord)
	for _, rec := range f.rows {
		if rec.SnapshotDate > asOf || rec.TotalAssetsCents <= 0 {
			continue
		}
		if cur, ok := latest[rec.AccountID]; !ok || rec.SnapshotDate > cur.SnapshotDate {
			latest[rec.AccountID] = rec
		}
	}
	out := make([]storage.InvestmentRecord, 0, len(latest))
	for _, rec := range latest {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalAssetsCents != out[j].TotalAssetsCents {
			return out[i].TotalAssetsCents > out[j].TotalAssetsCents
		}
		return out[i].AccountName < out[j].AccountName
	})
	return out, nil
}

func (f *fakeInvestments) Bounds(_ context.Context) (string, string, bool, error) {
	if f.err != nil {
		return "", "", false, f.err
	}
	var earliest, latest string
	for _, rec := range f.rows {
		if earliest == "" || rec.SnapshotDate < earliest {
			earliest = rec.SnapshotDate
		}
		if latest == "" || rec.SnapshotDate > latest {
			latest = rec.SnapshotDate
		}
	}
	if earliest == "" {
		return "", "", false, nil
	}
	return earliest, latest, true, nil
}

func classSet(classes []string) map[string]bool {
	set := make(map[string]bool, len(classes))
	for _, c := range classes {
		set[c] = true
	}
	return set
}

func newTestService(valuations []storage.Valuation, investments []storage.InvestmentRecord) *Service {
	return &Service{
		valuations:  &fakeValuations{rows: valuations},
		investments: &fakeInvestments{rows: investments},
	}
}
