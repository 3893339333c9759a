package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"
)

// ValuationRow is one parsed line of a valuations CSV.
type ValuationRow struct {
	Date        string
	AccountName string
	Class       AssetClass
	ValueCents  int64
}

// InvestmentRow is one parsed line of an investment snapshots CSV.
type InvestmentRow struct {
	Date             string
	AccountName      string
	TotalAssetsCents int64
	NetFlowCents     int64
}

// CSVKind identifies which table a file feeds, detected from its
// header.
type CSVKind string

const (
	CSVValuations  CSVKind = "valuations"
	CSVInvestments CSVKind = "investments"
)

const isoDate = "2006-01-02"

// DetectCSVKind classifies a header line: a value column means
// valuations, a total_assets column means investment snapshots.
func DetectCSVKind(header []string) (CSVKind, error) {
	cols := make(map[string]bool, len(header))
	for _, h := range header {
		cols[foldHeader(h)] = true
	}
	switch {
	case cols["value"]:
		return CSVValuations, nil
	case cols["total_assets"]:
		return CSVInvestments, nil
	default:
		return "", fmt.Errorf("unrecognized csv header %v: need a value or total_assets column", header)
	}
}

// ReadValuationsCSV parses a header-mapped valuations file. Required
// columns: date, account_name, asset_class, value. Errors carry the
// 1-based line number of the offending row.
func ReadValuationsCSV(r io.Reader) ([]ValuationRow, error) {
	records, header, err := readCSV(r)
	if err != nil {
		return nil, err
	}

	idx, err := headerIndex(header, "date", "account_name", "asset_class", "value")
	if err != nil {
		return nil, err
	}

	rows := make([]ValuationRow, 0, len(records))
	for _, rec := range records {
		line := rec.line
		date, err := parseISODate(rec.field(idx["date"]))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		name := strings.TrimSpace(rec.field(idx["account_name"]))
		if name == "" {
			return nil, fmt.Errorf("line %d: account_name is empty", line)
		}
		class, err := ParseAssetClass(rec.field(idx["asset_class"]))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		cents, err := ParseCents(rec.field(idx["value"]))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		rows = append(rows, ValuationRow{
			Date:        date,
			AccountName: name,
			Class:       class,
			ValueCents:  cents,
		})
	}
	return rows, nil
}

// ReadInvestmentsCSV parses a header-mapped investment snapshots file.
// Required columns: date, account_name, total_assets; net_flow is
// optional and defaults to zero.
func ReadInvestmentsCSV(r io.Reader) ([]InvestmentRow, error) {
	records, header, err := readCSV(r)
	if err != nil {
		return nil, err
	}

	idx, err := headerIndex(header, "date", "account_name", "total_assets")
	if err != nil {
		return nil, err
	}
	flowIdx := -1
	for i, h := range header {
		if foldHeader(h) == "net_flow" {
			flowIdx = i
		}
	}

	rows := make([]InvestmentRow, 0, len(records))
	for _, rec := range records {
		line := rec.line
		date, err := parseISODate(rec.field(idx["date"]))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		name := strings.TrimSpace(rec.field(idx["account_name"]))
		if name == "" {
			return nil, fmt.Errorf("line %d: account_name is empty", line)
		}
		total, err := ParseCents(rec.field(idx["total_assets"]))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		var flow int64
		if flowIdx >= 0 {
			raw := strings.TrimSpace(rec.field(flowIdx))
			if raw != "" {
				flow, err = ParseCents(raw)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", line, err)
				}
			}
		}

		rows = append(rows, InvestmentRow{
			Date:             date,
			AccountName:      name,
			TotalAssetsCents: total,
			NetFlowCents:     flow,
		})
	}
	return rows, nil
}

type csvRecord struct {
	line   int
	fields []string
}

func (r csvRecord) field(i int) string {
	if i < 0 || i >= len(r.fields) {
		return ""
	}
	return r.fields[i]
}

func readCSV(r io.Reader) ([]csvRecord, []string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("csv is empty")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read csv header: %w", err)
	}

	var records []csvRecord
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read csv: %w", err)
		}
		if isBlankRecord(fields) {
			continue
		}
		line, _ := reader.FieldPos(0)
		records = append(records, csvRecord{line: line, fields: fields})
	}
	return records, header, nil
}

func headerIndex(header []string, required ...string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[foldHeader(h)] = i
	}
	for _, name := range required {
		if _, ok := idx[name]; !ok {
			return nil, fmt.Errorf("csv header is missing required column %q", name)
		}
	}
	return idx, nil
}

func foldHeader(h string) string {
	folded := strings.ToLower(strings.TrimSpace(h))
	return strings.ReplaceAll(strings.ReplaceAll(folded, " ", "_"), "-", "_")
}

func isBlankRecord(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func parseISODate(s string) (string, error) {
	trimmed := strings.TrimSpace(s)
	t, err := time.Parse(isoDate, trimmed)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return t.Format(isoDate), nil
}
