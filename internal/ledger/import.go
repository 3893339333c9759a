package ledger

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lkettell/nestegg/internal/storage"
)

// Importer ingests CSV files into the ledger tables. Accounts are
// keyed by normalized display name; every file becomes one import_log
// batch.
type Importer struct {
	accounts    *storage.AccountsRepo
	valuations  *storage.ValuationsRepo
	investments *storage.InvestmentsRepo
	importLog   *storage.ImportLogRepo
	log         *zap.Logger
}

func NewImporter(db *sql.DB, log *zap.Logger) *Importer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Importer{
		accounts:    storage.NewAccountsRepo(db),
		valuations:  storage.NewValuationsRepo(db),
		investments: storage.NewInvestmentsRepo(db),
		importLog:   storage.NewImportLogRepo(db),
		log:         log,
	}
}

// ImportResult summarizes one ingested file.
type ImportResult struct {
	BatchID    string
	SourceFile string
	Kind       CSVKind
	Rows       int
	PerClass   map[AssetClass]int
}

// ImportCSV sniffs the file's header and routes it to the matching
// ingest path.
func (imp *Importer) ImportCSV(ctx context.Context, path string) (ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return ImportResult{}, fmt.Errorf("open csv %s: %w", path, err)
	}
	header, err := peekHeader(f)
	closeErr := f.Close()
	if err != nil {
		return ImportResult{}, fmt.Errorf("read csv header %s: %w", path, err)
	}
	if closeErr != nil {
		return ImportResult{}, fmt.Errorf("close csv %s: %w", path, closeErr)
	}

	kind, err := DetectCSVKind(header)
	if err != nil {
		return ImportResult{}, err
	}
	switch kind {
	case CSVInvestments:
		return imp.ImportInvestmentsCSV(ctx, path)
	default:
		return imp.ImportValuationsCSV(ctx, path)
	}
}

// ImportValuationsCSV parses and upserts a valuations file, then
// records the batch.
func (imp *Importer) ImportValuationsCSV(ctx context.Context, path string) (ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return ImportResult{}, fmt.Errorf("open csv %s: %w", path, err)
	}
	rows, err := ReadValuationsCSV(f)
	closeErr := f.Close()
	if err != nil {
		return ImportResult{}, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	if closeErr != nil {
		return ImportResult{}, fmt.Errorf("close csv %s: %w", path, closeErr)
	}
	if len(rows) == 0 {
		return ImportResult{}, fmt.Errorf("%s has no data rows", filepath.Base(path))
	}

	perClass := make(map[AssetClass]int)
	batch := make([]storage.Valuation, 0, len(rows))
	for _, row := range rows {
		acct, err := imp.accounts.EnsureByName(ctx, row.AccountName)
		if err != nil {
			return ImportResult{}, err
		}
		batch = append(batch, storage.Valuation{
			AccountID:    acct.ID,
			AccountName:  acct.Name,
			AssetClass:   row.Class.String(),
			SnapshotDate: row.Date,
			ValueCents:   row.ValueCents,
		})
		perClass[row.Class]++
	}

	if err := imp.valuations.UpsertBatch(ctx, batch); err != nil {
		return ImportResult{}, err
	}

	result := ImportResult{
		BatchID:    uuid.NewString(),
		SourceFile: filepath.Base(path),
		Kind:       CSVValuations,
		Rows:       len(batch),
		PerClass:   perClass,
	}
	if err := imp.recordBatch(ctx, result); err != nil {
		return ImportResult{}, err
	}

	fields := []zap.Field{
		zap.String("batch_id", result.BatchID),
		zap.String("file", result.SourceFile),
		zap.Int("rows", result.Rows),
	}
	for class, count := range perClass {
		fields = append(fields, zap.Int(class.String(), count))
	}
	imp.log.Info("imported valuations", fields...)

	return result, nil
}

// ImportInvestmentsCSV parses and upserts an investment snapshots
// file, then records the batch.
func (imp *Importer) ImportInvestmentsCSV(ctx context.Context, path string) (ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return ImportResult{}, fmt.Errorf("open csv %s: %w", path, err)
	}
	rows, err := ReadInvestmentsCSV(f)
	closeErr := f.Close()
	if err != nil {
		return ImportResult{}, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	if closeErr != nil {
		return ImportResult{}, fmt.Errorf("close csv %s: %w", path, closeErr)
	}
	if len(rows) == 0 {
		return ImportResult{}, fmt.Errorf("%s has no data rows", filepath.Base(path))
	}

	batch := make([]storage.InvestmentRecord, 0, len(rows))
	for _, row := range rows {
		acct, err := imp.accounts.EnsureByName(ctx, row.AccountName)
		if err != nil {
			return ImportResult{}, err
		}
		batch = append(batch, storage.InvestmentRecord{
			AccountID:        acct.ID,
			SnapshotDate:     row.Date,
			TotalAssetsCents: row.TotalAssetsCents,
			NetFlowCents:     row.NetFlowCents,
		})
	}

	if err := imp.investments.UpsertBatch(ctx, batch); err != nil {
		return ImportResult{}, err
	}

	result := ImportResult{
		BatchID:    uuid.NewString(),
		SourceFile: filepath.Base(path),
		Kind:       CSVInvestments,
		Rows:       len(batch),
	}
	if err := imp.recordBatch(ctx, result); err != nil {
		return ImportResult{}, err
	}

	imp.log.Info("imported investment snapshots",
		zap.String("batch_id", result.BatchID),
		zap.String("file", result.SourceFile),
		zap.Int("rows", result.Rows),
	)

	return result, nil
}

func (imp *Importer) recordBatch(ctx context.Context, result ImportResult) error {
	_, err := imp.importLog.Insert(ctx, storage.ImportLogEntry{
		BatchID:      result.BatchID,
		SourceFile:   result.SourceFile,
		RowsImported: result.Rows,
	})
	return err
}

func peekHeader(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv is empty")
	}
	return header, err
}
