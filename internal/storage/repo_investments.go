package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// InvestmentRecord is one investment account snapshot: the account's
// total market value plus any external transfer booked on that date.
// Transfers are signed cents (deposits positive, withdrawals negative).
// AccountName is joined from accounts on reads; writes ignore it.
type InvestmentRecord struct {
	ID               string
	AccountID        string
	AccountName      string
	SnapshotDate     string
	TotalAssetsCents int64
	NetFlowCents     int64
	CreatedAt        string
}

type InvestmentsRepo struct {
	db *sql.DB
}

func NewInvestmentsRepo(db *sql.DB) *InvestmentsRepo {
	return &InvestmentsRepo{db: db}
}

// UpsertBatch writes a snapshot batch in one transaction, replacing
// any existing (account, date) rows.
func (r *InvestmentsRepo) UpsertBatch(ctx context.Context, records []InvestmentRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin investment upsert transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	const upsert = `
INSERT INTO investment_records (
	id,
	account_id,
	snapshot_date,
	total_assets_cents,
	transfer_amount_cents,
	created_at
) VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(account_id, snapshot_date) DO UPDATE SET
	total_assets_cents = excluded.total_assets_cents,
	transfer_amount_cents = excluded.transfer_amount_cents
`
	for _, rec := range records {
		id := rec.ID
		if id == "" {
			id = uuid.NewString()
		}
		createdAt := rec.CreatedAt
		if createdAt == "" {
			createdAt = now
		}
		if _, err = tx.ExecContext(
			ctx,
			upsert,
			id,
			rec.AccountID,
			rec.SnapshotDate,
			rec.TotalAssetsCents,
			rec.NetFlowCents,
			createdAt,
		); err != nil {
			return fmt.Errorf("upsert investment record %s/%s: %w", rec.AccountID, rec.SnapshotDate, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit investment upsert transaction: %w", err)
	}
	return nil
}

// History returns every investment snapshot ordered for per-account
// carry-forward (account, then date).
func (r *InvestmentsRepo) History(ctx context.Context) ([]InvestmentRecord, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT i.id, i.account_id, COALESCE(a.name, i.account_id), i.snapshot_date,
		        i.total_assets_cents, i.transfer_amount_cents, i.created_at
		 FROM investment_records i
		 LEFT JOIN accounts a ON a.id = i.account_id
		 ORDER BY i.account_id, i.snapshot_date`,
	)
	if err != nil {
		return nil, fmt.Errorf("list investment records: %w", err)
	}
	defer rows.Close()

	return scanInvestmentRecords(rows)
}

// Latest returns each account's newest positive snapshot on or before
// asOf. Flow-only imports write rows with a zero total; those are
// placeholders, not balances, and are skipped here.
func (r *InvestmentsRepo) Latest(ctx context.Context, asOf string) ([]InvestmentRecord, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT i.id, i.account_id, COALESCE(a.name, i.account_id) AS account_name, i.snapshot_date,
		        i.total_assets_cents, i.transfer_amount_cents, i.created_at
		 FROM investment_records i
		 JOIN (
		   SELECT account_id, MAX(snapshot_date) AS max_date
		   FROM investment_records
		   WHERE snapshot_date <= ? AND total_assets_cents > 0
		   GROUP BY account_id
		 ) latest ON latest.account_id = i.account_id AND latest.max_date = i.snapshot_date
		 LEFT JOIN accounts a ON a.id = i.account_id
		 ORDER BY i.total_assets_cents DESC, account_name`,
		asOf,
	)
	if err != nil {
		return nil, fmt.Errorf("list latest investment records: %w", err)
	}
	defer rows.Close()

	return scanInvestmentRecords(rows)
}

// Bounds returns the earliest and latest snapshot dates present. ok is
// false when the table is empty.
func (r *InvestmentsRepo) Bounds(ctx context.Context) (earliest, latest string, ok bool, err error) {
	var minDate, maxDate sql.NullString
	if err := r.db.QueryRowContext(
		ctx,
		`SELECT MIN(snapshot_date), MAX(snapshot_date) FROM investment_records`,
	).Scan(&minDate, &maxDate); err != nil {
		return "", "", false, fmt.Errorf("read investment bounds: %w", err)
	}
	if !minDate.Valid || !maxDate.Valid {
		return "", "", false, nil
	}
	return minDate.String, maxDate.String, true, nil
}

func scanInvestmentRecords(rows *sql.Rows) ([]InvestmentRecord, error) {
	var out []InvestmentRecord
	for rows.Next() {
		var rec InvestmentRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.AccountID,
			&rec.AccountName,
			&rec.SnapshotDate,
			&rec.TotalAssetsCents,
			&rec.NetFlowCents,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan investment record row: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read investment record rows: %w", err)
	}
	return out, nil
}
