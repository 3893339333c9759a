package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Valuation is one account's marked value on one snapshot date.
// SnapshotDate is an ISO date (YYYY-MM-DD); values are integer cents.
type Valuation struct {
	ID           string
	AccountID    string
	AccountName  string
	AssetClass   string
	SnapshotDate string
	ValueCents   int64
	CreatedAt    string
}

type ValuationsRepo struct {
	db *sql.DB
}

func NewValuationsRepo(db *sql.DB) *ValuationsRepo {
	return &ValuationsRepo{db: db}
}

// UpsertBatch writes a batch of valuations in one transaction. An
// existing (account, class, date) row is replaced: re-importing a
// corrected statement overwrites the stale mark.
func (r *ValuationsRepo) UpsertBatch(ctx context.Context, valuations []Valuation) error {
	if len(valuations) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin valuations upsert transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	const upsert = `
INSERT INTO account_valuations (
	id,
	account_id,
	account_name,
	asset_class,
	snapshot_date,
	value_cents,
	created_at
) VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(account_id, asset_class, snapshot_date) DO UPDATE SET
	account_name = excluded.account_name,
	value_cents = excluded.value_cents
`
	for _, v := range valuations {
		id := v.ID
		if id == "" {
			id = uuid.NewString()
		}
		createdAt := v.CreatedAt
		if createdAt == "" {
			createdAt = now
		}
		if _, err = tx.ExecContext(
			ctx,
			upsert,
			id,
			v.AccountID,
			v.AccountName,
			v.AssetClass,
			v.SnapshotDate,
			v.ValueCents,
			createdAt,
		); err != nil {
			return fmt.Errorf("upsert valuation %s/%s/%s: %w", v.AccountID, v.AssetClass, v.SnapshotDate, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit valuations upsert transaction: %w", err)
	}
	return nil
}

// HistoryByClass returns every valuation in the named asset classes,
// ordered for per-account carry-forward (account, then date).
func (r *ValuationsRepo) HistoryByClass(ctx context.Context, classes []string) ([]Valuation, error) {
	if len(classes) == 0 {
		return nil, nil
	}

	q := fmt.Sprintf(
		`SELECT id, account_id, account_name, asset_class, snapshot_date, value_cents, created_at
		 FROM account_valuations
		 WHERE asset_class IN (%s)
		 ORDER BY account_id, snapshot_date`,
		placeholders(len(classes)),
	)
	rows, err := r.db.QueryContext(ctx, q, classArgs(classes)...)
	if err != nil {
		return nil, fmt.Errorf("list valuations by class: %w", err)
	}
	defer rows.Close()

	return scanValuations(rows)
}

// LatestByClass returns each account's newest valuation per asset
// class on or before asOf.
func (r *ValuationsRepo) LatestByClass(ctx context.Context, classes []string, asOf string) ([]Valuation, error) {
	if len(classes) == 0 {
		return nil, nil
	}

	q := fmt.Sprintf(
		`SELECT v.id, v.account_id, v.account_name, v.asset_class, v.snapshot_date, v.value_cents, v.created_at
		 FROM account_valuations v
		 JOIN (
		   SELECT account_id, asset_class, MAX(snapshot_date) AS max_date
		   FROM account_valuations
		   WHERE asset_class IN (%s) AND snapshot_date <= ?
		   GROUP BY account_id, asset_class
		 ) latest
		   ON latest.account_id = v.account_id
		  AND latest.asset_class = v.asset_class
		  AND latest.max_date = v.snapshot_date
		 ORDER BY v.account_name`,
		placeholders(len(classes)),
	)
	args := append(classArgs(classes), asOf)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list latest valuations: %w", err)
	}
	defer rows.Close()

	return scanValuations(rows)
}

// Bounds returns the earliest and latest snapshot dates present for
// the named classes. ok is false when no rows match.
func (r *ValuationsRepo) Bounds(ctx context.Context, classes []string) (earliest, latest string, ok bool, err error) {
	if len(classes) == 0 {
		return "", "", false, nil
	}

	q := fmt.Sprintf(
		`SELECT MIN(snapshot_date), MAX(snapshot_date) FROM account_valuations WHERE asset_class IN (%s)`,
		placeholders(len(classes)),
	)
	var minDate, maxDate sql.NullString
	if err := r.db.QueryRowContext(ctx, q, classArgs(classes)...).Scan(&minDate, &maxDate); err != nil {
		return "", "", false, fmt.Errorf("read valuation bounds: %w", err)
	}
	if !minDate.Valid || !maxDate.Valid {
		return "", "", false, nil
	}
	return minDate.String, maxDate.String, true, nil
}

func scanValuations(rows *sql.Rows) ([]Valuation, error) {
	var out []Valuation
	for rows.Next() {
		var v Valuation
		if err := rows.Scan(
			&v.ID,
			&v.AccountID,
			&v.AccountName,
			&v.AssetClass,
			&v.SnapshotDate,
			&v.ValueCents,
			&v.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan valuation row: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read valuation rows: %w", err)
	}
	return out, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func classArgs(classes []string) []any {
	args := make([]any, len(classes))
	for i, c := range classes {
		args[i] = c
	}
	return args
}
