package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Account struct {
	ID        string
	Name      string
	CreatedAt string
	Archived  bool
}

type AccountsRepo struct {
	db *sql.DB
}

func NewAccountsRepo(db *sql.DB) *AccountsRepo {
	return &AccountsRepo{db: db}
}

func (r *AccountsRepo) HasAccounts(ctx context.Context) (bool, error) {
	var exists int
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM accounts WHERE archived = 0 LIMIT 1)`).Scan(&exists); err != nil {
		return false, fmt.Errorf("check accounts: %w", err)
	}
	return exists == 1, nil
}

// EnsureByName returns the account with the given display name,
// creating it when absent. The name is whitespace-normalized first so
// imports never fork an account over spacing.
func (r *AccountsRepo) EnsureByName(ctx context.Context, name string) (Account, error) {
	normalized := normalizeText(name)
	if normalized == "" {
		return Account{}, fmt.Errorf("ensure account: name is empty")
	}

	acct, found, err := r.getByName(ctx, normalized)
	if err != nil {
		return Account{}, err
	}
	if found {
		return acct, nil
	}

	acct = Account{
		ID:        uuid.NewString(),
		Name:      normalized,
		CreatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
	if _, err := r.db.ExecContext(
		ctx,
		`INSERT INTO accounts (id, name, created_at, archived) VALUES (?, ?, ?, 0)
		 ON CONFLICT(name) DO NOTHING`,
		acct.ID,
		acct.Name,
		acct.CreatedAt,
	); err != nil {
		return Account{}, fmt.Errorf("insert account %q: %w", normalized, err)
	}

	// Re-read in case a concurrent writer won the name race.
	acct, found, err = r.getByName(ctx, normalized)
	if err != nil {
		return Account{}, err
	}
	if !found {
		return Account{}, fmt.Errorf("ensure account %q: row missing after insert", normalized)
	}
	return acct, nil
}

func (r *AccountsRepo) getByName(ctx context.Context, name string) (Account, bool, error) {
	var acct Account
	var archived int
	err := r.db.QueryRowContext(
		ctx,
		`SELECT id, name, created_at, archived FROM accounts WHERE name = ?`,
		name,
	).Scan(&acct.ID, &acct.Name, &acct.CreatedAt, &archived)
	if err != nil {
		if err == sql.ErrNoRows {
			return Account{}, false, nil
		}
		return Account{}, false, fmt.Errorf("get account %q: %w", name, err)
	}
	acct.Archived = archived == 1
	return acct, true, nil
}

func (r *AccountsRepo) List(ctx context.Context) ([]Account, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT id, name, created_at, archived FROM accounts ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []Account
	for rows.Next() {
		var acct Account
		var archived int
		if err := rows.Scan(&acct.ID, &acct.Name, &acct.CreatedAt, &archived); err != nil {
			return nil, fmt.Errorf("scan account row: %w", err)
		}
		acct.Archived = archived == 1
		accounts = append(accounts, acct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read account rows: %w", err)
	}
	return accounts, nil
}

func (r *AccountsRepo) SetArchived(ctx context.Context, id string, archived bool) error {
	value := 0
	if archived {
		value = 1
	}
	res, err := r.db.ExecContext(ctx, `UPDATE accounts SET archived = ? WHERE id = ?`, value, id)
	if err != nil {
		return fmt.Errorf("set account %q archived: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read archived rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("set account %q archived: no such account", id)
	}
	return nil
}
