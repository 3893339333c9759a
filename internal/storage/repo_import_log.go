package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ImportLogEntry records one file ingested in an import batch.
type ImportLogEntry struct {
	ID           string
	BatchID      string
	SourceFile   string
	RowsImported int
	ImportedAt   string
}

type ImportLogRepo struct {
	db *sql.DB
}

func NewImportLogRepo(db *sql.DB) *ImportLogRepo {
	return &ImportLogRepo{db: db}
}

func (r *ImportLogRepo) Insert(ctx context.Context, entry ImportLogEntry) (ImportLogEntry, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.ImportedAt == "" {
		entry.ImportedAt = time.Now().UTC().Format(time.RFC3339Nano)
	}

	if _, err := r.db.ExecContext(
		ctx,
		`INSERT INTO import_log (id, batch_id, source_file, rows_imported, imported_at)
		 VALUES (?, ?, ?, ?, ?)`,
		entry.ID,
		entry.BatchID,
		entry.SourceFile,
		entry.RowsImported,
		entry.ImportedAt,
	); err != nil {
		return ImportLogEntry{}, fmt.Errorf("insert import log entry: %w", err)
	}
	return entry, nil
}

func (r *ImportLogRepo) Recent(ctx context.Context, limit int) ([]ImportLogEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT id, batch_id, source_file, rows_imported, imported_at
		 FROM import_log
		 ORDER BY imported_at DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list import log: %w", err)
	}
	defer rows.Close()

	var entries []ImportLogEntry
	for rows.Next() {
		var entry ImportLogEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.BatchID,
			&entry.SourceFile,
			&entry.RowsImported,
			&entry.ImportedAt,
		); err != nil {
			return nil, fmt.Errorf("scan import log row: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read import log rows: %w", err)
	}
	return entries, nil
}
