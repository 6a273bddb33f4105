package session

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/voicediary/internal/dbx"
)

// Repository stores the session fields as text rows keyed by name.
type Repository interface {
	Put(ctx context.Context, key, value string) error
	All(ctx context.Context) (map[string]string, error)
	Clear(ctx context.Context) error
}

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Put(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO session (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("session put %q: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM session`); err != nil {
		return fmt.Errorf("session clear: %w", err)
	}
	return nil
}

type field struct{ key, value string }

func (r *SQLiteRepository) All(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM session`)
	if err != nil {
		return nil, fmt.Errorf("session list: %w", err)
	}
	fields, err := dbx.Collect(rows, func(rows *sql.Rows) (field, error) {
		var f field
		return f, rows.Scan(&f.key, &f.value)
	})
	if err != nil {
		return nil, fmt.Errorf("session list: %w", err)
	}

	out := make(map[string]string, len(fields))
	for _, f := range fields {
		out[f.key] = f.value
	}
	return out, nil
}
