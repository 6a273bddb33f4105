// Package entries provides the PostgreSQL-backed remote diary entry store.
package entries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/voicediary/internal/common"
	"github.com/dmitrijs2005/voicediary/internal/dbx"
	"github.com/dmitrijs2005/voicediary/internal/server/models"
)

// PostgresRepository implements entry storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const entryColumns = `user_id, to_char(date, 'YYYY-MM-DD'), summary, audio_key, image_key, is_public, is_edited, updated_at`

func scanEntry(row interface{ Scan(...any) error }) (*models.Entry, error) {
	e := &models.Entry{}
	if err := row.Scan(&e.UserID, &e.Date, &e.Summary, &e.AudioKey, &e.ImageKey, &e.IsPublic, &e.IsEdited, &e.UpdatedAt); err != nil {
		return nil, err
	}
	return e, nil
}

// Upsert creates or replaces the row for (user, date). A finalized row keeps
// its summary and stays finalized; empty media keys keep the stored ones.
func (r *PostgresRepository) Upsert(ctx context.Context, entry *models.Entry) error {
	query := `
		INSERT INTO entries (user_id, date, summary, audio_key, image_key, is_public, is_edited, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (user_id, date)
		DO UPDATE SET
			summary = CASE WHEN entries.is_edited THEN entries.summary ELSE EXCLUDED.summary END,
			audio_key = COALESCE(NULLIF(EXCLUDED.audio_key, ''), entries.audio_key),
			image_key = COALESCE(NULLIF(EXCLUDED.image_key, ''), entries.image_key),
			is_public = EXCLUDED.is_public,
			is_edited = entries.is_edited OR EXCLUDED.is_edited,
			updated_at = now()
	`
	_, err := r.db.ExecContext(ctx, query,
		entry.UserID, entry.Date, entry.Summary, entry.AudioKey, entry.ImageKey, entry.IsPublic, entry.IsEdited)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context, userID string, publicOnly bool) ([]*models.Entry, error) {
	query := `SELECT ` + entryColumns + `
		FROM entries
		WHERE user_id = $1 AND (is_public OR NOT $2)
		ORDER BY date
	`
	rows, err := r.db.QueryContext(ctx, query, userID, publicOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	return dbx.Collect(rows, func(rows *sql.Rows) (*models.Entry, error) {
		return scanEntry(rows)
	})
}

func (r *PostgresRepository) Get(ctx context.Context, userID, date string) (*models.Entry, error) {
	query := `SELECT ` + entryColumns + `
		FROM entries
		WHERE user_id = $1 AND date = $2
	`
	e, err := scanEntry(r.db.QueryRowContext(ctx, query, userID, date))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

func (r *PostgresRepository) UpdateSummary(ctx context.Context, userID, date, summary string) error {
	query := `
		UPDATE entries
		SET summary = $3, is_edited = TRUE, updated_at = now()
		WHERE user_id = $1 AND date = $2 AND NOT is_edited
	`
	n, err := dbx.ExecAffected(ctx, r.db, query, userID, date, summary)
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}

	// nothing updated: either no such entry or it is already finalized
	if _, err := r.Get(ctx, userID, date); err != nil {
		return err
	}
	return common.ErrAlreadyFinalized
}

func (r *PostgresRepository) UpdatePrivacy(ctx context.Context, userID, date string, isPublic bool) error {
	query := `
		UPDATE entries
		SET is_public = $3, updated_at = now()
		WHERE user_id = $1 AND date = $2
	`
	n, err := dbx.ExecAffected(ctx, r.db, query, userID, date, isPublic)
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
