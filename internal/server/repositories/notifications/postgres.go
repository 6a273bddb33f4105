package notifications

import (
	"context"
	"database/sql"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/voicediary/internal/dbx"
	"github.com/dmitrijs2005/voicediary/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, userID, message string) error {
	query := `
		INSERT INTO notifications (user_id, message)
		VALUES ($1, $2)
	`
	if _, err := r.db.ExecContext(ctx, query, userID, message); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) FetchUnread(ctx context.Context, userID string) ([]*models.Notification, error) {
	query := `
		UPDATE notifications SET is_read = TRUE
		WHERE user_id = $1 AND NOT is_read
		RETURNING id, user_id, message, created_at
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	items, err := dbx.Collect(rows, func(rows *sql.Rows) (*models.Notification, error) {
		n := &models.Notification{IsRead: true}
		err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.CreatedAt)
		return n, err
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	// RETURNING order is unspecified
	slices.SortFunc(items, func(a, b *models.Notification) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return items, nil
}
