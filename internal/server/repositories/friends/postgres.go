package friends

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/voicediary/internal/common"
	"github.com/dmitrijs2005/voicediary/internal/dbx"
	"github.com/dmitrijs2005/voicediary/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, senderID, receiverID string) error {
	query := `
		INSERT INTO friends (sender_id, receiver_id, status)
		SELECT $1, $2, $3
		WHERE NOT EXISTS (
			SELECT 1 FROM friends
			WHERE (sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1)
		)
	`
	n, err := dbx.ExecAffected(ctx, r.db, query, senderID, receiverID, models.FriendStatusPending)
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrorAlreadyExists
	}
	return nil
}

func (r *PostgresRepository) Accept(ctx context.Context, senderID, receiverID string) error {
	query := `
		UPDATE friends SET status = $3
		WHERE sender_id = $1 AND receiver_id = $2 AND status = $4
	`
	n, err := dbx.ExecAffected(ctx, r.db, query, senderID, receiverID, models.FriendStatusAccepted, models.FriendStatusPending)
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) AreFriends(ctx context.Context, a, b string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM friends
			WHERE status = $3
			  AND ((sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1))
		)
	`
	return r.exists(ctx, query, a, b, models.FriendStatusAccepted)
}

func (r *PostgresRepository) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var ok bool
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&ok); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return ok, nil
}

func (r *PostgresRepository) ListFriends(ctx context.Context, userID string) ([]string, error) {
	query := `
		SELECT u.username
		FROM friends f
		JOIN users u ON u.id = CASE WHEN f.sender_id = $1 THEN f.receiver_id ELSE f.sender_id END
		WHERE f.status = $2 AND (f.sender_id = $1 OR f.receiver_id = $1)
		ORDER BY u.username
	`
	return r.usernames(ctx, query, userID, models.FriendStatusAccepted)
}

func (r *PostgresRepository) ListPending(ctx context.Context, userID string) ([]string, error) {
	query := `
		SELECT u.username
		FROM friends f
		JOIN users u ON u.id = f.sender_id
		WHERE f.receiver_id = $1 AND f.status = $2
		ORDER BY u.username
	`
	return r.usernames(ctx, query, userID, models.FriendStatusPending)
}

func (r *PostgresRepository) usernames(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	names, err := dbx.Collect(rows, func(rows *sql.Rows) (string, error) {
		var s string
		err := rows.Scan(&s)
		return s, err
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return names, nil
}
