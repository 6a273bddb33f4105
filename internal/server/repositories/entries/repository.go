package entries

import (
	"context"

	"github.com/dmitrijs2005/voicediary/internal/server/models"
)

type Repository interface {
	// Upsert creates or replaces the (UserID, Date) row. Empty media keys keep
	// the keys already stored.
	Upsert(ctx context.Context, entry *models.Entry) error
	// List returns the user's entries ordered by date; publicOnly drops private rows.
	List(ctx context.Context, userID string, publicOnly bool) ([]*models.Entry, error)
	Get(ctx context.Context, userID, date string) (*models.Entry, error)
	// UpdateSummary sets the summary and marks the entry edited. It fails with
	// common.ErrAlreadyFinalized if the entry was edited before and with
	// common.ErrorNotFound if there is no entry.
	UpdateSummary(ctx context.Context, userID, date, summary string) error
	UpdatePrivacy(ctx context.Context, userID, date string, isPublic bool) error
}
