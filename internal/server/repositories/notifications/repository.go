// Package notifications stores per-user messages produced by social actions.
package notifications

import (
	"context"

	"github.com/dmitrijs2005/voicediary/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, userID, message string) error
	// FetchUnread returns unread notifications oldest first and marks them
	// read in the same statement; a notification is delivered at most once.
	FetchUnread(ctx context.Context, userID string) ([]*models.Notification, error)
}
