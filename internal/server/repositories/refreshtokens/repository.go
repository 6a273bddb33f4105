// Package refreshtokens stores the single-use refresh tokens issued at login.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/voicediary/internal/server/models"
)

type Repository interface {
	Issue(ctx context.Context, token *models.RefreshToken) error
	// Redeem deletes the token and returns it. An unknown or already
	// redeemed token yields common.ErrorNotFound.
	Redeem(ctx context.Context, token string) (*models.RefreshToken, error)
	// PurgeExpired drops userID's tokens that expired before now.
	PurgeExpired(ctx context.Context, userID string, now time.Time) (int64, error)
}
