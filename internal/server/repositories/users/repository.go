// Package users declares and implements storage of registered accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/voicediary/internal/server/models"
)

type Repository interface {
	// Create inserts user and fills its ID. A taken username yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	ByUserName(ctx context.Context, login string) (*models.User, error)
	ByID(ctx context.Context, id string) (*models.User, error)
}
