package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/voicediary/internal/dbx"
	"github.com/dmitrijs2005/voicediary/internal/server/repositories/entries"
	"github.com/dmitrijs2005/voicediary/internal/server/repositories/friends"
	"github.com/dmitrijs2005/voicediary/internal/server/repositories/notifications"
	"github.com/dmitrijs2005/voicediary/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/voicediary/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so services can use
// the same repositories inside and outside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Entries(db dbx.DBTX) entries.Repository
	Friends(db dbx.DBTX) friends.Repository
	Notifications(db dbx.DBTX) notifications.Repository
}
