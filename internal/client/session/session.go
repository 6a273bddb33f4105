// Package session keeps the client's login between runs in a small SQLite
// database under the data directory.
package session

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"path/filepath"

	"github.com/dmitrijs2005/voicediary/internal/dbx"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	dbFileName = "session.db"

	keyUsername     = "username"
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
)

// Session is the persisted login.
type Session struct {
	Username     string
	AccessToken  string
	RefreshToken string
}

func (s Session) LoggedIn() bool { return s.AccessToken != "" }

type Store struct {
	db   *sql.DB
	repo Repository
}

// Open opens (creating if needed) dir/session.db and migrates it.
func Open(ctx context.Context, dir string) (*Store, error) {
	return OpenDSN(ctx, filepath.Join(dir, dbFileName))
}

func OpenDSN(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("session migrations: %w", err)
	}
	return &Store{db: db, repo: NewSQLiteRepository(db)}, nil
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, "migrations")
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Load(ctx context.Context) (Session, error) {
	all, err := s.repo.All(ctx)
	if err != nil {
		return Session{}, err
	}
	return Session{
		Username:     all[keyUsername],
		AccessToken:  all[keyAccessToken],
		RefreshToken: all[keyRefreshToken],
	}, nil
}

// Save replaces the stored session in one transaction.
func (s *Store) Save(ctx context.Context, sess Session) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := NewSQLiteRepository(tx)
		for k, v := range map[string]string{
			keyUsername:     sess.Username,
			keyAccessToken:  sess.AccessToken,
			keyRefreshToken: sess.RefreshToken,
		} {
			if err := r.Put(ctx, k, v); err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveTokens updates the tokens and keeps the username.
func (s *Store) SaveTokens(ctx context.Context, access, refresh string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := NewSQLiteRepository(tx)
		if err := r.Put(ctx, keyAccessToken, access); err != nil {
			return err
		}
		return r.Put(ctx, keyRefreshToken, refresh)
	})
}

func (s *Store) Clear(ctx context.Context) error {
	return s.repo.Clear(ctx)
}
