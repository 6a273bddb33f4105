// Package services holds the server's use cases: accounts and tokens, the
// remote entry store and the social directory.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/voicediary/internal/common"
	"github.com/dmitrijs2005/voicediary/internal/dbx"
	"github.com/dmitrijs2005/voicediary/internal/server/auth"
	"github.com/dmitrijs2005/voicediary/internal/server/config"
	"github.com/dmitrijs2005/voicediary/internal/server/models"
	"github.com/dmitrijs2005/voicediary/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// TokenPair is what a successful login or refresh hands back to the client.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// UserService registers accounts and mints token pairs. Refresh tokens are
// single use: redeeming one issues a new pair.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	jwtSecret   []byte
	accessTTL   time.Duration
	refreshTTL  time.Duration
	bcryptCost  int
	now         func() time.Time
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		jwtSecret:   []byte(cfg.SecretKey),
		accessTTL:   cfg.AccessTokenValidityDuration,
		refreshTTL:  cfg.RefreshTokenValidityDuration,
		bcryptCost:  bcrypt.DefaultCost,
		now:         time.Now,
	}
}

// Register creates a user with a bcrypt password hash.
// A taken username yields common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", common.ErrorValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.repomanager.Users(s.db).Create(ctx, &models.User{UserName: username, PasswordHash: hash})
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Login checks the password and returns a new TokenPair.
// Unknown users and wrong passwords both yield common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	user, err := s.repomanager.Users(s.db).ByUserName(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, common.ErrorUnauthorized
	}
	return s.issuePair(ctx, user.ID, s.db)
}

// RefreshToken redeems refreshToken and issues a new pair in the same
// transaction. Unknown tokens yield ErrorUnauthorized, expired ones
// ErrRefreshTokenExpired.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	var pair *TokenPair
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		token, err := s.repomanager.RefreshTokens(tx).Redeem(ctx, refreshToken)
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorUnauthorized
		}
		if err != nil {
			return err
		}
		if token.Expired(s.now()) {
			return common.ErrRefreshTokenExpired
		}
		pair, err = s.issuePair(ctx, token.UserID, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// issuePair also drops the user's stale refresh tokens.
func (s *UserService) issuePair(ctx context.Context, userID string, db dbx.DBTX) (*TokenPair, error) {
	access, err := auth.IssueAccessToken(userID, s.jwtSecret, s.accessTTL)
	if err != nil {
		return nil, common.ErrorInternal
	}

	tokens := s.repomanager.RefreshTokens(db)
	now := s.now()
	if _, err := tokens.PurgeExpired(ctx, userID, now); err != nil {
		return nil, common.ErrorInternal
	}
	refresh := &models.RefreshToken{UserID: userID, Token: uuid.NewString(), Expires: now.Add(s.refreshTTL)}
	if err := tokens.Issue(ctx, refresh); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh.Token}, nil
}
