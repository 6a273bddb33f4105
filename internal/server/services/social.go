package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/voicediary/internal/common"
	"github.com/dmitrijs2005/voicediary/internal/dbx"
	"github.com/dmitrijs2005/voicediary/internal/server/models"
	"github.com/dmitrijs2005/voicediary/internal/server/repositories/repomanager"
)

// SocialService is the social directory: friend requests, friendships and
// the notification queue that accompanies them.
type SocialService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewSocialService(db *sql.DB, m repomanager.RepositoryManager) *SocialService {
	return &SocialService{db: db, repomanager: m}
}

// SendFriendRequest records a pending request from senderID to the user
// named receiverName and notifies the receiver.
func (s *SocialService) SendFriendRequest(ctx context.Context, senderID, receiverName string) error {
	receiverName = strings.TrimSpace(receiverName)
	if receiverName == "" {
		return fmt.Errorf("%w: receiver is required", common.ErrorValidation)
	}

	users := s.repomanager.Users(s.db)
	sender, err := users.ByID(ctx, senderID)
	if err != nil {
		return err
	}
	if sender.UserName == receiverName {
		return common.ErrSelfFriendRequest
	}
	receiver, err := users.ByUserName(ctx, receiverName)
	if err != nil {
		return err
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Friends(tx).Create(ctx, sender.ID, receiver.ID); err != nil {
			return err
		}
		return s.repomanager.Notifications(tx).Create(ctx, receiver.ID,
			fmt.Sprintf("%s sent you a friend request", sender.UserName))
	})
}

// AcceptFriendRequest accepts the pending request senderName sent to
// receiverID and notifies the sender.
func (s *SocialService) AcceptFriendRequest(ctx context.Context, receiverID, senderName string) error {
	users := s.repomanager.Users(s.db)
	receiver, err := users.ByID(ctx, receiverID)
	if err != nil {
		return err
	}
	sender, err := users.ByUserName(ctx, strings.TrimSpace(senderName))
	if err != nil {
		return err
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Friends(tx).Accept(ctx, sender.ID, receiver.ID); err != nil {
			return err
		}
		return s.repomanager.Notifications(tx).Create(ctx, sender.ID,
			fmt.Sprintf("%s accepted your friend request", receiver.UserName))
	})
}

func (s *SocialService) ListFriends(ctx context.Context, userID string) ([]string, error) {
	return s.repomanager.Friends(s.db).ListFriends(ctx, userID)
}

func (s *SocialService) ListPendingRequests(ctx context.Context, userID string) ([]string, error) {
	return s.repomanager.Friends(s.db).ListPending(ctx, userID)
}

// FetchNotifications returns unread notifications and marks them read.
func (s *SocialService) FetchNotifications(ctx context.Context, userID string) ([]*models.Notification, error) {
	return s.repomanager.Notifications(s.db).FetchUnread(ctx, userID)
}
