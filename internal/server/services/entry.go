package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/voicediary/internal/common"
	"github.com/dmitrijs2005/voicediary/internal/logging"
	"github.com/dmitrijs2005/voicediary/internal/server/models"
	"github.com/dmitrijs2005/voicediary/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/voicediary/internal/server/storage"
)

// EntryView is an entry as shown to a viewer: media keys are replaced by
// presigned GET URLs.
type EntryView struct {
	models.Entry
	AudioURL string
	ImageURL string
}

// EntryService is the remote entry store: one row per (user, date) in
// Postgres plus media objects in the bucket.
type EntryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	presigner   storage.Presigner
	logger      logging.Logger
}

func NewEntryService(db *sql.DB, m repomanager.RepositoryManager, p storage.Presigner, l logging.Logger) *EntryService {
	return &EntryService{db: db, repomanager: m, presigner: p, logger: l.With("module", "entry_service")}
}

// RequestUpload returns the object key for the user's media and a presigned
// PUT URL for it.
func (s *EntryService) RequestUpload(ctx context.Context, userID, date, kind, ext string) (string, string, error) {
	key, err := storage.ObjectKey(userID, kind, date, ext)
	if err != nil {
		return "", "", err
	}
	url, err := s.presigner.PresignPut(ctx, key)
	if err != nil {
		return "", "", fmt.Errorf("presign put: %w", err)
	}
	return key, url, nil
}

// SaveEntry upserts the user's entry for e.Date. Media keys must belong to
// the user; empty keys keep what is stored.
func (s *EntryService) SaveEntry(ctx context.Context, userID string, e *models.Entry) error {
	if _, err := common.ParseDate(e.Date); err != nil {
		return err
	}
	for _, key := range []string{e.AudioKey, e.ImageKey} {
		if key != "" && !storage.OwnsKey(userID, key) {
			return fmt.Errorf("%w: media key %q", common.ErrorForbidden, key)
		}
	}
	e.UserID = userID
	return s.repomanager.Entries(s.db).Upsert(ctx, e)
}

// ListEntries returns the entries of ownerName as seen by viewerID. An empty
// ownerName means the viewer's own diary. Other users' diaries are visible
// only to accepted friends, and only their public entries.
func (s *EntryService) ListEntries(ctx context.Context, viewerID, ownerName string) ([]*EntryView, error) {
	ownerID := viewerID
	if ownerName != "" {
		owner, err := s.repomanager.Users(s.db).ByUserName(ctx, ownerName)
		if err != nil {
			return nil, err
		}
		ownerID = owner.ID
	}

	publicOnly := ownerID != viewerID
	if publicOnly {
		ok, err := s.repomanager.Friends(s.db).AreFriends(ctx, viewerID, ownerID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, common.ErrorForbidden
		}
	}

	rows, err := s.repomanager.Entries(s.db).List(ctx, ownerID, publicOnly)
	if err != nil {
		return nil, err
	}

	views := make([]*EntryView, 0, len(rows))
	for _, e := range rows {
		if publicOnly && !e.IsPublic {
			continue
		}
		views = append(views, &EntryView{
			Entry:    *e,
			AudioURL: s.mediaURL(ctx, e.AudioKey),
			ImageURL: s.mediaURL(ctx, e.ImageKey),
		})
	}
	return views, nil
}

// mediaURL presigns key; failures degrade to no URL.
func (s *EntryService) mediaURL(ctx context.Context, key string) string {
	if key == "" {
		return ""
	}
	url, err := s.presigner.PresignGet(ctx, key)
	if err != nil {
		s.logger.Warn(ctx, "presign get failed", "key", key, "error", err)
		return ""
	}
	return url
}

// UpdateSummary finalizes the entry's summary. Only the first edit is accepted.
func (s *EntryService) UpdateSummary(ctx context.Context, userID, date, summary string) error {
	if _, err := common.ParseDate(date); err != nil {
		return err
	}
	err := s.repomanager.Entries(s.db).UpdateSummary(ctx, userID, date, summary)
	if err != nil && !errors.Is(err, common.ErrAlreadyFinalized) && !errors.Is(err, common.ErrorNotFound) {
		s.logger.Error(ctx, "update summary failed", "date", date, "error", err)
	}
	return err
}

func (s *EntryService) UpdatePrivacy(ctx context.Context, userID, date string, isPublic bool) error {
	if _, err := common.ParseDate(date); err != nil {
		return err
	}
	return s.repomanager.Entries(s.db).UpdatePrivacy(ctx, userID, date, isPublic)
}
