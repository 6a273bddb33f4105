package remote

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/voicediary/internal/api"
	"github.com/dmitrijs2005/voicediary/internal/logging"
	"github.com/dmitrijs2005/voicediary/internal/netx"
)

// Backend is the part of GRPCClient the Store needs.
type Backend interface {
	LoggedIn() bool
	RequestUpload(ctx context.Context, date, kind, ext string) (string, string, error)
	SaveEntry(ctx context.Context, req *api.SaveEntryRequest) error
	ListEntries(ctx context.Context, owner string) ([]*api.Entry, error)
	UpdateSummary(ctx context.Context, date, summary string) error
	UpdatePrivacy(ctx context.Context, date string, isPublic bool) error
	SendFriendRequest(ctx context.Context, receiver string) error
	AcceptFriendRequest(ctx context.Context, sender string) error
	ListFriends(ctx context.Context) ([]string, error)
	ListPendingRequests(ctx context.Context) ([]string, error)
	FetchNotifications(ctx context.Context) ([]*api.Notification, error)
}

// Entry is a remote row as the client sees it.
type Entry struct {
	Date     string
	Summary  string
	AudioURL string
	ImageURL string
	IsPublic bool
	IsEdited bool
}

// SaveInput describes one entry to mirror remotely. Audio may be given as
// bytes or as a file path; the image only as a path. Missing media is skipped.
type SaveInput struct {
	Date      string
	Summary   string
	Audio     []byte
	AudioPath string
	ImagePath string
	IsPublic  bool
	IsEdited  bool
}

type Store struct {
	backend Backend
	http    *http.Client
	logger  logging.Logger
}

// NewStore builds a Store. A nil httpClient uses http.DefaultClient.
func NewStore(b Backend, httpClient *http.Client, l logging.Logger) *Store {
	return &Store{backend: b, http: httpClient, logger: l.With("module", "remote_store")}
}

func (s *Store) LoggedIn() bool { return s.backend.LoggedIn() }

// List returns owner's rows (the caller's own when owner is empty).
func (s *Store) List(ctx context.Context, owner string) ([]*Entry, error) {
	if !s.backend.LoggedIn() {
		return nil, ErrNotLoggedIn
	}
	rows, err := s.backend.ListEntries(ctx, owner)
	if err != nil {
		return nil, err
	}
	out := make([]*Entry, 0, len(rows))
	for _, r := range rows {
		out = append(out, &Entry{
			Date:     r.Date,
			Summary:  r.Summary,
			AudioURL: r.AudioURL,
			ImageURL: r.ImageURL,
			IsPublic: r.IsPublic,
			IsEdited: r.IsEdited,
		})
	}
	return out, nil
}

// Fetch returns owner's rows keyed by date. Any failure, including being
// offline or logged out, yields an empty map. When the viewer is not the
// owner, private rows are dropped even if the server returned them.
func (s *Store) Fetch(ctx context.Context, owner string, viewerIsOwner bool) map[string]*Entry {
	if viewerIsOwner {
		owner = ""
	}
	rows, err := s.List(ctx, owner)
	if err != nil {
		s.logger.Warn(ctx, "remote fetch failed", "owner", owner, "error", err)
		return map[string]*Entry{}
	}

	out := make(map[string]*Entry, len(rows))
	for _, r := range rows {
		if !viewerIsOwner && !r.IsPublic {
			continue
		}
		out[r.Date] = r
	}
	return out
}

// Save uploads media and upserts the row. It reports false, after logging,
// on any failure; the caller keeps its local copy either way.
func (s *Store) Save(ctx context.Context, in SaveInput) bool {
	if err := s.save(ctx, in); err != nil {
		s.logger.Warn(ctx, "remote save failed", "date", in.Date, "error", err)
		return false
	}
	return true
}

func (s *Store) save(ctx context.Context, in SaveInput) error {
	if !s.backend.LoggedIn() {
		return ErrNotLoggedIn
	}

	audio := in.Audio
	if len(audio) == 0 && in.AudioPath != "" {
		b, err := os.ReadFile(in.AudioPath)
		if err != nil {
			return fmt.Errorf("read audio: %w", err)
		}
		audio = b
	}

	req := &api.SaveEntryRequest{
		Date:     in.Date,
		Summary:  in.Summary,
		IsPublic: in.IsPublic,
		IsEdited: in.IsEdited,
	}

	if len(audio) > 0 {
		key, err := s.upload(ctx, in.Date, api.KindAudio, ".wav", audio)
		if err != nil {
			return err
		}
		req.AudioKey = key
	}

	if in.ImagePath != "" {
		b, err := os.ReadFile(in.ImagePath)
		if err != nil {
			return fmt.Errorf("read image: %w", err)
		}
		key, err := s.upload(ctx, in.Date, api.KindImage, filepath.Ext(in.ImagePath), b)
		if err != nil {
			return err
		}
		req.ImageKey = key
	}

	return s.backend.SaveEntry(ctx, req)
}

func (s *Store) upload(ctx context.Context, date, kind, ext string, body []byte) (string, error) {
	ext = strings.ToLower(ext)
	key, url, err := s.backend.RequestUpload(ctx, date, kind, ext)
	if err != nil {
		return "", fmt.Errorf("request %s upload: %w", kind, err)
	}
	if err := netx.UploadToPresignedURL(ctx, s.http, url, body, contentType(kind, ext)); err != nil {
		return "", fmt.Errorf("upload %s: %w", kind, err)
	}
	s.logger.Debug(ctx, "uploaded", "key", key, "bytes", len(body))
	return key, nil
}

func contentType(kind, ext string) string {
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	if kind == api.KindAudio {
		return "audio/wav"
	}
	return "application/octet-stream"
}

func (s *Store) UpdateSummary(ctx context.Context, date, summary string) error {
	if !s.backend.LoggedIn() {
		return ErrNotLoggedIn
	}
	return s.backend.UpdateSummary(ctx, date, summary)
}

func (s *Store) UpdatePrivacy(ctx context.Context, date string, isPublic bool) error {
	if !s.backend.LoggedIn() {
		return ErrNotLoggedIn
	}
	return s.backend.UpdatePrivacy(ctx, date, isPublic)
}

func (s *Store) SendFriendRequest(ctx context.Context, receiver string) error {
	return s.backend.SendFriendRequest(ctx, receiver)
}

func (s *Store) AcceptFriendRequest(ctx context.Context, sender string) error {
	return s.backend.AcceptFriendRequest(ctx, sender)
}

func (s *Store) ListFriends(ctx context.Context) ([]string, error) {
	return s.backend.ListFriends(ctx)
}

func (s *Store) ListPendingRequests(ctx context.Context) ([]string, error) {
	return s.backend.ListPendingRequests(ctx)
}

// FetchNotifications drains unread notifications; each is returned once.
func (s *Store) FetchNotifications(ctx context.Context) ([]*api.Notification, error) {
	return s.backend.FetchNotifications(ctx)
}
