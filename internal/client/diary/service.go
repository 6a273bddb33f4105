// Package diary reconciles the local diary with the remote copy. Local
// records are authoritative; the remote side is mirrored best effort and
// read back to fill in entries that only exist remotely.
package diary

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrijs2005/voicediary/internal/client/localstore"
	"github.com/dmitrijs2005/voicediary/internal/client/media"
	"github.com/dmitrijs2005/voicediary/internal/client/remote"
	"github.com/dmitrijs2005/voicediary/internal/client/summarizer"
	"github.com/dmitrijs2005/voicediary/internal/common"
	"github.com/dmitrijs2005/voicediary/internal/filex"
	"github.com/dmitrijs2005/voicediary/internal/logging"
)

var ErrNoSummarizer = errors.New("summarizer is not configured")

type LocalStore interface {
	Load() (map[string]*localstore.Entry, error)
	Get(date string) (*localstore.Entry, error)
	Save(date string, in localstore.SaveInput) (*localstore.Entry, error)
	UpdateText(date, text string) error
	UpdatePrivacy(date string, isPublic bool) error
}

type RemoteStore interface {
	LoggedIn() bool
	List(ctx context.Context, owner string) ([]*remote.Entry, error)
	Fetch(ctx context.Context, owner string, viewerIsOwner bool) map[string]*remote.Entry
	Save(ctx context.Context, in remote.SaveInput) bool
	UpdateSummary(ctx context.Context, date, summary string) error
	UpdatePrivacy(ctx context.Context, date string, isPublic bool) error
}

// Entry is the merged view of one date.
type Entry struct {
	Date     string
	Summary  string
	Audio    media.Ref
	Image    media.Ref
	IsPublic bool
	IsEdited bool

	// InLocal and InRemote report which stores hold the date.
	InLocal  bool
	InRemote bool
}

// Draft is a new entry ready to be written.
type Draft struct {
	Summary     string
	Audio       []byte
	ImageSource string
	IsPublic    bool
}

// SyncResult reports the remote half of a write. RemoteErr is set when the
// remote write failed or was skipped; the local write stands regardless.
type SyncResult struct {
	Entry     *Entry
	Synced    bool
	RemoteErr error
}

// PushOutcome is the result of mirroring one local date. RemoteFinalized
// means the remote row was already finalized over a local draft; the
// remote text was adopted locally and nothing was uploaded.
type PushOutcome struct {
	Date            string
	Synced          bool
	MissingAudio    bool
	MissingImage    bool
	RemoteFinalized bool
}

type Service interface {
	Summarize(ctx context.Context, audio []byte, fileName string) (string, error)
	Save(ctx context.Context, date string, d Draft) (*SyncResult, error)
	Create(ctx context.Context, date string, audio []byte, imageSource string, isPublic bool) (*SyncResult, error)
	View(ctx context.Context, date string) (*Entry, error)
	Calendar(ctx context.Context) ([]*Entry, error)
	Finalize(ctx context.Context, date, text string) (*SyncResult, error)
	SetPrivacy(ctx context.Context, date string, isPublic bool) (*SyncResult, error)
	FriendEntries(ctx context.Context, friend string) ([]*Entry, error)
	Push(ctx context.Context) ([]PushOutcome, error)
}

type service struct {
	local      LocalStore
	remote     RemoteStore
	summarizer summarizer.Summarizer
	exists     func(string) bool
	logger     logging.Logger
}

// NewService wires the stores together. sum may be nil, in which case
// Summarize and Create fail with ErrNoSummarizer.
func NewService(local LocalStore, rs RemoteStore, sum summarizer.Summarizer, l logging.Logger) Service {
	return &service{
		local:      local,
		remote:     rs,
		summarizer: sum,
		exists:     filex.Exists,
		logger:     l.With("module", "diary"),
	}
}

func (s *service) Summarize(ctx context.Context, audio []byte, fileName string) (string, error) {
	if s.summarizer == nil {
		return "", ErrNoSummarizer
	}
	text, err := s.summarizer.Summarize(ctx, audio, summarizer.MIMEType(fileName))
	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}
	return text, nil
}

// Save writes d locally, then mirrors it remotely. A local failure aborts.
// Dates that already have an entry in either store are refused.
func (s *service) Save(ctx context.Context, date string, d Draft) (*SyncResult, error) {
	if err := s.ensureNew(ctx, date); err != nil {
		return nil, err
	}

	le, err := s.local.Save(date, localstore.SaveInput{
		Summary:     d.Summary,
		Audio:       d.Audio,
		ImageSource: d.ImageSource,
		IsPublic:    d.IsPublic,
	})
	if err != nil {
		return nil, fmt.Errorf("local save: %w", err)
	}

	res := &SyncResult{Entry: s.merge(date, le, nil)}
	if !s.remote.LoggedIn() {
		res.RemoteErr = remote.ErrNotLoggedIn
		return res, nil
	}

	res.Synced = s.remote.Save(ctx, remote.SaveInput{
		Date:      date,
		Summary:   d.Summary,
		Audio:     d.Audio,
		ImagePath: le.ImagePath,
		IsPublic:  d.IsPublic,
	})
	if !res.Synced {
		res.RemoteErr = errors.New("remote save failed, run push to retry")
	}
	res.Entry.InRemote = res.Synced
	return res, nil
}

func (s *service) Create(ctx context.Context, date string, audio []byte, imageSource string, isPublic bool) (*SyncResult, error) {
	if err := s.ensureNew(ctx, date); err != nil {
		return nil, err
	}
	text, err := s.Summarize(ctx, audio, date+".wav")
	if err != nil {
		return nil, err
	}
	return s.Save(ctx, date, Draft{Summary: text, Audio: audio, ImageSource: imageSource, IsPublic: isPublic})
}

// ensureNew rejects invalid dates and dates that already hold an entry.
func (s *service) ensureNew(ctx context.Context, date string) error {
	_, err := s.View(ctx, date)
	switch {
	case err == nil:
		return fmt.Errorf("entry for %s: %w", date, common.ErrorAlreadyExists)
	case errors.Is(err, common.ErrorNotFound):
		return nil
	default:
		return err
	}
}

func (s *service) View(ctx context.Context, date string) (*Entry, error) {
	if _, err := common.ParseDate(date); err != nil {
		return nil, err
	}

	le, err := s.local.Get(date)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}
	re := s.remoteRows(ctx)[date]
	if le == nil && re == nil {
		return nil, common.ErrorNotFound
	}
	return s.merge(date, le, re), nil
}

// Calendar returns every known date, local or remote, oldest first.
func (s *service) Calendar(ctx context.Context) ([]*Entry, error) {
	locals, err := s.local.Load()
	if err != nil {
		return nil, err
	}
	remotes := s.remoteRows(ctx)

	dates := make([]string, 0, len(locals)+len(remotes))
	for d := range locals {
		dates = append(dates, d)
	}
	for d := range remotes {
		if _, ok := locals[d]; !ok {
			dates = append(dates, d)
		}
	}
	slices.Sort(dates)

	out := make([]*Entry, 0, len(dates))
	for _, d := range dates {
		out = append(out, s.merge(d, locals[d], remotes[d]))
	}
	return out, nil
}

// Finalize replaces the summary once. The local copy is updated first.
func (s *service) Finalize(ctx context.Context, date, text string) (*SyncResult, error) {
	current, err := s.View(ctx, date)
	if err != nil {
		return nil, err
	}
	if current.IsEdited {
		return nil, common.ErrAlreadyFinalized
	}

	if current.InLocal {
		if err := s.local.UpdateText(date, text); err != nil {
			return nil, fmt.Errorf("local update: %w", err)
		}
	}
	current.Summary = text
	current.IsEdited = true

	res := &SyncResult{Entry: current}
	res.RemoteErr = s.remote.UpdateSummary(ctx, date, text)
	res.Synced = res.RemoteErr == nil
	if !current.InLocal && !res.Synced {
		return nil, res.RemoteErr
	}
	s.warnRemote(ctx, "finalize", date, res.RemoteErr)
	return res, nil
}

func (s *service) SetPrivacy(ctx context.Context, date string, isPublic bool) (*SyncResult, error) {
	current, err := s.View(ctx, date)
	if err != nil {
		return nil, err
	}

	if current.InLocal {
		if err := s.local.UpdatePrivacy(date, isPublic); err != nil {
			return nil, fmt.Errorf("local update: %w", err)
		}
	}
	current.IsPublic = isPublic

	res := &SyncResult{Entry: current}
	res.RemoteErr = s.remote.UpdatePrivacy(ctx, date, isPublic)
	res.Synced = res.RemoteErr == nil
	if !current.InLocal && !res.Synced {
		return nil, res.RemoteErr
	}
	s.warnRemote(ctx, "set privacy", date, res.RemoteErr)
	return res, nil
}

// FriendEntries lists friend's public entries. Unlike the owner views it
// surfaces remote errors, so a missing friendship reads as forbidden.
func (s *service) FriendEntries(ctx context.Context, friend string) ([]*Entry, error) {
	rows, err := s.remote.List(ctx, friend)
	if err != nil {
		return nil, err
	}

	out := make([]*Entry, 0, len(rows))
	for _, r := range rows {
		if !r.IsPublic {
			continue
		}
		out = append(out, s.merge(r.Date, nil, r))
	}
	slices.SortFunc(out, func(a, b *Entry) int { return strings.Compare(a.Date, b.Date) })
	return out, nil
}

// Push mirrors every local record to the remote store. Media files that are
// gone from disk are left out of the upload; the rest of the record is sent.
// A local draft never replaces a remote row that is already finalized.
func (s *service) Push(ctx context.Context) ([]PushOutcome, error) {
	if !s.remote.LoggedIn() {
		return nil, remote.ErrNotLoggedIn
	}
	locals, err := s.local.Load()
	if err != nil {
		return nil, err
	}
	remotes := s.remoteRows(ctx)

	dates := make([]string, 0, len(locals))
	for d := range locals {
		dates = append(dates, d)
	}
	slices.Sort(dates)

	out := make([]PushOutcome, 0, len(dates))
	for _, d := range dates {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		e := locals[d]
		o := PushOutcome{Date: d}
		if re := remotes[d]; re != nil && re.IsEdited && !e.IsEdited {
			o.RemoteFinalized = true
			if err := s.local.UpdateText(d, re.Summary); err != nil {
				s.logger.Warn(ctx, "adopt finalized summary failed", "date", d, "error", err)
			}
			s.logger.Info(ctx, "push skipped, remote finalized", "date", d)
			out = append(out, o)
			continue
		}
		in := remote.SaveInput{
			Date:     d,
			Summary:  e.Summary,
			IsPublic: e.IsPublic,
			IsEdited: e.IsEdited,
		}
		if e.AudioPath != "" && s.exists(e.AudioPath) {
			in.AudioPath = e.AudioPath
		} else {
			o.MissingAudio = true
		}
		if e.ImagePath != "" {
			if s.exists(e.ImagePath) {
				in.ImagePath = e.ImagePath
			} else {
				o.MissingImage = true
			}
		}
		o.Synced = s.remote.Save(ctx, in)
		s.logger.Info(ctx, "pushed", "date", d, "synced", o.Synced)
		out = append(out, o)
	}
	return out, nil
}

func (s *service) remoteRows(ctx context.Context) map[string]*remote.Entry {
	if !s.remote.LoggedIn() {
		return map[string]*remote.Entry{}
	}
	return s.remote.Fetch(ctx, "", true)
}

// merge builds the view for date. Text and flags come from the local record
// when there is one, except that a finalized remote summary beats a local
// draft. Each media field is resolved independently.
func (s *service) merge(date string, le *localstore.Entry, re *remote.Entry) *Entry {
	e := &Entry{Date: date, InLocal: le != nil, InRemote: re != nil}

	var localAudio, localImage, remoteAudio, remoteImage string
	if re != nil {
		e.Summary, e.IsPublic, e.IsEdited = re.Summary, re.IsPublic, re.IsEdited
		remoteAudio, remoteImage = re.AudioURL, re.ImageURL
	}
	if le != nil {
		e.Summary, e.IsPublic, e.IsEdited = le.Summary, le.IsPublic, le.IsEdited
		localAudio, localImage = le.AudioPath, le.ImagePath
	}
	if re != nil && re.IsEdited && !e.IsEdited {
		e.Summary, e.IsEdited = re.Summary, true
	}

	e.Audio = media.Resolve(localAudio, remoteAudio, s.exists)
	e.Image = media.Resolve(localImage, remoteImage, s.exists)
	return e
}

func (s *service) warnRemote(ctx context.Context, op, date string, err error) {
	if err != nil {
		s.logger.Warn(ctx, "remote "+op+" failed", "date", date, "error", err)
	}
}
