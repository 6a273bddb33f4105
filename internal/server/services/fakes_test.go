package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/voicediary/internal/common"
	"github.com/dmitrijs2005/voicediary/internal/dbx"
	"github.com/dmitrijs2005/voicediary/internal/server/models"
	"github.com/dmitrijs2005/voicediary/internal/server/repositories/entries"
	"github.com/dmitrijs2005/voicediary/internal/server/repositories/friends"
	"github.com/dmitrijs2005/voicediary/internal/server/repositories/notifications"
	"github.com/dmitrijs2005/voicediary/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/voicediary/internal/server/repositories/users"
)

// In-memory repositories shared by the service tests.

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

var errBoom = errors.New("boom")

type fakeUsers struct {
	byID   map[string]*models.User
	getErr error
}

func newFakeUsers(names ...string) *fakeUsers {
	f := &fakeUsers{byID: map[string]*models.User{}}
	for _, n := range names {
		f.byID["id-"+n] = &models.User{ID: "id-" + n, UserName: n}
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	for _, x := range f.byID {
		if x.UserName == u.UserName {
			return nil, common.ErrorAlreadyExists
		}
	}
	u.ID = "id-" + u.UserName
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUsers) ByUserName(_ context.Context, login string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, x := range f.byID {
		if x.UserName == login {
			return x, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsers) ByID(_ context.Context, id string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

type fakeRefresh struct {
	tokens    map[string]*models.RefreshToken
	issueErr  error
	redeemErr error
	purged    int
}

func newFakeRefresh() *fakeRefresh {
	return &fakeRefresh{tokens: map[string]*models.RefreshToken{}}
}

func (f *fakeRefresh) Issue(_ context.Context, t *models.RefreshToken) error {
	if f.issueErr != nil {
		return f.issueErr
	}
	f.tokens[t.Token] = t
	return nil
}

func (f *fakeRefresh) Redeem(_ context.Context, token string) (*models.RefreshToken, error) {
	if f.redeemErr != nil {
		return nil, f.redeemErr
	}
	t, ok := f.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	delete(f.tokens, token)
	return t, nil
}

func (f *fakeRefresh) PurgeExpired(_ context.Context, userID string, now time.Time) (int64, error) {
	var n int64
	for k, v := range f.tokens {
		if v.UserID == userID && v.Expires.Before(now) {
			delete(f.tokens, k)
			n++
		}
	}
	f.purged += int(n)
	return n, nil
}

type fakeEntries struct {
	rows    map[string]*models.Entry // key: user|date
	listErr error
}

func newFakeEntries() *fakeEntries {
	return &fakeEntries{rows: map[string]*models.Entry{}}
}

func (f *fakeEntries) Upsert(_ context.Context, e *models.Entry) error {
	k := e.UserID + "|" + e.Date
	cp := *e
	if old, ok := f.rows[k]; ok {
		if cp.AudioKey == "" {
			cp.AudioKey = old.AudioKey
		}
		if cp.ImageKey == "" {
			cp.ImageKey = old.ImageKey
		}
		if old.IsEdited {
			cp.Summary, cp.IsEdited = old.Summary, true
		}
	}
	f.rows[k] = &cp
	return nil
}

func (f *fakeEntries) List(_ context.Context, userID string, publicOnly bool) ([]*models.Entry, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*models.Entry
	for _, e := range f.rows {
		if e.UserID == userID && (e.IsPublic || !publicOnly) {
			cp := *e
			out = append(out, &cp)
		}
	}
	slices.SortFunc(out, func(a, b *models.Entry) int { return strings.Compare(a.Date, b.Date) })
	return out, nil
}

func (f *fakeEntries) Get(_ context.Context, userID, date string) (*models.Entry, error) {
	if e, ok := f.rows[userID+"|"+date]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeEntries) UpdateSummary(_ context.Context, userID, date, summary string) error {
	e, ok := f.rows[userID+"|"+date]
	if !ok {
		return common.ErrorNotFound
	}
	if e.IsEdited {
		return common.ErrAlreadyFinalized
	}
	e.Summary, e.IsEdited = summary, true
	return nil
}

func (f *fakeEntries) UpdatePrivacy(_ context.Context, userID, date string, isPublic bool) error {
	e, ok := f.rows[userID+"|"+date]
	if !ok {
		return common.ErrorNotFound
	}
	e.IsPublic = isPublic
	return nil
}

type fakeFriends struct {
	rows map[[2]string]string // (sender, receiver) -> status
	err  error
}

func newFakeFriends() *fakeFriends {
	return &fakeFriends{rows: map[[2]string]string{}}
}

func (f *fakeFriends) Create(_ context.Context, s, r string) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.rows[[2]string{s, r}]; ok {
		return common.ErrorAlreadyExists
	}
	if _, ok := f.rows[[2]string{r, s}]; ok {
		return common.ErrorAlreadyExists
	}
	f.rows[[2]string{s, r}] = models.FriendStatusPending
	return nil
}

func (f *fakeFriends) Accept(_ context.Context, s, r string) error {
	if f.rows[[2]string{s, r}] != models.FriendStatusPending {
		return common.ErrorNotFound
	}
	f.rows[[2]string{s, r}] = models.FriendStatusAccepted
	return nil
}

func (f *fakeFriends) AreFriends(_ context.Context, a, b string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.rows[[2]string{a, b}] == models.FriendStatusAccepted ||
		f.rows[[2]string{b, a}] == models.FriendStatusAccepted, nil
}

// usernames are derived from the "id-<name>" convention of fakeUsers
func (f *fakeFriends) ListFriends(_ context.Context, userID string) ([]string, error) {
	var out []string
	for k, st := range f.rows {
		if st != models.FriendStatusAccepted {
			continue
		}
		switch userID {
		case k[0]:
			out = append(out, strings.TrimPrefix(k[1], "id-"))
		case k[1]:
			out = append(out, strings.TrimPrefix(k[0], "id-"))
		}
	}
	slices.Sort(out)
	return out, nil
}

func (f *fakeFriends) ListPending(_ context.Context, userID string) ([]string, error) {
	var out []string
	for k, st := range f.rows {
		if st == models.FriendStatusPending && k[1] == userID {
			out = append(out, strings.TrimPrefix(k[0], "id-"))
		}
	}
	slices.Sort(out)
	return out, nil
}

type fakeNotifications struct {
	items []*models.Notification
	err   error
}

func (f *fakeNotifications) Create(_ context.Context, userID, message string) error {
	if f.err != nil {
		return f.err
	}
	f.items = append(f.items, &models.Notification{ID: int64(len(f.items) + 1), UserID: userID, Message: message})
	return nil
}

func (f *fakeNotifications) FetchUnread(_ context.Context, userID string) ([]*models.Notification, error) {
	var out []*models.Notification
	for _, n := range f.items {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			out = append(out, n)
		}
	}
	return out, nil
}

type fakeRepoManager struct {
	users   *fakeUsers
	refresh *fakeRefresh
	entries *fakeEntries
	friends *fakeFriends
	notes   *fakeNotifications
}

func newFakeRepoManager(names ...string) *fakeRepoManager {
	return &fakeRepoManager{
		users:   newFakeUsers(names...),
		refresh: newFakeRefresh(),
		entries: newFakeEntries(),
		friends: newFakeFriends(),
		notes:   &fakeNotifications{},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository { return m.users }
func (m *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository { return m.refresh }
func (m *fakeRepoManager) Entries(dbx.DBTX) entries.Repository { return m.entries }
func (m *fakeRepoManager) Friends(dbx.DBTX) friends.Repository { return m.friends }
func (m *fakeRepoManager) Notifications(dbx.DBTX) notifications.Repository { return m.notes }

type fakePresigner struct {
	getErr error
	putErr error
}

func (p *fakePresigner) PresignPut(_ context.Context, key string) (string, error) {
	if p.putErr != nil {
		return "", p.putErr
	}
	return fmt.Sprintf("https://s3.test/put/%s?sig=1", key), nil
}

func (p *fakePresigner) PresignGet(_ context.Context, key string) (string, error) {
	if p.getErr != nil {
		return "", p.getErr
	}
	return fmt.Sprintf("https://s3.test/get/%s?sig=1", key), nil
}
