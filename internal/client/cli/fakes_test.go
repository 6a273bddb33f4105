package cli

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/voicediary/internal/api"
	"github.com/dmitrijs2005/voicediary/internal/client/diary"
	"github.com/dmitrijs2005/voicediary/internal/client/remote"
	"github.com/dmitrijs2005/voicediary/internal/client/session"
	"github.com/dmitrijs2005/voicediary/internal/common"
	"github.com/dmitrijs2005/voicediary/internal/logging"
)

var (
	errNotFound = common.ErrorNotFound
	errOffline  = remote.ErrUnavailable
)

type fakeAuth struct {
	pingErr  error
	regErr   error
	loginErr error

	regUser, regPass     string
	loginUser, loginPass string
	access, refresh      string
	closed               bool
}

func (f *fakeAuth) Ping(context.Context) error { return f.pingErr }
func (f *fakeAuth) Register(_ context.Context, u, p string) error {
	f.regUser, f.regPass = u, p
	return f.regErr
}
func (f *fakeAuth) Login(_ context.Context, u, p string) error {
	f.loginUser, f.loginPass = u, p
	if f.loginErr != nil {
		return f.loginErr
	}
	f.access, f.refresh = "access-"+u, "refresh-"+u
	return nil
}
func (f *fakeAuth) Logout() { f.access, f.refresh = "", "" }
func (f *fakeAuth) LoggedIn() bool { return f.access != "" }
func (f *fakeAuth) SetTokens(a, r string) { f.access, f.refresh = a, r }
func (f *fakeAuth) Tokens() (string, string) { return f.access, f.refresh }
func (f *fakeAuth) Close() error { f.closed = true; return nil }

type fakeSession struct {
	saved    session.Session
	saveErr  error
	clearErr error
	cleared  bool
}

func (f *fakeSession) Load(context.Context) (session.Session, error) { return f.saved, nil }
func (f *fakeSession) Save(_ context.Context, s session.Session) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = s
	return nil
}
func (f *fakeSession) SaveTokens(_ context.Context, a, r string) error {
	f.saved.AccessToken, f.saved.RefreshToken = a, r
	return nil
}
func (f *fakeSession) Clear(context.Context) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	f.cleared = true
	f.saved = session.Session{}
	return nil
}
func (f *fakeSession) Close() error { return nil }

type fakeDiary struct {
	diary.Service

	summary    string
	summaryErr error
	saveErr    error
	saveRes    *diary.SyncResult
	views      map[string]*diary.Entry
	calendar   []*diary.Entry
	friendRows []*diary.Entry
	friendErr  error
	finalErr   error
	pushOut    []diary.PushOutcome
	pushErr    error

	summarized []byte
	saved      []diary.Draft
	finalized  map[string]string
	privacy    map[string]bool
}

func newFakeDiary() *fakeDiary {
	return &fakeDiary{
		views:     map[string]*diary.Entry{},
		finalized: map[string]string{},
		privacy:   map[string]bool{},
		saveRes:   &diary.SyncResult{Synced: true},
	}
}

func (f *fakeDiary) Summarize(_ context.Context, audio []byte, _ string) (string, error) {
	f.summarized = audio
	return f.summary, f.summaryErr
}

func (f *fakeDiary) Save(_ context.Context, date string, d diary.Draft) (*diary.SyncResult, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	f.saved = append(f.saved, d)
	return f.saveRes, nil
}

func (f *fakeDiary) View(_ context.Context, date string) (*diary.Entry, error) {
	e, ok := f.views[date]
	if !ok {
		return nil, errNotFound
	}
	return e, nil
}

func (f *fakeDiary) Calendar(context.Context) ([]*diary.Entry, error) { return f.calendar, nil }

func (f *fakeDiary) Finalize(_ context.Context, date, text string) (*diary.SyncResult, error) {
	if f.finalErr != nil {
		return nil, f.finalErr
	}
	f.finalized[date] = text
	return &diary.SyncResult{Synced: true}, nil
}

func (f *fakeDiary) SetPrivacy(_ context.Context, date string, public bool) (*diary.SyncResult, error) {
	f.privacy[date] = public
	return &diary.SyncResult{Synced: false, RemoteErr: errOffline}, nil
}

func (f *fakeDiary) FriendEntries(_ context.Context, friend string) ([]*diary.Entry, error) {
	return f.friendRows, f.friendErr
}

func (f *fakeDiary) Push(context.Context) ([]diary.PushOutcome, error) { return f.pushOut, f.pushErr }

type fakeSocial struct {
	friends  []string
	pending  []string
	notes    []*api.Notification
	err      error
	sent     []string
	accepted []string
}

func (f *fakeSocial) SendFriendRequest(_ context.Context, r string) error {
	f.sent = append(f.sent, r)
	return f.err
}
func (f *fakeSocial) AcceptFriendRequest(_ context.Context, s string) error {
	f.accepted = append(f.accepted, s)
	return f.err
}
func (f *fakeSocial) ListFriends(context.Context) ([]string, error) { return f.friends, f.err }
func (f *fakeSocial) ListPendingRequests(context.Context) ([]string, error) { return f.pending, f.err }
func (f *fakeSocial) FetchNotifications(context.Context) ([]*api.Notification, error) {
	return f.notes, f.err
}

type fakePhotos struct{ paths []string }

func (f *fakePhotos) ForDate(context.Context, string) []string { return f.paths }

type testApp struct {
	*App
	out     *bytes.Buffer
	auth    *fakeAuth
	session *fakeSession
	diary   *fakeDiary
	social  *fakeSocial
	photos  *fakePhotos
}

func newTestApp(t *testing.T, input ...string) *testApp {
	t.Helper()
	ta := &testApp{
		out:     &bytes.Buffer{},
		auth:    &fakeAuth{},
		session: &fakeSession{},
		diary:   newFakeDiary(),
		social:  &fakeSocial{},
		photos:  &fakePhotos{},
	}
	ta.App = &App{
		auth:     ta.auth,
		diary:    ta.diary,
		social:   ta.social,
		session:  ta.session,
		photos:   ta.photos,
		logger:   logging.Nop(),
		reader:   bufio.NewReader(strings.NewReader(strings.Join(input, "\n") + "\n")),
		out:      ta.out,
		readFile: func(string) ([]byte, error) { return nil, errNotFound },
		now:      func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) },
	}
	return ta
}
