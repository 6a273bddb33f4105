package diary

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/voicediary/internal/client/localstore"
	"github.com/dmitrijs2005/voicediary/internal/client/media"
	"github.com/dmitrijs2005/voicediary/internal/client/remote"
	"github.com/dmitrijs2005/voicediary/internal/common"
	"github.com/dmitrijs2005/voicediary/internal/logging"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSummarizer struct {
	text     string
	err      error
	gotMIME  string
	gotAudio []byte
}

func (f *fakeSummarizer) Summarize(ctx context.Context, audio []byte, mimeType string) (string, error) {
	f.gotAudio, f.gotMIME = audio, mimeType
	return f.text, f.err
}

type fakeRemote struct {
	loggedIn bool
	rows     map[string]*remote.Entry
	listErr  error
	saveOK   bool
	updErr   error

	saved      []remote.SaveInput
	summaries  map[string]string
	privacy    map[string]bool
	listOwners []string
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		loggedIn:  true,
		rows:      map[string]*remote.Entry{},
		saveOK:    true,
		summaries: map[string]string{},
		privacy:   map[string]bool{},
	}
}

func (f *fakeRemote) LoggedIn() bool { return f.loggedIn }

func (f *fakeRemote) List(ctx context.Context, owner string) ([]*remote.Entry, error) {
	f.listOwners = append(f.listOwners, owner)
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*remote.Entry, 0, len(f.rows))
	for _, r := range f.rows {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeRemote) Fetch(ctx context.Context, owner string, viewerIsOwner bool) map[string]*remote.Entry {
	if f.listErr != nil {
		return map[string]*remote.Entry{}
	}
	return f.rows
}

func (f *fakeRemote) Save(ctx context.Context, in remote.SaveInput) bool {
	f.saved = append(f.saved, in)
	return f.saveOK
}

func (f *fakeRemote) UpdateSummary(ctx context.Context, date, summary string) error {
	if f.updErr != nil {
		return f.updErr
	}
	f.summaries[date] = summary
	return nil
}

func (f *fakeRemote) UpdatePrivacy(ctx context.Context, date string, isPublic bool) error {
	if f.updErr != nil {
		return f.updErr
	}
	f.privacy[date] = isPublic
	return nil
}

func newTestService(t *testing.T) (*service, *localstore.Store, *fakeRemote, *fakeSummarizer) {
	t.Helper()
	ls, err := localstore.Open(t.TempDir())
	require.NoError(t, err)
	rs := newFakeRemote()
	sum := &fakeSummarizer{text: "- Walked the dog."}
	svc := NewService(ls, rs, sum, logging.Nop()).(*service)
	return svc, ls, rs, sum
}

func writeImage(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "IMG_0001.JPG")
	require.NoError(t, os.WriteFile(p, []byte("jpeg"), 0o600))
	return p
}

func TestCreate_SummarizesSavesLocalAndMirrors(t *testing.T) {
	svc, ls, rs, sum := newTestService(t)
	ctx := context.Background()
	img := writeImage(t)

	res, err := svc.Create(ctx, "2024-05-01", []byte("RIFF"), img, true)
	require.NoError(t, err)
	assert.True(t, res.Synced)
	assert.NoError(t, res.RemoteErr)
	assert.Equal(t, "audio/wav", sum.gotMIME)

	le, err := ls.Get("2024-05-01")
	require.NoError(t, err)
	assert.Equal(t, "- Walked the dog.", le.Summary)
	assert.True(t, le.IsPublic)
	assert.False(t, le.IsEdited)

	require.Len(t, rs.saved, 1)
	want := remote.SaveInput{
		Date:      "2024-05-01",
		Summary:   "- Walked the dog.",
		Audio:     []byte("RIFF"),
		ImagePath: le.ImagePath,
		IsPublic:  true,
	}
	if diff := cmp.Diff(want, rs.saved[0]); diff != "" {
		t.Fatalf("remote save input mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, media.Local, res.Entry.Audio.Kind)
	assert.Equal(t, media.Local, res.Entry.Image.Kind)
	assert.True(t, res.Entry.InLocal)
	assert.True(t, res.Entry.InRemote)
}

func TestCreate_RemoteFailureKeepsLocal(t *testing.T) {
	svc, ls, rs, _ := newTestService(t)
	rs.saveOK = false

	res, err := svc.Create(context.Background(), "2024-05-02", []byte("a"), "", false)
	require.NoError(t, err)
	assert.False(t, res.Synced)
	assert.Error(t, res.RemoteErr)

	_, err = ls.Get("2024-05-02")
	require.NoError(t, err)
}

func TestCreate_LoggedOutSkipsRemote(t *testing.T) {
	svc, _, rs, _ := newTestService(t)
	rs.loggedIn = false

	res, err := svc.Create(context.Background(), "2024-05-02", []byte("a"), "", false)
	require.NoError(t, err)
	assert.ErrorIs(t, res.RemoteErr, remote.ErrNotLoggedIn)
	assert.Empty(t, rs.saved)
}

func TestCreate_SummarizerFailureAborts(t *testing.T) {
	svc, ls, rs, sum := newTestService(t)
	sum.err = errors.New("quota")

	_, err := svc.Create(context.Background(), "2024-05-03", []byte("a"), "", false)
	require.ErrorContains(t, err, "quota")

	dates, err := ls.Dates()
	require.NoError(t, err)
	assert.Empty(t, dates)
	assert.Empty(t, rs.saved)
}

func TestCreate_InvalidDateAndNoSummarizer(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	_, err := svc.Create(context.Background(), "May 1", []byte("a"), "", false)
	require.ErrorIs(t, err, common.ErrInvalidDate)

	svc.summarizer = nil
	_, err = svc.Create(context.Background(), "2024-05-01", []byte("a"), "", false)
	require.ErrorIs(t, err, ErrNoSummarizer)
}

func TestView_PrefersLocalFallsBackToRemote(t *testing.T) {
	svc, ls, rs, _ := newTestService(t)
	ctx := context.Background()

	le, err := ls.Save("2024-06-01", localstore.SaveInput{Summary: "local", Audio: []byte("a")})
	require.NoError(t, err)
	rs.rows["2024-06-01"] = &remote.Entry{Date: "2024-06-01", Summary: "remote", AudioURL: "https://s3/a", ImageURL: "https://s3/i"}
	rs.rows["2024-06-02"] = &remote.Entry{Date: "2024-06-02", Summary: "only remote", AudioURL: "https://s3/b", IsPublic: true}

	got, err := svc.View(ctx, "2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, "local", got.Summary)
	assert.Equal(t, media.LocalRef(le.AudioPath), got.Audio)
	assert.Equal(t, media.RemoteRef("https://s3/i"), got.Image)

	require.NoError(t, os.Remove(le.AudioPath))
	got, err = svc.View(ctx, "2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, media.RemoteRef("https://s3/a"), got.Audio)

	got, err = svc.View(ctx, "2024-06-02")
	require.NoError(t, err)
	assert.Equal(t, "only remote", got.Summary)
	assert.True(t, got.IsPublic)
	assert.False(t, got.InLocal)

	_, err = svc.View(ctx, "2024-06-03")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestCalendar_UnionSorted(t *testing.T) {
	svc, ls, rs, _ := newTestService(t)
	_, err := ls.Save("2024-06-03", localstore.SaveInput{Summary: "c", Audio: []byte("a")})
	require.NoError(t, err)
	_, err = ls.Save("2024-06-01", localstore.SaveInput{Summary: "a", Audio: []byte("a")})
	require.NoError(t, err)
	rs.rows["2024-06-02"] = &remote.Entry{Date: "2024-06-02", Summary: "b"}
	rs.rows["2024-06-03"] = &remote.Entry{Date: "2024-06-03", Summary: "remote c"}

	got, err := svc.Calendar(context.Background())
	require.NoError(t, err)

	var dates, sums []string
	for _, e := range got {
		dates = append(dates, e.Date)
		sums = append(sums, e.Summary)
	}
	assert.Equal(t, []string{"2024-06-01", "2024-06-02", "2024-06-03"}, dates)
	assert.Equal(t, []string{"a", "b", "c"}, sums)
	assert.True(t, got[2].InLocal && got[2].InRemote)
}

func TestCalendar_OfflineShowsLocalOnly(t *testing.T) {
	svc, ls, rs, _ := newTestService(t)
	_, err := ls.Save("2024-06-01", localstore.SaveInput{Summary: "a", Audio: []byte("a")})
	require.NoError(t, err)
	rs.rows["2024-06-02"] = &remote.Entry{Date: "2024-06-02"}
	rs.listErr = remote.ErrUnavailable

	got, err := svc.Calendar(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "2024-06-01", got[0].Date)
}

func TestFinalize_Once(t *testing.T) {
	svc, ls, rs, _ := newTestService(t)
	ctx := context.Background()
	_, err := ls.Save("2024-07-01", localstore.SaveInput{Summary: "draft", Audio: []byte("a")})
	require.NoError(t, err)

	res, err := svc.Finalize(ctx, "2024-07-01", "final")
	require.NoError(t, err)
	assert.True(t, res.Synced)
	assert.Equal(t, "final", rs.summaries["2024-07-01"])

	le, _ := ls.Get("2024-07-01")
	assert.Equal(t, "final", le.Summary)
	assert.True(t, le.IsEdited)

	_, err = svc.Finalize(ctx, "2024-07-01", "again")
	require.ErrorIs(t, err, common.ErrAlreadyFinalized)
	le, _ = ls.Get("2024-07-01")
	assert.Equal(t, "final", le.Summary)
}

func TestFinalize_RemoteFailureIsWarning(t *testing.T) {
	svc, ls, rs, _ := newTestService(t)
	_, err := ls.Save("2024-07-01", localstore.SaveInput{Summary: "draft", Audio: []byte("a")})
	require.NoError(t, err)
	rs.updErr = remote.ErrUnavailable

	res, err := svc.Finalize(context.Background(), "2024-07-01", "final")
	require.NoError(t, err)
	assert.False(t, res.Synced)
	assert.ErrorIs(t, res.RemoteErr, remote.ErrUnavailable)
	le, _ := ls.Get("2024-07-01")
	assert.True(t, le.IsEdited)
}

func TestFinalize_RemoteOnly(t *testing.T) {
	svc, _, rs, _ := newTestService(t)
	ctx := context.Background()
	rs.rows["2024-07-02"] = &remote.Entry{Date: "2024-07-02", Summary: "draft"}

	res, err := svc.Finalize(ctx, "2024-07-02", "final")
	require.NoError(t, err)
	assert.True(t, res.Synced)

	rs.rows["2024-07-03"] = &remote.Entry{Date: "2024-07-03", IsEdited: true}
	_, err = svc.Finalize(ctx, "2024-07-03", "x")
	require.ErrorIs(t, err, common.ErrAlreadyFinalized)

	rs.updErr = common.ErrorForbidden
	_, err = svc.Finalize(ctx, "2024-07-02", "x")
	require.ErrorIs(t, err, common.ErrorForbidden)

	_, err = svc.Finalize(ctx, "2024-07-09", "x")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSetPrivacy(t *testing.T) {
	svc, ls, rs, _ := newTestService(t)
	_, err := ls.Save("2024-07-01", localstore.SaveInput{Summary: "s", Audio: []byte("a")})
	require.NoError(t, err)

	res, err := svc.SetPrivacy(context.Background(), "2024-07-01", true)
	require.NoError(t, err)
	assert.True(t, res.Synced)
	assert.True(t, res.Entry.IsPublic)
	assert.True(t, rs.privacy["2024-07-01"])

	le, _ := ls.Get("2024-07-01")
	assert.True(t, le.IsPublic)
	assert.Equal(t, "s", le.Summary)
}

func TestFriendEntries(t *testing.T) {
	svc, _, rs, _ := newTestService(t)
	rs.rows["2024-01-02"] = &remote.Entry{Date: "2024-01-02", IsPublic: true, AudioURL: "https://s3/x"}
	rs.rows["2024-01-01"] = &remote.Entry{Date: "2024-01-01", IsPublic: true}
	rs.rows["2024-01-03"] = &remote.Entry{Date: "2024-01-03", IsPublic: false}

	got, err := svc.FriendEntries(context.Background(), "bob")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2024-01-01", got[0].Date)
	assert.Equal(t, media.Missing, got[0].Audio.Kind)
	assert.Equal(t, media.RemoteRef("https://s3/x"), got[1].Audio)
	assert.Equal(t, []string{"bob"}, rs.listOwners)

	rs.listErr = common.ErrorForbidden
	_, err = svc.FriendEntries(context.Background(), "eve")
	require.ErrorIs(t, err, common.ErrorForbidden)
}

func TestPush_SkipsMissingMedia(t *testing.T) {
	svc, ls, rs, _ := newTestService(t)
	img := writeImage(t)
	a, err := ls.Save("2024-08-01", localstore.SaveInput{Summary: "a", Audio: []byte("a"), ImageSource: img, IsEdited: true})
	require.NoError(t, err)
	b, err := ls.Save("2024-08-02", localstore.SaveInput{Summary: "b", Audio: []byte("b"), ImageSource: img})
	require.NoError(t, err)
	require.NoError(t, os.Remove(b.AudioPath))
	require.NoError(t, os.Remove(b.ImagePath))

	got, err := svc.Push(context.Background())
	require.NoError(t, err)

	want := []PushOutcome{
		{Date: "2024-08-01", Synced: true},
		{Date: "2024-08-02", Synced: true, MissingAudio: true, MissingImage: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("outcomes mismatch (-want +got):\n%s", diff)
	}
	require.Len(t, rs.saved, 2)
	assert.Equal(t, a.AudioPath, rs.saved[0].AudioPath)
	assert.Equal(t, a.ImagePath, rs.saved[0].ImagePath)
	assert.True(t, rs.saved[0].IsEdited)
	assert.Empty(t, rs.saved[1].AudioPath)
	assert.Empty(t, rs.saved[1].ImagePath)
}

func TestPush_RequiresLogin(t *testing.T) {
	svc, _, rs, _ := newTestService(t)
	rs.loggedIn = false
	_, err := svc.Push(context.Background())
	require.ErrorIs(t, err, remote.ErrNotLoggedIn)
}

func TestSave_RefusesExistingDate(t *testing.T) {
	svc, ls, rs, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Save(ctx, "2025-01-02", Draft{Summary: "orig", Audio: []byte("a")})
	require.NoError(t, err)
	_, err = svc.Finalize(ctx, "2025-01-02", "final")
	require.NoError(t, err)

	_, err = svc.Save(ctx, "2025-01-02", Draft{Summary: "new", Audio: []byte("b")})
	require.ErrorIs(t, err, common.ErrorAlreadyExists)
	_, err = svc.Finalize(ctx, "2025-01-02", "second edit")
	require.ErrorIs(t, err, common.ErrAlreadyFinalized)

	le, err := ls.Get("2025-01-02")
	require.NoError(t, err)
	assert.Equal(t, "final", le.Summary)
	assert.True(t, le.IsEdited)
	require.Len(t, rs.saved, 1)

	// a date known only remotely is refused as well, before summarizing
	rs.rows["2025-01-03"] = &remote.Entry{Date: "2025-01-03", Summary: "elsewhere"}
	svc.summarizer = nil
	_, err = svc.Create(ctx, "2025-01-03", []byte("a"), "", false)
	require.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestMerge_RemoteFinalizedBeatsLocalDraft(t *testing.T) {
	svc, ls, rs, _ := newTestService(t)
	ctx := context.Background()
	_, err := ls.Save("2025-02-01", localstore.SaveInput{Summary: "draft", Audio: []byte("a"), IsPublic: true})
	require.NoError(t, err)
	rs.rows["2025-02-01"] = &remote.Entry{Date: "2025-02-01", Summary: "final elsewhere", IsEdited: true}

	got, err := svc.View(ctx, "2025-02-01")
	require.NoError(t, err)
	assert.Equal(t, "final elsewhere", got.Summary)
	assert.True(t, got.IsEdited)
	assert.True(t, got.IsPublic)

	_, err = svc.Finalize(ctx, "2025-02-01", "local edit")
	require.ErrorIs(t, err, common.ErrAlreadyFinalized)
	le, _ := ls.Get("2025-02-01")
	assert.Equal(t, "draft", le.Summary)
	assert.Empty(t, rs.summaries)
}

func TestPush_KeepsRemoteFinalized(t *testing.T) {
	svc, ls, rs, _ := newTestService(t)
	_, err := ls.Save("2025-02-01", localstore.SaveInput{Summary: "draft", Audio: []byte("a")})
	require.NoError(t, err)
	_, err = ls.Save("2025-02-02", localstore.SaveInput{Summary: "mine", Audio: []byte("b")})
	require.NoError(t, err)
	rs.rows["2025-02-01"] = &remote.Entry{Date: "2025-02-01", Summary: "final elsewhere", IsEdited: true}

	got, err := svc.Push(context.Background())
	require.NoError(t, err)

	want := []PushOutcome{
		{Date: "2025-02-01", RemoteFinalized: true},
		{Date: "2025-02-02", Synced: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("outcomes mismatch (-want +got):\n%s", diff)
	}
	require.Len(t, rs.saved, 1)
	assert.Equal(t, "2025-02-02", rs.saved[0].Date)

	le, err := ls.Get("2025-02-01")
	require.NoError(t, err)
	assert.Equal(t, "final elsewhere", le.Summary)
	assert.True(t, le.IsEdited)
}
