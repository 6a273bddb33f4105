package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/voicediary/internal/api"
	"github.com/dmitrijs2005/voicediary/internal/common"
	"github.com/dmitrijs2005/voicediary/internal/logging"
	"github.com/dmitrijs2005/voicediary/internal/server/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEntryService(t *testing.T, rm *fakeRepoManager, p *fakePresigner) *EntryService {
	t.Helper()
	db, _ := newSQLMockDB(t)
	return NewEntryService(db, rm, p, logging.Nop())
}

func TestRequestUpload(t *testing.T) {
	s := newEntryService(t, newFakeRepoManager(), &fakePresigner{})

	key, url, err := s.RequestUpload(context.Background(), "u1", "2024-03-01", api.KindAudio, "")
	require.NoError(t, err)
	assert.Equal(t, "users/u1/audio/2024-03-01.wav", key)
	assert.Contains(t, url, key)

	_, _, err = s.RequestUpload(context.Background(), "u1", "2024-03-01", "video", "")
	require.ErrorIs(t, err, common.ErrInvalidMediaKind)

	_, _, err = s.RequestUpload(context.Background(), "u1", "03/01/2024", api.KindImage, ".png")
	require.ErrorIs(t, err, common.ErrInvalidDate)

	s = newEntryService(t, newFakeRepoManager(), &fakePresigner{putErr: errBoom})
	_, _, err = s.RequestUpload(context.Background(), "u1", "2024-03-01", api.KindImage, ".png")
	require.ErrorIs(t, err, errBoom)
}

func TestSaveEntry_UpsertKeepsMedia(t *testing.T) {
	rm := newFakeRepoManager("alice")
	s := newEntryService(t, rm, &fakePresigner{})
	ctx := context.Background()

	require.NoError(t, s.SaveEntry(ctx, "id-alice", &models.Entry{
		Date: "2024-03-01", Summary: "first", AudioKey: "users/id-alice/audio/2024-03-01.wav",
	}))
	require.NoError(t, s.SaveEntry(ctx, "id-alice", &models.Entry{
		Date: "2024-03-01", Summary: "second", ImageKey: "users/id-alice/image/2024-03-01.png",
	}))

	got, err := rm.entries.Get(ctx, "id-alice", "2024-03-01")
	require.NoError(t, err)
	want := &models.Entry{
		UserID:   "id-alice",
		Date:     "2024-03-01",
		Summary:  "second",
		AudioKey: "users/id-alice/audio/2024-03-01.wav",
		ImageKey: "users/id-alice/image/2024-03-01.png",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("entry mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveEntry_KeepsFinalizedSummary(t *testing.T) {
	rm := newFakeRepoManager("alice")
	s := newEntryService(t, rm, &fakePresigner{})
	ctx := context.Background()

	require.NoError(t, s.SaveEntry(ctx, "id-alice", &models.Entry{Date: "2024-03-01", Summary: "draft"}))
	require.NoError(t, s.UpdateSummary(ctx, "id-alice", "2024-03-01", "final"))
	require.NoError(t, s.SaveEntry(ctx, "id-alice", &models.Entry{Date: "2024-03-01", Summary: "draft again", IsPublic: true}))

	got, err := rm.entries.Get(ctx, "id-alice", "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, "final", got.Summary)
	assert.True(t, got.IsEdited)
	assert.True(t, got.IsPublic)

	err = s.UpdateSummary(ctx, "id-alice", "2024-03-01", "second edit")
	require.ErrorIs(t, err, common.ErrAlreadyFinalized)
}

func TestSaveEntry_Rejects(t *testing.T) {
	s := newEntryService(t, newFakeRepoManager(), &fakePresigner{})
	ctx := context.Background()

	err := s.SaveEntry(ctx, "u1", &models.Entry{Date: "yesterday"})
	require.ErrorIs(t, err, common.ErrInvalidDate)

	err = s.SaveEntry(ctx, "u1", &models.Entry{Date: "2024-03-01", AudioKey: "users/u2/audio/2024-03-01.wav"})
	require.ErrorIs(t, err, common.ErrorForbidden)

	err = s.SaveEntry(ctx, "u1", &models.Entry{Date: "2024-03-01", ImageKey: "users/u1/../u2/image/x.jpg"})
	require.ErrorIs(t, err, common.ErrorForbidden)
}

func seedDiary(t *testing.T, rm *fakeRepoManager) {
	t.Helper()
	ctx := context.Background()
	for _, e := range []*models.Entry{
		{UserID: "id-alice", Date: "2024-03-02", Summary: "private", AudioKey: "users/id-alice/audio/2024-03-02.wav"},
		{UserID: "id-alice", Date: "2024-03-01", Summary: "public", IsPublic: true, ImageKey: "users/id-alice/image/2024-03-01.jpg"},
	} {
		require.NoError(t, rm.entries.Upsert(ctx, e))
	}
}

func TestListEntries_Owner(t *testing.T) {
	rm := newFakeRepoManager("alice")
	seedDiary(t, rm)
	s := newEntryService(t, rm, &fakePresigner{})

	views, err := s.ListEntries(context.Background(), "id-alice", "")
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "2024-03-01", views[0].Date)
	assert.Equal(t, "https://s3.test/get/users/id-alice/image/2024-03-01.jpg?sig=1", views[0].ImageURL)
	assert.Empty(t, views[0].AudioURL)
	assert.Equal(t, "2024-03-02", views[1].Date)
	assert.NotEmpty(t, views[1].AudioURL)

	// naming yourself is the same as naming no one
	views, err = s.ListEntries(context.Background(), "id-alice", "alice")
	require.NoError(t, err)
	assert.Len(t, views, 2)
}

func TestListEntries_FriendSeesPublicOnly(t *testing.T) {
	rm := newFakeRepoManager("alice", "bob", "carol")
	seedDiary(t, rm)
	rm.friends.rows[[2]string{"id-bob", "id-alice"}] = models.FriendStatusAccepted
	rm.friends.rows[[2]string{"id-carol", "id-alice"}] = models.FriendStatusPending
	s := newEntryService(t, rm, &fakePresigner{})
	ctx := context.Background()

	views, err := s.ListEntries(ctx, "id-bob", "alice")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "public", views[0].Summary)

	_, err = s.ListEntries(ctx, "id-carol", "alice")
	require.ErrorIs(t, err, common.ErrorForbidden)

	_, err = s.ListEntries(ctx, "id-bob", "nobody")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestListEntries_PresignFailureDegrades(t *testing.T) {
	rm := newFakeRepoManager("alice")
	seedDiary(t, rm)
	s := newEntryService(t, rm, &fakePresigner{getErr: errBoom})

	views, err := s.ListEntries(context.Background(), "id-alice", "")
	require.NoError(t, err)
	require.Len(t, views, 2)
	for _, v := range views {
		assert.Empty(t, v.AudioURL)
		assert.Empty(t, v.ImageURL)
	}
}

func TestListEntries_RepoError(t *testing.T) {
	rm := newFakeRepoManager("alice")
	rm.entries.listErr = errBoom
	s := newEntryService(t, rm, &fakePresigner{})

	_, err := s.ListEntries(context.Background(), "id-alice", "")
	require.ErrorIs(t, err, errBoom)
}

func TestUpdateSummary_Once(t *testing.T) {
	rm := newFakeRepoManager("alice")
	seedDiary(t, rm)
	s := newEntryService(t, rm, &fakePresigner{})
	ctx := context.Background()

	require.NoError(t, s.UpdateSummary(ctx, "id-alice", "2024-03-01", "edited"))
	err := s.UpdateSummary(ctx, "id-alice", "2024-03-01", "again")
	require.ErrorIs(t, err, common.ErrAlreadyFinalized)

	got, _ := rm.entries.Get(ctx, "id-alice", "2024-03-01")
	assert.Equal(t, "edited", got.Summary)
	assert.True(t, got.IsEdited)

	require.ErrorIs(t, s.UpdateSummary(ctx, "id-alice", "2024-01-01", "x"), common.ErrorNotFound)
	require.ErrorIs(t, s.UpdateSummary(ctx, "id-alice", "bad", "x"), common.ErrInvalidDate)
}

func TestUpdatePrivacy(t *testing.T) {
	rm := newFakeRepoManager("alice")
	seedDiary(t, rm)
	s := newEntryService(t, rm, &fakePresigner{})
	ctx := context.Background()

	require.NoError(t, s.UpdatePrivacy(ctx, "id-alice", "2024-03-02", true))
	got, _ := rm.entries.Get(ctx, "id-alice", "2024-03-02")
	assert.True(t, got.IsPublic)

	require.ErrorIs(t, s.UpdatePrivacy(ctx, "id-alice", "2024-01-01", true), common.ErrorNotFound)
}
