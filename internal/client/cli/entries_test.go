package cli

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/voicediary/internal/client/diary"
	"github.com/dmitrijs2005/voicediary/internal/client/media"
	"github.com/dmitrijs2005/voicediary/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShow(t *testing.T) {
	ta := newTestApp(t)
	ta.diary.views["2024-05-01"] = &diary.Entry{
		Date:     "2024-05-01",
		Summary:  "- Walked the dog.",
		Audio:    media.LocalRef("/data/recordings/2024-05-01.wav"),
		Image:    media.RemoteRef("https://s3.test/get/img"),
		IsPublic: true,
	}

	require.NoError(t, ta.Show(context.Background(), []string{"2024-05-01"}))
	out := ta.out.String()
	assert.Contains(t, out, "2024-05-01  public  draft")
	assert.Contains(t, out, "- Walked the dog.")
	assert.Contains(t, out, "audio: local /data/recordings/2024-05-01.wav")
	assert.Contains(t, out, "image: remote https://s3.test/get/img")
}

func TestShow_MissingAndBadArgs(t *testing.T) {
	ta := newTestApp(t)
	ctx := context.Background()

	require.NoError(t, ta.Show(ctx, []string{"2024-05-02"}))
	assert.Contains(t, ta.out.String(), "No entry for 2024-05-02")

	require.ErrorIs(t, ta.Show(ctx, nil), errUsage)
	require.ErrorIs(t, ta.Show(ctx, []string{"yesterday"}), common.ErrInvalidDate)
}

func TestList(t *testing.T) {
	ta := newTestApp(t)
	require.NoError(t, ta.List(context.Background()))
	assert.Contains(t, ta.out.String(), "No entries yet")

	ta.out.Reset()
	ta.diary.calendar = []*diary.Entry{
		{Date: "2024-05-01", Summary: "- First point\n- Second", InLocal: true, InRemote: true},
		{Date: "2024-05-02", Summary: "x", IsPublic: true, IsEdited: true, InRemote: true},
	}
	require.NoError(t, ta.List(context.Background()))
	out := ta.out.String()
	assert.Contains(t, out, "2024-05-01  private  draft  synced  First point")
	assert.Contains(t, out, "2024-05-02  public   final  remote  x")
}

func TestFinalize(t *testing.T) {
	ta := newTestApp(t, "- Final one", "- Final two", "")
	ta.diary.views["2024-05-01"] = &diary.Entry{Date: "2024-05-01", Summary: "draft"}

	require.NoError(t, ta.Finalize(context.Background(), []string{"2024-05-01"}))
	assert.Equal(t, "- Final one\n- Final two", ta.diary.finalized["2024-05-01"])
	assert.Contains(t, ta.out.String(), "Saved and synced.")
}

func TestFinalize_AlreadyFinalAndCancel(t *testing.T) {
	ta := newTestApp(t, "")
	ta.diary.views["2024-05-01"] = &diary.Entry{Date: "2024-05-01", IsEdited: true}
	ta.diary.views["2024-05-02"] = &diary.Entry{Date: "2024-05-02"}
	ctx := context.Background()

	require.ErrorIs(t, ta.Finalize(ctx, []string{"2024-05-01"}), common.ErrAlreadyFinalized)

	require.NoError(t, ta.Finalize(ctx, []string{"2024-05-02"}))
	assert.Contains(t, ta.out.String(), "Cancelled")
	assert.Empty(t, ta.diary.finalized)
}

func TestSetPrivacy_ReportsUnsynced(t *testing.T) {
	ta := newTestApp(t)
	require.NoError(t, ta.SetPrivacy(context.Background(), []string{"2024-05-01"}, true))
	assert.True(t, ta.diary.privacy["2024-05-01"])
	assert.Contains(t, ta.out.String(), "2024-05-01 is now public.")
	assert.Contains(t, ta.out.String(), "Warning: not synced")
}

func TestPush(t *testing.T) {
	ta := newTestApp(t)
	ta.diary.pushOut = []diary.PushOutcome{
		{Date: "2024-05-01", Synced: true},
		{Date: "2024-05-02", Synced: false, MissingAudio: true, MissingImage: true},
	}

	require.NoError(t, ta.Push(context.Background()))
	out := ta.out.String()
	assert.Contains(t, out, "2024-05-01  ok")
	assert.Contains(t, out, "2024-05-02  FAILED (audio missing, image missing)")
	assert.Contains(t, out, "Pushed 1 of 2 entries")
}

func TestPush_ReportsRemoteFinalized(t *testing.T) {
	ta := newTestApp(t)
	ta.diary.pushOut = []diary.PushOutcome{
		{Date: "2024-05-01", RemoteFinalized: true},
		{Date: "2024-05-02", Synced: true},
	}

	require.NoError(t, ta.Push(context.Background()))
	out := ta.out.String()
	assert.Contains(t, out, "2024-05-01  kept (finalized on server, local copy updated)")
	assert.Contains(t, out, "Pushed 1 of 2 entries")
}
