package eventstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAndHistory(t *testing.T) {
	store := newTestStore(t)
	ctx := t.Context()

	clock := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	tick := func() {
		clock = clock.Add(time.Second)
		at := clock
		store.now = func() time.Time { return at }
	}

	record := func(e Event, err error) {
		t.Helper()
		require.NoError(t, err)
		tick()
		require.NoError(t, Record(ctx, store, e))
	}

	record(NewBuildStarted("b1", "config/raw_sitemap.yml", "cli"))
	record(NewBuildCompleted("b1", BuildCompletedData{Artifact: "config/sitemap.yml", Fingerprint: "fp1", Pages: 4, Blocks: 2, Roots: 2}))
	record(NewBuildStarted("b2", "config/raw_sitemap.yml", "watch"))
	record(NewBuildFailed("b2", "compute", "template could not be applied"))
	record(NewBuildStarted("b3", "config/raw_sitemap.yml", "schedule"))
	record(NewBuildSkipped("b3", "inputs unchanged", "abc"))

	history, err := History(ctx, store, 10)
	require.NoError(t, err)
	require.Len(t, history, 3)

	assert.Equal(t, "b3", history[0].BuildID)
	assert.Equal(t, StatusSkipped, history[0].Status)
	assert.Equal(t, "schedule", history[0].Trigger)

	assert.Equal(t, "b2", history[1].BuildID)
	assert.Equal(t, StatusFailed, history[1].Status)
	assert.Equal(t, "compute", history[1].ErrorStage)
	assert.Equal(t, "template could not be applied", history[1].ErrorMessage)

	b1 := history[2]
	assert.Equal(t, StatusCompleted, b1.Status)
	assert.Equal(t, 4, b1.Pages)
	assert.Equal(t, 2, b1.Blocks)
	assert.Equal(t, "fp1", b1.Fingerprint)
	require.NotNil(t, b1.CompletedAt)
	assert.Equal(t, time.Second, b1.Duration)

	limited, err := History(ctx, store, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "b3", limited[0].BuildID)
}

func TestSummarize_RunningBuild(t *testing.T) {
	started, err := NewBuildStarted("b1", "raw.yml", "cli")
	require.NoError(t, err)

	summaries := Summarize([]Event{started, &BaseEvent{EventType: TypeBuildStarted}})
	require.Len(t, summaries, 1, "events without build id are ignored")
	assert.Equal(t, StatusRunning, summaries[0].Status)
	assert.Nil(t, summaries[0].CompletedAt)
}
