package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourname/focustracker/internal"
)

func newFileStore(t *testing.T, dir string) *FileStore {
	store, err := NewFileStore(
		filepath.Join(dir, "users.json"),
		filepath.Join(dir, "sessions.json"),
		filepath.Join(dir, "events.json"),
		internal.NewNopLogger(),
	)
	require.NoError(t, err)
	return store
}

func activeSession(userID string) *internal.Session {
	return &internal.Session{
		UserID:          userID,
		Goal:            "write thesis",
		DurationMinutes: 25,
		Categories:      []string{"social"},
		StartedAt:       time.Now().UTC(),
		Status:          internal.StatusActive,
	}
}

func TestFileStoreSessionRoundTrip(t *testing.T) {
	store := newFileStore(t, t.TempDir())
	defer store.Close()
	ctx := context.Background()

	id, err := store.CreateSession(ctx, activeSession("u1"))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := store.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "write thesis", got.Goal)
	assert.Equal(t, internal.StatusActive, got.Status)

	_, err = store.GetSession(ctx, "missing")
	assert.ErrorIs(t, err, internal.ErrNotFound)
}

func TestFileStoreConcurrentIncrements(t *testing.T) {
	store := newFileStore(t, t.TempDir())
	defer store.Close()
	ctx := context.Background()

	id, err := store.CreateSession(ctx, activeSession("u1"))
	require.NoError(t, err)

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := store.IncrementCounters(ctx, id, internal.CounterDelta{FocusSeconds: 30, DistractionsBlocked: 1})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := store.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, workers*30, got.TotalFocusSeconds)
	assert.Equal(t, workers, got.DistractionsBlocked)
}

func TestFileStoreCountersMonotonic(t *testing.T) {
	store := newFileStore(t, t.TempDir())
	defer store.Close()
	ctx := context.Background()

	id, err := store.CreateSession(ctx, activeSession("u1"))
	require.NoError(t, err)

	prevFocus, prevBlocked := 0, 0
	for i := 0; i < 5; i++ {
		got, err := store.IncrementCounters(ctx, id, internal.CounterDelta{FocusSeconds: 30})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, got.TotalFocusSeconds, prevFocus)
		assert.GreaterOrEqual(t, got.DistractionsBlocked, prevBlocked)
		prevFocus, prevBlocked = got.TotalFocusSeconds, got.DistractionsBlocked
	}
}

func TestFileStoreEndSession(t *testing.T) {
	store := newFileStore(t, t.TempDir())
	defer store.Close()
	ctx := context.Background()

	id, err := store.CreateSession(ctx, activeSession("u1"))
	require.NoError(t, err)

	endedAt := time.Now().UTC()
	require.NoError(t, store.EndSession(ctx, id, endedAt))

	got, err := store.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, internal.StatusEnded, got.Status)
	require.NotNil(t, got.EndedAt)
	assert.WithinDuration(t, endedAt, *got.EndedAt, time.Second)

	assert.ErrorIs(t, store.EndSession(ctx, "missing", endedAt), internal.ErrNotFound)
}

func TestFileStoreListSessionsOrderAndLimit(t *testing.T) {
	store := newFileStore(t, t.TempDir())
	defer store.Close()
	ctx := context.Background()

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		s := activeSession("u1")
		s.Goal = fmt.Sprintf("goal-%d", i)
		s.StartedAt = base.Add(time.Duration(i) * time.Minute)
		_, err := store.CreateSession(ctx, s)
		require.NoError(t, err)
	}
	_, err := store.CreateSession(ctx, activeSession("u2"))
	require.NoError(t, err)

	sessions, err := store.ListSessionsByUser(ctx, "u1", 3)
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	assert.Equal(t, "goal-4", sessions[0].Goal)
	assert.Equal(t, "goal-3", sessions[1].Goal)
	assert.Equal(t, "goal-2", sessions[2].Goal)
}

func TestFileStorePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store := newFileStore(t, dir)
	id, err := store.CreateSession(ctx, activeSession("u1"))
	require.NoError(t, err)
	_, err = store.IncrementCounters(ctx, id, internal.CounterDelta{FocusSeconds: 30})
	require.NoError(t, err)
	_, err = store.AppendEvent(ctx, &internal.ActivityEvent{
		SessionID: id, UserID: "u1", Timestamp: time.Now().UTC(),
		Device: internal.DefaultDevice, Decision: internal.DecisionRelevant,
	})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened := newFileStore(t, dir)
	defer reopened.Close()

	got, err := reopened.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 30, got.TotalFocusSeconds)

	collections, err := reopened.Collections(ctx)
	require.NoError(t, err)
	assert.Contains(t, collections, "session")
	assert.Contains(t, collections, "activityevent")
}

func TestFileStoreCreateUser(t *testing.T) {
	store := newFileStore(t, t.TempDir())
	defer store.Close()

	id, err := store.CreateUser(context.Background(), &internal.User{
		DeviceID: "device-1",
		Voice:    internal.DefaultVoice,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
}
