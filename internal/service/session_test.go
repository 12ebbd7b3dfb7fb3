package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourname/focustracker/internal"
	"github.com/yourname/focustracker/internal/storage"
)

func newTestStore(t *testing.T) storage.Store {
	dir := t.TempDir()
	store, err := storage.NewFileStore(
		filepath.Join(dir, "users.json"),
		filepath.Join(dir, "sessions.json"),
		filepath.Join(dir, "events.json"),
		internal.NewNopLogger(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStartSessionValidationBounds(t *testing.T) {
	base := StartSessionRequest{UserID: "u1", Goal: "write thesis"}

	for _, minutes := range []int{0, 481, -5} {
		req := base
		req.DurationMinutes = minutes
		assert.Error(t, ValidateStartSessionRequest(&req), "duration %d should be rejected", minutes)
	}
	for _, minutes := range []int{1, 25, 480} {
		req := base
		req.DurationMinutes = minutes
		assert.NoError(t, ValidateStartSessionRequest(&req), "duration %d should be accepted", minutes)
	}
}

func TestStartSessionRequiredFields(t *testing.T) {
	assert.Error(t, ValidateStartSessionRequest(&StartSessionRequest{Goal: "g", DurationMinutes: 25}))
	assert.Error(t, ValidateStartSessionRequest(&StartSessionRequest{UserID: "u1", DurationMinutes: 25}))
}

func TestStartSessionDefaults(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	session, err := StartSession(ctx, store, &StartSessionRequest{
		UserID:          "u1",
		Goal:            "write thesis",
		DurationMinutes: 25,
		Categories:      []string{"social", "games", "social"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, internal.StatusActive, session.Status)
	assert.Equal(t, internal.DefaultVoice, session.Voice)
	assert.Equal(t, []string{"social", "games"}, session.Categories)
	assert.Zero(t, session.TotalFocusSeconds)
	assert.Zero(t, session.TotalIdleSeconds)
	assert.Zero(t, session.DistractionsBlocked)
	assert.False(t, session.StartedAt.IsZero())
}

func TestRecordActivityUnknownSession(t *testing.T) {
	store := newTestStore(t)

	_, _, err := RecordActivity(context.Background(), store, store, &ActivityRequest{
		SessionID: "missing", UserID: "u1",
	})
	assert.ErrorIs(t, err, internal.ErrNotFound)
}

func TestRecordActivityDistractionAccrual(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	session, err := StartSession(ctx, store, &StartSessionRequest{
		UserID: "u1", Goal: "finish report", DurationMinutes: 25, Categories: []string{"social"},
	})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		decision, reason, err := RecordActivity(ctx, store, store, &ActivityRequest{
			SessionID: session.ID, UserID: "u1", Title: "Twitter feed",
		})
		require.NoError(t, err)
		assert.Equal(t, internal.DecisionIrrelevant, decision)
		assert.Contains(t, reason, "twitter")
	}

	got, err := store.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.DistractionsBlocked)
	assert.Equal(t, 0, got.TotalFocusSeconds)
	assert.NotNil(t, got.UpdatedAt)
}

func TestRecordActivityFocusAccrual(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	session, err := StartSession(ctx, store, &StartSessionRequest{
		UserID: "u1", Goal: "write thesis chapter", DurationMinutes: 60,
	})
	require.NoError(t, err)

	decision, _, err := RecordActivity(ctx, store, store, &ActivityRequest{
		SessionID: session.ID, UserID: "u1", Title: "Thesis Chapter Draft - Google Docs",
	})
	require.NoError(t, err)
	assert.Equal(t, internal.DecisionRelevant, decision)

	got, err := store.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, got.TotalFocusSeconds)
	assert.Equal(t, 0, got.DistractionsBlocked)
}

func TestRecordActivityNotIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	session, err := StartSession(ctx, store, &StartSessionRequest{
		UserID: "u1", Goal: "write thesis chapter", DurationMinutes: 60,
	})
	require.NoError(t, err)

	req := &ActivityRequest{SessionID: session.ID, UserID: "u1", Title: "thesis notes"}
	_, _, err = RecordActivity(ctx, store, store, req)
	require.NoError(t, err)
	_, _, err = RecordActivity(ctx, store, store, req)
	require.NoError(t, err)

	got, err := store.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 60, got.TotalFocusSeconds)
}

func TestRecordActivityIdleFlagDoesNotAccrueIdleSeconds(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	session, err := StartSession(ctx, store, &StartSessionRequest{
		UserID: "u1", Goal: "write thesis chapter", DurationMinutes: 60,
	})
	require.NoError(t, err)

	_, _, err = RecordActivity(ctx, store, store, &ActivityRequest{
		SessionID: session.ID, UserID: "u1", Idle: true,
	})
	require.NoError(t, err)

	got, err := store.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.TotalIdleSeconds)
}

func TestEndSessionTerminal(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	session, err := StartSession(ctx, store, &StartSessionRequest{
		UserID: "u1", Goal: "finish report", DurationMinutes: 25, Categories: []string{"social"},
	})
	require.NoError(t, err)

	require.NoError(t, EndSession(ctx, store, session.ID))

	got, err := store.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, internal.StatusEnded, got.Status)
	require.NotNil(t, got.EndedAt)

	// Activity against an ended session is still accepted and still accrues.
	decision, _, err := RecordActivity(ctx, store, store, &ActivityRequest{
		SessionID: session.ID, UserID: "u1", Title: "Twitter feed",
	})
	require.NoError(t, err)
	assert.Equal(t, internal.DecisionIrrelevant, decision)

	got, err = store.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.DistractionsBlocked)
	assert.Equal(t, internal.StatusEnded, got.Status)
}

func TestEndSessionUnknown(t *testing.T) {
	store := newTestStore(t)
	assert.ErrorIs(t, EndSession(context.Background(), store, "missing"), internal.ErrNotFound)
}
