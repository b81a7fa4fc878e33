package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/draftline/draftline/pkg/api"
)

func newStoreSession(id string, variant api.WorkflowVariant, updated time.Time) *api.Session {
	return &api.Session{
		ID:             id,
		Variant:        variant,
		PrimaryKeyword: "observability pipelines",
		BlogType:       "a practical migration guide for teams moving off hosted log aggregation vendors",
		SchemaVersion:  2,
		Status:         api.StatusActive,
		CurrentStep:    2,
		Steps: map[int]*api.StepRecord{
			1: {
				StepNumber:  1,
				Name:        "Search Intent Analysis",
				Owner:       api.OwnerAI,
				Status:      api.StepCompleted,
				Data:        map[string]any{"result": "informational intent", "confidence": "high"},
				Prompt:      "analyze search intent",
				StartedAt:   updated.Add(-2 * time.Minute),
				CompletedAt: updated.Add(-time.Minute),
			},
			2: {
				StepNumber: 2,
				Name:       "Competitor Content Fetch",
				Owner:      api.OwnerAI,
				Status:     api.StepPending,
			},
		},
		CreatedAt: updated.Add(-time.Hour),
		UpdatedAt: updated,
	}
}

// testSessionStore exercises the SessionStore contract shared by every
// backend: versioned save/update, typed errors, and filtered listing.
func testSessionStore(t *testing.T, store SessionStore) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	_, err := store.GetSession(ctx, "missing")
	require.ErrorIs(t, err, ErrSessionNotFound)

	sess := newStoreSession("sess-a", api.VariantBlog, base)
	require.NoError(t, store.SaveSession(ctx, sess))
	assert.Equal(t, int64(1), sess.Version)

	dup := newStoreSession("sess-a", api.VariantBlog, base)
	require.ErrorIs(t, store.SaveSession(ctx, dup), ErrSessionExists)

	got, err := store.GetSession(ctx, "sess-a")
	require.NoError(t, err)
	assert.Equal(t, "sess-a", got.ID)
	assert.Equal(t, api.VariantBlog, got.Variant)
	assert.Equal(t, 2, got.CurrentStep)
	assert.Equal(t, int64(1), got.Version)
	require.Contains(t, got.Steps, 1)
	assert.Equal(t, api.StepCompleted, got.Steps[1].Status)
	assert.Equal(t, "informational intent", got.Steps[1].Data["result"])

	stale, err := store.GetSession(ctx, "sess-a")
	require.NoError(t, err)

	got.CurrentStep = 3
	got.Steps[2].Status = api.StepCompleted
	got.UpdatedAt = base.Add(time.Minute)
	require.NoError(t, store.UpdateSession(ctx, got))
	assert.Equal(t, int64(2), got.Version)

	reloaded, err := store.GetSession(ctx, "sess-a")
	require.NoError(t, err)
	assert.Equal(t, 3, reloaded.CurrentStep)
	assert.Equal(t, api.StepCompleted, reloaded.Steps[2].Status)
	assert.Equal(t, int64(2), reloaded.Version)

	// A writer holding the old version loses.
	stale.CurrentStep = 9
	require.ErrorIs(t, store.UpdateSession(ctx, stale), ErrVersionConflict)

	ghost := newStoreSession("sess-ghost", api.VariantBlog, base)
	ghost.Version = 1
	require.ErrorIs(t, store.UpdateSession(ctx, ghost), ErrSessionNotFound)

	// Listing: order is most-recently-updated first.
	second := newStoreSession("sess-b", api.VariantWebinar, base.Add(2*time.Minute))
	second.Status = api.StatusCompleted
	require.NoError(t, store.SaveSession(ctx, second))

	// sess-c is newer than sess-b by half a second, inside the same
	// whole second. This catches timestamp encodings whose text form
	// stops sorting chronologically once sub-second precision varies.
	third := newStoreSession("sess-c", api.VariantBlog, base.Add(2*time.Minute+500*time.Millisecond))
	require.NoError(t, store.SaveSession(ctx, third))

	all, err := store.ListSessions(ctx, SessionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "sess-c", all[0].ID)
	assert.Equal(t, "sess-b", all[1].ID)
	assert.Equal(t, "sess-a", all[2].ID)

	active, err := store.ListSessions(ctx, SessionFilter{Status: api.StatusActive})
	require.NoError(t, err)
	require.Len(t, active, 2)
	for _, sum := range active {
		assert.Equal(t, api.StatusActive, sum.Status)
	}

	webinars, err := store.ListSessions(ctx, SessionFilter{Variant: api.VariantWebinar})
	require.NoError(t, err)
	require.Len(t, webinars, 1)
	assert.Equal(t, "sess-b", webinars[0].ID)

	page, err := store.ListSessions(ctx, SessionFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "sess-c", page[0].ID)

	rest, err := store.ListSessions(ctx, SessionFilter{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, rest, 2)
	assert.Equal(t, "sess-b", rest[0].ID)
	assert.Equal(t, "sess-a", rest[1].ID)

	past, err := store.ListSessions(ctx, SessionFilter{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, past)
}
