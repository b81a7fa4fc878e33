package persistence

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/draftline/draftline/pkg/api"
)

func newSQLiteStore(t *testing.T) *SQLiteSessionStore {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store, err := NewSQLiteSessionStore(db)
	require.NoError(t, err)
	return store
}

func TestSQLiteStoreContract(t *testing.T) {
	testSessionStore(t, newSQLiteStore(t))
}

func TestSQLiteStoreRoundTripsFullAggregate(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	sess := newStoreSession("full", api.VariantBlog, time.Now().UTC())
	sess.Steps[1].History = []api.StepAttempt{{
		Status: api.StepCompleted,
		Data:   map[string]any{"result": "first attempt"},
		Prompt: "original prompt",
	}}
	sess.Steps[1].GeneratedPrompts = []string{"q1", "q2"}
	require.NoError(t, store.SaveSession(ctx, sess))

	got, err := store.GetSession(ctx, "full")
	require.NoError(t, err)
	require.Len(t, got.Steps[1].History, 1)
	assert.Equal(t, "first attempt", got.Steps[1].History[0].Data["result"])
	assert.Equal(t, []string{"q1", "q2"}, got.Steps[1].GeneratedPrompts)
	assert.Equal(t, sess.PrimaryKeyword, got.PrimaryKeyword)
	assert.Equal(t, sess.BlogType, got.BlogType)
}

func TestSQLiteStoreSchemaIsIdempotent(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	first, err := NewSQLiteSessionStore(db)
	require.NoError(t, err)

	sess := newStoreSession("kept", api.VariantBlog, time.Now().UTC())
	require.NoError(t, first.SaveSession(context.Background(), sess))

	// Re-initializing over the same database keeps existing rows.
	second, err := NewSQLiteSessionStore(db)
	require.NoError(t, err)

	got, err := second.GetSession(context.Background(), "kept")
	require.NoError(t, err)
	assert.Equal(t, "kept", got.ID)
}
