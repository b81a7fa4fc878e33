package persistence

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/draftline/draftline/pkg/api"
)

func TestFileStoreContract(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	testSessionStore(t, store)
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewFileStore(dir)
	require.NoError(t, err)

	sess := newStoreSession("persisted", api.VariantWebinar, time.Now().UTC())
	require.NoError(t, store.SaveSession(ctx, sess))

	// A fresh store over the same directory sees the same state.
	reopened, err := NewFileStore(dir)
	require.NoError(t, err)

	got, err := reopened.GetSession(ctx, "persisted")
	require.NoError(t, err)
	assert.Equal(t, api.VariantWebinar, got.Variant)
	assert.Equal(t, int64(1), got.Version)
	assert.Equal(t, api.StepCompleted, got.Steps[1].Status)
}

func TestFileStoreIgnoresAbandonedTempFiles(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewFileStore(dir)
	require.NoError(t, err)

	sess := newStoreSession("solid", api.VariantBlog, time.Now().UTC())
	require.NoError(t, store.SaveSession(ctx, sess))

	// Simulate a crash between temp write and rename.
	leftover := filepath.Join(dir, "solid.12345.tmp")
	require.NoError(t, os.WriteFile(leftover, []byte("{half-written"), 0o644))

	got, err := store.GetSession(ctx, "solid")
	require.NoError(t, err)
	assert.Equal(t, "solid", got.ID)

	sums, err := store.ListSessions(ctx, SessionFilter{})
	require.NoError(t, err)
	require.Len(t, sums, 1)
	assert.Equal(t, "solid", sums[0].ID)
}

func TestFileStoreSaveResetsVersionOnWriteFailure(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewFileStore(dir)
	require.NoError(t, err)

	// Channels cannot be JSON-encoded, so the save fails mid-write.
	sess := newStoreSession("doomed", api.VariantBlog, time.Now().UTC())
	sess.Steps[1].Data["bad"] = make(chan int)
	require.Error(t, store.SaveSession(ctx, sess))
	assert.Equal(t, int64(0), sess.Version)

	_, err = store.GetSession(ctx, "doomed")
	require.ErrorIs(t, err, ErrSessionNotFound)

	// With the payload fixed the same aggregate saves cleanly.
	delete(sess.Steps[1].Data, "bad")
	require.NoError(t, store.SaveSession(ctx, sess))
	assert.Equal(t, int64(1), sess.Version)
}

func TestFileStoreUpdateFailureKeepsPreviousDocument(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewFileStore(dir)
	require.NoError(t, err)

	sess := newStoreSession("durable", api.VariantBlog, time.Now().UTC())
	require.NoError(t, store.SaveSession(ctx, sess))

	// An update whose write fails must leave the previously persisted
	// document untouched and roll the caller's version back.
	loaded, err := store.GetSession(ctx, "durable")
	require.NoError(t, err)
	loaded.CurrentStep = 5
	loaded.Steps[1].Data["bad"] = make(chan int)
	require.Error(t, store.UpdateSession(ctx, loaded))
	assert.Equal(t, int64(1), loaded.Version)

	got, err := store.GetSession(ctx, "durable")
	require.NoError(t, err)
	assert.Equal(t, 2, got.CurrentStep)
	assert.Equal(t, int64(1), got.Version)
	assert.Equal(t, "informational intent", got.Steps[1].Data["result"])

	// The failed update left the store consistent for a clean retry.
	delete(loaded.Steps[1].Data, "bad")
	require.NoError(t, store.UpdateSession(ctx, loaded))
	assert.Equal(t, int64(2), loaded.Version)
}

func TestFileStoreConflictAcrossHandles(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := NewFileStore(dir)
	require.NoError(t, err)
	second, err := NewFileStore(dir)
	require.NoError(t, err)

	sess := newStoreSession("shared", api.VariantBlog, time.Now().UTC())
	require.NoError(t, first.SaveSession(ctx, sess))

	a, err := first.GetSession(ctx, "shared")
	require.NoError(t, err)
	b, err := second.GetSession(ctx, "shared")
	require.NoError(t, err)

	a.CurrentStep = 3
	require.NoError(t, first.UpdateSession(ctx, a))

	// The other handle still holds version 1 and must lose.
	b.CurrentStep = 7
	require.ErrorIs(t, second.UpdateSession(ctx, b), ErrVersionConflict)
}
