package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sman1la/tatib-bot/internal/models"
)

func TestMemoryStore_PutGetDelete(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	_, err := store.Get(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)

	sess := &models.Session{UserID: 42, Stage: models.StageSelectTier, AdminName: "Bu Sari"}
	require.NoError(t, store.Put(ctx, sess))

	got, err := store.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, models.StageSelectTier, got.Stage)
	assert.Equal(t, "Bu Sari", got.AdminName)
	assert.False(t, got.UpdatedAt.IsZero())

	require.NoError(t, store.Delete(ctx, 42))
	_, err = store.Get(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)

	// deleting again is a no-op
	assert.NoError(t, store.Delete(ctx, 42))
}

func TestMemoryStore_LastWriterWins(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, &models.Session{UserID: 42, Stage: models.StageSelectTier}))
	require.NoError(t, store.Put(ctx, &models.Session{UserID: 42, Stage: models.StageAwaitLookupID}))

	got, err := store.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, models.StageAwaitLookupID, got.Stage)
}

func TestMemoryStore_SessionsAreIsolatedByUser(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, &models.Session{UserID: 1, Stage: models.StageSelectClass, Tier: "XI"}))
	require.NoError(t, store.Put(ctx, &models.Session{UserID: 2, Stage: models.StageAwaitExportID}))

	first, err := store.Get(ctx, 1)
	require.NoError(t, err)
	second, err := store.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, models.StageSelectClass, first.Stage)
	assert.Equal(t, models.StageAwaitExportID, second.Stage)
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, &models.Session{UserID: 42, Stage: models.StageSelectTier}))

	got, err := store.Get(ctx, 42)
	require.NoError(t, err)
	got.Stage = models.StageAwaitEvidence

	again, err := store.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, models.StageSelectTier, again.Stage)
}

func TestMemoryStore_IdleExpiry(t *testing.T) {
	store := NewMemoryStore(10 * time.Millisecond)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, &models.Session{UserID: 42, Stage: models.StageSelectTier}))
	time.Sleep(20 * time.Millisecond)

	_, err := store.Get(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)
}
