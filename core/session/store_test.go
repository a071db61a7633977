package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *BoltStore {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestBoltStore_CreateAndGet(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, 42, 24*time.Hour)
	require.NoError(t, err)
	require.Len(t, created.ID, idLength)
	assert.Equal(t, int64(42), created.UserID)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), created.ExpiresAt, time.Minute)

	got, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	// Timestamps round-trip at millisecond precision.
	assert.Equal(t, created.UserID, got.UserID)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.ExpiresAt.UnixMilli(), got.ExpiresAt.UnixMilli())
	assert.Equal(t, created.CreatedAt.UnixMilli(), got.CreatedAt.UnixMilli())
}

func TestBoltStore_GetMissing(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)

	got, err := store.Get(context.Background(), "nothere")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestBoltStore_GetExpiredStillReturned(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, 7, -time.Hour)
	require.NoError(t, err)

	// Expiry is the caller's concern; the store returns the record as-is.
	got, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.IsExpired())
}

func TestBoltStore_Delete(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, 1, time.Hour)
	require.NoError(t, err)

	removed, err := store.Delete(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, removed)
	assert.Equal(t, created.ID, removed.ID)

	got, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	// Deleting again is a no-op returning nil.
	removed, err = store.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, removed)
}

func TestBoltStore_DeleteExpired(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()

	expired, err := store.Create(ctx, 1, -time.Minute)
	require.NoError(t, err)
	live, err := store.Create(ctx, 2, time.Hour)
	require.NoError(t, err)

	removed, err := store.DeleteExpired(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	gone, err := store.Get(ctx, expired.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	kept, err := store.Get(ctx, live.ID)
	require.NoError(t, err)
	require.NotNil(t, kept)
	assert.Equal(t, live.ID, kept.ID)

	// Nothing left to sweep.
	removed, err = store.DeleteExpired(ctx, time.Now())
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestBoltStore_CreateSkipsExistingID(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()

	seeded, err := store.Create(ctx, 1, time.Hour)
	require.NoError(t, err)

	// Force the generator to propose the live id first; the existence probe
	// must reject it and the loop resample.
	ids := []string{seeded.ID, "fresh01"}
	store.genID = func(exists func(string) bool) string {
		for _, id := range ids {
			if !exists(id) {
				return id
			}
		}
		t.Fatal("generator exhausted candidates")
		return ""
	}

	created, err := store.Create(ctx, 2, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "fresh01", created.ID)
}

func TestBoltStore_CancelledContext(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Create(ctx, 1, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = store.Get(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewID_ResamplesOnCollision(t *testing.T) {
	t.Parallel()

	var candidates []string
	id := newID(func(candidate string) bool {
		candidates = append(candidates, candidate)
		return len(candidates) == 1 // first sample "exists", forcing a retry
	})

	require.Len(t, candidates, 2)
	assert.NotEqual(t, candidates[0], id)
	assert.Equal(t, candidates[1], id)
	assert.Len(t, id, idLength)
}

func TestSessionPersistsAcrossReopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sessions.db")
	ctx := context.Background()

	store, err := Open(path)
	require.NoError(t, err)
	created, err := store.Create(ctx, 9, time.Hour)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.UserID, got.UserID)
}
