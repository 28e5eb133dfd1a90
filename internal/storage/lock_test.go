package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStorage_Lock(t *testing.T) {
	store, mr := setupTestRedis(t, 0)
	ctx := context.Background()

	ok, err := store.AcquireLock(ctx, "autosave", "api-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.AcquireLock(ctx, "autosave", "api-2", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "held by another owner")

	// Only the owner can release.
	require.NoError(t, store.ReleaseLock(ctx, "autosave", "api-2"))
	assert.True(t, mr.Exists("houses:lock:autosave"))

	require.NoError(t, store.ReleaseLock(ctx, "autosave", "api-1"))
	assert.False(t, mr.Exists("houses:lock:autosave"))

	ok, err = store.AcquireLock(ctx, "autosave", "api-2", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(2 * time.Minute)
	assert.False(t, mr.Exists("houses:lock:autosave"), "lock expires")
}
