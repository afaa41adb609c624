package lock

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"log/slog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTryLockAndUnlock(t *testing.T) {
	fl := New(testLogger())
	key := fmt.Sprintf("test-%s-%d", t.Name(), time.Now().UnixNano())

	ctx := context.Background()
	acquired, err := fl.TryLock(ctx, key, time.Second)
	require.NoError(t, err)
	require.True(t, acquired)

	// A second holder times out while the lock is live.
	acquired, err = fl.TryLock(ctx, key, 300*time.Millisecond)
	require.NoError(t, err)
	assert.False(t, acquired)

	require.NoError(t, fl.Unlock(key))

	// Released locks can be taken again.
	acquired, err = fl.TryLock(ctx, key, time.Second)
	require.NoError(t, err)
	assert.True(t, acquired)
	require.NoError(t, fl.Unlock(key))
}

func TestUnlock_NotHeld(t *testing.T) {
	fl := New(testLogger())
	assert.NoError(t, fl.Unlock("never-held"))
}

func TestTryLock_ContextCanceled(t *testing.T) {
	fl := New(testLogger())
	key := fmt.Sprintf("test-%s-%d", t.Name(), time.Now().UnixNano())

	ctx := context.Background()
	acquired, err := fl.TryLock(ctx, key, time.Second)
	require.NoError(t, err)
	require.True(t, acquired)
	defer func() { _ = fl.Unlock(key) }()

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = fl.TryLock(canceled, key, time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}
