package lock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLockSerializesPerKey(t *testing.T) {
	l := NewLocalLock()
	ctx := context.Background()

	require.NoError(t, l.Acquire(ctx, "2026-09-01"))

	err := l.Acquire(ctx, "2026-09-01")
	require.Error(t, err)
	var held *ErrHeld
	require.ErrorAs(t, err, &held)
	assert.Equal(t, "2026-09-01", held.Key)

	// Other keys are independent.
	require.NoError(t, l.Acquire(ctx, "2026-09-02"))

	require.NoError(t, l.Release(ctx, "2026-09-01"))
	assert.NoError(t, l.Acquire(ctx, "2026-09-01"))
}

func TestRedisLockSetNXWithTTL(t *testing.T) {
	srv := miniredis.RunT(t)
	l := NewRedisLock(srv.Addr(), time.Minute)
	defer l.Close()
	ctx := context.Background()

	require.NoError(t, l.Acquire(ctx, "2026-09-01"))
	assert.True(t, srv.Exists("schedule_lock:2026-09-01"))

	var held *ErrHeld
	assert.ErrorAs(t, l.Acquire(ctx, "2026-09-01"), &held)

	// A crashed holder is evicted by the TTL.
	srv.FastForward(2 * time.Minute)
	assert.NoError(t, l.Acquire(ctx, "2026-09-01"))

	require.NoError(t, l.Release(ctx, "2026-09-01"))
	assert.False(t, srv.Exists("schedule_lock:2026-09-01"))
}
