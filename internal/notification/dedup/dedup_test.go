package dedup

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "invoicer/pkg/domain-errors"
)

func newGuard(t *testing.T) (*Guard, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewGuard(client, time.Hour), mr
}

func TestFirstSeen(t *testing.T) {
	guard, _ := newGuard(t)
	ctx := context.Background()

	first, err := guard.FirstSeen(ctx, "evt-1")
	require.NoError(t, err)
	assert.True(t, first)

	again, err := guard.FirstSeen(ctx, "evt-1")
	require.NoError(t, err)
	assert.False(t, again)

	other, err := guard.FirstSeen(ctx, "evt-2")
	require.NoError(t, err)
	assert.True(t, other)
}

func TestFirstSeenExpires(t *testing.T) {
	guard, mr := newGuard(t)
	ctx := context.Background()

	first, err := guard.FirstSeen(ctx, "evt-1")
	require.NoError(t, err)
	require.True(t, first)

	mr.FastForward(2 * time.Hour)

	again, err := guard.FirstSeen(ctx, "evt-1")
	require.NoError(t, err)
	assert.True(t, again)
}

func TestFirstSeenRejectsEmptyEventID(t *testing.T) {
	guard, _ := newGuard(t)

	_, err := guard.FirstSeen(context.Background(), "")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func TestFirstSeenUnavailableWhenRedisDown(t *testing.T) {
	guard, mr := newGuard(t)
	mr.Close()

	_, err := guard.FirstSeen(context.Background(), "evt-1")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
}

func TestForget(t *testing.T) {
	guard, _ := newGuard(t)
	ctx := context.Background()

	first, err := guard.FirstSeen(ctx, "evt-1")
	require.NoError(t, err)
	require.True(t, first)

	require.NoError(t, guard.Forget(ctx, "evt-1"))

	again, err := guard.FirstSeen(ctx, "evt-1")
	require.NoError(t, err)
	assert.True(t, again)
}
