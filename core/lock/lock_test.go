package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeScripter answers the obtain and release scripts of redislock from a map.
// The scripts are told apart by their argument count.
type fakeScripter struct {
	mu   sync.Mutex
	held map[string]string
}

func newFakeScripter() *fakeScripter {
	return &fakeScripter{held: make(map[string]string)}
}

func (f *fakeScripter) run(keys []string, args ...any) *redis.Cmd {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := keys[0]
	value, _ := args[0].(string)
	switch len(args) {
	case 3: // obtain: value, token length, ttl
		if _, ok := f.held[key]; ok {
			return redis.NewCmdResult(nil, redis.Nil)
		}
		f.held[key] = value
		return redis.NewCmdResult("OK", nil)
	default: // release: value
		if f.held[key] != value {
			return redis.NewCmdResult(int64(0), nil)
		}
		delete(f.held, key)
		return redis.NewCmdResult(int64(1), nil)
	}
}

func (f *fakeScripter) Eval(_ context.Context, _ string, keys []string, args ...any) *redis.Cmd {
	return f.run(keys, args...)
}

func (f *fakeScripter) EvalSha(_ context.Context, _ string, keys []string, args ...any) *redis.Cmd {
	return f.run(keys, args...)
}

func (f *fakeScripter) EvalRO(_ context.Context, _ string, keys []string, args ...any) *redis.Cmd {
	return f.run(keys, args...)
}

func (f *fakeScripter) EvalShaRO(_ context.Context, _ string, keys []string, args ...any) *redis.Cmd {
	return f.run(keys, args...)
}

func (f *fakeScripter) ScriptExists(context.Context, ...string) *redis.BoolSliceCmd {
	return redis.NewBoolSliceResult(nil, nil)
}

func (f *fakeScripter) ScriptLoad(context.Context, string) *redis.StringCmd {
	return redis.NewStringResult("", nil)
}

func TestRedis_Obtain(t *testing.T) {
	ctx := context.Background()
	locker := NewRedis(newFakeScripter())

	first, err := locker.Obtain(ctx, "run", time.Minute)
	require.NoError(t, err)

	_, err = locker.Obtain(ctx, "run", time.Minute)
	assert.ErrorIs(t, err, ErrHeld)

	other, err := locker.Obtain(ctx, "other", time.Minute)
	require.NoError(t, err)
	require.NoError(t, other.Release(ctx))

	require.NoError(t, first.Release(ctx))
	again, err := locker.Obtain(ctx, "run", time.Minute)
	require.NoError(t, err)
	assert.NotNil(t, again)
}

func TestLocal_Obtain(t *testing.T) {
	ctx := context.Background()
	locker := NewLocal()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	locker.now = func() time.Time { return now }

	first, err := locker.Obtain(ctx, "run", time.Minute)
	require.NoError(t, err)

	_, err = locker.Obtain(ctx, "run", time.Minute)
	assert.ErrorIs(t, err, ErrHeld)

	t.Run("Expired Lock Can Be Taken Over", func(t *testing.T) {
		now = now.Add(2 * time.Minute)
		second, err := locker.Obtain(ctx, "run", time.Minute)
		require.NoError(t, err)

		// The stale holder must not release the new holder's lock
		require.NoError(t, first.Release(ctx))
		_, err = locker.Obtain(ctx, "run", time.Minute)
		assert.ErrorIs(t, err, ErrHeld)

		require.NoError(t, second.Release(ctx))
		_, err = locker.Obtain(ctx, "run", time.Minute)
		assert.NoError(t, err)
	})
}

func TestNew(t *testing.T) {
	t.Run("No Address Uses Local", func(t *testing.T) {
		locker, closeFn, err := New(context.Background(), Config{}, zap.NewNop())
		require.NoError(t, err)
		assert.IsType(t, &Local{}, locker)
		assert.NoError(t, closeFn())
	})

	t.Run("Unreachable Redis", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		_, _, err := New(ctx, Config{Addr: "127.0.0.1:1"}, zap.NewNop())
		assert.Error(t, err)
	})
}

func TestConfig_TTL(t *testing.T) {
	assert.Equal(t, time.Hour, Config{}.TTL())
	assert.Equal(t, 90*time.Second, Config{TTLSeconds: 90}.TTL())
}
