package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrHeld is returned by Obtain when another holder owns the key.
var ErrHeld = errors.New("lock is held by another run")

// Releaser releases an obtained lock.
type Releaser interface {
	Release(ctx context.Context) error
}

// Locker hands out exclusive, expiring locks by key.
type Locker interface {
	Obtain(ctx context.Context, key string, ttl time.Duration) (Releaser, error)
}

// New returns a redis-backed Locker when cfg.Addr is set and an in-process
// Locker otherwise. The returned func closes the redis connection.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (Locker, func() error, error) {
	if cfg.Addr == "" {
		logger.Info("Redis not configured, using in-process lock")
		return NewLocal(), func() error { return nil }, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	logger.Info("Connected to redis", zap.String("addr", cfg.Addr))
	return NewRedis(rdb), rdb.Close, nil
}

// Redis is a Locker shared by every instance pointed at the same redis.
type Redis struct {
	client *redislock.Client
}

// NewRedis creates a Locker over a redis client.
func NewRedis(client redislock.RedisClient) *Redis {
	return &Redis{client: redislock.New(client)}
}

func (r *Redis) Obtain(ctx context.Context, key string, ttl time.Duration) (Releaser, error) {
	l, err := r.client.Obtain(ctx, key, ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("%w: %s", ErrHeld, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to obtain lock %s: %w", key, err)
	}
	return l, nil
}

// Local is a Locker scoped to the current process.
type Local struct {
	mu   sync.Mutex
	held map[string]time.Time
	now  func() time.Time
}

// NewLocal creates an in-process Locker.
func NewLocal() *Local {
	return &Local{held: make(map[string]time.Time), now: time.Now}
}

func (l *Local) Obtain(_ context.Context, key string, ttl time.Duration) (Releaser, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if expires, ok := l.held[key]; ok && l.now().Before(expires) {
		return nil, fmt.Errorf("%w: %s", ErrHeld, key)
	}
	expires := l.now().Add(ttl)
	l.held[key] = expires
	return &localLock{owner: l, key: key, expires: expires}, nil
}

type localLock struct {
	owner   *Local
	key     string
	expires time.Time
}

func (k *localLock) Release(context.Context) error {
	k.owner.mu.Lock()
	defer k.owner.mu.Unlock()
	// Only release if the key was not re-obtained after expiry.
	if k.owner.held[k.key].Equal(k.expires) {
		delete(k.owner.held, k.key)
	}
	return nil
}
