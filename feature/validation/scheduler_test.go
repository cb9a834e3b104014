package validation

import (
	"context"
	"testing"
	"time"

	"db-validator/core/lock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSchedule_RunNowOnly(t *testing.T) {
	svc, _ := newTestService(t, testConfig(t), Options{})

	svc.Schedule(context.Background(), 0, true)

	svc.mu.RLock()
	defer svc.mu.RUnlock()
	require.NotNil(t, svc.last)
	assert.Equal(t, "batch-1", svc.last.BatchID)
}

func TestSchedule_Interval(t *testing.T) {
	svc, _ := newTestService(t, testConfig(t), Options{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Schedule(ctx, 10*time.Millisecond, false)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		svc.mu.RLock()
		defer svc.mu.RUnlock()
		return svc.last != nil && svc.last.BatchID != "batch-1"
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestSchedule_SkipsWhenLocked(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	locker := lock.NewLocal()
	_, err := locker.Obtain(context.Background(), "run-lock", time.Minute)
	require.NoError(t, err)

	svc, _ := newTestService(t, testConfig(t), Options{Locker: locker, LockKey: "run-lock"})
	svc.logger = zap.New(core)

	svc.Schedule(context.Background(), 0, true)

	assert.Equal(t, 1, logs.FilterMessage("Scheduled comparison skipped, another run holds the lock").Len())
	assert.Nil(t, svc.last)
}
