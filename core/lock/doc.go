// Package lock provides run exclusion for full comparison runs.
//
// A full run reads every configured table from both databases. The lock keeps
// a scheduled run and an on-demand run (or two instances of the service) from
// doing that at the same time. With redis configured the lock is shared
// through bsm/redislock; without it an in-process lock is used.
//
// # Usage
//
//	locker, closeFn, err := lock.New(ctx, cfg.Redis, logger)
//	release, err := locker.Obtain(ctx, cfg.Redis.Key, cfg.Redis.TTL())
//	if errors.Is(err, lock.ErrHeld) {
//	    // another run is in progress
//	}
//	defer release.Release(ctx)
package lock
