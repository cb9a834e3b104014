package validation

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Schedule runs CompareAll once immediately when runNow is set and then every
// interval until ctx is done. A run skipped because another one holds the
// lock is logged and not retried. A non-positive interval only honours runNow.
func (s *Service) Schedule(ctx context.Context, interval time.Duration, runNow bool) {
	if runNow {
		s.scheduledRun(ctx)
	}
	if interval <= 0 {
		return
	}

	s.logger.Info("Scheduled comparisons enabled", zap.Duration("interval", interval))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.scheduledRun(ctx)
		}
	}
}

func (s *Service) scheduledRun(ctx context.Context) {
	run, err := s.CompareAll(ctx)
	switch {
	case errors.Is(err, ErrRunInProgress):
		s.logger.Info("Scheduled comparison skipped, another run holds the lock")
	case err != nil:
		if ctx.Err() == nil {
			s.logger.Error("Scheduled comparison failed", zap.Error(err))
		}
	default:
		s.logger.Info("Scheduled comparison completed",
			zap.String("batch_id", run.BatchID),
			zap.Int("inconsistent", run.Summary.InconsistentTables))
	}
}
