package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/pick-your-pour/signup-service/internal/persistence"
	"github.com/pick-your-pour/signup-service/internal/service"
)

// StagingJanitor reaps staged profile uploads that were never claimed by a
// completed sign-up, bounding how long an orphaned object can live.
type StagingJanitor struct {
	store    persistence.ObjectStore
	ttl      time.Duration
	interval time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewStagingJanitor builds the janitor.
func NewStagingJanitor(store persistence.ObjectStore, ttl, interval time.Duration, logger *zap.Logger) *StagingJanitor {
	return &StagingJanitor{
		store:    store,
		ttl:      ttl,
		interval: interval,
		logger:   logger,
		now:      time.Now,
	}
}

// Start runs periodic sweeps until ctx is cancelled.
func (j *StagingJanitor) Start(ctx context.Context) {
	if j.store == nil || j.interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := j.Sweep(ctx); err != nil {
					j.logger.Warn("staging sweep failed", zap.Error(err))
				}
			}
		}
	}()
}

// Sweep deletes staged objects older than the TTL.
func (j *StagingJanitor) Sweep(ctx context.Context) error {
	objects, err := j.store.List(ctx, service.StagingPrefix)
	if err != nil {
		return err
	}

	cutoff := j.now().Add(-j.ttl)
	removed := 0
	for _, obj := range objects {
		if obj.LastModified.IsZero() || obj.LastModified.After(cutoff) {
			continue
		}
		if err := j.store.Delete(ctx, obj.Key); err != nil {
			j.logger.Warn("could not delete staged object", zap.String("key", obj.Key), zap.Error(err))
			continue
		}
		removed++
	}

	if removed > 0 {
		j.logger.Info("staging sweep complete", zap.Int("removed", removed))
	}
	return nil
}
