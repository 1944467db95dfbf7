package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/taskflow/backend/internal/infrastructure/cleanup"
	"github.com/taskflow/backend/usecase"
)

// ProcessorConfig controls how frequently the cleanup queue is drained.
type ProcessorConfig struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
}

// CleanupProcessor retries deletion of orphaned attachment references on a
// schedule. Items that keep failing are dropped after MaxRetries with a
// warning; record deletion already succeeded, so a leaked file is the worst
// outcome.
type CleanupProcessor struct {
	queue   *cleanup.Queue
	content usecase.ContentStore
	logger  *zap.Logger
	cron    *cron.Cron
	cfg     ProcessorConfig
}

func NewCleanupProcessor(
	queue *cleanup.Queue,
	content usecase.ContentStore,
	logger *zap.Logger,
	cfg ProcessorConfig,
) *CleanupProcessor {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cp := &CleanupProcessor{
		queue:   queue,
		content: content,
		logger:  logger,
		cfg:     cfg,
		cron:    cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = cp.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if err := cp.Drain(ctx); err != nil {
			cp.logger.Error("cleanup drain failed", zap.Error(err))
		}
	})

	return cp
}

// Start launches the cron scheduler.
func (cp *CleanupProcessor) Start() {
	if cp == nil || cp.cron == nil {
		return
	}
	cp.cron.Start()
	cp.logger.Info("cleanup processor started")
}

// Stop gracefully stops the scheduler.
func (cp *CleanupProcessor) Stop(ctx context.Context) {
	if cp == nil || cp.cron == nil {
		return
	}
	stopCtx := cp.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	cp.logger.Info("cleanup processor stopped")
}

// Drain retries queued deletions synchronously.
func (cp *CleanupProcessor) Drain(ctx context.Context) error {
	if cp == nil || cp.queue == nil || cp.content == nil {
		return nil
	}

	items, err := cp.queue.GetBatch(cp.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, item := range items {
		if err := cp.content.Delete(ctx, item.Ref); err != nil {
			item.Retries++
			if item.Retries >= cp.cfg.MaxRetries {
				cp.logger.Warn("dropping cleanup item (max retries reached)",
					zap.String("ref", item.Ref),
					zap.String("team_id", item.TeamID))
				_ = cp.queue.Remove(item)
				continue
			}
			if err := cp.queue.Remove(item); err != nil {
				cp.logger.Warn("failed to remove cleanup item", zap.Error(err))
			}
			if err := cp.queue.Requeue(item); err != nil {
				cp.logger.Error("failed to requeue cleanup item", zap.Error(err))
			}
			continue
		}

		if err := cp.queue.Remove(item); err != nil {
			cp.logger.Warn("failed to purge processed cleanup item", zap.Error(err))
		}
	}
	return nil
}

// Size returns the number of queued items.
func (cp *CleanupProcessor) Size() int {
	if cp == nil || cp.queue == nil {
		return 0
	}
	size, err := cp.queue.Size()
	if err != nil {
		return 0
	}
	return size
}
