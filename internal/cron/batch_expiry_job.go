package cron

import (
	"context"
	"fmt"

	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/logger"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/metrics"
)

// BatchExpiryJobParams configure the expired batch sweeper.
type BatchExpiryJobParams struct {
	Logger  *logger.Logger
	Batches batchExpirer
	Metrics *metrics.CronJobMetrics
}

type batchExpirer interface {
	ExpireBatches(ctx context.Context) (int64, error)
}

// NewBatchExpiryJob builds the cron job that retires batches past their
// expiry date so they stop serving allocations.
func NewBatchExpiryJob(params BatchExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Batches == nil {
		return nil, fmt.Errorf("batch expirer required")
	}
	return &batchExpiryJob{
		logg:    params.Logger,
		batches: params.Batches,
		metrics: params.Metrics,
	}, nil
}

type batchExpiryJob struct {
	logg    *logger.Logger
	batches batchExpirer
	metrics *metrics.CronJobMetrics
}

func (j *batchExpiryJob) Name() string { return "batch-expiry" }

func (j *batchExpiryJob) Run(ctx context.Context) error {
	expired, err := j.batches.ExpireBatches(ctx)
	if err != nil {
		return fmt.Errorf("expire batches: %w", err)
	}
	if j.metrics != nil {
		j.metrics.AddSwept(j.Name(), int(expired))
	}
	logCtx := j.logg.WithField(ctx, "count", expired)
	j.logg.Info(logCtx, "batch expiry sweep complete")
	return nil
}
