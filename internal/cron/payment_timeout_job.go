package cron

import (
	"context"
	"fmt"

	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/logger"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/metrics"
)

// PaymentTimeoutJobParams configure the stale payment sweeper.
type PaymentTimeoutJobParams struct {
	Logger   *logger.Logger
	Payments paymentSweeper
	Metrics  *metrics.CronJobMetrics
}

type paymentSweeper interface {
	ExpireStale(ctx context.Context) (int64, error)
}

// NewPaymentTimeoutJob builds the cron job that fails gateway payments whose
// checkout window has lapsed without a webhook.
func NewPaymentTimeoutJob(params PaymentTimeoutJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Payments == nil {
		return nil, fmt.Errorf("payments sweeper required")
	}
	return &paymentTimeoutJob{
		logg:     params.Logger,
		payments: params.Payments,
		metrics:  params.Metrics,
	}, nil
}

type paymentTimeoutJob struct {
	logg     *logger.Logger
	payments paymentSweeper
	metrics  *metrics.CronJobMetrics
}

func (j *paymentTimeoutJob) Name() string { return "payment-timeout" }

func (j *paymentTimeoutJob) Run(ctx context.Context) error {
	swept, err := j.payments.ExpireStale(ctx)
	if err != nil {
		return fmt.Errorf("expire stale payments: %w", err)
	}
	if j.metrics != nil {
		j.metrics.AddSwept(j.Name(), int(swept))
	}
	logCtx := j.logg.WithField(ctx, "count", swept)
	j.logg.Info(logCtx, "stale payment sweep complete")
	return nil
}
