package cron

import (
	"context"
	"errors"
	"testing"

	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/logger"
)

type fakePaymentSweeper struct {
	swept int64
	err   error
	calls int
}

func (f *fakePaymentSweeper) ExpireStale(context.Context) (int64, error) {
	f.calls++
	return f.swept, f.err
}

type fakeBatchExpirer struct {
	expired int64
	err     error
	calls   int
}

func (f *fakeBatchExpirer) ExpireBatches(context.Context) (int64, error) {
	f.calls++
	return f.expired, f.err
}

func TestPaymentTimeoutJobRunsSweep(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "cron-test"})
	sweeper := &fakePaymentSweeper{swept: 3}
	job, err := NewPaymentTimeoutJob(PaymentTimeoutJobParams{Logger: logg, Payments: sweeper})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	if job.Name() != "payment-timeout" {
		t.Fatalf("unexpected job name %q", job.Name())
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run job: %v", err)
	}
	if sweeper.calls != 1 {
		t.Fatalf("expected one sweep, got %d", sweeper.calls)
	}
}

func TestPaymentTimeoutJobPropagatesError(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "cron-test"})
	sweeper := &fakePaymentSweeper{err: errors.New("db down")}
	job, err := NewPaymentTimeoutJob(PaymentTimeoutJobParams{Logger: logg, Payments: sweeper})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected sweep error to surface")
	}
}

func TestPaymentTimeoutJobRequiresDeps(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "cron-test"})
	if _, err := NewPaymentTimeoutJob(PaymentTimeoutJobParams{Payments: &fakePaymentSweeper{}}); err == nil {
		t.Fatal("expected missing logger error")
	}
	if _, err := NewPaymentTimeoutJob(PaymentTimeoutJobParams{Logger: logg}); err == nil {
		t.Fatal("expected missing payments error")
	}
}

func TestBatchExpiryJobRunsSweep(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "cron-test"})
	expirer := &fakeBatchExpirer{expired: 2}
	job, err := NewBatchExpiryJob(BatchExpiryJobParams{Logger: logg, Batches: expirer})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	if job.Name() != "batch-expiry" {
		t.Fatalf("unexpected job name %q", job.Name())
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run job: %v", err)
	}
	if expirer.calls != 1 {
		t.Fatalf("expected one sweep, got %d", expirer.calls)
	}
}

func TestBatchExpiryJobPropagatesError(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "cron-test"})
	expirer := &fakeBatchExpirer{err: errors.New("db down")}
	job, err := NewBatchExpiryJob(BatchExpiryJobParams{Logger: logg, Batches: expirer})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected sweep error to surface")
	}
}
