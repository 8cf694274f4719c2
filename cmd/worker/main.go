package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/internal/batches"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/internal/cart"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/internal/cron"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/internal/orders"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/internal/payments"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/internal/products"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/internal/suppliers"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/config"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/db"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/logger"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/metrics"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/migrate"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/payos"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "worker"

	logg = logger.New(logger.Options{
		ServiceName: "worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	paymentService, batchService, err := buildSweepServices(cfg, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to build services", err)
		os.Exit(1)
	}

	metricsCollector := metrics.NewCronJobMetrics(prometheus.DefaultRegisterer)

	paymentJob, err := cron.NewPaymentTimeoutJob(cron.PaymentTimeoutJobParams{
		Logger:   logg,
		Payments: paymentService,
		Metrics:  metricsCollector,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create payment timeout job", err)
		os.Exit(1)
	}
	expiryJob, err := cron.NewBatchExpiryJob(cron.BatchExpiryJobParams{
		Logger:  logg,
		Batches: batchService,
		Metrics: metricsCollector,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create batch expiry job", err)
		os.Exit(1)
	}

	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey("worker:"+cfg.App.Env), cfg.Cron.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(paymentJob, expiryJob),
		Lock:     lock,
		Metrics:  metricsCollector,
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(ctx, "starting worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "worker shutting down gracefully")
}

func buildSweepServices(cfg *config.Config, dbClient *db.Client) (payments.Service, batches.Service, error) {
	conn := dbClient.DB()

	productRepo := products.NewRepository(conn)
	supplierRepo := suppliers.NewRepository(conn)
	batchRepo := batches.NewRepository(conn)
	cartRepo := cart.NewRepository(conn)
	orderRepo := orders.NewRepository(conn)
	paymentRepo := payments.NewRepository(conn)

	allocator, err := batches.NewAllocator(batchRepo, productRepo)
	if err != nil {
		return nil, nil, err
	}
	cartService, err := cart.NewService(cartRepo, productRepo, dbClient, cfg.Stock)
	if err != nil {
		return nil, nil, err
	}
	payosClient, err := payos.NewClient(cfg.PayOS)
	if err != nil {
		return nil, nil, err
	}
	paymentService, err := payments.NewService(paymentRepo, orderRepo, cartService, allocator, payosClient, dbClient, cfg.PayOS)
	if err != nil {
		return nil, nil, err
	}
	batchService, err := batches.NewService(batchRepo, productRepo, supplierRepo, dbClient, cfg.Stock)
	if err != nil {
		return nil, nil, err
	}
	return paymentService, batchService, nil
}
