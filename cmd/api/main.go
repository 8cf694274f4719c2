package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/api/routes"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/internal/accounts"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/internal/batches"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/internal/cart"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/internal/orders"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/internal/payments"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/internal/products"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/internal/suppliers"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/internal/vision"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/config"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/db"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/logger"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/migrate"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/payos"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
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

	services, err := buildServices(cfg, dbClient, redisClient)
	if err != nil {
		logg.Error(context.Background(), "failed to build services", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, services, registry),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func buildServices(cfg *config.Config, dbClient *db.Client, redisClient *redis.Client) (routes.Services, error) {
	conn := dbClient.DB()

	accountRepo := accounts.NewRepository(conn)
	productRepo := products.NewRepository(conn)
	supplierRepo := suppliers.NewRepository(conn)
	batchRepo := batches.NewRepository(conn)
	cartRepo := cart.NewRepository(conn)
	orderRepo := orders.NewRepository(conn)
	paymentRepo := payments.NewRepository(conn)

	accountService, err := accounts.NewService(accountRepo, redisClient, cfg.JWT, cfg.Password, cfg.AuthRateLimit)
	if err != nil {
		return routes.Services{}, err
	}
	productService, err := products.NewService(productRepo, cfg.Stock)
	if err != nil {
		return routes.Services{}, err
	}
	supplierService, err := suppliers.NewService(supplierRepo, dbClient)
	if err != nil {
		return routes.Services{}, err
	}
	batchService, err := batches.NewService(batchRepo, productRepo, supplierRepo, dbClient, cfg.Stock)
	if err != nil {
		return routes.Services{}, err
	}
	allocator, err := batches.NewAllocator(batchRepo, productRepo)
	if err != nil {
		return routes.Services{}, err
	}
	cartService, err := cart.NewService(cartRepo, productRepo, dbClient, cfg.Stock)
	if err != nil {
		return routes.Services{}, err
	}
	orderService, err := orders.NewService(orderRepo, productRepo, cartService, allocator, dbClient, cfg.Checkout, cfg.Stock)
	if err != nil {
		return routes.Services{}, err
	}
	payosClient, err := payos.NewClient(cfg.PayOS)
	if err != nil {
		return routes.Services{}, err
	}
	paymentService, err := payments.NewService(paymentRepo, orderRepo, cartService, allocator, payosClient, dbClient, cfg.PayOS)
	if err != nil {
		return routes.Services{}, err
	}
	visionClient, err := vision.NewClient(cfg.Vision)
	if err != nil {
		return routes.Services{}, err
	}
	visionService, err := vision.NewService(visionClient, productRepo, cfg.Stock)
	if err != nil {
		return routes.Services{}, err
	}

	return routes.Services{
		Accounts:  accountService,
		Products:  productService,
		Suppliers: supplierService,
		Batches:   batchService,
		Cart:      cartService,
		Orders:    orderService,
		Payments:  paymentService,
		Vision:    visionService,
	}, nil
}
