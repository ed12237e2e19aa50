package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	financeapp "github.com/atelierpoz/backoffice/internal/application/finance"
	"github.com/atelierpoz/backoffice/internal/application/fulfillment"
	"github.com/atelierpoz/backoffice/internal/application/inventory"
	"github.com/atelierpoz/backoffice/internal/application/sequence"
	tradeapp "github.com/atelierpoz/backoffice/internal/application/trade"
	"github.com/atelierpoz/backoffice/internal/domain/shared"
	"github.com/atelierpoz/backoffice/internal/infrastructure/cache"
	"github.com/atelierpoz/backoffice/internal/infrastructure/config"
	"github.com/atelierpoz/backoffice/internal/infrastructure/event"
	"github.com/atelierpoz/backoffice/internal/infrastructure/lock"
	"github.com/atelierpoz/backoffice/internal/infrastructure/logger"
	"github.com/atelierpoz/backoffice/internal/infrastructure/persistence"
	"github.com/atelierpoz/backoffice/internal/infrastructure/telemetry"
	"github.com/atelierpoz/backoffice/internal/interfaces/http/handler"
	"github.com/atelierpoz/backoffice/internal/interfaces/http/middleware"
	"github.com/atelierpoz/backoffice/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}, cfg.App.Name)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting back-office",
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("db_driver", cfg.Database.Driver),
	)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	db, err := persistence.NewDatabase(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()
	log.Info("Database connected", zap.String("driver", db.Driver))

	// sqlite has no migration runner; the schema comes from the models
	if db.Driver == config.DriverSQLite {
		if err := persistence.AutoMigrate(db.DB); err != nil {
			log.Fatal("Failed to migrate sqlite schema", zap.Error(err))
		}
	}

	telemetryCfg := telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}
	tp, err := telemetry.NewTracerProvider(ctx, telemetryCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	mp, err := telemetry.NewMeterProvider(ctx, telemetryCfg, cfg.Telemetry.MetricsInterval, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		if err := telemetry.RegisterDBTracing(db.DB, db.Driver, log); err != nil {
			log.Warn("Database tracing disabled", zap.Error(err))
		}
	}

	metrics, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{Meter: mp.Meter("backoffice"), Logger: log})
	if err != nil {
		log.Fatal("Failed to register business metrics", zap.Error(err))
	}

	bus := event.NewInMemoryEventBus(log)
	metricsHandler := telemetry.NewMetricsEventHandler(metrics)
	bus.Subscribe(metricsHandler, metricsHandler.EventTypes()...)

	var (
		redisClient *redis.Client
		idempotency shared.IdempotencyStore
		storeGuard  shared.StoreGuard = lock.NoopStoreGuard{}
	)
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer func() {
			_ = redisClient.Close()
		}()
		idempotency = cache.NewRedisIdempotencyStore(redisClient, "backoffice:idem:")
		if cfg.Lock.StoreGuardEnabled {
			storeGuard = lock.NewRedisStoreGuard(redisClient, cfg.Lock.StoreGuardTTL, log)
		}
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	} else {
		memStore := cache.NewInMemoryIdempotencyStore()
		defer func() {
			_ = memStore.Close()
		}()
		idempotency = memStore
		log.Warn("Redis disabled; idempotency keys are kept in process memory")
	}

	// Repositories and services
	scope := persistence.NewGormTransactionScope(db.DB)

	ledger := inventory.NewStockLedger(scope, log)
	ledger.SetMetrics(metrics)
	accumulator := financeapp.NewPaymentAccumulator(idempotency, cfg.Idempotency.TTL, log)

	productService := tradeapp.NewProductService(scope, persistence.NewGormProductRepository(db.DB))
	orderService := tradeapp.NewOrderService(scope, persistence.NewGormOrderRepository(db.DB), log)
	orderService.SetEventPublisher(bus)
	saleService := tradeapp.NewSaleService(scope, persistence.NewGormSaleRepository(db.DB), ledger, log)
	saleService.SetEventPublisher(bus)
	saleService.SetStoreGuard(storeGuard)
	saleService.SetMetrics(metrics)
	payableService := financeapp.NewPayableService(scope, persistence.NewGormPayableRepository(db.DB), accumulator, log)
	payableService.SetEventPublisher(bus)
	receivableService := financeapp.NewReceivableService(
		persistence.NewGormReceivableRepository(db.DB),
		persistence.NewGormPaymentRepository(db.DB),
		persistence.NewGormReceivableLogRepository(db.DB),
	)
	synchronizer := fulfillment.NewSynchronizer(scope, accumulator, ledger, log)
	synchronizer.SetEventPublisher(bus)

	checks := []handler.HealthCheck{{
		Name:  "database",
		Check: func(ctx context.Context) error { return db.DB.WithContext(ctx).Exec("SELECT 1").Error },
	}}
	if redisClient != nil {
		checks = append(checks, handler.HealthCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		})
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine := router.NewEngine(router.EngineConfig{
		MaxBodySize: cfg.HTTP.MaxBodySize,
		CORS:        corsCfg,
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		},
	}, router.Handlers{
		Health:      handler.NewHealthHandler(checks...),
		Products:    handler.NewProductHandler(productService),
		Orders:      handler.NewOrderHandler(orderService, synchronizer),
		Receivables: handler.NewReceivableHandler(receivableService, synchronizer),
		Sales:       handler.NewSaleHandler(saleService),
		Payables:    handler.NewPayableHandler(payableService),
		Sequences:   handler.NewSequenceHandler(sequence.NewSequenceService(scope)),
	}, log)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.Warn("Tracer provider shutdown failed", zap.Error(err))
	}
	if err := mp.Shutdown(shutdownCtx); err != nil {
		log.Warn("Meter provider shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
