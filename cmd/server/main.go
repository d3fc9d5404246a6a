package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	appcatalog "github.com/bizops/backend/internal/application/catalog"
	appfulfillment "github.com/bizops/backend/internal/application/fulfillment"
	appinventory "github.com/bizops/backend/internal/application/inventory"
	apppartner "github.com/bizops/backend/internal/application/partner"
	appreceivables "github.com/bizops/backend/internal/application/receivables"
	"github.com/bizops/backend/internal/infrastructure/auth"
	"github.com/bizops/backend/internal/infrastructure/cache"
	"github.com/bizops/backend/internal/infrastructure/config"
	"github.com/bizops/backend/internal/infrastructure/event"
	"github.com/bizops/backend/internal/infrastructure/logger"
	"github.com/bizops/backend/internal/infrastructure/persistence"
	"github.com/bizops/backend/internal/infrastructure/scheduler"
	"github.com/bizops/backend/internal/interfaces/http/handler"
	"github.com/bizops/backend/internal/interfaces/http/router"

	"github.com/bizops/backend/internal/domain/shared"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	if err := run(cfg, log); err != nil {
		log.Fatal("Server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn("Failed to close database", zap.Error(err))
		}
	}()

	// Event bus with audit logging of every domain event
	bus := event.NewInMemoryEventBus(log)
	bus.Subscribe(event.NewLoggingHandler(log))

	// Idempotency store for order-fulfilled replays
	idemStore, err := cache.NewIdempotencyStore(cfg.Idempotency, cfg.Redis)
	if err != nil {
		return fmt.Errorf("create idempotency store: %w", err)
	}
	defer func() {
		if err := idemStore.Close(); err != nil {
			log.Warn("Failed to close idempotency store", zap.Error(err))
		}
	}()

	// Application services
	ledgerService := appinventory.NewLedgerService(persistence.NewGormInventoryTransactionScope(db.DB))
	ledgerService.SetEventPublisher(bus)
	ledgerService.SetBackorderDefault(cfg.Inventory.AllowBackorder)

	receivablesScope := persistence.NewGormReceivablesTransactionScope(db.DB)
	receivableService := appreceivables.NewReceivableService(receivablesScope)
	receivableService.SetEventPublisher(bus)

	paymentService := appreceivables.NewPaymentService(receivablesScope)
	paymentService.SetEventPublisher(bus)

	sweepService := appreceivables.NewOverdueSweepService(receivablesScope, log)
	sweepService.SetEventPublisher(bus)
	sweepService.SetBatchSize(cfg.Sweep.BatchSize)

	partnerScope := persistence.NewGormPartnerTransactionScope(db.DB)
	customerService := apppartner.NewCustomerService(partnerScope)
	customerService.SetEventPublisher(bus)
	locationService := apppartner.NewLocationService(partnerScope)

	productService := appcatalog.NewProductService(persistence.NewGormCatalogTransactionScope(db.DB))

	fulfillmentService := appfulfillment.NewFulfillmentService(
		persistence.NewGormFulfillmentTransactionScope(db.DB),
		idemStore,
		shared.IdempotencyConfig{Enabled: cfg.Idempotency.Enabled, TTL: cfg.Idempotency.TTL},
	)
	fulfillmentService.SetEventPublisher(bus)
	fulfillmentService.SetBackorderDefault(cfg.Inventory.AllowBackorder)

	// Overdue sweep scheduler
	sweepScheduler := scheduler.NewSweepScheduler(cfg.Sweep, sweepService, log)
	if err := sweepScheduler.Start(ctx); err != nil {
		return fmt.Errorf("start sweep scheduler: %w", err)
	}

	// HTTP
	jwtService := auth.NewJWTService(cfg.JWT)
	engine, err := router.New(cfg, jwtService, log, router.Handlers{
		Health:      handler.NewHealthHandler(db),
		Inventory:   handler.NewInventoryHandler(ledgerService),
		Receivable:  handler.NewReceivableHandler(receivableService),
		Payment:     handler.NewPaymentHandler(paymentService),
		Fulfillment: handler.NewFulfillmentHandler(fulfillmentService),
		Customer:    handler.NewCustomerHandler(customerService),
		Location:    handler.NewLocationHandler(locationService),
		Product:     handler.NewProductHandler(productService),
		Admin:       handler.NewAdminHandler(sweepScheduler),
	})
	if err != nil {
		return fmt.Errorf("build router: %w", err)
	}

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := sweepScheduler.Stop(shutdownCtx); err != nil {
		log.Warn("Sweep scheduler did not stop cleanly", zap.Error(err))
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
