// Package main is the entry point for the serialseq API server.
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

	"github.com/spf13/cobra"

	"serialseq/internal/config"
	"serialseq/internal/core/entity"
	"serialseq/internal/core/serial"
	"serialseq/internal/domain"
	"serialseq/internal/domain/numbering"
	"serialseq/internal/domain/records/booking"
	"serialseq/internal/domain/records/invoice"
	"serialseq/internal/domain/records/order"
	v1 "serialseq/internal/infrastructure/http/v1"
	"serialseq/internal/infrastructure/prefix"
	"serialseq/internal/infrastructure/storage/postgres"
	"serialseq/internal/infrastructure/storage/postgres/record_repo"
	"serialseq/internal/runtime"
	"serialseq/pkg/logger"
)

const version = "0.1.0"

func main() {
	var configPath, backend string

	cmd := &cobra.Command{
		Use:          "server",
		Short:        "Run the serialseq HTTP API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath, backend)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to config file (or SERIALSEQ_CONFIG)")
	cmd.Flags().StringVar(&backend, "backend", "", "storage backend: postgres or pebble (default: postgres when database.url is set)")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(configPath, backend string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:       cfg.App.LogLevel,
		Development: cfg.App.Development(),
	})
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx := logger.WithLogger(context.Background(), log)
	log.Info("starting serialseq server")

	format, err := cfg.Serial.Formatting()
	if err != nil {
		return err
	}
	resolver, err := prefix.NewCELResolver(cfg.Serial.PrefixExpr)
	if err != nil {
		return fmt.Errorf("serial.prefix_expr: %w", err)
	}

	// --- Storage ---
	rt, err := runtime.Open(ctx, cfg, backend)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()
	log.Infow("storage opened", "backend", rt.Backend())

	if cfg.App.Migrate {
		if err := rt.Migrate(ctx); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
		log.Info("schema applied")
	}

	// --- Numbering ---
	allocator := rt.Allocator(format)

	routerCfg := v1.RouterConfig{
		Logger:    log,
		Allocator: allocator,
		Store:     rt.Store(),
		Health:    rt,
		Backend:   rt.Backend(),
		Version:   version,
	}

	// Business records live in SQL tables; the pebble backend serves raw serials only.
	if txm := rt.PostgresTx(); txm != nil {
		routerCfg.Invoices = newRecordService[*invoice.Invoice](allocator, resolver, record_repo.NewInvoiceRepo(txm), txm, "invoice")
		routerCfg.Orders = newRecordService[*order.Order](allocator, resolver, record_repo.NewOrderRepo(txm), txm, "order")
		routerCfg.Bookings = newRecordService[*booking.Booking](allocator, resolver, record_repo.NewBookingRepo(txm), txm, "booking")

		go logPoolStats(ctx, rt.Pool())
	}

	router := v1.NewRouter(routerCfg)

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", cfg.App.Port, "backend", rt.Backend())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
	return nil
}

// newRecordService builds a record service whose inserts get a serial in the same transaction.
func newRecordService[T entity.SerialBearer](
	allocator *numbering.Allocator,
	resolver serial.PrefixResolver,
	repo domain.RecordRepository[T],
	txm *postgres.TxManager,
	name string,
) *domain.RecordService[T] {
	service := domain.NewRecordService(domain.RecordServiceConfig[T]{
		Repo:       repo,
		TxManager:  txm,
		EntityName: name,
	})
	service.Hooks().OnBeforeCreate(numbering.BeforeCreate[T](allocator, resolver))
	return service
}

func logPoolStats(ctx context.Context, pool *postgres.Pool) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		postgres.LogPoolStats(ctx, pool)
	}
}
