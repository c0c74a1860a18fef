package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/matchday/platform/internal/app"
	"github.com/matchday/platform/internal/auth"
	"github.com/matchday/platform/internal/infra"
	"github.com/matchday/platform/internal/provider"
	"github.com/matchday/platform/internal/repository/memory"
	"github.com/matchday/platform/internal/service"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load config
	if err := infra.LoadDotEnv(); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}
	cfg, err := infra.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	clock := clockwork.NewRealClock()

	// Storage
	var backend *app.Backend
	var outbox *infra.OutboxPoller
	switch strings.ToLower(cfg.StoreDriver) {
	case infra.StoreDriverMemory:
		logger.Warn("using in-memory store; data is lost on exit")
		backend = app.MemoryBackend(memory.NewStore(clock))
	default:
		if err := infra.RunMigrations(cfg.DSN(), cfg.MigrationsDir, logger); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		pool, err := infra.NewPostgresPool(ctx, cfg)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pool.Close()
		logger.Info("connected to postgres")
		backend = app.PostgresBackend(pool)
	}

	// The memory store has no separate relay process, so relay in-process.
	if strings.EqualFold(cfg.StoreDriver, infra.StoreDriverMemory) && cfg.KafkaEnabled {
		producer := infra.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaEnabled, logger)
		defer producer.Close()
		outbox = infra.NewOutboxPoller(backend.DB, backend.Outbox, producer, clock, logger, cfg.OutboxPollInterval, cfg.OutboxBatchSize)
	}

	// Services
	jwtMgr := auth.NewJWTManager(cfg.JWTSecret, clock, cfg.JWTMemberExpiry, cfg.JWTAdminExpiry)
	services := app.NewServices(backend, app.ServiceConfig{
		JWTMgr:    jwtMgr,
		Clock:     clock,
		Picker:    provider.NewCaptainPicker(provider.NewRandomOrgClient(cfg.RandomOrgAPIKey, "", logger), cfg.RandomOrgTimeout, logger),
		AnnualFee: cfg.AnnualFee,
		Logger:    logger,
	})

	if err := app.BootstrapAdmin(ctx, services.Members, service.CreateMemberInput{
		Name:     cfg.BootstrapAdminName,
		Surname:  cfg.BootstrapAdminSurname,
		Phone:    cfg.BootstrapAdminPhone,
		Password: cfg.BootstrapAdminPassword,
	}, logger); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}

	// Background jobs
	if cfg.SweepEnabled {
		sweep := infra.NewDailyScheduler("match-sweep", cfg.SweepHour, func(ctx context.Context) error {
			report, err := services.Matches.SweepToday(ctx)
			if err != nil {
				return err
			}
			if len(report.Failed) > 0 {
				return fmt.Errorf("%d of %d overdue matches failed to close", len(report.Failed), len(report.Failed)+len(report.Closed))
			}
			return nil
		}, clock, logger)
		sweep.Start(ctx)
	}
	if outbox != nil {
		outbox.Start(ctx)
	}

	router := app.NewRouter(app.RouterDeps{
		Backend:         backend,
		Services:        services,
		JWTMgr:          jwtMgr,
		Clock:           clock,
		Logger:          logger,
		CORSOrigins:     cfg.CORSAllowedOrigins,
		IdempotencyTTL:  cfg.IdempotencyTTL,
		LoginRateLimit:  cfg.LoginRateLimit,
		LoginRateWindow: cfg.LoginRateWindow,
	})

	// Start server
	addr := fmt.Sprintf(":%d", cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server starting", "addr", addr, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("server stopped gracefully")
	return nil
}
