// Command match-sweep closes every overdue match once and prints the report.
// Exit status is 1 when any match failed to close.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/matchday/platform/internal/app"
	"github.com/matchday/platform/internal/auth"
	"github.com/matchday/platform/internal/domain"
	"github.com/matchday/platform/internal/infra"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("match sweep failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := infra.LoadDotEnv(); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}
	cfg, err := infra.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	asOf := time.Time{}
	if len(os.Args) > 1 {
		if asOf, err = domain.ParseMatchDay(os.Args[1]); err != nil {
			return err
		}
	}

	pool, err := infra.NewPostgresPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	clock := clockwork.NewRealClock()
	services := app.NewServices(app.PostgresBackend(pool), app.ServiceConfig{
		JWTMgr:    auth.NewJWTManager(cfg.JWTSecret, clock, cfg.JWTMemberExpiry, cfg.JWTAdminExpiry),
		Clock:     clock,
		AnnualFee: cfg.AnnualFee,
		Logger:    logger,
	})

	if asOf.IsZero() {
		asOf = services.Matches.Today()
	}
	report, err := services.Matches.SweepOverdue(ctx, asOf)
	if report != nil {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(report); encErr != nil {
			return fmt.Errorf("encode report: %w", encErr)
		}
	}
	if err != nil {
		return err
	}
	if len(report.Failed) > 0 {
		return fmt.Errorf("%d overdue matches failed to close", len(report.Failed))
	}
	return nil
}
