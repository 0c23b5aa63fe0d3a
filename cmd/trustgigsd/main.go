// Command trustgigsd runs the TrustGigs ledger service: the authoritative
// job-escrow ledger behind the job board, exposed over a JSON HTTP API.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/trustgigs/ledger/config"
	redisadapter "github.com/trustgigs/ledger/internal/adapters/redis"
	"github.com/trustgigs/ledger/internal/bootstrap"
	"github.com/trustgigs/ledger/internal/data"
	httpx "github.com/trustgigs/ledger/internal/http"
	"github.com/trustgigs/ledger/internal/service"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, cleanup, err := buildStore(ctx, &cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	publisher, pubCleanup, err := buildPublisher(&cfg, logger)
	if err != nil {
		return err
	}
	defer pubCleanup()

	ledgerSvc, err := service.NewLedgerService(ctx, service.LedgerServiceOptions{
		Store:     store,
		Logger:    logger,
		Publisher: publisher,
	})
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)

	if cfg.Ledger.SweepEnabled {
		sweeper, sweepErr := service.NewSweeperService(service.SweeperServiceOptions{
			Ledger:   ledgerSvc,
			Interval: cfg.Ledger.SweepInterval,
			Logger:   logger,
		})
		if sweepErr != nil {
			return sweepErr
		}
		g.Go(func() error {
			return sweeper.Run(ctx)
		})
	}

	server := &http.Server{
		Addr: cfg.HTTP.Addr,
		Handler: httpx.NewRouter(httpx.RouterOptions{
			Ledger: ledgerSvc,
			Logger: logger,
		}),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	g.Go(func() error {
		logger.InfoContext(ctx, "http server listening", "addr", cfg.HTTP.Addr)
		if serveErr := server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			return serveErr
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// buildStore selects the event store backend, applying migrations for
// Postgres. The returned cleanup closes any opened resources.
func buildStore(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (data.EventStore, func(), error) {
	if cfg.Ledger.StoreBackend == config.StoreBackendMemory {
		logger.InfoContext(ctx, "using in-memory event store")
		return data.NewMemEventStore(), func() {}, nil
	}

	db, err := bootstrap.ConnectDB(cfg.Postgres, logger)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.Error("close database failed", "error", closeErr)
		}
	}

	if cfg.Postgres.RunMigrationsOnStart {
		if err := bootstrap.RunMigrations(ctx, db, logger); err != nil {
			cleanup()
			return nil, nil, err
		}
	}
	return data.NewPGEventStore(db), cleanup, nil
}

// buildPublisher wires the Redis event publisher when enabled.
func buildPublisher(cfg *config.AppConfig, logger *slog.Logger) (service.EventPublisher, func(), error) {
	if !cfg.Redis.Enabled {
		return nil, func() {}, nil
	}

	client, err := bootstrap.ConnectRedis(cfg.Redis, logger)
	if err != nil {
		if cfg.IsDev {
			// Dev mode tolerates a missing Redis; the event feed still serves
			// observers by polling.
			logger.Warn("redis unavailable, event fan-out disabled", "error", err)
			return nil, func() {}, nil
		}
		return nil, nil, err
	}
	cleanup := func() {
		if closeErr := client.Close(); closeErr != nil {
			logger.Error("close redis failed", "error", closeErr)
		}
	}
	return redisadapter.NewEventPublisherWithChannel(client, cfg.Ledger.PublishChannel), cleanup, nil
}
