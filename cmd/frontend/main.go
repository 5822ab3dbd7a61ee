// @title        Household Services Frontend
// @version      1.0
// @description  Backend-for-frontend of the household services marketplace.
// @BasePath     /
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

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/household-services/frontend/internal/api"
	"github.com/household-services/frontend/internal/api/handler"
	"github.com/household-services/frontend/internal/api/metrics"
	"github.com/household-services/frontend/internal/api/middleware"
	"github.com/household-services/frontend/internal/core/navigation"
	"github.com/household-services/frontend/internal/core/ports"
	"github.com/household-services/frontend/internal/core/service"
	"github.com/household-services/frontend/internal/infrastructure/apiclient"
	"github.com/household-services/frontend/internal/infrastructure/db/memory"
	mongostore "github.com/household-services/frontend/internal/infrastructure/db/mongo"
	pgstore "github.com/household-services/frontend/internal/infrastructure/db/postgres"
	redisstore "github.com/household-services/frontend/internal/infrastructure/db/redis"
	"github.com/household-services/frontend/internal/infrastructure/queue"
	"github.com/household-services/frontend/internal/pkg/config"
	"github.com/household-services/frontend/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	loadLocalEnv()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "household-frontend",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("frontend stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	client := apiclient.New(cfg.API.BaseURL, cfg.API.Timeout, log.With().Str("component", "apiclient").Logger())
	readiness := map[string]handler.Pinger{"marketplace_api": client.Ping}

	storage, tracker, closeBackend, err := openBackend(ctx, cfg, readiness, log)
	if err != nil {
		return err
	}
	defer closeBackend()

	policy := navigation.UnmatchedPublic
	if cfg.Guard.DefaultDeny {
		policy = navigation.UnmatchedProtected
	}
	routes, err := navigation.NewRouteTable(policy, navigation.DefaultRoutes()...)
	if err != nil {
		return fmt.Errorf("route table: %w", err)
	}

	dispatcher := queue.NewDispatcher(cfg.Export.Workers, log.With().Str("component", "export-queue").Logger())
	exports := service.NewExportService(client, tracker, dispatcher, cfg.Export.PollInterval, cfg.Export.PollMaxAttempts, log)
	dispatcher.Start(ctx, exports)

	auth := service.NewAuthService(client, cfg.API.LogoutTimeout, log,
		service.WithLogoutFailureHook(func(error) { metrics.LogoutRemoteFailuresTotal.Inc() }),
	)

	e := api.NewRouter(api.Deps{
		Log:     log,
		Storage: storage,
		Tab: middleware.TabConfig{
			CookieName: cfg.Session.CookieName,
			Secure:     cfg.Session.CookieSecure,
			TTL:        cfg.Session.TTL,
		},
		Guard:       navigation.NewGuard(routes),
		Auth:        auth,
		Dashboards:  service.NewDashboardService(client, log),
		Marketplace: client,
		Exports:     exports,
		Readiness:   readiness,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("session_backend", cfg.Session.Backend).
			Str("unmatched_routes", policy.String()).
			Msg("frontend listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

// openBackend connects the configured session storage and picks a matching
// export tracker. The returned func releases the connection.
func openBackend(
	ctx context.Context,
	cfg *config.Config,
	readiness map[string]handler.Pinger,
	log zerolog.Logger,
) (ports.SessionStorage, ports.ExportTracker, func(), error) {
	switch cfg.Session.Backend {
	case config.BackendRedis:
		rdb, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		readiness["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")
		return redisstore.NewSessionStorage(rdb), redisstore.NewExportTracker(rdb), func() { _ = rdb.Close() }, nil

	case config.BackendMongo:
		mc, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, nil, nil, err
		}
		storage := mongostore.NewSessionStorage(db)
		if err := storage.EnsureIndexes(ctx); err != nil {
			_ = mc.Disconnect(context.Background())
			return nil, nil, nil, fmt.Errorf("mongo indexes: %w", err)
		}
		readiness["mongodb"] = func(ctx context.Context) error { return mongostore.Ping(ctx, db) }
		log.Info().Str("database", cfg.Mongo.Database).Msg("mongodb connected")
		// Export tasks are short-lived; they stay in process memory.
		return storage, memoryTracker(ctx, cfg, log), func() { _ = mc.Disconnect(context.Background()) }, nil

	case config.BackendPostgres:
		pool, err := pgstore.Connect(ctx, pgstore.Config{URL: cfg.Postgres.URL})
		if err != nil {
			return nil, nil, nil, err
		}
		storage := pgstore.NewSessionStorage(pool)
		if err := storage.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, nil, err
		}
		readiness["postgres"] = pool.Ping
		go purgeExpired(ctx, "tab sessions", storage, cfg.Session.PurgeInterval, log)
		log.Info().Msg("postgres connected")
		return storage, memoryTracker(ctx, cfg, log), pool.Close, nil

	default:
		log.Warn().Msg("using in-memory session storage; sessions are lost on restart")
		storage := memory.NewSessionStorage()
		go purgeExpired(ctx, "tab sessions", storage, cfg.Session.PurgeInterval, log)
		return storage, memoryTracker(ctx, cfg, log), func() {}, nil
	}
}

// memoryTracker returns an in-process export tracker purged on the session
// purge interval.
func memoryTracker(ctx context.Context, cfg *config.Config, log zerolog.Logger) *memory.ExportTracker {
	tracker := memory.NewExportTracker(cfg.Export.Retention)
	go purgeExpired(ctx, "export tasks", tracker, cfg.Session.PurgeInterval, log)
	return tracker
}

type purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// purgeExpired runs p.PurgeExpired every interval until ctx is done.
func purgeExpired(ctx context.Context, what string, p purger, every time.Duration, log zerolog.Logger) {
	if every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := p.PurgeExpired(ctx)
			if err != nil {
				log.Warn().Err(err).Msg("purge expired " + what)
				continue
			}
			if n > 0 {
				log.Debug().Int64("count", n).Msg("purged expired " + what)
			}
		}
	}
}

func loadLocalEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
	}
}
