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

	"golang.org/x/sync/errgroup"

	"github.com/okian/linguist/internal/adapters/cache"
	"github.com/okian/linguist/internal/adapters/http/api"
	"github.com/okian/linguist/internal/adapters/http/swagger"
	"github.com/okian/linguist/internal/adapters/notify"
	"github.com/okian/linguist/internal/adapters/repository"
	app "github.com/okian/linguist/internal/app"
	"github.com/okian/linguist/internal/config"
	"github.com/okian/linguist/pkg/logger"
	"github.com/okian/linguist/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 10 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	serviceMetricsInterval = 5 * time.Second
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		_, _ = os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		_, _ = os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "linguist exited with error", logger.Error(err))
		os.Exit(1)
	}
}

// run wires every component from cfg and blocks until ctx is cancelled or
// the HTTP server fails.
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	metrics.RegisterRuntimeCollectors()

	svc, cleanup, err := buildService(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()

	handler, err := buildHandler(ctx, cfg, svc, log)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info(gctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%w: %w", api.ErrServe, err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info(gctx, "shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		log.Info(gctx, "server stopped")
		return nil
	})

	g.Go(func() error {
		startServiceMetricsUpdater(gctx, svc)
		return nil
	})

	return g.Wait()
}

// buildService selects storage, the settings cache and the notifier from
// cfg. cleanup releases clients the service does not own.
func buildService(ctx context.Context, cfg *config.Config, log logger.Logger) (*app.Service, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	opts := []app.Option{
		app.WithLogger(log.Named("service")),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.QueueSize),
		app.WithDedupeSize(cfg.DedupeSize),
		app.WithDefaultSettings(cfg.QualitySettings()),
		app.WithReviewers(cfg.Reviewers),
		app.WithMaxRankingLimit(cfg.MaxRankingLimit),
	}

	if cfg.StoreDriver == config.StorePostgres {
		store, err := repository.NewPostgresStore(cfg.PostgresDSN)
		if err != nil {
			return nil, cleanup, fmt.Errorf("open postgres: %w", err)
		}
		if err := store.Migrate(ctx); err != nil {
			_ = store.Close()
			return nil, cleanup, fmt.Errorf("migrate postgres: %w", err)
		}
		opts = append(opts, app.WithStore(store))
		log.Info(ctx, "using postgres store")
	}

	if cfg.RedisAddr != "" {
		client := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		closers = append(closers, func() { _ = client.Close() })
		opts = append(opts, app.WithSettingsCache(func(inner cache.SettingsStore) cache.SettingsStore {
			return cache.NewRedisSettings(client, inner,
				cache.WithTTL(cfg.SettingsCacheTTL()),
				cache.WithLogger(log.Named("settings-cache")),
			)
		}))
		log.Info(ctx, "settings cache enabled", logger.String("redis_addr", cfg.RedisAddr))
	}

	if cfg.SESRegion != "" {
		n, err := notify.NewSESNotifier(ctx, cfg.SESRegion, cfg.NotifyFrom)
		if err != nil {
			cleanup()
			return nil, func() {}, fmt.Errorf("ses notifier: %w", err)
		}
		opts = append(opts, app.WithNotifier(n))
	}

	return app.New(opts...), cleanup, nil
}

// buildHandler registers docs and API routes on one mux.
func buildHandler(ctx context.Context, cfg *config.Config, svc *app.Service, log logger.Logger) (http.Handler, error) {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)

	apiServer, err := api.NewServer(svc, svc,
		api.WithJWTSecret(cfg.JWTSecret),
		api.WithLogger(log.Named("api")),
	)
	if err != nil {
		return nil, fmt.Errorf("api server: %w", err)
	}
	apiServer.Register(ctx, mux)
	return apiServer.Handler(mux), nil
}

// startServiceMetricsUpdater refreshes service gauges until ctx is done.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

// updateServiceMetrics updates service-level metrics.
func updateServiceMetrics(svc *app.Service) {
	// GetStats refreshes the freelancer gauge itself.
	stats := svc.GetStats()
	if workerCount, ok := stats["workerCount"].(int); ok {
		metrics.UpdateWorkerCount(workerCount)
	}
}
