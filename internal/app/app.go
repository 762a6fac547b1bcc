package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/utafrali/shopstate/internal/catalog"
	"github.com/utafrali/shopstate/internal/config"
	handler "github.com/utafrali/shopstate/internal/handler/http"
	"github.com/utafrali/shopstate/internal/storage"
	"github.com/utafrali/shopstate/internal/storage/memory"
	pgstore "github.com/utafrali/shopstate/internal/storage/postgres"
	redisstore "github.com/utafrali/shopstate/internal/storage/redis"
	"github.com/utafrali/shopstate/internal/viewsync"
	"github.com/utafrali/shopstate/pkg/database"
	"github.com/utafrali/shopstate/pkg/health"
	"github.com/utafrali/shopstate/pkg/httpclient"
	"github.com/utafrali/shopstate/pkg/middleware"
	"github.com/utafrali/shopstate/pkg/tracing"
)

const (
	serviceName     = "shopstate"
	serviceVersion  = "0.1.0"
	slowQueryCutoff = 200 * time.Millisecond
)

// App wires together all dependencies and runs the shopstate host.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	rdb            *redis.Client
	pool           *pgxpool.Pool
	screens        map[string]*handler.Screen
	controller     *viewsync.Controller
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a := &App{cfg: cfg, logger: logger}

	shutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    serviceName,
		ServiceVersion: serviceVersion,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}
	a.tracerShutdown = shutdown

	healthHandler := health.NewHandler()

	adapter, err := a.openStorage(ctx, healthHandler)
	if err != nil {
		a.close()
		return nil, err
	}
	adapter = storage.WithNamespace(adapter, cfg.StorageNamespace)

	catalogClient := a.catalogClient(healthHandler)

	a.screens = NewScreens(adapter, catalogClient, logger)
	a.controller = viewsync.NewController(logger)
	RegisterScreens(a.controller, a.screens)

	h := handler.NewHandler(a.screens, a.controller, logger)
	routerCfg := handler.RouterConfig{
		CORS: middleware.DefaultCORSConfig(),
		RateLimit: middleware.RateLimitConfig{
			RPS:   cfg.RateLimitRPS,
			Burst: cfg.RateLimitBurst,
		},
	}
	routerCfg.CORS.AllowedOrigins = cfg.CORSAllowedOrigins
	router := handler.NewRouter(h, healthHandler, routerCfg, logger)

	a.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return a, nil
}

// openStorage connects the configured backend and registers its readiness
// check.
func (a *App) openStorage(ctx context.Context, hh *health.Handler) (storage.Adapter, error) {
	switch a.cfg.StorageBackend {
	case config.BackendRedis:
		rdb, err := database.NewRedisClient(ctx, database.RedisConfig{
			Addr:     a.cfg.RedisAddr,
			Password: a.cfg.RedisPass,
			DB:       a.cfg.RedisDB,
		})
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		a.rdb = rdb
		a.logger.Info("connected to Redis",
			slog.String("addr", a.cfg.RedisAddr),
			slog.Int("db", a.cfg.RedisDB),
		)

		adapter := redisstore.NewAdapter(rdb, a.cfg.StorageTTL())
		hh.RegisterCritical("storage", adapter.Ping)
		return adapter, nil

	case config.BackendPostgres:
		pgCfg := database.DefaultPostgresConfig()
		pgCfg.Host = a.cfg.PostgresHost
		pgCfg.Port = a.cfg.PostgresPort
		pgCfg.User = a.cfg.PostgresUser
		pgCfg.Password = a.cfg.PostgresPassword
		pgCfg.DBName = a.cfg.PostgresDB
		pgCfg.SSLMode = a.cfg.PostgresSSLMode

		pool, err := database.NewPostgresPool(ctx, &pgCfg, a.logger)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		a.pool = pool

		migrations, err := fs.Sub(pgstore.Migrations, "migrations")
		if err != nil {
			return nil, fmt.Errorf("open migrations: %w", err)
		}
		if err := database.RunMigrations(ctx, pool, migrations, a.logger); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}

		database.RegisterPoolMetrics(pool, serviceName)
		database.SetSlowQueryLogging(slowQueryCutoff, a.logger)
		hh.RegisterCritical("storage", pool.Ping)
		return pgstore.NewAdapter(pool), nil

	default:
		a.logger.Warn("using in-memory storage; state is lost on restart")
		return memory.New(), nil
	}
}

func (a *App) catalogClient(hh *health.Handler) catalog.Client {
	hc := httpclient.DefaultConfig()
	hc.Timeout = a.cfg.CatalogTimeout()
	hc.MaxRetries = a.cfg.CatalogMaxRetries

	remote := catalog.NewHTTPClient(a.cfg.CatalogURL, hc, a.logger)
	hh.RegisterNonCritical("catalog", remote.Check)

	if ttl := a.cfg.CatalogCacheTTL(); ttl > 0 {
		return catalog.NewCachedClient(remote, ttl)
	}
	return remote
}

// Run starts the HTTP server and the focus controller and blocks until the
// context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	// Every screen is mounted once at startup; mounting is a focus gain.
	events := make(chan viewsync.Event, len(a.screens))
	for _, name := range a.controller.Screens() {
		events <- viewsync.Event{Screen: name}
	}
	close(events)
	go func() {
		_ = a.controller.Run(ctx, events)
	}()

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	// Retry any write-through that failed so the durable copy matches memory.
	for name, s := range a.screens {
		if s.Cart != nil && s.Cart.LastWriteError() != nil {
			if err := s.Cart.Persist(shutdownCtx); err != nil {
				a.logger.Error("cart flush failed", slog.String("screen", name), slog.String("error", err.Error()))
			}
		}
		if s.Wishlist != nil && s.Wishlist.LastWriteError() != nil {
			if err := s.Wishlist.Persist(shutdownCtx); err != nil {
				a.logger.Error("wishlist flush failed", slog.String("screen", name), slog.String("error", err.Error()))
			}
		}
	}

	if err := a.tracerShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}

	a.close()
	a.logger.Info("application shutdown complete")
	return nil
}

func (a *App) close() {
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
}
