package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/aretw0/anamnesis/internal/config"
	httpAdapter "github.com/aretw0/anamnesis/pkg/adapters/http"
	"github.com/aretw0/anamnesis/pkg/adapters/mcp"
	"github.com/aretw0/anamnesis/pkg/adapters/memory"
	"github.com/aretw0/anamnesis/pkg/adapters/redis"
	"github.com/aretw0/anamnesis/pkg/domain"
	"github.com/aretw0/anamnesis/pkg/observability"
	"github.com/aretw0/anamnesis/pkg/runner"
	"github.com/aretw0/anamnesis/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
)

// ServerOptions configures the long-running server commands.
type ServerOptions struct {
	Engine EngineOptions
	Config config.Config
	Debug  bool
}

// newManager builds the session manager and its backing store.
// Redis is used when configured, with a distributed lock; memory otherwise.
func newManager(ctx context.Context, opts ServerOptions, logger *slog.Logger, reg prometheus.Registerer) (*session.Manager, func() error, error) {
	cfg := opts.Config
	if cfg.MaxInputSize > 0 {
		runner.DefaultMaxInputSize = cfg.MaxInputSize
	}

	hooks := append([]domain.LifecycleHooks{}, opts.Engine.Hooks...)
	hooks = append(hooks, observability.NewMetrics(reg).Hooks())
	if opts.Debug {
		hooks = append(hooks, observability.LoggingHooks(logger))
	}
	engineOpts := opts.Engine
	engineOpts.Hooks = hooks
	if engineOpts.CatalogPath == "" {
		engineOpts.CatalogPath = cfg.Catalog
	}

	engine, err := createEngine(engineOpts, logger)
	if err != nil {
		return nil, nil, err
	}

	if !cfg.UsesRedis() {
		logger.Info("Using in-memory session store")
		store, err := protectStore(memory.NewStore(), cfg, engine, logger)
		if err != nil {
			return nil, nil, err
		}
		return session.NewManager(engine, store, session.WithLogger(logger)), func() error { return nil }, nil
	}

	store := redis.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, redis.WithTTL(cfg.SessionTTL))
	if err := store.Ping(ctx); err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("redis unavailable at %s: %w", cfg.RedisAddr, err)
	}
	logger.Info("Using Redis session store", "addr", cfg.RedisAddr, "ttl", cfg.SessionTTL)

	protected, err := protectStore(store, cfg, engine, logger)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	mgr := session.NewManager(engine, protected,
		session.WithLogger(logger),
		session.WithLocker(redis.NewLocker(store.Client(), store.Prefix())),
	)
	return mgr, store.Close, nil
}

// Serve runs the HTTP API until ctx is cancelled.
func Serve(ctx context.Context, opts ServerOptions) error {
	logger, err := createLogger(opts.Config.LogLevel, opts.Debug)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	mgr, closeStore, err := newManager(ctx, opts, logger, reg)
	if err != nil {
		return err
	}
	defer closeStore()

	srv := &http.Server{
		Addr:              opts.Config.Addr,
		Handler:           httpAdapter.NewHandler(mgr, httpAdapter.WithLogger(logger), httpAdapter.WithGatherer(reg)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Starting anamnesis server", "addr", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		logger.Info("Start shutdown...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Graceful shutdown did not complete", "err", err)
			return srv.Close()
		}
		logger.Info("Server stopped gracefully")
		return nil
	}
}

// ServeMCP runs the MCP server over stdio or SSE.
func ServeMCP(ctx context.Context, opts ServerOptions, transport string, port int) error {
	logger, err := createLogger(opts.Config.LogLevel, opts.Debug)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	mgr, closeStore, err := newManager(ctx, opts, logger, prometheus.NewRegistry())
	if err != nil {
		return err
	}
	defer closeStore()

	srv := mcp.NewServer(mgr, logger)
	switch transport {
	case "stdio":
		logger.Info("Starting anamnesis MCP Server (Stdio)")
		return srv.ServeStdio()
	case "sse":
		err := srv.ServeSSE(ctx, port)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	default:
		fmt.Fprintf(os.Stderr, "Supported transports: stdio, sse\n")
		return fmt.Errorf("unknown transport: %s", transport)
	}
}
