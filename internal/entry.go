// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/sonar/internal/api"
	"github.com/starford/sonar/internal/host"
	"github.com/starford/sonar/internal/mcpserver"
	"github.com/starford/sonar/internal/plugin"
	"github.com/starford/sonar/internal/sse"
	"github.com/starford/sonar/internal/watch"
	pkgconfig "github.com/starford/sonar/pkg/config"
)

// env is what every command needs: config, logger and runtime.
type env struct {
	app     *application
	cfg     *Config
	level   *slog.LevelVar
	logger  *slog.Logger
	runtime *Runtime
	closers []io.Closer
}

func setup(opts []Option) (*env, error) {
	app := &application{output: os.Stdout, version: "dev"}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}

	e := &env{app: app, cfg: app.config, level: new(slog.LevelVar)}

	logger, logCloser, err := newLogger(e.cfg.App, e.level)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	slog.SetDefault(logger)
	e.logger = logger
	e.closers = append(e.closers, logCloser)

	logger.Debug("Configuration loaded",
		slog.String("addon_id", e.cfg.Addon.ID),
		slog.String("profile_path", e.cfg.Addon.ProfilePath),
		slog.String("cache_backend", e.cfg.Cache.Backend),
		slog.Int("cache_max_age", e.cfg.Cache.MaxAge),
		slog.String("log_level", e.cfg.App.LogLevel.String()))

	rt, err := NewRuntime(e.cfg, logger)
	if err != nil {
		e.close()
		return nil, err
	}
	e.runtime = rt
	return e, nil
}

func (e *env) close() {
	if e.runtime != nil {
		if err := e.runtime.Close(); err != nil {
			e.logger.Warn("runtime close failed", slog.String("error", err.Error()))
		}
	}
	for _, c := range e.closers {
		_ = c.Close()
	}
}

// Invoke runs one invocation and writes the host response as JSON.
func Invoke(ctx context.Context, opts ...Option) error {
	e, err := setup(opts)
	if err != nil {
		return err
	}
	defer e.close()

	req := e.app.request
	e.logger.Debug("invoke", slog.String("path", req.Path), slog.String("query", req.Query))

	resp, err := e.runtime.Invoke(ctx, req)
	if err != nil {
		e.logger.Error("invocation failed",
			slog.String("path", req.Path),
			slog.String("query", req.Query),
			slog.String("error", err.Error()))
		// The failure signal still reaches the host.
		if resp.Signaled() {
			if encErr := e.writeResponse(resp); encErr != nil {
				return errors.Join(err, encErr)
			}
		}
		return err
	}

	return e.writeResponse(resp)
}

func (e *env) writeResponse(resp host.Response) error {
	enc := json.NewEncoder(e.app.output)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

// ClearCache wipes the response cache.
func ClearCache(_ context.Context, opts ...Option) error {
	e, err := setup(opts)
	if err != nil {
		return err
	}
	defer e.close()

	if err := e.runtime.ClearCache(); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	e.logger.Info("cache cleared")
	return nil
}

// ServeMCP exposes the plugin as MCP tools over stdio.
func ServeMCP(_ context.Context, opts ...Option) error {
	e, err := setup(opts)
	if err != nil {
		return err
	}
	defer e.close()

	srv := mcpserver.New(e.runtime, e.cfg.Addon.BaseURL(), e.app.version)
	e.logger.Info("MCP server starting on stdio")
	return srv.ServeStdio()
}

// Run starts the HTTP host with the given options.
func Run(ctx context.Context, opts ...Option) error {
	e, err := setup(opts)
	if err != nil {
		return err
	}
	defer e.close()

	cfg := e.cfg
	logger := e.logger

	// SSE broker.
	broker := sse.NewBroker(host.BuiltinRefresh, 2*time.Second)
	defer broker.Close()

	e.runtime.SetHooks(Hooks{
		Builtin:  broker.PublishBuiltin,
		Settings: broker.PublishSettings,
		Dialog:   broker.PublishDialog,
	})

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", api.NewRouter(e.runtime, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker))

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("addon", cfg.Addon.BaseURL()),
		slog.Int("routes", len(plugin.Paths)))

	ctx, stop := context.WithCancel(ctx)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	// Reload the runtime when the config file changes.
	if path := e.app.configPath; path != "" {
		g.Go(func() error {
			err := watch.File(gCtx, path, watch.DefaultDebounce, logger, func() {
				e.reload(path)
			})
			if err != nil {
				logger.Warn("config watcher stopped", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)
		defer stop()

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// reload re-reads the config file; an invalid file keeps the current one.
func (e *env) reload(path string) {
	cfg := NewDefaultConfig()
	if err := pkgconfig.Load(path, cfg); err != nil {
		e.logger.Error("config reload failed", slog.String("path", path), slog.String("error", err.Error()))
		return
	}
	e.level.Set(cfg.App.LogLevel)
	e.runtime.Reload(cfg)
}
