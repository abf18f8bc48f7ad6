package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/starford/sonar/internal/cache"
	"github.com/starford/sonar/internal/history"
	"github.com/starford/sonar/internal/host"
	"github.com/starford/sonar/internal/plugin"
	"github.com/starford/sonar/internal/soundcloud"
	"github.com/starford/sonar/internal/storage"
)

// cacheDir is the cache namespace inside the profile.
const cacheDir = "cache"

// Hooks observe what invocations ask of the host.
type Hooks struct {
	Builtin  func(command string)
	Settings func()
	Dialog   func(heading, message string)
}

// Runtime owns the stores and the per-config collaborators. Each Invoke
// builds a fresh Recorder and Dispatcher on top of them.
type Runtime struct {
	logger  *slog.Logger
	profile storage.Provider
	cache   storage.Provider
	history *history.Store
	l10n    host.Strings
	hooks   Hooks

	state atomic.Pointer[runtimeState]
}

type runtimeState struct {
	cfg     *Config
	gateway plugin.Gateway
}

var _ host.Invoker = (*Runtime)(nil)

// NewRuntime opens the profile and cache stores for cfg.
func NewRuntime(cfg *Config, logger *slog.Logger) (*Runtime, error) {
	if logger == nil {
		logger = slog.Default()
	}

	profile, err := storage.NewFS(cfg.Addon.ProfilePath)
	if err != nil {
		return nil, fmt.Errorf("init profile: %w", err)
	}

	cacheStore, err := storage.Open(cfg.Cache.Backend, filepath.Join(profile.Root(), cacheDir))
	if err != nil {
		return nil, fmt.Errorf("init cache: %w", err)
	}

	r := &Runtime{
		logger:  logger,
		profile: profile,
		cache:   cacheStore,
		history: history.New(profile, cfg.Search.HistorySize),
		l10n:    host.English(),
	}
	r.state.Store(r.build(cfg))
	return r, nil
}

// SetHooks installs observers for later invocations.
func (r *Runtime) SetHooks(h Hooks) {
	r.hooks = h
}

// Config returns the active configuration.
func (r *Runtime) Config() *Config {
	return r.state.Load().cfg
}

// Reload swaps in the gateway for cfg and resizes the history. The stores
// stay open, so profile and backend changes need a restart.
func (r *Runtime) Reload(cfg *Config) {
	old := r.state.Load().cfg
	if cfg.Addon.ProfilePath != old.Addon.ProfilePath || cfg.Cache.Backend != old.Cache.Backend {
		r.logger.Warn("runtime: profile or cache backend changed, restart to apply",
			slog.String("profile_path", cfg.Addon.ProfilePath),
			slog.String("backend", cfg.Cache.Backend))
	}
	r.history.SetSize(cfg.Search.HistorySize)
	r.state.Store(r.build(cfg))
	r.logger.Info("runtime: configuration reloaded")
}

func (r *Runtime) build(cfg *Config) *runtimeState {
	return &runtimeState{
		cfg:     cfg,
		gateway: soundcloud.NewClient(cfg.gatewaySettings(), cache.New(r.cache), r.logger),
	}
}

// Invoke runs one request through a fresh Dispatcher.
func (r *Runtime) Invoke(ctx context.Context, req host.Request) (host.Response, error) {
	st := r.state.Load()

	opts := []host.RecorderOption{req.InputOption()}
	if r.hooks.Builtin != nil {
		opts = append(opts, host.WithBuiltinHook(r.hooks.Builtin))
	}
	if r.hooks.Settings != nil {
		opts = append(opts, host.WithSettingsHook(r.hooks.Settings))
	}
	rec := host.NewRecorder(st.cfg.Addon.BaseURL(), req.Handle, opts...)

	inv, err := plugin.ParseInvocation(req.Path, req.Handle, req.Query)
	if err != nil {
		return host.Response{}, err
	}

	d := plugin.NewDispatcher(plugin.Deps{
		Platform: rec,
		Factory:  host.DefaultFactory{},
		Strings:  r.l10n,
		Gateway:  st.gateway,
		History:  r.history,
		Cache:    r.cache,
		Logger:   r.logger,
	})
	err = d.Dispatch(ctx, inv)

	resp := rec.Response()
	if r.hooks.Dialog != nil {
		for _, dlg := range resp.Dialogs {
			r.hooks.Dialog(dlg.Heading, dlg.Message)
		}
	}
	return resp, err
}

// ClearCache wipes the response cache namespace.
func (r *Runtime) ClearCache() error {
	return r.cache.Destroy()
}

// Close releases the stores.
func (r *Runtime) Close() error {
	return errors.Join(storage.Close(r.cache), storage.Close(r.profile))
}
