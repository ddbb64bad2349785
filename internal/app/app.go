package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/vk/naosoccer/internal/bootstrap"
	"github.com/vk/naosoccer/internal/ctxlog"
	"github.com/vk/naosoccer/internal/gamelog"
	"github.com/vk/naosoccer/internal/params"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	runtime    *Runtime
	ctx        context.Context
	httpServer *http.Server

	mu       sync.RWMutex
	registry *params.Registry
	runID    string
}

// NewApp is the constructor for the main application. Results go to outW,
// logs to logW. It panics if the host runtime cannot be assembled from a
// validated config, which is a programming error.
func NewApp(outW, logW io.Writer, cfg *Config) *App {
	logger := NewLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	rt, err := NewRuntime(cfg)
	if err != nil {
		panic(fmt.Errorf("failed to assemble host runtime: %w", err))
	}
	logger.Debug("Host runtime assembled.", "services", rt.Paths())

	return &App{
		outW:    outW,
		logger:  logger,
		config:  cfg,
		runtime: rt,
		ctx:     ctxlog.WithLogger(context.Background(), logger),
	}
}

// Runtime returns the host runtime. This is primarily for testing.
func (a *App) Runtime() *Runtime { return a.runtime }

// Registry returns the bootstrapped registry, or nil before Run succeeds.
func (a *App) Registry() *params.Registry {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.registry
}

// RunID identifies the bootstrap run.
func (a *App) RunID() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.runID
}

// Run bootstraps the runtime, prints the parameters and, if a monitor port is
// configured, serves the monitor until ctx is done.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.ctx = ctx
	a.logger.Debug("App.Run method started.")

	if err := a.healthCheckServer(); err != nil {
		return err
	}
	defer a.closeHealthCheckServer()

	seq := bootstrap.New(a.runtime, bootstrap.Config{
		InternalMonitor: a.config.InternalMonitor,
		ServerPath:      a.config.ServerPath,
		ScenePath:       a.config.ScenePath,
	})
	reg, err := seq.Run(ctx)
	if err != nil {
		return fmt.Errorf("bootstrap failed: %w", err)
	}
	a.mu.Lock()
	a.registry = reg
	a.runID = seq.RunID()
	a.mu.Unlock()

	if err := writeParams(a.outW, reg, a.config.Format); err != nil {
		return fmt.Errorf("failed to write parameters: %w", err)
	}

	if a.config.RecordPath != "" {
		store, err := a.startRecording(ctx, reg, seq.RunID())
		if err != nil {
			return err
		}
		defer func() {
			if err := store.Close(); err != nil {
				a.logger.Error("Failed to close game log.", "error", err)
			}
		}()
	}

	if err := a.serveMonitor(ctx); err != nil {
		return err
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

func (a *App) startRecording(ctx context.Context, reg *params.Registry, runID string) (*gamelog.Store, error) {
	store, err := gamelog.Open(a.config.RecordPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open game log: %w", err)
	}
	if err := store.StartRun(ctx, runID, time.Now(), reg.Snapshot()); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to record run: %w", err)
	}
	if m := a.runtime.Monitor(); m != nil {
		m.SetSink(store)
		// the initial frame shows the state bootstrap left behind
		if _, err := m.Tick(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to record initial frame: %w", err)
		}
	}
	a.logger.Info("📼 Recording game log.", "path", a.config.RecordPath, "run_id", runID)
	return store, nil
}

func (a *App) serveMonitor(ctx context.Context) error {
	m := a.runtime.Monitor()
	if a.config.MonitorPort <= 0 || m == nil {
		return nil
	}
	if err := m.Serve(ctx, fmt.Sprintf(":%d", a.config.MonitorPort), 0); err != nil {
		return fmt.Errorf("monitor server failed: %w", err)
	}
	a.logger.Debug("Monitor server stopped.")
	return nil
}
