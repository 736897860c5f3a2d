// Package daemon runs a desktop session in the background: the IPC control
// socket, layout autosave and config reloads.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/mominos/mominos/internal/config"
	"github.com/mominos/mominos/internal/desktop"
	"github.com/mominos/mominos/internal/ipc"
	"github.com/mominos/mominos/internal/session"
)

// Options configures a Daemon.
type Options struct {
	Logger *slog.Logger
	// LoadConfig reads configuration on reload. Defaults to config.Load.
	LoadConfig func() (*config.Config, error)
	// Restore names a session to load before serving.
	Restore string
}

// Daemon serves one desktop over IPC.
type Daemon struct {
	desktop    *desktop.Desktop
	logger     *slog.Logger
	loadConfig func() (*config.Config, error)
	restore    string
	reloadChan chan struct{}

	mu        sync.Mutex
	autosave  context.CancelFunc
	autosaveW sync.WaitGroup
}

// New creates a daemon for d.
func New(d *desktop.Desktop, opts Options) *Daemon {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	load := opts.LoadConfig
	if load == nil {
		load = config.Load
	}
	return &Daemon{
		desktop:    d,
		logger:     logger,
		loadConfig: load,
		restore:    opts.Restore,
		reloadChan: make(chan struct{}, 1),
	}
}

// Run starts the IPC server and the autosaver, then blocks until ctx is
// cancelled. The autosaver writes a final snapshot before Run returns.
func (dm *Daemon) Run(ctx context.Context) error {
	if dm.restore != "" {
		n, err := dm.desktop.LoadSession(dm.restore)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			dm.logger.Info("no session to restore", "session", dm.restore)
		case err != nil:
			dm.logger.Warn("session restore failed", "session", dm.restore, "error", err)
		default:
			dm.logger.Info("session restored", "session", dm.restore, "windows", n)
		}
	}

	server, err := ipc.NewServer(dm.desktop, dm.logger, dm.reloadChan)
	if err != nil {
		return err
	}
	if err := server.Start(); err != nil {
		return fmt.Errorf("failed to start IPC server: %w", err)
	}
	defer server.Stop()

	dm.startAutosave(ctx)
	defer dm.stopAutosave()

	dm.logger.Info("daemon running", "windows", len(dm.desktop.Windows()))

	for {
		select {
		case <-ctx.Done():
			dm.logger.Info("daemon shutting down")
			return nil
		case <-dm.reloadChan:
			dm.logger.Info("config reloaded, restarting autosave")
			dm.stopAutosave()
			dm.startAutosave(ctx)
		}
	}
}

// Reload re-reads the config file and applies it, as on SIGHUP.
func (dm *Daemon) Reload() error {
	cfg, err := dm.loadConfig()
	if err != nil {
		return fmt.Errorf("failed to reload config: %w", err)
	}
	dm.desktop.SetConfig(cfg)

	select {
	case dm.reloadChan <- struct{}{}:
	default:
	}
	return nil
}

func (dm *Daemon) startAutosave(ctx context.Context) {
	cfg := dm.desktop.Config()
	if !cfg.Autosave.Enabled {
		return
	}

	actx, cancel := context.WithCancel(ctx)
	a := session.NewAutosaver(session.AutosaverConfig{
		Interval: cfg.AutosaveInterval(),
		Session:  cfg.Autosave.Session,
		Logger:   dm.logger,
	}, dm.desktop.Snapshot)

	dm.mu.Lock()
	dm.autosave = cancel
	dm.mu.Unlock()

	dm.autosaveW.Add(1)
	go func() {
		defer dm.autosaveW.Done()
		a.Run(actx)
	}()
}

func (dm *Daemon) stopAutosave() {
	dm.mu.Lock()
	cancel := dm.autosave
	dm.autosave = nil
	dm.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	dm.autosaveW.Wait()
}
