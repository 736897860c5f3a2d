package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// Snapshotter captures the current desktop as a layout with the given name.
type Snapshotter func(name string) (*Layout, error)

// AutosaverConfig holds configuration for the autosaver.
type AutosaverConfig struct {
	Interval time.Duration
	Session  string
	Logger   *slog.Logger
}

// Autosaver periodically writes the desktop layout to a session file.
type Autosaver struct {
	interval time.Duration
	session  string
	snapshot Snapshotter
	write    func(*Layout) error
	logger   *slog.Logger
	last     string
}

// NewAutosaver creates an autosaver. A zero interval means 30 seconds.
func NewAutosaver(cfg AutosaverConfig, snapshot Snapshotter) *Autosaver {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Autosaver{
		interval: interval,
		session:  cfg.Session,
		snapshot: snapshot,
		write:    Write,
		logger:   logger,
	}
}

// Run starts the autosave loop and writes once more on shutdown. Blocks until
// ctx is cancelled.
func (a *Autosaver) Run(ctx context.Context) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	a.logger.Info("autosave started", "interval", a.interval, "session", a.session)

	for {
		select {
		case <-ctx.Done():
			a.SaveNow()
			a.logger.Info("autosave stopped")
			return
		case <-ticker.C:
			a.SaveNow()
		}
	}
}

// SaveNow writes the current layout if it changed since the last write.
// It reports whether a file was written.
func (a *Autosaver) SaveNow() (saved bool) {
	// Recover from panics to keep the desktop running
	defer func() {
		if err := recover(); err != nil {
			a.logger.Error("autosave panic recovered", "error", err)
			saved = false
		}
	}()

	layout, err := a.snapshot(a.session)
	if err != nil {
		a.logger.Error("autosave: failed to capture layout", "error", err)
		return false
	}

	key := fingerprint(layout)
	if key == a.last {
		return false
	}
	if err := a.write(layout); err != nil {
		a.logger.Warn("autosave: failed to write session", "session", a.session, "error", err)
		return false
	}
	a.last = key
	a.logger.Debug("autosave: session written", "session", a.session, "windows", len(layout.Windows))
	return true
}

// fingerprint identifies a layout's contents, ignoring the save time.
func fingerprint(l *Layout) string {
	c := *l
	c.SavedAt = time.Time{}
	data, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	return string(data)
}
