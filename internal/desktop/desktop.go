// Package desktop is the shell session: it owns the window collection, drives
// the window manager over it and mounts apps in windows. Every entry point
// takes one lock, so the UI loop and control socket goroutines can share a
// Desktop.
package desktop

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/user"
	"strconv"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mominos/mominos/internal/apps"
	"github.com/mominos/mominos/internal/config"
	"github.com/mominos/mominos/internal/tiling"
	"github.com/mominos/mominos/internal/wm"
)

// ErrUnknownApp is returned when an app name matches nothing installed.
var ErrUnknownApp = errors.New("unknown app")

// ErrWindowLimit is returned when limits.max_windows windows are open.
var ErrWindowLimit = errors.New("window limit reached")

// Options configures a Desktop.
type Options struct {
	Config   *config.Config
	Registry *apps.Registry
	// Viewport overrides the configured desktop size, e.g. with the terminal size.
	Viewport tiling.Viewport
	Logger   *slog.Logger
	// SaveConfig persists preferences changed from the settings app.
	SaveConfig func(cfg *config.Config) error
	Now        func() time.Time
}

// Desktop is a running desktop session.
type Desktop struct {
	mu sync.Mutex

	cfg      *config.Config
	store    *wm.Store
	pointer  *wm.Dispatcher
	manager  *wm.Manager
	registry *apps.Registry
	logger   *slog.Logger

	saveConfig func(*config.Config) error
	now        func() time.Time
	started    time.Time
	user       string
	host       string

	nextID  int
	opened  int
	appIDs  map[wm.ID]string
	pressed *wm.Hit

	subMu   sync.Mutex
	subs    map[int]chan struct{}
	nextSub int
}

// New creates an empty desktop.
func New(opts Options) *Desktop {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	registry := opts.Registry
	if registry == nil {
		registry = apps.Builtin()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	vp := opts.Viewport
	if vp.Width <= 0 || vp.Height <= 0 {
		ev := cfg.EffectiveViewport()
		vp = tiling.Viewport{Width: ev.Width, Height: ev.Height}
	}

	g, c := geometryFromConfig(cfg.ActiveGeometry())
	store := wm.NewStore()
	pointer := wm.NewDispatcher()

	d := &Desktop{
		cfg:        cfg,
		store:      store,
		pointer:    pointer,
		registry:   registry,
		logger:     logger,
		saveConfig: opts.SaveConfig,
		now:        now,
		started:    now(),
		user:       currentUser(),
		host:       currentHost(),
		appIDs:     make(map[wm.ID]string),
		subs:       make(map[int]chan struct{}),
	}
	d.manager = wm.NewManager(store, wm.Options{
		Geometry: g,
		Chrome:   c,
		Viewport: vp,
		Pointer:  pointer,
		Logger:   logger,
	})
	return d
}

// geometryFromConfig splits a config profile into manager constants and
// chrome metrics.
func geometryFromConfig(g config.Geometry) (wm.Geometry, wm.Chrome) {
	geometry := wm.Geometry{
		TopChrome:         g.TopChrome,
		MinWidth:          g.MinWidth,
		MinHeight:         g.MinHeight,
		SnapMargin:        g.SnapMargin,
		SnapReleaseMargin: g.SnapReleaseMargin,
	}
	chrome := wm.Chrome{
		HandleSize:     g.HandleSize,
		TitleBarHeight: g.TitleBarHeight,
		ButtonWidth:    g.ButtonWidth,
	}
	return geometry, chrome
}

func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "guest"
}

func currentHost() string {
	if h, err := os.Hostname(); err == nil && h != "" {
		return h
	}
	return "mominos"
}

// Start opens the configured startup apps. Failures are logged and skipped.
func (d *Desktop) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, id := range d.cfg.StartupApps {
		if _, err := d.openLocked(id); err != nil {
			d.logger.Warn("startup app failed", "app", id, "error", err)
		}
	}
	d.changed()
}

// Subscribe returns a channel that receives a value after changes. Bursts
// collapse into one pending notification. Call cancel to unsubscribe.
func (d *Desktop) Subscribe() (<-chan struct{}, func()) {
	d.subMu.Lock()
	defer d.subMu.Unlock()
	id := d.nextSub
	d.nextSub++
	ch := make(chan struct{}, 1)
	d.subs[id] = ch
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			d.subMu.Lock()
			delete(d.subs, id)
			d.subMu.Unlock()
		})
	}
}

func (d *Desktop) changed() {
	d.subMu.Lock()
	defer d.subMu.Unlock()
	for _, ch := range d.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Registry returns the installed apps.
func (d *Desktop) Registry() *apps.Registry { return d.registry }

// Started returns when the desktop was created.
func (d *Desktop) Started() time.Time { return d.started }

// Config returns the current preferences.
func (d *Desktop) Config() *config.Config {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg
}

// SetConfig swaps in new preferences. Any gesture in progress is cancelled
// when the geometry profile changes.
func (d *Desktop) SetConfig(cfg *config.Config) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.setConfigLocked(cfg)
	d.changed()
}

func (d *Desktop) setConfigLocked(cfg *config.Config) {
	if cfg == nil {
		return
	}
	g, c := geometryFromConfig(cfg.ActiveGeometry())
	profileChanged := g != d.manager.Geometry() || c != d.manager.Chrome()
	if profileChanged {
		d.manager.SetGeometry(g, c)
	}
	if !cfg.Viewport.IsZero() {
		d.resizeLocked(tiling.Viewport{Width: cfg.Viewport.Width, Height: cfg.Viewport.Height})
	}
	if profileChanged {
		d.refitLocked(true)
	}
	d.cfg = cfg
	d.logger.Info("preferences applied", "profile", cfg.GeometryProfile)
}

// applyFromApp is the settings app's path: apply, then persist.
func (d *Desktop) applyFromApp(cfg *config.Config) error {
	d.setConfigLocked(cfg)
	if d.saveConfig == nil {
		return nil
	}
	if err := d.saveConfig(cfg); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}

// Viewport returns the desktop size.
func (d *Desktop) Viewport() tiling.Viewport {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.manager.Viewport()
}

// SetViewport changes the desktop size. Maximized and snapped windows are
// refit to their regions on the new work area.
func (d *Desktop) SetViewport(vp tiling.Viewport) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.resizeLocked(vp)
	d.changed()
}

func (d *Desktop) resizeLocked(vp tiling.Viewport) {
	if vp == d.manager.Viewport() {
		return
	}
	d.manager.SetViewport(vp)
	d.refitLocked(false)
}

// refitLocked moves maximized and snapped windows onto their regions of the
// current work area. With free set, every other window and every saved
// restore rectangle is also grown to the minimum size and pulled below the
// top chrome.
func (d *Desktop) refitLocked(free bool) {
	vp := d.manager.Viewport()
	top := d.manager.Geometry().TopChrome
	windows := d.store.Windows()
	for i, w := range windows {
		switch {
		case w.Maximized:
			windows[i].Bounds = tiling.RegionRect(tiling.RegionFull, vp, top)
		case w.Snapped == wm.SnapLeft:
			windows[i].Bounds = tiling.RegionRect(tiling.RegionLeftHalf, vp, top)
		case w.Snapped == wm.SnapRight:
			windows[i].Bounds = tiling.RegionRect(tiling.RegionRightHalf, vp, top)
		case free:
			windows[i].Bounds = d.fitLocked(w.Bounds)
		}
		if free && w.Restore != nil {
			r := d.fitLocked(*w.Restore)
			windows[i].Restore = &r
		}
	}
	d.store.SetWindows(windows)
}

func (d *Desktop) env() apps.Env {
	return apps.Env{
		Config:      func() *config.Config { return d.cfg },
		Started:     d.started,
		Logger:      d.logger,
		Open:        func(id string) error { _, err := d.openLocked(id); return err },
		ApplyConfig: d.applyFromApp,
		WindowCount: d.store.Len,
		Now:         d.now,
		User:        d.user,
		Host:        d.host,
	}
}

// OpenApp opens an app by id, name or fuzzy match. Singleton apps that are
// already open are restored and focused instead.
func (d *Desktop) OpenApp(query string) (WindowInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	id, err := d.openLocked(query)
	if err != nil {
		return WindowInfo{}, err
	}
	d.changed()
	return d.infoLocked(id)
}

func (d *Desktop) openLocked(query string) (wm.ID, error) {
	info, err := d.registry.Resolve(query)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnknownApp, err)
	}

	if info.Singleton {
		for _, w := range d.store.Windows() {
			if d.appIDs[w.ID] == info.ID {
				if err := d.manager.Activate(w.ID); err != nil {
					return "", err
				}
				return w.ID, nil
			}
		}
	}

	if err := d.checkLimitLocked(); err != nil {
		return "", err
	}

	app, err := d.registry.New(info.ID, d.env())
	if err != nil {
		return "", err
	}

	d.nextID++
	id := wm.ID("w" + strconv.Itoa(d.nextID))
	w := wm.Window{
		ID:      id,
		Title:   info.Name,
		Icon:    info.Icon,
		Bounds:  d.nextBounds(),
		Content: app,
	}
	if err := d.store.Add(w); err != nil {
		return "", err
	}
	d.appIDs[id] = info.ID
	d.opened++
	if err := d.manager.Focus(id); err != nil {
		return "", err
	}
	d.logger.Info("app opened", "app", info.ID, "window", id, "bounds", w.Bounds.String())
	return id, nil
}

func (d *Desktop) checkLimitLocked() error {
	limit := d.cfg.Limits.MaxWindows
	if n := d.store.Len(); limit > 0 && n >= limit {
		return fmt.Errorf("%w (%d/%d)", ErrWindowLimit, n, limit)
	}
	return nil
}

// nextBounds places a new window at the next cascade slot, sized by the
// profile but never larger than the work area or smaller than the minimum.
func (d *Desktop) nextBounds() tiling.Rect {
	g := d.cfg.ActiveGeometry()
	limits := d.manager.Geometry()
	work := d.manager.WorkArea()

	w := clampSize(g.WindowWidth, limits.MinWidth, work.Width)
	h := clampSize(g.WindowHeight, limits.MinHeight, work.Height)
	return tiling.CascadeAt(d.opened, work, w, h, g.CascadeStep)
}

func clampSize(want, lo, hi int) int {
	if want > hi {
		want = hi
	}
	if want < lo {
		want = lo
	}
	return want
}

// AppID returns the app mounted in a window.
func (d *Desktop) AppID(id wm.ID) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.appIDs[id]
}

// Window returns one window.
func (d *Desktop) Window(id wm.ID) (WindowInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.infoLocked(id)
}

// Windows lists every window in insertion order.
func (d *Desktop) Windows() []WindowInfo {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.infosLocked()
}

// Focus brings a window to the front.
func (d *Desktop) Focus(id wm.ID) error {
	return d.mutate(func() error { return d.manager.Activate(id) })
}

// Minimize hides a window to the taskbar.
func (d *Desktop) Minimize(id wm.ID) error {
	return d.mutate(func() error { return d.manager.Minimize(id) })
}

// ToggleMaximize maximizes or restores a window and focuses it.
func (d *Desktop) ToggleMaximize(id wm.ID) error {
	return d.mutate(func() error {
		if err := d.manager.ToggleMaximize(id); err != nil {
			return err
		}
		return d.manager.Focus(id)
	})
}

// Close closes a window and unmounts its app.
func (d *Desktop) Close(id wm.ID) error {
	return d.mutate(func() error { return d.closeLocked(id) })
}

func (d *Desktop) closeLocked(id wm.ID) error {
	if err := d.manager.Close(id); err != nil {
		return err
	}
	d.logger.Info("window closed", "window", id, "app", d.appIDs[id])
	delete(d.appIDs, id)
	return nil
}

// Snap moves a window into a snap zone and focuses it.
func (d *Desktop) Snap(id wm.ID, zone wm.Zone) error {
	return d.mutate(func() error {
		if err := d.manager.SnapWindow(id, zone); err != nil {
			return err
		}
		return d.manager.Focus(id)
	})
}

// CloseAll closes every window.
func (d *Desktop) CloseAll() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closeAllLocked()
	d.changed()
}

func (d *Desktop) closeAllLocked() {
	d.manager.Cancel()
	for _, w := range d.store.Windows() {
		if err := d.closeLocked(w.ID); err != nil {
			d.logger.Warn("close failed", "window", w.ID, "error", err)
		}
	}
	d.opened = 0
}

func (d *Desktop) mutate(fn func() error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := fn(); err != nil {
		return err
	}
	d.changed()
	return nil
}

// SendKey forwards a key to the focused window's app.
func (d *Desktop) SendKey(msg tea.Msg) tea.Cmd {
	d.mu.Lock()
	defer d.mu.Unlock()
	w, ok := d.store.Get(d.store.FocusedID())
	if !ok {
		return nil
	}
	app, ok := w.Content.(apps.App)
	if !ok {
		return nil
	}
	cmd := app.Update(msg)
	d.manager.Sync()
	d.changed()
	return cmd
}

// CancelGesture abandons the drag or resize in progress.
func (d *Desktop) CancelGesture() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.manager.Cancel()
	d.pressed = nil
	d.changed()
}
