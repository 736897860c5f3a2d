package desktop

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/mominos/mominos/internal/session"
	"github.com/mominos/mominos/internal/tiling"
	"github.com/mominos/mominos/internal/wm"
)

// Arrangements understood by Arrange.
const (
	ArrangeTile    = "tile"
	ArrangeCascade = "cascade"
)

// ErrUnknownArrangement is returned by Arrange for an unrecognised mode.
var ErrUnknownArrangement = errors.New("unknown arrangement")

// Arrange lays out every visible window as a grid ("tile") or a diagonal
// stack ("cascade"). Maximized and snapped windows are released from those
// states first. Minimized windows and focus are left alone.
func (d *Desktop) Arrange(mode string) error {
	return d.mutate(func() error { return d.arrangeLocked(mode) })
}

func (d *Desktop) arrangeLocked(mode string) error {
	windows := d.store.Windows()
	var visible []int
	for i, w := range windows {
		if w.Visible() {
			visible = append(visible, i)
		}
	}

	work := d.manager.WorkArea()
	var slots []tiling.Rect
	switch mode {
	case ArrangeTile:
		var err error
		slots, err = tiling.Grid(len(visible), work, 0)
		if err != nil {
			return fmt.Errorf("tile: %w", err)
		}
	case ArrangeCascade:
		g := d.cfg.ActiveGeometry()
		limits := d.manager.Geometry()
		w := clampSize(g.WindowWidth, limits.MinWidth, work.Width)
		h := clampSize(g.WindowHeight, limits.MinHeight, work.Height)
		slots = tiling.Cascade(len(visible), work, w, h, g.CascadeStep)
	default:
		return fmt.Errorf("%w %q", ErrUnknownArrangement, mode)
	}

	d.manager.Cancel()
	windows = d.store.Windows()
	for n, i := range visible {
		windows[i].Bounds = d.fitLocked(slots[n])
		windows[i].Maximized = false
		windows[i].Snapped = wm.SnapNone
		windows[i].Restore = nil
	}
	d.store.SetWindows(windows)
	d.opened = len(visible)
	d.logger.Info("windows arranged", "mode", mode, "windows", len(visible))
	return nil
}

// fitLocked grows r to the minimum size and pulls it inside the work area.
func (d *Desktop) fitLocked(r tiling.Rect) tiling.Rect {
	limits := d.manager.Geometry()
	work := d.manager.WorkArea()

	r.Width = max(r.Width, limits.MinWidth)
	r.Height = max(r.Height, limits.MinHeight)
	if r.X > work.Right()-r.Width {
		r.X = work.Right() - r.Width
	}
	if r.X < work.X {
		r.X = work.X
	}
	if r.Y > work.Bottom()-r.Height {
		r.Y = work.Bottom() - r.Height
	}
	if r.Y < work.Y {
		r.Y = work.Y
	}
	return r
}

// Export snapshots the desktop as a named layout.
func (d *Desktop) Export(name string) *session.Layout {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.exportLocked(name)
}

func (d *Desktop) exportLocked(name string) *session.Layout {
	layout := &session.Layout{
		Name:     name,
		SavedAt:  d.now(),
		Profile:  d.cfg.GeometryProfile,
		Viewport: d.manager.Viewport(),
		Focused:  string(d.store.FocusedID()),
		Windows:  []session.WindowState{},
	}
	for _, w := range d.store.Windows() {
		state := session.WindowState{
			ID:        string(w.ID),
			App:       d.appIDs[w.ID],
			Title:     w.Title,
			Bounds:    w.Bounds,
			Minimized: w.Minimized,
			Maximized: w.Maximized,
			Snapped:   string(w.Snapped),
		}
		if w.Restore != nil {
			r := *w.Restore
			state.Restore = &r
		}
		layout.Windows = append(layout.Windows, state)
	}
	return layout
}

// Import replaces every open window with the windows of a saved layout and
// returns how many were restored. Windows get fresh ids. Entries naming an
// app that is not installed are skipped, as are repeats of singleton apps.
// Geometry is fitted to the current work area.
func (d *Desktop) Import(layout *session.Layout) (int, error) {
	if layout == nil {
		return 0, errors.New("import: no layout")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	defer d.changed()

	d.closeAllLocked()

	vp := d.manager.Viewport()
	top := d.manager.Geometry().TopChrome
	ids := make(map[string]wm.ID, len(layout.Windows))
	singletons := make(map[string]bool)

	for _, state := range layout.Windows {
		info, ok := d.registry.Get(state.App)
		if !ok {
			d.logger.Warn("layout names unknown app", "layout", layout.Name, "app", state.App)
			continue
		}
		if info.Singleton {
			if singletons[info.ID] {
				continue
			}
			singletons[info.ID] = true
		}
		if err := d.checkLimitLocked(); err != nil {
			d.logger.Warn("layout truncated", "layout", layout.Name, "error", err)
			break
		}
		app, err := d.registry.New(info.ID, d.env())
		if err != nil {
			return len(ids), err
		}

		d.nextID++
		id := wm.ID("w" + strconv.Itoa(d.nextID))
		w := wm.Window{
			ID:        id,
			Title:     info.Name,
			Icon:      info.Icon,
			Bounds:    d.fitLocked(state.Bounds),
			Minimized: state.Minimized,
			Content:   app,
		}
		switch {
		case state.Maximized:
			w.Maximized = true
			w.Bounds = tiling.RegionRect(tiling.RegionFull, vp, top)
			restore := d.fitLocked(state.Bounds)
			if state.Restore != nil {
				restore = d.fitLocked(*state.Restore)
			}
			w.Restore = &restore
		case state.Snapped == string(wm.SnapLeft):
			w.Snapped = wm.SnapLeft
			w.Bounds = tiling.RegionRect(tiling.RegionLeftHalf, vp, top)
		case state.Snapped == string(wm.SnapRight):
			w.Snapped = wm.SnapRight
			w.Bounds = tiling.RegionRect(tiling.RegionRightHalf, vp, top)
		}
		if err := d.store.Add(w); err != nil {
			return len(ids), err
		}
		d.appIDs[id] = info.ID
		ids[state.ID] = id
	}
	d.opened = len(ids)

	if id, ok := ids[layout.Focused]; ok {
		if err := d.manager.Focus(id); err != nil {
			d.logger.Debug("restored focus skipped", "window", id, "error", err)
		}
	}
	d.logger.Info("layout restored", "layout", layout.Name, "windows", len(ids))
	return len(ids), nil
}

// SaveSession writes the current layout under name.
func (d *Desktop) SaveSession(name string) (*session.Layout, error) {
	layout := d.Export(name)
	if err := session.Write(layout); err != nil {
		return nil, err
	}
	d.logger.Info("session saved", "session", name, "windows", len(layout.Windows))
	return layout, nil
}

// LoadSession restores a saved layout by name.
func (d *Desktop) LoadSession(name string) (int, error) {
	layout, err := session.Read(name)
	if err != nil {
		return 0, err
	}
	return d.Import(layout)
}

// Snapshot adapts the desktop to the session autosaver.
func (d *Desktop) Snapshot(name string) (*session.Layout, error) {
	return d.Export(name), nil
}
