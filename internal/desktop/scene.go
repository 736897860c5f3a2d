package desktop

import (
	"fmt"
	"time"

	"github.com/mominos/mominos/internal/apps"
	"github.com/mominos/mominos/internal/config"
	"github.com/mominos/mominos/internal/tiling"
	"github.com/mominos/mominos/internal/wm"
)

// WindowInfo is a read-only view of one window.
type WindowInfo struct {
	ID        wm.ID
	App       string
	Title     string
	Icon      string
	Bounds    tiling.Rect
	Minimized bool
	Maximized bool
	Snapped   wm.SnapSide
	Resizing  bool
	Focused   bool
	// Z is the stacking position among visible windows, 0 at the bottom,
	// or -1 for minimized windows.
	Z int
}

func (d *Desktop) infosLocked() []WindowInfo {
	windows := d.store.Windows()
	focused := d.store.FocusedID()
	z := make(map[wm.ID]int, len(windows))
	for i, w := range wm.RenderOrder(windows, focused) {
		z[w.ID] = i
	}

	out := make([]WindowInfo, 0, len(windows))
	for _, w := range windows {
		info := WindowInfo{
			ID:        w.ID,
			App:       d.appIDs[w.ID],
			Title:     w.Title,
			Icon:      w.Icon,
			Bounds:    w.Bounds,
			Minimized: w.Minimized,
			Maximized: w.Maximized,
			Snapped:   w.Snapped,
			Resizing:  w.Resizing,
			Focused:   w.ID == focused,
			Z:         -1,
		}
		if pos, ok := z[w.ID]; ok {
			info.Z = pos
		}
		out = append(out, info)
	}
	return out
}

func (d *Desktop) infoLocked(id wm.ID) (WindowInfo, error) {
	for _, info := range d.infosLocked() {
		if info.ID == id {
			return info, nil
		}
	}
	return WindowInfo{}, fmt.Errorf("window %s: %w", id, wm.ErrWindowNotFound)
}

// Status summarises the desktop.
type Status struct {
	Windows   int
	Minimized int
	Focused   wm.ID
	Profile   string
	Viewport  tiling.Viewport
	Started   time.Time
	// Gesture is "drag", "resize" or empty.
	Gesture string
}

// Status returns a summary of the desktop.
func (d *Desktop) Status() Status {
	d.mu.Lock()
	defer d.mu.Unlock()

	st := Status{
		Focused:  d.store.FocusedID(),
		Profile:  d.cfg.GeometryProfile,
		Viewport: d.manager.Viewport(),
		Started:  d.started,
	}
	for _, w := range d.store.Windows() {
		st.Windows++
		if w.Minimized {
			st.Minimized++
		}
	}
	if _, ok := d.manager.ActiveDrag(); ok {
		st.Gesture = "drag"
	} else if _, _, ok := d.manager.ActiveResize(); ok {
		st.Gesture = "resize"
	}
	return st
}

// SceneWindow is a window ready to draw.
type SceneWindow struct {
	ID        wm.ID
	Title     string
	Icon      string
	Bounds    tiling.Rect
	Minimized bool
	Maximized bool
	Snapped   wm.SnapSide
	Resizing  bool
	Focused   bool
	Dragging  bool
	// Content is the app's rendering of the window's content area.
	Content string
}

// Scene is everything the host surface needs for one frame.
type Scene struct {
	Viewport tiling.Viewport
	Geometry wm.Geometry
	Chrome   wm.Chrome
	Theme    config.Theme
	Now      time.Time

	// Windows holds the visible windows bottom to top.
	Windows []SceneWindow
	// Taskbar holds every window in insertion order.
	Taskbar []SceneWindow

	Focused   wm.ID
	SnapZones bool
	// Preview is the zone the current drag would snap to on release, with
	// its target rectangle.
	Preview     wm.Zone
	PreviewRect tiling.Rect
}

// Scene renders the current frame. App content is drawn here, under the
// desktop lock.
func (d *Desktop) Scene() Scene {
	d.mu.Lock()
	defer d.mu.Unlock()

	windows := d.store.Windows()
	focused := d.store.FocusedID()
	dragging := d.store.DraggingID()
	chrome := d.manager.Chrome()
	vp := d.manager.Viewport()
	top := d.manager.Geometry().TopChrome

	sc := Scene{
		Viewport:  vp,
		Geometry:  d.manager.Geometry(),
		Chrome:    chrome,
		Theme:     d.cfg.Theme,
		Now:       d.now(),
		Focused:   focused,
		SnapZones: d.store.SnapZonesVisible(),
		Preview:   d.manager.Preview(),
	}
	switch sc.Preview {
	case wm.ZoneLeftHalf:
		sc.PreviewRect = tiling.RegionRect(tiling.RegionLeftHalf, vp, top)
	case wm.ZoneRightHalf:
		sc.PreviewRect = tiling.RegionRect(tiling.RegionRightHalf, vp, top)
	case wm.ZoneMaximize:
		sc.PreviewRect = tiling.RegionRect(tiling.RegionFull, vp, top)
	}

	toScene := func(w wm.Window) SceneWindow {
		return SceneWindow{
			ID:        w.ID,
			Title:     w.Title,
			Icon:      w.Icon,
			Bounds:    w.Bounds,
			Minimized: w.Minimized,
			Maximized: w.Maximized,
			Snapped:   w.Snapped,
			Resizing:  w.Resizing,
			Focused:   w.ID == focused,
			Dragging:  w.ID == dragging,
		}
	}

	for _, w := range wm.RenderOrder(windows, focused) {
		sw := toScene(w)
		if app, ok := w.Content.(apps.App); ok {
			area := chrome.ContentRect(w.Bounds)
			sw.Content = app.View(area.Width, area.Height)
		}
		sc.Windows = append(sc.Windows, sw)
	}
	for _, w := range windows {
		sc.Taskbar = append(sc.Taskbar, toScene(w))
	}
	return sc
}
