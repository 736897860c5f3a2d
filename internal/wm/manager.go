package wm

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/mominos/mominos/internal/tiling"
)

type dragState struct {
	id   ID
	last tiling.Point
}

type resizeState struct {
	id          ID
	handle      Handle
	start       tiling.Point
	startBounds tiling.Rect
}

// Options configures a Manager. Zero values fall back to the defaults.
type Options struct {
	Geometry Geometry
	Viewport tiling.Viewport
	Chrome   Chrome
	// Pointer supplies global move/up events during gestures. A private
	// Dispatcher is created when nil.
	Pointer PointerSource
	Logger  *slog.Logger
}

// Manager drives window interaction over a Host. It keeps only the state of
// the gesture in progress; every change to windows, focus, snap-zone
// visibility or the dragging id is pushed back through the Host setters.
type Manager struct {
	host     Host
	geometry Geometry
	viewport tiling.Viewport
	chrome   Chrome
	pointer  PointerSource
	logger   *slog.Logger

	drag    *dragState
	resize  *resizeState
	preview Zone
	detach  func()
}

// NewManager creates a manager borrowing host.
func NewManager(host Host, opts Options) *Manager {
	if opts.Geometry == (Geometry{}) {
		opts.Geometry = DefaultGeometry()
	}
	if opts.Chrome == (Chrome{}) {
		opts.Chrome = DefaultChrome()
	}
	if opts.Pointer == nil {
		opts.Pointer = NewDispatcher()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Manager{
		host:     host,
		geometry: opts.Geometry,
		viewport: opts.Viewport,
		chrome:   opts.Chrome,
		pointer:  opts.Pointer,
		logger:   opts.Logger,
		preview:  ZoneNone,
	}
}

func (m *Manager) Geometry() Geometry { return m.geometry }

func (m *Manager) Chrome() Chrome { return m.chrome }

func (m *Manager) Viewport() tiling.Viewport { return m.viewport }

// SetViewport updates the desktop size used for clamping, snap zones and
// maximized geometry. Windows already placed are not moved.
func (m *Manager) SetViewport(vp tiling.Viewport) {
	m.viewport = vp
}

// SetGeometry swaps the desktop constants, cancelling any gesture.
func (m *Manager) SetGeometry(g Geometry, c Chrome) {
	m.cancel("geometry changed")
	m.geometry = g
	m.chrome = c
}

// ActiveDrag returns the id of the window being dragged, if any.
func (m *Manager) ActiveDrag() (ID, bool) {
	if m.drag == nil {
		return "", false
	}
	return m.drag.id, true
}

// ActiveResize returns the window and handle of the resize in progress.
func (m *Manager) ActiveResize() (ID, Handle, bool) {
	if m.resize == nil {
		return "", "", false
	}
	return m.resize.id, m.resize.handle, true
}

// Preview returns the snap zone the current drag would land in on release.
func (m *Manager) Preview() Zone {
	return m.preview
}

// WorkArea returns the desktop area below the top chrome.
func (m *Manager) WorkArea() tiling.Rect {
	return m.viewport.WorkArea(m.geometry.TopChrome)
}

func (m *Manager) lookup(id ID) (Window, bool) {
	windows := m.host.Windows()
	idx := indexOf(windows, id)
	if idx < 0 {
		return Window{}, false
	}
	return windows[idx], true
}

// update applies fn to the window with the given id and hands the host a
// fresh collection.
func (m *Manager) update(id ID, fn func(w *Window)) bool {
	next := cloneWindows(m.host.Windows())
	idx := indexOf(next, id)
	if idx < 0 {
		return false
	}
	fn(&next[idx])
	m.host.SetWindows(next)
	return true
}

func (m *Manager) acquire() {
	if m.detach == nil {
		m.detach = m.pointer.Attach(m)
	}
}

func (m *Manager) release() {
	if m.detach != nil {
		m.detach()
		m.detach = nil
	}
}

// BeginDrag focuses the window and starts a drag at the pointer position.
// It reports false for unknown or minimized windows.
func (m *Manager) BeginDrag(ev PointerEvent, id ID) bool {
	w, ok := m.lookup(id)
	if !ok || w.Minimized {
		return false
	}
	m.cancel("new drag")

	m.host.SetFocusedID(id)
	m.drag = &dragState{id: id, last: ev.Point}
	m.host.SetDraggingID(id)
	m.acquire()
	m.logger.Debug("drag begin", "window", id, "x", ev.X, "y", ev.Y)
	return true
}

// BeginResize focuses the window and starts a resize from the given handle.
// Maximized and minimized windows cannot be resized.
func (m *Manager) BeginResize(ev PointerEvent, id ID, handle Handle) bool {
	w, ok := m.lookup(id)
	if !ok || w.Minimized || w.Maximized {
		return false
	}
	m.cancel("new resize")

	m.host.SetFocusedID(id)
	m.resize = &resizeState{
		id:          id,
		handle:      handle,
		start:       ev.Point,
		startBounds: w.Bounds,
	}
	m.acquire()
	m.logger.Debug("resize begin", "window", id, "handle", string(handle))
	return true
}

// PointerMove advances the gesture in progress.
func (m *Manager) PointerMove(ev PointerEvent) {
	switch {
	case m.drag != nil:
		m.moveDrag(ev)
	case m.resize != nil:
		m.moveResize(ev)
	}
}

func (m *Manager) moveDrag(ev PointerEvent) {
	w, ok := m.lookup(m.drag.id)
	if !ok || w.Minimized {
		m.cancel("drag target gone")
		return
	}
	if w.Maximized {
		return
	}

	dx := ev.X - m.drag.last.X
	dy := ev.Y - m.drag.last.Y
	m.drag.last = ev.Point

	top := m.geometry.TopChrome
	m.update(w.ID, func(w *Window) {
		w.Bounds.X = max(0, w.Bounds.X+dx)
		w.Bounds.Y = max(top, w.Bounds.Y+dy)
		w.Snapped = SnapNone
	})

	m.preview = m.ZoneAt(ev.Point, m.geometry.SnapMargin)
	visible := m.preview != ZoneNone
	if m.host.SnapZonesVisible() != visible {
		m.host.SetSnapZonesVisible(visible)
	}
}

func (m *Manager) moveResize(ev PointerEvent) {
	r := m.resize
	w, ok := m.lookup(r.id)
	if !ok || w.Minimized {
		m.cancel("resize target gone")
		return
	}

	bounds := r.startBounds
	if r.handle.Valid() {
		dx := ev.X - r.start.X
		dy := ev.Y - r.start.Y
		bounds = ResizeRect(r.handle, r.startBounds, dx, dy, m.geometry.MinWidth, m.geometry.MinHeight)
		if m.viewport.Width > 0 && m.viewport.Height > 0 {
			bounds = clampToViewport(bounds, m.viewport, m.geometry.TopChrome)
		}
	}

	m.update(w.ID, func(w *Window) {
		w.Bounds = bounds
		w.Resizing = true
		w.Snapped = SnapNone
	})
}

// PointerUp ends whichever gesture is live.
func (m *Manager) PointerUp(ev PointerEvent) {
	m.EndResize()
	m.EndDrag(ev)
}

// EndDrag finishes a drag. When the snap zones are showing, the release
// position picks the zone to snap the dragged window into. Drag state, snap
// zones and every window's resizing flag are cleared.
func (m *Manager) EndDrag(ev PointerEvent) {
	if m.host.SnapZonesVisible() {
		id := m.host.DraggingID()
		if id == "" && m.drag != nil {
			id = m.drag.id
		}
		zone := m.ZoneAt(ev.Point, m.geometry.releaseMargin())
		if id != "" && zone != ZoneNone {
			if err := m.SnapWindow(id, zone); err != nil {
				m.logger.Debug("snap on release failed", "window", id, "zone", string(zone), "error", err)
			}
		}
	}

	if m.drag != nil {
		m.logger.Debug("drag end", "window", m.drag.id, "x", ev.X, "y", ev.Y)
	}
	m.drag = nil
	m.preview = ZoneNone
	if m.host.DraggingID() != "" {
		m.host.SetDraggingID("")
	}
	if m.host.SnapZonesVisible() {
		m.host.SetSnapZonesVisible(false)
	}
	m.clearResizing()
	if m.resize == nil {
		m.release()
	}
}

// EndResize finishes a resize. Snap state is left alone.
func (m *Manager) EndResize() {
	if m.resize == nil {
		return
	}
	m.logger.Debug("resize end", "window", m.resize.id)
	m.resize = nil
	if m.drag == nil {
		m.release()
	}
}

// Cancel abandons the gesture in progress, leaving windows where the last
// move put them.
func (m *Manager) Cancel() {
	m.cancel("cancelled")
}

// cancel drops any gesture and the interaction flags that go with it.
func (m *Manager) cancel(reason string) {
	if m.drag == nil && m.resize == nil {
		return
	}
	if m.drag != nil {
		m.logger.Debug("drag cancelled", "window", m.drag.id, "reason", reason)
	}
	if m.resize != nil {
		m.logger.Debug("resize cancelled", "window", m.resize.id, "reason", reason)
	}
	m.drag = nil
	m.resize = nil
	m.preview = ZoneNone
	if m.host.DraggingID() != "" {
		m.host.SetDraggingID("")
	}
	if m.host.SnapZonesVisible() {
		m.host.SetSnapZonesVisible(false)
	}
	m.clearResizing()
	m.release()
}

// cancelFor cancels the gesture only when it targets id.
func (m *Manager) cancelFor(id ID, reason string) {
	if (m.drag != nil && m.drag.id == id) || (m.resize != nil && m.resize.id == id) {
		m.cancel(reason)
	}
}

func (m *Manager) clearResizing() {
	windows := m.host.Windows()
	dirty := false
	for _, w := range windows {
		if w.Resizing {
			dirty = true
			break
		}
	}
	if !dirty {
		return
	}
	next := cloneWindows(windows)
	for i := range next {
		next[i].Resizing = false
	}
	m.host.SetWindows(next)
}

// ZoneAt returns the snap zone for a pointer position using the given margin.
// Left wins over right, and both win over the top edge.
func (m *Manager) ZoneAt(p tiling.Point, margin int) Zone {
	switch {
	case p.X < margin:
		return ZoneLeftHalf
	case m.viewport.Width > 0 && p.X > m.viewport.Width-margin:
		return ZoneRightHalf
	case p.Y < margin:
		return ZoneMaximize
	default:
		return ZoneNone
	}
}

// SnapWindow moves a window into a snap zone, then hides the snap zones and
// clears the dragging id.
func (m *Manager) SnapWindow(id ID, zone Zone) error {
	w, ok := m.lookup(id)
	if !ok {
		return fmt.Errorf("snap %s: %w", id, ErrWindowNotFound)
	}
	if w.Minimized {
		return fmt.Errorf("snap %s: %w", id, ErrMinimized)
	}

	top := m.geometry.TopChrome
	switch zone {
	case ZoneLeftHalf, ZoneRightHalf:
		region, side := tiling.RegionLeftHalf, SnapLeft
		if zone == ZoneRightHalf {
			region, side = tiling.RegionRightHalf, SnapRight
		}
		bounds := tiling.RegionRect(region, m.viewport, top)
		m.update(id, func(w *Window) {
			w.Bounds = bounds
			w.Snapped = side
			w.Maximized = false
			w.Restore = nil
		})
	case ZoneMaximize:
		bounds := tiling.RegionRect(tiling.RegionFull, m.viewport, top)
		m.update(id, func(w *Window) {
			if !w.Maximized {
				prev := w.Bounds
				w.Restore = &prev
			}
			w.Bounds = bounds
			w.Maximized = true
			w.Snapped = SnapNone
		})
	case ZoneNone:
	default:
		return fmt.Errorf("snap %s: unknown zone %q", id, zone)
	}

	m.logger.Debug("snap", "window", id, "zone", string(zone))
	m.host.SetSnapZonesVisible(false)
	m.host.SetDraggingID("")
	return nil
}

// Minimize hides a window. If it held focus, focus becomes none; no other
// window is picked as a replacement.
func (m *Manager) Minimize(id ID) error {
	w, ok := m.lookup(id)
	if !ok {
		return fmt.Errorf("minimize %s: %w", id, ErrWindowNotFound)
	}
	m.cancelFor(id, "minimized")
	if !w.Minimized {
		m.update(id, func(w *Window) { w.Minimized = true })
	}
	if m.host.FocusedID() == id {
		m.host.SetFocusedID("")
	}
	return nil
}

// ToggleMaximize flips a window between maximized and its saved geometry.
func (m *Manager) ToggleMaximize(id ID) error {
	w, ok := m.lookup(id)
	if !ok {
		return fmt.Errorf("maximize %s: %w", id, ErrWindowNotFound)
	}
	if w.Minimized {
		return fmt.Errorf("maximize %s: %w", id, ErrMinimized)
	}
	m.cancelFor(id, "maximize toggled")

	full := tiling.RegionRect(tiling.RegionFull, m.viewport, m.geometry.TopChrome)
	m.update(id, func(w *Window) {
		if w.Maximized {
			if w.Restore != nil {
				w.Bounds = *w.Restore
			}
			w.Restore = nil
			w.Maximized = false
			return
		}
		prev := w.Bounds
		w.Restore = &prev
		w.Bounds = full
		w.Maximized = true
		w.Snapped = SnapNone
	})
	return nil
}

// Close removes a window from the collection.
func (m *Manager) Close(id ID) error {
	windows := m.host.Windows()
	idx := indexOf(windows, id)
	if idx < 0 {
		return fmt.Errorf("close %s: %w", id, ErrWindowNotFound)
	}
	m.cancelFor(id, "closed")

	// cancel may have rewritten the collection.
	windows = m.host.Windows()
	next := make([]Window, 0, len(windows))
	for _, w := range windows {
		if w.ID != id {
			next = append(next, w.clone())
		}
	}
	m.host.SetWindows(next)
	if m.host.FocusedID() == id {
		m.host.SetFocusedID("")
	}
	if m.host.DraggingID() == id {
		m.host.SetDraggingID("")
	}
	m.logger.Debug("window closed", "window", id)
	return nil
}

// Focus gives a visible window focus. The collection order is not changed.
func (m *Manager) Focus(id ID) error {
	w, ok := m.lookup(id)
	if !ok {
		return fmt.Errorf("focus %s: %w", id, ErrWindowNotFound)
	}
	if w.Minimized {
		return fmt.Errorf("focus %s: %w", id, ErrMinimized)
	}
	m.host.SetFocusedID(id)
	return nil
}

// Activate restores a minimized window and focuses it.
func (m *Manager) Activate(id ID) error {
	w, ok := m.lookup(id)
	if !ok {
		return fmt.Errorf("activate %s: %w", id, ErrWindowNotFound)
	}
	if w.Minimized {
		m.update(id, func(w *Window) { w.Minimized = false })
	}
	m.host.SetFocusedID(id)
	return nil
}

// Sync reconciles the manager with a collection the host changed directly.
// Gestures whose target disappeared or was minimized are dropped, as are
// focus and dragging ids that no longer name a visible window.
func (m *Manager) Sync() {
	if id, ok := m.gestureTarget(); ok {
		if w, found := m.lookup(id); !found || w.Minimized {
			m.cancel("target gone")
		}
	}
	if id := m.host.FocusedID(); id != "" {
		if w, found := m.lookup(id); !found || w.Minimized {
			m.host.SetFocusedID("")
		}
	}
	if id := m.host.DraggingID(); id != "" {
		if _, found := m.lookup(id); !found {
			m.host.SetDraggingID("")
			m.host.SetSnapZonesVisible(false)
		}
	}
}

func (m *Manager) gestureTarget() (ID, bool) {
	switch {
	case m.drag != nil:
		return m.drag.id, true
	case m.resize != nil:
		return m.resize.id, true
	default:
		return "", false
	}
}

// HitTest reports what lies under p in the current render order.
func (m *Manager) HitTest(p tiling.Point) Hit {
	return m.chrome.HitTest(m.host.Windows(), m.host.FocusedID(), p)
}

// PointerDown routes a press: a resize handle starts a resize, the title bar
// or body starts a drag. Presses on controls only report the hit; the host
// fires the control on release through InvokeControl.
func (m *Manager) PointerDown(ev PointerEvent) Hit {
	hit := m.HitTest(ev.Point)
	switch hit.Region {
	case RegionHandle:
		m.BeginResize(ev, hit.ID, hit.Handle)
	case RegionTitleBar, RegionBody:
		m.BeginDrag(ev, hit.ID)
	}
	return hit
}

// InvokeControl runs the title bar control named by hit.
func (m *Manager) InvokeControl(hit Hit) error {
	switch hit.Region {
	case RegionMinimize:
		return m.Minimize(hit.ID)
	case RegionMaximize:
		if err := m.ToggleMaximize(hit.ID); err != nil {
			return err
		}
		return m.Focus(hit.ID)
	case RegionClose:
		return m.Close(hit.ID)
	default:
		return fmt.Errorf("%s is not a window control", hit.Region)
	}
}
