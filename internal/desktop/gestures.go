package desktop

import (
	"errors"
	"fmt"

	"github.com/mominos/mominos/internal/tiling"
	"github.com/mominos/mominos/internal/wm"
)

// ErrNotResizable is returned when a resize is requested for a window that
// cannot take one, such as a maximized window.
var ErrNotResizable = errors.New("window cannot be resized")

const (
	// DefaultSteps is how many pointer moves a simulated gesture is split into.
	DefaultSteps = 4
	// MaxSteps caps the pointer moves of one simulated gesture.
	MaxSteps = 1000
)

// PointerDown routes a press at (x, y). Presses on a title bar control are
// remembered and fire on a matching release.
func (d *Desktop) PointerDown(x, y int) wm.Hit {
	d.mu.Lock()
	defer d.mu.Unlock()

	hit := d.manager.PointerDown(wm.At(x, y))
	d.pressed = nil
	if hit.Region.IsControl() {
		d.pressed = &hit
	}
	d.changed()
	return hit
}

// PointerMove feeds a global pointer move to the active gesture, if any.
func (d *Desktop) PointerMove(x, y int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pointer.Active() == 0 {
		return
	}
	d.pointer.Move(wm.At(x, y))
	d.changed()
}

// PointerUp ends the active gesture. A release over the same control that
// was pressed runs the control.
func (d *Desktop) PointerUp(x, y int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	defer d.changed()

	ev := wm.At(x, y)
	d.pointer.Up(ev)

	pressed := d.pressed
	d.pressed = nil
	if pressed == nil {
		return nil
	}
	if hit := d.manager.HitTest(ev.Point); hit != *pressed {
		return nil
	}
	if pressed.Region == wm.RegionClose {
		return d.closeLocked(pressed.ID)
	}
	return d.manager.InvokeControl(*pressed)
}

// TaskbarClick activates a window from the taskbar, or minimizes it when it
// already has focus.
func (d *Desktop) TaskbarClick(id wm.ID) error {
	return d.mutate(func() error {
		w, ok := d.store.Get(id)
		if !ok {
			return fmt.Errorf("taskbar %s: %w", id, wm.ErrWindowNotFound)
		}
		if !w.Minimized && d.store.FocusedID() == id {
			return d.manager.Minimize(id)
		}
		return d.manager.Activate(id)
	})
}

// Drag moves a window by (dx, dy) the way a pointer would: it grabs the title
// bar, moves in steps and releases. Releasing inside a snap margin snaps.
func (d *Desktop) Drag(id wm.ID, dx, dy, steps int) (WindowInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	w, err := d.gestureWindowLocked(id)
	if err != nil {
		return WindowInfo{}, err
	}
	from := grabPoint(d.manager.Chrome(), w.Bounds)
	to := tiling.Point{X: from.X + dx, Y: from.Y + dy}
	return d.dragLocked(id, from, to, steps)
}

// DragTo drags a window by its title bar and releases the pointer at to.
func (d *Desktop) DragTo(id wm.ID, to tiling.Point, steps int) (WindowInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	w, err := d.gestureWindowLocked(id)
	if err != nil {
		return WindowInfo{}, err
	}
	return d.dragLocked(id, grabPoint(d.manager.Chrome(), w.Bounds), to, steps)
}

func (d *Desktop) dragLocked(id wm.ID, from, to tiling.Point, steps int) (WindowInfo, error) {
	if !d.manager.BeginDrag(wm.PointerEvent{Point: from}, id) {
		return WindowInfo{}, fmt.Errorf("drag %s: gesture refused", id)
	}
	d.replayLocked(from, to, steps)
	d.changed()
	return d.infoLocked(id)
}

// ResizeWindow drags one of a window's handles by (dx, dy).
func (d *Desktop) ResizeWindow(id wm.ID, handle wm.Handle, dx, dy, steps int) (WindowInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !handle.Valid() {
		return WindowInfo{}, fmt.Errorf("resize %s: unknown handle %q", id, handle)
	}
	w, err := d.gestureWindowLocked(id)
	if err != nil {
		return WindowInfo{}, err
	}
	if w.Maximized {
		return WindowInfo{}, fmt.Errorf("resize %s: %w", id, ErrNotResizable)
	}

	from := handlePoint(w.Bounds, handle)
	if !d.manager.BeginResize(wm.PointerEvent{Point: from}, id, handle) {
		return WindowInfo{}, fmt.Errorf("resize %s: gesture refused", id)
	}
	d.replayLocked(from, tiling.Point{X: from.X + dx, Y: from.Y + dy}, steps)
	d.changed()
	return d.infoLocked(id)
}

func (d *Desktop) gestureWindowLocked(id wm.ID) (wm.Window, error) {
	w, ok := d.store.Get(id)
	if !ok {
		return wm.Window{}, fmt.Errorf("window %s: %w", id, wm.ErrWindowNotFound)
	}
	if w.Minimized {
		return wm.Window{}, fmt.Errorf("window %s: %w", id, wm.ErrMinimized)
	}
	return w, nil
}

// replayLocked sends evenly spaced moves from "from" to "to" through the
// pointer dispatcher, then releases at "to".
func (d *Desktop) replayLocked(from, to tiling.Point, steps int) {
	if steps <= 0 {
		steps = DefaultSteps
	}
	dx, dy := to.X-from.X, to.Y-from.Y
	// More moves than units travelled would repeat points.
	steps = min(steps, MaxSteps, max(abs(dx), abs(dy), 1))
	for i := 1; i <= steps; i++ {
		d.pointer.Move(wm.At(from.X+dx*i/steps, from.Y+dy*i/steps))
	}
	d.pointer.Up(wm.PointerEvent{Point: to})
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// grabPoint is the middle of the title bar.
func grabPoint(c wm.Chrome, bounds tiling.Rect) tiling.Point {
	bar := c.TitleBarRect(bounds)
	return tiling.Point{X: bar.X + bar.Width/2, Y: bar.Y + bar.Height/2}
}

// handlePoint is where a handle sits on the window edge.
func handlePoint(r tiling.Rect, h wm.Handle) tiling.Point {
	p := tiling.Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
	switch h {
	case wm.HandleLeft, wm.HandleTopLeft, wm.HandleBottomLeft:
		p.X = r.X
	case wm.HandleRight, wm.HandleTopRight, wm.HandleBottomRight:
		p.X = r.Right() - 1
	}
	switch h {
	case wm.HandleTop, wm.HandleTopLeft, wm.HandleTopRight:
		p.Y = r.Y
	case wm.HandleBottom, wm.HandleBottomLeft, wm.HandleBottomRight:
		p.Y = r.Bottom() - 1
	}
	return p
}
