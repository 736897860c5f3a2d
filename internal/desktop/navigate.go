package desktop

import (
	"errors"

	"github.com/mominos/mominos/internal/tiling"
	"github.com/mominos/mominos/internal/wm"
)

// ErrNoWindows is returned by focus navigation when nothing is visible.
var ErrNoWindows = errors.New("no visible windows")

// visibleLocked returns the visible windows in insertion order and the index
// of the focused one, or -1.
func (d *Desktop) visibleLocked() ([]wm.Window, int) {
	focused := d.store.FocusedID()
	var out []wm.Window
	idx := -1
	for _, w := range d.store.Windows() {
		if !w.Visible() {
			continue
		}
		if w.ID == focused {
			idx = len(out)
		}
		out = append(out, w)
	}
	return out, idx
}

// FocusDirection moves focus to the nearest visible window in dir, wrapping
// at the edges of the screen.
func (d *Desktop) FocusDirection(dir tiling.Direction) (wm.ID, error) {
	var target wm.ID
	err := d.mutate(func() error {
		windows, idx := d.visibleLocked()
		if len(windows) == 0 {
			return ErrNoWindows
		}
		next := 0
		if idx >= 0 {
			rects := make([]tiling.Rect, len(windows))
			for i, w := range windows {
				rects[i] = w.Bounds
			}
			next = tiling.Neighbor(rects, idx, dir)
		}
		target = windows[next].ID
		return d.manager.Focus(target)
	})
	return target, err
}

// CycleFocus focuses the next (delta > 0) or previous visible window in
// opening order.
func (d *Desktop) CycleFocus(delta int) (wm.ID, error) {
	var target wm.ID
	err := d.mutate(func() error {
		windows, idx := d.visibleLocked()
		if len(windows) == 0 {
			return ErrNoWindows
		}
		next := 0
		if idx >= 0 {
			next = tiling.Cycle(idx, delta, len(windows))
		}
		target = windows[next].ID
		return d.manager.Focus(target)
	})
	return target, err
}
