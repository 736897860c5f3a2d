package wm

import (
	"errors"

	"github.com/mominos/mominos/internal/tiling"
)

var (
	// ErrWindowNotFound is returned when an operation names an id that is not
	// in the current window collection.
	ErrWindowNotFound = errors.New("window not found")
	// ErrMinimized is returned for operations that minimized windows do not
	// take part in (focus, snap, maximize).
	ErrMinimized = errors.New("window is minimized")
	// ErrEmptyID is returned when adding a window without an id.
	ErrEmptyID = errors.New("window id is required")
	// ErrDuplicateID is returned when adding a window whose id is already open.
	ErrDuplicateID = errors.New("duplicate window id")
)

// ID is an opaque window identifier, unique among open windows.
type ID string

// SnapSide records which half of the work area a window is snapped to.
type SnapSide string

const (
	SnapNone  SnapSide = ""
	SnapLeft  SnapSide = "left"
	SnapRight SnapSide = "right"
)

// String returns the string representation of the snap side
func (s SnapSide) String() string {
	if s == SnapNone {
		return "none"
	}
	return string(s)
}

// Zone is a snap target chosen at the end of a drag.
type Zone string

const (
	ZoneNone      Zone = "none"
	ZoneLeftHalf  Zone = "left-half"
	ZoneRightHalf Zone = "right-half"
	ZoneMaximize  Zone = "maximize"
)

// ParseZone converts a zone name to a Zone.
func ParseZone(s string) (Zone, bool) {
	switch Zone(s) {
	case ZoneLeftHalf, ZoneRightHalf, ZoneMaximize, ZoneNone:
		return Zone(s), true
	case "left":
		return ZoneLeftHalf, true
	case "right":
		return ZoneRightHalf, true
	case "top", "max", "full":
		return ZoneMaximize, true
	default:
		return ZoneNone, false
	}
}

// Geometry holds the fixed desktop constants the manager enforces.
type Geometry struct {
	// TopChrome is the height of the menu bar; no window may sit above it.
	TopChrome int
	MinWidth  int
	MinHeight int
	// SnapMargin is the distance from the left, right or top viewport edge
	// within which a drag shows the snap zones.
	SnapMargin int
	// SnapReleaseMargin is the distance used to pick a zone on release.
	// Zero means SnapMargin.
	SnapReleaseMargin int
}

// DefaultGeometry returns the reference desktop constants: a 40px menu bar,
// 300x200 minimum window size and a 100px snap margin.
func DefaultGeometry() Geometry {
	return Geometry{
		TopChrome:  40,
		MinWidth:   300,
		MinHeight:  200,
		SnapMargin: 100,
	}
}

func (g Geometry) releaseMargin() int {
	if g.SnapReleaseMargin > 0 {
		return g.SnapReleaseMargin
	}
	return g.SnapMargin
}

// Window is a single floating window as seen by the manager.
type Window struct {
	ID     ID
	Title  string
	Icon   string
	Bounds tiling.Rect

	Minimized bool
	Maximized bool
	Snapped   SnapSide
	// Resizing is true only while a resize gesture is moving this window.
	Resizing bool
	// Restore holds the geometry from immediately before maximizing.
	Restore *tiling.Rect

	// Content is supplied by the caller and never inspected here.
	Content any
}

// Visible reports whether the window is rendered and hit-testable.
func (w Window) Visible() bool {
	return !w.Minimized
}

func (w Window) clone() Window {
	if w.Restore != nil {
		r := *w.Restore
		w.Restore = &r
	}
	return w
}

func cloneWindows(in []Window) []Window {
	if in == nil {
		return nil
	}
	out := make([]Window, len(in))
	for i, w := range in {
		out[i] = w.clone()
	}
	return out
}

func indexOf(windows []Window, id ID) int {
	for i := range windows {
		if windows[i].ID == id {
			return i
		}
	}
	return -1
}
