package wm

import "github.com/mominos/mominos/internal/tiling"

// Chrome describes the window decoration the host surface draws, so hit
// regions line up with what is on screen.
type Chrome struct {
	// HandleSize is the thickness of the resize border on every side.
	HandleSize int
	// TitleBarHeight is the height of the title bar just inside the top border.
	TitleBarHeight int
	// ButtonWidth is the width of each title bar control.
	ButtonWidth int
}

// DefaultChrome returns pixel decoration sizes.
func DefaultChrome() Chrome {
	return Chrome{HandleSize: 6, TitleBarHeight: 32, ButtonWidth: 36}
}

// Region is the part of a window a pointer position falls on.
type Region int

const (
	RegionNone Region = iota
	RegionBody
	RegionTitleBar
	RegionMinimize
	RegionMaximize
	RegionClose
	RegionHandle
)

// String returns the string representation of the region
func (r Region) String() string {
	switch r {
	case RegionNone:
		return "none"
	case RegionBody:
		return "body"
	case RegionTitleBar:
		return "title"
	case RegionMinimize:
		return "minimize"
	case RegionMaximize:
		return "maximize"
	case RegionClose:
		return "close"
	case RegionHandle:
		return "handle"
	default:
		return "unknown"
	}
}

// IsControl reports whether r is one of the title bar buttons.
func (r Region) IsControl() bool {
	return r == RegionMinimize || r == RegionMaximize || r == RegionClose
}

// Hit is the result of a hit test.
type Hit struct {
	ID     ID
	Region Region
	Handle Handle
}

// RenderOrder returns the visible windows bottom to top: insertion order with
// the focused window moved last. The input slice is not reordered.
func RenderOrder(windows []Window, focused ID) []Window {
	out := make([]Window, 0, len(windows))
	var top *Window
	for i := range windows {
		w := windows[i]
		if !w.Visible() {
			continue
		}
		if w.ID == focused {
			top = &w
			continue
		}
		out = append(out, w)
	}
	if top != nil {
		out = append(out, *top)
	}
	return out
}

// ControlRects returns the minimize, maximize and close button bounds.
func (c Chrome) ControlRects(bounds tiling.Rect) (minimize, maximize, closeRect tiling.Rect) {
	y := bounds.Y + c.HandleSize
	right := bounds.Right() - c.HandleSize
	closeRect = tiling.Rect{X: right - c.ButtonWidth, Y: y, Width: c.ButtonWidth, Height: c.TitleBarHeight}
	maximize = tiling.Rect{X: closeRect.X - c.ButtonWidth, Y: y, Width: c.ButtonWidth, Height: c.TitleBarHeight}
	minimize = tiling.Rect{X: maximize.X - c.ButtonWidth, Y: y, Width: c.ButtonWidth, Height: c.TitleBarHeight}
	return minimize, maximize, closeRect
}

// TitleBarRect returns the title bar bounds, inside the top border.
func (c Chrome) TitleBarRect(bounds tiling.Rect) tiling.Rect {
	return tiling.Rect{
		X:      bounds.X + c.HandleSize,
		Y:      bounds.Y + c.HandleSize,
		Width:  bounds.Width - 2*c.HandleSize,
		Height: c.TitleBarHeight,
	}
}

// ContentRect returns the area left for the hosted content.
func (c Chrome) ContentRect(bounds tiling.Rect) tiling.Rect {
	r := tiling.Rect{
		X:      bounds.X + c.HandleSize,
		Y:      bounds.Y + c.HandleSize + c.TitleBarHeight,
		Width:  bounds.Width - 2*c.HandleSize,
		Height: bounds.Height - 2*c.HandleSize - c.TitleBarHeight,
	}
	if r.Width < 0 {
		r.Width = 0
	}
	if r.Height < 0 {
		r.Height = 0
	}
	return r
}

// HandleAt returns the resize handle under p, if any. Corners win over edges.
func (c Chrome) HandleAt(bounds tiling.Rect, p tiling.Point) (Handle, bool) {
	if c.HandleSize <= 0 || !bounds.Contains(p) {
		return "", false
	}
	left := p.X < bounds.X+c.HandleSize
	right := p.X >= bounds.Right()-c.HandleSize
	top := p.Y < bounds.Y+c.HandleSize
	bottom := p.Y >= bounds.Bottom()-c.HandleSize

	switch {
	case top && left:
		return HandleTopLeft, true
	case top && right:
		return HandleTopRight, true
	case bottom && left:
		return HandleBottomLeft, true
	case bottom && right:
		return HandleBottomRight, true
	case top:
		return HandleTop, true
	case bottom:
		return HandleBottom, true
	case left:
		return HandleLeft, true
	case right:
		return HandleRight, true
	}
	return "", false
}

// Resizable reports whether the host offers resize handles for w.
func Resizable(w Window) bool {
	return w.Visible() && !w.Maximized && w.Snapped == SnapNone
}

// HitTest finds the topmost visible window under p and the region hit.
// Controls take priority over handles, handles over the title bar and body.
func (c Chrome) HitTest(windows []Window, focused ID, p tiling.Point) Hit {
	order := RenderOrder(windows, focused)
	for i := len(order) - 1; i >= 0; i-- {
		w := order[i]
		if !w.Bounds.Contains(p) {
			continue
		}

		minR, maxR, closeR := c.ControlRects(w.Bounds)
		switch {
		case closeR.Contains(p):
			return Hit{ID: w.ID, Region: RegionClose}
		case maxR.Contains(p):
			return Hit{ID: w.ID, Region: RegionMaximize}
		case minR.Contains(p):
			return Hit{ID: w.ID, Region: RegionMinimize}
		}

		if Resizable(w) {
			if h, ok := c.HandleAt(w.Bounds, p); ok {
				return Hit{ID: w.ID, Region: RegionHandle, Handle: h}
			}
		}

		if c.TitleBarRect(w.Bounds).Contains(p) {
			return Hit{ID: w.ID, Region: RegionTitleBar}
		}
		return Hit{ID: w.ID, Region: RegionBody}
	}
	return Hit{Region: RegionNone}
}
