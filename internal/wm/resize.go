package wm

import "github.com/mominos/mominos/internal/tiling"

// Handle identifies which edge or corner a resize gesture drags.
type Handle string

const (
	HandleTop         Handle = "top"
	HandleBottom      Handle = "bottom"
	HandleLeft        Handle = "left"
	HandleRight       Handle = "right"
	HandleTopLeft     Handle = "top-left"
	HandleTopRight    Handle = "top-right"
	HandleBottomLeft  Handle = "bottom-left"
	HandleBottomRight Handle = "bottom-right"
)

// Handles lists every recognised handle.
var Handles = []Handle{
	HandleTop, HandleBottom, HandleLeft, HandleRight,
	HandleTopLeft, HandleTopRight, HandleBottomLeft, HandleBottomRight,
}

// Valid reports whether h is one of the eight known handles.
func (h Handle) Valid() bool {
	for _, known := range Handles {
		if h == known {
			return true
		}
	}
	return false
}

func (h Handle) left() bool {
	return h == HandleLeft || h == HandleTopLeft || h == HandleBottomLeft
}

func (h Handle) right() bool {
	return h == HandleRight || h == HandleTopRight || h == HandleBottomRight
}

func (h Handle) top() bool {
	return h == HandleTop || h == HandleTopLeft || h == HandleTopRight
}

func (h Handle) bottom() bool {
	return h == HandleBottom || h == HandleBottomLeft || h == HandleBottomRight
}

// ResizeRect applies a resize of (dx, dy), measured from the start of the
// gesture, to the start geometry. Edges not owned by the handle stay put;
// when a left or top drag hits the minimum size the opposite edge stays
// anchored. An unknown handle returns start unchanged.
func ResizeRect(h Handle, start tiling.Rect, dx, dy, minWidth, minHeight int) tiling.Rect {
	r := start

	switch {
	case h.right():
		r.Width = max(minWidth, start.Width+dx)
	case h.left():
		if w := start.Width - dx; w < minWidth {
			r.Width = minWidth
			r.X = start.X + start.Width - minWidth
		} else {
			r.Width = w
			r.X = start.X + dx
		}
	}

	switch {
	case h.bottom():
		r.Height = max(minHeight, start.Height+dy)
	case h.top():
		if ht := start.Height - dy; ht < minHeight {
			r.Height = minHeight
			r.Y = start.Y + start.Height - minHeight
		} else {
			r.Height = ht
			r.Y = start.Y + dy
		}
	}

	return r
}

// clampToViewport keeps r inside the viewport below the top chrome. When the
// window is larger than the available space the top-left bound wins.
func clampToViewport(r tiling.Rect, vp tiling.Viewport, topChrome int) tiling.Rect {
	r.X = clamp(r.X, 0, vp.Width-r.Width)
	r.Y = clamp(r.Y, topChrome, vp.Height-r.Height)
	return r
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
