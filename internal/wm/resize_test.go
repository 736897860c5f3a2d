package wm

import (
	"testing"

	"github.com/mominos/mominos/internal/tiling"
)

func TestResizeRect(t *testing.T) {
	start := tiling.Rect{X: 100, Y: 100, Width: 400, Height: 300}

	tests := []struct {
		name   string
		handle Handle
		dx, dy int
		want   tiling.Rect
	}{
		{name: "right grows", handle: HandleRight, dx: 50, want: tiling.Rect{X: 100, Y: 100, Width: 450, Height: 300}},
		{name: "right floors", handle: HandleRight, dx: -300, want: tiling.Rect{X: 100, Y: 100, Width: 300, Height: 300}},
		{name: "left grows", handle: HandleLeft, dx: -50, want: tiling.Rect{X: 50, Y: 100, Width: 450, Height: 300}},
		{name: "left anchors right edge", handle: HandleLeft, dx: 250, want: tiling.Rect{X: 200, Y: 100, Width: 300, Height: 300}},
		{name: "bottom grows", handle: HandleBottom, dy: 40, want: tiling.Rect{X: 100, Y: 100, Width: 400, Height: 340}},
		{name: "top grows", handle: HandleTop, dy: -40, want: tiling.Rect{X: 100, Y: 60, Width: 400, Height: 340}},
		{name: "top anchors bottom edge", handle: HandleTop, dy: 150, want: tiling.Rect{X: 100, Y: 200, Width: 400, Height: 200}},
		{name: "bottom-right floors", handle: HandleBottomRight, dx: -150, dy: -150, want: tiling.Rect{X: 100, Y: 100, Width: 300, Height: 200}},
		{name: "bottom-left", handle: HandleBottomLeft, dx: 50, dy: -150, want: tiling.Rect{X: 150, Y: 100, Width: 350, Height: 200}},
		{name: "top-right", handle: HandleTopRight, dx: -200, dy: -10, want: tiling.Rect{X: 100, Y: 90, Width: 300, Height: 310}},
		{name: "top-left anchors both", handle: HandleTopLeft, dx: 200, dy: 200, want: tiling.Rect{X: 200, Y: 200, Width: 300, Height: 200}},
		{name: "unknown handle", handle: Handle("diagonal"), dx: 80, dy: 80, want: start},
		{name: "empty handle", handle: "", dx: 80, dy: 80, want: start},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResizeRect(tt.handle, start, tt.dx, tt.dy, 300, 200)
			if got != tt.want {
				t.Fatalf("ResizeRect(%s, %d, %d) = %v, want %v", tt.handle, tt.dx, tt.dy, got, tt.want)
			}
		})
	}
}

func TestResizeRect_OppositeEdgeFixedWhenClamped(t *testing.T) {
	start := tiling.Rect{X: 400, Y: 300, Width: 500, Height: 400}
	for dx := 0; dx <= 600; dx += 25 {
		got := ResizeRect(HandleLeft, start, dx, 0, 300, 200)
		if got.Right() != start.Right() {
			t.Fatalf("dx=%d: right edge %d, want %d", dx, got.Right(), start.Right())
		}
	}
	for dy := 0; dy <= 600; dy += 25 {
		got := ResizeRect(HandleTop, start, 0, dy, 300, 200)
		if got.Bottom() != start.Bottom() {
			t.Fatalf("dy=%d: bottom edge %d, want %d", dy, got.Bottom(), start.Bottom())
		}
	}
}

func TestHandleValid(t *testing.T) {
	for _, h := range Handles {
		if !h.Valid() {
			t.Fatalf("expected %q valid", h)
		}
	}
	if Handle("middle").Valid() {
		t.Fatalf("expected unknown handle invalid")
	}
}
