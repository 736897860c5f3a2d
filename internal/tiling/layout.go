package tiling

import (
	"fmt"
	"math"
)

// Rect represents a window position and size
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Point is a pointer position in desktop coordinates.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Right returns the x coordinate just past the right edge.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the y coordinate just past the bottom edge.
func (r Rect) Bottom() int { return r.Y + r.Height }

// Contains reports whether p lies inside r (right/bottom edges exclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy int) Rect {
	r.X += dx
	r.Y += dy
	return r
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

// Viewport is the size of the desktop surface, including the top chrome bar.
type Viewport struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// WorkArea returns the part of the viewport below the top chrome bar.
func (v Viewport) WorkArea(topChrome int) Rect {
	h := v.Height - topChrome
	if h < 0 {
		h = 0
	}
	return Rect{X: 0, Y: topChrome, Width: v.Width, Height: h}
}

// Region names a snap target on the work area.
type Region string

const (
	RegionFull      Region = "full"
	RegionLeftHalf  Region = "left-half"
	RegionRightHalf Region = "right-half"
)

// RegionRect returns the bounds of region on the viewport below topChrome.
func RegionRect(region Region, vp Viewport, topChrome int) Rect {
	work := vp.WorkArea(topChrome)
	half := vp.Width / 2

	switch region {
	case RegionLeftHalf:
		work.Width = half
	case RegionRightHalf:
		work.X = half
		work.Width = half
	}
	return work
}

// CalculateGrid determines the optimal grid dimensions for the given number of windows
func CalculateGrid(numWindows int) (rows, cols int) {
	if numWindows == 0 {
		return 0, 0
	}

	// Calculate columns first (ceiling of square root)
	cols = int(math.Ceil(math.Sqrt(float64(numWindows))))

	// Calculate rows needed
	rows = int(math.Ceil(float64(numWindows) / float64(cols)))

	return rows, cols
}

// Grid computes window positions for a grid arrangement inside work with gaps.
func Grid(numWindows int, work Rect, gapSize int) ([]Rect, error) {
	if numWindows == 0 {
		return nil, nil
	}

	rows, cols := CalculateGrid(numWindows)

	// Gaps: one before each column and one after the last.
	totalHorizontalGaps := (cols + 1) * gapSize
	totalVerticalGaps := (rows + 1) * gapSize

	cellWidth := (work.Width - totalHorizontalGaps) / cols
	cellHeight := (work.Height - totalVerticalGaps) / rows

	if cellWidth <= 0 || cellHeight <= 0 {
		return nil, fmt.Errorf(
			"insufficient space for grid: area=%dx%d rows=%d cols=%d gap=%d",
			work.Width, work.Height, rows, cols, gapSize,
		)
	}

	positions := make([]Rect, numWindows)
	for i := 0; i < numWindows; i++ {
		row := i / cols
		col := i % cols

		positions[i] = Rect{
			X:      work.X + gapSize + col*(cellWidth+gapSize),
			Y:      work.Y + gapSize + row*(cellHeight+gapSize),
			Width:  cellWidth,
			Height: cellHeight,
		}
	}

	return positions, nil
}

// Cascade computes staggered positions of the given size, starting at the
// work area origin and stepping diagonally. When a window would run off the
// bottom or right of the work area the cascade wraps back to the origin.
func Cascade(numWindows int, work Rect, width, height, step int) []Rect {
	if numWindows <= 0 {
		return nil
	}
	if step <= 0 {
		step = 1
	}

	positions := make([]Rect, numWindows)
	offset := 0
	for i := 0; i < numWindows; i++ {
		x := work.X + offset
		y := work.Y + offset
		if x+width > work.Right() || y+height > work.Bottom() {
			offset = 0
			x, y = work.X, work.Y
		}
		positions[i] = Rect{X: x, Y: y, Width: width, Height: height}
		offset += step
	}
	return positions
}

// CascadeAt returns the n-th (0-based) cascade slot.
func CascadeAt(n int, work Rect, width, height, step int) Rect {
	if n < 0 {
		n = 0
	}
	slots := Cascade(n+1, work, width, height, step)
	return slots[len(slots)-1]
}
