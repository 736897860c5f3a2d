package tiling

import "fmt"

// Direction is an arrow-key direction for spatial navigation.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// ParseDirection parses up, down, left or right.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "up":
		return DirUp, nil
	case "down":
		return DirDown, nil
	case "left":
		return DirLeft, nil
	case "right":
		return DirRight, nil
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// Neighbor returns the index of the rectangle nearest to rects[current] in
// direction dir, measured between centers. With nothing in that direction it
// wraps to the far edge, preferring rectangles in the same row or column.
// It returns current when there is no other rectangle.
func Neighbor(rects []Rect, current int, dir Direction) int {
	if current < 0 || current >= len(rects) {
		if len(rects) == 0 {
			return current
		}
		return 0
	}

	cx, cy := center(rects[current])

	best, bestDist := -1, 0
	for i, r := range rects {
		if i == current {
			continue
		}
		x, y := center(r)
		ahead := false
		switch dir {
		case DirUp:
			ahead = y < cy
		case DirDown:
			ahead = y > cy
		case DirLeft:
			ahead = x < cx
		case DirRight:
			ahead = x > cx
		}
		if !ahead {
			continue
		}
		if dist := abs(x-cx) + abs(y-cy); best == -1 || dist < bestDist {
			best, bestDist = i, dist
		}
	}
	if best >= 0 {
		return best
	}

	// Wrap: furthest along the opposite edge, closest on the cross axis.
	bestScore := 0
	for i, r := range rects {
		if i == current {
			continue
		}
		x, y := center(r)
		var score int
		switch dir {
		case DirUp:
			score = y*10000 - abs(x-cx)
		case DirDown:
			score = -y*10000 - abs(x-cx)
		case DirLeft:
			score = x*10000 - abs(y-cy)
		case DirRight:
			score = -x*10000 - abs(y-cy)
		}
		if best == -1 || score > bestScore {
			best, bestScore = i, score
		}
	}
	if best >= 0 {
		return best
	}
	return current
}

// Cycle steps current by delta through count items, wrapping at both ends.
func Cycle(current, delta, count int) int {
	if count <= 0 {
		return 0
	}
	return ((current+delta)%count + count) % count
}

func center(r Rect) (int, int) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
