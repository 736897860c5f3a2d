package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/mominos/mominos/internal/tiling"
)

// layer is a styled block placed on the screen. Every line is exactly
// rect.Width cells wide.
type layer struct {
	rect  tiling.Rect
	lines []string
}

// compose stacks layers bottom to top into a width x height frame. Each cell
// shows the topmost layer covering it; uncovered cells are blank.
func compose(width, height int, layers []layer) string {
	if width <= 0 || height <= 0 {
		return ""
	}

	owner := make([]int, width)
	rows := make([]string, height)
	var sb strings.Builder

	for y := 0; y < height; y++ {
		for x := range owner {
			owner[x] = -1
		}
		for i, l := range layers {
			if y < l.rect.Y || y >= l.rect.Bottom() || y-l.rect.Y >= len(l.lines) {
				continue
			}
			x0 := max(l.rect.X, 0)
			x1 := min(l.rect.Right(), width)
			for x := x0; x < x1; x++ {
				owner[x] = i
			}
		}

		sb.Reset()
		for x := 0; x < width; {
			end := x + 1
			for end < width && owner[end] == owner[x] {
				end++
			}
			if i := owner[x]; i < 0 {
				sb.WriteString(strings.Repeat(" ", end-x))
			} else {
				l := layers[i]
				sb.WriteString(ansi.Cut(l.lines[y-l.rect.Y], x-l.rect.X, end-l.rect.X))
			}
			x = end
		}
		rows[y] = sb.String()
	}
	return strings.Join(rows, "\n")
}

// fit truncates or pads s to exactly width cells.
func fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = ansi.Truncate(s, width, "")
	if w := ansi.StringWidth(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}
