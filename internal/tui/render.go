package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/mominos/mominos/internal/config"
	"github.com/mominos/mominos/internal/desktop"
	"github.com/mominos/mominos/internal/tiling"
	"github.com/mominos/mominos/internal/wm"
)

const (
	brandLabel    = " ◆ mominos "
	launcherLabel = " + Apps "
	maxTaskTitle  = 16
)

type styles struct {
	menuBar     lipgloss.Style
	brand       lipgloss.Style
	menuTitle   lipgloss.Style
	clock       lipgloss.Style
	errorText   lipgloss.Style
	wallpaper   lipgloss.Style
	border      lipgloss.Style
	borderFocus lipgloss.Style
	borderSize  lipgloss.Style
	title       lipgloss.Style
	titleFocus  lipgloss.Style
	control     lipgloss.Style
	closeFocus  lipgloss.Style
	badge       lipgloss.Style
	preview     lipgloss.Style
	taskbar     lipgloss.Style
	task        lipgloss.Style
	taskFocus   lipgloss.Style
	taskMin     lipgloss.Style
}

func newStyles(theme config.Theme) styles {
	accent := lipgloss.Color(theme.Accent)
	if theme.Accent == "" {
		accent = lipgloss.Color("62")
	}
	return styles{
		menuBar:     lipgloss.NewStyle().Background(lipgloss.Color("235")).Foreground(lipgloss.Color("250")),
		brand:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(accent),
		menuTitle:   lipgloss.NewStyle().Bold(true).Background(lipgloss.Color("235")).Foreground(lipgloss.Color("15")),
		clock:       lipgloss.NewStyle().Background(lipgloss.Color("235")).Foreground(lipgloss.Color("250")),
		errorText:   lipgloss.NewStyle().Background(lipgloss.Color("235")).Foreground(lipgloss.Color("196")),
		wallpaper:   lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		border:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		borderFocus: lipgloss.NewStyle().Foreground(accent),
		borderSize:  lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		title:       lipgloss.NewStyle().Background(lipgloss.Color("237")).Foreground(lipgloss.Color("250")),
		titleFocus:  lipgloss.NewStyle().Bold(true).Background(accent).Foreground(lipgloss.Color("15")),
		control:     lipgloss.NewStyle().Background(lipgloss.Color("238")).Foreground(lipgloss.Color("250")),
		closeFocus:  lipgloss.NewStyle().Background(lipgloss.Color("160")).Foreground(lipgloss.Color("15")),
		badge:       lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		preview:     lipgloss.NewStyle().Foreground(accent),
		taskbar:     lipgloss.NewStyle().Background(lipgloss.Color("235")).Foreground(lipgloss.Color("250")),
		task:        lipgloss.NewStyle().Background(lipgloss.Color("237")).Foreground(lipgloss.Color("250")),
		taskFocus:   lipgloss.NewStyle().Bold(true).Background(accent).Foreground(lipgloss.Color("15")),
		taskMin:     lipgloss.NewStyle().Italic(true).Background(lipgloss.Color("235")).Foreground(lipgloss.Color("241")),
	}
}

// wallpaperLayer fills rect with the configured pattern.
func wallpaperLayer(rect tiling.Rect, pattern string, st styles) layer {
	lines := make([]string, rect.Height)
	var sb strings.Builder
	for row := 0; row < rect.Height; row++ {
		y := rect.Y + row
		sb.Reset()
		for x := rect.X; x < rect.Right(); x++ {
			sb.WriteRune(wallpaperRune(pattern, x, y))
		}
		lines[row] = st.wallpaper.Render(sb.String())
	}
	return layer{rect: rect, lines: lines}
}

func wallpaperRune(pattern string, x, y int) rune {
	switch pattern {
	case config.WallpaperDots:
		if x%4 == 0 && y%2 == 0 {
			return '·'
		}
	case config.WallpaperGrid:
		onCol := x%8 == 0
		onRow := y%4 == 0
		switch {
		case onCol && onRow:
			return '┼'
		case onRow:
			return '─'
		case onCol:
			return '│'
		}
	}
	return ' '
}

// clockText formats the menu bar clock.
func clockText(sc desktop.Scene) string {
	if sc.Theme.ShowSeconds {
		return sc.Now.Format("Mon Jan 2  15:04:05")
	}
	return sc.Now.Format("Mon Jan 2  15:04")
}

// menuBarLayer draws the top bar: brand button, focused window title, an
// optional status message and the clock.
func menuBarLayer(sc desktop.Scene, width int, status string, st styles) layer {
	left := st.brand.Render(brandLabel)
	for _, w := range sc.Taskbar {
		if w.ID == sc.Focused && !w.Minimized {
			left += st.menuTitle.Render(" " + w.Title + " ")
			break
		}
	}

	right := st.clock.Render(" " + clockText(sc) + " ")
	if status != "" {
		right = st.errorText.Render(status+"  ") + right
	}

	gap := width - ansi.StringWidth(left) - ansi.StringWidth(right)
	if gap < 0 {
		right = ""
		gap = width - ansi.StringWidth(left)
	}
	line := left + st.menuBar.Render(strings.Repeat(" ", max(gap, 0))) + right
	return layer{
		rect:  tiling.Rect{Width: width, Height: 1},
		lines: []string{fit(line, width)},
	}
}

// windowLayer draws a window: border ring, title bar with controls, then
// the app content clipped to the content area.
func windowLayer(w desktop.SceneWindow, c wm.Chrome, st styles) layer {
	b := w.Bounds
	if b.Width <= 0 || b.Height <= 0 {
		return layer{rect: b}
	}

	hs := max(c.HandleSize, 0)
	innerW := b.Width - 2*hs
	if innerW < 1 || b.Height < 2*hs+1 {
		lines := make([]string, b.Height)
		for i := range lines {
			lines[i] = st.title.Render(strings.Repeat(" ", b.Width))
		}
		return layer{rect: b, lines: lines}
	}

	border := lipgloss.NormalBorder()
	bs := st.border
	switch {
	case w.Resizing:
		border = lipgloss.RoundedBorder()
		bs = st.borderSize
	case w.Focused:
		border = lipgloss.RoundedBorder()
		bs = st.borderFocus
	}

	pad := strings.Repeat(" ", max(hs-1, 0))
	side := func(inner string) string {
		if hs == 0 {
			return inner
		}
		return bs.Render(border.Left) + pad + inner + pad + bs.Render(border.Right)
	}

	lines := make([]string, 0, b.Height)
	if hs > 0 {
		lines = append(lines, bs.Render(border.TopLeft+strings.Repeat(border.Top, b.Width-2)+border.TopRight))
		for i := 1; i < hs; i++ {
			lines = append(lines, side(strings.Repeat(" ", innerW)))
		}
	}

	titleStyle := st.title
	if w.Focused {
		titleStyle = st.titleFocus
	}
	for i := 0; i < c.TitleBarHeight; i++ {
		if i == 0 {
			lines = append(lines, side(titleBar(w, innerW, c.ButtonWidth, titleStyle, st)))
			continue
		}
		lines = append(lines, side(titleStyle.Render(strings.Repeat(" ", innerW))))
	}

	contentH := b.Height - 2*hs - c.TitleBarHeight
	content := strings.Split(w.Content, "\n")
	for i := 0; i < contentH; i++ {
		line := ""
		if i < len(content) {
			line = content[i]
		}
		lines = append(lines, side(fit(line, innerW)))
	}

	if hs > 0 {
		for i := 1; i < hs; i++ {
			lines = append(lines, side(strings.Repeat(" ", innerW)))
		}
		lines = append(lines, bs.Render(border.BottomLeft+strings.Repeat(border.Bottom, b.Width-2)+border.BottomRight))
	}
	if len(lines) > b.Height {
		lines = lines[:b.Height]
	}
	return layer{rect: b, lines: lines}
}

// titleBar renders the title text and the three controls at the right edge.
func titleBar(w desktop.SceneWindow, width, buttonWidth int, titleStyle lipgloss.Style, st styles) string {
	controlsW := 3 * buttonWidth
	textW := width - controlsW
	if textW < 0 {
		return titleStyle.Render(strings.Repeat(" ", width))
	}

	text := " " + w.Icon + " " + w.Title
	badge := ""
	switch {
	case w.Maximized:
		badge = " [max]"
	case w.Snapped == wm.SnapLeft:
		badge = " [left]"
	case w.Snapped == wm.SnapRight:
		badge = " [right]"
	}
	title := fit(ansi.Truncate(text, max(textW-ansi.StringWidth(badge), 0), "…")+badge, textW)

	maxLabel := "□"
	if w.Maximized {
		maxLabel = "❐"
	}
	closeStyle := st.control
	if w.Focused {
		closeStyle = st.closeFocus
	}
	return titleStyle.Render(title) +
		st.control.Render(center("_", buttonWidth)) +
		st.control.Render(center(maxLabel, buttonWidth)) +
		closeStyle.Render(center("×", buttonWidth))
}

func center(label string, width int) string {
	lw := ansi.StringWidth(label)
	if lw >= width {
		return ansi.Truncate(label, width, "")
	}
	left := (width - lw) / 2
	return strings.Repeat(" ", left) + label + strings.Repeat(" ", width-lw-left)
}

// previewLayer outlines the rectangle a drag would snap to.
func previewLayer(r tiling.Rect, st styles) layer {
	if r.Width < 2 || r.Height < 2 {
		return layer{rect: r}
	}
	border := lipgloss.DoubleBorder()
	lines := make([]string, r.Height)
	lines[0] = st.preview.Render(border.TopLeft + strings.Repeat(border.Top, r.Width-2) + border.TopRight)
	fill := strings.Repeat("░", r.Width-2)
	for i := 1; i < r.Height-1; i++ {
		lines[i] = st.preview.Render(border.Left + fill + border.Right)
	}
	lines[r.Height-1] = st.preview.Render(border.BottomLeft + strings.Repeat(border.Bottom, r.Width-2) + border.BottomRight)
	return layer{rect: r, lines: lines}
}

// taskbarItem is a clickable taskbar span [x0, x1).
type taskbarItem struct {
	x0, x1   int
	id       wm.ID
	launcher bool
	label    string
}

// taskbarItems lays out the launcher button followed by one entry per
// window in insertion order. Entries that do not fit are left out.
func taskbarItems(sc desktop.Scene, width int) []taskbarItem {
	items := []taskbarItem{{x0: 0, x1: ansi.StringWidth(launcherLabel), launcher: true, label: launcherLabel}}
	x := items[0].x1 + 1
	for _, w := range sc.Taskbar {
		label := " " + w.Icon + " " + ansi.Truncate(w.Title, maxTaskTitle, "…") + " "
		lw := ansi.StringWidth(label)
		if x+lw > width {
			break
		}
		items = append(items, taskbarItem{x0: x, x1: x + lw, id: w.ID, label: label})
		x += lw + 1
	}
	return items
}

func taskbarLayer(sc desktop.Scene, y, width int, st styles) layer {
	var sb strings.Builder
	prev := 0
	for _, it := range taskbarItems(sc, width) {
		sb.WriteString(st.taskbar.Render(strings.Repeat(" ", it.x0-prev)))
		style := st.brand
		if !it.launcher {
			style = st.task
			for _, w := range sc.Taskbar {
				if w.ID != it.id {
					continue
				}
				switch {
				case w.Minimized:
					style = st.taskMin
				case w.Focused:
					style = st.taskFocus
				}
			}
		}
		sb.WriteString(style.Render(it.label))
		prev = it.x1
	}
	if prev < width {
		sb.WriteString(st.taskbar.Render(strings.Repeat(" ", width-prev)))
	}
	return layer{
		rect:  tiling.Rect{Y: y, Width: width, Height: 1},
		lines: []string{fit(sb.String(), width)},
	}
}

// sceneLayers builds the full frame bottom to top. The snap preview sits
// directly under the window being dragged.
func sceneLayers(sc desktop.Scene, width, height int, status string) []layer {
	st := newStyles(sc.Theme)
	desk := tiling.Rect{Width: width, Height: min(sc.Viewport.Height, height)}

	layers := []layer{wallpaperLayer(desk, sc.Theme.Wallpaper, st)}
	for _, w := range sc.Windows {
		if w.Dragging && sc.Preview != wm.ZoneNone {
			layers = append(layers, previewLayer(sc.PreviewRect, st))
		}
		layers = append(layers, windowLayer(w, sc.Chrome, st))
	}
	layers = append(layers, menuBarLayer(sc, width, status, st))
	if height > desk.Height {
		layers = append(layers, taskbarLayer(sc, height-1, width, st))
	}
	return layers
}
