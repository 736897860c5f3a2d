package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mominos/mominos/internal/apps"
	"github.com/mominos/mominos/internal/tiling"
)

// appItem is a launcher entry.
type appItem struct {
	info apps.Info
}

func (i appItem) Title() string       { return i.info.Icon + " " + i.info.Name }
func (i appItem) Description() string { return i.info.Description }
func (i appItem) FilterValue() string { return i.info.Name }

// launcher is the app picker opened from the menu bar or taskbar.
type launcher struct {
	list   list.Model
	open   bool
	width  int
	height int
}

func newLauncher(infos []apps.Info) launcher {
	items := make([]list.Item, len(infos))
	for i, info := range infos {
		items[i] = appItem{info: info}
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("15")).
		BorderForeground(lipgloss.Color("62"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("250")).
		BorderForeground(lipgloss.Color("62"))

	l := list.New(items, delegate, 0, 0)
	l.Title = "Open app"
	l.Styles.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("62")).
		Padding(0, 1)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.KeyMap.Quit.SetEnabled(false)

	return launcher{list: l}
}

// Show opens the launcher with the first app selected and no filter.
func (l *launcher) Show() {
	l.open = true
	l.list.ResetFilter()
	l.list.Select(0)
}

func (l *launcher) Hide() { l.open = false }

func (l launcher) Active() bool { return l.open }

// SetSize sizes the launcher box for a screen of the given size.
func (l *launcher) SetSize(screenW, screenH int) {
	l.width = min(max(screenW/2, 30), screenW-2)
	l.height = min(max(screenH-6, 6), 20)
	l.list.SetSize(max(l.width-2, 1), max(l.height-2, 1))
}

// Update handles a key while the launcher is open. It returns the app to
// open when the user picks one.
func (l launcher) Update(msg tea.KeyMsg) (launcher, string, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if !l.list.SettingFilter() {
			item, ok := l.list.SelectedItem().(appItem)
			l.open = false
			if !ok {
				return l, "", nil
			}
			return l, item.info.ID, nil
		}
	case "esc":
		if l.list.FilterState() == list.Unfiltered {
			l.open = false
			return l, "", nil
		}
	}

	var cmd tea.Cmd
	l.list, cmd = l.list.Update(msg)
	return l, "", cmd
}

// Layer renders the launcher centered on a screen of the given size.
func (l launcher) Layer(screenW, screenH int) layer {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Render(l.list.View())

	lines := strings.Split(box, "\n")
	w := lipgloss.Width(box)
	rect := tiling.Rect{
		X:      max((screenW-w)/2, 0),
		Y:      max((screenH-len(lines))/2, 0),
		Width:  w,
		Height: len(lines),
	}
	for i := range lines {
		lines[i] = fit(lines[i], w)
	}
	return layer{rect: rect, lines: lines}
}
