package tui

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mominos/mominos/internal/desktop"
	"github.com/mominos/mominos/internal/tiling"
	"github.com/mominos/mominos/internal/wm"
)

// changedMsg reports that the desktop changed outside the event loop, for
// example through the control socket.
type changedMsg struct{}

type tickMsg time.Time

// model is the bubbletea surface for a desktop. It owns no window state:
// every gesture and action is handed to the desktop, and each frame is drawn
// from a fresh scene.
type model struct {
	desktop *desktop.Desktop
	logger  *slog.Logger
	updates <-chan struct{}

	launcher launcher
	status   string

	width  int
	height int
}

func newModel(d *desktop.Desktop, logger *slog.Logger, updates <-chan struct{}) model {
	return model{
		desktop:  d,
		logger:   logger,
		updates:  updates,
		launcher: newLauncher(d.Registry().List()),
	}
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return changedMsg{}
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(waitForChange(m.updates), tick())
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// The bottom row is the taskbar.
		m.desktop.SetViewport(tiling.Viewport{Width: msg.Width, Height: max(msg.Height-1, 1)})
		m.launcher.SetSize(msg.Width, msg.Height)
		return m, nil

	case changedMsg:
		return m, waitForChange(m.updates)

	case tickMsg:
		return m, tick()

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Anything else belongs to an app, such as a cursor blink.
	return m, m.desktop.SendKey(msg)
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+q" {
		return m, tea.Quit
	}

	if m.launcher.Active() {
		var appID string
		var cmd tea.Cmd
		m.launcher, appID, cmd = m.launcher.Update(msg)
		if appID != "" {
			m.report(m.openApp(appID))
		}
		return m, cmd
	}

	focused := m.desktop.Status().Focused
	switch msg.String() {
	case "ctrl+o", "f1":
		m.launcher.Show()
		return m, nil
	case "esc":
		if m.desktop.Status().Gesture != "" {
			m.desktop.CancelGesture()
			return m, nil
		}
	case "ctrl+w":
		if focused != "" {
			m.report(m.desktop.Close(focused))
			return m, nil
		}
	case "f9":
		if focused != "" {
			m.report(m.desktop.Minimize(focused))
			return m, nil
		}
	case "f10":
		if focused != "" {
			m.report(m.desktop.ToggleMaximize(focused))
			return m, nil
		}
	case "ctrl+left":
		if focused != "" {
			m.report(m.desktop.Snap(focused, wm.ZoneLeftHalf))
			return m, nil
		}
	case "ctrl+right":
		if focused != "" {
			m.report(m.desktop.Snap(focused, wm.ZoneRightHalf))
			return m, nil
		}
	case "ctrl+up":
		if focused != "" {
			m.report(m.desktop.Snap(focused, wm.ZoneMaximize))
			return m, nil
		}
	case "alt+left", "alt+right", "alt+up", "alt+down":
		dir, _ := tiling.ParseDirection(strings.TrimPrefix(msg.String(), "alt+"))
		m.reportNav(m.desktop.FocusDirection(dir))
		return m, nil
	case "alt+n":
		m.reportNav(m.desktop.CycleFocus(1))
		return m, nil
	case "alt+p":
		m.reportNav(m.desktop.CycleFocus(-1))
		return m, nil
	case "ctrl+c":
		if focused == "" {
			return m, tea.Quit
		}
	}

	return m, m.desktop.SendKey(msg)
}

func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	x, y := msg.X, msg.Y

	switch msg.Action {
	case tea.MouseActionMotion:
		m.desktop.PointerMove(x, y)
		return m, nil

	case tea.MouseActionRelease:
		m.report(m.desktop.PointerUp(x, y))
		return m, nil
	}

	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	if m.launcher.Active() {
		if !m.launcher.Layer(m.width, m.height).rect.Contains(tiling.Point{X: x, Y: y}) {
			m.launcher.Hide()
		}
		return m, nil
	}

	switch {
	case y == 0:
		if x < len([]rune(brandLabel)) {
			m.launcher.Show()
		}
	case m.height > 1 && y == m.height-1:
		for _, it := range taskbarItems(m.desktop.Scene(), m.width) {
			if x < it.x0 || x >= it.x1 {
				continue
			}
			if it.launcher {
				m.launcher.Show()
			} else {
				m.report(m.desktop.TaskbarClick(it.id))
			}
			break
		}
	default:
		hit := m.desktop.PointerDown(x, y)
		m.logger.Debug("pointer down", "x", x, "y", y, "window", hit.ID, "region", hit.Region.String())
	}
	return m, nil
}

func (m model) openApp(appID string) error {
	_, err := m.desktop.OpenApp(appID)
	return err
}

// report shows err in the menu bar, or clears the last message on success.
func (m *model) report(err error) {
	if err != nil {
		m.logger.Warn("desktop action failed", "error", err)
		m.status = err.Error()
		return
	}
	m.status = ""
}

// reportNav reports a focus navigation result. An empty desktop is not an
// error worth showing.
func (m *model) reportNav(_ wm.ID, err error) {
	if errors.Is(err, desktop.ErrNoWindows) {
		err = nil
	}
	m.report(err)
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	layers := sceneLayers(m.desktop.Scene(), m.width, m.height, m.status)
	if m.launcher.Active() {
		layers = append(layers, m.launcher.Layer(m.width, m.height))
	}
	return compose(m.width, m.height, layers)
}
