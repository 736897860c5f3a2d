package apps

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/hako/durafmt"
)

var shortUnits, _ = durafmt.DefaultUnitsCoder.Decode("y:y,wk:w,d:d,h:h,m:m,s:s,ms:ms,us:us")

// Uptime formats how long the desktop has been running, e.g. "2h 5m".
func Uptime(started, now time.Time) string {
	d := now.Sub(started).Truncate(time.Second)
	if d < time.Second {
		return "0s"
	}
	return durafmt.Parse(d).LimitFirstN(2).Format(shortUnits)
}

// About shows release and session information.
type About struct {
	env Env
}

// NewAbout creates an about app.
func NewAbout(env Env) App {
	return &About{env: env}
}

// Update implements App.
func (a *About) Update(tea.Msg) tea.Cmd { return nil }

// Lines returns the facts shown in the window.
func (a *About) Lines() []string {
	started := a.env.Started
	if started.IsZero() {
		started = a.env.now()
	}
	profile := a.env.config().GeometryProfile
	lines := []string{
		"MominOS " + Version,
		"",
		fmt.Sprintf("Uptime:    %s", Uptime(started, a.env.now())),
		fmt.Sprintf("User:      %s@%s", a.env.user(), a.env.host()),
		fmt.Sprintf("Geometry:  %s", profile),
		fmt.Sprintf("Runtime:   %s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH),
	}
	if a.env.WindowCount != nil {
		lines = append(lines, fmt.Sprintf("Windows:   %d", a.env.WindowCount()))
	}
	return lines
}

var aboutTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))

// View implements App.
func (a *About) View(width, height int) string {
	lines := a.Lines()
	lines[0] = aboutTitleStyle.Render(lines[0])
	if len(lines) > height && height > 0 {
		lines = lines[:height]
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(strings.Join(lines, "\n"))
}
