package apps

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mominos/mominos/internal/config"
)

// Settings edits the desktop preferences with a form.
type Settings struct {
	env    Env
	form   *huh.Form
	status string

	// Form-bound values
	fAccent      string
	fWallpaper   string
	fShowSeconds bool
	fProfile     string
	fAutosave    bool
}

// NewSettings creates a settings app.
func NewSettings(env Env) App {
	return &Settings{env: env}
}

// Editing reports whether the form is open.
func (s *Settings) Editing() bool { return s.form != nil }

func (s *Settings) current() *config.Config {
	return s.env.config()
}

func (s *Settings) startEditing(width int) tea.Cmd {
	cfg := s.current()
	s.fAccent = cfg.Theme.Accent
	s.fWallpaper = cfg.Theme.Wallpaper
	s.fShowSeconds = cfg.Theme.ShowSeconds
	s.fProfile = cfg.GeometryProfile
	s.fAutosave = cfg.Autosave.Enabled

	profiles := make([]huh.Option[string], 0, len(cfg.Geometries))
	for _, name := range cfg.GeometryNames() {
		profiles = append(profiles, huh.NewOption(name, name))
	}

	if width < 30 {
		width = 30
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("accent").
				Title("Accent colour").
				Description("#RRGGBB or an ANSI colour number").
				Validate(func(v string) error {
					probe := config.DefaultConfig()
					probe.Theme.Accent = strings.TrimSpace(v)
					for _, verr := range config.ValidationErrors(probe.Validate()) {
						if verr.Path == "theme.accent" {
							return verr.Err
						}
					}
					return nil
				}).
				Value(&s.fAccent),
			huh.NewSelect[string]().
				Key("wallpaper").
				Title("Wallpaper").
				Options(huh.NewOptions(config.WallpaperPlain, config.WallpaperDots, config.WallpaperGrid)...).
				Value(&s.fWallpaper),
			huh.NewConfirm().
				Key("show_seconds").
				Title("Show seconds in the clock").
				Value(&s.fShowSeconds),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("geometry_profile").
				Title("Geometry profile").
				Description("Desktop constants used for new gestures").
				Options(profiles...).
				Value(&s.fProfile),
			huh.NewConfirm().
				Key("autosave").
				Title("Autosave the layout").
				Value(&s.fAutosave),
		),
	).WithWidth(width).WithShowHelp(true).WithShowErrors(true)

	s.status = ""
	return s.form.Init()
}

// Apply writes the form values into a copy of the current config and hands
// it to the desktop.
func (s *Settings) Apply() error {
	next := cloneConfig(s.current())
	next.Theme.Accent = strings.TrimSpace(s.fAccent)
	next.Theme.Wallpaper = s.fWallpaper
	next.Theme.ShowSeconds = s.fShowSeconds
	if s.fProfile != "" {
		next.GeometryProfile = s.fProfile
	}
	next.Autosave.Enabled = s.fAutosave

	if err := next.Validate(); err != nil {
		return err
	}
	if s.env.ApplyConfig == nil {
		return fmt.Errorf("no desktop attached")
	}
	return s.env.ApplyConfig(next)
}

// Update implements App.
func (s *Settings) Update(msg tea.Msg) tea.Cmd {
	if s.form == nil {
		if key, ok := msg.(tea.KeyMsg); ok && (key.String() == "e" || key.Type == tea.KeyEnter) {
			return s.startEditing(40)
		}
		return nil
	}

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		s.form = nil
		s.status = "Cancelled."
		return nil
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	switch s.form.State {
	case huh.StateCompleted:
		if err := s.Apply(); err != nil {
			s.status = "Not saved: " + err.Error()
		} else {
			s.status = "Saved."
		}
		s.form = nil
		return nil
	case huh.StateAborted:
		s.form = nil
		s.status = "Cancelled."
		return nil
	}
	return cmd
}

// View implements App.
func (s *Settings) View(width, height int) string {
	if s.form != nil {
		s.form = s.form.WithWidth(width).WithHeight(height)
		return s.form.View()
	}

	cfg := s.current()
	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("250")).
		Width(18).
		Align(lipgloss.Right).
		PaddingRight(2)
	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("15")).
		Bold(true)
	dimStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	row := func(label, value string) string {
		return labelStyle.Render(label) + valueStyle.Render(value)
	}

	swatch := lipgloss.NewStyle().Background(lipgloss.Color(cfg.Theme.Accent)).Render("  ")
	lines := []string{
		row("Accent", swatch+" "+cfg.Theme.Accent),
		row("Wallpaper", cfg.Theme.Wallpaper),
		row("Show seconds", fmt.Sprintf("%v", cfg.Theme.ShowSeconds)),
		row("Geometry", cfg.GeometryProfile),
		row("Autosave", fmt.Sprintf("%v", cfg.Autosave.Enabled)),
		"",
		dimStyle.Render("Press 'e' to edit"),
	}
	if s.status != "" {
		lines = append(lines, dimStyle.Render(s.status))
	}
	if len(lines) > height && height > 0 {
		lines = lines[:height]
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(strings.Join(lines, "\n"))
}

func cloneConfig(cfg *config.Config) *config.Config {
	out := *cfg
	out.Geometries = make(map[string]config.Geometry, len(cfg.Geometries))
	for k, v := range cfg.Geometries {
		out.Geometries[k] = v
	}
	out.StartupApps = append([]string(nil), cfg.StartupApps...)
	return &out
}
