package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

// Viewport is a desktop size in geometry units.
type Viewport struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// IsZero reports whether no size was configured.
func (v Viewport) IsZero() bool {
	return v.Width == 0 && v.Height == 0
}

// Geometry is a named set of desktop constants. All values are in the
// profile's unit (pixels or terminal cells).
type Geometry struct {
	TopChrome  int `yaml:"top_chrome"`
	MinWidth   int `yaml:"min_width"`
	MinHeight  int `yaml:"min_height"`
	SnapMargin int `yaml:"snap_margin"`
	// SnapReleaseMargin picks the zone on release (0 = snap_margin).
	SnapReleaseMargin int `yaml:"snap_release_margin,omitempty"`

	TitleBarHeight int `yaml:"title_bar_height"`
	HandleSize     int `yaml:"handle_size"`
	ButtonWidth    int `yaml:"button_width"`

	// New windows open at this size, cascaded by CascadeStep.
	CascadeStep  int `yaml:"cascade_step"`
	WindowWidth  int `yaml:"window_width"`
	WindowHeight int `yaml:"window_height"`

	DefaultViewport Viewport `yaml:"default_viewport"`
}

// Wallpaper styles understood by the desktop surface.
const (
	WallpaperPlain = "plain"
	WallpaperDots  = "dots"
	WallpaperGrid  = "grid"
)

// Theme configures desktop colours and the menu bar clock.
type Theme struct {
	Accent      string `yaml:"accent"`
	Wallpaper   string `yaml:"wallpaper"`
	ShowSeconds bool   `yaml:"show_seconds"`
}

// AutosaveConfig controls periodic layout snapshots.
type AutosaveConfig struct {
	Enabled         bool   `yaml:"enabled"`
	IntervalSeconds int    `yaml:"interval_seconds"`
	Session         string `yaml:"session"`
}

// Limits caps resource usage. Zero means unlimited.
type Limits struct {
	MaxWindows int `yaml:"max_windows"`
}

// LoggingConfig configures the desktop log.
type LoggingConfig struct {
	// Level controls logging verbosity: debug, info, warn, error
	Level string `yaml:"level"`
	// File is the log file path (default: ~/.local/share/mominos/mominos.log)
	File string `yaml:"file"`
	// MaxSizeMB is the maximum log file size before rotation (default: 10)
	MaxSizeMB int `yaml:"max_size_mb"`
	// MaxFiles is the number of rotated files to keep (default: 3)
	MaxFiles int `yaml:"max_files"`
}

const (
	DefaultAutosaveInterval = 30
	DefaultAutosaveSession  = "autosave"
	DefaultMaxWindows       = 32
)

type Config struct {
	GeometryProfile string              `yaml:"geometry_profile"`
	Geometries      map[string]Geometry `yaml:"geometries"`
	Viewport        Viewport            `yaml:"viewport"`
	Theme           Theme               `yaml:"theme"`
	StartupApps     []string            `yaml:"startup_apps"`
	Autosave        AutosaveConfig      `yaml:"autosave"`
	Limits          Limits              `yaml:"limits"`
	Logging         LoggingConfig       `yaml:"logging"`
}

func DefaultConfig() *Config {
	return &Config{
		GeometryProfile: DefaultBuiltinGeometry,
		Geometries:      BuiltinGeometries(),
		Theme: Theme{
			Accent:    "#7D56F4",
			Wallpaper: WallpaperDots,
		},
		StartupApps: []string{"about"},
		Autosave: AutosaveConfig{
			Enabled:         false,
			IntervalSeconds: DefaultAutosaveInterval,
			Session:         DefaultAutosaveSession,
		},
		Limits: Limits{MaxWindows: DefaultMaxWindows},
	}
}

// ActiveGeometry returns the selected geometry profile.
func (c *Config) ActiveGeometry() Geometry {
	if c == nil {
		return BuiltinGeometries()[DefaultBuiltinGeometry]
	}
	if g, ok := c.Geometries[c.GeometryProfile]; ok {
		return g
	}
	return BuiltinGeometries()[DefaultBuiltinGeometry]
}

// EffectiveViewport returns the configured viewport, or the profile default.
func (c *Config) EffectiveViewport() Viewport {
	if c != nil && !c.Viewport.IsZero() {
		return c.Viewport
	}
	return c.ActiveGeometry().DefaultViewport
}

// AutosaveInterval returns the autosave period.
func (c *Config) AutosaveInterval() time.Duration {
	if c == nil || c.Autosave.IntervalSeconds <= 0 {
		return DefaultAutosaveInterval * time.Second
	}
	return time.Duration(c.Autosave.IntervalSeconds) * time.Second
}

// GetLoggingConfig returns the logging configuration with defaults applied.
func (c *Config) GetLoggingConfig() LoggingConfig {
	if c == nil {
		return LoggingConfig{}
	}
	cfg := c.Logging
	if cfg.File == "" {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			home = os.Getenv("HOME")
		}
		if home == "" {
			home = "."
		}
		cfg.File = filepath.Join(home, ".local/share/mominos/mominos.log")
	}
	if cfg.MaxSizeMB == 0 {
		cfg.MaxSizeMB = 10
	}
	if cfg.MaxFiles == 0 {
		cfg.MaxFiles = 3
	}
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	return cfg
}

// Save writes the configuration to the standard location.
//
// Note: this marshals the effective config and will not preserve comments or
// include/inherits structure from the original YAML.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Marshal renders the config as YAML, leaving out unchanged builtin profiles.
func (c *Config) Marshal() ([]byte, error) {
	save := *c
	save.Geometries = geometriesForSave(c.Geometries)
	data, err := yaml.Marshal(&save)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

func geometriesForSave(geometries map[string]Geometry) map[string]Geometry {
	builtin := BuiltinGeometries()
	out := make(map[string]Geometry)
	for name, g := range geometries {
		if base, ok := builtin[name]; ok && base == g {
			continue
		}
		out[name] = g
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// GeometryNames returns the profile names in sorted order.
func (c *Config) GeometryNames() []string {
	return sortedKeys(c.Geometries)
}

var (
	hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
	appIDRe    = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)
)

// Validate performs strict validation of the effective configuration. Every
// problem found is reported, not just the first.
func (c *Config) Validate() error {
	var result *multierror.Error

	if len(c.Geometries) == 0 {
		result = multierror.Append(result, &ValidationError{Path: "geometries", Err: fmt.Errorf("geometries must not be empty")})
	}
	if c.GeometryProfile == "" {
		result = multierror.Append(result, &ValidationError{Path: "geometry_profile", Err: fmt.Errorf("geometry_profile is required")})
	} else if _, ok := c.Geometries[c.GeometryProfile]; !ok {
		result = multierror.Append(result, &ValidationError{Path: "geometry_profile", Err: fmt.Errorf("geometry_profile %q not found in geometries", c.GeometryProfile)})
	}
	for _, name := range sortedKeys(c.Geometries) {
		g := c.Geometries[name]
		if err := validateGeometry(&g); err != nil {
			result = multierror.Append(result, &ValidationError{Path: "geometries." + name, Err: err})
		}
	}

	if c.Viewport.Width < 0 || c.Viewport.Height < 0 {
		result = multierror.Append(result, &ValidationError{Path: "viewport", Err: fmt.Errorf("viewport values must be >= 0")})
	} else if !c.Viewport.IsZero() {
		g := c.ActiveGeometry()
		if c.Viewport.Width < g.MinWidth || c.Viewport.Height < g.TopChrome+g.MinHeight {
			result = multierror.Append(result, &ValidationError{
				Path: "viewport",
				Err:  fmt.Errorf("viewport %dx%d cannot fit a %dx%d window below the menu bar", c.Viewport.Width, c.Viewport.Height, g.MinWidth, g.MinHeight),
			})
		}
	}

	if !isColor(c.Theme.Accent) {
		result = multierror.Append(result, &ValidationError{Path: "theme.accent", Err: fmt.Errorf("accent must be #RRGGBB or an ANSI colour number, got %q", c.Theme.Accent)})
	}
	switch c.Theme.Wallpaper {
	case WallpaperPlain, WallpaperDots, WallpaperGrid:
	default:
		result = multierror.Append(result, &ValidationError{Path: "theme.wallpaper", Err: fmt.Errorf("wallpaper must be one of: plain, dots, grid")})
	}

	for i, app := range c.StartupApps {
		if !appIDRe.MatchString(app) {
			result = multierror.Append(result, &ValidationError{Path: "startup_apps", Err: fmt.Errorf("startup_apps[%d]: invalid app id %q", i, app)})
		}
	}

	if c.Autosave.IntervalSeconds < 0 {
		result = multierror.Append(result, &ValidationError{Path: "autosave.interval_seconds", Err: fmt.Errorf("interval_seconds must be >= 0")})
	}
	if c.Autosave.Enabled && strings.TrimSpace(c.Autosave.Session) == "" {
		result = multierror.Append(result, &ValidationError{Path: "autosave.session", Err: fmt.Errorf("session is required when autosave is enabled")})
	}

	if c.Limits.MaxWindows < 0 {
		result = multierror.Append(result, &ValidationError{Path: "limits.max_windows", Err: fmt.Errorf("max_windows must be >= 0")})
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		result = multierror.Append(result, &ValidationError{Path: "logging.level", Err: fmt.Errorf("level must be one of: debug, info, warn, error")})
	}
	if c.Logging.MaxSizeMB < 0 {
		result = multierror.Append(result, &ValidationError{Path: "logging.max_size_mb", Err: fmt.Errorf("max_size_mb must be >= 0")})
	}
	if c.Logging.MaxFiles < 0 {
		result = multierror.Append(result, &ValidationError{Path: "logging.max_files", Err: fmt.Errorf("max_files must be >= 0")})
	}

	return result.ErrorOrNil()
}

// validateGeometry checks if a geometry profile is usable.
func validateGeometry(g *Geometry) error {
	if g.TopChrome < 0 {
		return fmt.Errorf("top_chrome must be >= 0")
	}
	if g.MinWidth <= 0 || g.MinHeight <= 0 {
		return fmt.Errorf("min_width and min_height must be positive")
	}
	if g.SnapMargin <= 0 {
		return fmt.Errorf("snap_margin must be positive")
	}
	if g.SnapReleaseMargin < 0 {
		return fmt.Errorf("snap_release_margin must be >= 0")
	}
	if g.HandleSize < 0 || g.TitleBarHeight < 0 || g.ButtonWidth < 0 {
		return fmt.Errorf("handle_size, title_bar_height and button_width must be >= 0")
	}
	if g.TitleBarHeight+2*g.HandleSize >= g.MinHeight {
		return fmt.Errorf("min_height must leave room for the title bar and borders")
	}
	if 3*g.ButtonWidth+2*g.HandleSize > g.MinWidth {
		return fmt.Errorf("min_width must fit the three window controls")
	}
	if g.CascadeStep <= 0 {
		return fmt.Errorf("cascade_step must be positive")
	}
	if g.WindowWidth < g.MinWidth || g.WindowHeight < g.MinHeight {
		return fmt.Errorf("window_width/height must be at least min_width/min_height")
	}
	if g.DefaultViewport.Width <= 0 || g.DefaultViewport.Height <= g.TopChrome {
		return fmt.Errorf("default_viewport must be larger than the menu bar")
	}
	return nil
}

func isColor(s string) bool {
	if hexColorRe.MatchString(s) {
		return true
	}
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil || fmt.Sprint(n) != s {
		return false
	}
	return n >= 0 && n <= 255
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
