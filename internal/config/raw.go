package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawViewport struct {
	Width  *int `yaml:"width"`
	Height *int `yaml:"height"`
}

type RawGeometry struct {
	Inherits          *string      `yaml:"inherits"`
	TopChrome         *int         `yaml:"top_chrome"`
	MinWidth          *int         `yaml:"min_width"`
	MinHeight         *int         `yaml:"min_height"`
	SnapMargin        *int         `yaml:"snap_margin"`
	SnapReleaseMargin *int         `yaml:"snap_release_margin"`
	TitleBarHeight    *int         `yaml:"title_bar_height"`
	HandleSize        *int         `yaml:"handle_size"`
	ButtonWidth       *int         `yaml:"button_width"`
	CascadeStep       *int         `yaml:"cascade_step"`
	WindowWidth       *int         `yaml:"window_width"`
	WindowHeight      *int         `yaml:"window_height"`
	DefaultViewport   *RawViewport `yaml:"default_viewport"`
}

type RawTheme struct {
	Accent      *string `yaml:"accent"`
	Wallpaper   *string `yaml:"wallpaper"`
	ShowSeconds *bool   `yaml:"show_seconds"`
}

type RawAutosave struct {
	Enabled         *bool   `yaml:"enabled"`
	IntervalSeconds *int    `yaml:"interval_seconds"`
	Session         *string `yaml:"session"`
}

type RawLimits struct {
	MaxWindows *int `yaml:"max_windows"`
}

type RawLoggingConfig struct {
	Level     *string `yaml:"level"`
	File      *string `yaml:"file"`
	MaxSizeMB *int    `yaml:"max_size_mb"`
	MaxFiles  *int    `yaml:"max_files"`
}

type RawConfig struct {
	Include         IncludeList            `yaml:"include"`
	GeometryProfile *string                `yaml:"geometry_profile"`
	Geometries      map[string]RawGeometry `yaml:"geometries"`
	Viewport        *RawViewport           `yaml:"viewport"`
	Theme           *RawTheme              `yaml:"theme"`
	StartupApps     []string               `yaml:"startup_apps"`
	Autosave        *RawAutosave           `yaml:"autosave"`
	Limits          *RawLimits             `yaml:"limits"`
	Logging         *RawLoggingConfig      `yaml:"logging"`
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.GeometryProfile != nil {
		out.GeometryProfile = overlay.GeometryProfile
	}

	if overlay.Geometries != nil {
		if out.Geometries == nil {
			out.Geometries = make(map[string]RawGeometry, len(overlay.Geometries))
		}
		for name, g := range overlay.Geometries {
			base, ok := out.Geometries[name]
			if !ok {
				out.Geometries[name] = g
				continue
			}
			out.Geometries[name] = mergeRawGeometry(base, g)
		}
	}

	if overlay.Viewport != nil {
		if out.Viewport == nil {
			out.Viewport = &RawViewport{}
		}
		merged := mergeRawViewport(*out.Viewport, *overlay.Viewport)
		out.Viewport = &merged
	}

	if overlay.Theme != nil {
		if out.Theme == nil {
			out.Theme = &RawTheme{}
		}
		merged := *out.Theme
		if overlay.Theme.Accent != nil {
			merged.Accent = overlay.Theme.Accent
		}
		if overlay.Theme.Wallpaper != nil {
			merged.Wallpaper = overlay.Theme.Wallpaper
		}
		if overlay.Theme.ShowSeconds != nil {
			merged.ShowSeconds = overlay.Theme.ShowSeconds
		}
		out.Theme = &merged
	}

	if overlay.StartupApps != nil {
		out.StartupApps = overlay.StartupApps
	}

	if overlay.Autosave != nil {
		if out.Autosave == nil {
			out.Autosave = &RawAutosave{}
		}
		merged := *out.Autosave
		if overlay.Autosave.Enabled != nil {
			merged.Enabled = overlay.Autosave.Enabled
		}
		if overlay.Autosave.IntervalSeconds != nil {
			merged.IntervalSeconds = overlay.Autosave.IntervalSeconds
		}
		if overlay.Autosave.Session != nil {
			merged.Session = overlay.Autosave.Session
		}
		out.Autosave = &merged
	}

	if overlay.Limits != nil {
		if out.Limits == nil {
			out.Limits = &RawLimits{}
		}
		merged := *out.Limits
		if overlay.Limits.MaxWindows != nil {
			merged.MaxWindows = overlay.Limits.MaxWindows
		}
		out.Limits = &merged
	}

	if overlay.Logging != nil {
		if out.Logging == nil {
			out.Logging = &RawLoggingConfig{}
		}
		merged := *out.Logging
		if overlay.Logging.Level != nil {
			merged.Level = overlay.Logging.Level
		}
		if overlay.Logging.File != nil {
			merged.File = overlay.Logging.File
		}
		if overlay.Logging.MaxSizeMB != nil {
			merged.MaxSizeMB = overlay.Logging.MaxSizeMB
		}
		if overlay.Logging.MaxFiles != nil {
			merged.MaxFiles = overlay.Logging.MaxFiles
		}
		out.Logging = &merged
	}

	return out
}

func mergeRawViewport(base RawViewport, overlay RawViewport) RawViewport {
	out := base
	if overlay.Width != nil {
		out.Width = overlay.Width
	}
	if overlay.Height != nil {
		out.Height = overlay.Height
	}
	return out
}

func mergeRawGeometry(base RawGeometry, overlay RawGeometry) RawGeometry {
	out := base
	if overlay.Inherits != nil {
		out.Inherits = overlay.Inherits
	}
	if overlay.TopChrome != nil {
		out.TopChrome = overlay.TopChrome
	}
	if overlay.MinWidth != nil {
		out.MinWidth = overlay.MinWidth
	}
	if overlay.MinHeight != nil {
		out.MinHeight = overlay.MinHeight
	}
	if overlay.SnapMargin != nil {
		out.SnapMargin = overlay.SnapMargin
	}
	if overlay.SnapReleaseMargin != nil {
		out.SnapReleaseMargin = overlay.SnapReleaseMargin
	}
	if overlay.TitleBarHeight != nil {
		out.TitleBarHeight = overlay.TitleBarHeight
	}
	if overlay.HandleSize != nil {
		out.HandleSize = overlay.HandleSize
	}
	if overlay.ButtonWidth != nil {
		out.ButtonWidth = overlay.ButtonWidth
	}
	if overlay.CascadeStep != nil {
		out.CascadeStep = overlay.CascadeStep
	}
	if overlay.WindowWidth != nil {
		out.WindowWidth = overlay.WindowWidth
	}
	if overlay.WindowHeight != nil {
		out.WindowHeight = overlay.WindowHeight
	}
	if overlay.DefaultViewport != nil {
		if out.DefaultViewport == nil {
			out.DefaultViewport = &RawViewport{}
		}
		merged := mergeRawViewport(*out.DefaultViewport, *overlay.DefaultViewport)
		out.DefaultViewport = &merged
	}
	return out
}
