package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

const (
	DefaultBuiltinGeometry = "cell"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationErrors flattens err into the validation errors it carries.
func ValidationErrors(err error) []*ValidationError {
	if err == nil {
		return nil
	}
	var merr *multierror.Error
	if errors.As(err, &merr) {
		var out []*ValidationError
		for _, e := range merr.Errors {
			out = append(out, ValidationErrors(e)...)
		}
		return out
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		return []*ValidationError{verr}
	}
	return nil
}

func BuildEffectiveConfig(raw RawConfig) (*Config, map[string]string, error) {
	cfg := DefaultConfig()

	if raw.GeometryProfile != nil {
		cfg.GeometryProfile = strings.TrimSpace(*raw.GeometryProfile)
	}

	geometryBases, err := applyGeometries(cfg, raw)
	if err != nil {
		return nil, nil, err
	}

	if raw.Viewport != nil {
		cfg.Viewport.Width = derefInt(raw.Viewport.Width, cfg.Viewport.Width)
		cfg.Viewport.Height = derefInt(raw.Viewport.Height, cfg.Viewport.Height)
	}

	if raw.Theme != nil {
		if raw.Theme.Accent != nil {
			cfg.Theme.Accent = *raw.Theme.Accent
		}
		if raw.Theme.Wallpaper != nil {
			cfg.Theme.Wallpaper = *raw.Theme.Wallpaper
		}
		if raw.Theme.ShowSeconds != nil {
			cfg.Theme.ShowSeconds = *raw.Theme.ShowSeconds
		}
	}

	if raw.StartupApps != nil {
		cfg.StartupApps = append([]string(nil), raw.StartupApps...)
	}

	if raw.Autosave != nil {
		if raw.Autosave.Enabled != nil {
			cfg.Autosave.Enabled = *raw.Autosave.Enabled
		}
		if raw.Autosave.IntervalSeconds != nil {
			cfg.Autosave.IntervalSeconds = *raw.Autosave.IntervalSeconds
		}
		if raw.Autosave.Session != nil {
			cfg.Autosave.Session = *raw.Autosave.Session
		}
	}

	if raw.Limits != nil && raw.Limits.MaxWindows != nil {
		cfg.Limits.MaxWindows = *raw.Limits.MaxWindows
	}

	if raw.Logging != nil {
		if raw.Logging.Level != nil {
			cfg.Logging.Level = *raw.Logging.Level
		}
		if raw.Logging.File != nil {
			cfg.Logging.File = *raw.Logging.File
		}
		if raw.Logging.MaxSizeMB != nil {
			cfg.Logging.MaxSizeMB = *raw.Logging.MaxSizeMB
		}
		if raw.Logging.MaxFiles != nil {
			cfg.Logging.MaxFiles = *raw.Logging.MaxFiles
		}
	}

	return cfg, geometryBases, nil
}

func applyGeometries(cfg *Config, raw RawConfig) (map[string]string, error) {
	builtin := BuiltinGeometries()

	// Start with built-ins.
	cfg.Geometries = make(map[string]Geometry, len(builtin))
	for name, g := range builtin {
		cfg.Geometries[name] = g
	}

	bases := make(map[string]string)
	for name := range cfg.Geometries {
		bases[name] = name
	}

	// Apply user patches.
	for _, name := range sortedKeys(raw.Geometries) {
		patch := raw.Geometries[name]
		baseName, base, err := selectGeometryBase(name, patch, builtin)
		if err != nil {
			return nil, err
		}

		merged := mergeGeometryPatch(base, patch)
		if err := validateGeometry(&merged); err != nil {
			return nil, &ValidationError{Path: "geometries." + name, Err: err}
		}

		cfg.Geometries[name] = merged
		bases[name] = baseName
	}

	return bases, nil
}

func selectGeometryBase(name string, patch RawGeometry, builtin map[string]Geometry) (string, Geometry, error) {
	ref := ""
	if patch.Inherits != nil {
		ref = strings.TrimSpace(*patch.Inherits)
	}

	baseName := DefaultBuiltinGeometry
	if _, ok := builtin[name]; ok {
		baseName = name
	}

	if ref != "" {
		const prefix = "builtin:"
		if !strings.HasPrefix(ref, prefix) {
			return "", Geometry{}, &ValidationError{
				Path: "geometries." + name + ".inherits",
				Err:  fmt.Errorf("inherits must be %q-prefixed (builtin-only), got %q", prefix, ref),
			}
		}
		baseName = strings.TrimSpace(strings.TrimPrefix(ref, prefix))
	}

	base, ok := builtin[baseName]
	if !ok {
		return "", Geometry{}, &ValidationError{
			Path: "geometries." + name + ".inherits",
			Err:  fmt.Errorf("unknown builtin geometry %q", baseName),
		}
	}

	return baseName, base, nil
}

func mergeGeometryPatch(base Geometry, patch RawGeometry) Geometry {
	out := base
	out.TopChrome = derefInt(patch.TopChrome, out.TopChrome)
	out.MinWidth = derefInt(patch.MinWidth, out.MinWidth)
	out.MinHeight = derefInt(patch.MinHeight, out.MinHeight)
	out.SnapMargin = derefInt(patch.SnapMargin, out.SnapMargin)
	out.SnapReleaseMargin = derefInt(patch.SnapReleaseMargin, out.SnapReleaseMargin)
	out.TitleBarHeight = derefInt(patch.TitleBarHeight, out.TitleBarHeight)
	out.HandleSize = derefInt(patch.HandleSize, out.HandleSize)
	out.ButtonWidth = derefInt(patch.ButtonWidth, out.ButtonWidth)
	out.CascadeStep = derefInt(patch.CascadeStep, out.CascadeStep)
	out.WindowWidth = derefInt(patch.WindowWidth, out.WindowWidth)
	out.WindowHeight = derefInt(patch.WindowHeight, out.WindowHeight)
	if patch.DefaultViewport != nil {
		out.DefaultViewport.Width = derefInt(patch.DefaultViewport.Width, out.DefaultViewport.Width)
		out.DefaultViewport.Height = derefInt(patch.DefaultViewport.Height, out.DefaultViewport.Height)
	}
	return out
}

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
