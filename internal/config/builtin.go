package config

// BuiltinGeometries returns the built-in geometry profiles.
//
// "pixel" is the reference desktop: a 40px menu bar, 300x200 minimum window
// size and a 100px snap margin. "cell" applies the same rules to a terminal
// grid, one unit per character cell.
func BuiltinGeometries() map[string]Geometry {
	return map[string]Geometry{
		"pixel": {
			TopChrome:       40,
			MinWidth:        300,
			MinHeight:       200,
			SnapMargin:      100,
			TitleBarHeight:  32,
			HandleSize:      6,
			ButtonWidth:     36,
			CascadeStep:     30,
			WindowWidth:     640,
			WindowHeight:    420,
			DefaultViewport: Viewport{Width: 1920, Height: 1080},
		},
		"cell": {
			TopChrome:       1,
			MinWidth:        24,
			MinHeight:       8,
			SnapMargin:      3,
			TitleBarHeight:  1,
			HandleSize:      1,
			ButtonWidth:     3,
			CascadeStep:     2,
			WindowWidth:     56,
			WindowHeight:    16,
			DefaultViewport: Viewport{Width: 160, Height: 48},
		},
	}
}
