// Package session stores desktop layouts as JSON files so a desktop can be
// saved and restored later.
package session

import (
	"time"

	"github.com/mominos/mominos/internal/tiling"
)

// Layout is a saved desktop: which apps were open, where, and in what state.
type Layout struct {
	Name     string          `json:"name"`
	SavedAt  time.Time       `json:"saved_at"`
	Profile  string          `json:"geometry_profile,omitempty"`
	Viewport tiling.Viewport `json:"viewport"`
	Focused  string          `json:"focused,omitempty"`
	Windows  []WindowState   `json:"windows"`
}

// WindowState is one saved window. IDs are only meaningful within the layout;
// restoring a layout assigns fresh ids.
type WindowState struct {
	ID        string       `json:"id"`
	App       string       `json:"app"`
	Title     string       `json:"title,omitempty"`
	Bounds    tiling.Rect  `json:"bounds"`
	Minimized bool         `json:"minimized,omitempty"`
	Maximized bool         `json:"maximized,omitempty"`
	Snapped   string       `json:"snapped,omitempty"`
	Restore   *tiling.Rect `json:"restore,omitempty"`
}

// Summary describes a stored layout for listings.
type Summary struct {
	Name    string
	SavedAt time.Time
	Windows int
	Size    int64
}
