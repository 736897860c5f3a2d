// Package apps provides the applications hosted inside desktop windows.
//
// Apps are opaque to the window manager: the desktop mounts one as a window's
// content, forwards key messages to the focused one and asks it to draw into
// the window's content area.
package apps

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/mominos/mominos/internal/config"
)

// App is the content of a single window.
type App interface {
	// Update handles a message sent to the focused window.
	Update(msg tea.Msg) tea.Cmd
	// View draws the app into a content area of the given size.
	View(width, height int) string
}

// Info describes an installable app.
type Info struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
	// Singleton apps focus their existing window instead of opening another.
	Singleton bool `json:"singleton"`
}

// Env is what an app may reach outside its own window. The desktop calls
// apps with its lock held, and the callbacks run under that same lock.
type Env struct {
	// Config returns the current desktop preferences.
	Config  func() *config.Config
	Started time.Time
	Logger  *slog.Logger

	// Open launches another app by id.
	Open func(appID string) error
	// ApplyConfig replaces the desktop preferences.
	ApplyConfig func(cfg *config.Config) error
	// WindowCount reports how many windows are open.
	WindowCount func() int

	Now  func() time.Time
	User string
	Host string
}

func (e Env) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e Env) config() *config.Config {
	if e.Config != nil {
		if cfg := e.Config(); cfg != nil {
			return cfg
		}
	}
	return config.DefaultConfig()
}

func (e Env) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.New(slog.DiscardHandler)
}

func (e Env) user() string {
	if e.User != "" {
		return e.User
	}
	return "guest"
}

func (e Env) host() string {
	if e.Host != "" {
		return e.Host
	}
	return "mominos"
}

// Factory creates a fresh instance of an app.
type Factory func(env Env) App

type entry struct {
	info    Info
	factory Factory
}

// Registry maps app ids to their factories.
type Registry struct {
	entries map[string]entry
	order   []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// Register adds an app. Registering an id twice replaces the first entry.
func (r *Registry) Register(info Info, factory Factory) {
	if _, ok := r.entries[info.ID]; !ok {
		r.order = append(r.order, info.ID)
	}
	r.entries[info.ID] = entry{info: info, factory: factory}
}

// Builtin returns a registry holding the bundled apps.
func Builtin() *Registry {
	r := NewRegistry()
	r.Register(Info{ID: "terminal", Name: "Terminal", Icon: ">", Description: "Command shell over a sandboxed file tree"}, NewTerminal)
	r.Register(Info{ID: "files", Name: "Files", Icon: "#", Description: "Browse the sandboxed file tree"}, NewFiles)
	r.Register(Info{ID: "calculator", Name: "Calculator", Icon: "=", Description: "Four-function calculator"}, NewCalculator)
	r.Register(Info{ID: "assistant", Name: "Assistant", Icon: "?", Description: "Ask questions, open apps"}, NewAssistant)
	r.Register(Info{ID: "settings", Name: "Settings", Icon: "*", Description: "Desktop preferences", Singleton: true}, NewSettings)
	r.Register(Info{ID: "about", Name: "About", Icon: "i", Description: "About this desktop", Singleton: true}, NewAbout)
	return r
}

// Get returns the info for an app id.
func (r *Registry) Get(id string) (Info, bool) {
	e, ok := r.entries[id]
	return e.info, ok
}

// List returns all registered apps in registration order.
func (r *Registry) List() []Info {
	out := make([]Info, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.entries[id].info)
	}
	return out
}

// IDs returns the registered ids, sorted.
func (r *Registry) IDs() []string {
	ids := append([]string(nil), r.order...)
	sort.Strings(ids)
	return ids
}

// New creates an instance of the app with the given id.
func (r *Registry) New(id string, env Env) (App, error) {
	e, ok := r.entries[id]
	if !ok {
		return nil, fmt.Errorf("unknown app %q", id)
	}
	return e.factory(env), nil
}

type infoSource []Info

func (s infoSource) String(i int) string { return s[i].ID + " " + s[i].Name }
func (s infoSource) Len() int            { return len(s) }

// Search returns apps matching query, best match first. An empty query
// returns every app.
func (r *Registry) Search(query string) []Info {
	all := r.List()
	query = strings.TrimSpace(query)
	if query == "" {
		return all
	}
	matches := fuzzy.FindFrom(strings.ToLower(query), infoSource(lowerInfos(all)))
	out := make([]Info, 0, len(matches))
	for _, m := range matches {
		out = append(out, all[m.Index])
	}
	return out
}

// Resolve maps a user-supplied name to an app id: an exact id or name wins,
// then the best fuzzy match.
func (r *Registry) Resolve(query string) (Info, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return Info{}, fmt.Errorf("app name is required")
	}
	for _, info := range r.List() {
		if strings.EqualFold(info.ID, q) || strings.EqualFold(info.Name, q) {
			return info, nil
		}
	}
	if found := r.Search(q); len(found) > 0 {
		return found[0], nil
	}
	return Info{}, fmt.Errorf("no app matches %q", query)
}

func lowerInfos(in []Info) []Info {
	out := make([]Info, len(in))
	for i, info := range in {
		info.ID = strings.ToLower(info.ID)
		info.Name = strings.ToLower(info.Name)
		out[i] = info
	}
	return out
}
