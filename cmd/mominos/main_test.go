package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mominos/mominos/internal/config"
	"github.com/mominos/mominos/internal/desktop"
	"github.com/mominos/mominos/internal/ipc"
	"github.com/mominos/mominos/internal/session"
	"github.com/mominos/mominos/internal/tiling"
	"github.com/mominos/mominos/internal/wm"
)

// startDesktop serves a pixel desktop on a private socket for the test.
func startDesktop(t *testing.T) *desktop.Desktop {
	t.Helper()
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg := config.DefaultConfig()
	cfg.GeometryProfile = "pixel"
	cfg.StartupApps = nil
	d := desktop.New(desktop.Options{Config: cfg})

	server, err := ipc.NewServer(d, nil, make(chan struct{}, 1))
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	if err := server.Start(); err != nil {
		t.Fatalf("start server: %v", err)
	}
	t.Cleanup(server.Stop)
	return d
}

func TestFormatSource(t *testing.T) {
	tests := []struct {
		src  config.Source
		want string
	}{
		{config.Source{Kind: config.SourceFile, File: "/c.yaml", Line: 3, Column: 5}, "file:/c.yaml:3:5"},
		{config.Source{Kind: config.SourceFile, File: "/c.yaml"}, "file:/c.yaml"},
		{config.Source{Kind: config.SourceFile}, "file"},
		{config.Source{Kind: config.SourceBuiltin, Name: "pixel"}, "builtin:pixel"},
		{config.Source{Kind: config.SourceDefault}, "default"},
	}
	for _, tt := range tests {
		if got := formatSource(tt.src); got != tt.want {
			t.Fatalf("formatSource(%+v) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestParsePoint(t *testing.T) {
	x, y, err := parsePoint("150, 80")
	if err != nil || x != 150 || y != 80 {
		t.Fatalf("parsePoint = %d,%d,%v", x, y, err)
	}
	for _, bad := range []string{"", "10", "a,1", "1,b"} {
		if _, _, err := parsePoint(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestFormatWindow(t *testing.T) {
	line := formatWindow(ipc.WindowInfo{
		ID: "w1", App: "terminal", Title: "Terminal",
		X: 0, Y: 40, Width: 960, Height: 1040,
		Focused: true, Snapped: "left",
	})
	for _, want := range []string{"w1", "terminal", "960x1040", "[focused snapped:left]"} {
		if !strings.Contains(line, want) {
			t.Fatalf("line %q missing %q", line, want)
		}
	}
}

func TestRunWindow_Usage(t *testing.T) {
	tests := [][]string{
		nil,
		{"bogus"},
		{"open"},
		{"snap", "w1"},
		{"focus"},
		{"move-focus"},
		{"drag"},
		{"drag", "--to", "nope", "w1"},
		{"resize", "w1"},
		{"arrange"},
	}
	for _, args := range tests {
		if rc := runWindow(args); rc != 2 {
			t.Fatalf("runWindow(%v) rc=%d, want 2", args, rc)
		}
	}
}

func TestRunWindow_NoDesktop(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())
	if rc := runWindow([]string{"list"}); rc != 1 {
		t.Fatalf("rc=%d, want 1", rc)
	}
	if rc := runStatus(nil); rc != 1 {
		t.Fatalf("status rc=%d, want 1", rc)
	}
}

func TestRunWindow_AgainstDesktop(t *testing.T) {
	d := startDesktop(t)

	if rc := runWindow([]string{"open", "terminal"}); rc != 0 {
		t.Fatalf("open rc=%d", rc)
	}
	if rc := runWindow([]string{"drag", "--dx", "150", "--dy", "40", "w1"}); rc != 0 {
		t.Fatalf("drag rc=%d", rc)
	}
	w, err := d.Window("w1")
	if err != nil {
		t.Fatalf("window: %v", err)
	}
	if w.Bounds.X != 150 || w.Bounds.Y != 80 {
		t.Fatalf("bounds after drag = %v", w.Bounds)
	}

	if rc := runWindow([]string{"resize", "--dx", "-1000", "--dy", "-1000", "w1", "bottom-right"}); rc != 0 {
		t.Fatalf("resize rc=%d", rc)
	}
	w, _ = d.Window("w1")
	if w.Bounds.Width != 300 || w.Bounds.Height != 200 {
		t.Fatalf("size after resize = %v", w.Bounds)
	}

	if rc := runWindow([]string{"snap", "w1", "left"}); rc != 0 {
		t.Fatalf("snap rc=%d", rc)
	}
	w, _ = d.Window("w1")
	if w.Snapped != wm.SnapLeft || w.Bounds != (tiling.Rect{X: 0, Y: 40, Width: 960, Height: 1040}) {
		t.Fatalf("after snap: %+v", w)
	}

	if rc := runWindow([]string{"move-focus", "next"}); rc != 0 {
		t.Fatalf("move-focus rc=%d", rc)
	}
	if rc := runWindow([]string{"minimize", "w1"}); rc != 0 {
		t.Fatalf("minimize rc=%d", rc)
	}
	if rc := runWindow([]string{"snap", "w1", "diagonal"}); rc != 1 {
		t.Fatalf("bad zone rc=%d, want 1", rc)
	}
	if rc := runWindow([]string{"move-focus", "sideways"}); rc != 1 {
		t.Fatalf("bad direction rc=%d, want 1", rc)
	}
	if rc := runWindow([]string{"focus", "w9"}); rc != 1 {
		t.Fatalf("unknown window rc=%d, want 1", rc)
	}
	if rc := runWindow([]string{"close", "w1"}); rc != 0 {
		t.Fatalf("close rc=%d", rc)
	}
	if n := len(d.Windows()); n != 0 {
		t.Fatalf("expected no windows, got %d", n)
	}
	if rc := runStatus([]string{"--json"}); rc != 0 {
		t.Fatalf("status rc=%d", rc)
	}
	if rc := runApps(nil); rc != 0 {
		t.Fatalf("apps rc=%d", rc)
	}
}

func TestRunSession(t *testing.T) {
	d := startDesktop(t)
	if _, err := d.OpenApp("files"); err != nil {
		t.Fatalf("open: %v", err)
	}

	if rc := runSession([]string{"save", "work"}); rc != 0 {
		t.Fatalf("save rc=%d", rc)
	}
	d.CloseAll()
	if rc := runSession([]string{"load", "work"}); rc != 0 {
		t.Fatalf("load rc=%d", rc)
	}
	if n := len(d.Windows()); n != 1 {
		t.Fatalf("expected 1 restored window, got %d", n)
	}

	if rc := runSession([]string{"list"}); rc != 0 {
		t.Fatalf("list rc=%d", rc)
	}
	if rc := runSession([]string{"delete", "work"}); rc != 0 {
		t.Fatalf("delete rc=%d", rc)
	}
	if names, _ := session.List(); len(names) != 0 {
		t.Fatalf("expected no sessions, got %v", names)
	}
	if rc := runSession([]string{"delete", "work"}); rc != 1 {
		t.Fatalf("second delete rc=%d, want 1", rc)
	}
	if rc := runSession([]string{"load", "../etc"}); rc != 1 {
		t.Fatalf("bad name rc=%d, want 1", rc)
	}
}

func TestRunSession_ListSummaries(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	err := session.Write(&session.Layout{
		Name:    "old",
		SavedAt: time.Now().Add(-2 * time.Hour),
		Windows: []session.WindowState{{ID: "a", App: "terminal"}},
	})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if rc := runSession([]string{"list"}); rc != 0 {
		t.Fatalf("list rc=%d", rc)
	}
}

func TestRunConfig(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(good, []byte("theme:\n  wallpaper: grid\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte("theme:\n  wallpaper: stars\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		args []string
		want int
	}{
		{nil, 2},
		{[]string{"validate", "--path", good}, 0},
		{[]string{"validate", "--path", bad}, 1},
		{[]string{"print", "--defaults"}, 0},
		{[]string{"print", "--path", good}, 0},
		{[]string{"explain", "--path", good, "theme.wallpaper"}, 0},
		{[]string{"explain", "--path", good}, 2},
		{[]string{"explain", "--path", good, "theme.nope"}, 1},
		{[]string{"frobnicate"}, 2},
	}
	for _, tt := range tests {
		if rc := runConfig(tt.args); rc != tt.want {
			t.Fatalf("runConfig(%v) rc=%d, want %d", tt.args, rc, tt.want)
		}
	}
}
