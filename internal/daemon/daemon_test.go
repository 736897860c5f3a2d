package daemon

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mominos/mominos/internal/config"
	"github.com/mominos/mominos/internal/desktop"
	"github.com/mominos/mominos/internal/ipc"
	"github.com/mominos/mominos/internal/session"
	"github.com/mominos/mominos/internal/tiling"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.GeometryProfile = "pixel"
	cfg.StartupApps = nil
	return cfg
}

func setupEnv(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())
}

// start runs the daemon in the background and waits for the socket to answer.
func start(t *testing.T, dm *Daemon) (context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- dm.Run(ctx) }()

	client := ipc.NewClient()
	deadline := time.Now().Add(3 * time.Second)
	for {
		if err := client.Ping(); err == nil {
			break
		}
		if time.Now().After(deadline) {
			cancel()
			t.Fatalf("daemon did not come up")
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cancel, done
}

func wait(t *testing.T, done <-chan error) {
	t.Helper()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("daemon did not stop")
	}
}

func TestRun_ServesIPCAndAutosavesOnShutdown(t *testing.T) {
	setupEnv(t)
	cfg := testConfig()
	cfg.Autosave = config.AutosaveConfig{Enabled: true, IntervalSeconds: 3600, Session: "autosave"}
	d := desktop.New(desktop.Options{Config: cfg})
	dm := New(d, Options{})

	cancel, done := start(t, dm)
	w, err := ipc.NewClient().OpenApp("terminal")
	if err != nil {
		cancel()
		t.Fatalf("open: %v", err)
	}
	cancel()
	wait(t, done)

	layout, err := session.Read("autosave")
	if err != nil {
		t.Fatalf("read autosave: %v", err)
	}
	if len(layout.Windows) != 1 || layout.Windows[0].App != "terminal" || layout.Windows[0].ID != w.ID {
		t.Fatalf("autosaved windows = %+v", layout.Windows)
	}

	if err := ipc.NewClient().Ping(); err == nil {
		t.Fatalf("expected socket to be gone after shutdown")
	}
}

func TestRun_AutosaveDisabled(t *testing.T) {
	setupEnv(t)
	d := desktop.New(desktop.Options{Config: testConfig()})
	cancel, done := start(t, New(d, Options{}))
	cancel()
	wait(t, done)

	names, err := session.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(names) != 0 {
		t.Fatalf("expected no sessions, got %v", names)
	}
}

func TestRun_RestoresSession(t *testing.T) {
	setupEnv(t)
	err := session.Write(&session.Layout{
		Name:    "work",
		Focused: "a",
		Windows: []session.WindowState{
			{ID: "a", App: "terminal", Bounds: tiling.Rect{X: 100, Y: 100, Width: 640, Height: 420}},
			{ID: "b", App: "files", Bounds: tiling.Rect{X: 200, Y: 200, Width: 640, Height: 420}, Minimized: true},
		},
	})
	if err != nil {
		t.Fatalf("write session: %v", err)
	}

	d := desktop.New(desktop.Options{Config: testConfig()})
	cancel, done := start(t, New(d, Options{Restore: "work"}))
	defer func() {
		cancel()
		wait(t, done)
	}()

	windows, err := ipc.NewClient().ListWindows()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(windows) != 2 {
		t.Fatalf("expected 2 restored windows, got %+v", windows)
	}
	if !windows[0].Focused || windows[0].X != 100 || windows[0].Y != 100 {
		t.Fatalf("first window = %+v", windows[0])
	}
	if !windows[1].Minimized {
		t.Fatalf("second window should stay minimized: %+v", windows[1])
	}
}

func TestRun_MissingRestoreSessionStartsEmpty(t *testing.T) {
	setupEnv(t)
	d := desktop.New(desktop.Options{Config: testConfig()})
	cancel, done := start(t, New(d, Options{Restore: "nope"}))
	cancel()
	wait(t, done)

	if n := len(d.Windows()); n != 0 {
		t.Fatalf("expected empty desktop, got %d windows", n)
	}
}

func TestReload(t *testing.T) {
	d := desktop.New(desktop.Options{Config: testConfig()})

	next := testConfig()
	next.Theme.Wallpaper = config.WallpaperPlain
	dm := New(d, Options{LoadConfig: func() (*config.Config, error) { return next, nil }})

	if err := dm.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := d.Config().Theme.Wallpaper; got != config.WallpaperPlain {
		t.Fatalf("wallpaper = %q", got)
	}
	select {
	case <-dm.reloadChan:
	default:
		t.Fatalf("expected reload notification")
	}

	dm.loadConfig = func() (*config.Config, error) { return nil, errors.New("bad yaml") }
	if err := dm.Reload(); err == nil || !strings.Contains(err.Error(), "bad yaml") {
		t.Fatalf("expected load error, got %v", err)
	}
	if got := d.Config().Theme.Wallpaper; got != config.WallpaperPlain {
		t.Fatalf("failed reload changed config: %q", got)
	}
}
