package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mominos/mominos/internal/tiling"
)

func sampleLayout(name string) *Layout {
	restore := tiling.Rect{X: 10, Y: 50, Width: 400, Height: 300}
	return &Layout{
		Name:     name,
		SavedAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Profile:  "pixel",
		Viewport: tiling.Viewport{Width: 1920, Height: 1080},
		Focused:  "w2",
		Windows: []WindowState{
			{ID: "w1", App: "terminal", Title: "Terminal", Bounds: tiling.Rect{X: 0, Y: 40, Width: 960, Height: 1040}, Snapped: "left"},
			{ID: "w2", App: "files", Title: "Files", Bounds: tiling.Rect{X: 0, Y: 40, Width: 1920, Height: 1040}, Maximized: true, Restore: &restore},
			{ID: "w3", App: "about", Title: "About", Bounds: tiling.Rect{X: 100, Y: 100, Width: 300, Height: 200}, Minimized: true},
		},
	}
}

func TestWriteReadDelete(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := Write(sampleLayout("work")); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := Read("work")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Focused != "w2" || len(got.Windows) != 3 {
		t.Fatalf("unexpected layout: %+v", got)
	}
	if got.Windows[1].Restore == nil || got.Windows[1].Restore.Width != 400 {
		t.Fatalf("restore geometry lost: %+v", got.Windows[1])
	}
	if got.Windows[0].Snapped != "left" || !got.Windows[2].Minimized {
		t.Fatalf("window flags lost: %+v", got.Windows)
	}

	path, _ := Path("work")
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temporary file left behind")
	}

	if err := Delete("work"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := Read("work"); err == nil {
		t.Fatalf("expected read after delete to fail")
	}
}

func TestReadFillsMissingName(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "mominos", "sessions")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bare.json"), []byte(`{"windows":[]}`), 0644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := Read("bare")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Name != "bare" {
		t.Fatalf("name = %q", got.Name)
	}
}

func TestList(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	names, err := List()
	if err != nil || len(names) != 0 {
		t.Fatalf("expected empty list without directory, got %v %v", names, err)
	}

	for _, name := range []string{"zeta", "alpha"} {
		if err := Write(sampleLayout(name)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	dir := filepath.Join(home, ".config", "mominos", "sessions")
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644)
	os.Mkdir(filepath.Join(dir, "nested.json"), 0755)

	names, err = List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(names) != 2 || names[0] != "alpha" || names[1] != "zeta" {
		t.Fatalf("names = %v", names)
	}

	sums, err := Summaries()
	if err != nil {
		t.Fatalf("summaries: %v", err)
	}
	if len(sums) != 2 || sums[0].Windows != 3 || sums[0].Size == 0 {
		t.Fatalf("summaries = %+v", sums)
	}
}

func TestValidateName(t *testing.T) {
	valid := []string{"work", "autosave", "my-layout_2"}
	invalid := []string{"", "   ", "..", "a/b", "../etc", "x..y"}

	for _, name := range valid {
		if err := ValidateName(name); err != nil {
			t.Fatalf("ValidateName(%q) = %v", name, err)
		}
	}
	for _, name := range invalid {
		if err := ValidateName(name); err == nil {
			t.Fatalf("ValidateName(%q) accepted", name)
		}
	}
}

func TestWriteRejectsBadInput(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	if err := Write(nil); err == nil {
		t.Fatalf("expected nil layout to fail")
	}
	if err := Write(&Layout{Name: "../escape"}); err == nil {
		t.Fatalf("expected invalid name to fail")
	}
}

func TestAutosaver_SkipsUnchangedLayouts(t *testing.T) {
	var writes []*Layout
	calls := 0
	a := NewAutosaver(AutosaverConfig{Session: "autosave"}, func(name string) (*Layout, error) {
		calls++
		l := sampleLayout(name)
		l.SavedAt = time.Now()
		if calls >= 3 {
			l.Focused = "w1"
		}
		return l, nil
	})
	a.write = func(l *Layout) error {
		writes = append(writes, l)
		return nil
	}

	if !a.SaveNow() {
		t.Fatalf("first save should write")
	}
	if a.SaveNow() {
		t.Fatalf("unchanged layout should not be written again")
	}
	if !a.SaveNow() {
		t.Fatalf("changed layout should be written")
	}
	if len(writes) != 2 || writes[0].Name != "autosave" {
		t.Fatalf("writes = %d", len(writes))
	}
}

func TestAutosaver_ErrorsAndPanicsAreContained(t *testing.T) {
	a := NewAutosaver(AutosaverConfig{Session: "autosave"}, func(string) (*Layout, error) {
		return nil, errors.New("desktop gone")
	})
	if a.SaveNow() {
		t.Fatalf("expected no write when capture fails")
	}

	a = NewAutosaver(AutosaverConfig{Session: "autosave"}, func(string) (*Layout, error) {
		panic("boom")
	})
	if a.SaveNow() {
		t.Fatalf("expected no write after panic")
	}

	a = NewAutosaver(AutosaverConfig{Session: "autosave"}, func(name string) (*Layout, error) {
		return sampleLayout(name), nil
	})
	a.write = func(*Layout) error { return errors.New("disk full") }
	if a.SaveNow() {
		t.Fatalf("expected failed write to report false")
	}
	a.write = func(*Layout) error { return nil }
	if !a.SaveNow() {
		t.Fatalf("expected retry after failed write")
	}
}

func TestAutosaver_RunSavesOnShutdown(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	a := NewAutosaver(AutosaverConfig{Interval: time.Hour, Session: "autosave"}, func(name string) (*Layout, error) {
		return sampleLayout(name), nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("autosaver did not stop")
	}

	if _, err := Read("autosave"); err != nil {
		t.Fatalf("expected final save on shutdown: %v", err)
	}
}
