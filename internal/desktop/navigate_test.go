package desktop

import (
	"errors"
	"testing"

	"github.com/mominos/mominos/internal/session"
	"github.com/mominos/mominos/internal/tiling"
	"github.com/mominos/mominos/internal/wm"
)

// quad imports a 2x2 grid with the bottom-left window minimized.
func quad(t *testing.T, d *Desktop) {
	t.Helper()
	n, err := d.Import(&session.Layout{
		Name:    "quad",
		Focused: "a",
		Windows: []session.WindowState{
			{ID: "a", App: "terminal", Bounds: tiling.Rect{X: 0, Y: 40, Width: 600, Height: 400}},
			{ID: "b", App: "terminal", Bounds: tiling.Rect{X: 700, Y: 40, Width: 600, Height: 400}},
			{ID: "c", App: "terminal", Bounds: tiling.Rect{X: 0, Y: 500, Width: 600, Height: 400}, Minimized: true},
			{ID: "d", App: "terminal", Bounds: tiling.Rect{X: 700, Y: 500, Width: 600, Height: 400}},
		},
	})
	if err != nil || n != 4 {
		t.Fatalf("import: n=%d err=%v", n, err)
	}
}

func focusedID(d *Desktop) wm.ID {
	for _, w := range d.Windows() {
		if w.Focused {
			return w.ID
		}
	}
	return ""
}

func TestFocusDirection(t *testing.T) {
	d := newTestDesktop(t)
	quad(t, d)
	if got := focusedID(d); got != "w1" {
		t.Fatalf("initial focus = %q", got)
	}

	steps := []struct {
		dir  tiling.Direction
		want wm.ID
	}{
		{tiling.DirRight, "w2"},
		{tiling.DirDown, "w4"},
		{tiling.DirLeft, "w1"},
		{tiling.DirUp, "w4"},
	}
	for _, s := range steps {
		got, err := d.FocusDirection(s.dir)
		if err != nil {
			t.Fatalf("focus %v: %v", s.dir, err)
		}
		if got != s.want || focusedID(d) != s.want {
			t.Fatalf("focus %v = %q (focused %q), want %q", s.dir, got, focusedID(d), s.want)
		}
	}
}

func TestCycleFocus(t *testing.T) {
	d := newTestDesktop(t)
	quad(t, d)

	for _, want := range []wm.ID{"w2", "w4", "w1"} {
		got, err := d.CycleFocus(1)
		if err != nil || got != want {
			t.Fatalf("CycleFocus(1) = %q, %v; want %q", got, err, want)
		}
	}
	if got, _ := d.CycleFocus(-1); got != "w4" {
		t.Fatalf("CycleFocus(-1) = %q, want w4", got)
	}
	if info := mustInfo(t, d, "w3"); !info.Minimized {
		t.Fatalf("cycling restored a minimized window")
	}
}

func TestFocusNavigation_Empty(t *testing.T) {
	d := newTestDesktop(t)
	if _, err := d.FocusDirection(tiling.DirLeft); !errors.Is(err, ErrNoWindows) {
		t.Fatalf("FocusDirection err = %v", err)
	}
	if _, err := d.CycleFocus(1); !errors.Is(err, ErrNoWindows) {
		t.Fatalf("CycleFocus err = %v", err)
	}
}
