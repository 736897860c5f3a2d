package desktop

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mominos/mominos/internal/config"
	"github.com/mominos/mominos/internal/session"
	"github.com/mominos/mominos/internal/tiling"
	"github.com/mominos/mominos/internal/wm"
)

var testNow = time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)

// newTestDesktop returns an empty 1920x1080 desktop on the pixel profile.
func newTestDesktop(t *testing.T) *Desktop {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.GeometryProfile = "pixel"
	cfg.StartupApps = nil
	return New(Options{
		Config: cfg,
		Now:    func() time.Time { return testNow },
	})
}

// placed opens a terminal window at the given bounds.
func placed(t *testing.T, d *Desktop, bounds tiling.Rect) wm.ID {
	t.Helper()
	n, err := d.Import(&session.Layout{
		Name:    "test",
		Focused: "a",
		Windows: []session.WindowState{{ID: "a", App: "terminal", Bounds: bounds}},
	})
	if err != nil || n != 1 {
		t.Fatalf("import: n=%d err=%v", n, err)
	}
	return d.Windows()[0].ID
}

func mustInfo(t *testing.T, d *Desktop, id wm.ID) WindowInfo {
	t.Helper()
	info, err := d.Window(id)
	if err != nil {
		t.Fatalf("window %s: %v", id, err)
	}
	return info
}

func TestOpenApp_CascadesAndFocuses(t *testing.T) {
	d := newTestDesktop(t)

	first, err := d.OpenApp("terminal")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	second, err := d.OpenApp("Files")
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if first.ID != "w1" || second.ID != "w2" {
		t.Fatalf("ids = %s, %s", first.ID, second.ID)
	}
	if want := (tiling.Rect{X: 0, Y: 40, Width: 640, Height: 420}); first.Bounds != want {
		t.Fatalf("first bounds = %+v, want %+v", first.Bounds, want)
	}
	if want := (tiling.Rect{X: 30, Y: 70, Width: 640, Height: 420}); second.Bounds != want {
		t.Fatalf("second bounds = %+v, want %+v", second.Bounds, want)
	}
	if !second.Focused || mustInfo(t, d, first.ID).Focused {
		t.Fatalf("expected the newest window to hold focus")
	}
	if d.AppID(second.ID) != "files" || second.App != "files" {
		t.Fatalf("app id = %q", d.AppID(second.ID))
	}
}

func TestOpenApp_SingletonIsReactivated(t *testing.T) {
	d := newTestDesktop(t)

	about, err := d.OpenApp("about")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := d.Minimize(about.ID); err != nil {
		t.Fatalf("minimize: %v", err)
	}

	again, err := d.OpenApp("about")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if again.ID != about.ID {
		t.Fatalf("expected singleton to be reused, got %s and %s", about.ID, again.ID)
	}
	if again.Minimized || !again.Focused {
		t.Fatalf("expected singleton restored and focused: %+v", again)
	}
	if n := len(d.Windows()); n != 1 {
		t.Fatalf("windows = %d, want 1", n)
	}
}

func TestOpenApp_Unknown(t *testing.T) {
	d := newTestDesktop(t)
	if _, err := d.OpenApp("zzz"); !errors.Is(err, ErrUnknownApp) {
		t.Fatalf("expected ErrUnknownApp, got %v", err)
	}
}

func TestStart_OpensStartupApps(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.GeometryProfile = "pixel"
	cfg.StartupApps = []string{"about", "nope-nothing-zzz", "terminal"}
	d := New(Options{Config: cfg})
	d.Start()

	windows := d.Windows()
	if len(windows) != 2 || windows[0].App != "about" || windows[1].App != "terminal" {
		t.Fatalf("startup windows = %+v", windows)
	}
}

func TestDrag_IncrementalMovesClampToTopChrome(t *testing.T) {
	d := newTestDesktop(t)
	id := placed(t, d, tiling.Rect{X: 100, Y: 100, Width: 400, Height: 300})

	info, err := d.Drag(id, 50, -20, 2)
	if err != nil {
		t.Fatalf("drag: %v", err)
	}
	if want := (tiling.Rect{X: 150, Y: 80, Width: 400, Height: 300}); info.Bounds != want {
		t.Fatalf("bounds = %+v, want %+v", info.Bounds, want)
	}

	// Grab the title bar and pull far above the menu bar.
	d.PointerDown(350, 102)
	d.PointerMove(350, -400)
	if got := mustInfo(t, d, id).Bounds; got.Y != 40 || got.X != 150 {
		t.Fatalf("expected y clamped to the menu bar, got %+v", got)
	}
	d.CancelGesture()
	if d.Status().Gesture != "" {
		t.Fatalf("expected no gesture after cancel")
	}
	if info := mustInfo(t, d, id); info.Maximized || info.Bounds.Y != 40 {
		t.Fatalf("cancel should leave the window in place: %+v", info)
	}
}

func TestDragTo_ReleaseInLeftMarginSnaps(t *testing.T) {
	d := newTestDesktop(t)
	id := placed(t, d, tiling.Rect{X: 400, Y: 300, Width: 400, Height: 300})

	info, err := d.DragTo(id, tiling.Point{X: 50, Y: 500}, 2)
	if err != nil {
		t.Fatalf("drag: %v", err)
	}
	if want := (tiling.Rect{X: 0, Y: 40, Width: 960, Height: 1040}); info.Bounds != want {
		t.Fatalf("bounds = %+v, want %+v", info.Bounds, want)
	}
	if info.Snapped != wm.SnapLeft || info.Maximized {
		t.Fatalf("expected snapped left: %+v", info)
	}
	if sc := d.Scene(); sc.SnapZones || sc.Preview != wm.ZoneNone {
		t.Fatalf("expected snap zones hidden after release")
	}
}

func TestDrag_Refused(t *testing.T) {
	d := newTestDesktop(t)
	id := placed(t, d, tiling.Rect{X: 100, Y: 100, Width: 400, Height: 300})
	if err := d.Minimize(id); err != nil {
		t.Fatalf("minimize: %v", err)
	}

	if _, err := d.Drag(id, 10, 10, 1); !errors.Is(err, wm.ErrMinimized) {
		t.Fatalf("expected ErrMinimized, got %v", err)
	}
	if _, err := d.Drag("w99", 10, 10, 1); !errors.Is(err, wm.ErrWindowNotFound) {
		t.Fatalf("expected ErrWindowNotFound, got %v", err)
	}
}

func TestResize(t *testing.T) {
	tests := []struct {
		name   string
		handle wm.Handle
		dx, dy int
		want   tiling.Rect
	}{
		{"bottom-right floors at minimum", wm.HandleBottomRight, -150, -150, tiling.Rect{X: 100, Y: 100, Width: 300, Height: 200}},
		{"left keeps right edge anchored", wm.HandleLeft, 200, 0, tiling.Rect{X: 200, Y: 100, Width: 300, Height: 300}},
		{"top grows upwards", wm.HandleTop, 0, -50, tiling.Rect{X: 100, Y: 50, Width: 400, Height: 350}},
		{"right grows", wm.HandleRight, 120, 0, tiling.Rect{X: 100, Y: 100, Width: 520, Height: 300}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDesktop(t)
			id := placed(t, d, tiling.Rect{X: 100, Y: 100, Width: 400, Height: 300})

			info, err := d.ResizeWindow(id, tt.handle, tt.dx, tt.dy, 3)
			if err != nil {
				t.Fatalf("resize: %v", err)
			}
			if info.Bounds != tt.want {
				t.Fatalf("bounds = %+v, want %+v", info.Bounds, tt.want)
			}
			if info.Resizing {
				t.Fatalf("expected resizing cleared after release")
			}
		})
	}
}

func TestResize_Refused(t *testing.T) {
	d := newTestDesktop(t)
	id := placed(t, d, tiling.Rect{X: 100, Y: 100, Width: 400, Height: 300})

	if _, err := d.ResizeWindow(id, "middle", 10, 10, 1); err == nil {
		t.Fatalf("expected unknown handle error")
	}
	if err := d.ToggleMaximize(id); err != nil {
		t.Fatalf("maximize: %v", err)
	}
	if _, err := d.ResizeWindow(id, wm.HandleRight, 10, 0, 1); !errors.Is(err, ErrNotResizable) {
		t.Fatalf("expected ErrNotResizable, got %v", err)
	}
}

func TestToggleMaximize_RestoresExactGeometry(t *testing.T) {
	d := newTestDesktop(t)
	start := tiling.Rect{X: 120, Y: 140, Width: 500, Height: 360}
	id := placed(t, d, start)

	if err := d.ToggleMaximize(id); err != nil {
		t.Fatalf("maximize: %v", err)
	}
	info := mustInfo(t, d, id)
	if !info.Maximized || info.Bounds != (tiling.Rect{X: 0, Y: 40, Width: 1920, Height: 1040}) {
		t.Fatalf("maximized = %+v", info)
	}
	if err := d.ToggleMaximize(id); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if info := mustInfo(t, d, id); info.Maximized || info.Bounds != start {
		t.Fatalf("restored = %+v, want %+v", info.Bounds, start)
	}
}

func TestPointer_ControlsFireOnMatchingRelease(t *testing.T) {
	d := newTestDesktop(t)
	bounds := tiling.Rect{X: 100, Y: 100, Width: 400, Height: 300}
	id := placed(t, d, bounds)
	minR, maxR, closeR := d.Scene().Chrome.ControlRects(bounds)

	// Release away from the button: nothing happens.
	hit := d.PointerDown(closeR.X+1, closeR.Y+1)
	if hit.Region != wm.RegionClose || hit.ID != id {
		t.Fatalf("hit = %+v", hit)
	}
	if err := d.PointerUp(300, 300); err != nil {
		t.Fatalf("up: %v", err)
	}
	if _, err := d.Window(id); err != nil {
		t.Fatalf("window closed by a release elsewhere")
	}

	d.PointerDown(maxR.X+1, maxR.Y+1)
	if err := d.PointerUp(maxR.X+1, maxR.Y+1); err != nil {
		t.Fatalf("up: %v", err)
	}
	if !mustInfo(t, d, id).Maximized {
		t.Fatalf("expected maximize control to fire")
	}

	// Controls move with the maximized bounds.
	full := mustInfo(t, d, id).Bounds
	minR, _, closeR = d.Scene().Chrome.ControlRects(full)
	d.PointerDown(minR.X+1, minR.Y+1)
	d.PointerUp(minR.X+1, minR.Y+1)
	if info := mustInfo(t, d, id); !info.Minimized || info.Focused {
		t.Fatalf("expected minimized and unfocused: %+v", info)
	}

	if err := d.Focus(id); err != nil {
		t.Fatalf("focus: %v", err)
	}
	d.PointerDown(closeR.X+1, closeR.Y+1)
	if err := d.PointerUp(closeR.X+1, closeR.Y+1); err != nil {
		t.Fatalf("up: %v", err)
	}
	if _, err := d.Window(id); !errors.Is(err, wm.ErrWindowNotFound) {
		t.Fatalf("expected window closed, got %v", err)
	}
	if d.AppID(id) != "" {
		t.Fatalf("expected app unmounted")
	}
}

func TestPointer_TitleBarDrag(t *testing.T) {
	d := newTestDesktop(t)
	id := placed(t, d, tiling.Rect{X: 300, Y: 300, Width: 400, Height: 300})

	hit := d.PointerDown(400, 310)
	if hit.Region != wm.RegionTitleBar {
		t.Fatalf("hit = %+v", hit)
	}
	d.PointerMove(420, 330)
	if got := d.Status().Gesture; got != "drag" {
		t.Fatalf("gesture = %q", got)
	}
	d.PointerUp(440, 350)
	if info := mustInfo(t, d, id); info.Bounds.X != 320 || info.Bounds.Y != 320 {
		t.Fatalf("bounds = %+v", info.Bounds)
	}

	// Moves with no gesture are ignored.
	d.PointerMove(900, 900)
	if info := mustInfo(t, d, id); info.Bounds.X != 320 {
		t.Fatalf("window moved without a gesture: %+v", info.Bounds)
	}
}

func TestPointer_BackgroundLeavesFocus(t *testing.T) {
	d := newTestDesktop(t)
	id := placed(t, d, tiling.Rect{X: 100, Y: 100, Width: 400, Height: 300})

	if hit := d.PointerDown(1500, 900); hit.Region != wm.RegionNone {
		t.Fatalf("hit = %+v", hit)
	}
	d.PointerUp(1500, 900)
	if !mustInfo(t, d, id).Focused {
		t.Fatalf("expected focus unchanged by a background click")
	}
}

func TestTaskbarClick(t *testing.T) {
	d := newTestDesktop(t)
	id := placed(t, d, tiling.Rect{X: 100, Y: 100, Width: 400, Height: 300})

	if err := d.TaskbarClick(id); err != nil {
		t.Fatalf("click: %v", err)
	}
	if !mustInfo(t, d, id).Minimized {
		t.Fatalf("expected focused window to minimize")
	}
	if err := d.TaskbarClick(id); err != nil {
		t.Fatalf("click: %v", err)
	}
	if info := mustInfo(t, d, id); info.Minimized || !info.Focused {
		t.Fatalf("expected restored and focused: %+v", info)
	}
	if err := d.TaskbarClick("w42"); !errors.Is(err, wm.ErrWindowNotFound) {
		t.Fatalf("expected ErrWindowNotFound, got %v", err)
	}
}

func TestArrange(t *testing.T) {
	d := newTestDesktop(t)
	for _, app := range []string{"terminal", "files", "calculator"} {
		if _, err := d.OpenApp(app); err != nil {
			t.Fatalf("open %s: %v", app, err)
		}
	}
	if err := d.ToggleMaximize("w1"); err != nil {
		t.Fatalf("maximize: %v", err)
	}
	if err := d.Snap("w2", wm.ZoneRightHalf); err != nil {
		t.Fatalf("snap: %v", err)
	}

	if err := d.Arrange(ArrangeTile); err != nil {
		t.Fatalf("tile: %v", err)
	}
	wantTile := []tiling.Rect{
		{X: 0, Y: 40, Width: 960, Height: 520},
		{X: 960, Y: 40, Width: 960, Height: 520},
		{X: 0, Y: 560, Width: 960, Height: 520},
	}
	for i, w := range d.Windows() {
		if w.Bounds != wantTile[i] {
			t.Fatalf("tile %s = %+v, want %+v", w.ID, w.Bounds, wantTile[i])
		}
		if w.Maximized || w.Snapped != wm.SnapNone {
			t.Fatalf("expected %s released from maximize/snap", w.ID)
		}
	}

	if err := d.Arrange(ArrangeCascade); err != nil {
		t.Fatalf("cascade: %v", err)
	}
	for i, w := range d.Windows() {
		want := tiling.Rect{X: 30 * i, Y: 40 + 30*i, Width: 640, Height: 420}
		if w.Bounds != want {
			t.Fatalf("cascade %s = %+v, want %+v", w.ID, w.Bounds, want)
		}
	}

	if err := d.Arrange("spiral"); !errors.Is(err, ErrUnknownArrangement) {
		t.Fatalf("expected ErrUnknownArrangement, got %v", err)
	}
}

func TestExportImport(t *testing.T) {
	src := newTestDesktop(t)
	term, _ := src.OpenApp("terminal")
	files, _ := src.OpenApp("files")
	if err := src.Snap(files.ID, wm.ZoneLeftHalf); err != nil {
		t.Fatalf("snap: %v", err)
	}
	if err := src.Minimize(term.ID); err != nil {
		t.Fatalf("minimize: %v", err)
	}

	layout := src.Export("work")
	if layout.Name != "work" || !layout.SavedAt.Equal(testNow) || len(layout.Windows) != 2 {
		t.Fatalf("layout = %+v", layout)
	}
	layout.Windows = append(layout.Windows, session.WindowState{ID: "w9", App: "doom"})

	dst := newTestDesktop(t)
	dst.OpenApp("calculator")
	n, err := dst.Import(layout)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if n != 2 {
		t.Fatalf("restored %d windows, want 2", n)
	}

	windows := dst.Windows()
	if len(windows) != 2 {
		t.Fatalf("windows = %+v", windows)
	}
	if windows[0].ID == term.ID || windows[0].App != "terminal" || !windows[0].Minimized {
		t.Fatalf("terminal = %+v", windows[0])
	}
	if windows[1].App != "files" || windows[1].Snapped != wm.SnapLeft || !windows[1].Focused {
		t.Fatalf("files = %+v", windows[1])
	}
}

func TestImport_FitsForeignGeometry(t *testing.T) {
	d := newTestDesktop(t)
	id := placed(t, d, tiling.Rect{X: 1800, Y: 0, Width: 100, Height: 50})

	want := tiling.Rect{X: 1620, Y: 40, Width: 300, Height: 200}
	if got := mustInfo(t, d, id).Bounds; got != want {
		t.Fatalf("bounds = %+v, want %+v", got, want)
	}
}

func TestSaveLoadSession(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	d := newTestDesktop(t)
	d.OpenApp("terminal")
	d.OpenApp("calculator")
	if _, err := d.SaveSession("daily"); err != nil {
		t.Fatalf("save: %v", err)
	}

	d.CloseAll()
	if len(d.Windows()) != 0 {
		t.Fatalf("expected empty desktop")
	}
	n, err := d.LoadSession("daily")
	if err != nil || n != 2 {
		t.Fatalf("load: n=%d err=%v", n, err)
	}
	if _, err := d.LoadSession("missing"); err == nil {
		t.Fatalf("expected error for missing session")
	}
}

func TestSetViewport_RefitsMaximizedAndSnapped(t *testing.T) {
	d := newTestDesktop(t)
	a, _ := d.OpenApp("terminal")
	b, _ := d.OpenApp("files")
	d.ToggleMaximize(a.ID)
	d.Snap(b.ID, wm.ZoneRightHalf)

	d.SetViewport(tiling.Viewport{Width: 1000, Height: 800})

	if got := mustInfo(t, d, a.ID).Bounds; got != (tiling.Rect{X: 0, Y: 40, Width: 1000, Height: 760}) {
		t.Fatalf("maximized = %+v", got)
	}
	if got := mustInfo(t, d, b.ID).Bounds; got != (tiling.Rect{X: 500, Y: 40, Width: 500, Height: 760}) {
		t.Fatalf("snapped = %+v", got)
	}
}

func TestScene_RenderOrderAndContent(t *testing.T) {
	d := newTestDesktop(t)
	a, _ := d.OpenApp("terminal")
	b, _ := d.OpenApp("calculator")
	c, _ := d.OpenApp("files")
	d.Focus(a.ID)
	d.Minimize(c.ID)

	sc := d.Scene()
	if len(sc.Windows) != 2 || sc.Windows[0].ID != b.ID || sc.Windows[1].ID != a.ID {
		t.Fatalf("render order = %+v", sc.Windows)
	}
	if len(sc.Taskbar) != 3 || !sc.Taskbar[2].Minimized {
		t.Fatalf("taskbar = %+v", sc.Taskbar)
	}
	if sc.Windows[1].Content == "" {
		t.Fatalf("expected terminal content")
	}

	for _, w := range d.Windows() {
		if w.ID == c.ID && w.Z != -1 {
			t.Fatalf("minimized z = %d", w.Z)
		}
		if w.ID == a.ID && w.Z != 1 {
			t.Fatalf("focused z = %d", w.Z)
		}
	}
}

func TestScene_PreviewDuringDrag(t *testing.T) {
	d := newTestDesktop(t)
	placed(t, d, tiling.Rect{X: 400, Y: 300, Width: 400, Height: 300})

	d.PointerDown(600, 310)
	d.PointerMove(1900, 310)
	sc := d.Scene()
	if !sc.SnapZones || sc.Preview != wm.ZoneRightHalf {
		t.Fatalf("preview = %v visible=%v", sc.Preview, sc.SnapZones)
	}
	if sc.PreviewRect != (tiling.Rect{X: 960, Y: 40, Width: 960, Height: 1040}) {
		t.Fatalf("preview rect = %+v", sc.PreviewRect)
	}

	d.CancelGesture()
	if sc := d.Scene(); sc.SnapZones || sc.Preview != wm.ZoneNone {
		t.Fatalf("expected preview cleared on cancel")
	}
}

func TestSendKey_ReachesFocusedApp(t *testing.T) {
	d := newTestDesktop(t)
	calc, _ := d.OpenApp("calculator")

	for _, r := range "42" {
		d.SendKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	var content string
	for _, w := range d.Scene().Windows {
		if w.ID == calc.ID {
			content = w.Content
		}
	}
	if !strings.Contains(content, "42") {
		t.Fatalf("calculator content = %q", content)
	}

	d.Minimize(calc.ID)
	if cmd := d.SendKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'1'}}); cmd != nil {
		t.Fatalf("expected no command without focus")
	}
}

func TestSubscribe(t *testing.T) {
	d := newTestDesktop(t)
	ch, cancel := d.Subscribe()

	d.OpenApp("terminal")
	d.OpenApp("files")
	select {
	case <-ch:
	default:
		t.Fatalf("expected a change notification")
	}
	select {
	case <-ch:
		t.Fatalf("expected bursts to collapse")
	default:
	}

	cancel()
	cancel()
	d.OpenApp("calculator")
	select {
	case <-ch:
		t.Fatalf("notified after cancel")
	default:
	}
}

func TestStatus(t *testing.T) {
	d := newTestDesktop(t)
	a, _ := d.OpenApp("terminal")
	d.OpenApp("files")
	d.Minimize(a.ID)

	st := d.Status()
	if st.Windows != 2 || st.Minimized != 1 || st.Focused != "w2" || st.Profile != "pixel" {
		t.Fatalf("status = %+v", st)
	}
	if st.Viewport != (tiling.Viewport{Width: 1920, Height: 1080}) || !st.Started.Equal(testNow) {
		t.Fatalf("status = %+v", st)
	}
}

func TestSettingsApplyPersists(t *testing.T) {
	var saved *config.Config
	cfg := config.DefaultConfig()
	cfg.GeometryProfile = "pixel"
	d := New(Options{Config: cfg, SaveConfig: func(c *config.Config) error { saved = c; return nil }})

	next := config.DefaultConfig()
	next.GeometryProfile = "cell"
	d.mu.Lock()
	err := d.applyFromApp(next)
	d.mu.Unlock()
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if saved != next || d.Config().GeometryProfile != "cell" {
		t.Fatalf("expected preferences applied and saved")
	}
	if got := d.Scene().Geometry.TopChrome; got != 1 {
		t.Fatalf("top chrome = %d, want cell profile", got)
	}
}

func TestOpenApp_WindowLimit(t *testing.T) {
	d := newTestDesktop(t)
	cfg := d.Config()
	cfg.Limits.MaxWindows = 2
	d.SetConfig(cfg)

	for i := 0; i < 2; i++ {
		if _, err := d.OpenApp("terminal"); err != nil {
			t.Fatalf("open %d: %v", i, err)
		}
	}
	if _, err := d.OpenApp("terminal"); !errors.Is(err, ErrWindowLimit) {
		t.Fatalf("third open err = %v, want ErrWindowLimit", err)
	}
	if n := len(d.Windows()); n != 2 {
		t.Fatalf("windows = %d, want 2", n)
	}

	n, err := d.Import(&session.Layout{
		Name: "big",
		Windows: []session.WindowState{
			{ID: "a", App: "terminal"}, {ID: "b", App: "files"}, {ID: "c", App: "calculator"},
		},
	})
	if err != nil || n != 2 {
		t.Fatalf("import n=%d err=%v, want 2 windows", n, err)
	}
}

func TestSetConfig_ProfileSwitchRefitsWindows(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.GeometryProfile = "cell"
	cfg.StartupApps = nil
	d := New(Options{Config: cfg, Now: func() time.Time { return testNow }})

	a, _ := d.OpenApp("terminal")
	b, _ := d.OpenApp("files")
	d.ToggleMaximize(b.ID)

	next := config.DefaultConfig()
	next.GeometryProfile = "pixel"
	next.StartupApps = nil
	next.Viewport = config.Viewport{Width: 1920, Height: 1080}
	d.SetConfig(next)

	vp := d.Viewport()
	checks := []struct {
		name string
		id   wm.ID
	}{
		{"free", a.ID},
		{"restored", b.ID},
	}
	if got := mustInfo(t, d, b.ID).Bounds; got != (tiling.Rect{X: 0, Y: 40, Width: 1920, Height: 1040}) {
		t.Fatalf("maximized = %+v", got)
	}
	d.ToggleMaximize(b.ID)
	for _, tt := range checks {
		t.Run(tt.name, func(t *testing.T) {
			r := mustInfo(t, d, tt.id).Bounds
			if r.Width < 300 || r.Height < 200 {
				t.Errorf("size = %dx%d, want at least 300x200", r.Width, r.Height)
			}
			if r.Y < 40 {
				t.Errorf("y = %d, want at least 40", r.Y)
			}
			if r.X < 0 || r.X+r.Width > vp.Width || r.Y+r.Height > vp.Height {
				t.Errorf("bounds %+v outside viewport %+v", r, vp)
			}
		})
	}
}

type moveCounter struct{ moves int }

func (c *moveCounter) PointerMove(wm.PointerEvent) { c.moves++ }
func (c *moveCounter) PointerUp(wm.PointerEvent)   {}

func TestDrag_StepsAreCapped(t *testing.T) {
	tests := []struct {
		name      string
		dx, dy    int
		steps     int
		wantMoves int
	}{
		{"default", 50, 10, 0, DefaultSteps},
		{"capped by distance", 50, -20, 2_000_000, 50},
		{"no distance", 0, 0, 500, 1},
		{"capped by max", 1200, 0, 5000, MaxSteps},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDesktop(t)
			id := placed(t, d, tiling.Rect{X: 100, Y: 100, Width: 400, Height: 300})
			c := &moveCounter{}
			detach := d.pointer.Attach(c)
			defer detach()

			info, err := d.Drag(id, tt.dx, tt.dy, tt.steps)
			if err != nil {
				t.Fatalf("drag: %v", err)
			}
			if c.moves != tt.wantMoves {
				t.Errorf("moves = %d, want %d", c.moves, tt.wantMoves)
			}
			want := tiling.Rect{X: 100 + tt.dx, Y: 100 + tt.dy, Width: 400, Height: 300}
			if info.Bounds != want {
				t.Errorf("bounds = %+v, want %+v", info.Bounds, want)
			}
		})
	}
}

func TestResizeWindow_HugeStepCount(t *testing.T) {
	d := newTestDesktop(t)
	id := placed(t, d, tiling.Rect{X: 100, Y: 100, Width: 400, Height: 300})

	info, err := d.ResizeWindow(id, wm.HandleRight, 40, 0, 1<<40)
	if err != nil {
		t.Fatalf("resize: %v", err)
	}
	if want := (tiling.Rect{X: 100, Y: 100, Width: 440, Height: 300}); info.Bounds != want {
		t.Fatalf("bounds = %+v, want %+v", info.Bounds, want)
	}
}
