package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mominos/mominos/internal/apps"
	"github.com/mominos/mominos/internal/ipc"
)

// fakeDesktop records calls and answers from a fixed window table.
type fakeDesktop struct {
	calls   []string
	windows map[string]ipc.WindowInfo
}

func newFakeDesktop() *fakeDesktop {
	return &fakeDesktop{windows: map[string]ipc.WindowInfo{
		"w1": {ID: "w1", App: "terminal", Title: "Terminal", X: 0, Y: 40, Width: 640, Height: 420, Focused: true, Z: 0},
	}}
}

func (f *fakeDesktop) record(call string) { f.calls = append(f.calls, call) }

func (f *fakeDesktop) lookup(id string) (*ipc.WindowInfo, error) {
	w, ok := f.windows[id]
	if !ok {
		return nil, errors.New("desktop error: window not found")
	}
	return &w, nil
}

func (f *fakeDesktop) GetStatus() (*ipc.StatusData, error) {
	f.record("status")
	return &ipc.StatusData{Windows: len(f.windows), Profile: "cell", DaemonRunning: true}, nil
}

func (f *fakeDesktop) ListWindows() ([]ipc.WindowInfo, error) {
	f.record("list")
	var out []ipc.WindowInfo
	for _, w := range f.windows {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeDesktop) ListApps() (*ipc.AppsData, error) {
	f.record("apps")
	return &ipc.AppsData{Apps: apps.Builtin().List()}, nil
}

func (f *fakeDesktop) OpenApp(app string) (*ipc.WindowInfo, error) {
	f.record("open " + app)
	w := ipc.WindowInfo{ID: "w2", App: app, Title: app, X: 2, Y: 42, Width: 56, Height: 16, Focused: true}
	f.windows[w.ID] = w
	return &w, nil
}

func (f *fakeDesktop) Focus(id string) (*ipc.WindowInfo, error) {
	f.record("focus " + id)
	return f.lookup(id)
}

func (f *fakeDesktop) Minimize(id string) (*ipc.WindowInfo, error) {
	f.record("minimize " + id)
	w, err := f.lookup(id)
	if err != nil {
		return nil, err
	}
	w.Minimized, w.Focused, w.Z = true, false, -1
	return w, nil
}

func (f *fakeDesktop) ToggleMaximize(id string) (*ipc.WindowInfo, error) {
	f.record("maximize " + id)
	return f.lookup(id)
}

func (f *fakeDesktop) Close(id string) error {
	f.record("close " + id)
	if _, err := f.lookup(id); err != nil {
		return err
	}
	delete(f.windows, id)
	return nil
}

func (f *fakeDesktop) Snap(id, zone string) (*ipc.WindowInfo, error) {
	f.record("snap " + id + " " + zone)
	return f.lookup(id)
}

func (f *fakeDesktop) Drag(id string, dx, dy, steps int) (*ipc.WindowInfo, error) {
	f.record("drag " + id)
	return f.lookup(id)
}

func (f *fakeDesktop) DragTo(id string, x, y, steps int) (*ipc.WindowInfo, error) {
	f.record("drag-to " + id)
	return f.lookup(id)
}

func (f *fakeDesktop) Resize(id, handle string, dx, dy, steps int) (*ipc.WindowInfo, error) {
	f.record("resize " + id + " " + handle)
	return f.lookup(id)
}

func (f *fakeDesktop) Arrange(mode string) ([]ipc.WindowInfo, error) {
	f.record("arrange " + mode)
	return f.ListWindows()
}

func (f *fakeDesktop) SaveSession(name string) (*ipc.SessionData, error) {
	f.record("save " + name)
	return &ipc.SessionData{Name: name, Windows: len(f.windows)}, nil
}

func (f *fakeDesktop) LoadSession(name string) (*ipc.SessionData, error) {
	f.record("load " + name)
	return &ipc.SessionData{Name: name, Windows: 1}, nil
}

// connect serves s over an in-memory transport and returns a client session.
func connect(t *testing.T, s *Server) *mcpsdk.ClientSession {
	t.Helper()
	ctx := context.Background()
	serverT, clientT := mcpsdk.NewInMemoryTransports()

	ss, err := s.mcpServer.Connect(ctx, serverT, nil)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}
	t.Cleanup(func() { ss.Close() })

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test", Version: "0"}, nil)
	cs, err := client.Connect(ctx, clientT, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { cs.Close() })
	return cs
}

func callTool(t *testing.T, cs *mcpsdk.ClientSession, name string, args map[string]any) (*mcpsdk.CallToolResult, string) {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &mcpsdk.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		t.Fatalf("call %s: %v", name, err)
	}
	var text strings.Builder
	for _, c := range res.Content {
		if tc, ok := c.(*mcpsdk.TextContent); ok {
			text.WriteString(tc.Text)
		}
	}
	return res, text.String()
}

func TestListTools(t *testing.T) {
	cs := connect(t, NewServer(newFakeDesktop(), nil))

	res, err := cs.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	got := map[string]bool{}
	for _, tool := range res.Tools {
		got[tool.Name] = true
	}
	for _, name := range []string{
		"desktop_status", "list_windows", "list_apps", "open_app", "focus_window",
		"minimize_window", "maximize_window", "close_window", "snap_window",
		"drag_window", "resize_window", "arrange_windows", "save_session", "load_session",
	} {
		if !got[name] {
			t.Errorf("missing tool %q", name)
		}
	}
}

func TestTools_ForwardToDesktop(t *testing.T) {
	fake := newFakeDesktop()
	cs := connect(t, NewServer(fake, nil))

	tests := []struct {
		tool string
		args map[string]any
		call string
	}{
		{"desktop_status", nil, "status"},
		{"list_apps", nil, "apps"},
		{"open_app", map[string]any{"app": "files"}, "open files"},
		{"focus_window", map[string]any{"id": "w1"}, "focus w1"},
		{"maximize_window", map[string]any{"id": "w1"}, "maximize w1"},
		{"snap_window", map[string]any{"id": "w1", "zone": "left"}, "snap w1 left"},
		{"drag_window", map[string]any{"id": "w1", "dx": 5, "dy": 3}, "drag w1"},
		{"drag_window", map[string]any{"id": "w1", "x": 1, "y": 10}, "drag-to w1"},
		{"resize_window", map[string]any{"id": "w1", "handle": "left", "dx": 4, "dy": 0}, "resize w1 left"},
		{"arrange_windows", map[string]any{"mode": "tile"}, "arrange tile"},
		{"save_session", map[string]any{"name": "daily"}, "save daily"},
		{"load_session", map[string]any{"name": "daily"}, "load daily"},
		{"minimize_window", map[string]any{"id": "w1"}, "minimize w1"},
		{"close_window", map[string]any{"id": "w2"}, "close w2"},
	}

	for _, tt := range tests {
		fake.calls = nil
		res, text := callTool(t, cs, tt.tool, tt.args)
		if res.IsError {
			t.Fatalf("%s: unexpected error result %s", tt.tool, text)
		}
		if len(fake.calls) == 0 || fake.calls[0] != tt.call {
			t.Fatalf("%s: calls = %v, want %q", tt.tool, fake.calls, tt.call)
		}
	}
}

func TestTools_WindowOutput(t *testing.T) {
	cs := connect(t, NewServer(newFakeDesktop(), nil))

	_, text := callTool(t, cs, "minimize_window", map[string]any{"id": "w1"})
	var w ipc.WindowInfo
	if err := json.Unmarshal([]byte(text), &w); err != nil {
		t.Fatalf("decode %q: %v", text, err)
	}
	if w.ID != "w1" || !w.Minimized || w.Z != -1 {
		t.Fatalf("window = %+v", w)
	}
}

func TestTools_Errors(t *testing.T) {
	fake := newFakeDesktop()
	cs := connect(t, NewServer(fake, nil))

	tests := []struct {
		tool string
		args map[string]any
		want string
	}{
		{"focus_window", map[string]any{"id": " "}, "id is required"},
		{"focus_window", map[string]any{"id": "w9"}, "window not found"},
		{"open_app", map[string]any{"app": ""}, "app is required"},
		{"drag_window", map[string]any{"id": "w1", "x": 3}, "x and y must be given together"},
		{"close_window", map[string]any{"id": "w9"}, "window not found"},
		{"drag_window", map[string]any{"id": "w1", "dx": 5, "steps": 100000}, "steps must be between 0 and 1000"},
		{"resize_window", map[string]any{"id": "w1", "handle": "right", "dx": 5, "steps": -3}, "steps must be between 0 and 1000"},
	}

	for _, tt := range tests {
		fake.calls = nil
		res, text := callTool(t, cs, tt.tool, tt.args)
		if !res.IsError || !strings.Contains(text, tt.want) {
			t.Fatalf("%s %v: result = %q (error=%v), want %q", tt.tool, tt.args, text, res.IsError, tt.want)
		}
	}
}
