// Package mcp exposes the desktop to agents as an MCP server. Tools are
// served over stdio and forwarded to a running desktop through its control
// socket.
package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mominos/mominos/internal/apps"
	"github.com/mominos/mominos/internal/ipc"
)

const ServerName = "mominos"

// Desktop is the control surface the tools drive. *ipc.Client implements it.
type Desktop interface {
	GetStatus() (*ipc.StatusData, error)
	ListWindows() ([]ipc.WindowInfo, error)
	ListApps() (*ipc.AppsData, error)
	OpenApp(app string) (*ipc.WindowInfo, error)
	Focus(id string) (*ipc.WindowInfo, error)
	Minimize(id string) (*ipc.WindowInfo, error)
	ToggleMaximize(id string) (*ipc.WindowInfo, error)
	Close(id string) error
	Snap(id, zone string) (*ipc.WindowInfo, error)
	Drag(id string, dx, dy, steps int) (*ipc.WindowInfo, error)
	DragTo(id string, x, y, steps int) (*ipc.WindowInfo, error)
	Resize(id, handle string, dx, dy, steps int) (*ipc.WindowInfo, error)
	Arrange(mode string) ([]ipc.WindowInfo, error)
	SaveSession(name string) (*ipc.SessionData, error)
	LoadSession(name string) (*ipc.SessionData, error)
}

var _ Desktop = (*ipc.Client)(nil)

// Server is the MCP server for desktop control.
type Server struct {
	mcpServer *mcpsdk.Server
	desktop   Desktop
	logger    *slog.Logger
}

// NewServer creates an MCP server driving desktop.
func NewServer(desktop Desktop, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		desktop: desktop,
		logger:  logger,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: apps.Version,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "desktop_status",
		Description: "Report the desktop size, geometry profile, window counts, the focused window and uptime.",
	}, s.handleStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List every open window in insertion order with its id, app, bounds, minimized/maximized/snapped state, focus and stacking position (z, -1 when minimized).",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_apps",
		Description: "List the apps that can be opened in a window.",
	}, s.handleListApps)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "open_app",
		Description: "Open an app in a new focused window at the next cascade position. Singleton apps that are already open are restored and focused instead.",
	}, s.handleOpenApp)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus_window",
		Description: "Bring a window to the front and give it focus, restoring it first if it is minimized.",
	}, s.windowTool("focus", s.desktop.Focus))

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "minimize_window",
		Description: "Hide a window to the taskbar. If it had focus, no window is focused afterwards.",
	}, s.windowTool("minimize", s.desktop.Minimize))

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "maximize_window",
		Description: "Toggle a window between filling the work area and its previous position and size.",
	}, s.windowTool("maximize", s.desktop.ToggleMaximize))

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_window",
		Description: "Close a window and the app inside it.",
	}, s.handleCloseWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "snap_window",
		Description: "Snap a window to the left or right half of the work area, or maximize it.",
	}, s.handleSnapWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "drag_window",
		Description: "Drag a window by its title bar, either by a relative offset or to an absolute release point. Releasing within the snap margin of the left, right or top edge snaps the window there.",
	}, s.handleDragWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "resize_window",
		Description: "Resize a window from one of its eight handles. The size never drops below the minimum and the opposite edge stays fixed. Maximized windows cannot be resized.",
	}, s.handleResizeWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "arrange_windows",
		Description: "Lay out all visible windows as a grid (tile) or a diagonal stack (cascade).",
	}, s.handleArrangeWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "save_session",
		Description: "Save the current windows as a named session.",
	}, s.handleSaveSession)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "load_session",
		Description: "Replace the open windows with a saved session.",
	}, s.handleLoadSession)
}
