package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mominos/mominos/internal/ipc"
)

func (s *Server) handleStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ StatusInput) (*mcpsdk.CallToolResult, ipc.StatusData, error) {
	status, err := s.desktop.GetStatus()
	if err != nil {
		return nil, ipc.StatusData{}, err
	}
	return nil, *status, nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	windows, err := s.desktop.ListWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}
	return nil, ListWindowsOutput{Windows: nonNil(windows)}, nil
}

func (s *Server) handleListApps(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListAppsInput) (*mcpsdk.CallToolResult, ipc.AppsData, error) {
	data, err := s.desktop.ListApps()
	if err != nil {
		return nil, ipc.AppsData{}, err
	}
	return nil, *data, nil
}

func (s *Server) handleOpenApp(_ context.Context, _ *mcpsdk.CallToolRequest, args OpenAppInput) (*mcpsdk.CallToolResult, ipc.WindowInfo, error) {
	app := strings.TrimSpace(args.App)
	if app == "" {
		return nil, ipc.WindowInfo{}, fmt.Errorf("app is required")
	}
	w, err := s.desktop.OpenApp(app)
	if err != nil {
		return nil, ipc.WindowInfo{}, err
	}
	s.logger.Info("mcp: app opened", "app", w.App, "window", w.ID)
	return nil, *w, nil
}

// windowTool builds the handler for a tool that takes a window id and
// returns the window.
func (s *Server) windowTool(verb string, op func(id string) (*ipc.WindowInfo, error)) mcpsdk.ToolHandlerFor[WindowInput, ipc.WindowInfo] {
	return func(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, ipc.WindowInfo, error) {
		if err := requireID(args.ID); err != nil {
			return nil, ipc.WindowInfo{}, err
		}
		w, err := op(args.ID)
		if err != nil {
			return nil, ipc.WindowInfo{}, fmt.Errorf("%s %s: %w", verb, args.ID, err)
		}
		return nil, *w, nil
	}
}

func (s *Server) handleCloseWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, CloseWindowOutput, error) {
	if err := requireID(args.ID); err != nil {
		return nil, CloseWindowOutput{}, err
	}
	if err := s.desktop.Close(args.ID); err != nil {
		return nil, CloseWindowOutput{ID: args.ID}, err
	}
	s.logger.Info("mcp: window closed", "window", args.ID)
	return nil, CloseWindowOutput{ID: args.ID, Closed: true}, nil
}

func (s *Server) handleSnapWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args SnapWindowInput) (*mcpsdk.CallToolResult, ipc.WindowInfo, error) {
	if err := requireID(args.ID); err != nil {
		return nil, ipc.WindowInfo{}, err
	}
	w, err := s.desktop.Snap(args.ID, args.Zone)
	if err != nil {
		return nil, ipc.WindowInfo{}, err
	}
	return nil, *w, nil
}

func (s *Server) handleDragWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args DragWindowInput) (*mcpsdk.CallToolResult, ipc.WindowInfo, error) {
	if err := requireID(args.ID); err != nil {
		return nil, ipc.WindowInfo{}, err
	}
	if err := ipc.ValidateSteps(args.Steps); err != nil {
		return nil, ipc.WindowInfo{}, err
	}
	if (args.X == nil) != (args.Y == nil) {
		return nil, ipc.WindowInfo{}, fmt.Errorf("x and y must be given together")
	}

	var (
		w   *ipc.WindowInfo
		err error
	)
	if args.X != nil {
		w, err = s.desktop.DragTo(args.ID, *args.X, *args.Y, args.Steps)
	} else {
		w, err = s.desktop.Drag(args.ID, args.DX, args.DY, args.Steps)
	}
	if err != nil {
		return nil, ipc.WindowInfo{}, err
	}
	return nil, *w, nil
}

func (s *Server) handleResizeWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args ResizeWindowInput) (*mcpsdk.CallToolResult, ipc.WindowInfo, error) {
	if err := requireID(args.ID); err != nil {
		return nil, ipc.WindowInfo{}, err
	}
	if err := ipc.ValidateSteps(args.Steps); err != nil {
		return nil, ipc.WindowInfo{}, err
	}
	w, err := s.desktop.Resize(args.ID, args.Handle, args.DX, args.DY, args.Steps)
	if err != nil {
		return nil, ipc.WindowInfo{}, err
	}
	return nil, *w, nil
}

func (s *Server) handleArrangeWindows(_ context.Context, _ *mcpsdk.CallToolRequest, args ArrangeWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	windows, err := s.desktop.Arrange(args.Mode)
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}
	return nil, ListWindowsOutput{Windows: nonNil(windows)}, nil
}

func (s *Server) handleSaveSession(_ context.Context, _ *mcpsdk.CallToolRequest, args SessionInput) (*mcpsdk.CallToolResult, ipc.SessionData, error) {
	data, err := s.desktop.SaveSession(args.Name)
	if err != nil {
		return nil, ipc.SessionData{}, err
	}
	return nil, *data, nil
}

func (s *Server) handleLoadSession(_ context.Context, _ *mcpsdk.CallToolRequest, args SessionInput) (*mcpsdk.CallToolResult, ipc.SessionData, error) {
	data, err := s.desktop.LoadSession(args.Name)
	if err != nil {
		return nil, ipc.SessionData{}, err
	}
	return nil, *data, nil
}

func requireID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("id is required")
	}
	return nil
}

// nonNil keeps empty lists encoded as [] rather than null.
func nonNil(windows []ipc.WindowInfo) []ipc.WindowInfo {
	if windows == nil {
		return []ipc.WindowInfo{}
	}
	return windows
}
