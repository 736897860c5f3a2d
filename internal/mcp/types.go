package mcp

import "github.com/mominos/mominos/internal/ipc"

// StatusInput is the input for the desktop_status tool.
type StatusInput struct{}

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct{}

// ListWindowsOutput is the output for the list_windows and arrange_windows tools.
type ListWindowsOutput struct {
	Windows []ipc.WindowInfo `json:"windows"`
}

// ListAppsInput is the input for the list_apps tool.
type ListAppsInput struct{}

// OpenAppInput is the input for the open_app tool.
type OpenAppInput struct {
	App string `json:"app" jsonschema:"App id or name, e.g. terminal, files, calculator. Close matches are accepted."`
}

// WindowInput names the target window of focus, minimize, maximize and close.
type WindowInput struct {
	ID string `json:"id" jsonschema:"Window id as reported by list_windows (e.g. w3)"`
}

// CloseWindowOutput is the output for the close_window tool.
type CloseWindowOutput struct {
	ID     string `json:"id"`
	Closed bool   `json:"closed"`
}

// SnapWindowInput is the input for the snap_window tool.
type SnapWindowInput struct {
	ID   string `json:"id" jsonschema:"Window id"`
	Zone string `json:"zone" jsonschema:"Snap zone: left, right or maximize"`
}

// DragWindowInput is the input for the drag_window tool.
type DragWindowInput struct {
	ID    string `json:"id" jsonschema:"Window id"`
	DX    int    `json:"dx,omitempty" jsonschema:"Horizontal pointer movement"`
	DY    int    `json:"dy,omitempty" jsonschema:"Vertical pointer movement; the window never moves above the menu bar"`
	X     *int   `json:"x,omitempty" jsonschema:"Absolute release x; when x and y are set dx/dy are ignored. Releasing near the left, right or top edge snaps the window."`
	Y     *int   `json:"y,omitempty" jsonschema:"Absolute release y"`
	Steps int    `json:"steps,omitempty" jsonschema:"Number of pointer moves to split the drag into (default: 4)"`
}

// ResizeWindowInput is the input for the resize_window tool.
type ResizeWindowInput struct {
	ID     string `json:"id" jsonschema:"Window id"`
	Handle string `json:"handle" jsonschema:"Resize handle: top, bottom, left, right, top-left, top-right, bottom-left or bottom-right"`
	DX     int    `json:"dx" jsonschema:"Horizontal handle movement"`
	DY     int    `json:"dy" jsonschema:"Vertical handle movement"`
	Steps  int    `json:"steps,omitempty" jsonschema:"Number of pointer moves to split the resize into (default: 4)"`
}

// ArrangeWindowsInput is the input for the arrange_windows tool.
type ArrangeWindowsInput struct {
	Mode string `json:"mode" jsonschema:"Arrangement: tile (grid) or cascade"`
}

// SessionInput is the input for the save_session and load_session tools.
type SessionInput struct {
	Name string `json:"name" jsonschema:"Session name"`
}
