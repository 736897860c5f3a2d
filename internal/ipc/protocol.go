package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/mominos/mominos/internal/apps"
	"github.com/mominos/mominos/internal/desktop"
	"github.com/mominos/mominos/internal/tiling"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload         CommandType = "RELOAD"
	CommandGetStatus      CommandType = "GET_STATUS"
	CommandListWindows    CommandType = "LIST_WINDOWS"
	CommandListApps       CommandType = "LIST_APPS"
	CommandOpenApp        CommandType = "OPEN_APP"
	CommandFocus          CommandType = "FOCUS"
	CommandMinimize       CommandType = "MINIMIZE"
	CommandToggleMaximize CommandType = "TOGGLE_MAXIMIZE"
	CommandClose          CommandType = "CLOSE"
	CommandSnap           CommandType = "SNAP"
	CommandDrag           CommandType = "DRAG"
	CommandResize         CommandType = "RESIZE"
	CommandArrange        CommandType = "ARRANGE"
	CommandSaveSession    CommandType = "SAVE_SESSION"
	CommandLoadSession    CommandType = "LOAD_SESSION"
	CommandFocusMove      CommandType = "FOCUS_MOVE"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	Windows       int    `json:"windows"`
	Minimized     int    `json:"minimized"`
	Focused       string `json:"focused,omitempty"`
	Profile       string `json:"geometry_profile"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	Gesture       string `json:"gesture,omitempty"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Uptime        string `json:"uptime"`
	DaemonRunning bool   `json:"daemon_running"`
}

// WindowInfo describes one window on the wire.
type WindowInfo struct {
	ID        string `json:"id"`
	App       string `json:"app"`
	Title     string `json:"title"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Minimized bool   `json:"minimized"`
	Maximized bool   `json:"maximized"`
	Snapped   string `json:"snapped,omitempty"`
	Focused   bool   `json:"focused"`
	Z         int    `json:"z"`
}

// WindowsData represents the data returned by LIST_WINDOWS
type WindowsData struct {
	Windows []WindowInfo `json:"windows"`
}

// AppsData represents the data returned by LIST_APPS
type AppsData struct {
	Apps []apps.Info `json:"apps"`
}

type OpenAppPayload struct {
	App string `json:"app"`
}

// WindowPayload names the target of FOCUS, MINIMIZE, TOGGLE_MAXIMIZE and CLOSE.
type WindowPayload struct {
	ID string `json:"id"`
}

type SnapPayload struct {
	ID   string `json:"id"`
	Zone string `json:"zone"`
}

// DragPayload moves a window by (dx, dy), or releases the pointer at To when
// it is set.
type DragPayload struct {
	ID    string        `json:"id"`
	DX    int           `json:"dx,omitempty"`
	DY    int           `json:"dy,omitempty"`
	To    *tiling.Point `json:"to,omitempty"`
	Steps int           `json:"steps,omitempty"`
}

type ResizePayload struct {
	ID     string `json:"id"`
	Handle string `json:"handle"`
	DX     int    `json:"dx"`
	DY     int    `json:"dy"`
	Steps  int    `json:"steps,omitempty"`
}

// ValidateSteps rejects gesture step counts outside [0, desktop.MaxSteps].
// Zero selects the default.
func ValidateSteps(steps int) error {
	if steps < 0 || steps > desktop.MaxSteps {
		return fmt.Errorf("steps must be between 0 and %d, got %d", desktop.MaxSteps, steps)
	}
	return nil
}

// FocusMovePayload moves focus spatially (up, down, left, right) or through
// the opening order (next, prev).
type FocusMovePayload struct {
	Direction string `json:"direction"`
}

type ArrangePayload struct {
	Mode string `json:"mode"`
}

type SessionPayload struct {
	Name string `json:"name"`
}

// SessionData reports the outcome of SAVE_SESSION and LOAD_SESSION.
type SessionData struct {
	Name    string `json:"name"`
	Windows int    `json:"windows"`
}

// NewWindowInfo converts a desktop window to its wire form.
func NewWindowInfo(w desktop.WindowInfo) WindowInfo {
	info := WindowInfo{
		ID:        string(w.ID),
		App:       w.App,
		Title:     w.Title,
		X:         w.Bounds.X,
		Y:         w.Bounds.Y,
		Width:     w.Bounds.Width,
		Height:    w.Bounds.Height,
		Minimized: w.Minimized,
		Maximized: w.Maximized,
		Focused:   w.Focused,
		Z:         w.Z,
	}
	if w.Snapped != "" {
		info.Snapped = string(w.Snapped)
	}
	return info
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
