package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/mominos/mominos/internal/runtimepath"
	"github.com/mominos/mominos/internal/tiling"
)

// Client handles IPC communication with the desktop
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}

	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to desktop: %w (is mominos running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("desktop error: %s", resp.Error)
	}

	return &resp, nil
}

// call sends command with an optional payload and decodes the response data
// into out when out is non-nil.
func (c *Client) call(command CommandType, payload any, out any) error {
	req := &Request{Command: command}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", command, err)
		}
		req.Payload = data
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", command, err)
	}
	return nil
}

// Reload sends a RELOAD command to the desktop
func (c *Client) Reload() error {
	return c.call(CommandReload, nil, nil)
}

// GetStatus retrieves desktop status
func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.call(CommandGetStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// ListWindows retrieves every open window in insertion order.
func (c *Client) ListWindows() ([]WindowInfo, error) {
	var data WindowsData
	if err := c.call(CommandListWindows, nil, &data); err != nil {
		return nil, err
	}
	return data.Windows, nil
}

// ListApps retrieves the installed apps.
func (c *Client) ListApps() (*AppsData, error) {
	var data AppsData
	if err := c.call(CommandListApps, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// OpenApp opens an app by id or name.
func (c *Client) OpenApp(app string) (*WindowInfo, error) {
	return c.windowCall(CommandOpenApp, OpenAppPayload{App: app})
}

// Focus brings a window to the front, restoring it if minimized.
func (c *Client) Focus(id string) (*WindowInfo, error) {
	return c.windowCall(CommandFocus, WindowPayload{ID: id})
}

// Minimize hides a window to the taskbar.
func (c *Client) Minimize(id string) (*WindowInfo, error) {
	return c.windowCall(CommandMinimize, WindowPayload{ID: id})
}

// ToggleMaximize maximizes or restores a window.
func (c *Client) ToggleMaximize(id string) (*WindowInfo, error) {
	return c.windowCall(CommandToggleMaximize, WindowPayload{ID: id})
}

// Close closes a window.
func (c *Client) Close(id string) error {
	return c.call(CommandClose, WindowPayload{ID: id}, nil)
}

// Snap moves a window into a snap zone (left, right or maximize).
func (c *Client) Snap(id, zone string) (*WindowInfo, error) {
	return c.windowCall(CommandSnap, SnapPayload{ID: id, Zone: zone})
}

// Drag drags a window by its title bar by (dx, dy).
func (c *Client) Drag(id string, dx, dy, steps int) (*WindowInfo, error) {
	return c.windowCall(CommandDrag, DragPayload{ID: id, DX: dx, DY: dy, Steps: steps})
}

// DragTo drags a window by its title bar and releases at (x, y).
func (c *Client) DragTo(id string, x, y, steps int) (*WindowInfo, error) {
	return c.windowCall(CommandDrag, DragPayload{ID: id, To: &tiling.Point{X: x, Y: y}, Steps: steps})
}

// Resize drags one of a window's resize handles by (dx, dy).
func (c *Client) Resize(id, handle string, dx, dy, steps int) (*WindowInfo, error) {
	return c.windowCall(CommandResize, ResizePayload{ID: id, Handle: handle, DX: dx, DY: dy, Steps: steps})
}

// FocusMove moves focus to a neighbouring window (up, down, left, right) or
// to the next or previous one (next, prev).
func (c *Client) FocusMove(direction string) (*WindowInfo, error) {
	return c.windowCall(CommandFocusMove, FocusMovePayload{Direction: direction})
}

// Arrange tiles or cascades the visible windows.
func (c *Client) Arrange(mode string) ([]WindowInfo, error) {
	var data WindowsData
	if err := c.call(CommandArrange, ArrangePayload{Mode: mode}, &data); err != nil {
		return nil, err
	}
	return data.Windows, nil
}

// SaveSession stores the current layout under name.
func (c *Client) SaveSession(name string) (*SessionData, error) {
	var data SessionData
	if err := c.call(CommandSaveSession, SessionPayload{Name: name}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// LoadSession replaces the open windows with a saved layout.
func (c *Client) LoadSession(name string) (*SessionData, error) {
	var data SessionData
	if err := c.call(CommandLoadSession, SessionPayload{Name: name}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) windowCall(command CommandType, payload any) (*WindowInfo, error) {
	var w WindowInfo
	if err := c.call(command, payload, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// Ping checks if the desktop is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
