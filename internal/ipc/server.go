package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/mominos/mominos/internal/apps"
	"github.com/mominos/mominos/internal/config"
	"github.com/mominos/mominos/internal/desktop"
	"github.com/mominos/mominos/internal/runtimepath"
	"github.com/mominos/mominos/internal/tiling"
	"github.com/mominos/mominos/internal/wm"
)

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	desktop      *desktop.Desktop
	logger       *slog.Logger
	loadConfig   func() (*config.Config, error)
	reloadChan   chan struct{}
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server
func NewServer(d *desktop.Desktop, logger *slog.Logger, reloadChan chan struct{}) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		desktop:    d,
		logger:     logger,
		loadConfig: config.Load,
		reloadChan: reloadChan,
	}, nil
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string { return s.socketPath }

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", "socket", s.socketPath)

	go s.acceptLoop()

	return nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			s.logger.Warn("IPC accept error", "error", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("IPC read error", "error", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal response", "error", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Warn("failed to send response", "error", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	s.logger.Debug("IPC command", "command", string(req.Command))

	switch req.Command {
	case CommandReload:
		return s.handleReload()
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandListWindows:
		return s.handleListWindows()
	case CommandListApps:
		return s.handleListApps()
	case CommandOpenApp:
		return s.handleOpenApp(req.Payload)
	case CommandFocus:
		return s.handleWindowOp(req.Payload, "focus", s.desktop.Focus)
	case CommandMinimize:
		return s.handleWindowOp(req.Payload, "minimize", s.desktop.Minimize)
	case CommandToggleMaximize:
		return s.handleWindowOp(req.Payload, "maximize", s.desktop.ToggleMaximize)
	case CommandClose:
		return s.handleClose(req.Payload)
	case CommandSnap:
		return s.handleSnap(req.Payload)
	case CommandDrag:
		return s.handleDrag(req.Payload)
	case CommandResize:
		return s.handleResize(req.Payload)
	case CommandArrange:
		return s.handleArrange(req.Payload)
	case CommandSaveSession:
		return s.handleSaveSession(req.Payload)
	case CommandLoadSession:
		return s.handleLoadSession(req.Payload)
	case CommandFocusMove:
		return s.handleFocusMove(req.Payload)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

// handleReload reloads the configuration
func (s *Server) handleReload() *Response {
	s.logger.Info("IPC: received RELOAD command")

	newCfg, err := s.loadConfig()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}
	s.desktop.SetConfig(newCfg)

	// Notify the daemon (non-blocking)
	select {
	case s.reloadChan <- struct{}{}:
	default:
	}

	s.logger.Info("IPC: config reloaded")

	resp, _ := NewOKResponse(nil)
	return resp
}

// handleGetStatus returns current desktop status
func (s *Server) handleGetStatus() *Response {
	st := s.desktop.Status()
	now := time.Now()

	status := StatusData{
		Windows:       st.Windows,
		Minimized:     st.Minimized,
		Focused:       string(st.Focused),
		Profile:       st.Profile,
		Width:         st.Viewport.Width,
		Height:        st.Viewport.Height,
		Gesture:       st.Gesture,
		UptimeSeconds: int64(now.Sub(st.Started).Seconds()),
		Uptime:        apps.Uptime(st.Started, now),
		DaemonRunning: true,
	}

	resp, _ := NewOKResponse(status)
	return resp
}

func (s *Server) handleListWindows() *Response {
	windows := s.desktop.Windows()
	data := WindowsData{Windows: make([]WindowInfo, len(windows))}
	for i, w := range windows {
		data.Windows[i] = NewWindowInfo(w)
	}

	resp, _ := NewOKResponse(data)
	return resp
}

func (s *Server) handleListApps() *Response {
	resp, _ := NewOKResponse(AppsData{Apps: s.desktop.Registry().List()})
	return resp
}

func (s *Server) handleOpenApp(payload json.RawMessage) *Response {
	var req OpenAppPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid open payload: %v", err))
	}
	if req.App == "" {
		return NewErrorResponse("app is required")
	}

	w, err := s.desktop.OpenApp(req.App)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to open app: %v", err))
	}
	return s.windowResponse(w)
}

// parseWindowPayload decodes a payload naming a window.
func parseWindowPayload(payload json.RawMessage) (wm.ID, error) {
	var req WindowPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return "", fmt.Errorf("invalid window payload: %v", err)
	}
	if req.ID == "" {
		return "", fmt.Errorf("id is required")
	}
	return wm.ID(req.ID), nil
}

// handleWindowOp runs a single-window operation and returns the window.
func (s *Server) handleWindowOp(payload json.RawMessage, verb string, op func(wm.ID) error) *Response {
	id, err := parseWindowPayload(payload)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	if err := op(id); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to %s window: %v", verb, err))
	}

	w, err := s.desktop.Window(id)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return s.windowResponse(w)
}

func (s *Server) handleClose(payload json.RawMessage) *Response {
	id, err := parseWindowPayload(payload)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	if err := s.desktop.Close(id); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to close window: %v", err))
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleSnap(payload json.RawMessage) *Response {
	var req SnapPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid snap payload: %v", err))
	}
	if req.ID == "" {
		return NewErrorResponse("id is required")
	}
	zone, ok := wm.ParseZone(req.Zone)
	if !ok || zone == wm.ZoneNone {
		return NewErrorResponse(fmt.Sprintf("Unknown zone: %q (want left, right or maximize)", req.Zone))
	}

	id := wm.ID(req.ID)
	if err := s.desktop.Snap(id, zone); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to snap window: %v", err))
	}
	w, err := s.desktop.Window(id)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return s.windowResponse(w)
}

func (s *Server) handleDrag(payload json.RawMessage) *Response {
	var req DragPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid drag payload: %v", err))
	}
	if req.ID == "" {
		return NewErrorResponse("id is required")
	}
	if err := ValidateSteps(req.Steps); err != nil {
		return NewErrorResponse(err.Error())
	}

	var (
		w   desktop.WindowInfo
		err error
	)
	if req.To != nil {
		w, err = s.desktop.DragTo(wm.ID(req.ID), *req.To, req.Steps)
	} else {
		w, err = s.desktop.Drag(wm.ID(req.ID), req.DX, req.DY, req.Steps)
	}
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to drag window: %v", err))
	}
	return s.windowResponse(w)
}

func (s *Server) handleResize(payload json.RawMessage) *Response {
	var req ResizePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid resize payload: %v", err))
	}
	if req.ID == "" {
		return NewErrorResponse("id is required")
	}
	if err := ValidateSteps(req.Steps); err != nil {
		return NewErrorResponse(err.Error())
	}

	w, err := s.desktop.ResizeWindow(wm.ID(req.ID), wm.Handle(req.Handle), req.DX, req.DY, req.Steps)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to resize window: %v", err))
	}
	return s.windowResponse(w)
}

func (s *Server) handleFocusMove(payload json.RawMessage) *Response {
	var req FocusMovePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid focus payload: %v", err))
	}

	var (
		id  wm.ID
		err error
	)
	switch req.Direction {
	case "next":
		id, err = s.desktop.CycleFocus(1)
	case "prev":
		id, err = s.desktop.CycleFocus(-1)
	default:
		dir, perr := tiling.ParseDirection(req.Direction)
		if perr != nil {
			return NewErrorResponse(fmt.Sprintf("Unknown direction: %q (want up, down, left, right, next or prev)", req.Direction))
		}
		id, err = s.desktop.FocusDirection(dir)
	}
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to move focus: %v", err))
	}
	w, err := s.desktop.Window(id)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return s.windowResponse(w)
}

func (s *Server) handleArrange(payload json.RawMessage) *Response {
	var req ArrangePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid arrange payload: %v", err))
	}
	if err := s.desktop.Arrange(req.Mode); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to arrange windows: %v", err))
	}
	return s.handleListWindows()
}

func (s *Server) handleSaveSession(payload json.RawMessage) *Response {
	var req SessionPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid session payload: %v", err))
	}

	layout, err := s.desktop.SaveSession(req.Name)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to save session: %v", err))
	}

	resp, _ := NewOKResponse(SessionData{Name: layout.Name, Windows: len(layout.Windows)})
	return resp
}

func (s *Server) handleLoadSession(payload json.RawMessage) *Response {
	var req SessionPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid session payload: %v", err))
	}

	n, err := s.desktop.LoadSession(req.Name)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to load session: %v", err))
	}

	resp, _ := NewOKResponse(SessionData{Name: req.Name, Windows: n})
	return resp
}

func (s *Server) windowResponse(w desktop.WindowInfo) *Response {
	resp, err := NewOKResponse(NewWindowInfo(w))
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}
