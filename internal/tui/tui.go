// Package tui draws a desktop in the terminal. Each character cell is one
// unit of desktop geometry; mouse input drives the window manager and keys
// go to the focused app.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/mominos/mominos/internal/desktop"
)

// Run shows d full screen until the user quits or ctx is cancelled.
func Run(ctx context.Context, d *desktop.Desktop, logger *slog.Logger) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("desktop requires an interactive terminal (stdin/stdout must be TTYs)")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	updates, cancel := d.Subscribe()
	defer cancel()

	p := tea.NewProgram(
		newModel(d, logger, updates),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}
