// Package tui is an interactive canvas inspector: a live table of the
// elements the daemon is tracking, with keybindings to create, focus,
// minimize, and remove them.
package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/deskcanvas/deskcanvas/internal/ipc"
)

// Run starts the inspector, blocking until the user quits.
func Run() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	p := tea.NewProgram(newModel(ipc.NewClient()), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
