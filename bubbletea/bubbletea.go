// Package bubbletea provides a Bubble Tea TUI for the chatstream client.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fwojciec/chatstream"
)

// Run creates and runs the Bubble Tea TUI program. It blocks until the
// program exits. Cancelling the context quits the program.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// StreamEventMsg wraps a decoded stream event for delivery to the model.
// Seq identifies the exchange the event belongs to.
type StreamEventMsg struct {
	Seq   int
	Event chatstream.Event
}

// StreamDoneMsg signals that an exchange has finished. Err is nil for normal
// completion, context.Canceled for an aborted exchange, or a transport error.
type StreamDoneMsg struct {
	Seq int
	Err error
}
