package command

import (
	"github.com/atomicstack/gossip-tui/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
)

// Request is a UI-originated callback that must not run on the event loop.
type Request struct {
	ID    string
	Label string
	Run   func()
}

// Done is delivered to the model once a request has finished.
type Done struct {
	ID string
}

// Bus runs UI callbacks as Bubble Tea commands.
type Bus struct{}

// New initialises a command bus instance.
func New() *Bus {
	return &Bus{}
}

// Execute wraps req into a command that runs off the event loop and reports
// completion with Done.
func (b *Bus) Execute(req Request) tea.Cmd {
	events.Command.Queue(req.ID, req.Label)
	return func() tea.Msg {
		if req.Run == nil {
			events.Command.Skip(req.ID, req.Label)
			return Done{ID: req.ID}
		}
		req.Run()
		events.Command.Done(req.ID, req.Label)
		return Done{ID: req.ID}
	}
}
