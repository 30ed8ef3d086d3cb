package ui

import (
	"github.com/atomicstack/gossip-tui/internal/bridge"
	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
)

// Harness drives the UI model programmatically for integration tests.
type Harness struct {
	model *Model
}

// NewHarness creates a harness for the provided model. Cursor blinking is
// switched off so commands returned by text inputs never wait on a timer.
func NewHarness(model *Model) *Harness {
	if model != nil {
		model.password.Cursor.SetMode(cursor.CursorStatic)
		model.filter.Cursor.SetMode(cursor.CursorStatic)
	}
	return &Harness{model: model}
}

// Send routes a message through the model and executes any returned commands.
func (h *Harness) Send(msg tea.Msg) {
	if h.model == nil {
		return
	}
	mdl, cmd := h.model.Update(msg)
	if updated, ok := mdl.(*Model); ok {
		h.model = updated
	}
	h.processCmd(cmd)
}

// Invoke runs fn as if a worker had scheduled it through a Toolkit.
func (h *Harness) Invoke(fn func(bridge.Surface)) {
	h.Send(invokeMsg{fn: fn})
}

// Type sends each rune of text as a key press.
func (h *Harness) Type(text string) {
	for _, r := range text {
		h.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// processCmd runs cmd and feeds its message back in. The chain ends at the
// first message the model has no handler for.
func (h *Harness) processCmd(cmd tea.Cmd) {
	for cmd != nil {
		msg := cmd()
		if h.model.handlerFor(msg) == nil {
			return
		}
		mdl, next := h.model.Update(msg)
		if updated, ok := mdl.(*Model); ok {
			h.model = updated
		}
		cmd = next
	}
}

// View returns the current view string.
func (h *Harness) View() string {
	if h.model == nil {
		return ""
	}
	return h.model.View()
}

// Model exposes the underlying model.
func (h *Harness) Model() *Model {
	return h.model
}
