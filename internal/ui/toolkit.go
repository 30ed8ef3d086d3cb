package ui

import (
	"sync"

	"github.com/atomicstack/gossip-tui/internal/bridge"
	tea "github.com/charmbracelet/bubbletea"
)

// Toolkit exposes a running Bubble Tea program as a bridge.UI.
type Toolkit struct {
	mu      sync.RWMutex
	program *tea.Program
	done    chan struct{}
	once    sync.Once
}

var _ bridge.UI = (*Toolkit)(nil)

// NewToolkit returns a toolkit with no program attached.
func NewToolkit() *Toolkit {
	return &Toolkit{done: make(chan struct{})}
}

// Attach sets the program closures are delivered to.
func (t *Toolkit) Attach(p *tea.Program) {
	t.mu.Lock()
	t.program = p
	t.mu.Unlock()
}

// Invoke schedules fn on the event loop. It blocks only until the loop has
// accepted the message, not until fn has run.
func (t *Toolkit) Invoke(fn func(bridge.Surface)) error {
	select {
	case <-t.done:
		return bridge.ErrUIClosed
	default:
	}
	t.mu.RLock()
	p := t.program
	t.mu.RUnlock()
	if p == nil {
		return bridge.ErrUIClosed
	}
	p.Send(invokeMsg{fn: fn})
	return nil
}

// Done is closed by MarkDone.
func (t *Toolkit) Done() <-chan struct{} {
	return t.done
}

// MarkDone records that the program's event loop has returned. Closures
// already handed over but not yet run are dropped.
func (t *Toolkit) MarkDone() {
	t.once.Do(func() { close(t.done) })
}
