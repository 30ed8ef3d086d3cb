package bridge

import (
	"sync"
	"time"

	"github.com/atomicstack/gossip-tui/internal/mailbox"
)

// State is the part of App guarded by its lock.
type State struct {
	AppPage        AppPage
	MainPage       MainPage
	LastFeedSync   time.Time
	SignerUnlocked bool
}

// App is the state shared between the UI loop and the worker.
type App struct {
	mu    sync.RWMutex
	state State

	toWorker *mailbox.Sender[ToWorker]
	toUI     *mailbox.Sender[ToUi]
	effects  PageEffects
}

// NewApp returns an App with empty state that owns the given senders.
func NewApp(toWorker *mailbox.Sender[ToWorker], toUI *mailbox.Sender[ToUi], effects PageEffects) *App {
	return &App{toWorker: toWorker, toUI: toUI, effects: effects}
}

// Read runs fn with a shared lock held.
func (a *App) Read(fn func(State)) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	fn(a.state)
}

// Write runs fn with the exclusive lock held.
func (a *App) Write(fn func(*State)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fn(&a.state)
}

// Snapshot returns a copy of the guarded state.
func (a *App) Snapshot() State {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

// ToWorker returns the UI-facing sender of the worker channel.
func (a *App) ToWorker() *mailbox.Sender[ToWorker] {
	return a.toWorker
}

// ToUI returns the worker-facing sender of the UI channel.
func (a *App) ToUI() *mailbox.Sender[ToUi] {
	return a.toUI
}

// Close drops both senders. Receivers report disconnection once every
// clone has been closed too.
func (a *App) Close() {
	a.toWorker.Close()
	a.toUI.Close()
}
