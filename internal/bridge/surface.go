package bridge

import (
	"errors"

	"github.com/atomicstack/gossip-tui/internal/notedata"
)

// ErrUIClosed is returned by UI.Invoke once the UI loop has exited.
var ErrUIClosed = errors.New("ui closed")

// UI is the toolkit's thread-marshalling primitive. Invoke schedules fn to
// run on the UI loop and returns without waiting for it. Done is closed when
// the loop exits; closures scheduled after that point never run.
type UI interface {
	Invoke(fn func(Surface)) error
	Done() <-chan struct{}
}

// Surface is the set of UI-observable properties. It may only be used from
// inside a closure passed to UI.Invoke.
type Surface interface {
	AppPage() AppPage
	MainPage() MainPage
	SetAppPage(AppPage)
	SetMainPage(MainPage)
	SetSignerInfo(SignerInfo)
	SetFeedNotes([]notedata.Note)
	SetLoginError(string)
}

// Registrar accepts the UI-originated callbacks. OnLogin handlers are called
// off the UI loop since they block on the backend; OnRequestRecompute
// handlers never block and may be called from anywhere.
type Registrar interface {
	OnLogin(func(password string))
	OnRequestRecompute(func())
}

// SignerInfo mirrors the backend identity state.
type SignerInfo struct {
	HasPubkey  bool
	HasSigner  bool
	IsUnlocked bool
	PubkeyHex  string
	PubkeyBech string
}
