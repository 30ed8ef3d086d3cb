package bridge

import (
	"github.com/atomicstack/gossip-tui/internal/backend"
)

// AppPage is the coarse navigation selector. The zero value means "not set".
type AppPage int

const (
	AppPageUnset AppPage = iota
	AppPageWelcome
	AppPageMain
)

func (p AppPage) String() string {
	switch p {
	case AppPageUnset:
		return "unset"
	case AppPageWelcome:
		return "welcome"
	case AppPageMain:
		return "main"
	default:
		return "unknown"
	}
}

// MainPage is the fine-grained selector inside AppPageMain. The zero value
// means "not set".
type MainPage int

const (
	MainPageUnset MainPage = iota
	MainPageFeed
	MainPageInbox
	MainPageSettings
)

func (p MainPage) String() string {
	switch p {
	case MainPageUnset:
		return "unset"
	case MainPageFeed:
		return "feed"
	case MainPageInbox:
		return "inbox"
	case MainPageSettings:
		return "settings"
	default:
		return "unknown"
	}
}

// MainPages lists the selectable main pages in tab order.
var MainPages = []MainPage{MainPageFeed, MainPageInbox, MainPageSettings}

// PageEffects maps page identifiers to the backend feed they select.
// Pages absent from both maps have no side effect.
type PageEffects struct {
	App  map[AppPage]backend.FeedKind
	Main map[MainPage]backend.FeedKind
}

// DefaultPageEffects binds the feed tab to the direct inbox and the inbox tab
// to the inbox including replies to our own notes.
func DefaultPageEffects() PageEffects {
	return PageEffects{
		App: map[AppPage]backend.FeedKind{},
		Main: map[MainPage]backend.FeedKind{
			MainPageFeed:  backend.InboxFeed(false),
			MainPageInbox: backend.InboxFeed(true),
		},
	}
}

func (e PageEffects) forApp(p AppPage) (backend.FeedKind, bool) {
	kind, ok := e.App[p]
	return kind, ok
}

func (e PageEffects) forMain(p MainPage) (backend.FeedKind, bool) {
	kind, ok := e.Main[p]
	return kind, ok
}
