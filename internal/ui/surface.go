package ui

import (
	"github.com/atomicstack/gossip-tui/internal/bridge"
	"github.com/atomicstack/gossip-tui/internal/logging/events"
	"github.com/atomicstack/gossip-tui/internal/notedata"
	uistate "github.com/atomicstack/gossip-tui/internal/ui/state"
)

var (
	_ bridge.Surface   = (*Model)(nil)
	_ bridge.Registrar = (*Model)(nil)
)

func (m *Model) AppPage() bridge.AppPage {
	return m.appPage
}

func (m *Model) MainPage() bridge.MainPage {
	return m.mainPage
}

func (m *Model) SetAppPage(page bridge.AppPage) {
	if page == m.appPage {
		return
	}
	m.appPage = page
	if page == bridge.AppPageWelcome {
		m.password.Focus()
	} else {
		m.password.Blur()
		m.password.Reset()
	}
	events.UI.Page(m.appPage.String(), m.mainPage.String())
}

func (m *Model) SetMainPage(page bridge.MainPage) {
	if page == m.mainPage {
		return
	}
	m.mainPage = page
	m.stopFiltering(true)
	events.UI.Page(m.appPage.String(), m.mainPage.String())
}

func (m *Model) SetSignerInfo(info bridge.SignerInfo) {
	m.signer = info
}

func (m *Model) SetFeedNotes(notes []notedata.Note) {
	m.notes = notes
	entries := make([]uistate.Entry, len(notes))
	for i, note := range notes {
		entries[i] = uistate.Entry{
			ID:    note.ID,
			Label: note.Author + " " + notedata.PlainText(note.Content),
			Index: i,
		}
	}
	m.feed.SetEntries(entries)
	m.syncViewport()
	events.UI.FeedNotes(len(notes))
}

func (m *Model) SetLoginError(message string) {
	m.loginError = message
}

// OnLogin registers the callback fired when the password is submitted. It
// runs off the event loop.
func (m *Model) OnLogin(fn func(password string)) {
	m.onLogin = fn
}

// OnRequestRecompute registers the callback fired by the refresh key.
func (m *Model) OnRequestRecompute(fn func()) {
	m.onRecompute = fn
}
