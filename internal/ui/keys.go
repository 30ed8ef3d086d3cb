package ui

import (
	"github.com/atomicstack/gossip-tui/internal/bridge"
	"github.com/atomicstack/gossip-tui/internal/logging/events"
	"github.com/atomicstack/gossip-tui/internal/ui/command"
	tea "github.com/charmbracelet/bubbletea"
)

const loginCommandID = "login"

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if keyMsg.String() == "ctrl+c" {
		return tea.Quit
	}
	if m.appPage == bridge.AppPageWelcome {
		return m.handleWelcomeKey(keyMsg)
	}
	if m.filtering {
		return m.handleFilterKey(keyMsg)
	}
	return m.handleMainKey(keyMsg)
}

func (m *Model) handleWelcomeKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		return tea.Quit
	case "enter":
		return m.submitLogin()
	}
	var cmd tea.Cmd
	m.password, cmd = m.password.Update(msg)
	return cmd
}

func (m *Model) submitLogin() tea.Cmd {
	if m.unlocking || m.onLogin == nil {
		return nil
	}
	password := m.password.Value()
	m.password.Reset()
	m.unlocking = true
	login := m.onLogin
	return m.bus.Execute(command.Request{
		ID:    loginCommandID,
		Label: "unlock identity",
		Run:   func() { login(password) },
	})
}

func (m *Model) handleMainKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "esc":
		return tea.Quit
	case "tab", "right", "l":
		m.selectMainPage(m.mainPageOffset(1))
	case "shift+tab", "left", "h":
		m.selectMainPage(m.mainPageOffset(-1))
	case "1":
		m.selectMainPage(bridge.MainPageFeed)
	case "2":
		m.selectMainPage(bridge.MainPageInbox)
	case "3":
		m.selectMainPage(bridge.MainPageSettings)
	case "r":
		m.requestRecompute()
	case "/":
		if m.showsFeed() {
			m.filtering = true
			return m.filter.Focus()
		}
	case "up", "k":
		m.moveCursor(m.feed.MoveCursorUp)
	case "down", "j":
		m.moveCursor(m.feed.MoveCursorDown)
	case "pgup":
		m.moveCursor(func() bool { return m.feed.MoveCursorPageUp(m.maxVisibleNotes()) })
	case "pgdown":
		m.moveCursor(func() bool { return m.feed.MoveCursorPageDown(m.maxVisibleNotes()) })
	case "home", "g":
		m.moveCursor(m.feed.MoveCursorHome)
	case "end", "G":
		m.moveCursor(m.feed.MoveCursorEnd)
	}
	return nil
}

func (m *Model) handleFilterKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.stopFiltering(true)
		return nil
	case "enter":
		m.stopFiltering(false)
		return nil
	case "up":
		m.moveCursor(m.feed.MoveCursorUp)
		return nil
	case "down":
		m.moveCursor(m.feed.MoveCursorDown)
		return nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	if m.filter.Value() != m.feed.Filter {
		m.feed.SetFilter(m.filter.Value())
		m.syncViewport()
		events.Filter.Set(m.feed.ID, m.feed.Filter, m.feed.Len())
	}
	return cmd
}

// stopFiltering leaves filter mode; clear also drops the query.
func (m *Model) stopFiltering(clear bool) {
	m.filtering = false
	m.filter.Blur()
	if clear {
		m.filter.Reset()
		if m.feed.Filter != "" {
			m.feed.SetFilter("")
			m.syncViewport()
			events.Filter.Cleared(m.feed.ID)
		}
	}
}

// selectMainPage only changes the local selector; the worker notices on its
// next pull and switches the backend feed.
func (m *Model) selectMainPage(page bridge.MainPage) {
	m.SetMainPage(page)
}

func (m *Model) mainPageOffset(delta int) bridge.MainPage {
	pages := bridge.MainPages
	idx := 0
	for i, page := range pages {
		if page == m.mainPage {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(pages)) % len(pages)
	return pages[idx]
}

func (m *Model) requestRecompute() {
	if m.onRecompute == nil {
		return
	}
	m.onRecompute()
	events.UI.Recompute()
	m.setInfo("Refresh requested")
}

func (m *Model) moveCursor(move func() bool) {
	if !m.showsFeed() {
		return
	}
	if move() {
		events.UI.FeedCursor(m.feed.ID, m.feed.Cursor)
	}
	m.syncViewport()
}

func (m *Model) showsFeed() bool {
	return m.mainPage == bridge.MainPageFeed || m.mainPage == bridge.MainPageInbox
}

func (m *Model) syncViewport() {
	m.feed.EnsureCursorVisible(m.maxVisibleNotes())
}
