package ui

import (
	"reflect"
	"time"

	"github.com/atomicstack/gossip-tui/internal/bridge"
	"github.com/atomicstack/gossip-tui/internal/notedata"
	"github.com/atomicstack/gossip-tui/internal/theme"
	"github.com/atomicstack/gossip-tui/internal/ui/command"
	uistate "github.com/atomicstack/gossip-tui/internal/ui/state"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	appTitle   = "gossip"
	feedListID = "feed"
	infoTTL    = 5 * time.Second
)

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// invokeMsg carries a closure scheduled onto the event loop.
type invokeMsg struct {
	fn func(bridge.Surface)
}

// Model implements the Bubble Tea model and the bridge's UI surface.
type Model struct {
	appPage    bridge.AppPage
	mainPage   bridge.MainPage
	signer     bridge.SignerInfo
	notes      []notedata.Note
	feed       *uistate.List
	loginError string
	unlocking  bool

	infoMsg    string
	infoExpire time.Time
	now        func() time.Time

	password  textinput.Model
	filter    textinput.Model
	filtering bool

	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool

	handlers map[reflect.Type]msgHandler
	bus      *command.Bus

	onLogin     func(string)
	onRecompute func()
}

// NewModel starts on the welcome page with the feed tab selected. A positive
// width or height pins that dimension regardless of resize events.
func NewModel(width, height int) *Model {
	m := &Model{
		appPage:  bridge.AppPageWelcome,
		mainPage: bridge.MainPageFeed,
		feed:     uistate.NewList(feedListID),
		bus:      command.New(),
		now:      time.Now,
		password: newPasswordInput(),
		filter:   newFilterInput(),
	}
	if width > 0 {
		m.width = width
		m.fixedWidth = true
	}
	if height > 0 {
		m.height = height
		m.fixedHeight = true
	}
	m.registerHandlers()
	return m
}

func newPasswordInput() textinput.Model {
	ti := textinput.New()
	ti.Prompt = "password: "
	ti.Placeholder = "unlock or create your identity"
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.PromptStyle = *styles.FilterPrompt
	ti.TextStyle = *styles.Filter
	ti.PlaceholderStyle = *styles.FilterPlaceholder
	ti.Cursor.Style = *styles.Cursor
	ti.Focus()
	return ti
}

func newFilterInput() textinput.Model {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "filter notes"
	ti.PromptStyle = *styles.FilterPrompt
	ti.TextStyle = *styles.Filter
	ti.PlaceholderStyle = *styles.FilterPlaceholder
	ti.Cursor.Style = *styles.Cursor
	return ti
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handler := m.handlerFor(msg); handler != nil {
		return m, handler(msg)
	}
	return m, m.updateInputs(msg)
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(invokeMsg{}):         m.handleInvokeMsg,
		reflect.TypeOf(command.Done{}):      m.handleCommandDoneMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) handleInvokeMsg(msg tea.Msg) tea.Cmd {
	invoke, ok := msg.(invokeMsg)
	if !ok || invoke.fn == nil {
		return nil
	}
	invoke.fn(m)
	return nil
}

func (m *Model) handleCommandDoneMsg(msg tea.Msg) tea.Cmd {
	done, ok := msg.(command.Done)
	if !ok {
		return nil
	}
	if done.ID == loginCommandID {
		m.unlocking = false
	}
	return nil
}

// updateInputs forwards non-key messages (cursor blinks) to the focused input.
func (m *Model) updateInputs(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch {
	case m.appPage == bridge.AppPageWelcome:
		m.password, cmd = m.password.Update(msg)
	case m.filtering:
		m.filter, cmd = m.filter.Update(msg)
	}
	return cmd
}

func (m *Model) setInfo(message string) {
	m.infoMsg = message
	m.infoExpire = m.now().Add(infoTTL)
}

func (m *Model) currentInfo() string {
	if m.infoMsg != "" && m.now().After(m.infoExpire) {
		m.infoMsg = ""
		m.infoExpire = time.Time{}
	}
	return m.infoMsg
}
