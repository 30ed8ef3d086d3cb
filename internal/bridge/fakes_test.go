package bridge

import (
	"sync"
	"time"

	"github.com/atomicstack/gossip-tui/internal/backend"
	"github.com/atomicstack/gossip-tui/internal/mailbox"
	"github.com/atomicstack/gossip-tui/internal/notedata"
)

type fakeGateway struct {
	mu          sync.Mutex
	password    string
	identity    backend.PublicIdentity
	hasIdentity bool
	hasKey      bool
	unlocked    bool
	computed    time.Time
	ids         []backend.ItemID
	items       map[backend.ItemID]backend.Item
	switched    []backend.FeedKind
	recomputes  int
	onRecompute func()
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{password: "hunter2", items: map[backend.ItemID]backend.Item{}}
}

func (g *fakeGateway) UnlockIdentity(secret string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if secret == "" {
		return backend.ErrEmptyPassword
	}
	if secret != g.password {
		return backend.ErrBadPassword
	}
	g.identity[0] = 0x42
	g.hasIdentity = true
	g.hasKey = true
	g.unlocked = true
	return nil
}

func (g *fakeGateway) CurrentIdentity() (backend.PublicIdentity, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.identity, g.hasIdentity
}

func (g *fakeGateway) IdentityHasPrivateKey() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.hasKey
}

func (g *fakeGateway) IdentityIsUnlocked() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.unlocked
}

func (g *fakeGateway) FeedLastRecomputeTime() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.computed
}

func (g *fakeGateway) FeedItemIDs() []backend.ItemID {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]backend.ItemID(nil), g.ids...)
}

func (g *fakeGateway) ReadItem(id backend.ItemID) (backend.Item, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	item, ok := g.items[id]
	return item, ok
}

func (g *fakeGateway) SwitchFeed(kind backend.FeedKind) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.switched = append(g.switched, kind)
}

func (g *fakeGateway) RequestRecompute() {
	g.mu.Lock()
	g.recomputes++
	hook := g.onRecompute
	g.mu.Unlock()
	if hook != nil {
		hook()
	}
}

func (g *fakeGateway) setFeed(computed time.Time, ids ...backend.ItemID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.computed = computed
	g.ids = ids
}

func (g *fakeGateway) addItem(id backend.ItemID, content string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.items[id] = backend.Item{ID: id, CreatedAt: 1700000000, Kind: 1, Content: content}
}

func (g *fakeGateway) switches() []backend.FeedKind {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]backend.FeedKind(nil), g.switched...)
}

// fakeUI runs closures synchronously under its mutex, which stands in for
// the single UI loop.
type fakeUI struct {
	mu     sync.Mutex
	closed bool
	done   chan struct{}
	state  uiState
}

type uiState struct {
	appPage        AppPage
	mainPage       MainPage
	signer         SignerInfo
	signerWrites   int
	notes          []notedata.Note
	noteWrites     int
	loginError     string
	loginErrWrites int
}

func newFakeUI(appPage AppPage, mainPage MainPage) *fakeUI {
	return &fakeUI{state: uiState{appPage: appPage, mainPage: mainPage}, done: make(chan struct{})}
}

func (u *fakeUI) Invoke(fn func(Surface)) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.closed {
		return ErrUIClosed
	}
	fn(fakeSurface{&u.state})
	return nil
}

func (u *fakeUI) Done() <-chan struct{} {
	return u.done
}

func (u *fakeUI) close() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if !u.closed {
		u.closed = true
		close(u.done)
	}
}

func (u *fakeUI) navigate(appPage AppPage, mainPage MainPage) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.state.appPage = appPage
	u.state.mainPage = mainPage
}

func (u *fakeUI) snapshot() uiState {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.state
}

type fakeSurface struct {
	s *uiState
}

func (f fakeSurface) AppPage() AppPage { return f.s.appPage }

func (f fakeSurface) MainPage() MainPage { return f.s.mainPage }

func (f fakeSurface) SetAppPage(p AppPage) { f.s.appPage = p }

func (f fakeSurface) SetMainPage(p MainPage) { f.s.mainPage = p }

func (f fakeSurface) SetSignerInfo(info SignerInfo) {
	f.s.signer = info
	f.s.signerWrites++
}

func (f fakeSurface) SetFeedNotes(notes []notedata.Note) {
	f.s.notes = notes
	f.s.noteWrites++
}

func (f fakeSurface) SetLoginError(message string) {
	f.s.loginError = message
	f.s.loginErrWrites++
}

type fakeRegistrar struct {
	login     func(string)
	recompute func()
}

func (r *fakeRegistrar) OnLogin(fn func(string)) { r.login = fn }

func (r *fakeRegistrar) OnRequestRecompute(fn func()) { r.recompute = fn }

type fixture struct {
	gw       *fakeGateway
	ui       *fakeUI
	app      *App
	facade   *Facade
	fromUI   *mailbox.Receiver[ToWorker]
	requests *mailbox.Receiver[ToUi]
}

func newFixture(appPage AppPage, mainPage MainPage) *fixture {
	toWorker, fromUI := mailbox.New[ToWorker]()
	toUI, requests := mailbox.New[ToUi]()
	app := NewApp(toWorker, toUI, DefaultPageEffects())
	gw := newFakeGateway()
	ui := newFakeUI(appPage, mainPage)
	return &fixture{
		gw:       gw,
		ui:       ui,
		app:      app,
		facade:   NewFacade(app, gw, ui),
		fromUI:   fromUI,
		requests: requests,
	}
}
