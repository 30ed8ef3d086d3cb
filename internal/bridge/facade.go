package bridge

import (
	"context"
	"errors"
	"time"

	"github.com/atomicstack/gossip-tui/internal/backend"
	"github.com/atomicstack/gossip-tui/internal/logging"
	"github.com/atomicstack/gossip-tui/internal/logging/events"
	"github.com/atomicstack/gossip-tui/internal/notedata"
)

// Facade reconciles UI properties with App and the backend.
type Facade struct {
	app *App
	gw  backend.Gateway
	ui  UI
	now func() time.Time
}

// NewFacade wires a facade. The gateway and UI are injected so either side can
// be replaced in tests.
func NewFacade(app *App, gw backend.Gateway, ui UI) *Facade {
	return &Facade{app: app, gw: gw, ui: ui, now: time.Now}
}

// Init registers the UI callbacks. It is called once at startup.
func (f *Facade) Init(reg Registrar) {
	reg.OnLogin(f.login)

	toWorker := f.app.ToWorker().Clone()
	reg.OnRequestRecompute(func() {
		if err := toWorker.Send(RequestRecompute{}); err != nil {
			events.Facade.SendFailed(RequestRecompute{}.Kind(), err)
		}
	})
}

func (f *Facade) login(password string) {
	err := f.gw.UnlockIdentity(password)
	events.Facade.Login(err == nil)
	message := ""
	if err != nil {
		logging.Error(err)
		message = loginErrorMessage(err)
	}
	if invokeErr := f.ui.Invoke(func(s Surface) { s.SetLoginError(message) }); invokeErr != nil {
		events.Facade.UIClosed("login")
	}
}

func loginErrorMessage(err error) string {
	switch {
	case errors.Is(err, backend.ErrBadPassword):
		return "Incorrect password."
	case errors.Is(err, backend.ErrEmptyPassword):
		return "Enter a password."
	default:
		return "Unlock failed: " + err.Error()
	}
}

// UpdateFromUI is the pull phase. It reads the UI's navigation selectors on
// the UI loop and records any difference in App, enqueueing one PageChange.
// It returns once the closure has run or the UI loop has gone away.
func (f *Facade) UpdateFromUI(ctx context.Context) error {
	done := make(chan struct{})
	err := f.ui.Invoke(func(s Surface) {
		defer close(done)
		f.pull(s)
	})
	if errors.Is(err, ErrUIClosed) {
		events.Facade.UIClosed("pull")
		return nil
	}
	if err != nil {
		return err
	}
	select {
	case <-done:
	case <-f.ui.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

// pull runs on the UI loop.
func (f *Facade) pull(s Surface) {
	appPage := s.AppPage()
	mainPage := s.MainPage()
	f.app.Write(func(st *State) {
		var change PageChange
		if appPage != AppPageUnset && appPage != st.AppPage {
			change.App = appPage
			st.AppPage = appPage
		}
		if mainPage != MainPageUnset && mainPage != st.MainPage {
			change.Main = mainPage
			st.MainPage = mainPage
		}
		if change.Empty() {
			return
		}
		events.Facade.PageChange(change.App.String(), change.Main.String())
		if err := f.app.ToWorker().Send(change); err != nil {
			events.Facade.SendFailed(change.Kind(), err)
		}
	})
}

// UpdateFromBackend is the push phase. Signer info is written every call; the
// feed is rebuilt only when the backend's recompute time has moved.
func (f *Facade) UpdateFromBackend(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	signer := f.signerInfo()

	var unlocked bool
	f.app.Write(func(st *State) {
		unlocked = signer.IsUnlocked && !st.SignerUnlocked
		st.SignerUnlocked = signer.IsUnlocked
	})
	if unlocked {
		f.requestPage(RequestPage{App: AppPageMain, Main: MainPageFeed})
	}
	if !f.invoke("signer", func(s Surface) { s.SetSignerInfo(signer) }) {
		return nil
	}

	computed := f.gw.FeedLastRecomputeTime()
	stale := false
	f.app.Write(func(st *State) {
		if !st.LastFeedSync.Equal(computed) {
			st.LastFeedSync = computed
			stale = true
		}
	})
	if !stale {
		return nil
	}
	notes := f.feedNotes()
	f.invoke("feed", func(s Surface) { s.SetFeedNotes(notes) })
	return nil
}

func (f *Facade) signerInfo() SignerInfo {
	info := SignerInfo{
		HasSigner:  f.gw.IdentityHasPrivateKey(),
		IsUnlocked: f.gw.IdentityIsUnlocked(),
	}
	if pk, ok := f.gw.CurrentIdentity(); ok {
		info.HasPubkey = true
		info.PubkeyHex = pk.Hex()
		info.PubkeyBech = pk.Bech32()
	}
	return info
}

// feedNotes reads every item of the current feed, skipping ids the store no
// longer has.
func (f *Facade) feedNotes() []notedata.Note {
	ids := f.gw.FeedItemIDs()
	now := f.now()
	notes := make([]notedata.Note, 0, len(ids))
	for _, id := range ids {
		item, ok := f.gw.ReadItem(id)
		if !ok {
			continue
		}
		notes = append(notes, notedata.FromItem(item, now))
	}
	events.Facade.FeedRebuild(len(ids), len(notes))
	return notes
}

func (f *Facade) requestPage(req RequestPage) {
	if err := f.app.ToUI().Send(req); err != nil {
		events.Facade.SendFailed("request-page", err)
	}
}

func (f *Facade) invoke(phase string, fn func(Surface)) bool {
	if err := f.ui.Invoke(fn); err != nil {
		events.Facade.UIClosed(phase)
		return false
	}
	return true
}
