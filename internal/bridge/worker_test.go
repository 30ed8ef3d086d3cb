package bridge

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/atomicstack/gossip-tui/internal/backend"
	"github.com/atomicstack/gossip-tui/internal/mailbox"
)

const testInterval = 5 * time.Millisecond

func (fx *fixture) start() *AppWorker {
	return StartWorker(WorkerConfig{
		Facade:   fx.facade,
		FromUI:   fx.fromUI,
		ToUI:     fx.requests,
		Interval: testInterval,
	})
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func joinWithin(t *testing.T, w *AppWorker) error {
	t.Helper()
	result := make(chan error, 1)
	go func() { result <- w.Join() }()
	select {
	case err := <-result:
		return err
	case <-time.After(2 * time.Second):
		t.Fatalf("worker did not stop")
		return nil
	}
}

func TestWorkerStopsOnQuit(t *testing.T) {
	fx := newFixture(AppPageMain, MainPageFeed)
	w := fx.start()
	waitFor(t, "first tick", func() bool { return fx.ui.snapshot().signerWrites > 0 })

	start := time.Now()
	if err := joinWithin(t, w); err != nil {
		t.Fatalf("join: %v", err)
	}
	// one sleep plus one tick's phases, with slack for a loaded scheduler
	if elapsed := time.Since(start); elapsed > 40*testInterval {
		t.Fatalf("expected quit within a few ticks of %s, took %s", testInterval, elapsed)
	}
	if w.ID() == "" {
		t.Fatalf("expected worker id")
	}
}

func TestWorkerStopsWhenCommandSendersGone(t *testing.T) {
	fx := newFixture(AppPageMain, MainPageFeed)
	w := fx.start()

	fx.app.Close()
	w.quit.Close()

	select {
	case <-w.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("worker did not stop after disconnect")
	}
	if err := w.Join(); err != nil {
		t.Fatalf("join: %v", err)
	}
}

func TestWorkerAppliesPageEffects(t *testing.T) {
	fx := newFixture(AppPageMain, MainPageFeed)
	w := fx.start()
	defer joinWithin(t, w)

	waitFor(t, "feed switch", func() bool { return len(fx.gw.switches()) == 1 })
	fx.ui.navigate(AppPageMain, MainPageInbox)
	waitFor(t, "inbox switch", func() bool { return len(fx.gw.switches()) == 2 })

	got := fx.gw.switches()
	if got[0] != backend.InboxFeed(false) || got[1] != backend.InboxFeed(true) {
		t.Fatalf("unexpected switches %v", got)
	}
}

func TestUnmappedPageIsNoOp(t *testing.T) {
	fx := newFixture(AppPageMain, MainPageFeed)
	w := &AppWorker{app: fx.app, gw: fx.gw}

	w.applyPageChange(PageChange{App: AppPageWelcome, Main: MainPageSettings})
	if got := fx.gw.switches(); len(got) != 0 {
		t.Fatalf("expected no feed switch, got %v", got)
	}

	w.applyPageChange(PageChange{Main: MainPageInbox})
	if got := fx.gw.switches(); len(got) != 1 || got[0] != backend.InboxFeed(true) {
		t.Fatalf("unexpected switches %v", got)
	}
}

func TestWorkerForwardsRecompute(t *testing.T) {
	fx := newFixture(AppPageMain, MainPageFeed)
	reg := &fakeRegistrar{}
	fx.facade.Init(reg)
	w := fx.start()
	defer joinWithin(t, w)

	reg.recompute()
	reg.recompute()
	waitFor(t, "recomputes", func() bool {
		fx.gw.mu.Lock()
		defer fx.gw.mu.Unlock()
		return fx.gw.recomputes == 2
	})
}

func TestWorkerNavigatesAfterUnlock(t *testing.T) {
	fx := newFixture(AppPageWelcome, MainPageUnset)
	reg := &fakeRegistrar{}
	fx.facade.Init(reg)
	w := fx.start()
	defer joinWithin(t, w)

	reg.login("hunter2")
	waitFor(t, "main page", func() bool {
		state := fx.ui.snapshot()
		return state.appPage == AppPageMain && state.mainPage == MainPageFeed
	})
	waitFor(t, "feed switch", func() bool { return len(fx.gw.switches()) == 1 })

	state := fx.app.Snapshot()
	if state.AppPage != AppPageMain || state.MainPage != MainPageFeed {
		t.Fatalf("expected delivered pages recorded, got %v/%v", state.AppPage, state.MainPage)
	}
}

func TestWorkerPanicIsReturnedFromJoin(t *testing.T) {
	fx := newFixture(AppPageMain, MainPageFeed)
	fx.gw.onRecompute = func() { panic("backend exploded") }
	w := fx.start()

	if err := fx.app.ToWorker().Send(RequestRecompute{}); err != nil {
		t.Fatalf("send: %v", err)
	}
	select {
	case <-w.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("worker did not stop")
	}
	err := w.Join()
	if err == nil || !strings.Contains(err.Error(), "backend exploded") {
		t.Fatalf("expected panic error, got %v", err)
	}
}

func TestWorkerToleratesClosedUI(t *testing.T) {
	fx := newFixture(AppPageMain, MainPageFeed)
	fx.ui.close()
	w := fx.start()
	if err := fx.app.ToUI().Send(RequestPage{Main: MainPageInbox}); err != nil {
		t.Fatalf("send: %v", err)
	}
	waitFor(t, "request drained", func() bool { return fx.requests.Len() == 0 })
	if err := joinWithin(t, w); err != nil {
		t.Fatalf("join: %v", err)
	}
}

func TestDrainCommandsStopsAtQuit(t *testing.T) {
	fx := newFixture(AppPageMain, MainPageFeed)
	w := &AppWorker{app: fx.app, gw: fx.gw, fromUI: fx.fromUI}
	sender := fx.app.ToWorker()
	_ = sender.Send(RequestRecompute{})
	_ = sender.Send(Quit{})
	_ = sender.Send(RequestRecompute{})

	stop, reason := w.drainCommands()
	if !stop || reason != "quit" {
		t.Fatalf("expected quit stop, got %v %q", stop, reason)
	}
	if fx.gw.recomputes != 1 {
		t.Fatalf("expected one recompute before quit, got %d", fx.gw.recomputes)
	}
	if _, err := fx.fromUI.TryRecv(); err != nil {
		t.Fatalf("expected message after quit left queued: %v", err)
	}
	if _, err := fx.fromUI.TryRecv(); !errors.Is(err, mailbox.ErrEmpty) {
		t.Fatalf("expected empty queue, got %v", err)
	}
}

func TestDrainCommandsDropsNilMessages(t *testing.T) {
	fx := newFixture(AppPageMain, MainPageFeed)
	w := &AppWorker{app: fx.app, gw: fx.gw, fromUI: fx.fromUI}
	sender := fx.app.ToWorker()
	_ = sender.Send(nil)
	_ = sender.Send(RequestRecompute{})

	stop, _ := w.drainCommands()
	if stop {
		t.Fatalf("expected drain to continue past a nil message")
	}
	if fx.gw.recomputes != 1 {
		t.Fatalf("expected the recompute after the nil message, got %d", fx.gw.recomputes)
	}
}
