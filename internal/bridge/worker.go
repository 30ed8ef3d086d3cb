package bridge

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/atomicstack/gossip-tui/internal/backend"
	"github.com/atomicstack/gossip-tui/internal/logging/events"
	"github.com/atomicstack/gossip-tui/internal/mailbox"
)

// DefaultInterval is the sleep between ticks.
const DefaultInterval = 100 * time.Millisecond

// AppWorker runs the reconciliation loop on its own goroutine.
type AppWorker struct {
	id       string
	interval time.Duration
	app      *App
	facade   *Facade
	gw       backend.Gateway
	ui       UI
	fromUI   *mailbox.Receiver[ToWorker]
	toUIRx   *mailbox.Receiver[ToUi]
	quit     *mailbox.Sender[ToWorker]

	ticks uint64
	done  chan struct{}
	err   error
}

// WorkerConfig carries everything StartWorker needs. Shared state and the
// gateway come from the facade.
type WorkerConfig struct {
	Facade   *Facade
	FromUI   *mailbox.Receiver[ToWorker]
	ToUI     *mailbox.Receiver[ToUi]
	Interval time.Duration
}

// StartWorker launches the loop. The worker keeps its own sender on the
// command channel so Join can always deliver Quit.
func StartWorker(cfg WorkerConfig) *AppWorker {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	w := &AppWorker{
		id:       uuid.NewString(),
		interval: interval,
		app:      cfg.Facade.app,
		facade:   cfg.Facade,
		gw:       cfg.Facade.gw,
		ui:       cfg.Facade.ui,
		fromUI:   cfg.FromUI,
		toUIRx:   cfg.ToUI,
		quit:     cfg.Facade.app.ToWorker().Clone(),
		done:     make(chan struct{}),
	}
	events.Worker.Start(w.id, interval)
	go w.run()
	return w
}

// ID identifies this worker in trace output.
func (w *AppWorker) ID() string {
	return w.id
}

// Done is closed once the loop has stopped.
func (w *AppWorker) Done() <-chan struct{} {
	return w.done
}

// Join sends Quit and waits for the loop to stop. It returns the loop's error,
// including a recovered panic.
func (w *AppWorker) Join() error {
	// the loop may already be gone; a failed send changes nothing
	_ = w.quit.Send(Quit{})
	w.quit.Close()
	<-w.done
	return w.err
}

func (w *AppWorker) run() {
	defer close(w.done)
	defer func() {
		if r := recover(); r != nil {
			w.err = fmt.Errorf("worker panic: %v\n%s", r, debug.Stack())
			events.Worker.Stop(w.id, w.ticks, events.WorkerStopError)
		}
	}()
	w.err = w.loop(context.Background())
}

func (w *AppWorker) loop(ctx context.Context) error {
	timer := time.NewTimer(w.interval)
	defer timer.Stop()
	for {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error { return w.facade.UpdateFromUI(gctx) })
		g.Go(func() error { return w.facade.UpdateFromBackend(gctx) })
		if err := g.Wait(); err != nil {
			events.Worker.Stop(w.id, w.ticks, events.WorkerStopError)
			return err
		}
		w.ticks++

		timer.Reset(w.interval)
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}

		stop, reason := w.drainCommands()
		if stop {
			events.Worker.Stop(w.id, w.ticks, reason)
			return nil
		}
		w.drainRequests()
	}
}

// drainCommands processes every queued ToWorker instruction. It reports
// whether the loop must stop.
func (w *AppWorker) drainCommands() (bool, events.WorkerStopReason) {
	for {
		msg, err := w.fromUI.TryRecv()
		switch {
		case errors.Is(err, mailbox.ErrEmpty):
			return false, ""
		case errors.Is(err, mailbox.ErrDisconnected):
			return true, events.WorkerStopDisconnected
		}
		if msg == nil {
			continue
		}
		events.Worker.Instruction(w.id, msg.Kind())
		switch m := msg.(type) {
		case Quit:
			return true, events.WorkerStopQuit
		case PageChange:
			w.applyPageChange(m)
		case RequestRecompute:
			w.gw.RequestRecompute()
		}
	}
}

// applyPageChange looks the side effects up under the App lock and runs them
// after releasing it, so the UI loop's pull never waits on the backend.
func (w *AppWorker) applyPageChange(change PageChange) {
	var kinds []backend.FeedKind
	w.app.Write(func(*State) {
		if change.App != AppPageUnset {
			kind, ok := w.app.effects.forApp(change.App)
			events.Worker.PageEffect("app", change.App.String(), ok)
			if ok {
				kinds = append(kinds, kind)
			}
		}
		if change.Main != MainPageUnset {
			kind, ok := w.app.effects.forMain(change.Main)
			events.Worker.PageEffect("main", change.Main.String(), ok)
			if ok {
				kinds = append(kinds, kind)
			}
		}
	})
	for _, kind := range kinds {
		w.gw.SwitchFeed(kind)
	}
}

// drainRequests schedules every queued ToUi instruction onto the UI loop.
// Disconnection is not a stop signal here.
func (w *AppWorker) drainRequests() {
	for {
		msg, err := w.toUIRx.TryRecv()
		if err != nil {
			return
		}
		req, ok := msg.(RequestPage)
		if !ok {
			continue
		}
		events.Worker.RequestPage(req.App.String(), req.Main.String())
		err = w.ui.Invoke(func(s Surface) {
			if req.App != AppPageUnset {
				s.SetAppPage(req.App)
			}
			if req.Main != MainPageUnset {
				s.SetMainPage(req.Main)
			}
			// record what was delivered and let the side effects follow
			w.facade.pull(s)
		})
		if err != nil {
			return
		}
	}
}
