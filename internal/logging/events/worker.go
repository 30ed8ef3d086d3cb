package events

import (
	"time"

	"github.com/atomicstack/gossip-tui/internal/logging"
)

type WorkerTracer struct{}

type FacadeTracer struct{}

type WorkerStopReason string

const (
	WorkerStopQuit         WorkerStopReason = "quit"
	WorkerStopDisconnected WorkerStopReason = "disconnected"
	WorkerStopError        WorkerStopReason = "error"
)

var (
	Worker = WorkerTracer{}
	Facade = FacadeTracer{}
)

func (WorkerTracer) Start(id string, interval time.Duration) {
	logging.Trace("worker.start", map[string]interface{}{"id": id, "interval": interval.String()})
}

func (WorkerTracer) Stop(id string, ticks uint64, reason WorkerStopReason) {
	logging.Trace("worker.stop", map[string]interface{}{"id": id, "ticks": ticks, "reason": string(reason)})
}

func (WorkerTracer) Instruction(id, kind string) {
	logging.Trace("worker.instruction", map[string]interface{}{"id": id, "kind": kind})
}

func (WorkerTracer) PageEffect(level, page string, mapped bool) {
	logging.Trace("worker.page-effect", map[string]interface{}{"level": level, "page": page, "mapped": mapped})
}

func (WorkerTracer) RequestPage(appPage, mainPage string) {
	logging.Trace("worker.request-page", map[string]interface{}{"app": appPage, "main": mainPage})
}

func (FacadeTracer) PageChange(appPage, mainPage string) {
	logging.Trace("facade.page-change", map[string]interface{}{"app": appPage, "main": mainPage})
}

func (FacadeTracer) FeedRebuild(ids, notes int) {
	logging.Trace("facade.feed-rebuild", map[string]interface{}{"ids": ids, "notes": notes, "skipped": ids - notes})
}

func (FacadeTracer) Login(ok bool) {
	logging.Trace("facade.login", map[string]interface{}{"ok": ok})
}

func (FacadeTracer) UIClosed(phase string) {
	logging.Trace("facade.ui-closed", map[string]interface{}{"phase": phase})
}

func (FacadeTracer) SendFailed(kind string, err error) {
	logging.Trace("facade.send-failed", map[string]interface{}{"kind": kind, "error": err.Error()})
}
