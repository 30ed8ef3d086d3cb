package events

import (
	"time"

	"github.com/atomicstack/gossip-tui/internal/logging"
)

type BackendTracer struct{}

var Backend = BackendTracer{}

func (BackendTracer) Unlock(err error) {
	payload := map[string]interface{}{"ok": err == nil}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("backend.unlock", payload)
}

func (BackendTracer) SwitchFeed(kind string) {
	logging.Trace("backend.feed.switch", map[string]interface{}{"kind": kind})
}

func (BackendTracer) Recompute(kind string, waited time.Duration) {
	logging.Trace("backend.feed.recompute", map[string]interface{}{"kind": kind, "waitedMs": waited.Milliseconds()})
}
