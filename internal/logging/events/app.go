package events

import "github.com/atomicstack/gossip-tui/internal/logging"

type AppTracer struct{}

var App = AppTracer{}

func (AppTracer) Start(payload map[string]interface{}) {
	logging.Trace("app.start", payload)
}

func (AppTracer) UIComplete() {
	logging.Trace("app.ui-complete", nil)
}

func (AppTracer) End(joinErr error) {
	payload := map[string]interface{}{}
	if joinErr != nil {
		payload["error"] = joinErr.Error()
	}
	logging.Trace("app.end", payload)
}

func (AppTracer) Import(path string, count int) {
	logging.Trace("app.import", map[string]interface{}{"path": path, "count": count})
}
