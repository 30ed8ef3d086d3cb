package events

import "github.com/atomicstack/gossip-tui/internal/logging"

type UITracer struct{}

type FilterTracer struct{}

type CommandTracer struct{}

var (
	UI      = UITracer{}
	Filter  = FilterTracer{}
	Command = CommandTracer{}
)

func (UITracer) Page(appPage, mainPage string) {
	logging.Trace("ui.page", map[string]interface{}{"app": appPage, "main": mainPage})
}

func (UITracer) FeedCursor(list string, cursor int) {
	logging.Trace("ui.feed-cursor", map[string]interface{}{"list": list, "cursor": cursor})
}

func (UITracer) FeedNotes(count int) {
	logging.Trace("ui.feed-notes", map[string]interface{}{"count": count})
}

func (UITracer) Recompute() {
	logging.Trace("ui.recompute", nil)
}

func (FilterTracer) Set(list, filter string, matches int) {
	logging.Trace("filter.set", map[string]interface{}{"list": list, "filter": filter, "matches": matches})
}

func (FilterTracer) Cleared(list string) {
	logging.Trace("filter.clear", map[string]interface{}{"list": list})
}

func (CommandTracer) Queue(id, label string) {
	logging.Trace("command.queue", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Skip(id, label string) {
	logging.Trace("command.skip", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Done(id, label string) {
	logging.Trace("command.done", map[string]interface{}{"id": id, "label": label})
}
