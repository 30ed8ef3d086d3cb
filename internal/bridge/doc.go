// Package bridge keeps a terminal UI and the application backend in sync.
//
// The UI owns its own event loop and may only be touched from that loop. A
// single AppWorker goroutine polls both sides once per tick: the pull phase
// reads the UI's navigation selectors into App, the push phase writes backend
// identity and feed state into UI properties, and queued instructions are
// drained in between. Every UI write is scheduled onto the UI loop through
// UI.Invoke.
package bridge
