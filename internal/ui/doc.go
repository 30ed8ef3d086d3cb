// Package ui contains the Bubble Tea program that is the UI side of the
// bridge. The program's event loop is the UI thread: every read or write of
// the observable properties happens inside Model.Update.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages, which are routed
//     through a typed handler registry so each tea.Msg is handled by a focused
//     function (key presses, resizes, scheduled closures, finished commands).
//   - Toolkit.Invoke is the worker's way onto the UI thread. It wraps a
//     closure in an invokeMsg and hands it to Program.Send; the handler runs
//     the closure against the Model, which implements bridge.Surface.
//   - Callbacks registered through bridge.Registrar are fired from key
//     handlers. The login callback blocks on the backend, so it runs through
//     the command bus (internal/ui/command) as a tea.Cmd off the event loop.
//
// State ownership:
//   - Navigation selectors, signer info, feed notes, and the login error are
//     plain Model fields; only the event loop touches them.
//   - Feed list cursor, filter, and viewport live in internal/ui/state.List.
package ui
