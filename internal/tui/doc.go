// Package tui provides the terminal user interface of kuctl.
//
// The interface shows exactly one panel of the Kobo-UNCaGED agent at a time:
// the configuration form, a message with optional sync progress, the library
// login, the list of discovered calibre instances, the subtitle column
// selector, the new-connection editor, or the terminal "finished" panel.
//
// # Architecture
//
// The TUI follows the Bubble Tea model-view-update loop, split into
// subpackages:
//
//   - model: all state, the panel controller, the request commands and the
//     messages they complete with
//   - controller: Dispatch, the single function that applies push events,
//     request completions and key presses to the model; it also wires the
//     program and the push listener
//   - view: renders the visible panel, the overlays and the status bar
//   - components, design, utils: reusable widgets and styles
//
// # Data flow
//
// The push listener (internal/push) delivers agent events into a channel the
// model reads one event at a time. An event either renders directly from its
// payload or starts a fetch. Each fetch and submit runs as a tea.Cmd with its
// own timeout and returns a completion message into Dispatch. Fetches are
// numbered per resource and only the latest is applied; submits remember the
// panel they came from and only hide that panel if it is still showing.
// Once the session is finished nothing but housekeeping is applied.
//
// # Keyboard
//
// Letter shortcuts (q quit, ? help, L activity log) are read only while no
// text input has focus. ctrl+c always quits. The remaining keys belong to the
// visible panel; the help overlay lists them.
package tui
