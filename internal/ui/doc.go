// Package ui provides the interactive terminal interface for Usher.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program: a single Model value, an Update function
// that folds messages into the next Model, and a View function that paints
// the whole screen from scratch. Daemon calls run synchronously inside
// Update, so every frame reflects a settled state and no data races exist
// by construction.
//
// # Package Structure
//
// The package is organized into focused modules:
//
//   - app.go: Model definition, Update loop, key routing, task actions, and the Run function
//   - table.go: Task table rendering and the bordered box painter
//   - chrome.go: Header bar, key hint bar, and the status footer
//   - overlay.go: Help, task detail, and error dialogs
//   - logs.go: Log view wiring between the daemon stream and the logview viewport
//   - keys.go: Key bindings and help text
//   - theme.go: Named color themes and the derived lipgloss styles
//
// # Input Modes
//
// The main screen runs a small mode machine; each mode owns the keyboard
// until it exits back to normal mode:
//
//   - Normal: List navigation, task actions, and overlay toggles
//   - Filter: A live text input; every keystroke re-filters the table
//   - Sort: A one-shot mnemonic prompt for the sort field
//   - Log: Full-screen output view for one task, scrollable, following by default
//
// # Event Flow
//
//  1. Run() builds the Model and starts the Bubble Tea program
//  2. A tick message triggers a synchronous Status call; the next tick is armed only after the refresh finishes
//  3. Key messages mutate the Model through the active mode's handler
//  4. Log chunks arrive as messages carrying their stream handle; chunks from a superseded stream are dropped
//  5. View renders header, hints, table, and footer from the current Model
//
// # Connection Health
//
// Failed daemon calls never take the screen away. Transport errors show a
// reconnect notice in the footer while the last good snapshot stays up;
// a failed reconnect stays in the footer until some operation succeeds;
// everything else is a daemon rejection and opens an error dialog.
//
// # Usage Example
//
//	opts := ui.Options{
//		Context:   ctx,
//		Daemon:    client,
//		Prefs:     userPrefs,
//		PollEvery: 250 * time.Millisecond,
//	}
//	if err := ui.Run(opts); err != nil {
//		log.Fatal(err)
//	}
//
// # Key Bindings
//
//   - j/k or arrows: Move the cursor, wrapping at the ends
//   - PgUp/PgDn, Home/End: Page and jump movement
//   - f: Filter tasks (Enter commits, Esc clears)
//   - s: Choose the sort field (i/s/c/p)
//   - Space: Mark or unmark the task under the cursor
//   - r: Start the targeted tasks, or restart finished ones
//   - p: Pause, x: Kill, Backspace: Remove
//   - l or Enter: Follow the selected task's log
//   - d: Task details, ?: Help, T: Cycle the color theme
//   - q or Ctrl+C: Quit
//
// # Design Principles
//
//   - Single daemon, single operator: one connection, no authentication
//   - Synchronous core: daemon calls block the loop; only log streaming is concurrent
//   - Selection tracks tasks, not row numbers, across refreshes and re-sorting
//   - Errors degrade the footer before they interrupt with a dialog
package ui
