// Package app provides the orchestration layer for the Usher application.
//
// # Overview
//
// This package wires together preferences, logging, the daemon client, and
// the UI to create the complete Usher TUI experience. It serves as the
// composition root where all dependencies are initialized and connected.
//
// # Architecture
//
// The app package follows a simple initialization pattern:
//
//  1. Load user preferences from ~/.config/usher/prefs.toml
//  2. Initialize the structured logger (file sink plus optional Sentry)
//  3. Resolve the daemon socket path: flag, then prefs, then the platform default
//  4. Dial the Pueue daemon; an unreachable daemon is a fatal startup error
//  5. Fetch one snapshot so the UI opens on data rather than a loading screen
//  6. Start the TUI and block until the user exits or the context cancels
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> prefs.Load()     Read user preferences
//	       ├─────> logging.Init()   File sink + optional Sentry
//	       ├─────> pueue.Dial()     Connect to the daemon socket
//	       ├─────> client.Status()  Pre-flight snapshot (best effort)
//	       └─────> ui.Run()         Start TUI (blocks)
//
//	UI refresh loop (inside ui.Run):
//	┌─────────────────────────────────────────┐
//	│ tick ─> client.Status() ─> repaint      │
//	│ next tick armed after the call returns  │
//	└─────────────────────────────────────────┘
//
// There is no background poller goroutine. The UI refreshes synchronously
// on its own tick, which keeps the period measured from the end of one
// refresh to the start of the next; a slow daemon stretches the cycle
// instead of stacking requests behind it.
//
// # Error Handling
//
// The app package distinguishes between fatal and recoverable errors:
//
// Fatal errors (returned from Run):
//   - Log file cannot be created or opened
//   - Pueue daemon socket does not exist or refuses the connection
//
// Recoverable errors (logged, the UI keeps running):
//   - Initial snapshot fetch failure
//   - Periodic refresh failures once the UI owns the connection
//   - Preference file problems, which degrade to defaults
//
// This ensures Usher never starts against a daemon that was never there,
// while surviving daemon restarts that happen mid-session.
//
// # Configuration
//
// The Options struct allows callers to customize:
//
//   - Socket: Path to the pueue daemon socket
//   - PrefsPath: Path to the preferences file
//   - LogFile, LogLevel: Log sink and verbosity
//   - PollEvery: Refresh interval (default: 250ms)
//   - LogLines: Backlog lines requested when following a task's log
//
// Setting the USHER_SENTRY_DSN environment variable forwards warnings and
// errors to Sentry; leaving it unset keeps reporting off.
//
// # Usage Example
//
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//
//	opts := app.Options{
//		Socket:    "", // Use prefs, then the platform default
//		PollEvery: 250 * time.Millisecond,
//	}
//
//	if err := app.Run(ctx, opts); err != nil {
//		log.Fatalf("usher failed: %v", err)
//	}
//
// # Dependencies
//
//   - prefs: Loads and saves user preferences
//   - logging: Structured logging with optional Sentry forwarding
//   - pueue: Client for the pueue daemon's unix socket protocol
//   - ui: Terminal user interface (TUI) implementation
package app
