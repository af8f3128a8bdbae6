package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/usher-tui/usher/internal/logging"
	"github.com/usher-tui/usher/internal/prefs"
	"github.com/usher-tui/usher/internal/pueue"
	"github.com/usher-tui/usher/internal/ui"
)

// sentryDSNEnv names the environment variable carrying an optional Sentry
// DSN. Error reporting stays off when it is unset.
const sentryDSNEnv = "USHER_SENTRY_DSN"

// Options configure the Usher application. Zero values defer to the
// preferences file and built-in defaults.
type Options struct {
	Socket    string // empty uses prefs, then $XDG_RUNTIME_DIR/pueue/pueue.sock
	PrefsPath string // empty uses default ~/.config/usher/prefs.toml
	LogFile   string // empty uses prefs; no file means logs are dropped
	LogLevel  string
	PollEvery time.Duration // zero uses prefs, then 250ms
	LogLines  int           // log backlog lines requested per task; zero uses default
	Version   string
}

// Run boots the Usher TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		return fmt.Errorf("load prefs: %w", err)
	}

	logFile := opts.LogFile
	if logFile == "" {
		logFile = userPrefs.LogFile
	}
	if err := logging.Init(logging.Config{
		Level:     opts.LogLevel,
		File:      logFile,
		SentryDSN: os.Getenv(sentryDSNEnv),
		Release:   release(opts.Version),
	}); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer logging.Flush(2 * time.Second)

	socket := resolveSocket(opts.Socket, userPrefs)
	client, err := pueue.Dial(socket)
	if err != nil {
		return fmt.Errorf("connect to pueue daemon at %s: %w", socket, err)
	}
	defer client.Close()
	logging.Info("connected to pueue daemon", "socket", socket)

	// Fetch one snapshot before the first frame so the UI opens on data
	// instead of a loading screen. Failure here is not fatal; the regular
	// refresh cycle retries.
	var initial *pueue.State
	if st, err := client.Status(); err != nil {
		logging.Warn("initial status fetch failed", "error", err)
	} else {
		initial = &st
	}

	pollEvery := opts.PollEvery
	if pollEvery <= 0 {
		pollEvery = userPrefs.PollEvery()
	}

	return ui.Run(ui.Options{
		Context:   ctx,
		Daemon:    client,
		Initial:   initial,
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
		PollEvery: pollEvery,
		LogLines:  opts.LogLines,
	})
}

// resolveSocket picks the daemon socket path. An explicit flag wins over
// the preferences file, which wins over the platform default.
func resolveSocket(flagValue string, p prefs.Prefs) string {
	if flagValue != "" {
		return flagValue
	}
	if p.Socket != "" {
		return p.Socket
	}
	return pueue.DefaultSocketPath()
}

func release(version string) string {
	if version == "" {
		version = "dev"
	}
	return "usher@" + version
}
