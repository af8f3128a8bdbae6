package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/usher-tui/usher/internal/app"
)

// version is stamped by the release build; "dev" otherwise.
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	socket := flag.String("socket", "", "override the pueue daemon socket path (optional)")
	prefsPath := flag.String("prefs", "", "override the preferences file path (optional)")
	logFile := flag.String("log-file", "", "write logs to this file (optional)")
	logLevel := flag.String("log-level", "info", "log verbosity: debug, info, warn, error")
	poll := flag.Duration("poll", 0, "refresh interval (optional, defaults to 250ms)")
	logLines := flag.Int("log-lines", 0, "log backlog lines fetched per task (optional, defaults to 200)")
	showVersion := flag.Bool("version", false, "print the version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("usher " + version)
		return 0
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		Socket:    *socket,
		PrefsPath: *prefsPath,
		LogFile:   *logFile,
		LogLevel:  *logLevel,
		LogLines:  *logLines,
		Version:   version,
	}
	if *poll > 0 {
		opts.PollEvery = *poll
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "usher: %v\n", err)
		return 1
	}
	return 0
}
