// Package prefs handles Usher user preferences persistence.
// Preferences are stored in ~/.config/usher/prefs.toml.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs holds user preferences for Usher. Zero or missing fields fall back
// to defaults, so a hand-edited partial file stays valid.
type Prefs struct {
	Theme        string `toml:"theme"`
	Socket       string `toml:"socket"`
	PollInterval string `toml:"poll_interval"`
	LogFile      string `toml:"log_file"`
}

const (
	defaultPrefsPath    = "~/.config/usher/prefs.toml"
	defaultTheme        = "Tokyonight"
	defaultPollInterval = 250 * time.Millisecond
)

// Default returns the built-in preferences.
func Default() Prefs {
	return Prefs{Theme: defaultTheme}
}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// PollEvery parses the configured refresh interval, falling back to 250ms
// when unset or unparseable.
func (p Prefs) PollEvery() time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(p.PollInterval))
	if err != nil || d <= 0 {
		return defaultPollInterval
	}
	return d
}

// Load reads preferences from the given path. A missing or unreadable file
// degrades to defaults rather than failing: preferences are never worth
// refusing to start over.
func Load(path string) (Prefs, error) {
	prefs := Default()

	resolved, err := resolvePath(path)
	if err != nil {
		return prefs, nil
	}

	bytes, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return prefs, nil
		}
		return prefs, nil // Graceful degradation
	}

	if err := toml.Unmarshal(bytes, &prefs); err != nil {
		return Default(), nil // Graceful degradation
	}

	if strings.TrimSpace(prefs.Theme) == "" {
		prefs.Theme = defaultTheme
	}

	return prefs, nil
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
