package app

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/usher-tui/usher/internal/prefs"
)

func TestRunFailsWhenDaemonIsUnreachable(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(sentryDSNEnv, "")
	socket := filepath.Join(dir, "missing.sock")

	err := Run(context.Background(), Options{
		Socket:    socket,
		PrefsPath: filepath.Join(dir, "prefs.toml"),
	})
	if err == nil {
		t.Fatal("Run succeeded with no daemon listening")
	}
	if !strings.Contains(err.Error(), socket) {
		t.Fatalf("error %q does not name the socket", err)
	}
}

func TestResolveSocketPriority(t *testing.T) {
	runtimeDir := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", runtimeDir)

	tests := []struct {
		name string
		flag string
		pref string
		want string
	}{
		{
			name: "flag wins over prefs",
			flag: "/tmp/flag.sock",
			pref: "/tmp/pref.sock",
			want: "/tmp/flag.sock",
		},
		{
			name: "prefs win over default",
			flag: "",
			pref: "/tmp/pref.sock",
			want: "/tmp/pref.sock",
		},
		{
			name: "platform default when nothing is set",
			flag: "",
			pref: "",
			want: filepath.Join(runtimeDir, "pueue", "pueue.sock"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := prefs.Default()
			p.Socket = tt.pref
			got := resolveSocket(tt.flag, p)
			if got != tt.want {
				t.Fatalf("resolveSocket(%q, %q) = %q, want %q", tt.flag, tt.pref, got, tt.want)
			}
		})
	}
}

func TestRelease(t *testing.T) {
	if got := release(""); got != "usher@dev" {
		t.Fatalf("release(\"\") = %q, want %q", got, "usher@dev")
	}
	if got := release("1.4.0"); got != "usher@1.4.0" {
		t.Fatalf("release(\"1.4.0\") = %q, want %q", got, "usher@1.4.0")
	}
}
