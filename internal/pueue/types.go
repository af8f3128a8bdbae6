package pueue

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Status enumerates the lifecycle states the daemon reports for a task.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusStashed Status = "stashed"
	StatusLocked  Status = "locked"
	StatusRunning Status = "running"
	StatusPaused  Status = "paused"
	StatusDone    Status = "done"
)

// Result describes how a done task finished.
type Result string

const (
	ResultSuccess          Result = "success"
	ResultFailed           Result = "failed"
	ResultKilled           Result = "killed"
	ResultErrored          Result = "errored"
	ResultDependencyFailed Result = "dependency_failed"
)

// Task mirrors a single daemon queue entry. Tasks arrive as part of a State
// snapshot and are treated as immutable values.
type Task struct {
	ID       int        `json:"id"`
	Command  string     `json:"command"`
	Path     string     `json:"path"`
	Status   Status     `json:"status"`
	Result   Result     `json:"result,omitempty"`
	ExitCode int        `json:"exitCode,omitempty"`
	Label    string     `json:"label,omitempty"`
	Group    string     `json:"group"`
	Priority int        `json:"priority"`
	Created  time.Time  `json:"createdAt"`
	Start    *time.Time `json:"startedAt,omitempty"`
	End      *time.Time `json:"endedAt,omitempty"`
}

// State is the full job-set snapshot returned by the daemon. Each refresh
// replaces the previous snapshot wholesale; nothing mutates it in place.
type State struct {
	Tasks map[int]Task `json:"tasks"`
}

// RestartTask carries the original invocation of a finished task back to the
// daemon for a full restart.
type RestartTask struct {
	ID       int    `json:"id"`
	Command  string `json:"command"`
	Path     string `json:"path"`
	Label    string `json:"label,omitempty"`
	Priority int    `json:"priority"`
}

// IsDone reports whether the task reached a terminal state. Done tasks are
// restarted rather than started.
func (t Task) IsDone() bool {
	return t.Status == StatusDone
}

// Removable reports whether the daemon will accept a remove for this task.
// Running and paused tasks have to be killed first.
func (t Task) Removable() bool {
	return t.Status != StatusRunning && t.Status != StatusPaused
}

// ToRestart builds the restart payload from the task's original command,
// path, label and priority.
func (t Task) ToRestart() RestartTask {
	return RestartTask{
		ID:       t.ID,
		Command:  t.Command,
		Path:     t.Path,
		Label:    t.Label,
		Priority: t.Priority,
	}
}

// StatusDisplay returns the canonical human-readable status string. The view
// sorts and filters on these exact strings, so they are part of the contract.
func (t Task) StatusDisplay() string {
	switch t.Status {
	case StatusQueued:
		return "Queued"
	case StatusStashed:
		return "Stashed"
	case StatusLocked:
		return "Locked"
	case StatusRunning:
		return "Running"
	case StatusPaused:
		return "Paused"
	case StatusDone:
		switch t.Result {
		case ResultSuccess:
			return "Success"
		case ResultFailed:
			return fmt.Sprintf("Failed (%d)", t.ExitCode)
		case ResultKilled:
			return "Killed"
		case ResultErrored:
			return "Errored"
		case ResultDependencyFailed:
			return "Dependency Failed"
		default:
			return "Done"
		}
	default:
		return "Unknown"
	}
}

// RunDuration returns elapsed run time: end minus start for finished tasks,
// now minus start for running ones. The second return is false when the task
// never started.
func (t Task) RunDuration(now time.Time) (time.Duration, bool) {
	if t.Start == nil {
		return 0, false
	}
	end := now
	if t.End != nil {
		end = *t.End
	}
	d := end.Sub(*t.Start)
	if d < 0 {
		d = 0
	}
	return d, true
}

// DefaultSocketPath returns the daemon control socket location used when
// neither flag nor preference names one.
func DefaultSocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "pueue", "pueue.sock")
	}
	return filepath.Join(os.TempDir(), "pueue.sock")
}
