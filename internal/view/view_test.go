package view

import (
	"testing"
	"time"

	"github.com/usher-tui/usher/internal/pueue"
)

var testNow = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func snap(tasks ...pueue.Task) pueue.State {
	st := pueue.State{Tasks: make(map[int]pueue.Task, len(tasks))}
	for _, task := range tasks {
		st.Tasks[task.ID] = task
	}
	return st
}

func queued(id int, command, path string) pueue.Task {
	return pueue.Task{ID: id, Command: command, Path: path, Status: pueue.StatusQueued, Group: "default", Created: testNow}
}

func TestCommandName(t *testing.T) {
	tests := []struct {
		command string
		want    string
	}{
		{"echo hello", "echo hello"},
		{"/usr/local/bin/backup.sh --all", "backup.sh --all"},
		{"./scripts/deploy.sh", "deploy.sh"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CommandName(tt.command); got != tt.want {
			t.Errorf("CommandName(%q) = %q, want %q", tt.command, got, tt.want)
		}
	}
}

func TestShortenPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/home/user/work", "/h/u/work"},
		{"/home/user/.config/app", "/h/u/.c/app"},
		{"~/projects/demo", "~/p/demo"},
		{"/", "/"},
		{"work", "work"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ShortenPath(tt.path); got != tt.want {
			t.Errorf("ShortenPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	at := func(secsAgo int) *time.Time {
		ts := testNow.Add(-time.Duration(secsAgo) * time.Second)
		return &ts
	}
	tests := []struct {
		name string
		task pueue.Task
		want string
	}{
		{"never started", pueue.Task{Status: pueue.StatusQueued}, "-"},
		{"just started", pueue.Task{Status: pueue.StatusRunning, Start: at(0)}, "0s"},
		{"seconds", pueue.Task{Status: pueue.StatusRunning, Start: at(45)}, "45s"},
		{"minutes and seconds", pueue.Task{Status: pueue.StatusRunning, Start: at(90)}, "1m 30s"},
		{"just under an hour", pueue.Task{Status: pueue.StatusRunning, Start: at(3599)}, "59m 59s"},
		{"hours and minutes", pueue.Task{Status: pueue.StatusRunning, Start: at(7265)}, "2h 1m"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDuration(tt.task, testNow); got != tt.want {
				t.Fatalf("FormatDuration() = %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("finished uses end time", func(t *testing.T) {
		start := testNow.Add(-10 * time.Minute)
		end := start.Add(75 * time.Second)
		task := pueue.Task{Status: pueue.StatusDone, Result: pueue.ResultSuccess, Start: &start, End: &end}
		if got := FormatDuration(task, testNow); got != "1m 15s" {
			t.Fatalf("FormatDuration() = %q, want %q", got, "1m 15s")
		}
	})
}

func TestFilterMatchesDisplayedText(t *testing.T) {
	table := NewTable()
	st := snap(
		queued(12, "/opt/tools/run.sh fast", "/home/user/projects/usher"),
		pueue.Task{ID: 3, Command: "make check", Path: "/repo", Status: pueue.StatusDone, Result: pueue.ResultFailed, ExitCode: 1, Group: "default"},
	)
	tests := []struct {
		filter  string
		wantIDs []int
	}{
		{"", []int{3, 12}},
		{"USHER", []int{12}},          // shortened path, case-insensitive
		{"projects", []int{}},         // full path is not displayed
		{"run.sh", []int{12}},         // command basename
		{"opt", []int{}},              // command directory is not displayed
		{"failed (1)", []int{3}},      // status display string
		{"12", []int{12}},             // id
		{"no such thing", []int{}},
	}
	for _, tt := range tests {
		table.Filter = tt.filter
		table.Refresh(st, testNow)
		rows := table.Rows()
		if len(rows) != len(tt.wantIDs) {
			t.Errorf("filter %q: got %d rows, want %d", tt.filter, len(rows), len(tt.wantIDs))
			continue
		}
		for i, want := range tt.wantIDs {
			if rows[i].TaskID != want {
				t.Errorf("filter %q: row %d = task %d, want %d", tt.filter, i, rows[i].TaskID, want)
			}
		}
	}
}

func TestSortByStatusUsesDisplayString(t *testing.T) {
	table := NewTable()
	table.Sort = FieldStatus
	table.Refresh(snap(
		pueue.Task{ID: 0, Status: pueue.StatusDone, Result: pueue.ResultSuccess},
		pueue.Task{ID: 1, Status: pueue.StatusQueued},
		pueue.Task{ID: 2, Status: pueue.StatusRunning},
		pueue.Task{ID: 3, Status: pueue.StatusDone, Result: pueue.ResultFailed, ExitCode: 1},
	), testNow)

	var got []string
	for _, r := range table.Rows() {
		got = append(got, r.Status)
	}
	want := []string{"Failed (1)", "Queued", "Running", "Success"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row order = %v, want %v", got, want)
		}
	}
}

func TestSortCommandUsesFullCommand(t *testing.T) {
	table := NewTable()
	table.Sort = FieldCommand
	table.Refresh(snap(
		queued(0, "/z/tool/a.sh", "/tmp"),
		queued(1, "/a/tool/z.sh", "/tmp"),
	), testNow)

	rows := table.Rows()
	// Basenames would order a.sh before z.sh; the full command line wins.
	if rows[0].TaskID != 1 || rows[1].TaskID != 0 {
		t.Fatalf("order = [%d %d], want [1 0]", rows[0].TaskID, rows[1].TaskID)
	}
}

func TestSortTieBreaksByID(t *testing.T) {
	table := NewTable()
	table.Sort = FieldCommand
	table.Refresh(snap(
		queued(5, "same", "/tmp"),
		queued(2, "same", "/tmp"),
		queued(9, "same", "/tmp"),
	), testNow)

	rows := table.Rows()
	for i, want := range []int{2, 5, 9} {
		if rows[i].TaskID != want {
			t.Fatalf("row %d = task %d, want %d", i, rows[i].TaskID, want)
		}
	}
}

func TestSelectionFollowsTaskAcrossSort(t *testing.T) {
	table := NewTable()
	st := snap(
		queued(0, "zzz", "/tmp"),
		queued(1, "aaa", "/tmp"),
	)
	table.Refresh(st, testNow)
	table.SelectLast()
	if row, _ := table.Selected(); row.TaskID != 1 {
		t.Fatalf("selected task %d, want 1", row.TaskID)
	}

	table.Sort = FieldCommand
	table.Refresh(st, testNow)

	row, ok := table.Selected()
	if !ok || row.TaskID != 1 {
		t.Fatalf("selection lost across sort: task %d, ok %v", row.TaskID, ok)
	}
	if table.SelectedRow() != 0 {
		t.Fatalf("selected row = %d, want 0 (aaa sorts first)", table.SelectedRow())
	}
}

func TestSelectionAfterDeletingLastRow(t *testing.T) {
	table := NewTable()
	st := snap(
		queued(0, "first", "/tmp"),
		queued(1, "second", "/tmp"),
		queued(2, "third", "/tmp"),
	)
	table.Refresh(st, testNow)
	table.SelectLast()

	delete(st.Tasks, 2)
	table.Refresh(st, testNow)

	row, ok := table.Selected()
	if !ok {
		t.Fatal("selection dropped after deleting the last row")
	}
	if table.SelectedRow() != 1 || row.TaskID != 1 {
		t.Fatalf("selection = row %d task %d, want row 1 task 1", table.SelectedRow(), row.TaskID)
	}

	// A later refresh with the same snapshot keeps the re-tracked task.
	table.Refresh(st, testNow)
	if row, _ := table.Selected(); row.TaskID != 1 {
		t.Fatalf("re-tracked task lost on refresh: got %d", row.TaskID)
	}
}

func TestSelectionFallsBackToFirstRow(t *testing.T) {
	table := NewTable()
	st := snap(
		queued(0, "first", "/tmp"),
		queued(1, "second", "/tmp"),
		queued(2, "third", "/tmp"),
	)
	table.Refresh(st, testNow)
	table.Move(1) // row 1, task 1

	delete(st.Tasks, 1)
	table.Refresh(st, testNow)

	row, ok := table.Selected()
	if !ok || table.SelectedRow() != 0 || row.TaskID != 0 {
		t.Fatalf("selection = row %d task %d ok %v, want row 0 task 0", table.SelectedRow(), row.TaskID, ok)
	}
}

func TestEmptyViewDropsSelection(t *testing.T) {
	table := NewTable()
	st := snap(queued(0, "build", "/tmp"), queued(1, "test", "/tmp"))
	table.Refresh(st, testNow)
	table.SelectLast()

	table.Filter = "matches nothing"
	table.Refresh(st, testNow)
	if _, ok := table.Selected(); ok {
		t.Fatal("selection survived an empty view")
	}
	if table.SelectedRow() != -1 {
		t.Fatalf("SelectedRow() = %d, want -1", table.SelectedRow())
	}

	// Clearing the filter revalidates from scratch instead of resurrecting
	// the old index.
	table.Filter = ""
	table.Refresh(st, testNow)
	row, ok := table.Selected()
	if !ok || table.SelectedRow() != 0 || row.TaskID != 0 {
		t.Fatalf("selection = row %d task %d ok %v, want row 0 task 0", table.SelectedRow(), row.TaskID, ok)
	}
}

func TestMoveWrapsAtEnds(t *testing.T) {
	table := NewTable()
	table.Refresh(snap(
		queued(0, "a", "/tmp"),
		queued(1, "b", "/tmp"),
		queued(2, "c", "/tmp"),
	), testNow)

	table.Move(-1)
	if table.SelectedRow() != 2 {
		t.Fatalf("up from top: row = %d, want 2", table.SelectedRow())
	}
	table.Move(1)
	if table.SelectedRow() != 0 {
		t.Fatalf("down from bottom: row = %d, want 0", table.SelectedRow())
	}
}

func TestMoveClampedStopsAtEdges(t *testing.T) {
	table := NewTable()
	table.Refresh(snap(
		queued(0, "a", "/tmp"),
		queued(1, "b", "/tmp"),
		queued(2, "c", "/tmp"),
	), testNow)

	table.MoveClamped(-5)
	if table.SelectedRow() != 0 {
		t.Fatalf("page up at top: row = %d, want 0", table.SelectedRow())
	}
	table.MoveClamped(100)
	if table.SelectedRow() != 2 {
		t.Fatalf("page down past end: row = %d, want 2", table.SelectedRow())
	}
}

func TestMarksAndTargets(t *testing.T) {
	table := NewTable()
	st := snap(
		queued(0, "a", "/tmp"),
		queued(1, "b", "/tmp"),
		queued(2, "c", "/tmp"),
	)
	table.Refresh(st, testNow)

	// No marks: the action targets the cursor.
	if got := table.TargetIDs(); len(got) != 1 || got[0] != 0 {
		t.Fatalf("TargetIDs() = %v, want [0]", got)
	}

	table.ToggleMark() // mark 0
	table.SelectLast()
	table.ToggleMark() // mark 2
	if got := table.TargetIDs(); len(got) != 2 || got[0] != 0 || got[1] != 2 {
		t.Fatalf("TargetIDs() = %v, want [0 2]", got)
	}
	if !table.Marked(0) || table.Marked(1) {
		t.Fatal("mark flags wrong")
	}

	// Marks on vanished tasks are dropped.
	delete(st.Tasks, 0)
	table.Refresh(st, testNow)
	if got := table.TargetIDs(); len(got) != 1 || got[0] != 2 {
		t.Fatalf("TargetIDs() after prune = %v, want [2]", got)
	}

	table.ClearMarks()
	if table.MarkedCount() != 0 {
		t.Fatalf("MarkedCount() = %d, want 0", table.MarkedCount())
	}
}
