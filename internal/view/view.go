// Package view derives what the task table shows: display rows projected
// from the daemon snapshot, filtering and sorting over those rows, and a
// selection that tracks a task id across reorderings instead of a row index.
package view

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/usher-tui/usher/internal/pueue"
)

// Field selects the active sort column.
type Field int

const (
	FieldID Field = iota
	FieldStatus
	FieldCommand
	FieldPath
)

func (f Field) String() string {
	switch f {
	case FieldStatus:
		return "Status"
	case FieldCommand:
		return "Command"
	case FieldPath:
		return "Path"
	default:
		return "Id"
	}
}

// Row is the display projection of one task. Filtering matches against the
// displayed strings; Command and Path sorting use the full originals, which
// the details overlay also shows.
type Row struct {
	TaskID      int
	ID          string
	Status      string
	Command     string // basename of the command line
	Path        string // shortened working directory
	Duration    string
	FullCommand string
	FullPath    string
	Group       string
	Label       string
}

// Format projects a task into its display row.
func Format(t pueue.Task, now time.Time) Row {
	return Row{
		TaskID:      t.ID,
		ID:          strconv.Itoa(t.ID),
		Status:      t.StatusDisplay(),
		Command:     CommandName(t.Command),
		Path:        ShortenPath(t.Path),
		Duration:    FormatDuration(t, now),
		FullCommand: t.Command,
		FullPath:    t.Path,
		Group:       t.Group,
		Label:       t.Label,
	}
}

// CommandName trims a command line to the part after the last path
// separator, so "/usr/local/bin/backup.sh --all" shows as "backup.sh --all".
func CommandName(command string) string {
	if command == "" {
		return ""
	}
	return filepath.Base(command)
}

// ShortenPath collapses every directory but the last to its first character,
// keeping a leading dot for hidden directories: /home/user/work -> /h/u/work.
func ShortenPath(path string) string {
	if path == "" {
		return ""
	}
	parts := strings.Split(path, "/")
	for i, part := range parts[:len(parts)-1] {
		r := []rune(part)
		switch {
		case len(r) == 0:
		case r[0] == '.' && len(r) > 1:
			parts[i] = string(r[:2])
		default:
			parts[i] = string(r[:1])
		}
	}
	return strings.Join(parts, "/")
}

// FormatDuration renders elapsed run time in the coarsest unit pair that
// fits: seconds, then minutes and seconds, then hours and minutes. Tasks
// that never started show "-"; running tasks measure against now.
func FormatDuration(t pueue.Task, now time.Time) string {
	d, ok := t.RunDuration(now)
	if !ok {
		return "-"
	}
	secs := int(d.Seconds())
	switch {
	case secs < 60:
		return fmt.Sprintf("%ds", secs)
	case secs < 3600:
		return fmt.Sprintf("%dm %ds", secs/60, secs%60)
	default:
		return fmt.Sprintf("%dh %dm", secs/3600, (secs%3600)/60)
	}
}

// matches reports whether the row survives a case-insensitive substring
// filter over the displayed id, status, command and path.
func (r Row) matches(filter string) bool {
	if filter == "" {
		return true
	}
	f := strings.ToLower(filter)
	return strings.Contains(strings.ToLower(r.ID), f) ||
		strings.Contains(strings.ToLower(r.Status), f) ||
		strings.Contains(strings.ToLower(r.Command), f) ||
		strings.Contains(strings.ToLower(r.Path), f)
}

// Table is the filtered, sorted projection of the job set plus the tracked
// selection and the marked set. Callers set Filter and Sort directly and
// then Refresh against the current snapshot; rows are never patched in
// place.
type Table struct {
	Filter string
	Sort   Field

	rows   []Row
	selID  int
	selOK  bool
	selRow int
	marked map[int]struct{}
}

func NewTable() *Table {
	return &Table{marked: make(map[int]struct{})}
}

// Refresh recomputes the visible rows from the snapshot and re-resolves the
// selection. Marks on tasks that left the snapshot are dropped.
func (t *Table) Refresh(snapshot pueue.State, now time.Time) {
	prevRow, hadSel := t.selRow, t.selOK
	rows := make([]Row, 0, len(snapshot.Tasks))
	for _, task := range snapshot.Tasks {
		row := Format(task, now)
		if row.matches(t.Filter) {
			rows = append(rows, row)
		}
	}
	t.sortRows(rows)
	t.rows = rows
	for id := range t.marked {
		if _, ok := snapshot.Tasks[id]; !ok {
			delete(t.marked, id)
		}
	}
	t.syncSelection(prevRow, hadSel)
}

func (t *Table) sortRows(rows []Row) {
	field := t.Sort
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		switch field {
		case FieldStatus:
			if a.Status != b.Status {
				return a.Status < b.Status
			}
		case FieldCommand:
			if a.FullCommand != b.FullCommand {
				return a.FullCommand < b.FullCommand
			}
		case FieldPath:
			if a.FullPath != b.FullPath {
				return a.FullPath < b.FullPath
			}
		}
		return a.TaskID < b.TaskID
	})
}

// syncSelection re-resolves the tracked task id against the new row order.
// A vanished task lands the cursor on the first row, unless the old
// position fell off the end of the view, which is what deleting the last
// row looks like; then the cursor lands on the new last row. Either way the
// newly-selected task becomes the tracked one.
func (t *Table) syncSelection(prevRow int, hadSel bool) {
	if len(t.rows) == 0 {
		t.selOK = false
		t.selRow = 0
		return
	}
	if t.selOK {
		for i, r := range t.rows {
			if r.TaskID == t.selID {
				t.selRow = i
				return
			}
		}
	}
	row := 0
	if hadSel && prevRow >= len(t.rows) {
		row = len(t.rows) - 1
	}
	t.selectRow(row)
}

func (t *Table) selectRow(row int) {
	t.selRow = row
	t.selID = t.rows[row].TaskID
	t.selOK = true
}

// Rows returns the current display rows in paint order.
func (t *Table) Rows() []Row {
	return t.rows
}

// Selected returns the row under the cursor.
func (t *Table) Selected() (Row, bool) {
	if !t.selOK {
		return Row{}, false
	}
	return t.rows[t.selRow], true
}

// SelectedRow returns the cursor's row index, or -1 when the view is empty.
func (t *Table) SelectedRow() int {
	if !t.selOK {
		return -1
	}
	return t.selRow
}

// Move shifts the cursor by delta rows, wrapping at both ends.
func (t *Table) Move(delta int) {
	n := len(t.rows)
	if n == 0 || !t.selOK {
		return
	}
	t.selectRow(((t.selRow+delta)%n + n) % n)
}

// MoveClamped shifts the cursor by delta rows, stopping at the edges. Page
// movements use this so a page-down from near the bottom lands on the last
// row instead of wrapping.
func (t *Table) MoveClamped(delta int) {
	n := len(t.rows)
	if n == 0 || !t.selOK {
		return
	}
	row := t.selRow + delta
	if row < 0 {
		row = 0
	}
	if row >= n {
		row = n - 1
	}
	t.selectRow(row)
}

// SelectFirst moves the cursor to the top row.
func (t *Table) SelectFirst() {
	if len(t.rows) > 0 {
		t.selectRow(0)
	}
}

// SelectLast moves the cursor to the bottom row.
func (t *Table) SelectLast() {
	if len(t.rows) > 0 {
		t.selectRow(len(t.rows) - 1)
	}
}

// ToggleMark flips the mark on the task under the cursor.
func (t *Table) ToggleMark() {
	if !t.selOK {
		return
	}
	if _, ok := t.marked[t.selID]; ok {
		delete(t.marked, t.selID)
	} else {
		t.marked[t.selID] = struct{}{}
	}
}

// Marked reports whether the task id carries a mark.
func (t *Table) Marked(id int) bool {
	_, ok := t.marked[id]
	return ok
}

// MarkedCount returns how many tasks are marked.
func (t *Table) MarkedCount() int {
	return len(t.marked)
}

// ClearMarks drops every mark.
func (t *Table) ClearMarks() {
	for id := range t.marked {
		delete(t.marked, id)
	}
}

// TargetIDs returns the tasks an action applies to: the marked set when any
// marks exist, otherwise the task under the cursor. IDs come back sorted.
func (t *Table) TargetIDs() []int {
	if len(t.marked) > 0 {
		ids := make([]int, 0, len(t.marked))
		for id := range t.marked {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		return ids
	}
	if !t.selOK {
		return nil
	}
	return []int{t.selID}
}
