package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Column layout. Id, status and duration are fixed; command and path split
// whatever remains.
const (
	markGutterWidth = 2
	colIDWidth      = 4
	colStatusWidth  = 12
	colDurWidth     = 10
	colGap          = 2
)

// tableWidths computes the command and path column widths for a given
// content width.
func tableWidths(contentWidth int) (cmdW, pathW int) {
	rest := contentWidth - markGutterWidth - colIDWidth - colStatusWidth - colDurWidth - 4*colGap
	if rest < 8 {
		rest = 8
	}
	cmdW = rest / 2
	pathW = rest - cmdW
	return cmdW, pathW
}

// formatTableCells lays out one row's cells at fixed widths. The mark gutter
// is excluded so callers can style it separately.
func formatTableCells(id, status, command, path, duration string, cmdW, pathW int) string {
	gap := strings.Repeat(" ", colGap)
	return padRight(id, colIDWidth) + gap +
		padRight(status, colStatusWidth) + gap +
		padRight(command, cmdW) + gap +
		padRight(path, pathW) + gap +
		padRight(duration, colDurWidth)
}

// renderTable paints the task table box: a header row, then the visible
// window of rows with the cursor row highlighted and marked rows flagged in
// the gutter.
func (m Model) renderTable(width, height int) string {
	st := m.theme.Styles()
	contentW := width - 4
	cmdW, pathW := tableWidths(contentW)

	header := strings.Repeat(" ", markGutterWidth) +
		formatTableCells("Id", "Status", "Command", "Path", "Duration", cmdW, pathW)
	lines := []string{st.TableHeader.Render(header)}

	switch {
	case !m.hasSnapshot:
		lines = append(lines, st.Muted.Render("Loading state from Pueue..."))
	case len(m.table.Rows()) == 0:
		lines = append(lines, st.Muted.Render("No matching tasks"))
	default:
		rows := m.table.Rows()
		selRow := m.table.SelectedRow()
		end := m.tableOffset + m.tableRowCapacity()
		if end > len(rows) {
			end = len(rows)
		}
		for i := m.tableOffset; i < end; i++ {
			r := rows[i]
			cells := formatTableCells(r.ID, r.Status, r.Command, r.Path, r.Duration, cmdW, pathW)
			gutter := strings.Repeat(" ", markGutterWidth)
			if m.table.Marked(r.TaskID) {
				gutter = "* "
			}
			if i == selRow {
				lines = append(lines, st.Selected.Render(gutter+cells))
				continue
			}
			rowStyle := lipgloss.NewStyle().Foreground(m.theme.statusColor(r.Status))
			if m.table.Marked(r.TaskID) {
				lines = append(lines, st.Marked.Render(gutter)+rowStyle.Render(cells))
			} else {
				lines = append(lines, gutter+rowStyle.Render(cells))
			}
		}
	}

	title := fmt.Sprintf("Tasks (%d)", len(m.table.Rows()))
	return renderBox(title, lines, width, height, st)
}

// renderBox draws a bordered box with an inline title, padding or cutting
// the content lines to exactly the requested height. Content lines may be
// styled; padding measures their printed width.
func renderBox(title string, lines []string, width, height int, st Styles) string {
	if width < 8 || height < 2 {
		return ""
	}
	contentW := width - 4
	contentH := height - 2
	title = truncate(title, contentW-2)

	var b strings.Builder
	dashes := width - 5 - runewidth.StringWidth(title)
	if dashes < 0 {
		dashes = 0
	}
	b.WriteString(st.Border.Render("┌─ "))
	b.WriteString(st.Title.Render(title))
	b.WriteString(st.Border.Render(" " + strings.Repeat("─", dashes) + "┐"))
	b.WriteString("\n")

	if len(lines) > contentH {
		lines = lines[:contentH]
	}
	side := st.Border.Render("│")
	for _, line := range lines {
		pad := contentW - lipgloss.Width(line)
		if pad < 0 {
			pad = 0
		}
		b.WriteString(side + " " + line + strings.Repeat(" ", pad) + " " + side)
		b.WriteString("\n")
	}
	empty := side + strings.Repeat(" ", width-2) + side
	for i := len(lines); i < contentH; i++ {
		b.WriteString(empty)
		b.WriteString("\n")
	}

	b.WriteString(st.Border.Render("└" + strings.Repeat("─", width-2) + "┘"))
	return b.String()
}
