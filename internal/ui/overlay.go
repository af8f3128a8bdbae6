package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// overlayKind names the modal drawn over the task list. Overlays are not
// input modes; they capture keys only long enough to be dismissed.
type overlayKind int

const (
	overlayNone overlayKind = iota
	overlayHelp
	overlayDetails
	overlayError
)

// helpGroupTitles parallels keyMap.FullHelp.
var helpGroupTitles = []string{
	"Navigate",
	"Filter & sort",
	"Task actions",
	"Inspect",
	"Log view",
	"General",
}

// renderHelp paints the centered help overlay from the key map.
func (m Model) renderHelp() string {
	st := m.theme.Styles()

	var b strings.Builder
	b.WriteString(st.Title.Render("Help") + st.Muted.Render("  (any key to close)") + "\n")
	for i, group := range m.keys.FullHelp() {
		b.WriteString("\n")
		if i < len(helpGroupTitles) {
			b.WriteString(st.Accent.Render(helpGroupTitles[i]) + "\n")
		}
		for _, bind := range group {
			h := bind.Help()
			b.WriteString("  " + st.HintKey.Render(padRight(h.Key, 12)) + st.Text.Render(h.Desc) + "\n")
		}
	}

	return m.placeOverlay(b.String(), 44, m.theme.Border)
}

// renderDetails paints the full record of the selected task. It reads the
// live selection, so a running task's duration keeps counting.
func (m Model) renderDetails() string {
	row, ok := m.table.Selected()
	if !ok {
		return m.renderMain()
	}
	st := m.theme.Styles()

	var b strings.Builder
	b.WriteString(st.Title.Render("Details") + st.Muted.Render("  (Esc to close)") + "\n\n")
	field := func(name, value string) {
		b.WriteString(st.Accent.Render(padRight(name, 10)) + st.Text.Render(value) + "\n")
	}
	field("ID:", row.ID)
	field("Status:", row.Status)
	field("Command:", row.Command)
	field("Path:", row.Path)
	field("Duration:", row.Duration)
	field("Group:", row.Group)
	if row.Label != "" {
		field("Label:", row.Label)
	}
	b.WriteString("\n")
	b.WriteString(st.Accent.Render("Full Command:") + "\n" + st.Text.Render(row.FullCommand) + "\n\n")
	b.WriteString(st.Accent.Render("Full Path:") + "\n" + st.Text.Render(row.FullPath))

	return m.placeOverlay(b.String(), 62, m.theme.Border)
}

// renderError paints the one-shot operation error modal.
func (m Model) renderError() string {
	st := m.theme.Styles()
	content := st.FooterError.Render("Error") + st.Muted.Render("  (Esc to dismiss)") + "\n\n" +
		st.Text.Render(m.overlayErr)
	return m.placeOverlay(content, 62, m.theme.Danger)
}

// placeOverlay wraps content in a rounded border and centers it on screen.
func (m Model) placeOverlay(content string, width int, borderColor string) string {
	if width > m.width-2 {
		width = m.width - 2
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(borderColor)).
		Padding(1, 2).
		Width(width).
		Render(content)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceChars(" "))
}
