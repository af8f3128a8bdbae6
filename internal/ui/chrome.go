package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/usher-tui/usher/internal/view"
)

// renderHeaderBar paints the top line: program identity on the left, the
// active theme and last refresh time on the right.
func (m Model) renderHeaderBar() string {
	st := m.theme.Styles()
	left := st.Title.Render(" Usher ") + st.Muted.Render("· Pueue tasks")
	right := st.Muted.Render(m.theme.Name)
	if !m.lastRefresh.IsZero() {
		right += st.Muted.Render(" · " + m.lastRefresh.Format("15:04:05"))
	}
	right += " "
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

// renderHintBar paints the key hints for the active mode.
func (m Model) renderHintBar() string {
	st := m.theme.Styles()
	k := m.keys
	var hints []key.Binding
	switch m.mode {
	case modeLog:
		hints = []key.Binding{k.LogDown, k.LogPageDown, k.LogHalfDown, k.LogTop, k.LogBottom, k.Escape}
	case modeFilter:
		hints = []key.Binding{k.Confirm, k.Escape}
	case modeSort:
		hints = []key.Binding{k.SortID, k.SortStatus, k.SortCommand, k.SortPath, k.Escape}
	default:
		hints = []key.Binding{
			k.Up, k.Filter, k.Sort, k.Run, k.Pause, k.Kill, k.Remove,
			k.Logs, k.Details, k.Mark, k.CycleTheme, k.Help, k.Quit,
		}
	}

	parts := make([]string, 0, len(hints))
	for _, b := range hints {
		h := b.Help()
		parts = append(parts, st.HintKey.Render(h.Key)+" "+st.HintDesc.Render(h.Desc))
	}
	bar := " " + strings.Join(parts, st.Muted.Render("  · "))
	if lipgloss.Width(bar) > m.width {
		// Drop hints from the right until the bar fits.
		for len(parts) > 1 && lipgloss.Width(bar) > m.width {
			parts = parts[:len(parts)-1]
			bar = " " + strings.Join(parts, st.Muted.Render("  · "))
		}
	}
	return bar
}

// renderFooter paints the status line. Connection problems outrank mode
// prompts, which outrank the idle filter display and the connected notice.
func (m Model) renderFooter() string {
	st := m.theme.Styles()
	var line string
	switch {
	case m.health.failed:
		line = st.FooterError.Render(truncate(fmt.Sprintf("Reconnection failed: %v", m.health.err), m.width-2))
	case m.health.err != nil:
		line = st.FooterWarn.Render("Reconnecting…")
	case m.mode == modeSort:
		line = m.renderSortFooter()
	case m.mode == modeFilter:
		line = st.Text.Render("Filter: ") + m.filterInput.View() + st.FooterInfo.Render("  (Esc to clear)")
	case m.table.Filter != "":
		line = st.Text.Render("Filter: "+m.table.Filter) + st.FooterInfo.Render("  (Esc to clear)")
	default:
		if n := m.table.MarkedCount(); n > 0 {
			line = st.FooterWarn.Render(fmt.Sprintf("%d marked", n)) + st.FooterInfo.Render(" · Connected to Pueue daemon")
		} else {
			line = st.FooterInfo.Render("Connected to Pueue daemon")
		}
	}
	return " " + line
}

// renderSortFooter paints the sort mnemonics with the active field
// highlighted and each mnemonic letter underlined.
func (m Model) renderSortFooter() string {
	st := m.theme.Styles()
	options := []struct {
		mnemonic string
		rest     string
		field    view.Field
	}{
		{"i", "d", view.FieldID},
		{"s", "tatus", view.FieldStatus},
		{"c", "ommand", view.FieldCommand},
		{"p", "ath", view.FieldPath},
	}

	parts := make([]string, 0, len(options))
	for _, opt := range options {
		base := st.Text
		if m.table.Sort == opt.field {
			base = st.FooterWarn.Bold(true)
		}
		parts = append(parts, base.Underline(true).Render(opt.mnemonic)+base.Render(opt.rest))
	}
	sep := st.FooterInfo.Render(" | ")
	return st.Text.Render("Sort by: ") + strings.Join(parts, sep) + sep + st.FooterInfo.Render("Esc: cancel")
}
