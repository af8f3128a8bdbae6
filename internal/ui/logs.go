package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/usher-tui/usher/internal/logging"
	"github.com/usher-tui/usher/internal/logview"
	"github.com/usher-tui/usher/internal/pueue"
)

// logChunkMsg delivers one streamed chunk. The stream handle identifies the
// source, so chunks from a superseded stream can be recognized and dropped.
type logChunkMsg struct {
	stream pueue.Stream
	chunk  string
	err    error
}

// waitLogChunk blocks on the stream's next chunk off the update loop and
// re-delivers it as a message.
func waitLogChunk(s pueue.Stream) tea.Cmd {
	return func() tea.Msg {
		chunk, err := s.Next()
		return logChunkMsg{stream: s, chunk: chunk, err: err}
	}
}

// logPageWidth and logPageHeight are the inner text dimensions of the
// full-screen log box. The viewport wraps and clamps against exactly these,
// which is what keeps "bottom" and the painted window in agreement.
func (m Model) logPageWidth() int {
	w := m.width - 4
	if w < 1 {
		w = 1
	}
	return w
}

func (m Model) logPageHeight() int {
	h := m.height - 2
	if h < 1 {
		h = 1
	}
	return h
}

// openLogView starts following the selected task's output. The switch into
// log mode happens only once the stream is open; on failure the task list
// stays up and the error surfaces through the usual channels.
func (m *Model) openLogView() tea.Cmd {
	row, ok := m.table.Selected()
	if !ok {
		return nil
	}
	stream, initial, err := m.daemon.FollowLogs(row.TaskID, m.logLines)
	if err != nil {
		m.noteOpError("follow logs", err)
		return nil
	}
	if m.stream != nil {
		_ = m.stream.Close()
	}
	m.stream = stream
	m.logs = logview.New(row.TaskID, initial)
	m.logs.Reclamp(m.logPageWidth(), m.logPageHeight())
	m.mode = modeLog
	m.health = health{}
	logging.Debug("log stream opened", "task", row.TaskID)
	return waitLogChunk(stream)
}

// closeLogView releases the stream and returns to the task list.
func (m *Model) closeLogView() {
	if m.stream != nil {
		_ = m.stream.Close()
		m.stream = nil
	}
	m.logs = nil
	m.mode = modeNormal
}

// handleLogChunk appends a streamed chunk and re-arms the wait. Chunks from
// a stream that is no longer current are dropped; a stream error means the
// stream ended, so the handle is released and the text simply stops growing.
func (m Model) handleLogChunk(msg logChunkMsg) (tea.Model, tea.Cmd) {
	if m.stream == nil || msg.stream != m.stream {
		return m, nil
	}
	if msg.err != nil {
		logging.Debug("log stream ended")
		_ = m.stream.Close()
		m.stream = nil
		return m, nil
	}
	if m.logs != nil {
		m.logs.Append(msg.chunk, m.logPageWidth(), m.logPageHeight())
	}
	return m, waitLogChunk(m.stream)
}

// handleLogKey processes keys while the log view is open.
func (m Model) handleLogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	w, h := m.logPageWidth(), m.logPageHeight()
	switch msg.String() {
	case "q", "esc":
		m.closeLogView()
	case "j", "down":
		m.logs.Scroll(1, w, h)
	case "k", "up":
		m.logs.Scroll(-1, w, h)
	case " ", "pgdown":
		m.logs.Scroll(h, w, h)
	case "b", "pgup":
		m.logs.Scroll(-h, w, h)
	case "d":
		m.logs.Scroll(h/2, w, h)
	case "u":
		m.logs.Scroll(-h/2, w, h)
	case "g", "home":
		m.logs.Top()
	case "G", "end":
		m.logs.Bottom(w, h)
	}
	return m, nil
}

// renderLogView paints the full-screen log box.
func (m Model) renderLogView() string {
	st := m.theme.Styles()
	lines := m.logs.Visible(m.logPageWidth(), m.logPageHeight())
	styled := make([]string, len(lines))
	for i, line := range lines {
		styled[i] = st.Text.Render(line)
	}
	title := fmt.Sprintf("Task %d Log (Esc to close)", m.logs.TaskID)
	if m.logs.Autoscroll() {
		title += " · following"
	}
	return renderBox(title, styled, m.width, m.height, st)
}
