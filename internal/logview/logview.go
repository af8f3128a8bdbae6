// Package logview implements the log viewport: an append-only text buffer
// plus a scroll position measured in visual lines. One wrap function turns
// the buffer into terminal rows, and both the scroll clamp and the painter
// consume its output, so "bottom" always means the last row the user
// actually sees.
package logview

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// tabStop is the flat replacement width for tab characters. Expansion
// happens before wrapping so a tab never straddles a row boundary.
const tabStop = 8

// Viewport holds one task's streamed output and its scroll state. Offset
// counts visual lines from the top; autoscroll pins the window to the
// bottom as new chunks arrive and turns off on any manual scroll.
type Viewport struct {
	TaskID int

	buf        strings.Builder
	offset     int
	autoscroll bool
}

// New starts a viewport with the backlog the daemon returned when the
// stream opened. It comes up following the tail.
func New(taskID int, initial string) *Viewport {
	v := &Viewport{TaskID: taskID, autoscroll: true}
	v.buf.WriteString(initial)
	return v
}

// Append adds a streamed chunk. Under autoscroll the window snaps to the
// new bottom; otherwise the view stays put and content grows below it.
func (v *Viewport) Append(chunk string, width, height int) {
	v.buf.WriteString(chunk)
	if v.autoscroll {
		v.offset = v.maxOffset(width, height)
	}
}

// Scroll moves the window by delta visual lines and disengages autoscroll.
// The offset clamps to [0, lines-height].
func (v *Viewport) Scroll(delta, width, height int) {
	v.autoscroll = false
	v.offset = clamp(v.offset+delta, 0, v.maxOffset(width, height))
}

// Top jumps to the first line and disengages autoscroll.
func (v *Viewport) Top() {
	v.autoscroll = false
	v.offset = 0
}

// Bottom jumps to the last page and re-engages autoscroll.
func (v *Viewport) Bottom(width, height int) {
	v.autoscroll = true
	v.offset = v.maxOffset(width, height)
}

// Reclamp revalidates the offset after the window geometry changed. Under
// autoscroll it re-snaps to the bottom of the re-wrapped content.
func (v *Viewport) Reclamp(width, height int) {
	if v.autoscroll {
		v.offset = v.maxOffset(width, height)
		return
	}
	v.offset = clamp(v.offset, 0, v.maxOffset(width, height))
}

// Offset returns the index of the first visible visual line.
func (v *Viewport) Offset() int {
	return v.offset
}

// Autoscroll reports whether the window follows appended output.
func (v *Viewport) Autoscroll() bool {
	return v.autoscroll
}

// LineCount returns how many visual lines the buffer wraps to at width.
func (v *Viewport) LineCount(width int) int {
	return len(wrapLines(v.buf.String(), width))
}

// Visible returns the rows the window shows, at most height of them,
// starting at the current offset. The painter renders these verbatim.
func (v *Viewport) Visible(width, height int) []string {
	lines := wrapLines(v.buf.String(), width)
	if height <= 0 || v.offset >= len(lines) {
		return nil
	}
	end := v.offset + height
	if end > len(lines) {
		end = len(lines)
	}
	return lines[v.offset:end]
}

func (v *Viewport) maxOffset(width, height int) int {
	if height < 0 {
		height = 0
	}
	return max(0, v.LineCount(width)-height)
}

// wrapLines splits text into terminal rows: tabs expand to eight spaces,
// then each raw line hard-wraps at width terminal cells. Leading whitespace
// survives so indented output stays aligned. Widths are measured in cells,
// not runes, so CJK output wraps where the terminal does.
func wrapLines(text string, width int) []string {
	if width <= 0 {
		return nil
	}
	text = strings.ReplaceAll(text, "\t", strings.Repeat(" ", tabStop))
	var out []string
	for _, raw := range strings.Split(text, "\n") {
		if raw == "" {
			out = append(out, "")
			continue
		}
		var line strings.Builder
		w := 0
		for _, r := range raw {
			rw := runewidth.RuneWidth(r)
			if w+rw > width && w > 0 {
				out = append(out, line.String())
				line.Reset()
				w = 0
			}
			line.WriteRune(r)
			w += rw
		}
		out = append(out, line.String())
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
