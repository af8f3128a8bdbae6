package logview

import (
	"strings"
	"testing"
)

func TestWrapCountsCellsNotNewlines(t *testing.T) {
	long := "PATH  /very/long/path/preceded/with/spaces/to/align/columns"
	v := New(1, long+"\nZZ")

	// Two newline-delimited lines, but the first one wraps at width 40.
	if got := v.LineCount(40); got != 3 {
		t.Fatalf("LineCount(40) = %d, want 3", got)
	}
	if got := v.LineCount(len(long) + 1); got != 2 {
		t.Fatalf("LineCount(wide) = %d, want 2", got)
	}
}

func TestBottomLandsOnLastVisualRow(t *testing.T) {
	// The first line wraps into two rows at width 40. A scroll clamp
	// computed from newline counts would leave the last row hidden.
	v := New(1, "PATH  /very/long/path/preceded/with/spaces/to/align/columns\nZZ")
	v.Bottom(40, 2)

	rows := v.Visible(40, 2)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[1] != "ZZ" {
		t.Fatalf("last visible row = %q, want %q", rows[1], "ZZ")
	}
}

func TestBottomThenDownStaysClamped(t *testing.T) {
	v := New(1, "AA\nZZ")
	v.Bottom(40, 2)
	v.Scroll(1, 40, 2)

	if v.Offset() != 0 {
		t.Fatalf("offset = %d, want 0 (content fits the page)", v.Offset())
	}
	rows := v.Visible(40, 2)
	if len(rows) != 2 || rows[1] != "ZZ" {
		t.Fatalf("visible = %q, want last row ZZ", rows)
	}
	if v.Autoscroll() {
		t.Fatal("manual scroll left autoscroll engaged")
	}
}

func TestScrollClampsAtTop(t *testing.T) {
	v := New(1, "a\nb\nc")
	v.Scroll(-100, 40, 2)
	if v.Offset() != 0 {
		t.Fatalf("offset = %d, want 0", v.Offset())
	}
}

func TestTabsExpandToEightSpaces(t *testing.T) {
	v := New(1, "a\tb")

	rows := v.Visible(20, 1)
	if len(rows) != 1 || rows[0] != "a        b" {
		t.Fatalf("visible = %q, want tab expanded flat", rows)
	}
	// After expansion the line is ten cells, so it wraps at width 8.
	if got := v.LineCount(8); got != 2 {
		t.Fatalf("LineCount(8) = %d, want 2", got)
	}
}

func TestLeadingWhitespaceSurvivesWrap(t *testing.T) {
	v := New(1, "\tindented")
	rows := v.Visible(40, 1)
	if len(rows) != 1 || !strings.HasPrefix(rows[0], "        ") {
		t.Fatalf("visible = %q, want preserved leading spaces", rows)
	}
}

func TestWideRunesWrapAtCellWidth(t *testing.T) {
	v := New(1, "世界世")
	if got := v.LineCount(4); got != 2 {
		t.Fatalf("LineCount(4) = %d, want 2", got)
	}
	rows := v.Visible(4, 2)
	if len(rows) != 2 || rows[0] != "世界" || rows[1] != "世" {
		t.Fatalf("visible = %q, want [世界 世]", rows)
	}
}

func TestAppendFollowsTailUnderAutoscroll(t *testing.T) {
	v := New(1, "one\ntwo\n")
	if !v.Autoscroll() {
		t.Fatal("viewport did not come up following the tail")
	}

	v.Append("three\n", 40, 2)
	rows := v.Visible(40, 2)
	if len(rows) != 2 || rows[0] != "three" {
		t.Fatalf("visible after append = %q, want window at the new bottom", rows)
	}
}

func TestAppendKeepsPositionAfterManualScroll(t *testing.T) {
	v := New(1, "one\ntwo\nthree\n")
	v.Scroll(-1, 40, 2) // reading back up

	before := v.Offset()
	v.Append("four\nfive\n", 40, 2)
	if v.Offset() != before {
		t.Fatalf("offset moved from %d to %d on append while reading", before, v.Offset())
	}
}

func TestTopAndBottom(t *testing.T) {
	v := New(1, "a\nb\nc\nd\ne")
	v.Bottom(40, 2)
	if v.Offset() != 3 || !v.Autoscroll() {
		t.Fatalf("Bottom: offset = %d autoscroll = %v, want 3 true", v.Offset(), v.Autoscroll())
	}
	v.Top()
	if v.Offset() != 0 || v.Autoscroll() {
		t.Fatalf("Top: offset = %d autoscroll = %v, want 0 false", v.Offset(), v.Autoscroll())
	}
}

func TestReclampAfterResize(t *testing.T) {
	v := New(1, "0\n1\n2\n3\n4\n5\n6\n7\n8\n9")
	v.Bottom(40, 2)
	if v.Offset() != 8 {
		t.Fatalf("offset = %d, want 8", v.Offset())
	}

	// Taller window while following: snap to the new bottom.
	v.Reclamp(40, 6)
	if v.Offset() != 4 {
		t.Fatalf("offset after grow = %d, want 4", v.Offset())
	}

	// Reading mid-buffer, then the window grows past the content.
	v.Scroll(-2, 40, 6)
	v.Reclamp(40, 20)
	if v.Offset() != 0 {
		t.Fatalf("offset after overgrow = %d, want 0", v.Offset())
	}
}
