package ui

import "github.com/mattn/go-runewidth"

// truncate cuts s to at most width terminal cells, appending an ellipsis
// when anything was dropped.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// padRight pads or truncates s to exactly width cells. Only safe on
// unstyled text; pad first, style after.
func padRight(s string, width int) string {
	return runewidth.FillRight(truncate(s, width), width)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
