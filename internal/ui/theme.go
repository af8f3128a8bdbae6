package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color palette for the UI.
type Theme struct {
	Name string

	Background string
	Surface    string
	Border     string
	Text       string
	Muted      string
	Accent     string

	Success string
	Warning string
	Danger  string
	Info    string

	SelectionBg string
	SelectionFg string
}

// Styles holds prebuilt lipgloss styles derived from a theme. Build once
// per theme change, not per frame.
type Styles struct {
	Text        lipgloss.Style
	Muted       lipgloss.Style
	Accent      lipgloss.Style
	Border      lipgloss.Style
	Title       lipgloss.Style
	TableHeader lipgloss.Style
	Selected    lipgloss.Style
	Marked      lipgloss.Style

	FooterError lipgloss.Style
	FooterWarn  lipgloss.Style
	FooterInfo  lipgloss.Style

	HintKey  lipgloss.Style
	HintDesc lipgloss.Style
}

// Styles materializes the theme into lipgloss styles.
func (t Theme) Styles() Styles {
	return Styles{
		Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.Text)),
		Muted:       lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted)),
		Accent:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent)),
		Border:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.Border)),
		Title:       lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent)).Bold(true),
		TableHeader: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Info)).Bold(true),
		Selected:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.SelectionFg)).Background(lipgloss.Color(t.SelectionBg)).Bold(true),
		Marked:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.Warning)).Bold(true),

		FooterError: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Danger)).Bold(true),
		FooterWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Warning)),
		FooterInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted)),

		HintKey:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent)).Bold(true),
		HintDesc: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted)),
	}
}

// statusColor maps a status display string to its row color. Failed
// statuses carry an exit code suffix, so that match is on the prefix.
func (t Theme) statusColor(status string) lipgloss.Color {
	switch {
	case status == "Running" || status == "Success":
		return lipgloss.Color(t.Success)
	case strings.HasPrefix(status, "Failed") || status == "Errored" || status == "Killed" || status == "Dependency Failed":
		return lipgloss.Color(t.Danger)
	case status == "Queued":
		return lipgloss.Color(t.Warning)
	case status == "Paused":
		return lipgloss.Color(t.Info)
	default:
		return lipgloss.Color(t.Muted)
	}
}

var themes = map[string]Theme{
	"Tokyonight": {
		Name:        "Tokyonight",
		Background:  "#1a1b26",
		Surface:     "#24283b",
		Border:      "#3b4261",
		Text:        "#c0caf5",
		Muted:       "#565f89",
		Accent:      "#7aa2f7",
		Success:     "#9ece6a",
		Warning:     "#e0af68",
		Danger:      "#f7768e",
		Info:        "#7dcfff",
		SelectionBg: "#283457",
		SelectionFg: "#c0caf5",
	},
	"Gruvbox": {
		Name:        "Gruvbox",
		Background:  "#282828",
		Surface:     "#3c3836",
		Border:      "#504945",
		Text:        "#ebdbb2",
		Muted:       "#928374",
		Accent:      "#d3869b",
		Success:     "#b8bb26",
		Warning:     "#fabd2f",
		Danger:      "#fb4934",
		Info:        "#83a598",
		SelectionBg: "#504945",
		SelectionFg: "#ebdbb2",
	},
	"Slate": {
		Name:        "Slate",
		Background:  "#1e2228",
		Surface:     "#2a2f37",
		Border:      "#3a404b",
		Text:        "#d7dde4",
		Muted:       "#6c7686",
		Accent:      "#8fa1b3",
		Success:     "#87b379",
		Warning:     "#d9b166",
		Danger:      "#d57a7a",
		Info:        "#7fa6c9",
		SelectionBg: "#39414e",
		SelectionFg: "#d7dde4",
	},
}

// themeOrder fixes the cycle order for the theme toggle.
var themeOrder = []string{"Tokyonight", "Gruvbox", "Slate"}

// GetTheme returns the named theme, or the first theme in cycle order when
// the name is unknown.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes[themeOrder[0]]
}

// NextTheme returns the name that follows current in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames lists the available themes in cycle order.
func ThemeNames() []string {
	names := make([]string, len(themeOrder))
	copy(names, themeOrder)
	return names
}
