package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application. Handlers match
// on the raw key string; the map feeds the hint bar and the help overlay.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Escape     key.Binding

	// Table navigation
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding

	// Modes
	Filter key.Binding
	Sort   key.Binding

	// Task actions
	Run     key.Binding
	Pause   key.Binding
	Kill    key.Binding
	Remove  key.Binding
	Logs    key.Binding
	Details key.Binding
	Mark    key.Binding

	// Sort mode
	SortID      key.Binding
	SortStatus  key.Binding
	SortCommand key.Binding
	SortPath    key.Binding

	// Log view
	LogDown     key.Binding
	LogUp       key.Binding
	LogPageDown key.Binding
	LogPageUp   key.Binding
	LogHalfDown key.Binding
	LogHalfUp   key.Binding
	LogTop      key.Binding
	LogBottom   key.Binding

	// Input
	Confirm key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		// Global
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Dismiss"),
		),

		// Table navigation
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("j/k", "Navigate"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "Page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "Page down"),
		),
		Home: key.NewBinding(
			key.WithKeys("home"),
			key.WithHelp("home", "First task"),
		),
		End: key.NewBinding(
			key.WithKeys("end"),
			key.WithHelp("end", "Last task"),
		),

		// Modes
		Filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Filter"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Sort"),
		),

		// Task actions
		Run: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Run/restart"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "Pause"),
		),
		Kill: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Kill"),
		),
		Remove: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("⌫", "Remove"),
		),
		Logs: key.NewBinding(
			key.WithKeys("l", "enter"),
			key.WithHelp("l", "Logs"),
		),
		Details: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "Details"),
		),
		Mark: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "Mark"),
		),

		// Sort mode
		SortID: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "By id"),
		),
		SortStatus: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "By status"),
		),
		SortCommand: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "By command"),
		),
		SortPath: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "By path"),
		),

		// Log view
		LogDown: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/k", "Scroll"),
		),
		LogUp: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Scroll up"),
		),
		LogPageDown: key.NewBinding(
			key.WithKeys(" ", "pgdown"),
			key.WithHelp("space/b", "Page"),
		),
		LogPageUp: key.NewBinding(
			key.WithKeys("b", "pgup"),
			key.WithHelp("b", "Page up"),
		),
		LogHalfDown: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d/u", "Half page"),
		),
		LogHalfUp: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "Half page up"),
		),
		LogTop: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Top"),
		),
		LogBottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Bottom + follow"),
		),

		// Input
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Apply"),
		),
	}
}

// ShortHelp returns key bindings for the hint bar.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings grouped for the help overlay, one group per
// help section.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.PageUp, k.Home, k.End},
		{k.Filter, k.Sort, k.Mark},
		{k.Run, k.Pause, k.Kill, k.Remove},
		{k.Logs, k.Details},
		{k.LogPageDown, k.LogHalfDown, k.LogTop, k.LogBottom},
		{k.CycleTheme, k.Help, k.Quit},
	}
}
