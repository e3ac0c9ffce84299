package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the dashboard key bindings.
type KeyMap struct {
	Quit  key.Binding
	Rerun key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "quit"),
		),
		Rerun: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rerun"),
		),
	}
}

// bindings lists the bindings shown in the footer.
func (k KeyMap) bindings() []key.Binding {
	return []key.Binding{k.Rerun, k.Quit}
}
