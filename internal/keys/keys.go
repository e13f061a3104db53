// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// Preview defines the keybindings of the live preview.
type Preview struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding

	// Actions
	Reload  key.Binding
	Unknown key.Binding

	// General
	Help key.Binding
	Quit key.Binding
}

// DefaultPreview returns the default preview keybindings.
func DefaultPreview() Preview {
	return Preview{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "scroll down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "b"),
			key.WithHelp("b/pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "f", " "),
			key.WithHelp("f/pgdn", "page down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "bottom"),
		),

		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "re-read document"),
		),
		Unknown: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "list unknown"),
		),

		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns keybindings for the short help view.
func (k Preview) ShortHelp() []key.Binding {
	return []key.Binding{k.Reload, k.Unknown, k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k Preview) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom}, // Navigation
		{k.Reload, k.Unknown},                                 // Actions
		{k.Help, k.Quit},                                      // General
	}
}
