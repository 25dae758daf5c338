package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the tracker keybindings.
type KeyMap struct {
	// Navigation
	Down key.Binding
	Up   key.Binding

	// Preview
	Later   key.Binding
	Earlier key.Binding
	Reset   key.Binding
	Start   key.Binding

	// Tracking
	Complete key.Binding
	Missed   key.Binding
	Clear    key.Binding

	// Help toggle
	Help key.Binding

	// Quit
	Quit key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Later: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "start 5m later"),
		),
		Earlier: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "start 5m earlier"),
		),
		Reset: key.NewBinding(
			key.WithKeys("0"),
			key.WithHelp("0", "reset start"),
		),
		Start: key.NewBinding(
			key.WithKeys("s", "enter"),
			key.WithHelp("s", "start session"),
		),
		Complete: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "complete"),
		),
		Missed: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "missed"),
		),
		Clear: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "clear session"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// modeKeys narrows the keymap to the bindings that act in one mode, so the
// help line only offers what works.
type modeKeys struct {
	km   KeyMap
	mode Mode
}

// ShortHelp returns the keys shown in the one-line help.
func (k modeKeys) ShortHelp() []key.Binding {
	switch k.mode {
	case ModeTracking:
		return []key.Binding{k.km.Complete, k.km.Missed, k.km.Help, k.km.Quit}
	case ModeFinished:
		return []key.Binding{k.km.Clear, k.km.Quit}
	default:
		return []key.Binding{k.km.Later, k.km.Earlier, k.km.Start, k.km.Help, k.km.Quit}
	}
}

// FullHelp returns the keys shown in the expanded help.
func (k modeKeys) FullHelp() [][]key.Binding {
	nav := []key.Binding{k.km.Down, k.km.Up}
	switch k.mode {
	case ModeTracking:
		return [][]key.Binding{
			{k.km.Complete, k.km.Missed, k.km.Clear},
			nav,
			{k.km.Help, k.km.Quit},
		}
	case ModeFinished:
		return [][]key.Binding{
			{k.km.Clear},
			nav,
			{k.km.Quit},
		}
	default:
		return [][]key.Binding{
			{k.km.Later, k.km.Earlier, k.km.Reset, k.km.Start},
			nav,
			{k.km.Help, k.km.Quit},
		}
	}
}
