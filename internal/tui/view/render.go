// Package view provides view composition helpers for the TUI.
package view

import "github.com/charmbracelet/lipgloss"

// ViewState contains the pre-rendered sections of a screen.
type ViewState struct {
	Width            int
	Height           int
	Header           string
	Body             string
	Footer           string
	EmptyPlaceholder string
}

// Render stacks header, body and footer, letting the body take the space
// left between them.
func Render(state ViewState) string {
	if state.Width == 0 || state.Height == 0 {
		if state.EmptyPlaceholder != "" {
			return state.EmptyPlaceholder
		}
		return "Loading..."
	}

	bodyH := state.Height - lipgloss.Height(state.Header) - lipgloss.Height(state.Footer)
	body := PlaceBox(state.Width, max(bodyH, 1), lipgloss.Top, state.Body)
	return lipgloss.JoinVertical(lipgloss.Left, state.Header, body, state.Footer)
}
