package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HeaderViewState holds the strings shown above the table.
type HeaderViewState struct {
	Width int
	Title string
	Mode  string
	Clock string
	Style lipgloss.Style
	Muted lipgloss.Style
}

// RenderHeader renders the title on the left and the mode and clock on the
// right of one line.
func RenderHeader(state HeaderViewState) string {
	left := state.Style.Render(state.Title)
	right := state.Muted.Render(state.Mode + "  " + state.Clock)
	gap := state.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}
