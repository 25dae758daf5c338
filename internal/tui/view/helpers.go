package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// PlaceBox renders content in a lipgloss.Place box of w x h.
func PlaceBox(w, h int, vAlign lipgloss.Position, content string) string {
	if w <= 0 || h <= 0 {
		return content
	}
	placed := lipgloss.Place(w, h, lipgloss.Left, vAlign, content)
	return ClipLines(placed, w, h)
}

// ClipLines cuts content to at most height lines of at most width cells,
// keeping ANSI styling intact.
func ClipLines(content string, width, height int) string {
	lines := strings.Split(content, "\n")
	if height > 0 && len(lines) > height {
		lines = lines[:height]
	}
	if width > 0 {
		for i, line := range lines {
			if lipgloss.Width(line) > width {
				lines[i] = ansi.Truncate(line, width, "…")
			}
		}
	}
	return strings.Join(lines, "\n")
}
