package view

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// TableContent contains table rows and cell styles.
type TableContent struct {
	Rows       [][]string
	CellStyles [][]lipgloss.Style
}

// TableViewState holds data needed to render the task table.
type TableViewState struct {
	Width        int
	Height       int // body rows that fit; 0 means all
	Offset       int // first visible body row
	Headers      []string
	HeaderStyles []lipgloss.Style
	Content      TableContent
	BorderStyle  lipgloss.Style
}

// VisibleWindow returns the first row to show so that focus stays inside a
// window of height rows starting at or after offset.
func VisibleWindow(offset, focus, height, total int) int {
	if height <= 0 || total <= height {
		return 0
	}
	if focus < offset {
		offset = focus
	}
	if focus >= offset+height {
		offset = focus - height + 1
	}
	return max(min(offset, total-height), 0)
}

// RenderTable renders the task table with a lipgloss table. Only the rows
// in [Offset, Offset+Height) are drawn.
func RenderTable(state TableViewState) string {
	rows := state.Content.Rows
	styles := state.Content.CellStyles
	if state.Height > 0 && len(rows) > state.Height {
		start := max(min(state.Offset, len(rows)-state.Height), 0)
		rows = rows[start : start+state.Height]
		if len(styles) >= start+state.Height {
			styles = styles[start : start+state.Height]
		}
	}

	t := table.New().
		Headers(state.Headers...).
		Border(lipgloss.RoundedBorder()).
		BorderHeader(true).
		BorderColumn(true).
		BorderRow(false).
		BorderStyle(state.BorderStyle).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				if col >= 0 && col < len(state.HeaderStyles) {
					return state.HeaderStyles[col]
				}
				return lipgloss.NewStyle()
			}
			if row < 0 || row >= len(styles) || col < 0 || col >= len(styles[row]) {
				return lipgloss.NewStyle()
			}
			return styles[row][col]
		})
	if state.Width > 0 {
		t = t.Width(state.Width)
	}

	return t.Render()
}
