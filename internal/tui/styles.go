package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/pacer/internal/projection"
	"github.com/javiermolinar/pacer/internal/tui/theme"
)

// Styles holds all lipgloss styles for the tracker, derived from a theme.
type Styles struct {
	TitleStyle  lipgloss.Style
	HeaderStyle lipgloss.Style
	BorderStyle lipgloss.Style
	MutedStyle  lipgloss.Style

	CellStyle     lipgloss.Style
	FixedStyle    lipgloss.Style
	FlexibleStyle lipgloss.Style
	CurrentStyle  lipgloss.Style
	DoneStyle     lipgloss.Style

	RiskGreenStyle  lipgloss.Style
	RiskYellowStyle lipgloss.Style
	RiskRedStyle    lipgloss.Style

	StatusStyle lipgloss.Style
	ErrorStyle  lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t theme.Theme) *Styles {
	cell := lipgloss.NewStyle().Padding(0, 1).Foreground(theme.Color(t.Fg))

	return &Styles{
		TitleStyle:  lipgloss.NewStyle().Bold(true).Foreground(theme.Color(t.Accent)),
		HeaderStyle: cell.Bold(true).Foreground(theme.Color(t.Accent)),
		BorderStyle: lipgloss.NewStyle().Foreground(theme.Color(t.FgMuted)),
		MutedStyle:  lipgloss.NewStyle().Foreground(theme.Color(t.FgMuted)),

		CellStyle:     cell,
		FixedStyle:    cell.Foreground(theme.Color(t.Fixed)),
		FlexibleStyle: cell.Foreground(theme.Color(t.Flexible)),
		CurrentStyle:  cell.Bold(true).Foreground(theme.Color(t.Current)),
		DoneStyle:     cell.Foreground(theme.Color(t.FgMuted)).Strikethrough(true),

		RiskGreenStyle:  cell.Foreground(theme.Color(t.Green)),
		RiskYellowStyle: cell.Foreground(theme.Color(t.Yellow)),
		RiskRedStyle:    cell.Bold(true).Foreground(theme.Color(t.Red)),

		StatusStyle: lipgloss.NewStyle().Foreground(theme.Color(t.Current)),
		ErrorStyle:  lipgloss.NewStyle().Bold(true).Foreground(theme.Color(t.Red)),
	}
}

// riskStyle returns the cell style for a fixed task's risk level.
func (s *Styles) riskStyle(r projection.RiskLevel) lipgloss.Style {
	switch r {
	case projection.RiskGreen:
		return s.RiskGreenStyle
	case projection.RiskYellow:
		return s.RiskYellowStyle
	case projection.RiskRed:
		return s.RiskRedStyle
	default:
		return s.CellStyle
	}
}
