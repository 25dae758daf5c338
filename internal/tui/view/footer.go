package view

import "strings"

// FooterViewState holds the strings needed to render the footer section.
type FooterViewState struct {
	Width       int
	SummaryLine string
	StatusLine  string
	HelpLine    string
}

// RenderFooter renders the summary, status and help lines. Empty lines are
// skipped.
func RenderFooter(state FooterViewState) string {
	var lines []string
	for _, s := range []string{state.SummaryLine, state.StatusLine, state.HelpLine} {
		if s != "" {
			lines = append(lines, s)
		}
	}
	if len(lines) == 0 {
		return ""
	}
	return ClipLines(strings.Join(lines, "\n"), state.Width, 0)
}
