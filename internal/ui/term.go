package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/javiermolinar/pacer/internal/projection"
	"github.com/javiermolinar/pacer/internal/task"
)

// Color definitions for consistent styling across the UI.
var (
	// Fixed tasks: bold cyan, they do not move
	colorFixed = color.New(color.FgCyan, color.Bold)

	// Flexible tasks: plain
	colorFlexible = color.New(color.FgWhite)

	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)

	// Warnings: interruptions, overflow, conflicts
	colorWarn = color.New(color.FgYellow)

	colorRiskGreen  = color.New(color.FgGreen)
	colorRiskYellow = color.New(color.FgYellow, color.Bold)
	colorRiskRed    = color.New(color.FgRed, color.Bold)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// ApplyColorMode sets color output from the ui.color setting for both
// fatih/color and lipgloss. "auto" leaves their terminal detection in place.
func ApplyColorMode(mode string) {
	switch mode {
	case "always":
		EnableColor()
	case "never":
		DisableColor()
	}
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
	lipgloss.SetColorProfile(termenv.Ascii)
}

// EnableColor forces color output even when stdout is not a terminal.
func EnableColor() {
	color.NoColor = false
	lipgloss.SetColorProfile(termenv.ANSI256)
}

func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}

func formatWarn(s string) string {
	return colorWarn.Sprint(s)
}

// formatType colors text by task type.
func formatType(t task.Type, s string) string {
	if t == task.TypeFixed {
		return colorFixed.Sprint(s)
	}
	return colorFlexible.Sprint(s)
}

// formatRisk colors text by risk level. RiskNone is returned unstyled.
func formatRisk(r projection.RiskLevel, s string) string {
	switch r {
	case projection.RiskGreen:
		return colorRiskGreen.Sprint(s)
	case projection.RiskYellow:
		return colorRiskYellow.Sprint(s)
	case projection.RiskRed:
		return colorRiskRed.Sprint(s)
	default:
		return s
	}
}
