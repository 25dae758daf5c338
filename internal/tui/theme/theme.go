// Package theme provides color themes for the tracker.
package theme

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pelletier/go-toml/v2"
)

//go:embed embedded/*.toml
var embeddedThemes embed.FS

// Default is the theme used when none is configured.
const Default = "mocha"

// Theme holds all colors for a tracker theme.
type Theme struct {
	Name     string `toml:"name"`
	Bg       string `toml:"bg"`       // Base background
	Fg       string `toml:"fg"`       // Primary foreground
	FgMuted  string `toml:"fg_muted"` // Done tasks, secondary text
	Accent   string `toml:"accent"`   // Title, borders
	Fixed    string `toml:"fixed"`    // Fixed tasks
	Flexible string `toml:"flexible"` // Flexible tasks
	Current  string `toml:"current"`  // Running task
	Green    string `toml:"green"`    // Comfortable buffer
	Yellow   string `toml:"yellow"`   // Tight buffer
	Red      string `toml:"red"`      // Late
}

// Color returns a lipgloss.Color for the given hex string.
func Color(hex string) lipgloss.Color {
	return lipgloss.Color(hex)
}

// Load returns a theme by name from the embedded files. Unknown names fall
// back to the default theme and report an error so the caller can warn
// about it.
func Load(name string) (Theme, error) {
	if name == "" {
		name = Default
	}
	name = strings.ToLower(name)

	t, err := parse(name)
	if err == nil {
		return t, nil
	}
	if name == Default {
		return Theme{}, err
	}
	fallback, ferr := parse(Default)
	if ferr != nil {
		return Theme{}, ferr
	}
	return fallback, fmt.Errorf("unknown theme %q", name)
}

func parse(name string) (Theme, error) {
	data, err := embeddedThemes.ReadFile("embedded/" + name + ".toml")
	if err != nil {
		return Theme{}, fmt.Errorf("loading theme %q: %w", name, err)
	}

	var t Theme
	if err := toml.Unmarshal(data, &t); err != nil {
		return Theme{}, fmt.Errorf("parsing theme %q: %w", name, err)
	}
	if t.Name == "" {
		t.Name = name
	}
	return t, nil
}

// Available returns the sorted theme names.
func Available() []string {
	entries, err := embeddedThemes.ReadDir("embedded")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
	}
	sort.Strings(names)
	return names
}

// IsAvailable reports whether a theme name is available.
func IsAvailable(name string) bool {
	name = strings.ToLower(name)
	for _, themeName := range Available() {
		if themeName == name {
			return true
		}
	}
	return false
}
