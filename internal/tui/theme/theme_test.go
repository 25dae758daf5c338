package theme

import (
	"slices"
	"testing"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		themeName string
		wantName  string
		wantErr   bool
	}{
		{name: "load mocha theme", themeName: "mocha", wantName: "mocha"},
		{name: "load latte theme", themeName: "latte", wantName: "latte"},
		{name: "case insensitive", themeName: "Mono", wantName: "mono"},
		{name: "empty name defaults to mocha", themeName: "", wantName: "mocha"},
		{name: "invalid theme falls back to mocha", themeName: "nonexistent", wantName: "mocha", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			theme, err := Load(tt.themeName)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
			if theme.Name != tt.wantName {
				t.Errorf("Load() name = %q, want %q", theme.Name, tt.wantName)
			}
		})
	}
}

func TestThemesComplete(t *testing.T) {
	for _, name := range Available() {
		theme, err := Load(name)
		if err != nil {
			t.Fatalf("Load(%q): %v", name, err)
		}
		colors := map[string]string{
			"bg": theme.Bg, "fg": theme.Fg, "fg_muted": theme.FgMuted, "accent": theme.Accent,
			"fixed": theme.Fixed, "flexible": theme.Flexible, "current": theme.Current,
			"green": theme.Green, "yellow": theme.Yellow, "red": theme.Red,
		}
		for field, v := range colors {
			if len(v) != 7 || v[0] != '#' {
				t.Errorf("theme %s: %s = %q, want #rrggbb", name, field, v)
			}
		}
	}
}

func TestAvailable(t *testing.T) {
	got := Available()
	if want := []string{"latte", "mocha", "mono"}; !slices.Equal(got, want) {
		t.Errorf("Available() = %v, want %v", got, want)
	}
	if !slices.IsSorted(got) {
		t.Errorf("Available() not sorted: %v", got)
	}
	for _, name := range got {
		if !IsAvailable(name) {
			t.Errorf("IsAvailable(%q) = false", name)
		}
	}
	if IsAvailable("rainbow") {
		t.Error("IsAvailable(rainbow) = true")
	}
}

func TestLoad_ParsesEmbeddedFile(t *testing.T) {
	theme, err := Load("latte")
	if err != nil {
		t.Fatalf("Load(latte): %v", err)
	}
	if theme.Accent != "#8839ef" || theme.Red != "#d20f39" {
		t.Errorf("Load(latte) = %+v, want accent #8839ef and red #d20f39", theme)
	}
}
