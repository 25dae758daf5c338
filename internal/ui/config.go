package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/pacer/internal/config"
	"github.com/javiermolinar/pacer/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  pacer config`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if path == "" {
				path = config.DefaultConfigPath()
			}
			return runConfigInteractive(path, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&path, "file", "", "Config file to edit (default ~/.config/pacer/config.toml)")

	return cmd
}

func runConfigInteractive(configPath string, in io.Reader, out io.Writer) error {
	fmt.Fprintf(out, "Config file: %s\n\n", configPath)

	// Load existing config or create defaults
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	_, fileErr := os.Stat(configPath)
	if os.IsNotExist(fileErr) {
		fmt.Fprintln(out, "No config file found. Creating with default values...")
		if err := cfg.SaveTo(configPath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(out, "Created %s\n\n", configPath)
	}

	printConfig(out, cfg)

	reader := bufio.NewReader(in)
	if !promptYesNo(reader, out, "\nWould you like to edit the configuration?") {
		return nil
	}

	cfg.Schedule.StartMode = promptValue(reader, out, "Start mode (now or custom)", cfg.Schedule.StartMode)
	cfg.Schedule.CustomStart = promptValue(reader, out, "Custom start (e.g. 09:00)", cfg.Schedule.CustomStart)
	cfg.Schedule.Clock = promptValue(reader, out, "Clock (24h or 12h)", cfg.Schedule.Clock)
	cfg.Schedule.DebounceMs = promptInt(reader, out, "Recalculation delay in ms", cfg.Schedule.DebounceMs)
	cfg.Storage.DBPath = promptValue(reader, out, "Database path", cfg.Storage.DBPath)
	cfg.UI.Color = promptValue(reader, out, "Color (auto, always, never)", cfg.UI.Color)
	cfg.UI.Theme = promptTheme(reader, out, cfg.UI.Theme)

	// Validate before saving
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := cfg.SaveTo(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(out, "\nConfiguration saved!")
	return nil
}

func printConfig(out io.Writer, cfg *config.Config) {
	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintln(out, "──────────────────────")
	fmt.Fprintln(out, "[schedule]")
	fmt.Fprintf(out, "  start_mode   = %s\n", cfg.Schedule.StartMode)
	if cfg.Schedule.CustomStart != "" {
		fmt.Fprintf(out, "  custom_start = %s\n", cfg.Schedule.CustomStart)
	}
	fmt.Fprintf(out, "  clock        = %s\n", cfg.Schedule.Clock)
	fmt.Fprintf(out, "  debounce_ms  = %d\n", cfg.Schedule.DebounceMs)
	fmt.Fprintln(out, "\n[storage]")
	fmt.Fprintf(out, "  db_path      = %s\n", cfg.Storage.DBPath)
	fmt.Fprintln(out, "\n[ui]")
	fmt.Fprintf(out, "  color        = %s\n", cfg.UI.Color)
	fmt.Fprintf(out, "  theme        = %s\n", cfg.UI.Theme)
}

func promptYesNo(reader *bufio.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func promptValue(reader *bufio.Reader, out io.Writer, label, current string) string {
	if current == "" {
		fmt.Fprintf(out, "  %s: ", label)
	} else {
		fmt.Fprintf(out, "  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptInt(reader *bufio.Reader, out io.Writer, label string, current int) int {
	for {
		value := promptValue(reader, out, label, strconv.Itoa(current))
		n, err := strconv.Atoi(value)
		if err == nil {
			return n
		}
		fmt.Fprintf(out, "  Invalid number %q\n", value)
	}
}

func promptTheme(reader *bufio.Reader, out io.Writer, current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("Tracker theme (%s)", options)
	for {
		value := promptValue(reader, out, label, current)
		if theme.IsAvailable(value) {
			return strings.ToLower(value)
		}
		fmt.Fprintf(out, "  Invalid theme %q. Available: %s\n", value, options)
		if value == current {
			// A bad saved theme with no new input falls back to the default.
			return theme.Default
		}
	}
}
