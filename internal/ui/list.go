package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/pacer/internal/dateutil"
	"github.com/javiermolinar/pacer/internal/session"
)

func (a *App) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks in order",
		Long: `List the day's tasks in execution order.

Tasks can be referred to in other commands by their position or by a prefix
of the ID shown here.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := a.load(context.Background())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(snap.tasks) == 0 {
				fmt.Fprintln(out, "No tasks. Add one with 'pacer add' or 'pacer import'.")
				return nil
			}

			clock := a.config.ClockFormat()
			width := nameWidth(40)
			tasks := session.ApplyStatuses(snap.tasks, snap.state, snap.progress)
			for i, t := range tasks {
				start := "     "
				if t.IsFixed() {
					start = dateutil.FormatTime(t.PlannedStart, clock)
				}
				fmt.Fprintf(out, "  %s %2d  %s  %-5s  %s  %-8s %s\n",
					statusSymbol(t.Status),
					i+1,
					formatMuted(shortID(t.ID)),
					typeLabel(t.Type),
					formatType(t.Type, start),
					dateutil.FormatDuration(t.PlannedDurationSec),
					truncate(t.Name, width),
				)
			}
			return nil
		},
	}
}

func (a *App) removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm [task]",
		Aliases: []string{"remove"},
		Short:   "Remove a task",
		Example: `  pacer rm 3
  pacer rm 1f2e3d4c`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			snap, err := a.load(ctx)
			if err != nil {
				return err
			}

			i, err := resolveTask(snap.tasks, args[0])
			if err != nil {
				return err
			}
			if err := snap.editable(i); err != nil {
				return err
			}

			t := snap.tasks[i]
			if err := a.store.DeleteTask(ctx, t.ID); err != nil {
				return fmt.Errorf("removing task: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s %s\n", formatMuted(shortID(t.ID)), t.Name)
			return nil
		},
	}
}
