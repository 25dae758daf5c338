package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/pacer/internal/dateutil"
	"github.com/javiermolinar/pacer/internal/task"
)

func (a *App) addCmd() *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "add [name] [duration]",
		Short: "Add a task to the end of the list",
		Long: `Add a task to the end of today's list.

Without --at the task is flexible and runs whenever the list reaches it.
With --at it is fixed at that time and moved into chronological position.
A zero duration (0s) adds a milestone.`,
		Example: `  pacer add "Email" 30m
  pacer add "Standup" 15m --at 09:30
  pacer add "Lunch" "1h 30m" --at "12:30 PM"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			now := a.now()

			t, err := task.New(args[0], args[1], at, now)
			if err != nil {
				return err
			}

			snap, err := a.load(ctx)
			if err != nil {
				return err
			}
			if err := a.store.CreateTask(ctx, t); err != nil {
				return fmt.Errorf("creating task: %w", err)
			}

			if t.IsFixed() {
				tasks := append(snap.tasks, *t)
				stamped := a.calculate(tasks, now).Tasks()
				reordered := task.ReorderChronologically(stamped, t.ID, t.PlannedStart)
				if pos := task.Index(reordered, t.ID); snap.state.Active && pos <= snap.state.CurrentIndex {
					// Keep it after the current task rather than rewrite history.
					reordered = tasks
				}
				if err := a.store.ReplaceTasks(ctx, reordered); err != nil {
					return fmt.Errorf("reordering tasks: %w", err)
				}
			}

			when := "flexible"
			if t.IsFixed() {
				when = "at " + dateutil.FormatTime(t.PlannedStart, a.config.ClockFormat())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s (%s, %s)\n",
				formatMuted(shortID(t.ID)),
				t.Name,
				dateutil.FormatDuration(t.PlannedDurationSec),
				when,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Fixed start time (HH:MM or H:MM AM/PM)")

	return cmd
}
