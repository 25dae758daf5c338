package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/pacer/internal/dateutil"
	"github.com/javiermolinar/pacer/internal/task"
)

func (a *App) pinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pin [task] [time]",
		Short: "Fix a task at a time and move it into place",
		Long: `Fix a task at a time of day and move it to its chronological position.

Flexible tasks are compared by where the current schedule places them, so
the pinned task lands between the tasks that would run around that time.`,
		Example: `  pacer pin 4 14:00
  pacer pin 1f2e 2:30pm`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			now := a.now()

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
			at, ok := dateutil.ParseTime(args[1], now)
			if !ok {
				return fmt.Errorf("%q: %w", args[1], task.ErrInvalidTime)
			}

			id := snap.tasks[i].ID
			stamped := a.calculate(snap.tasks, now).Tasks()
			reordered := task.ReorderChronologically(stamped, id, at)
			pos := task.Index(reordered, id)
			if err := snap.editable(pos); err != nil {
				return fmt.Errorf("pinning at %s would move it before the current task: %w", args[1], err)
			}

			if err := a.store.ReplaceTasks(ctx, reordered); err != nil {
				return fmt.Errorf("saving order: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pinned %s at %s (position %d)\n",
				reordered[pos].Name,
				dateutil.FormatTime(at, a.config.ClockFormat()),
				pos+1,
			)
			return nil
		},
	}
}

func (a *App) unpinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unpin [task]",
		Short: "Make a fixed task flexible again",
		Long: `Make a fixed task flexible. It keeps its place in the list and runs
when the list reaches it.`,
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
			if t.IsFlexible() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is already flexible\n", t.Name)
				return nil
			}
			t.Type = task.TypeFlexible
			if err := a.store.UpdateTask(ctx, t); err != nil {
				return fmt.Errorf("updating task: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Unpinned %s\n", t.Name)
			return nil
		},
	}
}
