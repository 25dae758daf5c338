package ui

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/pacer/internal/dateutil"
	"github.com/javiermolinar/pacer/internal/schedule"
	"github.com/javiermolinar/pacer/internal/task"
)

// calculate schedules tasks with the configured anchor.
func (a *App) calculate(tasks []task.Task, now time.Time) schedule.Result {
	return schedule.Calculate(tasks, a.config.ScheduleFor(now), now)
}

func (a *App) scheduleCmd() *cobra.Command {
	var (
		at      string
		fromNow bool
		copyOut bool
	)

	cmd := &cobra.Command{
		Use:     "schedule",
		Aliases: []string{"plan"},
		Short:   "Show when each task will run",
		Long: `Lay the task list out on the clock.

Flexible tasks run back to back from the start time (now, or the configured
custom start). A fixed task that starts inside a flexible one splits it; the
flexible task resumes once the fixed task ends.`,
		Example: `  pacer schedule
  pacer schedule --at 08:30
  pacer schedule --copy`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			now := a.now()
			snap, err := a.load(context.Background())
			if err != nil {
				return err
			}

			cfg := a.config.ScheduleFor(now)
			switch {
			case at != "":
				start, ok := dateutil.ParseTime(at, now)
				if !ok {
					return fmt.Errorf("%q: %w", at, task.ErrInvalidTime)
				}
				cfg = schedule.Config{Mode: schedule.ModeCustom, CustomStart: start}
			case fromNow:
				cfg = schedule.Config{Mode: schedule.ModeNow}
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(snap.tasks) == 0 {
				fmt.Fprintln(out, "No tasks to schedule.")
				return nil
			}

			res := schedule.Calculate(snap.tasks, cfg, now)
			clock := a.config.ClockFormat()
			fmt.Fprintln(out, renderScheduleTable(res, clock))
			printScheduleSummary(out, res, schedule.StartTime(cfg, now), clock)

			if copyOut {
				if err := a.clipboard(plainSchedule(res, clock)); err != nil {
					return fmt.Errorf("copying to clipboard: %w", err)
				}
				fmt.Fprintln(out, formatMuted("Copied to clipboard."))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Start the schedule at this time instead of the configured start")
	cmd.Flags().BoolVar(&fromNow, "now", false, "Start the schedule now, ignoring a configured custom start")
	cmd.Flags().BoolVar(&copyOut, "copy", false, "Copy the schedule to the clipboard as plain text")
	cmd.MarkFlagsMutuallyExclusive("at", "now")

	return cmd
}

func printScheduleSummary(out io.Writer, res schedule.Result, start time.Time, clock dateutil.ClockFormat) {
	fmt.Fprintf(out, "%s %s  %s %s\n",
		formatHeader("Start:"), dateutil.FormatTime(start, clock),
		formatHeader("End:"), dateutil.FormatTime(res.ScheduleEndTime, clock),
	)
	if res.HasOverflow {
		fmt.Fprintln(out, formatWarn("The schedule runs past midnight."))
	}
	if n := len(res.Interrupted()); n > 0 {
		fmt.Fprintln(out, formatWarn(fmt.Sprintf("%d flexible task(s) split by fixed tasks.", n)))
	}
	if n := len(res.Conflicts); n > 0 {
		fmt.Fprintln(out, formatWarn(fmt.Sprintf("%d fixed task overlap(s).", n)))
	}
}
