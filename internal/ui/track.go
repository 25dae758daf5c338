package ui

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/pacer/internal/dateutil"
	"github.com/javiermolinar/pacer/internal/projection"
	"github.com/javiermolinar/pacer/internal/session"
	"github.com/javiermolinar/pacer/internal/task"
)

// save writes a session and the task statuses it implies.
func (a *App) save(ctx context.Context, tasks []task.Task, st session.State, progress []session.Progress) error {
	if err := a.store.SaveSession(ctx, st, progress); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	if err := a.store.ReplaceTasks(ctx, session.ApplyStatuses(tasks, st, progress)); err != nil {
		return fmt.Errorf("saving task statuses: %w", err)
	}
	return nil
}

func (a *App) startCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start working through the list",
		Long:  `Start a session. The first task becomes current and its timer starts now.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := context.Background()
			snap, err := a.load(ctx)
			if err != nil {
				return err
			}
			if snap.state.Active {
				return session.ErrAlreadyActive
			}

			st, progress, err := session.Start(snap.tasks, a.now())
			if err != nil {
				return err
			}
			if err := a.save(ctx, snap.tasks, st, progress); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Started: %s (%s)\n",
				snap.tasks[0].Name, dateutil.FormatDuration(snap.tasks[0].PlannedDurationSec))
			return nil
		},
	}
}

func (a *App) nextCmd() *cobra.Command {
	var missed bool

	cmd := &cobra.Command{
		Use:   "next",
		Short: "Finish the current task and move on",
		Long: `Mark the current task complete (or missed with --missed), record how long
it actually took, and start the next one.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := context.Background()
			now := a.now()
			snap, err := a.load(ctx)
			if err != nil {
				return err
			}

			outcome := task.StatusComplete
			if missed {
				outcome = task.StatusMissed
			}
			prev := snap.state.CurrentIndex
			st, progress, err := session.Advance(snap.state, snap.progress, snap.tasks, outcome, now)
			if err != nil {
				return err
			}
			if err := a.save(ctx, snap.tasks, st, progress); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			done := snap.tasks[prev]
			fmt.Fprintf(out, "%s %s after %s\n",
				statusSymbol(outcome), done.Name,
				dateutil.FormatDuration(int(snap.state.Elapsed(now)/time.Second)))
			if st.Active {
				nt := snap.tasks[st.CurrentIndex]
				fmt.Fprintf(out, "Now: %s (%s)\n", nt.Name, dateutil.FormatDuration(nt.PlannedDurationSec))
			} else {
				fmt.Fprintln(out, "All tasks done.")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&missed, "missed", false, "Mark the current task as missed instead of complete")

	return cmd
}

func (a *App) resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Discard the session and mark every task pending",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := context.Background()
			snap, err := a.load(ctx)
			if err != nil {
				return err
			}
			if err := a.store.ClearSession(ctx); err != nil {
				return fmt.Errorf("clearing session: %w", err)
			}
			if err := a.store.ReplaceTasks(ctx, session.ApplyStatuses(snap.tasks, session.Idle(), nil)); err != nil {
				return fmt.Errorf("saving task statuses: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Session cleared.")
			return nil
		},
	}
}

func (a *App) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the live forecast",
		Long: `Show where the session stands: finished tasks at their actual times, the
current task with its elapsed time, and when every remaining task is now
expected to start. Fixed tasks are colored by how much slack is left.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			now := a.now()
			snap, err := a.load(context.Background())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(snap.tasks) == 0 {
				fmt.Fprintln(out, "No tasks.")
				return nil
			}
			if !snap.state.Started() {
				fmt.Fprintln(out, formatMuted("No session yet; showing the forecast if you start now."))
			}

			projected := projection.Project(snap.tasks, snap.progress, snap.state.CurrentIndex, snap.state.Elapsed(now), now)
			printProjection(out, projected, a.config.ClockFormat())
			return nil
		},
	}
}

func printProjection(out io.Writer, projected []projection.ProjectedTask, clock dateutil.ClockFormat) {
	width := nameWidth(44)
	for i, pt := range projected {
		marker := "  "
		switch pt.DisplayStatus {
		case projection.StatusCurrent:
			marker = "▶ "
		case projection.StatusCompleted:
			marker = "✓ "
		}

		times := dateutil.FormatTime(pt.ProjectedStart, clock) + "-" + dateutil.FormatTime(pt.ProjectedEnd, clock)
		line := fmt.Sprintf("%s%2d  %s  %-8s %s", marker, i+1, times,
			dateutil.FormatDuration(pt.PlannedDurationSec), truncate(pt.Name, width))

		switch {
		case pt.DisplayStatus == projection.StatusCompleted:
			line = formatMuted(line)
		case pt.Risk != projection.RiskNone:
			line = formatRisk(pt.Risk, line) + "  " + bufferNote(pt, clock)
		case pt.DisplayStatus == projection.StatusCurrent:
			line = formatHeader(line) + "  " + formatMuted(dateutil.FormatDuration(pt.ElapsedSec)+" elapsed")
		}
		if pt.WillBeInterrupted && pt.InterruptingTask != nil {
			line += "  " + formatWarn(fmt.Sprintf("cut by %s at %s",
				pt.InterruptingTask.Name, dateutil.FormatTime(pt.InterruptingTask.Start, clock)))
		}
		fmt.Fprintln(out, line)
	}

	s := projection.Summarize(projected)
	fmt.Fprintf(out, "\n%s %s  %s %d", formatHeader("Forecast end:"), dateutil.FormatTime(s.ForecastEnd, clock),
		formatHeader("Remaining:"), s.Remaining)
	if s.AtRisk > 0 || s.Late > 0 {
		fmt.Fprintf(out, "  %s  %s",
			formatRisk(projection.RiskYellow, fmt.Sprintf("%d at risk", s.AtRisk)),
			formatRisk(projection.RiskRed, fmt.Sprintf("%d late", s.Late)))
	}
	fmt.Fprintln(out)
}

func bufferNote(pt projection.ProjectedTask, clock dateutil.ClockFormat) string {
	due := "due " + dateutil.FormatTime(pt.PlannedStart, clock)
	if pt.BufferSec < 0 {
		return formatRisk(pt.Risk, fmt.Sprintf("%s, %s late", due, dateutil.FormatDuration(-pt.BufferSec)))
	}
	return formatMuted(fmt.Sprintf("%s, %s spare", due, dateutil.FormatDuration(pt.BufferSec)))
}

