package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"

	"github.com/javiermolinar/pacer/internal/dateutil"
	"github.com/javiermolinar/pacer/internal/schedule"
	"github.com/javiermolinar/pacer/internal/task"
)

// Reference errors.
var (
	ErrNoMatch   = errors.New("no task matches")
	ErrAmbiguous = errors.New("more than one task matches")
)

const shortIDLen = 8

// shortID returns the displayed prefix of a task ID.
func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

// truncate shortens s to at most width display columns.
func truncate(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

// nameWidth is the room left for task names in a table with the given
// overhead in columns.
func nameWidth(overhead int) int {
	return max(termWidth()-overhead, 12)
}

// resolveTask finds a task by its 1-based list position or by an ID prefix.
// Numbers shorter than a displayed ID are positions.
func resolveTask(tasks []task.Task, ref string) (int, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return -1, fmt.Errorf("empty task reference: %w", ErrNoMatch)
	}
	if n, err := strconv.Atoi(ref); err == nil && len(ref) < shortIDLen {
		if n < 1 || n > len(tasks) {
			return -1, fmt.Errorf("position %d: %w", n, ErrNoMatch)
		}
		return n - 1, nil
	}

	found := -1
	for i, t := range tasks {
		if !strings.HasPrefix(t.ID, ref) {
			continue
		}
		if found >= 0 {
			return -1, fmt.Errorf("%q: %w", ref, ErrAmbiguous)
		}
		found = i
	}
	if found < 0 {
		return -1, fmt.Errorf("%q: %w", ref, ErrNoMatch)
	}
	return found, nil
}

func statusSymbol(s task.Status) string {
	switch s {
	case task.StatusPending:
		return "○"
	case task.StatusActive:
		return "▶"
	case task.StatusComplete:
		return "✓"
	case task.StatusMissed:
		return "✗"
	default:
		return "?"
	}
}

func typeLabel(t task.Type) string {
	if t == task.TypeFixed {
		return "fixed"
	}
	return "flex"
}

// timeRange renders "09:00-09:30" in the given clock format.
func timeRange(seg schedule.Segment, clock dateutil.ClockFormat) string {
	return dateutil.FormatTime(seg.Start, clock) + "-" + dateutil.FormatTime(seg.End, clock)
}

// scheduleNotes describes splits, milestones and conflicts for one row.
func scheduleNotes(st schedule.ScheduledTask, res schedule.Result, names map[string]string, clock dateutil.ClockFormat) string {
	var notes []string
	if st.IsMilestone() {
		notes = append(notes, "milestone")
	}
	if st.IsInterrupted {
		parts := make([]string, len(st.Segments))
		for i, seg := range st.Segments {
			parts[i] = timeRange(seg, clock)
		}
		notes = append(notes, "split "+strings.Join(parts, ", "))
	}
	for _, c := range schedule.ConflictsFor(res.Conflicts, st.ID) {
		other := c.TaskID2
		if other == st.ID {
			other = c.TaskID1
		}
		notes = append(notes, fmt.Sprintf("overlaps %s by %s", names[other], dateutil.FormatDuration(c.OverlapSec)))
	}
	return strings.Join(notes, "; ")
}

// scheduleRows builds one plain-text row per scheduled task.
func scheduleRows(res schedule.Result, clock dateutil.ClockFormat, maxName int) [][]string {
	names := make(map[string]string, len(res.ScheduledTasks))
	for _, st := range res.ScheduledTasks {
		names[st.ID] = st.Name
	}

	rows := make([][]string, len(res.ScheduledTasks))
	for i, st := range res.ScheduledTasks {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			dateutil.FormatTime(st.CalculatedStart, clock),
			dateutil.FormatTime(st.CalculatedEnd, clock),
			truncate(st.Name, maxName),
			typeLabel(st.Type),
			dateutil.FormatDuration(st.PlannedDurationSec),
			scheduleNotes(st, res, names, clock),
		}
	}
	return rows
}

var scheduleHeaders = []string{"#", "Start", "End", "Task", "Type", "Length", "Notes"}

// renderScheduleTable renders a calculated schedule as a bordered table.
// Fixed rows are highlighted and split rows are flagged.
func renderScheduleTable(res schedule.Result, clock dateutil.ClockFormat) string {
	rows := scheduleRows(res, clock, nameWidth(56))

	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	fixedStyle := cellStyle.Foreground(lipgloss.Color("6")).Bold(true)
	warnStyle := cellStyle.Foreground(lipgloss.Color("3"))

	t := table.New().
		Headers(scheduleHeaders...).
		Border(lipgloss.RoundedBorder()).
		BorderHeader(true).
		BorderColumn(true).
		BorderRow(false).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row < 0 || row >= len(res.ScheduledTasks) {
				return cellStyle
			}
			st := res.ScheduledTasks[row]
			switch {
			case col == len(scheduleHeaders)-1 && rows[row][col] != "":
				return warnStyle
			case st.IsFixed():
				return fixedStyle
			default:
				return cellStyle
			}
		})

	return t.Render()
}

// plainSchedule renders a schedule as unstyled lines for the clipboard.
func plainSchedule(res schedule.Result, clock dateutil.ClockFormat) string {
	var b strings.Builder
	for _, row := range scheduleRows(res, clock, 0) {
		fmt.Fprintf(&b, "%s-%s  %s (%s)", row[1], row[2], row[3], row[5])
		if row[6] != "" {
			fmt.Fprintf(&b, "  [%s]", row[6])
		}
		b.WriteByte('\n')
	}
	return b.String()
}
