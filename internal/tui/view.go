package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/pacer/internal/dateutil"
	"github.com/javiermolinar/pacer/internal/projection"
	"github.com/javiermolinar/pacer/internal/schedule"
	"github.com/javiermolinar/pacer/internal/task"
	"github.com/javiermolinar/pacer/internal/tui/view"
)

var tableHeaders = []string{"", "#", "Start", "End", "Task", "Length", "Notes"}

const (
	colStatus = iota
	colIndex
	colStart
	colEnd
	colName
	colLength
	colNotes
)

// View renders the model.
func (m Model) View() string {
	now := m.now()

	header := view.RenderHeader(view.HeaderViewState{
		Width: m.width,
		Title: "pacer",
		Mode:  m.mode.String(),
		Clock: m.clock(now),
		Style: m.styles.TitleStyle,
		Muted: m.styles.MutedStyle,
	})

	footer := view.RenderFooter(view.FooterViewState{
		Width:       m.width,
		SummaryLine: m.summaryLine(),
		StatusLine:  m.statusLine(),
		HelpLine:    m.help.View(modeKeys{km: m.keys, mode: m.mode}),
	})

	return view.Render(view.ViewState{
		Width:            m.width,
		Height:           m.height,
		Header:           header,
		Body:             m.body(),
		Footer:           footer,
		EmptyPlaceholder: "Loading...",
	})
}

func (m Model) clock(t time.Time) string {
	return dateutil.FormatTime(t, m.config.ClockFormat())
}

func (m Model) body() string {
	if m.loading {
		return m.styles.MutedStyle.Render("Loading tasks...")
	}
	if len(m.tasks) == 0 {
		return m.styles.MutedStyle.Render("No tasks. Add some with 'pacer add' or 'pacer import'.")
	}

	var content view.TableContent
	if m.mode == ModePreview {
		content = m.previewContent()
	} else {
		content = m.trackingContent()
	}

	headerStyles := make([]lipgloss.Style, len(tableHeaders))
	for i := range headerStyles {
		headerStyles[i] = m.styles.HeaderStyle
	}

	return view.RenderTable(view.TableViewState{
		Width:        m.width,
		Height:       m.tableRows(),
		Offset:       m.offset,
		Headers:      tableHeaders,
		HeaderStyles: headerStyles,
		Content:      content,
		BorderStyle:  m.styles.BorderStyle,
	})
}

// previewContent lays out the calculated schedule.
func (m Model) previewContent() view.TableContent {
	var content view.TableContent
	for i, st := range m.result.ScheduledTasks {
		row := make([]string, len(tableHeaders))
		row[colStatus] = outcomeSymbol(st.Status)
		row[colIndex] = fmt.Sprintf("%d", i+1)
		row[colStart] = m.clock(st.CalculatedStart)
		row[colEnd] = m.clock(st.CalculatedEnd)
		row[colName] = st.Name
		row[colLength] = dateutil.FormatDuration(st.PlannedDurationSec)
		row[colNotes] = m.previewNotes(st)

		base := m.styles.FlexibleStyle
		if st.IsFixed() {
			base = m.styles.FixedStyle
		}
		content.Rows = append(content.Rows, row)
		content.CellStyles = append(content.CellStyles, m.rowStyles(i, base, base))
	}
	return content
}

func (m Model) previewNotes(st schedule.ScheduledTask) string {
	var notes []string
	if st.IsMilestone() {
		notes = append(notes, "milestone")
	}
	if st.IsInterrupted {
		notes = append(notes, fmt.Sprintf("paused %s, %s left",
			m.clock(st.PauseTime), dateutil.FormatDuration(st.RemainingDurationSec)))
	}
	if st.IsFixed() {
		for _, c := range schedule.ConflictsFor(m.result.Conflicts, st.ID) {
			other := c.TaskID2
			if other == st.ID {
				other = c.TaskID1
			}
			name := other
			if i := task.Index(m.tasks, other); i >= 0 {
				name = m.tasks[i].Name
			}
			notes = append(notes, fmt.Sprintf("overlaps %s by %s", name, dateutil.FormatDuration(c.OverlapSec)))
		}
	}
	return strings.Join(notes, "; ")
}

// trackingContent lays out the live forecast.
func (m Model) trackingContent() view.TableContent {
	var content view.TableContent
	for i, pt := range m.projected {
		row := make([]string, len(tableHeaders))
		row[colIndex] = fmt.Sprintf("%d", i+1)
		row[colStart] = m.clock(pt.ProjectedStart)
		row[colEnd] = m.clock(pt.ProjectedEnd)
		row[colName] = pt.Name
		row[colLength] = dateutil.FormatDuration(pt.PlannedDurationSec)
		row[colNotes] = m.trackingNotes(pt)

		var base, notes lipgloss.Style
		switch pt.DisplayStatus {
		case projection.StatusCompleted:
			row[colStatus] = outcomeSymbol(pt.Status)
			base, notes = m.styles.DoneStyle, m.styles.DoneStyle
		case projection.StatusCurrent:
			row[colStatus] = outcomeSymbol(task.StatusActive)
			base, notes = m.styles.CurrentStyle, m.styles.CurrentStyle
		default:
			row[colStatus] = " "
			base = m.styles.FlexibleStyle
			notes = base
			if pt.IsFixed() {
				base = m.styles.FixedStyle
				notes = m.styles.riskStyle(pt.Risk)
			}
		}
		content.Rows = append(content.Rows, row)
		content.CellStyles = append(content.CellStyles, m.rowStyles(i, base, notes))
	}
	return content
}

func (m Model) trackingNotes(pt projection.ProjectedTask) string {
	switch pt.DisplayStatus {
	case projection.StatusCompleted:
		if pt.ElapsedSec > 0 {
			return "took " + dateutil.FormatDuration(pt.ElapsedSec)
		}
		return ""
	case projection.StatusCurrent:
		note := fmt.Sprintf("%s of %s", dateutil.FormatDuration(pt.ElapsedSec), dateutil.FormatDuration(pt.PlannedDurationSec))
		if pt.ElapsedSec > pt.PlannedDurationSec {
			note += ", over"
		}
		return note
	}

	if pt.IsFixed() {
		due := m.clock(pt.PlannedStart)
		switch {
		case pt.BufferSec < 0:
			return fmt.Sprintf("due %s, %s late", due, dateutil.FormatDuration(-pt.BufferSec))
		case pt.BufferSec == 0:
			return fmt.Sprintf("due %s, no spare", due)
		default:
			return fmt.Sprintf("due %s, %s spare", due, dateutil.FormatDuration(pt.BufferSec))
		}
	}
	if pt.WillBeInterrupted && pt.InterruptingTask != nil {
		return fmt.Sprintf("cut by %s at %s", pt.InterruptingTask.Name, m.clock(pt.InterruptingTask.Start))
	}
	return ""
}

// rowStyles returns the cell styles of row i; the cursor row is reversed.
func (m Model) rowStyles(i int, base, notes lipgloss.Style) []lipgloss.Style {
	styles := make([]lipgloss.Style, len(tableHeaders))
	for col := range styles {
		styles[col] = base
	}
	styles[colIndex] = m.styles.MutedStyle.Padding(0, 1)
	styles[colNotes] = notes
	if i == m.cursor {
		for col := range styles {
			styles[col] = styles[col].Reverse(true)
		}
	}
	return styles
}

func (m Model) summaryLine() string {
	if m.loading || len(m.tasks) == 0 {
		return ""
	}

	switch m.mode {
	case ModePreview:
		r := m.result
		parts := []string{
			fmt.Sprintf("Start %s", m.clock(m.start)),
			fmt.Sprintf("End %s", m.clock(r.ScheduleEndTime)),
		}
		if n := len(r.Interrupted()); n > 0 {
			parts = append(parts, fmt.Sprintf("%d split", n))
		}
		if n := len(r.Conflicts); n > 0 {
			parts = append(parts, fmt.Sprintf("%d overlap", n))
		}
		if r.HasOverflow {
			parts = append(parts, "runs past midnight")
		}
		if m.pending {
			parts = append(parts, "recalculating…")
		}
		return m.styles.MutedStyle.Render(strings.Join(parts, "  "))

	default:
		s := projection.Summarize(m.projected)
		if m.mode == ModeFinished {
			return m.styles.MutedStyle.Render(fmt.Sprintf("All tasks done at %s", m.clock(s.ForecastEnd)))
		}
		parts := []string{
			fmt.Sprintf("Forecast end %s", m.clock(s.ForecastEnd)),
			fmt.Sprintf("%d left", s.Remaining),
		}
		if s.AtRisk > 0 {
			parts = append(parts, m.styles.RiskYellowStyle.UnsetPadding().Render(fmt.Sprintf("%d at risk", s.AtRisk)))
		}
		if s.Late > 0 {
			parts = append(parts, m.styles.RiskRedStyle.UnsetPadding().Render(fmt.Sprintf("%d late", s.Late)))
		}
		if s.Interrupted > 0 {
			parts = append(parts, fmt.Sprintf("%d will be cut", s.Interrupted))
		}
		return strings.Join(parts, "  ")
	}
}

func (m Model) statusLine() string {
	if m.err != nil {
		return m.styles.ErrorStyle.Render("error: " + m.err.Error())
	}
	if m.statusMsg == "" {
		return ""
	}
	return m.styles.StatusStyle.Render(m.statusMsg)
}
