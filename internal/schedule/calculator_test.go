package schedule

import (
	"testing"
	"time"

	"github.com/javiermolinar/pacer/internal/task"
)

func clock(h, m int) time.Time {
	return time.Date(2025, 1, 15, h, m, 0, 0, time.Local)
}

func flexible(id string, minutes int) task.Task {
	return task.Task{ID: id, Name: id, Type: task.TypeFlexible, PlannedDurationSec: minutes * 60}
}

func fixed(id string, start time.Time, minutes int) task.Task {
	return task.Task{ID: id, Name: id, Type: task.TypeFixed, PlannedStart: start, PlannedDurationSec: minutes * 60}
}

func TestStartTime(t *testing.T) {
	now := clock(8, 30)
	if got := StartTime(Config{Mode: ModeNow}, now); !got.Equal(now) {
		t.Errorf("now mode: got %v, want %v", got, now)
	}
	custom := clock(7, 0)
	if got := StartTime(Config{Mode: ModeCustom, CustomStart: custom}, now); !got.Equal(custom) {
		t.Errorf("custom mode: got %v, want %v", got, custom)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "now", cfg: Config{Mode: ModeNow}},
		{name: "custom with start", cfg: Config{Mode: ModeCustom, CustomStart: clock(9, 0)}},
		{name: "custom without start", cfg: Config{Mode: ModeCustom}, wantErr: true},
		{name: "unknown mode", cfg: Config{Mode: "later"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCalculate_Empty(t *testing.T) {
	res := Calculate(nil, Config{Mode: ModeNow}, clock(8, 0))
	if len(res.ScheduledTasks) != 0 {
		t.Errorf("got %d scheduled tasks, want 0", len(res.ScheduledTasks))
	}
	if len(res.Conflicts) != 0 {
		t.Errorf("got %d conflicts, want 0", len(res.Conflicts))
	}
	if res.HasOverflow {
		t.Error("empty schedule should not overflow")
	}
	if !res.ScheduleEndTime.IsZero() {
		t.Errorf("got end %v, want zero", res.ScheduleEndTime)
	}
}

func TestCalculate_SequentialFlexible(t *testing.T) {
	tasks := []task.Task{flexible("a", 30), flexible("b", 45), flexible("c", 15)}
	anchor := clock(9, 0)

	res := Calculate(tasks, Config{Mode: ModeCustom, CustomStart: anchor}, clock(6, 0))

	st := res.ScheduledTasks
	if len(st) != 3 {
		t.Fatalf("got %d scheduled tasks, want 3", len(st))
	}
	if !st[0].CalculatedStart.Equal(anchor) {
		t.Errorf("first start = %v, want anchor %v", st[0].CalculatedStart, anchor)
	}
	for i := 0; i+1 < len(st); i++ {
		if !st[i+1].CalculatedStart.Equal(st[i].CalculatedEnd) {
			t.Errorf("task %d starts %v, previous ends %v", i+1, st[i+1].CalculatedStart, st[i].CalculatedEnd)
		}
	}
	if !res.ScheduleEndTime.Equal(clock(10, 30)) {
		t.Errorf("end = %v, want 10:30", res.ScheduleEndTime)
	}
	if res.HasOverflow {
		t.Error("unexpected overflow")
	}
}

func TestCalculate_FixedPinning(t *testing.T) {
	tasks := []task.Task{
		flexible("long", 300),
		fixed("lunch", clock(12, 0), 60),
		flexible("after", 30),
	}

	res := Calculate(tasks, Config{Mode: ModeNow}, clock(6, 0))

	lunch := res.ScheduledTasks[1]
	if !lunch.CalculatedStart.Equal(clock(12, 0)) {
		t.Errorf("fixed start = %v, want 12:00", lunch.CalculatedStart)
	}
	if !lunch.CalculatedEnd.Equal(clock(13, 0)) {
		t.Errorf("fixed end = %v, want 13:00", lunch.CalculatedEnd)
	}
}

func TestCalculate_InterruptionScenario(t *testing.T) {
	now := clock(8, 30)
	tasks := []task.Task{
		flexible("Deep Work", 120),
		fixed("Meeting", now.Add(30*time.Minute), 60),
	}

	res := Calculate(tasks, Config{Mode: ModeNow}, now)

	dw := res.ScheduledTasks[0]
	if !dw.IsInterrupted {
		t.Fatal("expected Deep Work to be interrupted")
	}
	if !dw.PauseTime.Equal(clock(9, 0)) {
		t.Errorf("pause = %v, want 09:00", dw.PauseTime)
	}
	if dw.DurationBeforePauseSec != 1800 {
		t.Errorf("before pause = %d, want 1800", dw.DurationBeforePauseSec)
	}
	if dw.RemainingDurationSec != 5400 {
		t.Errorf("remaining = %d, want 5400", dw.RemainingDurationSec)
	}
	if dw.DurationBeforePauseSec+dw.RemainingDurationSec != dw.PlannedDurationSec {
		t.Error("split does not add up to planned duration")
	}
	if len(dw.Segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(dw.Segments))
	}
	if !dw.Segments[1].Start.Equal(clock(10, 0)) {
		t.Errorf("remainder resumes at %v, want 10:00", dw.Segments[1].Start)
	}
	if !dw.CalculatedEnd.Equal(clock(11, 30)) {
		t.Errorf("Deep Work ends %v, want 11:30", dw.CalculatedEnd)
	}

	meeting := res.ScheduledTasks[1]
	if !meeting.CalculatedStart.Equal(clock(9, 0)) || !meeting.CalculatedEnd.Equal(clock(10, 0)) {
		t.Errorf("meeting = %v-%v, want 09:00-10:00", meeting.CalculatedStart, meeting.CalculatedEnd)
	}
	if !res.ScheduleEndTime.Equal(clock(11, 30)) {
		t.Errorf("schedule end = %v, want 11:30", res.ScheduleEndTime)
	}
	if got := len(res.Interrupted()); got != 1 {
		t.Errorf("Interrupted() = %d tasks, want 1", got)
	}
}

func TestCalculate_MultipleInterruptions(t *testing.T) {
	tasks := []task.Task{
		flexible("writing", 240),
		fixed("standup", clock(9, 0), 60),
		fixed("review", clock(11, 0), 30),
		flexible("email", 30),
	}

	res := Calculate(tasks, Config{Mode: ModeNow}, clock(8, 0))

	w := res.ScheduledTasks[0]
	if !w.IsInterrupted || !w.PauseTime.Equal(clock(9, 0)) {
		t.Fatalf("expected first pause at 09:00, got %v (interrupted %v)", w.PauseTime, w.IsInterrupted)
	}
	if w.DurationBeforePauseSec != 3600 || w.RemainingDurationSec != 10800 {
		t.Errorf("split = %d/%d, want 3600/10800", w.DurationBeforePauseSec, w.RemainingDurationSec)
	}

	want := []Segment{
		{Start: clock(8, 0), End: clock(9, 0)},
		{Start: clock(10, 0), End: clock(11, 0)},
		{Start: clock(11, 30), End: clock(13, 30)},
	}
	if len(w.Segments) != len(want) {
		t.Fatalf("got %d segments, want %d: %+v", len(w.Segments), len(want), w.Segments)
	}
	var worked time.Duration
	for i, seg := range w.Segments {
		if !seg.Start.Equal(want[i].Start) || !seg.End.Equal(want[i].End) {
			t.Errorf("segment %d = %v-%v, want %v-%v", i, seg.Start, seg.End, want[i].Start, want[i].End)
		}
		worked += seg.End.Sub(seg.Start)
	}
	if worked != 4*time.Hour {
		t.Errorf("worked %v across segments, want 4h", worked)
	}

	email := res.ScheduledTasks[3]
	if !email.CalculatedStart.Equal(clock(13, 30)) {
		t.Errorf("email starts %v, want 13:30", email.CalculatedStart)
	}
}

func TestCalculate_BackToBackFixed(t *testing.T) {
	tasks := []task.Task{
		flexible("focus", 120),
		fixed("one", clock(9, 0), 60),
		fixed("two", clock(10, 0), 30),
		flexible("later", 30),
	}

	res := Calculate(tasks, Config{Mode: ModeNow}, clock(8, 0))

	focus := res.ScheduledTasks[0]
	if len(focus.Segments) != 2 {
		t.Fatalf("got %d segments, want 2: %+v", len(focus.Segments), focus.Segments)
	}
	if !focus.Segments[1].Start.Equal(clock(10, 30)) {
		t.Errorf("remainder resumes at %v, want 10:30", focus.Segments[1].Start)
	}
	if !focus.CalculatedEnd.Equal(clock(11, 30)) {
		t.Errorf("focus ends %v, want 11:30", focus.CalculatedEnd)
	}
	if !res.ScheduledTasks[3].CalculatedStart.Equal(clock(11, 30)) {
		t.Errorf("later starts %v, want 11:30", res.ScheduledTasks[3].CalculatedStart)
	}
}

func TestCalculate_FixedInFutureMovesCursor(t *testing.T) {
	tasks := []task.Task{
		fixed("call", clock(10, 0), 60),
		flexible("notes", 30),
	}

	res := Calculate(tasks, Config{Mode: ModeNow}, clock(8, 0))

	if got := res.ScheduledTasks[1].CalculatedStart; !got.Equal(clock(11, 0)) {
		t.Errorf("notes start %v, want 11:00", got)
	}
}

func TestCalculate_FixedInPastDoesNotPullCursorBack(t *testing.T) {
	tasks := []task.Task{
		fixed("breakfast", clock(7, 0), 30),
		flexible("work", 60),
	}

	res := Calculate(tasks, Config{Mode: ModeNow}, clock(12, 0))

	past := res.ScheduledTasks[0]
	if !past.CalculatedStart.Equal(clock(7, 0)) {
		t.Errorf("past fixed task start = %v, want its own 07:00", past.CalculatedStart)
	}
	if got := res.ScheduledTasks[1].CalculatedStart; !got.Equal(clock(12, 0)) {
		t.Errorf("work start %v, want 12:00", got)
	}
}

func TestCalculate_Milestones(t *testing.T) {
	tasks := []task.Task{
		flexible("a", 30),
		fixed("deadline", clock(15, 0), 0),
		flexible("checkpoint", 0),
		flexible("b", 30),
	}

	res := Calculate(tasks, Config{Mode: ModeNow}, clock(8, 0))

	deadline := res.ScheduledTasks[1]
	if !deadline.CalculatedStart.Equal(deadline.CalculatedEnd) {
		t.Error("fixed milestone should have zero width")
	}
	checkpoint := res.ScheduledTasks[2]
	if !checkpoint.CalculatedStart.Equal(clock(8, 30)) || !checkpoint.CalculatedEnd.Equal(clock(8, 30)) {
		t.Errorf("flexible milestone = %v-%v, want 08:30-08:30", checkpoint.CalculatedStart, checkpoint.CalculatedEnd)
	}
	if got := res.ScheduledTasks[3].CalculatedStart; !got.Equal(clock(8, 30)) {
		t.Errorf("b starts %v, want 08:30 (milestones do not move the cursor)", got)
	}
}

func TestCalculate_MilestoneDoesNotInterrupt(t *testing.T) {
	tasks := []task.Task{
		flexible("work", 120),
		fixed("marker", clock(9, 0), 0),
	}

	res := Calculate(tasks, Config{Mode: ModeNow}, clock(8, 0))
	if res.ScheduledTasks[0].IsInterrupted {
		t.Error("zero-duration fixed task should not interrupt")
	}
}

func TestCalculate_FixedAtCursorDoesNotSplit(t *testing.T) {
	tasks := []task.Task{
		flexible("work", 60),
		fixed("meeting", clock(9, 0), 30),
	}

	res := Calculate(tasks, Config{Mode: ModeNow}, clock(8, 0))
	if res.ScheduledTasks[0].IsInterrupted {
		t.Error("fixed task starting exactly at the flexible end should not split it")
	}
	if got := res.ScheduledTasks[0].CalculatedEnd; !got.Equal(clock(9, 0)) {
		t.Errorf("work ends %v, want 09:00", got)
	}
}

func TestCalculate_Overflow(t *testing.T) {
	tests := []struct {
		name        string
		durationSec int
		want        bool
	}{
		{name: "ends one second before midnight", durationSec: 2*3600 - 1, want: false},
		{name: "ends exactly at midnight", durationSec: 2 * 3600, want: true},
		{name: "ends after midnight", durationSec: 2*3600 + 1800, want: true},
	}

	start := clock(22, 0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks := []task.Task{{ID: "late", Type: task.TypeFlexible, PlannedDurationSec: tt.durationSec}}
			res := Calculate(tasks, Config{Mode: ModeCustom, CustomStart: start}, clock(8, 0))
			if res.HasOverflow != tt.want {
				t.Errorf("HasOverflow = %v, want %v (end %v)", res.HasOverflow, tt.want, res.ScheduleEndTime)
			}
		})
	}
}

func TestHasOverflow(t *testing.T) {
	start := clock(9, 0)
	midnight := time.Date(2025, 1, 16, 0, 0, 0, 0, time.Local)

	if !HasOverflow(midnight, start) {
		t.Error("exactly midnight should overflow")
	}
	if HasOverflow(midnight.Add(-time.Second), start) {
		t.Error("one second before midnight should not overflow")
	}
	if HasOverflow(time.Time{}, start) {
		t.Error("zero end should not overflow")
	}
}

func TestInterruptionSplit(t *testing.T) {
	tk := flexible("work", 90)

	before, remaining := InterruptionSplit(tk, clock(9, 0), clock(9, 20))
	if before != 1200 || remaining != 4200 {
		t.Errorf("split = %d/%d, want 1200/4200", before, remaining)
	}

	before, remaining = InterruptionSplit(tk, clock(9, 0), clock(8, 0))
	if before != 0 || remaining != 5400 {
		t.Errorf("fixed before start: split = %d/%d, want 0/5400", before, remaining)
	}
}

func TestResult_Tasks(t *testing.T) {
	tasks := []task.Task{
		flexible("a", 30),
		fixed("b", clock(10, 0), 30),
		flexible("c", 30),
	}

	res := Calculate(tasks, Config{Mode: ModeNow}, clock(9, 0))
	stamped := res.Tasks()

	if !stamped[0].PlannedStart.Equal(clock(9, 0)) {
		t.Errorf("a start = %v, want 09:00", stamped[0].PlannedStart)
	}
	if !stamped[1].PlannedStart.Equal(clock(10, 0)) {
		t.Errorf("b start = %v, want unchanged 10:00", stamped[1].PlannedStart)
	}
	if !stamped[2].PlannedStart.Equal(clock(10, 30)) {
		t.Errorf("c start = %v, want 10:30", stamped[2].PlannedStart)
	}
	if !tasks[0].PlannedStart.IsZero() {
		t.Error("input tasks should not be modified")
	}
}
