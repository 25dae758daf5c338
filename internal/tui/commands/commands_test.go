package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/pacer/internal/schedule"
	"github.com/javiermolinar/pacer/internal/session"
	"github.com/javiermolinar/pacer/internal/task"
)

type fakeStore struct {
	tasks    []task.Task
	state    session.State
	progress []session.Progress
	listErr  error
	saveErr  error
	cleared  bool
}

func (f *fakeStore) ListTasks(ctx context.Context) ([]task.Task, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.tasks, nil
}

func (f *fakeStore) ReplaceTasks(ctx context.Context, tasks []task.Task) error {
	f.tasks = append([]task.Task(nil), tasks...)
	return nil
}

func (f *fakeStore) LoadSession(ctx context.Context) (session.State, []session.Progress, error) {
	return f.state, f.progress, nil
}

func (f *fakeStore) SaveSession(ctx context.Context, s session.State, progress []session.Progress) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.state = s
	f.progress = progress
	return nil
}

func (f *fakeStore) ClearSession(ctx context.Context) error {
	f.cleared = true
	f.state = session.Idle()
	f.progress = nil
	return nil
}

func clock(h, m int) time.Time {
	return time.Date(2025, 1, 6, h, m, 0, 0, time.Local)
}

func sampleTasks() []task.Task {
	return []task.Task{
		{ID: "a", Name: "Write", Type: task.TypeFlexible, PlannedDurationSec: 1800, Status: task.StatusPending},
		{ID: "b", Name: "Review", Type: task.TypeFlexible, PlannedDurationSec: 900, Status: task.StatusPending},
	}
}

func TestLoad(t *testing.T) {
	store := &fakeStore{tasks: sampleTasks(), state: session.Idle()}

	msg := Load(store)()
	loaded, ok := msg.(LoadedMsg)
	if !ok {
		t.Fatalf("Load() msg = %T, want LoadedMsg", msg)
	}
	if len(loaded.Tasks) != 2 || loaded.State.Started() {
		t.Errorf("Load() = %+v", loaded)
	}
}

func TestLoad_Error(t *testing.T) {
	store := &fakeStore{listErr: errors.New("disk gone")}

	msg := Load(store)()
	errMsg, ok := msg.(ErrMsg)
	if !ok {
		t.Fatalf("Load() msg = %T, want ErrMsg", msg)
	}
	if errMsg.Err == nil {
		t.Fatal("expected error")
	}
}

func TestStartAndAdvance(t *testing.T) {
	store := &fakeStore{tasks: sampleTasks(), state: session.Idle()}

	msg := Start(store, store.tasks, clock(9, 0))()
	started, ok := msg.(SessionSavedMsg)
	if !ok {
		t.Fatalf("Start() msg = %T, want SessionSavedMsg", msg)
	}
	if !started.State.Active || started.State.CurrentIndex != 0 || started.Done != nil {
		t.Fatalf("Start() state = %+v", started)
	}
	if store.tasks[0].Status != task.StatusActive {
		t.Errorf("first task status = %s, want active", store.tasks[0].Status)
	}

	msg = Advance(store, store.tasks, started.State, started.Progress, task.StatusMissed, clock(9, 40))()
	advanced, ok := msg.(SessionSavedMsg)
	if !ok {
		t.Fatalf("Advance() msg = %T, want SessionSavedMsg", msg)
	}
	if advanced.Done == nil || advanced.Done.ID != "a" || advanced.Outcome != task.StatusMissed {
		t.Errorf("Advance() done = %+v outcome = %s", advanced.Done, advanced.Outcome)
	}
	if advanced.State.CurrentIndex != 1 {
		t.Errorf("current index = %d, want 1", advanced.State.CurrentIndex)
	}
	if store.tasks[0].Status != task.StatusMissed {
		t.Errorf("stored status = %s, want missed", store.tasks[0].Status)
	}
}

func TestStart_NoTasks(t *testing.T) {
	msg := Start(&fakeStore{}, nil, clock(9, 0))()
	errMsg, ok := msg.(ErrMsg)
	if !ok || !errors.Is(errMsg.Err, session.ErrNoTasks) {
		t.Fatalf("Start() msg = %#v, want ErrNoTasks", msg)
	}
}

func TestAdvance_SaveError(t *testing.T) {
	store := &fakeStore{tasks: sampleTasks(), saveErr: errors.New("locked")}
	st, progress, err := session.Start(store.tasks, clock(9, 0))
	if err != nil {
		t.Fatal(err)
	}

	msg := Advance(store, store.tasks, st, progress, task.StatusComplete, clock(9, 30))()
	if _, ok := msg.(ErrMsg); !ok {
		t.Fatalf("Advance() msg = %T, want ErrMsg", msg)
	}
}

func TestReset(t *testing.T) {
	tasks := sampleTasks()
	tasks[0].Status = task.StatusComplete
	store := &fakeStore{tasks: tasks}

	msg := Reset(store, tasks)()
	saved, ok := msg.(SessionSavedMsg)
	if !ok {
		t.Fatalf("Reset() msg = %T, want SessionSavedMsg", msg)
	}
	if !store.cleared || saved.State.Started() {
		t.Errorf("Reset() cleared = %v state = %+v", store.cleared, saved.State)
	}
	for _, tk := range store.tasks {
		if tk.Status != task.StatusPending {
			t.Errorf("task %s status = %s, want pending", tk.ID, tk.Status)
		}
	}
}

func TestRecalculate_DeliversLastStart(t *testing.T) {
	calc := schedule.NewDebouncedCalculator(50*time.Millisecond, func() time.Time { return clock(8, 0) })
	msgs := make(chan tea.Msg, 4)
	send := func(msg tea.Msg) { msgs <- msg }

	tasks := sampleTasks()
	Recalculate(calc, send, tasks, clock(9, 0))
	Recalculate(calc, send, tasks, clock(9, 5))
	Recalculate(calc, send, tasks, clock(9, 10))

	select {
	case msg := <-msgs:
		sm, ok := msg.(ScheduleMsg)
		if !ok {
			t.Fatalf("msg = %T, want ScheduleMsg", msg)
		}
		if !sm.Start.Equal(clock(9, 10)) {
			t.Errorf("start = %v, want 09:10", sm.Start)
		}
		if got := sm.Result.ScheduledTasks[0].CalculatedStart; !got.Equal(clock(9, 10)) {
			t.Errorf("first task starts %v, want 09:10", got)
		}
	case <-time.After(time.Second):
		t.Fatal("no schedule delivered")
	}

	select {
	case msg := <-msgs:
		t.Fatalf("unexpected extra message %#v", msg)
	case <-time.After(50 * time.Millisecond):
	}
}
