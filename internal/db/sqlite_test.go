package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/javiermolinar/pacer/internal/session"
	"github.com/javiermolinar/pacer/internal/task"
)

func at(h, m int) time.Time {
	return time.Date(2025, 1, 15, h, m, 0, 0, time.Local)
}

func ids(tasks []task.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestCreateTask(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	tsk := &task.Task{
		Name:               "Write unit tests",
		Type:               task.TypeFixed,
		PlannedStart:       at(9, 0),
		PlannedDurationSec: 7200,
	}
	if err := repo.CreateTask(ctx, tsk); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	if tsk.ID == "" {
		t.Error("expected ID to be set after insert")
	}
	if tsk.Status != task.StatusPending {
		t.Errorf("Status = %q, want pending", tsk.Status)
	}

	got, err := repo.GetTask(ctx, tsk.ID)
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if got.Name != tsk.Name || got.Type != task.TypeFixed || got.PlannedDurationSec != 7200 {
		t.Errorf("GetTask = %+v", got)
	}
	if !got.PlannedStart.Equal(at(9, 0)) {
		t.Errorf("PlannedStart = %v, want 09:00", got.PlannedStart)
	}
}

func TestCreateTask_AppendsInOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	var want []string
	for _, name := range []string{"a", "b", "c"} {
		tsk := &task.Task{ID: name, Name: name, Type: task.TypeFlexible, PlannedStart: at(0, 0), PlannedDurationSec: 600}
		if err := repo.CreateTask(ctx, tsk); err != nil {
			t.Fatalf("CreateTask(%s) failed: %v", name, err)
		}
		want = append(want, name)
	}

	tasks, err := repo.ListTasks(ctx)
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if got := ids(tasks); !equalIDs(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
	for i, tk := range tasks {
		if tk.SortOrder != i {
			t.Errorf("task %s SortOrder = %d, want %d", tk.ID, tk.SortOrder, i)
		}
	}
}

func TestGetTask_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetTask(context.Background(), "missing")
	if !errors.Is(err, task.ErrTaskNotFound) {
		t.Errorf("GetTask error = %v, want ErrTaskNotFound", err)
	}
}

func TestUpdateTask(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	tsk := &task.Task{Name: "Review", Type: task.TypeFlexible, PlannedStart: at(0, 0), PlannedDurationSec: 1800}
	if err := repo.CreateTask(ctx, tsk); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	updated := tsk.PinnedAt(at(14, 0))
	updated.Status = task.StatusComplete
	if err := repo.UpdateTask(ctx, updated); err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}

	got, err := repo.GetTask(ctx, tsk.ID)
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if got.Type != task.TypeFixed || !got.PlannedStart.Equal(at(14, 0)) || got.Status != task.StatusComplete {
		t.Errorf("updated task = %+v", got)
	}

	err = repo.UpdateTask(ctx, task.Task{ID: "missing", Name: "x", Type: task.TypeFixed, Status: task.StatusPending})
	if !errors.Is(err, task.ErrTaskNotFound) {
		t.Errorf("UpdateTask(missing) error = %v, want ErrTaskNotFound", err)
	}
}

func TestReplaceTasks(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		tsk := &task.Task{ID: name, Name: name, Type: task.TypeFlexible, PlannedStart: at(0, 0), PlannedDurationSec: 600}
		if err := repo.CreateTask(ctx, tsk); err != nil {
			t.Fatalf("CreateTask(%s) failed: %v", name, err)
		}
	}

	tasks, err := repo.ListTasks(ctx)
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	reordered := task.ReorderChronologically(tasks, "c", at(0, 0))
	if err := repo.ReplaceTasks(ctx, reordered); err != nil {
		t.Fatalf("ReplaceTasks failed: %v", err)
	}

	got, err := repo.ListTasks(ctx)
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if want := []string{"c", "a", "b"}; !equalIDs(ids(got), want) {
		t.Errorf("order = %v, want %v", ids(got), want)
	}
	if got[0].Type != task.TypeFixed {
		t.Errorf("pinned task type = %q, want fixed", got[0].Type)
	}
}

func TestReplaceTasks_RollsBackOnError(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	tsk := &task.Task{ID: "a", Name: "a", Type: task.TypeFlexible, PlannedStart: at(0, 0), PlannedDurationSec: 600}
	if err := repo.CreateTask(ctx, tsk); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	bad := []task.Task{
		{ID: "x", Name: "x", Type: task.TypeFlexible, PlannedDurationSec: 60},
		{ID: "x", Name: "duplicate", Type: task.TypeFlexible, PlannedDurationSec: 60},
	}
	if err := repo.ReplaceTasks(ctx, bad); err == nil {
		t.Fatal("expected error for duplicate IDs")
	}

	got, err := repo.ListTasks(ctx)
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if !equalIDs(ids(got), []string{"a"}) {
		t.Errorf("list after failed replace = %v, want [a]", ids(got))
	}
}

func TestDeleteTask(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		tsk := &task.Task{ID: name, Name: name, Type: task.TypeFlexible, PlannedStart: at(0, 0), PlannedDurationSec: 600}
		if err := repo.CreateTask(ctx, tsk); err != nil {
			t.Fatalf("CreateTask(%s) failed: %v", name, err)
		}
	}

	if err := repo.DeleteTask(ctx, "b"); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}

	got, err := repo.ListTasks(ctx)
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if !equalIDs(ids(got), []string{"a", "c"}) {
		t.Errorf("order = %v, want [a c]", ids(got))
	}
	if got[1].SortOrder != 1 {
		t.Errorf("c SortOrder = %d, want 1", got[1].SortOrder)
	}

	// The next append lands after c.
	d := &task.Task{ID: "d", Name: "d", Type: task.TypeFlexible, PlannedStart: at(0, 0), PlannedDurationSec: 600}
	if err := repo.CreateTask(ctx, d); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if d.SortOrder != 2 {
		t.Errorf("d SortOrder = %d, want 2", d.SortOrder)
	}

	if err := repo.DeleteTask(ctx, "missing"); !errors.Is(err, task.ErrTaskNotFound) {
		t.Errorf("DeleteTask(missing) error = %v, want ErrTaskNotFound", err)
	}
}

func TestSession_LoadEmpty(t *testing.T) {
	repo := newTestRepo(t)

	st, progress, err := repo.LoadSession(context.Background())
	if err != nil {
		t.Fatalf("LoadSession failed: %v", err)
	}
	if st.Active || st.CurrentIndex != -1 || len(progress) != 0 {
		t.Errorf("empty session = %+v, %v", st, progress)
	}
}

func TestSession_SaveLoadClear(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	tasks := []task.Task{
		{ID: "a", Name: "a", Type: task.TypeFlexible, PlannedDurationSec: 1800},
		{ID: "b", Name: "b", Type: task.TypeFlexible, PlannedDurationSec: 600},
	}
	st, progress, err := session.Start(tasks, at(9, 0))
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	st, progress, err = session.Advance(st, progress, tasks, task.StatusComplete, at(9, 40))
	if err != nil {
		t.Fatalf("Advance failed: %v", err)
	}

	if err := repo.SaveSession(ctx, st, progress); err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}

	gotState, gotProgress, err := repo.LoadSession(ctx)
	if err != nil {
		t.Fatalf("LoadSession failed: %v", err)
	}
	if !gotState.Active || gotState.CurrentIndex != 1 {
		t.Errorf("state = %+v", gotState)
	}
	if !gotState.StartedAt.Equal(at(9, 0)) || !gotState.TaskStartedAt.Equal(at(9, 40)) {
		t.Errorf("state times = %v, %v", gotState.StartedAt, gotState.TaskStartedAt)
	}
	if len(gotProgress) != 2 {
		t.Fatalf("progress = %+v, want 2 records", gotProgress)
	}
	first := gotProgress[0]
	if first.TaskID != "a" || first.Status != task.StatusComplete || first.ActualDurationSec != 2400 || !first.CompletedAt.Equal(at(9, 40)) {
		t.Errorf("first progress = %+v", first)
	}
	if gotProgress[1].Status != task.StatusActive || !gotProgress[1].CompletedAt.IsZero() {
		t.Errorf("second progress = %+v", gotProgress[1])
	}

	// Saving again replaces rather than appends.
	if err := repo.SaveSession(ctx, gotState, gotProgress[:1]); err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}
	if _, p, _ := repo.LoadSession(ctx); len(p) != 1 {
		t.Errorf("progress after resave = %d records, want 1", len(p))
	}

	if err := repo.ClearSession(ctx); err != nil {
		t.Fatalf("ClearSession failed: %v", err)
	}
	st, progress, err = repo.LoadSession(ctx)
	if err != nil {
		t.Fatalf("LoadSession failed: %v", err)
	}
	if st.Started() || len(progress) != 0 {
		t.Errorf("cleared session = %+v, %v", st, progress)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pacer.db")
	ctx := context.Background()

	repo, err := New(path)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	tsk := &task.Task{Name: "Persist", Type: task.TypeFlexible, PlannedStart: at(0, 0), PlannedDurationSec: 60}
	if err := repo.CreateTask(ctx, tsk); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	_ = repo.Close()

	repo, err = New(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer func() { _ = repo.Close() }()

	tasks, err := repo.ListTasks(ctx)
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != tsk.ID {
		t.Errorf("tasks after reopen = %+v", tasks)
	}
}

func newTestRepo(t *testing.T) *SQLite {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	repo, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create test repo: %v", err)
	}

	t.Cleanup(func() {
		_ = repo.Close()
	})

	return repo
}
