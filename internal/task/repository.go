package task

import "context"

// Repository defines the storage interface for the ordered task list.
type Repository interface {
	// ListTasks returns every task in list order.
	ListTasks(ctx context.Context) ([]Task, error)

	// GetTask retrieves a task by ID.
	// Returns ErrTaskNotFound if no such task exists.
	GetTask(ctx context.Context, id string) (*Task, error)

	// CreateTask appends a task to the end of the list.
	CreateTask(ctx context.Context, t *Task) error

	// UpdateTask rewrites a task's fields in place, keeping its position.
	UpdateTask(ctx context.Context, t Task) error

	// ReplaceTasks atomically replaces the whole list with tasks, in order.
	// Used after reorders and imports.
	ReplaceTasks(ctx context.Context, tasks []Task) error

	// DeleteTask removes a task from the list.
	DeleteTask(ctx context.Context, id string) error

	// Close releases any resources held by the repository.
	Close() error
}
