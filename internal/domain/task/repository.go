package task

import "context"

// ListFilter narrows task listings. Nil fields are not applied.
type ListFilter struct {
	AssignedTo *int64
	AssignedBy *int64
}

type TaskRepository interface {
	Create(ctx context.Context, t Task) (Task, error)
	GetByID(ctx context.Context, id int64) (Task, error)
	List(ctx context.Context, filter ListFilter) ([]Task, error)
	Update(ctx context.Context, t Task) (Task, error)
	Delete(ctx context.Context, id int64) error
}

type TaskFileRepository interface {
	Create(ctx context.Context, f TaskFile) (TaskFile, error)
	GetByID(ctx context.Context, id int64) (TaskFile, error)
	// ListByTask returns files newest first.
	ListByTask(ctx context.Context, taskID int64) ([]TaskFile, error)
	ListByTasks(ctx context.Context, taskIDs []int64) ([]TaskFile, error)
	Delete(ctx context.Context, id int64) error
}
