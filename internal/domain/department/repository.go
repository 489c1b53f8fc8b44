package department

import "context"

type DepartmentRepository interface {
	Create(ctx context.Context, d Department) (Department, error)
	GetByID(ctx context.Context, id int64) (Department, error)
	GetByName(ctx context.Context, name string) (Department, error)
	List(ctx context.Context) ([]Department, error)
	// CountExisting returns how many of ids refer to stored departments.
	CountExisting(ctx context.Context, ids []int64) (int, error)
	Update(ctx context.Context, id int64, name string) (Department, error)
	Delete(ctx context.Context, id int64) error
}
