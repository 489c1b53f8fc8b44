package jobrole

import "context"

type JobRole struct {
	ID        int64
	Name      string
	CompanyID int64
}

type JobRoleRepository interface {
	Create(ctx context.Context, role JobRole) (JobRole, error)
	GetByID(ctx context.Context, id int64) (JobRole, error)
	GetByName(ctx context.Context, name string) (JobRole, error)
	List(ctx context.Context) ([]JobRole, error)
}
