package department

import "context"

type DepartmentService interface {
	List(ctx context.Context) ([]DepartmentResponse, error)
	GetByID(ctx context.Context, id int64) (DepartmentResponse, error)
	Create(ctx context.Context, req CreateDepartmentRequest) (DepartmentResponse, error)
	Update(ctx context.Context, id int64, req UpdateDepartmentRequest) (DepartmentResponse, error)
	Delete(ctx context.Context, id int64) error
}
