package employeetype

import "context"

type EmployeeType struct {
	ID   int64
	Name string
}

type EmployeeTypeRepository interface {
	Create(ctx context.Context, name string) (EmployeeType, error)
	GetByID(ctx context.Context, id int64) (EmployeeType, error)
	GetByName(ctx context.Context, name string) (EmployeeType, error)
	List(ctx context.Context) ([]EmployeeType, error)
}
