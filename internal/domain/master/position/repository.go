package position

import "context"

// Position pairs a job role with an employee type.
type Position struct {
	ID             int64
	JobRoleID      int64
	EmployeeTypeID int64

	// DTO / Join
	JobRoleName      string
	EmployeeTypeName string
}

type PositionRepository interface {
	Create(ctx context.Context, jobRoleID, employeeTypeID int64) (Position, error)
	GetByID(ctx context.Context, id int64) (Position, error)
	List(ctx context.Context) ([]Position, error)
}
