package employee

import (
	"context"

	"github.com/rakmedia/hr-backend-go/internal/domain/access"
)

type EmployeeRepository interface {
	Create(ctx context.Context, e Employee) (Employee, error)
	GetByID(ctx context.Context, id int64) (Employee, error)
	GetDetailByID(ctx context.Context, id int64) (EmployeeWithDetails, error)
	GetByUserID(ctx context.Context, userID int64) (Employee, error)
	// GetAccessProfile walks user -> employee -> position -> type.
	GetAccessProfile(ctx context.Context, userID int64) (access.Profile, error)
	List(ctx context.Context, filter Filter) ([]EmployeeWithDetails, int64, error)
	// ListDepartmentPeers returns distinct employees of companyID sharing a
	// department with employeeID, excluding employeeID itself.
	ListDepartmentPeers(ctx context.Context, employeeID, companyID int64, filter Filter) ([]EmployeeWithDetails, error)
	ListWithoutUser(ctx context.Context) ([]Employee, error)
	Update(ctx context.Context, e Employee) (Employee, error)
	SetDepartments(ctx context.Context, employeeID int64, departmentIDs []int64) error
	LinkUser(ctx context.Context, employeeID, userID int64) error
	UpdateProfilePicture(ctx context.Context, employeeID int64, path string) error
	Delete(ctx context.Context, id int64) error
	CodeExists(ctx context.Context, code int, excludeID int64) (bool, error)
	EmailExists(ctx context.Context, email string, excludeID int64) (bool, error)
}
