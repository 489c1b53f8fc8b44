package employee

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	MinEmployeeCode     = 1
	MaxEmployeeCode     = 999
	DefaultEmployeeCode = 999
)

type Employee struct {
	ID             int64
	UserID         *int64
	ProfilePicture *string
	FirstName      string
	LastName       string
	Email          *string
	CompanyID      int64
	PositionID     *int64
	HireDate       *time.Time
	Salary         *decimal.Decimal
	EmployeeCode   int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// EmployeeWithDetails is an employee joined with its user, position and
// departments.
type EmployeeWithDetails struct {
	Employee
	Username         *string
	UserEmail        *string
	JobRoleName      *string
	EmployeeTypeName *string
	DepartmentIDs    []int64
	DepartmentNames  []string
}

// FullName joins first and last name.
func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// FormatCode renders an employee code as EMP-007.
func FormatCode(code int) string {
	return fmt.Sprintf("EMP-%03d", code)
}

// ValidCode reports whether code fits the three digit range.
func ValidCode(code int) bool {
	return code >= MinEmployeeCode && code <= MaxEmployeeCode
}
