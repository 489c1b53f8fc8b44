package fake

import (
	"context"
	"testing"

	"github.com/rakmedia/hr-backend-go/internal/domain/company"
	"github.com/rakmedia/hr-backend-go/internal/domain/department"
	"github.com/rakmedia/hr-backend-go/internal/domain/employee"
	"github.com/rakmedia/hr-backend-go/internal/domain/master/jobrole"
	"github.com/rakmedia/hr-backend-go/internal/domain/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// Fixture is a small organisation: one company, two departments, a manager
// and two staff positions.
type Fixture struct {
	Company         company.Company
	Tech, HR        department.Department
	ManagerPosition int64
	StaffPosition   int64
}

func (s *Store) SeedFixture(t *testing.T) Fixture {
	t.Helper()
	ctx := context.Background()

	c, err := s.Companies().Create(ctx, company.Company{Name: "Rakmedia"})
	require.NoError(t, err)
	tech, err := s.Departments().Create(ctx, department.Department{Name: "Tech", CompanyID: c.ID})
	require.NoError(t, err)
	hr, err := s.Departments().Create(ctx, department.Department{Name: "HR", CompanyID: c.ID})
	require.NoError(t, err)

	managerType, err := s.EmployeeTypes().Create(ctx, "Manager")
	require.NoError(t, err)
	staffType, err := s.EmployeeTypes().Create(ctx, "White Collar")
	require.NoError(t, err)
	hrManager, err := s.JobRoles().Create(ctx, jobrole.JobRole{Name: "HR Manager", CompanyID: c.ID})
	require.NoError(t, err)
	backend, err := s.JobRoles().Create(ctx, jobrole.JobRole{Name: "Backend Developer", CompanyID: c.ID})
	require.NoError(t, err)

	mp, err := s.Positions().Create(ctx, hrManager.ID, managerType.ID)
	require.NoError(t, err)
	sp, err := s.Positions().Create(ctx, backend.ID, staffType.ID)
	require.NoError(t, err)

	return Fixture{Company: c, Tech: tech, HR: hr, ManagerPosition: mp.ID, StaffPosition: sp.ID}
}

// SeedEmployee stores an employee with a linked user, in the given
// departments. A zero positionID leaves the position unset.
func (s *Store) SeedEmployee(t *testing.T, companyID, positionID int64, code int, first, last string, departmentIDs ...int64) (employee.Employee, user.User) {
	t.Helper()
	ctx := context.Background()

	email := first + "." + last + "@example.com"
	u, err := s.Users().Create(ctx, user.User{Username: first + "." + last, Email: email, FirstName: first, LastName: last, Role: user.RoleEmployee, IsActive: true})
	require.NoError(t, err)

	salary := decimal.NewFromInt(3000)
	emp := employee.Employee{
		UserID:       &u.ID,
		FirstName:    first,
		LastName:     last,
		Email:        &email,
		CompanyID:    companyID,
		Salary:       &salary,
		EmployeeCode: code,
	}
	if positionID != 0 {
		emp.PositionID = &positionID
	}
	e, err := s.Employees().Create(ctx, emp)
	require.NoError(t, err)
	require.NoError(t, s.Employees().SetDepartments(ctx, e.ID, departmentIDs))
	return e, u
}
