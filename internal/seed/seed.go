// Package seed holds the data management routines behind hrctl.
package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/rakmedia/hr-backend-go/internal/domain/company"
	"github.com/rakmedia/hr-backend-go/internal/domain/department"
	"github.com/rakmedia/hr-backend-go/internal/domain/employee"
	"github.com/rakmedia/hr-backend-go/internal/domain/master/employeetype"
	"github.com/rakmedia/hr-backend-go/internal/domain/master/jobrole"
	"github.com/rakmedia/hr-backend-go/internal/domain/master/position"
	"github.com/rakmedia/hr-backend-go/internal/domain/notification"
	"github.com/rakmedia/hr-backend-go/internal/domain/user"
	"github.com/rakmedia/hr-backend-go/internal/pkg/cache"
	"github.com/rakmedia/hr-backend-go/internal/pkg/database"
	"github.com/rakmedia/hr-backend-go/internal/service/account"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

const (
	CompanyName        = "Rakmedia"
	companyDescription = "A digital and creative solutions company."

	// profileCodeOffset is added to a user id to get the code of a
	// generated employee profile.
	profileCodeOffset = 100

	accountPasswordLength = 10
	minSalary             = 1200
	maxSalary             = 5000
)

var (
	Departments   = []string{"Creative", "Tech", "HR", "Financial", "PR"}
	EmployeeTypes = []string{"Officer", "Manager", "White Collar", "Blue Collar"}

	CredentialsHeader = []string{"employee_id", "full_name", "username", "password", "email"}
)

type Seeder struct {
	Tx            database.Transactor
	Users         user.UserRepository
	Companies     company.CompanyRepository
	Departments   department.DepartmentRepository
	Employees     employee.EmployeeRepository
	EmployeeTypes employeetype.EmployeeTypeRepository
	JobRoles      jobrole.JobRoleRepository
	Positions     position.PositionRepository
	Accounts      *account.Provisioner

	// Invalidator clears the API response cache after each write. Nil
	// skips clearing.
	Invalidator cache.Invalidator

	// Faker drives generated names and numbers. Nil uses a random seed.
	Faker *gofakeit.Faker
}

type PopulateResult struct {
	Company     company.Company
	Departments int
	Positions   int
	Employees   int
}

// Populate seeds the organisation structure and n fake employees. Existing
// rows with the same names are reused, so it can run against a seeded
// database.
func (s *Seeder) Populate(ctx context.Context, n int) (PopulateResult, error) {
	var res PopulateResult
	faker := s.Faker
	if faker == nil {
		faker = gofakeit.New(0)
	}

	c, err := s.company(ctx)
	if err != nil {
		return res, err
	}
	res.Company = c

	var departments []department.Department
	for _, name := range Departments {
		d, err := s.department(ctx, name, c.ID)
		if err != nil {
			return res, err
		}
		departments = append(departments, d)
	}
	res.Departments = len(departments)

	types := make(map[string]int64, len(EmployeeTypes))
	for _, name := range EmployeeTypes {
		t, err := s.employeeType(ctx, name)
		if err != nil {
			return res, err
		}
		types[name] = t.ID
	}

	positions, err := s.positions(ctx, c.ID, types)
	if err != nil {
		return res, err
	}
	res.Positions = len(positions)
	s.invalidate(ctx, cache.ModelPosition)

	hireFrom := time.Now().AddDate(-2, 0, 0)
	for i := 0; i < n; i++ {
		first, last := faker.FirstName(), faker.LastName()
		email := strings.ToLower(strings.ReplaceAll(first+"."+last, " ", "")) + "@rakmedia.com"
		taken, err := s.Employees.EmailExists(ctx, email, 0)
		if err != nil {
			return res, fmt.Errorf("failed to check employee email: %w", err)
		}
		if taken {
			slog.Warn("skipping generated employee with taken email", "email", email)
			continue
		}

		code, err := s.freeCode(ctx)
		if err != nil {
			return res, err
		}

		positionID := positions[faker.Number(0, len(positions)-1)]
		hire := faker.DateRange(hireFrom, time.Now()).Truncate(24 * time.Hour)
		salary := decimal.NewFromFloat(faker.Float64Range(minSalary, maxSalary)).Round(2)
		dept := departments[faker.Number(0, len(departments)-1)]

		if err := s.createEmployee(ctx, employee.Employee{
			FirstName:    first,
			LastName:     last,
			Email:        &email,
			CompanyID:    c.ID,
			PositionID:   &positionID,
			HireDate:     &hire,
			Salary:       &salary,
			EmployeeCode: code,
		}, dept.ID); err != nil {
			return res, err
		}
		res.Employees++
	}

	slog.Info("database populated", "company", c.Name, "departments", res.Departments, "positions", res.Positions, "employees", res.Employees)
	return res, nil
}

// createEmployee stores the employee with its account, then queues the
// welcome email.
func (s *Seeder) createEmployee(ctx context.Context, e employee.Employee, departmentID int64) error {
	var welcome notification.LinkEmail
	err := s.Tx.WithinTx(ctx, func(txCtx context.Context) error {
		created, err := s.Employees.Create(txCtx, e)
		if err != nil {
			return fmt.Errorf("failed to create employee: %w", err)
		}
		if err := s.Employees.SetDepartments(txCtx, created.ID, []int64{departmentID}); err != nil {
			return fmt.Errorf("failed to set departments: %w", err)
		}
		u, err := s.Accounts.CreateAccount(txCtx, created.FirstName, created.LastName, *e.Email)
		if err != nil {
			return err
		}
		if err := s.Employees.LinkUser(txCtx, created.ID, u.ID); err != nil {
			return fmt.Errorf("failed to link user: %w", err)
		}
		welcome, err = s.Accounts.IssueResetLink(txCtx, u)
		return err
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx, cache.ModelEmployee)
	s.Accounts.Enqueue(ctx, notification.JobWelcome, welcome)
	return nil
}

func (s *Seeder) invalidate(ctx context.Context, model string) {
	if s.Invalidator != nil {
		s.Invalidator.Invalidate(ctx, model)
	}
}

func (s *Seeder) company(ctx context.Context) (company.Company, error) {
	c, err := s.Companies.GetByName(ctx, CompanyName)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, company.ErrCompanyNotFound) {
		return company.Company{}, fmt.Errorf("failed to get company: %w", err)
	}
	c, err = s.Companies.Create(ctx, company.Company{Name: CompanyName, Description: companyDescription})
	if err != nil {
		return company.Company{}, fmt.Errorf("failed to create company: %w", err)
	}
	return c, nil
}

func (s *Seeder) department(ctx context.Context, name string, companyID int64) (department.Department, error) {
	d, err := s.Departments.GetByName(ctx, name)
	if err == nil {
		return d, nil
	}
	if !errors.Is(err, department.ErrDepartmentNotFound) {
		return department.Department{}, fmt.Errorf("failed to get department %s: %w", name, err)
	}
	d, err = s.Departments.Create(ctx, department.Department{Name: name, CompanyID: companyID})
	if err != nil {
		return department.Department{}, fmt.Errorf("failed to create department %s: %w", name, err)
	}
	return d, nil
}

func (s *Seeder) employeeType(ctx context.Context, name string) (employeetype.EmployeeType, error) {
	t, err := s.EmployeeTypes.GetByName(ctx, name)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, employeetype.ErrEmployeeTypeNotFound) {
		return employeetype.EmployeeType{}, fmt.Errorf("failed to get employee type %s: %w", name, err)
	}
	t, err = s.EmployeeTypes.Create(ctx, name)
	if err != nil {
		return employeetype.EmployeeType{}, fmt.Errorf("failed to create employee type %s: %w", name, err)
	}
	return t, nil
}

// positions creates every compatible job role and type pairing and returns
// the position ids.
func (s *Seeder) positions(ctx context.Context, companyID int64, types map[string]int64) ([]int64, error) {
	existing, err := s.Positions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}
	pairs := make(map[[2]int64]int64, len(existing))
	for _, p := range existing {
		pairs[[2]int64{p.JobRoleID, p.EmployeeTypeID}] = p.ID
	}

	var ids []int64
	for roleName, allowed := range position.DefaultJobRoles() {
		role, err := s.jobRole(ctx, roleName, companyID)
		if err != nil {
			return nil, err
		}
		for _, typeName := range allowed {
			typeID, ok := types[typeName]
			if !ok {
				continue
			}
			if id, ok := pairs[[2]int64{role.ID, typeID}]; ok {
				ids = append(ids, id)
				continue
			}
			p, err := s.Positions.Create(ctx, role.ID, typeID)
			if err != nil {
				return nil, fmt.Errorf("failed to create position %s/%s: %w", roleName, typeName, err)
			}
			ids = append(ids, p.ID)
		}
	}
	return ids, nil
}

func (s *Seeder) jobRole(ctx context.Context, name string, companyID int64) (jobrole.JobRole, error) {
	r, err := s.JobRoles.GetByName(ctx, name)
	if err == nil {
		return r, nil
	}
	if !errors.Is(err, jobrole.ErrJobRoleNotFound) {
		return jobrole.JobRole{}, fmt.Errorf("failed to get job role %s: %w", name, err)
	}
	r, err = s.JobRoles.Create(ctx, jobrole.JobRole{Name: name, CompanyID: companyID})
	if err != nil {
		return jobrole.JobRole{}, fmt.Errorf("failed to create job role %s: %w", name, err)
	}
	return r, nil
}

// freeCode returns the lowest employee code not in use.
func (s *Seeder) freeCode(ctx context.Context) (int, error) {
	for code := employee.MinEmployeeCode; code <= employee.MaxEmployeeCode; code++ {
		taken, err := s.Employees.CodeExists(ctx, code, 0)
		if err != nil {
			return 0, fmt.Errorf("failed to check employee code: %w", err)
		}
		if !taken {
			return code, nil
		}
	}
	return 0, errors.New("no free employee code left")
}

// CreateEmployeeProfiles gives every user without an employee a profile in
// the first company. Users whose derived code is out of range or taken are
// skipped.
func (s *Seeder) CreateEmployeeProfiles(ctx context.Context) (created, skipped int, err error) {
	c, err := s.Companies.GetDefault(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get default company: %w", err)
	}

	users, err := s.Users.ListWithoutEmployee(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list users: %w", err)
	}

	zero := decimal.Zero
	for _, u := range users {
		code := profileCodeOffset + int(u.ID)
		if !employee.ValidCode(code) {
			slog.Warn("skipping user, employee code out of range", "username", u.Username, "code", code)
			skipped++
			continue
		}
		taken, err := s.Employees.CodeExists(ctx, code, 0)
		if err != nil {
			return created, skipped, fmt.Errorf("failed to check employee code: %w", err)
		}
		if taken {
			slog.Warn("skipping user, employee code taken", "username", u.Username, "code", code)
			skipped++
			continue
		}

		userID := u.ID
		e := employee.Employee{
			UserID:       &userID,
			FirstName:    u.FirstName,
			LastName:     u.LastName,
			CompanyID:    c.ID,
			Salary:       &zero,
			EmployeeCode: code,
		}
		if u.Email != "" {
			email := u.Email
			e.Email = &email
		}
		if _, err := s.Employees.Create(ctx, e); err != nil {
			slog.Warn("skipping user", "username", u.Username, "error", err)
			skipped++
			continue
		}
		s.invalidate(ctx, cache.ModelEmployee)
		created++
	}
	return created, skipped, nil
}

// GenerateUserAccounts creates a login for every employee without one and
// writes the credentials to w as CSV. Each new account is also sent the
// welcome email.
func (s *Seeder) GenerateUserAccounts(ctx context.Context, w io.Writer) (int, error) {
	employees, err := s.Employees.ListWithoutUser(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list employees: %w", err)
	}

	out := csv.NewWriter(w)
	if err := out.Write(CredentialsHeader); err != nil {
		return 0, err
	}

	count := 0
	for _, e := range employees {
		password, err := account.GeneratePassword(accountPasswordLength, account.LettersDigits)
		if err != nil {
			return count, err
		}

		var email string
		if e.Email != nil {
			email = *e.Email
		}

		var u user.User
		var welcome notification.LinkEmail
		err = s.Tx.WithinTx(ctx, func(txCtx context.Context) error {
			if email == "" {
				username, err := s.Accounts.UniqueUsername(txCtx, e.FirstName, e.LastName)
				if err != nil {
					return err
				}
				email = username + "@example.com"
			}
			u, err = s.Accounts.CreateAccountWithPassword(txCtx, e.FirstName, e.LastName, email, password)
			if err != nil {
				return err
			}
			if err := s.Employees.LinkUser(txCtx, e.ID, u.ID); err != nil {
				return fmt.Errorf("failed to link user: %w", err)
			}
			welcome, err = s.Accounts.IssueResetLink(txCtx, u)
			return err
		})
		if err != nil {
			return count, fmt.Errorf("failed to create account for employee %d: %w", e.ID, err)
		}
		s.invalidate(ctx, cache.ModelUser)
		s.Accounts.Enqueue(ctx, notification.JobWelcome, welcome)

		if err := out.Write([]string{employee.FormatCode(e.EmployeeCode), e.FullName(), u.Username, password, u.Email}); err != nil {
			return count, err
		}
		slog.Info("account created", "employee_id", e.ID, "username", u.Username)
		count++
	}

	out.Flush()
	return count, out.Error()
}

// CreateSuperuser adds an active staff and superuser account. The welcome
// email goes out only when an address is given.
func (s *Seeder) CreateSuperuser(ctx context.Context, username, email, password string) (user.User, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return user.User{}, errors.New("username and password are required")
	}
	taken, err := s.Users.UsernameExists(ctx, username)
	if err != nil {
		return user.User{}, fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return user.User{}, user.ErrUsernameExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, fmt.Errorf("failed to hash password: %w", err)
	}
	u, err := s.Users.Create(ctx, user.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         user.RoleOfficer,
		IsStaff:      true,
		IsSuperuser:  true,
		IsActive:     true,
	})
	if err != nil {
		return user.User{}, fmt.Errorf("failed to create superuser: %w", err)
	}
	slog.Info("superuser created", "user_id", u.ID, "username", u.Username)
	s.invalidate(ctx, cache.ModelUser)

	if u.Email == "" {
		return u, nil
	}
	welcome, err := s.Accounts.IssueResetLink(ctx, u)
	if err != nil {
		return u, err
	}
	s.Accounts.Enqueue(ctx, notification.JobWelcome, welcome)
	return u, nil
}
