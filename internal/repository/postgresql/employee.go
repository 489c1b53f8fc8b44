package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rakmedia/hr-backend-go/internal/domain/access"
	"github.com/rakmedia/hr-backend-go/internal/domain/employee"
	"github.com/rakmedia/hr-backend-go/internal/pkg/database"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `
	e.id, e.user_id, e.profile_picture, e.first_name, e.last_name, e.email, e.company_id,
	e.position_id, e.hire_date, e.salary, e.employee_code, e.created_at, e.updated_at`

const employeeDetailSelect = `
	SELECT ` + employeeColumns + `,
		u.username, u.email, jr.name, et.name,
		COALESCE(ARRAY_AGG(d.id ORDER BY d.name) FILTER (WHERE d.id IS NOT NULL), '{}'),
		COALESCE(ARRAY_AGG(d.name ORDER BY d.name) FILTER (WHERE d.id IS NOT NULL), '{}')
	FROM employees e
	LEFT JOIN users u ON u.id = e.user_id
	LEFT JOIN employee_positions p ON p.id = e.position_id
	LEFT JOIN job_roles jr ON jr.id = p.job_role_id
	LEFT JOIN employee_types et ON et.id = p.employee_type_id
	LEFT JOIN employee_departments ed ON ed.employee_id = e.id
	LEFT JOIN departments d ON d.id = ed.department_id`

const employeeDetailGroupBy = ` GROUP BY e.id, u.id, jr.id, et.id`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID, &emp.UserID, &emp.ProfilePicture, &emp.FirstName, &emp.LastName, &emp.Email,
		&emp.CompanyID, &emp.PositionID, &emp.HireDate, &emp.Salary, &emp.EmployeeCode,
		&emp.CreatedAt, &emp.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, err
}

func scanEmployeeDetail(row pgx.Row) (employee.EmployeeWithDetails, error) {
	var emp employee.EmployeeWithDetails
	err := row.Scan(
		&emp.ID, &emp.UserID, &emp.ProfilePicture, &emp.FirstName, &emp.LastName, &emp.Email,
		&emp.CompanyID, &emp.PositionID, &emp.HireDate, &emp.Salary, &emp.EmployeeCode,
		&emp.CreatedAt, &emp.UpdatedAt,
		&emp.Username, &emp.UserEmail, &emp.JobRoleName, &emp.EmployeeTypeName,
		&emp.DepartmentIDs, &emp.DepartmentNames,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return employee.EmployeeWithDetails{}, employee.ErrEmployeeNotFound
	}
	return emp, err
}

func employeeWriteError(err error) error {
	switch {
	case database.IsUniqueViolation(err, "employees_employee_code_key"):
		return employee.ErrEmployeeCodeExists
	case database.IsUniqueViolation(err, "employees_email_key"):
		return employee.ErrEmployeeEmailExists
	case database.IsUniqueViolation(err, "employees_user_id_key"):
		return employee.ErrUserAlreadyLinked
	}
	return err
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	if emp.EmployeeCode == 0 {
		emp.EmployeeCode = employee.DefaultEmployeeCode
	}

	query := `
		INSERT INTO employees (
			user_id, profile_picture, first_name, last_name, email, company_id,
			position_id, hire_date, salary, employee_code
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + strings.ReplaceAll(employeeColumns, "e.", "")

	created, err := scanEmployee(q.QueryRow(ctx, query,
		emp.UserID, emp.ProfilePicture, emp.FirstName, emp.LastName, emp.Email, emp.CompanyID,
		emp.PositionID, emp.HireDate, emp.Salary, emp.EmployeeCode,
	))
	if err != nil {
		return employee.Employee{}, employeeWriteError(err)
	}
	return created, nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id int64) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)
	return scanEmployee(q.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees e WHERE e.id = $1`, id))
}

// GetDetailByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetDetailByID(ctx context.Context, id int64) (employee.EmployeeWithDetails, error) {
	q := GetQuerier(ctx, r.db)
	return scanEmployeeDetail(q.QueryRow(ctx, employeeDetailSelect+` WHERE e.id = $1`+employeeDetailGroupBy, id))
}

// GetByUserID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByUserID(ctx context.Context, userID int64) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)
	return scanEmployee(q.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees e WHERE e.user_id = $1`, userID))
}

// GetAccessProfile implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetAccessProfile(ctx context.Context, userID int64) (access.Profile, error) {
	q := GetQuerier(ctx, r.db)

	var p access.Profile
	err := q.QueryRow(ctx, `
		SELECT e.id, e.company_id, et.name
		FROM employees e
		LEFT JOIN employee_positions p ON p.id = e.position_id
		LEFT JOIN employee_types et ON et.id = p.employee_type_id
		WHERE e.user_id = $1
	`, userID).Scan(&p.EmployeeID, &p.CompanyID, &p.EmployeeTypeName)
	if errors.Is(err, pgx.ErrNoRows) {
		return access.Profile{}, employee.ErrEmployeeNotFound
	}
	return p, err
}

// filterConditions turns a list filter into SQL conditions. Placeholders
// start after the args passed in.
func filterConditions(filter employee.Filter, conditions []string, args []interface{}) ([]string, []interface{}) {
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.FirstName != nil {
		conditions = append(conditions, "LOWER(e.first_name) = LOWER("+arg(*filter.FirstName)+")")
	}
	if filter.FirstNameContains != nil {
		conditions = append(conditions, "e.first_name ILIKE "+arg(containsPattern(*filter.FirstNameContains)))
	}
	if filter.LastName != nil {
		conditions = append(conditions, "LOWER(e.last_name) = LOWER("+arg(*filter.LastName)+")")
	}
	if filter.LastNameContains != nil {
		conditions = append(conditions, "e.last_name ILIKE "+arg(containsPattern(*filter.LastNameContains)))
	}
	if filter.Email != nil {
		conditions = append(conditions, "LOWER(e.email) = LOWER("+arg(*filter.Email)+")")
	}
	if filter.EmailContains != nil {
		conditions = append(conditions, "e.email ILIKE "+arg(containsPattern(*filter.EmailContains)))
	}
	if filter.Salary != nil {
		conditions = append(conditions, "e.salary = "+arg(*filter.Salary))
	}
	if filter.SalaryLT != nil {
		conditions = append(conditions, "e.salary < "+arg(*filter.SalaryLT))
	}
	if filter.SalaryGT != nil {
		conditions = append(conditions, "e.salary > "+arg(*filter.SalaryGT))
	}
	if filter.SalaryRange != nil {
		conditions = append(conditions, fmt.Sprintf("e.salary BETWEEN %s AND %s", arg(filter.SalaryRange[0]), arg(filter.SalaryRange[1])))
	}
	if filter.EmployeeCode != nil {
		conditions = append(conditions, "e.employee_code = "+arg(*filter.EmployeeCode))
	}
	if filter.EmployeeCodeRange != nil {
		conditions = append(conditions, fmt.Sprintf("e.employee_code BETWEEN %s AND %s", arg(filter.EmployeeCodeRange[0]), arg(filter.EmployeeCodeRange[1])))
	}
	if filter.Search != nil {
		// every term must match at least one searchable column
		for _, term := range strings.Fields(*filter.Search) {
			p := arg(containsPattern(term))
			conditions = append(conditions, fmt.Sprintf(
				"(e.first_name ILIKE %[1]s OR e.last_name ILIKE %[1]s OR e.email ILIKE %[1]s OR e.salary::text ILIKE %[1]s OR e.employee_code::text ILIKE %[1]s)", p))
		}
	}

	return conditions, args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// containsPattern matches term literally anywhere in an ILIKE operand.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

func orderClause(filter employee.Filter) string {
	if filter.Descending {
		return " ORDER BY e.employee_code DESC, e.id DESC"
	}
	return " ORDER BY e.employee_code ASC, e.id ASC"
}

func (r *employeeRepositoryImpl) queryDetails(ctx context.Context, query string, args ...interface{}) ([]employee.EmployeeWithDetails, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees := []employee.EmployeeWithDetails{}
	for rows.Next() {
		emp, err := scanEmployeeDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context, filter employee.Filter) ([]employee.EmployeeWithDetails, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions, args := filterConditions(filter, []string{"TRUE"}, nil)
	whereClause := strings.Join(conditions, " AND ")

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM employees e WHERE "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	query := employeeDetailSelect + " WHERE " + whereClause + employeeDetailGroupBy + orderClause(filter)
	if filter.Paginate {
		args = append(args, filter.PageSize, filter.Offset())
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	employees, err := r.queryDetails(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return employees, total, nil
}

// ListDepartmentPeers implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ListDepartmentPeers(ctx context.Context, employeeID, companyID int64, filter employee.Filter) ([]employee.EmployeeWithDetails, error) {
	conditions := []string{
		"e.company_id = $1",
		"e.id <> $2",
		`EXISTS (
			SELECT 1 FROM employee_departments mine
			JOIN employee_departments theirs ON theirs.department_id = mine.department_id
			WHERE mine.employee_id = $2 AND theirs.employee_id = e.id
		)`,
	}
	conditions, args := filterConditions(filter, conditions, []interface{}{companyID, employeeID})

	query := employeeDetailSelect + " WHERE " + strings.Join(conditions, " AND ") + employeeDetailGroupBy + orderClause(filter)
	return r.queryDetails(ctx, query, args...)
}

// ListWithoutUser implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ListWithoutUser(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+employeeColumns+` FROM employees e WHERE e.user_id IS NULL ORDER BY e.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

// Update implements employee.EmployeeRepository. All mutable columns are written.
func (r *employeeRepositoryImpl) Update(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees SET
			first_name = $1, last_name = $2, email = $3, position_id = $4,
			hire_date = $5, salary = $6, employee_code = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING ` + strings.ReplaceAll(employeeColumns, "e.", "")

	updated, err := scanEmployee(q.QueryRow(ctx, query,
		emp.FirstName, emp.LastName, emp.Email, emp.PositionID,
		emp.HireDate, emp.Salary, emp.EmployeeCode, emp.ID,
	))
	if err != nil {
		return employee.Employee{}, employeeWriteError(err)
	}
	return updated, nil
}

// SetDepartments implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) SetDepartments(ctx context.Context, employeeID int64, departmentIDs []int64) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM employee_departments WHERE employee_id = $1`, employeeID); err != nil {
		return fmt.Errorf("clear departments: %w", err)
	}
	if len(departmentIDs) == 0 {
		return nil
	}

	_, err := q.Exec(ctx, `
		INSERT INTO employee_departments (employee_id, department_id)
		SELECT $1, d FROM UNNEST($2::bigint[]) AS d
		ON CONFLICT DO NOTHING
	`, employeeID, departmentIDs)
	if err != nil {
		return fmt.Errorf("insert departments: %w", err)
	}
	return nil
}

// LinkUser implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) LinkUser(ctx context.Context, employeeID, userID int64) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE employees SET user_id = $1, updated_at = NOW() WHERE id = $2`, userID, employeeID)
	if err != nil {
		return employeeWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// UpdateProfilePicture implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) UpdateProfilePicture(ctx context.Context, employeeID int64, path string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE employees SET profile_picture = $1, updated_at = NOW() WHERE id = $2`, path, employeeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// Delete implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Delete(ctx context.Context, id int64) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// CodeExists implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) CodeExists(ctx context.Context, code int, excludeID int64) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM employees WHERE employee_code = $1 AND id <> $2)`, code, excludeID).Scan(&exists)
	return exists, err
}

// EmailExists implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) EmailExists(ctx context.Context, email string, excludeID int64) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM employees WHERE LOWER(email) = LOWER($1) AND id <> $2)`, email, excludeID).Scan(&exists)
	return exists, err
}
