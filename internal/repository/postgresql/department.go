package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rakmedia/hr-backend-go/internal/domain/department"
	"github.com/rakmedia/hr-backend-go/internal/pkg/database"
)

type departmentRepositoryImpl struct {
	db *database.DB
}

func NewDepartmentRepository(db *database.DB) department.DepartmentRepository {
	return &departmentRepositoryImpl{db: db}
}

func scanDepartment(row pgx.Row) (department.Department, error) {
	var d department.Department
	err := row.Scan(&d.ID, &d.Name, &d.CompanyID)
	if errors.Is(err, pgx.ErrNoRows) {
		return department.Department{}, department.ErrDepartmentNotFound
	}
	return d, err
}

func departmentWriteError(err error) error {
	if database.IsUniqueViolation(err, "departments_name_key") {
		return department.ErrDepartmentNameExists
	}
	return err
}

func (r *departmentRepositoryImpl) Create(ctx context.Context, d department.Department) (department.Department, error) {
	q := GetQuerier(ctx, r.db)

	created, err := scanDepartment(q.QueryRow(ctx, `
		INSERT INTO departments (name, company_id)
		VALUES ($1, $2)
		RETURNING id, name, company_id
	`, d.Name, d.CompanyID))
	if err != nil {
		return department.Department{}, departmentWriteError(err)
	}
	return created, nil
}

func (r *departmentRepositoryImpl) GetByID(ctx context.Context, id int64) (department.Department, error) {
	q := GetQuerier(ctx, r.db)
	return scanDepartment(q.QueryRow(ctx, `SELECT id, name, company_id FROM departments WHERE id = $1`, id))
}

func (r *departmentRepositoryImpl) GetByName(ctx context.Context, name string) (department.Department, error) {
	q := GetQuerier(ctx, r.db)
	return scanDepartment(q.QueryRow(ctx, `SELECT id, name, company_id FROM departments WHERE name = $1`, name))
}

func (r *departmentRepositoryImpl) List(ctx context.Context) ([]department.Department, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT d.id, d.name, d.company_id, COUNT(ed.employee_id)
		FROM departments d
		LEFT JOIN employee_departments ed ON ed.department_id = d.id
		GROUP BY d.id
		ORDER BY d.id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var departments []department.Department
	for rows.Next() {
		var d department.Department
		if err := rows.Scan(&d.ID, &d.Name, &d.CompanyID, &d.EmployeeCount); err != nil {
			return nil, err
		}
		departments = append(departments, d)
	}
	return departments, rows.Err()
}

func (r *departmentRepositoryImpl) CountExisting(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	q := GetQuerier(ctx, r.db)

	var n int
	err := q.QueryRow(ctx, `SELECT COUNT(DISTINCT id) FROM departments WHERE id = ANY($1)`, ids).Scan(&n)
	return n, err
}

func (r *departmentRepositoryImpl) Update(ctx context.Context, id int64, name string) (department.Department, error) {
	q := GetQuerier(ctx, r.db)

	updated, err := scanDepartment(q.QueryRow(ctx, `
		UPDATE departments SET name = $1 WHERE id = $2
		RETURNING id, name, company_id
	`, name, id))
	if err != nil {
		return department.Department{}, departmentWriteError(err)
	}
	return updated, nil
}

func (r *departmentRepositoryImpl) Delete(ctx context.Context, id int64) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return department.ErrDepartmentNotFound
	}
	return nil
}
