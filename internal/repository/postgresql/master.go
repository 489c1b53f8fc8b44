package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rakmedia/hr-backend-go/internal/domain/master/employeetype"
	"github.com/rakmedia/hr-backend-go/internal/domain/master/jobrole"
	"github.com/rakmedia/hr-backend-go/internal/pkg/database"
)

type employeeTypeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeTypeRepository(db *database.DB) employeetype.EmployeeTypeRepository {
	return &employeeTypeRepositoryImpl{db: db}
}

func scanEmployeeType(row pgx.Row) (employeetype.EmployeeType, error) {
	var et employeetype.EmployeeType
	err := row.Scan(&et.ID, &et.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return employeetype.EmployeeType{}, employeetype.ErrEmployeeTypeNotFound
	}
	return et, err
}

func (r *employeeTypeRepositoryImpl) Create(ctx context.Context, name string) (employeetype.EmployeeType, error) {
	q := GetQuerier(ctx, r.db)

	et, err := scanEmployeeType(q.QueryRow(ctx, `INSERT INTO employee_types (name) VALUES ($1) RETURNING id, name`, name))
	if database.IsUniqueViolation(err, "employee_types_name_key") {
		return employeetype.EmployeeType{}, employeetype.ErrEmployeeTypeNameExists
	}
	return et, err
}

func (r *employeeTypeRepositoryImpl) GetByID(ctx context.Context, id int64) (employeetype.EmployeeType, error) {
	q := GetQuerier(ctx, r.db)
	return scanEmployeeType(q.QueryRow(ctx, `SELECT id, name FROM employee_types WHERE id = $1`, id))
}

func (r *employeeTypeRepositoryImpl) GetByName(ctx context.Context, name string) (employeetype.EmployeeType, error) {
	q := GetQuerier(ctx, r.db)
	return scanEmployeeType(q.QueryRow(ctx, `SELECT id, name FROM employee_types WHERE LOWER(name) = LOWER($1)`, name))
}

func (r *employeeTypeRepositoryImpl) List(ctx context.Context) ([]employeetype.EmployeeType, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT id, name FROM employee_types ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []employeetype.EmployeeType
	for rows.Next() {
		et, err := scanEmployeeType(rows)
		if err != nil {
			return nil, err
		}
		types = append(types, et)
	}
	return types, rows.Err()
}

type jobRoleRepositoryImpl struct {
	db *database.DB
}

func NewJobRoleRepository(db *database.DB) jobrole.JobRoleRepository {
	return &jobRoleRepositoryImpl{db: db}
}

func scanJobRole(row pgx.Row) (jobrole.JobRole, error) {
	var jr jobrole.JobRole
	err := row.Scan(&jr.ID, &jr.Name, &jr.CompanyID)
	if errors.Is(err, pgx.ErrNoRows) {
		return jobrole.JobRole{}, jobrole.ErrJobRoleNotFound
	}
	return jr, err
}

func (r *jobRoleRepositoryImpl) Create(ctx context.Context, role jobrole.JobRole) (jobrole.JobRole, error) {
	q := GetQuerier(ctx, r.db)

	jr, err := scanJobRole(q.QueryRow(ctx, `
		INSERT INTO job_roles (name, company_id) VALUES ($1, $2)
		RETURNING id, name, company_id
	`, role.Name, role.CompanyID))
	if database.IsUniqueViolation(err, "job_roles_name_key") {
		return jobrole.JobRole{}, jobrole.ErrJobRoleNameExists
	}
	return jr, err
}

func (r *jobRoleRepositoryImpl) GetByID(ctx context.Context, id int64) (jobrole.JobRole, error) {
	q := GetQuerier(ctx, r.db)
	return scanJobRole(q.QueryRow(ctx, `SELECT id, name, company_id FROM job_roles WHERE id = $1`, id))
}

func (r *jobRoleRepositoryImpl) GetByName(ctx context.Context, name string) (jobrole.JobRole, error) {
	q := GetQuerier(ctx, r.db)
	return scanJobRole(q.QueryRow(ctx, `SELECT id, name, company_id FROM job_roles WHERE LOWER(name) = LOWER($1)`, name))
}

func (r *jobRoleRepositoryImpl) List(ctx context.Context) ([]jobrole.JobRole, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT id, name, company_id FROM job_roles ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []jobrole.JobRole
	for rows.Next() {
		jr, err := scanJobRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, jr)
	}
	return roles, rows.Err()
}
