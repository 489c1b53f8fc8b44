package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rakmedia/hr-backend-go/internal/domain/master/position"
	"github.com/rakmedia/hr-backend-go/internal/pkg/database"
)

type positionRepositoryImpl struct {
	db *database.DB
}

func NewPositionRepository(db *database.DB) position.PositionRepository {
	return &positionRepositoryImpl{db: db}
}

const positionSelect = `
	SELECT p.id, p.job_role_id, p.employee_type_id, jr.name, et.name
	FROM employee_positions p
	JOIN job_roles jr ON jr.id = p.job_role_id
	JOIN employee_types et ON et.id = p.employee_type_id`

func scanPosition(row pgx.Row) (position.Position, error) {
	var p position.Position
	err := row.Scan(&p.ID, &p.JobRoleID, &p.EmployeeTypeID, &p.JobRoleName, &p.EmployeeTypeName)
	if errors.Is(err, pgx.ErrNoRows) {
		return position.Position{}, position.ErrPositionNotFound
	}
	return p, err
}

// Create implements position.PositionRepository.
func (r *positionRepositoryImpl) Create(ctx context.Context, jobRoleID, employeeTypeID int64) (position.Position, error) {
	q := GetQuerier(ctx, r.db)

	var id int64
	err := q.QueryRow(ctx, `
		INSERT INTO employee_positions (job_role_id, employee_type_id)
		VALUES ($1, $2)
		RETURNING id
	`, jobRoleID, employeeTypeID).Scan(&id)
	if err != nil {
		if database.IsUniqueViolation(err, "employee_positions_pair_key") {
			return position.Position{}, position.ErrPositionPairExists
		}
		return position.Position{}, fmt.Errorf("insert position: %w", err)
	}

	return r.GetByID(ctx, id)
}

// GetByID implements position.PositionRepository.
func (r *positionRepositoryImpl) GetByID(ctx context.Context, id int64) (position.Position, error) {
	q := GetQuerier(ctx, r.db)
	return scanPosition(q.QueryRow(ctx, positionSelect+` WHERE p.id = $1`, id))
}

// List implements position.PositionRepository.
func (r *positionRepositoryImpl) List(ctx context.Context) ([]position.Position, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, positionSelect+` ORDER BY jr.name, et.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var positions []position.Position
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, err
		}
		positions = append(positions, p)
	}
	return positions, rows.Err()
}
