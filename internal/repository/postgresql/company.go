package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rakmedia/hr-backend-go/internal/domain/company"
	"github.com/rakmedia/hr-backend-go/internal/pkg/database"
)

type companyRepositoryImpl struct {
	db *database.DB
}

func NewCompanyRepository(db *database.DB) company.CompanyRepository {
	return &companyRepositoryImpl{db: db}
}

const companyColumns = `id, name, description, created_at, updated_at`

func scanCompany(row pgx.Row) (company.Company, error) {
	var c company.Company
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return company.Company{}, company.ErrCompanyNotFound
	}
	return c, err
}

func companyWriteError(err error) error {
	if database.IsUniqueViolation(err, "companies_name_key") {
		return company.ErrCompanyNameExists
	}
	return err
}

// Create implements company.CompanyRepository.
func (c *companyRepositoryImpl) Create(ctx context.Context, newCompany company.Company) (company.Company, error) {
	q := GetQuerier(ctx, c.db)

	query := `
		INSERT INTO companies (name, description)
		VALUES ($1, $2)
		RETURNING ` + companyColumns

	created, err := scanCompany(q.QueryRow(ctx, query, newCompany.Name, newCompany.Description))
	if err != nil {
		return company.Company{}, companyWriteError(err)
	}
	return created, nil
}

// GetByID implements company.CompanyRepository.
func (c *companyRepositoryImpl) GetByID(ctx context.Context, id int64) (company.Company, error) {
	q := GetQuerier(ctx, c.db)
	return scanCompany(q.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id))
}

// GetByName implements company.CompanyRepository.
func (c *companyRepositoryImpl) GetByName(ctx context.Context, name string) (company.Company, error) {
	q := GetQuerier(ctx, c.db)
	return scanCompany(q.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE name = $1`, name))
}

// GetDefault implements company.CompanyRepository.
func (c *companyRepositoryImpl) GetDefault(ctx context.Context) (company.Company, error) {
	q := GetQuerier(ctx, c.db)
	got, err := scanCompany(q.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies ORDER BY id LIMIT 1`))
	if errors.Is(err, company.ErrCompanyNotFound) {
		return company.Company{}, company.ErrNoCompany
	}
	return got, err
}

// List implements company.CompanyRepository.
func (c *companyRepositoryImpl) List(ctx context.Context) ([]company.Company, error) {
	q := GetQuerier(ctx, c.db)

	rows, err := q.Query(ctx, `SELECT `+companyColumns+` FROM companies ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []company.Company
	for rows.Next() {
		got, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, got)
	}
	return companies, rows.Err()
}

// Update implements company.CompanyRepository.
func (c *companyRepositoryImpl) Update(ctx context.Context, id int64, req company.UpdateCompanyRequest) (company.Company, error) {
	q := GetQuerier(ctx, c.db)

	updates := make(map[string]interface{})

	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}

	if len(updates) == 0 {
		return c.GetByID(ctx, id)
	}
	updates["updated_at"] = time.Now()

	setClauses := make([]string, 0, len(updates))
	args := make([]interface{}, 0, len(updates)+1)
	i := 1
	for col, val := range updates {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, i))
		args = append(args, val)
		i++
	}

	sql := "UPDATE companies SET " + strings.Join(setClauses, ", ") + fmt.Sprintf(" WHERE id = $%d", i)
	args = append(args, id)

	updated, err := scanCompany(q.QueryRow(ctx, sql+" RETURNING "+companyColumns, args...))
	if err != nil {
		return company.Company{}, companyWriteError(err)
	}
	return updated, nil
}

// Delete implements company.CompanyRepository.
func (c *companyRepositoryImpl) Delete(ctx context.Context, id int64) error {
	q := GetQuerier(ctx, c.db)

	tag, err := q.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return company.ErrCompanyNotFound
	}
	return nil
}
