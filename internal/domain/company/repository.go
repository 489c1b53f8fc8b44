package company

import "context"

type CompanyRepository interface {
	Create(ctx context.Context, c Company) (Company, error)
	GetByID(ctx context.Context, id int64) (Company, error)
	GetByName(ctx context.Context, name string) (Company, error)
	// GetDefault returns the oldest company; new employees join it.
	GetDefault(ctx context.Context) (Company, error)
	List(ctx context.Context) ([]Company, error)
	Update(ctx context.Context, id int64, req UpdateCompanyRequest) (Company, error)
	Delete(ctx context.Context, id int64) error
}
