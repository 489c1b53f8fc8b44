package company

import "context"

type CompanyService interface {
	Create(ctx context.Context, req CreateCompanyRequest) (CompanyResponse, error)
	GetByID(ctx context.Context, id int64) (CompanyResponse, error)
	GetMy(ctx context.Context) (CompanyResponse, error)
	List(ctx context.Context) ([]CompanyResponse, error)
	Update(ctx context.Context, id int64, req UpdateCompanyRequest) (CompanyResponse, error)
	Delete(ctx context.Context, id int64) error
}
