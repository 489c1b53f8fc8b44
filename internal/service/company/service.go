package company

import (
	"context"
	"fmt"

	"github.com/rakmedia/hr-backend-go/internal/domain/access"
	"github.com/rakmedia/hr-backend-go/internal/domain/company"
	"github.com/rakmedia/hr-backend-go/internal/pkg/cache"
)

type CompanyServiceImpl struct {
	company.CompanyRepository
	resolver    access.Resolver
	invalidator cache.Invalidator
}

func NewCompanyService(companyRepository company.CompanyRepository, resolver access.Resolver, invalidator cache.Invalidator) company.CompanyService {
	return &CompanyServiceImpl{
		CompanyRepository: companyRepository,
		resolver:          resolver,
		invalidator:       invalidator,
	}
}

// Create implements company.CompanyService.
// Subtle: this method shadows the method (CompanyRepository).Create of CompanyServiceImpl.CompanyRepository.
func (c *CompanyServiceImpl) Create(ctx context.Context, req company.CreateCompanyRequest) (company.CompanyResponse, error) {
	if err := req.Validate(); err != nil {
		return company.CompanyResponse{}, err
	}

	created, err := c.CompanyRepository.Create(ctx, company.Company{Name: req.Name, Description: req.Description})
	if err != nil {
		return company.CompanyResponse{}, err
	}

	c.invalidator.Invalidate(ctx, cache.ModelCompany)
	return company.NewCompanyResponse(created), nil
}

// GetByID implements company.CompanyService.
// Subtle: this method shadows the method (CompanyRepository).GetByID of CompanyServiceImpl.CompanyRepository.
func (c *CompanyServiceImpl) GetByID(ctx context.Context, id int64) (company.CompanyResponse, error) {
	companyData, err := c.CompanyRepository.GetByID(ctx, id)
	if err != nil {
		return company.CompanyResponse{}, err
	}
	return company.NewCompanyResponse(companyData), nil
}

// GetMy implements company.CompanyService.
func (c *CompanyServiceImpl) GetMy(ctx context.Context) (company.CompanyResponse, error) {
	subject, err := c.resolver.Resolve(ctx)
	if err != nil {
		return company.CompanyResponse{}, err
	}
	if !subject.HasEmployee() {
		return company.CompanyResponse{}, company.ErrCompanyNotFound
	}
	return c.GetByID(ctx, subject.CompanyID)
}

// List implements company.CompanyService.
// Subtle: this method shadows the method (CompanyRepository).List of CompanyServiceImpl.CompanyRepository.
func (c *CompanyServiceImpl) List(ctx context.Context) ([]company.CompanyResponse, error) {
	companies, err := c.CompanyRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}

	resp := make([]company.CompanyResponse, 0, len(companies))
	for _, companyData := range companies {
		resp = append(resp, company.NewCompanyResponse(companyData))
	}
	return resp, nil
}

// Update implements company.CompanyService.
// Subtle: this method shadows the method (CompanyRepository).Update of CompanyServiceImpl.CompanyRepository.
func (c *CompanyServiceImpl) Update(ctx context.Context, id int64, req company.UpdateCompanyRequest) (company.CompanyResponse, error) {
	if err := req.Validate(); err != nil {
		return company.CompanyResponse{}, err
	}

	updated, err := c.CompanyRepository.Update(ctx, id, req)
	if err != nil {
		return company.CompanyResponse{}, err
	}

	c.invalidator.Invalidate(ctx, cache.ModelCompany)
	return company.NewCompanyResponse(updated), nil
}

// Delete implements company.CompanyService.
// Subtle: this method shadows the method (CompanyRepository).Delete of CompanyServiceImpl.CompanyRepository.
func (c *CompanyServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := c.CompanyRepository.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidator.Invalidate(ctx, cache.ModelCompany)
	return nil
}
