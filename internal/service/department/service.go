package department

import (
	"context"
	"fmt"
	"strings"

	"github.com/rakmedia/hr-backend-go/internal/domain/access"
	"github.com/rakmedia/hr-backend-go/internal/domain/department"
	"github.com/rakmedia/hr-backend-go/internal/domain/user"
	"github.com/rakmedia/hr-backend-go/internal/pkg/cache"
)

type DepartmentServiceImpl struct {
	department.DepartmentRepository
	resolver    access.Resolver
	invalidator cache.Invalidator
}

func NewDepartmentService(departmentRepository department.DepartmentRepository, resolver access.Resolver, invalidator cache.Invalidator) department.DepartmentService {
	return &DepartmentServiceImpl{
		DepartmentRepository: departmentRepository,
		resolver:             resolver,
		invalidator:          invalidator,
	}
}

func (s *DepartmentServiceImpl) List(ctx context.Context) ([]department.DepartmentResponse, error) {
	departments, err := s.DepartmentRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}

	resp := make([]department.DepartmentResponse, 0, len(departments))
	for _, d := range departments {
		resp = append(resp, department.NewDepartmentResponse(d))
	}
	return resp, nil
}

func (s *DepartmentServiceImpl) GetByID(ctx context.Context, id int64) (department.DepartmentResponse, error) {
	d, err := s.DepartmentRepository.GetByID(ctx, id)
	if err != nil {
		return department.DepartmentResponse{}, err
	}
	return department.NewDepartmentResponse(d), nil
}

// Create is open to manager-tier employees; the department joins the
// creator's company.
func (s *DepartmentServiceImpl) Create(ctx context.Context, req department.CreateDepartmentRequest) (department.DepartmentResponse, error) {
	subject, err := s.resolver.Resolve(ctx)
	if err != nil {
		return department.DepartmentResponse{}, err
	}
	if !subject.Can(user.PermissionDepartmentCreate) || !subject.HasEmployee() {
		return department.DepartmentResponse{}, access.ErrForbidden
	}

	if err := req.Validate(); err != nil {
		return department.DepartmentResponse{}, err
	}

	created, err := s.DepartmentRepository.Create(ctx, department.Department{
		Name:      strings.TrimSpace(req.Name),
		CompanyID: subject.CompanyID,
	})
	if err != nil {
		return department.DepartmentResponse{}, err
	}

	s.invalidator.Invalidate(ctx, cache.ModelDepartment)
	return department.NewDepartmentResponse(created), nil
}

func (s *DepartmentServiceImpl) Update(ctx context.Context, id int64, req department.UpdateDepartmentRequest) (department.DepartmentResponse, error) {
	if err := req.Validate(); err != nil {
		return department.DepartmentResponse{}, err
	}

	updated, err := s.DepartmentRepository.Update(ctx, id, strings.TrimSpace(req.Name))
	if err != nil {
		return department.DepartmentResponse{}, err
	}

	s.invalidator.Invalidate(ctx, cache.ModelDepartment)
	return department.NewDepartmentResponse(updated), nil
}

func (s *DepartmentServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.DepartmentRepository.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidator.Invalidate(ctx, cache.ModelDepartment)
	return nil
}
