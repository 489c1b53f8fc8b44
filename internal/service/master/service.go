package master

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rakmedia/hr-backend-go/internal/domain/company"
	"github.com/rakmedia/hr-backend-go/internal/domain/master/employeetype"
	"github.com/rakmedia/hr-backend-go/internal/domain/master/jobrole"
	"github.com/rakmedia/hr-backend-go/internal/domain/master/position"
	"github.com/rakmedia/hr-backend-go/internal/pkg/cache"
	"github.com/rakmedia/hr-backend-go/internal/pkg/validator"
)

type MasterService interface {
	// Employee type operations
	CreateEmployeeType(ctx context.Context, req employeetype.CreateEmployeeTypeRequest) (employeetype.EmployeeTypeResponse, error)
	ListEmployeeTypes(ctx context.Context) ([]employeetype.EmployeeTypeResponse, error)

	// Job role operations
	CreateJobRole(ctx context.Context, req jobrole.CreateJobRoleRequest) (jobrole.JobRoleResponse, error)
	ListJobRoles(ctx context.Context) ([]jobrole.JobRoleResponse, error)

	// Position operations
	CreatePosition(ctx context.Context, req position.CreatePositionRequest) (position.PositionResponse, error)
	ListPositions(ctx context.Context) ([]position.PositionResponse, error)
}

type masterServiceImpl struct {
	employeeTypeRepo employeetype.EmployeeTypeRepository
	jobRoleRepo      jobrole.JobRoleRepository
	positionRepo     position.PositionRepository
	companyRepo      company.CompanyRepository
	invalidator      cache.Invalidator
}

func NewMasterService(
	employeeTypeRepo employeetype.EmployeeTypeRepository,
	jobRoleRepo jobrole.JobRoleRepository,
	positionRepo position.PositionRepository,
	companyRepo company.CompanyRepository,
	invalidator cache.Invalidator,
) MasterService {
	return &masterServiceImpl{
		employeeTypeRepo: employeeTypeRepo,
		jobRoleRepo:      jobRoleRepo,
		positionRepo:     positionRepo,
		companyRepo:      companyRepo,
		invalidator:      invalidator,
	}
}

// ==================== EMPLOYEE TYPE OPERATIONS ====================

func (s *masterServiceImpl) CreateEmployeeType(ctx context.Context, req employeetype.CreateEmployeeTypeRequest) (employeetype.EmployeeTypeResponse, error) {
	if err := req.Validate(); err != nil {
		return employeetype.EmployeeTypeResponse{}, err
	}

	created, err := s.employeeTypeRepo.Create(ctx, strings.TrimSpace(req.Name))
	if err != nil {
		return employeetype.EmployeeTypeResponse{}, err
	}
	return employeetype.EmployeeTypeResponse{ID: created.ID, Name: created.Name}, nil
}

func (s *masterServiceImpl) ListEmployeeTypes(ctx context.Context) ([]employeetype.EmployeeTypeResponse, error) {
	types, err := s.employeeTypeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employee types: %w", err)
	}

	resp := make([]employeetype.EmployeeTypeResponse, 0, len(types))
	for _, t := range types {
		resp = append(resp, employeetype.EmployeeTypeResponse{ID: t.ID, Name: t.Name})
	}
	return resp, nil
}

// ==================== JOB ROLE OPERATIONS ====================

func (s *masterServiceImpl) CreateJobRole(ctx context.Context, req jobrole.CreateJobRoleRequest) (jobrole.JobRoleResponse, error) {
	if err := req.Validate(); err != nil {
		return jobrole.JobRoleResponse{}, err
	}

	var companyID int64
	if req.CompanyID != nil {
		c, err := s.companyRepo.GetByID(ctx, *req.CompanyID)
		if err != nil {
			if errors.Is(err, company.ErrCompanyNotFound) {
				return jobrole.JobRoleResponse{}, invalidPK("company_id", *req.CompanyID)
			}
			return jobrole.JobRoleResponse{}, fmt.Errorf("failed to get company: %w", err)
		}
		companyID = c.ID
	} else {
		c, err := s.companyRepo.GetDefault(ctx)
		if err != nil {
			return jobrole.JobRoleResponse{}, err
		}
		companyID = c.ID
	}

	created, err := s.jobRoleRepo.Create(ctx, jobrole.JobRole{Name: strings.TrimSpace(req.Name), CompanyID: companyID})
	if err != nil {
		return jobrole.JobRoleResponse{}, err
	}
	return jobrole.JobRoleResponse{ID: created.ID, Name: created.Name, CompanyID: created.CompanyID}, nil
}

func (s *masterServiceImpl) ListJobRoles(ctx context.Context) ([]jobrole.JobRoleResponse, error) {
	roles, err := s.jobRoleRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list job roles: %w", err)
	}

	resp := make([]jobrole.JobRoleResponse, 0, len(roles))
	for _, r := range roles {
		resp = append(resp, jobrole.JobRoleResponse{ID: r.ID, Name: r.Name, CompanyID: r.CompanyID})
	}
	return resp, nil
}

// ==================== POSITION OPERATIONS ====================

func (s *masterServiceImpl) CreatePosition(ctx context.Context, req position.CreatePositionRequest) (position.PositionResponse, error) {
	if err := req.Validate(); err != nil {
		return position.PositionResponse{}, err
	}

	role, err := s.jobRoleRepo.GetByID(ctx, req.JobRoleID)
	if err != nil {
		if errors.Is(err, jobrole.ErrJobRoleNotFound) {
			return position.PositionResponse{}, invalidPK("job_role", req.JobRoleID)
		}
		return position.PositionResponse{}, fmt.Errorf("failed to get job role: %w", err)
	}
	typ, err := s.employeeTypeRepo.GetByID(ctx, req.EmployeeTypeID)
	if err != nil {
		if errors.Is(err, employeetype.ErrEmployeeTypeNotFound) {
			return position.PositionResponse{}, invalidPK("employee_type", req.EmployeeTypeID)
		}
		return position.PositionResponse{}, fmt.Errorf("failed to get employee type: %w", err)
	}

	if err := position.CheckCompatible(role.Name, typ.Name); err != nil {
		var errs validator.ValidationErrors
		errs.Add("non_field_errors", err.Error())
		return position.PositionResponse{}, errs
	}

	created, err := s.positionRepo.Create(ctx, role.ID, typ.ID)
	if err != nil {
		return position.PositionResponse{}, err
	}
	created.JobRoleName, created.EmployeeTypeName = role.Name, typ.Name

	s.invalidator.Invalidate(ctx, cache.ModelPosition)
	return position.NewPositionResponse(created), nil
}

func (s *masterServiceImpl) ListPositions(ctx context.Context) ([]position.PositionResponse, error) {
	positions, err := s.positionRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}

	resp := make([]position.PositionResponse, 0, len(positions))
	for _, p := range positions {
		resp = append(resp, position.NewPositionResponse(p))
	}
	return resp, nil
}

func invalidPK(field string, id int64) error {
	var errs validator.ValidationErrors
	errs.Add(field, fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id))
	return errs
}
