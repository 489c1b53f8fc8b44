package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/rakmedia/hr-backend-go/internal/domain/access"
	"github.com/rakmedia/hr-backend-go/internal/domain/company"
	"github.com/rakmedia/hr-backend-go/internal/domain/department"
	"github.com/rakmedia/hr-backend-go/internal/domain/employee"
	"github.com/rakmedia/hr-backend-go/internal/domain/master/position"
	"github.com/rakmedia/hr-backend-go/internal/domain/notification"
	"github.com/rakmedia/hr-backend-go/internal/domain/user"
	"github.com/rakmedia/hr-backend-go/internal/pkg/cache"
	"github.com/rakmedia/hr-backend-go/internal/pkg/database"
	"github.com/rakmedia/hr-backend-go/internal/pkg/validator"
	"github.com/rakmedia/hr-backend-go/internal/service/account"
	"github.com/rakmedia/hr-backend-go/internal/service/file"
)

type EmployeeServiceImpl struct {
	tx             database.Transactor
	employeeRepo   employee.EmployeeRepository
	userRepo       user.UserRepository
	companyRepo    company.CompanyRepository
	departmentRepo department.DepartmentRepository
	positionRepo   position.PositionRepository
	accounts       *account.Provisioner
	resolver       access.Resolver
	fileService    file.FileService
	invalidator    cache.Invalidator
}

func NewEmployeeService(
	tx database.Transactor,
	employeeRepo employee.EmployeeRepository,
	userRepo user.UserRepository,
	companyRepo company.CompanyRepository,
	departmentRepo department.DepartmentRepository,
	positionRepo position.PositionRepository,
	accounts *account.Provisioner,
	resolver access.Resolver,
	fileService file.FileService,
	invalidator cache.Invalidator,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		tx:             tx,
		employeeRepo:   employeeRepo,
		userRepo:       userRepo,
		companyRepo:    companyRepo,
		departmentRepo: departmentRepo,
		positionRepo:   positionRepo,
		accounts:       accounts,
		resolver:       resolver,
		fileService:    fileService,
		invalidator:    invalidator,
	}
}

// Helper function to map EmployeeWithDetails to the list representation
func mapEmployeeToSummary(emp employee.EmployeeWithDetails) employee.EmployeeSummaryResponse {
	return employee.EmployeeSummaryResponse{
		ID:           emp.ID,
		EmployeeCode: employee.FormatCode(emp.EmployeeCode),
		Username:     emp.Username,
		FirstName:    emp.FirstName,
		LastName:     emp.LastName,
	}
}

func (s *EmployeeServiceImpl) mapEmployeeToDetail(emp employee.EmployeeWithDetails) employee.EmployeeDetailResponse {
	var hireDate *string
	if emp.HireDate != nil {
		d := emp.HireDate.Format(time.DateOnly)
		hireDate = &d
	}

	var picture *string
	if emp.ProfilePicture != nil && *emp.ProfilePicture != "" {
		u := s.fileService.URL(*emp.ProfilePicture)
		picture = &u
	}

	departments := emp.DepartmentNames
	if departments == nil {
		departments = []string{}
	}

	return employee.EmployeeDetailResponse{
		ID:             emp.ID,
		EmployeeCode:   employee.FormatCode(emp.EmployeeCode),
		Username:       emp.Username,
		FirstName:      emp.FirstName,
		LastName:       emp.LastName,
		UserEmail:      emp.UserEmail,
		JobRole:        emp.JobRoleName,
		EmployeeType:   emp.EmployeeTypeName,
		HireDate:       hireDate,
		Salary:         emp.Salary,
		Department:     departments,
		ProfilePicture: picture,
		Role:           access.DerivedRole(emp.EmployeeTypeName),
	}
}

func (s *EmployeeServiceImpl) detail(ctx context.Context, id int64) (employee.EmployeeDetailResponse, error) {
	emp, err := s.employeeRepo.GetDetailByID(ctx, id)
	if err != nil {
		return employee.EmployeeDetailResponse{}, err
	}
	return s.mapEmployeeToDetail(emp), nil
}

// List implements employee.EmployeeService.
func (s *EmployeeServiceImpl) List(ctx context.Context, filter employee.Filter) (employee.ListEmployeesResponse, error) {
	filter.Paginate = true
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = employee.DefaultPageSize
	}

	employees, total, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return employee.ListEmployeesResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}
	// an empty first page is fine, any page after the last is not
	if filter.Page > 1 && int64(filter.Offset()) >= total {
		return employee.ListEmployeesResponse{}, employee.ErrInvalidPage
	}

	resp := employee.ListEmployeesResponse{
		Employees:  make([]employee.EmployeeSummaryResponse, 0, len(employees)),
		Page:       filter.Page,
		Limit:      filter.PageSize,
		TotalItems: total,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.PageSize))),
	}
	for _, emp := range employees {
		resp.Employees = append(resp.Employees, mapEmployeeToSummary(emp))
	}
	return resp, nil
}

// Create implements employee.EmployeeService. The employee and its login
// account are written together; the welcome email goes out after commit.
func (s *EmployeeServiceImpl) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeDetailResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeDetailResponse{}, err
	}

	code := employee.DefaultEmployeeCode
	if req.EmployeeCode != nil {
		code = *req.EmployeeCode
	}
	email := strings.TrimSpace(req.Email)

	var errs validator.ValidationErrors
	if err := s.checkUnique(ctx, &errs, 0, &code, &email); err != nil {
		return employee.EmployeeDetailResponse{}, err
	}
	if err := s.checkReferences(ctx, &errs, req.PositionID, &req.DepartmentIDs); err != nil {
		return employee.EmployeeDetailResponse{}, err
	}
	if err := errs.Err(); err != nil {
		return employee.EmployeeDetailResponse{}, err
	}

	defaultCompany, err := s.companyRepo.GetDefault(ctx)
	if err != nil {
		return employee.EmployeeDetailResponse{}, err
	}

	var (
		created employee.Employee
		welcome notification.LinkEmail
	)
	err = s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		created, err = s.employeeRepo.Create(txCtx, employee.Employee{
			FirstName:    strings.TrimSpace(req.FirstName),
			LastName:     strings.TrimSpace(req.LastName),
			Email:        &email,
			CompanyID:    defaultCompany.ID,
			PositionID:   req.PositionID,
			HireDate:     employee.ParseHireDate(req.HireDate),
			Salary:       req.Salary,
			EmployeeCode: code,
		})
		if err != nil {
			return uniqueViolation(err)
		}

		if len(req.DepartmentIDs) > 0 {
			if err := s.employeeRepo.SetDepartments(txCtx, created.ID, dedupe(req.DepartmentIDs)); err != nil {
				return fmt.Errorf("failed to set departments: %w", err)
			}
		}

		newUser, err := s.accounts.CreateAccount(txCtx, created.FirstName, created.LastName, email)
		if err != nil {
			return fmt.Errorf("failed to provision account: %w", err)
		}
		if err := s.employeeRepo.LinkUser(txCtx, created.ID, newUser.ID); err != nil {
			return fmt.Errorf("failed to link user: %w", err)
		}

		welcome, err = s.accounts.IssueResetLink(txCtx, newUser)
		return err
	})
	if err != nil {
		return employee.EmployeeDetailResponse{}, err
	}

	slog.InfoContext(ctx, "employee created", "employee_id", created.ID, "username", welcome.Username)
	s.accounts.Enqueue(ctx, notification.JobWelcome, welcome)
	s.invalidator.Invalidate(ctx, cache.ModelEmployee)
	s.invalidator.Invalidate(ctx, cache.ModelUser)

	return s.detail(ctx, created.ID)
}

// Get implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Get(ctx context.Context, id int64) (employee.EmployeeDetailResponse, error) {
	subject, err := s.resolver.Resolve(ctx)
	if err != nil {
		return employee.EmployeeDetailResponse{}, err
	}

	emp, err := s.employeeRepo.GetDetailByID(ctx, id)
	if err != nil {
		return employee.EmployeeDetailResponse{}, err
	}
	if !canView(subject, emp.Employee) {
		return employee.EmployeeDetailResponse{}, access.ErrForbidden
	}
	return s.mapEmployeeToDetail(emp), nil
}

func canView(subject access.Subject, emp employee.Employee) bool {
	switch {
	case subject.IsAdmin():
		return true
	case subject.HasEmployee() && subject.EmployeeID == emp.ID:
		return true
	case subject.Can(user.PermissionEmployeeViewCompany) && subject.CompanyID == emp.CompanyID:
		return true
	}
	return false
}

// Update implements employee.EmployeeService. partial selects PATCH
// semantics; otherwise the required fields must all be present.
func (s *EmployeeServiceImpl) Update(ctx context.Context, id int64, req employee.UpdateEmployeeRequest, partial bool) (employee.EmployeeDetailResponse, error) {
	if err := req.Validate(partial); err != nil {
		return employee.EmployeeDetailResponse{}, err
	}

	existing, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeDetailResponse{}, err
	}

	var email *string
	if req.Email != nil {
		trimmed := strings.TrimSpace(*req.Email)
		email = &trimmed
	}

	var errs validator.ValidationErrors
	if err := s.checkUnique(ctx, &errs, id, req.EmployeeCode, email); err != nil {
		return employee.EmployeeDetailResponse{}, err
	}
	if err := s.checkReferences(ctx, &errs, req.PositionID, req.DepartmentIDs); err != nil {
		return employee.EmployeeDetailResponse{}, err
	}
	if err := errs.Err(); err != nil {
		return employee.EmployeeDetailResponse{}, err
	}

	updated := existing
	if req.EmployeeCode != nil {
		updated.EmployeeCode = *req.EmployeeCode
	}
	if req.FirstName != nil {
		updated.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		updated.LastName = strings.TrimSpace(*req.LastName)
	}
	if email != nil {
		updated.Email = email
	}
	if req.PositionID != nil {
		updated.PositionID = req.PositionID
	}
	if req.HireDate != nil {
		updated.HireDate = employee.ParseHireDate(req.HireDate)
	}
	if req.Salary != nil {
		updated.Salary = req.Salary
	}

	userChanged := false
	err = s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		if _, err := s.employeeRepo.Update(txCtx, updated); err != nil {
			return uniqueViolation(err)
		}
		if req.DepartmentIDs != nil {
			if err := s.employeeRepo.SetDepartments(txCtx, id, dedupe(*req.DepartmentIDs)); err != nil {
				return fmt.Errorf("failed to set departments: %w", err)
			}
		}
		if req.UserEmail != nil && existing.UserID != nil {
			if err := s.userRepo.UpdateEmail(txCtx, *existing.UserID, strings.TrimSpace(*req.UserEmail)); err != nil {
				return fmt.Errorf("failed to update user email: %w", err)
			}
			userChanged = true
		}
		return nil
	})
	if err != nil {
		return employee.EmployeeDetailResponse{}, err
	}

	s.invalidator.Invalidate(ctx, cache.ModelEmployee)
	if userChanged {
		s.invalidator.Invalidate(ctx, cache.ModelUser)
	}
	return s.detail(ctx, id)
}

// Delete implements employee.EmployeeService. The linked user is kept.
func (s *EmployeeServiceImpl) Delete(ctx context.Context, id int64) error {
	existing, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.employeeRepo.Delete(ctx, id); err != nil {
		return err
	}

	if existing.ProfilePicture != nil && *existing.ProfilePicture != "" {
		if err := s.fileService.DeleteFile(ctx, *existing.ProfilePicture); err != nil {
			slog.WarnContext(ctx, "failed to delete profile picture", "employee_id", id, "error", err)
		}
	}

	s.invalidator.Invalidate(ctx, cache.ModelEmployee)
	return nil
}

func (s *EmployeeServiceImpl) self(ctx context.Context) (access.Subject, error) {
	subject, err := s.resolver.Resolve(ctx)
	if err != nil {
		return access.Subject{}, err
	}
	if !subject.HasEmployee() {
		return access.Subject{}, employee.ErrEmployeeNotFound
	}
	return subject, nil
}

// GetProfile implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetProfile(ctx context.Context) (employee.EmployeeDetailResponse, error) {
	subject, err := s.self(ctx)
	if err != nil {
		return employee.EmployeeDetailResponse{}, err
	}
	return s.detail(ctx, subject.EmployeeID)
}

// UpdateProfile implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateProfile(ctx context.Context, req employee.UpdateProfileRequest) (employee.EmployeeDetailResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeDetailResponse{}, err
	}

	subject, err := s.self(ctx)
	if err != nil {
		return employee.EmployeeDetailResponse{}, err
	}
	existing, err := s.employeeRepo.GetByID(ctx, subject.EmployeeID)
	if err != nil {
		return employee.EmployeeDetailResponse{}, err
	}

	updated := existing
	if req.FirstName != nil {
		updated.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		updated.LastName = strings.TrimSpace(*req.LastName)
	}

	err = s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		if _, err := s.employeeRepo.Update(txCtx, updated); err != nil {
			return uniqueViolation(err)
		}
		if req.UserEmail != nil {
			if err := s.userRepo.UpdateEmail(txCtx, subject.UserID, strings.TrimSpace(*req.UserEmail)); err != nil {
				return fmt.Errorf("failed to update user email: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return employee.EmployeeDetailResponse{}, err
	}

	s.invalidator.Invalidate(ctx, cache.ModelEmployee)
	if req.UserEmail != nil {
		s.invalidator.Invalidate(ctx, cache.ModelUser)
	}
	return s.detail(ctx, subject.EmployeeID)
}

// UploadAvatar implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UploadAvatar(ctx context.Context, req employee.UploadAvatarRequest) (employee.EmployeeDetailResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeDetailResponse{}, err
	}

	subject, err := s.self(ctx)
	if err != nil {
		return employee.EmployeeDetailResponse{}, err
	}
	existing, err := s.employeeRepo.GetByID(ctx, subject.EmployeeID)
	if err != nil {
		return employee.EmployeeDetailResponse{}, err
	}

	path, err := s.fileService.UploadAvatar(ctx, existing.ID, req.File, req.FileHeader.Filename)
	if err != nil {
		var errs validator.ValidationErrors
		errs.Add("file", "Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
		slog.WarnContext(ctx, "avatar upload rejected", "employee_id", existing.ID, "error", err)
		return employee.EmployeeDetailResponse{}, errs
	}

	if err := s.employeeRepo.UpdateProfilePicture(ctx, existing.ID, path); err != nil {
		_ = s.fileService.DeleteFile(ctx, path)
		return employee.EmployeeDetailResponse{}, fmt.Errorf("failed to save profile picture: %w", err)
	}
	if existing.ProfilePicture != nil && *existing.ProfilePicture != "" {
		if err := s.fileService.DeleteFile(ctx, *existing.ProfilePicture); err != nil {
			slog.WarnContext(ctx, "failed to delete old profile picture", "employee_id", existing.ID, "error", err)
		}
	}

	s.invalidator.Invalidate(ctx, cache.ModelEmployee)
	return s.detail(ctx, existing.ID)
}

// ListDepartmentPeers implements employee.EmployeeService. Callers outside
// the manager tier get an empty list.
func (s *EmployeeServiceImpl) ListDepartmentPeers(ctx context.Context, filter employee.Filter) ([]employee.EmployeeDetailResponse, error) {
	subject, err := s.resolver.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	resp := []employee.EmployeeDetailResponse{}
	if !subject.Can(user.PermissionEmployeeViewPeers) || !subject.HasEmployee() {
		return resp, nil
	}

	filter.Paginate = false
	peers, err := s.employeeRepo.ListDepartmentPeers(ctx, subject.EmployeeID, subject.CompanyID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list department peers: %w", err)
	}
	for _, p := range peers {
		resp = append(resp, s.mapEmployeeToDetail(p))
	}
	return resp, nil
}

// Dashboard implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Dashboard(ctx context.Context) (employee.DashboardResponse, error) {
	subject, err := s.resolver.Resolve(ctx)
	if err != nil {
		return employee.DashboardResponse{}, err
	}
	return employee.DashboardResponse{RedirectTo: access.DashboardPath(subject)}, nil
}

// checkUnique adds field errors for a taken code or email. Nil values are
// not checked.
func (s *EmployeeServiceImpl) checkUnique(ctx context.Context, errs *validator.ValidationErrors, excludeID int64, code *int, email *string) error {
	if code != nil {
		exists, err := s.employeeRepo.CodeExists(ctx, *code, excludeID)
		if err != nil {
			return fmt.Errorf("failed to check employee code: %w", err)
		}
		if exists {
			errs.Add("employee_code", employee.MsgCodeExists)
		}
	}
	if email != nil && *email != "" {
		exists, err := s.employeeRepo.EmailExists(ctx, *email, excludeID)
		if err != nil {
			return fmt.Errorf("failed to check employee email: %w", err)
		}
		if exists {
			errs.Add("email", employee.MsgEmailExists)
		}
	}
	return nil
}

func (s *EmployeeServiceImpl) checkReferences(ctx context.Context, errs *validator.ValidationErrors, positionID *int64, departmentIDs *[]int64) error {
	if positionID != nil {
		if _, err := s.positionRepo.GetByID(ctx, *positionID); err != nil {
			if !errors.Is(err, position.ErrPositionNotFound) {
				return fmt.Errorf("failed to get position: %w", err)
			}
			errs.Add("position", invalidPK(*positionID))
		}
	}

	if departmentIDs == nil || len(*departmentIDs) == 0 {
		return nil
	}
	ids := dedupe(*departmentIDs)
	n, err := s.departmentRepo.CountExisting(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to check departments: %w", err)
	}
	if n == len(ids) {
		return nil
	}
	for _, id := range ids {
		if _, err := s.departmentRepo.GetByID(ctx, id); err != nil {
			if !errors.Is(err, department.ErrDepartmentNotFound) {
				return fmt.Errorf("failed to get department: %w", err)
			}
			errs.Add("department", invalidPK(id))
			break
		}
	}
	return nil
}

// uniqueViolation turns a unique constraint lost to a concurrent writer
// into the same field error the pre-check reports.
func uniqueViolation(err error) error {
	var errs validator.ValidationErrors
	switch {
	case errors.Is(err, employee.ErrEmployeeCodeExists):
		errs.Add("employee_code", employee.MsgCodeExists)
	case errors.Is(err, employee.ErrEmployeeEmailExists):
		errs.Add("email", employee.MsgEmailExists)
	default:
		return err
	}
	return errs
}

func invalidPK(id int64) string {
	return fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id)
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
