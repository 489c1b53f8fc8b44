package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/rakmedia/hr-backend-go/internal/domain/access"
	"github.com/rakmedia/hr-backend-go/internal/domain/auth"
	"github.com/rakmedia/hr-backend-go/internal/domain/company"
	"github.com/rakmedia/hr-backend-go/internal/domain/department"
	"github.com/rakmedia/hr-backend-go/internal/domain/employee"
	"github.com/rakmedia/hr-backend-go/internal/domain/master/employeetype"
	"github.com/rakmedia/hr-backend-go/internal/domain/master/jobrole"
	"github.com/rakmedia/hr-backend-go/internal/domain/master/position"
	"github.com/rakmedia/hr-backend-go/internal/domain/task"
	"github.com/rakmedia/hr-backend-go/internal/domain/user"
	"github.com/rakmedia/hr-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrAccountInactive),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrRefreshTokenRevoked),
		errors.Is(err, auth.ErrRefreshTokenCookieNotFound),
		errors.Is(err, auth.ErrUnauthenticated):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrInvalidResetLink):
		BadRequest(w, err.Error(), nil)

	// Access errors
	case errors.Is(err, access.ErrForbidden),
		errors.Is(err, user.ErrAdminPrivilegeRequired),
		errors.Is(err, user.ErrManagerAccessRequired),
		errors.Is(err, user.ErrInsufficientPermission),
		errors.Is(err, task.ErrAssignOthersDenied),
		errors.Is(err, task.ErrTaskAccessDenied),
		errors.Is(err, task.ErrTaskFileDeleteDenied):
		Forbidden(w, err.Error())

	// Not found
	case errors.Is(err, auth.ErrUserNotFound),
		errors.Is(err, user.ErrUserNotFound),
		errors.Is(err, company.ErrCompanyNotFound),
		errors.Is(err, company.ErrNoCompany),
		errors.Is(err, department.ErrDepartmentNotFound),
		errors.Is(err, employee.ErrEmployeeNotFound),
		errors.Is(err, employee.ErrInvalidPage),
		errors.Is(err, access.ErrNoEmployeeProfile),
		errors.Is(err, employeetype.ErrEmployeeTypeNotFound),
		errors.Is(err, jobrole.ErrJobRoleNotFound),
		errors.Is(err, position.ErrPositionNotFound),
		errors.Is(err, task.ErrTaskNotFound),
		errors.Is(err, task.ErrTaskFileNotFound):
		NotFound(w, err.Error())

	// Uniqueness
	case errors.Is(err, company.ErrCompanyNameExists),
		errors.Is(err, department.ErrDepartmentNameExists),
		errors.Is(err, employee.ErrEmployeeCodeExists),
		errors.Is(err, employee.ErrEmployeeEmailExists),
		errors.Is(err, employee.ErrUserAlreadyLinked),
		errors.Is(err, user.ErrUsernameExists),
		errors.Is(err, employeetype.ErrEmployeeTypeNameExists),
		errors.Is(err, jobrole.ErrJobRoleNameExists),
		errors.Is(err, position.ErrPositionPairExists):
		Conflict(w, err.Error())

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
