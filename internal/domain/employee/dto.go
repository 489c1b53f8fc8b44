package employee

import (
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/rakmedia/hr-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// EmployeeSummaryResponse is the list representation.
type EmployeeSummaryResponse struct {
	ID           int64   `json:"id"`
	EmployeeCode string  `json:"employee_code"`
	Username     *string `json:"username"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
}

// EmployeeDetailResponse is the full profile representation.
type EmployeeDetailResponse struct {
	ID             int64            `json:"id"`
	EmployeeCode   string           `json:"employee_code"`
	Username       *string          `json:"username"`
	FirstName      string           `json:"first_name"`
	LastName       string           `json:"last_name"`
	UserEmail      *string          `json:"user_email"`
	JobRole        *string          `json:"job_role"`
	EmployeeType   *string          `json:"employee_type"`
	HireDate       *string          `json:"hire_date"`
	Salary         *decimal.Decimal `json:"salary"`
	Department     []string         `json:"department"`
	ProfilePicture *string          `json:"profile_picture"`
	Role           string           `json:"role"`
}

type ListEmployeesResponse struct {
	Employees  []EmployeeSummaryResponse
	Page       int
	Limit      int
	TotalItems int64
	TotalPages int
}

type CreateEmployeeRequest struct {
	EmployeeCode  *int             `json:"employee_code"`
	FirstName     string           `json:"first_name"`
	LastName      string           `json:"last_name"`
	Email         string           `json:"email"`
	PositionID    *int64           `json:"position"`
	DepartmentIDs []int64          `json:"department"`
	HireDate      *string          `json:"hire_date"`
	Salary        *decimal.Decimal `json:"salary"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeCode != nil && !ValidCode(*r.EmployeeCode) {
		errs.Add("employee_code", MsgCodeRange)
	}

	validateName(&errs, "first_name", r.FirstName)
	validateName(&errs, "last_name", r.LastName)

	if validator.IsEmpty(r.Email) {
		errs.Add("email", MsgEmailRequired)
	} else if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "Enter a valid email address.")
	}

	if r.PositionID == nil {
		errs.Add("position", MsgPositionMissing)
	}

	validateSalary(&errs, r.Salary)
	validateHireDate(&errs, r.HireDate)

	return errs.Err()
}

// UpdateEmployeeRequest is used by PUT (all fields) and PATCH (any subset).
type UpdateEmployeeRequest struct {
	EmployeeCode  *int             `json:"employee_code,omitempty"`
	FirstName     *string          `json:"first_name,omitempty"`
	LastName      *string          `json:"last_name,omitempty"`
	Email         *string          `json:"email,omitempty"`
	UserEmail     *string          `json:"user_email,omitempty"`
	PositionID    *int64           `json:"position,omitempty"`
	DepartmentIDs *[]int64         `json:"department,omitempty"`
	HireDate      *string          `json:"hire_date,omitempty"`
	Salary        *decimal.Decimal `json:"salary,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate(partial bool) error {
	var errs validator.ValidationErrors

	if !partial {
		if r.FirstName == nil {
			errs.Add("first_name", "This field is required.")
		}
		if r.LastName == nil {
			errs.Add("last_name", "This field is required.")
		}
		if r.Email == nil {
			errs.Add("email", MsgEmailRequired)
		}
		if r.PositionID == nil {
			errs.Add("position", MsgPositionMissing)
		}
		if r.Salary == nil {
			errs.Add("salary", MsgSalaryRequired)
		}
	}

	if r.EmployeeCode != nil && !ValidCode(*r.EmployeeCode) {
		errs.Add("employee_code", MsgCodeRange)
	}
	if r.FirstName != nil {
		validateName(&errs, "first_name", *r.FirstName)
	}
	if r.LastName != nil {
		validateName(&errs, "last_name", *r.LastName)
	}
	if r.Email != nil {
		if validator.IsEmpty(*r.Email) {
			errs.Add("email", MsgEmailRequired)
		} else if !validator.IsValidEmail(*r.Email) {
			errs.Add("email", "Enter a valid email address.")
		}
	}
	if r.UserEmail != nil && !validator.IsEmpty(*r.UserEmail) && !validator.IsValidEmail(*r.UserEmail) {
		errs.Add("user_email", "Enter a valid email address.")
	}
	if r.Salary != nil {
		validateSalary(&errs, r.Salary)
	}
	validateHireDate(&errs, r.HireDate)

	return errs.Err()
}

// UpdateProfileRequest is what an employee may change on their own record.
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	UserEmail *string `json:"user_email,omitempty"`
}

func (r *UpdateProfileRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.FirstName != nil {
		validateName(&errs, "first_name", *r.FirstName)
	}
	if r.LastName != nil {
		validateName(&errs, "last_name", *r.LastName)
	}
	if r.UserEmail != nil && !validator.IsValidEmail(*r.UserEmail) {
		errs.Add("user_email", "Enter a valid email address.")
	}

	return errs.Err()
}

type UploadAvatarRequest struct {
	File       io.Reader             `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`
}

func (r *UploadAvatarRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.FileHeader == nil {
		errs.Add("file", "profile picture is required")
		return errs.Err()
	}

	ext := strings.ToLower(filepath.Ext(r.FileHeader.Filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		errs.Add("file", "invalid file type: only jpg, jpeg, png allowed")
	}
	if r.FileHeader.Size > 5<<20 { // 5MB
		errs.Add("file", "profile picture size must not exceed 5MB")
	}

	return errs.Err()
}

type DashboardResponse struct {
	RedirectTo string `json:"redirect_to"`
}

func validateName(errs *validator.ValidationErrors, field, value string) {
	if validator.IsEmpty(value) {
		errs.Add(field, "This field may not be blank.")
	} else if validator.ExceedsLength(value, 100) {
		errs.Add(field, "Ensure this field has no more than 100 characters.")
	}
}

var maxSalary = decimal.New(1, 8) // numeric(10,2)

func validateSalary(errs *validator.ValidationErrors, salary *decimal.Decimal) {
	switch {
	case salary == nil:
		errs.Add("salary", MsgSalaryRequired)
	case !salary.IsPositive():
		errs.Add("salary", MsgSalaryPositive)
	case salary.GreaterThanOrEqual(maxSalary) || !salary.Equal(salary.Round(2)):
		errs.Add("salary", "Ensure there are no more than 10 digits in total and 2 decimal places.")
	}
}

func validateHireDate(errs *validator.ValidationErrors, hireDate *string) {
	if hireDate == nil || *hireDate == "" {
		return
	}
	if _, ok := validator.IsValidDate(*hireDate); !ok {
		errs.Add("hire_date", "Date has wrong format. Use YYYY-MM-DD.")
	}
}

// ParseHireDate converts an optional YYYY-MM-DD string. Call after Validate.
func ParseHireDate(hireDate *string) *time.Time {
	if hireDate == nil || *hireDate == "" {
		return nil
	}
	t, ok := validator.IsValidDate(*hireDate)
	if !ok {
		return nil
	}
	return &t
}
