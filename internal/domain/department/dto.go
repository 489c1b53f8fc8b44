package department

import "github.com/rakmedia/hr-backend-go/internal/pkg/validator"

type DepartmentResponse struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	EmployeeCount int    `json:"employee_count"`
}

func NewDepartmentResponse(d Department) DepartmentResponse {
	return DepartmentResponse{ID: d.ID, Name: d.Name, EmployeeCount: d.EmployeeCount}
}

type CreateDepartmentRequest struct {
	Name string `json:"name"`
}

func (r *CreateDepartmentRequest) Validate() error {
	return validateName(r.Name)
}

type UpdateDepartmentRequest struct {
	Name string `json:"name"`
}

func (r *UpdateDepartmentRequest) Validate() error {
	return validateName(r.Name)
}

func validateName(name string) error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(name) {
		errs.Add("name", "name is required")
	} else if validator.ExceedsLength(name, 10) {
		errs.Add("name", "name must not exceed 10 characters")
	}

	return errs.Err()
}
