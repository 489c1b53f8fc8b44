package position

import (
	"fmt"

	"github.com/rakmedia/hr-backend-go/internal/pkg/validator"
)

type PositionResponse struct {
	ID               int64  `json:"id"`
	DisplayName      string `json:"display_name"`
	JobRoleName      string `json:"job_role_name"`
	EmployeeTypeName string `json:"employee_type_name"`
}

func NewPositionResponse(p Position) PositionResponse {
	return PositionResponse{
		ID:               p.ID,
		DisplayName:      DisplayName(p.JobRoleName, p.EmployeeTypeName),
		JobRoleName:      p.JobRoleName,
		EmployeeTypeName: p.EmployeeTypeName,
	}
}

// DisplayName renders a position as "Role (Type)".
func DisplayName(jobRole, employeeType string) string {
	return fmt.Sprintf("%s (%s)", jobRole, employeeType)
}

type CreatePositionRequest struct {
	JobRoleID      int64 `json:"job_role"`
	EmployeeTypeID int64 `json:"employee_type"`
}

func (r *CreatePositionRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.JobRoleID <= 0 {
		errs.Add("job_role", "job_role is required")
	}
	if r.EmployeeTypeID <= 0 {
		errs.Add("employee_type", "employee_type is required")
	}

	return errs.Err()
}
