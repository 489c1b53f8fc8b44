package jobrole

import "github.com/rakmedia/hr-backend-go/internal/pkg/validator"

type JobRoleResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CompanyID int64  `json:"company_id"`
}

type CreateJobRoleRequest struct {
	Name      string `json:"name"`
	CompanyID *int64 `json:"company_id,omitempty"`
}

func (r *CreateJobRoleRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	} else if validator.ExceedsLength(r.Name, 30) {
		errs.Add("name", "name must not exceed 30 characters")
	}

	return errs.Err()
}
