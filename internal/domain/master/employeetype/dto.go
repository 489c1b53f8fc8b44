package employeetype

import "github.com/rakmedia/hr-backend-go/internal/pkg/validator"

// Seeded types. Manager and Officer grant the manager tier.
const (
	Officer     = "Officer"
	Manager     = "Manager"
	WhiteCollar = "White Collar"
	BlueCollar  = "Blue Collar"
)

func Defaults() []string {
	return []string{Officer, Manager, WhiteCollar, BlueCollar}
}

type EmployeeTypeResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type CreateEmployeeTypeRequest struct {
	Name string `json:"name"`
}

func (r *CreateEmployeeTypeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	} else if validator.ExceedsLength(r.Name, 20) {
		errs.Add("name", "name must not exceed 20 characters")
	}

	return errs.Err()
}
