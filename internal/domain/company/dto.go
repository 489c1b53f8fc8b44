package company

import (
	"time"

	"github.com/rakmedia/hr-backend-go/internal/pkg/validator"
)

type CompanyResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewCompanyResponse(c Company) CompanyResponse {
	return CompanyResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

type CreateCompanyRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (r *CreateCompanyRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	} else if validator.ExceedsLength(r.Name, 100) {
		errs.Add("name", "name must not exceed 100 characters")
	}

	return errs.Err()
}

type UpdateCompanyRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (r *UpdateCompanyRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil {
		if validator.IsEmpty(*r.Name) {
			errs.Add("name", "name must not be empty")
		} else if validator.ExceedsLength(*r.Name, 100) {
			errs.Add("name", "name must not exceed 100 characters")
		}
	}

	return errs.Err()
}
