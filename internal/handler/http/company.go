package http

import (
	"log/slog"
	"net/http"

	"github.com/rakmedia/hr-backend-go/internal/domain/company"
	"github.com/rakmedia/hr-backend-go/internal/handler/http/response"
)

type CompanyHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	GetMy(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type CompanyHandlerImpl struct {
	companyService company.CompanyService
}

// Create implements CompanyHandler.
func (c *CompanyHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req company.CreateCompanyRequest
	if !decodeJSON(w, r, &req, "Create company") {
		return
	}

	created, err := c.companyService.Create(r.Context(), req)
	if err != nil {
		slog.Error("Failed to create company", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Company created successfully", created)
}

// Delete implements CompanyHandler.
func (c *CompanyHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := c.companyService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}
	response.NoContent(w)
}

// GetMy implements CompanyHandler.
func (c *CompanyHandlerImpl) GetMy(w http.ResponseWriter, r *http.Request) {
	resp, err := c.companyService.GetMy(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

// GetByID implements CompanyHandler.
func (c *CompanyHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	resp, err := c.companyService.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

// List implements CompanyHandler.
func (c *CompanyHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	companies, err := c.companyService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, companies)
}

// Update implements CompanyHandler.
func (c *CompanyHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var updateReq company.UpdateCompanyRequest
	if !decodeJSON(w, r, &updateReq, "Update company") {
		return
	}

	updated, err := c.companyService.Update(r.Context(), id, updateReq)
	if err != nil {
		slog.Error("Company update service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Company updated successfully", updated)
}

func NewCompanyHandler(companyService company.CompanyService) CompanyHandler {
	return &CompanyHandlerImpl{
		companyService: companyService,
	}
}
