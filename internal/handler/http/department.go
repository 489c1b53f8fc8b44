package http

import (
	"net/http"

	"github.com/rakmedia/hr-backend-go/internal/domain/department"
	"github.com/rakmedia/hr-backend-go/internal/handler/http/response"
)

type DepartmentHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type departmentHandlerImpl struct {
	departmentService department.DepartmentService
}

func NewDepartmentHandler(departmentService department.DepartmentService) DepartmentHandler {
	return &departmentHandlerImpl{departmentService: departmentService}
}

func (h *departmentHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	departments, err := h.departmentService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, departments)
}

func (h *departmentHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	d, err := h.departmentService.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, d)
}

// Create is open to manager-tier employees. The service decides.
func (h *departmentHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req department.CreateDepartmentRequest
	if !decodeJSON(w, r, &req, "Create department") {
		return
	}

	d, err := h.departmentService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Department created successfully", d)
}

func (h *departmentHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req department.UpdateDepartmentRequest
	if !decodeJSON(w, r, &req, "Update department") {
		return
	}

	d, err := h.departmentService.Update(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Department updated successfully", d)
}

func (h *departmentHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.departmentService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}
	response.NoContent(w)
}
