package http

import (
	"log/slog"
	"net/http"

	"github.com/rakmedia/hr-backend-go/internal/domain/employee"
	"github.com/rakmedia/hr-backend-go/internal/handler/http/response"
)

type EmployeeHandler interface {
	ListEmployees(w http.ResponseWriter, r *http.Request)
	CreateEmployee(w http.ResponseWriter, r *http.Request)
	GetEmployee(w http.ResponseWriter, r *http.Request)
	UpdateEmployee(w http.ResponseWriter, r *http.Request)
	PatchEmployee(w http.ResponseWriter, r *http.Request)
	DeleteEmployee(w http.ResponseWriter, r *http.Request)

	GetProfile(w http.ResponseWriter, r *http.Request)
	UpdateProfile(w http.ResponseWriter, r *http.Request)
	UploadAvatar(w http.ResponseWriter, r *http.Request)

	ListDepartmentEmployees(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct {
	employeeService employee.EmployeeService
}

func NewEmployeeHandler(employeeService employee.EmployeeService) EmployeeHandler {
	return &employeeHandlerImpl{
		employeeService: employeeService,
	}
}

// ListEmployees implements EmployeeHandler
func (h *employeeHandlerImpl) ListEmployees(w http.ResponseWriter, r *http.Request) {
	filter := employee.ParseFilter(r.URL.Query(), true)

	result, err := h.employeeService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Employees, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalItems,
		TotalPages: result.TotalPages,
	})
}

// CreateEmployee implements EmployeeHandler
func (h *employeeHandlerImpl) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req employee.CreateEmployeeRequest
	if !decodeJSON(w, r, &req, "Create employee") {
		return
	}

	result, err := h.employeeService.Create(r.Context(), req)
	if err != nil {
		slog.Error("Create employee service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Employee created successfully", result)
}

// GetEmployee implements EmployeeHandler
func (h *employeeHandlerImpl) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.employeeService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdateEmployee implements EmployeeHandler. PUT requires every field.
func (h *employeeHandlerImpl) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

// PatchEmployee implements EmployeeHandler
func (h *employeeHandlerImpl) PatchEmployee(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

func (h *employeeHandlerImpl) update(w http.ResponseWriter, r *http.Request, partial bool) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req employee.UpdateEmployeeRequest
	if !decodeJSON(w, r, &req, "Update employee") {
		return
	}

	result, err := h.employeeService.Update(r.Context(), id, req, partial)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee updated successfully", result)
}

// DeleteEmployee implements EmployeeHandler
func (h *employeeHandlerImpl) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.employeeService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.NoContent(w)
}

// GetProfile implements EmployeeHandler
func (h *employeeHandlerImpl) GetProfile(w http.ResponseWriter, r *http.Request) {
	result, err := h.employeeService.GetProfile(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdateProfile implements EmployeeHandler
func (h *employeeHandlerImpl) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req employee.UpdateProfileRequest
	if !decodeJSON(w, r, &req, "Update profile") {
		return
	}

	result, err := h.employeeService.UpdateProfile(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Profile updated successfully", result)
}

// UploadAvatar implements EmployeeHandler
func (h *employeeHandlerImpl) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	// Parse multipart form (max 5MB in memory)
	if err := r.ParseMultipartForm(5 << 20); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	var req employee.UploadAvatarRequest
	file, fileHeader, err := r.FormFile("file")
	switch {
	case err == nil:
		defer file.Close()
		req.File = file
		req.FileHeader = fileHeader
	case err != http.ErrMissingFile:
		slog.Error("Failed to get file from form", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}

	result, err := h.employeeService.UploadAvatar(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Avatar uploaded successfully", result)
}

// ListDepartmentEmployees implements EmployeeHandler
func (h *employeeHandlerImpl) ListDepartmentEmployees(w http.ResponseWriter, r *http.Request) {
	filter := employee.ParseFilter(r.URL.Query(), false)

	result, err := h.employeeService.ListDepartmentPeers(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
