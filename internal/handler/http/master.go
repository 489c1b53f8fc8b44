package http

import (
	"net/http"

	"github.com/rakmedia/hr-backend-go/internal/domain/master/employeetype"
	"github.com/rakmedia/hr-backend-go/internal/domain/master/jobrole"
	"github.com/rakmedia/hr-backend-go/internal/domain/master/position"
	"github.com/rakmedia/hr-backend-go/internal/handler/http/response"
	"github.com/rakmedia/hr-backend-go/internal/service/master"
)

type MasterHandler interface {
	// Employee type handlers
	CreateEmployeeType(w http.ResponseWriter, r *http.Request)
	ListEmployeeTypes(w http.ResponseWriter, r *http.Request)

	// Job role handlers
	CreateJobRole(w http.ResponseWriter, r *http.Request)
	ListJobRoles(w http.ResponseWriter, r *http.Request)

	// Position handlers
	CreatePosition(w http.ResponseWriter, r *http.Request)
	ListPositions(w http.ResponseWriter, r *http.Request)
}

type masterHandlerImpl struct {
	masterService master.MasterService
}

func NewMasterHandler(masterService master.MasterService) MasterHandler {
	return &masterHandlerImpl{masterService: masterService}
}

// ==================== EMPLOYEE TYPE HANDLERS ====================

func (h *masterHandlerImpl) CreateEmployeeType(w http.ResponseWriter, r *http.Request) {
	var req employeetype.CreateEmployeeTypeRequest
	if !decodeJSON(w, r, &req, "Create employee type") {
		return
	}

	result, err := h.masterService.CreateEmployeeType(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Employee type created successfully", result)
}

func (h *masterHandlerImpl) ListEmployeeTypes(w http.ResponseWriter, r *http.Request) {
	result, err := h.masterService.ListEmployeeTypes(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ==================== JOB ROLE HANDLERS ====================

func (h *masterHandlerImpl) CreateJobRole(w http.ResponseWriter, r *http.Request) {
	var req jobrole.CreateJobRoleRequest
	if !decodeJSON(w, r, &req, "Create job role") {
		return
	}

	result, err := h.masterService.CreateJobRole(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Job role created successfully", result)
}

func (h *masterHandlerImpl) ListJobRoles(w http.ResponseWriter, r *http.Request) {
	result, err := h.masterService.ListJobRoles(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ==================== POSITION HANDLERS ====================

func (h *masterHandlerImpl) CreatePosition(w http.ResponseWriter, r *http.Request) {
	var req position.CreatePositionRequest
	if !decodeJSON(w, r, &req, "Create position") {
		return
	}

	result, err := h.masterService.CreatePosition(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Position created successfully", result)
}

func (h *masterHandlerImpl) ListPositions(w http.ResponseWriter, r *http.Request) {
	result, err := h.masterService.ListPositions(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
