package http

import (
	"net/http"

	"github.com/rakmedia/hr-backend-go/internal/domain/employee"
	"github.com/rakmedia/hr-backend-go/internal/handler/http/response"
)

type DashboardHandler interface {
	// MyDashboard tells the frontend which dashboard to open.
	MyDashboard(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	employeeService employee.EmployeeService
}

func NewDashboardHandler(employeeService employee.EmployeeService) DashboardHandler {
	return &dashboardHandlerImpl{employeeService: employeeService}
}

// MyDashboard handles GET /my-dashboard
func (h *dashboardHandlerImpl) MyDashboard(w http.ResponseWriter, r *http.Request) {
	result, err := h.employeeService.Dashboard(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
