package employee

import (
	"context"
)

type EmployeeService interface {
	List(ctx context.Context, filter Filter) (ListEmployeesResponse, error)
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeDetailResponse, error)
	Get(ctx context.Context, id int64) (EmployeeDetailResponse, error)
	Update(ctx context.Context, id int64, req UpdateEmployeeRequest, partial bool) (EmployeeDetailResponse, error)
	Delete(ctx context.Context, id int64) error

	GetProfile(ctx context.Context) (EmployeeDetailResponse, error)
	UpdateProfile(ctx context.Context, req UpdateProfileRequest) (EmployeeDetailResponse, error)
	UploadAvatar(ctx context.Context, req UploadAvatarRequest) (EmployeeDetailResponse, error)

	ListDepartmentPeers(ctx context.Context, filter Filter) ([]EmployeeDetailResponse, error)
	Dashboard(ctx context.Context) (DashboardResponse, error)
}
