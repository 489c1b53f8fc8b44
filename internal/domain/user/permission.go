package user

// Tier is the authorization level derived from an employee's position type.
type Tier string

const (
	TierManager  Tier = "manager"  // manager or officer employee type
	TierEmployee Tier = "employee" // everything else, including no employee profile
)

type Permission string

const (
	// Self Management
	PermissionViewOwnProfile Permission = "profile.view_own"
	PermissionEditOwnProfile Permission = "profile.edit_own"

	// Departments
	PermissionDepartmentView   Permission = "department.view"
	PermissionDepartmentCreate Permission = "department.create"

	// Employees
	PermissionEmployeeViewPeers   Permission = "employee.view_peers"
	PermissionEmployeeViewCompany Permission = "employee.view_company"

	// Tasks
	PermissionTaskViewOwn       Permission = "task.view_own"
	PermissionTaskAssignSelf    Permission = "task.assign_self"
	PermissionTaskAssignOthers  Permission = "task.assign_others"
	PermissionTaskFileDeleteAny Permission = "task_file.delete_any"
)

// TierPermissions maps tiers to their permissions
var TierPermissions = map[Tier][]Permission{
	TierManager: {
		PermissionViewOwnProfile,
		PermissionEditOwnProfile,
		PermissionDepartmentView,
		PermissionDepartmentCreate,
		PermissionEmployeeViewPeers,
		PermissionEmployeeViewCompany,
		PermissionTaskViewOwn,
		PermissionTaskAssignSelf,
		PermissionTaskAssignOthers,
		PermissionTaskFileDeleteAny,
	},
	TierEmployee: {
		PermissionViewOwnProfile,
		PermissionEditOwnProfile,
		PermissionDepartmentView,
		PermissionTaskViewOwn,
		PermissionTaskAssignSelf,
	},
}

// HasPermission checks if a tier has a specific permission
func HasPermission(tier Tier, permission Permission) bool {
	permissions, exists := TierPermissions[tier]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
