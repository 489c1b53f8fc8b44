package position

import "strings"

// allowedTypes lists, per normalized job role, the employee types it may be
// paired with. Roles missing from the table accept any type.
var allowedTypes = map[string][]string{
	// C-suite
	"ceo": {"officer"},
	"cto": {"officer"},
	"cmo": {"officer"},
	"cfo": {"officer"},
	"coo": {"officer"},

	// Department heads
	"finance manager":  {"manager"},
	"hr manager":       {"manager"},
	"pr manager":       {"manager"},
	"creative manager": {"manager"},
	"project manager":  {"manager", "officer"},

	// Office staff
	"backend developer": {"white collar"},
	"ui/ux designer":    {"white collar"},
	"graphic designer":  {"white collar"},
	"social media":      {"white collar"},
	"photography":       {"white collar"},
	"videography":       {"white collar"},
	"montage":           {"white collar"},
	"erp system":        {"white collar"},

	// Field and support staff
	"cleaner":                {"blue collar"},
	"technician/maintenance": {"blue collar"},
	"kitchen staff":          {"blue collar"},
	"driver":                 {"blue collar"},
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// IsCompatible reports whether jobRole may be paired with employeeType.
func IsCompatible(jobRole, employeeType string) bool {
	allowed, ok := allowedTypes[normalize(jobRole)]
	if !ok {
		return true
	}
	t := normalize(employeeType)
	for _, a := range allowed {
		if a == t {
			return true
		}
	}
	return false
}

// CheckCompatible returns an *IncompatibleError when the pairing is not allowed.
func CheckCompatible(jobRole, employeeType string) error {
	if IsCompatible(jobRole, employeeType) {
		return nil
	}
	return &IncompatibleError{JobRole: jobRole, EmployeeType: employeeType}
}

// DefaultJobRoles returns the seeded job roles with their allowed types in
// display form.
func DefaultJobRoles() map[string][]string {
	return map[string][]string{
		"CEO":                    {"Officer"},
		"CTO":                    {"Officer"},
		"CMO":                    {"Officer"},
		"CFO":                    {"Officer"},
		"COO":                    {"Officer"},
		"Finance Manager":        {"Manager"},
		"HR Manager":             {"Manager"},
		"PR Manager":             {"Manager"},
		"Creative Manager":       {"Manager"},
		"Project Manager":        {"Manager", "Officer"},
		"Backend Developer":      {"White Collar"},
		"UI/UX Designer":         {"White Collar"},
		"Graphic Designer":       {"White Collar"},
		"Social Media":           {"White Collar"},
		"Photography":            {"White Collar"},
		"Videography":            {"White Collar"},
		"Montage":                {"White Collar"},
		"ERP System":             {"White Collar"},
		"Cleaner":                {"Blue Collar"},
		"Technician/Maintenance": {"Blue Collar"},
		"Kitchen Staff":          {"Blue Collar"},
		"Driver":                 {"Blue Collar"},
	}
}
