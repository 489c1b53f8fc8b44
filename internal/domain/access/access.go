// Package access derives what a caller may see from the chain
// user -> employee -> position -> employee type.
package access

import (
	"context"
	"errors"
	"strings"

	"github.com/rakmedia/hr-backend-go/internal/domain/user"
)

var (
	ErrForbidden         = errors.New("you do not have permission to perform this action")
	ErrNoEmployeeProfile = errors.New("no employee profile is linked to this account")
)

// Subject is the resolved caller. EmployeeID and CompanyID are zero when the
// account has no employee profile.
type Subject struct {
	UserID       int64
	Username     string
	IsStaff      bool
	IsSuperuser  bool
	EmployeeID   int64
	CompanyID    int64
	EmployeeType string
	Tier         user.Tier
}

func (s Subject) HasEmployee() bool {
	return s.EmployeeID != 0
}

func (s Subject) IsAdmin() bool {
	return s.IsStaff || s.IsSuperuser
}

func (s Subject) IsManagerTier() bool {
	return s.Tier == user.TierManager
}

func (s Subject) Can(p user.Permission) bool {
	return user.HasPermission(s.Tier, p)
}

// Resolver loads the Subject for the principal stored in ctx.
type Resolver interface {
	Resolve(ctx context.Context) (Subject, error)
}

// Profile is the raw access chain as stored. Any nil link yields the
// employee tier.
type Profile struct {
	EmployeeID       int64
	CompanyID        int64
	EmployeeTypeName *string
}

// TierOf classifies an employee type name. Missing names fail closed.
func TierOf(employeeTypeName *string) user.Tier {
	if employeeTypeName == nil {
		return user.TierEmployee
	}
	switch strings.ToLower(strings.TrimSpace(*employeeTypeName)) {
	case "manager", "officer":
		return user.TierManager
	default:
		return user.TierEmployee
	}
}

// DerivedRole is the role string exposed on employee profiles.
func DerivedRole(employeeTypeName *string) string {
	if employeeTypeName == nil {
		return "employee"
	}
	name := strings.ToLower(strings.TrimSpace(*employeeTypeName))
	switch name {
	case "manager", "officer":
		return name
	case "white collar", "blue collar", "":
		return "employee"
	default:
		return name
	}
}

// DashboardPath is where the frontend sends a subject after login.
func DashboardPath(s Subject) string {
	if s.IsManagerTier() {
		return "/manager-dashboard/"
	}
	return "/dashboard/"
}
