package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/rakmedia/hr-backend-go/internal/domain/access"
	"github.com/rakmedia/hr-backend-go/internal/domain/auth"
	"github.com/rakmedia/hr-backend-go/internal/domain/employee"
	"github.com/rakmedia/hr-backend-go/internal/domain/user"
)

// ProfileSource is the part of the employee repository the resolver needs.
type ProfileSource interface {
	GetAccessProfile(ctx context.Context, userID int64) (access.Profile, error)
}

type resolver struct {
	profiles ProfileSource
}

func NewResolver(profiles ProfileSource) access.Resolver {
	return &resolver{profiles: profiles}
}

// Resolve is evaluated on every call; tiers are never cached on the token.
func (r *resolver) Resolve(ctx context.Context) (access.Subject, error) {
	p, ok := auth.PrincipalFromContext(ctx)
	if !ok || p.UserID == 0 {
		return access.Subject{}, auth.ErrUnauthenticated
	}

	subject := access.Subject{
		UserID:      p.UserID,
		Username:    p.Username,
		IsStaff:     p.IsStaff,
		IsSuperuser: p.IsSuperuser,
		Tier:        user.TierEmployee,
	}

	profile, err := r.profiles.GetAccessProfile(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return subject, nil
		}
		return access.Subject{}, fmt.Errorf("resolve access profile: %w", err)
	}

	subject.EmployeeID = profile.EmployeeID
	subject.CompanyID = profile.CompanyID
	if profile.EmployeeTypeName != nil {
		subject.EmployeeType = *profile.EmployeeTypeName
	}
	subject.Tier = access.TierOf(profile.EmployeeTypeName)
	return subject, nil
}
