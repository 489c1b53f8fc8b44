package access

import (
	"testing"

	"github.com/rakmedia/hr-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestTierOf(t *testing.T) {
	tests := []struct {
		name     string
		typeName *string
		want     user.Tier
	}{
		{"manager", strPtr("Manager"), user.TierManager},
		{"officer lower", strPtr("officer"), user.TierManager},
		{"officer padded", strPtr("  OFFICER "), user.TierManager},
		{"white collar", strPtr("White Collar"), user.TierEmployee},
		{"blue collar", strPtr("Blue Collar"), user.TierEmployee},
		{"missing type fails closed", nil, user.TierEmployee},
		{"empty type fails closed", strPtr(""), user.TierEmployee},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TierOf(tt.typeName))
		})
	}
}

func TestDerivedRole(t *testing.T) {
	assert.Equal(t, "manager", DerivedRole(strPtr("Manager")))
	assert.Equal(t, "officer", DerivedRole(strPtr("Officer")))
	assert.Equal(t, "employee", DerivedRole(strPtr("White Collar")))
	assert.Equal(t, "employee", DerivedRole(strPtr("blue collar")))
	assert.Equal(t, "contractor", DerivedRole(strPtr("Contractor")))
	assert.Equal(t, "employee", DerivedRole(nil))
}

func TestDashboardPath(t *testing.T) {
	assert.Equal(t, "/manager-dashboard/", DashboardPath(Subject{Tier: user.TierManager}))
	assert.Equal(t, "/dashboard/", DashboardPath(Subject{Tier: user.TierEmployee}))
	assert.Equal(t, "/dashboard/", DashboardPath(Subject{}))
}

func TestSubject(t *testing.T) {
	s := Subject{UserID: 1, IsStaff: true}
	assert.True(t, s.IsAdmin())
	assert.False(t, s.HasEmployee())
	assert.False(t, s.IsManagerTier())
	assert.False(t, s.Can(user.PermissionDepartmentCreate))

	s = Subject{UserID: 2, EmployeeID: 5, Tier: user.TierManager}
	assert.True(t, s.HasEmployee())
	assert.True(t, s.Can(user.PermissionDepartmentCreate))
}
