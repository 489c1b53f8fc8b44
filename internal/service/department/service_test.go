package department

import (
	"context"
	"testing"

	"github.com/rakmedia/hr-backend-go/internal/domain/access"
	"github.com/rakmedia/hr-backend-go/internal/domain/department"
	"github.com/rakmedia/hr-backend-go/internal/domain/user"
	"github.com/rakmedia/hr-backend-go/internal/pkg/cache"
	"github.com/rakmedia/hr-backend-go/internal/pkg/validator"
	"github.com/rakmedia/hr-backend-go/internal/service/fake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate_Access(t *testing.T) {
	tests := []struct {
		name    string
		subject access.Subject
		wantErr error
	}{
		{"manager tier", access.Subject{UserID: 1, EmployeeID: 2, CompanyID: 7, Tier: user.TierManager}, nil},
		{"employee tier", access.Subject{UserID: 1, EmployeeID: 2, CompanyID: 7, Tier: user.TierEmployee}, access.ErrForbidden},
		{"admin without employee", access.Subject{UserID: 1, IsStaff: true, Tier: user.TierEmployee}, access.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := fake.NewStore()
			inv := &fake.Invalidator{}
			svc := NewDepartmentService(store.Departments(), &fake.Resolver{Subject: tt.subject}, inv)

			got, err := svc.Create(context.Background(), department.CreateDepartmentRequest{Name: "Tech"})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, inv.Cleared())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Tech", got.Name)
			stored, err := store.Departments().GetByID(context.Background(), got.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(7), stored.CompanyID)
			assert.Equal(t, []string{cache.ModelDepartment}, inv.Cleared())
		})
	}
}

func TestCreate_Validation(t *testing.T) {
	manager := access.Subject{UserID: 1, EmployeeID: 2, CompanyID: 7, Tier: user.TierManager}
	store := fake.NewStore()
	svc := NewDepartmentService(store.Departments(), &fake.Resolver{Subject: manager}, &fake.Invalidator{})
	ctx := context.Background()

	_, err := svc.Create(ctx, department.CreateDepartmentRequest{Name: "Engineering & Ops"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "name")

	_, err = svc.Create(ctx, department.CreateDepartmentRequest{Name: "HR"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, department.CreateDepartmentRequest{Name: "HR"})
	assert.ErrorIs(t, err, department.ErrDepartmentNameExists)
}

func TestUpdateDeleteList(t *testing.T) {
	store := fake.NewStore()
	inv := &fake.Invalidator{}
	svc := NewDepartmentService(store.Departments(), &fake.Resolver{}, inv)
	ctx := context.Background()

	d, err := store.Departments().Create(ctx, department.Department{Name: "PR", CompanyID: 1})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, d.ID, department.UpdateDepartmentRequest{Name: "Public"})
	require.NoError(t, err)
	assert.Equal(t, "Public", updated.Name)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 0, list[0].EmployeeCount)

	require.NoError(t, svc.Delete(ctx, d.ID))
	_, err = svc.GetByID(ctx, d.ID)
	assert.ErrorIs(t, err, department.ErrDepartmentNotFound)
	assert.Len(t, inv.Cleared(), 2)
}
