package master

import (
	"context"
	"testing"

	"github.com/rakmedia/hr-backend-go/internal/domain/company"
	"github.com/rakmedia/hr-backend-go/internal/domain/master/employeetype"
	"github.com/rakmedia/hr-backend-go/internal/domain/master/jobrole"
	"github.com/rakmedia/hr-backend-go/internal/domain/master/position"
	"github.com/rakmedia/hr-backend-go/internal/pkg/cache"
	"github.com/rakmedia/hr-backend-go/internal/pkg/validator"
	"github.com/rakmedia/hr-backend-go/internal/service/fake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMasterService(t *testing.T) (MasterService, *fake.Store, *fake.Invalidator) {
	t.Helper()
	store := fake.NewStore()
	_, err := store.Companies().Create(context.Background(), company.Company{Name: "Rakmedia"})
	require.NoError(t, err)
	inv := &fake.Invalidator{}
	return NewMasterService(store.EmployeeTypes(), store.JobRoles(), store.Positions(), store.Companies(), inv), store, inv
}

func TestCreatePosition_Compatibility(t *testing.T) {
	svc, _, inv := newMasterService(t)
	ctx := context.Background()

	officer, err := svc.CreateEmployeeType(ctx, employeetype.CreateEmployeeTypeRequest{Name: "Officer"})
	require.NoError(t, err)
	blue, err := svc.CreateEmployeeType(ctx, employeetype.CreateEmployeeTypeRequest{Name: "Blue Collar"})
	require.NoError(t, err)
	ceo, err := svc.CreateJobRole(ctx, jobrole.CreateJobRoleRequest{Name: "CEO"})
	require.NoError(t, err)

	got, err := svc.CreatePosition(ctx, position.CreatePositionRequest{JobRoleID: ceo.ID, EmployeeTypeID: officer.ID})
	require.NoError(t, err)
	assert.Equal(t, "CEO (Officer)", got.DisplayName)
	assert.Equal(t, []string{cache.ModelPosition}, inv.Cleared())

	_, err = svc.CreatePosition(ctx, position.CreatePositionRequest{JobRoleID: ceo.ID, EmployeeTypeID: blue.ID})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, `Job role "CEO" is not compatible with employee type "Blue Collar"`, verrs.ToMap()["non_field_errors"])

	_, err = svc.CreatePosition(ctx, position.CreatePositionRequest{JobRoleID: ceo.ID, EmployeeTypeID: officer.ID})
	assert.ErrorIs(t, err, position.ErrPositionPairExists)
}

func TestCreatePosition_UnknownReferences(t *testing.T) {
	svc, _, _ := newMasterService(t)
	ctx := context.Background()

	_, err := svc.CreatePosition(ctx, position.CreatePositionRequest{JobRoleID: 404, EmployeeTypeID: 405})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, `Invalid pk "404" - object does not exist.`, verrs.ToMap()["job_role"])
}

func TestJobRoles_DefaultCompany(t *testing.T) {
	svc, store, _ := newMasterService(t)
	ctx := context.Background()

	role, err := svc.CreateJobRole(ctx, jobrole.CreateJobRoleRequest{Name: "Driver"})
	require.NoError(t, err)
	def, err := store.Companies().GetDefault(ctx)
	require.NoError(t, err)
	assert.Equal(t, def.ID, role.CompanyID)

	missing := int64(999)
	_, err = svc.CreateJobRole(ctx, jobrole.CreateJobRoleRequest{Name: "Cleaner", CompanyID: &missing})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "company_id")

	roles, err := svc.ListJobRoles(ctx)
	require.NoError(t, err)
	assert.Len(t, roles, 1)
}

func TestListPositions(t *testing.T) {
	svc, store, _ := newMasterService(t)
	ctx := context.Background()

	typ, err := store.EmployeeTypes().Create(ctx, "White Collar")
	require.NoError(t, err)
	role, err := store.JobRoles().Create(ctx, jobrole.JobRole{Name: "Backend Developer"})
	require.NoError(t, err)
	_, err = store.Positions().Create(ctx, role.ID, typ.ID)
	require.NoError(t, err)

	list, err := svc.ListPositions(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Backend Developer (White Collar)", list[0].DisplayName)

	types, err := svc.ListEmployeeTypes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []employeetype.EmployeeTypeResponse{{ID: typ.ID, Name: "White Collar"}}, types)
}
