package seed

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/rakmedia/hr-backend-go/internal/domain/employee"
	"github.com/rakmedia/hr-backend-go/internal/domain/notification"
	"github.com/rakmedia/hr-backend-go/internal/domain/user"
	"github.com/rakmedia/hr-backend-go/internal/pkg/cache"
	"github.com/rakmedia/hr-backend-go/internal/service/account"
	"github.com/rakmedia/hr-backend-go/internal/service/fake"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newSeeder(store *fake.Store, publisher *fake.Publisher) *Seeder {
	return &Seeder{
		Tx:            &fake.Transactor{},
		Users:         store.Users(),
		Companies:     store.Companies(),
		Departments:   store.Departments(),
		Employees:     store.Employees(),
		EmployeeTypes: store.EmployeeTypes(),
		JobRoles:      store.JobRoles(),
		Positions:     store.Positions(),
		Accounts:      account.NewProvisioner(store.Users(), store.PasswordResets(), publisher, "http://front.test"),
		Faker:         gofakeit.New(42),
	}
}

func TestPopulate(t *testing.T) {
	ctx := context.Background()
	store := fake.NewStore()
	publisher := &fake.Publisher{}
	s := newSeeder(store, publisher)

	res, err := s.Populate(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, CompanyName, res.Company.Name)
	assert.Equal(t, len(Departments), res.Departments)
	assert.Equal(t, 23, res.Positions)
	assert.Equal(t, 5, res.Employees)

	list, total, err := store.Employees().List(ctx, employee.Filter{})
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	for _, e := range list {
		require.NotNil(t, e.UserID)
		require.NotNil(t, e.Salary)
		assert.True(t, e.Salary.GreaterThanOrEqual(decimal.NewFromInt(minSalary)))
		assert.True(t, e.Salary.LessThanOrEqual(decimal.NewFromInt(maxSalary)))
		assert.Len(t, e.DepartmentIDs, 1)
	}
	assert.Len(t, publisher.Published(), 5)
	for _, msg := range publisher.Published() {
		assert.Equal(t, notification.JobWelcome, msg.Type)
	}

	// second run reuses the structure
	again, err := s.Populate(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, res.Company.ID, again.Company.ID)
	positions, err := store.Positions().List(ctx)
	require.NoError(t, err)
	assert.Len(t, positions, 23)
}

func TestCreateEmployeeProfiles(t *testing.T) {
	ctx := context.Background()
	store := fake.NewStore()
	fx := store.SeedFixture(t)
	store.SeedEmployee(t, fx.Company.ID, fx.StaffPosition, 1, "budi", "santoso", fx.Tech.ID)

	orphan, err := store.Users().Create(ctx, user.User{Username: "rina", Email: "rina@example.com", FirstName: "Rina", LastName: "Lestari", IsActive: true})
	require.NoError(t, err)

	s := newSeeder(store, &fake.Publisher{})
	created, skipped, err := s.CreateEmployeeProfiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, created)
	assert.Equal(t, 0, skipped)

	e, err := store.Employees().GetByUserID(ctx, orphan.ID)
	require.NoError(t, err)
	assert.Equal(t, 100+int(orphan.ID), e.EmployeeCode)
	assert.True(t, e.Salary.IsZero())
	assert.Equal(t, fx.Company.ID, e.CompanyID)

	created, _, err = s.CreateEmployeeProfiles(ctx)
	require.NoError(t, err)
	assert.Zero(t, created)
}

func TestCreateEmployeeProfiles_NoCompany(t *testing.T) {
	s := newSeeder(fake.NewStore(), &fake.Publisher{})
	_, _, err := s.CreateEmployeeProfiles(context.Background())
	assert.Error(t, err)
}

func TestGenerateUserAccounts(t *testing.T) {
	ctx := context.Background()
	store := fake.NewStore()
	fx := store.SeedFixture(t)
	store.SeedEmployee(t, fx.Company.ID, fx.StaffPosition, 1, "budi", "santoso", fx.Tech.ID)

	email := "dewi.anggraini@rakmedia.com"
	loose, err := store.Employees().Create(ctx, employee.Employee{FirstName: "Dewi", LastName: "Anggraini", Email: &email, CompanyID: fx.Company.ID, EmployeeCode: 7})
	require.NoError(t, err)
	noEmail, err := store.Employees().Create(ctx, employee.Employee{FirstName: "Budi", LastName: "Santoso", CompanyID: fx.Company.ID, EmployeeCode: 8})
	require.NoError(t, err)

	publisher := &fake.Publisher{}
	s := newSeeder(store, publisher)
	var buf bytes.Buffer
	n, err := s.GenerateUserAccounts(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, publisher.Published(), 2)
	for _, msg := range publisher.Published() {
		assert.Equal(t, notification.JobWelcome, msg.Type)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, CredentialsHeader, rows[0])
	assert.Equal(t, []string{"EMP-007", "Dewi Anggraini", "dewi.anggraini"}, rows[1][:3])
	assert.Len(t, rows[1][3], accountPasswordLength)
	assert.Equal(t, email, rows[1][4])
	assert.Equal(t, "budi.santoso.2", rows[2][2])
	assert.Equal(t, "budi.santoso.2@example.com", rows[2][4])

	u, err := store.Users().GetByUsername(ctx, "dewi.anggraini")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(rows[1][3])))

	for _, id := range []int64{loose.ID, noEmail.ID} {
		e, err := store.Employees().GetByID(ctx, id)
		require.NoError(t, err)
		assert.NotNil(t, e.UserID)
	}
}

func TestCreateSuperuser(t *testing.T) {
	ctx := context.Background()
	store := fake.NewStore()
	publisher := &fake.Publisher{}
	s := newSeeder(store, publisher)

	u, err := s.CreateSuperuser(ctx, "root", "root@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.True(t, u.IsStaff)
	assert.True(t, u.IsSuperuser)
	assert.True(t, u.IsActive)
	assert.Len(t, publisher.Published(), 1)

	_, err = s.CreateSuperuser(ctx, "ops", "", "s3cret-pass")
	require.NoError(t, err)
	assert.Len(t, publisher.Published(), 1, "no welcome email without an address")

	_, err = s.CreateSuperuser(ctx, "root", "other@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, user.ErrUsernameExists)

	_, err = s.CreateSuperuser(ctx, "", "x@example.com", "pw")
	assert.Error(t, err)
}

func TestSeeder_ClearsResponseCache(t *testing.T) {
	ctx := context.Background()
	store := fake.NewStore()
	responses := cache.NewMemoryCache(time.Minute)
	s := newSeeder(store, &fake.Publisher{})
	s.Invalidator = cache.NewInvalidator(responses)

	key := "employee_list:7:/api/v1/employees"
	require.NoError(t, responses.Set(ctx, key, []byte(`{"success":true}`), time.Minute))

	_, err := s.Populate(ctx, 3)
	require.NoError(t, err)

	_, found, err := responses.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSeeder_InvalidatesAfterEachWrite(t *testing.T) {
	ctx := context.Background()
	store := fake.NewStore()
	fx := store.SeedFixture(t)
	_, err := store.Users().Create(ctx, user.User{Username: "rina", FirstName: "Rina", LastName: "Lestari", IsActive: true})
	require.NoError(t, err)

	inv := &fake.Invalidator{}
	s := newSeeder(store, &fake.Publisher{})
	s.Invalidator = inv

	created, _, err := s.CreateEmployeeProfiles(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, created)
	assert.Equal(t, []string{cache.ModelEmployee}, inv.Cleared())

	_, err = store.Employees().Create(ctx, employee.Employee{FirstName: "Dewi", LastName: "Anggraini", CompanyID: fx.Company.ID, EmployeeCode: 9})
	require.NoError(t, err)
	var buf bytes.Buffer
	_, err = s.GenerateUserAccounts(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, cache.ModelUser, inv.Cleared()[len(inv.Cleared())-1])

	before := len(inv.Cleared())
	_, err = s.CreateSuperuser(ctx, "root", "", "s3cret-pass")
	require.NoError(t, err)
	assert.Len(t, inv.Cleared(), before+1)
}
