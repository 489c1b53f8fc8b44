package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/rakmedia/hr-backend-go/internal/domain/auth"
	"github.com/rakmedia/hr-backend-go/internal/domain/user"
	"github.com/rakmedia/hr-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewUserRepository(setup.DB)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	created, err := repo.Create(ctx, user.User{
		Username:     "ana.lima",
		Email:        "ana@example.com",
		PasswordHash: string(hash),
		IsActive:     true,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, user.RoleEmployee, created.Role)

	got, err := repo.GetByUsername(ctx, "ana.lima")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Nil(t, got.EmployeeID)

	byEmail, err := repo.GetByEmail(ctx, "ANA@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	exists, err := repo.UsernameExists(ctx, "ana.lima")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = repo.Create(ctx, user.User{Username: "ana.lima"})
	assert.ErrorIs(t, err, user.ErrUsernameExists)

	_, err = repo.GetByID(ctx, 9999)
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestUserRepository_UpdatePassword(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewUserRepository(setup.DB)
	ctx := context.Background()

	created, err := repo.Create(ctx, user.User{Username: "bo", IsActive: true})
	require.NoError(t, err)

	require.NoError(t, repo.UpdatePassword(ctx, created.ID, "new-hash"))
	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.PasswordHash)

	assert.ErrorIs(t, repo.UpdatePassword(ctx, 4242, "x"), user.ErrUserNotFound)
}

func TestPasswordResetRepository_SingleUse(t *testing.T) {
	setup := NewTestDatabase(t)
	users := postgresql.NewUserRepository(setup.DB)
	resets := postgresql.NewPasswordResetRepository(setup.DB)
	ctx := context.Background()

	u, err := users.Create(ctx, user.User{Username: "cy", IsActive: true})
	require.NoError(t, err)

	require.NoError(t, resets.Create(ctx, u.ID, "tok", time.Now().Add(time.Hour)))

	ok, err := resets.Consume(ctx, u.ID, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = resets.Consume(ctx, u.ID, "tok")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = resets.Consume(ctx, u.ID, "tok")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestJWTRepository_Revoke(t *testing.T) {
	setup := NewTestDatabase(t)
	users := postgresql.NewUserRepository(setup.DB)
	tokens := postgresql.NewJWTRepository(setup.DB)
	ctx := context.Background()

	u, err := users.Create(ctx, user.User{Username: "dee", IsActive: true})
	require.NoError(t, err)

	require.NoError(t, tokens.CreateRefreshToken(ctx, u.ID, "refresh", time.Now().Add(time.Hour).Unix(), auth.SessionTrackingRequest{
		UserAgent: "test",
		IPAddress: "127.0.0.1",
	}))

	revoked, err := tokens.IsRefreshTokenRevoked(ctx, "refresh")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, tokens.RevokeRefreshToken(ctx, "refresh"))
	revoked, err = tokens.IsRefreshTokenRevoked(ctx, "refresh")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = tokens.IsRefreshTokenRevoked(ctx, "unknown")
	require.NoError(t, err)
	assert.True(t, revoked)
}
