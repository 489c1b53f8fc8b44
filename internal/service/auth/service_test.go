package auth

import (
	"context"
	"net/url"
	"testing"

	"github.com/rakmedia/hr-backend-go/internal/domain/auth"
	"github.com/rakmedia/hr-backend-go/internal/domain/notification"
	"github.com/rakmedia/hr-backend-go/internal/domain/user"
	"github.com/rakmedia/hr-backend-go/internal/pkg/cache"
	"github.com/rakmedia/hr-backend-go/internal/pkg/jwt"
	"github.com/rakmedia/hr-backend-go/internal/pkg/validator"
	"github.com/rakmedia/hr-backend-go/internal/service/account"
	"github.com/rakmedia/hr-backend-go/internal/service/fake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAccessExp  = "1h"
	testRefreshExp = "24h"
	testSecret     = "test-secret-key-for-jwt"
)

type authFixture struct {
	svc         auth.AuthService
	store       *fake.Store
	publisher   *fake.Publisher
	invalidator *fake.Invalidator
}

func newAuthFixture(t *testing.T) authFixture {
	t.Helper()

	jwtService, err := jwt.NewJWTService(testSecret, testAccessExp, testRefreshExp, false)
	require.NoError(t, err)

	store := fake.NewStore()
	publisher := &fake.Publisher{}
	invalidator := &fake.Invalidator{}
	accounts := account.NewProvisioner(store.Users(), store.PasswordResets(), publisher, "http://front.test")

	svc := NewAuthService(&fake.Transactor{}, store.Users(), jwtService, store.RefreshTokens(), store.PasswordResets(), accounts, invalidator)
	return authFixture{svc: svc, store: store, publisher: publisher, invalidator: invalidator}
}

func (f authFixture) createUser(t *testing.T, username, password string, active bool) user.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	u, err := f.store.Users().Create(context.Background(), user.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		Role:         user.RoleEmployee,
		IsActive:     active,
	})
	require.NoError(t, err)
	return u
}

func TestLogin(t *testing.T) {
	f := newAuthFixture(t)
	f.createUser(t, "jane.doe", "password123", true)
	f.createUser(t, "old.timer", "password123", false)

	tests := []struct {
		name    string
		req     auth.LoginRequest
		wantErr error
	}{
		{"valid credentials", auth.LoginRequest{Username: "jane.doe", Password: "password123"}, nil},
		{"wrong password", auth.LoginRequest{Username: "jane.doe", Password: "nope"}, auth.ErrInvalidCredentials},
		{"unknown user", auth.LoginRequest{Username: "ghost", Password: "password123"}, auth.ErrInvalidCredentials},
		{"inactive user", auth.LoginRequest{Username: "old.timer", Password: "password123"}, auth.ErrAccountInactive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := f.svc.Login(context.Background(), tt.req, auth.SessionTrackingRequest{UserAgent: "test"})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, resp.AccessToken)
			assert.NotEmpty(t, resp.RefreshToken)
			assert.Greater(t, resp.RefreshTokenExpiresIn, resp.AccessTokenExpiresIn)
		})
	}
}

func TestLogin_Validation(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Login(context.Background(), auth.LoginRequest{}, auth.SessionTrackingRequest{})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "username")
	assert.Contains(t, verrs.ToMap(), "password")
}

func TestRefreshAndLogout(t *testing.T) {
	f := newAuthFixture(t)
	f.createUser(t, "jane.doe", "password123", true)
	ctx := context.Background()

	tokens, err := f.svc.Login(ctx, auth.LoginRequest{Username: "jane.doe", Password: "password123"}, auth.SessionTrackingRequest{})
	require.NoError(t, err)

	refreshed, err := f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	require.NoError(t, f.svc.Logout(ctx, tokens.RefreshToken))

	_, err = f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	f := newAuthFixture(t)
	f.createUser(t, "jane.doe", "password123", true)

	tokens, err := f.svc.Login(context.Background(), auth.LoginRequest{Username: "jane.doe", Password: "password123"}, auth.SessionTrackingRequest{})
	require.NoError(t, err)

	_, err = f.svc.RefreshToken(context.Background(), auth.RefreshTokenRequest{RefreshToken: tokens.AccessToken})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestLogout_MissingToken(t *testing.T) {
	f := newAuthFixture(t)
	assert.ErrorIs(t, f.svc.Logout(context.Background(), ""), auth.ErrRefreshTokenCookieNotFound)
}

func TestForgotPassword_UnknownEmailSucceeds(t *testing.T) {
	f := newAuthFixture(t)

	err := f.svc.ForgotPassword(context.Background(), auth.ForgotPasswordRequest{Email: "nobody@example.com"})
	require.NoError(t, err)
	assert.Empty(t, f.publisher.Published())
}

func TestForgotThenResetPassword(t *testing.T) {
	f := newAuthFixture(t)
	u := f.createUser(t, "jane.doe", "password123", true)
	ctx := context.Background()

	require.NoError(t, f.svc.ForgotPassword(ctx, auth.ForgotPasswordRequest{Email: u.Email}))

	msgs := f.publisher.Published()
	require.Len(t, msgs, 1)
	assert.Equal(t, notification.JobPasswordReset, msgs[0].Type)
	payload, err := notification.DecodeLinkEmail(msgs[0].Payload)
	require.NoError(t, err)
	link, err := url.Parse(payload.ResetLink)
	require.NoError(t, err)

	req := auth.ResetPasswordRequest{
		UID:             link.Query().Get("uid"),
		Token:           link.Query().Get("token"),
		NewPassword:     "brand-new-pass",
		ConfirmPassword: "brand-new-pass",
	}
	require.NoError(t, f.svc.ResetPassword(ctx, req))
	assert.Equal(t, []string{cache.ModelUser}, f.invalidator.Cleared())

	_, err = f.svc.Login(ctx, auth.LoginRequest{Username: "jane.doe", Password: "brand-new-pass"}, auth.SessionTrackingRequest{})
	require.NoError(t, err)

	// single use
	err = f.svc.ResetPassword(ctx, req)
	assert.ErrorIs(t, err, auth.ErrInvalidResetLink)
}

func TestResetPassword_InvalidLink(t *testing.T) {
	f := newAuthFixture(t)
	u := f.createUser(t, "jane.doe", "password123", true)

	tests := []struct {
		name string
		uid  string
	}{
		{"garbage uid", "!!"},
		{"unknown user", account.EncodeUID(u.ID + 100)},
		{"no token issued", account.EncodeUID(u.ID)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.svc.ResetPassword(context.Background(), auth.ResetPasswordRequest{
				UID: tt.uid, Token: "made-up", NewPassword: "brand-new-pass", ConfirmPassword: "brand-new-pass",
			})
			assert.ErrorIs(t, err, auth.ErrInvalidResetLink)
		})
	}
}

func TestMe(t *testing.T) {
	f := newAuthFixture(t)
	u := f.createUser(t, "jane.doe", "password123", true)

	_, err := f.svc.Me(context.Background())
	assert.ErrorIs(t, err, auth.ErrUnauthenticated)

	ctx := auth.WithPrincipal(context.Background(), auth.Principal{UserID: u.ID, Username: u.Username})
	me, err := f.svc.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "jane.doe", me.Username)
	assert.Equal(t, "employee", me.Role)
	assert.Nil(t, me.EmployeeID)
}
