package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rakmedia/hr-backend-go/internal/domain/auth"
	"github.com/rakmedia/hr-backend-go/internal/domain/notification"
	"github.com/rakmedia/hr-backend-go/internal/domain/user"
	"github.com/rakmedia/hr-backend-go/internal/pkg/cache"
	"github.com/rakmedia/hr-backend-go/internal/pkg/database"
	"github.com/rakmedia/hr-backend-go/internal/pkg/jwt"
	"github.com/rakmedia/hr-backend-go/internal/service/account"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	tx database.Transactor
	user.UserRepository
	jwt.Service
	refreshTokens  auth.RefreshTokenRepository
	passwordResets auth.PasswordResetRepository
	accounts       *account.Provisioner
	invalidator    cache.Invalidator
}

func NewAuthService(
	tx database.Transactor,
	userRepository user.UserRepository,
	jwtService jwt.Service,
	refreshTokens auth.RefreshTokenRepository,
	passwordResets auth.PasswordResetRepository,
	accounts *account.Provisioner,
	invalidator cache.Invalidator,
) auth.AuthService {
	return &AuthServiceImpl{
		tx:             tx,
		UserRepository: userRepository,
		Service:        jwtService,
		refreshTokens:  refreshTokens,
		passwordResets: passwordResets,
		accounts:       accounts,
		invalidator:    invalidator,
	}
}

func (a *AuthServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, loginReq auth.LoginRequest, sessionTrackReq auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	if err := loginReq.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	userData, err := a.UserRepository.GetByUsername(ctx, loginReq.Username)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by username: %w", err)
	}

	if !userData.HasUsablePassword() {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(userData.PasswordHash), []byte(loginReq.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if !userData.IsActive {
		return auth.TokenResponse{}, auth.ErrAccountInactive
	}

	var tokenResponse auth.TokenResponse
	tokenResponse.AccessToken, tokenResponse.AccessTokenExpiresIn, err = a.Service.GenerateAccessToken(userData)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn, err = a.Service.GenerateRefreshToken(userData.ID)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create refresh token: %w", err)
	}

	if err := a.refreshTokens.CreateRefreshToken(ctx, userData.ID, tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn, sessionTrackReq); err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to save refresh token to database: %w", err)
	}

	slog.InfoContext(ctx, "user logged in", "user_id", userData.ID)
	return tokenResponse, nil
}

// RefreshToken implements auth.AuthService.
func (a *AuthServiceImpl) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.AccessTokenResponse{}, err
	}

	userID, err := a.Service.ParseRefreshToken(req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	revoked, err := a.refreshTokens.IsRefreshTokenRevoked(ctx, req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to check refresh token: %w", err)
	}
	if revoked {
		return auth.AccessTokenResponse{}, auth.ErrRefreshTokenRevoked
	}

	userData, err := a.UserRepository.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.AccessTokenResponse{}, auth.ErrInvalidToken
		}
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	if !userData.IsActive {
		return auth.AccessTokenResponse{}, auth.ErrAccountInactive
	}

	var resp auth.AccessTokenResponse
	resp.AccessToken, resp.AccessTokenExpiresIn, err = a.Service.GenerateAccessToken(userData)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	return resp, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return auth.ErrRefreshTokenCookieNotFound
	}
	if err := a.refreshTokens.RevokeRefreshToken(ctx, refreshToken); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// ForgotPassword implements auth.AuthService. Unknown addresses succeed
// silently so the endpoint cannot be used to discover accounts.
func (a *AuthServiceImpl) ForgotPassword(ctx context.Context, req auth.ForgotPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	userData, err := a.UserRepository.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get user by email: %w", err)
	}
	if !userData.IsActive {
		return nil
	}

	payload, err := a.accounts.IssueResetLink(ctx, userData)
	if err != nil {
		return err
	}
	a.accounts.Enqueue(ctx, notification.JobPasswordReset, payload)
	return nil
}

// ResetPassword implements auth.AuthService.
func (a *AuthServiceImpl) ResetPassword(ctx context.Context, req auth.ResetPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	userID, err := account.DecodeUID(req.UID)
	if err != nil {
		return auth.ErrInvalidResetLink
	}

	hash, err := a.hashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = a.tx.WithinTx(ctx, func(txCtx context.Context) error {
		ok, err := a.passwordResets.Consume(txCtx, userID, req.Token)
		if err != nil {
			return fmt.Errorf("failed to consume reset token: %w", err)
		}
		if !ok {
			return auth.ErrInvalidResetLink
		}

		if err := a.UserRepository.UpdatePassword(txCtx, userID, hash); err != nil {
			if errors.Is(err, user.ErrUserNotFound) {
				return auth.ErrInvalidResetLink
			}
			return fmt.Errorf("failed to update password: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	a.invalidator.Invalidate(ctx, cache.ModelUser)
	slog.InfoContext(ctx, "password reset", "user_id", userID)
	return nil
}

// Me implements auth.AuthService.
func (a *AuthServiceImpl) Me(ctx context.Context) (auth.MeResponse, error) {
	principal, ok := auth.PrincipalFromContext(ctx)
	if !ok {
		return auth.MeResponse{}, auth.ErrUnauthenticated
	}

	userData, err := a.UserRepository.GetByID(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.MeResponse{}, auth.ErrUnauthenticated
		}
		return auth.MeResponse{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return auth.MeResponse{
		ID:         userData.ID,
		Username:   userData.Username,
		Email:      userData.Email,
		FirstName:  userData.FirstName,
		LastName:   userData.LastName,
		Role:       string(userData.Role),
		IsStaff:    userData.IsStaff,
		EmployeeID: userData.EmployeeID,
	}, nil
}
