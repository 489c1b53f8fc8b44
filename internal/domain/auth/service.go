package auth

import (
	"context"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest, session SessionTrackingRequest) (TokenResponse, error)
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (AccessTokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	ForgotPassword(ctx context.Context, req ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
	Me(ctx context.Context) (MeResponse, error)
}
