package auth

import (
	"context"
	"time"
)

type RefreshTokenRepository interface {
	CreateRefreshToken(ctx context.Context, userID int64, token string, expiresAt int64, sessionReq SessionTrackingRequest) error
	IsRefreshTokenRevoked(ctx context.Context, token string) (bool, error)
	RevokeRefreshToken(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// PasswordResetRepository stores single-use password reset tokens as hashes.
type PasswordResetRepository interface {
	Create(ctx context.Context, userID int64, token string, expiresAt time.Time) error
	// Consume marks a valid token as used and reports whether it was valid.
	Consume(ctx context.Context, userID int64, token string) (bool, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
