package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rakmedia/hr-backend-go/internal/domain/auth"
)

// TokenJobs removes expired refresh and password reset tokens.
type TokenJobs struct {
	refreshTokens auth.RefreshTokenRepository
	resetTokens   auth.PasswordResetRepository
	now           func() time.Time
}

func NewTokenJobs(refreshTokens auth.RefreshTokenRepository, resetTokens auth.PasswordResetRepository) *TokenJobs {
	return &TokenJobs{
		refreshTokens: refreshTokens,
		resetTokens:   resetTokens,
		now:           time.Now,
	}
}

func (j *TokenJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("purge_expired_tokens", time.Hour, j.PurgeExpired)
}

func (j *TokenJobs) PurgeExpired(ctx context.Context) error {
	now := j.now()

	refreshed, err := j.refreshTokens.DeleteExpired(ctx, now)
	if err != nil {
		return fmt.Errorf("purge refresh tokens: %w", err)
	}
	resets, err := j.resetTokens.DeleteExpired(ctx, now)
	if err != nil {
		return fmt.Errorf("purge reset tokens: %w", err)
	}

	if refreshed > 0 || resets > 0 {
		slog.Info("expired tokens purged", "refresh_tokens", refreshed, "reset_tokens", resets)
	}
	return nil
}
