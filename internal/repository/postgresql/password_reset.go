package postgresql

import (
	"context"
	"time"

	"github.com/rakmedia/hr-backend-go/internal/domain/auth"
	"github.com/rakmedia/hr-backend-go/internal/pkg/database"
)

type passwordResetRepositoryImpl struct {
	db *database.DB
}

func NewPasswordResetRepository(db *database.DB) auth.PasswordResetRepository {
	return &passwordResetRepositoryImpl{db: db}
}

func (r *passwordResetRepositoryImpl) Create(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `
		INSERT INTO password_reset_tokens (user_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
	`, userID, hashToken(token), expiresAt.UTC())
	return err
}

// Consume marks the token used in one statement so it cannot be replayed.
func (r *passwordResetRepositoryImpl) Consume(ctx context.Context, userID int64, token string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE password_reset_tokens
		SET used_at = NOW()
		WHERE user_id = $1 AND token_hash = $2 AND used_at IS NULL AND expires_at > NOW()
	`, userID, hashToken(token))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *passwordResetRepositoryImpl) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM password_reset_tokens WHERE expires_at < $1 OR used_at IS NOT NULL`, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
