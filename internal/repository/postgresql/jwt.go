package postgresql

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rakmedia/hr-backend-go/internal/domain/auth"
	"github.com/rakmedia/hr-backend-go/internal/pkg/database"
)

type jwtRepositoryImpl struct {
	db *database.DB
}

// NewJWTRepository creates a refresh token store.
func NewJWTRepository(db *database.DB) auth.RefreshTokenRepository {
	return &jwtRepositoryImpl{db: db}
}

// hashToken hashes the input string using SHA256 and encodes the result in base64.
func hashToken(input string) string {
	hash := sha256.Sum256([]byte(input))
	return base64.StdEncoding.EncodeToString(hash[:])
}

func (j *jwtRepositoryImpl) CreateRefreshToken(ctx context.Context, userID int64, token string, expiresAt int64, sessionReq auth.SessionTrackingRequest) error {
	q := GetQuerier(ctx, j.db)
	query := `
		INSERT INTO refresh_tokens (user_id, token_hash, expires_at, user_agent, ip_address)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := q.Exec(ctx, query, userID, hashToken(token), time.Unix(expiresAt, 0).UTC(), sessionReq.UserAgent, sessionReq.IPAddress)
	return err
}

// IsRefreshTokenRevoked treats unknown and expired tokens as revoked.
func (j *jwtRepositoryImpl) IsRefreshTokenRevoked(ctx context.Context, token string) (bool, error) {
	q := GetQuerier(ctx, j.db)

	query := `
		SELECT revoked_at, expires_at
		FROM refresh_tokens
		WHERE token_hash = $1
		ORDER BY expires_at DESC
		LIMIT 1
	`

	var revokedAt *time.Time
	var expiresAt time.Time

	err := q.QueryRow(ctx, query, hashToken(token)).Scan(&revokedAt, &expiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return true, nil
	}
	if err != nil {
		return false, err
	}

	return revokedAt != nil || !expiresAt.After(time.Now()), nil
}

func (j *jwtRepositoryImpl) RevokeRefreshToken(ctx context.Context, token string) error {
	q := GetQuerier(ctx, j.db)

	query := `
		UPDATE refresh_tokens
		SET revoked_at = NOW()
		WHERE token_hash = $1 AND revoked_at IS NULL
	`
	_, err := q.Exec(ctx, query, hashToken(token))
	return err
}

func (j *jwtRepositoryImpl) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	q := GetQuerier(ctx, j.db)

	tag, err := q.Exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at < $1`, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
