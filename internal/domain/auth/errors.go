package auth

import (
	"errors"
	"strconv"
)

var (
	ErrInvalidCredentials         = errors.New("invalid username or password")
	ErrAccountInactive            = errors.New("account is inactive")
	ErrInvalidToken               = errors.New("invalid or expired token")
	ErrTokenExpired               = errors.New("token has expired")
	ErrRefreshTokenRevoked        = errors.New("refresh token has been revoked")
	ErrRefreshTokenCookieNotFound = errors.New("refresh token not provided")
	ErrUnauthenticated            = errors.New("authentication credentials were not provided")
	ErrUserNotFound               = errors.New("user not found")
	ErrInvalidResetLink           = errors.New("password reset link is invalid or has expired")
)

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
