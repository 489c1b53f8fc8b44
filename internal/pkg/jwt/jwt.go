package jwt

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/rakmedia/hr-backend-go/internal/domain/user"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"

	RefreshCookieName = "refresh_token"
)

type Service interface {
	GenerateAccessToken(u user.User) (token string, expiresAt int64, err error)
	GenerateRefreshToken(userID int64) (token string, expiresAt int64, err error)
	// ParseRefreshToken verifies a refresh token and returns its user id.
	ParseRefreshToken(token string) (userID int64, err error)
	JWTAuth() *jwtauth.JWTAuth
	RefreshTokenCookie(token string, expiresAt int64) *http.Cookie
	ClearRefreshTokenCookie() *http.Cookie
}

type JWTService struct {
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
	tokenAuth       *jwtauth.JWTAuth
	secureCookie    bool
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey, accessTokenExpirationTime, refreshTokenExpirationTime string, secureCookie bool) (*JWTService, error) {
	accessTTL, err := time.ParseDuration(accessTokenExpirationTime)
	if err != nil {
		return nil, fmt.Errorf("parse access token ttl: %w", err)
	}
	refreshTTL, err := time.ParseDuration(refreshTokenExpirationTime)
	if err != nil {
		return nil, fmt.Errorf("parse refresh token ttl: %w", err)
	}

	return &JWTService{
		accessTokenTTL:  accessTTL,
		refreshTokenTTL: refreshTTL,
		tokenAuth:       jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		secureCookie:    secureCookie,
	}, nil
}

func (j *JWTService) GenerateAccessToken(u user.User) (token string, expiresAt int64, err error) {
	expiresAt = time.Now().Add(j.accessTokenTTL).Unix()

	claims := map[string]interface{}{
		"user_id":      strconv.FormatInt(u.ID, 10),
		"username":     u.Username,
		"is_staff":     u.IsStaff,
		"is_superuser": u.IsSuperuser,
		"type":         TokenTypeAccess,
		"exp":          expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

func (j *JWTService) GenerateRefreshToken(userID int64) (token string, expiresAt int64, err error) {
	expiresAt = time.Now().Add(j.refreshTokenTTL).Unix()
	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id": strconv.FormatInt(userID, 10),
		"exp":     expiresAt,
		"type":    TokenTypeRefresh,
	})
	return tokenString, expiresAt, err
}

func (j *JWTService) ParseRefreshToken(tokenString string) (int64, error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return 0, err
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != TokenTypeRefresh {
		return 0, jwt.ErrInvalidJWT()
	}

	raw, ok := token.Get("user_id")
	if !ok {
		return 0, jwt.ErrInvalidJWT()
	}
	idStr, ok := raw.(string)
	if !ok {
		return 0, jwt.ErrInvalidJWT()
	}

	return strconv.ParseInt(idStr, 10, 64)
}

func (j *JWTService) RefreshTokenCookie(token string, expiresAt int64) *http.Cookie {
	return &http.Cookie{
		Name:     RefreshCookieName,
		Value:    token,
		Path:     "/api/v1/auth",
		Expires:  time.Unix(expiresAt, 0),
		HttpOnly: true,
		Secure:   j.secureCookie,
		SameSite: http.SameSiteStrictMode,
	}
}

func (j *JWTService) ClearRefreshTokenCookie() *http.Cookie {
	return &http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     "/api/v1/auth",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   j.secureCookie,
		SameSite: http.SameSiteStrictMode,
	}
}
