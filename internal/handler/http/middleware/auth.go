package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/jwtauth/v5"
	"github.com/rakmedia/hr-backend-go/internal/domain/auth"
	"github.com/rakmedia/hr-backend-go/internal/handler/http/response"
	"github.com/rakmedia/hr-backend-go/internal/pkg/jwt"
)

// AuthRequired rejects requests without a valid access token and stores the
// caller as an auth.Principal. It runs after jwtauth.Verifier.
func AuthRequired(next http.Handler) http.Handler {
	hfn := func(w http.ResponseWriter, r *http.Request) {
		ctx, err := authenticate(r.Context())
		if err != nil {
			writeAuthError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	}
	return http.HandlerFunc(hfn)
}

// AuthOptional lets requests without a token through anonymously. A token
// that is sent must still be a valid access token.
func AuthOptional(next http.Handler) http.Handler {
	hfn := func(w http.ResponseWriter, r *http.Request) {
		ctx, err := authenticate(r.Context())
		if errors.Is(err, auth.ErrUnauthenticated) {
			next.ServeHTTP(w, r)
			return
		}
		if err != nil {
			writeAuthError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	}
	return http.HandlerFunc(hfn)
}

// authenticate turns the verified token in ctx into a principal. It returns
// auth.ErrUnauthenticated when no token was sent.
func authenticate(ctx context.Context) (context.Context, error) {
	token, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		if errors.Is(err, jwtauth.ErrNoTokenFound) {
			return ctx, auth.ErrUnauthenticated
		}
		return ctx, err
	}
	if token == nil {
		return ctx, auth.ErrUnauthenticated
	}

	tokenType, ok := claims["type"].(string)
	if !ok || tokenType != jwt.TokenTypeAccess {
		return ctx, auth.ErrInvalidToken
	}

	rawID, _ := claims["user_id"].(string)
	userID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || userID <= 0 {
		return ctx, auth.ErrInvalidToken
	}

	username, _ := claims["username"].(string)
	isStaff, _ := claims["is_staff"].(bool)
	isSuperuser, _ := claims["is_superuser"].(bool)

	return auth.WithPrincipal(ctx, auth.Principal{
		UserID:      userID,
		Username:    username,
		IsStaff:     isStaff,
		IsSuperuser: isSuperuser,
	}), nil
}

func writeAuthError(w http.ResponseWriter, err error) {
	if errors.Is(err, auth.ErrUnauthenticated) || errors.Is(err, auth.ErrInvalidToken) {
		response.HandleError(w, err)
		return
	}
	// verifier errors such as an expired or malformed token
	response.Unauthorized(w, err.Error())
}
