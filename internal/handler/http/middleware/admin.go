package middleware

import (
	"net/http"

	"github.com/rakmedia/hr-backend-go/internal/domain/auth"
	"github.com/rakmedia/hr-backend-go/internal/domain/user"
	"github.com/rakmedia/hr-backend-go/internal/handler/http/response"
)

// AdminOnly allows staff and superusers. It runs after AuthRequired.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := auth.PrincipalFromContext(r.Context())
		if !ok {
			response.HandleError(w, auth.ErrUnauthenticated)
			return
		}

		if !p.IsStaff && !p.IsSuperuser {
			response.HandleError(w, user.ErrAdminPrivilegeRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
