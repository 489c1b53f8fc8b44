package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/rakmedia/hr-backend-go/internal/domain/auth"
	"github.com/rakmedia/hr-backend-go/internal/domain/user"
	"github.com/rakmedia/hr-backend-go/internal/pkg/cache"
	"github.com/rakmedia/hr-backend-go/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJWT(t *testing.T) *jwt.JWTService {
	t.Helper()
	svc, err := jwt.NewJWTService("test-secret", "1h", "24h", false)
	require.NoError(t, err)
	return svc
}

func protected(svc *jwt.JWTService, h http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(jwtauth.Verifier(svc.JWTAuth()))
	r.Use(AuthRequired)
	r.Handle("/*", h)
	return r
}

func TestAuthRequired(t *testing.T) {
	svc := newJWT(t)
	var got auth.Principal
	h := protected(svc, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	access, _, err := svc.GenerateAccessToken(user.User{ID: 7, Username: "jane.doe", IsStaff: true})
	require.NoError(t, err)
	refresh, _, err := svc.GenerateRefreshToken(7)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"refresh token", "Bearer " + refresh, http.StatusUnauthorized},
		{"access token", "Bearer " + access, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/anything", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	assert.Equal(t, auth.Principal{UserID: 7, Username: "jane.doe", IsStaff: true}, got)
}

func TestAuthOptional(t *testing.T) {
	svc := newJWT(t)
	r := chi.NewRouter()
	r.Use(jwtauth.Verifier(svc.JWTAuth()))
	r.Use(AuthOptional)
	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(auth.CacheIdentity(r.Context())))
	})

	access, _, err := svc.GenerateAccessToken(user.User{ID: 7, Username: "jane.doe"})
	require.NoError(t, err)
	refresh, _, err := svc.GenerateRefreshToken(7)
	require.NoError(t, err)

	tests := []struct {
		name     string
		header   string
		want     int
		identity string
	}{
		{"anonymous", "", http.StatusOK, "anon"},
		{"access token", "Bearer " + access, http.StatusOK, "7"},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized, ""},
		{"refresh token", "Bearer " + refresh, http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/employees", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			require.Equal(t, tt.want, rec.Code)
			if tt.identity != "" {
				assert.Equal(t, tt.identity, rec.Body.String())
			}
		})
	}
}

func TestAdminOnly(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	tests := []struct {
		name      string
		principal *auth.Principal
		want      int
	}{
		{"missing principal", nil, http.StatusUnauthorized},
		{"plain user", &auth.Principal{UserID: 1}, http.StatusForbidden},
		{"staff", &auth.Principal{UserID: 1, IsStaff: true}, http.StatusOK},
		{"superuser", &auth.Principal{UserID: 1, IsSuperuser: true}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/employees", nil)
			if tt.principal != nil {
				req = req.WithContext(auth.WithPrincipal(req.Context(), *tt.principal))
			}
			rec := httptest.NewRecorder()
			AdminOnly(ok).ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestCacheResponse(t *testing.T) {
	c := cache.NewMemoryCache(time.Minute)
	var calls atomic.Int32
	status := http.StatusOK
	h := CacheResponse(c, CacheTaskList, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))

	do := func(userID int64, target string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		if userID != 0 {
			req = req.WithContext(auth.WithPrincipal(req.Context(), auth.Principal{UserID: userID}))
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	first := do(1, "/api/v1/tasks?page=1")
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	second := do(1, "/api/v1/tasks?page=1")
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.JSONEq(t, `{"success":true}`, second.Body.String())
	assert.EqualValues(t, 1, calls.Load())

	// Query string, user and anonymous callers each get their own entry.
	do(1, "/api/v1/tasks?page=2")
	do(2, "/api/v1/tasks?page=1")
	do(0, "/api/v1/tasks?page=1")
	assert.EqualValues(t, 4, calls.Load())

	_, hit, err := c.Get(context.Background(), "task_list:anon:/api/v1/tasks?page=1")
	require.NoError(t, err)
	assert.True(t, hit)

	require.NoError(t, c.Clear(context.Background()))
	do(1, "/api/v1/tasks?page=1")
	assert.EqualValues(t, 5, calls.Load())
}

func TestCacheResponse_SkipsNonOKAndWrites(t *testing.T) {
	c := cache.NewMemoryCache(time.Minute)
	var calls atomic.Int32
	h := CacheResponse(c, CacheTaskDetails, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Method == http.MethodGet {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/tasks/9", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	}
	for i := 0; i < 2; i++ {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPatch, "/api/v1/tasks/9", nil))
	}
	assert.EqualValues(t, 4, calls.Load())
}
