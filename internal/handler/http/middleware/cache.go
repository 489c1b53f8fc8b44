package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"time"

	"github.com/rakmedia/hr-backend-go/internal/domain/auth"
	"github.com/rakmedia/hr-backend-go/internal/handler/http/response"
	"github.com/rakmedia/hr-backend-go/internal/pkg/cache"
)

// Response cache key prefixes.
const (
	CacheEmployeeList        = "employee_list"
	CacheEmployeeDetails     = "employee_details"
	CacheEmployeeProfile     = "employee_profile"
	CacheTaskList            = "task_list"
	CacheTaskDetails         = "task_details"
	CacheDepartmentEmployees = "department_employees"
	CacheManagerTasks        = "manager_tasks"
	CacheTaskFile            = "task_file"
)

// CacheKey is <prefix>:<user id or anon>:<path and query>.
func CacheKey(r *http.Request, prefix string) string {
	return prefix + ":" + auth.CacheIdentity(r.Context()) + ":" + r.URL.RequestURI()
}

// CacheResponse serves GET responses from c, keyed per user. Only 200
// responses are stored. Cache failures fall through to next.
func CacheResponse(c cache.Cache, prefix string, ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			key := CacheKey(r, prefix)
			body, hit, err := c.Get(r.Context(), key)
			if err != nil {
				slog.WarnContext(r.Context(), "cache read failed", "key", key, "error", err)
			}
			if hit {
				w.Header().Set("X-Cache", "HIT")
				response.Raw(w, http.StatusOK, body)
				return
			}

			rec := &recorder{ResponseWriter: w, status: http.StatusOK}
			w.Header().Set("X-Cache", "MISS")
			next.ServeHTTP(rec, r)

			if rec.status != http.StatusOK {
				return
			}
			if err := c.Set(r.Context(), key, rec.body.Bytes(), ttl); err != nil {
				slog.WarnContext(r.Context(), "cache write failed", "key", key, "error", err)
			}
		})
	}
}

// recorder passes the response through while keeping a copy of the body.
type recorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
	body        bytes.Buffer
}

func (r *recorder) WriteHeader(status int) {
	if !r.wroteHeader {
		r.status = status
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *recorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}
