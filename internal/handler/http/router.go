package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/rakmedia/hr-backend-go/internal/handler/http/middleware"
	"github.com/rakmedia/hr-backend-go/internal/pkg/cache"
	"github.com/rakmedia/hr-backend-go/internal/pkg/jwt"
)

// RouterConfig carries the non-handler dependencies of the router.
type RouterConfig struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	// UploadsDir is served under /uploads when set.
	UploadsDir string
	Cache      cache.Cache
	CacheTTL   time.Duration
}

type Handlers struct {
	Auth       AuthHandler
	Company    CompanyHandler
	Department DepartmentHandler
	Employee   EmployeeHandler
	Master     MasterHandler
	Task       TaskHandler
	Dashboard  DashboardHandler
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "X-Cache"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RealIP)

	if cfg.Logger != nil {
		r.Use(httplog.RequestLogger(cfg.Logger, &httplog.Options{
			Level:  slog.LevelInfo,
			Schema: httplog.SchemaECS,
		}))
	}

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	if cfg.UploadsDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir))))
	}

	cached := func(prefix string) func(http.Handler) http.Handler {
		if cfg.Cache == nil {
			return func(next http.Handler) http.Handler { return next }
		}
		return middleware.CacheResponse(cfg.Cache, prefix, cfg.CacheTTL)
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Stores the bearer token, if any. AuthRequired and AuthOptional
		// decide what a missing or bad token means.
		r.Use(jwtauth.Verifier(JWTService.JWTAuth()))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/token", h.Auth.Login)
			r.Post("/token/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)
			r.Post("/forgot-password", h.Auth.ForgotPassword)
			r.Post("/reset-password", h.Auth.ResetPassword)
			r.With(middleware.AuthRequired).Get("/me", h.Auth.Me)
		})

		r.Route("/departments", func(r chi.Router) {
			// Public reads
			r.Group(func(r chi.Router) {
				r.Use(middleware.AuthOptional)
				r.Get("/", h.Department.List)
				r.Get("/{id}", h.Department.Get)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.AuthRequired)
				r.Post("/", h.Department.Create)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Put("/{id}", h.Department.Update)
					r.Delete("/{id}", h.Department.Delete)
				})
			})
		})

		r.Route("/employees", func(r chi.Router) {
			// Public reads
			r.Group(func(r chi.Router) {
				r.Use(middleware.AuthOptional)
				r.With(cached(middleware.CacheEmployeeList)).Get("/", h.Employee.ListEmployees)
				r.Get("/positions", h.Master.ListPositions)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.AuthRequired)

				r.Route("/me", func(r chi.Router) {
					r.With(cached(middleware.CacheEmployeeProfile)).Get("/", h.Employee.GetProfile)
					r.Patch("/", h.Employee.UpdateProfile)
					r.Post("/avatar", h.Employee.UploadAvatar)
				})

				r.With(cached(middleware.CacheEmployeeDetails)).Get("/{id}", h.Employee.GetEmployee)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", h.Employee.CreateEmployee)
					r.Put("/{id}", h.Employee.UpdateEmployee)
					r.Patch("/{id}", h.Employee.PatchEmployee)
					r.Delete("/{id}", h.Employee.DeleteEmployee)
				})
			})
		})

		r.Route("/positions", func(r chi.Router) {
			r.With(middleware.AuthOptional).Get("/", h.Master.ListPositions)
			r.With(middleware.AuthRequired, middleware.AdminOnly).Post("/", h.Master.CreatePosition)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthRequired)

			r.Get("/my-dashboard", h.Dashboard.MyDashboard)

			r.Route("/companies", func(r chi.Router) {
				r.Get("/my", h.Company.GetMy)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/", h.Company.List)
					r.Post("/", h.Company.Create)
					r.Get("/{id}", h.Company.GetByID)
					r.Put("/{id}", h.Company.Update)
					r.Delete("/{id}", h.Company.Delete)
				})
			})

			r.With(cached(middleware.CacheDepartmentEmployees)).Get("/department-employees", h.Employee.ListDepartmentEmployees)

			r.Route("/job-roles", func(r chi.Router) {
				r.Get("/", h.Master.ListJobRoles)
				r.With(middleware.AdminOnly).Post("/", h.Master.CreateJobRole)
			})
			r.Route("/employee-types", func(r chi.Router) {
				r.Get("/", h.Master.ListEmployeeTypes)
				r.With(middleware.AdminOnly).Post("/", h.Master.CreateEmployeeType)
			})

			r.Route("/manager-tasks", func(r chi.Router) {
				r.With(cached(middleware.CacheManagerTasks)).Get("/", h.Task.ListManagerTasks)
				r.Post("/", h.Task.CreateManagerTask)
			})

			r.Route("/tasks", func(r chi.Router) {
				r.With(cached(middleware.CacheTaskList)).Get("/", h.Task.List)
				r.Post("/", h.Task.Create)

				r.Route("/{taskID}", func(r chi.Router) {
					r.With(cached(middleware.CacheTaskDetails)).Get("/", h.Task.Get)
					r.Put("/", h.Task.Update)
					r.Patch("/", h.Task.Patch)
					r.Delete("/", h.Task.Delete)

					r.With(cached(middleware.CacheTaskFile)).Get("/files", h.Task.ListFiles)
					r.Post("/upload-file", h.Task.UploadFile)
					r.Delete("/files/{fileID}", h.Task.DeleteFile)
				})
			})
		})
	})
	return r
}
