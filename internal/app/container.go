// Package app assembles the repositories, infrastructure and services shared
// by the API server and the hrctl commands.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rakmedia/hr-backend-go/internal/config"
	"github.com/rakmedia/hr-backend-go/internal/domain/auth"
	"github.com/rakmedia/hr-backend-go/internal/domain/company"
	"github.com/rakmedia/hr-backend-go/internal/domain/department"
	"github.com/rakmedia/hr-backend-go/internal/domain/employee"
	"github.com/rakmedia/hr-backend-go/internal/domain/master/employeetype"
	"github.com/rakmedia/hr-backend-go/internal/domain/master/jobrole"
	"github.com/rakmedia/hr-backend-go/internal/domain/master/position"
	"github.com/rakmedia/hr-backend-go/internal/domain/task"
	"github.com/rakmedia/hr-backend-go/internal/domain/user"
	appHTTP "github.com/rakmedia/hr-backend-go/internal/handler/http"
	"github.com/rakmedia/hr-backend-go/internal/pkg/cache"
	"github.com/rakmedia/hr-backend-go/internal/pkg/database"
	"github.com/rakmedia/hr-backend-go/internal/pkg/email"
	"github.com/rakmedia/hr-backend-go/internal/pkg/jwt"
	"github.com/rakmedia/hr-backend-go/internal/pkg/queue"
	"github.com/rakmedia/hr-backend-go/internal/pkg/storage"
	"github.com/rakmedia/hr-backend-go/internal/repository/postgresql"
	serviceAccess "github.com/rakmedia/hr-backend-go/internal/service/access"
	"github.com/rakmedia/hr-backend-go/internal/service/account"
	serviceAuth "github.com/rakmedia/hr-backend-go/internal/service/auth"
	serviceCompany "github.com/rakmedia/hr-backend-go/internal/service/company"
	serviceDepartment "github.com/rakmedia/hr-backend-go/internal/service/department"
	serviceEmployee "github.com/rakmedia/hr-backend-go/internal/service/employee"
	"github.com/rakmedia/hr-backend-go/internal/service/file"
	"github.com/rakmedia/hr-backend-go/internal/service/master"
	"github.com/rakmedia/hr-backend-go/internal/service/notification"
	serviceTask "github.com/rakmedia/hr-backend-go/internal/service/task"
)

type Container struct {
	DB    *database.DB
	Tx    database.Transactor
	Cache cache.Cache
	Queue queue.Queue
	JWT   *jwt.JWTService

	Users          user.UserRepository
	Companies      company.CompanyRepository
	Departments    department.DepartmentRepository
	Employees      employee.EmployeeRepository
	EmployeeTypes  employeetype.EmployeeTypeRepository
	JobRoles       jobrole.JobRoleRepository
	Positions      position.PositionRepository
	RefreshTokens  auth.RefreshTokenRepository
	PasswordResets auth.PasswordResetRepository

	Accounts *account.Provisioner
	Worker   *notification.Worker

	AuthService       auth.AuthService
	CompanyService    company.CompanyService
	DepartmentService department.DepartmentService
	EmployeeService   employee.EmployeeService
	MasterService     master.MasterService
	TaskService       task.TaskService

	closers []func() error
}

// Build connects to PostgreSQL and the configured cache and queue, then
// wires every service. Close releases whatever was opened.
func Build(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{}

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	c.DB = db
	c.closers = append(c.closers, func() error { db.Close(); return nil })

	c.Cache, err = newCache(ctx, cfg.Cache)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.closers = append(c.closers, c.Cache.Close)

	c.Queue, err = newQueue(cfg.Queue)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.closers = append(c.closers, c.Queue.Close)

	c.JWT, err = jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration, cfg.App.Env != "development")
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("init jwt: %w", err)
	}

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}

	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("init email: %w", err)
	}

	c.Tx = postgresql.NewTransactor(db)
	c.Users = postgresql.NewUserRepository(db)
	c.Companies = postgresql.NewCompanyRepository(db)
	c.Departments = postgresql.NewDepartmentRepository(db)
	c.Employees = postgresql.NewEmployeeRepository(db)
	c.EmployeeTypes = postgresql.NewEmployeeTypeRepository(db)
	c.JobRoles = postgresql.NewJobRoleRepository(db)
	c.Positions = postgresql.NewPositionRepository(db)
	c.RefreshTokens = postgresql.NewJWTRepository(db)
	c.PasswordResets = postgresql.NewPasswordResetRepository(db)
	taskRepo := postgresql.NewTaskRepository(db)
	taskFileRepo := postgresql.NewTaskFileRepository(db)

	invalidator := cache.NewInvalidator(c.Cache)
	resolver := serviceAccess.NewResolver(c.Employees)
	fileService := file.NewFileService(fileStorage)

	c.Accounts = account.NewProvisioner(c.Users, c.PasswordResets, c.Queue, cfg.App.FrontendURL)
	c.Worker = notification.NewWorker(emailService)

	c.AuthService = serviceAuth.NewAuthService(c.Tx, c.Users, c.JWT, c.RefreshTokens, c.PasswordResets, c.Accounts, invalidator)
	c.CompanyService = serviceCompany.NewCompanyService(c.Companies, resolver, invalidator)
	c.DepartmentService = serviceDepartment.NewDepartmentService(c.Departments, resolver, invalidator)
	c.EmployeeService = serviceEmployee.NewEmployeeService(c.Tx, c.Employees, c.Users, c.Companies, c.Departments, c.Positions, c.Accounts, resolver, fileService, invalidator)
	c.MasterService = master.NewMasterService(c.EmployeeTypes, c.JobRoles, c.Positions, c.Companies, invalidator)
	c.TaskService = serviceTask.NewTaskService(taskRepo, taskFileRepo, c.Employees, resolver, fileService, invalidator)

	return c, nil
}

// Handlers builds the HTTP handler set over the container's services.
func (c *Container) Handlers() appHTTP.Handlers {
	return appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(c.JWT, c.AuthService),
		Company:    appHTTP.NewCompanyHandler(c.CompanyService),
		Department: appHTTP.NewDepartmentHandler(c.DepartmentService),
		Employee:   appHTTP.NewEmployeeHandler(c.EmployeeService),
		Master:     appHTTP.NewMasterHandler(c.MasterService),
		Task:       appHTTP.NewTaskHandler(c.TaskService),
		Dashboard:  appHTTP.NewDashboardHandler(c.EmployeeService),
	}
}

// Close releases resources in reverse order of acquisition.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			slog.Warn("close failed", "error", err)
		}
	}
	c.closers = nil
}

func newCache(ctx context.Context, cfg config.CacheConfig) (cache.Cache, error) {
	switch cfg.Driver {
	case config.CacheDriverRedis:
		rc, err := cache.NewRedisCache(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.Namespace)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		slog.Info("Response cache ready", "driver", cfg.Driver, "addr", cfg.RedisAddr)
		return rc, nil
	case config.CacheDriverMemory:
		slog.Info("Response cache ready", "driver", cfg.Driver)
		return cache.NewMemoryCache(cfg.TTL), nil
	}
	return nil, fmt.Errorf("unsupported cache driver %q", cfg.Driver)
}

func newQueue(cfg config.QueueConfig) (queue.Queue, error) {
	var (
		q   queue.Queue
		err error
	)
	switch cfg.Driver {
	case config.QueueDriverRabbitMQ:
		q, err = queue.NewRabbitMQ(cfg.AMQPURL, cfg.Name)
	case config.QueueDriverKafka:
		q, err = queue.NewKafka(cfg.KafkaBrokers, cfg.Name, cfg.KafkaGroupID)
	case config.QueueDriverMemory:
		q = queue.NewMemoryQueue(100, cfg.Workers)
	default:
		err = errors.New("unsupported queue driver " + cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s queue: %w", cfg.Driver, err)
	}
	slog.Info("Job queue ready", "driver", cfg.Driver, "name", cfg.Name)
	return q, nil
}
