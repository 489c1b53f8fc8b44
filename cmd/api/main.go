package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rakmedia/hr-backend-go/internal/app"
	"github.com/rakmedia/hr-backend-go/internal/config"
	appHTTP "github.com/rakmedia/hr-backend-go/internal/handler/http"
	"github.com/rakmedia/hr-backend-go/internal/pkg/cron"
	"github.com/rakmedia/hr-backend-go/internal/pkg/logger"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, logCloser, err := logger.New(cfg.App, cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logCloser.Close()
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := app.Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer deps.Close()

	if err := deps.DB.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		Logger:         log,
		AllowedOrigins: cfg.App.CORSAllowedOrigins,
		UploadsDir:     cfg.Storage.BasePath,
		Cache:          deps.Cache,
		CacheTTL:       cfg.Cache.TTL,
	}, deps.JWT, deps.Handlers())

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	scheduler := cron.NewScheduler()
	cron.NewTokenJobs(deps.RefreshTokens, deps.PasswordResets).RegisterJobs(scheduler)

	// The worker outlives gctx so the memory queue can be drained after the
	// server stops taking requests.
	workerCtx, stopWorker := context.WithCancel(context.WithoutCancel(ctx))
	defer stopWorker()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Server started", "addr", server.Addr, "env", cfg.App.Env, "version", cfg.App.Version)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return deps.Worker.Run(workerCtx, deps.Queue)
	})
	g.Go(func() error {
		return scheduler.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := server.Shutdown(shutdownCtx)
		stopQueue(cfg.Queue.Driver, deps, stopWorker)
		return err
	})

	return g.Wait()
}

// stopQueue ends the email worker. The memory queue is closed so buffered
// jobs are sent first, bounded by shutdownTimeout. Broker backed queues keep
// undelivered jobs, so their consumers are cancelled right away.
func stopQueue(driver string, deps *app.Container, stopWorker context.CancelFunc) {
	if driver != config.QueueDriverMemory {
		stopWorker()
		return
	}
	if err := deps.Queue.Close(); err != nil {
		slog.Warn("failed to close queue", "error", err)
	}
	time.AfterFunc(shutdownTimeout, stopWorker)
}
