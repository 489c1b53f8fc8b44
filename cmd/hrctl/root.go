package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rakmedia/hr-backend-go/internal/app"
	"github.com/rakmedia/hr-backend-go/internal/config"
	"github.com/rakmedia/hr-backend-go/internal/pkg/cache"
	"github.com/rakmedia/hr-backend-go/internal/pkg/logger"
	"github.com/rakmedia/hr-backend-go/internal/seed"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "hrctl",
		Short:         "Management commands for the HR backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newMigrateCmd(),
		newPopulateCmd(),
		newProfilesCmd(),
		newAccountsCmd(),
		newSuperuserCmd(),
	)
	return root
}

// withApp loads config, connects and runs fn. For the in-process queue the
// email worker runs alongside fn and is drained before returning.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, c *app.Container, s *seed.Seeder) error) error {
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

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := app.Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.DB.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	done := make(chan error, 1)
	local := cfg.Queue.Driver == config.QueueDriverMemory
	if local {
		go func() { done <- c.Worker.Run(ctx, c.Queue) }()
	}

	err = fn(ctx, c, &seed.Seeder{
		Tx:            c.Tx,
		Users:         c.Users,
		Companies:     c.Companies,
		Departments:   c.Departments,
		Employees:     c.Employees,
		EmployeeTypes: c.EmployeeTypes,
		JobRoles:      c.JobRoles,
		Positions:     c.Positions,
		Accounts:      c.Accounts,
		Invalidator:   cache.NewInvalidator(c.Cache),
	})

	if local {
		// closing lets the worker deliver what is buffered and return
		c.Queue.Close()
		if werr := <-done; werr != nil {
			slog.Warn("email worker stopped with error", "error", werr)
		}
	}
	return err
}
