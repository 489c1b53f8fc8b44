package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rakmedia/hr-backend-go/internal/app"
	"github.com/rakmedia/hr-backend-go/internal/seed"
	"github.com/spf13/cobra"
)

const defaultCredentialsFile = "generated_employee_logins.csv"

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// withApp migrates before running fn
			return withApp(cmd, func(context.Context, *app.Container, *seed.Seeder) error {
				fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied.")
				return nil
			})
		},
	}
}

func newPopulateCmd() *cobra.Command {
	var employees int
	cmd := &cobra.Command{
		Use:   "populate-db",
		Short: "Seed the company structure and fake employees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if employees < 0 {
				return fmt.Errorf("--employees must not be negative")
			}
			return withApp(cmd, func(ctx context.Context, _ *app.Container, s *seed.Seeder) error {
				res, err := s.Populate(ctx, employees)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Populated %s: %d departments, %d positions, %d employees.\n",
					res.Company.Name, res.Departments, res.Positions, res.Employees)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&employees, "employees", 20, "number of fake employees to create")
	return cmd
}

func newProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create-employee-profiles",
		Short: "Create employee profiles for users that have none",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, _ *app.Container, s *seed.Seeder) error {
				created, skipped, err := s.CreateEmployeeProfiles(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created %d employee profiles. Skipped %d users.\n", created, skipped)
				return nil
			})
		},
	}
}

func newAccountsCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "generate-user-accounts",
		Short: "Create logins for employees without one and write them to CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, _ *app.Container, s *seed.Seeder) error {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create %s: %w", out, err)
				}
				defer f.Close()

				n, err := s.GenerateUserAccounts(ctx, f)
				if err != nil {
					return err
				}
				if n == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "All employees already have linked user accounts.")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created %d accounts. Credentials saved to %s\n", n, out)
				return f.Sync()
			})
		},
	}
	cmd.Flags().StringVar(&out, "out", defaultCredentialsFile, "credentials CSV path")
	return cmd
}

func newSuperuserCmd() *cobra.Command {
	var username, email, password string
	cmd := &cobra.Command{
		Use:   "create-superuser",
		Short: "Create a staff superuser account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, _ *app.Container, s *seed.Seeder) error {
				u, err := s.CreateSuperuser(ctx, username, email, password)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Superuser %s created (id %d).\n", u.Username, u.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "login name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
