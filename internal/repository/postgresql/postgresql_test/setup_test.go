package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/rakmedia/hr-backend-go/internal/pkg/database"
)

// TestDatabaseSetup holds a migrated test database.
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and applies migrations. The
// test is skipped when the variable is unset.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		t.Fatalf("failed to migrate test database: %v", err)
	}

	setup := &TestDatabaseSetup{DB: db}
	if err := setup.TruncateAllTables(ctx); err != nil {
		db.Close()
		t.Fatalf("%v", err)
	}
	t.Cleanup(setup.Close)
	return setup
}

var tables = []string{
	"task_files",
	"tasks",
	"employee_departments",
	"employees",
	"employee_positions",
	"job_roles",
	"employee_types",
	"departments",
	"password_reset_tokens",
	"refresh_tokens",
	"users",
	"companies",
}

// TruncateAllTables empties every table and resets identities
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	_, err := t.DB.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", strings.Join(tables, ", ")))
	if err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}
	return nil
}

func (t *TestDatabaseSetup) Close() {
	t.DB.Close()
}
