//go:build integration

package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/database"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDatabaseSetup holds a migrated database for repository tests
type TestDatabaseSetup struct {
	DB        *database.DB
	container testcontainers.Container
}

// NewTestDatabase connects to TEST_DATABASE_URL when set, otherwise starts a
// pgvector container. The test is skipped when Docker is unavailable.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()
	ctx := context.Background()
	setup := &TestDatabaseSetup{}

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		req := testcontainers.ContainerRequest{
			Image:        "pgvector/pgvector:pg16",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "test",
				"POSTGRES_PASSWORD": "test",
				"POSTGRES_DB":       "attendance_test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		}

		container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: req,
			Started:          true,
		})
		if err != nil || container == nil {
			t.Skipf("Docker not available, skipping integration test: %v", err)
		}
		setup.container = container

		host, err := container.Host(ctx)
		if err != nil {
			setup.Close()
			t.Fatalf("failed to get container host: %v", err)
		}
		port, err := container.MappedPort(ctx, "5432")
		if err != nil {
			setup.Close()
			t.Fatalf("failed to get container port: %v", err)
		}
		dsn = fmt.Sprintf("postgres://test:test@%s:%s/attendance_test?sslmode=disable", host, port.Port())
	}

	db, err := database.NewPostgreSQLDB(dsn, database.PoolOptions{MaxConns: 10, MinConns: 1})
	if err != nil {
		setup.Close()
		t.Fatalf("failed to connect to test database: %v", err)
	}
	setup.DB = db

	if err := db.Migrate(ctx); err != nil {
		setup.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(setup.Close)
	return setup
}

// TruncateAllTables removes every row between tests
func (s *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	for _, table := range []string{"attendance", "employees"} {
		if _, err := s.DB.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s", table)); err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}
	return nil
}

func (s *TestDatabaseSetup) Close() {
	if s.DB != nil {
		s.DB.Close()
		s.DB = nil
	}
	if s.container != nil {
		_ = s.container.Terminate(context.Background())
		s.container = nil
	}
}
