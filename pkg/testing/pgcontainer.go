package testing

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

type PGContainer struct {
	Container  testcontainers.Container
	ConnString string
}

// PGConfig describes the test database. An empty Image runs defaultPGImage.
type PGConfig struct {
	Image    string
	Database string
	Username string
	Password string
}

const defaultPGImage = "postgres:17.5"

// NewPGContainerWithCleanup starts a postgres container for t and terminates it on cleanup.
// The test is skipped when no container runtime is reachable.
func NewPGContainerWithCleanup(ctx context.Context, t *testing.T) *PGContainer {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	container, err := createPGContainer(ctx, PGConfig{
		Database: "cptool_test_db",
		Username: "cptool",
		Password: "cptool",
	})
	if err != nil {
		t.Fatalf("failed to start verdict store container: %v", err)
	}

	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container.Container); err != nil {
			t.Logf("failed to terminate verdict store container: %v", err)
		}
	})

	return container
}

func createPGContainer(ctx context.Context, cfg PGConfig) (*PGContainer, error) {
	image := cfg.Image
	if image == "" {
		image = defaultPGImage
	}
	pgContainer, err := postgres.Run(ctx,
		image,
		postgres.WithDatabase(cfg.Database),
		postgres.WithUsername(cfg.Username),
		postgres.WithPassword(cfg.Password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	return &PGContainer{
		Container:  pgContainer,
		ConnString: connStr,
	}, nil
}
