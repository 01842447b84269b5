// Package containers starts the postgres instance that backs the token store
// tests.
package containers

import (
	"context"
	"log"
	"path/filepath"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	image      = "postgres:16.3-alpine"
	dbName     = "league_insights"
	dbUser     = "insights"
	dbPassword = "secret"
)

type DBContainer struct {
	container *postgres.PostgresContainer
}

// NewDBContainer runs schema/schema.sql against a fresh database. It must be
// called from a package directory one level below the module root.
func NewDBContainer(ctx context.Context) (*DBContainer, error) {
	container, err := postgres.Run(ctx, image,
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPassword),
		postgres.WithInitScripts(filepath.Join("..", "schema", "schema.sql")),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return nil, err
	}
	return &DBContainer{container: container}, nil
}

func (c *DBContainer) Shutdown() {
	if err := c.container.Terminate(context.Background()); err != nil {
		log.Printf("error terminating container: %v", err)
	}
}

func (c *DBContainer) ConnectionString(ctx context.Context) (string, error) {
	// the container does not serve TLS
	return c.container.ConnectionString(ctx, "sslmode=disable")
}
