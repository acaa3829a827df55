// Package e2eharness spins up a throwaway PostgreSQL container for
// end-to-end tests of factory.PostgresProvider, adapted from the
// teacher's internal/e2e_harness (which also drove DuckDB/S3 E2E runs;
// this system's PostgreSQL provider needs only the database tier).
package e2eharness

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Harness holds the running Postgres container for a single test.
type Harness struct {
	Container testcontainers.Container
	DSN       string
	Pool      *pgxpool.Pool
}

// StartPostgres boots a postgres:16 container, waits for it to accept
// connections, and opens a pgxpool.Pool against it.
func (h *Harness) StartPostgres(ctx context.Context) error {
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_PASSWORD": "password",
			"POSTGRES_USER":     "postgres",
			"POSTGRES_DB":       "postgres",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return err
	}
	h.Container = container

	host, err := container.Host(ctx)
	if err != nil {
		return err
	}
	mapped, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return err
	}
	h.DSN = fmt.Sprintf("postgres://postgres:password@%s:%s/postgres?sslmode=disable", host, mapped.Port())

	deadline := time.Now().Add(20 * time.Second)
	for {
		pool, err := pgxpool.New(ctx, h.DSN)
		if err == nil {
			if pingErr := pool.Ping(ctx); pingErr == nil {
				h.Pool = pool
				return nil
			}
			pool.Close()
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("postgres did not become ready: %w", err)
		}
		time.Sleep(200 * time.Millisecond)
	}
}

// Stop closes the pool and terminates the container.
func (h *Harness) Stop(ctx context.Context) error {
	if h.Pool != nil {
		h.Pool.Close()
		h.Pool = nil
	}
	if h.Container != nil {
		err := h.Container.Terminate(ctx)
		h.Container = nil
		return err
	}
	return nil
}
