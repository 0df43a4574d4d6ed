//go:build integration_pg
// +build integration_pg

package pg

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startPostgres(t *testing.T) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	t.Cleanup(cancel)

	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "postgres",
				"POSTGRES_DB":       "members",
			},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("5432/tcp"),
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			).WithDeadline(2 * time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err, "start postgres")
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)
	return fmt.Sprintf("postgres://postgres:postgres@%s:%s/members?sslmode=disable", host, port.Port())
}

func TestOpen_SessionSettings_Integration(t *testing.T) {
	dsn := startPostgres(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	p, err := Open(ctx, Config{
		URL:              dsn,
		MaxConns:         2,
		AppName:          "membersearch-pg-it",
		StatementTimeout: 250 * time.Millisecond,
	}, nil)
	require.NoError(t, err)
	defer p.Close()

	var app, timeout string
	require.NoError(t, p.Pool.QueryRow(ctx,
		`SELECT current_setting('application_name'), current_setting('statement_timeout')`,
	).Scan(&app, &timeout))
	assert.Equal(t, "membersearch-pg-it", app)
	assert.Equal(t, "250ms", timeout)

	_, err = p.Pool.Exec(ctx, `SELECT pg_sleep(1)`)
	assert.ErrorContains(t, err, "statement timeout")
}
