//go:build database

package integration

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestSinphaseWithMySQL tests the sinphase CLI with a MySQL backend.
func TestSinphaseWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306:3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "sinphase",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(30 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/sinphase?parseTime=true", host, port.Port())

	setStoreEnv(t, "mysql", connStr)
	runStoreLifecycle(t)
}

// TestSinphaseWithPostgres tests the sinphase CLI with a PostgreSQL backend.
func TestSinphaseWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432:5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithStartupTimeout(30 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()
	time.Sleep(5 * time.Second)

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres", host, port.Port())

	setStoreEnv(t, "postgresql", connStr)
	runStoreLifecycle(t)
}

// setStoreEnv points both stores at the containerized backend.
func setStoreEnv(t *testing.T, backend, connStr string) {
	t.Helper()
	envs := map[string]string{
		"SINPHASE_CACHE_BACKEND":      backend,
		"SINPHASE_CACHE_DB_CONNECT":   connStr,
		"SINPHASE_HISTORY_BACKEND":    backend,
		"SINPHASE_HISTORY_DB_CONNECT": connStr,
	}
	for k, v := range envs {
		_ = os.Setenv(k, v)
	}
	t.Cleanup(func() {
		for k := range envs {
			_ = os.Unsetenv(k)
		}
	})
}

// runStoreLifecycle exercises the cache and history commands against
// whichever backend the environment points at.
func runStoreLifecycle(t *testing.T) {
	t.Helper()

	// Run sinphase cache clear
	_, err := runSinphaseCommand(t, "cache", "clear")
	require.NoError(t, err)

	// Run sinphase history migrate (schema setup on a fresh database)
	_, err = runSinphaseCommand(t, "history", "migrate")
	require.NoError(t, err)

	// Run sinphase history clear
	_, err = runSinphaseCommand(t, "history", "clear")
	require.NoError(t, err)

	// Run sinphase cache status
	_, err = runSinphaseCommand(t, "cache", "status")
	require.NoError(t, err)

	// Run sinphase history status
	_, err = runSinphaseCommand(t, "history", "status")
	require.NoError(t, err)
}
