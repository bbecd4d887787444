//nolint:errcheck // testsetup
package tcpostgres

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/mpapenbr/racelog-analytics/pkg/db/migrate"
	database "github.com/mpapenbr/racelog-analytics/pkg/db/postgres"
)

// SetupTestDB starts a postgres container and returns a pool to the
// migrated database
func SetupTestDB() *pgxpool.Pool {
	ctx := context.Background()
	port, err := nat.NewPort("tcp", "5432")
	if err != nil {
		log.Fatal(err)
	}
	container, err := SetupPostgres(ctx,
		WithPort(port.Port()),
		WithInitialDatabase("postgres", "password", "postgres"),
		WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
		WithName("racelog-analytics-test"),
	)
	if err != nil {
		log.Fatal(err)
	}
	containerPort, _ := container.MappedPort(ctx, port)
	host, _ := container.Host(ctx)
	dbURL := fmt.Sprintf("postgresql://postgres:password@%s:%s/postgres?sslmode=disable",
		host, containerPort.Port())
	return migrated(dbURL)
}

// SetupExternalTestDB uses the database given by TESTDB_URL
func SetupExternalTestDB() *pgxpool.Pool {
	return migrated(os.Getenv("TESTDB_URL"))
}

func migrated(dbURL string) *pgxpool.Pool {
	if err := migrate.MigrateDB(dbURL); err != nil {
		log.Fatal(err)
	}
	return database.InitWithUrl(dbURL)
}

// ClearAllTables removes all rows, children first
func ClearAllTables(pool *pgxpool.Pool) {
	for _, table := range []string{"telemetry", "lap", "driver", "race"} {
		pool.Exec(context.Background(), "delete from "+table)
	}
}
