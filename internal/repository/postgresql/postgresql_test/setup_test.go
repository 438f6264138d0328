package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
	"github.com/stretchr/testify/require"
)

var tables = []string{
	"documents",
	"schedule_comments",
	"performance_records",
	"vtos",
	"vets",
	"schedule_employees",
	"shifts",
	"schedules",
	"employees",
	"users",
	"organizations",
}

// openTestDB connects to TEST_DATABASE_URL, applies the schema when missing
// and empties every table. Tests are skipped without the variable.
func openTestDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{MaxConns: 4})
	require.NoError(t, err)
	t.Cleanup(db.Close)

	var exists bool
	require.NoError(t, db.QueryRow(ctx, `SELECT to_regclass('public.organizations') IS NOT NULL`).Scan(&exists))
	if !exists {
		schema, err := os.ReadFile("../../../../migrations/001_init.sql")
		require.NoError(t, err)
		_, err = db.Exec(ctx, string(schema))
		require.NoError(t, err)
	}

	for _, table := range tables {
		_, err := db.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		require.NoError(t, err, "truncate %s", table)
	}
	return db
}
