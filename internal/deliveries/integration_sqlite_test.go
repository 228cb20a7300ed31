package deliveries_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fleetwire/fleetwire/internal/deliveries"
	"github.com/fleetwire/fleetwire/internal/infra/db"
)

func newSQLiteRepo(t *testing.T) *deliveries.Repo {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db")

	err := db.Migrate("sqlite", dsn, "")
	require.NoError(t, err, "sqlite migration failed")

	database, err := db.New("sqlite", dsn, "")
	require.NoError(t, err, "sqlite connection failed")

	t.Cleanup(func() { database.Close() })

	return deliveries.NewRepo(database, testMaxAttempts)
}
