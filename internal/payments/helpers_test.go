package payments_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fleetwire/fleetwire/internal/infra/db"
	"github.com/fleetwire/fleetwire/internal/signing"
)

func newTestDB(t *testing.T) *db.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, db.Migrate("sqlite", dsn, ""), "sqlite migration failed")

	database, err := db.New("sqlite", dsn, "")
	require.NoError(t, err, "sqlite connection failed")
	t.Cleanup(func() { database.Close() })

	return database
}

func sign(t *testing.T, secret string, body []byte) string {
	t.Helper()
	sig, err := signing.Sign([]byte(secret), body)
	require.NoError(t, err)
	return sig
}

const gatewayBody = `{"id":"pay_evt_1","type":"payment.completed","tenant_id":"acme","created_at":"2026-03-01T10:00:00Z","data":{"method":"ewallet","amount":125000,"currency":"IDR","status":"paid","reference":"INV-42"}}`
