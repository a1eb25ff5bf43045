package postgres_test

import (
	"context"
	"os"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adoptions/internal/domain"
	"adoptions/internal/repository/postgres"
)

// Requires a migrated database; set ADOPT_TEST_POSTGRES_DSN to enable.
func TestKVRepo_Postgres(t *testing.T) {
	dsn := os.Getenv("ADOPT_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("ADOPT_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()

	db, err := sqlx.Connect("pgx", dsn)
	require.NoError(t, err)
	kv := postgres.NewKVRepo(db)
	defer kv.Close()

	require.NoError(t, kv.Delete(ctx, "test_key"))
	_, err = kv.Get(ctx, "test_key")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, kv.Set(ctx, "test_key", []byte(`[]`)))
	require.NoError(t, kv.Set(ctx, "test_key", []byte(`[{"id":"a"}]`)))
	got, err := kv.Get(ctx, "test_key")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"a"}]`, string(got))
	require.NoError(t, kv.Delete(ctx, "test_key"))
}
