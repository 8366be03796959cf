package kv

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/crafthouse/crafthouse/internal/platform/db"
)

const pgDSNEnv = "CRAFTHOUSE_TEST_PG_DSN"

func TestPostgresSchemaStoresValuesVerbatim(t *testing.T) {
	require.Contains(t, schemaSQL, "value      JSON        NOT NULL")
	require.NotContains(t, strings.ToUpper(schemaSQL), "JSONB")
	require.Contains(t, migrateValueSQL, "TYPE JSON USING value::json")
}

func TestPostgresKeepsObjectKeyOrder(t *testing.T) {
	dsn := os.Getenv(pgDSNEnv)
	if dsn == "" {
		t.Skipf("%s not set", pgDSNEnv)
	}
	ctx := context.Background()
	pool, err := db.New(ctx, dsn, 2)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	store := NewPostgresStore(pool, "kvtest-"+strings.ToLower(t.Name()))
	require.NoError(t, store.EnsureSchema(ctx))
	t.Cleanup(func() { _ = store.Clear(context.Background()) })

	orders := `[{"products":{"T-Shirt":1,"Mug":1}}]`
	require.NoError(t, store.Update(ctx, "orders", func([]byte, bool) ([]byte, error) {
		return []byte(orders), nil
	}))
	value, err := store.Get(ctx, "orders")
	require.NoError(t, err)
	require.Equal(t, orders, string(value))
	require.NoError(t, store.Ping(ctx))
}
