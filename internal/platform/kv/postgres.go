package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crafthouse/crafthouse/internal/platform/db"
)

// value is JSON, not JSONB, so object key order survives a round trip.
const schemaSQL = `CREATE TABLE IF NOT EXISTS kv_entries (
	namespace  TEXT        NOT NULL,
	key        TEXT        NOT NULL,
	value      JSON        NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (namespace, key)
)`

// migrateValueSQL converts tables created with a JSONB value column. Rows
// already stored keep the key order JSONB gave them.
const migrateValueSQL = `DO $$
BEGIN
	IF EXISTS (
		SELECT 1 FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = 'kv_entries'
			AND column_name = 'value' AND data_type = 'jsonb'
	) THEN
		ALTER TABLE kv_entries ALTER COLUMN value TYPE JSON USING value::json;
	END IF;
END $$`

const upsertSQL = `INSERT INTO kv_entries (namespace, key, value, updated_at)
VALUES ($1, $2, $3, NOW())
ON CONFLICT (namespace, key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`

// PostgresStore keeps values verbatim in a JSON table partitioned by
// namespace.
type PostgresStore struct {
	pool      *pgxpool.Pool
	namespace string
}

// NewPostgresStore wraps a pool. Call EnsureSchema once before use.
func NewPostgresStore(pool *pgxpool.Pool, namespace string) *PostgresStore {
	return &PostgresStore{pool: pool, namespace: namespace}
}

// EnsureSchema creates the backing table when missing and upgrades a JSONB
// value column.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range []string{schemaSQL, migrateValueSQL} {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("kv/postgres: ensure schema: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	var value []byte
	err := s.pool.QueryRow(ctx, `SELECT value FROM kv_entries WHERE namespace = $1 AND key = $2`, s.namespace, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("kv/postgres: get %s: %w", key, err)
	}
	return value, nil
}

func (s *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if _, err := s.pool.Exec(ctx, upsertSQL, s.namespace, key, value); err != nil {
		return fmt.Errorf("kv/postgres: set %s: %w", key, err)
	}
	return nil
}

// Update serialises writers of the same key with a transaction-scoped
// advisory lock, which also covers keys that do not exist yet.
func (s *PostgresStore) Update(ctx context.Context, key string, fn UpdateFunc) error {
	if err := validateKey(key); err != nil {
		return err
	}
	return db.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1 || ':' || $2))`, s.namespace, key); err != nil {
			return fmt.Errorf("kv/postgres: lock %s: %w", key, err)
		}
		var current []byte
		found := true
		err := tx.QueryRow(ctx, `SELECT value FROM kv_entries WHERE namespace = $1 AND key = $2`, s.namespace, key).Scan(&current)
		if errors.Is(err, pgx.ErrNoRows) {
			current, found = nil, false
		} else if err != nil {
			return fmt.Errorf("kv/postgres: read %s: %w", key, err)
		}
		next, err := fn(current, found)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, upsertSQL, s.namespace, key, next); err != nil {
			return fmt.Errorf("kv/postgres: write %s: %w", key, err)
		}
		return nil
	})
}

func (s *PostgresStore) Clear(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM kv_entries WHERE namespace = $1`, s.namespace); err != nil {
		return fmt.Errorf("kv/postgres: clear: %w", err)
	}
	return nil
}

// Ping checks connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
