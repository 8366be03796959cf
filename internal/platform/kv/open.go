package kv

import (
	"context"
	"fmt"

	"github.com/crafthouse/crafthouse/internal/platform/cache"
	"github.com/crafthouse/crafthouse/internal/platform/db"
)

// Options selects and configures a driver.
type Options struct {
	Driver    string
	Namespace string
	RedisAddr string
	PGDSN     string
}

// Open builds the configured store. The returned close function releases the
// underlying connections and is never nil.
func Open(ctx context.Context, opts Options) (Store, func(), error) {
	switch opts.Driver {
	case DriverMemory, "":
		return NewMemoryStore(), func() {}, nil
	case DriverRedis:
		client, err := cache.New(ctx, cache.Options{Addr: opts.RedisAddr})
		if err != nil {
			return nil, func() {}, err
		}
		return NewRedisStore(client, opts.Namespace+":"), func() { _ = client.Close() }, nil
	case DriverPostgres:
		pool, err := db.New(ctx, opts.PGDSN, 0)
		if err != nil {
			return nil, func() {}, err
		}
		store := NewPostgresStore(pool, opts.Namespace)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, func() {}, err
		}
		return store, pool.Close, nil
	default:
		return nil, func() {}, fmt.Errorf("kv: unknown driver %q", opts.Driver)
	}
}
