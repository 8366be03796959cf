package kv

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T, prefix string) (*RedisStore, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, prefix), client
}

func storeDrivers(t *testing.T) map[string]Store {
	redisStore, _ := newRedisStore(t, "test:")
	return map[string]Store{
		"memory": NewMemoryStore(),
		"redis":  redisStore,
	}
}

func TestStoreGetSet(t *testing.T) {
	for name, store := range storeDrivers(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := store.Get(ctx, "products")
			require.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, store.Set(ctx, "products", []byte(`[{"name":"T-Shirt"}]`)))
			value, err := store.Get(ctx, "products")
			require.NoError(t, err)
			require.JSONEq(t, `[{"name":"T-Shirt"}]`, string(value))

			require.Error(t, store.Set(ctx, " ", []byte("1")))
		})
	}
}

func TestStoreUpdate(t *testing.T) {
	for name, store := range storeDrivers(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			err := store.Update(ctx, "counter", func(current []byte, found bool) ([]byte, error) {
				require.False(t, found)
				require.Nil(t, current)
				return []byte("1"), nil
			})
			require.NoError(t, err)

			boom := errors.New("boom")
			err = store.Update(ctx, "counter", func(current []byte, found bool) ([]byte, error) {
				require.True(t, found)
				return nil, boom
			})
			require.ErrorIs(t, err, boom)

			value, err := store.Get(ctx, "counter")
			require.NoError(t, err)
			require.Equal(t, "1", string(value))
		})
	}
}

func TestStoreUpdateConcurrentWritersDoNotLoseIncrements(t *testing.T) {
	for name, store := range storeDrivers(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			const writers = 5

			var wg sync.WaitGroup
			errs := make(chan error, writers)
			for i := 0; i < writers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					errs <- store.Update(ctx, "counter", func(current []byte, found bool) ([]byte, error) {
						n := 0
						if found {
							n, _ = strconv.Atoi(string(current))
						}
						return []byte(strconv.Itoa(n + 1)), nil
					})
				}()
			}
			wg.Wait()
			close(errs)
			for err := range errs {
				require.NoError(t, err)
			}

			value, err := store.Get(ctx, "counter")
			require.NoError(t, err)
			require.Equal(t, strconv.Itoa(writers), string(value))
		})
	}
}

func TestStoreClear(t *testing.T) {
	for name, store := range storeDrivers(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, store.Set(ctx, "orders", []byte("[]")))
			require.NoError(t, store.Set(ctx, "currency", []byte(`"EUR"`)))

			require.NoError(t, store.Clear(ctx))

			_, err := store.Get(ctx, "orders")
			require.ErrorIs(t, err, ErrNotFound)
			_, err = store.Get(ctx, "currency")
			require.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestRedisClearOnlyTouchesPrefix(t *testing.T) {
	store, client := newRedisStore(t, "crafthouse:")
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "other:orders", "keep", 0).Err())
	require.NoError(t, store.Set(ctx, "orders", []byte("[]")))

	require.NoError(t, store.Clear(ctx))

	kept, err := client.Get(ctx, "other:orders").Result()
	require.NoError(t, err)
	require.Equal(t, "keep", kept)

	empty := NewRedisStore(client, "")
	require.Error(t, empty.Clear(ctx))
}

func TestOpenMemoryAndUnknownDriver(t *testing.T) {
	store, closeFn, err := Open(context.Background(), Options{Driver: DriverMemory})
	require.NoError(t, err)
	require.IsType(t, &MemoryStore{}, store)
	closeFn()

	_, closeFn, err = Open(context.Background(), Options{Driver: "etcd"})
	require.Error(t, err)
	require.NotNil(t, closeFn)
}

func TestRedisPing(t *testing.T) {
	store, client := newRedisStore(t, "ping:")
	require.NoError(t, store.Ping(context.Background()))

	require.NoError(t, client.Close())
	require.Error(t, store.Ping(context.Background()))
}
