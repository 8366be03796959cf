// Package kv provides the persistent key-value store that holds every
// collection as a single JSON document per key.
package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Driver names accepted by Open.
const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

var (
	// ErrNotFound is returned by Get when the key holds no value.
	ErrNotFound = errors.New("kv: key not found")
	// ErrConflict is returned by Update when optimistic retries are exhausted.
	ErrConflict = errors.New("kv: concurrent update conflict")
)

// UpdateFunc receives the current value (nil, false when absent) and returns
// the value to store.
type UpdateFunc func(current []byte, found bool) ([]byte, error)

// Store is a flat key space of opaque values.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Update performs an atomic read-modify-write on a single key.
	// Returning an error from fn aborts the write and is passed through.
	Update(ctx context.Context, key string, fn UpdateFunc) error
	// Clear removes every key owned by this store.
	Clear(ctx context.Context) error
}

func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("kv: empty key")
	}
	return nil
}
