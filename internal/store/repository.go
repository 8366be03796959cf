// Package store is the typed access layer over the key-value store: one
// get/save pair per collection, each save rewriting the whole collection.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/crafthouse/crafthouse/internal/events"
	"github.com/crafthouse/crafthouse/internal/platform/kv"
)

// Keys of the persisted layout.
const (
	KeyRawMaterials      = "rawMaterials"
	KeyProducts          = "products"
	KeyOrders            = "orders"
	KeyCategories        = "categories"
	KeySuppliers         = "suppliers"
	KeyTransactions      = "transactions"
	KeyProductionStatus  = "productionStatus"
	KeyCurrency          = "currency"
	KeyTheme             = "theme"
	KeyLowStockThreshold = "lowStockThreshold"

	// AllCollections is published after a reset or an import.
	AllCollections = "*"
)

// legacyNamespace derives stable ids for records written before ids existed.
var legacyNamespace = uuid.MustParse("5b8f8d0e-3c1a-4c55-9d0a-6f2f6d1c7e21")

// DefaultLowStockThreshold applies when Options leaves the threshold unset.
const DefaultLowStockThreshold = 10

// Options tunes a Repository. A nil DefaultLowStockThreshold means
// DefaultLowStockThreshold; zero is a valid threshold.
type Options struct {
	DefaultLowStockThreshold *int
	Clock                    func() time.Time
}

// Repository is the domain access layer.
type Repository struct {
	kv       kv.Store
	logger   *slog.Logger
	hub      *events.Hub
	now       func() time.Time
	threshold int
}

// New builds a Repository. hub may be nil.
func New(store kv.Store, logger *slog.Logger, hub *events.Hub, opts Options) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Clock == nil {
		opts.Clock = func() time.Time { return time.Now().UTC() }
	}
	threshold := DefaultLowStockThreshold
	if opts.DefaultLowStockThreshold != nil {
		threshold = max(*opts.DefaultLowStockThreshold, 0)
	}
	return &Repository{
		kv:        store,
		logger:    logger.With(slog.String("component", "store")),
		hub:       hub,
		now:       opts.Clock,
		threshold: threshold,
	}
}

// Now exposes the repository clock so services share one notion of time.
func (r *Repository) Now() time.Time {
	return r.now()
}

// Reset wipes every key.
func (r *Repository) Reset(ctx context.Context) error {
	if err := r.kv.Clear(ctx); err != nil {
		se := &Error{Key: AllCollections, Kind: KindWrite, Err: err}
		r.logger.Error("reset store failed", slog.Any("error", err))
		return se
	}
	r.logger.Info("store reset")
	r.publish(AllCollections)
	return nil
}

func (r *Repository) publish(key string) {
	r.hub.Publish(events.Change{Collection: key, At: r.now()})
}

func decodeValue[T any](raw []byte, fallback T) (T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return fallback, nil
	}
	value := fallback
	if err := json.Unmarshal(trimmed, &value); err != nil {
		return fallback, err
	}
	return value, nil
}

// getValue reads key, answering fallback when the key is absent or the read
// fails. Failures are logged and returned as *Error.
func getValue[T any](ctx context.Context, r *Repository, key string, fallback T) (T, error) {
	raw, err := r.kv.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return fallback, nil
	}
	if err != nil {
		r.logger.Error("read collection failed", slog.String("key", key), slog.Any("error", err))
		return fallback, &Error{Key: key, Kind: KindRead, Err: err}
	}
	value, err := decodeValue(raw, fallback)
	if err != nil {
		r.logger.Error("decode collection failed", slog.String("key", key), slog.Any("error", err))
		return fallback, &Error{Key: key, Kind: KindRead, Err: err}
	}
	return value, nil
}

// updateValue rewrites key through fn atomically. Errors returned by fn are
// domain rejections and pass through untouched; everything else is logged
// and returned as *Error.
func updateValue[T any](ctx context.Context, r *Repository, key string, fallback T, fn func(T) (T, error)) error {
	var rejected error
	err := r.kv.Update(ctx, key, func(current []byte, found bool) ([]byte, error) {
		value, err := decodeValue(current, fallback)
		if err != nil {
			return nil, &Error{Key: key, Kind: KindRead, Err: err}
		}
		next, err := fn(value)
		if err != nil {
			rejected = err
			return nil, err
		}
		raw, err := json.Marshal(next)
		if err != nil {
			return nil, &Error{Key: key, Kind: KindEncode, Err: err}
		}
		return raw, nil
	})
	if err == nil {
		r.publish(key)
		return nil
	}
	if rejected != nil && errors.Is(err, rejected) {
		return rejected
	}
	var se *Error
	if !errors.As(err, &se) {
		se = &Error{Key: key, Kind: KindWrite, Err: err}
	}
	r.logger.Error("save collection failed", slog.String("key", key), slog.String("kind", string(se.Kind)), slog.Any("error", se.Err))
	return se
}

func setValue[T any](ctx context.Context, r *Repository, key string, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		r.logger.Error("encode value failed", slog.String("key", key), slog.Any("error", err))
		return &Error{Key: key, Kind: KindEncode, Err: err}
	}
	if err := r.kv.Set(ctx, key, raw); err != nil {
		r.logger.Error("write value failed", slog.String("key", key), slog.Any("error", err))
		return &Error{Key: key, Kind: KindWrite, Err: err}
	}
	return nil
}

func legacyID(key, natural string) uuid.UUID {
	return uuid.NewSHA1(legacyNamespace, []byte(key+"/"+natural))
}
