package store

import (
	"errors"
	"fmt"

	"github.com/crafthouse/crafthouse/internal/platform/httpx"
)

var (
	// ErrDuplicate is returned when a natural key (name or title) is taken.
	ErrDuplicate = fmt.Errorf("store: duplicate name: %w", httpx.ErrDuplicate)
	// ErrNotFound is returned when an addressed record does not exist.
	ErrNotFound = fmt.Errorf("store: record not found: %w", httpx.ErrNotFound)
)

// ErrorKind classifies storage failures.
type ErrorKind string

const (
	KindRead   ErrorKind = "read"
	KindWrite  ErrorKind = "write"
	KindEncode ErrorKind = "encode"
)

// Error is the typed failure returned alongside the non-fatal fallback
// (empty collection on read, no change on write). Callers may ignore it or
// surface a retry.
type Error struct {
	Key  string
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("store: %s %s: %v", e.Kind, e.Key, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets every storage failure match httpx.ErrUnavailable.
func (e *Error) Is(target error) bool {
	return target == httpx.ErrUnavailable
}

// IsStorageFailure reports whether err is a storage failure rather than a
// domain rejection.
func IsStorageFailure(err error) bool {
	var se *Error
	return errors.As(err, &se)
}
