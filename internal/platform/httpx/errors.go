// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"
)

// Sentinel errors for the domain layer. Packages wrap these so handlers can
// map failures without knowing every package's error set.
var (
	ErrNotFound    = errors.New("resource not found")
	ErrDuplicate   = errors.New("duplicate entry")
	ErrConflict    = errors.New("conflict")
	ErrValidation  = errors.New("validation failed")
	ErrUnavailable = errors.New("storage unavailable")
)

// DegradedHeader marks a response served from an empty fallback after a
// storage read failed.
const DegradedHeader = "X-Storage-Degraded"

// RespondError maps domain errors to HTTP responses using RFC7807.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrDuplicate):
		Problem(w, http.StatusConflict, "Duplicate", err.Error())
	case errors.Is(err, ErrConflict):
		Problem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, ErrUnavailable):
		w.Header().Set("Retry-After", "5")
		Problem(w, http.StatusServiceUnavailable, "Storage Unavailable", "the change was not saved, retry later")
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

// RespondRead writes a read result. A storage failure still answers 200
// with the fallback payload and flags the response as degraded; any other
// error goes through RespondError.
func RespondRead(w http.ResponseWriter, data any, err error) {
	if err != nil {
		if !errors.Is(err, ErrUnavailable) {
			RespondError(w, err)
			return
		}
		w.Header().Set(DegradedHeader, "true")
	}
	JSON(w, http.StatusOK, data)
}
