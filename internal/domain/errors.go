package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// plan does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. blank title, end date before start date, unknown
// event kind). Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrStoreUnavailable is returned by repo functions when the database cannot
// be reached or errors internally. It is kept distinct from ErrValidation so
// callers can decide whether to retry; the core never retries on its own.
// Handlers should map this to HTTP 503.
var ErrStoreUnavailable = errors.New("store unavailable")
