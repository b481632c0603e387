package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrInvalidConfig    = errors.New("invalid configuration")
	// ErrQuery marks an internal invariant violation while decoding a query.
	ErrQuery = errors.New("query decoding failed")
)
