// Package errorspkg provides common app errors.
package errorspkg

import "errors"

var (
	// ErrInternal indicates internal server error.
	ErrInternal = errors.New("internal")
	// ErrStoreUnavailable indicates that the database could not serve the request.
	// The operation had no effect and may be retried.
	ErrStoreUnavailable = errors.New("store unavailable")
)
