package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrPartialDateRange indicates only one side of an explicit date range was supplied.
	ErrPartialDateRange = errors.New("date range partially specified")
	// ErrStoreUnavailable indicates the read store rejected or failed a query.
	ErrStoreUnavailable = errors.New("store unavailable")
)
