package history

import "errors"

// Sentinel kinds for ranking history errors.
var (
	ErrInvalidDate   = errors.New("invalid date")
	ErrMalformedFile = errors.New("malformed rankings file")
)
