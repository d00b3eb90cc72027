package docstore

import "errors"

// Sentinel kinds for document store errors.
var (
	ErrNotFound      = errors.New("document not found")
	ErrUnknownDriver = errors.New("unknown store driver")
	ErrMalformedSeed = errors.New("malformed seed file")
	ErrClosed        = errors.New("store closed")
)
