package transform

import "errors"

// ErrMalformedInput marks a rankings file that is not an object of period lists.
var ErrMalformedInput = errors.New("malformed rankings input")
