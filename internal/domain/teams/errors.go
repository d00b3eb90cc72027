package teams

import "errors"

// Sentinel kinds for team mapping errors.
var (
	ErrMalformedCSV = errors.New("malformed team mappings")
)
