package rank

import "errors"

// Sentinel kinds for rank errors.
var (
	ErrConvert     = errors.New("value is not numeric")
	ErrInvalidRank = errors.New("invalid rank")
)
