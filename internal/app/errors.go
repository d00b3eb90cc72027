package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrMatchKeyMissing        = errors.New("no matches recorded for rank pair")
	ErrUnknownProbabilityMode = errors.New("unknown probability mode")
	ErrInvalidRange           = errors.New("start date is after end date")
)
