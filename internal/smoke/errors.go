package smoke

import "errors"

var (
	// ErrUnhealthy is returned when the health probe does not answer 200.
	ErrUnhealthy = errors.New("server is not healthy")

	// ErrCheckFailed wraps every failed response check.
	ErrCheckFailed = errors.New("smoke check failed")
)
