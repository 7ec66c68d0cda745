package health

import "errors"

var (
	// ErrCheckFailed marks an unhealthy result whose cause is the
	// dependency's own state rather than a probe error.
	ErrCheckFailed = errors.New("health: check failed")

	// ErrCheckTimeout is the cause when a check outlives the run's
	// deadline.
	ErrCheckTimeout = errors.New("health: check timed out")

	// ErrUnknownChecker is returned when a check is requested by a name
	// that was never registered.
	ErrUnknownChecker = errors.New("health: unknown checker")
)
