package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation runs.
var (
	// ErrInvalidState indicates NaN or Inf in the system after a tick.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrNoBound indicates a config with neither a tick budget nor a duration.
	ErrNoBound = errors.New("dynamo: run needs ticks or duration")

	// ErrCanceled indicates the run's context ended before its bound.
	ErrCanceled = errors.New("dynamo: run canceled")

	// ErrInvalidConfig indicates a negative or otherwise unusable setting.
	ErrInvalidConfig = errors.New("dynamo: invalid config")
)

// SimError records a failure at a specific tick.
type SimError struct {
	Tick    int
	Wrapped error
}

func (e SimError) Error() string {
	return fmt.Sprintf("tick %d: %v", e.Tick, e.Wrapped)
}

func (e SimError) Unwrap() error {
	return e.Wrapped
}
