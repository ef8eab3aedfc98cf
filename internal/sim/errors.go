package sim

import (
	"errors"
	"fmt"
)

// Domain errors for engine operations.
var (
	// ErrClosed indicates an operation on a system whose worker pool was released.
	ErrClosed = errors.New("sim: body system closed")

	// ErrWorkerPanic indicates a partition task panicked; the tick was discarded.
	ErrWorkerPanic = errors.New("sim: partition worker panicked")

	// ErrInvalidRun indicates a run configuration that cannot be executed.
	ErrInvalidRun = errors.New("sim: invalid run configuration")
)

// TickError reports a tick that was discarded. The system state is the one
// from before the tick started.
type TickError struct {
	Frame   uint64
	Wrapped error
}

func (e *TickError) Error() string {
	return fmt.Sprintf("tick %d discarded: %v", e.Frame, e.Wrapped)
}

func (e *TickError) Unwrap() error {
	return e.Wrapped
}
