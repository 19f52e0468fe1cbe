package loop

import (
	"fmt"
)

// InterruptError is returned by Run when the wait between iterations is
// interrupted.
type InterruptError struct {
	// Counter is the value the loop would have run the next iteration with.
	Counter uint64
	wrapped error
}

func newInterruptError(counter uint64, err error) *InterruptError {
	return &InterruptError{
		Counter: counter,
		wrapped: err,
	}
}

func (e *InterruptError) Error() string {
	return fmt.Sprintf("heartbeat loop interrupted at counter %d: %v", e.Counter, e.wrapped)
}

func (e *InterruptError) Unwrap() error {
	return e.wrapped
}
