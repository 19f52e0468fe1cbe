package reporter

import (
	"context"
	"time"
)

// Termination describes how the heartbeat loop stopped.
type Termination struct {
	Counter uint64
	Err     error
	At      time.Time
}

type Reporter interface {
	Report(ctx context.Context, t Termination) error
}
