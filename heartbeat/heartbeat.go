package heartbeat

import (
	"context"
	"strconv"
)

// Heartbeat receives a beat with the current loop counter.
type Heartbeat interface {
	Beat(ctx context.Context, count uint64) error
}

// Func adapts an ordinary function to the Heartbeat interface.
type Func func(ctx context.Context, count uint64) error

func (f Func) Beat(ctx context.Context, count uint64) error {
	return f(ctx, count)
}

func formatCount(count uint64) string {
	return strconv.FormatUint(count, 10)
}
