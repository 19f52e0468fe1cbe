package loop

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/mysteriumnetwork/loopapp/heartbeat"
)

const (
	DefaultInterval        = 500 * time.Millisecond
	DefaultEvery    uint64 = 10
)

// Loop increments a counter once per interval and beats on every
// every-th iteration, starting with iteration 0.
type Loop struct {
	interval time.Duration
	every    uint64
	beat     heartbeat.Heartbeat
	logger   *zap.Logger
}

func New(interval time.Duration, every uint64, beat heartbeat.Heartbeat) (*Loop, error) {
	if interval <= 0 {
		return nil, errors.New("interval must be positive")
	}
	if every == 0 {
		return nil, errors.New("beat period must be at least one iteration")
	}
	if beat == nil {
		return nil, errors.New("heartbeat sink is not specified")
	}

	return &Loop{
		interval: interval,
		every:    every,
		beat:     beat,
		logger:   zap.NewNop(),
	}, nil
}

// SetLogger sets the logger used for non-fatal sink failures.
func (l *Loop) SetLogger(logger *zap.Logger) *Loop {
	l.logger = logger
	return l
}

// Run never returns nil. It returns *InterruptError wrapping ctx.Err() once
// ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	limiter := rate.NewLimiter(rate.Every(l.interval), 1)
	// Spend the initial burst so that the first wait lasts a full interval.
	limiter.Allow()

	var counter uint64
	for {
		if counter%l.every == 0 {
			err := l.beat.Beat(ctx, counter)
			if err != nil && ctx.Err() == nil {
				l.logger.Warn("heartbeat failed", zap.Uint64("counter", counter), zap.Error(err))
			}
		}

		counter++

		if err := wait(ctx, limiter); err != nil {
			return newInterruptError(counter, err)
		}
	}
}

// wait blocks until the limiter grants the next token or ctx is done.
// Unlike limiter.Wait it does not give up early on a context deadline.
func wait(ctx context.Context, limiter *rate.Limiter) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r := limiter.Reserve()
	timer := time.NewTimer(r.Delay())
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		r.Cancel()
		return ctx.Err()
	}
}
