package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/mysteriumnetwork/loopapp/loop"
	"github.com/mysteriumnetwork/loopapp/reporter"
)

// ReportTimeout bounds reporting of the loop termination.
const ReportTimeout = 10 * time.Second

type LoopRunner interface {
	Run(ctx context.Context) error
}

type Runner struct {
	loop  LoopRunner
	drain  reporter.Reporter
	logger *zap.Logger
	now    func() time.Time
}

func NewRunner(l LoopRunner, drain reporter.Reporter) *Runner {
	return &Runner{
		loop:   l,
		drain:  drain,
		logger: zap.NewNop(),
		now:    time.Now,
	}
}

func (r *Runner) SetLogger(logger *zap.Logger) *Runner {
	r.logger = logger
	return r
}

// Run blocks until the loop stops and returns the loop error. The termination
// is reported before returning, even though ctx is already done by then.
func (r *Runner) Run(ctx context.Context) error {
	loopErr := r.loop.Run(ctx)
	if loopErr == nil {
		loopErr = errors.New("heartbeat loop returned without error")
	}

	termination := reporter.Termination{
		Err: loopErr,
		At:  r.now(),
	}
	var interrupted *loop.InterruptError
	if errors.As(loopErr, &interrupted) {
		termination.Counter = interrupted.Counter
	}

	reportCtx, cl := context.WithTimeout(context.WithoutCancel(ctx), ReportTimeout)
	defer cl()

	var result error = loopErr
	if err := r.drain.Report(reportCtx, termination); err != nil {
		r.logger.Error("unable to report heartbeat loop termination", zap.Error(err))
		result = multierror.Append(result, fmt.Errorf("reporting error: %w", err))
	}

	return result
}
