package reporter

import (
	"context"

	"github.com/hashicorp/go-multierror"
)

// MultiReporter reports to all of its reporters concurrently.
type MultiReporter struct {
	reporters []Reporter
}

func NewMultiReporter(reporters ...Reporter) *MultiReporter {
	return &MultiReporter{
		reporters: reporters,
	}
}

func (r *MultiReporter) Report(ctx context.Context, t Termination) error {
	var g multierror.Group

	for _, rep := range r.reporters {
		rep := rep
		g.Go(func() error {
			return rep.Report(ctx, t)
		})
	}

	return g.Wait().ErrorOrNil()
}
