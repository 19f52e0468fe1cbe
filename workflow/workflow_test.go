package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mysteriumnetwork/loopapp/heartbeat"
	"github.com/mysteriumnetwork/loopapp/loop"
	"github.com/mysteriumnetwork/loopapp/reporter"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeReporter struct {
	err      error
	calls    []reporter.Termination
	ctxErr   error
	deadline bool
}

func (r *fakeReporter) Report(ctx context.Context, t reporter.Termination) error {
	r.calls = append(r.calls, t)
	r.ctxErr = ctx.Err()
	_, r.deadline = ctx.Deadline()
	return r.err
}

func TestRunnerReportsInterruption(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sink := heartbeat.Func(func(_ context.Context, count uint64) error {
		if count == 20 {
			cancel()
		}
		return nil
	})
	l, err := loop.New(time.Millisecond, loop.DefaultEvery, sink)
	require.NoError(t, err)

	drain := &fakeReporter{}
	stopped := time.Date(2022, time.October, 1, 0, 0, 0, 0, time.UTC)
	runner := NewRunner(l, drain)
	runner.now = func() time.Time { return stopped }

	err = runner.Run(ctx)

	var interrupted *loop.InterruptError
	require.ErrorAs(t, err, &interrupted)
	assert.ErrorIs(t, err, context.Canceled)

	require.Len(t, drain.calls, 1)
	assert.Equal(t, uint64(21), drain.calls[0].Counter)
	assert.Equal(t, stopped, drain.calls[0].At)
	assert.ErrorIs(t, drain.calls[0].Err, context.Canceled)

	assert.NoError(t, drain.ctxErr, "report context must outlive the run context")
	assert.True(t, drain.deadline)
}

func TestRunnerAggregatesReportError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l, err := loop.New(time.Millisecond, 1, heartbeat.Func(func(context.Context, uint64) error { return nil }))
	require.NoError(t, err)

	core, logs := observer.New(zapcore.ErrorLevel)
	drain := &fakeReporter{err: errors.New("pager unavailable")}
	err = NewRunner(l, drain).SetLogger(zap.New(core)).Run(ctx)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "reporting error: pager unavailable")

	var interrupted *loop.InterruptError
	require.ErrorAs(t, err, &interrupted)
	assert.Equal(t, uint64(1), interrupted.Counter)

	entries := logs.FilterMessage("unable to report heartbeat loop termination").AllUntimed()
	require.Len(t, entries, 1)
	assert.Equal(t, "pager unavailable", entries[0].ContextMap()["error"])
}

type stoppedLoop struct{}

func (stoppedLoop) Run(context.Context) error { return nil }

func TestRunnerLoopWithoutError(t *testing.T) {
	drain := &fakeReporter{}
	err := NewRunner(stoppedLoop{}, drain).Run(context.Background())

	require.Error(t, err)
	require.Len(t, drain.calls, 1)
	assert.Zero(t, drain.calls[0].Counter)
}
