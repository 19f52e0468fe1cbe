package reporter

import (
	"context"

	"go.uber.org/zap"
)

type LogReporter struct {
	logger *zap.Logger
}

func NewLogReporter(logger *zap.Logger) *LogReporter {
	return &LogReporter{
		logger: logger,
	}
}

func (r *LogReporter) Report(_ context.Context, t Termination) error {
	r.logger.Error("heartbeat loop terminated",
		zap.Uint64("counter", t.Counter),
		zap.Time("at", t.At),
		zap.Error(t.Err),
	)

	return nil
}
