package heartbeat

import (
	"context"

	"go.uber.org/zap"
)

type LogHeartbeat struct {
	logger *zap.SugaredLogger
}

func NewLogHeartbeat(logger *zap.Logger) LogHeartbeat {
	return LogHeartbeat{
		logger: logger.Sugar(),
	}
}

func (b LogHeartbeat) Beat(_ context.Context, count uint64) error {
	b.logger.Infow("Waiting ... "+formatCount(count), "counter", count)
	return nil
}
