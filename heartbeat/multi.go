package heartbeat

import (
	"context"

	"github.com/hashicorp/go-multierror"
)

type MultiHeartbeat struct {
	beats []Heartbeat
}

func NewMultiHeartbeat(beats ...Heartbeat) *MultiHeartbeat {
	return &MultiHeartbeat{
		beats: beats,
	}
}

func (b *MultiHeartbeat) Beat(ctx context.Context, count uint64) error {
	var result error

	for _, beat := range b.beats {
		if err := beat.Beat(ctx, count); err != nil {
			result = multierror.Append(result, err)
		}
	}

	return result
}
