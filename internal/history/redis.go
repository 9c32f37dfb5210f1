package history

import (
	"context"

	"github.com/jason-s-yu/colortrick/internal/game"
	"github.com/jason-s-yu/colortrick/internal/models"
)

// Publisher is satisfied by *cache.Queue.
type Publisher interface {
	Publish(ctx context.Context, s models.GameSummary) error
}

// RedisSink hands summaries to the historian through the Redis queue.
type RedisSink struct {
	Queue Publisher
}

func (r *RedisSink) AppendGameSummary(ctx context.Context, s models.GameSummary) error {
	if err := r.Queue.Publish(ctx, s); err != nil {
		return &game.PersistenceError{Sink: "redis", Err: err}
	}
	return nil
}
