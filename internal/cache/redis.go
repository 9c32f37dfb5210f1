// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jason-s-yu/colortrick/internal/models"
	"github.com/redis/go-redis/v9"
)

// DefaultQueueName is the Redis list holding finished-game summaries for the historian.
const DefaultQueueName = "colortrick_games"

// Connect opens a Redis client and pings it.
func Connect(ctx context.Context, addr string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return rdb, nil
}

// Queue is a FIFO of game summaries stored in a Redis list.
type Queue struct {
	rdb  *redis.Client
	name string
}

func NewQueue(rdb *redis.Client, name string) *Queue {
	if name == "" {
		name = DefaultQueueName
	}
	return &Queue{rdb: rdb, name: name}
}

func (q *Queue) Name() string { return q.name }

// Publish serializes the summary to JSON and pushes it onto the tail of the list.
func (q *Queue) Publish(ctx context.Context, s models.GameSummary) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal GameSummary: %w", err)
	}
	if err := q.rdb.RPush(ctx, q.name, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list '%s': %w", q.name, err)
	}
	return nil
}

// Pop blocks up to timeout for the next summary. It returns nil, nil when the wait
// times out with the queue still empty.
func (q *Queue) Pop(ctx context.Context, timeout time.Duration) (*models.GameSummary, error) {
	res, err := q.rdb.BLPop(ctx, timeout, q.name).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("BLPop %s: %w", q.name, err)
	}
	// res[0] is the list name and res[1] the payload.
	if len(res) < 2 {
		return nil, nil
	}
	return DecodeSummary([]byte(res[1]))
}

// DecodeSummary parses a queued payload.
func DecodeSummary(data []byte) (*models.GameSummary, error) {
	var s models.GameSummary
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("invalid game summary: %w", err)
	}
	return &s, nil
}
