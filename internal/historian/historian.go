// Package historian drains finished-game summaries from the Redis queue into Postgres.
package historian

import (
	"context"
	"sync"
	"time"

	"github.com/jason-s-yu/colortrick/internal/models"
	"github.com/sirupsen/logrus"
)

// Queue is satisfied by *cache.Queue.
type Queue interface {
	Pop(ctx context.Context, timeout time.Duration) (*models.GameSummary, error)
}

// Store is satisfied by *database.DB.
type Store interface {
	RecordGameSummaries(ctx context.Context, batch []models.GameSummary) error
	RecentGames(ctx context.Context, limit int) ([]models.GameSummary, error)
}

const minFlushDelay = time.Millisecond

// Service batches queued summaries and flushes them to the store when the batch is
// full or the flush interval elapses.
type Service struct {
	queue      Queue
	store      Store
	batchSize  int
	flushDelay time.Duration
	popTimeout time.Duration
	// popBackoff is the pause after a failed pop, so a dead Redis is not hammered.
	popBackoff time.Duration
	log        *logrus.Entry

	batchMu sync.Mutex
	batch   []models.GameSummary
}

func NewService(queue Queue, store Store, batchSize int, flushDelay time.Duration, logger *logrus.Logger) *Service {
	if batchSize < 1 {
		batchSize = 1
	}
	if flushDelay < minFlushDelay {
		flushDelay = minFlushDelay
	}
	return &Service{
		queue:      queue,
		store:      store,
		batchSize:  batchSize,
		flushDelay: flushDelay,
		popTimeout: 3 * time.Second,
		popBackoff: time.Second,
		log:        logger.WithField("component", "historian"),
		batch:      make([]models.GameSummary, 0, batchSize),
	}
}

// Run reads the queue until ctx is done, then flushes what is left.
func (s *Service) Run(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.flushLoop(ctx)
	}()

	s.log.Info("historian started")
	s.readLoop(ctx)
	wg.Wait()

	// ctx is already done; give the last flush its own deadline.
	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.flush(flushCtx)
	s.log.Info("historian stopped")
}

func (s *Service) readLoop(ctx context.Context) {
	for ctx.Err() == nil {
		summary, err := s.queue.Pop(ctx, s.popTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.log.WithError(err).Error("queue pop failed")
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.popBackoff):
			}
			continue
		}
		if summary == nil {
			continue
		}
		s.append(ctx, *summary)
	}
}

func (s *Service) flushLoop(ctx context.Context) {
	ticker := time.NewTicker(s.flushDelay)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.flush(ctx)
		}
	}
}

func (s *Service) append(ctx context.Context, summary models.GameSummary) {
	s.batchMu.Lock()
	s.batch = append(s.batch, summary)
	full := len(s.batch) >= s.batchSize
	s.batchMu.Unlock()

	if full {
		s.flush(ctx)
	}
}

// flush writes the current batch in one transaction. A failed batch is put back so
// the next flush retries it.
func (s *Service) flush(ctx context.Context) {
	s.batchMu.Lock()
	if len(s.batch) == 0 {
		s.batchMu.Unlock()
		return
	}
	pending := make([]models.GameSummary, len(s.batch))
	copy(pending, s.batch)
	s.batch = s.batch[:0]
	s.batchMu.Unlock()

	if err := s.store.RecordGameSummaries(ctx, pending); err != nil {
		s.log.WithError(err).WithField("games", len(pending)).Error("flush failed")
		s.batchMu.Lock()
		s.batch = append(pending, s.batch...)
		s.batchMu.Unlock()
		return
	}
	s.log.WithField("games", len(pending)).Info("flushed game summaries")
}

// Pending reports how many summaries are waiting to be flushed.
func (s *Service) Pending() int {
	s.batchMu.Lock()
	defer s.batchMu.Unlock()
	return len(s.batch)
}
