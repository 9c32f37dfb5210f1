package historian

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/colortrick/internal/models"
	"github.com/jason-s-yu/colortrick/internal/rating"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chanQueue struct {
	ch chan models.GameSummary
}

func (q *chanQueue) Pop(ctx context.Context, timeout time.Duration) (*models.GameSummary, error) {
	select {
	case s := <-q.ch:
		return &s, nil
	case <-time.After(timeout):
		return nil, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type downQueue struct {
	calls atomic.Int32
}

func (q *downQueue) Pop(context.Context, time.Duration) (*models.GameSummary, error) {
	q.calls.Add(1)
	return nil, errors.New("connection refused")
}

type memStore struct {
	mu       sync.Mutex
	games    []models.GameSummary
	batches  int
	failNext bool
}

func (m *memStore) RecordGameSummaries(_ context.Context, batch []models.GameSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext {
		m.failNext = false
		return errors.New("db down")
	}
	m.batches++
	m.games = append(m.games, batch...)
	return nil
}

func (m *memStore) RecentGames(_ context.Context, limit int) ([]models.GameSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit > len(m.games) {
		limit = len(m.games)
	}
	return append([]models.GameSummary(nil), m.games[:limit]...), nil
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.games)
}

func summary(name string) models.GameSummary {
	return models.GameSummary{
		GameID:  uuid.New(),
		Players: []models.PlayerResult{{Name: name, Score: 4, RoundsWon: 1}},
		Winners: []string{name},
	}
}

func TestServiceDrainsQueue(t *testing.T) {
	logger, _ := test.NewNullLogger()
	q := &chanQueue{ch: make(chan models.GameSummary, 8)}
	store := &memStore{}
	svc := NewService(q, store, 2, 20*time.Millisecond, logger)
	svc.popTimeout = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(done)
	}()

	q.ch <- summary("A")
	q.ch <- summary("B")
	q.ch <- summary("C")

	require.Eventually(t, func() bool { return store.count() == 3 }, 2*time.Second, 5*time.Millisecond)
	assert.Zero(t, svc.Pending())

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("historian did not stop")
	}
}

func TestNewServiceClampsFlushDelay(t *testing.T) {
	logger, _ := test.NewNullLogger()
	for _, d := range []time.Duration{0, -time.Second} {
		svc := NewService(&chanQueue{}, &memStore{}, 1, d, logger)
		assert.Equal(t, minFlushDelay, svc.flushDelay)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		assert.NotPanics(t, func() { svc.flushLoop(ctx) })
		cancel()
	}
}

func TestPopErrorsBackOff(t *testing.T) {
	logger, _ := test.NewNullLogger()
	q := &downQueue{}
	svc := NewService(q, &memStore{}, 1, time.Second, logger)
	svc.popBackoff = 50 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Millisecond)
	defer cancel()
	svc.readLoop(ctx)

	calls := q.calls.Load()
	assert.GreaterOrEqual(t, calls, int32(1))
	assert.LessOrEqual(t, calls, int32(4))
}

func TestFailedFlushIsRetried(t *testing.T) {
	logger, hook := test.NewNullLogger()
	store := &memStore{failNext: true}
	svc := NewService(&chanQueue{ch: make(chan models.GameSummary)}, store, 10, time.Second, logger)

	svc.append(context.Background(), summary("A"))
	svc.flush(context.Background())
	assert.Equal(t, 1, svc.Pending())
	assert.Zero(t, store.count())
	assert.Equal(t, "flush failed", hook.LastEntry().Message)

	svc.flush(context.Background())
	assert.Zero(t, svc.Pending())
	assert.Equal(t, 1, store.count())
}

func TestRouter(t *testing.T) {
	logger, _ := test.NewNullLogger()
	store := &memStore{games: []models.GameSummary{summary("A"), summary("B")}}
	svc := NewService(&chanQueue{}, store, 5, time.Second, logger)
	srv := httptest.NewServer(Router(svc, logger, nil))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/ping")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/games/recent?limit=1")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var games []models.GameSummary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&games))
	require.Len(t, games, 1)
	assert.Equal(t, []string{"A"}, games[0].Winners)

	bad, err := http.Get(srv.URL + "/games/recent?limit=0")
	require.NoError(t, err)
	bad.Body.Close()
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)

	stats, err := http.Get(srv.URL + "/stats")
	require.NoError(t, err)
	defer stats.Body.Close()
	var body map[string]int
	require.NoError(t, json.NewDecoder(stats.Body).Decode(&body))
	assert.Equal(t, 0, body["pending"])
}

func TestLeaderboardRoute(t *testing.T) {
	logger, _ := test.NewNullLogger()
	store := &memStore{games: []models.GameSummary{{
		GameID:     uuid.New(),
		FinishedAt: time.Now(),
		Players: []models.PlayerResult{
			{Name: "Ana", Score: 50, RoundsWon: 8},
			{Name: "Beto", Score: 12, RoundsWon: 3},
		},
		Winners: []string{"Ana"},
	}}}
	svc := NewService(&chanQueue{}, store, 5, time.Second, logger)
	srv := httptest.NewServer(Router(svc, logger, nil))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/leaderboard")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var board []rating.Entry
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&board))
	require.Len(t, board, 2)
	assert.Equal(t, "Ana", board[0].Name)
	assert.Equal(t, 1, board[0].Wins)
	assert.Greater(t, board[0].Rating, board[1].Rating)
}

func TestRouterCORS(t *testing.T) {
	logger, _ := test.NewNullLogger()
	svc := NewService(&chanQueue{}, &memStore{}, 5, time.Second, logger)
	h := Router(svc, logger, []string{"https://stats.example"})

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	req.Header.Set("Origin", "https://stats.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "https://stats.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/stats", nil)
	req.Header.Set("Origin", "https://elsewhere.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
