// internal/game/game.go
package game

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/colortrick/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	MinPlayers = 2
	MaxPlayers = 4
)

// Collaborators are the I/O seams of a game. Input is required; a nil Display or History
// is replaced with one that does nothing.
type Collaborators struct {
	Input   InputSource
	Display DisplaySink
	History HistorySink
}

// Result is returned by a completed Run.
type Result struct {
	Standings Standings
	Summary   models.GameSummary
	Rounds    []RoundResult
	// HistoryErr is set when the summary could not be persisted. The result still stands.
	HistoryErr error
}

// Game holds the entire state for a single game. It is not safe for concurrent use.
type Game struct {
	ID      uuid.UUID
	Players []*models.Player
	Deck    *Deck

	CurrentRound        int
	TotalRounds         int
	StartingPlayerIndex int

	input   InputSource
	display DisplaySink
	history HistorySink
	log     *logrus.Entry
	now     func() time.Time

	dealt    bool
	finished bool
	aborted  bool
}

// NewGame seats one player per name. Names must be non-empty and distinct. A nil deck
// is a freshly shuffled one.
func NewGame(names []string, deck *Deck, c Collaborators, logger *logrus.Logger) (*Game, error) {
	if len(names) < MinPlayers || len(names) > MaxPlayers {
		return nil, &ValidationError{
			Field:  "player count",
			Reason: fmt.Sprintf("%d players, need %d to %d", len(names), MinPlayers, MaxPlayers),
		}
	}
	if c.Input == nil {
		return nil, errors.New("game: input source is required")
	}
	if c.Display == nil {
		c.Display = nopDisplay{}
	}
	if c.History == nil {
		c.History = nopHistory{}
	}
	if deck == nil {
		deck = NewDeck(nil)
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	// Names identify players in the history and the leaderboard, so they must be unique.
	players := make([]*models.Player, 0, len(names))
	seen := make(map[string]bool, len(names))
	for i, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, &ValidationError{Field: "player name", Reason: fmt.Sprintf("player %d has an empty name", i+1)}
		}
		if seen[name] {
			return nil, &ValidationError{Field: "player name", Reason: fmt.Sprintf("%q is taken by another player", name)}
		}
		seen[name] = true
		players = append(players, models.NewPlayer(name))
	}

	id := uuid.New()
	return &Game{
		ID:          id,
		Players:     players,
		Deck:        deck,
		TotalRounds: DeckSize / len(players),
		input:       c.Input,
		display:     c.Display,
		history:     c.History,
		log:         logger.WithField("game_id", id),
		now:         time.Now,
	}, nil
}

// Deal hands out DeckSize/len(Players) cards to each player, one per player per pass.
// Leftover cards stay in the deck for the rest of the game.
func (g *Game) Deal() error {
	if g.dealt {
		return ErrAlreadyDealt
	}
	perPlayer := DeckSize / len(g.Players)
	for pass := 0; pass < perPlayer; pass++ {
		for _, p := range g.Players {
			card, err := g.Deck.Draw()
			if err != nil {
				g.aborted = true
				return fmt.Errorf("deal pass %d to %s: %w", pass+1, p.Name, err)
			}
			p.RecordDeal(card)
		}
	}
	g.dealt = true
	g.log.WithFields(logrus.Fields{
		"players":   len(g.Players),
		"per_hand":  perPlayer,
		"left_over": g.Deck.Remaining(),
	}).Debug("cards dealt")
	return nil
}

// Run plays every round and reports the standings. Any returned error ends the game for
// good; a history failure does not, and is reported in Result.HistoryErr instead.
func (g *Game) Run(ctx context.Context) (*Result, error) {
	switch {
	case g.aborted:
		return nil, ErrGameAborted
	case g.finished:
		return nil, ErrGameFinished
	}
	if !g.dealt {
		if err := g.Deal(); err != nil {
			return nil, err
		}
	}

	g.display.ShowInitialHands(g.Players)
	rounds := NewRoundEngine(g.Players, g.input, g.display, g.log)
	res := &Result{Rounds: make([]RoundResult, 0, g.TotalRounds)}

	for round := 1; round <= g.TotalRounds; round++ {
		g.CurrentRound = round
		g.display.ShowRoundStart(round, g.TotalRounds, g.Players[g.StartingPlayerIndex])
		rr, err := rounds.Play(round, g.StartingPlayerIndex)
		if err != nil {
			g.aborted = true
			g.log.WithError(err).WithField("round", round).Error("game aborted")
			return nil, fmt.Errorf("round %d: %w", round, err)
		}
		res.Rounds = append(res.Rounds, *rr)
		g.StartingPlayerIndex = rr.NextStartingIndex
	}
	g.finished = true

	res.Standings = ComputeStandings(g.Players)
	res.Summary = res.Standings.Summary(g.ID, g.now())
	g.display.ShowFinalStandings(res.Standings)
	g.log.WithFields(logrus.Fields{"winners": res.Summary.Winners, "tie": res.Summary.Tie}).Info("game finished")

	if err := g.history.AppendGameSummary(ctx, res.Summary); err != nil {
		var perr *PersistenceError
		if !errors.As(err, &perr) {
			perr = &PersistenceError{Sink: "history", Err: err}
		}
		res.HistoryErr = perr
		g.log.WithError(perr).Error("failed to save game history")
	}
	g.display.ShowHistoryResult(res.HistoryErr)
	return res, nil
}
