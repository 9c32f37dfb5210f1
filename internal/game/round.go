package game

import (
	"fmt"

	"github.com/jason-s-yu/colortrick/internal/models"
	"github.com/sirupsen/logrus"
)

// RoundPhase is the state of a round in progress.
type RoundPhase int

const (
	PhaseAwaitingColor RoundPhase = iota
	PhaseCollectingPlays
	PhaseResolved
)

func (p RoundPhase) String() string {
	switch p {
	case PhaseAwaitingColor:
		return "awaiting_color"
	case PhaseCollectingPlays:
		return "collecting_plays"
	case PhaseResolved:
		return "resolved"
	default:
		return fmt.Sprintf("RoundPhase(%d)", int(p))
	}
}

// Play is a card put down by the player at PlayerIndex.
type Play struct {
	PlayerIndex int         `json:"player_index"`
	Card        models.Card `json:"card"`
}

// RoundState is built fresh for each round and discarded after scoring.
type RoundState struct {
	Number              int
	Color               models.Color
	StartingPlayerIndex int
	Plays               []Play
	Phase               RoundPhase
}

// RoundResult is what a resolved round leaves behind.
type RoundResult struct {
	Number              int          `json:"number"`
	Color               models.Color `json:"color"`
	StartingPlayerIndex int          `json:"starting_player_index"`
	Plays               []Play       `json:"plays"`
	// WinnerIndex is -1 when no play matched the round color.
	WinnerIndex       int `json:"winner_index"`
	Points            int `json:"points"`
	NextStartingIndex int `json:"next_starting_index"`
}

// DetermineWinner returns the play of the round color with the highest number.
// The deck holds each (color, number) once, so there is never a tie.
func DetermineWinner(color models.Color, plays []Play) (Play, bool) {
	var best Play
	found := false
	for _, pl := range plays {
		if pl.Card.Color != color {
			continue
		}
		if !found || pl.Card.Number > best.Card.Number {
			best = pl
			found = true
		}
	}
	return best, found
}

// RoundEngine runs one round at a time over a fixed set of players.
type RoundEngine struct {
	players []*models.Player
	input   InputSource
	display DisplaySink
	log     *logrus.Entry
}

func NewRoundEngine(players []*models.Player, input InputSource, display DisplaySink, log *logrus.Entry) *RoundEngine {
	if display == nil {
		display = nopDisplay{}
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &RoundEngine{players: players, input: input, display: display, log: log}
}

// Play runs round number with the given starting player: color choice, one turn per
// player in rotation, and scoring. Invalid inputs are re-prompted here and never
// returned; any returned error is fatal to the game.
func (r *RoundEngine) Play(number, start int) (*RoundResult, error) {
	n := len(r.players)
	if start < 0 || start >= n {
		return nil, fmt.Errorf("starting player %d of %d: %w", start, n, models.ErrInvalidIndex)
	}
	state := &RoundState{Number: number, StartingPlayerIndex: start, Phase: PhaseAwaitingColor}
	log := r.log.WithField("round", number)

	color, err := r.chooseColor(r.players[start])
	if err != nil {
		return nil, err
	}
	state.Color = color
	state.Phase = PhaseCollectingPlays
	log.WithFields(logrus.Fields{"color": color, "chooser": r.players[start].Name}).Debug("round color chosen")

	r.display.ShowStatus(r.players)

	for i := 0; i < n; i++ {
		idx := (start + i) % n
		p := r.players[idx]
		if p.Hand.IsEmpty() {
			r.display.ShowSkip(p)
			log.WithField("player", p.Name).Debug("skipped, no cards")
			continue
		}
		card, err := r.takeTurn(p, color)
		if err != nil {
			return nil, err
		}
		state.Plays = append(state.Plays, Play{PlayerIndex: idx, Card: card})
		log.WithFields(logrus.Fields{"player": p.Name, "card": card}).Debug("card played")
	}

	state.Phase = PhaseResolved
	return r.resolve(state, log), nil
}

func (r *RoundEngine) chooseColor(p *models.Player) (models.Color, error) {
	prompt := fmt.Sprintf("%s, choose the round color (Red/Blue/Yellow/Green): ", p.Name)
	for {
		c, err := r.input.RequestColorChoice(prompt)
		if err != nil {
			return 0, fmt.Errorf("round color from %s: %w", p.Name, err)
		}
		if c.Valid() {
			return c, nil
		}
		r.display.ShowInvalidPlay(p, &ValidationError{Field: "color", Reason: c.String() + " is not a card color"})
	}
}

func (r *RoundEngine) takeTurn(p *models.Player, color models.Color) (models.Card, error) {
	mustFollow := p.Hand.HasColor(color)
	r.display.ShowTurn(p, color, mustFollow)
	r.display.ShowHand(p)

	for {
		size := p.Hand.Len()
		prompt := fmt.Sprintf("%s, choose a card to play (1-%d): ", p.Name, size)
		choice, err := r.input.RequestInteger(prompt, 1, size)
		if err != nil {
			return models.Card{}, fmt.Errorf("card choice from %s: %w", p.Name, err)
		}
		if verr := checkChoice(p.Hand, choice, color, mustFollow); verr != nil {
			r.display.ShowInvalidPlay(p, verr)
			continue
		}
		card, err := p.Hand.RemoveAt(choice - 1)
		if err != nil {
			return models.Card{}, fmt.Errorf("play for %s: %w", p.Name, err)
		}
		r.display.ShowPlay(p, card)
		r.display.ShowHand(p)
		return card, nil
	}
}

// checkChoice validates a 1-based card choice against the follow rule.
func checkChoice(h *models.Hand, choice int, color models.Color, mustFollow bool) *ValidationError {
	if choice < 1 || choice > h.Len() {
		return &ValidationError{Field: "card", Reason: fmt.Sprintf("choose between 1 and %d", h.Len())}
	}
	card, err := h.At(choice - 1)
	if err != nil {
		return &ValidationError{Field: "card", Reason: err.Error()}
	}
	if mustFollow && card.Color != color {
		return &ValidationError{Field: "card", Reason: fmt.Sprintf("you must play a %s card", color)}
	}
	return nil
}

func (r *RoundEngine) resolve(state *RoundState, log *logrus.Entry) *RoundResult {
	n := len(r.players)
	res := &RoundResult{
		Number:              state.Number,
		Color:               state.Color,
		StartingPlayerIndex: state.StartingPlayerIndex,
		Plays:               state.Plays,
		WinnerIndex:         -1,
		NextStartingIndex:   (state.StartingPlayerIndex + 1) % n,
	}

	win, ok := DetermineWinner(state.Color, state.Plays)
	if !ok {
		r.display.ShowRoundOutcome(nil, 0)
		log.Info("nobody followed the round color")
		return res
	}

	winner := r.players[win.PlayerIndex]
	res.WinnerIndex = win.PlayerIndex
	res.Points = n
	winner.AddRoundPoints(n)
	r.display.ShowRoundOutcome(winner, n)
	log.WithFields(logrus.Fields{"winner": winner.Name, "card": win.Card, "points": n}).Info("round won")
	return res
}
