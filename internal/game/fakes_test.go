package game

import (
	"context"
	"errors"
	"sync"

	"github.com/jason-s-yu/colortrick/internal/models"
)

var errScriptDone = errors.New("script exhausted")

// scriptedInput answers prompts from fixed queues.
type scriptedInput struct {
	colors  []models.Color
	ints    []int
	prompts []string
}

func (s *scriptedInput) RequestColorChoice(prompt string) (models.Color, error) {
	s.prompts = append(s.prompts, prompt)
	if len(s.colors) == 0 {
		return 0, errScriptDone
	}
	c := s.colors[0]
	s.colors = s.colors[1:]
	return c, nil
}

func (s *scriptedInput) RequestInteger(prompt string, min, max int) (int, error) {
	s.prompts = append(s.prompts, prompt)
	if len(s.ints) == 0 {
		return 0, errScriptDone
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v, nil
}

// cyclingInput always picks the same round color and walks through card positions,
// so every rejected choice is followed by the next position until one is legal.
type cyclingInput struct {
	color models.Color
	k     int
}

func (c *cyclingInput) RequestColorChoice(string) (models.Color, error) {
	return c.color, nil
}

func (c *cyclingInput) RequestInteger(_ string, min, max int) (int, error) {
	v := min + c.k%(max-min+1)
	c.k++
	return v, nil
}

// recordingDisplay collects what the engine shows instead of rendering it.
type recordingDisplay struct {
	mu sync.Mutex

	initialHands int
	roundStarts  []int
	scoreHistory [][]int
	invalid      []error
	skipped      []string
	plays        []models.Card
	winners      []string
	standings    *Standings
	historyErr   error
	historyShown bool
}

func (d *recordingDisplay) ShowInitialHands([]*models.Player) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.initialHands++
}

func (d *recordingDisplay) ShowRoundStart(round, _ int, _ *models.Player) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.roundStarts = append(d.roundStarts, round)
}

func (d *recordingDisplay) ShowStatus(players []*models.Player) {
	d.mu.Lock()
	defer d.mu.Unlock()
	scores := make([]int, 0, len(players)*2)
	for _, p := range players {
		scores = append(scores, p.Score, p.RoundsWon)
	}
	d.scoreHistory = append(d.scoreHistory, scores)
}

func (d *recordingDisplay) ShowTurn(*models.Player, models.Color, bool) {}

func (d *recordingDisplay) ShowHand(*models.Player) {}

func (d *recordingDisplay) ShowInvalidPlay(_ *models.Player, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.invalid = append(d.invalid, err)
}

func (d *recordingDisplay) ShowPlay(_ *models.Player, c models.Card) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.plays = append(d.plays, c)
}

func (d *recordingDisplay) ShowSkip(p *models.Player) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.skipped = append(d.skipped, p.Name)
}

func (d *recordingDisplay) ShowRoundOutcome(winner *models.Player, _ int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	name := ""
	if winner != nil {
		name = winner.Name
	}
	d.winners = append(d.winners, name)
}

func (d *recordingDisplay) ShowFinalStandings(s Standings) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.standings = &s
}

func (d *recordingDisplay) ShowHistoryResult(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.historyShown = true
	d.historyErr = err
}

type recordingHistory struct {
	summaries []models.GameSummary
	err       error
}

func (h *recordingHistory) AppendGameSummary(_ context.Context, s models.GameSummary) error {
	if h.err != nil {
		return h.err
	}
	h.summaries = append(h.summaries, s)
	return nil
}

// seat builds a player holding exactly the given cards.
func seat(name string, cards ...models.Card) *models.Player {
	p := models.NewPlayer(name)
	for _, c := range cards {
		p.RecordDeal(c)
	}
	return p
}

func card(c models.Color, n int) models.Card {
	return models.Card{Color: c, Number: n}
}
