package game

import (
	"testing"

	"github.com/jason-s-yu/colortrick/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLog() *logrus.Entry {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(l)
}

func TestDetermineWinner(t *testing.T) {
	tests := []struct {
		name   string
		color  models.Color
		plays  []Play
		want   int
		wantOK bool
	}{
		{
			name:  "highest of round color wins",
			color: models.Red,
			plays: []Play{
				{PlayerIndex: 0, Card: card(models.Red, 3)},
				{PlayerIndex: 1, Card: card(models.Red, 8)},
				{PlayerIndex: 2, Card: card(models.Red, 5)},
			},
			want: 1, wantOK: true,
		},
		{
			name:  "off-color high card does not count",
			color: models.Blue,
			plays: []Play{
				{PlayerIndex: 2, Card: card(models.Green, 9)},
				{PlayerIndex: 3, Card: card(models.Blue, 1)},
			},
			want: 3, wantOK: true,
		},
		{
			name:  "nobody followed",
			color: models.Yellow,
			plays: []Play{
				{PlayerIndex: 0, Card: card(models.Green, 9)},
				{PlayerIndex: 1, Card: card(models.Red, 9)},
			},
			wantOK: false,
		},
		{
			name:   "no plays",
			color:  models.Yellow,
			wantOK: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DetermineWinner(tt.color, tt.plays)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got.PlayerIndex)
				assert.Equal(t, tt.color, got.Card.Color)
			}
		})
	}
}

// Four players; A leads Red without holding any, B first tries an off-color card.
func TestRoundFourPlayerScenario(t *testing.T) {
	a := seat("A", card(models.Blue, 3), card(models.Green, 1))
	b := seat("B", card(models.Red, 5), card(models.Blue, 1))
	c := seat("C", card(models.Red, 7), card(models.Yellow, 2))
	d := seat("D", card(models.Yellow, 9), card(models.Green, 2))
	players := []*models.Player{a, b, c, d}

	in := &scriptedInput{
		colors: []models.Color{models.Red},
		ints:   []int{1, 2, 1, 1, 1},
	}
	disp := &recordingDisplay{}
	r := NewRoundEngine(players, in, disp, quietLog())

	res, err := r.Play(1, 0)
	require.NoError(t, err)

	assert.Equal(t, models.Red, res.Color)
	assert.Equal(t, []Play{
		{PlayerIndex: 0, Card: card(models.Blue, 3)},
		{PlayerIndex: 1, Card: card(models.Red, 5)},
		{PlayerIndex: 2, Card: card(models.Red, 7)},
		{PlayerIndex: 3, Card: card(models.Yellow, 9)},
	}, res.Plays)
	assert.Equal(t, 2, res.WinnerIndex)
	assert.Equal(t, 4, res.Points)
	assert.Equal(t, 1, res.NextStartingIndex)

	assert.Equal(t, 4, c.Score)
	assert.Equal(t, 1, c.RoundsWon)
	for _, p := range []*models.Player{a, b, d} {
		assert.Zero(t, p.Score, p.Name)
		assert.Zero(t, p.RoundsWon, p.Name)
	}
	for _, p := range players {
		assert.Equal(t, 1, p.Hand.Len(), p.Name)
	}

	require.Len(t, disp.invalid, 1)
	var verr *ValidationError
	require.ErrorAs(t, disp.invalid[0], &verr)
	assert.Equal(t, "card", verr.Field)
	assert.Equal(t, []string{"C"}, disp.winners)
	assert.Empty(t, in.ints, "every scripted answer should be consumed")
}

func TestRoundRejectsOutOfRangeAndInvalidColor(t *testing.T) {
	a := seat("A", card(models.Red, 1), card(models.Red, 2))
	b := seat("B", card(models.Blue, 4))
	in := &scriptedInput{
		colors: []models.Color{models.Color(12), models.Red},
		ints:   []int{0, 3, 2, 1},
	}
	disp := &recordingDisplay{}
	r := NewRoundEngine([]*models.Player{a, b}, in, disp, quietLog())

	res, err := r.Play(1, 0)
	require.NoError(t, err)
	assert.Len(t, disp.invalid, 3)
	assert.Equal(t, card(models.Red, 2), res.Plays[0].Card)
	assert.Equal(t, 0, res.WinnerIndex)
	assert.Equal(t, 2, a.Score)
}

func TestRoundNobodyWins(t *testing.T) {
	a := seat("A", card(models.Blue, 9))
	b := seat("B", card(models.Yellow, 9))
	c := seat("C", card(models.Red, 9))
	in := &scriptedInput{colors: []models.Color{models.Green}, ints: []int{1, 1, 1}}
	disp := &recordingDisplay{}
	r := NewRoundEngine([]*models.Player{a, b, c}, in, disp, quietLog())

	res, err := r.Play(3, 2)
	require.NoError(t, err)
	assert.Equal(t, -1, res.WinnerIndex)
	assert.Zero(t, res.Points)
	assert.Equal(t, 0, res.NextStartingIndex)
	for _, p := range []*models.Player{a, b, c} {
		assert.Zero(t, p.Score)
		assert.True(t, p.Hand.IsEmpty())
	}
	assert.Equal(t, []string{""}, disp.winners)
}

func TestRoundSkipsEmptyHands(t *testing.T) {
	a := seat("A", card(models.Red, 2))
	b := seat("B")
	c := seat("C", card(models.Red, 6))
	in := &scriptedInput{colors: []models.Color{models.Red}, ints: []int{1, 1}}
	disp := &recordingDisplay{}
	r := NewRoundEngine([]*models.Player{a, b, c}, in, disp, quietLog())

	res, err := r.Play(1, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, disp.skipped)
	require.Len(t, res.Plays, 2)
	assert.Equal(t, 2, res.Plays[0].PlayerIndex)
	assert.Equal(t, 0, res.Plays[1].PlayerIndex)
	assert.Equal(t, 2, res.WinnerIndex)
	assert.Equal(t, 3, c.Score)
	assert.Equal(t, 2, res.NextStartingIndex)
}

func TestRoundRotationOrder(t *testing.T) {
	players := []*models.Player{
		seat("A", card(models.Red, 1)),
		seat("B", card(models.Red, 2)),
		seat("C", card(models.Red, 3)),
		seat("D", card(models.Red, 4)),
	}
	in := &scriptedInput{colors: []models.Color{models.Red}, ints: []int{1, 1, 1, 1}}
	r := NewRoundEngine(players, in, nil, quietLog())

	res, err := r.Play(1, 3)
	require.NoError(t, err)
	order := make([]int, 0, len(res.Plays))
	for _, pl := range res.Plays {
		order = append(order, pl.PlayerIndex)
	}
	assert.Equal(t, []int{3, 0, 1, 2}, order)
	assert.Equal(t, 0, res.NextStartingIndex)
	assert.Equal(t, 3, res.WinnerIndex)
	assert.Equal(t, "D, choose the round color (Red/Blue/Yellow/Green): ", in.prompts[0])
}

func TestRoundInputClosed(t *testing.T) {
	a := seat("A", card(models.Red, 1))
	b := seat("B", card(models.Blue, 1))
	in := &scriptedInput{colors: []models.Color{models.Red}, ints: []int{1}}
	r := NewRoundEngine([]*models.Player{a, b}, in, nil, quietLog())

	_, err := r.Play(1, 0)
	assert.ErrorIs(t, err, errScriptDone)
	assert.False(t, IsContractViolation(err))
}

func TestRoundBadStartingIndex(t *testing.T) {
	r := NewRoundEngine([]*models.Player{seat("A"), seat("B")}, &scriptedInput{}, nil, quietLog())
	_, err := r.Play(1, 2)
	assert.ErrorIs(t, err, models.ErrInvalidIndex)
	assert.True(t, IsContractViolation(err))
}

func TestCheckChoiceFollowRule(t *testing.T) {
	h := seat("A", card(models.Blue, 1), card(models.Red, 4)).Hand

	assert.Nil(t, checkChoice(h, 2, models.Red, true))
	assert.NotNil(t, checkChoice(h, 1, models.Red, true))
	assert.Nil(t, checkChoice(h, 1, models.Green, false))
	assert.NotNil(t, checkChoice(h, 3, models.Green, false))
}

func TestRoundPhaseString(t *testing.T) {
	assert.Equal(t, "awaiting_color", PhaseAwaitingColor.String())
	assert.Equal(t, "collecting_plays", PhaseCollectingPlays.String())
	assert.Equal(t, "resolved", PhaseResolved.String())
}
