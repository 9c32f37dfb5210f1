package game

import (
	"context"

	"github.com/jason-s-yu/colortrick/internal/models"
)

// InputSource supplies player decisions. Implementations re-prompt until the value is
// well formed; an error means no more input will ever arrive.
type InputSource interface {
	RequestInteger(prompt string, min, max int) (int, error)
	RequestColorChoice(prompt string) (models.Color, error)
}

// DisplaySink renders game progress. It never fails the engine.
type DisplaySink interface {
	ShowInitialHands(players []*models.Player)
	ShowRoundStart(round, total int, chooser *models.Player)
	ShowStatus(players []*models.Player)
	ShowTurn(p *models.Player, roundColor models.Color, mustFollow bool)
	ShowHand(p *models.Player)
	ShowInvalidPlay(p *models.Player, err error)
	ShowPlay(p *models.Player, card models.Card)
	ShowSkip(p *models.Player)
	// ShowRoundOutcome receives a nil winner when nobody followed the round color.
	ShowRoundOutcome(winner *models.Player, points int)
	ShowFinalStandings(s Standings)
	ShowHistoryResult(err error)
}

// HistorySink appends one record per completed game.
type HistorySink interface {
	AppendGameSummary(ctx context.Context, summary models.GameSummary) error
}

type nopDisplay struct{}

func (nopDisplay) ShowInitialHands([]*models.Player)           {}
func (nopDisplay) ShowRoundStart(int, int, *models.Player)     {}
func (nopDisplay) ShowStatus([]*models.Player)                 {}
func (nopDisplay) ShowTurn(*models.Player, models.Color, bool) {}
func (nopDisplay) ShowHand(*models.Player)                     {}
func (nopDisplay) ShowInvalidPlay(*models.Player, error)       {}
func (nopDisplay) ShowPlay(*models.Player, models.Card)        {}
func (nopDisplay) ShowSkip(*models.Player)                     {}
func (nopDisplay) ShowRoundOutcome(*models.Player, int)        {}
func (nopDisplay) ShowFinalStandings(Standings)                {}
func (nopDisplay) ShowHistoryResult(error)                     {}

type nopHistory struct{}

func (nopHistory) AppendGameSummary(context.Context, models.GameSummary) error { return nil }
