package history

import (
	"context"

	"github.com/jason-s-yu/colortrick/internal/game"
	"github.com/jason-s-yu/colortrick/internal/models"
)

// Recorder is satisfied by *database.DB.
type Recorder interface {
	RecordGameSummary(ctx context.Context, s models.GameSummary) error
}

// PostgresSink writes summaries straight to the history database.
type PostgresSink struct {
	DB Recorder
}

func (p *PostgresSink) AppendGameSummary(ctx context.Context, s models.GameSummary) error {
	if err := p.DB.RecordGameSummary(ctx, s); err != nil {
		return &game.PersistenceError{Sink: "postgres", Err: err}
	}
	return nil
}
