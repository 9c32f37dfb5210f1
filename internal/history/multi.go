package history

import (
	"context"
	"errors"
	"strings"

	"github.com/jason-s-yu/colortrick/internal/game"
	"github.com/jason-s-yu/colortrick/internal/models"
)

// Multi writes to every sink in order. A failing sink does not stop the others.
type Multi []game.HistorySink

func (m Multi) AppendGameSummary(ctx context.Context, s models.GameSummary) error {
	var (
		errs  []error
		sinks []string
	)
	for _, sink := range m {
		err := sink.AppendGameSummary(ctx, s)
		if err == nil {
			continue
		}
		var perr *game.PersistenceError
		if !errors.As(err, &perr) {
			perr = &game.PersistenceError{Sink: "history", Err: err}
		}
		errs = append(errs, perr)
		sinks = append(sinks, perr.Sink)
	}
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return &game.PersistenceError{Sink: strings.Join(sinks, ", "), Err: errors.Join(errs...)}
	}
}
