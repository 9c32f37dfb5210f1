package game

import (
	"errors"
	"fmt"

	"github.com/jason-s-yu/colortrick/internal/models"
)

// Contract violations. These mean the engine itself is broken, not that a player made a
// mistake, and they abort the current game.
var (
	ErrEmptyDeck    = errors.New("draw from empty deck")
	ErrAlreadyDealt = errors.New("cards already dealt")
)

var (
	ErrGameAborted  = errors.New("game aborted after a fatal error")
	ErrGameFinished = errors.New("game already finished")
)

// ValidationError describes a rejected player input. It is shown to the player and the
// prompt is repeated; it never leaves the round.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// PersistenceError wraps a failure to append the game summary to a history sink.
type PersistenceError struct {
	Sink string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist game summary to %s: %v", e.Sink, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// IsContractViolation reports whether err signals an engine bug rather than bad input or
// an unavailable collaborator.
func IsContractViolation(err error) bool {
	return errors.Is(err, ErrEmptyDeck) ||
		errors.Is(err, ErrAlreadyDealt) ||
		errors.Is(err, models.ErrInvalidIndex)
}
