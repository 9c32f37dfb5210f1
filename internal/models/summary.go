package models

import (
	"time"

	"github.com/google/uuid"
)

// PlayerResult is one line of a finished game's record.
type PlayerResult struct {
	Name      string `json:"name"`
	Score     int    `json:"score"`
	RoundsWon int    `json:"rounds_won"`
}

// GameSummary is the single history record written when a game completes.
// Players are in standings order.
type GameSummary struct {
	GameID     uuid.UUID      `json:"game_id"`
	FinishedAt time.Time      `json:"finished_at"`
	Players    []PlayerResult `json:"players"`
	Winners    []string       `json:"winners"`
	Tie        bool           `json:"tie"`
}
