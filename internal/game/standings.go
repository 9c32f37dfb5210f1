package game

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/colortrick/internal/models"
)

// Standings is the final ranking. Exactly one of Winner and TieGroup is set for a
// non-empty table.
type Standings struct {
	Ranked   []*models.Player
	Winner   *models.Player
	TieGroup []*models.Player
}

func (s Standings) IsTie() bool { return len(s.TieGroup) > 0 }

// ComputeStandings ranks players by score, highest first. Equal scores keep seating order.
// When the top two scores are equal every player on the top score is in the tie group.
func ComputeStandings(players []*models.Player) Standings {
	ranked := make([]*models.Player, len(players))
	copy(ranked, players)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	s := Standings{Ranked: ranked}
	switch {
	case len(ranked) == 0:
	case len(ranked) > 1 && ranked[0].Score == ranked[1].Score:
		for _, p := range ranked {
			if p.Score != ranked[0].Score {
				break
			}
			s.TieGroup = append(s.TieGroup, p)
		}
	default:
		s.Winner = ranked[0]
	}
	return s
}

// Summary builds the history record for a finished game.
func (s Standings) Summary(gameID uuid.UUID, finishedAt time.Time) models.GameSummary {
	sum := models.GameSummary{
		GameID:     gameID,
		FinishedAt: finishedAt,
		Players:    make([]models.PlayerResult, 0, len(s.Ranked)),
		Tie:        s.IsTie(),
	}
	for _, p := range s.Ranked {
		sum.Players = append(sum.Players, models.PlayerResult{
			Name:      p.Name,
			Score:     p.Score,
			RoundsWon: p.RoundsWon,
		})
	}
	if s.Winner != nil {
		sum.Winners = []string{s.Winner.Name}
	}
	for _, p := range s.TieGroup {
		sum.Winners = append(sum.Winners, p.Name)
	}
	return sum
}
