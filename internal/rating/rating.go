package rating

import (
	"math"
	"sort"

	"github.com/jason-s-yu/colortrick/internal/models"
)

// Entry is one row of the leaderboard.
type Entry struct {
	Name      string  `json:"name"`
	Rating    int     `json:"rating"`
	Deviation float64 `json:"deviation"`
	Games     int     `json:"games"`
	Wins      int     `json:"wins"`
}

// placement turns final scores into fractions in [0, 1]: the best score gets 1, the
// worst 0, and tied players share the average of the places they occupy.
func placement(results []models.PlayerResult) []float64 {
	order := make([]int, len(results))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return results[order[a]].Score > results[order[b]].Score
	})

	fracs := make([]float64, len(results))
	last := float64(len(results) - 1)
	for i := 0; i < len(order); {
		j := i + 1
		for j < len(order) && results[order[j]].Score == results[order[i]].Score {
			j++
		}
		avg := float64(i+j-1) / 2
		for k := i; k < j; k++ {
			fracs[order[k]] = 1 - avg/last
		}
		i = j
	}
	return fracs
}

func repeatsName(results []models.PlayerResult) bool {
	seen := make(map[string]bool, len(results))
	for _, p := range results {
		if seen[p.Name] {
			return true
		}
		seen[p.Name] = true
	}
	return false
}

// Leaderboard replays games oldest first, rating players by name. Games with fewer
// than two players, or with a name seated twice, are ignored.
func Leaderboard(games []models.GameSummary) []Entry {
	replay := make([]models.GameSummary, len(games))
	copy(replay, games)
	sort.SliceStable(replay, func(i, j int) bool {
		return replay[i].FinishedAt.Before(replay[j].FinishedAt)
	})

	ratings := make(map[string]Glicko2Rating)
	entries := make(map[string]*Entry)
	for _, game := range replay {
		if len(game.Players) < 2 || repeatsName(game.Players) {
			continue
		}
		current := make([]Glicko2Rating, len(game.Players))
		for i, p := range game.Players {
			r, ok := ratings[p.Name]
			if !ok {
				r = Initial()
			}
			current[i] = r
		}
		updated := UpdateGroup(current, placement(game.Players))

		winners := make(map[string]bool, len(game.Winners))
		for _, w := range game.Winners {
			winners[w] = true
		}
		for i, p := range game.Players {
			ratings[p.Name] = updated[i]
			e, ok := entries[p.Name]
			if !ok {
				e = &Entry{Name: p.Name}
				entries[p.Name] = e
			}
			e.Games++
			if winners[p.Name] {
				e.Wins++
			}
		}
	}

	board := make([]Entry, 0, len(entries))
	for name, e := range entries {
		r := ratings[name]
		e.Rating = int(math.Round(r.Elo()))
		e.Deviation = math.Round(r.Deviation()*10) / 10
		board = append(board, *e)
	}
	sort.Slice(board, func(i, j int) bool {
		if board[i].Rating != board[j].Rating {
			return board[i].Rating > board[j].Rating
		}
		return board[i].Name < board[j].Name
	})
	return board
}
