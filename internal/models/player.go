package models

import "github.com/google/uuid"

// Player is a seat at the table: identity, hand, and running totals.
type Player struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Hand *Hand     `json:"-"`

	// InitialHand is the hand as dealt. It is never modified after dealing.
	InitialHand []Card `json:"initialHand"`

	Score     int `json:"score"`
	RoundsWon int `json:"roundsWon"`
}

func NewPlayer(name string) *Player {
	return &Player{
		ID:   uuid.New(),
		Name: name,
		Hand: &Hand{},
	}
}

// RecordDeal gives the player a freshly dealt card.
func (p *Player) RecordDeal(c Card) {
	p.Hand.add(c)
	p.InitialHand = append(p.InitialHand, c)
}

// AddRoundPoints credits a round win worth n points. Non-positive n is ignored.
func (p *Player) AddRoundPoints(n int) {
	if n <= 0 {
		return
	}
	p.Score += n
	p.RoundsWon++
}
