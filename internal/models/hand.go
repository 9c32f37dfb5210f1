package models

import (
	"errors"
	"fmt"
)

// ErrInvalidIndex is returned when a hand position is outside [0, len).
var ErrInvalidIndex = errors.New("hand index out of range")

// Hand is the ordered set of cards a single player holds.
type Hand struct {
	cards []Card
}

func (h *Hand) Len() int {
	return len(h.cards)
}

func (h *Hand) IsEmpty() bool {
	return len(h.cards) == 0
}

// At returns the card at the 0-based position without removing it.
func (h *Hand) At(pos int) (Card, error) {
	if pos < 0 || pos >= len(h.cards) {
		return Card{}, fmt.Errorf("position %d of %d: %w", pos, len(h.cards), ErrInvalidIndex)
	}
	return h.cards[pos], nil
}

// Cards returns a copy of the hand in display order.
func (h *Hand) Cards() []Card {
	out := make([]Card, len(h.cards))
	copy(out, h.cards)
	return out
}

// HasColor reports whether any card in the hand has the given color.
func (h *Hand) HasColor(c Color) bool {
	for _, card := range h.cards {
		if card.Color == c {
			return true
		}
	}
	return false
}

// RemoveAt removes and returns the card at the 0-based position.
func (h *Hand) RemoveAt(pos int) (Card, error) {
	card, err := h.At(pos)
	if err != nil {
		return Card{}, err
	}
	h.cards = append(h.cards[:pos], h.cards[pos+1:]...)
	return card, nil
}

func (h *Hand) add(c Card) {
	h.cards = append(h.cards, c)
}
