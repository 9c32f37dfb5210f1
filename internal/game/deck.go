package game

import (
	"math/rand"
	"time"

	"github.com/jason-s-yu/colortrick/internal/models"
)

// DeckSize is the number of distinct cards: one per (color, number) pair.
const DeckSize = len(models.Colors) * (models.MaxNumber - models.MinNumber + 1)

// ShuffleFunc reorders cards in place.
type ShuffleFunc func(cards []models.Card)

// RandomShuffle returns a uniform Fisher-Yates shuffle. A zero seed uses the clock.
func RandomShuffle(seed int64) ShuffleFunc {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	r := rand.New(rand.NewSource(seed))
	return func(cards []models.Card) {
		for i := len(cards) - 1; i > 0; i-- {
			j := r.Intn(i + 1)
			cards[i], cards[j] = cards[j], cards[i]
		}
	}
}

// NoShuffle leaves the deck in building order (Red 1 first, Green 9 last).
func NoShuffle([]models.Card) {}

// Deck is the draw pile. Cards are drawn from the end.
type Deck struct {
	cards []models.Card
	drawn int
}

// NewDeck builds the full 36-card deck and shuffles it once. A nil shuffle is random.
func NewDeck(shuffle ShuffleFunc) *Deck {
	cards := make([]models.Card, 0, DeckSize)
	for _, c := range models.Colors {
		for n := models.MinNumber; n <= models.MaxNumber; n++ {
			cards = append(cards, models.Card{Color: c, Number: n})
		}
	}
	if shuffle == nil {
		shuffle = RandomShuffle(0)
	}
	shuffle(cards)
	return &Deck{cards: cards}
}

// Draw removes and returns the top card.
func (d *Deck) Draw() (models.Card, error) {
	if len(d.cards) == 0 {
		return models.Card{}, ErrEmptyDeck
	}
	last := len(d.cards) - 1
	c := d.cards[last]
	d.cards = d.cards[:last]
	d.drawn++
	return c, nil
}

func (d *Deck) IsEmpty() bool  { return len(d.cards) == 0 }
func (d *Deck) Remaining() int { return len(d.cards) }
func (d *Deck) Drawn() int     { return d.drawn }

// Cards returns a copy of the undrawn cards, bottom first.
func (d *Deck) Cards() []models.Card {
	out := make([]models.Card, len(d.cards))
	copy(out, d.cards)
	return out
}
