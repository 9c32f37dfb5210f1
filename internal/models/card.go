package models

import (
	"fmt"
	"strings"
)

// Color is one of the four card colors. The set is closed.
type Color int

const (
	Red Color = iota
	Blue
	Yellow
	Green
)

// Card numbers run from MinNumber to MaxNumber inclusive in every color.
const (
	MinNumber = 1
	MaxNumber = 9
)

// Colors lists every color in deck-building order.
var Colors = [...]Color{Red, Blue, Yellow, Green}

var colorNames = map[Color]string{
	Red:    "Red",
	Blue:   "Blue",
	Yellow: "Yellow",
	Green:  "Green",
}

func (c Color) String() string {
	if name, ok := colorNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Color(%d)", int(c))
}

// Valid reports whether c belongs to the closed color set.
func (c Color) Valid() bool {
	_, ok := colorNames[c]
	return ok
}

// ParseColor accepts a color name or its initial, case-insensitively.
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, fmt.Errorf("empty color")
	}
	for _, c := range Colors {
		name := strings.ToLower(colorNames[c])
		if s == name || s == name[:1] {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown color %q", s)
}

// Card is an immutable (color, number) pair.
type Card struct {
	Color  Color `json:"color"`
	Number int   `json:"number"`
}

func (c Card) String() string {
	return fmt.Sprintf("%s %d", c.Color, c.Number)
}
