package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/jason-s-yu/colortrick/internal/game"
	"github.com/jason-s-yu/colortrick/internal/models"
	"github.com/sirupsen/logrus"
)

// ErrInputClosed means the input stream ended before a valid answer arrived.
var ErrInputClosed = errors.New("input closed")

const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiBlue   = "\033[34m"
)

var ansiColors = map[models.Color]string{
	models.Red:    ansiRed,
	models.Blue:   ansiBlue,
	models.Yellow: ansiYellow,
	models.Green:  ansiGreen,
}

// Terminal reads answers line by line and renders the game as text. It is both the
// game's InputSource and its DisplaySink.
type Terminal struct {
	in    *bufio.Scanner
	out   io.Writer
	color bool
	log   *logrus.Entry
}

var (
	_ game.InputSource = (*Terminal)(nil)
	_ game.DisplaySink = (*Terminal)(nil)
)

func NewTerminal(in io.Reader, out io.Writer, color bool, logger *logrus.Logger) *Terminal {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Terminal{
		in:    bufio.NewScanner(in),
		out:   out,
		color: color,
		log:   logger.WithField("component", "terminal"),
	}
}

func (t *Terminal) readLine() (string, error) {
	if t.in.Scan() {
		return strings.TrimSpace(t.in.Text()), nil
	}
	if err := t.in.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInputClosed, err)
	}
	return "", ErrInputClosed
}

// printf writes to the terminal. Write failures are logged and otherwise ignored.
func (t *Terminal) printf(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(t.out, format, args...); err != nil {
		t.log.WithError(err).Warn("display write failed")
	}
}

// RequestInteger prompts until the answer is a whole number in [min, max].
func (t *Terminal) RequestInteger(prompt string, min, max int) (int, error) {
	for {
		t.printf("%s", prompt)
		line, err := t.readLine()
		if err != nil {
			return 0, err
		}
		v, err := strconv.Atoi(line)
		if err != nil {
			t.printf("Invalid input. Enter a number between %d and %d.\n", min, max)
			continue
		}
		if v < min || v > max {
			t.printf("Value out of range. It must be between %d and %d.\n", min, max)
			continue
		}
		return v, nil
	}
}

// RequestColorChoice prompts until the answer names one of the four colors.
func (t *Terminal) RequestColorChoice(prompt string) (models.Color, error) {
	for {
		t.printf("\n%s", prompt)
		line, err := t.readLine()
		if err != nil {
			return 0, err
		}
		c, err := models.ParseColor(line)
		if err != nil {
			t.printf("Invalid color. Choose Red, Blue, Yellow or Green.\n")
			continue
		}
		return c, nil
	}
}

// RequestPlayerCount asks for the number of players, giving up after attempts tries.
func (t *Terminal) RequestPlayerCount(attempts int) (int, error) {
	var last *game.ValidationError
	for i := 0; i < attempts; i++ {
		t.printf("How many players? (%d-%d): ", game.MinPlayers, game.MaxPlayers)
		line, err := t.readLine()
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		switch {
		case err != nil:
			last = &game.ValidationError{Field: "player count", Reason: fmt.Sprintf("%q is not a number", line)}
		case n < game.MinPlayers || n > game.MaxPlayers:
			last = &game.ValidationError{Field: "player count", Reason: fmt.Sprintf("%d is not between %d and %d", n, game.MinPlayers, game.MaxPlayers)}
		default:
			return n, nil
		}
		t.printf("%v\n", last)
	}
	return 0, fmt.Errorf("no valid answer after %d attempts: %w", attempts, last)
}

// RequestPlayerNames asks for n distinct, non-empty names.
func (t *Terminal) RequestPlayerNames(n int) ([]string, error) {
	names := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		for {
			t.printf("Name of player %d: ", i)
			line, err := t.readLine()
			if err != nil {
				return nil, err
			}
			if line == "" {
				t.printf("The name cannot be empty.\n")
				continue
			}
			if slices.Contains(names, line) {
				t.printf("%s is already playing. Choose another name.\n", line)
				continue
			}
			names = append(names, line)
			break
		}
	}
	return names, nil
}

func (t *Terminal) card(c models.Card) string {
	if !t.color {
		return c.String()
	}
	return ansiColors[c.Color] + c.String() + ansiReset
}

func (t *Terminal) colorName(c models.Color) string {
	if !t.color {
		return c.String()
	}
	return ansiColors[c] + c.String() + ansiReset
}

func (t *Terminal) bold(s string) string {
	if !t.color {
		return s
	}
	return ansiBold + s + ansiReset
}

func (t *Terminal) listCards(cards []models.Card) {
	for i, c := range cards {
		t.printf("%d. %s\n", i+1, t.card(c))
	}
}

func (t *Terminal) ShowInitialHands(players []*models.Player) {
	t.printf("\n%s\n", t.bold("=== Initial hands ==="))
	for _, p := range players {
		t.printf("Initial hand of %s (%d cards):\n", p.Name, len(p.InitialHand))
		t.listCards(p.InitialHand)
	}
}

func (t *Terminal) ShowRoundStart(round, total int, chooser *models.Player) {
	t.printf("\n\n%s\n", t.bold(fmt.Sprintf("--- Round %d of %d ---", round, total)))
	t.printf("%s picks the round color.\n", chooser.Name)
}

func (t *Terminal) ShowStatus(players []*models.Player) {
	t.printf("\n%s\n", t.bold("=== Players ==="))
	for _, p := range players {
		t.printf("%s: %d cards left | Points: %d | Rounds won: %d\n",
			p.Name, p.Hand.Len(), p.Score, p.RoundsWon)
	}
}

func (t *Terminal) ShowTurn(p *models.Player, roundColor models.Color, mustFollow bool) {
	t.printf("\n%s\n", t.bold(p.Name+"'s turn"))
	if mustFollow {
		t.printf("%s, you must play a %s card.\n", p.Name, t.colorName(roundColor))
	} else {
		t.printf("%s, you have no %s cards. Play any card.\n", p.Name, t.colorName(roundColor))
	}
}

func (t *Terminal) ShowHand(p *models.Player) {
	t.printf("Current hand of %s (%d cards):\n", p.Name, p.Hand.Len())
	t.listCards(p.Hand.Cards())
}

func (t *Terminal) ShowInvalidPlay(_ *models.Player, err error) {
	t.printf("%v\n", err)
}

func (t *Terminal) ShowPlay(p *models.Player, c models.Card) {
	t.printf("\n%s played: %s\n", p.Name, t.card(c))
}

func (t *Terminal) ShowSkip(p *models.Player) {
	t.printf("\n%s has no cards to play.\n", p.Name)
}

func (t *Terminal) ShowRoundOutcome(winner *models.Player, points int) {
	if winner == nil {
		t.printf("\nNobody wins the round.\n")
		return
	}
	t.printf("\n%s wins the round and scores %d points!\n", winner.Name, points)
}

func (t *Terminal) ShowFinalStandings(s game.Standings) {
	t.printf("\n\n%s\n", t.bold("=== FINAL RESULTS ==="))
	for i, p := range s.Ranked {
		t.printf("%d. %s - Points: %d - Rounds won: %d\n", i+1, p.Name, p.Score, p.RoundsWon)
	}
	if s.IsTie() {
		names := make([]string, 0, len(s.TieGroup))
		for _, p := range s.TieGroup {
			names = append(names, p.Name)
		}
		t.printf("\nTIE between: %s!\n", strings.Join(names, ", "))
		return
	}
	if s.Winner != nil {
		t.printf("\n%s is the WINNER!\n", s.Winner.Name)
	}
}

func (t *Terminal) ShowHistoryResult(err error) {
	if err != nil {
		t.printf("Could not save the game history: %v\n", err)
		return
	}
	t.printf("Game history saved.\n")
}
