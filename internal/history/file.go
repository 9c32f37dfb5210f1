package history

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/jason-s-yu/colortrick/internal/game"
	"github.com/jason-s-yu/colortrick/internal/models"
)

// FileSink appends a plain-text block per finished game to Path.
type FileSink struct {
	Path string
}

func NewFileSink(path string) *FileSink {
	return &FileSink{Path: path}
}

func (f *FileSink) AppendGameSummary(_ context.Context, s models.GameSummary) error {
	fail := func(err error) error {
		return &game.PersistenceError{Sink: "file " + f.Path, Err: err}
	}

	file, err := os.OpenFile(f.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fail(err)
	}
	if _, err := file.Write(FormatSummary(s)); err != nil {
		file.Close()
		return fail(err)
	}
	if err := file.Close(); err != nil {
		return fail(err)
	}
	return nil
}

// FormatSummary renders the text record for one game.
func FormatSummary(s models.GameSummary) []byte {
	var b bytes.Buffer
	b.WriteString("\n=== Game finished ===\n")
	for _, p := range s.Players {
		fmt.Fprintf(&b, "%s: %d points, %d rounds won\n", p.Name, p.Score, p.RoundsWon)
	}
	return b.Bytes()
}
