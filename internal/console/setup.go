package console

import (
	"os"
	"sync"
)

var (
	setupOnce    sync.Once
	colorEnabled bool
)

// Setup decides once per process whether ANSI colors are written. Later calls return
// the first answer.
func Setup(noColor bool) bool {
	setupOnce.Do(func() {
		colorEnabled = !noColor && os.Getenv("TERM") != "dumb"
	})
	return colorEnabled
}
