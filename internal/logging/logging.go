// Package logging builds the run logger.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// New returns a console logger writing to w at the named level, tagged
// with a fresh run id. Unknown levels fall back to info.
func New(w io.Writer, level string) (zerolog.Logger, string) {
	if w == nil {
		w = os.Stderr
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	runID := uuid.NewString()
	logger := zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.DateTime}).
		Level(lvl).
		With().
		Timestamp().
		Str("run_id", runID).
		Logger()
	return logger, runID
}
