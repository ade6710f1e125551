// Package logging centralises the zerolog setup shared by the
// namespace controller and the cmd/ftlsim driver.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New builds a console-friendly zerolog.Logger writing to w (os.Stderr
// when w is nil).
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	cw := zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05.000"}
	return zerolog.New(cw).Level(level).With().Timestamp().Logger()
}
