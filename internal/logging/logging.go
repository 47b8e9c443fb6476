// Package logging configures the global zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup points the global logger at out (stderr when nil). Format "json"
// writes raw JSON lines, anything else the human-friendly console writer.
func Setup(level, format string, out io.Writer) error {
	if out == nil {
		out = os.Stderr
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if strings.EqualFold(format, "json") {
		log.Logger = zerolog.New(out).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: out})
	}
	return SetLevel(level)
}

// SetLevel changes the global level; an empty level means info.
func SetLevel(level string) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}

func ParseLevel(level string) (zerolog.Level, error) {
	if strings.TrimSpace(level) == "" {
		return zerolog.InfoLevel, nil
	}
	return zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
}
