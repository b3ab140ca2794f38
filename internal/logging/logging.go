package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the service-wide structured logger. JSON by default;
// LOG_FORMAT=console switches to the human-readable writer for local
// development.
func New(service string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	writer := os.Stdout
	if os.Getenv("LOG_FORMAT") == "console" {
		return zerolog.New(zerolog.ConsoleWriter{Out: writer, TimeFormat: "15:04:05"}).
			With().Timestamp().Str("service", service).Logger()
	}
	return zerolog.New(writer).With().Timestamp().Str("service", service).Logger()
}
