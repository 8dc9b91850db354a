// Package logging provides structured logging for the textkgc toolkit using zerolog.
// Console output is used when stderr is a terminal and JSON otherwise, so
// long preprocessing runs can be piped into log collectors unchanged.
//
// Example usage:
//
//	logging.Default().Info().Str("dataset", "wn18rr").Int("entities", 40943).Msg("Loaded entity names")
//
//	ctx := logging.WithDataset(context.Background(), "wikidata5m")
//	logging.FromContext(ctx).Warn().Int("line", 12).Msg("Skipping malformed line")
package logging

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// defaultLogger starts from the LOG_* environment until the CLI replaces it.
var defaultLogger = NewLoggerFromConfig(envConfig())

// Default returns the process-wide logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault replaces the process-wide logger and zerolog's global logger.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger
}

func stderrIsTerminal() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
