package search

import (
	"os"

	"github.com/rs/zerolog"
)

// logger is the package-level structured logger for search lifecycle
// events (depth completed on the main worker, thinking context
// canceled), both at Debug level, in
// the spirit of the zerolog usage the Lazy-SMP endgame solver in the
// example pack demonstrates. The teacher repository logged to stdlib
// log; this module follows the richer idiom the rest of the corpus
// uses instead.
var logger zerolog.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

// SetLogger replaces the package-level logger, letting an embedding
// application route search diagnostics into its own sink.
func SetLogger(l zerolog.Logger) {
	logger = l
}
