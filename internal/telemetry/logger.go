// Package telemetry provides structured, per-problem observability for
// internal/harness: a zerolog event per finished search and an otel span
// bracketing it. internal/mcts itself is never imported here for anything
// but the StopReason/Result shapes it returns — the search algorithm stays
// unobserved, and the harness is the only caller that logs or traces.
package telemetry

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/kaalam/arcsynth/internal/mcts"
)

// LogSearchStarted records that a problem's search began.
func LogSearchStarted(problemID string, numExamples int) {
	log.Debug().Str("problem_id", problemID).Int("num_examples", numExamples).Msg("search started")
}

// LogSearchResult records a finished search's outcome: stop reason, walk
// count, elapsed time, and how many top-N solutions survived.
func LogSearchResult(problemID string, result *mcts.Result) {
	log.Info().
		Str("problem_id", problemID).
		Str("stopped_on", string(result.StoppedOn)).
		Int("tot_walks", result.TotWalks).
		Dur("elapsed", result.TotElapsed).
		Int("num_solutions", len(result.Source)).
		Msg("search finished")
}

// LogSearchError records that a problem's search ended in a hard error
// rather than a stop reason.
func LogSearchError(problemID string, elapsed time.Duration, err error) {
	log.Error().Str("problem_id", problemID).Dur("elapsed", elapsed).Err(err).Msg("search failed")
}
