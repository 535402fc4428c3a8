package harness

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/kaalam/arcsynth/internal/config"
	"github.com/kaalam/arcsynth/internal/mcts"
	"github.com/kaalam/arcsynth/internal/miner"
	"github.com/kaalam/arcsynth/internal/primitive"
	"github.com/kaalam/arcsynth/internal/reward"
	"github.com/kaalam/arcsynth/internal/telemetry"
)

// RunResult pairs a finished search's Result with the run identifier it was
// logged and traced under.
type RunResult struct {
	RunID  uuid.UUID
	Result *mcts.Result
}

// RunProblem drives one problem invocation of internal/mcts.RunSearch
// end to end: it mints a run identifier, brackets the search in one
// telemetry span, and logs the outcome (or the error) once it returns.
func RunProblem(ctx context.Context, problem *Problem, registry *primitive.Registry, m *miner.Miner, model reward.Model, constants config.SearchConstants, rule config.StoppingRule, rng *rand.Rand) (*RunResult, error) {
	runID := uuid.New()
	start := time.Now()

	_, span := telemetry.StartProblemSearch(ctx, problem.Name, len(problem.Examples))
	defer span.End()

	telemetry.LogSearchStarted(problem.Name, len(problem.Examples))

	result, err := mcts.RunSearch(registry, problem.Examples, m, model, constants, rule, rng)
	if err != nil {
		telemetry.LogSearchError(problem.Name, time.Since(start), err)
		return nil, err
	}

	telemetry.AnnotateResult(span, string(result.StoppedOn), result.TotWalks)
	telemetry.LogSearchResult(problem.Name, result)

	return &RunResult{RunID: runID, Result: result}, nil
}
