package harness

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/kaalam/arcsynth/internal/config"
	domainerrors "github.com/kaalam/arcsynth/internal/domain/errors"
	"github.com/kaalam/arcsynth/internal/mcts"
	"github.com/kaalam/arcsynth/internal/miner"
	"github.com/kaalam/arcsynth/internal/primitive"
	"github.com/kaalam/arcsynth/internal/reward"
)

// Outcome is one problem's result within an experiment run, whether it came
// from a fresh search or a cache hit.
type Outcome struct {
	Problem string
	RunID   uuid.UUID
	Result  *mcts.Result
	Cached  bool
}

// String renders an Outcome the way run_experiment's own printed result
// lines do: one line per problem naming its stop reason and walk count.
func (o Outcome) String() string {
	source := "lost"
	if len(o.Result.Source) > 0 {
		source = o.Result.Source[0]
	}
	cached := ""
	if o.Cached {
		cached = " (cached)"
	}
	return fmt.Sprintf("%s: %s after %d walks, best=%q%s", o.Problem, o.Result.StoppedOn, o.Result.TotWalks, source, cached)
}

// RunExperiment runs every problem named in cfg.Solved then cfg.NotSolved,
// in that order, against problemsByName. A problem whose cache entry
// already reports a full match is resolved by replay (ResolvePredictions)
// instead of re-searching; everything else goes through RunProblem and, on
// success, is written back into cache so a later run can skip it too.
// cache is mutated in place; the caller decides when (and whether) to
// persist it with Cache.Save.
func RunExperiment(ctx context.Context, cfg *config.ExperimentConfig, problemsByName map[string]*Problem, registry *primitive.Registry, m *miner.Miner, model reward.Model, rng *rand.Rand, cache Cache) ([]Outcome, error) {
	names := make([]string, 0, len(cfg.Solved)+len(cfg.NotSolved))
	names = append(names, cfg.Solved...)
	names = append(names, cfg.NotSolved...)

	outcomes := make([]Outcome, 0, len(names))
	for _, name := range names {
		problem, ok := problemsByName[name]
		if !ok {
			return nil, domainerrors.NewHarnessError("experiment", fmt.Sprintf("unknown problem %q in experiment config", name), nil)
		}

		if entry, ok := cache[name]; ok && entry.Solved() {
			preds, err := ResolvePredictions(entry, registry, problem.Examples)
			if err != nil {
				return nil, err
			}
			runID, err := uuid.Parse(entry.RunID)
			if err != nil {
				runID = uuid.New()
			}
			outcomes = append(outcomes, Outcome{
				Problem: name,
				RunID:   runID,
				Cached:  true,
				Result: &mcts.Result{
					Source:     entry.Source,
					Evaluation: entry.Evaluation,
					Elapsed:    entry.Elapsed,
					NumWalks:   entry.NumWalks,
					Prediction: preds,
					TotElapsed: entry.TotElapsed,
					TotWalks:   entry.TotWalks,
					StoppedOn:  mcts.StopReason(entry.StoppedOn),
				},
			})
			continue
		}

		run, err := RunProblem(ctx, problem, registry, m, model, cfg.Engine, cfg.StopRule, rng)
		if err != nil {
			return nil, err
		}
		cache[name] = NewCacheEntry(run)
		outcomes = append(outcomes, Outcome{Problem: name, RunID: run.RunID, Result: run.Result})
	}

	return outcomes, nil
}
