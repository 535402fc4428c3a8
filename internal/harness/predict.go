package harness

import (
	"github.com/kaalam/arcsynth/internal/compiler"
	domainerrors "github.com/kaalam/arcsynth/internal/domain/errors"
	"github.com/kaalam/arcsynth/internal/multicore"
	"github.com/kaalam/arcsynth/internal/primitive"
	"github.com/kaalam/arcsynth/internal/value"
)

// ResolvePredictions recompiles each of a cache entry's decompiled programs
// and replays it against a fresh Multicore to recover its prediction for
// every held-out test question, the same replay finalizeResult performs at
// the end of a live search. This is what lets a cached, already-solved
// problem skip straight to its answer without ever touching internal/mcts.
func ResolvePredictions(entry CacheEntry, registry *primitive.Registry, examples []multicore.Example) ([][]value.Grid, error) {
	mc := multicore.New(registry, examples)
	testIdx := mc.TestIndices()

	predictions := make([][]value.Grid, 0, len(entry.Source))
	for _, source := range entry.Source {
		code, err := compiler.Compile(registry, source)
		if err != nil {
			return nil, domainerrors.NewHarnessError("predict", "cached program failed to recompile: "+err.Error(), err)
		}

		mc.Clear(false)
		if err := mc.RunAll(code); err != nil {
			return nil, domainerrors.NewHarnessError("predict", "cached program failed to replay: "+err.Error(), err)
		}

		preds := make([]value.Grid, 0, len(testIdx))
		for _, i := range testIdx {
			produced, ok := mc.State(i).Peek()
			if !ok {
				return nil, domainerrors.NewHarnessError("predict", "cached program left an empty stack on a test question", nil)
			}
			grid, ok := produced.(value.Grid)
			if !ok {
				return nil, domainerrors.NewHarnessError("predict", "cached program did not leave a picture on a test question", nil)
			}
			preds = append(preds, grid)
		}
		predictions = append(predictions, preds)
	}
	return predictions, nil
}
