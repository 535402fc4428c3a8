package harness

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kaalam/arcsynth/internal/config"
	"github.com/kaalam/arcsynth/internal/mcts"
	"github.com/kaalam/arcsynth/internal/multicore"
	"github.com/kaalam/arcsynth/internal/reward"
	"github.com/kaalam/arcsynth/internal/value"
)

func TestRunExperimentSearchesThenCachesThenReplays(t *testing.T) {
	registry, m := buildIdentityHarness(t)
	model, err := reward.NewHeuristicModel("")
	require.NoError(t, err)

	grid := value.NewGrid([][]int{{1, 2}, {3, 4}})
	problems := map[string]*Problem{
		"identity": {
			Name: "identity",
			Examples: []multicore.Example{
				{Question: grid, Answer: grid, IsTest: false},
				{Question: grid, IsTest: true},
			},
		},
	}

	cfg := &config.ExperimentConfig{
		ExperimentPath: "x",
		Solved:         []string{"identity"},
		Engine:         config.DefaultSearchConstants(),
		StopRule:       config.StoppingRule{MinNumWalks: 0, StopNumFullMatches: 1, MaxBrokenWalks: 5, BrokenThreshold: -1, MaxElapsedSec: 5},
	}

	cache := Cache{}
	outcomes, err := RunExperiment(context.Background(), cfg, problems, registry, m, model, rand.New(rand.NewSource(9)), cache)
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	require.False(t, outcomes[0].Cached)
	require.Equal(t, mcts.StopFound, outcomes[0].Result.StoppedOn)
	require.Contains(t, cache, "identity")

	// A second run against the same cache replays from it instead of
	// re-searching.
	outcomes, err = RunExperiment(context.Background(), cfg, problems, registry, m, model, rand.New(rand.NewSource(9)), cache)
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	require.True(t, outcomes[0].Cached)
	require.Equal(t, grid.Cells, outcomes[0].Result.Prediction[0][0].Cells)
}

func TestRunExperimentRejectsUnknownProblemName(t *testing.T) {
	registry, m := buildIdentityHarness(t)
	model, err := reward.NewHeuristicModel("")
	require.NoError(t, err)

	cfg := &config.ExperimentConfig{ExperimentPath: "x", Solved: []string{"missing"}}
	_, err = RunExperiment(context.Background(), cfg, map[string]*Problem{}, registry, m, model, rand.New(rand.NewSource(1)), Cache{})
	require.Error(t, err)
}
