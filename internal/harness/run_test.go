package harness

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kaalam/arcsynth/internal/codebase"
	"github.com/kaalam/arcsynth/internal/compiler"
	"github.com/kaalam/arcsynth/internal/config"
	"github.com/kaalam/arcsynth/internal/mcts"
	"github.com/kaalam/arcsynth/internal/miner"
	"github.com/kaalam/arcsynth/internal/multicore"
	"github.com/kaalam/arcsynth/internal/primitive"
	"github.com/kaalam/arcsynth/internal/reward"
	"github.com/kaalam/arcsynth/internal/value"
)

func buildIdentityHarness(t *testing.T) (*primitive.Registry, *miner.Miner) {
	t.Helper()
	registry := primitive.NewStandardRegistry()
	code, err := compiler.Compile(registry, "get_question")
	require.NoError(t, err)

	cb := codebase.New()
	require.NoError(t, cb.Add("identity", []string{"get_question"}, code, value.NewGrid([][]int{{1, 2}, {3, 4}})))

	m, err := miner.Build(registry, cb)
	require.NoError(t, err)
	return registry, m
}

func TestRunProblemReturnsARunIDAndAFoundResult(t *testing.T) {
	registry, m := buildIdentityHarness(t)
	model, err := reward.NewHeuristicModel("")
	require.NoError(t, err)

	grid := value.NewGrid([][]int{{1, 2}, {3, 4}})
	problem := &Problem{
		Name: "identity",
		Examples: []multicore.Example{
			{Question: grid, Answer: grid, IsTest: false},
			{Question: grid, IsTest: true},
		},
	}

	rule := config.StoppingRule{MinNumWalks: 0, StopNumFullMatches: 1, MaxBrokenWalks: 5, BrokenThreshold: -1, MaxElapsedSec: 5}
	run, err := RunProblem(context.Background(), problem, registry, m, model, config.DefaultSearchConstants(), rule, rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	require.NotEqual(t, run.RunID.String(), "")
	require.Equal(t, mcts.StopFound, run.Result.StoppedOn)
}
