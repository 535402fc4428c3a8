package mcts

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kaalam/arcsynth/internal/codebase"
	"github.com/kaalam/arcsynth/internal/compiler"
	"github.com/kaalam/arcsynth/internal/config"
	"github.com/kaalam/arcsynth/internal/eval"
	"github.com/kaalam/arcsynth/internal/miner"
	"github.com/kaalam/arcsynth/internal/multicore"
	"github.com/kaalam/arcsynth/internal/primitive"
	"github.com/kaalam/arcsynth/internal/reward"
	"github.com/kaalam/arcsynth/internal/value"
	"github.com/kaalam/arcsynth/internal/vm"
)

func buildIdentityMiner(t *testing.T) (*primitive.Registry, *miner.Miner) {
	t.Helper()
	registry := primitive.NewStandardRegistry()
	cb := codebase.New()
	code, err := compiler.Compile(registry, "get_question")
	require.NoError(t, err)
	require.NoError(t, cb.Add("identity", []string{"get_question"}, code, value.NewGrid([][]int{{1, 2}, {3, 4}})))

	m, err := miner.Build(registry, cb)
	require.NoError(t, err)
	return registry, m
}

func TestExpandAtRootProposesMinedItemBoostedBySnippet(t *testing.T) {
	registry, m := buildIdentityMiner(t)
	grid := value.NewGrid([][]int{{1, 2}, {3, 4}})
	examples := []multicore.Example{{Question: grid, Answer: grid}}
	mc := multicore.New(registry, examples)

	model, err := reward.NewHeuristicModel("")
	require.NoError(t, err)

	constants := config.DefaultSearchConstants()
	root := NewRoot()

	candidates, pathCode, err := Expand(root, mc, m, model, constants, examples)
	require.NoError(t, err)
	require.Empty(t, pathCode)
	require.Len(t, candidates, 1)
	require.Equal(t, "get_question", candidates[0].Item[0].Opcode)
	require.InDelta(t, 1.0+constants.PriorBoostInSnippet, candidates[0].Prior, 1e-9)
	require.Equal(t, eval.FullMatch, candidates[0].Eval.Get(eval.KindPic, eval.MetricReach, eval.ReduceMin))
}

func TestExpandReturnsNothingOnceMoveBudgetIsExhausted(t *testing.T) {
	registry, m := buildIdentityMiner(t)
	grid := value.NewGrid([][]int{{1, 2}, {3, 4}})
	examples := []multicore.Example{{Question: grid, Answer: grid}}
	mc := multicore.New(registry, examples)

	model, err := reward.NewHeuristicModel("")
	require.NoError(t, err)

	constants := config.DefaultSearchConstants()
	node := NewRoot()
	for i := 0; i < 18; i++ {
		node = NewChild(node, vm.Code{}, 0.1, 0)
	}

	candidates, pathCode, err := Expand(node, mc, m, model, constants, examples)
	require.NoError(t, err)
	require.Nil(t, candidates)
	require.Nil(t, pathCode)
}

func TestStackSignatureReadsTrailingGridRun(t *testing.T) {
	registry := primitive.NewStandardRegistry()
	grid := value.NewGrid([][]int{{1}})
	examples := []multicore.Example{{Question: grid, Answer: grid}}
	mc := multicore.New(registry, examples)
	require.NoError(t, mc.RunAll(vm.Code{vm.NewCall("get_question")}))

	npic, depth := stackSignature(mc.State(0))
	require.Equal(t, 1, npic)
	require.Equal(t, 1, depth)
}
