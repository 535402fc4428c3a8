package eval

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kaalam/arcsynth/internal/multicore"
	"github.com/kaalam/arcsynth/internal/primitive"
	"github.com/kaalam/arcsynth/internal/value"
	"github.com/kaalam/arcsynth/internal/vm"
)

func TestIndexLayoutMatchesNameOrdering(t *testing.T) {
	require.Equal(t, 0, Index(KindPic, MetricReach, ReduceMin))
	require.Equal(t, 1, Index(KindPic, MetricBetter, ReduceMin))
	require.Equal(t, 3, Index(KindPattern, MetricReach, ReduceMin))
	require.Equal(t, 6, Index(KindPic, MetricReach, ReduceMean))
	require.Equal(t, 12, Index(KindPic, MetricReach, ReduceMax))
	require.Equal(t, 14, Index(KindPic, MetricWorse, ReduceMax))
	require.Equal(t, 17, Index(KindPattern, MetricWorse, ReduceMax))
	require.Equal(t, "pic_reach_min", Names[0])
	require.Equal(t, "pat_worse_max", Names[17])
}

func TestScoreExactFullMatch(t *testing.T) {
	g := value.NewGrid([][]int{{1, 2}, {3, 4}})
	reach, better, worse := scoreExact(g, g, value.NewGrid([][]int{{0, 0}, {0, 0}}))
	require.Equal(t, FullMatch, reach)
	require.Equal(t, 1.0, better)
	require.Equal(t, 0.0, worse)
}

func TestScoreExactWrongShape(t *testing.T) {
	produced := value.NewGrid([][]int{{1}})
	answer := value.NewGrid([][]int{{1, 2}})
	reach, better, worse := scoreExact(produced, answer, answer)
	require.Equal(t, WrongShape, reach)
	require.Equal(t, WrongShape, better)
	require.Equal(t, WrongShape, worse)
}

func TestScoreExactPartialImproveAndRegress(t *testing.T) {
	question := value.NewGrid([][]int{{1, 9}})
	answer := value.NewGrid([][]int{{1, 2}})
	produced := value.NewGrid([][]int{{9, 2}})

	_, better, worse := scoreExact(produced, answer, question)
	require.Equal(t, 0.5, better)
	require.Equal(t, 0.5, worse)
}

func TestScoreExactT1ShapeMismatchForcesWrongShape(t *testing.T) {
	t1 := value.NewGrid([][]int{{1}})
	answer := value.NewGrid([][]int{{1, 2}})
	produced := value.NewGrid([][]int{{1, 2}})

	reach, better, worse := scoreExact(produced, answer, t1)
	require.Equal(t, FullMatch, reach)
	require.Equal(t, WrongShape, better)
	require.Equal(t, WrongShape, worse)
}

func TestScorePatternIgnoresColorIdentity(t *testing.T) {
	produced := value.NewGrid([][]int{{3, 0}})
	answer := value.NewGrid([][]int{{7, 0}})
	reach, _, _ := scorePattern(produced, answer, value.NewGrid([][]int{{0, 0}}))
	require.Equal(t, FullMatch, reach)
}

func TestEvaluateProducesVectorOverDemosOnly(t *testing.T) {
	examples := []multicore.Example{
		{Question: value.NewGrid([][]int{{1, 2}, {3, 4}}), Answer: value.NewGrid([][]int{{2, 4}, {1, 3}}), IsTest: false},
		{Question: value.NewGrid([][]int{{5, 6}, {7, 8}}), IsTest: true},
	}
	mc := multicore.New(primitive.NewStandardRegistry(), examples)
	code := vm.Code{vm.NewCall("get_question"), vm.NewCall("pic_rotate_90ccw")}
	require.NoError(t, mc.RunAll(code))

	v, err := Evaluate(mc, examples, 40)
	require.NoError(t, err)
	require.Equal(t, FullMatch, v.Get(KindPic, MetricReach, ReduceMin))
	require.Equal(t, FullMatch, v.Get(KindPic, MetricReach, ReduceMax))
}

func TestEvaluateRejectsFaultedState(t *testing.T) {
	examples := []multicore.Example{
		{Question: value.NewGrid([][]int{{1}}), Answer: value.NewGrid([][]int{{1}}), IsTest: false},
	}
	mc := multicore.New(primitive.NewStandardRegistry(), examples)
	require.Error(t, mc.RunAll(vm.Code{vm.NewCall("does_not_exist")}))

	_, err := Evaluate(mc, examples, 40)
	require.Error(t, err)
}

func TestEvaluateRejectsNoDemoExamples(t *testing.T) {
	examples := []multicore.Example{
		{Question: value.NewGrid([][]int{{1}}), IsTest: true},
	}
	mc := multicore.New(primitive.NewStandardRegistry(), examples)
	_, err := Evaluate(mc, examples, 40)
	require.Error(t, err)
}

// TestEvaluateUsesPreviousProducedGridAsBaseline exercises the two-grid
// history case: after a second RunAll, better/worse must compare against
// the first produced grid (pic[-2]), not against the question.
func TestEvaluateUsesPreviousProducedGridAsBaseline(t *testing.T) {
	examples := []multicore.Example{
		{
			Question: value.NewGrid([][]int{{9, 9}}),
			Answer:   value.NewGrid([][]int{{1, 2}}),
			IsTest:   false,
		},
	}
	mc := multicore.New(primitive.NewStandardRegistry(), examples)

	// First produced grid: {{1, 9}} — one cell already matches the
	// answer, one doesn't. This becomes t1 for the next RunAll.
	require.NoError(t, mc.RunAll(vm.Code{vm.NewCall("get_question"), vm.NewLiteral(value.NewGrid([][]int{{1, 9}}))}))
	require.NoError(t, mc.RunAll(vm.Code{vm.NewLiteral(value.NewGrid([][]int{{1, 2}}))}))

	v, err := Evaluate(mc, examples, 40)
	require.NoError(t, err)
	// Against the question {{9, 9}}, both cells would read as "improved".
	// Against the true baseline {{1, 9}}, only the second cell improved.
	require.Equal(t, 0.5, v.Get(KindPic, MetricBetter, ReduceMin))
	require.Equal(t, 0.0, v.Get(KindPic, MetricWorse, ReduceMin))
}

func TestEvaluateFailsSizeGuardOnOversizedWrongShapeGrid(t *testing.T) {
	big := make([][]int, 41)
	for i := range big {
		big[i] = make([]int, 1)
	}
	examples := []multicore.Example{
		{Question: value.NewGrid([][]int{{1}}), Answer: value.NewGrid([][]int{{1, 2}}), IsTest: false},
	}
	mc := multicore.New(primitive.NewStandardRegistry(), examples)
	require.NoError(t, mc.RunAll(vm.Code{vm.NewLiteral(value.NewGrid(big))}))

	_, err := Evaluate(mc, examples, 40)
	require.Error(t, err)
}

func TestEnvExposesAllEighteenNames(t *testing.T) {
	var v Vector
	env := v.Env()
	require.Len(t, env, Length)
	for _, name := range Names {
		_, ok := env[name]
		require.True(t, ok, name)
	}
}
