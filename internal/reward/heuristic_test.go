package reward

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kaalam/arcsynth/internal/eval"
)

func vectorWith(reachMean, reachMin, betterMean, worseMean float64) eval.Vector {
	var v eval.Vector
	v[eval.Index(eval.KindPic, eval.MetricReach, eval.ReduceMean)] = reachMean
	v[eval.Index(eval.KindPic, eval.MetricReach, eval.ReduceMin)] = reachMin
	v[eval.Index(eval.KindPic, eval.MetricBetter, eval.ReduceMean)] = betterMean
	v[eval.Index(eval.KindPic, eval.MetricWorse, eval.ReduceMean)] = worseMean
	return v
}

func TestDefaultHeuristicBlendsReachWhenImproving(t *testing.T) {
	m, err := NewHeuristicModel("")
	require.NoError(t, err)

	v := vectorWith(0.8, 0.4, 1, 0)
	scores, err := m.Score([]eval.Vector{v})
	require.NoError(t, err)
	require.Len(t, scores, 1)
	require.InDelta(t, 0.8*0.4+0.4*0.6, scores[0], 1e-9)
}

func TestDefaultHeuristicZeroWhenNotImproving(t *testing.T) {
	m, err := NewHeuristicModel("")
	require.NoError(t, err)

	v := vectorWith(0.8, 0.4, 0, 0)
	scores, err := m.Score([]eval.Vector{v})
	require.NoError(t, err)
	require.Equal(t, 0.0, scores[0])
}

func TestHeuristicAcceptsOverrideExpression(t *testing.T) {
	m, err := NewHeuristicModel("pic_reach_mean")
	require.NoError(t, err)
	require.Equal(t, "pic_reach_mean", m.Expression())

	v := vectorWith(0.3, 0, 0, 0)
	scores, err := m.Score([]eval.Vector{v})
	require.NoError(t, err)
	require.InDelta(t, 0.3, scores[0], 1e-9)
}

func TestHeuristicRejectsMalformedExpression(t *testing.T) {
	_, err := NewHeuristicModel("pic_reach_mean +")
	require.Error(t, err)
}

func TestHeuristicRejectsUnknownIdentifier(t *testing.T) {
	_, err := NewHeuristicModel("not_a_real_component")
	require.Error(t, err)
}

func TestClassifierModelForwardsPredictProba(t *testing.T) {
	fake := fakeClassifier{proba: []float64{0.1, 0.9}}
	m := ClassifierModel{Classifier: fake}

	scores, err := m.Score([]eval.Vector{{}, {}})
	require.NoError(t, err)
	require.Equal(t, []float64{0.1, 0.9}, scores)
}

type fakeClassifier struct {
	proba []float64
}

func (f fakeClassifier) PredictProba(vectors []eval.Vector) ([]float64, error) {
	return f.proba, nil
}
