package mcts

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kaalam/arcsynth/internal/config"
)

func TestSelectChildPicksHigherValueScoreAtEqualVisits(t *testing.T) {
	c := config.DefaultSearchConstants()
	root := NewRoot()
	weak := NewChild(root, nil, 0.3, 0)
	weak.Visits = 1
	weak.Reward = 0
	strong := NewChild(root, nil, 0.3, 0)
	strong.Visits = 1
	strong.Reward = 1.0

	require.Same(t, strong, root.SelectChild(c))
}

func TestSelectChildBreaksTiesByInsertionOrder(t *testing.T) {
	c := config.DefaultSearchConstants()
	root := NewRoot()
	first := NewChild(root, nil, 0.5, 1.0)
	_ = NewChild(root, nil, 0.5, 1.0)

	require.Same(t, first, root.SelectChild(c))
}

func TestIsRootAndIsLeaf(t *testing.T) {
	root := NewRoot()
	require.True(t, root.IsRoot())
	require.True(t, root.IsLeaf())

	child := NewChild(root, nil, 0.5, 0.1)
	require.False(t, root.IsLeaf())
	require.False(t, child.IsRoot())
	require.True(t, child.IsLeaf())
	require.Equal(t, 1, child.Visits)
}

func TestAddExplorationNoiseBlendsEveryChildPrior(t *testing.T) {
	c := config.DefaultSearchConstants()
	root := NewRoot()
	a := NewChild(root, nil, 0.4, 0)
	b := NewChild(root, nil, 0.6, 0)

	rng := rand.New(rand.NewSource(1))
	root.AddExplorationNoise(rng, c)

	require.NotEqual(t, 0.4, a.Prior)
	require.NotEqual(t, 0.6, b.Prior)
	require.True(t, a.Prior >= 0 && a.Prior <= 1)
	require.True(t, b.Prior >= 0 && b.Prior <= 1)
}

func TestAddExplorationNoiseOnLeafIsNoOp(t *testing.T) {
	c := config.DefaultSearchConstants()
	leaf := NewRoot()
	rng := rand.New(rand.NewSource(1))
	require.NotPanics(t, func() { leaf.AddExplorationNoise(rng, c) })
}

func TestDirichletSampleSumsToOne(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	samples := dirichletSample(rng, 0.1, 5)
	var sum float64
	for _, s := range samples {
		require.True(t, s >= 0)
		sum += s
	}
	require.InDelta(t, 1.0, sum, 1e-9)
}
