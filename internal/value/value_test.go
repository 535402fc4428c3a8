package value

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGridCloneIsDeep(t *testing.T) {
	g := NewGrid([][]int{{1, 2}, {3, 4}})
	c := g.Clone().(Grid)
	c.Cells[0][0] = 9

	require.Equal(t, 1, g.Cells[0][0])
	require.Equal(t, 9, c.Cells[0][0])
}

func TestEqualGrid(t *testing.T) {
	a := NewGrid([][]int{{1, 2}, {3, 4}})
	b := NewGrid([][]int{{1, 2}, {3, 4}})
	c := NewGrid([][]int{{1, 2}, {3, 5}})

	require.True(t, Equal(a, b))
	require.False(t, Equal(a, c))
}

func TestEqualAcrossKindsIsFalse(t *testing.T) {
	require.False(t, Equal(NewInteger(1), NewIntPair(1, 0)))
}

func TestSameShape(t *testing.T) {
	a := NewGrid([][]int{{1, 2, 3}})
	b := NewGrid([][]int{{1, 2, 3}, {4, 5, 6}})

	require.True(t, SameShape(a, a))
	require.False(t, SameShape(a, b))
}

func TestIntegerString(t *testing.T) {
	require.Equal(t, "(7,)", NewInteger(7).String())
}

func TestNESWKind(t *testing.T) {
	n := NewNESW(1, 0, 2, 0)
	require.Equal(t, KindNESW, n.Kind())
}
