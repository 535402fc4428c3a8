package miner

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kaalam/arcsynth/internal/codebase"
	"github.com/kaalam/arcsynth/internal/compiler"
	"github.com/kaalam/arcsynth/internal/primitive"
	"github.com/kaalam/arcsynth/internal/value"
)

// buildCodebase adds the same snippet under two entry names so every mined
// item is seen more than once — aggregatePriors requires at least one
// isomorphism seed (prior 0) to exist alongside a genuinely observed item
// (prior > 0), which only happens once an item recurs.
func buildCodebase(t *testing.T, registry *primitive.Registry) *codebase.CodeBase {
	t.Helper()
	cb := codebase.New()
	source := "get_question\npic_rotate_90ccw\nsto_a\npic_transpose"
	code, err := compiler.Compile(registry, source)
	require.NoError(t, err)

	opcodes := []string{"get_question", "pic_rotate_90ccw", "sto_a", "pic_transpose"}
	require.NoError(t, cb.Add("demo_snippet", opcodes, code, value.NewGrid([][]int{{1, 2}, {3, 4}})))
	require.NoError(t, cb.Add("demo_snippet_2", opcodes, code, value.NewGrid([][]int{{1, 2}, {3, 4}})))
	return cb
}

// findItem returns the scored item whose opcodes match exactly, the
// genuinely observed snippet rather than one of its isomorphism seeds.
func findItem(items []ScoredItem, opcodes ...string) (ScoredItem, bool) {
	for _, scored := range items {
		if len(scored.Item) != len(opcodes) {
			continue
		}
		match := true
		for i, op := range opcodes {
			if scored.Item[i].Opcode != op {
				match = false
				break
			}
		}
		if match {
			return scored, true
		}
	}
	return ScoredItem{}, false
}

func TestStackUseSignature(t *testing.T) {
	require.Equal(t, 0, StackUse(0, 0))
	require.Equal(t, 1000, StackUse(1, 0))
	require.Equal(t, 2003, StackUse(3, 3))

	npic, depth := StackNPicDepth(2003)
	require.Equal(t, 2, npic)
	require.Equal(t, 3, depth)
}

func TestBuildSegmentsSnippetAtStoreBoundary(t *testing.T) {
	registry := primitive.NewStandardRegistry()
	cb := buildCodebase(t, registry)

	m, err := Build(registry, cb)
	require.NoError(t, err)

	firstUse := StackUse(0, 0)
	secondUse := StackUse(1, 0)

	require.Contains(t, m.ItemPriorByStackUse, firstUse)
	require.Contains(t, m.ItemPriorByStackUse, secondUse)

	_, ok := findItem(m.ItemPriorByStackUse[firstUse], "get_question", "pic_rotate_90ccw", "sto_a")
	require.True(t, ok)

	_, ok = findItem(m.ItemPriorByStackUse[secondUse], "pic_transpose")
	require.True(t, ok)
}

func TestPriorsAreNormalizedToUnitInterval(t *testing.T) {
	registry := primitive.NewStandardRegistry()
	cb := buildCodebase(t, registry)

	m, err := Build(registry, cb)
	require.NoError(t, err)

	for _, items := range m.ItemPriorByStackUse {
		for _, scored := range items {
			require.GreaterOrEqual(t, scored.Prior, 0.0)
			require.LessOrEqual(t, scored.Prior, 1.0)
		}
	}
}

func TestInSnippetRecordsObservedTransitions(t *testing.T) {
	registry := primitive.NewStandardRegistry()
	cb := buildCodebase(t, registry)

	m, err := Build(registry, cb)
	require.NoError(t, err)

	first, ok := findItem(m.ItemPriorByStackUse[StackUse(0, 0)], "get_question", "pic_rotate_90ccw", "sto_a")
	require.True(t, ok)
	second, ok := findItem(m.ItemPriorByStackUse[StackUse(1, 0)], "pic_transpose")
	require.True(t, ok)
	require.True(t, m.InSnippet(first.Item, second.Item))
}

func TestIsomorphismsSubstituteSameShapeOpcode(t *testing.T) {
	registry := primitive.NewStandardRegistry()
	m := &Miner{registry: registry, opcodeByRetType: map[value.Kind][]primitive.Descriptor{}}
	m.buildOpcodesByRetType()

	code, err := compiler.Compile(registry, "pic_rotate_90ccw")
	require.NoError(t, err)

	isos := m.isomorphisms(code)
	names := make(map[string]bool)
	for _, iso := range isos {
		names[iso[0].Opcode] = true
	}
	require.True(t, names["pic_transpose"], "pic_transpose has the same (grid)->grid shape as pic_rotate_90ccw")
	require.False(t, names["pic_rotate_90ccw"], "must not substitute an opcode with itself")
}
