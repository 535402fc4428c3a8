package multicore

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kaalam/arcsynth/internal/primitive"
	"github.com/kaalam/arcsynth/internal/value"
	"github.com/kaalam/arcsynth/internal/vm"
)

func testExamples() []Example {
	return []Example{
		{Question: value.NewGrid([][]int{{1, 2}}), Answer: value.NewGrid([][]int{{2, 1}}), IsTest: false},
		{Question: value.NewGrid([][]int{{3, 4}}), IsTest: true},
	}
}

func TestClearWithholdsAnswerFromTestStates(t *testing.T) {
	m := New(primitive.NewStandardRegistry(), testExamples())

	_, demoHasAnswer := m.State(0).Register("answer")
	require.True(t, demoHasAnswer)

	_, testHasAnswer := m.State(1).Register("answer")
	require.False(t, testHasAnswer)
}

func TestClearPeekAnswerRevealsTestAnswer(t *testing.T) {
	examples := testExamples()
	examples[1].Answer = value.NewGrid([][]int{{9}})
	m := New(primitive.NewStandardRegistry(), examples)
	m.Clear(true)

	v, ok := m.State(1).Register("answer")
	require.True(t, ok)
	require.Equal(t, value.NewGrid([][]int{{9}}), v)
}

func TestRunAllAppliesToEveryState(t *testing.T) {
	m := New(primitive.NewStandardRegistry(), testExamples())
	code := vm.Code{vm.NewCall("get_question"), vm.NewCall("pic_rotate_90ccw")}
	err := m.RunAll(code)
	require.NoError(t, err)
	require.True(t, m.AllLegal())
}

func TestCopySetStateRoundTrips(t *testing.T) {
	m := New(primitive.NewStandardRegistry(), testExamples())
	require.NoError(t, m.RunAll(vm.Code{vm.NewCall("get_question")}))

	snap := m.CopyState()

	require.NoError(t, m.RunAll(vm.Code{vm.NewCall("pic_rotate_90ccw")}))

	m.SetState(snap)
	ret := m.State(0).Ret()
	require.Equal(t, value.NewGrid([][]int{{1, 2}}), ret)
}

func TestDemoAndTestIndices(t *testing.T) {
	m := New(primitive.NewStandardRegistry(), testExamples())
	require.Equal(t, []int{0}, m.DemoIndices())
	require.Equal(t, []int{1}, m.TestIndices())
}
