package vm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kaalam/arcsynth/internal/primitive"
	"github.com/kaalam/arcsynth/internal/value"
)

func newTestCore() *Core {
	return NewCore(primitive.NewStandardRegistry())
}

func TestRunRotate90CCW(t *testing.T) {
	c := newTestCore()
	code := Code{
		NewLiteral(value.NewGrid([][]int{{1, 2}, {3, 4}})),
		NewCall("pic_rotate_90ccw"),
	}
	ret, err := c.Run(code)
	require.NoError(t, err)
	require.True(t, c.AllRight())
	require.Equal(t, value.NewGrid([][]int{{2, 4}, {1, 3}}), ret)
}

func TestRunUnknownOpcodeFaults(t *testing.T) {
	c := newTestCore()
	_, err := c.Run(Code{NewCall("does_not_exist")})
	require.Error(t, err)
	require.False(t, c.AllRight())
	require.Equal(t, value.KindError, c.Ret().Kind())
}

func TestRunEmptyStackFaults(t *testing.T) {
	c := newTestCore()
	_, err := c.Run(Code{NewCall("pic_rotate_90ccw")})
	require.Error(t, err)
	require.False(t, c.AllRight())
}

func TestFirstFaultWinsOnFurtherSteps(t *testing.T) {
	c := newTestCore()
	c.Run(Code{NewCall("does_not_exist")})
	first := c.ErrorMsg()

	// A second Run call on an already-faulted Core must not execute and
	// must not overwrite the recorded message.
	_, err := c.Run(Code{NewLiteral(value.NewInteger(1))})
	require.Error(t, err)
	require.Equal(t, first, c.ErrorMsg())
}

func TestSwapTop2(t *testing.T) {
	c := newTestCore()
	code := Code{
		NewLiteral(value.NewInteger(1)),
		NewLiteral(value.NewInteger(2)),
		NewCall("swap_top2"),
	}
	_, err := c.Run(code)
	require.NoError(t, err)
	top, _ := c.Pop()
	second, _ := c.Pop()
	require.Equal(t, value.NewInteger(1), top)
	require.Equal(t, value.NewInteger(2), second)
}

func TestRegisterGetSet(t *testing.T) {
	c := newTestCore()
	c.SetRegister("question", value.NewGrid([][]int{{7}}))
	code := Code{NewCall("get_question")}
	ret, err := c.Run(code)
	require.NoError(t, err)
	require.Equal(t, value.NewGrid([][]int{{7}}), ret)
}

func TestCloneIsDeep(t *testing.T) {
	c := newTestCore()
	c.Push(value.NewGrid([][]int{{1}}))
	clone := c.Clone()
	clone.stack[0].(value.Grid).Cells[0][0] = 9

	require.Equal(t, 1, c.stack[0].(value.Grid).Cells[0][0])
}

func TestTestsVerifyAnswerMatch(t *testing.T) {
	c := newTestCore()
	c.SetRegister("answer", value.NewGrid([][]int{{1, 2}}))
	code := Code{
		NewLiteral(value.NewGrid([][]int{{1, 2}})),
		NewCall("tests_verify_answer"),
	}
	ret, err := c.Run(code)
	require.NoError(t, err)
	require.Equal(t, value.Ok, ret)
}
