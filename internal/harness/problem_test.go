package harness

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func TestLoadProblemParsesTrainAndTest(t *testing.T) {
	data := []byte(`{
		"train": [
			{"input": [[1,2],[3,4]], "output": [[4,3],[2,1]]},
			{"input": [[5,6],[7,8]], "output": [[8,7],[6,5]]}
		],
		"test": [
			{"input": [[0,1],[1,0]]}
		]
	}`)

	p, err := LoadProblem("007bbfb7", data)
	require.NoError(t, err)
	require.Equal(t, "007bbfb7", p.Name)
	require.Len(t, p.Examples, 3)
	require.False(t, p.Examples[0].IsTest)
	require.Equal(t, [][]int{{1, 2}, {3, 4}}, p.Examples[0].Question.Cells)
	require.Equal(t, [][]int{{4, 3}, {2, 1}}, p.Examples[0].Answer.Cells)
	require.True(t, p.Examples[2].IsTest)
}

func TestLoadProblemRejectsTooFewTrainCases(t *testing.T) {
	data := []byte(`{"train": [{"input": [[1]], "output": [[1]]}], "test": [{"input": [[1]]}]}`)
	_, err := LoadProblem("bad", data)
	require.Error(t, err)
}

func TestLoadProblemRejectsNoTestCases(t *testing.T) {
	data := []byte(`{"train": [{"input": [[1]], "output": [[1]]}, {"input": [[2]], "output": [[2]]}], "test": []}`)
	_, err := LoadProblem("bad", data)
	require.Error(t, err)
}

func TestLoadProblemRejectsMalformedJSON(t *testing.T) {
	_, err := LoadProblem("bad", []byte("not json"))
	require.Error(t, err)
}

func TestLoadProblemDirLoadsJSONFilesSortedByName(t *testing.T) {
	one := []byte(`{"train": [{"input": [[1]], "output": [[1]]}, {"input": [[2]], "output": [[2]]}], "test": [{"input": [[3]]}]}`)
	fsys := fstest.MapFS{
		"problems/b.json":   {Data: one},
		"problems/a.json":   {Data: one},
		"problems/ignored":  {Data: []byte("not a problem")},
	}

	problems, err := LoadProblemDir(fsys, "problems")
	require.NoError(t, err)
	require.Len(t, problems, 2)
	require.Equal(t, "a", problems[0].Name)
	require.Equal(t, "b", problems[1].Name)
}
