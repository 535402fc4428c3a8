package harness

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kaalam/arcsynth/internal/codebase"
	"github.com/kaalam/arcsynth/internal/compiler"
	"github.com/kaalam/arcsynth/internal/config"
	"github.com/kaalam/arcsynth/internal/eval"
	"github.com/kaalam/arcsynth/internal/multicore"
	"github.com/kaalam/arcsynth/internal/primitive"
	"github.com/kaalam/arcsynth/internal/value"
)

func TestBuildRewardTrainingDataMinesPositiveAndNegativeRows(t *testing.T) {
	registry := primitive.NewStandardRegistry()
	code, err := compiler.Compile(registry, "get_question")
	require.NoError(t, err)

	cb := codebase.New()
	identityGrid := value.NewGrid([][]int{{1, 2}, {3, 4}})
	require.NoError(t, cb.Add("identity", []string{"get_question"}, code, identityGrid))

	problems := map[string]*Problem{
		"identity": {
			Name: "identity",
			Examples: []multicore.Example{
				{Question: identityGrid, Answer: identityGrid, IsTest: false},
			},
		},
		"other": {
			Name: "other",
			Examples: []multicore.Example{
				{
					Question: value.NewGrid([][]int{{9, 9}, {9, 9}}),
					Answer:   value.NewGrid([][]int{{1, 1}, {1, 1}}),
					IsTest:   false,
				},
			},
		},
	}

	rows, err := BuildRewardTrainingData(registry, cb, problems, rand.New(rand.NewSource(1)), config.DefaultSearchConstants())
	require.NoError(t, err)
	require.NotEmpty(t, rows)

	var positives, negatives int
	for _, r := range rows {
		switch r.Label {
		case 1:
			positives++
			require.Equal(t, eval.FullMatch, r.Vector.Get(eval.KindPic, eval.MetricReach, eval.ReduceMin))
		case 0:
			negatives++
		default:
			t.Fatalf("unexpected label %d", r.Label)
		}
	}
	require.Equal(t, 1, positives)
	require.Equal(t, 2, negatives)
}

func TestWriteThenParseRewardTrainingDataRoundTrips(t *testing.T) {
	var v1, v2 eval.Vector
	v1[0] = eval.FullMatch
	v2[3] = 1.5

	rows := []TrainingRow{
		{Label: 1, Vector: v1},
		{Label: 0, Vector: v2},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteRewardTrainingData(&buf, "basis_code", rows))
	require.Contains(t, buf.String(), ".priorTRN: basis_code\n")
	require.True(t, bytes.HasSuffix(buf.Bytes(), []byte(".eof.")))

	parsed, err := ParseRewardTrainingData(&buf)
	require.NoError(t, err)
	require.Equal(t, rows, parsed)
}

func TestParseRewardTrainingDataRejectsMissingHeader(t *testing.T) {
	_, err := ParseRewardTrainingData(bytes.NewBufferString("1, 0\n.eof."))
	require.Error(t, err)
}

func TestParseRewardTrainingDataRejectsMissingEOF(t *testing.T) {
	_, err := ParseRewardTrainingData(bytes.NewBufferString(".priorTRN: x\n1, 0\n"))
	require.Error(t, err)
}
