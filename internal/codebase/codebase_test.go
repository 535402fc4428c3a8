package codebase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kaalam/arcsynth/internal/primitive"
	"github.com/kaalam/arcsynth/internal/value"
)

func sampleFile() string {
	return strings.Join([]string{
		".bopDB: sample",
		"",
		"",
		"rotate90",
		"--------",
		"pic_rotate_90ccw",
		"",
		"[[1, 2], [3, 4]]",
		"",
		".eof.",
	}, "\n")
}

func TestLoadParsesOneSnippet(t *testing.T) {
	reg := primitive.NewStandardRegistry()
	cb, err := Load(reg, strings.NewReader(sampleFile()))
	require.NoError(t, err)
	require.Equal(t, 1, cb.Len())

	entry, ok := cb.ByName("rotate90")
	require.True(t, ok)
	require.Equal(t, []string{"pic_rotate_90ccw"}, entry.Source)
	require.Equal(t, value.NewGrid([][]int{{1, 2}, {3, 4}}), entry.Sample)
	require.Len(t, entry.Code, 1)
}

func TestLoadRejectsMissingHeader(t *testing.T) {
	reg := primitive.NewStandardRegistry()
	_, err := Load(reg, strings.NewReader("not a header\n\n\n.eof."))
	require.Error(t, err)
}

func TestLoadRejectsMissingEOF(t *testing.T) {
	reg := primitive.NewStandardRegistry()
	body := strings.Join([]string{".bopDB: x", "", "", "abc", "---", "pic_rotate_90ccw", ""}, "\n")
	_, err := Load(reg, strings.NewReader(body))
	require.Error(t, err)
}

func TestLoadRejectsDuplicateNames(t *testing.T) {
	reg := primitive.NewStandardRegistry()
	body := strings.Join([]string{
		".bopDB: x", "", "",
		"dup1", "----", "pic_rotate_90ccw", "", "[[1]]", "",
		"dup1", "----", "pic_transpose", "", "[[1]]", "",
		".eof.",
	}, "\n")
	_, err := Load(reg, strings.NewReader(body))
	require.Error(t, err)
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	reg := primitive.NewStandardRegistry()
	cb, err := Load(reg, strings.NewReader(sampleFile()))
	require.NoError(t, err)

	var buf strings.Builder
	require.NoError(t, cb.Save(&buf, "sample"))

	reloaded, err := Load(reg, strings.NewReader(buf.String()))
	require.NoError(t, err)
	require.Equal(t, cb.Entries(), reloaded.Entries())
}

func TestSaveWritesNamesInSortedOrder(t *testing.T) {
	cb := New()
	require.NoError(t, cb.Add("zzz_snippet", []string{"pic_rotate_90ccw"}, nil, value.NewGrid([][]int{{1}})))
	require.NoError(t, cb.Add("aaa_snippet", []string{"pic_rotate_90ccw"}, nil, value.NewGrid([][]int{{1}})))

	var buf strings.Builder
	require.NoError(t, cb.Save(&buf, "x"))

	out := buf.String()
	require.Less(t, strings.Index(out, "aaa_snippet"), strings.Index(out, "zzz_snippet"))
}

func TestAddRejectsShortNames(t *testing.T) {
	cb := New()
	err := cb.Add("ab", nil, nil, value.Grid{})
	require.Error(t, err)
}
