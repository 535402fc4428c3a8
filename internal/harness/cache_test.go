package harness

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/kaalam/arcsynth/internal/eval"
	"github.com/kaalam/arcsynth/internal/mcts"
)

func TestCacheSaveThenLoadRoundTrips(t *testing.T) {
	run := &RunResult{
		RunID: uuid.New(),
		Result: &mcts.Result{
			Source:     []string{"get_question"},
			Evaluation: []eval.Vector{{}},
			Elapsed:    []time.Duration{time.Second},
			NumWalks:   []int{1},
			TotElapsed: 2 * time.Second,
			TotWalks:   1,
			StoppedOn:  mcts.StopFound,
		},
	}

	cache := Cache{"007bbfb7": NewCacheEntry(run)}
	path := filepath.Join(t.TempDir(), "cache.msgpack")
	require.NoError(t, cache.Save(path))

	loaded, err := LoadCache(path)
	require.NoError(t, err)
	require.Equal(t, cache, loaded)
	require.True(t, loaded["007bbfb7"].Solved())
}

func TestLoadCacheMissingFileReturnsEmptyCache(t *testing.T) {
	cache, err := LoadCache(filepath.Join(t.TempDir(), "does-not-exist.msgpack"))
	require.NoError(t, err)
	require.Empty(t, cache)
}

func TestCacheEntrySolvedRequiresFoundAndAProgram(t *testing.T) {
	require.False(t, CacheEntry{StoppedOn: string(mcts.StopLost)}.Solved())
	require.False(t, CacheEntry{StoppedOn: string(mcts.StopFound)}.Solved())
	require.True(t, CacheEntry{StoppedOn: string(mcts.StopFound), Source: []string{"x"}}.Solved())
}
