package harness

import (
	"os"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	domainerrors "github.com/kaalam/arcsynth/internal/domain/errors"
	"github.com/kaalam/arcsynth/internal/eval"
	"github.com/kaalam/arcsynth/internal/mcts"
)

// CacheEntry is the derived, harness-owned shape persisted for one finished
// problem search: decompiled top-N programs, their evaluation vectors and
// per-entry walk/elapsed metadata, and the search's own stop accounting.
// It deliberately excludes mcts.Result.Prediction (raw value.Grid output) —
// a grid is cheap to regenerate by recompiling Source and replaying it
// against a fresh Multicore (see ResolvePredictions), whereas a
// multicore.Snapshot is not: its *vm.Core states hold unexported fields and
// a value.Value tagged union with no msgpack marshal methods of its own,
// so caching raw VM state was tried and abandoned in favor of caching only
// what the harness itself already returns as plain data.
type CacheEntry struct {
	RunID      string          `msgpack:"run_id"`
	Source     []string        `msgpack:"source"`
	Evaluation []eval.Vector   `msgpack:"evaluation"`
	Elapsed    []time.Duration `msgpack:"elapsed"`
	NumWalks   []int           `msgpack:"num_walks"`
	TotElapsed time.Duration   `msgpack:"tot_elapsed"`
	TotWalks   int             `msgpack:"tot_walks"`
	StoppedOn  string          `msgpack:"stopped_on"`
}

// Cache is an on-disk map of problem name to CacheEntry, letting a harness
// restart skip re-searching a problem it has already finished.
type Cache map[string]CacheEntry

// NewCacheEntry derives a CacheEntry from a finished RunResult.
func NewCacheEntry(run *RunResult) CacheEntry {
	return CacheEntry{
		RunID:      run.RunID.String(),
		Source:     run.Result.Source,
		Evaluation: run.Result.Evaluation,
		Elapsed:    run.Result.Elapsed,
		NumWalks:   run.Result.NumWalks,
		TotElapsed: run.Result.TotElapsed,
		TotWalks:   run.Result.TotWalks,
		StoppedOn:  string(run.Result.StoppedOn),
	}
}

// LoadCache reads a Cache from a msgpack file. A missing file is not an
// error: it returns an empty Cache, the state of a harness that has never
// run before.
func LoadCache(path string) (Cache, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Cache{}, nil
	}
	if err != nil {
		return nil, domainerrors.NewHarnessError("cache", "reading cache file: "+err.Error(), err)
	}

	var cache Cache
	if err := msgpack.Unmarshal(data, &cache); err != nil {
		return nil, domainerrors.NewHarnessError("cache", "decoding cache file: "+err.Error(), err)
	}
	return cache, nil
}

// Save writes the Cache to a msgpack file, replacing it if it exists.
func (c Cache) Save(path string) error {
	data, err := msgpack.Marshal(c)
	if err != nil {
		return domainerrors.NewHarnessError("cache", "encoding cache file: "+err.Error(), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return domainerrors.NewHarnessError("cache", "writing cache file: "+err.Error(), err)
	}
	return nil
}

// Solved reports whether entry represents a search that found a full
// match, i.e. whether re-running it would be wasted work.
func (e CacheEntry) Solved() bool {
	return e.StoppedOn == string(mcts.StopFound) && len(e.Source) > 0
}
