// Package harness wires the synthesis engine into an end-to-end problem
// runner: it loads ARC problems from a directory of JSON files, builds a
// Multicore per problem, drives internal/mcts.RunSearch to completion, and
// can persist/restore a finished search's derived result so a harness
// restart never has to re-search a problem it already solved. It also
// builds the reward classifier's training data from a mined code base, the
// way the original's CodeGen.build_reward_training_data does.
package harness

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	domainerrors "github.com/kaalam/arcsynth/internal/domain/errors"
	"github.com/kaalam/arcsynth/internal/multicore"
	"github.com/kaalam/arcsynth/internal/value"
)

// rawPair is the `{input, output}` shape of one train case or test case.
type rawPair struct {
	Input  [][]int `json:"input"`
	Output [][]int `json:"output,omitempty"`
}

type rawProblem struct {
	Train []rawPair `json:"train"`
	Test  []rawPair `json:"test"`
}

// Problem is one loaded ARC task: demonstration examples plus held-out
// test questions, keyed by the filename it was loaded from (sans
// extension).
type Problem struct {
	Name     string
	Examples []multicore.Example
}

// LoadProblem parses one ARC problem JSON file's contents. name is used
// only as the Problem's identifier (typically the filename stem) and is
// never read from the JSON body itself.
func LoadProblem(name string, data []byte) (*Problem, error) {
	var raw rawProblem
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, domainerrors.NewHarnessError("problem", fmt.Sprintf("%s: invalid JSON: %v", name, err), err)
	}
	if len(raw.Train) < 2 || len(raw.Train) > 10 {
		return nil, domainerrors.NewHarnessError("problem", fmt.Sprintf("%s: expected 2-10 train cases, got %d", name, len(raw.Train)), nil)
	}
	if len(raw.Test) < 1 || len(raw.Test) > 3 {
		return nil, domainerrors.NewHarnessError("problem", fmt.Sprintf("%s: expected 1-3 test cases, got %d", name, len(raw.Test)), nil)
	}

	examples := make([]multicore.Example, 0, len(raw.Train)+len(raw.Test))
	for _, p := range raw.Train {
		examples = append(examples, multicore.Example{
			Question: value.NewGrid(p.Input),
			Answer:   value.NewGrid(p.Output),
			IsTest:   false,
		})
	}
	for _, p := range raw.Test {
		ex := multicore.Example{Question: value.NewGrid(p.Input), IsTest: true}
		if p.Output != nil {
			ex.Answer = value.NewGrid(p.Output)
		}
		examples = append(examples, ex)
	}

	return &Problem{Name: name, Examples: examples}, nil
}

// LoadProblemDir loads every "*.json" file directly inside dir (no
// recursion), sorted by filename, matching spec.md §6's "directory of JSON
// files" problem input shape.
func LoadProblemDir(dirFS fs.FS, dir string) ([]*Problem, error) {
	entries, err := fs.ReadDir(dirFS, dir)
	if err != nil {
		return nil, domainerrors.NewHarnessError("problem", fmt.Sprintf("reading problem directory %s: %v", dir, err), err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".json" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	problems := make([]*Problem, 0, len(names))
	for _, name := range names {
		data, err := fs.ReadFile(dirFS, filepath.Join(dir, name))
		if err != nil {
			return nil, domainerrors.NewHarnessError("problem", fmt.Sprintf("reading %s: %v", name, err), err)
		}
		stem := name[:len(name)-len(filepath.Ext(name))]
		p, err := LoadProblem(stem, data)
		if err != nil {
			return nil, err
		}
		problems = append(problems, p)
	}
	return problems, nil
}
