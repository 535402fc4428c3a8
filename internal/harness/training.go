package harness

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"

	"github.com/kaalam/arcsynth/internal/codebase"
	"github.com/kaalam/arcsynth/internal/config"
	domainerrors "github.com/kaalam/arcsynth/internal/domain/errors"
	"github.com/kaalam/arcsynth/internal/eval"
	"github.com/kaalam/arcsynth/internal/multicore"
	"github.com/kaalam/arcsynth/internal/primitive"
)

// negativeSamplesPerEntry is how many unrelated problems each code-base
// entry is also run against to mine negative training rows, matching
// build_reward_training_data's two-random-problems-per-snippet sampling.
const negativeSamplesPerEntry = 2

// TrainingRow is one labeled evaluation vector of the reward classifier's
// training set: label 1 for a known solution's own problem, label 0 for a
// code item run on an unrelated problem that it did not fully solve.
type TrainingRow struct {
	Label  int
	Vector eval.Vector
}

// BuildRewardTrainingData mines reward classifier training rows from every
// codebase entry: a positive row from running the entry's own code to
// completion on its own problem, and negativeSamplesPerEntry negative rows
// from running it on other problems it does not solve (skipped outright if
// it breaks, or if it happens to reach a full match anyway).
func BuildRewardTrainingData(registry *primitive.Registry, cb *codebase.CodeBase, problemsByName map[string]*Problem, rng *rand.Rand, constants config.SearchConstants) ([]TrainingRow, error) {
	others := make([]*Problem, 0, len(problemsByName))
	for _, p := range problemsByName {
		others = append(others, p)
	}

	var rows []TrainingRow
	for _, entry := range cb.Entries() {
		own, ok := problemsByName[entry.Name]
		if !ok {
			continue
		}

		mc := multicore.New(registry, own.Examples)
		if err := mc.RunAll(entry.Code); err != nil {
			return nil, domainerrors.NewHarnessError("training", fmt.Sprintf("known solution %q failed to replay on its own problem: %v", entry.Name, err), err)
		}
		v, err := eval.Evaluate(mc, own.Examples, constants.EvalMaxPicSize)
		if err != nil {
			return nil, domainerrors.NewHarnessError("training", fmt.Sprintf("known solution %q failed to evaluate: %v", entry.Name, err), err)
		}
		if v.Get(eval.KindPic, eval.MetricReach, eval.ReduceMin) != eval.FullMatch {
			return nil, domainerrors.NewHarnessError("training", fmt.Sprintf("known solution %q did not reach a full match on its own problem", entry.Name), nil)
		}
		rows = append(rows, TrainingRow{Label: 1, Vector: v})

		unrelated := make([]*Problem, 0, len(others))
		for _, p := range others {
			if p != own {
				unrelated = append(unrelated, p)
			}
		}
		if len(unrelated) == 0 {
			continue
		}
		for i := 0; i < negativeSamplesPerEntry; i++ {
			other := unrelated[rng.Intn(len(unrelated))]

			neg := multicore.New(registry, other.Examples)
			if err := neg.RunAll(entry.Code); err != nil {
				continue
			}
			v, err := eval.Evaluate(neg, other.Examples, constants.EvalMaxPicSize)
			if err != nil {
				continue
			}
			if v.Get(eval.KindPic, eval.MetricReach, eval.ReduceMax) < eval.FullMatch {
				rows = append(rows, TrainingRow{Label: 0, Vector: v})
			}
		}
	}
	return rows, nil
}

// WriteRewardTrainingData writes rows to w in the `.priorTRN: <name>` /
// `"<label>, v0, ..., v17"` / `.eof.` format of spec.md §6.
func WriteRewardTrainingData(w io.Writer, name string, rows []TrainingRow) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, ".priorTRN: %s\n", name); err != nil {
		return domainerrors.NewHarnessError("training", "writing training data header: "+err.Error(), err)
	}

	for _, row := range rows {
		parts := make([]string, 0, eval.Length+1)
		parts = append(parts, strconv.Itoa(row.Label))
		for _, v := range row.Vector {
			parts = append(parts, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if _, err := fmt.Fprintln(bw, strings.Join(parts, ", ")); err != nil {
			return domainerrors.NewHarnessError("training", "writing training data row: "+err.Error(), err)
		}
	}

	if _, err := bw.WriteString(".eof."); err != nil {
		return domainerrors.NewHarnessError("training", "writing training data trailer: "+err.Error(), err)
	}
	return bw.Flush()
}

// ParseRewardTrainingData parses the format WriteRewardTrainingData
// produces, the way a classifier trainer would load it back.
func ParseRewardTrainingData(r io.Reader) ([]TrainingRow, error) {
	scanner := bufio.NewScanner(r)

	if !scanner.Scan() {
		return nil, domainerrors.NewHarnessError("training", "empty training data file", nil)
	}
	if !strings.HasPrefix(scanner.Text(), ".priorTRN:") {
		return nil, domainerrors.NewHarnessError("training", "missing .priorTRN: header", nil)
	}

	var rows []TrainingRow
	sawEOF := false
	for scanner.Scan() {
		line := scanner.Text()
		if line == ".eof." {
			sawEOF = true
			break
		}
		row, err := parseTrainingRow(line)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, domainerrors.NewHarnessError("training", "reading training data: "+err.Error(), err)
	}
	if !sawEOF {
		return nil, domainerrors.NewHarnessError("training", "missing .eof. trailer", nil)
	}
	return rows, nil
}

func parseTrainingRow(line string) (TrainingRow, error) {
	fields := strings.Split(line, ", ")
	if len(fields) != eval.Length+1 {
		return TrainingRow{}, domainerrors.NewHarnessError("training", fmt.Sprintf("expected %d fields, got %d: %q", eval.Length+1, len(fields), line), nil)
	}

	label, err := strconv.Atoi(fields[0])
	if err != nil || (label != 0 && label != 1) {
		return TrainingRow{}, domainerrors.NewHarnessError("training", fmt.Sprintf("invalid label in row: %q", line), err)
	}

	var v eval.Vector
	for i := 0; i < eval.Length; i++ {
		f, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return TrainingRow{}, domainerrors.NewHarnessError("training", fmt.Sprintf("invalid vector component in row: %q", line), err)
		}
		v[i] = f
	}
	return TrainingRow{Label: label, Vector: v}, nil
}
