package eval

import (
	domainerrors "github.com/kaalam/arcsynth/internal/domain/errors"
	"github.com/kaalam/arcsynth/internal/multicore"
	"github.com/kaalam/arcsynth/internal/value"
)

// Evaluate scores the current state of mc's demonstration examples (test
// questions are never scored — their answer is withheld) against each
// example's expected answer, producing the flat 18-component Vector.
// better/worse compare the produced grid against the previous grid that
// state produced (pic[-2] in CodeEval.py's eval_code), falling back to the
// question only for a state that has produced exactly one grid so far —
// not against the question on every call.
//
// Every demo state must have completed legally and must currently hold a
// Grid on top of its stack; any other situation (a fault, or a non-picture
// result) is reported as an EvaluationError rather than folded into the
// vector, mirroring the original's refusal to score a program that never
// produced a picture. A produced grid that disagrees with the answer's
// shape and exceeds maxPicSize in either dimension also fails the whole
// evaluation, mirroring eval_code's own LookupError size guard.
func Evaluate(mc *multicore.Multicore, examples []multicore.Example, maxPicSize int) (Vector, error) {
	demoIdx := mc.DemoIndices()
	if len(demoIdx) == 0 {
		return Vector{}, domainerrors.NewEvaluationError("", "no demonstration examples to score against", nil)
	}

	reach := make([]float64, 0, len(demoIdx))
	better := make([]float64, 0, len(demoIdx))
	worse := make([]float64, 0, len(demoIdx))
	patReach := make([]float64, 0, len(demoIdx))
	patBetter := make([]float64, 0, len(demoIdx))
	patWorse := make([]float64, 0, len(demoIdx))

	for _, i := range demoIdx {
		state := mc.State(i)
		if !state.AllRight() {
			return Vector{}, domainerrors.NewEvaluationError("", "cannot score a faulted state", nil)
		}
		produced, ok := state.Peek()
		if !ok {
			return Vector{}, domainerrors.NewEvaluationError("", "empty stack, nothing to score", nil)
		}
		grid, ok := produced.(value.Grid)
		if !ok {
			return Vector{}, domainerrors.NewEvaluationError("", "top of stack is not a picture: "+produced.Kind().String(), nil)
		}

		ex := examples[i]

		if !value.SameShape(grid, ex.Answer) && (grid.Height() > maxPicSize || grid.Width() > maxPicSize) {
			return Vector{}, domainerrors.NewEvaluationError("", "produced grid exceeds the max size guard", nil)
		}

		t1 := ex.Question
		if pic := state.ProducedGrids(); len(pic) >= 2 {
			t1 = pic[len(pic)-2]
		}

		r, b, w := scoreExact(grid, ex.Answer, t1)
		reach = append(reach, r)
		better = append(better, b)
		worse = append(worse, w)

		pr, pb, pw := scorePattern(grid, ex.Answer, t1)
		patReach = append(patReach, pr)
		patBetter = append(patBetter, pb)
		patWorse = append(patWorse, pw)
	}

	var v Vector
	fillKind(&v, KindPic, reach, better, worse)
	fillKind(&v, KindPattern, patReach, patBetter, patWorse)
	return v, nil
}

func fillKind(v *Vector, kind Kind, reach, better, worse []float64) {
	setMetric(v, kind, MetricReach, reach)
	setMetric(v, kind, MetricBetter, better)
	setMetric(v, kind, MetricWorse, worse)
}

func setMetric(v *Vector, kind Kind, metric Metric, scores []float64) {
	lo, mean, hi := minMeanMax(scores)
	v[Index(kind, metric, ReduceMin)] = lo
	v[Index(kind, metric, ReduceMean)] = mean
	v[Index(kind, metric, ReduceMax)] = hi
}

// minMeanMax reduces a non-empty slice the same way the teacher's duration
// metrics collapse a batch of samples into min/mean/max.
func minMeanMax(scores []float64) (lo, mean, hi float64) {
	lo, hi = scores[0], scores[0]
	var sum float64
	for _, s := range scores {
		if s < lo {
			lo = s
		}
		if s > hi {
			hi = s
		}
		sum += s
	}
	return lo, sum / float64(len(scores)), hi
}

// scoreExact computes (reach, better, worse) for one demo under exact-color
// comparison. reach is FullMatch/WrongShape when comparison is degenerate,
// otherwise the fraction of cells produced already agrees with answer on.
// better counts cells t1 had wrong and produced now has right; worse counts
// cells t1 had right and produced now has wrong. A shape disagreement at
// either comparison (produced vs answer, or t1 vs produced) forces the
// affected score(s) to WrongShape rather than 0, matching eval_code's own
// EVAL_WRONG_SHAPE sentinel.
func scoreExact(produced, answer, t1 value.Grid) (reach, better, worse float64) {
	if !value.SameShape(produced, answer) {
		return WrongShape, WrongShape, WrongShape
	}
	if value.Equal(produced, answer) {
		reach = FullMatch
	} else {
		reach = fractionEqualCells(produced, answer, cellsEqualExact)
	}

	if !value.SameShape(t1, produced) {
		return reach, WrongShape, WrongShape
	}

	total := answer.Height() * answer.Width()
	if total == 0 {
		return reach, 0, 0
	}

	var improved, regressed int
	for y := 0; y < answer.Height(); y++ {
		for x := 0; x < answer.Width(); x++ {
			wasOK := t1.Cells[y][x] == answer.Cells[y][x]
			isOK := produced.Cells[y][x] == answer.Cells[y][x]
			if isOK && !wasOK {
				improved++
			}
			if wasOK && !isOK {
				regressed++
			}
		}
	}
	better = float64(improved) / float64(total)
	worse = float64(regressed) / float64(total)
	return reach, better, worse
}

// scorePattern is scoreExact's foreground/background counterpart: two cells
// "agree" when they are both background (color 0) or both non-background,
// regardless of which non-background color each holds.
func scorePattern(produced, answer, t1 value.Grid) (reach, better, worse float64) {
	if !value.SameShape(produced, answer) {
		return WrongShape, WrongShape, WrongShape
	}
	if patternsEqual(produced, answer) {
		reach = FullMatch
	} else {
		reach = fractionEqualCells(produced, answer, cellsEqualPattern)
	}

	if !value.SameShape(t1, produced) {
		return reach, WrongShape, WrongShape
	}

	total := answer.Height() * answer.Width()
	if total == 0 {
		return reach, 0, 0
	}

	var improved, regressed int
	for y := 0; y < answer.Height(); y++ {
		for x := 0; x < answer.Width(); x++ {
			wasOK := isForeground(t1.Cells[y][x]) == isForeground(answer.Cells[y][x])
			isOK := isForeground(produced.Cells[y][x]) == isForeground(answer.Cells[y][x])
			if isOK && !wasOK {
				improved++
			}
			if wasOK && !isOK {
				regressed++
			}
		}
	}
	better = float64(improved) / float64(total)
	worse = float64(regressed) / float64(total)
	return reach, better, worse
}

func isForeground(c int) bool { return c != 0 }

func cellsEqualExact(a, b int) bool { return a == b }

func cellsEqualPattern(a, b int) bool { return isForeground(a) == isForeground(b) }

func fractionEqualCells(a, b value.Grid, eq func(a, b int) bool) float64 {
	total := a.Height() * a.Width()
	if total == 0 {
		return FullMatch
	}
	var matches int
	for y := 0; y < a.Height(); y++ {
		for x := 0; x < a.Width(); x++ {
			if eq(a.Cells[y][x], b.Cells[y][x]) {
				matches++
			}
		}
	}
	return float64(matches) / float64(total)
}

func patternsEqual(a, b value.Grid) bool {
	if !value.SameShape(a, b) {
		return false
	}
	for y := 0; y < a.Height(); y++ {
		for x := 0; x < a.Width(); x++ {
			if isForeground(a.Cells[y][x]) != isForeground(b.Cells[y][x]) {
				return false
			}
		}
	}
	return true
}
