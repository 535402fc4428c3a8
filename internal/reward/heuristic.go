package reward

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/kaalam/arcsynth/internal/eval"
)

// DefaultHeuristicExpression reproduces the hand-coded fallback formula
// byte-for-byte in behavior: pic_reach_mean*(1-alpha) + pic_reach_min*alpha
// when pic_better_mean > pic_worse_mean, else 0, with alpha = 0.6.
const DefaultHeuristicExpression = `pic_better_mean > pic_worse_mean ? pic_reach_mean*(1-0.6) + pic_reach_min*0.6 : 0`

// HeuristicModel evaluates a compiled expr-lang expression against the 18
// named evaluation-vector components, mirroring the teacher's
// ConditionEvaluator compiled-expression cache: compile once, run many.
// An ExperimentConfig may substitute a different Expression, giving the
// harness a config-driven reward formula without a second code path.
type HeuristicModel struct {
	expression string
	program    *vm.Program
}

// NewHeuristicModel compiles expression once against the 18 named vector
// components. An empty expression falls back to DefaultHeuristicExpression.
func NewHeuristicModel(expression string) (*HeuristicModel, error) {
	if expression == "" {
		expression = DefaultHeuristicExpression
	}

	envType := eval.Vector{}.Env()
	program, err := expr.Compile(expression, expr.Env(envType), expr.AsFloat64())
	if err != nil {
		return nil, fmt.Errorf("reward: failed to compile heuristic expression %q: %w", expression, err)
	}

	return &HeuristicModel{expression: expression, program: program}, nil
}

// Expression returns the compiled expression text.
func (m *HeuristicModel) Expression() string { return m.expression }

// Score implements Model.
func (m *HeuristicModel) Score(vectors []eval.Vector) ([]float64, error) {
	out := make([]float64, len(vectors))
	for i, v := range vectors {
		result, err := expr.Run(m.program, v.Env())
		if err != nil {
			return nil, fmt.Errorf("reward: failed to evaluate heuristic expression %q: %w", m.expression, err)
		}
		score, ok := result.(float64)
		if !ok {
			return nil, fmt.Errorf("reward: heuristic expression %q did not return a float64, got %T", m.expression, result)
		}
		out[i] = score
	}
	return out, nil
}
