package mcts

import (
	"sort"

	domainerrors "github.com/kaalam/arcsynth/internal/domain/errors"
	"github.com/kaalam/arcsynth/internal/eval"
	"github.com/kaalam/arcsynth/internal/miner"
	"github.com/kaalam/arcsynth/internal/multicore"
	"github.com/kaalam/arcsynth/internal/reward"
	"github.com/kaalam/arcsynth/internal/value"
	"github.com/kaalam/arcsynth/internal/vm"

	"github.com/kaalam/arcsynth/internal/config"
)

// Candidate is one expanded move out of a leaf: the code item CodeGen
// proposes, its (possibly snippet-boosted) prior, the reward the model
// assigned its resulting evaluation vector, and that vector itself.
type Candidate struct {
	Item   vm.Code
	Prior  float64
	Reward float64
	Eval   eval.Vector
}

// pathToNode walks leaf up to the root, returning the code of every
// node on the way in root-to-leaf order, leaf's own code included; only
// the root, which carries no code, is left out.
func pathToNode(leaf *Node) []vm.Code {
	var reversed []vm.Code
	for n := leaf; !n.IsRoot(); n = n.Parent {
		reversed = append(reversed, n.Code)
	}
	path := make([]vm.Code, len(reversed))
	for i, code := range reversed {
		path[i] = reversed[len(reversed)-1-i]
	}
	return path
}

// concatCode flattens a root-to-node path into one straight-line program.
func concatCode(path []vm.Code) vm.Code {
	var code vm.Code
	for _, c := range path {
		code = append(code, c...)
	}
	return code
}

// stackSignature reports the (npic, depth) signature of core's current
// stack: npic is the run of Grid values sitting at the very top, depth is
// the stack's total height. Mirrors internal/miner's own trailing-grid-run
// count, computed here against a live Core instead of a mined snippet.
func stackSignature(core *vm.Core) (npic, depth int) {
	stack := core.Stack()
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].Kind() != value.KindGrid {
			break
		}
		npic++
	}
	return npic, len(stack)
}

// Expand reconstructs leaf's path from root, replays it once against mc,
// and proposes every mined code item whose stack-use signature fits the
// replayed state, ranked by prior (snippet-observed transitions boosted),
// each scored by running it from the replayed snapshot and batching its
// resulting evaluation vectors through a single reward model call. It
// returns the path's own flattened code alongside the candidates so the
// caller can record a full program (path + item) without re-walking the
// tree. An empty, nil-error result means the leaf is not worth expanding
// further (move budget exhausted, or no candidate item ran legally).
func Expand(leaf *Node, mc *multicore.Multicore, m *miner.Miner, model reward.Model, constants config.SearchConstants, examples []multicore.Example) ([]Candidate, vm.Code, error) {
	path := pathToNode(leaf)

	maxMoves := constants.MaxMovesAtRoot
	for range path {
		maxMoves = int(float64(maxMoves) * constants.NumMovesStepDiscount)
	}
	if maxMoves < 1 {
		return nil, nil, nil
	}

	pathCode := concatCode(path)

	mc.Clear(false)
	if err := mc.RunAll(pathCode); err != nil {
		return nil, nil, domainerrors.NewSearchError("", 0, "path to node failed to replay", err)
	}
	snapshot := mc.CopyState()

	npic, depth := stackSignature(mc.State(0))

	var scored []miner.ScoredItem
	for use, items := range m.ItemPriorByStackUse {
		useNPic, useDepth := miner.StackNPicDepth(use)
		if useNPic <= npic && useDepth <= depth {
			scored = append(scored, items...)
		}
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Prior > scored[j].Prior })

	var items []vm.Code
	var priors []float64
	var evals []eval.Vector

	for _, sc := range scored {
		mc.SetState(snapshot)
		if err := mc.RunAll(sc.Item); err != nil {
			continue
		}
		v, err := eval.Evaluate(mc, examples, constants.EvalMaxPicSize)
		if err != nil {
			continue
		}

		prior := sc.Prior
		if m.InSnippet(pathCode, sc.Item) {
			prior += constants.PriorBoostInSnippet
		}

		items = append(items, sc.Item)
		priors = append(priors, prior)
		evals = append(evals, v)

		if len(items) >= maxMoves {
			break
		}
	}

	if len(items) == 0 {
		return nil, pathCode, nil
	}

	rewards, err := model.Score(evals)
	if err != nil {
		return nil, nil, err
	}

	candidates := make([]Candidate, len(items))
	for i := range items {
		candidates[i] = Candidate{Item: items[i], Prior: priors[i], Reward: rewards[i], Eval: evals[i]}
	}
	return candidates, pathCode, nil
}
