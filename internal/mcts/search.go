package mcts

import (
	"math/rand"
	"sort"
	"time"

	"github.com/kaalam/arcsynth/internal/compiler"
	"github.com/kaalam/arcsynth/internal/config"
	domainerrors "github.com/kaalam/arcsynth/internal/domain/errors"
	"github.com/kaalam/arcsynth/internal/eval"
	"github.com/kaalam/arcsynth/internal/miner"
	"github.com/kaalam/arcsynth/internal/multicore"
	"github.com/kaalam/arcsynth/internal/primitive"
	"github.com/kaalam/arcsynth/internal/reward"
	"github.com/kaalam/arcsynth/internal/value"
	"github.com/kaalam/arcsynth/internal/vm"
)

// StopReason names why a search stopped.
type StopReason string

const (
	StopFound StopReason = "found"
	StopLost  StopReason = "lost"
	StopTime  StopReason = "time"
)

// topEntry is one member of the bounded top-N list: a full program (the
// path to its leaf plus the expanded item), the evaluation vector it
// produced, and the bookkeeping the final result reports alongside it.
type topEntry struct {
	score    float64
	code     vm.Code
	eval     eval.Vector
	numWalks int
	elapsed  time.Duration
}

// topN is a capped, score-descending list of the best programs seen so
// far, maintained by inserting and re-sorting rather than a literal heap —
// NumTopSolutions is always small (3), so the asymptotics do not matter.
type topN struct {
	cap      int
	entries  []topEntry
	full     bool
	minScore float64
}

func newTopN(capN int) *topN { return &topN{cap: capN} }

// tryPush rejects entry outright when its score does not beat minScore —
// seeded at 0 and tightened to the worst survivor once the list fills, the
// way try_push_to_topN's top_min_ev starts at 0 and rejects ev <= 0 from
// the very first insert, keeping non-positive (e.g. wrong-shape) scores
// out of the top-N even before it has NumTopSolutions entries.
func (t *topN) tryPush(entry topEntry) {
	if entry.score <= t.minScore {
		return
	}
	t.entries = append(t.entries, entry)
	sort.SliceStable(t.entries, func(i, j int) bool { return t.entries[i].score > t.entries[j].score })
	if len(t.entries) > t.cap {
		t.entries = t.entries[:t.cap]
	}
	if len(t.entries) == t.cap {
		t.full = true
		t.minScore = t.entries[len(t.entries)-1].score
	}
}

// topScore blends a candidate's mean and minimum pic-reach score, the
// figure of merit try_push_to_topN ranks programs by.
func topScore(v eval.Vector, c config.SearchConstants) float64 {
	mean := v.Get(eval.KindPic, eval.MetricReach, eval.ReduceMean)
	min := v.Get(eval.KindPic, eval.MetricReach, eval.ReduceMin)
	return mean*(1-c.WeightMinInEval) + min*c.WeightMinInEval
}

// shouldContinue checks the stopping rule in strict priority order:
// walking out the minimum regardless of anything else, then too-broken,
// then solved-enough, then out-of-time. It returns (true, "") to keep
// walking, or (false, reason) to stop.
func shouldContinue(numWalks, numBrokenWalks, numSolved int, elapsed time.Duration, rule config.StoppingRule) (bool, StopReason) {
	if numWalks < rule.MinNumWalks {
		return true, ""
	}
	if numBrokenWalks > rule.MaxBrokenWalks {
		return false, StopLost
	}
	if numSolved >= rule.StopNumFullMatches {
		return false, StopFound
	}
	if elapsed.Seconds() > rule.MaxElapsedSec {
		return false, StopTime
	}
	return true, ""
}

// Result is one problem's search outcome: up to NumTopSolutions programs,
// each with its evaluation vector, elapsed time and walk number at
// discovery, and the predictions it produces for every held-out test
// question, plus the totals the whole search ran for.
type Result struct {
	Source     []string
	Evaluation []eval.Vector
	Elapsed    []time.Duration
	NumWalks   []int
	Prediction [][]value.Grid

	TotElapsed time.Duration
	TotWalks   int
	StoppedOn  StopReason
}

// RunSearch grows a search tree over examples until the stopping rule
// fires, then replays each surviving top-N program from scratch to extract
// its predictions for the held-out test questions.
func RunSearch(registry *primitive.Registry, examples []multicore.Example, m *miner.Miner, model reward.Model, constants config.SearchConstants, rule config.StoppingRule, rng *rand.Rand) (*Result, error) {
	mc := multicore.New(registry, examples)
	root := NewRoot()
	top := newTopN(constants.NumTopSolutions)

	start := time.Now()
	var numWalks, numBrokenWalks, numSolved int
	var stopReason StopReason

	for {
		cont, reason := shouldContinue(numWalks, numBrokenWalks, numSolved, time.Since(start), rule)
		if !cont {
			stopReason = reason
			break
		}

		if (numWalks+1)%constants.AddExpNoiseEach == 0 {
			root.AddExplorationNoise(rng, constants)
		}

		node := root
		for !node.IsLeaf() {
			node = node.SelectChild(constants)
		}

		candidates, pathCode, err := Expand(node, mc, m, model, constants, examples)
		if err != nil {
			return nil, err
		}

		var visits int
		var rewardSum float64

		if len(candidates) == 0 {
			numBrokenWalks++
			visits = 1
		} else {
			var solved int
			for _, cand := range candidates {
				NewChild(node, cand.Item, cand.Prior, cand.Reward)

				fullCode := append(append(vm.Code{}, pathCode...), cand.Item...)
				top.tryPush(topEntry{
					score:    topScore(cand.Eval, constants),
					code:     fullCode,
					eval:     cand.Eval,
					numWalks: numWalks + 1,
					elapsed:  time.Since(start),
				})

				if cand.Eval.Get(eval.KindPic, eval.MetricReach, eval.ReduceMin) == constants.EvalFullMatch {
					solved++
				}
				rewardSum += cand.Reward
			}
			visits = len(candidates)
			if rewardSum/float64(visits) < rule.BrokenThreshold {
				numBrokenWalks++
			} else {
				numBrokenWalks = 0
			}
			numSolved += solved
		}

		// Backprop: rewards climb discounted once per hop, visits climb
		// undiscounted and verbatim into every ancestor up to the root.
		rewards := rewardSum
		for n := node; ; n = n.Parent {
			n.Reward += rewards
			rewards *= constants.RewardDiscount
			n.Visits += visits
			if n.IsRoot() {
				break
			}
		}

		numWalks++
	}

	return finalizeResult(mc, top, time.Since(start), numWalks, stopReason)
}

// finalizeResult re-executes each surviving top-N program against a fresh
// Multicore state and extracts its prediction for every held-out test
// question: whatever Grid that question's state last holds on top of its
// stack once the program finishes.
func finalizeResult(mc *multicore.Multicore, top *topN, totElapsed time.Duration, totWalks int, stopReason StopReason) (*Result, error) {
	result := &Result{TotElapsed: totElapsed, TotWalks: totWalks, StoppedOn: stopReason}

	testIdx := mc.TestIndices()
	for _, entry := range top.entries {
		mc.Clear(false)
		if err := mc.RunAll(entry.code); err != nil {
			return nil, domainerrors.NewSearchError("", entry.numWalks, "top solution failed to replay", err)
		}

		preds := make([]value.Grid, 0, len(testIdx))
		for _, i := range testIdx {
			produced, ok := mc.State(i).Peek()
			if !ok {
				return nil, domainerrors.NewSearchError("", entry.numWalks, "top solution left an empty stack on a test question", nil)
			}
			grid, ok := produced.(value.Grid)
			if !ok {
				return nil, domainerrors.NewSearchError("", entry.numWalks, "top solution did not leave a picture on a test question", nil)
			}
			preds = append(preds, grid)
		}

		result.Source = append(result.Source, compiler.Decompile(entry.code, false))
		result.Evaluation = append(result.Evaluation, entry.eval)
		result.Elapsed = append(result.Elapsed, entry.elapsed)
		result.NumWalks = append(result.NumWalks, entry.numWalks)
		result.Prediction = append(result.Prediction, preds)
	}

	return result, nil
}
