// Package mcts implements the Monte-Carlo tree search that drives program
// synthesis: a tree of candidate continuations is grown walk by walk, each
// walk selecting down to a leaf by UCB score, expanding it with the
// fragment miner's prior-ranked moves, and backpropagating a discounted
// reward back up to the root.
package mcts

import (
	"math"
	"math/rand"

	"github.com/kaalam/arcsynth/internal/config"
	"github.com/kaalam/arcsynth/internal/vm"
)

// Node is one state in the search tree: the code item that led to it from
// its parent, the prior CodeGen assigned that item, the reward accumulated
// at or below it, and how many times it (or a descendant) has been visited.
//
// The root is the only node with a nil Code and Parent; every other node is
// created with Visits already at 1, matching the constructor the tree
// builds non-root nodes with.
type Node struct {
	Parent   *Node
	Children []*Node
	Code     vm.Code
	Prior    float64
	Reward   float64
	Visits   int
}

// NewRoot creates an empty root node: no code, no parent, zero visits.
func NewRoot() *Node {
	return &Node{}
}

// NewChild creates a node for code item, appends it to parent's children,
// and returns it. A freshly created child already counts as one visit.
func NewChild(parent *Node, code vm.Code, prior, reward float64) *Node {
	child := &Node{Parent: parent, Code: code, Prior: prior, Reward: reward, Visits: 1}
	parent.Children = append(parent.Children, child)
	return child
}

// IsRoot reports whether n has no parent.
func (n *Node) IsRoot() bool { return n.Parent == nil }

// IsLeaf reports whether n has no children yet.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// ucbScore is the PUCT score a child earns under its parent, blending a
// prior-weighted exploration term with a visit-discounted value term.
func ucbScore(parent, child *Node, c config.SearchConstants) float64 {
	pbC := math.Log((float64(parent.Visits)+c.UCBCBase+1)/c.UCBCBase) + c.UCBCInit
	pbC *= math.Sqrt(float64(parent.Visits)) / (float64(child.Visits) + 1)

	priorScore := pbC * child.Prior
	valueScore := c.UCBDiscount * (child.Reward / (float64(child.Visits) + 1))
	return priorScore + valueScore
}

// SelectChild returns the child with the highest UCB score, the first one
// reached winning ties.
func (n *Node) SelectChild(c config.SearchConstants) *Node {
	best := n.Children[0]
	bestScore := ucbScore(n, best, c)
	for _, child := range n.Children[1:] {
		if score := ucbScore(n, child, c); score > bestScore {
			best, bestScore = child, score
		}
	}
	return best
}

// AddExplorationNoise blends each of n's children's prior with a draw from a
// symmetric Dirichlet distribution, the way the root is perturbed every
// few walks so the search does not collapse onto the miner's priors alone.
func (n *Node) AddExplorationNoise(rng *rand.Rand, c config.SearchConstants) {
	if len(n.Children) == 0 {
		return
	}
	noise := dirichletSample(rng, c.DirichletAlpha, len(n.Children))
	for i, child := range n.Children {
		child.Prior = child.Prior*(1-c.ExplorationFrac) + noise[i]*c.ExplorationFrac
	}
}

// dirichletSample draws a symmetric Dirichlet(alpha, ..., alpha) vector of
// length n via n independent Gamma(alpha, 1) draws, normalized to sum to 1.
// math/rand carries no distribution sampler beyond Normal/Exp, and no
// example repo in the corpus imports a statistics library (no gonum), so
// this is the standard-library Marsaglia-Tsang construction rather than a
// third-party one.
func dirichletSample(rng *rand.Rand, alpha float64, n int) []float64 {
	samples := make([]float64, n)
	var sum float64
	for i := range samples {
		g := gammaSample(rng, alpha)
		samples[i] = g
		sum += g
	}
	if sum == 0 {
		for i := range samples {
			samples[i] = 1.0 / float64(n)
		}
		return samples
	}
	for i := range samples {
		samples[i] /= sum
	}
	return samples
}

// gammaSample draws from Gamma(alpha, 1) via Marsaglia & Tsang's method,
// boosting alpha < 1 through Gamma(alpha+1) scaled by U^(1/alpha).
func gammaSample(rng *rand.Rand, alpha float64) float64 {
	if alpha < 1 {
		u := rng.Float64()
		return gammaSample(rng, alpha+1) * math.Pow(u, 1/alpha)
	}

	d := alpha - 1.0/3.0
	c := 1.0 / math.Sqrt(9*d)
	for {
		x := rng.NormFloat64()
		v := 1 + c*x
		if v <= 0 {
			continue
		}
		v = v * v * v
		u := rng.Float64()
		if u < 1-0.0331*x*x*x*x {
			return d * v
		}
		if math.Log(u) < 0.5*x*x+d*(1-v+math.Log(v)) {
			return d * v
		}
	}
}
