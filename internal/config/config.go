// Package config holds the tunable constants of the synthesis engine
// (SearchConstants, matching the original's SearchConf.py global list) and
// the JSON-shaped experiment configuration that drives a harness run
// (ExperimentConfig), loaded the way the teacher loads its own JSON-tagged
// executor configs.
package config

import (
	"encoding/json"
	"fmt"

	"github.com/kaalam/arcsynth/internal/utils"
)

// SearchConstants is the single tunable-constants object of spec.md §6,
// copied by value at the start of each problem's search (SearchConf.py is
// read once per problem and never mutated mid-search).
type SearchConstants struct {
	// Fragment-miner move generation.
	MaxMovesAtRoot      int     `json:"max_moves_at_root"`
	NumMovesStepDiscount float64 `json:"num_moves_step_discount"`

	// Priors, rewards and evaluation blending.
	NumTopSolutions    int     `json:"num_top_solutions"`
	WeightPriorByForm  float64 `json:"weight_prior_by_form"`
	WeightMinInEval    float64 `json:"weight_min_in_eval"`
	PriorBoostInSnippet float64 `json:"prior_boost_in_snippet"`

	// MCTS walk constants.
	AddExpNoiseEach int     `json:"add_exp_noise_each"`
	DirichletAlpha  float64 `json:"dirichlet_alpha"`
	ExplorationFrac float64 `json:"exploration_frac"`
	UCBCBase        float64 `json:"ucb_c_base"`
	UCBCInit        float64 `json:"ucb_c_init"`
	UCBDiscount     float64 `json:"ucb_discount"`
	RewardDiscount  float64 `json:"reward_discount"`

	// Evaluation sentinels and guards.
	EvalFullMatch   float64 `json:"eval_full_match"`
	EvalWrongShape  float64 `json:"eval_wrong_shape"`
	EvalMaxPicSize  int     `json:"eval_max_pic_size"`
}

// DefaultSearchConstants returns the constants pinned in SearchConf.py.
func DefaultSearchConstants() SearchConstants {
	return SearchConstants{
		MaxMovesAtRoot:       150,
		NumMovesStepDiscount: 0.75,

		NumTopSolutions:     3,
		WeightPriorByForm:   0.3,
		WeightMinInEval:     0.6,
		PriorBoostInSnippet: 0.5,

		AddExpNoiseEach: 20,
		DirichletAlpha:  0.1,
		ExplorationFrac: 0.15,
		UCBCBase:        19652,
		UCBCInit:        1.25,
		UCBDiscount:     1.2,
		RewardDiscount:  0.9,

		EvalFullMatch:  5,
		EvalWrongShape: -5,
		EvalMaxPicSize: 40,
	}
}

// StoppingRule is the per-problem `stop_rlz` object of an ExperimentConfig.
type StoppingRule struct {
	MinNumWalks         int     `json:"min_num_walks"`
	StopNumFullMatches  int     `json:"stop_num_full_matches"`
	MaxBrokenWalks      int     `json:"max_broken_walks"`
	BrokenThreshold     float64 `json:"broken_threshold"`
	MaxElapsedSec       float64 `json:"max_elapsed_sec"`
}

// ExperimentConfig is the JSON shape of spec.md §6's "Experiment config":
// which problems to run and the stopping/engine constants to run them
// with. A zero-value Engine falls back to DefaultSearchConstants.
type ExperimentConfig struct {
	ExperimentPath string          `json:"experiment_path"`
	Solved         []string        `json:"solved"`
	NotSolved      []string        `json:"not_solved"`
	StopRule       StoppingRule    `json:"stop_rlz"`
	Engine         SearchConstants `json:"engine"`

	// RewardExpression optionally overrides internal/reward's default
	// heuristic formula; empty keeps internal/reward.DefaultHeuristicExpression.
	RewardExpression string `json:"reward_expression,omitempty"`
}

// LoadExperimentConfig parses an ExperimentConfig from JSON, the way the
// teacher's executor configs round-trip through encoding/json.
func LoadExperimentConfig(data []byte) (*ExperimentConfig, error) {
	var cfg ExperimentConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse experiment config: %w", err)
	}
	cfg.Engine = utils.DefaultValue(cfg.Engine, DefaultSearchConstants())
	return &cfg, nil
}

// Validate reports a malformed ExperimentConfig: an empty experiment path,
// or a problem list naming no files at all.
func (c *ExperimentConfig) Validate() error {
	if c.ExperimentPath == "" {
		return fmt.Errorf("config: experiment_path is required")
	}
	if len(c.Solved) == 0 && len(c.NotSolved) == 0 {
		return fmt.Errorf("config: experiment must name at least one problem")
	}
	return nil
}
