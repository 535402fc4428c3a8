package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultSearchConstantsMatchSearchConf(t *testing.T) {
	c := DefaultSearchConstants()
	require.Equal(t, 150, c.MaxMovesAtRoot)
	require.Equal(t, 0.75, c.NumMovesStepDiscount)
	require.Equal(t, 3, c.NumTopSolutions)
	require.Equal(t, 0.3, c.WeightPriorByForm)
	require.Equal(t, 0.6, c.WeightMinInEval)
	require.Equal(t, 0.5, c.PriorBoostInSnippet)
	require.Equal(t, 20, c.AddExpNoiseEach)
	require.Equal(t, 0.1, c.DirichletAlpha)
	require.Equal(t, 0.15, c.ExplorationFrac)
	require.Equal(t, 19652.0, c.UCBCBase)
	require.Equal(t, 1.25, c.UCBCInit)
	require.Equal(t, 1.2, c.UCBDiscount)
	require.Equal(t, 0.9, c.RewardDiscount)
	require.Equal(t, 5.0, c.EvalFullMatch)
	require.Equal(t, -5.0, c.EvalWrongShape)
	require.Equal(t, 40, c.EvalMaxPicSize)
}

func TestLoadExperimentConfigFillsEngineDefaults(t *testing.T) {
	data := []byte(`{
		"experiment_path": "/data/arc",
		"solved": ["007bbfb7.json"],
		"stop_rlz": {"min_num_walks": 10, "stop_num_full_matches": 1, "max_broken_walks": 5, "broken_threshold": 0.05, "max_elapsed_sec": 30}
	}`)

	cfg, err := LoadExperimentConfig(data)
	require.NoError(t, err)
	require.Equal(t, "/data/arc", cfg.ExperimentPath)
	require.Equal(t, []string{"007bbfb7.json"}, cfg.Solved)
	require.Equal(t, 10, cfg.StopRule.MinNumWalks)
	require.Equal(t, DefaultSearchConstants(), cfg.Engine)
	require.NoError(t, cfg.Validate())
}

func TestLoadExperimentConfigRejectsMalformedJSON(t *testing.T) {
	_, err := LoadExperimentConfig([]byte(`{not json`))
	require.Error(t, err)
}

func TestValidateRejectsMissingExperimentPath(t *testing.T) {
	cfg := ExperimentConfig{Solved: []string{"a.json"}}
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsEmptyProblemLists(t *testing.T) {
	cfg := ExperimentConfig{ExperimentPath: "/data/arc"}
	require.Error(t, cfg.Validate())
}

func TestExplicitEngineOverridesDefault(t *testing.T) {
	data := []byte(`{
		"experiment_path": "/data/arc",
		"solved": ["a.json"],
		"engine": {"max_moves_at_root": 50, "num_moves_step_discount": 0.5,
			"num_top_solutions": 1, "weight_prior_by_form": 0, "weight_min_in_eval": 0,
			"prior_boost_in_snippet": 0, "add_exp_noise_each": 1, "dirichlet_alpha": 0,
			"exploration_frac": 0, "ucb_c_base": 1, "ucb_c_init": 1, "ucb_discount": 1,
			"reward_discount": 1, "eval_full_match": 1, "eval_wrong_shape": -1, "eval_max_pic_size": 1}
	}`)

	cfg, err := LoadExperimentConfig(data)
	require.NoError(t, err)
	require.Equal(t, 50, cfg.Engine.MaxMovesAtRoot)
	require.NotEqual(t, DefaultSearchConstants(), cfg.Engine)
}
