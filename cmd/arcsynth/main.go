// Command arcsynth runs an ARC program-synthesis experiment: it loads a
// code base and a directory of problems, mines fragment priors, then
// searches every problem named in an experiment config, printing one
// result line per problem.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/kaalam/arcsynth/internal/codebase"
	"github.com/kaalam/arcsynth/internal/config"
	"github.com/kaalam/arcsynth/internal/harness"
	"github.com/kaalam/arcsynth/internal/miner"
	"github.com/kaalam/arcsynth/internal/obslog"
	"github.com/kaalam/arcsynth/internal/primitive"
	"github.com/kaalam/arcsynth/internal/reward"
)

func main() {
	var (
		configPath   = flag.String("config", "", "path to an experiment config JSON file")
		codeBasePath = flag.String("codebase", "", "path to a .bopDB code-base file")
		cachePath    = flag.String("cache", "", "path to a msgpack crash-recovery cache file (optional)")
		logLevel     = flag.String("log-level", "info", "log level: debug, info, warn, error")
		seed         = flag.Int64("seed", 1, "random seed for exploration noise and negative-sample mining")
	)
	flag.Parse()

	log := obslog.Setup(*logLevel)

	if *configPath == "" || *codeBasePath == "" {
		log.Error("both -config and -codebase are required")
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*configPath, *codeBasePath, *cachePath, *seed); err != nil {
		log.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath, codeBasePath, cachePath string, seed int64) error {
	cfgData, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("reading experiment config: %w", err)
	}
	cfg, err := config.LoadExperimentConfig(cfgData)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	registry := primitive.NewStandardRegistry()

	cbFile, err := os.Open(codeBasePath)
	if err != nil {
		return fmt.Errorf("opening code base: %w", err)
	}
	defer cbFile.Close()

	cb, err := codebase.Load(registry, cbFile)
	if err != nil {
		return fmt.Errorf("loading code base: %w", err)
	}

	m, err := miner.Build(registry, cb)
	if err != nil {
		return fmt.Errorf("mining code base: %w", err)
	}

	model, err := reward.NewHeuristicModel(cfg.RewardExpression)
	if err != nil {
		return fmt.Errorf("building reward model: %w", err)
	}

	problems, err := harness.LoadProblemDir(os.DirFS(cfg.ExperimentPath), ".")
	if err != nil {
		return fmt.Errorf("loading problems: %w", err)
	}
	problemsByName := make(map[string]*harness.Problem, len(problems))
	for _, p := range problems {
		problemsByName[p.Name] = p
	}

	cache := harness.Cache{}
	if cachePath != "" {
		cache, err = harness.LoadCache(cachePath)
		if err != nil {
			return fmt.Errorf("loading cache: %w", err)
		}
	}

	rng := rand.New(rand.NewSource(seed))
	outcomes, err := harness.RunExperiment(context.Background(), cfg, problemsByName, registry, m, model, rng, cache)
	if err != nil {
		return fmt.Errorf("running experiment: %w", err)
	}

	for _, o := range outcomes {
		fmt.Println(o.String())
	}

	if cachePath != "" {
		if err := cache.Save(cachePath); err != nil {
			return fmt.Errorf("saving cache: %w", err)
		}
	}
	return nil
}
