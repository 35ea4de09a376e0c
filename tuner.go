package topicmind

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	"go.uber.org/zap"
)

// TunerConfig defines the hyperparameter value sets the grid search draws
// from.
type TunerConfig struct {
	Neighbors       []int
	OutputDims      []int
	MinClusterSizes []int
	MinSamples      []int
	TopKeywords     []int

	// Seed drives grid subsampling when the space exceeds the trial
	// budget.
	Seed int64
}

// applyDefaults fills in default values for unset config fields.
func (c *TunerConfig) applyDefaults() {
	if len(c.Neighbors) == 0 {
		c.Neighbors = []int{5, 15, 30}
	}
	if len(c.OutputDims) == 0 {
		c.OutputDims = []int{5, 10}
	}
	if len(c.MinClusterSizes) == 0 {
		c.MinClusterSizes = []int{5, 10, 20}
	}
	if len(c.MinSamples) == 0 {
		c.MinSamples = []int{3, 5}
	}
	if len(c.TopKeywords) == 0 {
		c.TopKeywords = []int{10}
	}
	if c.Seed == 0 {
		c.Seed = DefaultSeed
	}
}

// Tuner grid-searches the trainer's configuration space, ranking trials
// by the validator's composite score.
type Tuner struct {
	cfg       TunerConfig
	base      TrainerConfig
	deps      TrainerDeps
	validator *Validator
	logger    *zap.Logger
}

// NewTuner creates a tuner. base supplies the fixed configuration fields
// (model type, seed, algorithm); the grid overrides the searched ones.
func NewTuner(cfg TunerConfig, base TrainerConfig, deps TrainerDeps, validator *Validator) (*Tuner, error) {
	cfg.applyDefaults()
	base.applyDefaults()

	if deps.Embedding == nil {
		return nil, fmt.Errorf("embedding client is required")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if validator == nil {
		validator = NewValidator(ValidationThresholds{})
	}

	return &Tuner{
		cfg:       cfg,
		base:      base,
		deps:      deps,
		validator: validator,
		logger:    deps.Logger,
	}, nil
}

// Tune evaluates up to maxTrials configurations over the given documents
// and embeddings. A failed trial is recorded with score 0 and the search
// continues; the best trial is the highest-scoring one, first-seen winning
// ties.
func (t *Tuner) Tune(ctx context.Context, docs []Document, embeddings [][]float32, maxTrials int) (*TuningResult, error) {
	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}
	if maxTrials <= 0 {
		return nil, fmt.Errorf("maxTrials must be positive, got %d", maxTrials)
	}

	grid := t.buildGrid()
	if len(grid) > maxTrials {
		grid = subsample(grid, maxTrials, t.cfg.Seed)
	}

	result := &TuningResult{Trials: make([]Trial, 0, len(grid))}
	bestIdx := -1

	for i, params := range grid {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		trial := t.runTrial(ctx, params, docs, embeddings)
		result.Trials = append(result.Trials, trial)

		if bestIdx == -1 || trial.Score > result.Trials[bestIdx].Score {
			bestIdx = i
		}

		t.logger.Debug("tuning trial finished",
			zap.Int("trial", i),
			zap.Float64("score", trial.Score),
			zap.String("error", trial.Err))
	}

	result.Best = result.Trials[bestIdx]
	return result, nil
}

// runTrial trains and scores one configuration. Errors become a
// zero-score trial record instead of aborting the search.
func (t *Tuner) runTrial(ctx context.Context, params TrainerConfig, docs []Document, embeddings [][]float32) Trial {
	trial := Trial{Params: params}

	// Descriptive labels stay off during the search for speed.
	deps := t.deps
	deps.Labels = nil

	trainer, err := NewTrainer(params, deps)
	if err != nil {
		trial.Err = err.Error()
		return trial
	}

	trained, err := trainer.Train(ctx, docs, &TrainOptions{Embeddings: embeddings})
	if err != nil {
		trial.Err = err.Error()
		return trial
	}

	trial.Result = trained
	trial.Score = t.validator.Validate(trained).CompositeScore
	return trial
}

// buildGrid enumerates the Cartesian product of the configured value
// sets, in deterministic order.
func (t *Tuner) buildGrid() []TrainerConfig {
	var grid []TrainerConfig
	for _, neighbors := range t.cfg.Neighbors {
		for _, dims := range t.cfg.OutputDims {
			for _, minCluster := range t.cfg.MinClusterSizes {
				for _, minSamples := range t.cfg.MinSamples {
					for _, topK := range t.cfg.TopKeywords {
						params := t.base
						params.Neighbors = neighbors
						params.OutputDims = dims
						params.MinClusterSize = minCluster
						params.MinSamples = minSamples
						params.TopKeywords = topK
						params.GenerateLabels = false
						grid = append(grid, params)
					}
				}
			}
		}
	}
	return grid
}

// subsample deterministically picks exactly n combinations, preserving
// the original evaluation order of the picks.
func subsample(grid []TrainerConfig, n int, seed int64) []TrainerConfig {
	rng := rand.New(rand.NewSource(seed))
	picks := rng.Perm(len(grid))[:n]
	sort.Ints(picks)

	out := make([]TrainerConfig, n)
	for i, idx := range picks {
		out[i] = grid[idx]
	}
	return out
}
