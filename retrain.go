package topicmind

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Retrain reasons recorded in TrainingMetadata and Decision.
const (
	ReasonBaseline  = "baseline"
	ReasonGrowth    = "corpus_growth"
	ReasonStaleness = "staleness"
	ReasonForced    = "forced"
	ReasonSkip      = "up_to_date"
)

// Decision is the outcome of one evaluation cycle: whether to retrain and
// why, with the corpus counts the decision was made on.
type Decision struct {
	Retrain bool         `json:"retrain"`
	Reason  string       `json:"reason"`
	Counts  CorpusCounts `json:"counts"`

	// Growth is the summed per-corpus document increase since the last
	// training event. Negative deltas (deletions) do not offset growth
	// elsewhere.
	Growth int `json:"growth"`

	// Age is how long ago the last training event ran. Zero on baseline.
	Age time.Duration `json:"age,omitempty"`
}

// EngineConfig wires the retrain decision engine.
type EngineConfig struct {
	Policy RetrainPolicy

	// ArtifactDir is the root directory trained models are saved under.
	ArtifactDir string

	// Trainers overrides the per-sub-model training configuration. Missing
	// entries get defaults; the severity sub-model defaults to k-means over
	// the severity bands.
	Trainers map[ModelType]TrainerConfig
}

// Engine decides when the model family should retrain and orchestrates the
// per-sub-model runs when it should. One engine serves the whole family;
// Run is not meant to be called concurrently with itself.
type Engine struct {
	store     MetadataStore
	source    DocumentSource
	deps      TrainerDeps
	policy    RetrainPolicy
	validator *Validator
	cfgs      map[ModelType]TrainerConfig
	dir       string
	logger    *zap.Logger

	now func() time.Time
}

// NewEngine creates a retrain engine.
func NewEngine(cfg EngineConfig, store MetadataStore, source DocumentSource, deps TrainerDeps, validator *Validator) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("metadata store is required")
	}
	if source == nil {
		return nil, fmt.Errorf("document source is required")
	}
	if deps.Embedding == nil {
		return nil, fmt.Errorf("embedding client is required")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if validator == nil {
		validator = NewValidator(ValidationThresholds{})
	}

	cfg.Policy.applyDefaults()
	if cfg.ArtifactDir == "" {
		cfg.ArtifactDir = "models"
	}

	cfgs := make(map[ModelType]TrainerConfig, len(ModelTypes))
	for _, mt := range ModelTypes {
		tc := cfg.Trainers[mt]
		tc.ModelType = mt
		if mt == ModelSeverity && tc.Algorithm == "" {
			// Severity wants a fixed number of bands, not density clusters.
			tc.Algorithm = AlgorithmKMeans
		}
		if deps.Labels != nil {
			// A wired label collaborator should name topics on every
			// engine-driven run; severity mapping depends on it.
			tc.GenerateLabels = true
		}
		tc.applyDefaults()
		cfgs[mt] = tc
	}

	return &Engine{
		store:     store,
		source:    source,
		deps:      deps,
		policy:    cfg.Policy,
		validator: validator,
		cfgs:      cfgs,
		dir:       cfg.ArtifactDir,
		logger:    deps.Logger,
		now:       time.Now,
	}, nil
}

// Evaluate decides whether a retrain is due. With no prior metadata it
// writes a baseline record of the current counts and reports no retrain,
// so the first growth window is measured from a known point.
func (e *Engine) Evaluate(ctx context.Context, force bool) (*Decision, error) {
	counts, err := e.corpusCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count corpora: %w", err)
	}

	last, err := e.store.LatestMetadata(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read training metadata: %w", err)
	}

	if last == nil {
		baseline := &TrainingMetadata{
			ID:        uuid.New().String(),
			Counts:    counts,
			TrainedAt: e.now().UTC(),
			Reason:    ReasonBaseline,
		}
		if err := e.store.AppendMetadata(ctx, baseline); err != nil {
			return nil, fmt.Errorf("failed to write baseline metadata: %w", err)
		}
		e.logger.Info("wrote baseline training metadata",
			zap.Any("counts", counts))
		return &Decision{Retrain: false, Reason: ReasonBaseline, Counts: counts}, nil
	}

	growth := 0
	for _, mt := range ModelTypes {
		if delta := counts[mt] - last.Counts[mt]; delta > 0 {
			growth += delta
		}
	}
	age := e.now().Sub(last.TrainedAt)

	// Threshold reasons outrank the force flag: a forced run that also
	// crossed a threshold records the threshold as its cause.
	decision := &Decision{Counts: counts, Growth: growth, Age: age}
	switch {
	case growth >= e.policy.GrowthThreshold:
		decision.Retrain = true
		decision.Reason = ReasonGrowth
	case age >= time.Duration(e.policy.StalenessDays)*24*time.Hour:
		decision.Retrain = true
		decision.Reason = ReasonStaleness
	case force:
		decision.Retrain = true
		decision.Reason = ReasonForced
	default:
		decision.Reason = ReasonSkip
	}

	e.logger.Info("retrain evaluation",
		zap.Bool("retrain", decision.Retrain),
		zap.String("reason", decision.Reason),
		zap.Int("growth", growth),
		zap.Duration("age", age))
	return decision, nil
}

// Run evaluates and, when due, retrains every eligible sub-model. A
// sub-model below the document floor is skipped; a sub-model whose
// training fails is recorded as failed without aborting the others. The
// full per-sub-model outcome is appended as one metadata record.
func (e *Engine) Run(ctx context.Context, force bool) (*TrainingMetadata, *Decision, error) {
	decision, err := e.Evaluate(ctx, force)
	if err != nil {
		return nil, nil, err
	}
	if !decision.Retrain {
		return nil, decision, nil
	}

	meta := &TrainingMetadata{
		ID:        uuid.New().String(),
		Counts:    decision.Counts,
		TrainedAt: e.now().UTC(),
		Reason:    decision.Reason,
		Results:   make(map[string]SubModelResult, len(ModelTypes)),
	}

	for _, mt := range ModelTypes {
		meta.Results[string(mt)] = e.runSubModel(ctx, mt, decision.Counts[mt])
	}

	if err := e.store.AppendMetadata(ctx, meta); err != nil {
		return nil, decision, fmt.Errorf("failed to record training event: %w", err)
	}
	return meta, decision, nil
}

// runSubModel trains, validates, and persists one sub-model.
func (e *Engine) runSubModel(ctx context.Context, mt ModelType, count int) SubModelResult {
	logger := e.logger.With(zap.String("model_type", string(mt)))

	if count < e.policy.MinDocuments {
		logger.Info("skipping sub-model, corpus below floor",
			zap.Int("documents", count),
			zap.Int("floor", e.policy.MinDocuments))
		return SubModelResult{
			Status: SubModelSkipped,
			Reason: fmt.Sprintf("%d documents, need at least %d", count, e.policy.MinDocuments),
		}
	}

	docs, err := e.source.Documents(ctx, mt)
	if err != nil {
		logger.Error("failed to load corpus", zap.Error(err))
		return SubModelResult{Status: SubModelFailed, Error: err.Error()}
	}

	trainer, err := NewTrainer(e.cfgs[mt], e.deps)
	if err != nil {
		return SubModelResult{Status: SubModelFailed, Error: err.Error()}
	}

	result, err := trainer.Train(ctx, docs, nil)
	if err != nil {
		logger.Error("training failed", zap.Error(err))
		return SubModelResult{Status: SubModelFailed, Error: err.Error()}
	}

	report := e.validator.Validate(result)
	if err := e.store.SaveReport(ctx, report); err != nil {
		logger.Warn("failed to persist validation report", zap.Error(err))
	}

	location, err := trainer.SaveModel(e.dir)
	if err != nil {
		logger.Error("failed to persist model", zap.Error(err))
		return SubModelResult{Status: SubModelFailed, Error: err.Error()}
	}

	logger.Info("sub-model retrained",
		zap.String("run_id", result.RunID),
		zap.Int("topics", result.NumTopics),
		zap.String("validation", report.Status),
		zap.String("artifact", location))

	return SubModelResult{
		Status: SubModelTrained,
		Summary: &RunSummary{
			RunID:          result.RunID,
			NumTopics:      result.NumTopics,
			NumDocuments:   result.NumDocuments,
			OutlierRatio:   result.OutlierRatio,
			CompositeScore: report.CompositeScore,
			Status:         report.Status,
			ArtifactPath:   location,
		},
	}
}

// corpusCounts snapshots the current document count of every sub-model.
func (e *Engine) corpusCounts(ctx context.Context) (CorpusCounts, error) {
	counts := make(CorpusCounts, len(ModelTypes))
	for _, mt := range ModelTypes {
		n, err := e.source.Count(ctx, mt)
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", mt, err)
		}
		counts[mt] = n
	}
	return counts, nil
}
