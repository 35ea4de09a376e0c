package topicmind

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mindloom/topicmind/internal/clustering"
	"github.com/mindloom/topicmind/internal/ctfidf"
)

// TrainerDeps holds the collaborators a Trainer needs. Embedding is
// required; Labels and Cache are optional and their absence only degrades
// quality, never correctness.
type TrainerDeps struct {
	// Embedding turns documents into vectors (required).
	Embedding EmbeddingClient

	// Labels generates descriptive topic labels. Nil disables step (d) of
	// training; topics keep their keyword-derived labels.
	Labels LabelClient

	// Cache is an optional embedding cache consulted before Embedding.
	Cache VectorCache

	// Reducer configures the outlier-reduction chain.
	Reducer ReducerConfig

	Logger *zap.Logger
}

// Trainer orchestrates one model's training pipeline: reduction,
// clustering, representation, labeling, and outlier reduction.
type Trainer struct {
	cfg     TrainerConfig
	deps    TrainerDeps
	reducer *OutlierReducer
	logger  *zap.Logger

	// Set by a successful Train; consumed by SaveModel.
	result   *TrainingResult
	artifact *ModelArtifact
}

// TrainOptions carries optional precomputed inputs for Train.
type TrainOptions struct {
	// Embeddings skips the embedding collaborator when the caller already
	// holds vectors for the documents, in order.
	Embeddings [][]float32
}

// NewTrainer creates a Trainer for the given configuration.
func NewTrainer(cfg TrainerConfig, deps TrainerDeps) (*Trainer, error) {
	cfg.applyDefaults()

	if deps.Embedding == nil {
		return nil, fmt.Errorf("embedding client is required")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	return &Trainer{
		cfg:     cfg,
		deps:    deps,
		reducer: NewOutlierReducer(deps.Reducer, deps.Logger),
		logger:  deps.Logger.With(zap.String("model_type", string(cfg.ModelType))),
	}, nil
}

// Train runs the full pipeline over the documents and returns an immutable
// TrainingResult. Training is all-or-nothing: a clustering failure
// propagates and leaves no partial result behind.
func (t *Trainer) Train(ctx context.Context, docs []Document, opts *TrainOptions) (*TrainingResult, error) {
	start := time.Now()

	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}
	if len(docs) < t.cfg.MinClusterSize {
		return nil, fmt.Errorf("%w: %d documents, minimum cluster size %d",
			ErrTooFewDocuments, len(docs), t.cfg.MinClusterSize)
	}

	embeddings, err := t.resolveEmbeddings(ctx, docs, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed documents: %w", err)
	}

	// (a) deterministic dimensionality reduction
	points := toFloat64(embeddings)
	projection, err := clustering.NewProjection(len(points[0]), t.cfg.OutputDims, t.cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("failed to build reduction transform: %w", err)
	}
	reduced, err := projection.TransformAll(points)
	if err != nil {
		return nil, fmt.Errorf("failed to reduce embeddings: %w", err)
	}
	reduced = clustering.Smooth(reduced, t.cfg.Neighbors)

	// (b) clustering
	algorithm, err := t.buildAlgorithm()
	if err != nil {
		return nil, err
	}
	topicIDs, err := algorithm.Cluster(reduced)
	if err != nil {
		return nil, fmt.Errorf("clustering failed: %w", err)
	}

	centroids := topicCentroids(reduced, topicIDs)
	assignment := &Assignment{
		TopicIDs:      topicIDs,
		Probabilities: topicProbabilities(reduced, centroids),
	}

	// (c) keyword representations
	classDocs := make(map[int][]string)
	for i, id := range assignment.TopicIDs {
		if id != OutlierTopic {
			classDocs[id] = append(classDocs[id], docs[i].Text)
		}
	}
	representation := ctfidf.Fit(classDocs, t.cfg.TopKeywords)

	// (d) descriptive labels, best-effort
	generated, degraded := t.generateLabels(ctx, docs, assignment, representation)

	// (e) outlier reduction
	assignment, reductions := t.reducer.Reduce(docs, assignment, representation)

	// (f) assemble the result
	topics := assembleTopics(assignment, representation, generated)
	outlierCount := assignment.OutlierCount()

	result := &TrainingResult{
		RunID:            uuid.New().String(),
		ModelType:        t.cfg.ModelType,
		NumTopics:        len(topics),
		NumDocuments:     len(docs),
		OutlierCount:     outlierCount,
		OutlierRatio:     float64(outlierCount) / float64(len(docs)),
		Topics:           topics,
		TopicsOverTime:   topicsOverTime(docs, assignment),
		Reductions:       reductions,
		LabelingDegraded: degraded,
		Duration:         time.Since(start),
		TrainedAt:        start.UTC(),
		Config:           t.cfg,
	}

	t.result = result
	t.artifact = &ModelArtifact{
		ModelType:           t.cfg.ModelType,
		CreatedAt:           result.TrainedAt,
		Config:              t.cfg,
		Projection:          projection,
		Centroids:           centroids,
		Signatures:          representation.Signatures,
		Topics:              topics,
		LabelCache:          generated,
		MinAssignSimilarity: DefaultMinAssignSimilarity,
	}

	t.logger.Info("training complete",
		zap.String("run_id", result.RunID),
		zap.Int("topics", result.NumTopics),
		zap.Int("documents", result.NumDocuments),
		zap.Float64("outlier_ratio", result.OutlierRatio),
		zap.Duration("duration", result.Duration))

	return result, nil
}

// SaveModel persists the fitted model to a fresh versioned location under
// dir and returns it. Only callable after a successful Train.
func (t *Trainer) SaveModel(dir string) (string, error) {
	if t.artifact == nil {
		return "", ErrModelNotTrained
	}
	t.artifact.Version = newArtifactVersion(time.Now())
	return saveArtifact(t.artifact, dir)
}

// Result returns the last training result, or nil before a successful
// Train.
func (t *Trainer) Result() *TrainingResult {
	return t.result
}

// resolveEmbeddings returns caller-supplied vectors or computes them via
// the cache and the embedding collaborator.
func (t *Trainer) resolveEmbeddings(ctx context.Context, docs []Document, opts *TrainOptions) ([][]float32, error) {
	if opts != nil && opts.Embeddings != nil {
		if len(opts.Embeddings) != len(docs) {
			return nil, fmt.Errorf("have %d documents but %d embeddings", len(docs), len(opts.Embeddings))
		}
		return opts.Embeddings, nil
	}

	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Text
	}

	if t.deps.Cache == nil {
		return t.deps.Embedding.GenerateEmbeddings(ctx, texts)
	}
	return t.embedWithCache(ctx, texts)
}

// embedWithCache consults the vector cache by content id and only sends
// the misses to the embedding collaborator. Cache failures cost a round
// trip, nothing more.
func (t *Trainer) embedWithCache(ctx context.Context, texts []string) ([][]float32, error) {
	ids := make([]string, len(texts))
	for i, text := range texts {
		ids[i] = contentID(text)
	}

	cached, err := t.deps.Cache.Fetch(ctx, ids)
	if err != nil {
		t.logger.Warn("embedding cache fetch failed", zap.Error(err))
		cached = nil
	}

	missing := make([]string, 0)
	missingIdx := make([]int, 0)
	embeddings := make([][]float32, len(texts))
	for i, id := range ids {
		if vec, ok := cached[id]; ok {
			embeddings[i] = vec
			continue
		}
		missing = append(missing, texts[i])
		missingIdx = append(missingIdx, i)
	}

	if len(missing) > 0 {
		fresh, err := t.deps.Embedding.GenerateEmbeddings(ctx, missing)
		if err != nil {
			return nil, err
		}
		if len(fresh) != len(missing) {
			return nil, fmt.Errorf("embedding collaborator returned %d vectors for %d texts", len(fresh), len(missing))
		}
		for j, vec := range fresh {
			i := missingIdx[j]
			embeddings[i] = vec
			if err := t.deps.Cache.Upsert(ctx, ids[i], vec, map[string]any{
				"model_type": string(t.cfg.ModelType),
			}); err != nil {
				t.logger.Warn("embedding cache upsert failed", zap.Error(err))
			}
		}
	}

	return embeddings, nil
}

// buildAlgorithm constructs the configured clustering algorithm.
func (t *Trainer) buildAlgorithm() (clustering.Algorithm, error) {
	switch t.cfg.Algorithm {
	case AlgorithmDBSCAN:
		return clustering.NewDBSCAN(t.cfg.Epsilon, t.cfg.MinSamples, t.cfg.MinClusterSize)
	case AlgorithmKMeans:
		return clustering.NewKMeans(t.cfg.NumClusters)
	default:
		return nil, fmt.Errorf("unknown clustering algorithm %q", t.cfg.Algorithm)
	}
}

// generateLabels asks the label collaborator to name each topic. Any
// failure degrades that topic to its keyword label and is logged; it never
// aborts training.
func (t *Trainer) generateLabels(ctx context.Context, docs []Document, assignment *Assignment, representation *ctfidf.Model) (map[int]string, bool) {
	if !t.cfg.GenerateLabels || t.deps.Labels == nil {
		return nil, false
	}

	samples := make(map[int][]string)
	for i, id := range assignment.TopicIDs {
		if id != OutlierTopic && len(samples[id]) < t.cfg.SampleDocs {
			samples[id] = append(samples[id], docs[i].Text)
		}
	}

	generated := make(map[int]string)
	degraded := false
	for id, keywords := range representation.Keywords {
		raw, err := t.deps.Labels.GenerateLabel(ctx, ctfidf.Terms(keywords), samples[id])
		if err != nil {
			degraded = true
			t.logger.Warn("descriptive label generation failed, keeping keyword label",
				zap.Int("topic", id),
				zap.Error(err))
			continue
		}

		label := ExtractLabel(RawLabel{Value: raw})
		if strings.TrimSpace(label) == "" {
			degraded = true
			t.logger.Warn("descriptive label was blank, keeping keyword label",
				zap.Int("topic", id))
			continue
		}
		generated[id] = label
	}

	return generated, degraded
}

// assembleTopics builds the TopicInfo list from the final assignment. The
// keyword label joins the top terms; counts reflect the post-reduction
// assignment.
func assembleTopics(assignment *Assignment, representation *ctfidf.Model, generated map[int]string) []TopicInfo {
	counts := make(map[int]int)
	for _, id := range assignment.TopicIDs {
		if id != OutlierTopic {
			counts[id]++
		}
	}

	ids := make([]int, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	topics := make([]TopicInfo, 0, len(ids))
	for _, id := range ids {
		keywords := ctfidf.Terms(representation.Keywords[id])
		topics = append(topics, TopicInfo{
			ID:             id,
			Count:          counts[id],
			Keywords:       keywords,
			KeywordLabel:   keywordLabel(keywords),
			GeneratedLabel: generated[id],
		})
	}
	return topics
}

// keywordLabel derives a readable label from the top three keywords.
func keywordLabel(keywords []string) string {
	n := len(keywords)
	if n > 3 {
		n = 3
	}
	return strings.Join(keywords[:n], ", ")
}

// topicsOverTime buckets per-topic counts by month. Returns nil when no
// document carries a timestamp.
func topicsOverTime(docs []Document, assignment *Assignment) map[string]map[int]int {
	series := make(map[string]map[int]int)
	for i, d := range docs {
		if d.Timestamp.IsZero() || assignment.TopicIDs[i] == OutlierTopic {
			continue
		}
		month := d.Timestamp.UTC().Format("2006-01")
		if series[month] == nil {
			series[month] = make(map[int]int)
		}
		series[month][assignment.TopicIDs[i]]++
	}
	if len(series) == 0 {
		return nil
	}
	return series
}

// topicCentroids computes the reduced-space center of each cluster.
func topicCentroids(points [][]float64, topicIDs []int) map[int][]float64 {
	grouped := make(map[int][][]float64)
	for i, id := range topicIDs {
		if id != OutlierTopic {
			grouped[id] = append(grouped[id], points[i])
		}
	}

	centroids := make(map[int][]float64, len(grouped))
	for id, members := range grouped {
		centroids[id] = clustering.Centroid(members)
	}
	return centroids
}

// topicProbabilities derives a per-document distribution over topics from
// cosine similarity to each centroid (softmax). Index k of each row is the
// probability of topic k. Nil when there are no topics.
func topicProbabilities(points [][]float64, centroids map[int][]float64) [][]float64 {
	if len(centroids) == 0 {
		return nil
	}

	numTopics := 0
	for id := range centroids {
		if id+1 > numTopics {
			numTopics = id + 1
		}
	}

	probs := make([][]float64, len(points))
	for i, p := range points {
		row := make([]float64, numTopics)
		var sum float64
		for id := 0; id < numTopics; id++ {
			centroid, ok := centroids[id]
			if !ok {
				continue
			}
			row[id] = math.Exp(clustering.Cosine(p, centroid))
			sum += row[id]
		}
		if sum > 0 {
			for id := range row {
				row[id] /= sum
			}
		}
		probs[i] = row
	}
	return probs
}

// contentID derives a stable cache id from document text.
func contentID(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])[:32]
}

// toFloat64 widens embedding vectors for the numeric pipeline.
func toFloat64(vecs [][]float32) [][]float64 {
	out := make([][]float64, len(vecs))
	for i, v := range vecs {
		row := make([]float64, len(v))
		for j, x := range v {
			row[j] = float64(x)
		}
		out[i] = row
	}
	return out
}
