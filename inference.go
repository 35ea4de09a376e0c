package topicmind

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/mindloom/topicmind/internal/clustering"
)

// UnclassifiedLabel is the user-facing label for documents that landed on
// the outlier sentinel.
const UnclassifiedLabel = "unclassified"

// Inference classifies new documents against a persisted model. Instances
// are created empty and armed with Load; every predict operation before a
// successful Load returns ErrModelNotLoaded. A loaded artifact is
// immutable, so concurrent predict calls against one loaded instance are
// safe; a fresh Load simply replaces the artifact reference.
type Inference struct {
	embedding EmbeddingClient
	logger    *zap.Logger

	loaded   bool
	artifact *ModelArtifact
}

// NewInference creates an unloaded inference instance.
func NewInference(embedding EmbeddingClient, logger *zap.Logger) (*Inference, error) {
	if embedding == nil {
		return nil, fmt.Errorf("embedding client is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Inference{embedding: embedding, logger: logger}, nil
}

// Loaded reports whether a model is currently loaded.
func (inf *Inference) Loaded() bool {
	return inf.loaded
}

// Load reads a model artifact from a location produced by SaveModel.
// Idempotent; returns false on a missing or corrupt artifact and leaves
// any previously loaded model in place.
func (inf *Inference) Load(location string) bool {
	artifact, err := loadArtifact(location)
	if err != nil {
		inf.logger.Warn("failed to load model artifact",
			zap.String("location", location),
			zap.Error(err))
		return false
	}

	inf.artifact = artifact
	inf.loaded = true
	inf.logger.Info("model loaded",
		zap.String("model_type", string(artifact.ModelType)),
		zap.String("version", artifact.Version),
		zap.Int("topics", len(artifact.Topics)))
	return true
}

// Predict classifies documents and returns their topic ids plus the
// per-document probability distribution over topics.
func (inf *Inference) Predict(ctx context.Context, docs []Document) ([]int, [][]float64, error) {
	if !inf.loaded {
		return nil, nil, ErrModelNotLoaded
	}
	if len(docs) == 0 {
		return nil, nil, nil
	}

	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Text
	}
	embeddings, err := inf.embedding.GenerateEmbeddings(ctx, texts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to embed documents: %w", err)
	}
	if len(embeddings) != len(docs) {
		return nil, nil, fmt.Errorf("embedding collaborator returned %d vectors for %d documents", len(embeddings), len(docs))
	}

	reduced, err := inf.artifact.Projection.TransformAll(toFloat64(embeddings))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to reduce embeddings: %w", err)
	}

	ids := make([]int, len(docs))
	probabilities := topicProbabilities(reduced, inf.artifact.Centroids)
	for i, point := range reduced {
		ids[i] = inf.assign(point)
	}
	return ids, probabilities, nil
}

// assign picks the nearest centroid by cosine similarity, falling back to
// the outlier sentinel below the similarity floor.
func (inf *Inference) assign(point []float64) int {
	bestTopic, bestSim := OutlierTopic, 0.0
	for id, centroid := range inf.artifact.Centroids {
		if sim := clustering.Cosine(point, centroid); sim > bestSim {
			bestTopic, bestSim = id, sim
		}
	}
	if bestSim < inf.artifact.MinAssignSimilarity {
		return OutlierTopic
	}
	return bestTopic
}

// PredictSingle classifies one document.
func (inf *Inference) PredictSingle(ctx context.Context, doc Document) (*Prediction, error) {
	ids, probabilities, err := inf.Predict(ctx, []Document{doc})
	if err != nil {
		return nil, err
	}
	return inf.prediction(ids[0], probabilities[0]), nil
}

// prediction assembles the user-facing result for one assignment.
func (inf *Inference) prediction(id int, probs []float64) *Prediction {
	if id == OutlierTopic {
		return &Prediction{TopicID: OutlierTopic, Label: UnclassifiedLabel}
	}

	p := &Prediction{TopicID: id, Label: UnclassifiedLabel}
	if id < len(probs) {
		p.Probability = probs[id]
	}
	if topic := inf.artifact.topic(id); topic != nil {
		p.Label = topic.Label()
		p.Keywords = topic.Keywords
	}
	return p
}

// TopicDistribution ranks topics by how many of the given assignments
// landed in each, over non-outlier assignments only. Percentages sum to
// 100 across the returned set.
func (inf *Inference) TopicDistribution(topicIDs []int) ([]TopicShare, error) {
	if !inf.loaded {
		return nil, ErrModelNotLoaded
	}

	counts := make(map[int]int)
	total := 0
	for _, id := range topicIDs {
		if id == OutlierTopic {
			continue
		}
		counts[id]++
		total++
	}
	if total == 0 {
		return nil, nil
	}

	shares := make([]TopicShare, 0, len(counts))
	for id, count := range counts {
		share := TopicShare{
			TopicID:    id,
			Label:      UnclassifiedLabel,
			Count:      count,
			Percentage: float64(count) / float64(total) * 100,
		}
		if topic := inf.artifact.topic(id); topic != nil {
			share.Label = topic.Label()
			share.Keywords = topic.Keywords
		}
		shares = append(shares, share)
	}
	sort.Slice(shares, func(a, b int) bool {
		if shares[a].Count != shares[b].Count {
			return shares[a].Count > shares[b].Count
		}
		return shares[a].TopicID < shares[b].TopicID
	})
	return shares, nil
}

// ClassifyWithDistribution is the batch form of PredictSingle plus the
// distribution over the batch.
func (inf *Inference) ClassifyWithDistribution(ctx context.Context, docs []Document) ([]Prediction, []TopicShare, error) {
	ids, probabilities, err := inf.Predict(ctx, docs)
	if err != nil {
		return nil, nil, err
	}

	predictions := make([]Prediction, len(ids))
	for i, id := range ids {
		predictions[i] = *inf.prediction(id, probabilities[i])
	}

	distribution, err := inf.TopicDistribution(ids)
	if err != nil {
		return nil, nil, err
	}
	return predictions, distribution, nil
}

// PredictSeverity maps each document's predicted topic onto the closed
// severity set by substring-matching the topic label against the level
// names, most severe first. Outliers and unmatched labels come back as
// SeverityUnknown.
func (inf *Inference) PredictSeverity(ctx context.Context, docs []Document) ([]SeverityLevel, error) {
	ids, _, err := inf.Predict(ctx, docs)
	if err != nil {
		return nil, err
	}

	levels := make([]SeverityLevel, len(ids))
	for i, id := range ids {
		levels[i] = inf.severityOf(id)
	}
	return levels, nil
}

// severityOf resolves one topic id to a severity level.
func (inf *Inference) severityOf(id int) SeverityLevel {
	if id == OutlierTopic {
		return SeverityUnknown
	}
	topic := inf.artifact.topic(id)
	if topic == nil {
		return SeverityUnknown
	}

	label := strings.ToLower(ExtractLabel(RawLabel{Value: topic.Label()}))
	for _, level := range severityLevels {
		if strings.Contains(label, string(level)) {
			return level
		}
	}
	return SeverityUnknown
}
