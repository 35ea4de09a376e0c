package topicmind

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/mindloom/topicmind/internal/clustering"
)

// DefaultMinAssignSimilarity is the similarity floor below which inference
// reports the outlier sentinel instead of the nearest topic.
const DefaultMinAssignSimilarity = 0.10

const artifactFileName = "model.json"

// ModelArtifact is the persisted, loadable form of a trained model: the
// reduction transform, the cluster centroids, the keyword representations,
// and the cached external labels. It is read-only after creation; Model
// Inference is its only consumer.
type ModelArtifact struct {
	ModelType ModelType     `json:"model_type"`
	Version   string        `json:"version"`
	CreatedAt time.Time     `json:"created_at"`
	Config    TrainerConfig `json:"config"`

	Projection *clustering.Projection `json:"projection"`

	// Centroids holds the reduced-space center of each topic.
	Centroids map[int][]float64 `json:"centroids"`

	// Signatures holds each topic's term-weight representation.
	Signatures map[int]map[string]float64 `json:"signatures"`

	Topics []TopicInfo `json:"topics"`

	// LabelCache keeps the externally generated labels so inference never
	// re-invokes the label collaborator.
	LabelCache map[int]string `json:"label_cache,omitempty"`

	MinAssignSimilarity float64 `json:"min_assign_similarity"`
}

// topic returns the TopicInfo for an id, or nil.
func (a *ModelArtifact) topic(id int) *TopicInfo {
	for i := range a.Topics {
		if a.Topics[i].ID == id {
			return &a.Topics[i]
		}
	}
	return nil
}

// newArtifactVersion builds a sortable versioned directory name.
func newArtifactVersion(now time.Time) string {
	return now.UTC().Format("20060102T150405Z") + "-" + uuid.New().String()[:8]
}

// saveArtifact writes the artifact to <dir>/<model type>/<version>/ and
// returns that location. The file is written to a temp name first and
// renamed so a crashed save never leaves a half-written model behind.
func saveArtifact(artifact *ModelArtifact, dir string) (string, error) {
	location := filepath.Join(dir, string(artifact.ModelType), artifact.Version)
	if err := os.MkdirAll(location, 0755); err != nil {
		return "", fmt.Errorf("failed to create artifact directory %s: %w", location, err)
	}

	data, err := json.Marshal(artifact)
	if err != nil {
		return "", fmt.Errorf("failed to marshal model artifact: %w", err)
	}

	target := filepath.Join(location, artifactFileName)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write model artifact to %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return "", fmt.Errorf("failed to finalize model artifact %s: %w", target, err)
	}

	return location, nil
}

// loadArtifact reads an artifact from a location returned by saveArtifact.
func loadArtifact(location string) (*ModelArtifact, error) {
	data, err := os.ReadFile(filepath.Join(location, artifactFileName))
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact at %s: %w", location, err)
	}

	var artifact ModelArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("failed to unmarshal model artifact at %s: %w", location, err)
	}
	if artifact.Projection == nil || len(artifact.Centroids) == 0 {
		return nil, fmt.Errorf("model artifact at %s is incomplete", location)
	}
	if artifact.MinAssignSimilarity == 0 {
		artifact.MinAssignSimilarity = DefaultMinAssignSimilarity
	}

	return &artifact, nil
}

// LatestArtifact returns the newest versioned location for a model type
// under dir, or an error when none exists. Version names sort
// chronologically.
func LatestArtifact(dir string, modelType ModelType) (string, error) {
	typeDir := filepath.Join(dir, string(modelType))
	entries, err := os.ReadDir(typeDir)
	if err != nil {
		return "", fmt.Errorf("no artifacts for model type %q: %w", modelType, err)
	}

	latest := ""
	for _, entry := range entries {
		if entry.IsDir() && entry.Name() > latest {
			latest = entry.Name()
		}
	}
	if latest == "" {
		return "", fmt.Errorf("no artifacts for model type %q in %s", modelType, typeDir)
	}
	return filepath.Join(typeDir, latest), nil
}
