// Package voyage wraps the VoyageAI embedding API.
package voyage

import (
	"context"
	"fmt"
	"sync"

	"github.com/austinfhunter/voyageai"
)

var client *voyageai.VoyageClient
var once sync.Once

const EMBEDDING_DIMENSIONS = 1024

const VOYAGEAI_EMBEDDING_MODEL = "voyage-3.5-lite"

type VoyageEmbeddingType string

const (
	VoyageEmbeddingTypeDocument VoyageEmbeddingType = "document"
	VoyageEmbeddingTypeQuery    VoyageEmbeddingType = "query"
	VoyageEmbeddingTypeDefault  VoyageEmbeddingType = ""
)

// voyageService handles generating embeddings for text
type voyageService struct {
	dimensions int
	model      string
}

// NewEmbeddingService creates a new embedding service
func NewEmbeddingService(apiKey string) *voyageService {
	once.Do(func() {
		client = voyageai.NewClient(&voyageai.VoyageClientOpts{
			Key: apiKey,
		})
	})

	return &voyageService{
		dimensions: EMBEDDING_DIMENSIONS,
		model:      VOYAGEAI_EMBEDDING_MODEL,
	}
}

// SetDimensions sets the dimensions for the embedding model
func (es *voyageService) SetDimensions(dimensions int) {
	es.dimensions = dimensions
}

// SetModel sets the model for the embedding model
func (es *voyageService) SetModel(model string) {
	es.model = model
}

// GenerateEmbeddings generates embeddings for a batch of texts, preserving
// input order.
func (es *voyageService) GenerateEmbeddings(ctx context.Context, texts []string, embeddingType VoyageEmbeddingType) ([][]float32, error) {
	dimensions := es.GetEmbeddingDimensions()
	inputType := parseEmbeddingType(embeddingType)

	embeddings, err := client.Embed(
		texts,
		es.model,
		&voyageai.EmbeddingRequestOpts{
			InputType:       inputType,
			OutputDimension: &dimensions,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("could not get embeddings: %w", err)
	}

	if len(embeddings.Data) != len(texts) {
		return nil, fmt.Errorf("voyage returned %d embeddings for %d texts", len(embeddings.Data), len(texts))
	}

	vectors := make([][]float32, len(embeddings.Data))
	for i, obj := range embeddings.Data {
		vectors[i] = obj.Embedding
	}
	return vectors, nil
}

// GenerateEmbedding generates an embedding for a single text
func (es *voyageService) GenerateEmbedding(ctx context.Context, text string, embeddingType VoyageEmbeddingType) ([]float32, error) {
	vectors, err := es.GenerateEmbeddings(ctx, []string{text}, embeddingType)
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func parseEmbeddingType(embeddingType VoyageEmbeddingType) *string {
	if embeddingType != VoyageEmbeddingTypeDefault {
		value := string(embeddingType)
		return &value
	}
	return nil
}

// GetEmbeddingDimensions returns the dimension count for the embedding model
func (es *voyageService) GetEmbeddingDimensions() int {
	return es.dimensions
}
