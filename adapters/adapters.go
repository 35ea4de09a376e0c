// Package adapters wires external services to the collaborator interfaces
// the training pipeline consumes.
package adapters

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mindloom/topicmind/adapters/pinecone"
	"github.com/mindloom/topicmind/adapters/voyage"
)

// VoyageEmbeddingAdapter adapts the Voyage client to the EmbeddingClient interface
type VoyageEmbeddingAdapter struct {
	client interface {
		GenerateEmbeddings(ctx context.Context, texts []string, embeddingType voyage.VoyageEmbeddingType) ([][]float32, error)
	}
}

// NewVoyageEmbeddingAdapter creates a new adapter for Voyage AI
func NewVoyageEmbeddingAdapter(apiKey *string) (*VoyageEmbeddingAdapter, error) {
	key, err := loadEnvVar(apiKey, "VOYAGEAI_API_KEY")
	if err != nil {
		return nil, err
	}

	return &VoyageEmbeddingAdapter{
		client: voyage.NewEmbeddingService(*key),
	}, nil
}

// GenerateEmbeddings implements EmbeddingClient interface
func (a *VoyageEmbeddingAdapter) GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	return a.client.GenerateEmbeddings(ctx, texts, voyage.VoyageEmbeddingTypeDocument)
}

// PineconeCacheAdapter adapts a Pinecone index to the VectorCache interface
type PineconeCacheAdapter struct {
	index interface {
		FetchByIds(ctx context.Context, ids []string) (map[string]*pinecone.Vector, error)
		Upsert(ctx context.Context, vectors []pinecone.Vector) error
	}
}

// NewPineconeCacheAdapter creates a new cache adapter for Pinecone
func NewPineconeCacheAdapter(apiKey *string, host *string, namespace string) (*PineconeCacheAdapter, error) {
	key, err := loadEnvVar(apiKey, "PINECONE_API_KEY")
	if err != nil {
		return nil, err
	}

	h, err := loadEnvVar(host, "PINECONE_HOST")
	if err != nil {
		return nil, err
	}

	client, err := pinecone.NewPineconeService(*key)
	if err != nil {
		return nil, fmt.Errorf("failed to create pinecone service: %w", err)
	}

	index, err := client.ForIndex(*h, namespace)
	if err != nil {
		return nil, err
	}

	return &PineconeCacheAdapter{index: index}, nil
}

// Fetch implements VectorCache interface
func (a *PineconeCacheAdapter) Fetch(ctx context.Context, ids []string) (map[string][]float32, error) {
	vectors, err := a.index.FetchByIds(ctx, ids)
	if err != nil {
		return nil, err
	}

	results := make(map[string][]float32, len(vectors))
	for id, vec := range vectors {
		if vec != nil {
			results[id] = vec.Values
		}
	}
	return results, nil
}

// Upsert implements VectorCache interface
func (a *PineconeCacheAdapter) Upsert(ctx context.Context, id string, vector []float32, metadata map[string]any) error {
	metadataStruct, err := structpb.NewStruct(metadata)
	if err != nil {
		return err
	}

	vectors := []pinecone.Vector{
		{
			Id:     id,
			Values: vector,
			Metadata: &pinecone.Metadata{
				Fields: metadataStruct.Fields,
			},
		},
	}

	return a.index.Upsert(ctx, vectors)
}

// loadEnvVar loads an environment variable into a pointer if no value is provided
func loadEnvVar(target *string, envKey string) (*string, error) {
	if target == nil {
		envVar := os.Getenv(envKey)
		if envVar == "" {
			return nil, fmt.Errorf("%s environment variable not set and no value provided", envKey)
		}
		return &envVar, nil
	}
	return target, nil
}
