// Package pinecone wraps the official Pinecone SDK for use as an
// embedding cache index.
package pinecone

import (
	"context"
	"fmt"

	"github.com/pinecone-io/go-pinecone/pinecone"
)

// pineconeService provides an interface to the Pinecone vector database
type pineconeService struct {
	client *pinecone.Client
}

// indexOperations provides operations for a specific Pinecone index
type indexOperations struct {
	index *pinecone.IndexConnection
}

// Vector represents a vector with metadata (re-exported from SDK for convenience)
type Vector = pinecone.Vector

// Metadata represents the metadata for a vector (re-exported from SDK for convenience)
type Metadata = pinecone.Metadata

// NewPineconeService creates a new Pinecone service instance using the official SDK
func NewPineconeService(apiKey string) (*pineconeService, error) {
	client, err := pinecone.NewClient(pinecone.NewClientParams{
		ApiKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize pinecone client: %w", err)
	}
	return &pineconeService{client: client}, nil
}

// ForIndex returns a gateway for the index at the given host
func (ps *pineconeService) ForIndex(host, namespace string) (*indexOperations, error) {
	indexConnection, err := ps.client.Index(pinecone.NewIndexConnParams{
		Host:      host,
		Namespace: namespace,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to pinecone index: %w", err)
	}
	return &indexOperations{index: indexConnection}, nil
}

// FetchByIds fetches vectors by their ids. Missing ids are simply absent
// from the returned map.
func (idx *indexOperations) FetchByIds(ctx context.Context, ids []string) (map[string]*Vector, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	resp, err := idx.index.FetchVectors(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make(map[string]*Vector, len(resp.Vectors))
	for id, vec := range resp.Vectors {
		out[id] = vec
	}
	return out, nil
}

// Upsert stores vectors in the index
func (idx *indexOperations) Upsert(ctx context.Context, vectors []Vector) error {
	pineconeVectors := make([]*pinecone.Vector, len(vectors))
	for i, v := range vectors {
		pineconeVectors[i] = &v
	}

	_, err := idx.index.UpsertVectors(ctx, pineconeVectors)
	return err
}

// Delete removes vectors from the index
func (idx *indexOperations) Delete(ctx context.Context, ids []string) error {
	return idx.index.DeleteVectorsById(ctx, ids)
}
