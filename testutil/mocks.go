// Package testutil provides mock collaborators for tests.
package testutil

import (
	"context"
	"sync"

	topicmind "github.com/mindloom/topicmind"
)

// MockEmbeddingClient is a mock implementation of EmbeddingClient for testing
type MockEmbeddingClient struct {
	GenerateEmbeddingsFunc func(ctx context.Context, texts []string) ([][]float32, error)

	mu        sync.Mutex
	CallCount int
	LastTexts []string
}

func (m *MockEmbeddingClient) GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.CallCount++
	m.LastTexts = texts
	m.mu.Unlock()

	if m.GenerateEmbeddingsFunc != nil {
		return m.GenerateEmbeddingsFunc(ctx, texts)
	}

	// Default: return simple embeddings based on text length
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, 10)
		for j := range vec {
			vec[j] = float32(len(text)) / 100.0
		}
		embeddings[i] = vec
	}
	return embeddings, nil
}

// MockLabelClient is a mock implementation of LabelClient for testing
type MockLabelClient struct {
	GenerateLabelFunc func(ctx context.Context, keywords []string, sampleDocs []string) (string, error)

	mu           sync.Mutex
	CallCount    int
	LastKeywords []string
}

func (m *MockLabelClient) GenerateLabel(ctx context.Context, keywords []string, sampleDocs []string) (string, error) {
	m.mu.Lock()
	m.CallCount++
	m.LastKeywords = keywords
	m.mu.Unlock()

	if m.GenerateLabelFunc != nil {
		return m.GenerateLabelFunc(ctx, keywords, sampleDocs)
	}

	// Default: name the topic after its first keyword
	if len(keywords) > 0 {
		return "topic: " + keywords[0], nil
	}
	return "topic: general", nil
}

// MockVectorCache is a mock implementation of VectorCache for testing
type MockVectorCache struct {
	FetchFunc  func(ctx context.Context, ids []string) (map[string][]float32, error)
	UpsertFunc func(ctx context.Context, id string, vector []float32, metadata map[string]any) error

	mu          sync.Mutex
	FetchCount  int
	UpsertCount int
	Storage     map[string][]float32
}

func NewMockVectorCache() *MockVectorCache {
	return &MockVectorCache{
		Storage: make(map[string][]float32),
	}
}

func (m *MockVectorCache) Fetch(ctx context.Context, ids []string) (map[string][]float32, error) {
	m.mu.Lock()
	m.FetchCount++
	m.mu.Unlock()

	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, ids)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string][]float32)
	for _, id := range ids {
		if vec, ok := m.Storage[id]; ok {
			out[id] = vec
		}
	}
	return out, nil
}

func (m *MockVectorCache) Upsert(ctx context.Context, id string, vector []float32, metadata map[string]any) error {
	m.mu.Lock()
	m.UpsertCount++
	m.Storage[id] = vector
	m.mu.Unlock()

	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, id, vector, metadata)
	}

	return nil
}

// MockDocumentSource is a mock implementation of DocumentSource for testing
type MockDocumentSource struct {
	CountFunc     func(ctx context.Context, modelType topicmind.ModelType) (int, error)
	DocumentsFunc func(ctx context.Context, modelType topicmind.ModelType) ([]topicmind.Document, error)

	Corpora map[topicmind.ModelType][]topicmind.Document
}

func (m *MockDocumentSource) Count(ctx context.Context, modelType topicmind.ModelType) (int, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx, modelType)
	}
	return len(m.Corpora[modelType]), nil
}

func (m *MockDocumentSource) Documents(ctx context.Context, modelType topicmind.ModelType) ([]topicmind.Document, error) {
	if m.DocumentsFunc != nil {
		return m.DocumentsFunc(ctx, modelType)
	}
	return m.Corpora[modelType], nil
}
