package voyage

import "testing"

func TestNewEmbeddingService(t *testing.T) {
	service := NewEmbeddingService("test-api-key")

	if service == nil {
		t.Fatal("Expected non-nil service")
	}
	if service.dimensions != EMBEDDING_DIMENSIONS {
		t.Errorf("Expected dimensions %d, got %d", EMBEDDING_DIMENSIONS, service.dimensions)
	}
	if service.model != VOYAGEAI_EMBEDDING_MODEL {
		t.Errorf("Expected model %s, got %s", VOYAGEAI_EMBEDDING_MODEL, service.model)
	}
}

func TestSetDimensionsAndModel(t *testing.T) {
	service := NewEmbeddingService("test-api-key")

	service.SetDimensions(256)
	if service.GetEmbeddingDimensions() != 256 {
		t.Errorf("Expected dimensions 256, got %d", service.GetEmbeddingDimensions())
	}

	service.SetModel("voyage-3-large")
	if service.model != "voyage-3-large" {
		t.Errorf("Expected model override, got %s", service.model)
	}
}

func TestParseEmbeddingType(t *testing.T) {
	if got := parseEmbeddingType(VoyageEmbeddingTypeDefault); got != nil {
		t.Errorf("Expected nil for the default type, got %v", *got)
	}

	got := parseEmbeddingType(VoyageEmbeddingTypeDocument)
	if got == nil || *got != "document" {
		t.Errorf("Expected 'document', got %v", got)
	}

	got = parseEmbeddingType(VoyageEmbeddingTypeQuery)
	if got == nil || *got != "query" {
		t.Errorf("Expected 'query', got %v", got)
	}
}
