package store

import (
	"context"
	"sync"

	topicmind "github.com/mindloom/topicmind"
)

// MemoryStore is an in-memory MetadataStore. Safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	events  []topicmind.TrainingMetadata
	reports []topicmind.ValidationReport
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// LatestMetadata returns the most recently appended event, or nil when no
// event exists.
func (s *MemoryStore) LatestMetadata(_ context.Context) (*topicmind.TrainingMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.events) == 0 {
		return nil, nil
	}
	meta := s.events[len(s.events)-1]
	return &meta, nil
}

// AppendMetadata records a new event.
func (s *MemoryStore) AppendMetadata(_ context.Context, meta *topicmind.TrainingMetadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, *meta)
	return nil
}

// MetadataHistory returns up to limit events, newest first. A limit of 0
// or less returns the full history.
func (s *MemoryStore) MetadataHistory(_ context.Context, limit int) ([]topicmind.TrainingMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.events)
	if limit > 0 && limit < n {
		n = limit
	}

	out := make([]topicmind.TrainingMetadata, 0, n)
	for i := len(s.events) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.events[i])
	}
	return out, nil
}

// SaveReport records a validation report.
func (s *MemoryStore) SaveReport(_ context.Context, report *topicmind.ValidationReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, *report)
	return nil
}

// LatestReport returns the newest report for a sub-model, or nil when the
// sub-model has never been validated.
func (s *MemoryStore) LatestReport(_ context.Context, modelType topicmind.ModelType) (*topicmind.ValidationReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.reports) - 1; i >= 0; i-- {
		if s.reports[i].ModelType == modelType {
			report := s.reports[i]
			return &report, nil
		}
	}
	return nil, nil
}
