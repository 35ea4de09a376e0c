package topicmind

import "context"

// EmbeddingClient turns documents into fixed-dimension vectors. The
// dimensionality is determined by the configured model name and must be
// stable across calls; vectors are accepted as-is, normalized or raw.
type EmbeddingClient interface {
	GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
}

// LabelClient generates a short descriptive label for a topic from its
// keywords and a few representative documents. Output is expected (but not
// guaranteed) to be of the form "topic: <label>"; callers must tolerate
// malformed, empty, or multi-candidate output.
type LabelClient interface {
	GenerateLabel(ctx context.Context, keywords []string, sampleDocs []string) (string, error)
}

// VectorCache stores embeddings keyed by content id so repeated training
// runs do not re-embed an unchanged corpus. Implementations are best-effort
// caches: a failed Fetch or Upsert only costs a round trip to the embedding
// service.
type VectorCache interface {
	Fetch(ctx context.Context, ids []string) (map[string][]float32, error)
	Upsert(ctx context.Context, id string, vector []float32, metadata map[string]any) error
}

// MetadataStore is the durable collection holding lifecycle state: an
// append-only history of TrainingMetadata records (latest wins) plus the
// validation reports written after each run.
type MetadataStore interface {
	// LatestMetadata returns the most recent record, or nil when no record
	// has ever been written.
	LatestMetadata(ctx context.Context) (*TrainingMetadata, error)
	AppendMetadata(ctx context.Context, meta *TrainingMetadata) error
	MetadataHistory(ctx context.Context, limit int) ([]TrainingMetadata, error)

	SaveReport(ctx context.Context, report *ValidationReport) error
	LatestReport(ctx context.Context, modelType ModelType) (*ValidationReport, error)
}

// DocumentSource exposes the live corpus per sub-model. The severity
// sub-model reads the conversation corpus.
type DocumentSource interface {
	Count(ctx context.Context, modelType ModelType) (int, error)
	Documents(ctx context.Context, modelType ModelType) ([]Document, error)
}
