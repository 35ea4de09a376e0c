package topicmind

import (
	"strings"
	"time"
)

// ModelType identifies one of the independently trained sub-models.
type ModelType string

const (
	ModelJournals      ModelType = "journals"
	ModelConversations ModelType = "conversations"
	ModelSeverity      ModelType = "severity"
)

// ModelTypes lists every sub-model in training order.
var ModelTypes = []ModelType{ModelJournals, ModelConversations, ModelSeverity}

// OutlierTopic is the reserved topic id for documents that could not be
// confidently assigned to any cluster.
const OutlierTopic = -1

// Document is an opaque text unit submitted for training or inference.
// Timestamp and GroupID are optional; GroupID carries the patient or
// conversation the text belongs to.
type Document struct {
	Text      string
	Timestamp time.Time
	GroupID   string
}

// Assignment holds the per-document topic ids produced by clustering,
// with OutlierTopic marking unassigned documents. Probabilities is the
// optional per-document distribution over topics; nil when the cluster
// model does not expose one.
type Assignment struct {
	TopicIDs      []int
	Probabilities [][]float64
}

// OutlierCount returns the number of documents currently assigned the
// outlier sentinel.
func (a *Assignment) OutlierCount() int {
	n := 0
	for _, id := range a.TopicIDs {
		if id == OutlierTopic {
			n++
		}
	}
	return n
}

// TopicInfo describes one discovered non-outlier topic.
type TopicInfo struct {
	ID       int      `json:"id"`
	Count    int      `json:"count"`
	Keywords []string `json:"keywords"`

	// KeywordLabel is always present, derived from the top keywords.
	// GeneratedLabel is set only when the descriptive-label collaborator
	// produced usable text for this topic.
	KeywordLabel   string `json:"keyword_label"`
	GeneratedLabel string `json:"generated_label,omitempty"`
}

// Label returns the best available label for the topic: the externally
// generated one when present, the keyword-derived one otherwise. A topic
// with no label text at all reports blank, never separator noise.
func (t TopicInfo) Label() string {
	if strings.TrimSpace(t.GeneratedLabel) == "" && strings.TrimSpace(t.KeywordLabel) == "" {
		return ""
	}
	return ExtractLabel(RawLabel{Candidates: []string{t.GeneratedLabel, t.KeywordLabel}})
}

// ReductionOutcome records the result of one outlier-reduction strategy.
type ReductionOutcome struct {
	Strategy   string `json:"strategy"`
	Reassigned int    `json:"reassigned"`
	Skipped    bool   `json:"skipped,omitempty"`
	Err        string `json:"error,omitempty"`
}

// TrainingResult is the immutable output of one training run.
type TrainingResult struct {
	RunID        string    `json:"run_id"`
	ModelType    ModelType `json:"model_type"`
	NumTopics    int       `json:"num_topics"`
	NumDocuments int       `json:"num_documents"`
	OutlierCount int       `json:"outlier_count"`
	OutlierRatio float64   `json:"outlier_ratio"`

	Topics []TopicInfo `json:"topics"`

	// TopicsOverTime maps "2006-01" month keys to per-topic document
	// counts. Populated only when documents carried timestamps.
	TopicsOverTime map[string]map[int]int `json:"topics_over_time,omitempty"`

	Reductions       []ReductionOutcome `json:"reductions,omitempty"`
	LabelingDegraded bool               `json:"labeling_degraded,omitempty"`

	Duration  time.Duration `json:"duration"`
	TrainedAt time.Time     `json:"trained_at"`
	Config    TrainerConfig `json:"config"`
}

// CheckResult is one named threshold check inside a ValidationReport.
type CheckResult struct {
	Name      string  `json:"name"`
	Value     float64 `json:"value"`
	Threshold float64 `json:"threshold"`
	Pass      bool    `json:"pass"`
}

// Validation statuses.
const (
	StatusPass = "pass"
	StatusFail = "fail"
)

// ValidationReport scores one TrainingResult. It is computed purely from
// topic metadata and counts; producing it never mutates the result.
type ValidationReport struct {
	RunID     string    `json:"run_id"`
	ModelType ModelType `json:"model_type"`

	Diversity          float64 `json:"diversity"`
	AvgClusterSize     float64 `json:"avg_cluster_size"`
	SizeImbalance      float64 `json:"size_imbalance"`
	LabelNonEmptyRatio float64 `json:"label_non_empty_ratio"`
	LabelUniqueRatio   float64 `json:"label_unique_ratio"`
	CompositeScore     float64 `json:"composite_score"`

	Checks []CheckResult `json:"checks"`
	Status string        `json:"status"`

	CreatedAt time.Time `json:"created_at"`
}

// RunSummary is the compact record of a successful training run kept in
// TrainingMetadata.
type RunSummary struct {
	RunID          string  `json:"run_id"`
	NumTopics      int     `json:"num_topics"`
	NumDocuments   int     `json:"num_documents"`
	OutlierRatio   float64 `json:"outlier_ratio"`
	CompositeScore float64 `json:"composite_score"`
	Status         string  `json:"status"`
	ArtifactPath   string  `json:"artifact_path,omitempty"`
}

// Sub-model outcome statuses inside a retrain event.
const (
	SubModelTrained = "trained"
	SubModelSkipped = "skipped"
	SubModelFailed  = "failed"
)

// SubModelResult is one entry in the retrain results map: a summary for a
// successful run, a reason for a skip, or an error string for a failure.
type SubModelResult struct {
	Status  string      `json:"status"`
	Summary *RunSummary `json:"summary,omitempty"`
	Reason  string      `json:"reason,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// CorpusCounts holds the current document count per sub-model.
type CorpusCounts map[ModelType]int

// TrainingMetadata is the durable lifecycle state: the document counts and
// timestamp observed at the last training event, the reason it ran, and the
// per-sub-model outcomes. Records are append-only; the latest record wins
// for decision purposes.
type TrainingMetadata struct {
	ID        string                    `json:"id"`
	Counts    CorpusCounts              `json:"counts"`
	TrainedAt time.Time                 `json:"trained_at"`
	Reason    string                    `json:"reason"`
	Results   map[string]SubModelResult `json:"results,omitempty"`
}

// SeverityLevel is one of the closed set of severity bands the severity
// model maps its topics onto.
type SeverityLevel string

const (
	SeverityLow      SeverityLevel = "low"
	SeverityModerate SeverityLevel = "moderate"
	SeverityHigh     SeverityLevel = "high"
	SeverityCritical SeverityLevel = "critical"
	SeverityUnknown  SeverityLevel = "unknown"
)

// severityLevels is checked in order; the most severe match wins when a
// label mentions more than one band.
var severityLevels = []SeverityLevel{SeverityCritical, SeverityHigh, SeverityModerate, SeverityLow}

// Prediction is the single-document classification result.
type Prediction struct {
	TopicID     int      `json:"topic_id"`
	Label       string   `json:"label"`
	Keywords    []string `json:"keywords,omitempty"`
	Probability float64  `json:"probability"`
}

// TopicShare is one row of a topic distribution: how many of the classified
// documents landed in this topic and what share of the non-outlier total
// that represents.
type TopicShare struct {
	TopicID    int      `json:"topic_id"`
	Label      string   `json:"label"`
	Keywords   []string `json:"keywords,omitempty"`
	Count      int      `json:"count"`
	Percentage float64  `json:"percentage"`
}

// Trial is one evaluated hyperparameter combination.
type Trial struct {
	Params TrainerConfig   `json:"params"`
	Result *TrainingResult `json:"result,omitempty"`
	Score  float64         `json:"score"`
	Err    string          `json:"error,omitempty"`
}

// TuningResult holds the winning trial plus the full trial list for audit.
type TuningResult struct {
	Best   Trial   `json:"best"`
	Trials []Trial `json:"trials"`
}
