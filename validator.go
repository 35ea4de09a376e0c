package topicmind

import (
	"sort"
	"strings"
	"time"
)

// Composite score weights. Fixed by design: topic-count fitness and
// outlier ratio carry more weight than vocabulary diversity and size
// balance.
const (
	weightTopicCount = 0.3
	weightOutliers   = 0.3
	weightDiversity  = 0.2
	weightBalance    = 0.2
)

// Named checks reported in a ValidationReport.
const (
	CheckTopicCount     = "topic_count_range"
	CheckOutlierRatio   = "outlier_ratio_ceiling"
	CheckDiversity      = "diversity_floor"
	CheckAvgClusterSize = "avg_cluster_size_floor"
	CheckLabelUnique    = "label_uniqueness_floor"
)

// Validator scores training results against configured thresholds. It is
// a read-only scorer: validating the same result twice yields identical
// reports and never mutates the input.
type Validator struct {
	thresholds ValidationThresholds
}

// NewValidator creates a validator; unset thresholds take defaults.
func NewValidator(thresholds ValidationThresholds) *Validator {
	thresholds.applyDefaults()
	return &Validator{thresholds: thresholds}
}

// Validate computes quality metrics for a training result purely from its
// topic metadata and counts.
func (v *Validator) Validate(result *TrainingResult) *ValidationReport {
	report := &ValidationReport{
		RunID:     result.RunID,
		ModelType: result.ModelType,
		CreatedAt: time.Now().UTC(),
	}

	report.Diversity = keywordDiversity(result.Topics)
	report.AvgClusterSize = avgClusterSize(result.Topics)
	report.SizeImbalance = sizeImbalance(result.Topics)
	report.LabelNonEmptyRatio, report.LabelUniqueRatio = labelQuality(result.Topics)
	report.CompositeScore = v.compositeScore(result, report)

	t := v.thresholds
	report.Checks = []CheckResult{
		{
			Name:      CheckTopicCount,
			Value:     float64(result.NumTopics),
			Threshold: float64(t.MinTopics),
			Pass:      result.NumTopics >= t.MinTopics && result.NumTopics <= t.MaxTopics,
		},
		{
			Name:      CheckOutlierRatio,
			Value:     result.OutlierRatio,
			Threshold: t.MaxOutlierRatio,
			Pass:      result.OutlierRatio <= t.MaxOutlierRatio,
		},
		{
			Name:      CheckDiversity,
			Value:     report.Diversity,
			Threshold: t.MinDiversity,
			Pass:      report.Diversity >= t.MinDiversity,
		},
		{
			Name:      CheckAvgClusterSize,
			Value:     report.AvgClusterSize,
			Threshold: t.MinAvgClusterSize,
			Pass:      report.AvgClusterSize >= t.MinAvgClusterSize,
		},
		{
			Name:      CheckLabelUnique,
			Value:     report.LabelUniqueRatio,
			Threshold: t.MinLabelUnique,
			Pass:      report.LabelUniqueRatio >= t.MinLabelUnique,
		},
	}

	report.Status = StatusPass
	for _, check := range report.Checks {
		if !check.Pass {
			report.Status = StatusFail
			break
		}
	}

	return report
}

// compositeScore combines topic-count fitness, outlier ratio, diversity,
// and size balance into a single [0,1] number. A result with no topics
// scores exactly 0.
func (v *Validator) compositeScore(result *TrainingResult, report *ValidationReport) float64 {
	if result.NumTopics == 0 {
		return 0
	}

	t := v.thresholds

	topicScore := 1.0
	switch {
	case result.NumTopics < t.MinTopics:
		topicScore = float64(result.NumTopics) / float64(t.MinTopics)
	case result.NumTopics > t.MaxTopics:
		topicScore = 1 - float64(result.NumTopics-t.MaxTopics)/float64(t.MaxTopics)
	}

	outlierScore := 1 - result.OutlierRatio/t.MaxOutlierRatio

	score := weightTopicCount*clamp01(topicScore) +
		weightOutliers*clamp01(outlierScore) +
		weightDiversity*clamp01(report.Diversity) +
		weightBalance*clamp01(1-report.SizeImbalance)

	return clamp01(score)
}

// keywordDiversity is the share of unique keywords among all keyword
// occurrences across topics. Higher means less overlapping vocabulary.
func keywordDiversity(topics []TopicInfo) float64 {
	unique := make(map[string]struct{})
	total := 0
	for _, topic := range topics {
		for _, kw := range topic.Keywords {
			unique[kw] = struct{}{}
			total++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(len(unique)) / float64(total)
}

func avgClusterSize(topics []TopicInfo) float64 {
	if len(topics) == 0 {
		return 0
	}
	sum := 0
	for _, topic := range topics {
		sum += topic.Count
	}
	return float64(sum) / float64(len(topics))
}

// sizeImbalance is a Gini coefficient over cluster sizes: 0 for perfectly
// even clusters, approaching 1 when one cluster dominates.
func sizeImbalance(topics []TopicInfo) float64 {
	if len(topics) == 0 {
		return 0
	}

	sizes := make([]float64, len(topics))
	var total float64
	for i, topic := range topics {
		sizes[i] = float64(topic.Count)
		total += sizes[i]
	}
	if total == 0 {
		return 0
	}
	sort.Float64s(sizes)

	n := float64(len(sizes))
	var weighted float64
	for i, size := range sizes {
		weighted += (2*float64(i+1) - n - 1) * size
	}
	return weighted / (n * total)
}

// labelQuality returns the fraction of topics with a non-blank label and
// the fraction of labels that are pairwise distinct.
func labelQuality(topics []TopicInfo) (nonEmpty, unique float64) {
	if len(topics) == 0 {
		return 0, 0
	}

	seen := make(map[string]struct{})
	nonEmptyCount := 0
	for _, topic := range topics {
		label := topic.Label()
		if strings.TrimSpace(label) != "" {
			nonEmptyCount++
		}
		seen[label] = struct{}{}
	}

	return float64(nonEmptyCount) / float64(len(topics)),
		float64(len(seen)) / float64(len(topics))
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
