package topicmind

import (
	"math"
	"testing"
)

func healthyResult() *TrainingResult {
	return &TrainingResult{
		RunID:        "run-1",
		ModelType:    ModelJournals,
		NumTopics:    5,
		NumDocuments: 200,
		OutlierCount: 20,
		OutlierRatio: 0.1,
		Topics: []TopicInfo{
			{ID: 0, Count: 40, Keywords: []string{"sleep", "night", "rest"}, KeywordLabel: "sleep, night, rest"},
			{ID: 1, Count: 38, Keywords: []string{"work", "stress", "deadline"}, KeywordLabel: "work, stress, deadline"},
			{ID: 2, Count: 36, Keywords: []string{"family", "parents", "home"}, KeywordLabel: "family, parents, home"},
			{ID: 3, Count: 34, Keywords: []string{"anxiety", "panic", "worry"}, KeywordLabel: "anxiety, panic, worry"},
			{ID: 4, Count: 32, Keywords: []string{"exercise", "running", "gym"}, KeywordLabel: "exercise, running, gym"},
		},
	}
}

func TestValidatePassesHealthyResult(t *testing.T) {
	report := NewValidator(ValidationThresholds{}).Validate(healthyResult())

	if report.Status != StatusPass {
		t.Errorf("Expected pass, got %s", report.Status)
		for _, check := range report.Checks {
			if !check.Pass {
				t.Logf("failed check %s: value %.3f threshold %.3f", check.Name, check.Value, check.Threshold)
			}
		}
	}
	if len(report.Checks) != 5 {
		t.Errorf("Expected 5 checks, got %d", len(report.Checks))
	}
}

func TestValidateFailsOnExcessiveOutliers(t *testing.T) {
	result := healthyResult()
	result.OutlierCount = 120
	result.OutlierRatio = 0.6

	report := NewValidator(ValidationThresholds{}).Validate(result)
	if report.Status != StatusFail {
		t.Errorf("Expected fail for outlier ratio 0.6, got %s", report.Status)
	}

	found := false
	for _, check := range report.Checks {
		if check.Name == CheckOutlierRatio {
			found = true
			if check.Pass {
				t.Errorf("Expected outlier check to fail")
			}
		}
	}
	if !found {
		t.Errorf("Expected an outlier ratio check in the report")
	}
}

func TestCompositeScoreBounds(t *testing.T) {
	results := []*TrainingResult{
		healthyResult(),
		{NumTopics: 1, NumDocuments: 10, OutlierRatio: 0.9, Topics: []TopicInfo{{ID: 0, Count: 1}}},
		{NumTopics: 100, NumDocuments: 1000, OutlierRatio: 0.0},
	}
	v := NewValidator(ValidationThresholds{})
	for i, result := range results {
		score := v.Validate(result).CompositeScore
		if score < 0 || score > 1 {
			t.Errorf("Result %d: composite score %.3f out of [0,1]", i, score)
		}
	}
}

func TestCompositeScoreZeroTopicsIsZero(t *testing.T) {
	result := &TrainingResult{NumTopics: 0, NumDocuments: 50, OutlierCount: 50, OutlierRatio: 1.0}
	score := NewValidator(ValidationThresholds{}).Validate(result).CompositeScore
	if score != 0 {
		t.Errorf("Expected composite score exactly 0 for zero topics, got %.3f", score)
	}
}

func TestSizeImbalanceGini(t *testing.T) {
	even := []TopicInfo{{Count: 50}, {Count: 50}, {Count: 50}}
	if g := sizeImbalance(even); g >= 0.1 {
		t.Errorf("Expected near-zero imbalance for even sizes, got %.3f", g)
	}

	skewed := []TopicInfo{{Count: 1}, {Count: 1}, {Count: 98}}
	if g := sizeImbalance(skewed); g <= 0.5 {
		t.Errorf("Expected imbalance above 0.5 for [1,1,98], got %.3f", g)
	}
}

func TestKeywordDiversity(t *testing.T) {
	distinct := []TopicInfo{
		{Keywords: []string{"a", "b"}},
		{Keywords: []string{"c", "d"}},
	}
	if d := keywordDiversity(distinct); math.Abs(d-1.0) > 1e-9 {
		t.Errorf("Expected diversity 1.0 for distinct keywords, got %.3f", d)
	}

	identical := []TopicInfo{
		{Keywords: []string{"a", "b"}},
		{Keywords: []string{"a", "b"}},
	}
	if d := keywordDiversity(identical); math.Abs(d-0.5) > 1e-9 {
		t.Errorf("Expected diversity 0.5 for fully shared keywords, got %.3f", d)
	}
}

func TestLabelQualityCountsUnlabeledTopicsAsBlank(t *testing.T) {
	topics := []TopicInfo{
		{KeywordLabel: "sleep, night, rest"},
		{KeywordLabel: "", GeneratedLabel: ""},
	}
	nonEmpty, _ := labelQuality(topics)
	if math.Abs(nonEmpty-0.5) > 1e-9 {
		t.Errorf("Expected non-empty ratio 0.5 with one unlabeled topic, got %.3f", nonEmpty)
	}
}

func TestValidateIsReadOnly(t *testing.T) {
	result := healthyResult()
	v := NewValidator(ValidationThresholds{})

	first := v.Validate(result)
	second := v.Validate(result)

	if first.CompositeScore != second.CompositeScore || first.Status != second.Status {
		t.Errorf("Repeated validation diverged: %.3f/%s vs %.3f/%s",
			first.CompositeScore, first.Status, second.CompositeScore, second.Status)
	}
}
