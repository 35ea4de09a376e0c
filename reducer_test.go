package topicmind

import (
	"testing"

	"github.com/mindloom/topicmind/internal/ctfidf"
)

func reducerFixture() ([]Document, *Assignment, *ctfidf.Model) {
	docs := []Document{
		{Text: "sleep night tired bed"},
		{Text: "sleep restless night"},
		{Text: "work deadline stress boss"},
		{Text: "work office stress"},
		{Text: "cannot sleep at night again"},
		{Text: "zebra giraffe elephant"},
	}
	assignment := &Assignment{TopicIDs: []int{0, 0, 1, 1, OutlierTopic, OutlierTopic}}
	model := ctfidf.Fit(map[int][]string{
		0: {docs[0].Text, docs[1].Text},
		1: {docs[2].Text, docs[3].Text},
	}, 5)
	return docs, assignment, model
}

func TestReduceReassignsBySimilarity(t *testing.T) {
	docs, assignment, model := reducerFixture()
	reducer := NewOutlierReducer(ReducerConfig{MinSimilarity: 0.2, MinProbability: 0.9}, nil)

	reduced, outcomes := reducer.Reduce(docs, assignment, model)

	if reduced.TopicIDs[4] != 0 {
		t.Errorf("Expected the sleep-adjacent outlier to join topic 0, got %d", reduced.TopicIDs[4])
	}
	if reduced.TopicIDs[5] != OutlierTopic {
		t.Errorf("Expected the unrelated outlier to stay an outlier, got %d", reduced.TopicIDs[5])
	}

	if len(outcomes) == 0 || outcomes[0].Strategy != "tfidf_similarity" {
		t.Fatalf("Expected the similarity strategy to run first, got %+v", outcomes)
	}
	if outcomes[0].Reassigned != 1 {
		t.Errorf("Expected 1 reassignment, got %d", outcomes[0].Reassigned)
	}
}

func TestReduceNeverIncreasesOutliers(t *testing.T) {
	docs, assignment, model := reducerFixture()
	before := assignment.OutlierCount()

	reducer := NewOutlierReducer(ReducerConfig{}, nil)
	reduced, _ := reducer.Reduce(docs, assignment, model)

	if reduced.OutlierCount() > before {
		t.Errorf("Reduction increased outliers: %d -> %d", before, reduced.OutlierCount())
	}
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	docs, assignment, model := reducerFixture()
	original := append([]int(nil), assignment.TopicIDs...)

	reducer := NewOutlierReducer(ReducerConfig{MinSimilarity: 0.1, MinProbability: 0.1}, nil)
	reducer.Reduce(docs, assignment, model)

	for i, id := range assignment.TopicIDs {
		if id != original[i] {
			t.Fatalf("Input assignment mutated at %d: %d -> %d", i, original[i], id)
		}
	}
}

func TestReduceSkipsProbabilityWithoutDistributions(t *testing.T) {
	docs, assignment, model := reducerFixture()
	// Impossible similarity floor so outliers survive into the next stage.
	reducer := NewOutlierReducer(ReducerConfig{MinSimilarity: 1.1, MinProbability: 0.1}, nil)

	_, outcomes := reducer.Reduce(docs, assignment, model)

	if len(outcomes) != 2 {
		t.Fatalf("Expected 2 outcomes, got %d", len(outcomes))
	}
	if outcomes[1].Strategy != "probability" || !outcomes[1].Skipped {
		t.Errorf("Expected the probability strategy to be skipped, got %+v", outcomes[1])
	}
}

func TestReduceUsesProbabilityFallback(t *testing.T) {
	docs, assignment, model := reducerFixture()
	assignment.Probabilities = [][]float64{
		{0.9, 0.1}, {0.9, 0.1}, {0.1, 0.9}, {0.1, 0.9},
		{0.2, 0.8},
		{0.05, 0.05},
	}

	reducer := NewOutlierReducer(ReducerConfig{MinSimilarity: 1.1, MinProbability: 0.5}, nil)
	reduced, outcomes := reducer.Reduce(docs, assignment, model)

	if reduced.TopicIDs[4] != 1 {
		t.Errorf("Expected probability fallback to assign topic 1, got %d", reduced.TopicIDs[4])
	}
	if reduced.TopicIDs[5] != OutlierTopic {
		t.Errorf("Expected the low-probability outlier to remain, got %d", reduced.TopicIDs[5])
	}
	if len(outcomes) != 2 || outcomes[1].Reassigned != 1 {
		t.Errorf("Expected 1 probability reassignment, got %+v", outcomes)
	}
}

func TestReduceReportsFailureWithoutRaising(t *testing.T) {
	docs, assignment, _ := reducerFixture()

	reducer := NewOutlierReducer(ReducerConfig{}, nil)
	reduced, outcomes := reducer.Reduce(docs, assignment, nil)

	if reduced.OutlierCount() != assignment.OutlierCount() {
		t.Errorf("A failed chain must leave the assignment unchanged")
	}
	if len(outcomes) != 1 || outcomes[0].Err == "" {
		t.Fatalf("Expected a single failed outcome, got %+v", outcomes)
	}
}
