package topicmind_test

import (
	"context"
	"fmt"

	topicmind "github.com/mindloom/topicmind"
	"github.com/mindloom/topicmind/testutil"
)

func ExampleExtractLabel() {
	fmt.Println(topicmind.ExtractLabel(topicmind.RawLabel{Value: "topic: Sleep Quality"}))
	fmt.Println(topicmind.ExtractLabel(topicmind.RawLabel{Value: "Topic 42"}))
	fmt.Println(topicmind.ExtractLabel(topicmind.RawLabel{Candidates: []string{"", "Family Conflict"}}))
	// Output:
	// Sleep Quality
	// Miscellaneous
	// Family Conflict
}

func ExampleTrainer_Train() {
	trainer, err := topicmind.NewTrainer(topicmind.TrainerConfig{
		ModelType:      topicmind.ModelJournals,
		MinClusterSize: 5,
	}, topicmind.TrainerDeps{
		Embedding: &testutil.MockEmbeddingClient{},
	})
	if err != nil {
		fmt.Println(err)
		return
	}

	var docs []topicmind.Document
	for i := 0; i < 30; i++ {
		docs = append(docs, topicmind.Document{Text: "trouble sleeping again last night"})
	}

	result, err := trainer.Train(context.Background(), docs, nil)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(result.NumDocuments, "documents clustered into", result.NumTopics, "topic(s)")
	// Output:
	// 30 documents clustered into 1 topic(s)
}

func ExampleInference_Load() {
	inference, err := topicmind.NewInference(&testutil.MockEmbeddingClient{}, nil)
	if err != nil {
		fmt.Println(err)
		return
	}

	if !inference.Load("models/journals/missing-version") {
		fmt.Println("model not available, still serving without it:", inference.Loaded())
	}
	// Output:
	// model not available, still serving without it: false
}
