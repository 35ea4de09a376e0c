package topicmind

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mindloom/topicmind/internal/ctfidf"
)

// Strategy names reported in ReductionOutcome.
const (
	strategySimilarity  = "tfidf_similarity"
	strategyProbability = "probability"
)

// OutlierReducer reassigns outlier documents to real topics through a
// chain of best-effort strategies. A strategy failure stops the chain and
// is reported in the outcomes, never propagated: the reducer always
// returns the best assignment achieved so far.
type OutlierReducer struct {
	cfg    ReducerConfig
	logger *zap.Logger
}

// NewOutlierReducer creates a reducer with the given thresholds. A nil
// logger is replaced by a no-op one.
func NewOutlierReducer(cfg ReducerConfig, logger *zap.Logger) *OutlierReducer {
	cfg.applyDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OutlierReducer{cfg: cfg, logger: logger}
}

// Reduce runs the strategy chain over the current assignment. The input
// assignment is not modified; the returned one has an outlier count less
// than or equal to the input's.
func (r *OutlierReducer) Reduce(docs []Document, assignment *Assignment, model *ctfidf.Model) (*Assignment, []ReductionOutcome) {
	current := &Assignment{
		TopicIDs:      append([]int(nil), assignment.TopicIDs...),
		Probabilities: assignment.Probabilities,
	}

	var outcomes []ReductionOutcome

	outcome := r.runStrategy(strategySimilarity, func() (int, error) {
		return r.reassignBySimilarity(docs, current, model)
	})
	outcomes = append(outcomes, outcome)

	// The next strategy only runs when the previous one neither failed
	// nor cleared every outlier.
	if outcome.Err != "" || current.OutlierCount() == 0 {
		return current, outcomes
	}

	if current.Probabilities == nil {
		outcomes = append(outcomes, ReductionOutcome{Strategy: strategyProbability, Skipped: true})
		return current, outcomes
	}

	outcome = r.runStrategy(strategyProbability, func() (int, error) {
		return r.reassignByProbability(current)
	})
	outcomes = append(outcomes, outcome)

	return current, outcomes
}

// runStrategy executes one strategy, converting any panic into a recorded
// failure so the reducer honors its never-raise contract.
func (r *OutlierReducer) runStrategy(name string, fn func() (int, error)) (outcome ReductionOutcome) {
	outcome = ReductionOutcome{Strategy: name}

	defer func() {
		if rec := recover(); rec != nil {
			outcome.Err = fmt.Sprintf("panic: %v", rec)
			r.logger.Warn("outlier reduction strategy panicked",
				zap.String("strategy", name),
				zap.Any("panic", rec))
		}
	}()

	reassigned, err := fn()
	outcome.Reassigned = reassigned
	if err != nil {
		outcome.Err = err.Error()
		r.logger.Warn("outlier reduction strategy failed",
			zap.String("strategy", name),
			zap.Error(err))
	}
	return outcome
}

// reassignBySimilarity moves outliers whose term-frequency profile is
// close enough to a topic's aggregate signature.
func (r *OutlierReducer) reassignBySimilarity(docs []Document, assignment *Assignment, model *ctfidf.Model) (int, error) {
	if model == nil || len(model.Signatures) == 0 {
		return 0, fmt.Errorf("no topic signatures available")
	}
	if len(docs) != len(assignment.TopicIDs) {
		return 0, fmt.Errorf("have %d documents but %d assignments", len(docs), len(assignment.TopicIDs))
	}

	reassigned := 0
	for i, id := range assignment.TopicIDs {
		if id != OutlierTopic {
			continue
		}

		profile := ctfidf.TermFrequencies(docs[i].Text)
		bestTopic, bestScore := OutlierTopic, 0.0
		for topic, sig := range model.Signatures {
			if score := ctfidf.Cosine(profile, sig); score > bestScore {
				bestTopic, bestScore = topic, score
			}
		}

		if bestTopic != OutlierTopic && bestScore >= r.cfg.MinSimilarity {
			assignment.TopicIDs[i] = bestTopic
			reassigned++
		}
	}
	return reassigned, nil
}

// reassignByProbability moves outliers whose best per-topic probability
// clears the looser probability floor.
func (r *OutlierReducer) reassignByProbability(assignment *Assignment) (int, error) {
	reassigned := 0
	for i, id := range assignment.TopicIDs {
		if id != OutlierTopic || i >= len(assignment.Probabilities) {
			continue
		}

		bestTopic, bestProb := OutlierTopic, 0.0
		for topic, prob := range assignment.Probabilities[i] {
			if prob > bestProb {
				bestTopic, bestProb = topic, prob
			}
		}

		if bestTopic != OutlierTopic && bestProb >= r.cfg.MinProbability {
			assignment.TopicIDs[i] = bestTopic
			reassigned++
		}
	}
	return reassigned, nil
}
