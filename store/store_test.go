package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	topicmind "github.com/mindloom/topicmind"
)

func metadataFixture(id string, trainedAt time.Time) *topicmind.TrainingMetadata {
	return &topicmind.TrainingMetadata{
		ID: id,
		Counts: topicmind.CorpusCounts{
			topicmind.ModelJournals:      120,
			topicmind.ModelConversations: 45,
		},
		TrainedAt: trainedAt,
		Reason:    "corpus_growth",
		Results: map[string]topicmind.SubModelResult{
			string(topicmind.ModelJournals): {
				Status:  topicmind.SubModelTrained,
				Summary: &topicmind.RunSummary{RunID: "run-" + id, NumTopics: 6},
			},
			string(topicmind.ModelConversations): {
				Status: topicmind.SubModelSkipped,
				Reason: "45 documents, need at least 50",
			},
		},
	}
}

func TestMemoryStoreLatestIsNilWhenEmpty(t *testing.T) {
	s := NewMemoryStore()

	meta, err := s.LatestMetadata(context.Background())
	require.NoError(t, err)
	assert.Nil(t, meta)

	report, err := s.LatestReport(context.Background(), topicmind.ModelJournals)
	require.NoError(t, err)
	assert.Nil(t, report)
}

func TestMemoryStoreAppendAndLatest(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	first := metadataFixture("a", time.Now().Add(-time.Hour))
	second := metadataFixture("b", time.Now())
	require.NoError(t, s.AppendMetadata(ctx, first))
	require.NoError(t, s.AppendMetadata(ctx, second))

	latest, err := s.LatestMetadata(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "b", latest.ID)
	assert.Equal(t, 120, latest.Counts[topicmind.ModelJournals])
}

func TestMemoryStoreHistoryNewestFirst(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.AppendMetadata(ctx, metadataFixture(id, time.Now())))
	}

	history, err := s.MetadataHistory(ctx, 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "c", history[0].ID)
	assert.Equal(t, "b", history[1].ID)

	all, err := s.MetadataHistory(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestMemoryStoreLatestReportPerModelType(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.SaveReport(ctx, &topicmind.ValidationReport{
		RunID: "r1", ModelType: topicmind.ModelJournals, Status: topicmind.StatusFail,
	}))
	require.NoError(t, s.SaveReport(ctx, &topicmind.ValidationReport{
		RunID: "r2", ModelType: topicmind.ModelJournals, Status: topicmind.StatusPass,
	}))
	require.NoError(t, s.SaveReport(ctx, &topicmind.ValidationReport{
		RunID: "r3", ModelType: topicmind.ModelConversations, Status: topicmind.StatusPass,
	}))

	journals, err := s.LatestReport(ctx, topicmind.ModelJournals)
	require.NoError(t, err)
	require.NotNil(t, journals)
	assert.Equal(t, "r2", journals.RunID)

	severity, err := s.LatestReport(ctx, topicmind.ModelSeverity)
	require.NoError(t, err)
	assert.Nil(t, severity)
}

func TestTrainingEventRowRoundTrip(t *testing.T) {
	meta := metadataFixture("round-trip", time.Now().UTC().Truncate(time.Second))

	row, err := metadataToRow(meta)
	require.NoError(t, err)
	assert.Equal(t, meta.ID, row.ID)
	assert.Equal(t, meta.Reason, row.Reason)

	back, err := rowToMetadata(row)
	require.NoError(t, err)
	assert.Equal(t, meta.Counts, back.Counts)
	assert.Equal(t, meta.TrainedAt, back.TrainedAt)
	require.Contains(t, back.Results, string(topicmind.ModelJournals))
	assert.Equal(t, topicmind.SubModelTrained, back.Results[string(topicmind.ModelJournals)].Status)
	assert.Equal(t, "run-round-trip", back.Results[string(topicmind.ModelJournals)].Summary.RunID)
}

func TestTrainingEventRowWithoutResults(t *testing.T) {
	meta := &topicmind.TrainingMetadata{
		ID:        "baseline",
		Counts:    topicmind.CorpusCounts{topicmind.ModelJournals: 10},
		TrainedAt: time.Now().UTC(),
		Reason:    "baseline",
	}

	row, err := metadataToRow(meta)
	require.NoError(t, err)
	assert.Empty(t, row.Results)

	back, err := rowToMetadata(row)
	require.NoError(t, err)
	assert.Nil(t, back.Results)
}
