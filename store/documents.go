package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	topicmind "github.com/mindloom/topicmind"
)

// journalEntryRow is one journal entry in the corpus.
type journalEntryRow struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	PatientID string `gorm:"type:uuid;index"`
	Body      string `gorm:"type:text;not null"`
	CreatedAt time.Time
}

func (journalEntryRow) TableName() string {
	return "journal_entries"
}

// conversationMessageRow is one patient message from a conversation.
type conversationMessageRow struct {
	ID             uint   `gorm:"primaryKey;autoIncrement"`
	ConversationID string `gorm:"type:uuid;index"`
	Body           string `gorm:"type:text;not null"`
	CreatedAt      time.Time
}

func (conversationMessageRow) TableName() string {
	return "conversation_messages"
}

// PostgresDocumentSource exposes the live corpora from Postgres. The
// severity sub-model reads the conversation corpus.
type PostgresDocumentSource struct {
	db *gorm.DB
}

// NewPostgresDocumentSource wraps a gorm handle and migrates the corpus
// tables.
func NewPostgresDocumentSource(db *gorm.DB) (*PostgresDocumentSource, error) {
	if err := db.AutoMigrate(&journalEntryRow{}, &conversationMessageRow{}); err != nil {
		return nil, err
	}
	return &PostgresDocumentSource{db: db}, nil
}

// Count returns the current size of a sub-model's corpus.
func (s *PostgresDocumentSource) Count(ctx context.Context, modelType topicmind.ModelType) (int, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(s.model(modelType)).Count(&n).Error
	return int(n), err
}

// Documents loads a sub-model's corpus, oldest first.
func (s *PostgresDocumentSource) Documents(ctx context.Context, modelType topicmind.ModelType) ([]topicmind.Document, error) {
	if modelType == topicmind.ModelJournals {
		var rows []journalEntryRow
		if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error; err != nil {
			return nil, err
		}
		docs := make([]topicmind.Document, len(rows))
		for i, row := range rows {
			docs[i] = topicmind.Document{
				Text:      row.Body,
				Timestamp: row.CreatedAt,
				GroupID:   row.PatientID,
			}
		}
		return docs, nil
	}

	var rows []conversationMessageRow
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	docs := make([]topicmind.Document, len(rows))
	for i, row := range rows {
		docs[i] = topicmind.Document{
			Text:      row.Body,
			Timestamp: row.CreatedAt,
			GroupID:   row.ConversationID,
		}
	}
	return docs, nil
}

func (s *PostgresDocumentSource) model(modelType topicmind.ModelType) any {
	if modelType == topicmind.ModelJournals {
		return &journalEntryRow{}
	}
	return &conversationMessageRow{}
}
