// Package store provides MetadataStore implementations: a Postgres-backed
// one for deployments and an in-memory one for tests and single-process
// tools.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	topicmind "github.com/mindloom/topicmind"
)

// trainingEventRow is the persisted form of one TrainingMetadata record.
type trainingEventRow struct {
	ID        string         `gorm:"primaryKey;type:uuid"`
	Counts    datatypes.JSON `gorm:"type:jsonb;not null"`
	Results   datatypes.JSON `gorm:"type:jsonb"`
	Reason    string         `gorm:"type:varchar(32);not null"`
	TrainedAt time.Time      `gorm:"index;not null"`
	CreatedAt time.Time
}

func (trainingEventRow) TableName() string {
	return "training_events"
}

// validationReportRow is the persisted form of one ValidationReport.
type validationReportRow struct {
	ID        uint           `gorm:"primaryKey;autoIncrement"`
	RunID     string         `gorm:"type:uuid;index;not null"`
	ModelType string         `gorm:"type:varchar(32);index;not null"`
	Status    string         `gorm:"type:varchar(16);not null"`
	Score     float64        `gorm:"not null"`
	Report    datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time
}

func (validationReportRow) TableName() string {
	return "validation_reports"
}

// PostgresStore persists lifecycle state in Postgres via gorm.
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore opens a connection with the given DSN and migrates the
// schema.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return NewPostgresStoreWithDB(db)
}

// NewPostgresStoreWithDB wraps an existing gorm handle, migrating the
// schema. Useful when the caller manages the connection pool.
func NewPostgresStoreWithDB(db *gorm.DB) (*PostgresStore, error) {
	if err := db.AutoMigrate(&trainingEventRow{}, &validationReportRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// LatestMetadata returns the most recent training event, or nil when none
// has been recorded yet.
func (s *PostgresStore) LatestMetadata(ctx context.Context) (*topicmind.TrainingMetadata, error) {
	var row trainingEventRow
	err := s.db.WithContext(ctx).Order("trained_at DESC").First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rowToMetadata(&row)
}

// AppendMetadata inserts a new training event. Records are never updated
// in place.
func (s *PostgresStore) AppendMetadata(ctx context.Context, meta *topicmind.TrainingMetadata) error {
	row, err := metadataToRow(meta)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Create(row).Error
}

// MetadataHistory returns up to limit events, newest first. A limit of 0
// or less returns the full history.
func (s *PostgresStore) MetadataHistory(ctx context.Context, limit int) ([]topicmind.TrainingMetadata, error) {
	q := s.db.WithContext(ctx).Order("trained_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []trainingEventRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]topicmind.TrainingMetadata, 0, len(rows))
	for i := range rows {
		meta, err := rowToMetadata(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *meta)
	}
	return out, nil
}

// SaveReport persists one validation report.
func (s *PostgresStore) SaveReport(ctx context.Context, report *topicmind.ValidationReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	row := validationReportRow{
		RunID:     report.RunID,
		ModelType: string(report.ModelType),
		Status:    report.Status,
		Score:     report.CompositeScore,
		Report:    payload,
	}
	return s.db.WithContext(ctx).Create(&row).Error
}

// LatestReport returns the newest report for a sub-model, or nil when the
// sub-model has never been validated.
func (s *PostgresStore) LatestReport(ctx context.Context, modelType topicmind.ModelType) (*topicmind.ValidationReport, error) {
	var row validationReportRow
	err := s.db.WithContext(ctx).
		Where("model_type = ?", string(modelType)).
		Order("created_at DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var report topicmind.ValidationReport
	if err := json.Unmarshal(row.Report, &report); err != nil {
		return nil, fmt.Errorf("failed to decode report %d: %w", row.ID, err)
	}
	return &report, nil
}

func metadataToRow(meta *topicmind.TrainingMetadata) (*trainingEventRow, error) {
	counts, err := json.Marshal(meta.Counts)
	if err != nil {
		return nil, fmt.Errorf("failed to encode counts: %w", err)
	}

	row := &trainingEventRow{
		ID:        meta.ID,
		Counts:    counts,
		Reason:    meta.Reason,
		TrainedAt: meta.TrainedAt,
	}
	if meta.Results != nil {
		results, err := json.Marshal(meta.Results)
		if err != nil {
			return nil, fmt.Errorf("failed to encode results: %w", err)
		}
		row.Results = results
	}
	return row, nil
}

func rowToMetadata(row *trainingEventRow) (*topicmind.TrainingMetadata, error) {
	meta := &topicmind.TrainingMetadata{
		ID:        row.ID,
		TrainedAt: row.TrainedAt,
		Reason:    row.Reason,
	}
	if err := json.Unmarshal(row.Counts, &meta.Counts); err != nil {
		return nil, fmt.Errorf("failed to decode counts for event %s: %w", row.ID, err)
	}
	if len(row.Results) > 0 {
		if err := json.Unmarshal(row.Results, &meta.Results); err != nil {
			return nil, fmt.Errorf("failed to decode results for event %s: %w", row.ID, err)
		}
	}
	return meta, nil
}
