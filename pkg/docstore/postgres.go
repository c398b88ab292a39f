package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// documentRecord is the single table backing every collection.
type documentRecord struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;"`
	Collection string    `gorm:"type:varchar(100);index;not null"`
	Data       string    `gorm:"type:jsonb;not null"`
	CreatedAt  time.Time `gorm:"index"`
}

func (documentRecord) TableName() string {
	return "documents"
}

func (r *documentRecord) BeforeCreate(tx *gorm.DB) (err error) {
	r.ID = uuid.New()
	return
}

// GormStore stores documents as jsonb rows in PostgreSQL.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate creates or updates the documents table.
func (s *GormStore) Migrate() error {
	return s.db.AutoMigrate(&documentRecord{})
}

func (s *GormStore) List(ctx context.Context, collection string) ([]Document, error) {
	if collection == "" {
		return nil, ErrEmptyCollection
	}

	var records []documentRecord
	err := s.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order("created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}

	docs := make([]Document, 0, len(records))
	for _, r := range records {
		fields := map[string]any{}
		if err := json.Unmarshal([]byte(r.Data), &fields); err != nil {
			return nil, fmt.Errorf("decode document %s: %w", r.ID, err)
		}
		docs = append(docs, Document{ID: r.ID.String(), Fields: fields})
	}
	return docs, nil
}

func (s *GormStore) Append(ctx context.Context, collection string, fields map[string]any) (string, error) {
	if collection == "" {
		return "", ErrEmptyCollection
	}

	now := time.Now().UTC()
	data, err := json.Marshal(resolveServerTimestamps(fields, now))
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}

	record := documentRecord{
		Collection: collection,
		Data:       string(data),
		CreatedAt:  now,
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return "", fmt.Errorf("append to %s: %w", collection, err)
	}
	return record.ID.String(), nil
}
