package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/narwhalmedia/marquee/pkg/database"
	"github.com/narwhalmedia/marquee/pkg/interfaces"
)

// BlobModel is one row of the key/value blob table.
type BlobModel struct {
	Key       string `gorm:"column:blob_key;primaryKey;size:255"`
	Data      []byte `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name
func (BlobModel) TableName() string {
	return "blobs"
}

// Migrations returns the schema migrations of the blob table.
func Migrations() []database.MigrationEntry {
	return []database.MigrationEntry{
		{
			Version: "20250101_001",
			Name:    "Create blobs table",
			Up: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&BlobModel{})
			},
		},
	}
}

// GormBlobStore keeps blobs in a relational table.
type GormBlobStore struct {
	db     *gorm.DB
	logger interfaces.Logger
}

// NewGormBlobStore creates a new GORM-backed blob store
func NewGormBlobStore(db *gorm.DB, logger interfaces.Logger) *GormBlobStore {
	return &GormBlobStore{
		db:     db,
		logger: logger,
	}
}

// Load reads the row for key.
func (s *GormBlobStore) Load(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	var model BlobModel
	err := s.db.WithContext(ctx).Where("blob_key = ?", key).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load blob %s: %w", key, err)
	}
	return model.Data, nil
}

// Save upserts the row for key in a single statement.
func (s *GormBlobStore) Save(ctx context.Context, key string, data []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}

	model := BlobModel{Key: key, Data: data}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "blob_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
		}).
		Create(&model).Error
	if err != nil {
		return fmt.Errorf("failed to save blob %s: %w", key, err)
	}

	s.logger.Debug("blob saved",
		interfaces.String("backend", "database"),
		interfaces.String("key", key),
		interfaces.Int("bytes", len(data)),
	)
	return nil
}
