package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/you/travel-marketplace/services/media-service/internal/domain"
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store { return &Store{db: db} }

func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&domain.Asset{})
}

// SaveAsset is idempotent on file path so a redelivered upload event does
// not produce a duplicate row.
func (s *Store) SaveAsset(ctx context.Context, a *domain.Asset) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "file_path"}},
			DoNothing: true,
		}).
		Create(a).Error
}
