package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/you/travel-marketplace/pkg/errs"
	"github.com/you/travel-marketplace/services/vendor-service/internal/domain"
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store { return &Store{db: db} }

func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&domain.Vendor{}, &domain.Listing{})
}

func (s *Store) CreateVendor(ctx context.Context, v *domain.Vendor) error {
	err := s.db.WithContext(ctx).Create(v).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.Validation("a vendor with this email already exists")
	}
	return err
}

func (s *Store) GetVendor(ctx context.Context, id string) (*domain.Vendor, error) {
	var v domain.Vendor
	err := s.db.WithContext(ctx).First(&v, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NotFound("Vendor")
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *Store) CreateListing(ctx context.Context, l *domain.Listing) error {
	return s.db.WithContext(ctx).Create(l).Error
}
