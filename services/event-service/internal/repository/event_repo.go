package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/you/travel-marketplace/pkg/errs"
	"github.com/you/travel-marketplace/services/event-service/internal/domain"
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store { return &Store{db: db} }

func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&domain.Event{})
}

func (s *Store) CreateEvent(ctx context.Context, e *domain.Event) error {
	return s.db.WithContext(ctx).Create(e).Error
}

func (s *Store) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	var e domain.Event
	err := s.db.WithContext(ctx).First(&e, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NotFound("Event")
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Store) AgencyEvents(ctx context.Context, agencyID string) ([]domain.Event, error) {
	var out []domain.Event
	err := s.db.WithContext(ctx).
		Where("agency_id = ?", agencyID).
		Order("start_date ASC").
		Find(&out).Error
	return out, err
}
