package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/you/travel-marketplace/services/search-service/internal/service"
)

// Store joins vector hits back to the relational source of truth.
// Filters are ANDed; a row must satisfy all of them to surface.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store { return &Store{db: db} }

type row struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	Price       float64
	Tags        pq.StringArray `gorm:"type:text[]"`
	Location    []byte
	StartDate   *time.Time
}

func (s *Store) Listings(ctx context.Context, ids []string, f service.Filters) ([]service.Result, error) {
	var rows []row
	if err := s.listingsQuery(ctx, ids, f).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return toResults(rows), nil
}

func (s *Store) Events(ctx context.Context, ids []string, f service.Filters) ([]service.Result, error) {
	var rows []row
	if err := s.eventsQuery(ctx, ids, f).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return toResults(rows), nil
}

func (s *Store) listingsQuery(ctx context.Context, ids []string, f service.Filters) *gorm.DB {
	q := s.db.WithContext(ctx).
		Table("listings l").
		Select("l.id, l.vendor_id AS owner_id, l.title, l.description, l.price, l.tags, l.location").
		Where("l.id IN ?", ids).
		Where("l.status = ?", "published")
	return applyFilters(q, "l", f)
}

func (s *Store) eventsQuery(ctx context.Context, ids []string, f service.Filters) *gorm.DB {
	q := s.db.WithContext(ctx).
		Table("events e").
		Select("e.id, e.agency_id AS owner_id, e.title, e.description, e.price, e.tags, e.location, e.start_date").
		Where("e.id IN ?", ids)
	return applyFilters(q, "e", f)
}

func applyFilters(q *gorm.DB, alias string, f service.Filters) *gorm.DB {
	if f.MinPrice != nil {
		q = q.Where(alias+".price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where(alias+".price <= ?", *f.MaxPrice)
	}
	if len(f.Tags) > 0 {
		q = q.Where(alias+".tags && ?", pq.Array(f.Tags))
	}
	if f.City != "" {
		q = q.Where(alias+".location->>'city' = ?", f.City)
	}
	return q
}

func toResults(rows []row) []service.Result {
	out := make([]service.Result, 0, len(rows))
	for _, r := range rows {
		out = append(out, service.Result{
			ID:          r.ID,
			OwnerID:     r.OwnerID,
			Title:       r.Title,
			Description: r.Description,
			Price:       r.Price,
			Tags:        r.Tags,
			Location:    json.RawMessage(r.Location),
			StartDate:   r.StartDate,
		})
	}
	return out
}
