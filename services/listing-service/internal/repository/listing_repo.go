package repository

import (
	"context"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Store updates the canonical listing rows that enrichment is allowed to
// touch. Vendor-provided values always win: marketing output only fills
// fields the vendor left empty.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store { return &Store{db: db} }

func (s *Store) ApplyMarketing(ctx context.Context, listingID, title string, tags []string) error {
	return s.db.WithContext(ctx).Exec(`
		UPDATE listings
		SET title = COALESCE(NULLIF(title, ''), NULLIF(?, ''), title),
		    tags = CASE
		             WHEN (tags IS NULL OR cardinality(tags) = 0)
		                  AND COALESCE(cardinality(?::text[]), 0) > 0
		             THEN ?::text[]
		             ELSE tags
		           END,
		    updated_at = now()
		WHERE id = ?`,
		title, pq.Array(tags), pq.Array(tags), listingID,
	).Error
}
