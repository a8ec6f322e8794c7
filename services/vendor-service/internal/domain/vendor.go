package domain

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type Vendor struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Listing is the canonical catalog row in Postgres. The rich package
// document with media and enrichment lives in Mongo; bookings and search
// join against this row.
type Listing struct {
	ID          string         `gorm:"primaryKey;type:uuid" json:"id"`
	VendorID    string         `gorm:"index;not null" json:"vendorId"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `json:"description"`
	Price       float64        `json:"price"`
	Tags        pq.StringArray `gorm:"type:text[]" json:"tags"`
	Location    datatypes.JSON `gorm:"type:jsonb" json:"location,omitempty"`
	Status      string         `gorm:"default:published" json:"status"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

const StatusPublished = "published"

// MediaFile describes one uploaded asset attached to a package.
type MediaFile struct {
	Path string `bson:"path" json:"path"`
	Type string `bson:"type" json:"type"`
	Size int64  `bson:"size" json:"size"`
}

// PackageDoc is the rich package document stored in Mongo. Ingestion
// consumers enrich it with transcripts, marketing copy and image data
// after creation.
type PackageDoc struct {
	ListingID   string         `bson:"listingId"`
	VendorID    string         `bson:"vendorId"`
	Title       string         `bson:"title"`
	Description string         `bson:"description"`
	Price       float64        `bson:"price"`
	Tags        []string       `bson:"tags,omitempty"`
	Location    map[string]any `bson:"location,omitempty"`
	Files       []MediaFile    `bson:"files,omitempty"`
	CreatedAt   time.Time      `bson:"createdAt"`
}
