package domain

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// Event is a scheduled, capacity-limited offering sold by an agency.
// available_seats only ever changes under the booking transaction's
// row lock; this service sets it once at creation.
type Event struct {
	ID             string         `gorm:"primaryKey;type:uuid" json:"id"`
	AgencyID       string         `gorm:"index;not null" json:"agencyId"`
	Title          string         `gorm:"not null" json:"title"`
	Description    string         `json:"description"`
	Price          float64        `json:"price"`
	TotalSeats     int            `json:"totalSeats"`
	AvailableSeats int            `json:"availableSeats"`
	StartDate      time.Time      `json:"startDate"`
	Tags           pq.StringArray `gorm:"type:text[]" json:"tags"`
	Location       datatypes.JSON `gorm:"type:jsonb" json:"location,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}
