package domain

import "time"

type BookingStatus string

// Lifecycle: created pending inside the reserve transaction, then exactly one
// terminal transition. Confirmed and payment_failed rows are immutable.
const (
	StatusPending       BookingStatus = "pending"
	StatusConfirmed     BookingStatus = "confirmed"
	StatusPaymentFailed BookingStatus = "payment_failed"
)

type Booking struct {
	ID          string        `gorm:"primaryKey" json:"id"`
	UserID      string        `gorm:"index" json:"userId"`
	EventID     *string       `gorm:"index" json:"eventId,omitempty"`
	ListingID   *string       `gorm:"index" json:"listingId,omitempty"`
	Seats       int           `json:"seats"`
	TotalAmount float64       `json:"totalAmount"`
	Status      BookingStatus `gorm:"index" json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

type Payment struct {
	ID            string    `gorm:"primaryKey" json:"id"`
	BookingID     string    `gorm:"uniqueIndex" json:"bookingId"`
	Amount        float64   `json:"amount"`
	Status        string    `json:"status"`
	TransactionID string    `gorm:"uniqueIndex" json:"transactionId"`
	Method        string    `json:"paymentMethod"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Event is the booking-side view of the events table: only the seat counters
// matter here. The counter invariant 0 <= available <= total is enforced
// procedurally by the reserve transaction, never by a check constraint.
type Event struct {
	ID             string    `gorm:"primaryKey"`
	TotalSeats     int       `gorm:"column:total_seats"`
	AvailableSeats int       `gorm:"column:available_seats"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (Event) TableName() string { return "events" }

// BookingView joins a booking with the title of what was booked, for the
// user-facing history listing.
type BookingView struct {
	ID           string        `json:"id"`
	UserID       string        `json:"userId"`
	EventID      *string       `json:"eventId,omitempty"`
	ListingID    *string       `json:"listingId,omitempty"`
	Seats        int           `json:"seats"`
	TotalAmount  float64       `json:"totalAmount"`
	Status       BookingStatus `json:"status"`
	CreatedAt    time.Time     `json:"createdAt"`
	EventTitle   *string       `json:"eventTitle,omitempty"`
	ListingTitle *string       `json:"listingTitle,omitempty"`
}
