package events

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Routing keys on the travel.marketplace topic exchange.
const (
	TopicMediaUploaded          = "media.uploaded"
	TopicTranscriptionCompleted = "transcription.completed"
	TopicMarketingGenerated     = "marketing.generated"
	TopicImageProcessed         = "image.processed"
	TopicEmbeddingCreated       = "embedding.created"
	TopicListingCreated         = "listing.created"
	TopicEventCreated           = "event.created"
	TopicBookingCreated         = "booking.created"
	TopicPaymentSucceeded       = "payment.succeeded"
	TopicUserInteraction        = "user.interaction"
)

// ErrBadPayload marks a payload that failed decode or validation. The bus
// routes these straight to the dead-letter queue; a malformed message never
// heals on redelivery.
var ErrBadPayload = errors.New("bad event payload")

// Location is the unstructured location blob carried on listing/event
// payloads. Only the city hint has meaning to the core.
type Location map[string]any

func (l Location) City() string {
	s, _ := l["city"].(string)
	return s
}

func (l Location) Country() string {
	s, _ := l["country"].(string)
	return s
}

type MediaUploaded struct {
	EntityType string `json:"entityType"`
	EntityID   string `json:"entityId"`
	FilePath   string `json:"filePath"`
	FileType   string `json:"fileType"`
	FileSize   int64  `json:"fileSize"`
}

func (p MediaUploaded) Validate() error {
	if p.EntityType == "" || p.EntityID == "" || p.FilePath == "" {
		return fmt.Errorf("%w: media.uploaded requires entityType, entityId, filePath", ErrBadPayload)
	}
	return nil
}

type TranscriptionCompleted struct {
	ListingID  string  `json:"listingId"`
	Transcript string  `json:"transcript"`
	Language   string  `json:"language,omitempty"`
	Duration   float64 `json:"duration,omitempty"`
}

func (p TranscriptionCompleted) Validate() error {
	if p.ListingID == "" || p.Transcript == "" {
		return fmt.Errorf("%w: transcription.completed requires listingId, transcript", ErrBadPayload)
	}
	return nil
}

type MarketingGenerated struct {
	ListingID         string   `json:"listingId"`
	MarketingCopy     string   `json:"marketingCopy"`
	Title             string   `json:"title,omitempty"`
	Tags              []string `json:"tags,omitempty"`
	ReadyForEmbedding bool     `json:"readyForEmbedding"`
}

func (p MarketingGenerated) Validate() error {
	if p.ListingID == "" || p.MarketingCopy == "" {
		return fmt.Errorf("%w: marketing.generated requires listingId, marketingCopy", ErrBadPayload)
	}
	return nil
}

type ImageProcessed struct {
	ListingID        string         `json:"listingId"`
	ImageURL         string         `json:"imageUrl"`
	EnhancedImageURL string         `json:"enhancedImageUrl,omitempty"`
	Metadata         map[string]any `json:"metadata,omitempty"`
}

func (p ImageProcessed) Validate() error {
	if p.ListingID == "" || p.ImageURL == "" {
		return fmt.Errorf("%w: image.processed requires listingId, imageUrl", ErrBadPayload)
	}
	return nil
}

type EmbeddingCreated struct {
	EntityType  string         `json:"entityType"`
	EntityID    string         `json:"entityId"`
	EmbeddingID string         `json:"embeddingId"`
	Vector      []float32      `json:"vector"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

func (p EmbeddingCreated) Validate() error {
	if p.EntityType != "listing" && p.EntityType != "event" {
		return fmt.Errorf("%w: embedding.created entityType must be listing or event", ErrBadPayload)
	}
	if p.EntityID == "" || p.EmbeddingID == "" || len(p.Vector) == 0 {
		return fmt.Errorf("%w: embedding.created requires entityId, embeddingId, vector", ErrBadPayload)
	}
	return nil
}

type ListingCreated struct {
	ListingID   string   `json:"listingId"`
	VendorID    string   `json:"vendorId"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Location    Location `json:"location,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	EmbeddingID string   `json:"embeddingId,omitempty"`
}

func (p ListingCreated) Validate() error {
	if p.ListingID == "" || p.VendorID == "" || p.Title == "" {
		return fmt.Errorf("%w: listing.created requires listingId, vendorId, title", ErrBadPayload)
	}
	return nil
}

type EventCreated struct {
	EventID     string   `json:"eventId"`
	AgencyID    string   `json:"agencyId"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Location    Location `json:"location,omitempty"`
	StartDate   string   `json:"startDate"`
	Price       float64  `json:"price"`
	Tags        []string `json:"tags,omitempty"`
	EmbeddingID string   `json:"embeddingId,omitempty"`
}

func (p EventCreated) Validate() error {
	if p.EventID == "" || p.AgencyID == "" || p.Title == "" {
		return fmt.Errorf("%w: event.created requires eventId, agencyId, title", ErrBadPayload)
	}
	return nil
}

type BookingCreated struct {
	BookingID   string  `json:"bookingId"`
	UserID      string  `json:"userId"`
	EventID     string  `json:"eventId,omitempty"`
	ListingID   string  `json:"listingId,omitempty"`
	Seats       int     `json:"seats"`
	TotalAmount float64 `json:"totalAmount"`
}

func (p BookingCreated) Validate() error {
	if p.BookingID == "" || p.UserID == "" || p.Seats <= 0 {
		return fmt.Errorf("%w: booking.created requires bookingId, userId, seats > 0", ErrBadPayload)
	}
	return nil
}

type PaymentSucceeded struct {
	PaymentID     string  `json:"paymentId"`
	BookingID     string  `json:"bookingId"`
	Amount        float64 `json:"amount"`
	TransactionID string  `json:"transactionId"`
}

func (p PaymentSucceeded) Validate() error {
	if p.PaymentID == "" || p.BookingID == "" || p.TransactionID == "" {
		return fmt.Errorf("%w: payment.succeeded requires paymentId, bookingId, transactionId", ErrBadPayload)
	}
	return nil
}

type UserInteraction struct {
	UserID     string         `json:"userId"`
	Action     string         `json:"action"`
	EntityType string         `json:"entityType"`
	EntityID   string         `json:"entityId"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

func (p UserInteraction) Validate() error {
	if p.UserID == "" || p.Action == "" {
		return fmt.Errorf("%w: user.interaction requires userId, action", ErrBadPayload)
	}
	return nil
}

// Payload is implemented by every event body; consumers validate before any
// business logic runs so a malformed message fails at the bus boundary.
type Payload interface {
	Validate() error
}

// Decode unmarshals and validates a payload. Unknown extra fields are
// tolerated; missing optional fields stay zero-valued.
func Decode[T Payload](body []byte) (T, error) {
	var p T
	if err := json.Unmarshal(body, &p); err != nil {
		return p, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}
