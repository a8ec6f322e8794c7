package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/you/travel-marketplace/pkg/errs"
	"github.com/you/travel-marketplace/pkg/events"
	"github.com/you/travel-marketplace/services/event-service/internal/domain"
)

type Store interface {
	CreateEvent(ctx context.Context, e *domain.Event) error
	GetEvent(ctx context.Context, id string) (*domain.Event, error)
	AgencyEvents(ctx context.Context, agencyID string) ([]domain.Event, error)
}

type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) error
}

type EventService struct {
	store Store
	pub   Publisher
}

func New(store Store, pub Publisher) *EventService {
	return &EventService{store: store, pub: pub}
}

type CreateEventInput struct {
	AgencyID    string         `json:"agencyId"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Price       float64        `json:"price"`
	TotalSeats  int            `json:"totalSeats"`
	StartDate   string         `json:"startDate"`
	Tags        []string       `json:"tags"`
	Location    map[string]any `json:"location"`
}

// CreateEvent persists the event with its full capacity available, then
// announces it for indexing.
func (s *EventService) CreateEvent(ctx context.Context, in CreateEventInput) (*domain.Event, error) {
	if in.AgencyID == "" || in.Title == "" {
		return nil, errs.Validation("agencyId and title are required")
	}
	if len(in.Location) == 0 {
		return nil, errs.Validation("location is required")
	}
	if in.TotalSeats <= 0 {
		return nil, errs.Validation("totalSeats must be greater than zero")
	}
	if in.Price < 0 {
		return nil, errs.Validation("price must not be negative")
	}
	start, err := time.Parse(time.RFC3339, in.StartDate)
	if err != nil {
		return nil, errs.Validation("startDate must be an RFC 3339 timestamp")
	}

	var loc datatypes.JSON
	if in.Location != nil {
		raw, err := json.Marshal(in.Location)
		if err != nil {
			return nil, errs.Validation("location is not serializable")
		}
		loc = datatypes.JSON(raw)
	}

	e := &domain.Event{
		ID:             uuid.NewString(),
		AgencyID:       in.AgencyID,
		Title:          in.Title,
		Description:    in.Description,
		Price:          in.Price,
		TotalSeats:     in.TotalSeats,
		AvailableSeats: in.TotalSeats,
		StartDate:      start,
		Tags:           in.Tags,
		Location:       loc,
	}
	if err := s.store.CreateEvent(ctx, e); err != nil {
		return nil, err
	}

	created := events.EventCreated{
		EventID:     e.ID,
		AgencyID:    e.AgencyID,
		Title:       e.Title,
		Description: e.Description,
		Location:    events.Location(in.Location),
		StartDate:   start.Format(time.RFC3339),
		Price:       e.Price,
		Tags:        in.Tags,
	}
	if err := s.pub.Publish(ctx, events.TopicEventCreated, created); err != nil {
		log.Printf("[event] publish event.created for %s failed: %v", e.ID, err)
	}
	return e, nil
}

func (s *EventService) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	if id == "" {
		return nil, errs.Validation("event id is required")
	}
	return s.store.GetEvent(ctx, id)
}

func (s *EventService) GetAgencyEvents(ctx context.Context, agencyID string) ([]domain.Event, error) {
	if agencyID == "" {
		return nil, errs.Validation("agencyId is required")
	}
	return s.store.AgencyEvents(ctx, agencyID)
}
