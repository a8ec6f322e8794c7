package consumer

import (
	"context"
	"log"

	"github.com/you/travel-marketplace/pkg/events"
	"github.com/you/travel-marketplace/pkg/mq"
)

type Sink interface {
	AppendInteraction(ctx context.Context, doc map[string]any) error
	AppendBooking(ctx context.Context, doc map[string]any) error
}

// Worker streams behavioral and booking events into the analytics store.
type Worker struct {
	bus  *mq.Bus
	sink Sink
}

func NewWorker(bus *mq.Bus, sink Sink) *Worker {
	return &Worker{bus: bus, sink: sink}
}

func (w *Worker) Start(ctx context.Context) error {
	if err := mq.Consume(ctx, w.bus, events.TopicUserInteraction, "analytics-service-interaction", w.handleInteraction); err != nil {
		return err
	}
	if err := mq.Consume(ctx, w.bus, events.TopicBookingCreated, "analytics-service-booking", w.handleBooking); err != nil {
		return err
	}
	log.Println("[analytics] consuming user.interaction, booking.created")
	return nil
}

func (w *Worker) handleInteraction(ctx context.Context, p events.UserInteraction) error {
	doc := map[string]any{
		"userId":     p.UserID,
		"action":     p.Action,
		"entityType": p.EntityType,
		"entityId":   p.EntityID,
	}
	if len(p.Metadata) > 0 {
		doc["metadata"] = p.Metadata
	}
	return w.sink.AppendInteraction(ctx, doc)
}

func (w *Worker) handleBooking(ctx context.Context, p events.BookingCreated) error {
	return w.sink.AppendBooking(ctx, map[string]any{
		"bookingId":   p.BookingID,
		"userId":      p.UserID,
		"eventId":     p.EventID,
		"listingId":   p.ListingID,
		"seats":       p.Seats,
		"totalAmount": p.TotalAmount,
	})
}
