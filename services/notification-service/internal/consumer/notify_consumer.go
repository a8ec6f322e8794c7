package consumer

import (
	"context"
	"fmt"
	"log"

	"github.com/you/travel-marketplace/pkg/events"
	"github.com/you/travel-marketplace/pkg/mq"
	"github.com/you/travel-marketplace/services/notification-service/internal/notifier"
)

// Worker turns booking lifecycle events into user notifications.
type Worker struct {
	bus    *mq.Bus
	notify notifier.Notifier
}

func NewWorker(bus *mq.Bus, notify notifier.Notifier) *Worker {
	return &Worker{bus: bus, notify: notify}
}

func (w *Worker) Start(ctx context.Context) error {
	if err := mq.Consume(ctx, w.bus, events.TopicBookingCreated, "notification-service-booking", w.handleBooking); err != nil {
		return err
	}
	if err := mq.Consume(ctx, w.bus, events.TopicPaymentSucceeded, "notification-service-payment", w.handlePayment); err != nil {
		return err
	}
	log.Println("[notification] consuming booking.created, payment.succeeded")
	return nil
}

func (w *Worker) handleBooking(ctx context.Context, p events.BookingCreated) error {
	target := p.EventID
	if target == "" {
		target = p.ListingID
	}
	return w.notify.Send(ctx, notifier.Message{
		Recipient: "user:" + p.UserID,
		Subject:   "Booking confirmed",
		Body:      fmt.Sprintf("Your booking %s for %s (%d seats) is confirmed.", p.BookingID, target, p.Seats),
	})
}

func (w *Worker) handlePayment(ctx context.Context, p events.PaymentSucceeded) error {
	return w.notify.Send(ctx, notifier.Message{
		Recipient: "booking:" + p.BookingID,
		Subject:   "Payment received",
		Body:      fmt.Sprintf("Payment of %.2f for booking %s went through (ref %s).", p.Amount, p.BookingID, p.TransactionID),
	})
}
