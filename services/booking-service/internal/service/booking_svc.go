package service

import (
	"context"
	"fmt"
	"log"

	"github.com/you/travel-marketplace/pkg/errs"
	"github.com/you/travel-marketplace/services/booking-service/internal/domain"
	"github.com/you/travel-marketplace/services/booking-service/internal/payment"
)

type CreateBookingInput struct {
	UserID      string
	EventID     *string
	ListingID   *string
	Seats       int
	TotalAmount float64
}

// Store is the transactional boundary the service drives. ReservePending runs
// the short seat-locking transaction; ConfirmBooking and FailBooking are the
// two terminal transitions, each its own transaction, so no network call ever
// runs while the seat row is locked.
type Store interface {
	ReservePending(ctx context.Context, in CreateBookingInput) (*domain.Booking, error)
	ConfirmBooking(ctx context.Context, b *domain.Booking, pay payment.Result) error
	FailBooking(ctx context.Context, b *domain.Booking) error
	UserBookings(ctx context.Context, userID string) ([]domain.BookingView, error)
}

type BookingService struct {
	store    Store
	payments payment.Processor
}

func New(store Store, payments payment.Processor) *BookingService {
	return &BookingService{store: store, payments: payments}
}

// CreateBooking reserves inventory, charges, and lands the booking in exactly
// one of its two terminal states. Events go through the outbox inside the
// confirm transaction, so nothing is published for a booking that never
// committed.
func (s *BookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (*domain.Booking, error) {
	if (in.EventID == nil) == (in.ListingID == nil) {
		return nil, errs.Validation("Either eventId or listingId must be provided")
	}
	if in.Seats <= 0 {
		return nil, errs.Validation("Seats must be greater than 0")
	}
	if in.TotalAmount <= 0 {
		return nil, errs.Validation("Total amount must be greater than 0")
	}

	b, err := s.store.ReservePending(ctx, in)
	if err != nil {
		return nil, err
	}

	res, perr := s.payments.Process(ctx, b.ID, in.TotalAmount)
	if perr != nil || res.Status != payment.StatusSucceeded {
		if perr != nil {
			log.Printf("[booking] payment error booking=%s: %v", b.ID, perr)
		}
		if ferr := s.store.FailBooking(ctx, b); ferr != nil {
			return nil, fmt.Errorf("compensate booking %s: %w", b.ID, ferr)
		}
		b.Status = domain.StatusPaymentFailed
		return b, nil
	}

	if err := s.store.ConfirmBooking(ctx, b, res); err != nil {
		return nil, fmt.Errorf("confirm booking %s: %w", b.ID, err)
	}
	b.Status = domain.StatusConfirmed
	return b, nil
}

func (s *BookingService) GetUserBookings(ctx context.Context, userID string) ([]domain.BookingView, error) {
	if userID == "" {
		return nil, errs.Validation("userId is required")
	}
	return s.store.UserBookings(ctx, userID)
}
