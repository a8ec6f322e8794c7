package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/you/travel-marketplace/pkg/errs"
	"github.com/you/travel-marketplace/pkg/events"
	"github.com/you/travel-marketplace/services/booking-service/internal/domain"
	"github.com/you/travel-marketplace/services/booking-service/internal/outbox"
	"github.com/you/travel-marketplace/services/booking-service/internal/payment"
	"github.com/you/travel-marketplace/services/booking-service/internal/service"
)

type Store struct{ db *gorm.DB }

func NewStore(db *gorm.DB) *Store { return &Store{db: db} }

func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&domain.Booking{}, &domain.Payment{}, &outbox.Record{})
}

// ReservePending serializes concurrent bookings for the same event on the
// event row's exclusive lock. The lock is held for exactly this transaction:
// seat check, decrement, pending insert.
func (s *Store) ReservePending(ctx context.Context, in service.CreateBookingInput) (*domain.Booking, error) {
	b := &domain.Booking{
		ID:          uuid.NewString(),
		UserID:      in.UserID,
		EventID:     in.EventID,
		ListingID:   in.ListingID,
		Seats:       in.Seats,
		TotalAmount: in.TotalAmount,
		Status:      domain.StatusPending,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.ListingID != nil {
			// Listings carry no seat inventory, so no lock is taken, but the
			// target must exist like it does on the event path.
			var n int64
			if err := tx.Table("listings").Where("id = ?", *in.ListingID).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return errs.NotFound("Listing")
			}
		}
		if in.EventID != nil {
			var ev domain.Event
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Take(&ev, "id = ?", *in.EventID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.NotFound("Event")
			}
			if err != nil {
				return err
			}
			if ev.AvailableSeats < in.Seats {
				return errs.Validationf("Not enough seats available. Only %d seats remaining.", ev.AvailableSeats)
			}
			if err := tx.Model(&domain.Event{}).Where("id = ?", ev.ID).
				UpdateColumn("available_seats", gorm.Expr("available_seats - ?", in.Seats)).Error; err != nil {
				return err
			}
		}
		return tx.Create(b).Error
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ConfirmBooking flips pending -> confirmed, records the payment and stages
// booking.created + payment.succeeded in the same transaction. The status
// guard makes terminal bookings immutable.
func (s *Store) ConfirmBooking(ctx context.Context, b *domain.Booking, pay payment.Result) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Booking{}).
			Where("id = ? AND status = ?", b.ID, domain.StatusPending).
			Update("status", domain.StatusConfirmed)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.Validation("booking is not pending")
		}
		p := &domain.Payment{
			ID:            pay.PaymentID,
			BookingID:     b.ID,
			Amount:        pay.Amount,
			Status:        pay.Status,
			TransactionID: pay.TransactionID,
			Method:        pay.Method,
		}
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		var eventID, listingID string
		if b.EventID != nil {
			eventID = *b.EventID
		}
		if b.ListingID != nil {
			listingID = *b.ListingID
		}
		if err := outbox.Append(tx, events.TopicBookingCreated, events.BookingCreated{
			BookingID:   b.ID,
			UserID:      b.UserID,
			EventID:     eventID,
			ListingID:   listingID,
			Seats:       b.Seats,
			TotalAmount: b.TotalAmount,
		}); err != nil {
			return err
		}
		return outbox.Append(tx, events.TopicPaymentSucceeded, events.PaymentSucceeded{
			PaymentID:     pay.PaymentID,
			BookingID:     b.ID,
			Amount:        pay.Amount,
			TransactionID: pay.TransactionID,
		})
	})
}

// FailBooking restores the seats the reserve transaction took and flips the
// booking to payment_failed. No events are staged on this path.
func (s *Store) FailBooking(ctx context.Context, b *domain.Booking) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Booking{}).
			Where("id = ? AND status = ?", b.ID, domain.StatusPending).
			Update("status", domain.StatusPaymentFailed)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.Validation("booking is not pending")
		}
		if b.EventID != nil {
			return tx.Model(&domain.Event{}).Where("id = ?", *b.EventID).
				UpdateColumn("available_seats", gorm.Expr("available_seats + ?", b.Seats)).Error
		}
		return nil
	})
}

func (s *Store) UserBookings(ctx context.Context, userID string) ([]domain.BookingView, error) {
	var out []domain.BookingView
	err := s.db.WithContext(ctx).
		Table("bookings b").
		Select("b.id, b.user_id, b.event_id, b.listing_id, b.seats, b.total_amount, b.status, b.created_at, e.title AS event_title, l.title AS listing_title").
		Joins("LEFT JOIN events e ON b.event_id = e.id").
		Joins("LEFT JOIN listings l ON b.listing_id = l.id").
		Where("b.user_id = ?", userID).
		Order("b.created_at DESC").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
