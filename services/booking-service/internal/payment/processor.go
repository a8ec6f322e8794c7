package payment

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

const StatusSucceeded = "succeeded"

// Result is what a gateway reports back; the payment row itself is inserted
// by the booking store inside the confirm transaction so booking and payment
// stay consistent together.
type Result struct {
	PaymentID     string
	TransactionID string
	Status        string
	Amount        float64
	Method        string
}

// Processor is an external payment gateway. Implementations must be safe to
// retry for the same booking: the idempotency key is derived from the booking
// id.
type Processor interface {
	Process(ctx context.Context, bookingID string, amount float64) (Result, error)
}

// Simulated stands in for a real gateway: bounded random latency, always
// succeeds, unique transaction ids.
type Simulated struct{}

func NewSimulated() *Simulated { return &Simulated{} }

func (s *Simulated) Process(ctx context.Context, bookingID string, amount float64) (Result, error) {
	delay := time.Duration(100+rand.Intn(400)) * time.Millisecond
	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
	return Result{
		PaymentID:     uuid.NewString(),
		TransactionID: fmt.Sprintf("txn_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8]),
		Status:        StatusSucceeded,
		Amount:        amount,
		Method:        "local_simulated",
	}, nil
}

// IdempotencyKey derives the client token a real gateway call is keyed by, so
// a retried Process for the same booking cannot double-charge.
func IdempotencyKey(bookingID string) string {
	return "bk-" + bookingID
}
