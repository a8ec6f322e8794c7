package payment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/omise/omise-go"
	"github.com/omise/omise-go/operations"
)

// OmiseGateway charges through Omise. It is the real-gateway swap-in for the
// simulated processor; the confirm/compensate split in the booking service
// means this network call never runs while a seat lock is held.
type OmiseGateway struct {
	omc      *omise.Client
	currency string
}

func NewOmiseGateway(publicKey, secretKey, currency string) (*OmiseGateway, error) {
	omc, err := omise.NewClient(publicKey, secretKey)
	if err != nil {
		return nil, fmt.Errorf("omise client: %w", err)
	}
	if currency == "" {
		currency = "thb"
	}
	return &OmiseGateway{omc: omc, currency: currency}, nil
}

func (g *OmiseGateway) Process(ctx context.Context, bookingID string, amount float64) (Result, error) {
	ch := &omise.Charge{}
	req := &operations.CreateCharge{
		Amount:   int64(amount * 100), // smallest currency unit
		Currency: g.currency,
		Metadata: map[string]any{
			"booking_id":      bookingID,
			"idempotency_key": IdempotencyKey(bookingID),
		},
	}
	if err := g.omc.Do(ch, req); err != nil {
		return Result{}, fmt.Errorf("create charge for booking %s: %w", bookingID, err)
	}
	status := "failed"
	if string(ch.Status) == "successful" {
		status = StatusSucceeded
	}
	return Result{
		PaymentID:     uuid.NewString(),
		TransactionID: ch.ID,
		Status:        status,
		Amount:        amount,
		Method:        "omise",
	}, nil
}
