package payment

import (
	"context"
	"strings"
	"testing"
)

func TestSimulatedAlwaysSucceeds(t *testing.T) {
	p := NewSimulated()
	res, err := p.Process(context.Background(), "bk-1", 600)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if res.Status != StatusSucceeded {
		t.Fatalf("status = %s, want %s", res.Status, StatusSucceeded)
	}
	if res.Amount != 600 {
		t.Fatalf("amount = %v, want 600", res.Amount)
	}
	if !strings.HasPrefix(res.TransactionID, "txn_") {
		t.Fatalf("transaction id %q lacks txn_ prefix", res.TransactionID)
	}
	if res.PaymentID == "" {
		t.Fatal("payment id empty")
	}
}

func TestSimulatedTransactionIDsUnique(t *testing.T) {
	p := NewSimulated()
	a, _ := p.Process(context.Background(), "bk-1", 10)
	b, _ := p.Process(context.Background(), "bk-2", 10)
	if a.TransactionID == b.TransactionID {
		t.Fatalf("duplicate transaction id %q", a.TransactionID)
	}
}

func TestIdempotencyKeyDerivedFromBooking(t *testing.T) {
	if IdempotencyKey("abc") != "bk-abc" {
		t.Fatalf("unexpected key %q", IdempotencyKey("abc"))
	}
	if IdempotencyKey("abc") != IdempotencyKey("abc") {
		t.Fatal("key not stable")
	}
}
