package mq

import (
	"context"
	"errors"
	"fmt"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/you/travel-marketplace/pkg/events"
)

type fakeAck struct {
	acks    int
	requeue []bool
}

func (f *fakeAck) Ack(uint64, bool) error { f.acks++; return nil }

func (f *fakeAck) Nack(_ uint64, _ bool, requeue bool) error {
	f.requeue = append(f.requeue, requeue)
	return nil
}

func (f *fakeAck) Reject(_ uint64, requeue bool) error {
	f.requeue = append(f.requeue, requeue)
	return nil
}

type republish struct {
	exchange string
	key      string
	headers  amqp.Table
}

type fakePublisher struct {
	sent []republish
	err  error
}

func (f *fakePublisher) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, republish{exchange: exchange, key: key, headers: msg.Headers})
	return nil
}

func dispatchBus(p publisher) *Bus {
	b := New("amqp://localhost", "test")
	b.pub = p
	return b
}

func delivery(ack *fakeAck, headers amqp.Table) amqp.Delivery {
	return amqp.Delivery{
		Acknowledger: ack,
		Headers:      headers,
		RoutingKey:   "listing.created",
		Body:         []byte(`{}`),
	}
}

func TestDeliverySuccessAcks(t *testing.T) {
	ack := &fakeAck{}
	pub := &fakePublisher{}
	b := dispatchBus(pub)

	b.handleDelivery(context.Background(), "q", func(context.Context, []byte) error { return nil }, delivery(ack, nil))

	if ack.acks != 1 || len(ack.requeue) != 0 {
		t.Fatalf("acks = %d, nacks = %v", ack.acks, ack.requeue)
	}
	if len(pub.sent) != 0 {
		t.Fatalf("republished %d messages on success", len(pub.sent))
	}
}

func TestMalformedPayloadDeadLettersImmediately(t *testing.T) {
	ack := &fakeAck{}
	pub := &fakePublisher{}
	b := dispatchBus(pub)

	h := func(context.Context, []byte) error {
		return fmt.Errorf("decode: %w", events.ErrBadPayload)
	}
	b.handleDelivery(context.Background(), "q", h, delivery(ack, nil))

	if ack.acks != 0 {
		t.Fatal("malformed message was acked")
	}
	if len(ack.requeue) != 1 || ack.requeue[0] {
		t.Fatalf("nacks = %v, want one with requeue=false", ack.requeue)
	}
	if len(pub.sent) != 0 {
		t.Fatal("malformed message was retried")
	}
}

func TestRetryCapDeadLetters(t *testing.T) {
	ack := &fakeAck{}
	pub := &fakePublisher{}
	b := dispatchBus(pub)

	h := func(context.Context, []byte) error { return errors.New("downstream down") }
	b.handleDelivery(context.Background(), "q", h, delivery(ack, amqp.Table{retryHeader: int32(MaxRedeliver)}))

	if len(ack.requeue) != 1 || ack.requeue[0] {
		t.Fatalf("nacks = %v, want one with requeue=false", ack.requeue)
	}
	if len(pub.sent) != 0 {
		t.Fatal("message at the retry cap was republished")
	}
}

func TestTransientErrorRedeliversToOwnQueue(t *testing.T) {
	ack := &fakeAck{}
	pub := &fakePublisher{}
	b := dispatchBus(pub)

	h := func(context.Context, []byte) error { return errors.New("downstream down") }
	b.handleDelivery(context.Background(), "search-service-listing", h, delivery(ack, nil))

	if len(pub.sent) != 1 {
		t.Fatalf("republished %d messages, want 1", len(pub.sent))
	}
	// Default exchange with the queue name as key: only this queue sees the
	// retry, not every subscriber of the topic.
	if pub.sent[0].exchange != "" || pub.sent[0].key != "search-service-listing" {
		t.Fatalf("republished to exchange=%q key=%q", pub.sent[0].exchange, pub.sent[0].key)
	}
	if got := pub.sent[0].headers[retryHeader]; got != 1 {
		t.Fatalf("retry header = %v, want 1", got)
	}
	if ack.acks != 1 || len(ack.requeue) != 0 {
		t.Fatalf("original delivery: acks = %d, nacks = %v", ack.acks, ack.requeue)
	}
}

func TestRedeliverFailureDeadLetters(t *testing.T) {
	ack := &fakeAck{}
	b := dispatchBus(&fakePublisher{err: errors.New("channel closed")})

	h := func(context.Context, []byte) error { return errors.New("downstream down") }
	b.handleDelivery(context.Background(), "q", h, delivery(ack, nil))

	if ack.acks != 0 {
		t.Fatal("delivery acked despite failed republish")
	}
	if len(ack.requeue) != 1 || ack.requeue[0] {
		t.Fatalf("nacks = %v, want one with requeue=false", ack.requeue)
	}
}

func TestPublishBeforeConnect(t *testing.T) {
	b := New("amqp://localhost", "test")
	if err := b.Publish(context.Background(), "listing.created", map[string]string{}); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("err = %v, want ErrNotConnected", err)
	}
}

func TestSubscribeBeforeConnect(t *testing.T) {
	b := New("amqp://localhost", "test")
	err := b.Subscribe(context.Background(), "listing.created", func(context.Context, []byte) error { return nil }, "q")
	if !errors.Is(err, ErrNotConnected) {
		t.Fatalf("err = %v, want ErrNotConnected", err)
	}
}

func TestRetryCountHeaderWidths(t *testing.T) {
	cases := []struct {
		name string
		h    amqp.Table
		want int
	}{
		{"missing", amqp.Table{}, 0},
		{"nil table", nil, 0},
		{"int", amqp.Table{retryHeader: 2}, 2},
		{"int32", amqp.Table{retryHeader: int32(3)}, 3},
		{"int64", amqp.Table{retryHeader: int64(1)}, 1},
		{"float64", amqp.Table{retryHeader: float64(2)}, 2},
		{"garbage", amqp.Table{retryHeader: "two"}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := retryCount(tc.h); got != tc.want {
				t.Fatalf("retryCount = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestDeadLetterNames(t *testing.T) {
	b := New("amqp://localhost", "travel.marketplace")
	if b.dlx() != "travel.marketplace.dlx" {
		t.Fatalf("dlx = %s", b.dlx())
	}
	if b.dlq() != "travel.marketplace.dlq" {
		t.Fatalf("dlq = %s", b.dlq())
	}
}
