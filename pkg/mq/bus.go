package mq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/you/travel-marketplace/pkg/events"
)

// MaxRedeliver bounds how often a failed delivery is retried before it is
// parked on the dead-letter queue.
const MaxRedeliver = 3

const retryHeader = "x-retry-count"

// ErrNotConnected is returned when Publish or Subscribe is called before a
// successful Connect. That is a programming error, not a transient condition.
var ErrNotConnected = errors.New("mq: not connected")

// Handler processes one delivered message body.
type Handler func(ctx context.Context, body []byte) error

// publisher is the outbound slice of the channel; delivery dispatch publishes
// through it so the retry path is testable without a broker.
type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Bus is a thin wrapper around one connection and one multiplexed channel to a
// durable topic exchange. Failed handler invocations are retried a bounded
// number of times and then routed to the exchange's dead-letter companion.
type Bus struct {
	url      string
	exchange string
	prefetch int

	conn *amqp.Connection
	ch   *amqp.Channel
	pub  publisher
}

func New(url, exchange string) *Bus {
	return &Bus{url: url, exchange: exchange, prefetch: 8}
}

func (b *Bus) dlx() string { return b.exchange + ".dlx" }
func (b *Bus) dlq() string { return b.exchange + ".dlq" }

// Connect dials the broker, opens the channel and declares the topic exchange
// plus its dead-letter companion. Errors propagate; callers abort startup.
func (b *Bus) Connect() error {
	conn, err := amqp.Dial(b.url)
	if err != nil {
		return fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(b.exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("declare exchange: %w", err)
	}
	if err := ch.ExchangeDeclare(b.dlx(), "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("declare dlx: %w", err)
	}
	if _, err := ch.QueueDeclare(b.dlq(), true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("declare dlq: %w", err)
	}
	if err := ch.QueueBind(b.dlq(), "#", b.dlx(), false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("bind dlq: %w", err)
	}
	if err := ch.Qos(b.prefetch, 0, false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("set qos: %w", err)
	}
	b.conn = conn
	b.ch = ch
	b.pub = ch
	return nil
}

// Publish serializes payload to JSON and publishes it persistently under the
// given routing key.
func (b *Bus) Publish(ctx context.Context, topic string, payload any) error {
	if b.pub == nil {
		return ErrNotConnected
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", topic, err)
	}
	return b.pub.PublishWithContext(ctx, b.exchange, topic, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

// Subscribe binds a queue to the topic pattern and invokes h once per
// delivery. A named queue is durable (competing consumers across restarts);
// an empty name declares an exclusive anonymous queue for per-process fan-out.
func (b *Bus) Subscribe(ctx context.Context, topic string, h Handler, queueName string) error {
	if b.ch == nil {
		return ErrNotConnected
	}
	args := amqp.Table{"x-dead-letter-exchange": b.dlx()}
	var (
		q   amqp.Queue
		err error
	)
	if queueName != "" {
		q, err = b.ch.QueueDeclare(queueName, true, false, false, false, args)
	} else {
		q, err = b.ch.QueueDeclare("", false, false, true, false, args)
	}
	if err != nil {
		return fmt.Errorf("declare queue for %s: %w", topic, err)
	}
	if err := b.ch.QueueBind(q.Name, topic, b.exchange, false, nil); err != nil {
		return fmt.Errorf("bind %s to %s: %w", q.Name, topic, err)
	}
	msgs, err := b.ch.ConsumeWithContext(ctx, q.Name, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", q.Name, err)
	}
	log.Printf("[mq] subscribed topic=%s queue=%s", topic, q.Name)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-msgs:
				if !ok {
					return
				}
				b.handleDelivery(ctx, q.Name, h, d)
			}
		}
	}()
	return nil
}

func (b *Bus) handleDelivery(ctx context.Context, queue string, h Handler, d amqp.Delivery) {
	err := h(ctx, d.Body)
	if err == nil {
		_ = d.Ack(false)
		return
	}
	if errors.Is(err, events.ErrBadPayload) {
		// Malformed payloads never heal on retry.
		log.Printf("[mq] dead-lettering malformed message key=%s err=%v", d.RoutingKey, err)
		_ = d.Nack(false, false)
		return
	}
	count := retryCount(d.Headers)
	if count >= MaxRedeliver {
		log.Printf("[mq] dead-lettering key=%s after %d attempts err=%v", d.RoutingKey, count, err)
		_ = d.Nack(false, false)
		return
	}
	// Redeliver to this queue only, via the default exchange, so other
	// subscribers of the topic do not see the message twice.
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Headers:      amqp.Table{retryHeader: count + 1},
		Body:         d.Body,
	}
	if perr := b.pub.PublishWithContext(ctx, "", queue, false, false, msg); perr != nil {
		log.Printf("[mq] redeliver failed key=%s err=%v", d.RoutingKey, perr)
		_ = d.Nack(false, false)
		return
	}
	log.Printf("[mq] handler error key=%s attempt=%d err=%v", d.RoutingKey, count+1, err)
	_ = d.Ack(false)
}

// retryCount tolerates the integer widths the broker round-trips headers in.
func retryCount(h amqp.Table) int {
	switch v := h[retryHeader].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

func (b *Bus) Close() error {
	if b.ch != nil {
		_ = b.ch.Close()
	}
	if b.conn != nil {
		return b.conn.Close()
	}
	return nil
}

// Consume subscribes a typed handler: the payload is decoded and validated at
// the bus boundary, so fn only ever sees a well-formed value.
func Consume[T events.Payload](ctx context.Context, b *Bus, topic, queueName string, fn func(context.Context, T) error) error {
	return b.Subscribe(ctx, topic, func(ctx context.Context, body []byte) error {
		p, err := events.Decode[T](body)
		if err != nil {
			return err
		}
		return fn(ctx, p)
	}, queueName)
}
