package notifier

import (
	"context"
	"log"
)

// Message is one outbound user notification.
type Message struct {
	Recipient string
	Subject   string
	Body      string
}

type Notifier interface {
	Send(ctx context.Context, m Message) error
}

// WhatsApp is a stand-in for the business messaging integration. It logs
// the delivery; the real provider slots in behind the same interface.
type WhatsApp struct{}

func NewWhatsApp() *WhatsApp { return &WhatsApp{} }

func (*WhatsApp) Send(_ context.Context, m Message) error {
	log.Printf("[notification] whatsapp to user=%s subject=%q", m.Recipient, m.Subject)
	return nil
}

// SMS is the fallback channel used when the primary channel rejects a
// delivery.
type SMS struct{}

func NewSMS() *SMS { return &SMS{} }

func (*SMS) Send(_ context.Context, m Message) error {
	log.Printf("[notification] sms to user=%s subject=%q", m.Recipient, m.Subject)
	return nil
}

// WithFallback tries primary first and falls back on error. Both failing
// is a delivery failure and propagates.
type WithFallback struct {
	Primary  Notifier
	Fallback Notifier
}

func (n *WithFallback) Send(ctx context.Context, m Message) error {
	err := n.Primary.Send(ctx, m)
	if err == nil {
		return nil
	}
	log.Printf("[notification] primary channel failed for user=%s, falling back: %v", m.Recipient, err)
	return n.Fallback.Send(ctx, m)
}
