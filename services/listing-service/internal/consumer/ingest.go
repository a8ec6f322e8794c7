package consumer

import (
	"context"
	"log"
	"time"

	"github.com/you/travel-marketplace/pkg/events"
	"github.com/you/travel-marketplace/pkg/mq"
)

// DocStore is the partial-update surface over the package documents.
type DocStore interface {
	SetFields(ctx context.Context, listingID string, fields map[string]any) error
	PushImage(ctx context.Context, listingID string, image map[string]any) error
}

// RelStore fills marketing output into the canonical listing row.
type RelStore interface {
	ApplyMarketing(ctx context.Context, listingID, title string, tags []string) error
}

// Ingest consumes the enrichment pipeline's output and folds it into the
// package documents. Each consumer writes only its own fields; a slow
// transcriber never blocks marketing copy from landing.
type Ingest struct {
	bus  *mq.Bus
	docs DocStore
	rel  RelStore
}

func NewIngest(bus *mq.Bus, docs DocStore, rel RelStore) *Ingest {
	return &Ingest{bus: bus, docs: docs, rel: rel}
}

func (ig *Ingest) Start(ctx context.Context) error {
	if err := mq.Consume(ctx, ig.bus, events.TopicTranscriptionCompleted, "listing-service-transcription", ig.handleTranscription); err != nil {
		return err
	}
	if err := mq.Consume(ctx, ig.bus, events.TopicMarketingGenerated, "listing-service-marketing", ig.handleMarketing); err != nil {
		return err
	}
	if err := mq.Consume(ctx, ig.bus, events.TopicImageProcessed, "listing-service-image", ig.handleImage); err != nil {
		return err
	}
	log.Println("[listing] ingest consuming transcription.completed, marketing.generated, image.processed")
	return nil
}

func (ig *Ingest) handleTranscription(ctx context.Context, p events.TranscriptionCompleted) error {
	fields := map[string]any{
		"transcript":    p.Transcript,
		"transcribedAt": time.Now().UTC(),
	}
	if p.Language != "" {
		fields["transcriptLanguage"] = p.Language
	}
	if p.Duration > 0 {
		fields["transcriptDuration"] = p.Duration
	}
	return ig.docs.SetFields(ctx, p.ListingID, fields)
}

func (ig *Ingest) handleMarketing(ctx context.Context, p events.MarketingGenerated) error {
	fields := map[string]any{
		"marketingCopy":     p.MarketingCopy,
		"readyForEmbedding": p.ReadyForEmbedding,
	}
	if p.Title != "" {
		fields["marketingTitle"] = p.Title
	}
	if len(p.Tags) > 0 {
		fields["marketingTags"] = p.Tags
	}
	if err := ig.docs.SetFields(ctx, p.ListingID, fields); err != nil {
		return err
	}
	if p.Title != "" || len(p.Tags) > 0 {
		return ig.rel.ApplyMarketing(ctx, p.ListingID, p.Title, p.Tags)
	}
	return nil
}

func (ig *Ingest) handleImage(ctx context.Context, p events.ImageProcessed) error {
	image := map[string]any{
		"url":         p.ImageURL,
		"processedAt": time.Now().UTC(),
	}
	if p.EnhancedImageURL != "" {
		image["enhancedUrl"] = p.EnhancedImageURL
	}
	for k, v := range p.Metadata {
		image[k] = v
	}
	return ig.docs.PushImage(ctx, p.ListingID, image)
}
