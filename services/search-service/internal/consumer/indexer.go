package consumer

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/you/travel-marketplace/pkg/events"
	"github.com/you/travel-marketplace/pkg/mq"
	"github.com/you/travel-marketplace/services/search-service/internal/service"
	"github.com/you/travel-marketplace/services/search-service/internal/vector"
)

// Index is the write side of the vector store used by the consumers.
type Index interface {
	UpsertPoint(ctx context.Context, collection, id string, vec []float32, payload map[string]any) error
}

// Indexer keeps the vector store in sync with the catalog. It embeds new
// listings and events on creation and applies precomputed embeddings from
// the ingestion pipeline. Handler errors propagate to the bus, which
// retries and eventually dead-letters.
type Indexer struct {
	bus   *mq.Bus
	embed vector.Embedder
	index Index
}

func NewIndexer(bus *mq.Bus, embed vector.Embedder, index Index) *Indexer {
	return &Indexer{bus: bus, embed: embed, index: index}
}

func (ix *Indexer) Start(ctx context.Context) error {
	if err := mq.Consume(ctx, ix.bus, events.TopicListingCreated, "search-service-listing", ix.handleListing); err != nil {
		return err
	}
	if err := mq.Consume(ctx, ix.bus, events.TopicEventCreated, "search-service-event", ix.handleEvent); err != nil {
		return err
	}
	if err := mq.Consume(ctx, ix.bus, events.TopicEmbeddingCreated, "search-service-embedding", ix.handleEmbedding); err != nil {
		return err
	}
	log.Println("[search] indexer consuming listing.created, event.created, embedding.created")
	return nil
}

func (ix *Indexer) handleListing(ctx context.Context, p events.ListingCreated) error {
	text := searchText(p.Title, p.Description, p.Tags, p.Location)
	vec, err := ix.embed.Embed(ctx, text)
	if err != nil {
		return fmt.Errorf("embed listing %s: %w", p.ListingID, err)
	}
	payload := map[string]any{
		"entityId": p.ListingID,
		"vendorId": p.VendorID,
		"title":    p.Title,
		"price":    p.Price,
		"tags":     p.Tags,
		"status":   "published",
	}
	return ix.index.UpsertPoint(ctx, service.CollectionListings, p.ListingID, vec, payload)
}

func (ix *Indexer) handleEvent(ctx context.Context, p events.EventCreated) error {
	text := searchText(p.Title, p.Description, p.Tags, p.Location)
	vec, err := ix.embed.Embed(ctx, text)
	if err != nil {
		return fmt.Errorf("embed event %s: %w", p.EventID, err)
	}
	payload := map[string]any{
		"entityId":  p.EventID,
		"agencyId":  p.AgencyID,
		"title":     p.Title,
		"price":     p.Price,
		"tags":      p.Tags,
		"startDate": p.StartDate,
	}
	return ix.index.UpsertPoint(ctx, service.CollectionEvents, p.EventID, vec, payload)
}

// handleEmbedding applies a vector computed upstream. The point id is the
// embedding id, so replaying the same event rewrites the same point.
func (ix *Indexer) handleEmbedding(ctx context.Context, p events.EmbeddingCreated) error {
	collection := service.CollectionListings
	if p.EntityType == "event" {
		collection = service.CollectionEvents
	}
	payload := map[string]any{
		"entityId":   p.EntityID,
		"entityType": p.EntityType,
	}
	for k, v := range p.Metadata {
		payload[k] = v
	}
	return ix.index.UpsertPoint(ctx, collection, p.EmbeddingID, p.Vector, payload)
}

// searchText builds the embedding input from the fields travelers search by.
func searchText(title, description string, tags []string, loc events.Location) string {
	parts := []string{title, description}
	if len(tags) > 0 {
		parts = append(parts, strings.Join(tags, " "))
	}
	if city := loc.City(); city != "" {
		parts = append(parts, city)
	}
	if country := loc.Country(); country != "" {
		parts = append(parts, country)
	}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}
