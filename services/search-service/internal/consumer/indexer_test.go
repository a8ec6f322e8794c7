package consumer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/you/travel-marketplace/pkg/events"
)

type fakeEmbedder struct {
	lastText string
	err      error
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.lastText = text
	if f.err != nil {
		return nil, f.err
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func (f *fakeEmbedder) Dimension() int { return 3 }

type upsert struct {
	collection string
	id         string
	vec        []float32
	payload    map[string]any
}

type fakeIndex struct {
	upserts []upsert
}

func (f *fakeIndex) UpsertPoint(_ context.Context, collection, id string, vec []float32, payload map[string]any) error {
	f.upserts = append(f.upserts, upsert{collection, id, vec, payload})
	return nil
}

func TestListingCreatedIndexed(t *testing.T) {
	embed := &fakeEmbedder{}
	idx := &fakeIndex{}
	ix := NewIndexer(nil, embed, idx)

	err := ix.handleListing(context.Background(), events.ListingCreated{
		ListingID:   "L1",
		VendorID:    "V1",
		Title:       "Coastal Walk",
		Description: "A guided walk along the coast",
		Price:       3100,
		Tags:        []string{"Food"},
		Location:    events.Location{"city": "Lisbon"},
	})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	for _, want := range []string{"Coastal Walk", "Food", "Lisbon"} {
		if !strings.Contains(embed.lastText, want) {
			t.Fatalf("embedding text %q missing %q", embed.lastText, want)
		}
	}
	if len(idx.upserts) != 1 {
		t.Fatalf("upserts = %d, want 1", len(idx.upserts))
	}
	up := idx.upserts[0]
	if up.collection != "listings" || up.id != "L1" {
		t.Fatalf("upserted %s/%s", up.collection, up.id)
	}
	if up.payload["entityId"] != "L1" || up.payload["vendorId"] != "V1" || up.payload["price"] != 3100.0 {
		t.Fatalf("payload = %v", up.payload)
	}
	if up.payload["status"] != "published" {
		t.Fatalf("status = %v, want published", up.payload["status"])
	}
}

func TestEventCreatedIndexed(t *testing.T) {
	idx := &fakeIndex{}
	ix := NewIndexer(nil, &fakeEmbedder{}, idx)

	err := ix.handleEvent(context.Background(), events.EventCreated{
		EventID:   "E1",
		AgencyID:  "A1",
		Title:     "Wine Festival",
		StartDate: "2026-09-10T18:00:00Z",
		Price:     500,
	})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	up := idx.upserts[0]
	if up.collection != "events" || up.id != "E1" {
		t.Fatalf("upserted %s/%s", up.collection, up.id)
	}
	if up.payload["agencyId"] != "A1" || up.payload["startDate"] != "2026-09-10T18:00:00Z" {
		t.Fatalf("payload = %v", up.payload)
	}
}

func TestEmbedFailurePropagates(t *testing.T) {
	idx := &fakeIndex{}
	ix := NewIndexer(nil, &fakeEmbedder{err: errors.New("quota exceeded")}, idx)

	err := ix.handleListing(context.Background(), events.ListingCreated{
		ListingID: "L1", VendorID: "V1", Title: "T",
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(idx.upserts) != 0 {
		t.Fatal("point written despite embed failure")
	}
}

func TestEmbeddingCreatedReplayRewritesSamePoint(t *testing.T) {
	idx := &fakeIndex{}
	ix := NewIndexer(nil, &fakeEmbedder{}, idx)

	p := events.EmbeddingCreated{
		EntityType:  "listing",
		EntityID:    "L1",
		EmbeddingID: "emb-1",
		Vector:      []float32{1, 2, 3},
		Metadata:    map[string]any{"title": "Coastal Walk"},
	}
	for i := 0; i < 2; i++ {
		if err := ix.handleEmbedding(context.Background(), p); err != nil {
			t.Fatalf("handle: %v", err)
		}
	}
	if len(idx.upserts) != 2 {
		t.Fatalf("upserts = %d", len(idx.upserts))
	}
	if idx.upserts[0].id != "emb-1" || idx.upserts[1].id != "emb-1" {
		t.Fatal("replay wrote a different point id")
	}
	if idx.upserts[0].collection != "listings" {
		t.Fatalf("collection = %s", idx.upserts[0].collection)
	}
	if idx.upserts[0].payload["entityId"] != "L1" || idx.upserts[0].payload["title"] != "Coastal Walk" {
		t.Fatalf("payload = %v", idx.upserts[0].payload)
	}
}

func TestEmbeddingCreatedEventCollection(t *testing.T) {
	idx := &fakeIndex{}
	ix := NewIndexer(nil, &fakeEmbedder{}, idx)
	err := ix.handleEmbedding(context.Background(), events.EmbeddingCreated{
		EntityType: "event", EntityID: "E1", EmbeddingID: "emb-2", Vector: []float32{1},
	})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if idx.upserts[0].collection != "events" {
		t.Fatalf("collection = %s, want events", idx.upserts[0].collection)
	}
}
