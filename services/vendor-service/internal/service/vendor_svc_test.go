package service

import (
	"context"
	"testing"

	"github.com/you/travel-marketplace/pkg/errs"
	"github.com/you/travel-marketplace/pkg/events"
	"github.com/you/travel-marketplace/services/vendor-service/internal/domain"
)

type fakeStore struct {
	vendors  map[string]*domain.Vendor
	listings []*domain.Listing
}

func newFakeStore() *fakeStore {
	return &fakeStore{vendors: map[string]*domain.Vendor{}}
}

func (f *fakeStore) CreateVendor(_ context.Context, v *domain.Vendor) error {
	f.vendors[v.ID] = v
	return nil
}

func (f *fakeStore) GetVendor(_ context.Context, id string) (*domain.Vendor, error) {
	v, ok := f.vendors[id]
	if !ok {
		return nil, errs.NotFound("Vendor")
	}
	return v, nil
}

func (f *fakeStore) CreateListing(_ context.Context, l *domain.Listing) error {
	f.listings = append(f.listings, l)
	return nil
}

type fakeDocs struct {
	docs []domain.PackageDoc
}

func (f *fakeDocs) InsertPackage(_ context.Context, doc domain.PackageDoc) error {
	f.docs = append(f.docs, doc)
	return nil
}

type published struct {
	topic   string
	payload any
}

type fakePub struct {
	msgs []published
}

func (f *fakePub) Publish(_ context.Context, topic string, payload any) error {
	f.msgs = append(f.msgs, published{topic, payload})
	return nil
}

func seedVendor(store *fakeStore) string {
	v := &domain.Vendor{ID: "V1", Name: "Sunway Tours", Email: "hello@sunway.example"}
	store.vendors[v.ID] = v
	return v.ID
}

func TestCreateVendorValidation(t *testing.T) {
	svc := New(newFakeStore(), &fakeDocs{}, &fakePub{})
	if _, err := svc.CreateVendor(context.Background(), CreateVendorInput{Name: "x"}); !errs.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreatePackageWritesBothStoresAndPublishes(t *testing.T) {
	store := newFakeStore()
	docs := &fakeDocs{}
	pub := &fakePub{}
	svc := New(store, docs, pub)
	vendorID := seedVendor(store)

	l, err := svc.CreatePackage(context.Background(), CreatePackageInput{
		VendorID:    vendorID,
		Title:       "Coastal Walk",
		Description: "A guided walk along the coast",
		Price:       3100,
		Tags:        []string{"Food"},
		Location:    map[string]any{"city": "Lisbon"},
		Files: []domain.MediaFile{
			{Path: "uploads/walk.mp4", Type: "video/mp4", Size: 1024},
			{Path: "uploads/walk.jpg", Type: "image/jpeg", Size: 256},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if l.Status != domain.StatusPublished {
		t.Fatalf("status = %s, want published", l.Status)
	}
	if len(store.listings) != 1 || store.listings[0].ID != l.ID {
		t.Fatalf("listing row not written")
	}
	if len(docs.docs) != 1 || docs.docs[0].ListingID != l.ID || len(docs.docs[0].Files) != 2 {
		t.Fatalf("package doc = %+v", docs.docs)
	}

	// One listing.created plus one media.uploaded per file.
	if len(pub.msgs) != 3 {
		t.Fatalf("published %d events, want 3", len(pub.msgs))
	}
	if pub.msgs[0].topic != events.TopicListingCreated {
		t.Fatalf("first topic = %s", pub.msgs[0].topic)
	}
	lc := pub.msgs[0].payload.(events.ListingCreated)
	if lc.ListingID != l.ID || lc.VendorID != vendorID || lc.Price != 3100 || lc.Location.City() != "Lisbon" {
		t.Fatalf("listing.created = %+v", lc)
	}
	for i, path := range []string{"uploads/walk.mp4", "uploads/walk.jpg"} {
		msg := pub.msgs[i+1]
		if msg.topic != events.TopicMediaUploaded {
			t.Fatalf("topic %d = %s", i+1, msg.topic)
		}
		mu := msg.payload.(events.MediaUploaded)
		if mu.EntityID != l.ID || mu.FilePath != path || mu.EntityType != "listing" {
			t.Fatalf("media.uploaded %d = %+v", i, mu)
		}
	}
}

func TestCreatePackageUnknownVendor(t *testing.T) {
	svc := New(newFakeStore(), &fakeDocs{}, &fakePub{})
	_, err := svc.CreatePackage(context.Background(), CreatePackageInput{
		VendorID: "missing", Title: "T", Price: 10,
	})
	if !errs.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreatePackageValidation(t *testing.T) {
	store := newFakeStore()
	svc := New(store, &fakeDocs{}, &fakePub{})
	vendorID := seedVendor(store)
	cases := []CreatePackageInput{
		{Title: "T", Price: 10},
		{VendorID: vendorID, Price: 10},
		{VendorID: vendorID, Title: "T"},
		{VendorID: vendorID, Title: "T", Price: -5},
	}
	for i, in := range cases {
		if _, err := svc.CreatePackage(context.Background(), in); !errs.IsValidation(err) {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
}
