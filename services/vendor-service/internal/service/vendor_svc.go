package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/you/travel-marketplace/pkg/errs"
	"github.com/you/travel-marketplace/pkg/events"
	"github.com/you/travel-marketplace/services/vendor-service/internal/domain"
)

type Store interface {
	CreateVendor(ctx context.Context, v *domain.Vendor) error
	GetVendor(ctx context.Context, id string) (*domain.Vendor, error)
	CreateListing(ctx context.Context, l *domain.Listing) error
}

type DocStore interface {
	InsertPackage(ctx context.Context, doc domain.PackageDoc) error
}

type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) error
}

// VendorService owns vendor onboarding and package creation. A package is
// one Postgres listing row plus one rich Mongo document; creation fans out
// listing.created for the search index and media.uploaded per file for the
// ingestion pipeline.
type VendorService struct {
	store Store
	docs  DocStore
	pub   Publisher
}

func New(store Store, docs DocStore, pub Publisher) *VendorService {
	return &VendorService{store: store, docs: docs, pub: pub}
}

type CreateVendorInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (s *VendorService) CreateVendor(ctx context.Context, in CreateVendorInput) (*domain.Vendor, error) {
	if in.Name == "" || in.Email == "" {
		return nil, errs.Validation("name and email are required")
	}
	v := &domain.Vendor{
		ID:    uuid.NewString(),
		Name:  in.Name,
		Email: in.Email,
		Phone: in.Phone,
	}
	if err := s.store.CreateVendor(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

type CreatePackageInput struct {
	VendorID    string             `json:"vendorId"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Price       float64            `json:"price"`
	Tags        []string           `json:"tags"`
	Location    map[string]any     `json:"location"`
	Files       []domain.MediaFile `json:"files"`
}

func (s *VendorService) CreatePackage(ctx context.Context, in CreatePackageInput) (*domain.Listing, error) {
	if in.VendorID == "" || in.Title == "" {
		return nil, errs.Validation("vendorId and title are required")
	}
	if in.Price <= 0 {
		return nil, errs.Validation("price must be greater than zero")
	}
	if _, err := s.store.GetVendor(ctx, in.VendorID); err != nil {
		return nil, err
	}

	var loc datatypes.JSON
	if in.Location != nil {
		raw, err := json.Marshal(in.Location)
		if err != nil {
			return nil, errs.Validation("location is not serializable")
		}
		loc = datatypes.JSON(raw)
	}

	l := &domain.Listing{
		ID:          uuid.NewString(),
		VendorID:    in.VendorID,
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		Tags:        in.Tags,
		Location:    loc,
		Status:      domain.StatusPublished,
	}
	if err := s.store.CreateListing(ctx, l); err != nil {
		return nil, err
	}

	doc := domain.PackageDoc{
		ListingID:   l.ID,
		VendorID:    l.VendorID,
		Title:       l.Title,
		Description: l.Description,
		Price:       l.Price,
		Tags:        in.Tags,
		Location:    in.Location,
		Files:       in.Files,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.docs.InsertPackage(ctx, doc); err != nil {
		return nil, err
	}

	// The listing exists either way; a publish failure is logged so the
	// index can be backfilled, not surfaced to the vendor.
	created := events.ListingCreated{
		ListingID:   l.ID,
		VendorID:    l.VendorID,
		Title:       l.Title,
		Description: l.Description,
		Price:       l.Price,
		Location:    events.Location(in.Location),
		Tags:        in.Tags,
	}
	if err := s.pub.Publish(ctx, events.TopicListingCreated, created); err != nil {
		log.Printf("[vendor] publish listing.created for %s failed: %v", l.ID, err)
	}
	for _, f := range in.Files {
		up := events.MediaUploaded{
			EntityType: "listing",
			EntityID:   l.ID,
			FilePath:   f.Path,
			FileType:   f.Type,
			FileSize:   f.Size,
		}
		if err := s.pub.Publish(ctx, events.TopicMediaUploaded, up); err != nil {
			log.Printf("[vendor] publish media.uploaded for %s failed: %v", f.Path, err)
		}
	}
	return l, nil
}
