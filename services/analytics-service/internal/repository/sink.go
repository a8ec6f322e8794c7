package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	interactionsCollection = "interactions"
	bookingsCollection     = "booking_events"
)

// Sink appends analytics documents. Writes are insert-only; reporting
// queries aggregate over the raw stream.
type Sink struct {
	db *mongo.Database
}

func NewSink(client *mongo.Client, dbName string) *Sink {
	return &Sink{db: client.Database(dbName)}
}

func (s *Sink) AppendInteraction(ctx context.Context, doc map[string]any) error {
	doc["recordedAt"] = time.Now().UTC()
	_, err := s.db.Collection(interactionsCollection).InsertOne(ctx, bson.M(doc))
	return err
}

func (s *Sink) AppendBooking(ctx context.Context, doc map[string]any) error {
	doc["recordedAt"] = time.Now().UTC()
	_, err := s.db.Collection(bookingsCollection).InsertOne(ctx, bson.M(doc))
	return err
}
