package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const packagesCollection = "packages"

// Docs applies partial updates to the rich package documents. Updates are
// field-scoped so concurrent enrichers never clobber each other's work.
type Docs struct {
	col *mongo.Collection
}

func NewDocs(client *mongo.Client, dbName string) *Docs {
	return &Docs{col: client.Database(dbName).Collection(packagesCollection)}
}

func (d *Docs) SetFields(ctx context.Context, listingID string, fields map[string]any) error {
	_, err := d.col.UpdateOne(ctx,
		bson.M{"listingId": listingID},
		bson.M{"$set": bson.M(fields)},
	)
	return err
}

func (d *Docs) PushImage(ctx context.Context, listingID string, image map[string]any) error {
	_, err := d.col.UpdateOne(ctx,
		bson.M{"listingId": listingID},
		bson.M{"$push": bson.M{"images": bson.M(image)}},
	)
	return err
}
