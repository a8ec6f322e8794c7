package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/you/travel-marketplace/services/vendor-service/internal/domain"
)

const packagesCollection = "packages"

// PackageDocs stores the rich package documents in Mongo.
type PackageDocs struct {
	col *mongo.Collection
}

func NewPackageDocs(client *mongo.Client, dbName string) *PackageDocs {
	return &PackageDocs{col: client.Database(dbName).Collection(packagesCollection)}
}

func (p *PackageDocs) InsertPackage(ctx context.Context, doc domain.PackageDoc) error {
	_, err := p.col.InsertOne(ctx, doc)
	return err
}
