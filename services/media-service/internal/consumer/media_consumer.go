package consumer

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/you/travel-marketplace/pkg/events"
	"github.com/you/travel-marketplace/pkg/mq"
	"github.com/you/travel-marketplace/services/media-service/internal/domain"
)

type Store interface {
	SaveAsset(ctx context.Context, a *domain.Asset) error
}

// Worker records every uploaded asset as a metadata row.
type Worker struct {
	bus   *mq.Bus
	store Store
}

func NewWorker(bus *mq.Bus, store Store) *Worker {
	return &Worker{bus: bus, store: store}
}

func (w *Worker) Start(ctx context.Context) error {
	if err := mq.Consume(ctx, w.bus, events.TopicMediaUploaded, "media-service-uploads", w.handleUpload); err != nil {
		return err
	}
	log.Println("[media] consuming media.uploaded")
	return nil
}

func (w *Worker) handleUpload(ctx context.Context, p events.MediaUploaded) error {
	return w.store.SaveAsset(ctx, &domain.Asset{
		ID:         uuid.NewString(),
		EntityType: p.EntityType,
		EntityID:   p.EntityID,
		FilePath:   p.FilePath,
		FileType:   p.FileType,
		FileSize:   p.FileSize,
	})
}
