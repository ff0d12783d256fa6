package repository

import (
	"context"

	"genstudio/internal/domain/models"
)

type GalleryRepository interface {
	Create(input models.NewGalleryItem) (models.GalleryItem, error)
	List(filter models.MediaType) []models.GalleryItem
	Get(id string) (models.GalleryItem, bool)
	Update(id string, patch models.GalleryItemPatch) (models.GalleryItem, bool, error)
	Delete(id string) bool
	Stats() models.GalleryStats
	Restore(items []models.GalleryItem) int
}

// GalleryArchive опциональное долговременное хранилище элементов галереи
type GalleryArchive interface {
	Save(ctx context.Context, item models.GalleryItem) error
	Delete(ctx context.Context, id string) error
	LoadAll(ctx context.Context) ([]models.GalleryItem, error)
}

type JobRepository interface {
	Save(job models.GenerationJob)
	Get(id string) (models.GenerationJob, bool)
	Count() int
}
