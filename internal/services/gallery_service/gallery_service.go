package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"genstudio/internal/domain/models"
	"genstudio/internal/lib/logger/sl"
	"genstudio/internal/metrics"
	"genstudio/internal/repository"
	"genstudio/internal/storage"
	"genstudio/internal/transport/http/dto"
)

type GalleryService struct {
	log     *slog.Logger
	repo    repository.GalleryRepository
	archive repository.GalleryArchive

	// writeMu упорядочивает изменение галереи и запись в архив:
	// операции над архивом выполняются в том же порядке, что и над галереей
	writeMu sync.Mutex
}

// NewGalleryService archive может быть nil, тогда галерея живет только в памяти
func NewGalleryService(log *slog.Logger, repo repository.GalleryRepository, archive repository.GalleryArchive) *GalleryService {
	return &GalleryService{
		log:     log,
		repo:    repo,
		archive: archive,
	}
}

// CreateItem добавляет результат генерации в галерею
func (s *GalleryService) CreateItem(ctx context.Context, req dto.CreateGalleryItemRequest) (models.GalleryItem, error) {
	const op = "service.GalleryService.CreateItem"
	log := s.log.With(
		slog.String("op", op),
		slog.String("type", req.Type),
		slog.String("model", req.Model),
	)

	log.Info("creating gallery item")

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	item, err := s.repo.Create(req.ToDomain())
	if err != nil {
		log.Warn("gallery item rejected", sl.Err(err))
		return models.GalleryItem{}, fmt.Errorf("%s: %w", op, err)
	}

	metrics.GalleryItemsCreated.WithLabelValues(string(item.Type)).Inc()

	if s.archive != nil {
		if err := s.archive.Save(ctx, item); err != nil {
			log.Error("failed to archive gallery item", sl.Err(err), slog.String("id", item.ID))
		}
	}

	log.Info("gallery item created", slog.String("id", item.ID))
	return item, nil
}

// ListItems возвращает элементы галереи от новых к старым, typeFilter может быть пустым
func (s *GalleryService) ListItems(ctx context.Context, typeFilter string) ([]models.GalleryItem, error) {
	const op = "service.GalleryService.ListItems"
	log := s.log.With(
		slog.String("op", op),
		slog.String("type_filter", typeFilter),
	)

	filter := models.MediaType(typeFilter)
	if filter != "" && !filter.Valid() {
		log.Warn("invalid type filter")
		return nil, fmt.Errorf("%s: %w", op, &models.ValidationError{
			Errors: []string{fmt.Sprintf("invalid type filter '%s'", typeFilter)},
		})
	}

	items := s.repo.List(filter)

	log.Debug("gallery items listed", slog.Int("total", len(items)))
	return items, nil
}

func (s *GalleryService) GetItem(ctx context.Context, id string) (models.GalleryItem, error) {
	const op = "service.GalleryService.GetItem"

	item, ok := s.repo.Get(id)
	if !ok {
		s.log.Debug("gallery item not found", slog.String("op", op), slog.String("id", id))
		return models.GalleryItem{}, fmt.Errorf("%s: %w", op, storage.ErrItemNotFound)
	}

	return item, nil
}

// UpdateItem применяет частичное обновление к элементу галереи
func (s *GalleryService) UpdateItem(ctx context.Context, id string, req dto.UpdateGalleryItemRequest) (models.GalleryItem, error) {
	const op = "service.GalleryService.UpdateItem"
	log := s.log.With(
		slog.String("op", op),
		slog.String("id", id),
	)

	log.Info("updating gallery item")

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	item, found, err := s.repo.Update(id, req.ToDomain())
	if !found {
		log.Info("gallery item not found")
		return models.GalleryItem{}, fmt.Errorf("%s: %w", op, storage.ErrItemNotFound)
	}
	if err != nil {
		log.Warn("gallery item update rejected", sl.Err(err))
		return models.GalleryItem{}, fmt.Errorf("%s: %w", op, err)
	}

	if s.archive != nil {
		if err := s.archive.Save(ctx, item); err != nil {
			log.Error("failed to archive gallery item", sl.Err(err))
		}
	}

	log.Info("gallery item updated")
	return item, nil
}

// DeleteItem удаляет элемент; для неизвестного id возвращает storage.ErrItemNotFound
func (s *GalleryService) DeleteItem(ctx context.Context, id string) error {
	const op = "service.GalleryService.DeleteItem"
	log := s.log.With(
		slog.String("op", op),
		slog.String("id", id),
	)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if !s.repo.Delete(id) {
		log.Info("gallery item not found")
		return fmt.Errorf("%s: %w", op, storage.ErrItemNotFound)
	}

	metrics.GalleryItemsDeleted.Inc()

	if s.archive != nil {
		if err := s.archive.Delete(ctx, id); err != nil {
			log.Error("failed to remove gallery item from archive", sl.Err(err))
		}
	}

	log.Info("gallery item deleted")
	return nil
}

func (s *GalleryService) Stats(ctx context.Context) models.GalleryStats {
	return s.repo.Stats()
}

// Restore загружает галерею из архива при старте
func (s *GalleryService) Restore(ctx context.Context) (int, error) {
	const op = "service.GalleryService.Restore"
	log := s.log.With(slog.String("op", op))

	if s.archive == nil {
		return 0, nil
	}

	items, err := s.archive.LoadAll(ctx)
	if err != nil {
		log.Error("failed to load gallery archive", sl.Err(err))
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	s.writeMu.Lock()
	restored := s.repo.Restore(items)
	s.writeMu.Unlock()

	log.Info("gallery restored from archive", slog.Int("restored", restored))
	return restored, nil
}
