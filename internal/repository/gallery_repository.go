package repository

import (
	"fmt"
	"net/url"
	"path"
	"slices"
	"strings"
	"sync"
	"time"

	"genstudio/internal/domain/models"
	"genstudio/internal/lib/pricing"

	"github.com/google/uuid"
)

const (
	titleTimeLayout = "2006-01-02 15:04:05"
	thumbnailSuffix = "_thumb.jpg"
)

// IDGenerator выдает идентификатор для нового элемента
type IDGenerator func(t models.MediaType, now time.Time) string

type GalleryOption func(*GalleryRepo)

// WithClock подменяет источник времени (для тестов)
func WithClock(now func() time.Time) GalleryOption {
	return func(r *GalleryRepo) {
		r.now = now
	}
}

func WithIDGenerator(gen IDGenerator) GalleryOption {
	return func(r *GalleryRepo) {
		r.newID = gen
	}
}

// GalleryRepo хранит галерею в памяти процесса.
// Элементы лежат в порядке добавления (последний самый новый), наружу отдаются от новых к старым.
// Все операции выполняются под одним мьютексом.
type GalleryRepo struct {
	mu     sync.RWMutex
	items  []models.GalleryItem
	issued map[string]struct{}
	now    func() time.Time
	newID  IDGenerator
}

func NewGalleryRepo(opts ...GalleryOption) *GalleryRepo {
	r := &GalleryRepo{
		issued: make(map[string]struct{}),
		now:    time.Now,
		newID:  DefaultID,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// DefaultID формирует id вида "<type>_<unix ms>_<uuid без дефисов>"
func DefaultID(t models.MediaType, now time.Time) string {
	return fmt.Sprintf("%s_%d_%s", t, now.UnixMilli(), strings.ReplaceAll(uuid.NewString(), "-", ""))
}

// Create проверяет входные данные, заполняет значения по умолчанию и добавляет элемент в начало галереи
func (r *GalleryRepo) Create(input models.NewGalleryItem) (models.GalleryItem, error) {
	const op = "repository.GalleryRepo.Create"

	if err := input.Validate(); err != nil {
		return models.GalleryItem{}, fmt.Errorf("%s: %w", op, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()

	item := models.GalleryItem{
		ID:             r.uniqueID(input.Type, now),
		Type:           input.Type,
		Title:          input.Title,
		Prompt:         input.Prompt,
		URL:            input.URL,
		ThumbnailURL:   input.ThumbnailURL,
		Model:          input.Model,
		AspectRatio:    input.AspectRatio,
		Cost:           input.Cost,
		ProcessingTime: input.ProcessingTime,
		CreatedAt:      now,
		Metadata:       input.Metadata.Clone(),
	}

	if input.Duration != nil {
		d := *input.Duration
		item.Duration = &d
	}
	if item.Title == "" {
		item.Title = defaultTitle(input.Type, now)
	}
	if item.ThumbnailURL == "" {
		item.ThumbnailURL = defaultThumbnail(input.Type, input.URL)
	}

	r.items = append(r.items, item)

	return item.Clone(), nil
}

// List возвращает копию элементов, при непустом filter только указанного типа
func (r *GalleryRepo) List(filter models.MediaType) []models.GalleryItem {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.GalleryItem, 0, len(r.items))
	for i := len(r.items) - 1; i >= 0; i-- {
		if filter != "" && r.items[i].Type != filter {
			continue
		}
		out = append(out, r.items[i].Clone())
	}

	return out
}

func (r *GalleryRepo) Get(id string) (models.GalleryItem, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return models.GalleryItem{}, false
	}

	return r.items[idx].Clone(), true
}

// Update применяет частичное обновление. ID, тип и дата создания всегда сохраняются.
func (r *GalleryRepo) Update(id string, patch models.GalleryItemPatch) (models.GalleryItem, bool, error) {
	const op = "repository.GalleryRepo.Update"

	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return models.GalleryItem{}, false, nil
	}

	current := r.items[idx]
	if err := patch.Validate(current.Type); err != nil {
		return models.GalleryItem{}, true, fmt.Errorf("%s: %w", op, err)
	}

	updated := patch.Apply(current)
	updated.ID = current.ID
	updated.Type = current.Type
	updated.CreatedAt = current.CreatedAt

	r.items[idx] = updated

	return updated.Clone(), true, nil
}

func (r *GalleryRepo) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return false
	}

	r.items = append(r.items[:idx], r.items[idx+1:]...)

	return true
}

// Stats считает агрегаты; стоимость, которую не удалось разобрать, считается нулевой
func (r *GalleryRepo) Stats() models.GalleryStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := models.GalleryStats{Total: len(r.items)}

	for _, item := range r.items {
		switch item.Type {
		case models.MediaTypeImage:
			stats.ImageCount++
		case models.MediaTypeVideo:
			stats.VideoCount++
		}
		stats.TotalCostUSD += pricing.ParseUSD(item.Cost)
	}

	if len(r.items) > 0 {
		latest := r.items[len(r.items)-1].Clone()
		stats.LatestItem = &latest
	}

	return stats
}

// Restore загружает ранее сохраненные элементы (ожидается порядок от новых к старым).
// Они считаются старше уже имеющихся. Элементы с уже известным или пустым id пропускаются.
// Возвращает число добавленных.
func (r *GalleryRepo) Restore(items []models.GalleryItem) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	restored := make([]models.GalleryItem, 0, len(items)+len(r.items))
	for _, item := range items {
		if item.ID == "" || !item.Type.Valid() {
			continue
		}
		if _, ok := r.issued[item.ID]; ok {
			continue
		}
		r.issued[item.ID] = struct{}{}
		restored = append(restored, item.Clone())
	}
	slices.Reverse(restored)

	n := len(restored)
	r.items = append(restored, r.items...)

	return n
}

// uniqueID гарантирует, что id никогда не выдается повторно, даже после удаления
func (r *GalleryRepo) uniqueID(t models.MediaType, now time.Time) string {
	id := r.newID(t, now)
	for attempt := 1; ; attempt++ {
		if _, ok := r.issued[id]; !ok && id != "" {
			break
		}
		id = fmt.Sprintf("%s_%d", r.newID(t, now), attempt)
	}

	r.issued[id] = struct{}{}

	return id
}

func (r *GalleryRepo) indexOf(id string) int {
	for i := len(r.items) - 1; i >= 0; i-- {
		if r.items[i].ID == id {
			return i
		}
	}

	return -1
}

func defaultTitle(t models.MediaType, now time.Time) string {
	label := "Generated Image"
	if t == models.MediaTypeVideo {
		label = "Generated Video"
	}

	return fmt.Sprintf("%s - %s", label, now.Format(titleTimeLayout))
}

// defaultThumbnail для изображения возвращает сам url, для видео меняет расширение
// последнего сегмента пути на "_thumb.jpg". Query и fragment сохраняются.
func defaultThumbnail(t models.MediaType, raw string) string {
	if t == models.MediaTypeImage {
		return raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	p := u.Path
	if p == "" || strings.HasSuffix(p, "/") {
		return raw
	}

	u.Path = strings.TrimSuffix(p, path.Ext(path.Base(p))) + thumbnailSuffix
	u.RawPath = ""

	return u.String()
}
