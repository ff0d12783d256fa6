package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type MediaType string

type Metadata map[string]interface{}

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

var ErrValidation = errors.New("validation failed")

func (t MediaType) Valid() bool {
	return t == MediaTypeImage || t == MediaTypeVideo
}

// GalleryItem представляет результат генерации в галерее
type GalleryItem struct {
	ID             string    `json:"id"`                       // Уникальный идентификатор, не переиспользуется
	Type           MediaType `json:"type"`                     // image или video
	Title          string    `json:"title"`                    // Заголовок
	Prompt         string    `json:"prompt"`                   // Запрос, по которому шла генерация
	URL            string    `json:"url"`                      // Адрес сгенерированного файла
	ThumbnailURL   string    `json:"thumbnailUrl,omitempty"`   // Превью
	Model          string    `json:"model"`                    // Модель генерации
	AspectRatio    string    `json:"aspectRatio"`              // Соотношение сторон, например "16:9"
	Duration       *float64  `json:"duration,omitempty"`       // Длительность в секундах, только для видео
	Cost           string    `json:"cost"`                     // Стоимость в виде строки, например "$0.025"
	ProcessingTime string    `json:"processingTime,omitempty"` // Время обработки, например "45s"
	CreatedAt      time.Time `json:"createdAt"`                // Дата создания
	Metadata       Metadata  `json:"metadata,omitempty"`       // Дополнительные данные
}

// NewGalleryItem входные данные для создания элемента галереи
type NewGalleryItem struct {
	Type           MediaType
	Title          string
	Prompt         string
	URL            string
	ThumbnailURL   string
	Model          string
	AspectRatio    string
	Duration       *float64
	Cost           string
	ProcessingTime string
	Metadata       Metadata
}

// GalleryItemPatch частичное обновление: применяются только заданные (не nil) поля.
// ID, тип и дата создания здесь отсутствуют намеренно.
type GalleryItemPatch struct {
	Title          *string
	Prompt         *string
	URL            *string
	ThumbnailURL   *string
	Model          *string
	AspectRatio    *string
	Duration       *float64
	Cost           *string
	ProcessingTime *string
	Metadata       Metadata
}

// GalleryStats агрегированная статистика по галерее
type GalleryStats struct {
	Total        int          `json:"total"`
	ImageCount   int          `json:"images"`
	VideoCount   int          `json:"videos"`
	TotalCostUSD float64      `json:"totalCost"`
	LatestItem   *GalleryItem `json:"latestItem"`
}

// Validate проверяет обязательные поля нового элемента
func (n NewGalleryItem) Validate() error {
	var fields []string

	if !n.Type.Valid() {
		fields = append(fields, fmt.Sprintf("type must be one of: %s, %s", MediaTypeImage, MediaTypeVideo))
	}
	if strings.TrimSpace(n.Prompt) == "" {
		fields = append(fields, "prompt is required")
	}
	if strings.TrimSpace(n.URL) == "" {
		fields = append(fields, "url is required")
	}
	if strings.TrimSpace(n.Model) == "" {
		fields = append(fields, "model is required")
	}
	if strings.TrimSpace(n.AspectRatio) == "" {
		fields = append(fields, "aspectRatio is required")
	}
	fields = append(fields, validateDuration(n.Type, n.Duration)...)

	if len(fields) > 0 {
		return &ValidationError{Errors: fields}
	}

	return nil
}

// Validate проверяет, что патч не обнуляет обязательные поля элемента заданного типа
func (p GalleryItemPatch) Validate(t MediaType) error {
	var fields []string

	blank := func(v *string) bool {
		return v != nil && strings.TrimSpace(*v) == ""
	}

	if blank(p.Prompt) {
		fields = append(fields, "prompt must not be empty")
	}
	if blank(p.URL) {
		fields = append(fields, "url must not be empty")
	}
	if blank(p.Model) {
		fields = append(fields, "model must not be empty")
	}
	if blank(p.AspectRatio) {
		fields = append(fields, "aspectRatio must not be empty")
	}
	fields = append(fields, validateDuration(t, p.Duration)...)

	if len(fields) > 0 {
		return &ValidationError{Errors: fields}
	}

	return nil
}

// Apply накладывает патч на копию элемента
func (p GalleryItemPatch) Apply(item GalleryItem) GalleryItem {
	if p.Title != nil {
		item.Title = *p.Title
	}
	if p.Prompt != nil {
		item.Prompt = *p.Prompt
	}
	if p.URL != nil {
		item.URL = *p.URL
	}
	if p.ThumbnailURL != nil {
		item.ThumbnailURL = *p.ThumbnailURL
	}
	if p.Model != nil {
		item.Model = *p.Model
	}
	if p.AspectRatio != nil {
		item.AspectRatio = *p.AspectRatio
	}
	if p.Duration != nil {
		d := *p.Duration
		item.Duration = &d
	}
	if p.Cost != nil {
		item.Cost = *p.Cost
	}
	if p.ProcessingTime != nil {
		item.ProcessingTime = *p.ProcessingTime
	}
	if p.Metadata != nil {
		item.Metadata = p.Metadata.Clone()
	}

	return item
}

// Clone возвращает независимую копию элемента
func (i GalleryItem) Clone() GalleryItem {
	if i.Duration != nil {
		d := *i.Duration
		i.Duration = &d
	}
	i.Metadata = i.Metadata.Clone()

	return i
}

// Clone копирует метаданные вместе с вложенными картами и срезами,
// которые появляются при разборе JSON
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}

	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}

	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case Metadata:
		return val.Clone()
	case map[string]any:
		if val == nil {
			return val
		}
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = cloneValue(item)
		}
		return out
	case []any:
		if val == nil {
			return val
		}
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case []map[string]any:
		if val == nil {
			return val
		}
		out := make([]map[string]any, len(val))
		for i, item := range val {
			out[i], _ = cloneValue(item).(map[string]any)
		}
		return out
	case []string:
		if val == nil {
			return val
		}
		out := make([]string, len(val))
		copy(out, val)
		return out
	case []int:
		if val == nil {
			return val
		}
		out := make([]int, len(val))
		copy(out, val)
		return out
	case []float64:
		if val == nil {
			return val
		}
		out := make([]float64, len(val))
		copy(out, val)
		return out
	default:
		return v
	}
}

func validateDuration(t MediaType, d *float64) []string {
	if d == nil {
		return nil
	}

	var fields []string
	if t != MediaTypeVideo {
		fields = append(fields, "duration is only allowed for videos")
	}
	if !(*d > 0) {
		fields = append(fields, "duration must be positive")
	}

	return fields
}

// ValidationError перечисляет все поля, не прошедшие проверку
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("gallery item validation failed: %s", strings.Join(e.Errors, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// IsValidationError проверяет, является ли ошибка ошибкой валидации
func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}
