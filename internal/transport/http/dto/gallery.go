package dto

import (
	"genstudio/internal/domain/models"
)

type CreateGalleryItemRequest struct {
	Type           string         `json:"type" validate:"required,oneof=image video"`
	Title          string         `json:"title"`
	Prompt         string         `json:"prompt" validate:"required"`
	URL            string         `json:"url" validate:"required"`
	ThumbnailURL   string         `json:"thumbnailUrl"`
	Model          string         `json:"model" validate:"required"`
	AspectRatio    string         `json:"aspectRatio" validate:"required"`
	Duration       *float64       `json:"duration,omitempty" validate:"omitempty,gt=0"`
	Cost           string         `json:"cost"`
	ProcessingTime string         `json:"processingTime"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

// UpdateGalleryItemRequest частичное обновление; id, type и createdAt в теле запроса игнорируются
type UpdateGalleryItemRequest struct {
	Title          *string        `json:"title,omitempty"`
	Prompt         *string        `json:"prompt,omitempty"`
	URL            *string        `json:"url,omitempty"`
	ThumbnailURL   *string        `json:"thumbnailUrl,omitempty"`
	Model          *string        `json:"model,omitempty"`
	AspectRatio    *string        `json:"aspectRatio,omitempty"`
	Duration       *float64       `json:"duration,omitempty" validate:"omitempty,gt=0"`
	Cost           *string        `json:"cost,omitempty"`
	ProcessingTime *string        `json:"processingTime,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

type GalleryListResponse struct {
	Items []models.GalleryItem `json:"items"`
	Total int                  `json:"total"`
	Type  string               `json:"type"`
}

type GalleryStatsResponse struct {
	models.GalleryStats
	TotalCostFormatted string `json:"totalCostFormatted"`
}

// ToDomain преобразует DTO в входные данные каталога
func (r *CreateGalleryItemRequest) ToDomain() models.NewGalleryItem {
	return models.NewGalleryItem{
		Type:           models.MediaType(r.Type),
		Title:          r.Title,
		Prompt:         r.Prompt,
		URL:            r.URL,
		ThumbnailURL:   r.ThumbnailURL,
		Model:          r.Model,
		AspectRatio:    r.AspectRatio,
		Duration:       r.Duration,
		Cost:           r.Cost,
		ProcessingTime: r.ProcessingTime,
		Metadata:       r.Metadata,
	}
}

func (r *UpdateGalleryItemRequest) ToDomain() models.GalleryItemPatch {
	return models.GalleryItemPatch{
		Title:          r.Title,
		Prompt:         r.Prompt,
		URL:            r.URL,
		ThumbnailURL:   r.ThumbnailURL,
		Model:          r.Model,
		AspectRatio:    r.AspectRatio,
		Duration:       r.Duration,
		Cost:           r.Cost,
		ProcessingTime: r.ProcessingTime,
		Metadata:       r.Metadata,
	}
}
