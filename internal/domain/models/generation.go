package models

import (
	"errors"
	"time"
)

// ErrUnavailable оборачивают ошибки временно недоступного сервиса
var ErrUnavailable = errors.New("service unavailable")

type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// GenerationJob отражает состояние одной (симулированной) генерации
type GenerationJob struct {
	ID            string     `json:"id"`
	Type          MediaType  `json:"type"`
	Status        JobStatus  `json:"status"`
	Model         string     `json:"model"`
	ProviderModel string     `json:"providerModel"`
	Prompt        string     `json:"prompt"`
	AspectRatio   string     `json:"aspectRatio"`
	Width         int        `json:"width,omitempty"`
	Height        int        `json:"height,omitempty"`
	Duration      float64    `json:"duration,omitempty"`
	ImageURLs     []string   `json:"imageUrls,omitempty"`
	EstimatedCost string     `json:"estimatedCost"`
	EstimatedTime string     `json:"estimatedTime"`
	ItemID        string     `json:"itemId,omitempty"`
	Error         string     `json:"error,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
}

// GenerationResult то, что возвращает генератор по завершении
type GenerationResult struct {
	URL            string
	ProcessingTime time.Duration
	Metadata       Metadata
}

// ModelSpec описание модели генерации из каталога
type ModelSpec struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	SupportsModes []string `json:"supportsModes,omitempty"`
	MaxDuration   float64  `json:"maxDuration,omitempty"`
	AspectRatios  []string `json:"aspectRatios,omitempty"`
}
