package dto

import "genstudio/internal/domain/models"

type GenerateImageRequest struct {
	Prompt      string   `json:"prompt" validate:"required"`
	Model       string   `json:"model"`
	AspectRatio string   `json:"aspectRatio"`
	ImageURLs   []string `json:"imageUrls"`
	Width       int      `json:"width" validate:"omitempty,min=256,max=2048"`
	Height      int      `json:"height" validate:"omitempty,min=256,max=2048"`
}

type GenerateVideoRequest struct {
	Prompt      string  `json:"prompt" validate:"required"`
	Model       string  `json:"model"`
	Duration    float64 `json:"duration" validate:"omitempty,gte=0"`
	AspectRatio string  `json:"aspectRatio"`
	StartImage  string  `json:"startImage"`
	Narration   string  `json:"narration"`
}

type ImageCatalogResponse struct {
	Models                map[string]models.ModelSpec `json:"models"`
	SupportedAspectRatios []string                    `json:"supportedAspectRatios"`
	MaxPromptLength       int                         `json:"maxPromptLength"`
	MaxReferenceImages    int                         `json:"maxReferenceImages"`
	PricePerMegapixel     float64                     `json:"pricePerMegapixel"`
}

type VideoCatalogResponse struct {
	Models                map[string]models.ModelSpec `json:"models"`
	DefaultDuration       float64                     `json:"defaultDuration"`
	MaxDuration           float64                     `json:"maxDuration"`
	SupportedAspectRatios []string                    `json:"supportedAspectRatios"`
	MaxPromptLength       int                         `json:"maxPromptLength"`
	CostPerSecond         float64                     `json:"costPerSecond"`
}

type ImageEstimateRequest struct {
	Width  int `query:"width" validate:"required,gt=0"`
	Height int `query:"height" validate:"required,gt=0"`
}

type VideoEstimateRequest struct {
	Seconds float64 `query:"seconds"`
}

type ImageEstimateResponse struct {
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Megapixels int     `json:"megapixels"`
	CostUSD    float64 `json:"costUsd"`
	Formatted  string  `json:"formatted"`
}

type VideoEstimateResponse struct {
	Seconds   float64 `json:"seconds"`
	CostUSD   float64 `json:"costUsd"`
	Formatted string  `json:"formatted"`
}
