package services

import (
	"strings"

	"genstudio/internal/domain/models"
)

const (
	MaxPromptLength      = 1000
	MaxReferenceImages   = 4
	MinVideoDuration     = 1.0
	MaxVideoDuration     = 30.0
	DefaultVideoDuration = 5.0
	DefaultImageSize     = 1024

	DefaultImageModel       = "flux-pro"
	DefaultVideoModel       = "kling-v2"
	DefaultImageAspectRatio = "1:1"
	DefaultVideoAspectRatio = "16:9"

	fallbackImageProviderModel = "flux-pro/ultra"
)

var ImageAspectRatios = []string{"1:1", "4:3", "16:9", "9:16", "3:4"}

var VideoAspectRatios = []string{"16:9", "9:16", "1:1", "4:3", "3:4"}

var ImageModels = map[string]models.ModelSpec{
	"gpt-image-1": {
		Name:          "gpt-image-1",
		Description:   "Advanced image generation and editing model",
		SupportsModes: []string{"text-to-image", "image-to-image", "image-editing"},
	},
	"flux-pro": {
		Name:          "flux-pro/ultra",
		Description:   "Fast and stable image generation",
		SupportsModes: []string{"text-to-image"},
	},
	"imagen4": {
		Name:          "imagen4",
		Description:   "Latest high quality image generation model",
		SupportsModes: []string{"text-to-image"},
	},
	"recraft-v3": {
		Name:          "recraft-v3",
		Description:   "Realistic image generation",
		SupportsModes: []string{"text-to-image"},
	},
	"ideogram": {
		Name:          "ideogram/V_3",
		Description:   "Character reference specialist with facial consistency",
		SupportsModes: []string{"text-to-image", "character-consistency"},
	},
}

var VideoModels = map[string]models.ModelSpec{
	"kling-v2": {
		Name:         "kling/v2.1/standard",
		Description:  "Advanced video generation, image-to-video support",
		MaxDuration:  10,
		AspectRatios: []string{"16:9", "9:16", "1:1"},
	},
	"gemini-veo2": {
		Name:         "gemini/veo2",
		Description:  "Fast high-quality video generation",
		MaxDuration:  8,
		AspectRatios: []string{"16:9", "9:16"},
	},
	"gemini-veo3": {
		Name:         "gemini/veo3",
		Description:  "Latest video generation with sound support",
		MaxDuration:  8,
		AspectRatios: []string{"16:9", "9:16"},
	},
	"minimax-hailuo": {
		Name:         "minimax/hailuo-02/standard",
		Description:  "High-quality video with first & last frame control",
		MaxDuration:  10,
		AspectRatios: []string{"16:9", "9:16"},
	},
	"hunyuan": {
		Name:         "hunyuan",
		Description:  "High quality video generation",
		MaxDuration:  5,
		AspectRatios: []string{"16:9", "9:16"},
	},
}

// ResolveImageModel возвращает имя модели у провайдера.
// Gemini и неизвестные модели заменяются на flux-pro/ultra.
func ResolveImageModel(model string) string {
	if strings.Contains(model, "gemini") {
		return fallbackImageProviderModel
	}
	if spec, ok := ImageModels[model]; ok {
		return spec.Name
	}

	return fallbackImageProviderModel
}

// ResolveVideoModel для неизвестной модели возвращает параметры kling-v2
func ResolveVideoModel(model string) models.ModelSpec {
	if spec, ok := VideoModels[model]; ok {
		return spec
	}

	return VideoModels[DefaultVideoModel]
}
