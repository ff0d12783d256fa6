package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"genstudio/internal/domain/models"
)

// SimulatedGenerator имитирует внешний сервис генерации: ждет заданное время
// и возвращает ссылку-заглушку на результат.
type SimulatedGenerator struct {
	ImageDelay time.Duration
	VideoDelay time.Duration
	BaseURL    string
}

func NewSimulatedGenerator(imageDelay, videoDelay time.Duration, baseURL string) *SimulatedGenerator {
	return &SimulatedGenerator{
		ImageDelay: imageDelay,
		VideoDelay: videoDelay,
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
	}
}

func (g *SimulatedGenerator) Generate(ctx context.Context, job models.GenerationJob) (models.GenerationResult, error) {
	const op = "service.SimulatedGenerator.Generate"

	start := time.Now()

	delay, ext := g.ImageDelay, "png"
	if job.Type == models.MediaTypeVideo {
		delay, ext = g.VideoDelay, "mp4"
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return models.GenerationResult{}, fmt.Errorf("%s: %w", op, ctx.Err())
	case <-timer.C:
	}

	metadata := models.Metadata{
		"model":         job.ProviderModel,
		"prompt":        job.Prompt,
		"aspectRatio":   job.AspectRatio,
		"generatedAt":   time.Now().UTC().Format(time.RFC3339),
		"simulated":     true,
		"generationJob": job.ID,
	}
	if job.Type == models.MediaTypeVideo {
		metadata["duration"] = job.Duration
	} else {
		metadata["width"] = job.Width
		metadata["height"] = job.Height
	}

	return models.GenerationResult{
		URL:            fmt.Sprintf("%s/%s.%s", g.BaseURL, job.ID, ext),
		ProcessingTime: time.Since(start),
		Metadata:       metadata,
	}, nil
}

// FormatProcessingTime: до минуты "45s", дальше "3 min"
func FormatProcessingTime(d time.Duration) string {
	secs := int64(d.Round(time.Second) / time.Second)
	if secs < 60 {
		if secs < 0 {
			secs = 0
		}
		return fmt.Sprintf("%ds", secs)
	}

	return fmt.Sprintf("%d min", int64(math.Round(float64(secs)/60)))
}
