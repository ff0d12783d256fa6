package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"genstudio/internal/domain/models"
	"genstudio/internal/lib/logger/sl"
	"genstudio/internal/lib/pricing"
	"genstudio/internal/metrics"
	"genstudio/internal/repository"
	"genstudio/internal/storage"
	"genstudio/internal/transport/http/dto"

	"github.com/google/uuid"
)

var ErrServiceStopped = fmt.Errorf("generation service is stopped: %w", models.ErrUnavailable)

type Generator interface {
	Generate(ctx context.Context, job models.GenerationJob) (models.GenerationResult, error)
}

type GalleryService interface {
	CreateItem(ctx context.Context, req dto.CreateGalleryItemRequest) (models.GalleryItem, error)
}

// GenerationService принимает запросы на генерацию, ведет статусы задач
// и по завершении сохраняет результат в галерею.
type GenerationService struct {
	log       *slog.Logger
	jobs      repository.JobRepository
	gallery   GalleryService
	generator Generator
	calc      pricing.Calculator
	now       func() time.Time

	mu      sync.Mutex
	stopped bool
	wg      sync.WaitGroup
	baseCtx context.Context
	cancel  context.CancelFunc
}

func NewGenerationService(
	log *slog.Logger,
	jobs repository.JobRepository,
	gallery GalleryService,
	generator Generator,
	calc pricing.Calculator,
) *GenerationService {
	ctx, cancel := context.WithCancel(context.Background())

	return &GenerationService{
		log:       log,
		jobs:      jobs,
		gallery:   gallery,
		generator: generator,
		calc:      calc,
		now:       time.Now,
		baseCtx:   ctx,
		cancel:    cancel,
	}
}

// StartImage проверяет параметры и запускает генерацию изображения в фоне
func (s *GenerationService) StartImage(ctx context.Context, req dto.GenerateImageRequest) (models.GenerationJob, error) {
	const op = "service.GenerationService.StartImage"
	log := s.log.With(
		slog.String("op", op),
		slog.String("model", req.Model),
	)

	if req.Model == "" {
		req.Model = DefaultImageModel
	}
	if req.AspectRatio == "" {
		req.AspectRatio = DefaultImageAspectRatio
	}
	if req.Width == 0 {
		req.Width = DefaultImageSize
	}
	if req.Height == 0 {
		req.Height = DefaultImageSize
	}

	if err := validateImageRequest(req); err != nil {
		log.Warn("invalid image generation request", sl.Err(err))
		return models.GenerationJob{}, fmt.Errorf("%s: %w", op, err)
	}

	job := models.GenerationJob{
		ID:            uuid.NewString(),
		Type:          models.MediaTypeImage,
		Status:        models.JobStatusPending,
		Model:         req.Model,
		ProviderModel: ResolveImageModel(req.Model),
		Prompt:        req.Prompt,
		AspectRatio:   req.AspectRatio,
		Width:         req.Width,
		Height:        req.Height,
		ImageURLs:     req.ImageURLs,
		EstimatedCost: pricing.FormatUSD(s.calc.EstimateImageCostUSD(req.Width, req.Height)),
		EstimatedTime: "30-60 seconds",
		CreatedAt:     s.now(),
	}

	if err := s.start(job); err != nil {
		return models.GenerationJob{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("image generation started",
		slog.String("job_id", job.ID),
		slog.String("provider_model", job.ProviderModel),
		slog.Int("reference_images", len(job.ImageURLs)),
	)

	return job, nil
}

// StartVideo проверяет параметры, ограничивает длительность максимумом модели и запускает генерацию
func (s *GenerationService) StartVideo(ctx context.Context, req dto.GenerateVideoRequest) (models.GenerationJob, error) {
	const op = "service.GenerationService.StartVideo"
	log := s.log.With(
		slog.String("op", op),
		slog.String("model", req.Model),
	)

	if req.Model == "" {
		req.Model = DefaultVideoModel
	}
	if req.AspectRatio == "" {
		req.AspectRatio = DefaultVideoAspectRatio
	}
	if req.Duration == 0 {
		req.Duration = DefaultVideoDuration
	}

	spec := ResolveVideoModel(req.Model)

	if err := validateVideoRequest(req, spec); err != nil {
		log.Warn("invalid video generation request", sl.Err(err))
		return models.GenerationJob{}, fmt.Errorf("%s: %w", op, err)
	}

	duration := min(max(MinVideoDuration, req.Duration), spec.MaxDuration)

	prompt := req.Prompt
	if strings.TrimSpace(req.Narration) != "" {
		prompt = fmt.Sprintf("%s\n\nNarration guide: %s", req.Prompt, req.Narration)
	}

	var imageURLs []string
	if req.StartImage != "" {
		imageURLs = []string{req.StartImage}
	}

	job := models.GenerationJob{
		ID:            uuid.NewString(),
		Type:          models.MediaTypeVideo,
		Status:        models.JobStatusPending,
		Model:         req.Model,
		ProviderModel: spec.Name,
		Prompt:        prompt,
		AspectRatio:   req.AspectRatio,
		Duration:      duration,
		ImageURLs:     imageURLs,
		EstimatedCost: pricing.FormatUSD(s.calc.EstimateVideoCostUSD(duration)),
		EstimatedTime: "2-5 minutes",
		CreatedAt:     s.now(),
	}

	if err := s.start(job); err != nil {
		return models.GenerationJob{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("video generation started",
		slog.String("job_id", job.ID),
		slog.String("provider_model", job.ProviderModel),
		slog.Float64("duration", duration),
	)

	return job, nil
}

func (s *GenerationService) Job(ctx context.Context, id string) (models.GenerationJob, error) {
	const op = "service.GenerationService.Job"

	job, ok := s.jobs.Get(id)
	if !ok {
		return models.GenerationJob{}, fmt.Errorf("%s: %w", op, storage.ErrJobNotFound)
	}

	return job, nil
}

func (s *GenerationService) ImageCatalog() dto.ImageCatalogResponse {
	return dto.ImageCatalogResponse{
		Models:                ImageModels,
		SupportedAspectRatios: ImageAspectRatios,
		MaxPromptLength:       MaxPromptLength,
		MaxReferenceImages:    MaxReferenceImages,
		PricePerMegapixel:     s.calc.ImagePerMegapixel,
	}
}

func (s *GenerationService) VideoCatalog() dto.VideoCatalogResponse {
	return dto.VideoCatalogResponse{
		Models:                VideoModels,
		DefaultDuration:       DefaultVideoDuration,
		MaxDuration:           MaxVideoDuration,
		SupportedAspectRatios: VideoAspectRatios,
		MaxPromptLength:       MaxPromptLength,
		CostPerSecond:         s.calc.VideoPerSecond,
	}
}

// Stop отменяет незавершенные генерации и ждет выхода фоновых горутин
func (s *GenerationService) Stop(ctx context.Context) error {
	const op = "service.GenerationService.Stop"

	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()

	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	}
}

func (s *GenerationService) start(job models.GenerationJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return ErrServiceStopped
	}

	s.jobs.Save(job)

	s.wg.Add(1)
	go s.run(job)

	return nil
}

func (s *GenerationService) run(job models.GenerationJob) {
	defer s.wg.Done()

	const op = "service.GenerationService.run"
	log := s.log.With(
		slog.String("op", op),
		slog.String("job_id", job.ID),
		slog.String("type", string(job.Type)),
	)

	result, err := s.generator.Generate(s.baseCtx, job)
	if err != nil {
		log.Error("generation failed", sl.Err(err))
		s.finish(job, "", err)
		return
	}

	req := dto.CreateGalleryItemRequest{
		Type:           string(job.Type),
		Prompt:         job.Prompt,
		URL:            result.URL,
		Model:          job.Model,
		AspectRatio:    job.AspectRatio,
		Cost:           job.EstimatedCost,
		ProcessingTime: FormatProcessingTime(result.ProcessingTime),
		Metadata:       result.Metadata.Clone(),
	}
	if req.Metadata == nil {
		req.Metadata = models.Metadata{}
	}
	req.Metadata["providerModel"] = job.ProviderModel
	if len(job.ImageURLs) > 0 {
		req.Metadata["imageReferenceUrls"] = job.ImageURLs
	}
	if job.Type == models.MediaTypeVideo {
		d := job.Duration
		req.Duration = &d
	}

	item, err := s.gallery.CreateItem(s.baseCtx, req)
	if err != nil {
		log.Error("failed to save generation to gallery", sl.Err(err))
		s.finish(job, "", err)
		return
	}

	metrics.EstimatedCostUSD.WithLabelValues(string(job.Type)).Add(pricing.ParseUSD(job.EstimatedCost))

	log.Info("generation completed", slog.String("item_id", item.ID))
	s.finish(job, item.ID, nil)
}

func (s *GenerationService) finish(job models.GenerationJob, itemID string, err error) {
	completedAt := s.now()
	job.CompletedAt = &completedAt

	if err != nil {
		job.Status = models.JobStatusFailed
		job.Error = err.Error()
	} else {
		job.Status = models.JobStatusCompleted
		job.ItemID = itemID
	}

	metrics.GenerationJobs.WithLabelValues(string(job.Type), string(job.Status)).Inc()
	s.jobs.Save(job)
}

func validateImageRequest(req dto.GenerateImageRequest) error {
	var fields []string

	fields = append(fields, validatePrompt(req.Prompt)...)

	if !slices.Contains(ImageAspectRatios, req.AspectRatio) {
		fields = append(fields, fmt.Sprintf("invalid aspect ratio '%s'", req.AspectRatio))
	}
	if len(req.ImageURLs) > MaxReferenceImages {
		fields = append(fields, fmt.Sprintf("at most %d reference images are allowed", MaxReferenceImages))
	}
	if req.Width <= 0 || req.Height <= 0 {
		fields = append(fields, "width and height must be positive")
	}

	if len(fields) > 0 {
		return &models.ValidationError{Errors: fields}
	}

	return nil
}

func validateVideoRequest(req dto.GenerateVideoRequest, spec models.ModelSpec) error {
	var fields []string

	fields = append(fields, validatePrompt(req.Prompt)...)

	if !(req.Duration >= MinVideoDuration && req.Duration <= MaxVideoDuration) {
		fields = append(fields, fmt.Sprintf("duration must be between %g and %g seconds", MinVideoDuration, MaxVideoDuration))
	}
	if !slices.Contains(spec.AspectRatios, req.AspectRatio) {
		fields = append(fields, fmt.Sprintf("aspect ratio %s not supported for model %s", req.AspectRatio, spec.Name))
	}

	if len(fields) > 0 {
		return &models.ValidationError{Errors: fields}
	}

	return nil
}

func validatePrompt(prompt string) []string {
	if strings.TrimSpace(prompt) == "" {
		return []string{"prompt is required"}
	}
	if utf8.RuneCountInString(prompt) > MaxPromptLength {
		return []string{fmt.Sprintf("prompt must be less than %d characters", MaxPromptLength)}
	}

	return nil
}
