package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"genstudio/internal/domain/models"
	"genstudio/internal/lib/logger/handlers/slogdiscard"
	"genstudio/internal/lib/pricing"
	"genstudio/internal/repository"
	"genstudio/internal/storage"
	"genstudio/internal/transport/http/dto"

	gallery "genstudio/internal/services/gallery_service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testCtx = context.Background()

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, job models.GenerationJob) (models.GenerationResult, error) {
	args := m.Called(ctx, job)
	return args.Get(0).(models.GenerationResult), args.Error(1)
}

type testEnv struct {
	service *GenerationService
	catalog *repository.GalleryRepo
	jobs    *repository.JobRepo
}

func newTestEnv(t *testing.T, generator Generator) testEnv {
	t.Helper()

	log := slogdiscard.NewDiscardLogger()
	catalog := repository.NewGalleryRepo()
	jobs := repository.NewJobRepo(time.Minute, time.Minute)
	galleryService := gallery.NewGalleryService(log, catalog, nil)

	service := NewGenerationService(log, jobs, galleryService, generator, pricing.Default())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = service.Stop(ctx)
	})

	return testEnv{service: service, catalog: catalog, jobs: jobs}
}

func waitForStatus(t *testing.T, service *GenerationService, id string, status models.JobStatus) models.GenerationJob {
	t.Helper()

	var job models.GenerationJob
	require.Eventually(t, func() bool {
		var err error
		job, err = service.Job(testCtx, id)
		return err == nil && job.Status == status
	}, 2*time.Second, 5*time.Millisecond)

	return job
}

func TestGenerationService_StartImage(t *testing.T) {
	env := newTestEnv(t, NewSimulatedGenerator(0, 0, "/generated/"))

	job, err := env.service.StartImage(testCtx, dto.GenerateImageRequest{
		Prompt:    "a lighthouse in a storm",
		ImageURLs: []string{"https://cdn.example.com/ref.png"},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, job.ID)
	assert.Equal(t, models.JobStatusPending, job.Status)
	assert.Equal(t, DefaultImageModel, job.Model)
	assert.Equal(t, "flux-pro/ultra", job.ProviderModel)
	assert.Equal(t, "1:1", job.AspectRatio)
	assert.Equal(t, 1024, job.Width)
	assert.Equal(t, "$0.0060", job.EstimatedCost)

	done := waitForStatus(t, env.service, job.ID, models.JobStatusCompleted)
	require.NotEmpty(t, done.ItemID)
	require.NotNil(t, done.CompletedAt)

	item, ok := env.catalog.Get(done.ItemID)
	require.True(t, ok)
	assert.Equal(t, models.MediaTypeImage, item.Type)
	assert.Equal(t, "/generated/"+job.ID+".png", item.URL)
	assert.Equal(t, item.URL, item.ThumbnailURL)
	assert.Equal(t, "$0.0060", item.Cost)
	assert.Equal(t, "0s", item.ProcessingTime)
	assert.Equal(t, "flux-pro/ultra", item.Metadata["providerModel"])
	assert.Equal(t, []string{"https://cdn.example.com/ref.png"}, item.Metadata["imageReferenceUrls"])
}

func TestGenerationService_StartImageValidation(t *testing.T) {
	env := newTestEnv(t, NewSimulatedGenerator(0, 0, ""))

	tests := []struct {
		name  string
		req   dto.GenerateImageRequest
		field string
	}{
		{name: "blank prompt", req: dto.GenerateImageRequest{Prompt: "  "}, field: "prompt is required"},
		{name: "long prompt", req: dto.GenerateImageRequest{Prompt: strings.Repeat("a", MaxPromptLength+1)}, field: "prompt must be less than"},
		{name: "bad aspect ratio", req: dto.GenerateImageRequest{Prompt: "x", AspectRatio: "2:1"}, field: "invalid aspect ratio"},
		{
			name:  "too many references",
			req:   dto.GenerateImageRequest{Prompt: "x", ImageURLs: []string{"a", "b", "c", "d", "e"}},
			field: "reference images",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.service.StartImage(testCtx, tt.req)
			assert.ErrorIs(t, err, models.ErrValidation)
			assert.Contains(t, err.Error(), tt.field)
		})
	}

	assert.Equal(t, 0, env.jobs.Count())
}

func TestGenerationService_ResolveImageModel(t *testing.T) {
	assert.Equal(t, "gpt-image-1", ResolveImageModel("gpt-image-1"))
	assert.Equal(t, "ideogram/V_3", ResolveImageModel("ideogram"))
	assert.Equal(t, "flux-pro/ultra", ResolveImageModel("gemini-flash-image"))
	assert.Equal(t, "flux-pro/ultra", ResolveImageModel("unknown"))
}

func TestGenerationService_StartVideo(t *testing.T) {
	env := newTestEnv(t, NewSimulatedGenerator(0, 0, "/generated"))

	t.Run("duration clamped to model maximum", func(t *testing.T) {
		job, err := env.service.StartVideo(testCtx, dto.GenerateVideoRequest{
			Prompt:     "drone shot over mountains",
			Model:      "hunyuan",
			Duration:   8,
			StartImage: "https://cdn.example.com/start.png",
			Narration:  "calm voice",
		})
		require.NoError(t, err)

		assert.Equal(t, 5.0, job.Duration)
		assert.Equal(t, "hunyuan", job.ProviderModel)
		assert.Equal(t, "$0.1665", job.EstimatedCost)
		assert.Equal(t, "drone shot over mountains\n\nNarration guide: calm voice", job.Prompt)
		assert.Equal(t, []string{"https://cdn.example.com/start.png"}, job.ImageURLs)

		done := waitForStatus(t, env.service, job.ID, models.JobStatusCompleted)

		item, ok := env.catalog.Get(done.ItemID)
		require.True(t, ok)
		assert.Equal(t, models.MediaTypeVideo, item.Type)
		require.NotNil(t, item.Duration)
		assert.Equal(t, 5.0, *item.Duration)
		assert.Equal(t, "/generated/"+job.ID+"_thumb.jpg", item.ThumbnailURL)
	})

	t.Run("defaults", func(t *testing.T) {
		job, err := env.service.StartVideo(testCtx, dto.GenerateVideoRequest{Prompt: "waves"})
		require.NoError(t, err)

		assert.Equal(t, DefaultVideoModel, job.Model)
		assert.Equal(t, "kling/v2.1/standard", job.ProviderModel)
		assert.Equal(t, DefaultVideoDuration, job.Duration)
		assert.Equal(t, "16:9", job.AspectRatio)
	})

	t.Run("unsupported aspect ratio for model", func(t *testing.T) {
		_, err := env.service.StartVideo(testCtx, dto.GenerateVideoRequest{Prompt: "x", Model: "gemini-veo3", AspectRatio: "1:1"})
		assert.ErrorIs(t, err, models.ErrValidation)
		assert.Contains(t, err.Error(), "not supported for model gemini/veo3")
	})

	t.Run("duration out of range", func(t *testing.T) {
		_, err := env.service.StartVideo(testCtx, dto.GenerateVideoRequest{Prompt: "x", Duration: 31})
		assert.ErrorIs(t, err, models.ErrValidation)
	})
}

func TestGenerationService_GeneratorFailure(t *testing.T) {
	generator := new(MockGenerator)
	generator.On("Generate", mock.Anything, mock.AnythingOfType("models.GenerationJob")).
		Return(models.GenerationResult{}, errors.New("provider unavailable")).Once()

	env := newTestEnv(t, generator)

	job, err := env.service.StartImage(testCtx, dto.GenerateImageRequest{Prompt: "fails"})
	require.NoError(t, err)

	failed := waitForStatus(t, env.service, job.ID, models.JobStatusFailed)
	assert.Equal(t, "provider unavailable", failed.Error)
	assert.Empty(t, failed.ItemID)
	assert.Equal(t, 0, env.catalog.Stats().Total)

	generator.AssertExpectations(t)
}

func TestGenerationService_JobNotFound(t *testing.T) {
	env := newTestEnv(t, NewSimulatedGenerator(0, 0, ""))

	_, err := env.service.Job(testCtx, "missing")
	assert.ErrorIs(t, err, storage.ErrJobNotFound)
}

func TestGenerationService_Stop(t *testing.T) {
	env := newTestEnv(t, NewSimulatedGenerator(time.Hour, time.Hour, ""))

	job, err := env.service.StartImage(testCtx, dto.GenerateImageRequest{Prompt: "never finishes"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, env.service.Stop(ctx))

	stopped, err := env.service.Job(testCtx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusFailed, stopped.Status)
	assert.Contains(t, stopped.Error, context.Canceled.Error())

	_, err = env.service.StartImage(testCtx, dto.GenerateImageRequest{Prompt: "after stop"})
	assert.ErrorIs(t, err, ErrServiceStopped)
}

func TestGenerationService_Catalogs(t *testing.T) {
	env := newTestEnv(t, NewSimulatedGenerator(0, 0, ""))

	images := env.service.ImageCatalog()
	assert.Len(t, images.Models, 5)
	assert.Equal(t, MaxReferenceImages, images.MaxReferenceImages)
	assert.Equal(t, pricing.ImagePricePerMegapixelUSD, images.PricePerMegapixel)

	videos := env.service.VideoCatalog()
	assert.Len(t, videos.Models, 5)
	assert.Equal(t, pricing.VideoPricePerSecondUSD, videos.CostPerSecond)
	assert.Equal(t, MaxVideoDuration, videos.MaxDuration)
}

func TestFormatProcessingTime(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{in: 0, want: "0s"},
		{in: 45 * time.Second, want: "45s"},
		{in: 59*time.Second + 400*time.Millisecond, want: "59s"},
		{in: 90 * time.Second, want: "2 min"},
		{in: 3 * time.Minute, want: "3 min"},
		{in: -time.Second, want: "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatProcessingTime(tt.in))
		})
	}
}
