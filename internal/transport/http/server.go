package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"genstudio/internal/domain/models"
	"genstudio/internal/lib/logger/sl"
	"genstudio/internal/lib/pricing"
	"genstudio/internal/storage"
	"genstudio/internal/transport/http/dto"
	"genstudio/internal/transport/http/dto/response"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type GalleryService interface {
	CreateItem(ctx context.Context, req dto.CreateGalleryItemRequest) (models.GalleryItem, error)
	ListItems(ctx context.Context, typeFilter string) ([]models.GalleryItem, error)
	GetItem(ctx context.Context, id string) (models.GalleryItem, error)
	UpdateItem(ctx context.Context, id string, req dto.UpdateGalleryItemRequest) (models.GalleryItem, error)
	DeleteItem(ctx context.Context, id string) error
	Stats(ctx context.Context) models.GalleryStats
}

type GenerationService interface {
	StartImage(ctx context.Context, req dto.GenerateImageRequest) (models.GenerationJob, error)
	StartVideo(ctx context.Context, req dto.GenerateVideoRequest) (models.GenerationJob, error)
	Job(ctx context.Context, id string) (models.GenerationJob, error)
	ImageCatalog() dto.ImageCatalogResponse
	VideoCatalog() dto.VideoCatalogResponse
}

type Routers struct {
	log               *slog.Logger
	GalleryService    GalleryService
	GenerationService GenerationService
	Pricing           pricing.Calculator
}

func NewRouter(log *slog.Logger, galleryService GalleryService, generationService GenerationService, calc pricing.Calculator) *Routers {
	return &Routers{
		log:               log,
		GalleryService:    galleryService,
		GenerationService: generationService,
		Pricing:           calc,
	}
}

// Health godoc
// @Summary Проверка доступности сервиса
// @Tags system
// @Produce json
// @Success 200 {object} response.Response
// @Router /health [get]
func (r *Routers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, response.SuccessResponse(map[string]string{"service": "genstudio"}))
}

// ListGallery godoc
// @Summary Список элементов галереи
// @Description Элементы от новых к старым. При stats=true возвращает статистику.
// @Tags gallery
// @Produce json
// @Param type query string false "image, video или all"
// @Param stats query bool false "Вернуть статистику вместо списка"
// @Success 200 {object} response.Response{data=dto.GalleryListResponse}
// @Failure 400 {object} response.ErrorResponse "Неизвестный тип"
// @Router /api/v1/gallery [get]
func (r *Routers) ListGallery(c echo.Context) error {
	const op = "http.routers.ListGallery"

	log := r.log.With(
		slog.String("op", op),
	)

	if stats, _ := strconv.ParseBool(c.QueryParam("stats")); stats {
		return r.GalleryStats(c)
	}

	typeFilter := c.QueryParam("type")
	if typeFilter == "all" {
		typeFilter = ""
	}

	items, err := r.GalleryService.ListItems(c.Request().Context(), typeFilter)
	if err != nil {
		log.Warn("failed list gallery", sl.Err(err))
		return r.errorJSON(c, err)
	}

	listType := typeFilter
	if listType == "" {
		listType = "all"
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(dto.GalleryListResponse{
		Items: items,
		Total: len(items),
		Type:  listType,
	}))
}

// GalleryStats godoc
// @Summary Статистика галереи
// @Tags gallery
// @Produce json
// @Success 200 {object} response.Response{data=dto.GalleryStatsResponse}
// @Router /api/v1/gallery/stats [get]
func (r *Routers) GalleryStats(c echo.Context) error {
	stats := r.GalleryService.Stats(c.Request().Context())

	return c.JSON(http.StatusOK, response.SuccessResponse(dto.GalleryStatsResponse{
		GalleryStats:       stats,
		TotalCostFormatted: pricing.FormatUSD(stats.TotalCostUSD),
	}))
}

// CreateGalleryItem godoc
// @Summary Добавление элемента в галерею
// @Tags gallery
// @Accept json
// @Produce json
// @Param request body dto.CreateGalleryItemRequest true "Данные элемента"
// @Success 201 {object} response.Response{data=models.GalleryItem}
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации"
// @Router /api/v1/gallery [post]
func (r *Routers) CreateGalleryItem(c echo.Context) error {
	const op = "http.routers.CreateGalleryItem"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.CreateGalleryItemRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("failed to bind request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		log.Warn("invalid gallery item", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ValidationFailed(validationFields(err)))
	}

	item, err := r.GalleryService.CreateItem(c.Request().Context(), req)
	if err != nil {
		return r.errorJSON(c, err)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(item))
}

// GetGalleryItem godoc
// @Summary Элемент галереи по id
// @Tags gallery
// @Produce json
// @Param id path string true "ID элемента"
// @Success 200 {object} response.Response{data=models.GalleryItem}
// @Failure 404 {object} response.ErrorResponse "Элемент не найден"
// @Router /api/v1/gallery/{id} [get]
func (r *Routers) GetGalleryItem(c echo.Context) error {
	item, err := r.GalleryService.GetItem(c.Request().Context(), c.Param("id"))
	if err != nil {
		return r.errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(item))
}

// UpdateGalleryItem godoc
// @Summary Частичное обновление элемента галереи
// @Description id, type и createdAt не меняются, даже если переданы в теле
// @Tags gallery
// @Accept json
// @Produce json
// @Param id path string true "ID элемента"
// @Param request body dto.UpdateGalleryItemRequest true "Изменяемые поля"
// @Success 200 {object} response.Response{data=models.GalleryItem}
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 404 {object} response.ErrorResponse "Элемент не найден"
// @Router /api/v1/gallery/{id} [put]
func (r *Routers) UpdateGalleryItem(c echo.Context) error {
	const op = "http.routers.UpdateGalleryItem"

	log := r.log.With(
		slog.String("op", op),
	)

	id := c.Param("id")

	var req dto.UpdateGalleryItemRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("failed to bind request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		log.Warn("invalid gallery item patch", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ValidationFailed(validationFields(err)))
	}

	item, err := r.GalleryService.UpdateItem(c.Request().Context(), id, req)
	if err != nil {
		return r.errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(item))
}

// DeleteGalleryItem godoc
// @Summary Удаление элемента галереи
// @Tags gallery
// @Param id path string true "ID элемента"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse "Элемент не найден"
// @Router /api/v1/gallery/{id} [delete]
func (r *Routers) DeleteGalleryItem(c echo.Context) error {
	if err := r.GalleryService.DeleteItem(c.Request().Context(), c.Param("id")); err != nil {
		return r.errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, response.SuccessWithMessage(nil, "Item deleted successfully"))
}

// EstimateImage godoc
// @Summary Оценка стоимости изображения
// @Tags pricing
// @Produce json
// @Param width query int true "Ширина"
// @Param height query int true "Высота"
// @Success 200 {object} response.Response{data=dto.ImageEstimateResponse}
// @Failure 400 {object} response.ErrorResponse "Неверные параметры"
// @Router /api/v1/pricing/image [get]
func (r *Routers) EstimateImage(c echo.Context) error {
	var req dto.ImageEstimateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ValidationFailed(validationFields(err)))
	}

	cost := r.Pricing.EstimateImageCostUSD(req.Width, req.Height)

	return c.JSON(http.StatusOK, response.SuccessResponse(dto.ImageEstimateResponse{
		Width:      req.Width,
		Height:     req.Height,
		Megapixels: pricing.MegapixelsFromDimensions(req.Width, req.Height),
		CostUSD:    cost,
		Formatted:  pricing.FormatUSD(cost),
	}))
}

// EstimateVideo godoc
// @Summary Оценка стоимости видео
// @Description Отрицательная длительность считается нулевой
// @Tags pricing
// @Produce json
// @Param seconds query number true "Длительность в секундах"
// @Success 200 {object} response.Response{data=dto.VideoEstimateResponse}
// @Failure 400 {object} response.ErrorResponse "Неверные параметры"
// @Router /api/v1/pricing/video [get]
func (r *Routers) EstimateVideo(c echo.Context) error {
	var req dto.VideoEstimateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	// NaN и бесконечность не кодируются в JSON
	if math.IsNaN(req.Seconds) || math.IsInf(req.Seconds, 0) {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails(
			response.CodeInvalidRequest, "seconds must be a finite number"))
	}

	cost := r.Pricing.EstimateVideoCostUSD(req.Seconds)

	return c.JSON(http.StatusOK, response.SuccessResponse(dto.VideoEstimateResponse{
		Seconds:   req.Seconds,
		CostUSD:   cost,
		Formatted: pricing.FormatUSD(cost),
	}))
}

// ImageModels godoc
// @Summary Доступные модели и ограничения генерации изображений
// @Tags generate
// @Produce json
// @Success 200 {object} response.Response{data=dto.ImageCatalogResponse}
// @Router /api/v1/generate/image [get]
func (r *Routers) ImageModels(c echo.Context) error {
	return c.JSON(http.StatusOK, response.SuccessResponse(r.GenerationService.ImageCatalog()))
}

// VideoModels godoc
// @Summary Доступные модели и ограничения генерации видео
// @Tags generate
// @Produce json
// @Success 200 {object} response.Response{data=dto.VideoCatalogResponse}
// @Router /api/v1/generate/video [get]
func (r *Routers) VideoModels(c echo.Context) error {
	return c.JSON(http.StatusOK, response.SuccessResponse(r.GenerationService.VideoCatalog()))
}

// GenerateImage godoc
// @Summary Запуск генерации изображения
// @Tags generate
// @Accept json
// @Produce json
// @Param request body dto.GenerateImageRequest true "Параметры генерации"
// @Success 202 {object} response.Response{data=models.GenerationJob}
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 503 {object} response.ErrorResponse "Сервис останавливается"
// @Router /api/v1/generate/image [post]
func (r *Routers) GenerateImage(c echo.Context) error {
	const op = "http.routers.GenerateImage"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.GenerateImageRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("failed to bind request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ValidationFailed(validationFields(err)))
	}

	job, err := r.GenerationService.StartImage(c.Request().Context(), req)
	if err != nil {
		return r.errorJSON(c, err)
	}

	return c.JSON(http.StatusAccepted, response.SuccessWithMessage(job, "Image generation started"))
}

// GenerateVideo godoc
// @Summary Запуск генерации видео
// @Tags generate
// @Accept json
// @Produce json
// @Param request body dto.GenerateVideoRequest true "Параметры генерации"
// @Success 202 {object} response.Response{data=models.GenerationJob}
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 503 {object} response.ErrorResponse "Сервис останавливается"
// @Router /api/v1/generate/video [post]
func (r *Routers) GenerateVideo(c echo.Context) error {
	const op = "http.routers.GenerateVideo"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.GenerateVideoRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("failed to bind request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ValidationFailed(validationFields(err)))
	}

	job, err := r.GenerationService.StartVideo(c.Request().Context(), req)
	if err != nil {
		return r.errorJSON(c, err)
	}

	return c.JSON(http.StatusAccepted, response.SuccessWithMessage(job, "Video generation started"))
}

// GetJob godoc
// @Summary Статус задачи генерации
// @Tags generate
// @Produce json
// @Param id path string true "ID задачи"
// @Success 200 {object} response.Response{data=models.GenerationJob}
// @Failure 404 {object} response.ErrorResponse "Задача не найдена или устарела"
// @Router /api/v1/generate/jobs/{id} [get]
func (r *Routers) GetJob(c echo.Context) error {
	job, err := r.GenerationService.Job(c.Request().Context(), c.Param("id"))
	if err != nil {
		return r.errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(job))
}

// errorJSON переводит ошибку сервиса в HTTP-ответ
func (r *Routers) errorJSON(c echo.Context, err error) error {
	var verr *models.ValidationError

	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, response.ValidationFailed(verr.Errors))
	case errors.Is(err, storage.ErrItemNotFound):
		return c.JSON(http.StatusNotFound, response.ErrItemNotFound)
	case errors.Is(err, storage.ErrJobNotFound):
		return c.JSON(http.StatusNotFound, response.ErrJobNotFound)
	case errors.Is(err, models.ErrUnavailable):
		return c.JSON(http.StatusServiceUnavailable, response.ErrorResponseWithDetails(
			response.CodeUnavailable, err.Error()))
	}

	r.log.Error("request failed",
		slog.String("path", c.Path()),
		sl.Err(err),
	)

	return c.JSON(http.StatusInternalServerError, response.ErrInternal)
}

func validationFields(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			fields = append(fields, fmt.Sprintf("%s: %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			continue
		}
		fields = append(fields, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
	}

	return fields
}
