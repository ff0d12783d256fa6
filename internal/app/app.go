package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	httpapp "genstudio/internal/app/http"
	"genstudio/internal/config"
	"genstudio/internal/lib/logger/sl"
	"genstudio/internal/lib/pricing"
	"genstudio/internal/repository"
	redisapp "genstudio/internal/storage/redis"
	httprouters "genstudio/internal/transport/http"

	gallery "genstudio/internal/services/gallery_service"
	generation "genstudio/internal/services/generation_service"
)

type App struct {
	HTTPServer *httpapp.Server

	log        *slog.Logger
	redis      *redisapp.Client
	generation *generation.GenerationService
}

// New собирает зависимости приложения. Если в конфиге указан адрес Redis,
// галерея восстанавливается из архива и дальше зеркалируется в него.
func New(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	const op = "app.New"

	calc := pricing.New(cfg.Pricing.ImagePerMegapixelUSD, cfg.Pricing.VideoPerSecondUSD)
	catalog := repository.NewGalleryRepo()
	jobs := repository.NewJobRepo(cfg.Jobs.TTL, cfg.Jobs.CleanupInterval)

	application := &App{log: log}

	var galleryService *gallery.GalleryService
	if cfg.Redis.RedisAddr != "" {
		client := redisapp.NewClient(cfg.Redis.RedisAddr, cfg.Redis.RedisPassword, cfg.Redis.RedisDB)

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		if err := client.HealthCheck(pingCtx); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("%s: redis: %w", op, err)
		}

		application.redis = client
		galleryService = gallery.NewGalleryService(log, catalog, repository.NewRedisGalleryArchive(client))

		restored, err := galleryService.Restore(ctx)
		if err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		log.Info("gallery archive enabled", slog.String("addr", cfg.Redis.RedisAddr), slog.Int("restored", restored))
	} else {
		galleryService = gallery.NewGalleryService(log, catalog, nil)
		log.Info("gallery archive disabled, items live in memory only")
	}

	generator := generation.NewSimulatedGenerator(cfg.Generation.ImageDelay, cfg.Generation.VideoDelay, cfg.Generation.BaseURL)
	application.generation = generation.NewGenerationService(log, jobs, galleryService, generator, calc)

	routers := httprouters.NewRouter(log, galleryService, application.generation, calc)
	application.HTTPServer = httpapp.New(log, cfg.HTTP.Host, cfg.HTTP.Port, routers)
	application.HTTPServer.BuildRouters()

	return application, nil
}

// Stop останавливает HTTP-сервер, затем фоновые генерации и соединение с Redis
func (a *App) Stop(ctx context.Context) error {
	const op = "app.Stop"

	var firstErr error
	if err := a.HTTPServer.Stop(ctx); err != nil {
		a.log.Error("failed to stop http server", sl.Err(err))
		firstErr = err
	}

	if err := a.generation.Stop(ctx); err != nil {
		a.log.Error("failed to stop generation service", sl.Err(err))
		if firstErr == nil {
			firstErr = err
		}
	}

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Error("failed to close redis client", sl.Err(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	if firstErr != nil {
		return fmt.Errorf("%s: %w", op, firstErr)
	}

	return nil
}
