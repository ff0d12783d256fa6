package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"genstudio/internal/domain/models"
	redisapp "genstudio/internal/storage/redis"

	"github.com/redis/go-redis/v9"
)

const galleryIndexKey = "gallery:index"

// RedisGalleryArchive хранит копию галереи в Redis: JSON элемента по ключу
// gallery:item:<id> и сортированное множество id по времени создания.
type RedisGalleryArchive struct {
	Client *redisapp.Client
}

func NewRedisGalleryArchive(client *redisapp.Client) *RedisGalleryArchive {
	return &RedisGalleryArchive{Client: client}
}

func (a *RedisGalleryArchive) Save(ctx context.Context, item models.GalleryItem) error {
	const op = "repository.RedisGalleryArchive.Save"

	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := a.Client.Set(ctx, galleryItemKey(item.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = a.Client.ZAdd(ctx, galleryIndexKey, redis.Z{
		Score:  float64(item.CreatedAt.UnixMilli()),
		Member: item.ID,
	}).Err()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (a *RedisGalleryArchive) Delete(ctx context.Context, id string) error {
	const op = "repository.RedisGalleryArchive.Delete"

	if err := a.Client.Del(ctx, galleryItemKey(id)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := a.Client.ZRem(ctx, galleryIndexKey, id).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// LoadAll возвращает элементы от новых к старым; битые и пропавшие записи пропускаются
func (a *RedisGalleryArchive) LoadAll(ctx context.Context) ([]models.GalleryItem, error) {
	const op = "repository.RedisGalleryArchive.LoadAll"

	ids, err := a.Client.ZRevRange(ctx, galleryIndexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, galleryItemKey(id))
	}

	values, err := a.Client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	items := make([]models.GalleryItem, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}

		var item models.GalleryItem
		if err := json.Unmarshal([]byte(raw), &item); err != nil {
			continue
		}
		items = append(items, item)
	}

	return items, nil
}

func galleryItemKey(id string) string {
	return "gallery:item:" + id
}
