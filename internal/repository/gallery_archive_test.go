package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"genstudio/internal/domain/models"
	redisapp "genstudio/internal/storage/redis"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func NewMockClient() (*redisapp.Client, redismock.ClientMock) {
	db, mock := redismock.NewClientMock()
	return &redisapp.Client{Client: db}, mock
}

func setupArchive() (*RedisGalleryArchive, redismock.ClientMock) {
	db, mock := NewMockClient()
	return NewRedisGalleryArchive(db), mock
}

var archivedItem = models.GalleryItem{
	ID:          "image_1741944413000_abc",
	Type:        models.MediaTypeImage,
	Title:       "Sunset",
	Prompt:      "sunset over the sea",
	URL:         "https://cdn.example.com/sunset.png",
	Model:       "flux-pro",
	AspectRatio: "1:1",
	Cost:        "$0.0060",
	CreatedAt:   time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC),
}

func TestRedisGalleryArchive_Save(t *testing.T) {
	ctx := context.Background()
	archive, mock := setupArchive()

	data, err := json.Marshal(archivedItem)
	require.NoError(t, err)

	t.Run("successful save", func(t *testing.T) {
		mock.ExpectSet(galleryItemKey(archivedItem.ID), data, 0).SetVal("OK")
		mock.ExpectZAdd(galleryIndexKey, redis.Z{
			Score:  float64(archivedItem.CreatedAt.UnixMilli()),
			Member: archivedItem.ID,
		}).SetVal(1)

		err := archive.Save(ctx, archivedItem)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("redis error", func(t *testing.T) {
		mock.ExpectSet(galleryItemKey(archivedItem.ID), data, 0).SetErr(redis.ErrClosed)

		err := archive.Save(ctx, archivedItem)
		assert.ErrorIs(t, err, redis.ErrClosed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisGalleryArchive_Delete(t *testing.T) {
	ctx := context.Background()
	archive, mock := setupArchive()

	mock.ExpectDel(galleryItemKey(archivedItem.ID)).SetVal(1)
	mock.ExpectZRem(galleryIndexKey, archivedItem.ID).SetVal(1)

	assert.NoError(t, archive.Delete(ctx, archivedItem.ID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisGalleryArchive_LoadAll(t *testing.T) {
	ctx := context.Background()

	t.Run("skips missing and broken records", func(t *testing.T) {
		archive, mock := setupArchive()

		newer := archivedItem
		newer.ID = "video_1741944999000_def"
		newer.Type = models.MediaTypeVideo

		newerData, err := json.Marshal(newer)
		require.NoError(t, err)
		olderData, err := json.Marshal(archivedItem)
		require.NoError(t, err)

		ids := []string{newer.ID, "gone", "broken", archivedItem.ID}
		mock.ExpectZRevRange(galleryIndexKey, 0, -1).SetVal(ids)
		mock.ExpectMGet(
			galleryItemKey(newer.ID),
			galleryItemKey("gone"),
			galleryItemKey("broken"),
			galleryItemKey(archivedItem.ID),
		).SetVal([]interface{}{string(newerData), nil, "{not json", string(olderData)})

		items, err := archive.LoadAll(ctx)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, newer.ID, items[0].ID)
		assert.Equal(t, archivedItem.ID, items[1].ID)
		assert.True(t, archivedItem.CreatedAt.Equal(items[1].CreatedAt))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty index", func(t *testing.T) {
		archive, mock := setupArchive()

		mock.ExpectZRevRange(galleryIndexKey, 0, -1).SetVal([]string{})

		items, err := archive.LoadAll(ctx)
		assert.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("redis error", func(t *testing.T) {
		archive, mock := setupArchive()

		mock.ExpectZRevRange(galleryIndexKey, 0, -1).SetErr(redis.ErrClosed)

		_, err := archive.LoadAll(ctx)
		assert.ErrorIs(t, err, redis.ErrClosed)
	})
}
