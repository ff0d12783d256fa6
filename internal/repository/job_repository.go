package repository

import (
	"time"

	"genstudio/internal/domain/models"

	"github.com/patrickmn/go-cache"
)

// JobRepo хранит статусы генераций в памяти с ограниченным временем жизни
type JobRepo struct {
	cache *cache.Cache
}

func NewJobRepo(ttl, cleanupInterval time.Duration) *JobRepo {
	return &JobRepo{
		cache: cache.New(ttl, cleanupInterval),
	}
}

// Save создает или перезаписывает задачу, продлевая ее время жизни
func (r *JobRepo) Save(job models.GenerationJob) {
	r.cache.Set(job.ID, job, cache.DefaultExpiration)
}

func (r *JobRepo) Get(id string) (models.GenerationJob, bool) {
	v, ok := r.cache.Get(id)
	if !ok {
		return models.GenerationJob{}, false
	}

	job, ok := v.(models.GenerationJob)

	return job, ok
}

func (r *JobRepo) Count() int {
	return r.cache.ItemCount()
}
