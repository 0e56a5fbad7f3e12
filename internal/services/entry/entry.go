// Package entry содержит бизнес-логику CRUD-ресурса записей с кешированием.
package entry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/registro/internal/lib/sl"
	"github.com/magabrotheeeer/registro/internal/models"
)

const cacheTTL = time.Hour

// Repository определяет методы для работы с записями в хранилище.
type Repository interface {
	CreateEntry(ctx context.Context, in models.EntryCreate) (*models.Entry, error)
	ReadEntry(ctx context.Context, id int64) (*models.Entry, error)
	ListEntries(ctx context.Context, limit, offset int) ([]models.Entry, int, error)
	UpdateEntry(ctx context.Context, id int64, in models.EntryUpdate) (*models.Entry, error)
	RemoveEntry(ctx context.Context, id int64) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(ctx context.Context, key string) error
}

// Service реализует работу с записями. Ошибки кеша только логируются.
type Service struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(repo Repository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

func cacheKey(id int64) string {
	return fmt.Sprintf("entry:%d", id)
}

// Create сохраняет запись и кладет её в кеш.
func (s *Service) Create(ctx context.Context, in models.EntryCreate) (*models.Entry, error) {
	created, err := s.repo.CreateEntry(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("entry.Create: %w", err)
	}
	s.log.Info("created new entry", slog.Int64("id", created.ID))
	s.store(ctx, created)
	return created, nil
}

// Get возвращает запись по ID, сначала из кеша, затем из хранилища.
func (s *Service) Get(ctx context.Context, id int64) (*models.Entry, error) {
	key := cacheKey(id)
	var cached models.Entry
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", key), sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	e, err := s.repo.ReadEntry(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("entry.Get: %w", err)
	}
	s.store(ctx, e)
	return e, nil
}

// List возвращает страницу записей и их общее количество.
func (s *Service) List(ctx context.Context, limit, offset int) ([]models.Entry, int, error) {
	items, total, err := s.repo.ListEntries(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("entry.List: %w", err)
	}
	return items, total, nil
}

// Update частично обновляет запись и обновляет кеш.
func (s *Service) Update(ctx context.Context, id int64, in models.EntryUpdate) (*models.Entry, error) {
	updated, err := s.repo.UpdateEntry(ctx, id, in)
	if err != nil {
		return nil, fmt.Errorf("entry.Update: %w", err)
	}
	s.store(ctx, updated)
	return updated, nil
}

// Remove удаляет запись и инвалидирует кеш. Ключ сбрасывается только после
// обращения к хранилищу.
func (s *Service) Remove(ctx context.Context, id int64) error {
	err := s.repo.RemoveEntry(ctx, id)

	key := cacheKey(id)
	if cacheErr := s.cache.Invalidate(ctx, key); cacheErr != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", key), sl.Err(cacheErr))
	}

	if err != nil {
		return fmt.Errorf("entry.Remove: %w", err)
	}
	return nil
}

func (s *Service) store(ctx context.Context, e *models.Entry) {
	key := cacheKey(e.ID)
	if err := s.cache.Set(ctx, key, e, cacheTTL); err != nil {
		s.log.Warn("failed to cache entry", slog.String("key", key), sl.Err(err))
	}
}
