// Package post содержит бизнес-логику для работы с публикациями,
// включая кеширование чтений.
package post

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/evseevmm/donation-platform/internal/apperr"
	"github.com/evseevmm/donation-platform/internal/models"
)

// PostRepository определяет методы для работы с публикациями в хранилище.
type PostRepository interface {
	// CreatePost добавляет новую публикацию и возвращает её ID.
	CreatePost(ctx context.Context, post models.Post) (int, error)
	// GetPost возвращает публикацию по ID.
	GetPost(ctx context.Context, id int) (*models.Post, error)
	// ListPosts возвращает публикации с пагинацией.
	ListPosts(ctx context.Context, limit, offset int) ([]*models.Post, error)
	// UpdatePost обновляет публикацию, возвращает число обновлённых строк.
	UpdatePost(ctx context.Context, id int, title, content string) (int, error)
	// DeletePost удаляет публикацию, возвращает число удалённых строк.
	DeletePost(ctx context.Context, id int) (int, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// PostService реализует бизнес-логику публикаций, включая кеширование.
type PostService struct {
	repo  PostRepository
	cache Cache
	log   *slog.Logger
}

// NewPostService создает новый экземпляр PostService.
func NewPostService(repo PostRepository, cache Cache, log *slog.Logger) *PostService {
	return &PostService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Create создает публикацию от имени автора и возвращает ID.
func (s *PostService) Create(ctx context.Context, authorUID string, req models.DummyPost) (int, error) {
	entry := models.Post{
		UserUID: authorUID,
		Title:   req.Title,
		Content: req.Content,
	}

	id, err := s.repo.CreatePost(ctx, entry)
	if err != nil {
		return 0, err
	}
	s.log.Info("created new post", slog.Int("id", id))
	return id, nil
}

// Read возвращает публикацию по ID, используя кеш или репозиторий.
func (s *PostService) Read(ctx context.Context, id int) (*models.Post, error) {
	var result *models.Post
	cacheKey := fmt.Sprintf("post:%d", id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		s.log.Warn("cache lookup failed", slog.String("key", cacheKey), slog.Any("err", err))
	}
	if found {
		return result, nil
	}

	result, err = s.repo.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to cache post", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return result, nil
}

// List возвращает публикации с пагинацией.
func (s *PostService) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return s.repo.ListPosts(ctx, limit, offset)
}

// Update обновляет публикацию. Менять чужие публикации может только
// пользователь с ролью не ниже admin.
func (s *PostService) Update(ctx context.Context, id int, callerUID, callerRole string, req models.DummyPost) error {
	existing, err := s.repo.GetPost(ctx, id)
	if err != nil {
		return err
	}
	if existing.UserUID != callerUID && !models.RoleAllows(callerRole, models.RoleAdmin) {
		return fmt.Errorf("post.Update: %w", apperr.ErrForbidden)
	}

	if _, err := s.repo.UpdatePost(ctx, id, req.Title, req.Content); err != nil {
		return err
	}

	cacheKey := fmt.Sprintf("post:%d", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return nil
}

// Remove удаляет публикацию с той же проверкой владельца, что и Update.
func (s *PostService) Remove(ctx context.Context, id int, callerUID, callerRole string) error {
	existing, err := s.repo.GetPost(ctx, id)
	if err != nil {
		return err
	}
	if existing.UserUID != callerUID && !models.RoleAllows(callerRole, models.RoleAdmin) {
		return fmt.Errorf("post.Remove: %w", apperr.ErrForbidden)
	}

	if _, err := s.repo.DeletePost(ctx, id); err != nil {
		return err
	}

	cacheKey := fmt.Sprintf("post:%d", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return nil
}
