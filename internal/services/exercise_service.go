package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/linguaplay/scoring-service/internal/cache"
	"github.com/linguaplay/scoring-service/internal/models"
	"github.com/linguaplay/scoring-service/internal/repositories"
	"github.com/linguaplay/scoring-service/internal/validator"
)

type ExerciseService interface {
	Create(ctx context.Context, exercise *models.Exercise) (*models.Exercise, error)
	GetByID(ctx context.Context, id uint) (*models.Exercise, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filters repositories.ExerciseFilters) ([]*models.Exercise, int64, error)
}

type exerciseService struct {
	repo      repositories.ExerciseRepository
	cache     cache.CacheService
	cacheTTL  time.Duration
	validator *validator.Validator
	log       *ServiceLogger
}

// NewExerciseService reads exercises through cache, which may be nil.
func NewExerciseService(repo repositories.ExerciseRepository, cacheService cache.CacheService, cacheTTL time.Duration, validator *validator.Validator, logger *slog.Logger) ExerciseService {
	return &exerciseService{
		repo:      repo,
		cache:     cacheService,
		cacheTTL:  cacheTTL,
		validator: validator,
		log:       NewServiceLogger(logger, LogConfig{Service: "scoring", Component: "exercise"}),
	}
}

func (s *exerciseService) Create(ctx context.Context, exercise *models.Exercise) (*models.Exercise, error) {
	op := s.log.WithOperation(ctx, "create_exercise", "")

	if err := s.validator.ValidateExercise(exercise); err != nil {
		op.LogResult(0, "exercise", err)
		return nil, err
	}

	if err := s.repo.Create(ctx, nil, exercise); err != nil {
		op.LogResult(0, "exercise", err)
		return nil, fmt.Errorf("failed to create exercise: %w", err)
	}

	op.LogResult(exercise.ID, "exercise", nil)
	return exercise, nil
}

func (s *exerciseService) GetByID(ctx context.Context, id uint) (*models.Exercise, error) {
	key := cache.ExerciseKey(id)

	if s.cache != nil {
		var cached models.Exercise
		err := s.cache.Get(ctx, key, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.log.LogUpstream(ctx, "get_exercise", "", upstream("cache", err))
		}
	}

	exercise, err := s.repo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, fmt.Errorf("failed to get exercise: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, exercise, s.cacheTTL); err != nil {
			s.log.LogUpstream(ctx, "get_exercise", "", upstream("cache", err))
		}
	}

	return exercise, nil
}

func (s *exerciseService) Delete(ctx context.Context, id uint) error {
	op := s.log.WithOperation(ctx, "delete_exercise", "")

	if err := s.repo.Delete(ctx, nil, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			err = ErrExerciseNotFound
		}
		op.LogResult(id, "exercise", err)
		return err
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, cache.ExerciseKey(id)); err != nil {
			s.log.LogUpstream(ctx, "delete_exercise", "", upstream("cache", err))
		}
	}

	op.LogResult(id, "exercise", nil)
	return nil
}

func (s *exerciseService) List(ctx context.Context, filters repositories.ExerciseFilters) ([]*models.Exercise, int64, error) {
	if filters.Type != nil && !filters.Type.IsValid() {
		return nil, 0, NewValidationError("type", "unsupported exercise type", string(*filters.Type))
	}
	if filters.Limit > 100 {
		filters.Limit = 100
	}
	if filters.Offset < 0 {
		filters.Offset = 0
	}

	exercises, total, err := s.repo.List(ctx, nil, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list exercises: %w", err)
	}
	return exercises, total, nil
}
