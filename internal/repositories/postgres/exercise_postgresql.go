package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/linguaplay/scoring-service/internal/models"
	"github.com/linguaplay/scoring-service/internal/repositories"
)

const defaultPageSize = 50

type ExercisePostgreSQL struct {
	db *gorm.DB
}

func NewExercisePostgreSQL(db *gorm.DB) repositories.ExerciseRepository {
	return &ExercisePostgreSQL{db: db}
}

func (e *ExercisePostgreSQL) Create(ctx context.Context, tx *gorm.DB, exercise *models.Exercise) error {
	if err := conn(ctx, e.db, tx).Create(exercise).Error; err != nil {
		return fmt.Errorf("failed to create exercise: %w", translate(err))
	}
	return nil
}

func (e *ExercisePostgreSQL) CreateBatch(ctx context.Context, tx *gorm.DB, exercises []*models.Exercise) error {
	if len(exercises) == 0 {
		return nil
	}
	if err := conn(ctx, e.db, tx).CreateInBatches(exercises, 100).Error; err != nil {
		return fmt.Errorf("failed to create exercises: %w", translate(err))
	}
	return nil
}

func (e *ExercisePostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Exercise, error) {
	var exercise models.Exercise
	if err := conn(ctx, e.db, tx).First(&exercise, id).Error; err != nil {
		return nil, translate(err)
	}
	return &exercise, nil
}

func (e *ExercisePostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	result := conn(ctx, e.db, tx).Delete(&models.Exercise{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete exercise: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (e *ExercisePostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.ExerciseFilters) ([]*models.Exercise, int64, error) {
	query := conn(ctx, e.db, tx).Model(&models.Exercise{})
	if filters.Type != nil {
		query = query.Where("type = ?", *filters.Type)
	}
	if filters.LessonID != nil {
		query = query.Where("lesson_id = ?", *filters.LessonID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count exercises: %w", err)
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}

	var exercises []*models.Exercise
	if err := query.Order("id ASC").Limit(limit).Offset(filters.Offset).Find(&exercises).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list exercises: %w", err)
	}
	return exercises, total, nil
}
