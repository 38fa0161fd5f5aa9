package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/linguaplay/scoring-service/internal/models"
	"github.com/linguaplay/scoring-service/internal/repositories"
)

type AttemptPostgreSQL struct {
	db *gorm.DB
}

func NewAttemptPostgreSQL(db *gorm.DB) repositories.AttemptRepository {
	return &AttemptPostgreSQL{db: db}
}

func (a *AttemptPostgreSQL) Create(ctx context.Context, tx *gorm.DB, attempt *models.ExerciseAttempt) error {
	err := translate(conn(ctx, a.db, tx).Create(attempt).Error)
	if errors.Is(err, repositories.ErrDuplicate) {
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to record attempt: %w", err)
	}
	return nil
}

func (a *AttemptPostgreSQL) Exists(ctx context.Context, tx *gorm.DB, userID string, exerciseID uint) (bool, error) {
	var count int64
	err := conn(ctx, a.db, tx).
		Model(&models.ExerciseAttempt{}).
		Where("user_id = ? AND exercise_id = ?", userID, exerciseID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check attempt: %w", err)
	}
	return count > 0, nil
}

func (a *AttemptPostgreSQL) ListByUser(ctx context.Context, tx *gorm.DB, userID string, limit int) ([]*models.ExerciseAttempt, error) {
	query := conn(ctx, a.db, tx).Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var attempts []*models.ExerciseAttempt
	if err := query.Find(&attempts).Error; err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	return attempts, nil
}
