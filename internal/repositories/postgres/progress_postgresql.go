package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/linguaplay/scoring-service/internal/models"
	"github.com/linguaplay/scoring-service/internal/repositories"
)

type ProgressPostgreSQL struct {
	db *gorm.DB
}

func NewProgressPostgreSQL(db *gorm.DB) repositories.ProgressRepository {
	return &ProgressPostgreSQL{db: db}
}

func (p *ProgressPostgreSQL) Get(ctx context.Context, tx *gorm.DB, userID string) (*models.UserProgressState, error) {
	var state models.UserProgressState
	if err := conn(ctx, p.db, tx).Where("user_id = ?", userID).First(&state).Error; err != nil {
		return nil, translate(err)
	}
	return &state, nil
}

// Create inserts a learner's first state. A concurrent insert for the same
// learner surfaces as ErrVersionConflict.
func (p *ProgressPostgreSQL) Create(ctx context.Context, tx *gorm.DB, state *models.UserProgressState) error {
	state.Version = 1
	err := translate(conn(ctx, p.db, tx).Create(state).Error)
	if errors.Is(err, repositories.ErrDuplicate) {
		state.Version = 0
		return repositories.ErrVersionConflict
	}
	if err != nil {
		state.Version = 0
		return fmt.Errorf("failed to create progress: %w", err)
	}
	return nil
}

func (p *ProgressPostgreSQL) Save(ctx context.Context, tx *gorm.DB, state *models.UserProgressState) error {
	expected := state.Version
	state.Version = expected + 1

	result := conn(ctx, p.db, tx).
		Model(&models.UserProgressState{}).
		Where("user_id = ? AND version = ?", state.UserID, expected).
		Select("*").
		Omit("user_id", "created_at").
		Updates(state)
	if result.Error != nil {
		state.Version = expected
		return fmt.Errorf("failed to save progress: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		state.Version = expected
		return repositories.ErrVersionConflict
	}
	return nil
}

func (p *ProgressPostgreSQL) GetMany(ctx context.Context, tx *gorm.DB, userIDs []string) ([]*models.UserProgressState, error) {
	var states []*models.UserProgressState
	if len(userIDs) == 0 {
		return states, nil
	}
	if err := conn(ctx, p.db, tx).Where("user_id IN ?", userIDs).Order("user_id ASC").Find(&states).Error; err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}
	return states, nil
}

// TopByPoints orders by total points, then accuracy.
func (p *ProgressPostgreSQL) TopByPoints(ctx context.Context, tx *gorm.DB, limit int) ([]*models.UserProgressState, error) {
	query := conn(ctx, p.db, tx).Order("total_points DESC, accuracy DESC, user_id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var states []*models.UserProgressState
	if err := query.Find(&states).Error; err != nil {
		return nil, fmt.Errorf("failed to rank progress: %w", err)
	}
	return states, nil
}
