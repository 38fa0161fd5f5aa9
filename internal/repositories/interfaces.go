package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/linguaplay/scoring-service/internal/models"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrVersionConflict = errors.New("version conflict")
	ErrDuplicate       = errors.New("duplicate record")
)

// Transactor runs fn inside a database transaction. Repository methods accept
// the tx it passes; a nil tx means "use the default connection".
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type ExerciseFilters struct {
	Type     *models.ExerciseType `json:"type"`
	LessonID *uint                `json:"lesson_id"`
	Limit    int                  `json:"limit"`
	Offset   int                  `json:"offset"`
}

type ExerciseRepository interface {
	Create(ctx context.Context, tx *gorm.DB, exercise *models.Exercise) error
	CreateBatch(ctx context.Context, tx *gorm.DB, exercises []*models.Exercise) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Exercise, error)
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	List(ctx context.Context, tx *gorm.DB, filters ExerciseFilters) ([]*models.Exercise, int64, error)
}

// ProgressRepository persists UserProgressState. Save succeeds only when the
// stored version equals state.Version, and then increments it.
type ProgressRepository interface {
	Get(ctx context.Context, tx *gorm.DB, userID string) (*models.UserProgressState, error)
	Create(ctx context.Context, tx *gorm.DB, state *models.UserProgressState) error
	Save(ctx context.Context, tx *gorm.DB, state *models.UserProgressState) error
	GetMany(ctx context.Context, tx *gorm.DB, userIDs []string) ([]*models.UserProgressState, error)
	TopByPoints(ctx context.Context, tx *gorm.DB, limit int) ([]*models.UserProgressState, error)
}

type AttemptRepository interface {
	Create(ctx context.Context, tx *gorm.DB, attempt *models.ExerciseAttempt) error
	Exists(ctx context.Context, tx *gorm.DB, userID string, exerciseID uint) (bool, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID string, limit int) ([]*models.ExerciseAttempt, error)
}
