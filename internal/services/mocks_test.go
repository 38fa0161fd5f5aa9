package services

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/linguaplay/scoring-service/internal/models"
	"github.com/linguaplay/scoring-service/internal/repositories"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MockExerciseRepository is a mock implementation of ExerciseRepository
type MockExerciseRepository struct {
	mock.Mock
}

func (m *MockExerciseRepository) Create(ctx context.Context, tx *gorm.DB, exercise *models.Exercise) error {
	args := m.Called(ctx, tx, exercise)
	return args.Error(0)
}

func (m *MockExerciseRepository) CreateBatch(ctx context.Context, tx *gorm.DB, exercises []*models.Exercise) error {
	args := m.Called(ctx, tx, exercises)
	return args.Error(0)
}

func (m *MockExerciseRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Exercise, error) {
	args := m.Called(ctx, tx, id)
	if v := args.Get(0); v != nil {
		return v.(*models.Exercise), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockExerciseRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

func (m *MockExerciseRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.ExerciseFilters) ([]*models.Exercise, int64, error) {
	args := m.Called(ctx, tx, filters)
	return args.Get(0).([]*models.Exercise), args.Get(1).(int64), args.Error(2)
}

// MockProgressRepository is a mock implementation of ProgressRepository
type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) Get(ctx context.Context, tx *gorm.DB, userID string) (*models.UserProgressState, error) {
	args := m.Called(ctx, tx, userID)
	if v := args.Get(0); v != nil {
		return v.(*models.UserProgressState), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProgressRepository) Create(ctx context.Context, tx *gorm.DB, state *models.UserProgressState) error {
	args := m.Called(ctx, tx, state)
	return args.Error(0)
}

func (m *MockProgressRepository) Save(ctx context.Context, tx *gorm.DB, state *models.UserProgressState) error {
	args := m.Called(ctx, tx, state)
	return args.Error(0)
}

func (m *MockProgressRepository) GetMany(ctx context.Context, tx *gorm.DB, userIDs []string) ([]*models.UserProgressState, error) {
	args := m.Called(ctx, tx, userIDs)
	return args.Get(0).([]*models.UserProgressState), args.Error(1)
}

func (m *MockProgressRepository) TopByPoints(ctx context.Context, tx *gorm.DB, limit int) ([]*models.UserProgressState, error) {
	args := m.Called(ctx, tx, limit)
	return args.Get(0).([]*models.UserProgressState), args.Error(1)
}

// MockAttemptRepository is a mock implementation of AttemptRepository
type MockAttemptRepository struct {
	mock.Mock
}

func (m *MockAttemptRepository) Create(ctx context.Context, tx *gorm.DB, attempt *models.ExerciseAttempt) error {
	args := m.Called(ctx, tx, attempt)
	return args.Error(0)
}

func (m *MockAttemptRepository) Exists(ctx context.Context, tx *gorm.DB, userID string, exerciseID uint) (bool, error) {
	args := m.Called(ctx, tx, userID, exerciseID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAttemptRepository) ListByUser(ctx context.Context, tx *gorm.DB, userID string, limit int) ([]*models.ExerciseAttempt, error) {
	args := m.Called(ctx, tx, userID, limit)
	return args.Get(0).([]*models.ExerciseAttempt), args.Error(1)
}

// MockExerciseService is a mock implementation of ExerciseService
type MockExerciseService struct {
	mock.Mock
}

func (m *MockExerciseService) Create(ctx context.Context, exercise *models.Exercise) (*models.Exercise, error) {
	args := m.Called(ctx, exercise)
	if v := args.Get(0); v != nil {
		return v.(*models.Exercise), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockExerciseService) GetByID(ctx context.Context, id uint) (*models.Exercise, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*models.Exercise), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockExerciseService) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockExerciseService) List(ctx context.Context, filters repositories.ExerciseFilters) ([]*models.Exercise, int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*models.Exercise), args.Get(1).(int64), args.Error(2)
}

// inlineTransactor runs the callback without a database.
type inlineTransactor struct {
	calls int
}

func (t *inlineTransactor) WithinTransaction(_ context.Context, fn func(tx *gorm.DB) error) error {
	t.calls++
	return fn(nil)
}

// brokenLeaderboard fails every call.
type brokenLeaderboard struct{}

var errRedisDown = errors.New("redis: connection refused")

func (brokenLeaderboard) Update(context.Context, string, int, float64) error {
	return errRedisDown
}

func (brokenLeaderboard) Top(context.Context, int) ([]models.LeaderboardEntry, error) {
	return nil, errRedisDown
}

func (brokenLeaderboard) Rank(context.Context, string) (int, error) {
	return 0, errRedisDown
}

func (brokenLeaderboard) Replace(context.Context, []models.LeaderboardEntry) error {
	return errRedisDown
}
