package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/linguaplay/scoring-service/internal/cache"
	"github.com/linguaplay/scoring-service/internal/models"
	"github.com/linguaplay/scoring-service/internal/repositories"
	"github.com/linguaplay/scoring-service/internal/validator"
)

func newExerciseService(repo *MockExerciseRepository, c cache.CacheService) ExerciseService {
	return NewExerciseService(repo, c, time.Minute, validator.New(), discardLogger())
}

func TestExerciseService_GetByIDReadsThroughCache(t *testing.T) {
	ctx := context.Background()
	repo := new(MockExerciseRepository)
	memory := cache.NewMemoryCache()
	svc := newExerciseService(repo, memory)

	repo.On("GetByID", mock.Anything, mock.Anything, uint(7)).Return(multipleChoice(), nil).Once()

	first, err := svc.GetByID(ctx, 7)
	require.NoError(t, err)
	second, err := svc.GetByID(ctx, 7)
	require.NoError(t, err)

	assert.Equal(t, first.Prompt, second.Prompt)
	assert.JSONEq(t, `1`, string(second.CorrectAnswer))
	repo.AssertNumberOfCalls(t, "GetByID", 1)
}

func TestExerciseService_GetByIDNotFound(t *testing.T) {
	repo := new(MockExerciseRepository)
	repo.On("GetByID", mock.Anything, mock.Anything, uint(404)).Return(nil, repositories.ErrNotFound)

	_, err := newExerciseService(repo, nil).GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrExerciseNotFound)
}

func TestExerciseService_Create(t *testing.T) {
	tests := []struct {
		name      string
		exercise  *models.Exercise
		wantSaved bool
	}{
		{
			name:      "valid multiple choice",
			exercise:  multipleChoice(),
			wantSaved: true,
		},
		{
			name: "unsupported type",
			exercise: &models.Exercise{
				Type: "crossword", Prompt: "?", CorrectAnswer: datatypes.JSON(`1`),
			},
		},
		{
			name: "answer index out of range",
			exercise: &models.Exercise{
				Type: models.MultipleChoice, Prompt: "?",
				Options:       datatypes.JSONSlice[string]{"a", "b"},
				CorrectAnswer: datatypes.JSON(`5`),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockExerciseRepository)
			if tt.wantSaved {
				repo.On("Create", mock.Anything, mock.Anything, tt.exercise).Return(nil)
			}

			created, err := newExerciseService(repo, nil).Create(context.Background(), tt.exercise)
			if tt.wantSaved {
				require.NoError(t, err)
				assert.Same(t, tt.exercise, created)
			} else {
				assert.True(t, IsValidation(err))
				repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestExerciseService_DeleteInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	repo := new(MockExerciseRepository)
	memory := cache.NewMemoryCache()
	require.NoError(t, memory.Set(ctx, cache.ExerciseKey(7), multipleChoice(), time.Minute))

	repo.On("Delete", mock.Anything, mock.Anything, uint(7)).Return(nil)
	repo.On("Delete", mock.Anything, mock.Anything, uint(8)).Return(repositories.ErrNotFound)
	svc := newExerciseService(repo, memory)

	require.NoError(t, svc.Delete(ctx, 7))
	var cached models.Exercise
	assert.ErrorIs(t, memory.Get(ctx, cache.ExerciseKey(7), &cached), cache.ErrCacheMiss)

	assert.ErrorIs(t, svc.Delete(ctx, 8), ErrExerciseNotFound)
}

func TestExerciseService_ListRejectsUnknownType(t *testing.T) {
	unknown := models.ExerciseType("crossword")
	_, _, err := newExerciseService(new(MockExerciseRepository), nil).
		List(context.Background(), repositories.ExerciseFilters{Type: &unknown})
	assert.True(t, IsValidation(err))
}
