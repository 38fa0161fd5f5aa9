package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/stretchr/testify/mock"

	"github.com/linguaplay/scoring-service/internal/models"
	"github.com/linguaplay/scoring-service/internal/repositories"
	"github.com/linguaplay/scoring-service/internal/scoring"
	"github.com/linguaplay/scoring-service/internal/services"
	"github.com/linguaplay/scoring-service/internal/utils"
	"github.com/linguaplay/scoring-service/internal/validator"
)

func discardLogger() utils.Logger {
	return utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type MockSubmissionService struct {
	mock.Mock
}

func (m *MockSubmissionService) SubmitAnswer(ctx context.Context, userID string, req *models.Submission) (*services.SubmissionResponse, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.SubmissionResponse), args.Error(1)
}

type MockProgressService struct {
	mock.Mock
}

func (m *MockProgressService) GetProgress(ctx context.Context, userID string) (*services.ProgressView, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ProgressView), args.Error(1)
}

func (m *MockProgressService) GetAchievements(ctx context.Context, userID string) ([]models.Achievement, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Achievement), args.Error(1)
}

func (m *MockProgressService) GetLeaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.LeaderboardEntry), args.Error(1)
}

func (m *MockProgressService) GetAttempts(ctx context.Context, userID string, limit int) ([]*models.ExerciseAttempt, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ExerciseAttempt), args.Error(1)
}

func (m *MockProgressService) RebuildLeaderboard(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockExerciseService struct {
	mock.Mock
}

func (m *MockExerciseService) Create(ctx context.Context, exercise *models.Exercise) (*models.Exercise, error) {
	args := m.Called(ctx, exercise)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Exercise), args.Error(1)
}

func (m *MockExerciseService) GetByID(ctx context.Context, id uint) (*models.Exercise, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Exercise), args.Error(1)
}

func (m *MockExerciseService) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockExerciseService) List(ctx context.Context, filters repositories.ExerciseFilters) ([]*models.Exercise, int64, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Exercise), args.Get(1).(int64), args.Error(2)
}

type MockImportExportService struct {
	mock.Mock
}

func (m *MockImportExportService) ImportExercisesFromFile(ctx context.Context, file multipart.File, filename string) (*models.ImportSummary, error) {
	args := m.Called(ctx, file, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ImportSummary), args.Error(1)
}

func (m *MockImportExportService) ImportExercisesFromCSV(ctx context.Context, reader io.Reader) (*models.ImportSummary, error) {
	args := m.Called(ctx, reader)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ImportSummary), args.Error(1)
}

func (m *MockImportExportService) ImportExercisesFromExcel(ctx context.Context, reader io.Reader) (*models.ImportSummary, error) {
	args := m.Called(ctx, reader)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ImportSummary), args.Error(1)
}

func (m *MockImportExportService) ExportProgressReport(ctx context.Context, userIDs []string) ([]byte, error) {
	args := m.Called(ctx, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// testServices wires a real scoring service next to mocked stateful services.
type testServices struct {
	scoring      services.ScoringService
	submission   *MockSubmissionService
	progress     *MockProgressService
	exercise     *MockExerciseService
	importExport *MockImportExportService
}

func newTestServices() *testServices {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &testServices{
		scoring:      services.NewScoringService(scoring.NewEngine(nil, nil), validator.New(), logger),
		submission:   &MockSubmissionService{},
		progress:     &MockProgressService{},
		exercise:     &MockExerciseService{},
		importExport: &MockImportExportService{},
	}
}

func (s *testServices) Scoring() services.ScoringService           { return s.scoring }
func (s *testServices) Submission() services.SubmissionService     { return s.submission }
func (s *testServices) Progress() services.ProgressService         { return s.progress }
func (s *testServices) Exercise() services.ExerciseService         { return s.exercise }
func (s *testServices) ImportExport() services.ImportExportService { return s.importExport }

var errInvalidToken = errors.New("token signature is invalid")

// fakeVerifier accepts only the tokens it maps to claims.
type fakeVerifier map[string]*casdoorsdk.Claims

func (v fakeVerifier) ParseJwtToken(token string) (*casdoorsdk.Claims, error) {
	claims, ok := v[token]
	if !ok {
		return nil, errInvalidToken
	}
	return claims, nil
}
